package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/mcruz/enrollsys/internal/app/controllers"
	"github.com/mcruz/enrollsys/internal/app/models"
	"github.com/mcruz/enrollsys/internal/app/models/dto"
	"github.com/mcruz/enrollsys/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	invitationController *controllers.InvitationController,
	candidateController *controllers.CandidateController,
	userController *controllers.UserController,
	catalogController *controllers.CatalogController,
	pageController *controllers.PageController,
	sessionMiddleware *middleware.SessionMiddleware,
) {
	// Every request gets its session resolved exactly once; guards below
	// only inspect the result.
	router.Use(sessionMiddleware.Resolve())

	// Swagger UI
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := router.Group("/api")

	// --- Public auth and activation routes ---
	auth := api.Group("/auth")
	{
		auth.POST("/login", authController.Login)
		auth.POST("/logout", authController.Logout)
		auth.POST("/complete-registration", invitationController.CompleteRegistration)
	}
	api.GET("/activate", invitationController.Activate)

	api.GET("/health", func(c *gin.Context) {
		c.JSON(200, dto.APIResponse{
			Data:      gin.H{"status": "ok"},
			Timestamp: time.Now(),
		})
	})

	// --- Authenticated routes ---
	authenticated := api.Group("")
	authenticated.Use(sessionMiddleware.RequireAPIAuth())
	{
		authenticated.GET("/auth/me", authController.Me)
		authenticated.POST("/auth/update-password", authController.UpdatePassword)

		// Subjects and document requirements are readable by any signed-in
		// user; only officers and admins may change them.
		authenticated.GET("/subjects", catalogController.ListSubjects)
		authenticated.GET("/documents", catalogController.ListDocuments)
	}

	// --- Officer routes (officer or admin) ---
	officer := api.Group("")
	officer.Use(sessionMiddleware.RequireAPIRole(models.RoleOfficer, models.RoleAdmin))
	{
		candidates := officer.Group("/candidates")
		{
			candidates.GET("", candidateController.List)
			candidates.POST("", candidateController.Create)
			candidates.GET("/stats", candidateController.Stats)
			candidates.POST("/import", candidateController.Import)
			candidates.GET("/:id", candidateController.Get)
			candidates.PUT("/:id", candidateController.Update)
			candidates.PATCH("/:id/status", candidateController.UpdateStatus)
			candidates.DELETE("/:id", candidateController.Delete)
		}

		officer.POST("/subjects", catalogController.CreateSubject)
		officer.PUT("/subjects/:id", catalogController.UpdateSubject)
		officer.DELETE("/subjects/:id", catalogController.DeleteSubject)

		officer.POST("/documents", catalogController.CreateDocument)
		officer.PUT("/documents/:id", catalogController.UpdateDocument)
		officer.DELETE("/documents/:id", catalogController.DeleteDocument)
	}

	// --- Admin routes ---
	admin := api.Group("/admin")
	admin.Use(sessionMiddleware.RequireAPIRole(models.RoleAdmin))
	{
		admin.POST("/send-invitation", invitationController.SendInvitation)
		admin.GET("/dashboard", userController.Dashboard)

		users := admin.Group("/users")
		{
			users.GET("", userController.List)
			users.POST("", authController.CreateUser)
			users.GET("/:id", userController.Get)
			users.PUT("/:id", userController.Update)
			users.PATCH("/:id/role", userController.UpdateRole)
			users.DELETE("/:id", userController.Delete)
		}
	}

	// --- Browser pages ---
	router.GET("/", pageController.Root)
	router.GET("/login", sessionMiddleware.RedirectIfAuthenticated(), pageController.Login)
	router.GET("/activate", pageController.Activate)
	router.GET("/register", pageController.Register)
	router.GET("/auth/callback", pageController.AuthCallback)
	router.GET("/update-password", sessionMiddleware.RequirePageRole(), pageController.UpdatePassword)

	// Role areas. A single catch-all per area keeps client-side deep links
	// working; bare "/admin" reaches it through gin's trailing slash
	// redirect. The guard in front enforces the access table.
	router.GET("/admin/*page",
		sessionMiddleware.RequirePageRole(models.RoleAdmin), pageController.Area("admin"))
	router.GET("/officer/*page",
		sessionMiddleware.RequirePageRole(models.RoleOfficer, models.RoleAdmin), pageController.Area("officer"))
	router.GET("/faculty/*page",
		sessionMiddleware.RequirePageRole(models.RoleFaculty, models.RoleAdmin), pageController.Area("faculty"))
	router.GET("/student/*page",
		sessionMiddleware.RequirePageRole(), pageController.Area("student"))
}
