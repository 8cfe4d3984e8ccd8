package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mcruz/enrollsys/internal/app/models/dto"
	"github.com/mcruz/enrollsys/internal/app/services"
	"github.com/mcruz/enrollsys/internal/middleware"
)

// AuthController handles login, logout and account maintenance endpoints
type AuthController struct {
	authService  *services.AuthService
	sessionTTL   time.Duration
	secureCookie bool
}

// NewAuthController creates a new AuthController
func NewAuthController(authService *services.AuthService, sessionTTL time.Duration, secureCookie bool) *AuthController {
	return &AuthController{
		authService:  authService,
		sessionTTL:   sessionTTL,
		secureCookie: secureCookie,
	}
}

func (c *AuthController) setSessionCookie(ctx *gin.Context, token string, maxAge int) {
	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(middleware.SessionCookieName, token, maxAge, "/", "", c.secureCookie, true)
}

// Login authenticates a user and starts a session
// @Summary Log in
// @Description Verifies credentials, sets the session cookie and returns the caller's role area
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Credentials"
// @Success 200 {object} dto.LoginResponse "Logged in"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Invalid email or password"
// @Router /auth/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req dto.LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		bindingError(ctx, err)
		return
	}

	token, resp, err := c.authService.Login(ctx, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.setSessionCookie(ctx, token, int(c.sessionTTL.Seconds()))
	ctx.JSON(http.StatusOK, resp)
}

// Logout ends the session
// @Summary Log out
// @Description Clears the session cookie
// @Tags auth
// @Produce json
// @Success 200 {object} dto.SuccessResponse "Logged out"
// @Router /auth/logout [post]
func (c *AuthController) Logout(ctx *gin.Context) {
	c.setSessionCookie(ctx, "", -1)
	ctx.JSON(http.StatusOK, dto.SuccessResponse{Success: true, Message: "Logged out"})
}

// Me returns the authenticated identity resolved from the session
// @Summary Current session
// @Description Returns the caller's identity and role
// @Tags auth
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.SessionUser} "Session identity"
// @Failure 401 {object} dto.ErrorResponse "Not authenticated"
// @Router /auth/me [get]
func (c *AuthController) Me(ctx *gin.Context) {
	claims, ok := middleware.SessionFromContext(ctx)
	if !ok {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: dto.SessionUser{
			ID:    claims.UserID,
			Email: claims.Email,
			Role:  claims.Role,
		},
		Timestamp: time.Now(),
	})
}

// UpdatePassword changes the caller's password
// @Summary Update password
// @Description Verifies the current password and replaces it with a new one
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.UpdatePasswordRequest true "Current and new password"
// @Success 200 {object} dto.SuccessResponse "Password updated"
// @Failure 400 {object} dto.ErrorResponse "Password too short"
// @Failure 401 {object} dto.ErrorResponse "Wrong current password"
// @Router /auth/update-password [post]
func (c *AuthController) UpdatePassword(ctx *gin.Context) {
	claims, ok := middleware.SessionFromContext(ctx)
	if !ok {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
		return
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeInvalidToken, "Session identity is malformed")
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
		return
	}

	var req dto.UpdatePasswordRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		bindingError(ctx, err)
		return
	}

	if err := c.authService.UpdatePassword(ctx, userID, &req); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.SuccessResponse{Success: true, Message: "Password updated"})
}

// CreateUser provisions an account with an explicit role (admin only)
// @Summary Create user
// @Description Creates a pre-confirmed credential and a profile with the given role
// @Tags users
// @Accept json
// @Produce json
// @Param request body dto.CreateUserRequest true "Account details"
// @Success 201 {object} dto.APIResponse{data=models.Profile} "User created"
// @Failure 400 {object} dto.ErrorResponse "Invalid role or password"
// @Failure 409 {object} dto.ErrorResponse "Email already has an account"
// @Router /admin/users [post]
func (c *AuthController) CreateUser(ctx *gin.Context) {
	var req dto.CreateUserRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		bindingError(ctx, err)
		return
	}

	profile, err := c.authService.CreateUser(ctx, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data:      profile,
		Timestamp: time.Now(),
	})
}
