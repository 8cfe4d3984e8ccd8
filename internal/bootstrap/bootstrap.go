package bootstrap

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appControllers "github.com/mcruz/enrollsys/internal/app/controllers"
	appMigrations "github.com/mcruz/enrollsys/internal/app/migrations"
	appRepos "github.com/mcruz/enrollsys/internal/app/repositories"
	appRoutes "github.com/mcruz/enrollsys/internal/app/routes"
	appServices "github.com/mcruz/enrollsys/internal/app/services"
	"github.com/mcruz/enrollsys/internal/config"
	"github.com/mcruz/enrollsys/internal/db"
	appMiddleware "github.com/mcruz/enrollsys/internal/middleware"
	pkgAuth "github.com/mcruz/enrollsys/internal/pkg/auth"
	"github.com/mcruz/enrollsys/internal/pkg/email"
	"github.com/mcruz/enrollsys/internal/pkg/helpers"
	"github.com/mcruz/enrollsys/internal/pkg/logger"
	"github.com/mcruz/enrollsys/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	Repos                *appRepos.Repositories
	SessionService       *pkgAuth.SessionService
	EmailSender          email.Sender
	AuthService          *appServices.AuthService
	InvitationService    *appServices.InvitationService
	CandidateService     *appServices.CandidateService
	UserService          *appServices.UserService
	CatalogService       *appServices.CatalogService
	AuthController       *appControllers.AuthController
	InvitationController *appControllers.InvitationController
	CandidateController  *appControllers.CandidateController
	UserController       *appControllers.UserController
	CatalogController    *appControllers.CatalogController
	PageController       *appControllers.PageController
	SessionMiddleware    *appMiddleware.SessionMiddleware
	Logger               zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection, runs migrations and
// seeds the default data.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	dbPool := database.Pool

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := dbPool.Ping(ctx); err != nil {
		lgr.Error().Err(err).Msg("Failed to ping database")
		dbPool.Close()
		return nil, err
	}

	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(dbPool)
	if err := migrator.Run(context.Background()); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		dbPool.Close()
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}

	if err := seed.CreateDefaultData(context.Background(), dbPool, cfg.Seed.AdminPassword, lgr); err != nil {
		// Seeding is best-effort; a partial seed is not fatal
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway")
	}

	return dbPool, nil
}

// BuildDependencies initializes repositories, services, controllers and
// middleware.
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(dbPool)

	sessionTTL := helpers.ParseDuration(cfg.Session.Expiration, 12*time.Hour)
	deps.SessionService = pkgAuth.NewSessionService(pkgAuth.SessionConfig{
		SecretKey:   cfg.Session.Secret,
		SessionExp:  sessionTTL,
		TokenIssuer: cfg.Session.Issuer,
	})

	deps.EmailSender = email.NewSMTPSender(email.SMTPConfig{
		Host:      cfg.SMTP.Host,
		Port:      cfg.SMTP.Port,
		Username:  cfg.SMTP.Username,
		Password:  cfg.SMTP.Password,
		FromName:  cfg.SMTP.FromName,
		FromEmail: cfg.SMTP.FromEmail,
		UseTLS:    cfg.SMTP.UseTLS,
	}, lgr)

	tokenTTL := helpers.ParseDuration(cfg.Invitation.TokenTTL, 168*time.Hour)

	deps.AuthService = appServices.NewAuthService(
		dbPool,
		deps.Repos.Credential,
		deps.Repos.Profile,
		deps.SessionService,
		lgr,
	)
	deps.InvitationService = appServices.NewInvitationService(
		dbPool,
		deps.Repos.Candidate,
		deps.Repos.Credential,
		deps.Repos.Profile,
		deps.EmailSender,
		cfg.Server.BaseURL,
		tokenTTL,
		lgr,
	)
	deps.CandidateService = appServices.NewCandidateService(deps.Repos.Candidate, lgr)
	deps.UserService = appServices.NewUserService(
		deps.Repos.Profile,
		deps.Repos.Candidate,
		deps.Repos.Subject,
		deps.Repos.Document,
		lgr,
	)
	deps.CatalogService = appServices.NewCatalogService(deps.Repos.Subject, deps.Repos.Document, lgr)

	deps.SessionMiddleware = appMiddleware.NewSessionMiddleware(deps.SessionService, deps.Repos.Profile)

	secureCookie := strings.ToLower(cfg.Server.Mode) == "production"
	deps.AuthController = appControllers.NewAuthController(deps.AuthService, sessionTTL, secureCookie)
	deps.InvitationController = appControllers.NewInvitationController(deps.InvitationService)
	deps.CandidateController = appControllers.NewCandidateController(deps.CandidateService)
	deps.UserController = appControllers.NewUserController(deps.UserService)
	deps.CatalogController = appControllers.NewCatalogController(deps.CatalogService)
	deps.PageController = appControllers.NewPageController()

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.Default()

	appRoutes.SetupRouter(router,
		deps.AuthController,
		deps.InvitationController,
		deps.CandidateController,
		deps.UserController,
		deps.CatalogController,
		deps.PageController,
		deps.SessionMiddleware,
	)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong", "status": "success"})
	})

	return router
}
