package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/mcruz/enrollsys/internal/app/models"
	"github.com/mcruz/enrollsys/internal/app/models/dto"
	"github.com/mcruz/enrollsys/internal/pkg/apperrors"
	"github.com/mcruz/enrollsys/internal/pkg/auth"
)

type authCredentialStore interface {
	GetByEmail(ctx context.Context, email string) (*models.Credential, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	CreateTx(ctx context.Context, tx pgx.Tx, credential *models.Credential) error
}

type authProfileStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Profile, error)
	CreateTx(ctx context.Context, tx pgx.Tx, profile *models.Profile) error
}

// AuthService handles credential verification and account administration
type AuthService struct {
	runTx          txRunner
	credentialRepo authCredentialStore
	profileRepo    authProfileStore
	sessionService *auth.SessionService
	logger         zerolog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(
	pool *pgxpool.Pool,
	credentialRepo authCredentialStore,
	profileRepo authProfileStore,
	sessionService *auth.SessionService,
	logger zerolog.Logger,
) *AuthService {
	return &AuthService{
		runTx:          poolTxRunner(pool),
		credentialRepo: credentialRepo,
		profileRepo:    profileRepo,
		sessionService: sessionService,
		logger:         logger,
	}
}

// Login verifies credentials and returns the session token plus the identity
// payload the client needs to route itself. A missing profile does not block
// login; the account falls back to the student role.
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (token string, resp *dto.LoginResponse, err error) {
	emailAddr := strings.ToLower(strings.TrimSpace(req.Email))

	credential, err := s.credentialRepo.GetByEmail(ctx, emailAddr)
	if err != nil {
		return "", nil, err
	}

	if !auth.CheckPassword(credential.PasswordHash, req.Password) {
		return "", nil, apperrors.ErrInvalidCredentials
	}

	user := dto.SessionUser{
		ID:    credential.ID.String(),
		Email: credential.Email,
		Role:  string(models.RoleStudent),
	}

	profile, err := s.profileRepo.GetByID(ctx, credential.ID)
	switch {
	case err == nil:
		user.FullName = profile.FullName
		user.Role = string(profile.Role)
	case errors.Is(err, apperrors.ErrProfileNotFound):
		s.logger.Warn().Str("userId", user.ID).Msg("Credential has no profile, defaulting to student role")
	default:
		return "", nil, err
	}

	token, _, err = s.sessionService.Generate(user.ID, user.Email, user.Role)
	if err != nil {
		return "", nil, err
	}

	s.logger.Info().Str("userId", user.ID).Str("role", user.Role).Msg("User logged in")

	return token, &dto.LoginResponse{
		Success:    true,
		User:       user,
		RedirectTo: "/" + user.Role,
	}, nil
}

// UpdatePassword changes the caller's password after verifying the current one
func (s *AuthService) UpdatePassword(ctx context.Context, userID uuid.UUID, req *dto.UpdatePasswordRequest) error {
	if len(req.NewPassword) < auth.MinPasswordLength {
		return apperrors.ErrInvalidPassword
	}

	profile, err := s.profileRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	credential, err := s.credentialRepo.GetByEmail(ctx, profile.Email)
	if err != nil {
		return err
	}

	if !auth.CheckPassword(credential.PasswordHash, req.CurrentPassword) {
		return apperrors.ErrInvalidCredentials
	}

	passwordHash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.credentialRepo.UpdatePassword(ctx, credential.ID, passwordHash); err != nil {
		return err
	}

	s.logger.Info().Str("userId", userID.String()).Msg("Password updated")
	return nil
}

// CreateUser is the admin path for provisioning staff accounts directly,
// bypassing the invitation flow. The credential is created pre-confirmed and
// the profile carries the requested role. Both inserts share a transaction.
func (s *AuthService) CreateUser(ctx context.Context, req *dto.CreateUserRequest) (*models.Profile, error) {
	role := models.Role(req.Role)
	if !role.Valid() {
		return nil, apperrors.ErrInvalidRole
	}
	if len(req.Password) < auth.MinPasswordLength {
		return nil, apperrors.ErrInvalidPassword
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	emailAddr := strings.ToLower(strings.TrimSpace(req.Email))
	credential := &models.Credential{
		ID:             uuid.New(),
		Email:          emailAddr,
		PasswordHash:   passwordHash,
		EmailConfirmed: true,
	}
	profile := &models.Profile{
		ID:    credential.ID,
		Email: emailAddr,
		Role:  role,
	}
	if name := strings.TrimSpace(req.FullName); name != "" {
		profile.FullName = &name
	}

	err = s.runTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if err := s.credentialRepo.CreateTx(ctx, tx, credential); err != nil {
			return err
		}
		return s.profileRepo.CreateTx(ctx, tx, profile)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("userId", credential.ID.String()).
		Str("role", string(role)).
		Msg("User created by administrator")

	return profile, nil
}
