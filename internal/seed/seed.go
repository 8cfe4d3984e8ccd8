package seed

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/mcruz/enrollsys/internal/app/models"
	"github.com/mcruz/enrollsys/internal/app/repositories"
	"github.com/mcruz/enrollsys/internal/pkg/apperrors"
	"github.com/mcruz/enrollsys/internal/pkg/auth"
)

// DefaultAdminEmail is the bootstrap administrator account
const DefaultAdminEmail = "admin@enrollsys.local"

// CreateDefaultData seeds the bootstrap admin account and a starter subject
// catalog. Every insert tolerates already-existing rows so the seed can run
// on every startup.
func CreateDefaultData(ctx context.Context, dbPool *pgxpool.Pool, adminPassword string, lgr zerolog.Logger) error {
	credentialRepo := repositories.NewCredentialRepository(dbPool)
	profileRepo := repositories.NewProfileRepository(dbPool)
	subjectRepo := repositories.NewSubjectRepository(dbPool)

	var finalErr error

	if adminPassword != "" {
		if err := seedAdmin(ctx, credentialRepo, profileRepo, adminPassword, lgr); err != nil {
			finalErr = errors.Join(finalErr, err)
		}
	} else {
		lgr.Warn().Msg("No admin seed password configured, skipping default admin account")
	}

	starterSubjects := []*models.Subject{
		{Code: "GE101", Title: "Understanding the Self", Units: 3},
		{Code: "GE102", Title: "Purposive Communication", Units: 3},
		{Code: "MATH101", Title: "Mathematics in the Modern World", Units: 3},
	}
	for _, subject := range starterSubjects {
		err := subjectRepo.Create(ctx, subject)
		if err != nil && !errors.Is(err, apperrors.ErrSubjectCodeExists) {
			lgr.Error().Err(err).Str("code", subject.Code).Msg("Error seeding subject")
			finalErr = errors.Join(finalErr, err)
		}
	}

	return finalErr
}

func seedAdmin(ctx context.Context, credentialRepo *repositories.CredentialRepository, profileRepo *repositories.ProfileRepository, password string, lgr zerolog.Logger) error {
	exists, err := credentialRepo.EmailExists(ctx, DefaultAdminEmail)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	passwordHash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	credential := &models.Credential{
		ID:             uuid.New(),
		Email:          DefaultAdminEmail,
		PasswordHash:   passwordHash,
		EmailConfirmed: true,
	}
	if err := credentialRepo.Create(ctx, credential); err != nil {
		if errors.Is(err, apperrors.ErrEmailAlreadyExists) {
			return nil
		}
		return err
	}

	fullName := "Portal Administrator"
	profile := &models.Profile{
		ID:       credential.ID,
		Email:    credential.Email,
		FullName: &fullName,
		Role:     models.RoleAdmin,
	}
	if err := profileRepo.Create(ctx, profile); err != nil {
		return err
	}

	lgr.Info().Str("email", DefaultAdminEmail).Msg("Default admin account created")
	return nil
}
