package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mcruz/enrollsys/internal/app/models"
	"github.com/mcruz/enrollsys/internal/app/models/dto"
	"github.com/mcruz/enrollsys/internal/pkg/apperrors"
)

type profileStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Profile, error)
	List(ctx context.Context, role, search string) ([]*models.Profile, error)
	Update(ctx context.Context, id uuid.UUID, fullName *string, role models.Role) error
	UpdateRole(ctx context.Context, id uuid.UUID, role models.Role) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountByRole(ctx context.Context) (map[string]int64, error)
}

type candidateStatsStore interface {
	Stats(ctx context.Context) (*dto.CandidateStats, error)
}

type counter interface {
	Count(ctx context.Context) (int64, error)
}

// UserService manages user profiles and produces the dashboard summary
type UserService struct {
	profileRepo   profileStore
	candidateRepo candidateStatsStore
	subjectRepo   counter
	documentRepo  counter
	logger        zerolog.Logger
}

// NewUserService creates a new UserService
func NewUserService(
	profileRepo profileStore,
	candidateRepo candidateStatsStore,
	subjectRepo counter,
	documentRepo counter,
	logger zerolog.Logger,
) *UserService {
	return &UserService{
		profileRepo:   profileRepo,
		candidateRepo: candidateRepo,
		subjectRepo:   subjectRepo,
		documentRepo:  documentRepo,
		logger:        logger,
	}
}

// GetByID retrieves a single profile
func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	return s.profileRepo.GetByID(ctx, id)
}

// List returns profiles filtered by role and search text
func (s *UserService) List(ctx context.Context, role, search string) ([]*models.Profile, error) {
	if role != "" && !models.Role(role).Valid() {
		return nil, apperrors.ErrInvalidRole
	}
	return s.profileRepo.List(ctx, role, search)
}

// Update edits a profile's display name and role
func (s *UserService) Update(ctx context.Context, id uuid.UUID, req *dto.UpdateProfileRequest) (*models.Profile, error) {
	role := models.Role(req.Role)
	if !role.Valid() {
		return nil, apperrors.ErrInvalidRole
	}

	var fullName *string
	if name := strings.TrimSpace(req.FullName); name != "" {
		fullName = &name
	}

	if err := s.profileRepo.Update(ctx, id, fullName, role); err != nil {
		return nil, err
	}

	return s.profileRepo.GetByID(ctx, id)
}

// UpdateRole changes a profile's role only
func (s *UserService) UpdateRole(ctx context.Context, id uuid.UUID, role string) error {
	r := models.Role(role)
	if !r.Valid() {
		return apperrors.ErrInvalidRole
	}

	if err := s.profileRepo.UpdateRole(ctx, id, r); err != nil {
		return err
	}

	s.logger.Info().Str("userId", id.String()).Str("role", role).Msg("User role changed")
	return nil
}

// Delete removes a profile. The matching credential is left in place: the
// account loses its portal role but keeps its login, matching how staff
// offboarding is handled before a full account purge.
func (s *UserService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.profileRepo.Delete(ctx, id)
}

// DashboardStats aggregates the counters shown on the admin dashboard
func (s *UserService) DashboardStats(ctx context.Context) (*dto.DashboardStats, error) {
	candidateStats, err := s.candidateRepo.Stats(ctx)
	if err != nil {
		return nil, err
	}

	usersByRole, err := s.profileRepo.CountByRole(ctx)
	if err != nil {
		return nil, err
	}

	subjects, err := s.subjectRepo.Count(ctx)
	if err != nil {
		return nil, err
	}

	documents, err := s.documentRepo.Count(ctx)
	if err != nil {
		return nil, err
	}

	return &dto.DashboardStats{
		Candidates:  *candidateStats,
		UsersByRole: usersByRole,
		Subjects:    subjects,
		Documents:   documents,
		GeneratedAt: time.Now(),
	}, nil
}
