package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcruz/enrollsys/internal/app/models"
	"github.com/mcruz/enrollsys/internal/app/models/dto"
	"github.com/mcruz/enrollsys/internal/pkg/apperrors"
)

type fakeUserProfileStore struct {
	profiles map[uuid.UUID]*models.Profile

	updatedRole models.Role
	deletedID   uuid.UUID
}

func (f *fakeUserProfileStore) GetByID(_ context.Context, id uuid.UUID) (*models.Profile, error) {
	if p, ok := f.profiles[id]; ok {
		return p, nil
	}
	return nil, apperrors.ErrProfileNotFound
}

func (f *fakeUserProfileStore) List(_ context.Context, role, _ string) ([]*models.Profile, error) {
	var out []*models.Profile
	for _, p := range f.profiles {
		if role == "" || string(p.Role) == role {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeUserProfileStore) Update(_ context.Context, id uuid.UUID, fullName *string, role models.Role) error {
	p, ok := f.profiles[id]
	if !ok {
		return apperrors.ErrProfileNotFound
	}
	p.FullName = fullName
	p.Role = role
	return nil
}

func (f *fakeUserProfileStore) UpdateRole(_ context.Context, id uuid.UUID, role models.Role) error {
	f.updatedRole = role
	return nil
}

func (f *fakeUserProfileStore) Delete(_ context.Context, id uuid.UUID) error {
	f.deletedID = id
	delete(f.profiles, id)
	return nil
}

func (f *fakeUserProfileStore) CountByRole(_ context.Context) (map[string]int64, error) {
	counts := make(map[string]int64)
	for _, p := range f.profiles {
		counts[string(p.Role)]++
	}
	return counts, nil
}

type fakeCandidateStats struct{ stats dto.CandidateStats }

func (f *fakeCandidateStats) Stats(_ context.Context) (*dto.CandidateStats, error) {
	return &f.stats, nil
}

type fixedCounter int64

func (c fixedCounter) Count(_ context.Context) (int64, error) { return int64(c), nil }

func newUserFixture() (*UserService, *fakeUserProfileStore, uuid.UUID) {
	id := uuid.New()
	name := "Pat Cruz"
	profiles := &fakeUserProfileStore{profiles: map[uuid.UUID]*models.Profile{
		id: {ID: id, Email: "pat@example.com", FullName: &name, Role: models.RoleFaculty},
	}}
	svc := NewUserService(
		profiles,
		&fakeCandidateStats{stats: dto.CandidateStats{Total: 40, Pending: 10, Approved: 25, Rejected: 5, Invited: 20}},
		fixedCounter(12),
		fixedCounter(7),
		zerolog.Nop(),
	)
	return svc, profiles, id
}

func TestListUsersRejectsUnknownRole(t *testing.T) {
	svc, _, _ := newUserFixture()

	_, err := svc.List(context.Background(), "superuser", "")
	assert.ErrorIs(t, err, apperrors.ErrInvalidRole)

	profiles, err := svc.List(context.Background(), "faculty", "")
	require.NoError(t, err)
	assert.Len(t, profiles, 1)
}

func TestUpdateUserRole(t *testing.T) {
	svc, profiles, id := newUserFixture()

	require.NoError(t, svc.UpdateRole(context.Background(), id, "officer"))
	assert.Equal(t, models.RoleOfficer, profiles.updatedRole)

	err := svc.UpdateRole(context.Background(), id, "root")
	assert.ErrorIs(t, err, apperrors.ErrInvalidRole)
}

func TestDeleteProfileLeavesNoProfile(t *testing.T) {
	svc, profiles, id := newUserFixture()

	require.NoError(t, svc.Delete(context.Background(), id))
	assert.Equal(t, id, profiles.deletedID)

	_, err := svc.GetByID(context.Background(), id)
	assert.ErrorIs(t, err, apperrors.ErrProfileNotFound)
}

func TestDashboardStats(t *testing.T) {
	svc, _, _ := newUserFixture()

	stats, err := svc.DashboardStats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(40), stats.Candidates.Total)
	assert.Equal(t, int64(12), stats.Subjects)
	assert.Equal(t, int64(7), stats.Documents)
	assert.Equal(t, int64(1), stats.UsersByRole["faculty"])
	assert.False(t, stats.GeneratedAt.IsZero())
}
