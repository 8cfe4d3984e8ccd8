package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcruz/enrollsys/internal/app/models"
	"github.com/mcruz/enrollsys/internal/app/models/dto"
	"github.com/mcruz/enrollsys/internal/db"
	"github.com/mcruz/enrollsys/internal/pkg/apperrors"
	"github.com/mcruz/enrollsys/internal/pkg/auth"
)

type fakeInviteCandidateStore struct {
	candidates map[uuid.UUID]*models.Candidate

	setToken     string
	setExpiresAt time.Time
	setInvitedAt time.Time
}

func (f *fakeInviteCandidateStore) GetByID(_ context.Context, id uuid.UUID) (*models.Candidate, error) {
	if c, ok := f.candidates[id]; ok {
		return c, nil
	}
	return nil, apperrors.ErrCandidateNotFound
}

func (f *fakeInviteCandidateStore) GetByToken(_ context.Context, token string) (*models.Candidate, error) {
	for _, c := range f.candidates {
		if c.InvitationToken != nil && *c.InvitationToken == token {
			return c, nil
		}
	}
	return nil, apperrors.ErrTokenInvalid
}

func (f *fakeInviteCandidateStore) SetInvitation(_ context.Context, id uuid.UUID, token string, expiresAt, invitedAt time.Time) error {
	c, ok := f.candidates[id]
	if !ok {
		return apperrors.ErrCandidateNotFound
	}
	c.InvitationToken = &token
	c.TokenExpiresAt = &expiresAt
	c.InvitedAt = &invitedAt
	c.Status = models.StatusApproved
	f.setToken = token
	f.setExpiresAt = expiresAt
	f.setInvitedAt = invitedAt
	return nil
}

func (f *fakeInviteCandidateStore) ConsumeTokenTx(_ context.Context, _ pgx.Tx, id uuid.UUID) error {
	c, ok := f.candidates[id]
	if !ok {
		return apperrors.ErrCandidateNotFound
	}
	c.InvitationToken = nil
	c.TokenExpiresAt = nil
	return nil
}

type fakeInviteCredentialStore struct {
	existing map[string]bool
	created  *models.Credential
}

func (f *fakeInviteCredentialStore) EmailExists(_ context.Context, email string) (bool, error) {
	return f.existing[email], nil
}

func (f *fakeInviteCredentialStore) CreateTx(_ context.Context, _ pgx.Tx, credential *models.Credential) error {
	f.created = credential
	f.existing[credential.Email] = true
	return nil
}

type fakeInviteProfileStore struct {
	err     error
	created *models.Profile
}

func (f *fakeInviteProfileStore) CreateTx(_ context.Context, _ pgx.Tx, profile *models.Profile) error {
	if f.err != nil {
		return f.err
	}
	f.created = profile
	return nil
}

type fakeSender struct {
	err   error
	calls int

	lastEmail string
	lastURL   string
}

func (f *fakeSender) SendInvitationEmail(toEmail, _, _, activationURL string) error {
	f.calls++
	f.lastEmail = toEmail
	f.lastURL = activationURL
	return f.err
}

func newInviteFixture(sender *fakeSender) (*InvitationService, *fakeInviteCandidateStore, *models.Candidate) {
	candidate := &models.Candidate{
		ID:            uuid.New(),
		ApplicationNo: "2026-00117",
		FullName:      "Maria Santos",
		Email:         "maria@example.com",
		Status:        models.StatusPending,
	}
	candidates := &fakeInviteCandidateStore{
		candidates: map[uuid.UUID]*models.Candidate{candidate.ID: candidate},
	}

	svc := NewInvitationService(
		nil,
		candidates,
		&fakeInviteCredentialStore{existing: map[string]bool{}},
		&fakeInviteProfileStore{},
		sender,
		"http://portal.test/",
		168*time.Hour,
		zerolog.Nop(),
	)
	// run the transactional steps directly so the fakes see them
	svc.runTx = func(ctx context.Context, fn db.TransactionFn) error {
		return fn(ctx, nil)
	}
	return svc, candidates, candidate
}

func TestSendInvitation(t *testing.T) {
	sender := &fakeSender{}
	svc, candidates, candidate := newInviteFixture(sender)

	resp, err := svc.SendInvitation(context.Background(), candidate.ID)
	require.NoError(t, err)

	assert.True(t, resp.Success)
	assert.True(t, resp.EmailSent)
	assert.Equal(t, 1, sender.calls)
	assert.Equal(t, "maria@example.com", sender.lastEmail)

	// token persisted with a week-long expiry, candidate auto-approved
	assert.NotEmpty(t, candidates.setToken)
	assert.WithinDuration(t, time.Now().Add(168*time.Hour), candidates.setExpiresAt, 5*time.Second)
	assert.WithinDuration(t, time.Now(), candidates.setInvitedAt, 5*time.Second)
	assert.Equal(t, models.StatusApproved, candidate.Status)

	assert.True(t, strings.HasPrefix(resp.ActivationURL, "http://portal.test/activate?token="))
	assert.Contains(t, resp.ActivationURL, candidates.setToken)
	assert.Equal(t, resp.ActivationURL, sender.lastURL)
}

func TestSendInvitationEmailFailureIsNotFatal(t *testing.T) {
	sender := &fakeSender{err: errors.New("smtp unreachable")}
	svc, candidates, candidate := newInviteFixture(sender)

	resp, err := svc.SendInvitation(context.Background(), candidate.ID)
	require.NoError(t, err)

	assert.True(t, resp.Success)
	assert.False(t, resp.EmailSent)
	// token stays valid so the link can be relayed by hand
	assert.NotEmpty(t, candidates.setToken)
	assert.Contains(t, resp.ActivationURL, candidates.setToken)
}

func TestSendInvitationOverwritesPreviousToken(t *testing.T) {
	sender := &fakeSender{}
	svc, candidates, candidate := newInviteFixture(sender)

	_, err := svc.SendInvitation(context.Background(), candidate.ID)
	require.NoError(t, err)
	firstToken := candidates.setToken

	_, err = svc.SendInvitation(context.Background(), candidate.ID)
	require.NoError(t, err)

	assert.NotEqual(t, firstToken, candidates.setToken)

	// only the newest token resolves
	resp := svc.ValidateToken(context.Background(), firstToken)
	assert.Equal(t, "invalid", resp.Status)
	resp = svc.ValidateToken(context.Background(), candidates.setToken)
	assert.Equal(t, "valid", resp.Status)
}

func TestSendInvitationRejectsExistingAccount(t *testing.T) {
	sender := &fakeSender{}
	svc, _, candidate := newInviteFixture(sender)
	svc.credentialRepo = &fakeInviteCredentialStore{existing: map[string]bool{"maria@example.com": true}}

	_, err := svc.SendInvitation(context.Background(), candidate.ID)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
	assert.Zero(t, sender.calls)
}

func TestSendInvitationRejectsRejectedCandidate(t *testing.T) {
	sender := &fakeSender{}
	svc, candidates, candidate := newInviteFixture(sender)
	candidate.Status = models.StatusRejected

	_, err := svc.SendInvitation(context.Background(), candidate.ID)
	assert.ErrorIs(t, err, apperrors.ErrCandidateNotInvitable)
	assert.Zero(t, sender.calls)
	assert.Empty(t, candidates.setToken)
	assert.Equal(t, models.StatusRejected, candidate.Status)
}

func TestSendInvitationUnknownCandidate(t *testing.T) {
	svc, _, _ := newInviteFixture(&fakeSender{})

	_, err := svc.SendInvitation(context.Background(), uuid.New())
	assert.ErrorIs(t, err, apperrors.ErrCandidateNotFound)
}

func TestValidateToken(t *testing.T) {
	svc, candidates, candidate := newInviteFixture(&fakeSender{})

	_, err := svc.SendInvitation(context.Background(), candidate.ID)
	require.NoError(t, err)

	t.Run("valid token shows candidate preview", func(t *testing.T) {
		resp := svc.ValidateToken(context.Background(), candidates.setToken)
		assert.Equal(t, "valid", resp.Status)
		require.NotNil(t, resp.Candidate)
		assert.Equal(t, "Maria Santos", resp.Candidate.FullName)
		assert.Equal(t, "2026-00117", resp.Candidate.ApplicationNo)
	})

	t.Run("unknown token", func(t *testing.T) {
		resp := svc.ValidateToken(context.Background(), "deadbeef")
		assert.Equal(t, "invalid", resp.Status)
		assert.Nil(t, resp.Candidate)
	})

	t.Run("empty token", func(t *testing.T) {
		resp := svc.ValidateToken(context.Background(), "")
		assert.Equal(t, "invalid", resp.Status)
	})

	t.Run("expired token", func(t *testing.T) {
		past := time.Now().Add(-time.Hour)
		candidate.TokenExpiresAt = &past
		resp := svc.ValidateToken(context.Background(), candidates.setToken)
		assert.Equal(t, "expired", resp.Status)
	})
}

func TestFinalizeRegistrationRejectsShortPassword(t *testing.T) {
	svc, candidates, candidate := newInviteFixture(&fakeSender{})
	_, err := svc.SendInvitation(context.Background(), candidate.ID)
	require.NoError(t, err)

	_, err = svc.FinalizeRegistration(context.Background(), &dto.CompleteRegistrationRequest{
		Token:    candidates.setToken,
		Password: "12345",
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidPassword)
	// token untouched
	assert.NotNil(t, candidate.InvitationToken)
}

func TestFinalizeRegistrationCreatesStudentAccount(t *testing.T) {
	svc, candidates, candidate := newInviteFixture(&fakeSender{})
	_, err := svc.SendInvitation(context.Background(), candidate.ID)
	require.NoError(t, err)

	credentials := svc.credentialRepo.(*fakeInviteCredentialStore)
	profiles := svc.profileRepo.(*fakeInviteProfileStore)

	profile, err := svc.FinalizeRegistration(context.Background(), &dto.CompleteRegistrationRequest{
		Token:    candidates.setToken,
		Password: "secret123",
	})
	require.NoError(t, err)

	require.NotNil(t, credentials.created)
	assert.Equal(t, "maria@example.com", credentials.created.Email)
	assert.True(t, credentials.created.EmailConfirmed)
	assert.True(t, auth.CheckPassword(credentials.created.PasswordHash, "secret123"))

	require.NotNil(t, profiles.created)
	assert.Equal(t, credentials.created.ID, profile.ID)
	assert.Equal(t, models.RoleStudent, profile.Role)
	require.NotNil(t, profile.FullName)
	assert.Equal(t, "Maria Santos", *profile.FullName)
}

func TestFinalizeRegistrationConsumesTokenOnce(t *testing.T) {
	svc, candidates, candidate := newInviteFixture(&fakeSender{})
	_, err := svc.SendInvitation(context.Background(), candidate.ID)
	require.NoError(t, err)
	token := candidates.setToken

	_, err = svc.FinalizeRegistration(context.Background(), &dto.CompleteRegistrationRequest{
		Token:    token,
		Password: "secret123",
	})
	require.NoError(t, err)

	assert.Nil(t, candidate.InvitationToken)
	assert.Equal(t, "invalid", svc.ValidateToken(context.Background(), token).Status)

	// a replay of the same token must not mint a second account
	_, err = svc.FinalizeRegistration(context.Background(), &dto.CompleteRegistrationRequest{
		Token:    token,
		Password: "secret123",
	})
	assert.ErrorIs(t, err, apperrors.ErrTokenInvalid)
}

func TestFinalizeRegistrationFailureLeavesTokenValid(t *testing.T) {
	svc, candidates, candidate := newInviteFixture(&fakeSender{})
	_, err := svc.SendInvitation(context.Background(), candidate.ID)
	require.NoError(t, err)

	svc.profileRepo = &fakeInviteProfileStore{err: errors.New("insert failed")}

	_, err = svc.FinalizeRegistration(context.Background(), &dto.CompleteRegistrationRequest{
		Token:    candidates.setToken,
		Password: "secret123",
	})
	require.Error(t, err)

	// the token is only consumed after both inserts succeed
	require.NotNil(t, candidate.InvitationToken)
	assert.Equal(t, "valid", svc.ValidateToken(context.Background(), candidates.setToken).Status)
}

func TestFinalizeRegistrationRejectsExpiredToken(t *testing.T) {
	svc, candidates, candidate := newInviteFixture(&fakeSender{})
	_, err := svc.SendInvitation(context.Background(), candidate.ID)
	require.NoError(t, err)

	past := time.Now().Add(-time.Minute)
	candidate.TokenExpiresAt = &past

	_, err = svc.FinalizeRegistration(context.Background(), &dto.CompleteRegistrationRequest{
		Token:    candidates.setToken,
		Password: "secret123",
	})
	assert.ErrorIs(t, err, apperrors.ErrTokenExpired)
}
