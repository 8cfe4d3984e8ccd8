package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcruz/enrollsys/internal/app/models"
	"github.com/mcruz/enrollsys/internal/app/models/dto"
	"github.com/mcruz/enrollsys/internal/app/services"
	"github.com/mcruz/enrollsys/internal/pkg/apperrors"
)

type stubCandidateStore struct {
	candidate *models.Candidate
}

func (s *stubCandidateStore) GetByID(_ context.Context, id uuid.UUID) (*models.Candidate, error) {
	if s.candidate != nil && s.candidate.ID == id {
		return s.candidate, nil
	}
	return nil, apperrors.ErrCandidateNotFound
}

func (s *stubCandidateStore) GetByToken(_ context.Context, token string) (*models.Candidate, error) {
	if s.candidate != nil && s.candidate.InvitationToken != nil && *s.candidate.InvitationToken == token {
		return s.candidate, nil
	}
	return nil, apperrors.ErrTokenInvalid
}

func (s *stubCandidateStore) SetInvitation(_ context.Context, _ uuid.UUID, token string, expiresAt, invitedAt time.Time) error {
	s.candidate.InvitationToken = &token
	s.candidate.TokenExpiresAt = &expiresAt
	s.candidate.InvitedAt = &invitedAt
	return nil
}

func (s *stubCandidateStore) ConsumeTokenTx(_ context.Context, _ pgx.Tx, _ uuid.UUID) error {
	return nil
}

type stubCredentialStore struct{}

func (s *stubCredentialStore) EmailExists(_ context.Context, _ string) (bool, error) {
	return false, nil
}
func (s *stubCredentialStore) CreateTx(_ context.Context, _ pgx.Tx, _ *models.Credential) error {
	return nil
}

type stubProfileStore struct{}

func (s *stubProfileStore) CreateTx(_ context.Context, _ pgx.Tx, _ *models.Profile) error {
	return nil
}

type stubSender struct{}

func (s *stubSender) SendInvitationEmail(_, _, _, _ string) error { return nil }

func newInvitationTestRouter(t *testing.T) (*gin.Engine, *stubCandidateStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := &stubCandidateStore{candidate: &models.Candidate{
		ID:            uuid.New(),
		ApplicationNo: "2026-00042",
		FullName:      "Liza Ramos",
		Email:         "liza@example.com",
		Status:        models.StatusPending,
	}}

	svc := services.NewInvitationService(
		nil, store, &stubCredentialStore{}, &stubProfileStore{}, &stubSender{},
		"http://portal.test", 168*time.Hour, zerolog.Nop(),
	)
	controller := NewInvitationController(svc)

	router := gin.New()
	router.POST("/api/admin/send-invitation", controller.SendInvitation)
	router.GET("/api/activate", controller.Activate)
	router.POST("/api/auth/complete-registration", controller.CompleteRegistration)
	return router, store
}

func TestSendInvitationEndpoint(t *testing.T) {
	router, store := newInvitationTestRouter(t)

	body := `{"candidateId":"` + store.candidate.ID.String() + `"}`
	req := httptest.NewRequest(http.MethodPost, "/api/admin/send-invitation", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp dto.SendInvitationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.True(t, resp.EmailSent)
	assert.Contains(t, resp.ActivationURL, "http://portal.test/activate?token=")
	require.NotNil(t, store.candidate.InvitationToken)
}

func TestSendInvitationEndpointBadID(t *testing.T) {
	router, _ := newInvitationTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/admin/send-invitation", strings.NewReader(`{"candidateId":"not-a-uuid"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestActivateEndpoint(t *testing.T) {
	router, store := newInvitationTestRouter(t)

	token := "aabbccdd"
	expires := time.Now().Add(time.Hour)
	store.candidate.InvitationToken = &token
	store.candidate.TokenExpiresAt = &expires

	req := httptest.NewRequest(http.MethodGet, "/api/activate?token=aabbccdd", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp dto.ActivationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "valid", resp.Status)
	require.NotNil(t, resp.Candidate)
	assert.Equal(t, "Liza Ramos", resp.Candidate.FullName)

	// unknown token stays a 200 with an advisory status
	req = httptest.NewRequest(http.MethodGet, "/api/activate?token=unknown", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "invalid", resp.Status)
}

func TestCompleteRegistrationEndpointShortPassword(t *testing.T) {
	router, store := newInvitationTestRouter(t)

	token := "aabbccdd"
	expires := time.Now().Add(time.Hour)
	store.candidate.InvitationToken = &token
	store.candidate.TokenExpiresAt = &expires

	body := `{"token":"aabbccdd","password":"123"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/complete-registration", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCompleteRegistrationEndpointExpiredToken(t *testing.T) {
	router, store := newInvitationTestRouter(t)

	token := "aabbccdd"
	expired := time.Now().Add(-time.Hour)
	store.candidate.InvitationToken = &token
	store.candidate.TokenExpiresAt = &expired

	body := `{"token":"aabbccdd","password":"secret123"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/complete-registration", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
