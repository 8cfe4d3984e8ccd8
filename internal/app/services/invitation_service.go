package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/mcruz/enrollsys/internal/app/models"
	"github.com/mcruz/enrollsys/internal/app/models/dto"
	"github.com/mcruz/enrollsys/internal/db"
	"github.com/mcruz/enrollsys/internal/pkg/apperrors"
	"github.com/mcruz/enrollsys/internal/pkg/auth"
	"github.com/mcruz/enrollsys/internal/pkg/email"
)

// inviteCandidateStore is the slice of candidate persistence the invitation
// flow needs.
type inviteCandidateStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Candidate, error)
	GetByToken(ctx context.Context, token string) (*models.Candidate, error)
	SetInvitation(ctx context.Context, id uuid.UUID, token string, expiresAt, invitedAt time.Time) error
	ConsumeTokenTx(ctx context.Context, tx pgx.Tx, id uuid.UUID) error
}

type inviteCredentialStore interface {
	EmailExists(ctx context.Context, email string) (bool, error)
	CreateTx(ctx context.Context, tx pgx.Tx, credential *models.Credential) error
}

type inviteProfileStore interface {
	CreateTx(ctx context.Context, tx pgx.Tx, profile *models.Profile) error
}

// txRunner abstracts db.WithTransaction so services can run their
// transactional steps without holding the pool directly.
type txRunner func(ctx context.Context, fn db.TransactionFn) error

func poolTxRunner(pool *pgxpool.Pool) txRunner {
	return func(ctx context.Context, fn db.TransactionFn) error {
		return db.WithTransaction(ctx, pool, fn)
	}
}

// InvitationService owns the invitation token lifecycle: issuing activation
// links for candidates, validating tokens, and finalizing registrations.
type InvitationService struct {
	runTx          txRunner
	candidateRepo  inviteCandidateStore
	credentialRepo inviteCredentialStore
	profileRepo    inviteProfileStore
	emailSender    email.Sender
	baseURL        string
	tokenTTL       time.Duration
	logger         zerolog.Logger
}

// NewInvitationService creates a new InvitationService
func NewInvitationService(
	pool *pgxpool.Pool,
	candidateRepo inviteCandidateStore,
	credentialRepo inviteCredentialStore,
	profileRepo inviteProfileStore,
	emailSender email.Sender,
	baseURL string,
	tokenTTL time.Duration,
	logger zerolog.Logger,
) *InvitationService {
	return &InvitationService{
		runTx:          poolTxRunner(pool),
		candidateRepo:  candidateRepo,
		credentialRepo: credentialRepo,
		profileRepo:    profileRepo,
		emailSender:    emailSender,
		baseURL:        baseURL,
		tokenTTL:       tokenTTL,
		logger:         logger,
	}
}

// activationURL composes the externally visible activation link for a token.
func (s *InvitationService) activationURL(token string) string {
	return fmt.Sprintf("%s/activate?token=%s", strings.TrimRight(s.baseURL, "/"), url.QueryEscape(token))
}

// SendInvitation issues a fresh activation token for a candidate and emails
// the activation link. Re-inviting overwrites any earlier token, so only the
// newest link stays valid. A delivery failure does not fail the operation:
// the token is already persisted and the activation URL is returned so it can
// be relayed out-of-band.
func (s *InvitationService) SendInvitation(ctx context.Context, candidateID uuid.UUID) (*dto.SendInvitationResponse, error) {
	candidate, err := s.candidateRepo.GetByID(ctx, candidateID)
	if err != nil {
		return nil, err
	}

	// a rejected candidate stays rejected; inviting one would silently
	// flip the record back to approved
	if candidate.Status == models.StatusRejected {
		return nil, apperrors.ErrCandidateNotInvitable
	}

	exists, err := s.credentialRepo.EmailExists(ctx, candidate.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperrors.NewConflictError("candidate already has an account")
	}

	token, err := auth.GenerateInvitationToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate invitation token: %w", err)
	}

	now := time.Now()
	expiresAt := now.Add(s.tokenTTL)
	if err := s.candidateRepo.SetInvitation(ctx, candidate.ID, token, expiresAt, now); err != nil {
		return nil, err
	}

	activationURL := s.activationURL(token)

	resp := &dto.SendInvitationResponse{
		Success:       true,
		Message:       "Invitation sent",
		EmailSent:     true,
		ActivationURL: activationURL,
	}

	if err := s.emailSender.SendInvitationEmail(candidate.Email, candidate.FullName, candidate.ApplicationNo, activationURL); err != nil {
		s.logger.Warn().Err(err).
			Str("candidateId", candidate.ID.String()).
			Msg("Invitation email delivery failed, token remains valid")
		resp.EmailSent = false
		resp.Message = "Invitation created but the email could not be delivered"
	}

	s.logger.Info().
		Str("candidateId", candidate.ID.String()).
		Bool("emailSent", resp.EmailSent).
		Time("expiresAt", expiresAt).
		Msg("Invitation issued")

	return resp, nil
}

// lookupToken finds the candidate holding a token and checks expiry.
func (s *InvitationService) lookupToken(ctx context.Context, token string) (*models.Candidate, error) {
	if strings.TrimSpace(token) == "" {
		return nil, apperrors.ErrTokenInvalid
	}

	candidate, err := s.candidateRepo.GetByToken(ctx, token)
	if err != nil {
		return nil, err
	}

	if candidate.TokenExpiresAt == nil || time.Now().After(*candidate.TokenExpiresAt) {
		return nil, apperrors.ErrTokenExpired
	}

	return candidate, nil
}

// ValidateToken is the advisory pre-check an activation page performs before
// asking for a password. It never consumes the token; the result may be stale
// by the time registration is finalized, so FinalizeRegistration re-validates.
func (s *InvitationService) ValidateToken(ctx context.Context, token string) *dto.ActivationResponse {
	candidate, err := s.lookupToken(ctx, token)
	switch {
	case err == nil:
		return &dto.ActivationResponse{
			Status: "valid",
			Candidate: &dto.ActivationInfo{
				FullName:      candidate.FullName,
				ApplicationNo: candidate.ApplicationNo,
				Email:         candidate.Email,
			},
		}
	case errors.Is(err, apperrors.ErrTokenExpired):
		return &dto.ActivationResponse{Status: "expired"}
	default:
		return &dto.ActivationResponse{Status: "invalid"}
	}
}

// FinalizeRegistration turns a valid invitation into a working account. The
// credential insert, the profile insert and the token consumption run inside
// a single transaction so a failure at any step leaves the token intact and
// no orphaned account behind.
func (s *InvitationService) FinalizeRegistration(ctx context.Context, req *dto.CompleteRegistrationRequest) (*models.Profile, error) {
	if len(req.Password) < auth.MinPasswordLength {
		return nil, apperrors.ErrInvalidPassword
	}

	candidate, err := s.lookupToken(ctx, req.Token)
	if err != nil {
		return nil, err
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	credential := &models.Credential{
		ID:             uuid.New(),
		Email:          candidate.Email,
		PasswordHash:   passwordHash,
		EmailConfirmed: true,
	}
	profile := &models.Profile{
		ID:       credential.ID,
		Email:    candidate.Email,
		FullName: &candidate.FullName,
		Role:     models.RoleStudent,
	}

	err = s.runTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if err := s.credentialRepo.CreateTx(ctx, tx, credential); err != nil {
			return err
		}
		if err := s.profileRepo.CreateTx(ctx, tx, profile); err != nil {
			return err
		}
		return s.candidateRepo.ConsumeTokenTx(ctx, tx, candidate.ID)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("candidateId", candidate.ID.String()).
		Str("userId", credential.ID.String()).
		Msg("Registration completed")

	return profile, nil
}
