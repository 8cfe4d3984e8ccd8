package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mcruz/enrollsys/internal/app/models"
	"github.com/mcruz/enrollsys/internal/pkg/apperrors"
	"github.com/mcruz/enrollsys/internal/pkg/dberrors"
)

// CredentialRepository handles database operations for login credentials.
// This is the service's own stand-in for a hosted auth provider's user store.
type CredentialRepository struct {
	db *pgxpool.Pool
}

// NewCredentialRepository creates a new CredentialRepository
func NewCredentialRepository(db *pgxpool.Pool) *CredentialRepository {
	return &CredentialRepository{db: db}
}

// Create inserts a credential
func (r *CredentialRepository) Create(ctx context.Context, credential *models.Credential) error {
	if credential.ID == uuid.Nil {
		credential.ID = uuid.New()
	}

	query := `
		INSERT INTO credentials (id, email, password_hash, email_confirmed)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`

	err := r.db.QueryRow(ctx, query,
		credential.ID, credential.Email, credential.PasswordHash, credential.EmailConfirmed,
	).Scan(&credential.CreatedAt)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.ErrEmailAlreadyExists
		}
		return fmt.Errorf("error creating credential: %w", err)
	}

	return nil
}

// CreateTx inserts a credential inside the caller's transaction
func (r *CredentialRepository) CreateTx(ctx context.Context, tx pgx.Tx, credential *models.Credential) error {
	if credential.ID == uuid.Nil {
		credential.ID = uuid.New()
	}

	query := `
		INSERT INTO credentials (id, email, password_hash, email_confirmed)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`

	err := tx.QueryRow(ctx, query,
		credential.ID, credential.Email, credential.PasswordHash, credential.EmailConfirmed,
	).Scan(&credential.CreatedAt)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.ErrEmailAlreadyExists
		}
		return fmt.Errorf("error creating credential: %w", err)
	}

	return nil
}

// GetByEmail retrieves a credential by email
func (r *CredentialRepository) GetByEmail(ctx context.Context, email string) (*models.Credential, error) {
	query := `
		SELECT id, email, password_hash, email_confirmed, created_at
		FROM credentials
		WHERE email = $1
	`

	var credential models.Credential
	err := r.db.QueryRow(ctx, query, email).Scan(
		&credential.ID,
		&credential.Email,
		&credential.PasswordHash,
		&credential.EmailConfirmed,
		&credential.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("error retrieving credential: %w", err)
	}

	return &credential, nil
}

// EmailExists checks whether an email already has a credential
func (r *CredentialRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM credentials WHERE email = $1)`, email,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking credential existence: %w", err)
	}
	return exists, nil
}

// UpdatePassword replaces the stored password hash
func (r *CredentialRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	cmdTag, err := r.db.Exec(ctx,
		`UPDATE credentials SET password_hash = $1 WHERE id = $2`, passwordHash, id)
	if err != nil {
		return fmt.Errorf("error updating password: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrResourceNotFound
	}
	return nil
}
