package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mcruz/enrollsys/internal/app/models"
	"github.com/mcruz/enrollsys/internal/app/models/dto"
	"github.com/mcruz/enrollsys/internal/pkg/apperrors"
	"github.com/mcruz/enrollsys/internal/pkg/dberrors"
)

const candidateColumns = "id, application_no, full_name, email, contact_number, status, invitation_token, token_expires_at, invited_at, created_at"

// CandidateRepository handles database operations for candidates
type CandidateRepository struct {
	db *pgxpool.Pool
}

// NewCandidateRepository creates a new CandidateRepository
func NewCandidateRepository(db *pgxpool.Pool) *CandidateRepository {
	return &CandidateRepository{db: db}
}

func scanCandidate(row pgx.Row) (*models.Candidate, error) {
	var c models.Candidate
	err := row.Scan(
		&c.ID,
		&c.ApplicationNo,
		&c.FullName,
		&c.Email,
		&c.ContactNumber,
		&c.Status,
		&c.InvitationToken,
		&c.TokenExpiresAt,
		&c.InvitedAt,
		&c.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Create inserts a new candidate. The ID is assigned here when not set.
func (r *CandidateRepository) Create(ctx context.Context, candidate *models.Candidate) error {
	if candidate.ID == uuid.Nil {
		candidate.ID = uuid.New()
	}
	if candidate.Status == "" {
		candidate.Status = models.StatusPending
	}

	query := `
		INSERT INTO candidates (id, application_no, full_name, email, contact_number, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`

	err := r.db.QueryRow(ctx, query,
		candidate.ID, candidate.ApplicationNo, candidate.FullName,
		candidate.Email, candidate.ContactNumber, candidate.Status,
	).Scan(&candidate.CreatedAt)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "candidates_application_no_key") {
			return apperrors.ErrApplicationNoExists
		}
		return fmt.Errorf("error creating candidate: %w", err)
	}

	return nil
}

// GetByID retrieves a candidate by ID
func (r *CandidateRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Candidate, error) {
	query := fmt.Sprintf(`SELECT %s FROM candidates WHERE id = $1`, candidateColumns)

	candidate, err := scanCandidate(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCandidateNotFound
		}
		return nil, fmt.Errorf("error retrieving candidate: %w", err)
	}

	return candidate, nil
}

// GetByToken retrieves the unique candidate holding a non-null invitation
// token. A consumed or never-issued token yields ErrTokenInvalid.
func (r *CandidateRepository) GetByToken(ctx context.Context, token string) (*models.Candidate, error) {
	query := fmt.Sprintf(`SELECT %s FROM candidates WHERE invitation_token = $1`, candidateColumns)

	candidate, err := scanCandidate(r.db.QueryRow(ctx, query, token))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrTokenInvalid
		}
		return nil, fmt.Errorf("error retrieving candidate by token: %w", err)
	}

	return candidate, nil
}

// List retrieves candidates newest first, with optional status/search filters.
func (r *CandidateRepository) List(ctx context.Context, filter dto.CandidateListFilter, offset uint64, limit int) ([]*models.Candidate, error) {
	builder := squirrel.Select(candidateColumns).
		From("candidates").
		OrderBy("created_at DESC").
		Offset(offset).
		Limit(uint64(limit)).
		PlaceholderFormat(squirrel.Dollar)

	builder = applyCandidateFilter(builder, filter)

	sql, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing candidates: %w", err)
	}
	defer rows.Close()

	var candidates []*models.Candidate
	for rows.Next() {
		candidate, err := scanCandidate(rows)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, candidate)
	}

	return candidates, rows.Err()
}

// Count returns the number of candidates matching the filter
func (r *CandidateRepository) Count(ctx context.Context, filter dto.CandidateListFilter) (int64, error) {
	builder := squirrel.Select("COUNT(*)").
		From("candidates").
		PlaceholderFormat(squirrel.Dollar)

	builder = applyCandidateFilter(builder, filter)

	sql, args, err := builder.ToSql()
	if err != nil {
		return 0, fmt.Errorf("error building SQL: %w", err)
	}

	var count int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("error counting candidates: %w", err)
	}
	return count, nil
}

func applyCandidateFilter(builder squirrel.SelectBuilder, filter dto.CandidateListFilter) squirrel.SelectBuilder {
	switch filter.Status {
	case "":
		// no status filter
	case "invited":
		builder = builder.Where("invited_at IS NOT NULL")
	case "not_sent":
		builder = builder.Where("invited_at IS NULL")
	default:
		builder = builder.Where(squirrel.Eq{"status": filter.Status})
	}

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		builder = builder.Where(squirrel.Or{
			squirrel.ILike{"full_name": pattern},
			squirrel.ILike{"email": pattern},
			squirrel.ILike{"application_no": pattern},
		})
	}

	return builder
}

// Update edits a candidate's identity fields
func (r *CandidateRepository) Update(ctx context.Context, candidate *models.Candidate) error {
	query := `
		UPDATE candidates
		SET application_no = $1, full_name = $2, email = $3, contact_number = $4
		WHERE id = $5
	`

	cmdTag, err := r.db.Exec(ctx, query,
		candidate.ApplicationNo, candidate.FullName, candidate.Email,
		candidate.ContactNumber, candidate.ID,
	)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "candidates_application_no_key") {
			return apperrors.ErrApplicationNoExists
		}
		return fmt.Errorf("error updating candidate: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrCandidateNotFound
	}

	return nil
}

// UpdateStatus forces a candidate status. When revokeToken is set any
// outstanding invitation token is cleared in the same write.
func (r *CandidateRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status models.CandidateStatus, revokeToken bool) error {
	builder := squirrel.Update("candidates").
		Set("status", status).
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar)

	if revokeToken {
		builder = builder.Set("invitation_token", nil).Set("token_expires_at", nil)
	}

	sql, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error updating candidate status: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrCandidateNotFound
	}

	return nil
}

// SetInvitation persists a freshly issued token in a single write. Any prior
// token is overwritten, which revokes it.
func (r *CandidateRepository) SetInvitation(ctx context.Context, id uuid.UUID, token string, expiresAt, invitedAt time.Time) error {
	query := `
		UPDATE candidates
		SET invitation_token = $1, token_expires_at = $2, invited_at = $3, status = $4
		WHERE id = $5
	`

	cmdTag, err := r.db.Exec(ctx, query, token, expiresAt, invitedAt, models.StatusApproved, id)
	if err != nil {
		return fmt.Errorf("error storing invitation token: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrCandidateNotFound
	}

	return nil
}

// ConsumeTokenTx clears the invitation token and expiry and marks the
// candidate approved, inside the caller's transaction. Setting status is a
// no-op when the candidate is already approved.
func (r *CandidateRepository) ConsumeTokenTx(ctx context.Context, tx pgx.Tx, id uuid.UUID) error {
	query := `
		UPDATE candidates
		SET invitation_token = NULL, token_expires_at = NULL, status = $1
		WHERE id = $2
	`

	cmdTag, err := tx.Exec(ctx, query, models.StatusApproved, id)
	if err != nil {
		return fmt.Errorf("error consuming invitation token: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrCandidateNotFound
	}

	return nil
}

// Delete removes a candidate by ID
func (r *CandidateRepository) Delete(ctx context.Context, id uuid.UUID) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM candidates WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting candidate: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrCandidateNotFound
	}
	return nil
}

// BulkInsert inserts a batch of candidates, skipping rows whose application
// number already exists. Returns the number inserted.
func (r *CandidateRepository) BulkInsert(ctx context.Context, candidates []*models.Candidate) (int, error) {
	inserted := 0
	for _, candidate := range candidates {
		if err := r.Create(ctx, candidate); err != nil {
			if errors.Is(err, apperrors.ErrApplicationNoExists) {
				continue
			}
			return inserted, err
		}
		inserted++
	}
	return inserted, nil
}

// Stats summarizes candidate counts for dashboards
func (r *CandidateRepository) Stats(ctx context.Context) (*dto.CandidateStats, error) {
	query := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE status = 'pending'),
			COUNT(*) FILTER (WHERE status = 'approved'),
			COUNT(*) FILTER (WHERE status = 'rejected'),
			COUNT(*) FILTER (WHERE invited_at IS NOT NULL)
		FROM candidates
	`

	var stats dto.CandidateStats
	err := r.db.QueryRow(ctx, query).Scan(
		&stats.Total, &stats.Pending, &stats.Approved, &stats.Rejected, &stats.Invited,
	)
	if err != nil {
		return nil, fmt.Errorf("error computing candidate stats: %w", err)
	}

	return &stats, nil
}
