package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mcruz/enrollsys/internal/app/models"
	"github.com/mcruz/enrollsys/internal/pkg/apperrors"
)

// ProfileRepository handles database operations for user profiles
type ProfileRepository struct {
	db *pgxpool.Pool
}

// NewProfileRepository creates a new ProfileRepository
func NewProfileRepository(db *pgxpool.Pool) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// Create inserts a profile row sharing its ID with an existing credential
func (r *ProfileRepository) Create(ctx context.Context, profile *models.Profile) error {
	query := `
		INSERT INTO profiles (id, email, full_name, role)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`

	err := r.db.QueryRow(ctx, query,
		profile.ID, profile.Email, profile.FullName, profile.Role,
	).Scan(&profile.CreatedAt)
	if err != nil {
		return fmt.Errorf("error creating profile: %w", err)
	}

	return nil
}

// CreateTx inserts a profile inside the caller's transaction
func (r *ProfileRepository) CreateTx(ctx context.Context, tx pgx.Tx, profile *models.Profile) error {
	query := `
		INSERT INTO profiles (id, email, full_name, role)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`

	err := tx.QueryRow(ctx, query,
		profile.ID, profile.Email, profile.FullName, profile.Role,
	).Scan(&profile.CreatedAt)
	if err != nil {
		return fmt.Errorf("error creating profile: %w", err)
	}

	return nil
}

// GetByID retrieves a profile by its credential ID
func (r *ProfileRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	query := `
		SELECT id, email, full_name, role, created_at
		FROM profiles
		WHERE id = $1
	`

	var profile models.Profile
	err := r.db.QueryRow(ctx, query, id).Scan(
		&profile.ID,
		&profile.Email,
		&profile.FullName,
		&profile.Role,
		&profile.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrProfileNotFound
		}
		return nil, fmt.Errorf("error retrieving profile: %w", err)
	}

	return &profile, nil
}

// List retrieves profiles newest first, optionally filtered by role or a
// name/email search.
func (r *ProfileRepository) List(ctx context.Context, role, search string) ([]*models.Profile, error) {
	builder := squirrel.Select("id, email, full_name, role, created_at").
		From("profiles").
		OrderBy("created_at DESC").
		PlaceholderFormat(squirrel.Dollar)

	if role != "" {
		builder = builder.Where(squirrel.Eq{"role": role})
	}
	if search != "" {
		pattern := "%" + search + "%"
		builder = builder.Where(squirrel.Or{
			squirrel.ILike{"full_name": pattern},
			squirrel.ILike{"email": pattern},
		})
	}

	sql, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing profiles: %w", err)
	}
	defer rows.Close()

	var profiles []*models.Profile
	for rows.Next() {
		var profile models.Profile
		if err := rows.Scan(
			&profile.ID,
			&profile.Email,
			&profile.FullName,
			&profile.Role,
			&profile.CreatedAt,
		); err != nil {
			return nil, err
		}
		profiles = append(profiles, &profile)
	}

	return profiles, rows.Err()
}

// Update edits a profile's display name and role
func (r *ProfileRepository) Update(ctx context.Context, id uuid.UUID, fullName *string, role models.Role) error {
	cmdTag, err := r.db.Exec(ctx,
		`UPDATE profiles SET full_name = $1, role = $2 WHERE id = $3`,
		fullName, role, id)
	if err != nil {
		return fmt.Errorf("error updating profile: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrProfileNotFound
	}
	return nil
}

// UpdateRole changes only the role
func (r *ProfileRepository) UpdateRole(ctx context.Context, id uuid.UUID, role models.Role) error {
	cmdTag, err := r.db.Exec(ctx,
		`UPDATE profiles SET role = $1 WHERE id = $2`, role, id)
	if err != nil {
		return fmt.Errorf("error updating role: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrProfileNotFound
	}
	return nil
}

// Delete removes a profile. The underlying credential is intentionally
// left in place.
func (r *ProfileRepository) Delete(ctx context.Context, id uuid.UUID) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM profiles WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting profile: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrProfileNotFound
	}
	return nil
}

// CountByRole returns the number of profiles per role
func (r *ProfileRepository) CountByRole(ctx context.Context) (map[string]int64, error) {
	rows, err := r.db.Query(ctx, `SELECT role, COUNT(*) FROM profiles GROUP BY role`)
	if err != nil {
		return nil, fmt.Errorf("error counting profiles by role: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var role string
		var count int64
		if err := rows.Scan(&role, &count); err != nil {
			return nil, err
		}
		counts[role] = count
	}

	return counts, rows.Err()
}
