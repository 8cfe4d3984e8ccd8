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

// SubjectRepository handles database operations for the subject catalog
type SubjectRepository struct {
	db *pgxpool.Pool
}

// NewSubjectRepository creates a new SubjectRepository
func NewSubjectRepository(db *pgxpool.Pool) *SubjectRepository {
	return &SubjectRepository{db: db}
}

// Create inserts a subject
func (r *SubjectRepository) Create(ctx context.Context, subject *models.Subject) error {
	if subject.ID == uuid.Nil {
		subject.ID = uuid.New()
	}

	query := `
		INSERT INTO subjects (id, code, title, units)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`

	err := r.db.QueryRow(ctx, query,
		subject.ID, subject.Code, subject.Title, subject.Units,
	).Scan(&subject.CreatedAt)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.ErrSubjectCodeExists
		}
		return fmt.Errorf("error creating subject: %w", err)
	}

	return nil
}

// GetByID retrieves a subject by ID
func (r *SubjectRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Subject, error) {
	query := `
		SELECT id, code, title, units, created_at
		FROM subjects
		WHERE id = $1
	`

	var subject models.Subject
	err := r.db.QueryRow(ctx, query, id).Scan(
		&subject.ID, &subject.Code, &subject.Title, &subject.Units, &subject.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrSubjectNotFound
		}
		return nil, fmt.Errorf("error retrieving subject: %w", err)
	}

	return &subject, nil
}

// GetAll retrieves all subjects ordered by code
func (r *SubjectRepository) GetAll(ctx context.Context) ([]*models.Subject, error) {
	query := `
		SELECT id, code, title, units, created_at
		FROM subjects
		ORDER BY code
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error listing subjects: %w", err)
	}
	defer rows.Close()

	var subjects []*models.Subject
	for rows.Next() {
		var subject models.Subject
		if err := rows.Scan(
			&subject.ID, &subject.Code, &subject.Title, &subject.Units, &subject.CreatedAt,
		); err != nil {
			return nil, err
		}
		subjects = append(subjects, &subject)
	}

	return subjects, rows.Err()
}

// Update edits a subject
func (r *SubjectRepository) Update(ctx context.Context, subject *models.Subject) error {
	cmdTag, err := r.db.Exec(ctx,
		`UPDATE subjects SET code = $1, title = $2, units = $3 WHERE id = $4`,
		subject.Code, subject.Title, subject.Units, subject.ID)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.ErrSubjectCodeExists
		}
		return fmt.Errorf("error updating subject: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrSubjectNotFound
	}
	return nil
}

// Delete removes a subject by ID
func (r *SubjectRepository) Delete(ctx context.Context, id uuid.UUID) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM subjects WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting subject: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrSubjectNotFound
	}
	return nil
}

// Count returns the number of subjects
func (r *SubjectRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM subjects`).Scan(&count); err != nil {
		return 0, fmt.Errorf("error counting subjects: %w", err)
	}
	return count, nil
}
