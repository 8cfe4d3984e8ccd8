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
)

// DocumentRepository handles database operations for required documents
type DocumentRepository struct {
	db *pgxpool.Pool
}

// NewDocumentRepository creates a new DocumentRepository
func NewDocumentRepository(db *pgxpool.Pool) *DocumentRepository {
	return &DocumentRepository{db: db}
}

// Create inserts a document requirement
func (r *DocumentRepository) Create(ctx context.Context, doc *models.RequiredDocument) error {
	if doc.ID == uuid.Nil {
		doc.ID = uuid.New()
	}

	query := `
		INSERT INTO required_documents (id, name, student_type)
		VALUES ($1, $2, $3)
		RETURNING created_at
	`

	err := r.db.QueryRow(ctx, query, doc.ID, doc.Name, doc.StudentType).Scan(&doc.CreatedAt)
	if err != nil {
		return fmt.Errorf("error creating required document: %w", err)
	}

	return nil
}

// GetByID retrieves a document requirement by ID
func (r *DocumentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.RequiredDocument, error) {
	query := `
		SELECT id, name, student_type, created_at
		FROM required_documents
		WHERE id = $1
	`

	var doc models.RequiredDocument
	err := r.db.QueryRow(ctx, query, id).Scan(&doc.ID, &doc.Name, &doc.StudentType, &doc.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrDocumentNotFound
		}
		return nil, fmt.Errorf("error retrieving required document: %w", err)
	}

	return &doc, nil
}

// GetAll retrieves all document requirements ordered by student type then name
func (r *DocumentRepository) GetAll(ctx context.Context) ([]*models.RequiredDocument, error) {
	query := `
		SELECT id, name, student_type, created_at
		FROM required_documents
		ORDER BY student_type, name
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error listing required documents: %w", err)
	}
	defer rows.Close()

	var docs []*models.RequiredDocument
	for rows.Next() {
		var doc models.RequiredDocument
		if err := rows.Scan(&doc.ID, &doc.Name, &doc.StudentType, &doc.CreatedAt); err != nil {
			return nil, err
		}
		docs = append(docs, &doc)
	}

	return docs, rows.Err()
}

// Update edits a document requirement
func (r *DocumentRepository) Update(ctx context.Context, doc *models.RequiredDocument) error {
	cmdTag, err := r.db.Exec(ctx,
		`UPDATE required_documents SET name = $1, student_type = $2 WHERE id = $3`,
		doc.Name, doc.StudentType, doc.ID)
	if err != nil {
		return fmt.Errorf("error updating required document: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrDocumentNotFound
	}
	return nil
}

// Delete removes a document requirement by ID
func (r *DocumentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM required_documents WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting required document: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrDocumentNotFound
	}
	return nil
}

// Count returns the number of document requirements
func (r *DocumentRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM required_documents`).Scan(&count); err != nil {
		return 0, fmt.Errorf("error counting required documents: %w", err)
	}
	return count, nil
}
