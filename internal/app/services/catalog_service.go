package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mcruz/enrollsys/internal/app/models"
	"github.com/mcruz/enrollsys/internal/app/models/dto"
	"github.com/mcruz/enrollsys/internal/pkg/apperrors"
)

type subjectStore interface {
	Create(ctx context.Context, subject *models.Subject) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Subject, error)
	GetAll(ctx context.Context) ([]*models.Subject, error)
	Update(ctx context.Context, subject *models.Subject) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type documentStore interface {
	Create(ctx context.Context, doc *models.RequiredDocument) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.RequiredDocument, error)
	GetAll(ctx context.Context) ([]*models.RequiredDocument, error)
	Update(ctx context.Context, doc *models.RequiredDocument) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// CatalogService manages the subject catalog and document requirements
type CatalogService struct {
	subjectRepo  subjectStore
	documentRepo documentStore
	logger       zerolog.Logger
}

// NewCatalogService creates a new CatalogService
func NewCatalogService(subjectRepo subjectStore, documentRepo documentStore, logger zerolog.Logger) *CatalogService {
	return &CatalogService{
		subjectRepo:  subjectRepo,
		documentRepo: documentRepo,
		logger:       logger,
	}
}

// CreateSubject adds a subject to the catalog. Codes are stored uppercase.
func (s *CatalogService) CreateSubject(ctx context.Context, req *dto.SubjectRequest) (*models.Subject, error) {
	subject := &models.Subject{
		Code:  strings.ToUpper(strings.TrimSpace(req.Code)),
		Title: strings.TrimSpace(req.Title),
		Units: req.Units,
	}

	if err := s.subjectRepo.Create(ctx, subject); err != nil {
		return nil, err
	}

	s.logger.Info().Str("subjectId", subject.ID.String()).Str("code", subject.Code).Msg("Subject created")
	return subject, nil
}

// ListSubjects returns the full catalog ordered by code
func (s *CatalogService) ListSubjects(ctx context.Context) ([]*models.Subject, error) {
	return s.subjectRepo.GetAll(ctx)
}

// UpdateSubject edits a catalog entry
func (s *CatalogService) UpdateSubject(ctx context.Context, id uuid.UUID, req *dto.SubjectRequest) (*models.Subject, error) {
	subject, err := s.subjectRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	subject.Code = strings.ToUpper(strings.TrimSpace(req.Code))
	subject.Title = strings.TrimSpace(req.Title)
	subject.Units = req.Units

	if err := s.subjectRepo.Update(ctx, subject); err != nil {
		return nil, err
	}

	return subject, nil
}

// DeleteSubject removes a catalog entry
func (s *CatalogService) DeleteSubject(ctx context.Context, id uuid.UUID) error {
	return s.subjectRepo.Delete(ctx, id)
}

// CreateDocument adds a document requirement for a student type
func (s *CatalogService) CreateDocument(ctx context.Context, req *dto.RequiredDocumentRequest) (*models.RequiredDocument, error) {
	if !req.StudentType.Valid() {
		return nil, apperrors.ErrInvalidStudentType
	}

	doc := &models.RequiredDocument{
		Name:        strings.TrimSpace(req.Name),
		StudentType: req.StudentType,
	}

	if err := s.documentRepo.Create(ctx, doc); err != nil {
		return nil, err
	}

	return doc, nil
}

// ListDocuments groups all document requirements by student type
func (s *CatalogService) ListDocuments(ctx context.Context) (*dto.RequiredDocumentsByType, error) {
	docs, err := s.documentRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	grouped := &dto.RequiredDocumentsByType{
		Freshman:   []*models.RequiredDocument{},
		Transferee: []*models.RequiredDocument{},
	}
	for _, doc := range docs {
		switch doc.StudentType {
		case models.StudentTypeFreshman:
			grouped.Freshman = append(grouped.Freshman, doc)
		case models.StudentTypeTransferee:
			grouped.Transferee = append(grouped.Transferee, doc)
		}
	}

	return grouped, nil
}

// UpdateDocument edits a document requirement
func (s *CatalogService) UpdateDocument(ctx context.Context, id uuid.UUID, req *dto.RequiredDocumentRequest) (*models.RequiredDocument, error) {
	if !req.StudentType.Valid() {
		return nil, apperrors.ErrInvalidStudentType
	}

	doc, err := s.documentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	doc.Name = strings.TrimSpace(req.Name)
	doc.StudentType = req.StudentType

	if err := s.documentRepo.Update(ctx, doc); err != nil {
		return nil, err
	}

	return doc, nil
}

// DeleteDocument removes a document requirement
func (s *CatalogService) DeleteDocument(ctx context.Context, id uuid.UUID) error {
	return s.documentRepo.Delete(ctx, id)
}
