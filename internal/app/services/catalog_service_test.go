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

type fakeSubjectStore struct {
	subjects []*models.Subject
}

func (f *fakeSubjectStore) Create(_ context.Context, subject *models.Subject) error {
	for _, s := range f.subjects {
		if s.Code == subject.Code {
			return apperrors.ErrSubjectCodeExists
		}
	}
	if subject.ID == uuid.Nil {
		subject.ID = uuid.New()
	}
	f.subjects = append(f.subjects, subject)
	return nil
}

func (f *fakeSubjectStore) GetByID(_ context.Context, id uuid.UUID) (*models.Subject, error) {
	for _, s := range f.subjects {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, apperrors.ErrSubjectNotFound
}

func (f *fakeSubjectStore) GetAll(_ context.Context) ([]*models.Subject, error) {
	return f.subjects, nil
}

func (f *fakeSubjectStore) Update(_ context.Context, _ *models.Subject) error { return nil }
func (f *fakeSubjectStore) Delete(_ context.Context, _ uuid.UUID) error       { return nil }

type fakeDocumentStore struct {
	docs []*models.RequiredDocument
}

func (f *fakeDocumentStore) Create(_ context.Context, doc *models.RequiredDocument) error {
	if doc.ID == uuid.Nil {
		doc.ID = uuid.New()
	}
	f.docs = append(f.docs, doc)
	return nil
}

func (f *fakeDocumentStore) GetByID(_ context.Context, id uuid.UUID) (*models.RequiredDocument, error) {
	for _, d := range f.docs {
		if d.ID == id {
			return d, nil
		}
	}
	return nil, apperrors.ErrDocumentNotFound
}

func (f *fakeDocumentStore) GetAll(_ context.Context) ([]*models.RequiredDocument, error) {
	return f.docs, nil
}

func (f *fakeDocumentStore) Update(_ context.Context, _ *models.RequiredDocument) error { return nil }
func (f *fakeDocumentStore) Delete(_ context.Context, _ uuid.UUID) error                { return nil }

func TestCreateSubjectNormalizesCode(t *testing.T) {
	svc := NewCatalogService(&fakeSubjectStore{}, &fakeDocumentStore{}, zerolog.Nop())

	subject, err := svc.CreateSubject(context.Background(), &dto.SubjectRequest{
		Code:  " math101 ",
		Title: " Mathematics in the Modern World ",
		Units: 3,
	})
	require.NoError(t, err)

	assert.Equal(t, "MATH101", subject.Code)
	assert.Equal(t, "Mathematics in the Modern World", subject.Title)
}

func TestCreateSubjectDuplicateCode(t *testing.T) {
	store := &fakeSubjectStore{}
	svc := NewCatalogService(store, &fakeDocumentStore{}, zerolog.Nop())

	_, err := svc.CreateSubject(context.Background(), &dto.SubjectRequest{Code: "GE101", Title: "A", Units: 3})
	require.NoError(t, err)

	_, err = svc.CreateSubject(context.Background(), &dto.SubjectRequest{Code: "ge101", Title: "B", Units: 3})
	assert.ErrorIs(t, err, apperrors.ErrSubjectCodeExists)
}

func TestCreateDocumentRejectsUnknownStudentType(t *testing.T) {
	svc := NewCatalogService(&fakeSubjectStore{}, &fakeDocumentStore{}, zerolog.Nop())

	_, err := svc.CreateDocument(context.Background(), &dto.RequiredDocumentRequest{
		Name:        "Form 138",
		StudentType: models.StudentType("graduate"),
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidStudentType)
}

func TestListDocumentsGroupsByStudentType(t *testing.T) {
	store := &fakeDocumentStore{}
	svc := NewCatalogService(&fakeSubjectStore{}, store, zerolog.Nop())

	_, err := svc.CreateDocument(context.Background(), &dto.RequiredDocumentRequest{
		Name: "Form 138", StudentType: models.StudentTypeFreshman})
	require.NoError(t, err)
	_, err = svc.CreateDocument(context.Background(), &dto.RequiredDocumentRequest{
		Name: "Transcript of Records", StudentType: models.StudentTypeTransferee})
	require.NoError(t, err)
	_, err = svc.CreateDocument(context.Background(), &dto.RequiredDocumentRequest{
		Name: "Good Moral Certificate", StudentType: models.StudentTypeFreshman})
	require.NoError(t, err)

	grouped, err := svc.ListDocuments(context.Background())
	require.NoError(t, err)

	assert.Len(t, grouped.Freshman, 2)
	assert.Len(t, grouped.Transferee, 1)
	assert.Equal(t, "Transcript of Records", grouped.Transferee[0].Name)
}
