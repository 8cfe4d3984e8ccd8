package services

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/mail"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mcruz/enrollsys/internal/app/models"
	"github.com/mcruz/enrollsys/internal/app/models/dto"
	"github.com/mcruz/enrollsys/internal/pkg/apperrors"
)

// csvHeaderAliases maps the header spellings accepted in candidate imports to
// canonical column names. Matching is case-insensitive after trimming.
var csvHeaderAliases = map[string]string{
	"application no": "application_no",
	"application_no": "application_no",
	"applicationno":  "application_no",
	"app no":         "application_no",
	"full name":      "full_name",
	"full_name":      "full_name",
	"fullname":       "full_name",
	"name":           "full_name",
	"email":          "email",
	"email address":  "email",
	"contact number": "contact_number",
	"contact_number": "contact_number",
	"contact":        "contact_number",
	"phone":          "contact_number",
	"mobile":         "contact_number",
}

// candidateStore is the candidate persistence surface the service uses
type candidateStore interface {
	Create(ctx context.Context, candidate *models.Candidate) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Candidate, error)
	List(ctx context.Context, filter dto.CandidateListFilter, offset uint64, limit int) ([]*models.Candidate, error)
	Count(ctx context.Context, filter dto.CandidateListFilter) (int64, error)
	Update(ctx context.Context, candidate *models.Candidate) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.CandidateStatus, revokeToken bool) error
	Delete(ctx context.Context, id uuid.UUID) error
	BulkInsert(ctx context.Context, candidates []*models.Candidate) (int, error)
	Stats(ctx context.Context) (*dto.CandidateStats, error)
}

// CandidateService manages enrollment candidate records
type CandidateService struct {
	candidateRepo candidateStore
	logger        zerolog.Logger
}

// NewCandidateService creates a new CandidateService
func NewCandidateService(candidateRepo candidateStore, logger zerolog.Logger) *CandidateService {
	return &CandidateService{
		candidateRepo: candidateRepo,
		logger:        logger,
	}
}

// validEmail reports whether addr parses as a bare RFC 5322 address.
func validEmail(addr string) bool {
	parsed, err := mail.ParseAddress(addr)
	return err == nil && parsed.Address == addr
}

// Create registers a candidate. An empty application number gets a generated
// one so manually entered walk-ins do not need to invent identifiers.
func (s *CandidateService) Create(ctx context.Context, req *dto.CreateCandidateRequest) (*models.Candidate, error) {
	appNo := strings.TrimSpace(req.ApplicationNo)
	if appNo == "" {
		appNo = generateApplicationNo()
	}

	emailAddr := strings.ToLower(strings.TrimSpace(req.Email))
	if !validEmail(emailAddr) {
		return nil, apperrors.ErrInvalidEmail
	}

	candidate := &models.Candidate{
		ApplicationNo: appNo,
		FullName:      strings.TrimSpace(req.FullName),
		Email:         emailAddr,
		ContactNumber: req.ContactNumber,
		Status:        models.StatusPending,
	}

	if err := s.candidateRepo.Create(ctx, candidate); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("candidateId", candidate.ID.String()).
		Str("applicationNo", candidate.ApplicationNo).
		Msg("Candidate created")

	return candidate, nil
}

// generateApplicationNo derives an application number from a fresh UUID.
func generateApplicationNo() string {
	raw := strings.ReplaceAll(uuid.New().String(), "-", "")
	return "APP-" + strings.ToUpper(raw[:10])
}

// GetByID retrieves a single candidate
func (s *CandidateService) GetByID(ctx context.Context, id uuid.UUID) (*models.Candidate, error) {
	return s.candidateRepo.GetByID(ctx, id)
}

// List returns a filtered, paginated candidate page plus the total count.
func (s *CandidateService) List(ctx context.Context, filter dto.CandidateListFilter, offset uint64, limit int) ([]*models.Candidate, int64, error) {
	candidates, err := s.candidateRepo.List(ctx, filter, offset, limit)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.candidateRepo.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	return candidates, total, nil
}

// Update edits a candidate's identity fields
func (s *CandidateService) Update(ctx context.Context, id uuid.UUID, req *dto.UpdateCandidateRequest) (*models.Candidate, error) {
	candidate, err := s.candidateRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	emailAddr := strings.ToLower(strings.TrimSpace(req.Email))
	if !validEmail(emailAddr) {
		return nil, apperrors.ErrInvalidEmail
	}

	candidate.ApplicationNo = strings.TrimSpace(req.ApplicationNo)
	candidate.FullName = strings.TrimSpace(req.FullName)
	candidate.Email = emailAddr
	candidate.ContactNumber = req.ContactNumber

	if err := s.candidateRepo.Update(ctx, candidate); err != nil {
		return nil, err
	}

	return candidate, nil
}

// UpdateStatus forces a candidate's review status. Rejecting a candidate also
// revokes any outstanding activation token so a stale link cannot be used to
// register a rejected applicant.
func (s *CandidateService) UpdateStatus(ctx context.Context, id uuid.UUID, status models.CandidateStatus) error {
	if !status.Valid() {
		return apperrors.NewValidationError(fmt.Sprintf("unknown candidate status %q", status))
	}

	revokeToken := status == models.StatusRejected
	if err := s.candidateRepo.UpdateStatus(ctx, id, status, revokeToken); err != nil {
		return err
	}

	s.logger.Info().
		Str("candidateId", id.String()).
		Str("status", string(status)).
		Bool("tokenRevoked", revokeToken).
		Msg("Candidate status updated")

	return nil
}

// Delete removes a candidate record
func (s *CandidateService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.candidateRepo.Delete(ctx, id)
}

// Stats summarizes the candidate table for dashboards
func (s *CandidateService) Stats(ctx context.Context) (*dto.CandidateStats, error) {
	return s.candidateRepo.Stats(ctx)
}

// ImportCSV bulk-loads candidates from a CSV stream. The header row is
// matched against the accepted alias spellings; rows missing a name or email
// are reported as errors, rows whose application number already exists are
// skipped rather than failing the whole import.
func (s *CandidateService) ImportCSV(ctx context.Context, r io.Reader) (*dto.ImportResult, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, apperrors.NewValidationError("file is empty or not a readable CSV")
	}

	columns := make(map[string]int)
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(h))
		if canonical, ok := csvHeaderAliases[key]; ok {
			if _, dup := columns[canonical]; !dup {
				columns[canonical] = i
			}
		}
	}

	if _, ok := columns["full_name"]; !ok {
		return nil, apperrors.NewValidationError("CSV is missing a full name column")
	}
	if _, ok := columns["email"]; !ok {
		return nil, apperrors.NewValidationError("CSV is missing an email column")
	}

	field := func(record []string, name string) string {
		idx, ok := columns[name]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	result := &dto.ImportResult{}
	var candidates []*models.Candidate
	line := 1

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("line %d: malformed row", line))
			continue
		}

		fullName := field(record, "full_name")
		emailAddr := strings.ToLower(field(record, "email"))
		if fullName == "" || emailAddr == "" {
			result.Errors = append(result.Errors, fmt.Sprintf("line %d: missing name or email", line))
			continue
		}
		if !validEmail(emailAddr) {
			result.Errors = append(result.Errors, fmt.Sprintf("line %d: invalid email %q", line, emailAddr))
			continue
		}

		appNo := field(record, "application_no")
		if appNo == "" {
			appNo = generateApplicationNo()
		}

		candidate := &models.Candidate{
			ApplicationNo: appNo,
			FullName:      fullName,
			Email:         emailAddr,
			Status:        models.StatusPending,
		}
		if contact := field(record, "contact_number"); contact != "" {
			candidate.ContactNumber = &contact
		}
		candidates = append(candidates, candidate)
	}

	inserted, err := s.candidateRepo.BulkInsert(ctx, candidates)
	if err != nil {
		return nil, err
	}

	result.Inserted = inserted
	result.Skipped = len(candidates) - inserted

	s.logger.Info().
		Int("inserted", result.Inserted).
		Int("skipped", result.Skipped).
		Int("errors", len(result.Errors)).
		Msg("Candidate CSV import finished")

	return result, nil
}
