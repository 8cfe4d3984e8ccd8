package dto

import (
	"time"

	"github.com/mcruz/enrollsys/internal/app/models"
)

// CreateCandidateRequest creates a candidate record (status starts pending)
type CreateCandidateRequest struct {
	ApplicationNo string  `json:"applicationNo"`
	FullName      string  `json:"fullName" binding:"required"`
	Email         string  `json:"email" binding:"required,email"`
	ContactNumber *string `json:"contactNumber"`
}

// UpdateCandidateRequest edits a candidate's identity fields
type UpdateCandidateRequest struct {
	ApplicationNo string  `json:"applicationNo" binding:"required"`
	FullName      string  `json:"fullName" binding:"required"`
	Email         string  `json:"email" binding:"required,email"`
	ContactNumber *string `json:"contactNumber"`
}

// UpdateCandidateStatusRequest forces a candidate status (admin action)
type UpdateCandidateStatusRequest struct {
	Status models.CandidateStatus `json:"status" binding:"required"`
}

// SendInvitationRequest identifies the candidate to invite
type SendInvitationRequest struct {
	CandidateID string `json:"candidateId" binding:"required"`
}

// SendInvitationResponse reports the issuance outcome. The activation URL is
// always included so a failed delivery can be relayed out-of-band.
type SendInvitationResponse struct {
	Success       bool   `json:"success" example:"true"`
	Message       string `json:"message"`
	EmailSent     bool   `json:"emailSent"`
	ActivationURL string `json:"activationUrl"`
}

// ActivationInfo is what an activation page may show about a valid token:
// the candidate's public fields only.
type ActivationInfo struct {
	FullName      string `json:"fullName"`
	ApplicationNo string `json:"applicationNo"`
	Email         string `json:"email"`
}

// ActivationResponse is the outcome of an advisory token validation
type ActivationResponse struct {
	Status    string          `json:"status" example:"valid"` // valid | invalid | expired
	Candidate *ActivationInfo `json:"candidate,omitempty"`
}

// ImportResult summarizes a CSV candidate import
type ImportResult struct {
	Inserted int      `json:"inserted"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors,omitempty"`
}

// CandidateListFilter narrows candidate listings
type CandidateListFilter struct {
	Status string `form:"status"` // pending | approved | rejected | invited | not_sent
	Search string `form:"search"` // matches name, email, application no
}

// CandidateStats summarizes the candidate table for dashboards
type CandidateStats struct {
	Total    int64 `json:"total"`
	Pending  int64 `json:"pending"`
	Approved int64 `json:"approved"`
	Rejected int64 `json:"rejected"`
	Invited  int64 `json:"invited"`
}

// DashboardStats is the admin dashboard summary payload
type DashboardStats struct {
	Candidates  CandidateStats   `json:"candidates"`
	UsersByRole map[string]int64 `json:"usersByRole"`
	Subjects    int64            `json:"subjects"`
	Documents   int64            `json:"documents"`
	GeneratedAt time.Time        `json:"generatedAt"`
}
