package models

import (
	"time"

	"github.com/google/uuid"
)

// Candidate is a prospective student tracked prior to having login
// credentials, based on the 'candidates' table.
type Candidate struct {
	ID            uuid.UUID       `json:"id" db:"id"`
	ApplicationNo string          `json:"applicationNo" db:"application_no" example:"APP-2026-0001"`
	FullName      string          `json:"fullName" db:"full_name" example:"Maria Santos"`
	Email         string          `json:"email" db:"email" example:"maria@example.com"`
	ContactNumber *string         `json:"contactNumber,omitempty" db:"contact_number"`
	Status        CandidateStatus `json:"status" db:"status" example:"pending"`
	// InvitationToken is the single-use activation token. At most one
	// non-null token exists per candidate; issuing a new one overwrites
	// (and thereby revokes) any prior token.
	InvitationToken *string    `json:"-" db:"invitation_token"`
	TokenExpiresAt  *time.Time `json:"tokenExpiresAt,omitempty" db:"token_expires_at"`
	InvitedAt       *time.Time `json:"invitedAt,omitempty" db:"invited_at"`
	CreatedAt       time.Time  `json:"createdAt" db:"created_at"`
}

// Invited reports whether an invitation has ever been sent.
func (c *Candidate) Invited() bool {
	return c.InvitedAt != nil
}
