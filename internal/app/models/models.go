package models

// Role defines the portal permission levels
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleOfficer Role = "officer"
	RoleFaculty Role = "faculty"
	RoleStudent Role = "student"
)

// Valid reports whether r is one of the four known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleOfficer, RoleFaculty, RoleStudent:
		return true
	}
	return false
}

// CandidateStatus defines the candidate lifecycle status
type CandidateStatus string

const (
	StatusPending  CandidateStatus = "pending"
	StatusApproved CandidateStatus = "approved"
	StatusRejected CandidateStatus = "rejected"
)

// Valid reports whether s is a known candidate status.
func (s CandidateStatus) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// StudentType classifies a required document's audience
type StudentType string

const (
	StudentTypeFreshman   StudentType = "freshman"
	StudentTypeTransferee StudentType = "transferee"
)

// Valid reports whether t is a known student type.
func (t StudentType) Valid() bool {
	return t == StudentTypeFreshman || t == StudentTypeTransferee
}
