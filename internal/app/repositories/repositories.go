package repositories

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories bundles all data access objects
type Repositories struct {
	Candidate  *CandidateRepository
	Credential *CredentialRepository
	Profile    *ProfileRepository
	Subject    *SubjectRepository
	Document   *DocumentRepository
}

// NewRepositories creates all repositories sharing one pool
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		Candidate:  NewCandidateRepository(db),
		Credential: NewCredentialRepository(db),
		Profile:    NewProfileRepository(db),
		Subject:    NewSubjectRepository(db),
		Document:   NewDocumentRepository(db),
	}
}
