package models

import (
	"time"

	"github.com/google/uuid"
)

// Credential is a login identity from the 'credentials' table. It is the
// authentication half of a user; the profile carries the portal-facing role.
type Credential struct {
	ID             uuid.UUID `json:"id" db:"id"`
	Email          string    `json:"email" db:"email"`
	PasswordHash   string    `json:"-" db:"password_hash"`
	EmailConfirmed bool      `json:"emailConfirmed" db:"email_confirmed"`
	CreatedAt      time.Time `json:"createdAt" db:"created_at"`
}

// Profile is the portal's record of an authenticated user, based on the
// 'profiles' table. It shares its ID with the credential it belongs to.
// Deleting a profile does not delete the underlying credential.
type Profile struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Email     string    `json:"email" db:"email"`
	FullName  *string   `json:"fullName,omitempty" db:"full_name"`
	Role      Role      `json:"role" db:"role" example:"student"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
