package models

import (
	"time"

	"github.com/google/uuid"
)

// Subject is a catalog entry from the 'subjects' table
type Subject struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Code      string    `json:"code" db:"code" example:"MATH101"`
	Title     string    `json:"title" db:"title" example:"College Algebra"`
	Units     int       `json:"units" db:"units" example:"3"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// RequiredDocument is a named enrollment document requirement from the
// 'required_documents' table, tagged with the student type it applies to.
type RequiredDocument struct {
	ID          uuid.UUID   `json:"id" db:"id"`
	Name        string      `json:"name" db:"name" example:"Form 138 (Report Card)"`
	StudentType StudentType `json:"studentType" db:"student_type" example:"freshman"`
	CreatedAt   time.Time   `json:"createdAt" db:"created_at"`
}
