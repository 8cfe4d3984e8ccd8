package dto

import "github.com/mcruz/enrollsys/internal/app/models"

// SubjectRequest creates or updates a subject catalog entry
type SubjectRequest struct {
	Code  string `json:"code" binding:"required"`
	Title string `json:"title" binding:"required"`
	Units int    `json:"units" binding:"required,min=1"`
}

// RequiredDocumentRequest creates or updates a document requirement
type RequiredDocumentRequest struct {
	Name        string             `json:"name" binding:"required"`
	StudentType models.StudentType `json:"studentType" binding:"required"`
}

// RequiredDocumentsByType groups document requirements per student type
type RequiredDocumentsByType struct {
	Freshman   []*models.RequiredDocument `json:"freshman"`
	Transferee []*models.RequiredDocument `json:"transferee"`
}

// UpdateProfileRequest edits a profile's display name and role
type UpdateProfileRequest struct {
	FullName string `json:"fullName"`
	Role     string `json:"role" binding:"required"`
}

// UpdateRoleRequest is the quick role change operation
type UpdateRoleRequest struct {
	Role string `json:"role" binding:"required"`
}
