package apperrors

import "errors"

// Common errors
var (
	// Resource errors
	ErrResourceNotFound      = errors.New("resource not found")
	ErrResourceAlreadyExists = errors.New("resource already exists")
	ErrConflict              = errors.New("conflict")

	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrSessionExpired     = errors.New("session expired")
	ErrSessionInvalid     = errors.New("invalid session")
	ErrUnauthenticated    = errors.New("authentication required")

	// Authorization errors
	ErrPermissionDenied = errors.New("permission denied")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
	ErrInvalidEmail     = errors.New("invalid email")
	ErrInvalidPassword  = errors.New("invalid password")
	ErrBadRequest       = errors.New("bad request")
)

// Invitation token errors
var (
	ErrTokenInvalid = errors.New("invalid or already used invitation token")
	ErrTokenExpired = errors.New("invitation token has expired")
)

// Candidate errors
var (
	ErrCandidateNotFound     = errors.New("candidate not found")
	ErrApplicationNoExists   = errors.New("application number already exists")
	ErrCandidateNotInvitable = errors.New("candidate cannot be invited")
)

// Credential / profile errors
var (
	ErrEmailAlreadyExists = errors.New("email already has an account")
	ErrProfileNotFound    = errors.New("profile not found")
	ErrInvalidRole        = errors.New("invalid role")
)

// Catalog errors
var (
	ErrSubjectNotFound    = errors.New("subject not found")
	ErrSubjectCodeExists  = errors.New("subject with this code already exists")
	ErrDocumentNotFound   = errors.New("required document not found")
	ErrInvalidStudentType = errors.New("invalid student type")
)

// Upstream failures (store or mail provider)
var (
	ErrUpstream = errors.New("upstream service failure")
)

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Message string
	Details map[string]interface{}
}

// Error implements the error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap
func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewCustomError creates a CustomError with an underlying sentinel
func NewCustomError(err error, message string) *CustomError {
	return &CustomError{
		Err:     err,
		Message: message,
	}
}

// WithDetails adds context details to the error
func (e *CustomError) WithDetails(details map[string]interface{}) *CustomError {
	e.Details = details
	return e
}

// NewNotFoundError creates a resource-not-found error with a message
func NewNotFoundError(message string) error {
	return &CustomError{Err: ErrResourceNotFound, Message: message}
}

// NewConflictError creates a conflict error with a message
func NewConflictError(message string) error {
	return &CustomError{Err: ErrConflict, Message: message}
}

// NewValidationError creates a validation error with a message
func NewValidationError(message string) error {
	return &CustomError{Err: ErrValidationFailed, Message: message}
}
