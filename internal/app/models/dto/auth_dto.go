package dto

// LoginRequest represents login credentials
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// SessionUser is the authenticated identity returned after login
type SessionUser struct {
	ID       string  `json:"id"`
	Email    string  `json:"email"`
	FullName *string `json:"fullName,omitempty"`
	Role     string  `json:"role" example:"student"`
}

// LoginResponse represents a successful login
type LoginResponse struct {
	Success bool        `json:"success" example:"true"`
	User    SessionUser `json:"user"`
	// RedirectTo is the caller's own role area
	RedirectTo string `json:"redirectTo" example:"/student"`
}

// CompleteRegistrationRequest finalizes an invitation
type CompleteRegistrationRequest struct {
	Token    string `json:"token" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UpdatePasswordRequest changes the authenticated user's password
type UpdatePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required"`
}

// CreateUserRequest is the admin create-user operation: a pre-confirmed
// credential plus a profile with an explicit role.
type CreateUserRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	FullName string `json:"fullName"`
	Role     string `json:"role" binding:"required"`
}
