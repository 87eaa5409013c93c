// Package schemas defines the request structures for the API.
package schemas

// SignupRequest is a struct that represents a signup request
// Email is required and must be a valid email
// Password is required and must be at least 8 characters with mixed classes
// FirstName is required, LastName is optional
type SignupRequest struct {
	Email     string `json:"email" validate:"required,email,max=128"`
	Password  string `json:"password" validate:"required,min=8,max=72,password_validation"`
	FirstName string `json:"firstName" validate:"required,max=50"`
	LastName  string `json:"lastName" validate:"max=50"`
}

// ActivationRequest is a struct that represents an activation request
// Token is required and must be a 6-digit number
type ActivationRequest struct {
	Token string `json:"token" validate:"required,numeric,len=6"`
}

// LoginRequest is a struct that represents a login request
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email,max=128"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// RefreshTokenRequest is a struct that represents a RefreshToken request
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// ForgotPasswordRequest is a struct that represents a forgot-password request
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email,max=128"`
}

// ResetPasswordRequest is a struct that represents a reset-password request
// Token is the reset token from the email, valid for 30 minutes
type ResetPasswordRequest struct {
	Email       string `json:"email" validate:"required,email,max=128"`
	Token       string `json:"token" validate:"required,hexadecimal,len=64"`
	NewPassword string `json:"newPassword" validate:"required,min=8,max=72,password_validation"`
}

// ChangePasswordRequest is a struct that represents a PasswordChange request
type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword" validate:"required,min=8,max=72"`
	NewPassword string `json:"newPassword" validate:"required,min=8,max=72,password_validation"`
}

// CreateEventRequest is a struct that represents a create event request
// Capacity is optional, nil means unlimited, zero is allowed and rejects all
// registrations. Dates are RFC 3339 timestamps.
type CreateEventRequest struct {
	Title       string `json:"title" validate:"required,max=100"`
	Description string `json:"description" validate:"required,max=2048"`
	Location    string `json:"location" validate:"required,max=150"`
	Category    string `json:"category" validate:"max=50"`
	Capacity    *int32 `json:"capacity" validate:"omitempty,gte=0"`
	StartDate   string `json:"startDate" validate:"required,rfc3339_validation"`
	EndDate     string `json:"endDate" validate:"required,rfc3339_validation"`
}

// UpdateEventRequest is a struct that represents an update event request.
// It carries the full new state of the event, mirroring CreateEventRequest.
type UpdateEventRequest struct {
	Title       string `json:"title" validate:"required,max=100"`
	Description string `json:"description" validate:"required,max=2048"`
	Location    string `json:"location" validate:"required,max=150"`
	Category    string `json:"category" validate:"max=50"`
	Capacity    *int32 `json:"capacity" validate:"omitempty,gte=0"`
	StartDate   string `json:"startDate" validate:"required,rfc3339_validation"`
	EndDate     string `json:"endDate" validate:"required,rfc3339_validation"`
}

// CreateUserRequest is a struct that represents an admin create user request
// The created account is activated immediately
type CreateUserRequest struct {
	Email     string `json:"email" validate:"required,email,max=128"`
	Password  string `json:"password" validate:"required,min=8,max=72,password_validation"`
	FirstName string `json:"firstName" validate:"required,max=50"`
	LastName  string `json:"lastName" validate:"max=50"`
	Role      string `json:"role" validate:"required,role_validation"`
}

// ChangeRoleRequest is a struct that represents an admin role change request
type ChangeRoleRequest struct {
	Role string `json:"role" validate:"required,role_validation"`
}
