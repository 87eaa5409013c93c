package schemas

import "github.com/google/uuid"

// ErrorDTO is a struct that represents an error response
// Error is the custom error, see CustomError
type ErrorDTO struct {
	Error CustomError `json:"error"`
}

// MessageDTO is a struct that represents a plain confirmation response
// Message is the human readable confirmation text
type MessageDTO struct {
	Message string `json:"message"`
}

// UserDTO is a struct that represents a user response
// Email is the email of the user
// FirstName and LastName are the names of the user
// Role is the role of the user
type UserDTO struct {
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Role      Role   `json:"role"`
}

// UserProfileDTO is a struct that represents the profile of the calling user
// Registrations is the number of events the user is registered for
type UserProfileDTO struct {
	Email         string `json:"email"`
	FirstName     string `json:"firstName"`
	LastName      string `json:"lastName"`
	Role          Role   `json:"role"`
	Registrations int    `json:"registrations"`
}

// AdminUserDTO is a struct that represents a user in the admin user list
// Activated reports whether the account has been activated
type AdminUserDTO struct {
	UserId    uuid.UUID `json:"userId"`
	Email     string    `json:"email"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Role      Role      `json:"role"`
	Activated bool      `json:"activated"`
	CreatedAt string    `json:"createdAt"`
}

// TokenPairDTO is a struct that represents a token response
// Token is the main JWT token used for auth
// RefreshToken is the refresh token used to get a new token
type TokenPairDTO struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
}

// EventDTO is a struct that represents an event response
// Capacity is nil for unlimited events
// Registered is the current number of registrations
type EventDTO struct {
	EventId     uuid.UUID `json:"eventId"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	Category    string    `json:"category"`
	Capacity    *int32    `json:"capacity"`
	Registered  int       `json:"registered"`
	StartDate   string    `json:"startDate"`
	EndDate     string    `json:"endDate"`
}

// AdminEventDTO is a struct that represents an event in the admin event list
// Status is derived from the event dates: upcoming, ongoing or completed
type AdminEventDTO struct {
	EventId    uuid.UUID `json:"eventId"`
	Title      string    `json:"title"`
	Location   string    `json:"location"`
	Capacity   *int32    `json:"capacity"`
	Registered int       `json:"registered"`
	StartDate  string    `json:"startDate"`
	EndDate    string    `json:"endDate"`
	Status     string    `json:"status"`
	Organizer  string    `json:"organizer"`
}

// RegistrationDTO is a struct that represents a registration response
type RegistrationDTO struct {
	RegistrationId   uuid.UUID `json:"registrationId"`
	Status           string    `json:"status"`
	RegistrationDate string    `json:"registrationDate"`
}

// RegistrationCreatedDTO is the response body for a successful event registration
type RegistrationCreatedDTO struct {
	Message      string          `json:"message"`
	Registration RegistrationDTO `json:"registration"`
}

// UserRegistrationDTO is a struct that represents one entry in the caller's
// registration list, joined with the event it belongs to
type UserRegistrationDTO struct {
	RegistrationId   uuid.UUID `json:"registrationId"`
	Status           string    `json:"status"`
	RegistrationDate string    `json:"registrationDate"`
	Event            EventDTO  `json:"event"`
}

// AttendeeDTO is a struct that represents one registered user of an event
type AttendeeDTO struct {
	RegistrationId   uuid.UUID `json:"registrationId"`
	Email            string    `json:"email"`
	FirstName        string    `json:"firstName"`
	LastName         string    `json:"lastName"`
	RegistrationDate string    `json:"registrationDate"`
}

// PaginatedResponse is a struct that represents a paginated response
// Records is the records of the response
// Pagination is the pagination of the response
type PaginatedResponse struct {
	Records    interface{} `json:"records"`
	Pagination Pagination  `json:"pagination"`
}

// Pagination is a struct that represents a pagination
// Offset is the given offset of the pagination
// Limit is the given limit of the pagination
// Records is the total records of the pagination
type Pagination struct {
	Offset  int `json:"offset"`
	Limit   int `json:"limit"`
	Records int `json:"records"`
}

// MetadataDTO is a struct that represents the version metadata of the API
type MetadataDTO struct {
	ApiVersion string `json:"apiVersion"`
	ApiName    string `json:"apiName"`
}
