// Package schemas defines the data structures
package schemas

import (
	"time"

	"github.com/google/uuid"
)

// Event is the row model for a campus event.
// Capacity is nil when the event accepts an unlimited number of registrations.
type Event struct {
	ID          uuid.UUID `json:"id"`          // Unique identifier for the event.
	Title       string    `json:"title"`       // Title of the event.
	Description string    `json:"description"` // Description of the event.
	Location    string    `json:"location"`    // Location where the event takes place.
	Category    string    `json:"category"`    // Category of the event, e.g. "Workshop".
	Capacity    *int32    `json:"capacity"`    // Maximum number of registrations, nil for unlimited.
	StartDate   time.Time `json:"startDate"`   // Timestamp when the event starts.
	EndDate     time.Time `json:"endDate"`     // Timestamp when the event ends.
}

// Registration links one user to one event. The (event, user) pair is unique,
// enforced by the database constraint rather than application checks.
type Registration struct {
	ID        uuid.UUID `json:"id"`        // Unique identifier for the registration.
	EventID   uuid.UUID `json:"eventId"`   // Identifier of the event.
	UserID    uuid.UUID `json:"userId"`    // Identifier of the registered user.
	Status    string    `json:"status"`    // Status of the registration, currently always RegistrationStatusRegistered.
	CreatedAt time.Time `json:"createdAt"` // Timestamp when the registration was created.
}

// RegistrationStatusRegistered is the status a registration is created with.
// There are no intermediate states: a registration either exists or it does not.
const RegistrationStatusRegistered = "REGISTERED"
