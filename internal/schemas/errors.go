package schemas

// CustomError is the stable error taxonomy returned to clients. The code is
// machine readable, the message is safe to show to users. Internal error text
// never reaches the response body.
type CustomError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

var (
	BadRequest = &CustomError{
		Code:    "ERR-001",
		Message: "The request body is invalid. Please check the request body and try again.",
	}
	EmailTaken = &CustomError{
		Code:    "ERR-002",
		Message: "The email is already registered. Please log in or use another email.",
	}
	EmailUnreachable = &CustomError{
		Code:    "ERR-003",
		Message: "The email address appears to be unreachable. Please check the email and try again.",
	}
	UserNotFound = &CustomError{
		Code:    "ERR-004",
		Message: "The user was not found. Please check the email and try again.",
	}
	UserAlreadyActivated = &CustomError{
		Code:    "ERR-005",
		Message: "The user is already activated.",
	}
	UserNotActivated = &CustomError{
		Code:    "ERR-006",
		Message: "The user is not activated. Please activate your account first.",
	}
	InvalidToken = &CustomError{
		Code:    "ERR-007",
		Message: "The token is invalid. Please request a new token.",
	}
	TokenExpired = &CustomError{
		Code:    "ERR-008",
		Message: "The token has expired. Please request a new token.",
	}
	InvalidCredentials = &CustomError{
		Code:    "ERR-009",
		Message: "The credentials are invalid. Please check your email and password.",
	}
	EventNotFound = &CustomError{
		Code:    "ERR-010",
		Message: "The event was not found. Please check the event and try again.",
	}
	EventAtCapacity = &CustomError{
		Code:    "ERR-011",
		Message: "This event has reached capacity.",
	}
	AlreadyRegistered = &CustomError{
		Code:    "ERR-012",
		Message: "You are already registered for this event.",
	}
	RegistrationNotFound = &CustomError{
		Code:    "ERR-013",
		Message: "You are not registered for this event.",
	}
	Unauthorized = &CustomError{
		Code:    "ERR-014",
		Message: "The request is unauthorized. Please login to your account.",
	}
	Forbidden = &CustomError{
		Code:    "ERR-015",
		Message: "You do not have permission to perform this action.",
	}
	DatabaseError = &CustomError{
		Code:    "ERR-016",
		Message: "An internal error occurred. Please try again later.",
	}
	InternalServerError = &CustomError{
		Code:    "ERR-017",
		Message: "An internal error occurred. Please try again later.",
	}
	EmailNotSent = &CustomError{
		Code:    "ERR-018",
		Message: "The email could not be sent. Please try again later.",
	}
	TooManyRequests = &CustomError{
		Code:    "ERR-019",
		Message: "Too many requests. Please slow down and try again later.",
	}
)
