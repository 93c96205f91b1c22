package shared

import "errors"

// DomainError is a failure the engine reports as a Go error rather than as a validation event.
// Two domain errors match under errors.Is when their codes are equal.
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *DomainError) Error() string {
	return e.Message
}

// Is matches any domain error carrying the same code
func (e *DomainError) Is(target error) bool {
	var other *DomainError
	if !errors.As(target, &other) {
		return false
	}
	return e.Code == other.Code
}

// NewDomainError creates a domain error with code and message
func NewDomainError(code, message string) *DomainError {
	return &DomainError{Code: code, Message: message}
}

var (
	// ErrNotFound is returned by stores and services for an unknown id
	ErrNotFound = NewDomainError("NOT_FOUND", "Resource not found")
	// ErrInvalidInput rejects nil entities and entities missing an id where one is required
	ErrInvalidInput = NewDomainError("INVALID_INPUT", "Invalid input provided")
	// ErrUnauthorized means no calling account could be resolved
	ErrUnauthorized = NewDomainError("UNAUTHORIZED", "Not authorized to perform this action")
	// ErrNotScoped is returned when account scoping is on but the store cannot filter by account
	ErrNotScoped = NewDomainError("NOT_SCOPED", "Store does not support account scoped access")
)
