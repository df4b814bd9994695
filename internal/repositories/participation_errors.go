package repositories

import "fmt"

// ParticipationErrorCode enumerates failure reasons for counter operations.
type ParticipationErrorCode string

const (
	// ParticipationErrorUnknown represents an unspecified failure.
	ParticipationErrorUnknown ParticipationErrorCode = "participation_unknown"
	// ParticipationErrorInvalidInput indicates the caller supplied invalid arguments.
	ParticipationErrorInvalidInput ParticipationErrorCode = "participation_invalid_input"
)

// ParticipationError wraps counter-specific failures with machine readable codes.
type ParticipationError struct {
	Op      string
	Code    ParticipationErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *ParticipationError) Error() string {
	if e == nil {
		return ""
	}
	if e.Op != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}
	return e.Message
}

// Unwrap exposes the underlying error, if any.
func (e *ParticipationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// NewParticipationError constructs a typed participation counter error.
func NewParticipationError(code ParticipationErrorCode, message string, err error) *ParticipationError {
	if message == "" {
		message = string(code)
	}
	return &ParticipationError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
