package repository

import "errors"

var (
	// ErrInputOutOfRange reports an identifier that cannot address any row.
	ErrInputOutOfRange = errors.New("id must be larger than 0")
	// ErrNotFound reports an operation that referenced a row that does not exist,
	// where absence is actionable rather than an empty read result.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyAssigned reports an attempt to assign a role to a user that
	// already belongs to one.
	ErrAlreadyAssigned = errors.New("user already has a role")
)

// NotBookableError reports a booking attempt rejected by the capacity check.
// Reason carries the caller-facing explanation.
type NotBookableError struct {
	Reason string
}

func (e *NotBookableError) Error() string {
	return e.Reason
}
