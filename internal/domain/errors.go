package domain

import "errors"

// Sentinel errors for errors.Is() checking. Aggregate-specific errors wrap
// one of these so that callers can classify a rejection without knowing
// every aggregate's taxonomy.
var (
	ErrNotFound    = errors.New("not found")
	ErrValidation  = errors.New("validation error")
	ErrConflict    = errors.New("conflict")
	ErrUnavailable = errors.New("unavailable")

	// ErrAlreadyApplied marks a failure that happened after the command's
	// events were appended. Running the command again would apply it twice.
	ErrAlreadyApplied = errors.New("events already appended")
)

// IsRejection reports whether err is a decision against the command (it
// failed validation, conflicts with the aggregate's state, or targets an
// aggregate that does not exist) rather than a fault. Rejections are final:
// retrying the same command against the same history rejects it again.
func IsRejection(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrConflict) ||
		errors.Is(err, ErrNotFound)
}
