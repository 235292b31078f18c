package reservation

import "errors"

var (
	// ErrUnavailable means the requested dates conflict with the blocked set
	// or an active hold. Rejected before any payment interaction begins.
	ErrUnavailable = errors.New("requested dates are not available")

	// ErrInvalidStay covers bad dates, guest counts, or missing contact
	// fields. No state is created.
	ErrInvalidStay = errors.New("invalid stay request")

	// ErrInvalidTransition means the reservation is not in a state the
	// requested transition can leave from.
	ErrInvalidTransition = errors.New("invalid reservation state transition")
)
