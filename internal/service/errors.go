package service

import "fmt"

// ValidationError reports malformed or missing caller input. Never retried.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// Shared validation sentinels. They are *ValidationError values so handlers
// can map the whole class with a single errors.As check.
var (
	ErrPastDate        = &ValidationError{Msg: "date is in the past and cannot be booked"}
	ErrMissingDocument = &ValidationError{Msg: "identity document is required"}
	ErrInvalidRange    = &ValidationError{Msg: "booking must be at least one night"}
	ErrInvalidStatus   = &ValidationError{Msg: "invalid status value"}
)

func missingField(name string) error {
	return &ValidationError{Msg: fmt.Sprintf("missing required field: %s", name)}
}

func invalidDate(name string) error {
	return &ValidationError{Msg: fmt.Sprintf("invalid %s; expected YYYY-MM-DD", name)}
}

// ForbiddenError reports an actor acting on a booking they have no authority
// over. No side effects have been performed.
type ForbiddenError struct {
	ActorID   int64
	BookingID int64
}

func (e *ForbiddenError) Error() string {
	return fmt.Sprintf("actor %d is not allowed to act on booking %d", e.ActorID, e.BookingID)
}

// InvalidStateError reports an operation blocked by the booking's current
// status (e.g. deleting an active booking without admin authority).
type InvalidStateError struct {
	BookingID int64
	Status    string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("booking %d in status %s does not allow this operation", e.BookingID, e.Status)
}

// TransitionError reports a state machine rule violation with the attempted
// current → requested pair.
type TransitionError struct {
	From string
	To   string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot transition from %s to %s", e.From, e.To)
}
