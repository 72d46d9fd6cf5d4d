package database

import (
	"errors"
	"fmt"
	"time"

	"homeserv/internal/models"
)

var (
	// ErrNotFound is returned when a referenced row does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConcurrentModification is returned when a versioned update loses a
	// compare-and-swap race. Callers reload and decide whether to retry.
	ErrConcurrentModification = errors.New("concurrent modification detected")

	// ErrDuplicateDate is returned when a provider blocks a date twice.
	ErrDuplicateDate = errors.New("date already marked unavailable")

	// ErrDateUnavailable is returned when a provider has proactively blocked
	// the requested date.
	ErrDateUnavailable = errors.New("date is unavailable for booking")
)

// ConflictError reports the booking that already occupies the requested
// period so callers can render a helpful message. For service bookings the
// period is the single day [StartDate, StartDate+1d).
type ConflictError struct {
	BookingID int64     `json:"booking_id"`
	Status    string    `json:"status"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("period [%s, %s) conflicts with booking %d (status %s)",
		e.StartDate.Format(models.DateLayout), e.EndDate.Format(models.DateLayout), e.BookingID, e.Status)
}
