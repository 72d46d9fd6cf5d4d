package domain

import (
	"context"
	"io"
	"time"

	"homeserv/internal/database"
	"homeserv/internal/models"
)

// Repository is the persistence collaborator consumed by the booking core.
type Repository interface {
	// Service bookings
	CreateServiceBooking(ctx context.Context, booking *models.ServiceBooking) error
	GetServiceBooking(ctx context.Context, id int64) (*models.ServiceBooking, error)
	UpdateServiceBookingStatusWithVersion(ctx context.Context, id, fromVersion int64, status string) error
	MarkServiceBookingPaid(ctx context.Context, id int64) error
	DeleteServiceBooking(ctx context.Context, id int64) error
	GetProviderServiceBookings(ctx context.Context, providerID int64) ([]*models.ServiceBooking, error)
	GetCustomerServiceBookings(ctx context.Context, customerID int64) ([]*models.ServiceBooking, error)
	GetAllServiceBookings(ctx context.Context) ([]*models.ServiceBooking, error)

	// Unavailable dates
	AddUnavailableDate(ctx context.Context, providerID int64, date time.Time) (*models.UnavailableDate, error)
	GetUnavailableDates(ctx context.Context, providerID int64) ([]*models.UnavailableDate, error)
	DeleteUnavailableDate(ctx context.Context, id, providerID int64) error
	ReleaseBookedDate(ctx context.Context, providerID int64, date time.Time) error
	IsDateUnavailable(ctx context.Context, providerID int64, date time.Time) (bool, error)

	// Rental bookings
	CreateRentalBookingWithLock(ctx context.Context, booking *models.RentalBooking) error
	FindOverlappingRentalBooking(ctx context.Context, propertyID int64, start, end time.Time) (*database.ConflictError, error)
	GetRentalBooking(ctx context.Context, id int64) (*models.RentalBooking, error)
	UpdateRentalBookingStatusWithVersion(ctx context.Context, id, fromVersion int64, status, changedBy, note string) error
	MarkRentalBookingPaid(ctx context.Context, id, fromVersion int64, status, changedBy, note string) error
	DeleteRentalBooking(ctx context.Context, id int64) error
	GetRenterRentalBookings(ctx context.Context, renterID int64) ([]*models.RentalBooking, error)
	GetOwnerRentalBookings(ctx context.Context, ownerID int64) ([]*models.RentalBooking, error)
	GetAllRentalBookings(ctx context.Context) ([]*models.RentalBooking, error)
	GetStaleUnpaidRentalBookings(ctx context.Context, cutoff time.Time) ([]*models.RentalBooking, error)

	// Catalog back-references
	GetProperty(ctx context.Context, id int64) (*models.Property, error)
	GetOwner(ctx context.Context, id int64) (*models.Owner, error)
	GetProvider(ctx context.Context, id int64) (*models.Provider, error)

	// Document cleanup queue
	EnqueueCleanupTask(ctx context.Context, task *models.CleanupTask) error
}

// EventPublisher is the fire-and-forget notification sink. Implementations
// must never block the caller; failures are logged and swallowed upstream.
type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}

// DocumentStore holds identity-document blobs for rental bookings.
// Delete is best-effort; callers treat failures as reconcilable, not fatal.
type DocumentStore interface {
	Upload(ctx context.Context, r io.Reader, filename string) (models.Document, error)
	Delete(ctx context.Context, publicID string) error
}
