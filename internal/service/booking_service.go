package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"homeserv/internal/database"
	"homeserv/internal/domain"
	"homeserv/internal/events"
	"homeserv/internal/metrics"
	"homeserv/internal/models"

	"github.com/rs/zerolog"
)

// BookingService implements the single-day service booking lifecycle:
// request → confirmed → processing → completed, with rejection from any
// non-terminal state.
type BookingService struct {
	repo     domain.Repository
	eventBus domain.EventPublisher
	logger   *zerolog.Logger
}

func NewBookingService(repo domain.Repository, eventBus domain.EventPublisher, logger *zerolog.Logger) *BookingService {
	return &BookingService{
		repo:     repo,
		eventBus: eventBus,
		logger:   logger,
	}
}

// CreateBookingRequest carries validated primitive inputs from the caller.
type CreateBookingRequest struct {
	CustomerID    int64
	CustomerName  string
	CustomerPhone string
	ProviderID    int64
	Date          string
	Address       string
	Lat           float64
	Lng           float64
}

// CreateBooking validates the request and claims the provider's date. The
// date claim and the insert are one atomic guard in the repository; a losing
// race surfaces as *database.ConflictError.
func (s *BookingService) CreateBooking(ctx context.Context, req CreateBookingRequest) (*models.ServiceBooking, error) {
	switch {
	case req.ProviderID == 0:
		return nil, missingField("provider_id")
	case req.Date == "":
		return nil, missingField("date")
	case req.Address == "":
		return nil, missingField("address")
	case req.CustomerName == "":
		return nil, missingField("customer_name")
	case req.CustomerPhone == "":
		return nil, missingField("customer_phone")
	}

	date, err := time.Parse(models.DateLayout, req.Date)
	if err != nil {
		return nil, invalidDate("date")
	}

	today := time.Now().Truncate(24 * time.Hour)
	if date.Before(today) {
		return nil, ErrPastDate
	}

	if _, err := s.repo.GetProvider(ctx, req.ProviderID); err != nil {
		return nil, fmt.Errorf("provider %d: %w", req.ProviderID, err)
	}

	booking := &models.ServiceBooking{
		CustomerID:    req.CustomerID,
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		ProviderID:    req.ProviderID,
		Date:          date,
		Address:       req.Address,
		Lat:           req.Lat,
		Lng:           req.Lng,
		Status:        models.StatusRequest,
	}

	if err := s.repo.CreateServiceBooking(ctx, booking); err != nil {
		var conflict *database.ConflictError
		if errors.As(err, &conflict) || errors.Is(err, database.ErrDateUnavailable) {
			metrics.IncBookingConflict("service")
		}
		return nil, err
	}

	metrics.IncBookingCreated("service")
	return booking, nil
}

// UpdateStatus moves the booking to the requested status. Confirmation
// notifies both parties; rejection and completion release the provider's
// date for new requests.
func (s *BookingService) UpdateStatus(ctx context.Context, id int64, status string) (*models.ServiceBooking, error) {
	if !models.IsValidServiceStatus(status) {
		return nil, ErrInvalidStatus
	}

	booking, err := s.repo.GetServiceBooking(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.repo.UpdateServiceBookingStatusWithVersion(ctx, id, booking.Version, status); err != nil {
		return nil, err
	}
	booking.Status = status
	booking.Version++
	metrics.IncStatusTransition("service", status)

	switch status {
	case models.StatusConfirmed:
		s.publishEvent(events.EventBookingConfirmed, events.ServiceBookingEvent{
			BookingID:    booking.ID,
			CustomerName: booking.CustomerName,
			ProviderName: s.providerName(ctx, booking.ProviderID),
			Date:         booking.Date,
		})
	case models.StatusRejected, models.StatusCompleted:
		if err := s.repo.ReleaseBookedDate(ctx, booking.ProviderID, booking.Date); err != nil {
			s.logger.Error().Err(err).Int64("booking_id", id).Msg("release booked date failed")
		}
		s.publishEvent(events.EventBookingUpdated, events.ServiceBookingEvent{
			BookingID: booking.ID,
			Status:    status,
		})
	}

	return booking, nil
}

// MarkPaid records payment and reveals the customer phone to the provider.
// Status is left untouched.
func (s *BookingService) MarkPaid(ctx context.Context, id int64) (*models.ServiceBooking, error) {
	if err := s.repo.MarkServiceBookingPaid(ctx, id); err != nil {
		return nil, err
	}

	booking, err := s.repo.GetServiceBooking(ctx, id)
	if err != nil {
		return nil, err
	}

	s.publishEvent(events.EventBookingPaid, events.ServiceBookingEvent{
		BookingID:    booking.ID,
		CustomerName: booking.CustomerName,
		ProviderName: s.providerName(ctx, booking.ProviderID),
		Paid:         true,
	})
	return booking, nil
}

// Delete removes a booking. Admins delete unconditionally; everyone else
// only once the booking reached a terminal status. The provider's held date
// is released either way.
func (s *BookingService) Delete(ctx context.Context, actor Actor, id int64) error {
	booking, err := s.repo.GetServiceBooking(ctx, id)
	if err != nil {
		return err
	}

	if !actor.IsAdmin() {
		if booking.Status != models.StatusRejected && booking.Status != models.StatusCompleted {
			return &InvalidStateError{BookingID: id, Status: booking.Status}
		}
	}

	if err := s.repo.DeleteServiceBooking(ctx, id); err != nil {
		return err
	}
	if err := s.repo.ReleaseBookedDate(ctx, booking.ProviderID, booking.Date); err != nil {
		s.logger.Error().Err(err).Int64("booking_id", id).Msg("release booked date failed")
	}

	s.publishEvent(events.EventBookingDeleted, events.ServiceBookingEvent{BookingID: id})
	return nil
}

// ProviderBookings lists a provider's bookings with the disclosure policy
// applied to customer phones.
func (s *BookingService) ProviderBookings(ctx context.Context, providerID int64) ([]*models.ServiceBooking, error) {
	bookings, err := s.repo.GetProviderServiceBookings(ctx, providerID)
	if err != nil {
		return nil, err
	}

	views := make([]*models.ServiceBooking, 0, len(bookings))
	for _, b := range bookings {
		views = append(views, RedactForProvider(b))
	}
	return views, nil
}

// CustomerBookings lists a customer's own bookings; their own phone is not
// redacted from themselves.
func (s *BookingService) CustomerBookings(ctx context.Context, customerID int64) ([]*models.ServiceBooking, error) {
	return s.repo.GetCustomerServiceBookings(ctx, customerID)
}

// AllBookings is admin-only and unredacted.
func (s *BookingService) AllBookings(ctx context.Context) ([]*models.ServiceBooking, error) {
	return s.repo.GetAllServiceBookings(ctx)
}

// BlockDate marks a date unavailable, either by the provider themselves or
// by an admin on their behalf.
func (s *BookingService) BlockDate(ctx context.Context, actor Actor, providerID int64, dateStr string) (*models.UnavailableDate, error) {
	if !actor.IsAdmin() && actor.ID != providerID {
		return nil, &ForbiddenError{ActorID: actor.ID}
	}
	date, err := time.Parse(models.DateLayout, dateStr)
	if err != nil {
		return nil, invalidDate("date")
	}
	return s.repo.AddUnavailableDate(ctx, providerID, date)
}

// UnblockDate removes an unavailable date; providers only within their own
// calendar, admins anywhere.
func (s *BookingService) UnblockDate(ctx context.Context, actor Actor, id int64) error {
	scope := actor.ID
	if actor.IsAdmin() {
		scope = 0
	}
	return s.repo.DeleteUnavailableDate(ctx, id, scope)
}

// BlockedDates lists a provider's unavailable dates in calendar order.
func (s *BookingService) BlockedDates(ctx context.Context, providerID int64) ([]*models.UnavailableDate, error) {
	return s.repo.GetUnavailableDates(ctx, providerID)
}

func (s *BookingService) providerName(ctx context.Context, providerID int64) string {
	provider, err := s.repo.GetProvider(ctx, providerID)
	if err != nil {
		return ""
	}
	return provider.Name
}

func (s *BookingService) publishEvent(eventType string, payload interface{}) {
	if s.eventBus == nil {
		return
	}
	if err := s.eventBus.PublishJSON(eventType, payload); err != nil {
		s.logger.Error().Err(err).Str("event_type", eventType).Msg("publish event error")
	}
	metrics.IncEventPublished(eventType)
}
