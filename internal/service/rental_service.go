package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"homeserv/internal/database"
	"homeserv/internal/domain"
	"homeserv/internal/events"
	"homeserv/internal/metrics"
	"homeserv/internal/models"

	"github.com/rs/zerolog"
)

// RentalService implements the multi-day rental lifecycle:
// pending → owner_confirm → awaiting_payment → processing → completed,
// with owner rejection and pre-payment admin cancellation.
type RentalService struct {
	repo      domain.Repository
	documents domain.DocumentStore
	eventBus  domain.EventPublisher
	logger    *zerolog.Logger
}

func NewRentalService(repo domain.Repository, documents domain.DocumentStore, eventBus domain.EventPublisher, logger *zerolog.Logger) *RentalService {
	return &RentalService{
		repo:      repo,
		documents: documents,
		eventBus:  eventBus,
		logger:    logger,
	}
}

// CreateRentalRequest carries the renter's input. Document is the identity
// document stream; the booking is refused without one.
type CreateRentalRequest struct {
	PropertyID int64
	RenterID   int64
	FullName   string
	Phone      string
	Email      string
	Guests     int
	Notes      string
	StartDate  string
	EndDate    string
	Document   io.Reader
	Filename   string
}

// CreateBooking validates the request, uploads the identity document and
// claims the period [start, end) atomically. If the claim loses a race after
// the upload succeeded, the orphaned document is queued for cleanup.
func (s *RentalService) CreateBooking(ctx context.Context, req CreateRentalRequest) (*models.RentalBooking, error) {
	switch {
	case req.Document == nil:
		return nil, ErrMissingDocument
	case req.PropertyID == 0:
		return nil, missingField("property_id")
	case req.FullName == "":
		return nil, missingField("full_name")
	case req.Phone == "":
		return nil, missingField("phone")
	}

	start, err := time.Parse(models.DateLayout, req.StartDate)
	if err != nil {
		return nil, invalidDate("start_date")
	}
	end, err := time.Parse(models.DateLayout, req.EndDate)
	if err != nil {
		return nil, invalidDate("end_date")
	}
	if !start.Before(end) {
		return nil, ErrInvalidRange
	}
	today := time.Now().Truncate(24 * time.Hour)
	if start.Before(today) {
		return nil, ErrPastDate
	}

	property, err := s.repo.GetProperty(ctx, req.PropertyID)
	if err != nil {
		return nil, fmt.Errorf("property %d: %w", req.PropertyID, err)
	}

	// Cheap pre-check before the upload; the insert re-checks inside its
	// transaction, so this only saves a doomed upload.
	if conflict, err := s.repo.FindOverlappingRentalBooking(ctx, req.PropertyID, start, end); err != nil {
		return nil, err
	} else if conflict != nil {
		metrics.IncBookingConflict("rental")
		return nil, conflict
	}

	doc, err := s.documents.Upload(ctx, req.Document, req.Filename)
	if err != nil {
		return nil, fmt.Errorf("upload identity document: %w", err)
	}

	nights := int(end.Sub(start).Hours() / 24)
	booking := &models.RentalBooking{
		PropertyID:    req.PropertyID,
		RenterID:      req.RenterID,
		OwnerID:       property.OwnerID,
		FullName:      req.FullName,
		Phone:         req.Phone,
		Email:         req.Email,
		Guests:        req.Guests,
		Notes:         req.Notes,
		StartDate:     start,
		EndDate:       end,
		IDDocument:    doc,
		Status:        models.RentalPending,
		PaymentStatus: models.PaymentUnpaid,
		TotalDays:     nights,
		TotalPrice:    property.NightlyPrice * int64(nights),
	}

	if err := s.repo.CreateRentalBookingWithLock(ctx, booking); err != nil {
		s.scheduleDocumentCleanup(ctx, doc.PublicID)
		var conflict *database.ConflictError
		if errors.As(err, &conflict) {
			metrics.IncBookingConflict("rental")
		}
		return nil, err
	}

	metrics.IncBookingCreated("rental")
	s.publishEvent(events.EventRentalCreated, events.RentalBookingEvent{
		BookingID:  booking.ID,
		PropertyID: booking.PropertyID,
		OwnerID:    booking.OwnerID,
		StartDate:  booking.StartDate,
		EndDate:    booking.EndDate,
		Status:     booking.Status,
	})
	return booking, nil
}

// OwnerUpdateStatus applies a transition requested by the property owner.
// Owners only confirm fresh requests or reject anything not yet in
// fulfilment. An optional note is recorded on the history entry.
func (s *RentalService) OwnerUpdateStatus(ctx context.Context, actor Actor, id int64, status, note string) (*models.RentalBooking, error) {
	if !isOwnerStatusTarget(status) {
		return nil, ErrInvalidStatus
	}

	booking, err := s.repo.GetRentalBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	if booking.OwnerID != actor.ID && !actor.IsAdmin() {
		return nil, &ForbiddenError{ActorID: actor.ID, BookingID: id}
	}
	if !CanOwnerTransition(booking.Status, status) {
		return nil, &TransitionError{From: booking.Status, To: status}
	}

	return s.applyTransition(ctx, booking, status, actor.HistoryIdentity(), note)
}

// AdminUpdateStatus applies a transition requested by an admin. Payment
// gates entry into fulfilment; cancellation is refused once paid. An
// optional note is recorded on the history entry.
func (s *RentalService) AdminUpdateStatus(ctx context.Context, actor Actor, id int64, status, note string) (*models.RentalBooking, error) {
	if !actor.IsAdmin() {
		return nil, &ForbiddenError{ActorID: actor.ID, BookingID: id}
	}
	if !isAdminStatusTarget(status) {
		return nil, ErrInvalidStatus
	}

	booking, err := s.repo.GetRentalBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	isPaid := booking.PaymentStatus == models.PaymentPaid
	if !CanAdminTransition(booking.Status, status, isPaid) {
		return nil, &TransitionError{From: booking.Status, To: status}
	}

	return s.applyTransition(ctx, booking, status, actor.HistoryIdentity(), note)
}

// MarkPaid records payment and, when the booking was awaiting payment,
// advances it into processing. Repeated calls are harmless: contact details
// stay disclosed and the extra transition lands in the history log.
func (s *RentalService) MarkPaid(ctx context.Context, actor Actor, id int64) (*models.RentalBooking, error) {
	if !actor.IsAdmin() {
		return nil, &ForbiddenError{ActorID: actor.ID, BookingID: id}
	}

	booking, err := s.repo.GetRentalBooking(ctx, id)
	if err != nil {
		return nil, err
	}

	status := booking.Status
	if status == models.RentalAwaitingPayment {
		status = models.RentalProcessing
	}

	if err := s.repo.MarkRentalBookingPaid(ctx, id, booking.Version, status, actor.HistoryIdentity(), "payment received"); err != nil {
		return nil, err
	}
	metrics.IncStatusTransition("rental", status)

	booking, err = s.repo.GetRentalBooking(ctx, id)
	if err != nil {
		return nil, err
	}

	s.publishEvent(events.EventRentalPaid, events.RentalBookingEvent{
		BookingID:     booking.ID,
		PropertyID:    booking.PropertyID,
		OwnerID:       booking.OwnerID,
		Status:        booking.Status,
		PaymentStatus: booking.PaymentStatus,
	})
	return booking, nil
}

// Delete removes a booking together with its history. Admins delete
// unconditionally; owners only once the booking is rejected or completed.
// The stored identity document is removed best-effort.
func (s *RentalService) Delete(ctx context.Context, actor Actor, id int64) error {
	booking, err := s.repo.GetRentalBooking(ctx, id)
	if err != nil {
		return err
	}

	if !actor.IsAdmin() {
		if booking.OwnerID != actor.ID {
			return &ForbiddenError{ActorID: actor.ID, BookingID: id}
		}
		if !models.IsOwnerDeletable(booking.Status) {
			return &InvalidStateError{BookingID: id, Status: booking.Status}
		}
	}

	if err := s.repo.DeleteRentalBooking(ctx, id); err != nil {
		return err
	}

	if booking.IDDocument.PublicID != "" {
		if err := s.documents.Delete(ctx, booking.IDDocument.PublicID); err != nil {
			s.logger.Warn().Err(err).Int64("booking_id", id).
				Str("public_id", booking.IDDocument.PublicID).
				Msg("document delete failed, queueing for cleanup")
			s.scheduleDocumentCleanup(ctx, booking.IDDocument.PublicID)
		}
	}

	s.publishEvent(events.EventRentalDeleted, events.RentalBookingEvent{
		BookingID:  id,
		PropertyID: booking.PropertyID,
		OwnerID:    booking.OwnerID,
	})
	return nil
}

// RenterBookings lists a renter's bookings, newest stay first, with the
// owner's contact block disclosed only after payment.
func (s *RentalService) RenterBookings(ctx context.Context, renterID int64) ([]*RenterBookingView, error) {
	bookings, err := s.repo.GetRenterRentalBookings(ctx, renterID)
	if err != nil {
		return nil, err
	}

	views := make([]*RenterBookingView, 0, len(bookings))
	for _, b := range bookings {
		var owner *models.Owner
		if b.PaymentStatus == models.PaymentPaid {
			if owner, err = s.repo.GetOwner(ctx, b.OwnerID); err != nil {
				s.logger.Error().Err(err).Int64("owner_id", b.OwnerID).Msg("owner lookup failed")
				owner = nil
			}
		}
		views = append(views, &RenterBookingView{
			RentalBooking: b,
			OwnerContact:  OwnerContactFor(owner, b.PaymentStatus),
		})
	}
	return views, nil
}

// OwnerBookings lists an owner's incoming bookings, most recent request
// first, with the renter's contact details disclosed only after payment.
func (s *RentalService) OwnerBookings(ctx context.Context, ownerID int64) ([]*OwnerBookingView, error) {
	bookings, err := s.repo.GetOwnerRentalBookings(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	views := make([]*OwnerBookingView, 0, len(bookings))
	for _, b := range bookings {
		redacted := *b
		if b.PaymentStatus != models.PaymentPaid {
			redacted.FullName = models.HiddenContact
			redacted.Phone = models.HiddenContact
			redacted.Email = models.HiddenContact
			redacted.Notes = models.HiddenContact
		}
		views = append(views, &OwnerBookingView{
			RentalBooking: &redacted,
			RenterContact: RenterContactFor(b),
		})
	}
	return views, nil
}

// GetBooking loads one booking with its full history. Admin surface only;
// party-facing reads go through the view builders.
func (s *RentalService) GetBooking(ctx context.Context, id int64) (*models.RentalBooking, error) {
	return s.repo.GetRentalBooking(ctx, id)
}

// AllBookings is admin-only and unredacted, ordered by check-in date.
func (s *RentalService) AllBookings(ctx context.Context) ([]*models.RentalBooking, error) {
	return s.repo.GetAllRentalBookings(ctx)
}

// ExpireStaleUnpaid cancels bookings that sat awaiting payment longer than
// maxAge. Runs under the system identity so the audit trail shows who acted.
func (s *RentalService) ExpireStaleUnpaid(ctx context.Context, maxAge time.Duration) (int, error) {
	cutoff := time.Now().Add(-maxAge)
	stale, err := s.repo.GetStaleUnpaidRentalBookings(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	cancelled := 0
	for _, b := range stale {
		if !CanAdminTransition(b.Status, models.RentalCancelled, b.PaymentStatus == models.PaymentPaid) {
			continue
		}
		if _, err := s.applyTransition(ctx, b, models.RentalCancelled, models.ActorSystem, "payment window elapsed"); err != nil {
			s.logger.Error().Err(err).Int64("booking_id", b.ID).Msg("auto-cancel failed")
			continue
		}
		cancelled++
	}
	return cancelled, nil
}

func (s *RentalService) applyTransition(ctx context.Context, booking *models.RentalBooking, status, changedBy, note string) (*models.RentalBooking, error) {
	if err := s.repo.UpdateRentalBookingStatusWithVersion(ctx, booking.ID, booking.Version, status, changedBy, note); err != nil {
		return nil, err
	}
	metrics.IncStatusTransition("rental", status)

	updated, err := s.repo.GetRentalBooking(ctx, booking.ID)
	if err != nil {
		return nil, err
	}

	eventType := events.EventRentalUpdated
	switch status {
	case models.RentalOwnerConfirm:
		eventType = events.EventRentalOwnerConfirmed
	case models.RentalAwaitingPayment:
		eventType = events.EventRentalAwaitingPayment
	}
	s.publishEvent(eventType, events.RentalBookingEvent{
		BookingID:     updated.ID,
		PropertyID:    updated.PropertyID,
		OwnerID:       updated.OwnerID,
		StartDate:     updated.StartDate,
		EndDate:       updated.EndDate,
		Status:        updated.Status,
		PaymentStatus: updated.PaymentStatus,
	})
	return updated, nil
}

func (s *RentalService) scheduleDocumentCleanup(ctx context.Context, publicID string) {
	if publicID == "" {
		return
	}
	task := &models.CleanupTask{PublicID: publicID, Status: models.CleanupPending}
	if err := s.repo.EnqueueCleanupTask(ctx, task); err != nil {
		s.logger.Error().Err(err).Str("public_id", publicID).Msg("enqueue cleanup task failed")
	}
}

func (s *RentalService) publishEvent(eventType string, payload interface{}) {
	if s.eventBus == nil {
		return
	}
	if err := s.eventBus.PublishJSON(eventType, payload); err != nil {
		s.logger.Error().Err(err).Str("event_type", eventType).Msg("publish event error")
	}
	metrics.IncEventPublished(eventType)
}
