package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"homeserv/internal/models"
)

const rentalBookingColumns = `id, property_id, renter_id, owner_id, full_name, phone, email,
	guests, notes, start_date, end_date, id_doc_url, id_doc_public_id, status, payment_status,
	total_days, total_price, created_at, updated_at, version`

// blockingPlaceholders builds the status IN (...) clause and args for the
// blocking-status set.
func blockingPlaceholders() (string, []any) {
	marks := make([]string, len(models.BlockingStatuses))
	args := make([]any, len(models.BlockingStatuses))
	for i, s := range models.BlockingStatuses {
		marks[i] = "?"
		args[i] = s
	}
	return strings.Join(marks, ", "), args
}

// FindOverlappingRentalBooking answers whether a blocking booking occupies
// any part of [start, end) for the property. Half-open interval overlap:
// existing.start < end AND existing.end > start.
func (db *DB) FindOverlappingRentalBooking(ctx context.Context, propertyID int64, start, end time.Time) (*ConflictError, error) {
	return findOverlap(ctx, db.DB, propertyID, start, end)
}

type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func findOverlap(ctx context.Context, q querier, propertyID int64, start, end time.Time) (*ConflictError, error) {
	marks, statusArgs := blockingPlaceholders()
	query := `SELECT id, start_date, end_date, status FROM rental_bookings
	          WHERE property_id = ? AND status IN (` + marks + `)
	          AND start_date < ? AND end_date > ? LIMIT 1`

	args := append([]any{propertyID}, statusArgs...)
	args = append(args, end.Format(models.DateLayout), start.Format(models.DateLayout))

	var id int64
	var startStr, endStr, status string
	err := q.QueryRowContext(ctx, query, args...).Scan(&id, &startStr, &endStr, &status)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to check rental overlap: %w", err)
	}

	existingStart, err := time.Parse(models.DateLayout, startStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse booking date %s: %w", startStr, err)
	}
	existingEnd, err := time.Parse(models.DateLayout, endStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse booking date %s: %w", endStr, err)
	}

	return &ConflictError{
		BookingID: id,
		Status:    status,
		StartDate: existingStart,
		EndDate:   existingEnd,
	}, nil
}

// CreateRentalBookingWithLock runs the overlap check and the insert inside a
// single transaction so that concurrent requests for overlapping periods on
// the same property resolve to exactly one winner.
func (db *DB) CreateRentalBookingWithLock(ctx context.Context, booking *models.RentalBooking) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	conflict, err := findOverlap(ctx, tx, booking.PropertyID, booking.StartDate, booking.EndDate)
	if err != nil {
		return err
	}
	if conflict != nil {
		return conflict
	}

	now := time.Now()
	result, err := tx.ExecContext(ctx,
		`INSERT INTO rental_bookings (
			property_id, renter_id, owner_id, full_name, phone, email, guests, notes,
			start_date, end_date, id_doc_url, id_doc_public_id, status, payment_status,
			total_days, total_price, created_at, updated_at, version
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 1)`,
		booking.PropertyID,
		nullableID(booking.RenterID),
		booking.OwnerID,
		booking.FullName,
		booking.Phone,
		booking.Email,
		booking.Guests,
		booking.Notes,
		booking.StartDate.Format(models.DateLayout),
		booking.EndDate.Format(models.DateLayout),
		booking.IDDocument.URL,
		booking.IDDocument.PublicID,
		booking.Status,
		booking.PaymentStatus,
		booking.TotalDays,
		booking.TotalPrice,
		now,
		now,
	)
	if err != nil {
		return fmt.Errorf("failed to insert rental booking: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	booking.ID = id
	booking.CreatedAt = now
	booking.UpdatedAt = now
	booking.Version = 1

	return tx.Commit()
}

func nullableID(id int64) any {
	if id == 0 {
		return nil
	}
	return id
}

func (db *DB) GetRentalBooking(ctx context.Context, id int64) (*models.RentalBooking, error) {
	query := `SELECT ` + rentalBookingColumns + ` FROM rental_bookings WHERE id = ?`
	booking, err := scanRentalBooking(db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get rental booking: %w", err)
	}

	history, err := db.GetRentalBookingHistory(ctx, id)
	if err != nil {
		return nil, err
	}
	booking.History = history
	return booking, nil
}

// GetRentalBookingHistory returns the append-only transition log in insertion
// order.
func (db *DB) GetRentalBookingHistory(ctx context.Context, bookingID int64) ([]models.HistoryEntry, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, booking_id, status, changed_by, note, created_at
		 FROM rental_booking_history WHERE booking_id = ? ORDER BY id ASC`, bookingID)
	if err != nil {
		return nil, fmt.Errorf("failed to query rental history: %w", err)
	}
	defer rows.Close()

	var history []models.HistoryEntry
	for rows.Next() {
		var h models.HistoryEntry
		var note sql.NullString
		if err := rows.Scan(&h.ID, &h.BookingID, &h.Status, &h.ChangedBy, &note, &h.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan history entry: %w", err)
		}
		h.Note = note.String
		history = append(history, h)
	}
	return history, rows.Err()
}

// UpdateRentalBookingStatusWithVersion moves the booking to status and
// appends the history entry in one transaction, guarded by a compare-and-swap
// on the version column.
func (db *DB) UpdateRentalBookingStatusWithVersion(ctx context.Context, id, fromVersion int64, status, changedBy, note string) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	result, err := tx.ExecContext(ctx,
		`UPDATE rental_bookings SET status = ?, version = version + 1, updated_at = ? WHERE id = ? AND version = ?`,
		status, time.Now(), id, fromVersion)
	if err != nil {
		return fmt.Errorf("failed to update rental booking status: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrConcurrentModification
	}

	if err := appendHistory(ctx, tx, id, status, changedBy, note); err != nil {
		return err
	}
	return tx.Commit()
}

// MarkRentalBookingPaid sets payment_status=paid and writes the given status
// (the caller decides whether payment advances the state machine), appending
// a history entry, all under the version guard.
func (db *DB) MarkRentalBookingPaid(ctx context.Context, id, fromVersion int64, status, changedBy, note string) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	result, err := tx.ExecContext(ctx,
		`UPDATE rental_bookings SET payment_status = ?, status = ?, version = version + 1, updated_at = ?
		 WHERE id = ? AND version = ?`,
		models.PaymentPaid, status, time.Now(), id, fromVersion)
	if err != nil {
		return fmt.Errorf("failed to mark rental booking paid: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrConcurrentModification
	}

	if err := appendHistory(ctx, tx, id, status, changedBy, note); err != nil {
		return err
	}
	return tx.Commit()
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func appendHistory(ctx context.Context, e execer, bookingID int64, status, changedBy, note string) error {
	_, err := e.ExecContext(ctx,
		`INSERT INTO rental_booking_history (booking_id, status, changed_by, note, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		bookingID, status, changedBy, note, time.Now())
	if err != nil {
		return fmt.Errorf("failed to append history entry: %w", err)
	}
	return nil
}

func (db *DB) DeleteRentalBooking(ctx context.Context, id int64) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	result, err := tx.ExecContext(ctx, `DELETE FROM rental_bookings WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete rental booking: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrNotFound
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM rental_booking_history WHERE booking_id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete rental history: %w", err)
	}
	return tx.Commit()
}

// GetRenterRentalBookings lists a renter's bookings, most recent stay first.
func (db *DB) GetRenterRentalBookings(ctx context.Context, renterID int64) ([]*models.RentalBooking, error) {
	query := `SELECT ` + rentalBookingColumns + ` FROM rental_bookings WHERE renter_id = ? ORDER BY start_date DESC`
	return db.queryRentalBookings(ctx, query, renterID)
}

// GetOwnerRentalBookings lists bookings on an owner's properties, newest
// request first.
func (db *DB) GetOwnerRentalBookings(ctx context.Context, ownerID int64) ([]*models.RentalBooking, error) {
	query := `SELECT ` + rentalBookingColumns + ` FROM rental_bookings WHERE owner_id = ? ORDER BY created_at DESC`
	return db.queryRentalBookings(ctx, query, ownerID)
}

// GetAllRentalBookings lists every rental booking by start date, for admins.
func (db *DB) GetAllRentalBookings(ctx context.Context) ([]*models.RentalBooking, error) {
	query := `SELECT ` + rentalBookingColumns + ` FROM rental_bookings ORDER BY start_date ASC`
	return db.queryRentalBookings(ctx, query)
}

// GetStaleUnpaidRentalBookings finds unpaid bookings still waiting on a
// pre-payment status that were created before the cutoff. Used by the expiry
// sweeper.
func (db *DB) GetStaleUnpaidRentalBookings(ctx context.Context, cutoff time.Time) ([]*models.RentalBooking, error) {
	query := `SELECT ` + rentalBookingColumns + ` FROM rental_bookings
	          WHERE payment_status = ? AND status IN (?, ?, ?) AND created_at < ?
	          ORDER BY created_at ASC`
	return db.queryRentalBookings(ctx, query,
		models.PaymentUnpaid, models.RentalPending, models.RentalOwnerConfirm, models.RentalAwaitingPayment, cutoff)
}

// GetRentalBookingsInPeriod lists bookings whose range intersects
// [start, end), for reporting.
func (db *DB) GetRentalBookingsInPeriod(ctx context.Context, start, end time.Time) ([]*models.RentalBooking, error) {
	query := `SELECT ` + rentalBookingColumns + ` FROM rental_bookings
	          WHERE start_date < ? AND end_date > ? ORDER BY start_date ASC`
	return db.queryRentalBookings(ctx, query, end.Format(models.DateLayout), start.Format(models.DateLayout))
}

func (db *DB) queryRentalBookings(ctx context.Context, query string, args ...any) ([]*models.RentalBooking, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query rental bookings: %w", err)
	}
	defer rows.Close()

	var bookings []*models.RentalBooking
	for rows.Next() {
		b, err := scanRentalBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan rental booking: %w", err)
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

func scanRentalBooking(row rowScanner) (*models.RentalBooking, error) {
	b := &models.RentalBooking{}
	var renterID sql.NullInt64
	var email, notes sql.NullString
	var startStr, endStr string
	err := row.Scan(
		&b.ID, &b.PropertyID, &renterID, &b.OwnerID, &b.FullName, &b.Phone, &email,
		&b.Guests, &notes, &startStr, &endStr, &b.IDDocument.URL, &b.IDDocument.PublicID,
		&b.Status, &b.PaymentStatus, &b.TotalDays, &b.TotalPrice,
		&b.CreatedAt, &b.UpdatedAt, &b.Version,
	)
	if err != nil {
		return nil, err
	}
	b.RenterID = renterID.Int64
	b.Email = email.String
	b.Notes = notes.String

	if b.StartDate, err = time.Parse(models.DateLayout, startStr); err != nil {
		return nil, fmt.Errorf("failed to parse booking date %s: %w", startStr, err)
	}
	if b.EndDate, err = time.Parse(models.DateLayout, endStr); err != nil {
		return nil, fmt.Errorf("failed to parse booking date %s: %w", endStr, err)
	}
	return b, nil
}
