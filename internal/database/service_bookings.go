package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"homeserv/internal/models"

	"github.com/mattn/go-sqlite3"
)

const serviceBookingColumns = `id, customer_id, customer_name, customer_phone, provider_id,
	date, address, lat, lng, status, paid, show_customer_phone, created_at, updated_at, version`

// CreateServiceBooking inserts a booking and claims the provider's date as
// one transaction. The partial unique index on (provider_id, date) is the
// availability guard: under concurrent requests for the same slot exactly one
// insert succeeds and the rest receive a ConflictError.
func (db *DB) CreateServiceBooking(ctx context.Context, booking *models.ServiceBooking) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	dateStr := booking.Date.Format(models.DateLayout)

	// Proactive manual blocks are checked first; booking-held dates are
	// covered by the unique index below.
	var blocked int
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM unavailable_dates WHERE provider_id = ? AND date = ? AND source = ?`,
		booking.ProviderID, dateStr, models.UnavailableSourceManual).Scan(&blocked)
	if err != nil {
		return fmt.Errorf("failed to check unavailable dates: %w", err)
	}
	if blocked > 0 {
		return ErrDateUnavailable
	}

	now := time.Now()
	result, err := tx.ExecContext(ctx,
		`INSERT INTO service_bookings (
			customer_id, customer_name, customer_phone, provider_id, date,
			address, lat, lng, status, paid, show_customer_phone, created_at, updated_at, version
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, 0, 0, ?, ?, 1)`,
		booking.CustomerID,
		booking.CustomerName,
		booking.CustomerPhone,
		booking.ProviderID,
		dateStr,
		booking.Address,
		booking.Lat,
		booking.Lng,
		booking.Status,
		now,
		now,
	)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
			return db.serviceSlotConflict(ctx, booking.ProviderID, dateStr)
		}
		return fmt.Errorf("failed to insert service booking: %w", err)
	}

	// Mirror the claimed date into the provider's unavailable list so
	// calendar reads see it; released on rejection or completion.
	_, err = tx.ExecContext(ctx,
		`INSERT INTO unavailable_dates (provider_id, date, source, created_at)
		 VALUES (?, ?, ?, ?) ON CONFLICT(provider_id, date) DO NOTHING`,
		booking.ProviderID, dateStr, models.UnavailableSourceBooking, now)
	if err != nil {
		return fmt.Errorf("failed to hold provider date: %w", err)
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

// serviceSlotConflict loads the booking currently holding (provider, date)
// and wraps it in a ConflictError.
func (db *DB) serviceSlotConflict(ctx context.Context, providerID int64, dateStr string) error {
	var id int64
	var status string
	err := db.QueryRowContext(ctx,
		`SELECT id, status FROM service_bookings
		 WHERE provider_id = ? AND date = ? AND status NOT IN (?, ?)`,
		providerID, dateStr, models.StatusRejected, models.StatusCompleted).Scan(&id, &status)
	if err != nil {
		return fmt.Errorf("failed to load conflicting booking: %w", err)
	}

	day, err := time.Parse(models.DateLayout, dateStr)
	if err != nil {
		return fmt.Errorf("failed to parse booking date %s: %w", dateStr, err)
	}
	return &ConflictError{
		BookingID: id,
		Status:    status,
		StartDate: day,
		EndDate:   day.AddDate(0, 0, 1),
	}
}

func (db *DB) GetServiceBooking(ctx context.Context, id int64) (*models.ServiceBooking, error) {
	query := `SELECT ` + serviceBookingColumns + ` FROM service_bookings WHERE id = ?`
	booking, err := scanServiceBooking(db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get service booking: %w", err)
	}
	return booking, nil
}

// UpdateServiceBookingStatusWithVersion is a compare-and-swap on the booking
// status; a lost race returns ErrConcurrentModification.
func (db *DB) UpdateServiceBookingStatusWithVersion(ctx context.Context, id, fromVersion int64, status string) error {
	result, err := db.ExecContext(ctx,
		`UPDATE service_bookings SET status = ?, version = version + 1, updated_at = ? WHERE id = ? AND version = ?`,
		status, time.Now(), id, fromVersion)
	if err != nil {
		return fmt.Errorf("failed to update service booking status: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrConcurrentModification
	}
	return nil
}

// MarkServiceBookingPaid sets the paid flag and reveals the customer phone to
// the provider. Status is untouched.
func (db *DB) MarkServiceBookingPaid(ctx context.Context, id int64) error {
	result, err := db.ExecContext(ctx,
		`UPDATE service_bookings SET paid = 1, show_customer_phone = 1, updated_at = ? WHERE id = ?`,
		time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to mark service booking paid: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

func (db *DB) DeleteServiceBooking(ctx context.Context, id int64) error {
	result, err := db.ExecContext(ctx, `DELETE FROM service_bookings WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete service booking: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// GetProviderServiceBookings lists a provider's bookings ordered by date.
func (db *DB) GetProviderServiceBookings(ctx context.Context, providerID int64) ([]*models.ServiceBooking, error) {
	query := `SELECT ` + serviceBookingColumns + ` FROM service_bookings WHERE provider_id = ? ORDER BY date ASC`
	return db.queryServiceBookings(ctx, query, providerID)
}

// GetCustomerServiceBookings lists a customer's bookings ordered by date.
func (db *DB) GetCustomerServiceBookings(ctx context.Context, customerID int64) ([]*models.ServiceBooking, error) {
	query := `SELECT ` + serviceBookingColumns + ` FROM service_bookings WHERE customer_id = ? ORDER BY date ASC`
	return db.queryServiceBookings(ctx, query, customerID)
}

// GetAllServiceBookings lists every booking ordered by date, for admins.
func (db *DB) GetAllServiceBookings(ctx context.Context) ([]*models.ServiceBooking, error) {
	query := `SELECT ` + serviceBookingColumns + ` FROM service_bookings ORDER BY date ASC`
	return db.queryServiceBookings(ctx, query)
}

func (db *DB) queryServiceBookings(ctx context.Context, query string, args ...any) ([]*models.ServiceBooking, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query service bookings: %w", err)
	}
	defer rows.Close()

	var bookings []*models.ServiceBooking
	for rows.Next() {
		b, err := scanServiceBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan service booking: %w", err)
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanServiceBooking(row rowScanner) (*models.ServiceBooking, error) {
	b := &models.ServiceBooking{}
	var dateStr string
	err := row.Scan(
		&b.ID, &b.CustomerID, &b.CustomerName, &b.CustomerPhone, &b.ProviderID,
		&dateStr, &b.Address, &b.Lat, &b.Lng, &b.Status, &b.Paid, &b.ShowCustomerPhone,
		&b.CreatedAt, &b.UpdatedAt, &b.Version,
	)
	if err != nil {
		return nil, err
	}
	b.Date, err = time.Parse(models.DateLayout, dateStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse booking date %s: %w", dateStr, err)
	}
	return b, nil
}
