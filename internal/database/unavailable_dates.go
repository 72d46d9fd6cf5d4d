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

// AddUnavailableDate records a proactive block for (provider, date). The
// unique constraint rejects duplicates with ErrDuplicateDate.
func (db *DB) AddUnavailableDate(ctx context.Context, providerID int64, date time.Time) (*models.UnavailableDate, error) {
	now := time.Now()
	result, err := db.ExecContext(ctx,
		`INSERT INTO unavailable_dates (provider_id, date, source, created_at) VALUES (?, ?, ?, ?)`,
		providerID, date.Format(models.DateLayout), models.UnavailableSourceManual, now)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
			return nil, ErrDuplicateDate
		}
		return nil, fmt.Errorf("failed to add unavailable date: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get last insert id: %w", err)
	}
	return &models.UnavailableDate{
		ID:         id,
		ProviderID: providerID,
		Date:       date,
		Source:     models.UnavailableSourceManual,
		CreatedAt:  now,
	}, nil
}

// GetUnavailableDates lists a provider's blocked dates in calendar order.
func (db *DB) GetUnavailableDates(ctx context.Context, providerID int64) ([]*models.UnavailableDate, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, provider_id, date, source, created_at FROM unavailable_dates
		 WHERE provider_id = ? ORDER BY date ASC`, providerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query unavailable dates: %w", err)
	}
	defer rows.Close()

	var dates []*models.UnavailableDate
	for rows.Next() {
		d := &models.UnavailableDate{}
		var dateStr string
		if err := rows.Scan(&d.ID, &d.ProviderID, &dateStr, &d.Source, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan unavailable date: %w", err)
		}
		if d.Date, err = time.Parse(models.DateLayout, dateStr); err != nil {
			return nil, fmt.Errorf("failed to parse unavailable date %s: %w", dateStr, err)
		}
		dates = append(dates, d)
	}
	return dates, rows.Err()
}

// DeleteUnavailableDate removes a block by id, scoped to the provider so one
// provider cannot unblock another's dates. Admin callers pass providerID 0 to
// skip the scope check.
func (db *DB) DeleteUnavailableDate(ctx context.Context, id, providerID int64) error {
	var result sql.Result
	var err error
	if providerID == 0 {
		result, err = db.ExecContext(ctx, `DELETE FROM unavailable_dates WHERE id = ?`, id)
	} else {
		result, err = db.ExecContext(ctx, `DELETE FROM unavailable_dates WHERE id = ? AND provider_id = ?`, id, providerID)
	}
	if err != nil {
		return fmt.Errorf("failed to delete unavailable date: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// ReleaseBookedDate drops the booking-held mirror for (provider, date) when a
// booking leaves the blocking set. Manual blocks are untouched.
func (db *DB) ReleaseBookedDate(ctx context.Context, providerID int64, date time.Time) error {
	_, err := db.ExecContext(ctx,
		`DELETE FROM unavailable_dates WHERE provider_id = ? AND date = ? AND source = ?`,
		providerID, date.Format(models.DateLayout), models.UnavailableSourceBooking)
	if err != nil {
		return fmt.Errorf("failed to release booked date: %w", err)
	}
	return nil
}

// IsDateUnavailable reports whether any block exists for (provider, date).
func (db *DB) IsDateUnavailable(ctx context.Context, providerID int64, date time.Time) (bool, error) {
	var count int
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM unavailable_dates WHERE provider_id = ? AND date = ?`,
		providerID, date.Format(models.DateLayout)).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check unavailable date: %w", err)
	}
	return count > 0, nil
}
