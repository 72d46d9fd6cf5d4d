package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"homeserv/internal/models"
)

// EnqueueCleanupTask records an identity document whose storage deletion
// failed, for later retry by the cleanup worker.
func (db *DB) EnqueueCleanupTask(ctx context.Context, task *models.CleanupTask) error {
	now := time.Now()
	result, err := db.ExecContext(ctx,
		`INSERT INTO cleanup_queue (public_id, booking_id, status, retry_count, last_error, created_at, next_retry_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		task.PublicID, task.BookingID, models.CleanupPending, task.RetryCount, task.LastError, now, task.NextRetryAt)
	if err != nil {
		return fmt.Errorf("failed to enqueue cleanup task: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	task.ID = id
	task.Status = models.CleanupPending
	task.CreatedAt = now
	return nil
}

// GetPendingCleanupTasks returns due tasks oldest first.
func (db *DB) GetPendingCleanupTasks(ctx context.Context, limit int) ([]models.CleanupTask, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, public_id, booking_id, status, retry_count, last_error, created_at, processed_at, next_retry_at
		 FROM cleanup_queue
		 WHERE status IN (?, ?) AND (next_retry_at IS NULL OR next_retry_at <= ?)
		 ORDER BY created_at ASC LIMIT ?`,
		models.CleanupPending, models.CleanupRetry, time.Now(), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get pending cleanup tasks: %w", err)
	}
	defer rows.Close()

	var tasks []models.CleanupTask
	for rows.Next() {
		var t models.CleanupTask
		var lastErr sql.NullString
		if err := rows.Scan(&t.ID, &t.PublicID, &t.BookingID, &t.Status, &t.RetryCount, &lastErr,
			&t.CreatedAt, &t.ProcessedAt, &t.NextRetryAt); err != nil {
			return nil, fmt.Errorf("failed to scan cleanup task: %w", err)
		}
		t.LastError = lastErr.String
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// UpdateCleanupTaskStatus advances a task through pending → retry →
// completed/failed.
func (db *DB) UpdateCleanupTaskStatus(ctx context.Context, id int64, status, errMsg string, nextRetryAt *time.Time) error {
	var err error
	switch status {
	case models.CleanupRetry:
		_, err = db.ExecContext(ctx,
			`UPDATE cleanup_queue SET status = ?, last_error = ?, next_retry_at = ?, retry_count = retry_count + 1 WHERE id = ?`,
			status, errMsg, nextRetryAt, id)
	case models.CleanupCompleted, models.CleanupFailed:
		now := time.Now()
		_, err = db.ExecContext(ctx,
			`UPDATE cleanup_queue SET status = ?, last_error = ?, next_retry_at = NULL, processed_at = ? WHERE id = ?`,
			status, errMsg, now, id)
	default:
		_, err = db.ExecContext(ctx,
			`UPDATE cleanup_queue SET status = ?, last_error = ? WHERE id = ?`, status, errMsg, id)
	}
	if err != nil {
		return fmt.Errorf("failed to update cleanup task status: %w", err)
	}
	return nil
}
