package models

import "time"

// Cleanup task statuses.
const (
	CleanupPending   = "pending"
	CleanupRetry     = "retry"
	CleanupCompleted = "completed"
	CleanupFailed    = "failed"
)

// CleanupTask records an identity document whose best-effort storage deletion
// failed during booking deletion. A background worker retries these until
// they succeed or exhaust their retry budget.
type CleanupTask struct {
	ID          int64      `json:"id"`
	PublicID    string     `json:"public_id"`
	BookingID   int64      `json:"booking_id"`
	Status      string     `json:"status"`
	RetryCount  int        `json:"retry_count"`
	LastError   string     `json:"last_error,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	ProcessedAt *time.Time `json:"processed_at,omitempty"`
	NextRetryAt *time.Time `json:"next_retry_at,omitempty"`
}
