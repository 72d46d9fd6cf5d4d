package worker

import (
	"context"
	"time"

	"homeserv/internal/database"
	"homeserv/internal/domain"
	"homeserv/internal/models"

	"github.com/rs/zerolog"
)

// CleanupWorker drains the cleanup queue: identity documents whose storage
// deletion failed when their booking was removed. Tasks retry with
// exponential backoff until they succeed or exhaust the retry budget.
type CleanupWorker struct {
	db           *database.DB
	documents    domain.DocumentStore
	retryPolicy  RetryPolicy
	pollInterval time.Duration
	batchSize    int
	logger       *zerolog.Logger
}

func NewCleanupWorker(db *database.DB, documents domain.DocumentStore, retry RetryPolicy, pollInterval time.Duration, logger *zerolog.Logger) *CleanupWorker {
	if pollInterval <= 0 {
		pollInterval = time.Minute
	}

	return &CleanupWorker{
		db:           db,
		documents:    documents,
		retryPolicy:  retry.withDefaults(),
		pollInterval: pollInterval,
		batchSize:    20,
		logger:       logger,
	}
}

// Run polls until the context is cancelled.
func (w *CleanupWorker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	w.logger.Info().Dur("poll_interval", w.pollInterval).Msg("cleanup worker started")
	for {
		select {
		case <-ctx.Done():
			w.logger.Info().Msg("cleanup worker stopped")
			return
		case <-ticker.C:
			if _, err := w.ProcessBatch(ctx); err != nil {
				w.logger.Error().Err(err).Msg("cleanup batch failed")
			}
		}
	}
}

// ProcessBatch handles one round of due tasks and returns how many were
// completed.
func (w *CleanupWorker) ProcessBatch(ctx context.Context) (int, error) {
	tasks, err := w.db.GetPendingCleanupTasks(ctx, w.batchSize)
	if err != nil {
		return 0, err
	}

	completed := 0
	for _, task := range tasks {
		if err := w.processTask(ctx, task); err == nil {
			completed++
		}
	}
	return completed, nil
}

func (w *CleanupWorker) processTask(ctx context.Context, task models.CleanupTask) error {
	err := w.documents.Delete(ctx, task.PublicID)
	if err == nil {
		w.logger.Debug().Str("public_id", task.PublicID).Msg("orphaned document removed")
		return w.db.UpdateCleanupTaskStatus(ctx, task.ID, models.CleanupCompleted, "", nil)
	}

	attempt := task.RetryCount + 1
	if attempt >= w.retryPolicy.MaxRetries {
		w.logger.Error().Err(err).Str("public_id", task.PublicID).
			Int("attempts", attempt).Msg("giving up on document cleanup")
		if uerr := w.db.UpdateCleanupTaskStatus(ctx, task.ID, models.CleanupFailed, err.Error(), nil); uerr != nil {
			return uerr
		}
		return err
	}

	next := time.Now().Add(w.retryPolicy.NextDelay(attempt))
	w.logger.Warn().Err(err).Str("public_id", task.PublicID).
		Time("next_retry_at", next).Msg("document cleanup failed, will retry")
	if uerr := w.db.UpdateCleanupTaskStatus(ctx, task.ID, models.CleanupRetry, err.Error(), &next); uerr != nil {
		return uerr
	}
	return err
}
