package database

import (
	"context"
	"testing"
	"time"

	"homeserv/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanupQueue(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	task := &models.CleanupTask{PublicID: "doc-42", BookingID: 7}
	require.NoError(t, db.EnqueueCleanupTask(ctx, task))
	assert.NotZero(t, task.ID)
	assert.Equal(t, models.CleanupPending, task.Status)

	due, err := db.GetPendingCleanupTasks(ctx, 10)
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, "doc-42", due[0].PublicID)

	// A retry scheduled in the future is not due yet.
	next := time.Now().Add(time.Hour)
	require.NoError(t, db.UpdateCleanupTaskStatus(ctx, task.ID, models.CleanupRetry, "connection refused", &next))

	due, err = db.GetPendingCleanupTasks(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, due)

	past := time.Now().Add(-time.Minute)
	require.NoError(t, db.UpdateCleanupTaskStatus(ctx, task.ID, models.CleanupRetry, "connection refused", &past))

	due, err = db.GetPendingCleanupTasks(ctx, 10)
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, 2, due[0].RetryCount)
	assert.Equal(t, "connection refused", due[0].LastError)

	// Terminal tasks leave the queue.
	require.NoError(t, db.UpdateCleanupTaskStatus(ctx, task.ID, models.CleanupCompleted, "", nil))
	due, err = db.GetPendingCleanupTasks(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, due)
}
