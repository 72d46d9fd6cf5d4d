package database

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBackup(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	provider := seedProvider(t, db)
	require.NoError(t, db.CreateServiceBooking(ctx, newServiceBooking(provider.ID, 0)))

	dir := t.TempDir()
	path, err := db.Backup(ctx, dir)
	require.NoError(t, err)
	assert.Equal(t, dir, filepath.Dir(path))

	// The snapshot is a working database with the data in it.
	logger := db.log
	snapshot, err := NewDB(path, &logger)
	require.NoError(t, err)
	defer snapshot.Close()

	all, err := snapshot.GetAllServiceBookings(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestPruneBackups(t *testing.T) {
	db := newTestDB(t)
	dir := t.TempDir()

	old := filepath.Join(dir, "backup_20200101_000000.db")
	require.NoError(t, os.WriteFile(old, []byte("old"), 0o644))
	stale := time.Now().AddDate(0, 0, -30)
	require.NoError(t, os.Chtimes(old, stale, stale))

	fresh := filepath.Join(dir, "backup_recent.db")
	require.NoError(t, os.WriteFile(fresh, []byte("fresh"), 0o644))
	unrelated := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(unrelated, []byte("keep"), 0o644))
	require.NoError(t, os.Chtimes(unrelated, stale, stale))

	removed, err := db.PruneBackups(dir, 14)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	assert.NoFileExists(t, old)
	assert.FileExists(t, fresh)
	assert.FileExists(t, unrelated)

	removed, err = db.PruneBackups(dir, 0)
	require.NoError(t, err)
	assert.Zero(t, removed)
}
