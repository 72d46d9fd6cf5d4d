package database

import (
	"context"
	"io"
	"path/filepath"
	"testing"
	"time"

	"homeserv/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	logger := zerolog.New(io.Discard)
	db, err := NewDB(filepath.Join(t.TempDir(), "test.db"), &logger)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func seedProvider(t *testing.T, db *DB) *models.Provider {
	t.Helper()
	p := &models.Provider{Name: "CleanCo", ServiceCategory: "cleaning", Phone: "+100"}
	require.NoError(t, db.CreateProvider(context.Background(), p))
	return p
}

func seedProperty(t *testing.T, db *DB) *models.Property {
	t.Helper()
	owner := &models.Owner{Name: "Alice", Phone: "+111", Email: "alice@example.com"}
	require.NoError(t, db.CreateOwner(context.Background(), owner))

	p := &models.Property{Title: "Sea View Flat", Location: "Harbor", NightlyPrice: 100, OwnerID: owner.ID, IsActive: true}
	require.NoError(t, db.CreateProperty(context.Background(), p))
	return p
}

func day(offset int) time.Time {
	base := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	return base.AddDate(0, 0, offset)
}

func TestCatalog(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	provider := seedProvider(t, db)
	got, err := db.GetProvider(ctx, provider.ID)
	require.NoError(t, err)
	assert.Equal(t, "CleanCo", got.Name)

	property := seedProperty(t, db)
	gotProp, err := db.GetProperty(ctx, property.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(100), gotProp.NightlyPrice)
	assert.Equal(t, property.OwnerID, gotProp.OwnerID)

	owner, err := db.GetOwner(ctx, property.OwnerID)
	require.NoError(t, err)
	assert.Equal(t, "Alice", owner.Name)

	_, err = db.GetProvider(ctx, 9999)
	assert.ErrorIs(t, err, ErrNotFound)
}
