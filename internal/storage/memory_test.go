package storage

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	doc, err := store.Upload(ctx, strings.NewReader("scan bytes"), "passport.jpg")
	require.NoError(t, err)
	assert.NotEmpty(t, doc.PublicID)
	assert.True(t, store.Has(doc.PublicID))
	assert.Equal(t, 1, store.Len())

	require.NoError(t, store.Delete(ctx, doc.PublicID))
	assert.False(t, store.Has(doc.PublicID))

	// Deleting an unknown id is a no-op.
	assert.NoError(t, store.Delete(ctx, "missing"))
}

func TestMemoryStoreFailureModes(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	store.FailUploads = true
	_, err := store.Upload(ctx, strings.NewReader("x"), "a.jpg")
	assert.Error(t, err)

	store.FailUploads = false
	doc, err := store.Upload(ctx, strings.NewReader("x"), "a.jpg")
	require.NoError(t, err)

	store.FailDeletes = true
	assert.Error(t, store.Delete(ctx, doc.PublicID))
	assert.True(t, store.Has(doc.PublicID))
}
