package storage

import (
	"context"
	"fmt"
	"io"
	"sync"

	"homeserv/internal/models"

	"github.com/google/uuid"
)

// MemoryStore is an in-process DocumentStore for tests and local
// development without Cloudinary credentials.
type MemoryStore struct {
	mu   sync.Mutex
	docs map[string][]byte

	// FailUploads and FailDeletes force errors for failure-path tests.
	FailUploads bool
	FailDeletes bool
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[string][]byte)}
}

func (s *MemoryStore) Upload(ctx context.Context, r io.Reader, filename string) (models.Document, error) {
	if s.FailUploads {
		return models.Document{}, fmt.Errorf("upload failed")
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return models.Document{}, err
	}

	publicID := uuid.NewString()
	s.mu.Lock()
	s.docs[publicID] = data
	s.mu.Unlock()

	return models.Document{URL: "memory://" + publicID, PublicID: publicID}, nil
}

func (s *MemoryStore) Delete(ctx context.Context, publicID string) error {
	if s.FailDeletes {
		return fmt.Errorf("delete failed")
	}
	s.mu.Lock()
	delete(s.docs, publicID)
	s.mu.Unlock()
	return nil
}

// Len returns the number of stored documents.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.docs)
}

// Has reports whether a document is still stored.
func (s *MemoryStore) Has(publicID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.docs[publicID]
	return ok
}
