package storage

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"homeserv/internal/models"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"
)

// CloudinaryStore keeps identity documents in a Cloudinary folder. Public
// IDs are random so document URLs are not guessable from booking ids.
type CloudinaryStore struct {
	client *cloudinary.Cloudinary
	folder string
}

// NewCloudinaryStore builds a store from a cloudinary:// URL.
func NewCloudinaryStore(rawURL, folder string) (*CloudinaryStore, error) {
	client, err := cloudinary.NewFromURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("failed to init cloudinary: %w", err)
	}
	return &CloudinaryStore{client: client, folder: folder}, nil
}

func (s *CloudinaryStore) Upload(ctx context.Context, r io.Reader, filename string) (models.Document, error) {
	publicID := uuid.NewString()
	if ext := filepath.Ext(filename); ext != "" {
		publicID += strings.ToLower(ext)
	}

	overwrite := false
	resp, err := s.client.Upload.Upload(ctx, r, uploader.UploadParams{
		Folder:       s.folder,
		PublicID:     publicID,
		Overwrite:    &overwrite,
		ResourceType: "auto",
	})
	if err != nil {
		return models.Document{}, fmt.Errorf("cloudinary upload failed: %w", err)
	}

	return models.Document{URL: resp.SecureURL, PublicID: resp.PublicID}, nil
}

func (s *CloudinaryStore) Delete(ctx context.Context, publicID string) error {
	resp, err := s.client.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID})
	if err != nil {
		return fmt.Errorf("cloudinary destroy failed: %w", err)
	}
	if resp.Result != "ok" && resp.Result != "not found" {
		return fmt.Errorf("cloudinary destroy returned %q", resp.Result)
	}
	return nil
}
