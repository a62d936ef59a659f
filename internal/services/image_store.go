package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/markyai/studio-backend/internal/config"
	"github.com/markyai/studio-backend/internal/models"
)

var (
	// ErrUnauthenticated is returned when a store method runs before an
	// owner identifier is set.
	ErrUnauthenticated = errors.New("user not authenticated")
	// ErrImageNotFound is returned when a delete matches no record.
	ErrImageNotFound = errors.New("image not found")
)

// ImageStore persists generated-image records scoped by an opaque owner id.
// List returns records ordered by timestamp descending (newest first).
// No transactions, no pagination.
type ImageStore interface {
	Save(ctx context.Context, image *models.GeneratedImage) (string, error)
	List(ctx context.Context, userID string) ([]models.GeneratedImage, error)
	Delete(ctx context.Context, userID, imageID string) error
}

// NewImageStore selects the storage backend from configuration.
// The original app shipped parallel Supabase and Firestore revisions;
// here a single interface covers both relational and document stores.
func NewImageStore(cfg *config.Config) (ImageStore, error) {
	switch cfg.StorageBackend {
	case "", "postgres":
		return NewPostgresImageStore(), nil
	case "mongo":
		return NewMongoImageStore(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend: %s", cfg.StorageBackend)
	}
}
