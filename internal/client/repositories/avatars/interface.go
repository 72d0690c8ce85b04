// Package avatars persists avatar persona definitions.
package avatars

import (
	"context"

	"github.com/avachat/avachat/internal/client/models"
)

// Stats groups avatar counts by visibility, computed as a single aggregate read.
type Stats struct {
	All     int
	Public  int
	Private int
}

// Repository defines storage operations for avatars.
type Repository interface {
	// Upsert inserts the row or replaces it wholesale by primary key.
	Upsert(ctx context.Context, a *models.Avatar) error

	// GetByID returns a single avatar or common.ErrNotFound.
	GetByID(ctx context.Context, id string) (*models.Avatar, error)

	// ListByName returns all avatars ordered by name.
	ListByName(ctx context.Context) ([]models.Avatar, error)

	// ListByOwner returns one user's avatars ordered by name.
	ListByOwner(ctx context.Context, ownerID string) ([]models.Avatar, error)

	// DeleteByID removes an avatar; its chats and join rows go via cascade.
	DeleteByID(ctx context.Context, id string) error

	// Stats computes the visibility counts.
	Stats(ctx context.Context) (Stats, error)
}
