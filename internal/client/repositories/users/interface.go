// Package users persists identity and profile records.
package users

import (
	"context"
	"time"

	"github.com/avachat/avachat/internal/client/models"
)

// Stats groups user counts by predicate, computed as a single aggregate read.
type Stats struct {
	All           int
	Authenticated int
	Guests        int
	Today         int
	Free          int
	Premium       int
	Enterprise    int
}

// Repository defines storage operations for users.
type Repository interface {
	// Upsert inserts the row or replaces it wholesale by primary key.
	Upsert(ctx context.Context, u *models.User) error

	// GetByID returns a single user or common.ErrNotFound.
	GetByID(ctx context.Context, id string) (*models.User, error)

	// GetByAuthID looks a user up by external auth identifier.
	GetByAuthID(ctx context.Context, authID string) (*models.User, error)

	// ListByName returns all users ordered by display name.
	ListByName(ctx context.Context) ([]models.User, error)

	// DeleteByID removes a user; owned avatars, chats and guest sessions go
	// with it via cascade.
	DeleteByID(ctx context.Context, id string) error

	// Stats computes aggregate counts. The "today" bucket uses calendar-day
	// containment of the last sign-in against now.
	Stats(ctx context.Context, now time.Time) (Stats, error)
}
