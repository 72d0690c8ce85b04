// Package guests persists expiring guest sessions.
package guests

import (
	"context"

	"github.com/avachat/avachat/internal/client/models"
)

// Repository defines storage operations for guest sessions.
type Repository interface {
	// Upsert inserts the session or replaces it by primary key. Extending a
	// session writes the extended value back through here.
	Upsert(ctx context.Context, g *models.Guest) error

	// GetByUserID returns the session bound to a user, or common.ErrNotFound.
	GetByUserID(ctx context.Context, userID string) (*models.Guest, error)

	// GetBySessionID returns the session with the given unique session id.
	GetBySessionID(ctx context.Context, sessionID string) (*models.Guest, error)

	// DeleteByID removes a session row.
	DeleteByID(ctx context.Context, id string) error
}
