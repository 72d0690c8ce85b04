// Package chats persists conversations between users and avatars.
package chats

import (
	"context"

	"github.com/avachat/avachat/internal/client/models"
)

// Repository defines storage operations for chats.
type Repository interface {
	// Upsert inserts the chat or replaces it by primary key.
	Upsert(ctx context.Context, c *models.Chat) error

	// GetByID returns a single chat or common.ErrNotFound.
	GetByID(ctx context.Context, id string) (*models.Chat, error)

	// ListByUser returns a user's chats, newest first.
	ListByUser(ctx context.Context, userID string) ([]models.Chat, error)

	// DeleteByID removes a chat; its messages go via cascade.
	DeleteByID(ctx context.Context, id string) error
}
