// Package messages persists the ordered messages of a chat.
package messages

import (
	"context"

	"github.com/avachat/avachat/internal/client/models"
)

// Repository defines storage operations for messages.
type Repository interface {
	// Append inserts a new message.
	Append(ctx context.Context, m *models.Message) error

	// ListByChat returns a chat's messages in send order.
	ListByChat(ctx context.Context, chatID string) ([]models.Message, error)

	// DeleteByID removes a message; its join rows go via cascade.
	DeleteByID(ctx context.Context, id string) error
}
