// Package tags persists tag and badge metadata and their attachments to
// messages and avatars.
package tags

import (
	"context"

	"github.com/avachat/avachat/internal/client/models"
)

// Repository defines storage operations for tags, badges and join rows.
type Repository interface {
	UpsertTag(ctx context.Context, t *models.Tag) error
	UpsertBadge(ctx context.Context, b *models.Badge) error

	// TagMessage attaches a tag to a message. Attaching twice is a no-op.
	TagMessage(ctx context.Context, messageID, tagID string) error
	BadgeMessage(ctx context.Context, messageID, badgeID string) error
	TagAvatar(ctx context.Context, avatarID, tagID string) error

	ListTagsForMessage(ctx context.Context, messageID string) ([]models.Tag, error)
	ListBadgesForMessage(ctx context.Context, messageID string) ([]models.Badge, error)
	ListTagsForAvatar(ctx context.Context, avatarID string) ([]models.Tag, error)

	DeleteTag(ctx context.Context, id string) error
	DeleteBadge(ctx context.Context, id string) error
}
