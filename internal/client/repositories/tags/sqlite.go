package tags

import (
	"context"
	"fmt"

	"github.com/avachat/avachat/internal/client/models"
	"github.com/avachat/avachat/internal/common"
	"github.com/avachat/avachat/internal/dbx"
)

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a new SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// UpsertTag inserts or renames a tag by primary key.
func (r *SQLiteRepository) UpsertTag(ctx context.Context, t *models.Tag) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO tag (id, name) VALUES (?, ?) ON CONFLICT(id) DO UPDATE SET name = excluded.name`,
		t.ID, t.Name)
	if err != nil {
		return fmt.Errorf("failed to upsert tag: %w", err)
	}
	return nil
}

// UpsertBadge inserts or renames a badge by primary key.
func (r *SQLiteRepository) UpsertBadge(ctx context.Context, b *models.Badge) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO badge (id, name) VALUES (?, ?) ON CONFLICT(id) DO UPDATE SET name = excluded.name`,
		b.ID, b.Name)
	if err != nil {
		return fmt.Errorf("failed to upsert badge: %w", err)
	}
	return nil
}

// TagMessage attaches a tag to a message. Attaching twice is a no-op.
func (r *SQLiteRepository) TagMessage(ctx context.Context, messageID, tagID string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO message_tag (message_id, tag_id) VALUES (?, ?) ON CONFLICT DO NOTHING`,
		messageID, tagID)
	if err != nil {
		return fmt.Errorf("failed to tag message: %w", err)
	}
	return nil
}

// BadgeMessage attaches a badge to a message.
func (r *SQLiteRepository) BadgeMessage(ctx context.Context, messageID, badgeID string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO message_badge (message_id, badge_id) VALUES (?, ?) ON CONFLICT DO NOTHING`,
		messageID, badgeID)
	if err != nil {
		return fmt.Errorf("failed to badge message: %w", err)
	}
	return nil
}

// TagAvatar attaches a tag to an avatar.
func (r *SQLiteRepository) TagAvatar(ctx context.Context, avatarID, tagID string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO avatarTag (avatar_id, tag_id) VALUES (?, ?) ON CONFLICT DO NOTHING`,
		avatarID, tagID)
	if err != nil {
		return fmt.Errorf("failed to tag avatar: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) listTags(ctx context.Context, query string, arg any) ([]models.Tag, error) {
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to select tags: %w", err)
	}
	defer rows.Close()

	var result []models.Tag
	for rows.Next() {
		var t models.Tag
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			return nil, err
		}
		result = append(result, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// ListTagsForMessage returns a message's tags ordered by name.
func (r *SQLiteRepository) ListTagsForMessage(ctx context.Context, messageID string) ([]models.Tag, error) {
	return r.listTags(ctx, `SELECT t.id, t.name FROM tag t
		JOIN message_tag mt ON mt.tag_id = t.id WHERE mt.message_id = ? ORDER BY t.name`, messageID)
}

// ListBadgesForMessage returns a message's badges ordered by name.
func (r *SQLiteRepository) ListBadgesForMessage(ctx context.Context, messageID string) ([]models.Badge, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT b.id, b.name FROM badge b
		JOIN message_badge mb ON mb.badge_id = b.id WHERE mb.message_id = ? ORDER BY b.name`, messageID)
	if err != nil {
		return nil, fmt.Errorf("failed to select badges: %w", err)
	}
	defer rows.Close()

	var result []models.Badge
	for rows.Next() {
		var b models.Badge
		if err := rows.Scan(&b.ID, &b.Name); err != nil {
			return nil, err
		}
		result = append(result, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// ListTagsForAvatar returns an avatar's tags ordered by name.
func (r *SQLiteRepository) ListTagsForAvatar(ctx context.Context, avatarID string) ([]models.Tag, error) {
	return r.listTags(ctx, `SELECT t.id, t.name FROM tag t
		JOIN avatarTag at ON at.tag_id = t.id WHERE at.avatar_id = ? ORDER BY t.name`, avatarID)
}

// DeleteTag removes a tag; join rows go via cascade.
func (r *SQLiteRepository) DeleteTag(ctx context.Context, id string) error {
	return r.deleteRow(ctx, `DELETE FROM tag WHERE id = ?`, id)
}

// DeleteBadge removes a badge; join rows go via cascade.
func (r *SQLiteRepository) DeleteBadge(ctx context.Context, id string) error {
	return r.deleteRow(ctx, `DELETE FROM badge WHERE id = ?`, id)
}

func (r *SQLiteRepository) deleteRow(ctx context.Context, query, id string) error {
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete: %w", err)
	}
	ra, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if ra == 0 {
		return common.ErrNotFound
	}
	return nil
}
