package chats

import (
	"context"
	"database/sql"
	"errors"
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

// Upsert inserts or replaces a chat by primary key.
func (r *SQLiteRepository) Upsert(ctx context.Context, c *models.Chat) error {
	query := `INSERT INTO chat (id, user_id, avatar_id, title, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title
	`
	_, err := r.db.ExecContext(ctx, query,
		c.ID, c.UserID, c.AvatarID, c.Title, dbx.FormatTime(c.CreatedAt))
	if err != nil {
		return fmt.Errorf("failed to upsert chat: %w", err)
	}
	return nil
}

func scanChat(scan func(dest ...any) error) (*models.Chat, error) {
	var (
		c       models.Chat
		created string
	)
	if err := scan(&c.ID, &c.UserID, &c.AvatarID, &c.Title, &created); err != nil {
		return nil, err
	}
	var err error
	if c.CreatedAt, err = dbx.ParseTime(created); err != nil {
		return nil, err
	}
	return &c, nil
}

// GetByID returns a single chat or common.ErrNotFound.
func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.Chat, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, avatar_id, title, created_at FROM chat WHERE id = ?`, id)
	c, err := scanChat(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get chat: %w", err)
	}
	return c, nil
}

// ListByUser returns a user's chats, newest first.
func (r *SQLiteRepository) ListByUser(ctx context.Context, userID string) ([]models.Chat, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, avatar_id, title, created_at FROM chat WHERE user_id = ? ORDER BY created_at DESC`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("failed to select chats: %w", err)
	}
	defer rows.Close()

	var result []models.Chat
	for rows.Next() {
		c, err := scanChat(rows.Scan)
		if err != nil {
			return nil, err
		}
		result = append(result, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// DeleteByID removes a chat row.
func (r *SQLiteRepository) DeleteByID(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM chat WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete chat: %w", err)
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
