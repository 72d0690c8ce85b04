package messages

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

// Append inserts a new message.
func (r *SQLiteRepository) Append(ctx context.Context, m *models.Message) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO message (id, chat_id, from_user, content, sent_at) VALUES (?, ?, ?, ?, ?)`,
		m.ID, m.ChatID, m.FromUser, m.Content, dbx.FormatTime(m.SentAt))
	if err != nil {
		return fmt.Errorf("failed to insert message: %w", err)
	}
	return nil
}

// ListByChat returns a chat's messages in send order.
func (r *SQLiteRepository) ListByChat(ctx context.Context, chatID string) ([]models.Message, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, chat_id, from_user, content, sent_at FROM message WHERE chat_id = ? ORDER BY sent_at`,
		chatID)
	if err != nil {
		return nil, fmt.Errorf("failed to select messages: %w", err)
	}
	defer rows.Close()

	var result []models.Message
	for rows.Next() {
		var (
			m    models.Message
			sent string
		)
		if err := rows.Scan(&m.ID, &m.ChatID, &m.FromUser, &m.Content, &sent); err != nil {
			return nil, err
		}
		if m.SentAt, err = dbx.ParseTime(sent); err != nil {
			return nil, err
		}
		result = append(result, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// DeleteByID removes a message row.
func (r *SQLiteRepository) DeleteByID(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM message WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete message: %w", err)
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
