package guests

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

// Upsert inserts or replaces a session by primary key.
func (r *SQLiteRepository) Upsert(ctx context.Context, g *models.Guest) error {
	query := `INSERT INTO guest (id, session_id, user_id, expires_at, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			session_id = excluded.session_id,
			user_id = excluded.user_id,
			expires_at = excluded.expires_at
	`
	_, err := r.db.ExecContext(ctx, query,
		g.ID, g.SessionID, g.UserID, dbx.FormatTime(g.ExpiresAt), dbx.FormatTime(g.CreatedAt))
	if err != nil {
		return fmt.Errorf("failed to upsert guest session: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) get(ctx context.Context, query string, arg any) (*models.Guest, error) {
	row := r.db.QueryRowContext(ctx, query, arg)

	var (
		g                models.Guest
		expires, created string
	)
	err := row.Scan(&g.ID, &g.SessionID, &g.UserID, &expires, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get guest session: %w", err)
	}
	if g.ExpiresAt, err = dbx.ParseTime(expires); err != nil {
		return nil, err
	}
	if g.CreatedAt, err = dbx.ParseTime(created); err != nil {
		return nil, err
	}
	return &g, nil
}

// GetByUserID returns the session bound to a user.
func (r *SQLiteRepository) GetByUserID(ctx context.Context, userID string) (*models.Guest, error) {
	return r.get(ctx, `SELECT id, session_id, user_id, expires_at, created_at FROM guest WHERE user_id = ?`, userID)
}

// GetBySessionID returns the session with the given unique session id.
func (r *SQLiteRepository) GetBySessionID(ctx context.Context, sessionID string) (*models.Guest, error) {
	return r.get(ctx, `SELECT id, session_id, user_id, expires_at, created_at FROM guest WHERE session_id = ?`, sessionID)
}

// DeleteByID removes a session row.
func (r *SQLiteRepository) DeleteByID(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM guest WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete guest session: %w", err)
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
