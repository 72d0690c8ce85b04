package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

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

const userColumns = `id, name, date_of_birth, email, created_at, last_signed_in_at,
	auth_id, is_authenticated, provider_id, is_anonymous, is_email_verified,
	tier, status, theme_color, updated_at`

// Upsert replaces the whole row by primary key.
func (r *SQLiteRepository) Upsert(ctx context.Context, u *models.User) error {
	query := `INSERT INTO users (` + userColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			date_of_birth = excluded.date_of_birth,
			email = excluded.email,
			last_signed_in_at = excluded.last_signed_in_at,
			auth_id = excluded.auth_id,
			is_authenticated = excluded.is_authenticated,
			provider_id = excluded.provider_id,
			is_anonymous = excluded.is_anonymous,
			is_email_verified = excluded.is_email_verified,
			tier = excluded.tier,
			status = excluded.status,
			theme_color = excluded.theme_color,
			updated_at = excluded.updated_at
	`
	_, err := r.db.ExecContext(ctx, query,
		u.ID, u.Name, dbx.NullTimeArg(u.DateOfBirth), dbx.NullStringArg(u.Email),
		dbx.FormatTime(u.CreatedAt), dbx.FormatTime(u.LastSignedInAt),
		dbx.NullStringArg(u.AuthID), u.IsAuthenticated, dbx.NullStringArg(u.ProviderID),
		u.IsAnonymous, u.IsEmailVerified, string(u.Tier), string(u.Status),
		int64(u.ThemeColor), dbx.FormatTime(u.UpdatedAt))
	if err != nil {
		return fmt.Errorf("failed to upsert user: %w", err)
	}
	return nil
}

func scanUser(scan func(dest ...any) error) (*models.User, error) {
	var (
		u                 models.User
		dob, email        sql.NullString
		created, signedIn string
		authID, provider  sql.NullString
		tier, status      string
		themeColor        int64
		updated           string
	)
	err := scan(&u.ID, &u.Name, &dob, &email, &created, &signedIn,
		&authID, &u.IsAuthenticated, &provider, &u.IsAnonymous, &u.IsEmailVerified,
		&tier, &status, &themeColor, &updated)
	if err != nil {
		return nil, err
	}

	if u.DateOfBirth, err = dbx.ScanNullTime(dob); err != nil {
		return nil, err
	}
	u.Email = dbx.ScanNullString(email)
	if u.CreatedAt, err = dbx.ParseTime(created); err != nil {
		return nil, err
	}
	if u.LastSignedInAt, err = dbx.ParseTime(signedIn); err != nil {
		return nil, err
	}
	u.AuthID = dbx.ScanNullString(authID)
	u.ProviderID = dbx.ScanNullString(provider)
	u.Tier = models.MembershipTier(tier)
	u.Status = models.AuthStatus(status)
	u.ThemeColor = models.ThemeColor(themeColor)
	if u.UpdatedAt, err = dbx.ParseTime(updated); err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByID returns a single user or common.ErrNotFound.
func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	u, err := scanUser(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return u, nil
}

// GetByAuthID looks a user up by external auth identifier.
func (r *SQLiteRepository) GetByAuthID(ctx context.Context, authID string) (*models.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE auth_id = ?`, authID)
	u, err := scanUser(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by auth id: %w", err)
	}
	return u, nil
}

// ListByName returns all users ordered by display name.
func (r *SQLiteRepository) ListByName(ctx context.Context) ([]models.User, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to select users: %w", err)
	}
	defer rows.Close()

	var result []models.User
	for rows.Next() {
		u, err := scanUser(rows.Scan)
		if err != nil {
			return nil, err
		}
		result = append(result, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// DeleteByID removes a user row.
func (r *SQLiteRepository) DeleteByID(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
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

// Stats computes all user counts in one aggregate read. Each predicate is
// pushed into SQL as a filtered count; the "today" bucket compares the last
// sign-in against the calendar day containing now.
func (r *SQLiteRepository) Stats(ctx context.Context, now time.Time) (Stats, error) {
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	dayEnd := dayStart.Add(24 * time.Hour)

	query := `SELECT
		COUNT(*),
		COUNT(*) FILTER (WHERE is_authenticated = 1),
		COUNT(*) FILTER (WHERE status = 'guest'),
		COUNT(*) FILTER (WHERE last_signed_in_at >= ? AND last_signed_in_at < ?),
		COUNT(*) FILTER (WHERE tier = 'free'),
		COUNT(*) FILTER (WHERE tier = 'premium'),
		COUNT(*) FILTER (WHERE tier = 'enterprise')
	FROM users`

	var s Stats
	err := r.db.QueryRowContext(ctx, query, dbx.FormatTime(dayStart), dbx.FormatTime(dayEnd)).
		Scan(&s.All, &s.Authenticated, &s.Guests, &s.Today, &s.Free, &s.Premium, &s.Enterprise)
	if err != nil {
		return Stats{}, fmt.Errorf("failed to count users: %w", err)
	}
	return s, nil
}
