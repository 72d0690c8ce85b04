package avatars

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

const avatarColumns = `id, external_id, name, subtitle, category, character_type,
	mood, image_name, image_url, thumbnail_url, generated_prompt, owner_id,
	is_public, created_at, updated_at`

// Upsert replaces the whole row by primary key. Saving a form draft persists
// every field in one statement.
func (r *SQLiteRepository) Upsert(ctx context.Context, a *models.Avatar) error {
	query := `INSERT INTO avatar (` + avatarColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			external_id = excluded.external_id,
			name = excluded.name,
			subtitle = excluded.subtitle,
			category = excluded.category,
			character_type = excluded.character_type,
			mood = excluded.mood,
			image_name = excluded.image_name,
			image_url = excluded.image_url,
			thumbnail_url = excluded.thumbnail_url,
			generated_prompt = excluded.generated_prompt,
			owner_id = excluded.owner_id,
			is_public = excluded.is_public,
			updated_at = excluded.updated_at
	`
	_, err := r.db.ExecContext(ctx, query,
		a.ID, dbx.NullStringArg(a.ExternalID), a.Name, dbx.NullStringArg(a.Subtitle),
		nullEnum(a.Category), nullEnum(a.CharacterType), nullEnum(a.Mood),
		dbx.NullStringArg(a.ImageName), dbx.NullStringArg(a.ImageURL),
		dbx.NullStringArg(a.ThumbnailURL), dbx.NullStringArg(a.GeneratedPrompt),
		a.OwnerID, a.IsPublic, dbx.FormatTime(a.CreatedAt), dbx.FormatTime(a.UpdatedAt))
	if err != nil {
		return fmt.Errorf("failed to upsert avatar: %w", err)
	}
	return nil
}

func nullEnum[T ~string](v *T) any {
	if v == nil {
		return nil
	}
	return string(*v)
}

func scanEnum[T ~string](s sql.NullString) *T {
	if !s.Valid {
		return nil
	}
	v := T(s.String)
	return &v
}

func scanAvatar(scan func(dest ...any) error) (*models.Avatar, error) {
	var (
		a                                models.Avatar
		externalID, subtitle             sql.NullString
		category, characterType, mood    sql.NullString
		imageName, imageURL, thumbURL    sql.NullString
		generatedPrompt                  sql.NullString
		created, updated                 string
	)
	err := scan(&a.ID, &externalID, &a.Name, &subtitle, &category, &characterType,
		&mood, &imageName, &imageURL, &thumbURL, &generatedPrompt, &a.OwnerID,
		&a.IsPublic, &created, &updated)
	if err != nil {
		return nil, err
	}

	a.ExternalID = dbx.ScanNullString(externalID)
	a.Subtitle = dbx.ScanNullString(subtitle)
	a.Category = scanEnum[models.PromptCategory](category)
	a.CharacterType = scanEnum[models.CharacterType](characterType)
	a.Mood = scanEnum[models.Mood](mood)
	a.ImageName = dbx.ScanNullString(imageName)
	a.ImageURL = dbx.ScanNullString(imageURL)
	a.ThumbnailURL = dbx.ScanNullString(thumbURL)
	a.GeneratedPrompt = dbx.ScanNullString(generatedPrompt)
	if a.CreatedAt, err = dbx.ParseTime(created); err != nil {
		return nil, err
	}
	if a.UpdatedAt, err = dbx.ParseTime(updated); err != nil {
		return nil, err
	}
	return &a, nil
}

// GetByID returns a single avatar or common.ErrNotFound.
func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.Avatar, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+avatarColumns+` FROM avatar WHERE id = ?`, id)
	a, err := scanAvatar(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get avatar: %w", err)
	}
	return a, nil
}

func (r *SQLiteRepository) list(ctx context.Context, query string, args ...any) ([]models.Avatar, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select avatars: %w", err)
	}
	defer rows.Close()

	var result []models.Avatar
	for rows.Next() {
		a, err := scanAvatar(rows.Scan)
		if err != nil {
			return nil, err
		}
		result = append(result, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// ListByName returns all avatars ordered by name. Ordering ties on equal
// names are left to the engine; name is the only sort key.
func (r *SQLiteRepository) ListByName(ctx context.Context) ([]models.Avatar, error) {
	return r.list(ctx, `SELECT `+avatarColumns+` FROM avatar ORDER BY name`)
}

// ListByOwner returns one user's avatars ordered by name.
func (r *SQLiteRepository) ListByOwner(ctx context.Context, ownerID string) ([]models.Avatar, error) {
	return r.list(ctx, `SELECT `+avatarColumns+` FROM avatar WHERE owner_id = ? ORDER BY name`, ownerID)
}

// DeleteByID removes an avatar row.
func (r *SQLiteRepository) DeleteByID(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM avatar WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete avatar: %w", err)
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

// Stats computes total/public/private counts in one aggregate read.
func (r *SQLiteRepository) Stats(ctx context.Context) (Stats, error) {
	query := `SELECT
		COUNT(*),
		COUNT(*) FILTER (WHERE is_public = 1),
		COUNT(*) FILTER (WHERE is_public = 0)
	FROM avatar`

	var s Stats
	if err := r.db.QueryRowContext(ctx, query).Scan(&s.All, &s.Public, &s.Private); err != nil {
		return Stats{}, fmt.Errorf("failed to count avatars: %w", err)
	}
	return s, nil
}
