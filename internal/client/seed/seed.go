// Package seed inserts deterministic fixture rows for debug builds, tests
// and previews. Every timestamp is an offset from a single injected base
// date, so repeated runs against fresh databases produce identical rows.
//
// Seeding runs once, as a migration step. It is not safe to call Apply twice
// against the same database: primary keys are literal constants and the
// second run would violate uniqueness.
package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/avachat/avachat/internal/client/models"
	"github.com/avachat/avachat/internal/dbx"
)

// Fixture identifiers. Fixed so tests can reference rows directly.
const (
	UserLeonaID  = "3e5f7a9b-1c2d-4e3f-8a4b-5c6d7e8f9a0b" // premium, authenticated
	UserMarcusID = "9a0b1c2d-3e4f-4a5b-8c6d-7e8f9a0b1c2d" // free, authenticated
	UserGuestID  = "c0d1e2f3-a4b5-4c6d-8e7f-0a1b2c3d4e5f" // unauthenticated guest

	GuestSessionRowID = "5a6b7c8d-9e0f-4a1b-8c2d-3e4f5a6b7c8d"
	GuestSessionID    = "e1f2a3b4-c5d6-4e7f-8a9b-0c1d2e3f4a5b"

	AvatarNovaID    = "4f7a9b3c-2d1e-4c5f-8a6b-9d0e1f2a3b4c" // public, owned by Leona
	AvatarJuniperID = "8c1d2e3f-4a5b-4c6d-9e7f-0a1b2c3d4e5f" // public, owned by Marcus
	AvatarSableID   = "b2c3d4e5-f6a7-4b8c-8d9e-0f1a2b3c4d5e" // private, owned by Leona
)

var (
	enabled bool

	// baseDate is the injected "current date" every fixture timestamp is
	// derived from. Overridable as a test seam via SetBaseDate.
	baseDate = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
)

// Enable switches seeding on or off. The migration step consults this and
// no-ops when seeding is disabled.
func Enable(on bool) { enabled = on }

// Enabled reports whether the seed migration step will insert fixtures.
func Enabled() bool { return enabled }

// SetBaseDate overrides the injected base date. Returns the previous value
// so tests can restore it.
func SetBaseDate(t time.Time) time.Time {
	prev := baseDate
	baseDate = t
	return prev
}

// BaseDate returns the injected base date.
func BaseDate() time.Time { return baseDate }

func strPtr(s string) *string { return &s }

// Users returns the three fixture users: one premium authenticated, one free
// authenticated, one unauthenticated guest.
func Users() []models.User {
	base := baseDate
	leonaAuth := "google-oauth2|104857629384756102938"
	marcusAuth := "auth0|65f1c2d3e4a5b6c7d8e9f0a1"
	dob := time.Date(1992, 7, 14, 0, 0, 0, 0, time.UTC)

	return []models.User{
		{
			ID:              UserLeonaID,
			Name:            "Leona",
			DateOfBirth:     &dob,
			Email:           strPtr("leona@example.com"),
			CreatedAt:       base.Add(-30 * 24 * time.Hour),
			LastSignedInAt:  base,
			AuthID:          &leonaAuth,
			IsAuthenticated: true,
			ProviderID:      strPtr("google"),
			IsEmailVerified: true,
			Tier:            models.TierPremium,
			Status:          models.StatusAuthorized,
			ThemeColor:      models.NewThemeColor(0x6C, 0x5C, 0xE7, 0xFF),
			UpdatedAt:       base,
		},
		{
			ID:              UserMarcusID,
			Name:            "Marcus",
			Email:           strPtr("marcus@example.com"),
			CreatedAt:       base.Add(-14 * 24 * time.Hour),
			LastSignedInAt:  base.Add(-48 * time.Hour),
			AuthID:          &marcusAuth,
			IsAuthenticated: true,
			ProviderID:      strPtr("password"),
			IsEmailVerified: true,
			Tier:            models.TierFree,
			Status:          models.StatusAuthorized,
			ThemeColor:      models.NewThemeColor(0x00, 0xB8, 0x94, 0xFF),
			UpdatedAt:       base.Add(-48 * time.Hour),
		},
		{
			ID:             UserGuestID,
			Name:           "Guest",
			CreatedAt:      base.Add(-time.Hour),
			LastSignedInAt: base.Add(-time.Hour),
			IsAnonymous:    true,
			Tier:           models.TierFree,
			Status:         models.StatusGuest,
			ThemeColor:     models.NewThemeColor(0x63, 0x66, 0x6A, 0xFF),
			UpdatedAt:      base.Add(-time.Hour),
		},
	}
}

// GuestSession returns the fixture session tied to the guest user, valid for
// 24 hours past the base date.
func GuestSession() models.Guest {
	return models.Guest{
		ID:        GuestSessionRowID,
		SessionID: GuestSessionID,
		UserID:    UserGuestID,
		ExpiresAt: baseDate.Add(24 * time.Hour),
		CreatedAt: baseDate.Add(-time.Hour),
	}
}

// Avatars returns the three fixture avatars: two public, one private,
// distributed across the two authenticated users. The generated prompts
// match the text the backfill migration uses for pre-existing databases.
func Avatars() []models.Avatar {
	base := baseDate
	novaCategory := models.CategoryMentor
	novaType := models.CharacterRobot
	novaMood := models.MoodCalm

	juniperCategory := models.CategoryCompanion
	juniperType := models.CharacterHuman
	juniperMood := models.MoodCheerful

	sableCategory := models.CategoryStoryteller
	sableType := models.CharacterFantasy
	sableMood := models.MoodMysterious

	return []models.Avatar{
		{
			ID:              AvatarNovaID,
			ExternalID:      strPtr("cat-0007"),
			Name:            "Nova",
			Subtitle:        strPtr("Patient robotic mentor"),
			Category:        &novaCategory,
			CharacterType:   &novaType,
			Mood:            &novaMood,
			ImageName:       strPtr("nova"),
			GeneratedPrompt: strPtr("You are Nova, a robot character. Act as a mentor for the user. Keep a calm tone. Patient robotic mentor."),
			OwnerID:         UserLeonaID,
			IsPublic:        true,
			CreatedAt:       base.Add(-21 * 24 * time.Hour),
			UpdatedAt:       base.Add(-2 * 24 * time.Hour),
		},
		{
			ID:              AvatarJuniperID,
			Name:            "Juniper",
			Subtitle:        strPtr("Everyday companion"),
			Category:        &juniperCategory,
			CharacterType:   &juniperType,
			Mood:            &juniperMood,
			ImageName:       strPtr("juniper"),
			GeneratedPrompt: strPtr("You are Juniper, a human character. Act as a companion for the user. Keep a cheerful tone. Everyday companion."),
			OwnerID:         UserMarcusID,
			IsPublic:        true,
			CreatedAt:       base.Add(-10 * 24 * time.Hour),
			UpdatedAt:       base.Add(-10 * 24 * time.Hour),
		},
		{
			ID:              AvatarSableID,
			Name:            "Sable",
			Category:        &sableCategory,
			CharacterType:   &sableType,
			Mood:            &sableMood,
			GeneratedPrompt: strPtr("You are Sable, a fantasy character. Act as a storyteller for the user. Keep a mysterious tone."),
			OwnerID:         UserLeonaID,
			IsPublic:        false,
			CreatedAt:       base.Add(-5 * 24 * time.Hour),
			UpdatedAt:       base.Add(-5 * 24 * time.Hour),
		},
	}
}

// Apply inserts all fixture rows. Plain INSERTs on purpose: a second call
// against the same database fails on the literal primary keys.
func Apply(ctx context.Context, db dbx.DBTX) error {
	for _, u := range Users() {
		_, err := db.ExecContext(ctx, `INSERT INTO users
			(id, name, date_of_birth, email, created_at, last_signed_in_at,
			 auth_id, is_authenticated, provider_id, is_anonymous,
			 is_email_verified, tier, status, theme_color, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			u.ID, u.Name, dbx.NullTimeArg(u.DateOfBirth), dbx.NullStringArg(u.Email),
			dbx.FormatTime(u.CreatedAt), dbx.FormatTime(u.LastSignedInAt),
			dbx.NullStringArg(u.AuthID), u.IsAuthenticated, dbx.NullStringArg(u.ProviderID),
			u.IsAnonymous, u.IsEmailVerified, string(u.Tier), string(u.Status),
			int64(u.ThemeColor), dbx.FormatTime(u.UpdatedAt))
		if err != nil {
			return fmt.Errorf("failed to seed user %s: %w", u.Name, err)
		}
	}

	g := GuestSession()
	_, err := db.ExecContext(ctx, `INSERT INTO guest
		(id, session_id, user_id, expires_at, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		g.ID, g.SessionID, g.UserID, dbx.FormatTime(g.ExpiresAt), dbx.FormatTime(g.CreatedAt))
	if err != nil {
		return fmt.Errorf("failed to seed guest session: %w", err)
	}

	for _, a := range Avatars() {
		_, err := db.ExecContext(ctx, `INSERT INTO avatar
			(id, external_id, name, subtitle, category, character_type, mood,
			 image_name, image_url, thumbnail_url, generated_prompt, owner_id,
			 is_public, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			a.ID, dbx.NullStringArg(a.ExternalID), a.Name, dbx.NullStringArg(a.Subtitle),
			nullEnum(a.Category), nullEnum(a.CharacterType), nullEnum(a.Mood),
			dbx.NullStringArg(a.ImageName), dbx.NullStringArg(a.ImageURL),
			dbx.NullStringArg(a.ThumbnailURL), dbx.NullStringArg(a.GeneratedPrompt),
			a.OwnerID, a.IsPublic, dbx.FormatTime(a.CreatedAt), dbx.FormatTime(a.UpdatedAt))
		if err != nil {
			return fmt.Errorf("failed to seed avatar %s: %w", a.Name, err)
		}
	}
	return nil
}

// Remove deletes the fixture rows. Avatars and the guest session go with
// their users via cascade.
func Remove(ctx context.Context, db dbx.DBTX) error {
	_, err := db.ExecContext(ctx, `DELETE FROM users WHERE id IN (?, ?, ?)`,
		UserLeonaID, UserMarcusID, UserGuestID)
	if err != nil {
		return fmt.Errorf("failed to remove seed users: %w", err)
	}
	return nil
}

func nullEnum[T ~string](v *T) any {
	if v == nil {
		return nil
	}
	return string(*v)
}
