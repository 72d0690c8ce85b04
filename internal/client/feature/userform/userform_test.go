package userform

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/avachat/avachat/internal/client/config"
	"github.com/avachat/avachat/internal/client/database"
	"github.com/avachat/avachat/internal/client/dispatch"
	"github.com/avachat/avachat/internal/client/models"
	"github.com/avachat/avachat/internal/client/repositories/guests"
	"github.com/avachat/avachat/internal/client/repositories/users"
	"github.com/avachat/avachat/internal/client/seed"
	"github.com/avachat/avachat/internal/common"
	"github.com/avachat/avachat/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFeature(t *testing.T) (*Feature, *database.Store) {
	t.Helper()
	t.Cleanup(func() { seed.Enable(false) })

	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.Context = config.ContextTest
	cfg.Debug = true
	cfg.DatabasePath = filepath.Join(t.TempDir(), "app.db")

	store, err := database.Open(context.Background(), cfg, logging.NewDefault(false))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	f := New(store, logging.NewDefault(false))
	f.now = func() time.Time { return time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC) }
	return f, store
}

// drive applies the action and runs resulting effects synchronously.
func drive(t *testing.T, f *Feature, s State, a Action) State {
	t.Helper()
	queue := []Action{a}
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]

		var effects []dispatch.Effect[Action]
		s, effects = f.Reduce(s, next)
		for _, effect := range effects {
			effect(context.Background(), func(a Action) { queue = append(queue, a) })
		}
	}
	return s
}

func loadUser(t *testing.T, store *database.Store, id string) models.User {
	t.Helper()
	u, err := users.NewSQLiteRepository(store.DB).GetByID(context.Background(), id)
	require.NoError(t, err)
	return *u
}

func TestSave_RequiresName(t *testing.T) {
	f, store := newTestFeature(t)

	s := f.NewState(loadUser(t, store, seed.UserLeonaID))
	s, _ = f.Reduce(s, NameChanged{Value: "  "})
	s, effects := f.Reduce(s, SaveRequested{})
	assert.Empty(t, effects)
	assert.Equal(t, "name is required", s.Err)
}

func TestSave_PersistsProfileEdits(t *testing.T) {
	f, store := newTestFeature(t)

	dob := time.Date(1990, 5, 2, 0, 0, 0, 0, time.UTC)
	color := models.NewThemeColor(0xFF, 0x00, 0x7F, 0xFF)

	s := f.NewState(loadUser(t, store, seed.UserMarcusID))
	s, _ = f.Reduce(s, NameChanged{Value: "Marcus A."})
	s, _ = f.Reduce(s, DateOfBirthChanged{Value: &dob})
	s, _ = f.Reduce(s, ThemeColorChanged{Value: color})
	s, _ = f.Reduce(s, TierChanged{Value: models.TierPremium})
	s = drive(t, f, s, SaveRequested{})

	assert.False(t, s.Saving)
	assert.Empty(t, s.Err)

	got := loadUser(t, store, seed.UserMarcusID)
	assert.Equal(t, "Marcus A.", got.Name)
	require.NotNil(t, got.DateOfBirth)
	assert.Equal(t, dob, *got.DateOfBirth)
	assert.Equal(t, color, got.ThemeColor)
	assert.Equal(t, models.TierPremium, got.Tier)
	assert.Equal(t, f.now(), got.UpdatedAt)
}

func TestSaveFailed_RollsBackDraft(t *testing.T) {
	f, store := newTestFeature(t)

	s := f.NewState(loadUser(t, store, seed.UserMarcusID))
	s, _ = f.Reduce(s, NameChanged{Value: "Renamed"})

	s, _ = f.Reduce(s, SaveFailed{Message: "could not save the profile"})
	assert.Equal(t, "Marcus", s.Draft.Name, "draft rolls back to the opened record")
	assert.Equal(t, "could not save the profile", s.Err)
	assert.False(t, s.Saving)
}

func TestDelete_CascadesOwnedRows(t *testing.T) {
	f, store := newTestFeature(t)
	ctx := context.Background()

	s := f.NewState(loadUser(t, store, seed.UserGuestID))
	s = drive(t, f, s, DeleteRequested{})
	assert.Empty(t, s.Err)

	_, err := users.NewSQLiteRepository(store.DB).GetByID(ctx, seed.UserGuestID)
	assert.ErrorIs(t, err, common.ErrNotFound)

	_, err = guests.NewSQLiteRepository(store.DB).GetBySessionID(ctx, seed.GuestSessionID)
	assert.True(t, errors.Is(err, common.ErrNotFound), "guest session goes with the account")
}
