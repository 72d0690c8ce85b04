package avatars

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/avachat/avachat/internal/client/config"
	"github.com/avachat/avachat/internal/client/database"
	"github.com/avachat/avachat/internal/client/dispatch"
	"github.com/avachat/avachat/internal/client/feature/avatarform"
	"github.com/avachat/avachat/internal/client/livequery"
	"github.com/avachat/avachat/internal/client/models"
	avatarrepo "github.com/avachat/avachat/internal/client/repositories/avatars"
	"github.com/avachat/avachat/internal/client/seed"
	"github.com/avachat/avachat/internal/dbx"
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

	log := logging.NewDefault(false)
	store, err := database.Open(context.Background(), cfg, log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	return New(store, avatarform.New(store, log), log), store
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

func names(rows []models.Avatar) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Name
	}
	return out
}

func TestRefresh_LoadsRowsAndStats(t *testing.T) {
	f, _ := newTestFeature(t)

	s := drive(t, f, State{}, RefreshRequested{})

	assert.Equal(t, []string{"Juniper", "Nova", "Sable"}, names(s.Rows))
	assert.Equal(t, avatarrepo.Stats{All: 3, Public: 2, Private: 1}, s.Stats)

	// The filters partition the same fetched list the stats were computed
	// from: counts and slices must agree.
	assert.Len(t, s.Visible(), s.Stats.All)
	assert.Len(t, livequery.AvatarPublic.Apply(s.Rows), s.Stats.Public)
	assert.Len(t, livequery.AvatarPrivate.Apply(s.Rows), s.Stats.Private)
}

func TestDetailSwitching_DoesNotRefetch(t *testing.T) {
	f, _ := newTestFeature(t)
	s := drive(t, f, State{}, RefreshRequested{})
	full := s.Rows

	s, effects := f.Reduce(s, DetailChanged{Detail: livequery.AvatarPublic})
	assert.Empty(t, effects, "switching detail must not hit the database")
	assert.Equal(t, []string{"Juniper", "Nova"}, names(s.Visible()))
	assert.Equal(t, full, s.Rows, "the full list stays loaded")

	s, _ = f.Reduce(s, DetailChanged{Detail: livequery.AvatarPrivate})
	assert.Equal(t, []string{"Sable"}, names(s.Visible()))

	s, _ = f.Reduce(s, DetailChanged{Detail: livequery.AvatarAll})
	assert.Equal(t, []string{"Juniper", "Nova", "Sable"}, names(s.Visible()))
}

func TestDelete_LeavesOthersInNameOrder(t *testing.T) {
	f, _ := newTestFeature(t)
	s := drive(t, f, State{}, RefreshRequested{})

	s = drive(t, f, s, DeleteRequested{ID: seed.AvatarNovaID})

	assert.Equal(t, []string{"Juniper", "Sable"}, names(s.Rows))
	assert.Equal(t, avatarrepo.Stats{All: 2, Public: 1, Private: 1}, s.Stats)
}

func TestForm_SaveDismissesAndRefreshes(t *testing.T) {
	f, _ := newTestFeature(t)
	s := drive(t, f, State{}, RefreshRequested{})

	s, _ = f.Reduce(s, EditRequested{ID: seed.AvatarNovaID})
	require.NotNil(t, s.Form)
	assert.Equal(t, "Nova", s.Form.Draft.Name)

	s, _ = f.Reduce(s, FormAction{Inner: avatarform.NameChanged{Value: "Aurora"}})
	s = drive(t, f, s, FormAction{Inner: avatarform.SaveRequested{}})

	assert.Nil(t, s.Form, "a completed save dismisses the editor")
	assert.Equal(t, []string{"Aurora", "Juniper", "Sable"}, names(s.Rows))
}

func TestForm_AddThenDismissWithoutSaving(t *testing.T) {
	f, _ := newTestFeature(t)
	s := drive(t, f, State{}, RefreshRequested{})

	s, _ = f.Reduce(s, AddRequested{OwnerID: seed.UserLeonaID})
	require.NotNil(t, s.Form)
	assert.True(t, s.Form.IsNew)

	s, _ = f.Reduce(s, DismissFormRequested{})
	assert.Nil(t, s.Form)
	assert.Equal(t, []string{"Juniper", "Nova", "Sable"}, names(s.Rows))
}

func TestWatch_ReloadsOnCommittedWrites(t *testing.T) {
	f, store := newTestFeature(t)

	st := f.NewStore()
	defer st.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go f.Watch(ctx, st)

	waitFor := func(cond func(State) bool) {
		t.Helper()
		deadline := time.Now().Add(2 * time.Second)
		for time.Now().Before(deadline) {
			if cond(st.State()) {
				return
			}
			time.Sleep(time.Millisecond)
		}
		t.Fatal("state never reached the expected shape")
	}

	waitFor(func(s State) bool { return len(s.Rows) == 3 })

	err := store.WriteTx(ctx, []string{"avatar"}, func(ctx context.Context, tx dbx.DBTX) error {
		return avatarrepo.NewSQLiteRepository(tx).Upsert(ctx, &models.Avatar{
			ID:        "11111111-2222-4333-8444-555555555555",
			Name:      "Willow",
			OwnerID:   seed.UserMarcusID,
			IsPublic:  true,
			CreatedAt: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
			UpdatedAt: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
		})
	})
	require.NoError(t, err)

	waitFor(func(s State) bool { return len(s.Rows) == 4 })
	assert.Equal(t, avatarrepo.Stats{All: 4, Public: 3, Private: 1}, st.State().Stats)
}
