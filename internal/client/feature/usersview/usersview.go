// Package usersview implements the user list screen: a live name-ordered
// list with aggregate stats, an in-memory detail filter, and the embedded
// profile editor.
package usersview

import (
	"context"
	"time"

	"github.com/avachat/avachat/internal/client/database"
	"github.com/avachat/avachat/internal/client/dispatch"
	"github.com/avachat/avachat/internal/client/feature/userform"
	"github.com/avachat/avachat/internal/client/livequery"
	"github.com/avachat/avachat/internal/client/models"
	userrepo "github.com/avachat/avachat/internal/client/repositories/users"
	"github.com/avachat/avachat/internal/dbx"
	"github.com/avachat/avachat/internal/logging"
)

// State is the list's state. Rows always holds the full name-ordered list;
// the detail filter narrows what Visible returns without re-querying.
type State struct {
	Rows   []models.User
	Stats  userrepo.Stats
	Detail livequery.UserDetail

	// Form is non-nil while the profile editor is open.
	Form *userform.State

	Err string
}

// Visible returns the rows the active detail selects, evaluated against now.
func (s State) Visible(now time.Time) []models.User {
	return s.Detail.Apply(s.Rows, now)
}

// Action is the closed set of inputs the list reducer handles.
type Action interface{ isListAction() }

type (
	// RefreshRequested re-reads the list and stats.
	RefreshRequested struct{}

	// DetailChanged switches the in-memory filter.
	DetailChanged struct{ Detail livequery.UserDetail }

	// EditRequested opens the profile editor on a listed user.
	EditRequested struct{ ID string }

	// DeleteRequested removes an account without opening the editor.
	DeleteRequested struct{ ID string }

	// DismissFormRequested closes the editor without saving.
	DismissFormRequested struct{}

	// FormAction routes an action to the embedded editor.
	FormAction struct{ Inner userform.Action }
)

type loaded struct {
	rows  []models.User
	stats userrepo.Stats
}

type loadFailed struct{ message string }

func (RefreshRequested) isListAction()     {}
func (DetailChanged) isListAction()        {}
func (EditRequested) isListAction()        {}
func (DeleteRequested) isListAction()      {}
func (DismissFormRequested) isListAction() {}
func (FormAction) isListAction()           {}
func (loaded) isListAction()               {}
func (loadFailed) isListAction()           {}

// Feature wires the list reducer to the database and the editor feature.
type Feature struct {
	store *database.Store
	form  *userform.Feature
	log   logging.Logger

	now func() time.Time
}

// New constructs the list feature.
func New(store *database.Store, form *userform.Feature, log logging.Logger) *Feature {
	return &Feature{store: store, form: form, log: log, now: time.Now}
}

// NewStore starts a dispatch store running this feature's reducer.
func (f *Feature) NewStore() *dispatch.Store[State, Action] {
	return dispatch.NewStore(State{}, f.Reduce)
}

// Watch keeps the store current: it loads once immediately and reloads
// after every committed write to the users or guest tables. Blocks until
// ctx is done.
func (f *Feature) Watch(ctx context.Context, st *dispatch.Store[State, Action]) {
	livequery.Watch(ctx, f.store.Hub, []string{"users", "guest"},
		f.fetch,
		func(a Action) { st.Send(a) },
		f.log)
}

// Reduce is the list state-transition function.
func (f *Feature) Reduce(s State, a Action) (State, []dispatch.Effect[Action]) {
	switch a := a.(type) {
	case RefreshRequested:
		return s, []dispatch.Effect[Action]{func(ctx context.Context, send func(Action)) {
			result, err := f.fetch(ctx)
			if err != nil {
				send(loadFailed{message: "could not load users"})
				return
			}
			send(result)
		}}

	case loaded:
		s.Rows = a.rows
		s.Stats = a.stats
		s.Err = ""
		return s, nil

	case loadFailed:
		s.Err = a.message
		return s, nil

	case DetailChanged:
		s.Detail = a.Detail
		return s, nil

	case EditRequested:
		for i := range s.Rows {
			if s.Rows[i].ID == a.ID {
				form := f.form.NewState(s.Rows[i])
				s.Form = &form
				break
			}
		}
		return s, nil

	case DeleteRequested:
		id := a.ID
		return s, []dispatch.Effect[Action]{func(ctx context.Context, send func(Action)) {
			err := f.store.WriteTx(ctx, []string{"users", "guest", "avatar", "chat"}, func(ctx context.Context, tx dbx.DBTX) error {
				return userrepo.NewSQLiteRepository(tx).DeleteByID(ctx, id)
			})
			if err != nil {
				f.log.Error(ctx, "failed to delete account", "id", id, "error", err)
				send(loadFailed{message: "could not delete the account"})
				return
			}
			send(RefreshRequested{})
		}}

	case DismissFormRequested:
		s.Form = nil
		return s, nil

	case FormAction:
		if s.Form == nil {
			return s, nil
		}
		inner, effects := f.form.Reduce(*s.Form, a.Inner)
		s.Form = &inner

		wrapped := make([]dispatch.Effect[Action], 0, len(effects)+1)
		for _, effect := range effects {
			effect := effect
			wrapped = append(wrapped, func(ctx context.Context, send func(Action)) {
				effect(ctx, func(inner userform.Action) { send(FormAction{Inner: inner}) })
			})
		}

		switch a.Inner.(type) {
		case userform.SaveCompleted, userform.DeleteCompleted:
			s.Form = nil
			wrapped = append(wrapped, func(ctx context.Context, send func(Action)) {
				send(RefreshRequested{})
			})
		}
		return s, wrapped
	}

	return s, nil
}

// fetch reads the full list and the stats in one pass.
func (f *Feature) fetch(ctx context.Context) (Action, error) {
	repo := userrepo.NewSQLiteRepository(f.store.DB)
	rows, err := repo.ListByName(ctx)
	if err != nil {
		return nil, err
	}
	stats, err := repo.Stats(ctx, f.now())
	if err != nil {
		return nil, err
	}
	return loaded{rows: rows, stats: stats}, nil
}
