// Package avatars implements the avatar list screen: a live name-ordered
// list with visibility stats, an in-memory detail filter, and the embedded
// editor form.
package avatars

import (
	"context"

	"github.com/avachat/avachat/internal/client/database"
	"github.com/avachat/avachat/internal/client/dispatch"
	"github.com/avachat/avachat/internal/client/feature/avatarform"
	"github.com/avachat/avachat/internal/client/livequery"
	"github.com/avachat/avachat/internal/client/models"
	avatarrepo "github.com/avachat/avachat/internal/client/repositories/avatars"
	"github.com/avachat/avachat/internal/dbx"
	"github.com/avachat/avachat/internal/logging"
)

// State is the list's state. Rows always holds the full name-ordered list;
// the detail filter narrows what Visible returns without re-querying.
type State struct {
	Rows   []models.Avatar
	Stats  avatarrepo.Stats
	Detail livequery.AvatarDetail

	// Form is non-nil while the editor is open.
	Form *avatarform.State

	Err string
}

// Visible returns the rows the active detail selects.
func (s State) Visible() []models.Avatar {
	return s.Detail.Apply(s.Rows)
}

// Action is the closed set of inputs the list reducer handles.
type Action interface{ isListAction() }

type (
	// RefreshRequested re-reads the list and stats.
	RefreshRequested struct{}

	// DetailChanged switches the in-memory filter.
	DetailChanged struct{ Detail livequery.AvatarDetail }

	// AddRequested opens the editor on a blank draft for the owner.
	AddRequested struct{ OwnerID string }

	// EditRequested opens the editor on an already-listed avatar.
	EditRequested struct{ ID string }

	// DeleteRequested removes a listed avatar without opening the editor.
	DeleteRequested struct{ ID string }

	// DismissFormRequested closes the editor without saving.
	DismissFormRequested struct{}

	// FormAction routes an action to the embedded editor.
	FormAction struct{ Inner avatarform.Action }
)

type loaded struct {
	rows  []models.Avatar
	stats avatarrepo.Stats
}

type loadFailed struct{ message string }

func (RefreshRequested) isListAction()     {}
func (DetailChanged) isListAction()        {}
func (AddRequested) isListAction()         {}
func (EditRequested) isListAction()        {}
func (DeleteRequested) isListAction()      {}
func (DismissFormRequested) isListAction() {}
func (FormAction) isListAction()           {}
func (loaded) isListAction()               {}
func (loadFailed) isListAction()           {}

// Feature wires the list reducer to the database and the editor feature.
type Feature struct {
	store *database.Store
	form  *avatarform.Feature
	log   logging.Logger
}

// New constructs the list feature.
func New(store *database.Store, form *avatarform.Feature, log logging.Logger) *Feature {
	return &Feature{store: store, form: form, log: log}
}

// NewStore starts a dispatch store running this feature's reducer.
func (f *Feature) NewStore() *dispatch.Store[State, Action] {
	return dispatch.NewStore(State{}, f.Reduce)
}

// Watch keeps the store current: it loads once immediately and reloads
// after every committed avatar write. Blocks until ctx is done.
func (f *Feature) Watch(ctx context.Context, st *dispatch.Store[State, Action]) {
	livequery.Watch(ctx, f.store.Hub, []string{"avatar"},
		f.fetch,
		func(a Action) { st.Send(a) },
		f.log)
}

// Reduce is the list state-transition function. Editor actions route
// through here so the list can dismiss the form and refresh when a save or
// delete completes.
func (f *Feature) Reduce(s State, a Action) (State, []dispatch.Effect[Action]) {
	switch a := a.(type) {
	case RefreshRequested:
		return s, []dispatch.Effect[Action]{func(ctx context.Context, send func(Action)) {
			result, err := f.fetch(ctx)
			if err != nil {
				send(loadFailed{message: "could not load avatars"})
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

	case AddRequested:
		form := f.form.NewState(nil, a.OwnerID)
		s.Form = &form
		return s, nil

	case EditRequested:
		for i := range s.Rows {
			if s.Rows[i].ID == a.ID {
				form := f.form.NewState(&s.Rows[i], s.Rows[i].OwnerID)
				s.Form = &form
				break
			}
		}
		return s, nil

	case DeleteRequested:
		id := a.ID
		return s, []dispatch.Effect[Action]{func(ctx context.Context, send func(Action)) {
			err := f.store.WriteTx(ctx, []string{"avatar"}, func(ctx context.Context, tx dbx.DBTX) error {
				return avatarrepo.NewSQLiteRepository(tx).DeleteByID(ctx, id)
			})
			if err != nil {
				f.log.Error(ctx, "failed to delete avatar", "id", id, "error", err)
				send(loadFailed{message: "could not delete the avatar"})
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
				effect(ctx, func(inner avatarform.Action) { send(FormAction{Inner: inner}) })
			})
		}

		// Completed saves and deletes dismiss the editor and refresh the
		// list. The live query fires too; the extra refresh coalesces.
		switch a.Inner.(type) {
		case avatarform.SaveCompleted, avatarform.DeleteCompleted:
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
	repo := avatarrepo.NewSQLiteRepository(f.store.DB)
	rows, err := repo.ListByName(ctx)
	if err != nil {
		return nil, err
	}
	stats, err := repo.Stats(ctx)
	if err != nil {
		return nil, err
	}
	return loaded{rows: rows, stats: stats}, nil
}
