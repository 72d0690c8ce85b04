// Package userform implements the profile editor: a draft-based form over
// one user row, with rollback to the opened record when a write fails.
package userform

import (
	"context"
	"strings"
	"time"

	"github.com/avachat/avachat/internal/client/database"
	"github.com/avachat/avachat/internal/client/dispatch"
	"github.com/avachat/avachat/internal/client/models"
	"github.com/avachat/avachat/internal/client/repositories/users"
	"github.com/avachat/avachat/internal/dbx"
	"github.com/avachat/avachat/internal/logging"
)

// State is the form's state: the editable draft and the pre-edit record the
// draft rolls back to when a write fails.
type State struct {
	Draft models.User

	Saving bool
	Err    string

	original models.User
}

// Action is the closed set of inputs the form reducer handles.
type Action interface{ isFormAction() }

type (
	NameChanged        struct{ Value string }
	EmailChanged       struct{ Value *string }
	DateOfBirthChanged struct{ Value *time.Time }
	ThemeColorChanged  struct{ Value models.ThemeColor }
	TierChanged        struct{ Value models.MembershipTier }

	// SaveRequested persists the draft.
	SaveRequested struct{}

	// DeleteRequested removes the account. Owned avatars, chats and guest
	// sessions cascade with it.
	DeleteRequested struct{}
)

// Completions. The owning list feature watches for these.
type (
	SaveCompleted   struct{ User models.User }
	SaveFailed      struct{ Message string }
	DeleteCompleted struct{ ID string }
	DeleteFailed    struct{ Message string }
)

func (NameChanged) isFormAction()        {}
func (EmailChanged) isFormAction()       {}
func (DateOfBirthChanged) isFormAction() {}
func (ThemeColorChanged) isFormAction()  {}
func (TierChanged) isFormAction()        {}
func (SaveRequested) isFormAction()      {}
func (DeleteRequested) isFormAction()    {}
func (SaveCompleted) isFormAction()      {}
func (SaveFailed) isFormAction()         {}
func (DeleteCompleted) isFormAction()    {}
func (DeleteFailed) isFormAction()       {}

// Feature wires the form reducer to the database.
type Feature struct {
	store *database.Store
	log   logging.Logger

	now func() time.Time
}

// New constructs the form feature.
func New(store *database.Store, log logging.Logger) *Feature {
	return &Feature{store: store, log: log, now: time.Now}
}

// NewState opens the form on an existing user row.
func (f *Feature) NewState(existing models.User) State {
	return State{Draft: existing, original: existing}
}

// Reduce is the form state-transition function.
func (f *Feature) Reduce(s State, a Action) (State, []dispatch.Effect[Action]) {
	switch a := a.(type) {
	case NameChanged:
		s.Draft.Name = a.Value
		return s, nil
	case EmailChanged:
		s.Draft.Email = a.Value
		return s, nil
	case DateOfBirthChanged:
		s.Draft.DateOfBirth = a.Value
		return s, nil
	case ThemeColorChanged:
		s.Draft.ThemeColor = a.Value
		return s, nil
	case TierChanged:
		s.Draft.Tier = a.Value
		return s, nil

	case SaveRequested:
		if s.Saving {
			return s, nil
		}
		if strings.TrimSpace(s.Draft.Name) == "" {
			s.Err = "name is required"
			return s, nil
		}
		s.Saving = true
		s.Err = ""

		draft := s.Draft
		draft.UpdatedAt = f.now()

		return s, []dispatch.Effect[Action]{func(ctx context.Context, send func(Action)) {
			err := f.store.WriteTx(ctx, []string{"users"}, func(ctx context.Context, tx dbx.DBTX) error {
				return users.NewSQLiteRepository(tx).Upsert(ctx, &draft)
			})
			if err != nil {
				f.log.Error(ctx, "failed to save profile", "id", draft.ID, "error", err)
				send(SaveFailed{Message: "could not save the profile"})
				return
			}
			send(SaveCompleted{User: draft})
		}}

	case DeleteRequested:
		if s.Saving {
			return s, nil
		}
		s.Saving = true
		s.Err = ""

		id := s.Draft.ID
		return s, []dispatch.Effect[Action]{func(ctx context.Context, send func(Action)) {
			err := f.store.WriteTx(ctx, []string{"users", "guest", "avatar", "chat"}, func(ctx context.Context, tx dbx.DBTX) error {
				return users.NewSQLiteRepository(tx).DeleteByID(ctx, id)
			})
			if err != nil {
				f.log.Error(ctx, "failed to delete account", "id", id, "error", err)
				send(DeleteFailed{Message: "could not delete the account"})
				return
			}
			send(DeleteCompleted{ID: id})
		}}

	case SaveCompleted:
		s.Saving = false
		s.Draft = a.User
		s.original = a.User
		return s, nil

	case SaveFailed:
		s.Saving = false
		s.Draft = s.original
		s.Err = a.Message
		return s, nil

	case DeleteCompleted:
		s.Saving = false
		return s, nil

	case DeleteFailed:
		s.Saving = false
		s.Err = a.Message
		return s, nil
	}

	return s, nil
}
