// Package avatarform implements the avatar editor: a draft-based form over
// one avatar row. Edits mutate the draft only; saving writes the whole row
// in one transaction, and a failed write rolls the draft back to the record
// as it was when the form opened.
package avatarform

import (
	"context"
	"time"

	"github.com/avachat/avachat/internal/client/database"
	"github.com/avachat/avachat/internal/client/dispatch"
	"github.com/avachat/avachat/internal/client/models"
	"github.com/avachat/avachat/internal/client/repositories/avatars"
	"github.com/avachat/avachat/internal/dbx"
	"github.com/avachat/avachat/internal/logging"
	"github.com/google/uuid"
)

// State is the form's state: the editable draft and the pre-edit record the
// draft rolls back to when a write fails.
type State struct {
	Draft models.Avatar

	// IsNew marks a draft that has never been persisted.
	IsNew bool

	Saving bool
	Err    string

	// original is the record as loaded, kept for rollback.
	original models.Avatar
}

// Action is the closed set of inputs the form reducer handles.
type Action interface{ isFormAction() }

type (
	NameChanged       struct{ Value string }
	SubtitleChanged   struct{ Value *string }
	CategoryChanged   struct{ Value *models.PromptCategory }
	CharacterChanged  struct{ Value *models.CharacterType }
	MoodChanged       struct{ Value *models.Mood }
	ImageNameChanged  struct{ Value *string }
	VisibilityChanged struct{ Public bool }

	// SaveRequested persists the draft.
	SaveRequested struct{}

	// DeleteRequested removes the record. Meaningless for new drafts.
	DeleteRequested struct{}
)

// Completions. The owning list feature watches for these to dismiss the
// form and refresh.
type (
	SaveCompleted   struct{ Avatar models.Avatar }
	SaveFailed      struct{ Message string }
	DeleteCompleted struct{ ID string }
	DeleteFailed    struct{ Message string }
)

func (NameChanged) isFormAction()       {}
func (SubtitleChanged) isFormAction()   {}
func (CategoryChanged) isFormAction()   {}
func (CharacterChanged) isFormAction()  {}
func (MoodChanged) isFormAction()       {}
func (ImageNameChanged) isFormAction()  {}
func (VisibilityChanged) isFormAction() {}
func (SaveRequested) isFormAction()     {}
func (DeleteRequested) isFormAction()   {}
func (SaveCompleted) isFormAction()     {}
func (SaveFailed) isFormAction()        {}
func (DeleteCompleted) isFormAction()   {}
func (DeleteFailed) isFormAction()      {}

// Feature wires the form reducer to the database.
type Feature struct {
	store *database.Store
	log   logging.Logger

	now   func() time.Time
	newID func() string
}

// New constructs the form feature.
func New(store *database.Store, log logging.Logger) *Feature {
	return &Feature{store: store, log: log, now: time.Now, newID: uuid.NewString}
}

// NewState opens a form. With existing nil a blank private draft owned by
// ownerID is created; otherwise the record is copied into the draft.
func (f *Feature) NewState(existing *models.Avatar, ownerID string) State {
	if existing == nil {
		draft := models.Avatar{ID: f.newID(), OwnerID: ownerID}
		return State{Draft: draft, IsNew: true, original: draft}
	}
	return State{Draft: *existing, original: *existing}
}

// Reduce is the form state-transition function.
func (f *Feature) Reduce(s State, a Action) (State, []dispatch.Effect[Action]) {
	switch a := a.(type) {
	case NameChanged:
		s.Draft.Name = a.Value
		return s, nil
	case SubtitleChanged:
		s.Draft.Subtitle = a.Value
		return s, nil
	case CategoryChanged:
		s.Draft.Category = a.Value
		return s, nil
	case CharacterChanged:
		s.Draft.CharacterType = a.Value
		return s, nil
	case MoodChanged:
		s.Draft.Mood = a.Value
		return s, nil
	case ImageNameChanged:
		s.Draft.ImageName = a.Value
		return s, nil
	case VisibilityChanged:
		s.Draft.IsPublic = a.Public
		return s, nil

	case SaveRequested:
		if s.Saving {
			return s, nil
		}
		if !s.Draft.Valid() {
			s.Err = "name is required"
			return s, nil
		}
		s.Saving = true
		s.Err = ""

		draft := s.Draft
		now := f.now()
		if s.IsNew {
			draft.CreatedAt = now
		}
		draft.UpdatedAt = now
		prompt := draft.ComposePrompt()
		draft.GeneratedPrompt = &prompt

		return s, []dispatch.Effect[Action]{func(ctx context.Context, send func(Action)) {
			err := f.store.WriteTx(ctx, []string{"avatar"}, func(ctx context.Context, tx dbx.DBTX) error {
				return avatars.NewSQLiteRepository(tx).Upsert(ctx, &draft)
			})
			if err != nil {
				f.log.Error(ctx, "failed to save avatar", "id", draft.ID, "error", err)
				send(SaveFailed{Message: "could not save the avatar"})
				return
			}
			send(SaveCompleted{Avatar: draft})
		}}

	case DeleteRequested:
		if s.Saving || s.IsNew {
			return s, nil
		}
		s.Saving = true
		s.Err = ""

		id := s.Draft.ID
		return s, []dispatch.Effect[Action]{func(ctx context.Context, send func(Action)) {
			err := f.store.WriteTx(ctx, []string{"avatar"}, func(ctx context.Context, tx dbx.DBTX) error {
				return avatars.NewSQLiteRepository(tx).DeleteByID(ctx, id)
			})
			if err != nil {
				f.log.Error(ctx, "failed to delete avatar", "id", id, "error", err)
				send(DeleteFailed{Message: "could not delete the avatar"})
				return
			}
			send(DeleteCompleted{ID: id})
		}}

	case SaveCompleted:
		s.Saving = false
		s.Draft = a.Avatar
		s.original = a.Avatar
		s.IsNew = false
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
