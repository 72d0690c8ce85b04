package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/avachat/avachat/internal/client/feature/auth"
	"github.com/avachat/avachat/internal/client/feature/avatarform"
	"github.com/avachat/avachat/internal/client/feature/avatars"
	"github.com/avachat/avachat/internal/client/livequery"
	"github.com/avachat/avachat/internal/client/models"
)

// Avatars prints the avatar list under the active filter, with stats.
func (a *App) Avatars(ctx context.Context) error {
	a.avatarStore.Send(avatars.RefreshRequested{})
	time.Sleep(50 * time.Millisecond)
	waitUntil(func() bool { return a.avatarStore.State().Rows != nil || a.avatarStore.State().Err != "" })

	s := a.avatarStore.State()
	if s.Err != "" {
		printlnFn("Error:", s.Err)
		return nil
	}

	printlnFn(fmt.Sprintf("Avatars: %d total, %d public, %d private (filter: %s)",
		s.Stats.All, s.Stats.Public, s.Stats.Private, detailName(s.Detail)))
	for _, row := range s.Visible() {
		visibility := "private"
		if row.IsPublic {
			visibility = "public"
		}
		subtitle := ""
		if row.Subtitle != nil {
			subtitle = " - " + *row.Subtitle
		}
		printlnFn(fmt.Sprintf("  %s  %-12s %s%s", row.ID, row.Name, visibility, subtitle))
	}
	return nil
}

// AvatarFilter switches the in-memory detail filter.
func (a *App) AvatarFilter(ctx context.Context, detail string) error {
	var d livequery.AvatarDetail
	switch detail {
	case "all":
		d = livequery.AvatarAll
	case "public":
		d = livequery.AvatarPublic
	case "private":
		d = livequery.AvatarPrivate
	default:
		printlnFn("Usage: filter <all|public|private>")
		return nil
	}
	a.avatarStore.Send(avatars.DetailChanged{Detail: d})
	return a.Avatars(ctx)
}

// AvatarAdd opens the editor on a blank draft and walks through its fields.
func (a *App) AvatarAdd(ctx context.Context) error {
	phase := a.authStore.State().Phase
	if phase.Kind != auth.PhaseAuthenticated && phase.Kind != auth.PhaseGuest {
		printlnFn("Sign in first.")
		return nil
	}
	a.avatarStore.Send(avatars.AddRequested{OwnerID: phase.UserID})
	return a.editOpenForm(ctx)
}

// AvatarEdit opens the editor on an existing avatar.
func (a *App) AvatarEdit(ctx context.Context, id string) error {
	if id == "" {
		printlnFn("Usage: edit <id>")
		return nil
	}
	a.avatarStore.Send(avatars.EditRequested{ID: id})
	time.Sleep(50 * time.Millisecond)
	if a.avatarStore.State().Form == nil {
		printlnFn("No avatar with id", id)
		return nil
	}
	return a.editOpenForm(ctx)
}

// AvatarDelete removes an avatar by id.
func (a *App) AvatarDelete(ctx context.Context, id string) error {
	if id == "" {
		printlnFn("Usage: delete <id>")
		return nil
	}
	a.avatarStore.Send(avatars.DeleteRequested{ID: id})
	time.Sleep(50 * time.Millisecond)
	waitUntil(func() bool { return a.avatarStore.State().Err != "" || a.avatarStore.State().Rows != nil })
	if err := a.avatarStore.State().Err; err != "" {
		printlnFn("Error:", err)
		return nil
	}
	printlnFn("Deleted.")
	return a.Avatars(ctx)
}

// editOpenForm prompts for each field of the open editor, sends the edits,
// and saves. Empty answers keep the current value.
func (a *App) editOpenForm(ctx context.Context) error {
	form := a.avatarStore.State().Form
	if form == nil {
		return nil
	}

	send := func(inner avatarform.Action) {
		a.avatarStore.Send(avatars.FormAction{Inner: inner})
	}

	name, err := GetSimpleText(a.reader, "Name ["+form.Draft.Name+"]", os.Stdout)
	if err != nil {
		return err
	}
	if name != "" {
		send(avatarform.NameChanged{Value: name})
	}

	subtitle, err := GetSimpleText(a.reader, "Subtitle", os.Stdout)
	if err != nil {
		return err
	}
	if subtitle != "" {
		send(avatarform.SubtitleChanged{Value: &subtitle})
	}

	category, err := GetChoice(a.reader, "Category",
		[]string{"companion", "mentor", "storyteller", "assistant"}, os.Stdout)
	if err != nil {
		return err
	}
	if category != "" {
		c := models.PromptCategory(category)
		send(avatarform.CategoryChanged{Value: &c})
	}

	character, err := GetChoice(a.reader, "Character",
		[]string{"human", "robot", "animal", "fantasy"}, os.Stdout)
	if err != nil {
		return err
	}
	if character != "" {
		c := models.CharacterType(character)
		send(avatarform.CharacterChanged{Value: &c})
	}

	mood, err := GetChoice(a.reader, "Mood",
		[]string{"cheerful", "serious", "mysterious", "calm"}, os.Stdout)
	if err != nil {
		return err
	}
	if mood != "" {
		m := models.Mood(mood)
		send(avatarform.MoodChanged{Value: &m})
	}

	visibility, err := GetChoice(a.reader, "Visibility", []string{"public", "private"}, os.Stdout)
	if err != nil {
		return err
	}
	if visibility != "" {
		send(avatarform.VisibilityChanged{Public: visibility == "public"})
	}

	send(avatarform.SaveRequested{})
	time.Sleep(50 * time.Millisecond)
	waitUntil(func() bool {
		s := a.avatarStore.State()
		return s.Form == nil || !s.Form.Saving
	})

	if f := a.avatarStore.State().Form; f != nil && f.Err != "" {
		printlnFn("Error:", f.Err)
		a.avatarStore.Send(avatars.DismissFormRequested{})
		return nil
	}
	printlnFn("Saved.")
	return a.Avatars(ctx)
}

func detailName(d livequery.AvatarDetail) string {
	switch d {
	case livequery.AvatarPublic:
		return "public"
	case livequery.AvatarPrivate:
		return "private"
	default:
		return "all"
	}
}
