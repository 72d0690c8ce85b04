package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/avachat/avachat/internal/client/feature/auth"
	"github.com/avachat/avachat/internal/client/feature/tabbar"
	"github.com/avachat/avachat/internal/client/feature/userform"
	"github.com/avachat/avachat/internal/client/feature/usersview"
	"github.com/avachat/avachat/internal/client/models"
)

// Users prints the user list with aggregate stats.
func (a *App) Users(ctx context.Context) error {
	a.userStore.Send(usersview.RefreshRequested{})
	time.Sleep(50 * time.Millisecond)
	waitUntil(func() bool { return a.userStore.State().Rows != nil || a.userStore.State().Err != "" })

	s := a.userStore.State()
	if s.Err != "" {
		printlnFn("Error:", s.Err)
		return nil
	}

	printlnFn(fmt.Sprintf("Users: %d total, %d authenticated, %d guests, %d today, %d free, %d premium, %d enterprise",
		s.Stats.All, s.Stats.Authenticated, s.Stats.Guests, s.Stats.Today,
		s.Stats.Free, s.Stats.Premium, s.Stats.Enterprise))
	for _, row := range s.Rows {
		email := "-"
		if row.Email != nil {
			email = *row.Email
		}
		printlnFn(fmt.Sprintf("  %s  %-12s %-10s %-8s %s",
			row.ID, row.Name, string(row.Status), string(row.Tier), email))
	}
	return nil
}

// Profile edits the signed-in user's profile through the form feature.
func (a *App) Profile(ctx context.Context) error {
	phase := a.authStore.State().Phase
	if phase.Kind != auth.PhaseAuthenticated && phase.Kind != auth.PhaseGuest {
		printlnFn("Sign in first.")
		return nil
	}

	a.userStore.Send(usersview.RefreshRequested{})
	time.Sleep(50 * time.Millisecond)
	a.userStore.Send(usersview.EditRequested{ID: phase.UserID})
	time.Sleep(50 * time.Millisecond)

	form := a.userStore.State().Form
	if form == nil {
		printlnFn("Profile not found.")
		return nil
	}

	send := func(inner userform.Action) {
		a.userStore.Send(usersview.FormAction{Inner: inner})
	}

	name, err := GetSimpleText(a.reader, "Name ["+form.Draft.Name+"]", os.Stdout)
	if err != nil {
		return err
	}
	if name != "" {
		send(userform.NameChanged{Value: name})
	}

	dob, err := GetSimpleText(a.reader, "Date of birth (YYYY-MM-DD, empty to skip)", os.Stdout)
	if err != nil {
		return err
	}
	if dob != "" {
		parsed, err := time.Parse("2006-01-02", dob)
		if err != nil {
			printlnFn("Ignoring invalid date:", dob)
		} else {
			send(userform.DateOfBirthChanged{Value: &parsed})
		}
	}

	tier, err := GetChoice(a.reader, "Tier", []string{"free", "premium", "enterprise"}, os.Stdout)
	if err != nil {
		return err
	}
	if tier != "" {
		send(userform.TierChanged{Value: models.MembershipTier(tier)})
	}

	send(userform.SaveRequested{})
	time.Sleep(50 * time.Millisecond)
	waitUntil(func() bool {
		s := a.userStore.State()
		return s.Form == nil || !s.Form.Saving
	})

	if f := a.userStore.State().Form; f != nil && f.Err != "" {
		printlnFn("Error:", f.Err)
		a.userStore.Send(usersview.DismissFormRequested{})
		return nil
	}
	printlnFn("Saved.")
	return nil
}

// DeleteAccount removes the signed-in user and everything it owns, then
// signs out.
func (a *App) DeleteAccount(ctx context.Context) error {
	phase := a.authStore.State().Phase
	if phase.Kind != auth.PhaseAuthenticated && phase.Kind != auth.PhaseGuest {
		printlnFn("Sign in first.")
		return nil
	}

	confirm, err := GetSimpleText(a.reader, "Type 'delete' to remove this account and everything it owns", os.Stdout)
	if err != nil {
		return err
	}
	if confirm != "delete" {
		printlnFn("Cancelled.")
		return nil
	}

	a.userStore.Send(usersview.DeleteRequested{ID: phase.UserID})
	time.Sleep(50 * time.Millisecond)
	waitUntil(func() bool { return a.userStore.State().Err != "" || a.userStore.State().Rows != nil })
	if e := a.userStore.State().Err; e != "" {
		printlnFn("Error:", e)
		return nil
	}

	a.authStore.Send(auth.SignOutRequested{})
	printlnFn("Account deleted.")
	return nil
}

// Tab switches the active screen.
func (a *App) Tab(ctx context.Context, name string) error {
	var tab tabbar.Tab
	switch name {
	case "avatars":
		tab = tabbar.TabAvatars
	case "chats":
		tab = tabbar.TabChats
	case "users":
		tab = tabbar.TabUsers
	case "profile":
		tab = tabbar.TabProfile
	default:
		printlnFn("Usage: tab <avatars|chats|users|profile>")
		return nil
	}
	a.tabStore.Send(tabbar.SelectTab{Tab: tab})
	time.Sleep(50 * time.Millisecond)
	printlnFn("Switched to", tab.String())
	return nil
}
