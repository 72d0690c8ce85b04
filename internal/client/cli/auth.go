package cli

import (
	"context"
	"os"
	"time"

	"github.com/avachat/avachat/internal/client/feature/auth"
	"github.com/avachat/avachat/internal/common"
)

// submitAndWait sends the intent, gives the action queue a beat to admit
// it, then waits for the flow to leave loading and prints the outcome.
func (a *App) submitAndWait(action auth.Action) {
	a.authStore.Send(action)
	time.Sleep(50 * time.Millisecond)
	if !waitUntil(func() bool { return a.authStore.State().Phase.Kind != auth.PhaseLoading }) {
		printlnFn("The request is taking a while; check the prompt status.")
		return
	}
	a.printPhase()
}

func (a *App) printPhase() {
	phase := a.authStore.State().Phase
	switch phase.Kind {
	case auth.PhaseAuthenticated:
		if phase.Email != nil {
			printlnFn("Signed in as", *phase.Email, "via", phase.Provider)
		} else {
			printlnFn("Signed in via", phase.Provider)
		}
	case auth.PhaseGuest:
		printlnFn("Continuing as guest.")
	case auth.PhaseAwaitingOTP:
		printlnFn("Code sent. Run 'otp' again to enter it.")
	case auth.PhaseErrored:
		printlnFn("Error:", phase.Message)
	case auth.PhaseIdle:
		printlnFn("Signed out.")
	}
}

// Login runs the email/password sign-in flow.
func (a *App) Login(ctx context.Context) error {
	email, err := GetSimpleText(a.reader, "Email", os.Stdout)
	if err != nil {
		return err
	}
	pw, err := GetPassword(os.Stdout, "Password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(pw)

	a.authStore.Send(auth.EmailChanged{Value: email})
	a.authStore.Send(auth.PasswordChanged{Value: string(pw)})
	a.submitAndWait(auth.SignInRequested{})
	return nil
}

// Signup registers a new email/password account.
func (a *App) Signup(ctx context.Context) error {
	email, err := GetSimpleText(a.reader, "Email", os.Stdout)
	if err != nil {
		return err
	}
	username, err := GetSimpleText(a.reader, "Username", os.Stdout)
	if err != nil {
		return err
	}
	pw, err := GetPassword(os.Stdout, "Password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(pw)
	confirm, err := GetPassword(os.Stdout, "Confirm password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(confirm)

	a.authStore.Send(auth.EmailChanged{Value: email})
	a.authStore.Send(auth.UsernameChanged{Value: username})
	a.authStore.Send(auth.PasswordChanged{Value: string(pw)})
	a.authStore.Send(auth.ConfirmPasswordChanged{Value: string(confirm)})
	a.submitAndWait(auth.SignUpRequested{})
	return nil
}

// Guest starts an anonymous session.
func (a *App) Guest(ctx context.Context) error {
	a.submitAndWait(auth.GuestRequested{})
	return nil
}

// OTP drives the passwordless flow: before a code has been sent it asks the
// provider to email one; afterwards it prompts for the code and verifies.
func (a *App) OTP(ctx context.Context) error {
	if a.authStore.State().Phase.Kind != auth.PhaseAwaitingOTP {
		email, err := GetSimpleText(a.reader, "Email", os.Stdout)
		if err != nil {
			return err
		}
		a.authStore.Send(auth.EmailChanged{Value: email})
		a.submitAndWait(auth.OTPRequested{})
		return nil
	}

	code, err := GetSimpleText(a.reader, "Code from your email", os.Stdout)
	if err != nil {
		return err
	}
	a.authStore.Send(auth.OTPCodeChanged{Value: code})
	a.submitAndWait(auth.OTPVerifyRequested{})
	return nil
}

// Social runs a social-provider sign-in.
func (a *App) Social(ctx context.Context, provider string) error {
	if provider == "" {
		printlnFn("Usage: social <google|facebook|apple>")
		return nil
	}
	a.submitAndWait(auth.ProviderRequested{Provider: provider})
	return nil
}

// Logout drops the session.
func (a *App) Logout(ctx context.Context) error {
	a.authStore.Send(auth.SignOutRequested{})
	time.Sleep(50 * time.Millisecond)
	a.printPhase()
	return nil
}
