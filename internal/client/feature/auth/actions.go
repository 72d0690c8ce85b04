package auth

import (
	"github.com/avachat/avachat/internal/client/identity"
	"github.com/avachat/avachat/internal/client/models"
)

// Action is the closed set of inputs the auth reducer handles.
type Action interface{ isAuthAction() }

// Form field edits.
type (
	EmailChanged           struct{ Value string }
	UsernameChanged        struct{ Value string }
	PasswordChanged        struct{ Value string }
	ConfirmPasswordChanged struct{ Value string }
	OTPCodeChanged         struct{ Value string }
)

// User intents.
type (
	// SignInRequested submits the email/password form.
	SignInRequested struct{}

	// SignUpRequested submits the registration form.
	SignUpRequested struct{}

	// GuestRequested starts an anonymous session.
	GuestRequested struct{}

	// OTPRequested asks the provider to email a passcode.
	OTPRequested struct{}

	// OTPVerifyRequested submits the emailed passcode.
	OTPVerifyRequested struct{}

	// ProviderRequested runs a social sign-in flow.
	ProviderRequested struct{ Provider string }

	// SignOutRequested drops the session and returns to idle. Any in-flight
	// attempt is invalidated.
	SignOutRequested struct{}
)

// Effect results. Unexported: only this package's effects produce them.
type (
	otpSent struct{ token uint64 }

	authCompleted struct {
		token  uint64
		result *identity.AuthenticationResult
	}

	authFailed struct {
		token   uint64
		message string
	}

	persistCompleted struct {
		token uint64
		user  *models.User
	}

	persistFailed struct {
		token   uint64
		message string
	}
)

func (EmailChanged) isAuthAction()           {}
func (UsernameChanged) isAuthAction()        {}
func (PasswordChanged) isAuthAction()        {}
func (ConfirmPasswordChanged) isAuthAction() {}
func (OTPCodeChanged) isAuthAction()         {}
func (SignInRequested) isAuthAction()        {}
func (SignUpRequested) isAuthAction()        {}
func (GuestRequested) isAuthAction()         {}
func (OTPRequested) isAuthAction()           {}
func (OTPVerifyRequested) isAuthAction()     {}
func (ProviderRequested) isAuthAction()      {}
func (SignOutRequested) isAuthAction()       {}
func (otpSent) isAuthAction()                {}
func (authCompleted) isAuthAction()          {}
func (authFailed) isAuthAction()             {}
func (persistCompleted) isAuthAction()       {}
func (persistFailed) isAuthAction()          {}
