// Package identity talks to the external identity provider: passwordless
// email OTP, email/password accounts, social OAuth and anonymous guest
// sessions. The provider returns a signed identity token; this package only
// consumes the token's claims, it never validates signatures.
package identity

import "context"

// AuthenticationResult is the outcome of any sign-in flow.
//
// An empty AuthID means the session is a guest session. Callers rely on
// this convention: there is no separate guest result type.
type AuthenticationResult struct {
	// AuthID is the provider's identifier for the account, e.g.
	// "google-oauth2|104857629384756102938". Empty for guests.
	AuthID string

	// Provider names the identity provider the account came through
	// ("google", "facebook", "apple", "password", "email", "auth0").
	Provider string

	// Email is the account email, when one could be extracted.
	Email *string

	EmailVerified bool
	IsAnonymous   bool

	// IDToken is the raw signed token the result was derived from. Empty
	// for guests.
	IDToken string
}

// IsGuest reports whether the result represents a guest session.
func (r *AuthenticationResult) IsGuest() bool { return r.AuthID == "" }

// Client is the identity-provider surface the auth flow depends on.
type Client interface {
	// SignIn authenticates an existing email/password account.
	SignIn(ctx context.Context, email, password string) (*AuthenticationResult, error)

	// SignUp registers a new email/password account and signs it in.
	SignUp(ctx context.Context, email, password string) (*AuthenticationResult, error)

	// SignInAnonymously starts a guest session. The result has an empty
	// AuthID.
	SignInAnonymously(ctx context.Context) (*AuthenticationResult, error)

	// SendOTP emails a one-time passcode to the address.
	SendOTP(ctx context.Context, email string) error

	// VerifyOTP exchanges an emailed passcode for a signed-in session.
	VerifyOTP(ctx context.Context, email, code string) (*AuthenticationResult, error)

	// SignInWithProvider runs a social OAuth flow with the named provider.
	SignInWithProvider(ctx context.Context, provider string) (*AuthenticationResult, error)
}
