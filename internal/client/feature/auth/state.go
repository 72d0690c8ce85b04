// Package auth implements the authentication flow: email/password sign-in
// and sign-up, passwordless OTP, social providers and guest sessions. The
// reducer is the only writer of its state; effects talk to the identity
// provider and the database and report back as actions.
package auth

// PhaseKind discriminates the variants of Phase.
type PhaseKind int

const (
	PhaseIdle PhaseKind = iota
	PhaseLoading
	PhaseAwaitingOTP
	PhaseErrored
	PhaseAuthenticated
	PhaseGuest
)

// Phase is the tagged current stage of the auth flow. Only the fields of
// the active variant are meaningful.
type Phase struct {
	Kind PhaseKind

	// Message is set for PhaseErrored.
	Message string

	// UserID is set for PhaseAuthenticated and PhaseGuest: the local users
	// row the session resolved to.
	UserID string

	// AuthID, Provider and Email are set for PhaseAuthenticated.
	AuthID   string
	Provider string
	Email    *string
}

func Idle() Phase              { return Phase{Kind: PhaseIdle} }
func Loading() Phase           { return Phase{Kind: PhaseLoading} }
func AwaitingOTP() Phase       { return Phase{Kind: PhaseAwaitingOTP} }
func Errored(msg string) Phase { return Phase{Kind: PhaseErrored, Message: msg} }

func Authenticated(userID, authID, provider string, email *string) Phase {
	return Phase{Kind: PhaseAuthenticated, UserID: userID, AuthID: authID, Provider: provider, Email: email}
}

func Guest(userID string) Phase { return Phase{Kind: PhaseGuest, UserID: userID} }

// State is the auth feature's whole state: the current phase plus the
// transient form fields. Fields are cleared on every successful sign-in.
type State struct {
	Phase Phase

	Email           string
	Username        string
	Password        string
	ConfirmPassword string
	OTPCode         string

	// seq is the current request token. Completions carrying an older token
	// belong to an abandoned attempt and are dropped.
	seq uint64
}

// NewState returns the idle initial state.
func NewState() State {
	return State{Phase: Idle()}
}

// clearForm wipes the transient input fields.
func (s State) clearForm() State {
	s.Email = ""
	s.Username = ""
	s.Password = ""
	s.ConfirmPassword = ""
	s.OTPCode = ""
	return s
}
