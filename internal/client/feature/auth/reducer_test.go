package auth

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/avachat/avachat/internal/client/config"
	"github.com/avachat/avachat/internal/client/database"
	"github.com/avachat/avachat/internal/client/dispatch"
	"github.com/avachat/avachat/internal/client/identity"
	"github.com/avachat/avachat/internal/client/models"
	"github.com/avachat/avachat/internal/client/repositories/guests"
	"github.com/avachat/avachat/internal/client/repositories/users"
	"github.com/avachat/avachat/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFeature(t *testing.T) (*Feature, *identity.MockProvider, *database.Store) {
	t.Helper()

	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.Context = config.ContextTest
	cfg.DatabasePath = filepath.Join(t.TempDir(), "app.db")

	store, err := database.Open(context.Background(), cfg, logging.NewDefault(false))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	provider := identity.NewMockProvider()
	f := New(provider, store, logging.NewDefault(false))
	f.now = func() time.Time { return time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC) }

	var n int
	f.newID = func() string {
		n++
		return fmt.Sprintf("00000000-0000-4000-8000-%012d", n)
	}
	return f, provider, store
}

// drive applies the action and keeps running resulting effects synchronously,
// feeding their follow-up actions back in order, until the flow settles.
func drive(t *testing.T, f *Feature, s State, a Action) State {
	t.Helper()
	queue := []Action{a}
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]

		var effects []dispatch.Effect[Action]
		s, effects = f.Reduce(s, next)
		for _, effect := range effects {
			effect(context.Background(), func(a Action) { queue = append(queue, a) })
		}
	}
	return s
}

func TestSignIn_MissingEmailShortCircuits(t *testing.T) {
	f, _, _ := newTestFeature(t)

	s, effects := f.Reduce(NewState(), SignInRequested{})
	assert.Empty(t, effects, "validation failures must not start a request")
	assert.Equal(t, PhaseErrored, s.Phase.Kind)
	assert.Equal(t, "email is required", s.Phase.Message)
}

func TestSignUp_Validation(t *testing.T) {
	f, _, _ := newTestFeature(t)

	s := NewState()
	s, _ = f.Reduce(s, EmailChanged{Value: "user@example.com"})
	s, _ = f.Reduce(s, UsernameChanged{Value: "ab"})

	s, effects := f.Reduce(s, SignUpRequested{})
	assert.Empty(t, effects)
	assert.Equal(t, "username must be at least 3 characters", s.Phase.Message)

	s, _ = f.Reduce(s, UsernameChanged{Value: "abby"})
	s, _ = f.Reduce(s, PasswordChanged{Value: "one"})
	s, _ = f.Reduce(s, ConfirmPasswordChanged{Value: "two"})

	s, effects = f.Reduce(s, SignUpRequested{})
	assert.Empty(t, effects)
	assert.Equal(t, "passwords do not match", s.Phase.Message)
}

func TestOTPVerify_MissingCodeShortCircuits(t *testing.T) {
	f, _, _ := newTestFeature(t)

	s := NewState()
	s, _ = f.Reduce(s, EmailChanged{Value: "user@example.com"})
	s, effects := f.Reduce(s, OTPVerifyRequested{})
	assert.Empty(t, effects)
	assert.Equal(t, "enter the code from your email", s.Phase.Message)
}

func TestSubmitWhileLoading_IsNoOp(t *testing.T) {
	f, _, _ := newTestFeature(t)

	s := NewState()
	s.Email = "user@example.com"
	s.Phase = Loading()
	before := s

	for _, a := range []Action{
		SignInRequested{}, SignUpRequested{}, GuestRequested{},
		OTPRequested{}, OTPVerifyRequested{}, ProviderRequested{Provider: "google"},
	} {
		next, effects := f.Reduce(s, a)
		assert.Empty(t, effects, "%T while loading must start nothing", a)
		assert.Equal(t, before, next, "%T while loading must not change state", a)
	}
}

func TestSignUp_FullFlow(t *testing.T) {
	f, _, store := newTestFeature(t)

	s := NewState()
	s, _ = f.Reduce(s, EmailChanged{Value: "user@example.com"})
	s, _ = f.Reduce(s, UsernameChanged{Value: "sample"})
	s, _ = f.Reduce(s, PasswordChanged{Value: "s3cret"})
	s, _ = f.Reduce(s, ConfirmPasswordChanged{Value: "s3cret"})

	s = drive(t, f, s, SignUpRequested{})

	require.Equal(t, PhaseAuthenticated, s.Phase.Kind)
	assert.NotEmpty(t, s.Phase.AuthID)
	assert.Equal(t, "password", s.Phase.Provider)
	require.NotNil(t, s.Phase.Email)
	assert.Equal(t, "user@example.com", *s.Phase.Email)

	assert.Empty(t, s.Email, "transient fields reset on success")
	assert.Empty(t, s.Username)
	assert.Empty(t, s.Password)
	assert.Empty(t, s.ConfirmPassword)
	assert.Empty(t, s.OTPCode)

	u, err := users.NewSQLiteRepository(store.DB).GetByID(context.Background(), s.Phase.UserID)
	require.NoError(t, err)
	assert.False(t, u.IsAnonymous)
	require.NotNil(t, u.ProviderID)
	assert.Equal(t, "password", *u.ProviderID)
	assert.True(t, u.IsEmailVerified)
	assert.True(t, u.IsAuthenticated)
	assert.Equal(t, "sample", u.Name)
	assert.Equal(t, models.StatusAuthorized, u.Status)
}

func TestSignIn_RefreshesExistingRow(t *testing.T) {
	f, _, store := newTestFeature(t)

	s := NewState()
	s, _ = f.Reduce(s, EmailChanged{Value: "user@example.com"})
	s, _ = f.Reduce(s, UsernameChanged{Value: "sample"})
	s, _ = f.Reduce(s, PasswordChanged{Value: "s3cret"})
	s, _ = f.Reduce(s, ConfirmPasswordChanged{Value: "s3cret"})
	s = drive(t, f, s, SignUpRequested{})
	firstUserID := s.Phase.UserID

	s = drive(t, f, s, SignOutRequested{})
	assert.Equal(t, PhaseIdle, s.Phase.Kind)

	later := time.Date(2025, 3, 2, 10, 0, 0, 0, time.UTC)
	f.now = func() time.Time { return later }

	s, _ = f.Reduce(s, EmailChanged{Value: "user@example.com"})
	s, _ = f.Reduce(s, PasswordChanged{Value: "s3cret"})
	s = drive(t, f, s, SignInRequested{})

	require.Equal(t, PhaseAuthenticated, s.Phase.Kind)
	assert.Equal(t, firstUserID, s.Phase.UserID, "sign-in reuses the row found by auth id")

	all, err := users.NewSQLiteRepository(store.DB).ListByName(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, later, all[0].LastSignedInAt)
}

func TestSignIn_WrongPassword(t *testing.T) {
	f, provider, _ := newTestFeature(t)
	_, err := provider.SignUp(context.Background(), "user@example.com", "s3cret")
	require.NoError(t, err)

	s := NewState()
	s, _ = f.Reduce(s, EmailChanged{Value: "user@example.com"})
	s, _ = f.Reduce(s, PasswordChanged{Value: "wrong"})
	s = drive(t, f, s, SignInRequested{})

	assert.Equal(t, PhaseErrored, s.Phase.Kind)
	assert.Equal(t, "wrong email, password or code", s.Phase.Message)
}

func TestGuestFlow(t *testing.T) {
	f, _, store := newTestFeature(t)

	s := drive(t, f, NewState(), GuestRequested{})
	require.Equal(t, PhaseGuest, s.Phase.Kind)
	require.NotEmpty(t, s.Phase.UserID)
	assert.Empty(t, s.Phase.AuthID, "guests carry no auth id")

	ctx := context.Background()
	u, err := users.NewSQLiteRepository(store.DB).GetByID(ctx, s.Phase.UserID)
	require.NoError(t, err)
	assert.True(t, u.IsAnonymous)
	assert.Nil(t, u.AuthID)
	assert.Equal(t, models.StatusGuest, u.Status)

	session, err := guests.NewSQLiteRepository(store.DB).GetByUserID(ctx, u.ID)
	require.NoError(t, err)
	assert.False(t, session.IsExpired(f.now()))

	// Second guest sign-in reuses the user and the still-valid session.
	s2 := drive(t, f, NewState(), GuestRequested{})
	assert.Equal(t, u.ID, s2.Phase.UserID)
	again, err := guests.NewSQLiteRepository(store.DB).GetByUserID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, session.SessionID, again.SessionID)

	// After expiry the session is replaced.
	f.now = func() time.Time { return session.ExpiresAt.Add(time.Hour) }
	s3 := drive(t, f, NewState(), GuestRequested{})
	assert.Equal(t, u.ID, s3.Phase.UserID)
	replaced, err := guests.NewSQLiteRepository(store.DB).GetByUserID(ctx, u.ID)
	require.NoError(t, err)
	assert.NotEqual(t, session.SessionID, replaced.SessionID)
	assert.False(t, replaced.IsExpired(f.now()))
}

func TestOTPFlow(t *testing.T) {
	f, _, _ := newTestFeature(t)

	s := NewState()
	s, _ = f.Reduce(s, EmailChanged{Value: "user@example.com"})
	s = drive(t, f, s, OTPRequested{})
	require.Equal(t, PhaseAwaitingOTP, s.Phase.Kind)

	s, _ = f.Reduce(s, OTPCodeChanged{Value: "123456"})
	s = drive(t, f, s, OTPVerifyRequested{})

	require.Equal(t, PhaseAuthenticated, s.Phase.Kind)
	assert.Equal(t, "email", s.Phase.Provider)
}

func TestStaleCompletionIsDropped(t *testing.T) {
	f, provider, _ := newTestFeature(t)

	s := NewState()
	s, _ = f.Reduce(s, EmailChanged{Value: "user@example.com"})
	s, _ = f.Reduce(s, PasswordChanged{Value: "s3cret"})

	// Admit a request but do not run its effect: it is now in flight.
	s, effects := f.Reduce(s, SignInRequested{})
	require.Len(t, effects, 1)
	staleToken := s.seq

	// Abandon the attempt.
	s, _ = f.Reduce(s, SignOutRequested{})
	require.Equal(t, PhaseIdle, s.Phase.Kind)

	result, err := provider.SignUp(context.Background(), "user@example.com", "s3cret")
	require.NoError(t, err)

	next, effects := f.Reduce(s, authCompleted{token: staleToken, result: result})
	assert.Empty(t, effects, "stale completion must not persist anything")
	assert.Equal(t, s, next, "stale completion must not change state")

	next, _ = f.Reduce(s, authFailed{token: staleToken, message: "boom"})
	assert.Equal(t, s, next)
}

func TestStore_EndToEnd(t *testing.T) {
	f, _, _ := newTestFeature(t)

	st := f.NewStore()
	defer st.Close()

	st.Send(EmailChanged{Value: "user@example.com"})
	st.Send(UsernameChanged{Value: "sample"})
	st.Send(PasswordChanged{Value: "s3cret"})
	st.Send(ConfirmPasswordChanged{Value: "s3cret"})
	st.Send(SignUpRequested{})

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if st.State().Phase.Kind == PhaseAuthenticated {
			break
		}
		time.Sleep(time.Millisecond)
	}
	require.Equal(t, PhaseAuthenticated, st.State().Phase.Kind)
}
