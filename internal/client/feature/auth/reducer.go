package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/avachat/avachat/internal/client/database"
	"github.com/avachat/avachat/internal/client/dispatch"
	"github.com/avachat/avachat/internal/client/identity"
	"github.com/avachat/avachat/internal/client/models"
	"github.com/avachat/avachat/internal/client/repositories/guests"
	"github.com/avachat/avachat/internal/client/repositories/users"
	"github.com/avachat/avachat/internal/common"
	"github.com/avachat/avachat/internal/dbx"
	"github.com/avachat/avachat/internal/logging"
	"github.com/google/uuid"
)

// guestSessionTTL is how long a guest session stays valid once started.
const guestSessionTTL = 24 * time.Hour

var defaultThemeColor = models.NewThemeColor(0x6C, 0x5C, 0xE7, 0xFF)
var guestThemeColor = models.NewThemeColor(0x63, 0x66, 0x6A, 0xFF)

// Feature wires the auth reducer to its collaborators.
type Feature struct {
	provider identity.Client
	store    *database.Store
	log      logging.Logger

	// now and newID are seams for deterministic tests.
	now   func() time.Time
	newID func() string
}

// New constructs the auth feature.
func New(provider identity.Client, store *database.Store, log logging.Logger) *Feature {
	return &Feature{
		provider: provider,
		store:    store,
		log:      log,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// NewStore starts a dispatch store running this feature's reducer.
func (f *Feature) NewStore() *dispatch.Store[State, Action] {
	return dispatch.NewStore(NewState(), f.Reduce)
}

// Reduce is the auth state-transition function.
//
// Submissions while a request is in flight are ignored outright. Every
// admitted request bumps the state's token; completions carrying an older
// token belong to an abandoned attempt and are dropped without effect.
func (f *Feature) Reduce(s State, a Action) (State, []dispatch.Effect[Action]) {
	switch a := a.(type) {
	case EmailChanged:
		s.Email = a.Value
		return s, nil
	case UsernameChanged:
		s.Username = a.Value
		return s, nil
	case PasswordChanged:
		s.Password = a.Value
		return s, nil
	case ConfirmPasswordChanged:
		s.ConfirmPassword = a.Value
		return s, nil
	case OTPCodeChanged:
		s.OTPCode = a.Value
		return s, nil

	case SignInRequested:
		if s.Phase.Kind == PhaseLoading {
			return s, nil
		}
		if strings.TrimSpace(s.Email) == "" {
			s.Phase = Errored(messageFor(common.ErrEmailRequired))
			return s, nil
		}
		return f.admit(s, func(token uint64, email, password string) dispatch.Effect[Action] {
			return func(ctx context.Context, send func(Action)) {
				result, err := f.provider.SignIn(ctx, email, password)
				if err != nil {
					send(authFailed{token: token, message: messageFor(err)})
					return
				}
				send(authCompleted{token: token, result: result})
			}
		})

	case SignUpRequested:
		if s.Phase.Kind == PhaseLoading {
			return s, nil
		}
		if strings.TrimSpace(s.Email) == "" {
			s.Phase = Errored(messageFor(common.ErrEmailRequired))
			return s, nil
		}
		if len(strings.TrimSpace(s.Username)) < 3 {
			s.Phase = Errored(messageFor(common.ErrUsernameTooShort))
			return s, nil
		}
		if s.Password != s.ConfirmPassword {
			s.Phase = Errored(messageFor(common.ErrPasswordMismatch))
			return s, nil
		}
		return f.admit(s, func(token uint64, email, password string) dispatch.Effect[Action] {
			return func(ctx context.Context, send func(Action)) {
				result, err := f.provider.SignUp(ctx, email, password)
				if err != nil {
					send(authFailed{token: token, message: messageFor(err)})
					return
				}
				send(authCompleted{token: token, result: result})
			}
		})

	case GuestRequested:
		if s.Phase.Kind == PhaseLoading {
			return s, nil
		}
		return f.admit(s, func(token uint64, _, _ string) dispatch.Effect[Action] {
			return func(ctx context.Context, send func(Action)) {
				result, err := f.provider.SignInAnonymously(ctx)
				if err != nil {
					send(authFailed{token: token, message: messageFor(err)})
					return
				}
				send(authCompleted{token: token, result: result})
			}
		})

	case OTPRequested:
		if s.Phase.Kind == PhaseLoading {
			return s, nil
		}
		if strings.TrimSpace(s.Email) == "" {
			s.Phase = Errored(messageFor(common.ErrEmailRequired))
			return s, nil
		}
		return f.admit(s, func(token uint64, email, _ string) dispatch.Effect[Action] {
			return func(ctx context.Context, send func(Action)) {
				if err := f.provider.SendOTP(ctx, email); err != nil {
					send(authFailed{token: token, message: messageFor(err)})
					return
				}
				send(otpSent{token: token})
			}
		})

	case OTPVerifyRequested:
		if s.Phase.Kind == PhaseLoading {
			return s, nil
		}
		if strings.TrimSpace(s.OTPCode) == "" {
			s.Phase = Errored(messageFor(common.ErrOTPCodeRequired))
			return s, nil
		}
		code := s.OTPCode
		return f.admit(s, func(token uint64, email, _ string) dispatch.Effect[Action] {
			return func(ctx context.Context, send func(Action)) {
				result, err := f.provider.VerifyOTP(ctx, email, code)
				if err != nil {
					send(authFailed{token: token, message: messageFor(err)})
					return
				}
				send(authCompleted{token: token, result: result})
			}
		})

	case ProviderRequested:
		if s.Phase.Kind == PhaseLoading {
			return s, nil
		}
		provider := a.Provider
		return f.admit(s, func(token uint64, _, _ string) dispatch.Effect[Action] {
			return func(ctx context.Context, send func(Action)) {
				result, err := f.provider.SignInWithProvider(ctx, provider)
				if err != nil {
					send(authFailed{token: token, message: messageFor(err)})
					return
				}
				send(authCompleted{token: token, result: result})
			}
		})

	case SignOutRequested:
		s = s.clearForm()
		s.seq++
		s.Phase = Idle()
		return s, nil

	case otpSent:
		if a.token != s.seq || s.Phase.Kind != PhaseLoading {
			return s, nil
		}
		s.Phase = AwaitingOTP()
		return s, nil

	case authCompleted:
		if a.token != s.seq || s.Phase.Kind != PhaseLoading {
			return s, nil
		}
		return s, []dispatch.Effect[Action]{f.persistEffect(a.token, a.result, s.Username)}

	case authFailed:
		if a.token != s.seq || s.Phase.Kind != PhaseLoading {
			return s, nil
		}
		s.Phase = Errored(a.message)
		return s, nil

	case persistCompleted:
		if a.token != s.seq || s.Phase.Kind != PhaseLoading {
			return s, nil
		}
		s = s.clearForm()
		u := a.user
		if u.Status == models.StatusGuest {
			s.Phase = Guest(u.ID)
		} else {
			var authID string
			if u.AuthID != nil {
				authID = *u.AuthID
			}
			var provider string
			if u.ProviderID != nil {
				provider = *u.ProviderID
			}
			s.Phase = Authenticated(u.ID, authID, provider, u.Email)
		}
		return s, nil

	case persistFailed:
		if a.token != s.seq || s.Phase.Kind != PhaseLoading {
			return s, nil
		}
		s.Phase = Errored(a.message)
		return s, nil
	}

	return s, nil
}

// admit moves the state into loading under a fresh request token and starts
// the effect built for it.
func (f *Feature) admit(s State, build func(token uint64, email, password string) dispatch.Effect[Action]) (State, []dispatch.Effect[Action]) {
	s.seq++
	s.Phase = Loading()
	return s, []dispatch.Effect[Action]{build(s.seq, strings.TrimSpace(s.Email), s.Password)}
}

// persistEffect writes the authentication outcome to the database in one
// transaction: the user row is upserted, and guests additionally get a
// session row. The transaction rolls back as a unit on failure and the
// flow surfaces the error instead of landing in a half-written state.
func (f *Feature) persistEffect(token uint64, result *identity.AuthenticationResult, username string) dispatch.Effect[Action] {
	return func(ctx context.Context, send func(Action)) {
		user, err := database.Write(ctx, f.store, []string{"users", "guest"},
			func(ctx context.Context, tx dbx.DBTX) (*models.User, error) {
				if result.IsGuest() {
					return f.persistGuest(ctx, tx)
				}
				return f.persistAccount(ctx, tx, result, username)
			})
		if err != nil {
			f.log.Error(ctx, "failed to persist auth result", "error", err)
			send(persistFailed{token: token, message: messageFor(err)})
			return
		}
		send(persistCompleted{token: token, user: user})
	}
}

// persistAccount upserts the users row for a non-guest result: an existing
// row found by auth id is refreshed, otherwise a new one is created.
func (f *Feature) persistAccount(ctx context.Context, tx dbx.DBTX, result *identity.AuthenticationResult, username string) (*models.User, error) {
	repo := users.NewSQLiteRepository(tx)
	now := f.now()

	u, err := repo.GetByAuthID(ctx, result.AuthID)
	switch {
	case errors.Is(err, common.ErrNotFound):
		u = &models.User{
			ID:         f.newID(),
			Name:       displayName(username, result.Email),
			CreatedAt:  now,
			Tier:       models.TierFree,
			ThemeColor: defaultThemeColor,
		}
	case err != nil:
		return nil, err
	}

	authID := result.AuthID
	u.AuthID = &authID
	u.Email = result.Email
	u.IsAuthenticated = true
	u.IsAnonymous = false
	u.IsEmailVerified = result.EmailVerified
	provider := result.Provider
	u.ProviderID = &provider
	u.Status = models.StatusAuthorized
	u.LastSignedInAt = now
	u.UpdatedAt = now

	if err := repo.Upsert(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// persistGuest reuses the existing guest user when there is one and keeps
// exactly one session for it: a still-valid session is kept as is, an
// expired one is replaced with a fresh expiry.
func (f *Feature) persistGuest(ctx context.Context, tx dbx.DBTX) (*models.User, error) {
	userRepo := users.NewSQLiteRepository(tx)
	guestRepo := guests.NewSQLiteRepository(tx)
	now := f.now()

	u, err := f.findGuestUser(ctx, userRepo)
	if err != nil {
		return nil, err
	}
	if u == nil {
		u = &models.User{
			ID:          f.newID(),
			Name:        "Guest",
			CreatedAt:   now,
			IsAnonymous: true,
			Tier:        models.TierFree,
			Status:      models.StatusGuest,
			ThemeColor:  guestThemeColor,
		}
	}
	u.LastSignedInAt = now
	u.UpdatedAt = now
	if err := userRepo.Upsert(ctx, u); err != nil {
		return nil, err
	}

	session, err := guestRepo.GetByUserID(ctx, u.ID)
	switch {
	case errors.Is(err, common.ErrNotFound):
		session = &models.Guest{
			ID:        f.newID(),
			SessionID: f.newID(),
			UserID:    u.ID,
			ExpiresAt: now.Add(guestSessionTTL),
			CreatedAt: now,
		}
	case err != nil:
		return nil, err
	default:
		if session.IsExpired(now) {
			session.SessionID = f.newID()
			session.ExpiresAt = now.Add(guestSessionTTL)
		}
	}
	if err := guestRepo.Upsert(ctx, session); err != nil {
		return nil, err
	}
	return u, nil
}

// findGuestUser returns the existing anonymous guest row, or nil.
func (f *Feature) findGuestUser(ctx context.Context, repo users.Repository) (*models.User, error) {
	all, err := repo.ListByName(ctx)
	if err != nil {
		return nil, err
	}
	for i := range all {
		if all[i].Status == models.StatusGuest && all[i].IsAnonymous {
			return &all[i], nil
		}
	}
	return nil, nil
}

// displayName derives a name for a fresh account: the chosen username, the
// email's local part, or a plain fallback.
func displayName(username string, email *string) string {
	if name := strings.TrimSpace(username); name != "" {
		return name
	}
	if email != nil {
		if local, _, ok := strings.Cut(*email, "@"); ok && local != "" {
			return local
		}
	}
	return "User"
}

// messageFor maps an error to the human-readable message stored in the
// errored phase. Provider-supplied messages pass through as is.
func messageFor(err error) string {
	var apiErr *identity.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	switch {
	case errors.Is(err, common.ErrEmailRequired):
		return "email is required"
	case errors.Is(err, common.ErrOTPCodeRequired):
		return "enter the code from your email"
	case errors.Is(err, common.ErrUsernameTooShort):
		return "username must be at least 3 characters"
	case errors.Is(err, common.ErrPasswordMismatch):
		return "passwords do not match"
	case errors.Is(err, common.ErrUnauthorized):
		return "wrong email, password or code"
	case errors.Is(err, common.ErrMissingIdentity):
		return "the provider returned no usable identity"
	}
	return fmt.Sprintf("something went wrong: %v", err)
}
