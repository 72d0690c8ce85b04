// Package cli is the interactive terminal front end. It is deliberately
// thin: commands parse input, send actions to the feature stores, and print
// state snapshots; all behavior lives in the reducers.
package cli

import (
	"bufio"
	"context"
	"os"
	"time"

	"github.com/avachat/avachat/internal/client/config"
	"github.com/avachat/avachat/internal/client/database"
	"github.com/avachat/avachat/internal/client/dispatch"
	"github.com/avachat/avachat/internal/client/feature/auth"
	"github.com/avachat/avachat/internal/client/feature/avatarform"
	"github.com/avachat/avachat/internal/client/feature/avatars"
	"github.com/avachat/avachat/internal/client/feature/tabbar"
	"github.com/avachat/avachat/internal/client/feature/userform"
	"github.com/avachat/avachat/internal/client/feature/usersview"
	"github.com/avachat/avachat/internal/client/identity"
	"github.com/avachat/avachat/internal/logging"
)

// settleTimeout bounds how long a command waits for an in-flight auth or
// write to land before giving the prompt back.
const settleTimeout = 15 * time.Second

// App owns the feature stores and the database for one REPL session.
type App struct {
	config *config.Config
	log    logging.Logger
	store  *database.Store

	authStore   *dispatch.Store[auth.State, auth.Action]
	avatarStore *dispatch.Store[avatars.State, avatars.Action]
	userStore   *dispatch.Store[usersview.State, usersview.Action]
	tabStore    *dispatch.Store[tabbar.State, tabbar.Action]

	reader      *bufio.Reader
	stopWatches context.CancelFunc
}

// NewApp opens the database and wires the feature stores. The preview and
// test contexts run against the in-process identity provider; live talks to
// the configured one over HTTPS.
func NewApp(ctx context.Context, cfg *config.Config, log logging.Logger) (*App, error) {
	store, err := database.Open(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	var provider identity.Client
	if cfg.Context == config.ContextLive {
		provider = identity.NewHTTPClient(cfg.ProviderBaseURL, cfg.RequestTimeout)
	} else {
		provider = identity.NewMockProvider()
	}

	avatarFeature := avatars.New(store, avatarform.New(store, log), log)
	userFeature := usersview.New(store, userform.New(store, log), log)

	a := &App{
		config:      cfg,
		log:         log,
		store:       store,
		authStore:   auth.New(provider, store, log).NewStore(),
		avatarStore: avatarFeature.NewStore(),
		userStore:   userFeature.NewStore(),
		tabStore:    tabbar.NewStore(),
		reader:      bufio.NewReader(os.Stdin),
	}

	watchCtx, cancel := context.WithCancel(ctx)
	a.stopWatches = cancel
	go avatarFeature.Watch(watchCtx, a.avatarStore)
	go userFeature.Watch(watchCtx, a.userStore)

	return a, nil
}

// Run drives the REPL until the user exits or ctx is cancelled.
func (a *App) Run(ctx context.Context) {
	defer a.Close()
	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.status, scanner)
}

// Close stops the watchers and the stores and closes the database.
func (a *App) Close() {
	a.stopWatches()
	a.authStore.Close()
	a.avatarStore.Close()
	a.userStore.Close()
	a.tabStore.Close()
	_ = a.store.Close()
}

// status renders the prompt segment: the active tab plus who is signed in.
func (a *App) status() string {
	phase := a.authStore.State().Phase
	tab := a.tabStore.State().Selected.String()
	switch phase.Kind {
	case auth.PhaseAuthenticated:
		if phase.Email != nil {
			return tab + " | " + *phase.Email
		}
		return tab + " | " + phase.Provider
	case auth.PhaseGuest:
		return tab + " | guest"
	case auth.PhaseLoading:
		return tab + " | ..."
	case auth.PhaseAwaitingOTP:
		return tab + " | check your email"
	default:
		return tab + " | signed out"
	}
}

func (a *App) isSignedIn() bool {
	k := a.authStore.State().Phase.Kind
	return k == auth.PhaseAuthenticated || k == auth.PhaseGuest
}

// waitUntil polls cond until it holds or the settle timeout passes.
func waitUntil(cond func() bool) bool {
	deadline := time.Now().Add(settleTimeout)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(10 * time.Millisecond)
	}
	return false
}
