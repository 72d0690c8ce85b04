package livequery

import (
	"context"
	"testing"
	"time"

	"github.com/avachat/avachat/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_PublishSignalsMatchingTables(t *testing.T) {
	h := NewHub()
	users := h.Subscribe("users")
	avatars := h.Subscribe("avatar")
	defer users.Cancel()
	defer avatars.Cancel()

	h.Publish("users")

	select {
	case <-users.C:
	default:
		t.Fatal("expected a signal on the users subscription")
	}
	select {
	case <-avatars.C:
		t.Fatal("unexpected signal on the avatar subscription")
	default:
	}
}

func TestHub_SignalsCoalesce(t *testing.T) {
	h := NewHub()
	s := h.Subscribe("users")
	defer s.Cancel()

	h.Publish("users")
	h.Publish("users")
	h.Publish("users")

	<-s.C
	select {
	case <-s.C:
		t.Fatal("burst of publishes should coalesce into one pending signal")
	default:
	}
}

func TestHub_MultiTableWriteSignalsOnce(t *testing.T) {
	h := NewHub()
	s := h.Subscribe("users", "guest")
	defer s.Cancel()

	// One committed transaction touching both watched tables.
	h.Publish("users", "guest")

	<-s.C
	select {
	case <-s.C:
		t.Fatal("a single publish must deliver at most one signal")
	default:
	}
}

func TestHub_CancelStopsDelivery(t *testing.T) {
	h := NewHub()
	s := h.Subscribe("users")
	s.Cancel()

	h.Publish("users")

	select {
	case <-s.C:
		t.Fatal("cancelled subscription received a signal")
	default:
	}
}

func TestWatch_FetchesImmediatelyAndOnChange(t *testing.T) {
	h := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rows := []string{"a"}
	results := make(chan []string, 4)

	go Watch(ctx, h, []string{"avatar"},
		func(context.Context) ([]string, error) { return rows, nil },
		func(got []string) { results <- got },
		logging.NewDefault(false),
	)

	select {
	case got := <-results:
		assert.Equal(t, []string{"a"}, got)
	case <-time.After(time.Second):
		t.Fatal("expected an immediate fetch")
	}

	rows = []string{"a", "b"}
	h.Publish("avatar")

	select {
	case got := <-results:
		assert.Equal(t, []string{"a", "b"}, got)
	case <-time.After(time.Second):
		t.Fatal("expected a refresh after publish")
	}
}

func TestWatch_StopsOnContextCancel(t *testing.T) {
	h := NewHub()
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		Watch(ctx, h, []string{"users"},
			func(context.Context) (int, error) { return 0, nil },
			func(int) {},
			logging.NewDefault(false),
		)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("watcher did not stop after cancel")
	}

	require.NotPanics(t, func() { h.Publish("users") })
}
