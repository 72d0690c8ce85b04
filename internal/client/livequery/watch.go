package livequery

import (
	"context"

	"github.com/avachat/avachat/internal/logging"
)

// Watch runs fetch once immediately, then again after every committed write
// to one of the watched tables, delivering each result to deliver. Fetch
// errors are logged and the watcher keeps running; the next change triggers
// a fresh attempt. Watch blocks until ctx is done; callers run it on its own
// goroutine.
func Watch[T any](
	ctx context.Context,
	hub *Hub,
	tables []string,
	fetch func(context.Context) (T, error),
	deliver func(T),
	log logging.Logger,
) {
	sub := hub.Subscribe(tables...)
	defer sub.Cancel()

	run := func() {
		result, err := fetch(ctx)
		if err != nil {
			if ctx.Err() == nil {
				log.Error(ctx, "live query refresh failed", "tables", tables, "error", err)
			}
			return
		}
		deliver(result)
	}

	run()
	for {
		select {
		case <-ctx.Done():
			return
		case <-sub.C:
			run()
		}
	}
}
