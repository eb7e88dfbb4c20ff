package app

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/five82/pueuetop/internal/action"
	"github.com/five82/pueuetop/internal/logging"
	"github.com/five82/pueuetop/internal/pueue"
)

const defaultPollInterval = time.Second

// StartPoller launches a background goroutine that polls the daemon at a
// fixed cadence. It returns immediately. A panic on that goroutine is
// recovered and passed to crashed when crashed is non-nil.
func StartPoller(ctx context.Context, fetcher pueue.StatusFetcher, tx action.Sender, interval time.Duration, logger zerolog.Logger, crashed func(any)) {
	go func() {
		if crashed != nil {
			defer func() {
				if r := recover(); r != nil {
					logger.Error().Interface("panic", r).Msg("poller crashed")
					crashed(r)
				}
			}()
		}
		RunPoller(ctx, fetcher, tx, interval, logger)
	}()
}

// RunPoller fetches a snapshot, reports it (or the failure) as an action and
// sleeps for interval, until ctx is done. Failures never stop the loop.
func RunPoller(ctx context.Context, fetcher pueue.StatusFetcher, tx action.Sender, interval time.Duration, logger zerolog.Logger) {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}
		act := poll(ctx, fetcher, logger)
		if ctx.Err() != nil {
			return
		}
		tx.Send(act)
		timer.Reset(interval)
	}
}

func poll(ctx context.Context, fetcher pueue.StatusFetcher, logger zerolog.Logger) action.Action {
	st, err := fetcher.Status(ctx)
	if err != nil {
		msg := logging.Redact(err.Error())
		logger.Warn().Str("error", msg).Msg("status poll failed")
		return action.Error{Message: fmt.Sprintf("Failed to fetch status: %s", msg)}
	}
	logger.Debug().Int("tasks", len(st.Tasks)).Msg("status poll ok")
	return action.UpdateStatus{State: st}
}
