package app

import (
	"context"
	"errors"
	"time"

	"github.com/five82/usher/internal/auth"
	"github.com/five82/usher/internal/controller"
	"github.com/five82/usher/internal/logging"
)

const (
	defaultRefreshInterval = 30 * time.Second
	maxBackoff             = 5 * time.Minute
)

// Refresher reloads a screen in the background.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// SessionSource reports whether anyone is signed in.
type SessionSource interface {
	Session() auth.Session
}

// StartRefresher launches a background goroutine that refreshes target at
// interval while a user is signed in, backing off after consecutive
// failures. It returns immediately.
func StartRefresher(ctx context.Context, target Refresher, session SessionSource, interval time.Duration) {
	if interval <= 0 {
		interval = defaultRefreshInterval
	}
	go func() {
		log := logging.For(logging.App)
		failures := 0
		timer := time.NewTimer(interval)
		defer timer.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-timer.C:
			}

			if session.Session().Authenticated {
				err := target.Refresh(ctx)
				switch {
				case err == nil, errors.Is(err, controller.ErrSuperseded):
					failures = 0
				case ctx.Err() != nil:
					return
				default:
					failures++
					log.Warn().Err(err).Int("failures", failures).Msg("background refresh failed")
				}
			} else {
				failures = 0
			}

			timer.Reset(calculateBackoff(failures, interval))
		}
	}()
}

// calculateBackoff doubles base for each consecutive failure, capped at
// maxBackoff.
func calculateBackoff(failures int, base time.Duration) time.Duration {
	if failures <= 0 {
		return base
	}
	if failures > 30 {
		return maxBackoff
	}
	d := base << failures
	if d <= 0 || d > maxBackoff {
		return maxBackoff
	}
	return d
}
