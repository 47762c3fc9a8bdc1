package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/five82/usher/internal/logging"
	"github.com/five82/usher/internal/overseerr"
	"github.com/rs/zerolog"
)

// Outcome is how a PIN login ended.
type Outcome int

const (
	Pending Outcome = iota
	Completed
	TimedOut
	Cancelled
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Completed:
		return "completed"
	case TimedOut:
		return "timed out"
	case Cancelled:
		return "cancelled"
	case Failed:
		return "failed"
	default:
		return "pending"
	}
}

var (
	// ErrPinTimeout is the error carried by a TimedOut result.
	ErrPinTimeout = errors.New("plex login timed out")
	// ErrPinAborted is returned by StartPlexLogin when a logout, a cancel or
	// a newer start happened while the PIN was being issued.
	ErrPinAborted = errors.New("plex login aborted")
)

// PinResult is the final state of a PinTask.
type PinResult struct {
	Outcome  Outcome
	User     *overseerr.User
	Attempts int
	Err      error
}

// PinTask polls Plex until the PIN is approved, the attempt budget runs
// out, or it is cancelled. It always finishes with exactly one result.
type PinTask struct {
	Pin     Pin
	AuthURL string

	cancel context.CancelFunc
	done   chan struct{}

	mu     sync.Mutex
	result PinResult
}

// Done is closed once the task has a result.
func (t *PinTask) Done() <-chan struct{} {
	return t.done
}

// Result returns the outcome so far; Outcome is Pending until Done closes.
func (t *PinTask) Result() PinResult {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.result
}

// Wait blocks until the task finishes or ctx is done. Returning because of
// ctx does not cancel the task.
func (t *PinTask) Wait(ctx context.Context) (PinResult, error) {
	select {
	case <-t.done:
		return t.Result(), nil
	case <-ctx.Done():
		return PinResult{Outcome: Pending}, ctx.Err()
	}
}

// Cancel stops polling. It is safe to call more than once and after the
// task has finished.
func (t *PinTask) Cancel() {
	t.cancel()
}

func (t *PinTask) finish(r PinResult) {
	t.mu.Lock()
	t.result = r
	t.mu.Unlock()
	close(t.done)
}

// StartPlexLogin issues a PIN and starts polling for its approval in the
// background. Any earlier PIN login is cancelled first. The returned task
// is independent of ctx, which only bounds PIN issuance. If the login is
// aborted before the PIN arrives, the PIN is dropped and ErrPinAborted is
// returned.
func (c *Controller) StartPlexLogin(ctx context.Context) (*PinTask, error) {
	log := logging.For(logging.Auth)
	gen := c.abortPlex()

	pin, err := c.requestPin(ctx)
	if err != nil {
		log.Error().Err(err).Msg("plex pin request failed")
		return nil, fmt.Errorf("request plex pin: %w", err)
	}

	pollCtx, cancel := context.WithCancel(context.Background())
	task := &PinTask{
		Pin:     pin,
		AuthURL: c.AuthURL(pin),
		cancel:  cancel,
		done:    make(chan struct{}),
	}

	c.mu.Lock()
	if c.gen != gen {
		c.mu.Unlock()
		cancel()
		log.Info().Int("pin_id", pin.ID).Msg("plex login aborted before polling started")
		return nil, ErrPinAborted
	}
	displaced := c.task
	c.task = task
	c.store.Update(func(s Session) Session {
		s.PendingPin = &PendingPin{ID: pin.ID, Code: pin.Code}
		return s
	})
	c.mu.Unlock()

	if displaced != nil {
		displaced.Cancel()
	}
	log.Info().Int("pin_id", pin.ID).Msg("plex pin issued")

	go c.poll(pollCtx, task)
	return task, nil
}

// CancelPlexLogin stops the current PIN login, if any, including one that
// is still waiting for its PIN.
func (c *Controller) CancelPlexLogin() {
	c.abortPlex()
}

func (c *Controller) poll(ctx context.Context, task *PinTask) {
	log := logging.For(logging.Auth).With().Int("pin_id", task.Pin.ID).Logger()
	result := c.pollLoop(ctx, task, log)

	c.mu.Lock()
	if c.task == task {
		c.task = nil
	}
	c.mu.Unlock()

	// A cancelled task may have been replaced by a newer one that owns the
	// pending pin now.
	if result.Outcome != Completed {
		c.store.Update(func(s Session) Session {
			if s.PendingPin != nil && s.PendingPin.ID == task.Pin.ID {
				s.PendingPin = nil
			}
			return s
		})
	}
	task.cancel()
	task.finish(result)
}

func (c *Controller) pollLoop(ctx context.Context, task *PinTask, log zerolog.Logger) PinResult {
	ticker := time.NewTicker(c.cfg.PollInterval)
	defer ticker.Stop()

	for attempt := 1; attempt <= c.cfg.MaxAttempts; attempt++ {
		select {
		case <-ctx.Done():
			log.Info().Int("attempts", attempt-1).Msg("plex login cancelled")
			return PinResult{Outcome: Cancelled, Attempts: attempt - 1, Err: ctx.Err()}
		case <-ticker.C:
		}

		pin, err := c.checkPin(ctx, task.Pin)
		if err != nil {
			if ctx.Err() != nil {
				return PinResult{Outcome: Cancelled, Attempts: attempt, Err: ctx.Err()}
			}
			log.Warn().Err(err).Int("attempt", attempt).Msg("plex pin check failed")
			continue
		}
		if pin.AuthToken == "" {
			continue
		}

		c.store.Update(func(s Session) Session {
			if s.PendingPin != nil && s.PendingPin.ID == task.Pin.ID {
				p := *s.PendingPin
				p.AuthToken = pin.AuthToken
				s.PendingPin = &p
			}
			return s
		})

		user, err := c.exchangeToken(ctx, pin.AuthToken)
		if err != nil {
			if ctx.Err() != nil {
				return PinResult{Outcome: Cancelled, Attempts: attempt, Err: ctx.Err()}
			}
			if overseerr.IsAuthFailure(err) {
				log.Error().Err(err).Msg("plex token rejected by server")
				return PinResult{Outcome: Failed, Attempts: attempt, Err: err}
			}
			log.Warn().Err(err).Int("attempt", attempt).Msg("plex token exchange failed")
			continue
		}

		if !c.completeTask(ctx, task, user) {
			return PinResult{Outcome: Cancelled, Attempts: attempt, Err: context.Canceled}
		}
		logging.Success(&log).Int("user_id", user.ID).Int("attempts", attempt).Msg("plex login complete")
		return PinResult{Outcome: Completed, User: &user, Attempts: attempt}
	}

	if ctx.Err() != nil {
		return PinResult{Outcome: Cancelled, Attempts: c.cfg.MaxAttempts, Err: ctx.Err()}
	}
	log.Error().Int("attempts", c.cfg.MaxAttempts).Msg("plex login timed out")
	return PinResult{Outcome: TimedOut, Attempts: c.cfg.MaxAttempts, Err: ErrPinTimeout}
}

// completeTask signs user in unless task was cancelled or replaced. The
// check and the sign-in share c.mu with abortPlex, so a logout either
// happens after the sign-in and clears it, or prevents it.
func (c *Controller) completeTask(ctx context.Context, task *PinTask, user overseerr.User) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if ctx.Err() != nil || c.task != task {
		return false
	}
	c.signIn(user)
	return true
}
