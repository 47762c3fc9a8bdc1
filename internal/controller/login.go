package controller

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/five82/usher/internal/auth"
	"github.com/five82/usher/internal/logging"
	"github.com/five82/usher/internal/overseerr"
	"github.com/five82/usher/internal/state"
)

// ErrMissingCredentials is returned by Submit when email or password is blank.
var ErrMissingCredentials = errors.New("email and password are required")

// Authenticator is the part of auth.Controller the login screen drives.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (*overseerr.User, error)
	StartPlexLogin(ctx context.Context) (*auth.PinTask, error)
	CancelPlexLogin()
}

// LoginState is the login screen. AuthURL and PinCode are set while a Plex
// login waits for approval.
type LoginState struct {
	state.View[overseerr.User]
	AuthURL string
	PinCode string
}

// Login drives password and Plex sign-in.
type Login struct {
	auth  Authenticator
	store *state.Store[LoginState]
	seq   sequencer
}

// NewLogin returns an idle Login controller.
func NewLogin(a Authenticator) *Login {
	return &Login{
		auth:  a,
		store: state.NewStore(LoginState{View: state.Idle[overseerr.User]()}),
	}
}

// State returns the current view.
func (l *Login) State() LoginState { return l.store.Snapshot() }

// Subscribe signals after every state change.
func (l *Login) Subscribe() (<-chan struct{}, func()) { return l.store.Subscribe() }

// Submit signs in with email and password.
func (l *Login) Submit(ctx context.Context, email, password string) error {
	if strings.TrimSpace(email) == "" || password == "" {
		l.seq.stop(func() {
			l.store.Set(LoginState{View: state.Failure[overseerr.User]("Please enter both email and password.")})
		})
		return ErrMissingCredentials
	}

	ctx, gen := l.seq.begin(ctx)
	l.store.Set(LoginState{View: state.Loading[overseerr.User]()})

	user, err := l.auth.Login(ctx, strings.TrimSpace(email), password)
	view := LoginState{}
	if err != nil {
		view.View = state.Failure[overseerr.User](loginMessage(err))
	} else {
		view.View = state.Success(*user)
	}
	if !l.seq.publish(gen, func() { l.store.Set(view) }) {
		return ErrSuperseded
	}
	return err
}

// StartPlex begins a Plex PIN login, publishes the approval URL, and blocks
// until the login finishes. Superseding it abandons the PIN login.
func (l *Login) StartPlex(ctx context.Context) error {
	ctx, gen := l.seq.begin(ctx)
	l.store.Set(LoginState{View: state.Loading[overseerr.User]()})

	task, err := l.auth.StartPlexLogin(ctx)
	if err != nil {
		view := LoginState{View: state.Failure[overseerr.User]("Failed to start Plex login: " + Message(err))}
		if errors.Is(err, auth.ErrPinAborted) {
			view = LoginState{View: state.Idle[overseerr.User]()}
		}
		if !l.seq.publish(gen, func() { l.store.Set(view) }) {
			return ErrSuperseded
		}
		return err
	}

	waiting := LoginState{View: state.Loading[overseerr.User](), AuthURL: task.AuthURL, PinCode: task.Pin.Code}
	if !l.seq.during(gen, func() { l.store.Set(waiting) }) {
		task.Cancel()
		return ErrSuperseded
	}
	logging.For(logging.UI).Info().Str("url", task.AuthURL).Msg("waiting for plex approval")

	res, err := task.Wait(ctx)
	if err != nil {
		task.Cancel()
		if !l.seq.publish(gen, func() { l.store.Set(LoginState{View: state.Idle[overseerr.User]()}) }) {
			return ErrSuperseded
		}
		return err
	}

	var view LoginState
	switch res.Outcome {
	case auth.Completed:
		view.View = state.Success(*res.User)
	case auth.TimedOut:
		view.View = state.Failure[overseerr.User]("Plex login timed out. Please try again.")
	case auth.Failed:
		view.View = state.Failure[overseerr.User]("Plex login failed: " + Message(res.Err))
	default:
		view.View = state.Idle[overseerr.User]()
	}
	if !l.seq.publish(gen, func() { l.store.Set(view) }) {
		return ErrSuperseded
	}
	return res.Err
}

// Cancel abandons a pending Plex login and returns to Idle.
func (l *Login) Cancel() {
	l.seq.stop(func() { l.store.Set(LoginState{View: state.Idle[overseerr.User]()}) })
	l.auth.CancelPlexLogin()
}

func loginMessage(err error) string {
	var reqErr *overseerr.RequestFailedError
	if errors.As(err, &reqErr) {
		if reqErr.IsAuthFailure() {
			return "Invalid credentials."
		}
		return fmt.Sprintf("Login failed. Server returned %d.", reqErr.StatusCode)
	}
	return Message(err)
}
