package auth

import (
	"context"
	"fmt"
	"sync"

	"github.com/five82/usher/internal/logging"
	"github.com/five82/usher/internal/overseerr"
	"github.com/five82/usher/internal/state"
)

// Controller owns the session. Other components read it through Session and
// Subscribe and never mutate it.
type Controller struct {
	client overseerr.Requester
	cfg    Config
	store  *state.Store[Session]

	mu   sync.Mutex
	task *PinTask
	// gen advances whenever a PIN login is started or aborted, so a start
	// still waiting on Plex can tell it was overtaken.
	gen uint64
}

// New builds a Controller in the unauthenticated state.
func New(client overseerr.Requester, cfg Config) (*Controller, error) {
	if client == nil {
		return nil, fmt.Errorf("auth: client is nil")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Controller{
		client: client,
		cfg:    cfg.withDefaults(),
		store:  state.NewStore(Session{}),
	}, nil
}

// Session returns the current session snapshot.
func (c *Controller) Session() Session {
	return c.store.Snapshot()
}

// Subscribe signals after every session change.
func (c *Controller) Subscribe() (<-chan struct{}, func()) {
	return c.store.Subscribe()
}

// Login authenticates with email and password. On failure the session is
// left as it was and the error is returned unchanged.
func (c *Controller) Login(ctx context.Context, email, password string) (*overseerr.User, error) {
	log := logging.For(logging.Auth)
	log.Info().Str("email", email).Msg("attempting login")

	ep := overseerr.NewEndpoint("/auth/local",
		overseerr.WithMethod(overseerr.MethodPost),
		overseerr.WithJSONBody(credentials{Email: email, Password: password}),
	)
	user, err := overseerr.Fetch[overseerr.User](ctx, c.client, ep)
	if err != nil {
		log.Warn().Err(err).Msg("login failed")
		return nil, err
	}

	c.signIn(user)
	logging.Success(log).Int("user_id", user.ID).Msg("logged in")
	return &user, nil
}

// Logout asks the server to end the session and always clears local state,
// including any in-flight PIN login. The returned error only reports the
// remote call.
func (c *Controller) Logout(ctx context.Context) error {
	log := logging.For(logging.Auth)
	log.Info().Msg("logging out")

	c.abortPlex()
	err := overseerr.Send(ctx, c.client, overseerr.NewEndpoint("/auth/logout", overseerr.WithMethod(overseerr.MethodPost)))
	if err != nil {
		log.Warn().Err(err).Msg("server logout failed; clearing local session anyway")
	}

	c.store.Set(Session{})
	logging.Success(log).Msg("logged out")
	return err
}

// CheckAuth restores the session from the server's cookie or API key.
// Failure leaves the session unauthenticated.
func (c *Controller) CheckAuth(ctx context.Context) (*overseerr.User, error) {
	log := logging.For(logging.Auth)

	user, err := overseerr.Fetch[overseerr.User](ctx, c.client, overseerr.NewEndpoint("/auth/me"))
	if err != nil {
		c.store.Update(func(s Session) Session {
			return Session{PendingPin: s.PendingPin}
		})
		log.Info().Err(err).Msg("no active session")
		return nil, err
	}

	c.signIn(user)
	log.Debug().Int("user_id", user.ID).Msg("session confirmed")
	return &user, nil
}

// Close cancels any in-flight PIN login.
func (c *Controller) Close() {
	c.abortPlex()
}

func (c *Controller) signIn(user overseerr.User) {
	c.store.Set(authenticated(user))
}

// abortPlex cancels the running PIN task and invalidates any start that
// is still waiting for its PIN. It returns the new generation.
func (c *Controller) abortPlex() uint64 {
	c.mu.Lock()
	c.gen++
	gen := c.gen
	task := c.task
	c.task = nil
	c.mu.Unlock()

	if task != nil {
		task.Cancel()
	}
	return gen
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
