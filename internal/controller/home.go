package controller

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/five82/usher/internal/logging"
	"github.com/five82/usher/internal/overseerr"
	"github.com/five82/usher/internal/repository"
	"github.com/five82/usher/internal/state"
)

// Dashboard is everything the home screen shows.
type Dashboard struct {
	Upcoming []overseerr.Movie
	Recent   []overseerr.Media
	User     overseerr.User
}

func (d Dashboard) isEmpty() bool {
	return len(d.Upcoming) == 0 && len(d.Recent) == 0
}

// Home loads the dashboard.
type Home struct {
	media repository.MediaSource
	users repository.UserSource
	store *state.Store[state.View[Dashboard]]
	seq   sequencer
}

// NewHome returns an idle Home controller.
func NewHome(media repository.MediaSource, users repository.UserSource) *Home {
	return &Home{
		media: media,
		users: users,
		store: state.NewStore(state.Idle[Dashboard]()),
	}
}

// State returns the current view.
func (h *Home) State() state.View[Dashboard] { return h.store.Snapshot() }

// Subscribe signals after every state change.
func (h *Home) Subscribe() (<-chan struct{}, func()) { return h.store.Subscribe() }

// Load fetches upcoming movies, recent media and the current user
// concurrently. Any failure fails the whole load.
func (h *Home) Load(ctx context.Context) error {
	ctx, gen := h.seq.begin(ctx)
	h.store.Set(state.Loading[Dashboard]())

	var d Dashboard
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		movies, err := h.media.Upcoming(gctx)
		d.Upcoming = movies
		return err
	})
	g.Go(func() error {
		recent, err := h.media.Recent(gctx)
		d.Recent = recent
		return err
	})
	g.Go(func() error {
		user, err := h.users.CurrentUser(gctx)
		d.User = user
		return err
	})
	err := g.Wait()

	var view state.View[Dashboard]
	if err != nil {
		logging.For(logging.UI).Error().Err(err).Msg("dashboard load failed")
		view = state.Failure[Dashboard](Message(err))
	} else {
		view = state.Resolve(d, Dashboard.isEmpty)
	}
	if !h.seq.publish(gen, func() { h.store.Set(view) }) {
		return ErrSuperseded
	}
	return err
}

// Cancel abandons an in-flight load and returns to Idle.
func (h *Home) Cancel() {
	h.seq.stop(func() { h.store.Set(state.Idle[Dashboard]()) })
}
