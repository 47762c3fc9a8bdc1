package controller

import (
	"context"

	"github.com/five82/usher/internal/logging"
	"github.com/five82/usher/internal/overseerr"
	"github.com/five82/usher/internal/repository"
	"github.com/five82/usher/internal/state"
)

// RequestsState is the request list screen.
type RequestsState struct {
	state.View[[]overseerr.MediaRequest]
	Filter repository.Filter
	// Refreshing is set while a background refresh runs; the view keeps
	// showing the previous result.
	Refreshing bool
}

// Requests loads and moderates the request list.
type Requests struct {
	repo     repository.RequestSource
	pageSize int
	store    *state.Store[RequestsState]
	seq      sequencer
}

// NewRequests returns an idle Requests controller showing pending requests.
// A pageSize <= 0 uses repository.DefaultPageSize.
func NewRequests(repo repository.RequestSource, pageSize int) *Requests {
	if pageSize <= 0 {
		pageSize = repository.DefaultPageSize
	}
	return &Requests{
		repo:     repo,
		pageSize: pageSize,
		store: state.NewStore(RequestsState{
			View:   state.Idle[[]overseerr.MediaRequest](),
			Filter: repository.FilterPending,
		}),
	}
}

// State returns the current view.
func (r *Requests) State() RequestsState { return r.store.Snapshot() }

// Subscribe signals after every state change.
func (r *Requests) Subscribe() (<-chan struct{}, func()) { return r.store.Subscribe() }

// Load reloads the list for the active filter, showing Loading meanwhile.
func (r *Requests) Load(ctx context.Context) error {
	return r.load(ctx, false)
}

// Refresh reloads the list while the current view stays visible.
func (r *Requests) Refresh(ctx context.Context) error {
	return r.load(ctx, true)
}

// ChangeFilter switches the filter and reloads.
func (r *Requests) ChangeFilter(ctx context.Context, f repository.Filter) error {
	r.store.Update(func(s RequestsState) RequestsState {
		s.Filter = f
		return s
	})
	return r.Load(ctx)
}

// Approve approves request id, then reloads.
func (r *Requests) Approve(ctx context.Context, id int) error {
	return r.transition(ctx, id, overseerr.RequestStatusApproved)
}

// Deny declines request id, then reloads.
func (r *Requests) Deny(ctx context.Context, id int) error {
	return r.transition(ctx, id, overseerr.RequestStatusDeclined)
}

// transition runs outside the load sequence so a background refresh cannot
// cancel the mutation; the reload afterwards is sequenced as usual.
func (r *Requests) transition(ctx context.Context, id int, status overseerr.RequestStatus) error {
	log := logging.For(logging.UI)
	log.Info().Int("request_id", id).Stringer("status", status).Msg("updating request")

	r.setView(state.Loading[[]overseerr.MediaRequest]())
	if _, err := r.repo.UpdateStatus(ctx, id, status); err != nil {
		log.Error().Err(err).Int("request_id", id).Msg("request update failed")
		r.seq.stop(func() {
			r.setView(state.Failure[[]overseerr.MediaRequest]("Action failed: " + Message(err)))
		})
		return err
	}
	logging.Success(log).Int("request_id", id).Stringer("status", status).Msg("request updated")

	return r.Load(ctx)
}

func (r *Requests) load(ctx context.Context, background bool) error {
	ctx, gen := r.seq.begin(ctx)
	r.store.Update(func(s RequestsState) RequestsState {
		if background && !s.IsIdle() && !s.IsLoading() {
			s.Refreshing = true
		} else {
			s.View = state.Loading[[]overseerr.MediaRequest]()
			s.Refreshing = false
		}
		return s
	})
	return r.fetch(ctx, gen)
}

func (r *Requests) fetch(ctx context.Context, gen uint64) error {
	page := repository.Page{Take: r.pageSize, Filter: r.store.Snapshot().Filter}
	items, err := r.repo.List(ctx, page)

	var view state.View[[]overseerr.MediaRequest]
	if err != nil {
		logging.For(logging.UI).Error().Err(err).Str("filter", string(page.Filter)).Msg("failed to load requests")
		view = state.Failure[[]overseerr.MediaRequest]("Failed to load requests.")
	} else {
		view = state.Resolve(items, func(v []overseerr.MediaRequest) bool { return len(v) == 0 })
	}
	if !r.seq.publish(gen, func() { r.setView(view) }) {
		return ErrSuperseded
	}
	return err
}

func (r *Requests) setView(v state.View[[]overseerr.MediaRequest]) {
	r.store.Update(func(s RequestsState) RequestsState {
		s.View = v
		s.Refreshing = false
		return s
	})
}

// Cancel abandons an in-flight load and returns to Idle.
func (r *Requests) Cancel() {
	r.seq.stop(func() { r.setView(state.Idle[[]overseerr.MediaRequest]()) })
}
