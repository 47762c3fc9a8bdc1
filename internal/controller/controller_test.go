package controller

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/usher/internal/auth"
	"github.com/five82/usher/internal/overseerr"
	"github.com/five82/usher/internal/overseerr/overseerrtest"
	"github.com/five82/usher/internal/repository"
)

// stubRequests is a RequestSource whose List blocks until released when
// gate is set.
type stubRequests struct {
	mu      sync.Mutex
	lists   []repository.Page
	updates []overseerr.RequestStatus
	items   []overseerr.MediaRequest
	listErr error
	updErr  error
	gate    chan struct{}
	entered chan struct{}
}

func (s *stubRequests) List(ctx context.Context, page repository.Page) ([]overseerr.MediaRequest, error) {
	s.mu.Lock()
	s.lists = append(s.lists, page)
	gate, entered := s.gate, s.entered
	items, err := s.items, s.listErr
	s.mu.Unlock()

	if entered != nil {
		entered <- struct{}{}
	}
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return items, err
}

func (s *stubRequests) UpdateStatus(_ context.Context, id int, status overseerr.RequestStatus) (overseerr.MediaRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updates = append(s.updates, status)
	if s.updErr != nil {
		return overseerr.MediaRequest{}, s.updErr
	}
	return overseerr.MediaRequest{ID: id, Status: status}, nil
}

func (s *stubRequests) listCalls() []repository.Page {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]repository.Page(nil), s.lists...)
}

func TestRequests_EmptyResultIsEmptyNotError(t *testing.T) {
	fake := overseerrtest.New().JSON(overseerr.MethodGet, "/request", `{"results":[]}`)
	c := NewRequests(repository.NewRequests(fake), 50)

	require.NoError(t, c.Load(context.Background()))
	s := c.State()
	assert.True(t, s.IsEmpty(), "phase = %s", s.Phase)

	var filter string
	for _, p := range fake.Calls()[0].Query() {
		if p.Name == "filter" {
			filter = p.Value
		}
	}
	assert.Equal(t, "pending", filter)
}

func TestRequests_LoadSuccessAndFailure(t *testing.T) {
	stub := &stubRequests{items: []overseerr.MediaRequest{{ID: 1}, {ID: 2}}}
	c := NewRequests(stub, 0)
	assert.True(t, c.State().IsIdle())

	require.NoError(t, c.Load(context.Background()))
	s := c.State()
	require.True(t, s.IsSuccess())
	assert.Len(t, s.Data, 2)
	assert.Equal(t, repository.DefaultPageSize, stub.listCalls()[0].Take)

	stub.listErr = &overseerr.RequestFailedError{StatusCode: http.StatusInternalServerError}
	require.Error(t, c.Load(context.Background()))
	s = c.State()
	require.True(t, s.IsError())
	assert.Equal(t, "Failed to load requests.", s.Message)
}

func TestRequests_ShowsLoadingWhileInFlight(t *testing.T) {
	stub := &stubRequests{gate: make(chan struct{}), entered: make(chan struct{}, 1)}
	c := NewRequests(stub, 10)

	done := make(chan error, 1)
	go func() { done <- c.Load(context.Background()) }()

	<-stub.entered
	assert.True(t, c.State().IsLoading())
	close(stub.gate)
	require.NoError(t, <-done)
	assert.True(t, c.State().IsEmpty())
}

func TestRequests_NewerLoadSupersedesOlder(t *testing.T) {
	stub := &stubRequests{gate: make(chan struct{}), entered: make(chan struct{}, 2)}
	c := NewRequests(stub, 10)

	first := make(chan error, 1)
	go func() { first <- c.Load(context.Background()) }()
	<-stub.entered

	stub.mu.Lock()
	stub.gate = nil
	stub.items = []overseerr.MediaRequest{{ID: 9}}
	stub.mu.Unlock()

	require.NoError(t, c.Load(context.Background()))
	assert.ErrorIs(t, <-first, ErrSuperseded)

	s := c.State()
	require.True(t, s.IsSuccess())
	require.Len(t, s.Data, 1)
	assert.Equal(t, 9, s.Data[0].ID)
}

func TestRequests_RefreshKeepsCurrentView(t *testing.T) {
	stub := &stubRequests{items: []overseerr.MediaRequest{{ID: 1}}}
	c := NewRequests(stub, 10)
	require.NoError(t, c.Load(context.Background()))

	stub.mu.Lock()
	stub.gate = make(chan struct{})
	stub.entered = make(chan struct{}, 1)
	stub.items = []overseerr.MediaRequest{{ID: 1}, {ID: 2}}
	gate, entered := stub.gate, stub.entered
	stub.mu.Unlock()

	done := make(chan error, 1)
	go func() { done <- c.Refresh(context.Background()) }()
	<-entered

	s := c.State()
	assert.True(t, s.IsSuccess())
	assert.True(t, s.Refreshing)
	assert.Len(t, s.Data, 1)

	close(gate)
	require.NoError(t, <-done)
	s = c.State()
	assert.False(t, s.Refreshing)
	assert.Len(t, s.Data, 2)
}

func TestRequests_ChangeFilterReloads(t *testing.T) {
	stub := &stubRequests{}
	c := NewRequests(stub, 10)

	require.NoError(t, c.ChangeFilter(context.Background(), repository.FilterAvailable))
	assert.Equal(t, repository.FilterAvailable, c.State().Filter)
	calls := stub.listCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, repository.FilterAvailable, calls[0].Filter)
}

func TestRequests_ApproveAndDenyReloadUnconditionally(t *testing.T) {
	stub := &stubRequests{items: []overseerr.MediaRequest{{ID: 3}}}
	c := NewRequests(stub, 10)

	require.NoError(t, c.Approve(context.Background(), 3))
	require.NoError(t, c.Deny(context.Background(), 3))

	assert.Equal(t, []overseerr.RequestStatus{overseerr.RequestStatusApproved, overseerr.RequestStatusDeclined}, stub.updates)
	assert.Len(t, stub.listCalls(), 2)
	assert.True(t, c.State().IsSuccess())
}

func TestRequests_ActionFailure(t *testing.T) {
	stub := &stubRequests{updErr: &overseerr.RequestFailedError{StatusCode: http.StatusInternalServerError}}
	c := NewRequests(stub, 10)

	err := c.Approve(context.Background(), 3)
	require.Error(t, err)
	s := c.State()
	require.True(t, s.IsError())
	assert.Equal(t, "Action failed: Server returned 500.", s.Message)
	assert.Empty(t, stub.listCalls())
}

func TestHome_Load(t *testing.T) {
	fake := overseerrtest.New().
		JSON(overseerr.MethodGet, "/discover/movies/upcoming", `{"results":[{"id":1,"title":"Dune"}]}`).
		JSON(overseerr.MethodGet, "/media", `{"results":[]}`).
		JSON(overseerr.MethodGet, "/auth/me", `{"id":1,"username":"owner"}`)
	h := NewHome(repository.NewMedia(fake), repository.NewUsers(fake))

	require.NoError(t, h.Load(context.Background()))
	s := h.State()
	require.True(t, s.IsSuccess())
	assert.Equal(t, "Dune", s.Data.Upcoming[0].Title)
	assert.Equal(t, "owner", s.Data.User.DisplayName())
	assert.Len(t, fake.Calls(), 3)
}

func TestHome_BothListsEmptyIsEmpty(t *testing.T) {
	fake := overseerrtest.New().
		JSON(overseerr.MethodGet, "/discover/movies/upcoming", `{"results":[]}`).
		JSON(overseerr.MethodGet, "/media", `{"results":[]}`).
		JSON(overseerr.MethodGet, "/auth/me", `{"id":2}`)
	h := NewHome(repository.NewMedia(fake), repository.NewUsers(fake))

	require.NoError(t, h.Load(context.Background()))
	assert.True(t, h.State().IsEmpty())
}

func TestHome_AnyFailureFailsWholeLoad(t *testing.T) {
	fake := overseerrtest.New().
		JSON(overseerr.MethodGet, "/discover/movies/upcoming", `{"results":[{"id":1}]}`).
		JSON(overseerr.MethodGet, "/media", `{"results":[{"id":2}]}`).
		Status(overseerr.MethodGet, "/auth/me", http.StatusUnauthorized)
	h := NewHome(repository.NewMedia(fake), repository.NewUsers(fake))

	err := h.Load(context.Background())
	require.Error(t, err)
	s := h.State()
	require.True(t, s.IsError())
	assert.Equal(t, "Not authorized. Please sign in again.", s.Message)
	assert.Empty(t, s.Data.Upcoming)
}

func TestHome_CancelReturnsToIdle(t *testing.T) {
	h := NewHome(repository.NewMedia(overseerrtest.New()), repository.NewUsers(overseerrtest.New()))
	h.Cancel()
	assert.True(t, h.State().IsIdle())
}

func newAuth(t *testing.T, fake *overseerrtest.Fake, attempts int) *auth.Controller {
	t.Helper()
	a, err := auth.New(fake, auth.Config{
		ClientIdentifier: "cid",
		PollInterval:     time.Millisecond,
		MaxAttempts:      attempts,
	})
	require.NoError(t, err)
	t.Cleanup(a.Close)
	return a
}

func TestLogin_SubmitValidatesWithoutIO(t *testing.T) {
	fake := overseerrtest.New()
	l := NewLogin(newAuth(t, fake, 1))

	err := l.Submit(context.Background(), "  ", "pw")
	assert.ErrorIs(t, err, ErrMissingCredentials)
	s := l.State()
	require.True(t, s.IsError())
	assert.Equal(t, "Please enter both email and password.", s.Message)
	assert.Empty(t, fake.Calls())
}

func TestLogin_SubmitMessages(t *testing.T) {
	cases := []struct {
		status int
		want   string
	}{
		{http.StatusUnauthorized, "Invalid credentials."},
		{http.StatusForbidden, "Invalid credentials."},
		{http.StatusInternalServerError, "Login failed. Server returned 500."},
	}
	for _, tc := range cases {
		t.Run(fmt.Sprint(tc.status), func(t *testing.T) {
			fake := overseerrtest.New().Status(overseerr.MethodPost, "/auth/local", tc.status)
			l := NewLogin(newAuth(t, fake, 1))

			require.Error(t, l.Submit(context.Background(), "a@b.com", "x"))
			assert.Equal(t, tc.want, l.State().Message)
		})
	}
}

func TestLogin_SubmitSuccess(t *testing.T) {
	fake := overseerrtest.New().JSON(overseerr.MethodPost, "/auth/local", `{"id":1,"email":"a@b.com"}`)
	a := newAuth(t, fake, 1)
	l := NewLogin(a)

	require.NoError(t, l.Submit(context.Background(), "a@b.com", "x"))
	s := l.State()
	require.True(t, s.IsSuccess())
	assert.True(t, s.Data.IsOwner())
	assert.True(t, a.Session().Authenticated)
}

func TestLogin_StartPlexCompletes(t *testing.T) {
	fake := overseerrtest.New().
		JSON(overseerr.MethodPost, "/api/v2/pins", `{"id":1,"code":"PIN"}`).
		JSON(overseerr.MethodGet, "/api/v2/pins/1", `{"id":1,"code":"PIN","authToken":"tok"}`).
		JSON(overseerr.MethodPost, "/auth/plex", `{"id":4,"username":"plexer"}`)
	l := NewLogin(newAuth(t, fake, 5))

	require.NoError(t, l.StartPlex(context.Background()))
	s := l.State()
	require.True(t, s.IsSuccess())
	assert.Equal(t, "plexer", s.Data.Username)
	assert.Empty(t, s.AuthURL)
}

func TestLogin_StartPlexSurfacesTimeout(t *testing.T) {
	fake := overseerrtest.New().
		JSON(overseerr.MethodPost, "/api/v2/pins", `{"id":1,"code":"PIN"}`).
		JSON(overseerr.MethodGet, "/api/v2/pins/1", `{"id":1,"code":"PIN"}`)
	a := newAuth(t, fake, 3)
	l := NewLogin(a)

	err := l.StartPlex(context.Background())
	assert.ErrorIs(t, err, auth.ErrPinTimeout)
	s := l.State()
	require.True(t, s.IsError())
	assert.Equal(t, "Plex login timed out. Please try again.", s.Message)
	assert.False(t, a.Session().Authenticated)
}

func TestLogin_StartPlexFailureToStart(t *testing.T) {
	fake := overseerrtest.New().Status(overseerr.MethodPost, "/api/v2/pins", http.StatusBadGateway)
	l := NewLogin(newAuth(t, fake, 1))

	require.Error(t, l.StartPlex(context.Background()))
	assert.Equal(t, "Failed to start Plex login: Server returned 502.", l.State().Message)
}

func TestLogin_StartPlexAbortedByLogoutReturnsToIdle(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	fake := overseerrtest.New().
		Handle(overseerr.MethodPost, "/api/v2/pins", func(int, overseerr.Endpoint) (string, error) {
			close(entered)
			<-release
			return `{"id":1,"code":"PIN"}`, nil
		}).
		JSON(overseerr.MethodPost, "/auth/logout", `{}`)
	a := newAuth(t, fake, 5)
	l := NewLogin(a)

	done := make(chan error, 1)
	go func() { done <- l.StartPlex(context.Background()) }()
	<-entered
	require.NoError(t, a.Logout(context.Background()))
	close(release)

	assert.ErrorIs(t, <-done, auth.ErrPinAborted)
	s := l.State()
	assert.True(t, s.IsIdle(), "phase = %s", s.Phase)
	assert.Empty(t, s.AuthURL)
	assert.False(t, a.Session().Authenticated)
}

func TestLogin_CancelDuringPlexWait(t *testing.T) {
	fake := overseerrtest.New().
		JSON(overseerr.MethodPost, "/api/v2/pins", `{"id":1,"code":"PIN"}`).
		JSON(overseerr.MethodGet, "/api/v2/pins/1", `{"id":1,"code":"PIN"}`)
	l := NewLogin(newAuth(t, fake, 100000))

	ch, unsubscribe := l.Subscribe()
	defer unsubscribe()

	done := make(chan error, 1)
	go func() { done <- l.StartPlex(context.Background()) }()

	deadline := time.After(5 * time.Second)
	for l.State().AuthURL == "" {
		select {
		case <-ch:
		case <-deadline:
			t.Fatal("auth URL never published")
		}
	}
	assert.Equal(t, "PIN", l.State().PinCode)

	l.Cancel()
	assert.ErrorIs(t, <-done, ErrSuperseded)
	assert.True(t, l.State().IsIdle())
}

func TestMessage(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{&overseerr.RequestFailedError{StatusCode: 403}, "Not authorized. Please sign in again."},
		{fmt.Errorf("wrap: %w", &overseerr.RequestFailedError{StatusCode: 404}), "Server returned 404."},
		{overseerr.ErrNotImplemented, "This feature is not available yet."},
		{overseerr.ErrInvalidOperation, "That action is not allowed."},
		{overseerr.ErrDecodingFailed, "Unexpected response from the server."},
		{overseerr.ErrInvalidURL, "The server URL is invalid."},
		{fmt.Errorf("%w: %w", overseerr.ErrUnknown, context.DeadlineExceeded), "The server took too long to respond."},
		{fmt.Errorf("%w: dial tcp", overseerr.ErrUnknown), "Could not reach the server."},
		{errors.New("boom"), "boom"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Message(tc.err))
	}
}

func TestSequencer_StaleGenerationDoesNotPublish(t *testing.T) {
	var seq sequencer
	ctx1, gen1 := seq.begin(context.Background())
	_, gen2 := seq.begin(context.Background())

	assert.ErrorIs(t, ctx1.Err(), context.Canceled)
	assert.False(t, seq.publish(gen1, func() { t.Fatal("stale publish ran") }))

	ran := false
	assert.True(t, seq.publish(gen2, func() { ran = true }))
	assert.True(t, ran)
}
