// Package overseerrtest provides an in-memory overseerr.Requester for tests.
package overseerrtest

import (
	"context"
	"net/http"
	"sync"

	"github.com/goccy/go-json"

	"github.com/five82/usher/internal/overseerr"
)

// Handler answers the nth call (1-based) to a route with a JSON payload or
// an error.
type Handler func(n int, ep overseerr.Endpoint) (string, error)

// Fake routes requests by "METHOD /path" and records every endpoint it
// receives. Unrouted requests fail with 404.
type Fake struct {
	mu     sync.Mutex
	routes map[string]Handler
	counts map[string]int
	calls  []overseerr.Endpoint
}

// New returns an empty Fake.
func New() *Fake {
	return &Fake{routes: map[string]Handler{}, counts: map[string]int{}}
}

// Handle registers h for method and path.
func (f *Fake) Handle(method overseerr.Method, path string, h Handler) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.routes[key(method, path)] = h
	return f
}

// JSON registers a route that always answers with payload.
func (f *Fake) JSON(method overseerr.Method, path, payload string) *Fake {
	return f.Handle(method, path, func(int, overseerr.Endpoint) (string, error) {
		return payload, nil
	})
}

// Status registers a route that always fails with code.
func (f *Fake) Status(method overseerr.Method, path string, code int) *Fake {
	return f.Handle(method, path, func(_ int, ep overseerr.Endpoint) (string, error) {
		return "", &overseerr.RequestFailedError{StatusCode: code, Method: string(ep.Method()), Path: ep.Path()}
	})
}

// Request implements overseerr.Requester.
func (f *Fake) Request(ctx context.Context, ep overseerr.Endpoint, dest any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	k := key(ep.Method(), ep.Path())
	f.mu.Lock()
	f.calls = append(f.calls, ep)
	f.counts[k]++
	n := f.counts[k]
	h, ok := f.routes[k]
	f.mu.Unlock()

	if !ok {
		return &overseerr.RequestFailedError{StatusCode: http.StatusNotFound, Method: string(ep.Method()), Path: ep.Path()}
	}
	payload, err := h(n, ep)
	if err != nil {
		return err
	}
	if dest == nil {
		return nil
	}
	if payload == "" {
		return overseerr.ErrDecodingFailed
	}
	if err := json.Unmarshal([]byte(payload), dest); err != nil {
		return overseerr.ErrDecodingFailed
	}
	return nil
}

// Calls returns every endpoint received so far.
func (f *Fake) Calls() []overseerr.Endpoint {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]overseerr.Endpoint(nil), f.calls...)
}

// Count returns how many times method and path were requested.
func (f *Fake) Count(method overseerr.Method, path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.counts[key(method, path)]
}

func key(method overseerr.Method, path string) string {
	return string(method) + " " + path
}
