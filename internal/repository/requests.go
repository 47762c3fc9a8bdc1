package repository

import (
	"context"
	"fmt"
	"strconv"

	"github.com/five82/usher/internal/overseerr"
)

// Filter selects requests by status category.
type Filter string

const (
	FilterAll        Filter = "all"
	FilterPending    Filter = "pending"
	FilterApproved   Filter = "approved"
	FilterProcessing Filter = "processing"
	FilterAvailable  Filter = "available"
	FilterFailed     Filter = "failed"
)

// Filters lists the filters in display order.
var Filters = []Filter{FilterPending, FilterApproved, FilterProcessing, FilterAvailable}

// Next returns the filter after f in Filters, wrapping around.
func (f Filter) Next() Filter {
	for i, candidate := range Filters {
		if candidate == f {
			return Filters[(i+1)%len(Filters)]
		}
	}
	return Filters[0]
}

// DefaultPageSize is the page size used when Page.Take is unset.
const DefaultPageSize = 50

// Page selects a window of requests.
type Page struct {
	Take   int
	Skip   int
	Filter Filter
}

// transitions maps each status a request can be moved to by hand onto its
// endpoint suffix.
var transitions = map[overseerr.RequestStatus]string{
	overseerr.RequestStatusApproved: "approve",
	overseerr.RequestStatusDeclined: "decline",
}

// RequestSource is the read/write surface of Requests.
type RequestSource interface {
	List(ctx context.Context, page Page) ([]overseerr.MediaRequest, error)
	UpdateStatus(ctx context.Context, id int, status overseerr.RequestStatus) (overseerr.MediaRequest, error)
}

// Requests lists and moderates media requests.
type Requests struct {
	client overseerr.Requester
}

// NewRequests returns a Requests backed by client.
func NewRequests(client overseerr.Requester) *Requests {
	return &Requests{client: client}
}

// List returns one page of requests, newest first.
func (r *Requests) List(ctx context.Context, page Page) ([]overseerr.MediaRequest, error) {
	take := page.Take
	if take <= 0 {
		take = DefaultPageSize
	}
	skip := max(page.Skip, 0)
	filter := page.Filter
	if filter == "" {
		filter = FilterAll
	}

	ep := overseerr.NewEndpoint("/request",
		overseerr.WithQuery("take", strconv.Itoa(take)),
		overseerr.WithQuery("skip", strconv.Itoa(skip)),
		overseerr.WithQuery("filter", string(filter)),
		overseerr.WithQuery("sort", "added"),
	)
	resp, err := overseerr.Fetch[overseerr.ListResponse[overseerr.MediaRequest]](ctx, r.client, ep)
	if err != nil {
		return nil, err
	}
	return resp.Results, nil
}

// UpdateStatus approves or declines a request and returns it as the server
// now sees it. Any other status fails with ErrInvalidOperation without
// contacting the server.
func (r *Requests) UpdateStatus(ctx context.Context, id int, status overseerr.RequestStatus) (overseerr.MediaRequest, error) {
	action, ok := transitions[status]
	if !ok {
		return overseerr.MediaRequest{}, fmt.Errorf("set request %d to %s: %w", id, status, overseerr.ErrInvalidOperation)
	}
	ep := overseerr.NewEndpoint("/request/"+strconv.Itoa(id)+"/"+action,
		overseerr.WithMethod(overseerr.MethodPost))
	return overseerr.Fetch[overseerr.MediaRequest](ctx, r.client, ep)
}
