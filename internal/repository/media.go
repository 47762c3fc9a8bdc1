package repository

import (
	"context"
	"fmt"
	"strconv"

	"github.com/five82/usher/internal/overseerr"
)

// RecentMediaCount is how many recently added items Recent asks for.
const RecentMediaCount = 20

// MediaSource is the read side of Media.
type MediaSource interface {
	Upcoming(ctx context.Context) ([]overseerr.Movie, error)
	Recent(ctx context.Context) ([]overseerr.Media, error)
	Search(ctx context.Context, query string) ([]overseerr.Media, error)
}

// Media reads titles and discovery lists.
type Media struct {
	client overseerr.Requester
}

// NewMedia returns a Media backed by client.
func NewMedia(client overseerr.Requester) *Media {
	return &Media{client: client}
}

// Upcoming returns movies with an upcoming release.
func (m *Media) Upcoming(ctx context.Context) ([]overseerr.Movie, error) {
	resp, err := overseerr.Fetch[overseerr.ListResponse[overseerr.Movie]](ctx, m.client,
		overseerr.NewEndpoint("/discover/movies/upcoming"))
	if err != nil {
		return nil, err
	}
	return resp.Results, nil
}

// Recent returns the most recently added media, newest first.
func (m *Media) Recent(ctx context.Context) ([]overseerr.Media, error) {
	ep := overseerr.NewEndpoint("/media",
		overseerr.WithQuery("take", strconv.Itoa(RecentMediaCount)),
		overseerr.WithQuery("sort", "mediaAdded"),
	)
	resp, err := overseerr.Fetch[overseerr.ListResponse[overseerr.Media]](ctx, m.client, ep)
	if err != nil {
		return nil, err
	}
	return resp.Results, nil
}

// Search is not supported yet: /search mixes movies, shows and people in
// one result list.
func (m *Media) Search(_ context.Context, query string) ([]overseerr.Media, error) {
	return nil, fmt.Errorf("search %q: %w", query, overseerr.ErrNotImplemented)
}
