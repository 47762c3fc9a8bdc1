package repository

import (
	"context"
	"strconv"

	"github.com/five82/usher/internal/overseerr"
)

// UserPageSize is the fixed page size for user listings.
const UserPageSize = 100

// UserSource is the read side of Users.
type UserSource interface {
	CurrentUser(ctx context.Context) (overseerr.User, error)
	All(ctx context.Context) ([]overseerr.User, error)
}

// Users reads accounts.
type Users struct {
	client overseerr.Requester
}

// NewUsers returns a Users backed by client.
func NewUsers(client overseerr.Requester) *Users {
	return &Users{client: client}
}

// CurrentUser returns the signed-in account.
func (u *Users) CurrentUser(ctx context.Context) (overseerr.User, error) {
	return overseerr.Fetch[overseerr.User](ctx, u.client, overseerr.NewEndpoint("/auth/me"))
}

// All returns the first page of accounts.
func (u *Users) All(ctx context.Context) ([]overseerr.User, error) {
	ep := overseerr.NewEndpoint("/user", overseerr.WithQuery("take", strconv.Itoa(UserPageSize)))
	resp, err := overseerr.Fetch[overseerr.ListResponse[overseerr.User]](ctx, u.client, ep)
	if err != nil {
		return nil, err
	}
	return resp.Results, nil
}
