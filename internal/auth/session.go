package auth

import "github.com/five82/usher/internal/overseerr"

// PendingPin tracks an in-flight Plex PIN login.
type PendingPin struct {
	ID        int
	Code      string
	AuthToken string
}

// Session is a snapshot of authentication state. Authenticated is true
// exactly when User is non-nil.
type Session struct {
	Authenticated bool
	User          *overseerr.User
	PendingPin    *PendingPin
}

// CurrentUser returns a copy of the signed-in user, or nil.
func (s Session) CurrentUser() *overseerr.User {
	if s.User == nil {
		return nil
	}
	u := *s.User
	return &u
}

func authenticated(user overseerr.User) Session {
	return Session{Authenticated: true, User: &user}
}
