// Package auth owns the authentication session.
//
// Two flows sign a user in: Login posts email and password to the server,
// and StartPlexLogin issues a Plex PIN whose approval is polled in the
// background by a PinTask. Both end in the same Session shape, which other
// components read through Session and Subscribe. Only the Controller writes
// it, always by replacing the whole snapshot, so Authenticated and User
// never disagree.
//
// A PinTask finishes with exactly one Outcome: Completed, TimedOut after
// Config.MaxAttempts polls, Cancelled by the caller (or by Logout or a newer
// PIN login), or Failed when the server rejects the Plex token. Transient
// errors while polling are logged and do not end the task.
package auth
