package client

import "errors"

var (
	ErrUnavailable  = errors.New("server unavailable")
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotLoggedIn  = errors.New("not logged in")
	// ErrLocked: the waypoint is not unlocked yet.
	ErrLocked = errors.New("locked")
)
