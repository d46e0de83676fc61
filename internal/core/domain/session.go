package domain

import "time"

// Session binds a request to an authenticated identity. It lives server-side,
// keyed by an opaque ID; the browser only ever holds the ID. IsAdmin is a
// snapshot taken at login; privileged operations must re-read the
// authoritative User record instead of trusting it.
type Session struct {
	ID        string
	UserID    int64
	Username  string
	IsAdmin   bool
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Expired reports whether the session's absolute expiry has passed.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
