// Package session models the per-client authentication state.
//
// A Session is either Anonymous or Authenticated(userID). It is a plain value:
// handlers receive one with each request and return the one that should be
// stored afterwards, so the state machine can be exercised without HTTP.
package session

// Session is the authentication state of one client.
type Session struct {
	userID        uint64
	authenticated bool
}

// Anonymous returns a session with no bound user.
func Anonymous() Session {
	return Session{}
}

// Authenticated returns a session bound to userID.
func Authenticated(userID uint64) Session {
	return Session{userID: userID, authenticated: true}
}

// UserID returns the bound user ID and whether one is bound.
func (s Session) UserID() (uint64, bool) {
	return s.userID, s.authenticated
}

// IsAuthenticated reports whether a user is bound.
func (s Session) IsAuthenticated() bool {
	return s.authenticated
}
