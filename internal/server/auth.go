package server

import (
	"net/http"
	"strings"
)

// userFromRequest resolves the Bearer session token to a user session.
func userFromRequest(r *http.Request, store Store) (userSession, error) {
	auth := r.Header.Get("Authorization")
	token, found := strings.CutPrefix(auth, "Bearer ")
	if !found || token == "" {
		return userSession{}, errNoSession
	}
	return store.UserFromSession(r.Context(), token)
}

// optionalUserID returns the authenticated user id, or "" for guests.
// Guests get a deterministic, never-persisted variant resolution.
func optionalUserID(r *http.Request, store Store) string {
	sess, err := userFromRequest(r, store)
	if err != nil {
		return ""
	}
	return sess.UserID
}
