package auth

import (
	"net/http"
)

type Service interface {
	// Access rejects requests without a valid access token.
	Access(next http.HandlerFunc) http.HandlerFunc
	// OptionalAccess attaches the signed-in user to the request context
	// when there is one and lets anonymous requests through untouched.
	OptionalAccess(next http.HandlerFunc) http.HandlerFunc
	SignOut(userID string, accessToken string) (*http.Cookie, *http.Cookie, error)
	// WatchSignOut returns a channel that is closed when userID signs out
	// and a function to stop watching.
	WatchSignOut(userID string) (<-chan struct{}, func())
}
