package mocks

import (
	"context"
	"net/http"

	"programme.xdoubleu.com/internal/auth"
	"programme.xdoubleu.com/internal/constants"
	"programme.xdoubleu.com/internal/models"
)

// NewMockedAuthService returns an auth.Service that treats every request as
// signed in by userID. An empty userID behaves like an anonymous visitor.
func NewMockedAuthService(userID string) auth.Service {
	return &MockedAuthService{
		userID:   userID,
		signOuts: auth.NewSignOuts(),
	}
}

type MockedAuthService struct {
	userID   string
	signOuts *auth.SignOuts
}

func (m *MockedAuthService) user() models.User {
	return models.User{
		ID:    m.userID,
		Email: "user@example.com",
		Name:  "Test User",
	}
}

func (m *MockedAuthService) Access(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if m.userID == "" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), constants.UserContextKey, m.user())
		next(w, r.WithContext(ctx))
	}
}

func (m *MockedAuthService) OptionalAccess(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if m.userID == "" {
			next(w, r)
			return
		}

		ctx := context.WithValue(r.Context(), constants.UserContextKey, m.user())
		next(w, r.WithContext(ctx))
	}
}

func (m *MockedAuthService) SignOut(
	userID string,
	_ string,
) (*http.Cookie, *http.Cookie, error) {
	m.signOuts.Notify(userID)

	return &http.Cookie{Name: "accessToken", MaxAge: -1},
		&http.Cookie{Name: "refreshToken", MaxAge: -1},
		nil
}

func (m *MockedAuthService) WatchSignOut(userID string) (<-chan struct{}, func()) {
	return m.signOuts.Watch(userID)
}
