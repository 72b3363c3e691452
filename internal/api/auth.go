package api

import (
	"context"
	"fmt"
	"net/http"

	"tailor-console/internal/core"
)

// AuthService covers the /auth/ endpoints. Login and Logout also own
// the token store side effects so callers never touch tokens directly.
type AuthService struct {
	c *Client
}

// Session is the login response: token pair plus the authenticated user.
type Session struct {
	Access  string    `json:"access"`
	Refresh string    `json:"refresh"`
	User    core.User `json:"user"`
}

// Login exchanges credentials for a token pair, persists it, and
// re-arms the session-expiry notification.
func (s *AuthService) Login(ctx context.Context, email, password string) (*Session, error) {
	body := map[string]string{"email": email, "password": password}
	var session Session
	if err := s.c.send(ctx, http.MethodPost, "/auth/login/", body, &session); err != nil {
		return nil, err
	}
	if err := s.c.store.SetPair(session.Access, session.Refresh); err != nil {
		return nil, fmt.Errorf("persist session: %w", err)
	}
	s.c.transport.Reset()
	return &session, nil
}

// Me returns the current user's profile.
func (s *AuthService) Me(ctx context.Context) (*core.User, error) {
	var user core.User
	if err := s.c.get(ctx, "/auth/me/", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Logout tells the backend the session is over, then clears the stored
// tokens regardless of whether the call succeeded.
func (s *AuthService) Logout(ctx context.Context) error {
	err := s.c.send(ctx, http.MethodPost, "/auth/logout/", nil, nil)
	if clearErr := s.c.store.Clear(); clearErr != nil && err == nil {
		err = clearErr
	}
	return err
}

// HasSession reports whether a usable (present and unexpired) access
// token is stored.
func (s *AuthService) HasSession() bool {
	access, _, err := s.c.store.Tokens()
	if err != nil || access == "" {
		return false
	}
	return !tokenExpired(access, expiryLeeway)
}
