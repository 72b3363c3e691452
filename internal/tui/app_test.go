package tui

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"tailor-console/internal/api"
)

func freshToken(t *testing.T) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	signed, err := token.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func TestFreshStartOpensLogin(t *testing.T) {
	m := New(api.Config{Store: &api.MemoryTokenStore{}})
	if m.view != viewLogin {
		t.Errorf("view = %d, want login", m.view)
	}
	if !strings.Contains(m.View(), "Email") {
		t.Error("login view should prompt for credentials")
	}
}

// A stored, unexpired session skips login and opens the dashboard in
// its loading state.
func TestResumedSessionOpensDashboardLoading(t *testing.T) {
	store := &api.MemoryTokenStore{}
	token := freshToken(t)
	if err := store.SetPair(token, token); err != nil {
		t.Fatalf("seed tokens: %v", err)
	}

	m := New(api.Config{Store: store})
	if m.view != viewDashboard {
		t.Fatalf("view = %d, want dashboard", m.view)
	}
	if !m.loading {
		t.Error("resumed dashboard should start in the loading state")
	}
	if !strings.Contains(m.View(), "Loading") {
		t.Error("initial render should show the loading indicator")
	}
}
