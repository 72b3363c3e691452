package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ExpiryNotifier receives the process-wide session-expired signal. The
// session layer owns the only publisher; the layout-level subscriber in
// the TUI opens the forced-logout modal. This replaces the original's
// ambient global event with an explicit injected observer.
type ExpiryNotifier interface {
	SessionExpired()
}

// ExpiryFunc adapts a plain function to an ExpiryNotifier.
type ExpiryFunc func()

func (f ExpiryFunc) SessionExpired() { f() }

// Transport wraps every outgoing request with the bearer token from the
// store, fails expired sessions locally before sending, and performs at
// most one silent refresh-and-resend per original request on 401.
type Transport struct {
	base       http.RoundTripper
	store      TokenStore
	refreshURL string
	notifier   ExpiryNotifier

	mu      sync.Mutex
	expired bool
}

func NewTransport(base http.RoundTripper, store TokenStore, refreshURL string, notifier ExpiryNotifier) *Transport {
	if base == nil {
		base = http.DefaultTransport
	}
	return &Transport{base: base, store: store, refreshURL: refreshURL, notifier: notifier}
}

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	access, refresh, err := t.store.Tokens()
	if err != nil {
		return nil, fmt.Errorf("load tokens: %w", err)
	}

	out := req.Clone(req.Context())
	out.Header.Set("X-Request-ID", uuid.NewString())

	authenticated := access != ""
	if authenticated {
		// Client-side expiry check before sending: clear tokens,
		// signal expiry, and fail the request locally.
		if tokenExpired(access, expiryLeeway) {
			_ = t.store.Clear()
			t.notifyExpired()
			return nil, ErrSessionExpired
		}
		out.Header.Set("Authorization", "Bearer "+access)
	}

	resp, err := t.base.RoundTrip(out)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusUnauthorized || !authenticated {
		return resp, nil
	}

	// One refresh attempt per original request, then one resend.
	newAccess, refreshErr := t.refreshAccess(req.Context(), refresh)
	if refreshErr != nil {
		drainAndClose(resp.Body)
		log.Printf("api: token refresh failed: %v", refreshErr)
		_ = t.store.Clear()
		t.notifyExpired()
		return nil, ErrSessionExpired
	}
	if err := t.store.SetAccess(newAccess); err != nil {
		drainAndClose(resp.Body)
		return nil, fmt.Errorf("persist refreshed token: %w", err)
	}

	retry := req.Clone(req.Context())
	retry.Header.Set("X-Request-ID", uuid.NewString())
	retry.Header.Set("Authorization", "Bearer "+newAccess)
	if req.GetBody != nil {
		body, err := req.GetBody()
		if err != nil {
			drainAndClose(resp.Body)
			return nil, fmt.Errorf("replay request body: %w", err)
		}
		retry.Body = body
	}
	drainAndClose(resp.Body)
	return t.base.RoundTrip(retry)
}

// refreshAccess exchanges the refresh token for a new access token.
// It goes through the base transport directly so the exchange is never
// itself intercepted.
func (t *Transport) refreshAccess(ctx context.Context, refresh string) (string, error) {
	if refresh == "" {
		return "", fmt.Errorf("no refresh token stored")
	}

	payload, err := json.Marshal(map[string]string{"refresh": refresh})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.refreshURL, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{Transport: t.base, Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer drainAndClose(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("refresh rejected with status %d", resp.StatusCode)
	}
	var body struct {
		Access string `json:"access"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("decode refresh response: %w", err)
	}
	if body.Access == "" {
		return "", fmt.Errorf("refresh response missing access token")
	}
	return body.Access, nil
}

// notifyExpired signals the observers at most once per session. Reset
// re-arms the latch after a successful login.
func (t *Transport) notifyExpired() {
	t.mu.Lock()
	already := t.expired
	t.expired = true
	t.mu.Unlock()

	if !already && t.notifier != nil {
		t.notifier.SessionExpired()
	}
}

// Reset re-arms the expiry notification after a new session begins.
func (t *Transport) Reset() {
	t.mu.Lock()
	t.expired = false
	t.mu.Unlock()
}

func drainAndClose(body io.ReadCloser) {
	_, _ = io.Copy(io.Discard, io.LimitReader(body, 1<<16))
	_ = body.Close()
}
