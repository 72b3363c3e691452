package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// expiryLeeway treats a token as expired this long before its exp claim,
// matching the 5-minute buffer the request path has always used.
const expiryLeeway = 5 * time.Minute

// TokenStore persists the access/refresh token pair across runs. It is
// the only cross-view shared mutable resource besides the expiry
// notifier.
type TokenStore interface {
	Tokens() (access, refresh string, err error)
	SetAccess(access string) error
	SetPair(access, refresh string) error
	Clear() error
}

type tokenFile struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// FileTokenStore keeps the token pair in a mode-0600 JSON file, the
// terminal counterpart of the browser's localStorage entries.
type FileTokenStore struct {
	mu   sync.Mutex
	path string
}

func NewFileTokenStore(path string) *FileTokenStore {
	return &FileTokenStore{path: path}
}

// DefaultTokenPath returns the token file location under the user
// config directory.
func DefaultTokenPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config dir: %w", err)
	}
	return filepath.Join(dir, "tailor-console", "tokens.json"), nil
}

func (s *FileTokenStore) Tokens() (string, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return "", "", nil
	}
	if err != nil {
		return "", "", fmt.Errorf("read token file: %w", err)
	}
	var tf tokenFile
	if err := json.Unmarshal(data, &tf); err != nil {
		return "", "", fmt.Errorf("parse token file: %w", err)
	}
	return tf.Access, tf.Refresh, nil
}

func (s *FileTokenStore) SetAccess(access string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tf, err := s.read()
	if err != nil {
		return err
	}
	tf.Access = access
	return s.write(tf)
}

func (s *FileTokenStore) SetPair(access, refresh string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(tokenFile{Access: access, Refresh: refresh})
}

func (s *FileTokenStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

func (s *FileTokenStore) read() (tokenFile, error) {
	var tf tokenFile
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return tf, nil
	}
	if err != nil {
		return tf, fmt.Errorf("read token file: %w", err)
	}
	if err := json.Unmarshal(data, &tf); err != nil {
		return tf, fmt.Errorf("parse token file: %w", err)
	}
	return tf, nil
}

func (s *FileTokenStore) write(tf tokenFile) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create token dir: %w", err)
	}
	data, err := json.Marshal(tf)
	if err != nil {
		return err
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("write token file: %w", err)
	}
	return nil
}

// MemoryTokenStore is an in-memory TokenStore for tests.
type MemoryTokenStore struct {
	mu      sync.Mutex
	access  string
	refresh string
}

func (s *MemoryTokenStore) Tokens() (string, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.access, s.refresh, nil
}

func (s *MemoryTokenStore) SetAccess(access string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.access = access
	return nil
}

func (s *MemoryTokenStore) SetPair(access, refresh string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.access, s.refresh = access, refresh
	return nil
}

func (s *MemoryTokenStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.access, s.refresh = "", ""
	return nil
}

// tokenExpired decodes the token's exp claim without verifying the
// signature — the client does not hold the signing key — and reports
// whether the token is expired or will be within the leeway window.
// Unparseable tokens count as expired.
func tokenExpired(token string, leeway time.Duration) bool {
	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return true
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return true
	}
	return exp.Before(time.Now().Add(leeway))
}
