// Package client is the consumer-side API client: a thin resty wrapper
// around the HTTP surface plus a file-persisted session, used by the CLI.
package client

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	"github.com/dmatos/fintrack-api-go/internal/domain"
)

// Session is the persisted authentication state. It mirrors what the
// server hands out at login: the profile, the bearer token and a flag the
// CLI can check without parsing the token.
type Session struct {
	User            *domain.Profile `json:"user"`
	Token           string          `json:"token"`
	IsAuthenticated bool            `json:"isAuthenticated"`
}

// SessionStore loads and saves the session file. The file lives in the
// user's config directory and holds no secrets beyond the bearer token,
// so it is written with owner-only permissions.
type SessionStore struct {
	path string
}

// NewSessionStore creates a store at an explicit path, or the default
// location under the user config dir when path is empty.
func NewSessionStore(path string) (*SessionStore, error) {
	if path == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return nil, err
		}
		path = filepath.Join(dir, "fintrack", "session.json")
	}
	return &SessionStore{path: path}, nil
}

// Load reads the saved session. A missing file is an empty, logged-out
// session, not an error.
func (s *SessionStore) Load() (*Session, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Session{}, nil
		}
		return nil, err
	}

	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		// Corrupt file: treat as logged out rather than blocking the CLI.
		return &Session{}, nil
	}
	return &session, nil
}

// Save persists the session.
func (s *SessionStore) Save(session *Session) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o600)
}

// Clear removes the session file.
func (s *SessionStore) Clear() error {
	err := os.Remove(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
