// Package session persists the CLI's sign-in state in a YAML file.
package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultServer is used when no server was given at sign-in.
const DefaultServer = "http://localhost:5000"

// ErrNotSignedIn is returned by Load when no session file exists.
var ErrNotSignedIn = errors.New("not signed in, run 'skillswap signin' first")

// Session is the on-disk sign-in state.
type Session struct {
	Server string `yaml:"server"`
	Token  string `yaml:"token"`
	UserID string `yaml:"user_id"`
	Name   string `yaml:"name,omitempty"`
}

// DefaultPath returns ~/.config/skillswap/session.yaml or the OS equivalent.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine config dir: %w", err)
	}
	return filepath.Join(dir, "skillswap", "session.yaml"), nil
}

// Load reads the session at path.
func Load(path string) (*Session, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotSignedIn
	}
	if err != nil {
		return nil, fmt.Errorf("cannot read session: %w", err)
	}

	var s Session
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("cannot parse session %s: %w", path, err)
	}
	if s.Token == "" {
		return nil, ErrNotSignedIn
	}
	if s.Server == "" {
		s.Server = DefaultServer
	}
	return &s, nil
}

// Save writes s to path with owner-only permissions.
func Save(path string, s *Session) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("cannot create config dir: %w", err)
	}
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("cannot encode session: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("cannot write session: %w", err)
	}
	return nil
}

// Clear removes the session file. A missing file is not an error.
func Clear(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("cannot remove session: %w", err)
	}
	return nil
}
