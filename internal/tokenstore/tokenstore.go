// Package tokenstore keeps the caller's session token between command invocations.
// The token is opaque: it is stored and returned exactly as given.
package tokenstore

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/natefinch/atomic"
	portal "github.com/virtual-vgo/portal"
)

// ErrNoToken is returned by Load when no token has been saved.
var ErrNoToken = errors.New("no saved session token")

type Store struct {
	path string
}

func New(path string) *Store {
	return &Store{path: path}
}

// DefaultPath is <user config dir>/vvgo/token.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locating user config directory: %w", err)
	}
	return filepath.Join(dir, portal.ConfigDirName, portal.TokenFileName), nil
}

func (s *Store) Path() string {
	return s.path
}

func (s *Store) Load() (string, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", ErrNoToken
	}
	if err != nil {
		return "", fmt.Errorf("reading token file: %w", err)
	}

	token := strings.TrimSpace(string(data))
	if token == "" {
		return "", ErrNoToken
	}
	return token, nil
}

// Save replaces the stored token. The file is only readable by the current user.
func (s *Store) Save(token string) error {
	if token == "" {
		return fmt.Errorf("refusing to save an empty token")
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("creating token directory: %w", err)
	}

	if err := atomic.WriteFile(s.path, strings.NewReader(token+"\n")); err != nil {
		return fmt.Errorf("writing token file: %w", err)
	}

	if err := os.Chmod(s.path, 0o600); err != nil {
		return fmt.Errorf("setting token file permissions: %w", err)
	}
	return nil
}

// Clear removes the stored token. Clearing an empty store is not an error.
func (s *Store) Clear() error {
	err := os.Remove(s.path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("removing token file: %w", err)
	}
	return nil
}
