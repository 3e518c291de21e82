package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Store persists the bearer token pair across process restarts. It is the
// sole owner of the pair: created on login, destroyed on logout, otherwise
// immutable. A missing file is not an error; it reads as "logged out".
// Real storage failures (permissions, disk) propagate to the caller.
type Store struct {
	path string
}

func NewStore(path string) *Store { return &Store{path: path} }

// DefaultStorePath places the token file under the user's config directory.
func DefaultStorePath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("token store: resolve config dir: %w", err)
	}
	return filepath.Join(dir, "shopctl", "tokens.json"), nil
}

type tokenFile struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// SetTokens stores both values, overwriting any prior pair. Token shape is
// not validated here.
func (s *Store) SetTokens(access, refresh string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("token store: %w", err)
	}
	b, err := json.Marshal(tokenFile{Access: access, Refresh: refresh})
	if err != nil {
		return fmt.Errorf("token store: encode: %w", err)
	}
	// Write-then-rename so a crash never leaves a half-written pair.
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		return fmt.Errorf("token store: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("token store: %w", err)
	}
	return nil
}

// AccessToken returns the stored access token, or "" if none was ever set.
func (s *Store) AccessToken() (string, error) {
	f, err := s.read()
	if err != nil {
		return "", err
	}
	return f.Access, nil
}

// RefreshToken returns the stored refresh token, or "" if none was ever set.
func (s *Store) RefreshToken() (string, error) {
	f, err := s.read()
	if err != nil {
		return "", err
	}
	return f.Refresh, nil
}

// Clear removes both values. Clearing an already-empty store is a no-op.
func (s *Store) Clear() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("token store: %w", err)
	}
	return nil
}

func (s *Store) read() (tokenFile, error) {
	b, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return tokenFile{}, nil
	}
	if err != nil {
		return tokenFile{}, fmt.Errorf("token store: %w", err)
	}
	var f tokenFile
	if err := json.Unmarshal(b, &f); err != nil {
		return tokenFile{}, fmt.Errorf("token store: decode: %w", err)
	}
	return f, nil
}
