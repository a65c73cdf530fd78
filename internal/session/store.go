// Package session persists the authenticated user and bearer token across runs.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"taskflow/internal/config"
	"taskflow/internal/service"
)

// Session pairs the signed-in user with the token that authorizes requests.
type Session struct {
	User  service.User
	Token string
}

// Store keeps the session in two files under the config directory:
// the user record as JSON and the token as plain text.
// A saved session is trusted until a request fails; there is no expiry.
type Store struct {
	cfg *config.Config
	log *zap.Logger
}

// NewStore creates a Store rooted at cfg.Dir.
func NewStore(cfg *config.Config, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{cfg: cfg, log: log}
}

// Load returns the saved session. ok is false when no user is saved or
// the user record cannot be parsed. The token may be empty.
func (s *Store) Load() (sess Session, ok bool) {
	data, err := os.ReadFile(s.cfg.UserPath())
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			s.log.Warn("cannot read saved user", zap.Error(err))
		}
		return Session{}, false
	}

	var user service.User
	if err := json.Unmarshal(data, &user); err != nil {
		s.log.Warn("ignoring unparsable saved user", zap.String("path", s.cfg.UserPath()), zap.Error(err))
		return Session{}, false
	}

	token, err := os.ReadFile(s.cfg.TokenPath())
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		s.log.Warn("cannot read saved token", zap.Error(err))
	}

	return Session{User: user, Token: strings.TrimSpace(string(token))}, true
}

// Save persists user and token, replacing any previous session.
// Files are written with mode 0600.
func (s *Store) Save(sess Session) error {
	if err := s.cfg.EnsureDir(); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(sess.User, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(s.cfg.UserPath(), data, 0600); err != nil {
		return fmt.Errorf("failed to save user: %w", err)
	}

	if sess.Token == "" {
		if err := removeIfExists(s.cfg.TokenPath()); err != nil {
			return fmt.Errorf("failed to remove token: %w", err)
		}
		return nil
	}
	if err := os.WriteFile(s.cfg.TokenPath(), []byte(sess.Token), 0600); err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}
	return nil
}

// Clear removes every saved session file. Clearing an empty store succeeds.
func (s *Store) Clear() error {
	var errs []error
	for _, path := range []string{s.cfg.UserPath(), s.cfg.TokenPath()} {
		if err := removeIfExists(path); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func removeIfExists(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
