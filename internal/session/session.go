// Package session holds the identity of the logged-in user. A Session is
// passed explicitly to every view that needs it.
package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"medconnect/internal/models"
)

// ErrNoSession is returned by Store.Load when nobody is logged in.
var ErrNoSession = errors.New("session: not logged in")

// Session is the logged-in user's token and identity.
type Session struct {
	token  string
	UserID string
	Role   models.Role
	Name   string
}

type claims struct {
	UserID string      `json:"user_id"`
	Role   models.Role `json:"role"`
	Name   string      `json:"name"`
	jwt.RegisteredClaims
}

// FromToken builds a Session from a bearer token. The signature is not
// verified; only the server can do that.
func FromToken(token string) (*Session, error) {
	var c claims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &c); err != nil {
		return nil, fmt.Errorf("session: parse token: %w", err)
	}
	if c.UserID == "" {
		c.UserID = c.Subject
	}
	if c.UserID == "" {
		return nil, errors.New("session: token carries no user id")
	}
	return &Session{token: token, UserID: c.UserID, Role: c.Role, Name: c.Name}, nil
}

// Token returns the bearer token. A nil Session has none.
func (s *Session) Token() string {
	if s == nil {
		return ""
	}
	return s.token
}

// IsAdmin reports whether the user is an administrator.
func (s *Session) IsAdmin() bool { return s != nil && s.Role == models.RoleAdmin }

// IsDoctor reports whether the user is a verified doctor.
func (s *Session) IsDoctor() bool { return s != nil && s.Role == models.RoleDoctor }

// Store persists the token in a file.
type Store struct {
	Path string
}

// Load reads the stored token and decodes it.
func (st Store) Load() (*Session, error) {
	raw, err := os.ReadFile(st.Path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, fmt.Errorf("session: read %s: %w", st.Path, err)
	}
	token := strings.TrimSpace(string(raw))
	if token == "" {
		return nil, ErrNoSession
	}
	return FromToken(token)
}

// Save writes the session's token, readable by the owner only.
func (st Store) Save(s *Session) error {
	if err := os.MkdirAll(filepath.Dir(st.Path), 0o700); err != nil {
		return fmt.Errorf("session: create dir: %w", err)
	}
	if err := os.WriteFile(st.Path, []byte(s.Token()), 0o600); err != nil {
		return fmt.Errorf("session: write %s: %w", st.Path, err)
	}
	return nil
}

// Clear removes the stored token. Clearing an absent token is not an error.
func (st Store) Clear() error {
	if err := os.Remove(st.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("session: remove %s: %w", st.Path, err)
	}
	return nil
}
