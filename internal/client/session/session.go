// Package session persists the client's login state: the email and the
// opaque session token returned by the server.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"

	"github.com/dmitrijs2005/gophauth/internal/filex"
)

// ErrNoSession is returned by Load when nothing is stored.
var ErrNoSession = errors.New("no stored session")

// Session is what the client keeps between runs. Token is never inspected.
type Session struct {
	Email string `json:"email"`
	Token string `json:"token"`
}

// Store keeps one Session in a JSON file readable only by the owner.
type Store struct {
	path string

	mu      sync.Mutex
	current *Session
	loaded  bool
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

func (s *Store) Path() string { return s.path }

// Load reads the stored session. The result is cached.
func (s *Store) Load() (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked()
}

func (s *Store) loadLocked() (*Session, error) {
	if s.loaded {
		if s.current == nil {
			return nil, ErrNoSession
		}
		cp := *s.current
		return &cp, nil
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.loaded = true
			return nil, ErrNoSession
		}
		return nil, fmt.Errorf("read session: %w", err)
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("parse session %s: %w", s.path, err)
	}

	s.loaded = true
	if sess.Token == "" {
		return nil, ErrNoSession
	}
	s.current = &sess
	cp := sess
	return &cp, nil
}

// Save replaces the stored session.
func (s *Store) Save(sess Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := filex.WriteFileAtomic(s.path, data, 0o600); err != nil {
		return err
	}
	s.current = &sess
	s.loaded = true
	return nil
}

// Clear forgets the stored session. Clearing an empty store is not an error.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove session: %w", err)
	}
	s.current = nil
	s.loaded = true
	return nil
}

// Token returns the stored token or "" when there is none or it cannot be
// read.
func (s *Store) Token() string {
	sess, err := s.Load()
	if err != nil {
		return ""
	}
	return sess.Token
}
