// Package session keeps live conversation state. Sessions are
// volatile: they exist in process memory only and do not survive a
// restart. Durable transcripts are the store package's concern.
package session

import (
	"errors"
	"regexp"
	"sync"

	"github.com/voxverify/voxverify/internal/domain"
)

// ErrNotFound is returned when a session id has no live session.
var ErrNotFound = errors.New("session not found")

// idPattern bounds identifiers to a safe charset and length so they
// can appear in artifact filenames and URL paths unescaped.
var idPattern = regexp.MustCompile(`^[A-Za-z0-9._:-]{1,128}$`)

// ValidID reports whether id is acceptable as a session identifier.
func ValidID(id string) bool {
	return idPattern.MatchString(id)
}

// Store is the registry the dialogue engine works against.
// With serializes all mutation of one session; Snapshot returns an
// isolated copy so readers never observe a turn mid-mutation.
type Store interface {
	Put(sess *domain.Session)
	With(id string, fn func(*domain.Session) error) error
	Snapshot(id string) (*domain.Session, error)
	Delete(id string)
}

type entry struct {
	mu   sync.Mutex
	sess *domain.Session
}

// MemoryStore is the in-process Store implementation.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]*entry
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]*entry)}
}

// Put registers a session, replacing any existing one under the id.
func (s *MemoryStore) Put(sess *domain.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[sess.ID] = &entry{sess: sess}
}

// With runs fn holding the session's lock. The error from fn is
// returned unchanged so callers can surface their own failures.
func (s *MemoryStore) With(id string, fn func(*domain.Session) error) error {
	s.mu.RLock()
	e, ok := s.entries[id]
	s.mu.RUnlock()
	if !ok {
		return ErrNotFound
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return fn(e.sess)
}

// Snapshot returns a deep copy of the session's current state.
func (s *MemoryStore) Snapshot(id string) (*domain.Session, error) {
	s.mu.RLock()
	e, ok := s.entries[id]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sess.Clone(), nil
}

// Delete removes a session. Absent ids are a no-op.
func (s *MemoryStore) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, id)
}

// Len returns the number of live sessions.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
