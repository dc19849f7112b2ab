// pkg/session/store.go

// Package session keeps one invoice builder per form visitor in memory.
package session

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/invoice-builder/pkg/invoice"
)

var (
	// ErrNotFound is returned for unknown or expired sessions.
	ErrNotFound = errors.New("session not found")
	// ErrFull is returned by Create when the store holds its maximum number
	// of live sessions.
	ErrFull = errors.New("too many sessions")
)

type entry struct {
	mu       sync.Mutex
	builder  *invoice.Builder
	lastSeen time.Time
}

// Store is safe for concurrent use. Calls for the same session are
// serialised; different sessions proceed independently.
type Store struct {
	mu      sync.Mutex
	ttl     time.Duration
	max     int
	now     func() time.Time
	newFunc func() *invoice.Builder
	entries map[string]*entry
}

// NewStore evicts sessions idle for longer than ttl and holds at most
// maxSessions live sessions, 0 = unlimited. newBuilder creates the builder
// for each new session.
func NewStore(ttl time.Duration, maxSessions int, newBuilder func() *invoice.Builder) *Store {
	return &Store{
		ttl:     ttl,
		max:     maxSessions,
		now:     time.Now,
		newFunc: newBuilder,
		entries: make(map[string]*entry),
	}
}

// Create starts a session and returns its id.
func (s *Store) Create() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweepLocked()
	if s.max > 0 && len(s.entries) >= s.max {
		return "", ErrFull
	}
	id := uuid.NewString()
	s.entries[id] = &entry{builder: s.newFunc(), lastSeen: s.now()}
	return id, nil
}

// Do runs fn with exclusive access to the session's builder.
func (s *Store) Do(id string, fn func(b *invoice.Builder) error) error {
	s.mu.Lock()
	s.sweepLocked()
	e, ok := s.entries[id]
	if ok {
		e.lastSeen = s.now()
	}
	s.mu.Unlock()
	if !ok {
		return ErrNotFound
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return fn(e.builder)
}

// Delete ends a session. Unknown ids are ignored.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, id)
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *Store) sweepLocked() {
	if s.ttl <= 0 {
		return
	}
	cutoff := s.now().Add(-s.ttl)
	for id, e := range s.entries {
		if e.lastSeen.Before(cutoff) {
			delete(s.entries, id)
		}
	}
}
