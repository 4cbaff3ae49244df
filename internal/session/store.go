// Package session holds the ephemeral per-user conversational state during
// intake. Sessions live in memory only: created on a user's first event,
// destroyed on finalize, cancel, or identity conflict.
package session

import (
	"sync"
	"time"

	"github.com/avolkhin/deskbot/internal/domain"
)

// Store is a keyed session store that also serializes access: events for the
// same user are processed one at a time, while distinct users proceed
// concurrently. Arrival order is the dispatcher's job; the locks here only
// guarantee mutual exclusion.
type Store struct {
	mu      sync.Mutex
	entries map[int64]*entry
}

type entry struct {
	mu   sync.Mutex
	gone bool // set when the session was destroyed while waiters were queued
	sess *domain.Session
}

// NewStore creates an empty session store.
func NewStore() *Store {
	return &Store{entries: make(map[int64]*entry)}
}

// With runs fn with the user's session while holding that user's lock.
// The session is created in StateIdle on first use. fn returns whether to
// keep the session; returning false destroys it, so the next event starts
// from a fresh Idle session.
func (s *Store) With(userID, chatID int64, fn func(sess *domain.Session) (keep bool)) {
	e := s.acquire(userID, chatID)

	if fn(e.sess) {
		e.sess.UpdatedAt = time.Now()
		e.mu.Unlock()
		return
	}

	// Destroy: mark the entry dead before releasing its lock so queued
	// waiters retry against the map instead of resurrecting it.
	e.gone = true
	e.mu.Unlock()

	s.mu.Lock()
	if cur, ok := s.entries[userID]; ok && cur == e {
		delete(s.entries, userID)
	}
	s.mu.Unlock()
}

// acquire returns the user's entry with its lock held, creating the session
// if needed.
func (s *Store) acquire(userID, chatID int64) *entry {
	for {
		s.mu.Lock()
		e, ok := s.entries[userID]
		if !ok {
			now := time.Now()
			e = &entry{sess: &domain.Session{
				UserID:    userID,
				ChatID:    chatID,
				State:     domain.StateIdle,
				CreatedAt: now,
				UpdatedAt: now,
			}}
			s.entries[userID] = e
		}
		s.mu.Unlock()

		e.mu.Lock()
		if !e.gone {
			return e
		}
		// Entry was destroyed between map lookup and lock; start over.
		e.mu.Unlock()
	}
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Snapshot returns a copy of the user's session, or nil if none exists.
// Intended for tests and introspection; it does not create a session.
func (s *Store) Snapshot(userID int64) *domain.Session {
	s.mu.Lock()
	e, ok := s.entries[userID]
	s.mu.Unlock()
	if !ok {
		return nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.gone {
		return nil
	}
	cp := *e.sess
	cp.Items = append([]domain.ContentItem(nil), e.sess.Items...)
	return &cp
}
