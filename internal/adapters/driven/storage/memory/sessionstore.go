package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/mhire/khoji/internal/core/domain"
	"github.com/mhire/khoji/internal/core/ports/driven"
)

// Ensure SessionStore implements the interface.
var _ driven.SessionStore = (*SessionStore)(nil)

// SessionStore is an in-memory implementation of driven.SessionStore.
// Sessions live for the process lifetime; there is no expiry.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*domain.Session
}

// NewSessionStore creates a new in-memory session store.
func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*domain.Session),
	}
}

// Get returns the session for the given id.
func (s *SessionStore) Get(_ context.Context, sessionID string) (*domain.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[sessionID]
	if !ok {
		return nil, domain.ErrNotFound
	}

	// Copy so callers cannot mutate stored history.
	copied := *session
	copied.Messages = make([]domain.Message, len(session.Messages))
	copy(copied.Messages, session.Messages)
	return &copied, nil
}

// Append adds a message to the session, creating the session if needed.
// The language is recorded as the session preference on first non-empty
// value.
func (s *SessionStore) Append(_ context.Context, sessionID string, msg domain.Message, language domain.Language) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[sessionID]
	if !ok {
		session = &domain.Session{ID: sessionID}
		s.sessions[sessionID] = session
	}

	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now().UTC()
	}
	session.Messages = append(session.Messages, msg)
	if session.Language == "" && language != "" {
		session.Language = language
	}
	session.LastUpdated = msg.CreatedAt
	return nil
}

// Clear removes the session and its history.
func (s *SessionStore) Clear(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
	return nil
}

// List returns the ids of all live sessions, sorted for deterministic
// output.
func (s *SessionStore) List(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.sessions))
	for id := range s.sessions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}
