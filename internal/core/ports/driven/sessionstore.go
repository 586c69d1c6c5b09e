package driven

import (
	"context"

	"github.com/mhire/khoji/internal/core/domain"
)

// SessionStore holds conversational history keyed by session id.
//
// The store is injected rather than held as ambient global state so
// that single-instance deployments can use the in-memory adapter and
// multi-instance deployments can swap in an external keyed store.
type SessionStore interface {
	// Get returns the session for the given id, or domain.ErrNotFound
	// if no session exists.
	Get(ctx context.Context, sessionID string) (*domain.Session, error)

	// Append adds a message to the session, creating the session if it
	// does not exist. The language is recorded as the session's
	// preference on first non-empty value.
	Append(ctx context.Context, sessionID string, msg domain.Message, language domain.Language) error

	// Clear removes the session and its history.
	Clear(ctx context.Context, sessionID string) error

	// List returns the ids of all live sessions.
	List(ctx context.Context) ([]string, error)
}
