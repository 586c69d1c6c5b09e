package driving

import (
	"context"
	"time"

	"github.com/mhire/khoji/internal/core/domain"
)

// ChatService answers queries from retrieved context, keeping
// per-session conversational history.
type ChatService interface {
	// Ask retrieves context for the message, generates an answer
	// conditioned on it, and appends both turns to the session.
	Ask(ctx context.Context, sessionID, message string) (*ChatTurn, error)

	// AskWithEvaluation runs Ask and additionally evaluates the
	// generated answer against the retrieved context and documents.
	// Evaluation failures degrade to worst-case scores; they never
	// fail the answer itself.
	AskWithEvaluation(ctx context.Context, sessionID, message string) (*EvaluatedChatTurn, error)

	// History returns the stored session, or domain.ErrNotFound.
	History(ctx context.Context, sessionID string) (*domain.Session, error)

	// ClearSession removes a session and its history.
	ClearSession(ctx context.Context, sessionID string) error

	// Sessions returns the ids of all live sessions.
	Sessions(ctx context.Context) ([]string, error)
}

// ChatTurn is the outcome of one answered message.
type ChatTurn struct {
	// SessionID is the session the turn belongs to.
	SessionID string

	// Answer is the generated response.
	Answer string

	// Language is the language detected on the user message.
	Language domain.Language

	// Sources are the context documents the answer drew on.
	Sources []domain.SourceAttribution

	// Elapsed is the end-to-end processing time.
	Elapsed time.Duration
}

// EvaluatedChatTurn is a ChatTurn plus its quality evaluation.
type EvaluatedChatTurn struct {
	ChatTurn

	// Evaluation is the combined groundedness/relevance verdict.
	Evaluation domain.EvaluationResult
}
