package domain

import "time"

// Message roles within a session.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// Message is one turn of a conversation.
type Message struct {
	// Role is one of "user", "assistant", or "system".
	Role string

	// Content is the message text.
	Content string

	// CreatedAt is when the message was recorded.
	CreatedAt time.Time
}

// Session holds the ordered message history for one session id.
//
// Sessions are mutated append-only and live for the process lifetime.
// There is no persistence and no expiry; concurrent requests racing on
// the same session id are last-write-wins. Single-instance deployments
// only; multi-instance fan-out needs an external session store behind
// the same port.
type Session struct {
	// ID is the session identifier.
	ID string

	// Messages is the ordered conversation history.
	Messages []Message

	// Language is the first language detected for the session, used
	// as the session's language preference.
	Language Language

	// LastUpdated is when the session was last appended to.
	LastUpdated time.Time
}
