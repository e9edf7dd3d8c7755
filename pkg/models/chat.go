package models

import "time"

// ChatRole tags who produced a chat history entry.
type ChatRole string

const (
	ChatRoleUser      ChatRole = "user"
	ChatRoleAssistant ChatRole = "assistant"
	ChatRoleSystem    ChatRole = "system"
)

// ChatHistoryEntry is one row of the append-only conversation log. Entries are
// never edited or deleted by the executor path; only the retention sweep
// removes whole sessions.
type ChatHistoryEntry struct {
	ID         string         `json:"id"`
	SessionID  string         `json:"session_id"`
	Role       ChatRole       `json:"role"`
	Content    string         `json:"content"`
	WorkflowID string         `json:"workflow_id,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}
