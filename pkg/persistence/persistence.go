// Package persistence provides the data storage abstraction for workflows,
// documents, and chat history.
package persistence

import (
	"context"
	"time"

	"github.com/manishsingh1309/ai-planet/pkg/models"
)

// WorkflowRepository stores workflow graphs. Delete is a soft delete via the
// active flag.
type WorkflowRepository interface {
	Workflows(ctx context.Context) ([]*models.Workflow, error)
	WorkflowByID(ctx context.Context, id string) (*models.Workflow, error)
	SaveWorkflow(ctx context.Context, workflow *models.Workflow) error
	DeleteWorkflow(ctx context.Context, id string) error
}

// DocumentRepository stores uploaded document records.
type DocumentRepository interface {
	Documents(ctx context.Context) ([]*models.Document, error)
	DocumentByID(ctx context.Context, id string) (*models.Document, error)
	SaveDocument(ctx context.Context, document *models.Document) error
	DeleteDocument(ctx context.Context, id string) error
}

// ChatRepository appends and reads the conversation log.
type ChatRepository interface {
	AppendChatEntry(ctx context.Context, entry *models.ChatHistoryEntry) error
	ChatHistory(ctx context.Context, sessionID string) ([]*models.ChatHistoryEntry, error)
	DeleteChatHistory(ctx context.Context, sessionID string) error
	PurgeChatHistoryBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// Persistence aggregates the repositories behind one connection handle.
type Persistence interface {
	WorkflowRepository
	DocumentRepository
	ChatRepository

	HealthCheck(ctx context.Context) error
	Close(ctx context.Context) error
}
