package postgresql

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/manishsingh1309/ai-planet/pkg/models"
)

// ChatRepository handles the append-only conversation log.
type ChatRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewChatRepository creates a new chat repository.
func NewChatRepository(db *sql.DB, logger *slog.Logger) *ChatRepository {
	return &ChatRepository{db: db, logger: logger}
}

// Append inserts one history entry. Entries are never updated.
func (r *ChatRepository) Append(ctx context.Context, entry *models.ChatHistoryEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}

	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	metadataJSON, err := json.Marshal(entry.Metadata)
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}

	var workflowID any
	if entry.WorkflowID != "" {
		workflowID = entry.WorkflowID
	}

	query := `
		INSERT INTO chat_history (id, session_id, role, content, workflow_id, created_at, metadata)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err = r.db.ExecContext(ctx, query,
		entry.ID,
		entry.SessionID,
		entry.Role,
		entry.Content,
		workflowID,
		entry.CreatedAt,
		metadataJSON,
	)
	if err != nil {
		return fmt.Errorf("failed to append chat entry: %w", err)
	}

	return nil
}

// History returns a session's entries in chronological order.
func (r *ChatRepository) History(ctx context.Context, sessionID string) ([]*models.ChatHistoryEntry, error) {
	query := `
		SELECT id, session_id, role, content, workflow_id, created_at, metadata
		FROM chat_history
		WHERE session_id = $1
		ORDER BY created_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query chat history: %w", err)
	}

	defer func() {
		if err := rows.Close(); err != nil {
			r.logger.ErrorContext(ctx, "failed to close rows", "error", err)
		}
	}()

	entries := make([]*models.ChatHistoryEntry, 0)

	for rows.Next() {
		var (
			entry        models.ChatHistoryEntry
			workflowID   sql.NullString
			metadataJSON []byte
		)

		err := rows.Scan(
			&entry.ID,
			&entry.SessionID,
			&entry.Role,
			&entry.Content,
			&workflowID,
			&entry.CreatedAt,
			&metadataJSON,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan chat entry: %w", err)
		}

		entry.WorkflowID = workflowID.String

		if metadataJSON != nil {
			if err := json.Unmarshal(metadataJSON, &entry.Metadata); err != nil {
				return nil, fmt.Errorf("failed to unmarshal metadata: %w", err)
			}
		}

		entries = append(entries, &entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating chat history: %w", err)
	}

	return entries, nil
}

// DeleteSession removes all entries of a session.
func (r *ChatRepository) DeleteSession(ctx context.Context, sessionID string) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM chat_history WHERE session_id = $1", sessionID)
	if err != nil {
		return fmt.Errorf("failed to delete chat history: %w", err)
	}

	return nil
}

// PurgeBefore removes all entries older than the cutoff and reports how many
// rows went away. Used by the retention sweep.
func (r *ChatRepository) PurgeBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx, "DELETE FROM chat_history WHERE created_at < $1", cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to purge chat history: %w", err)
	}

	purged, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return purged, nil
}

// Persistence interface delegation.

func (p *Persistence) AppendChatEntry(ctx context.Context, entry *models.ChatHistoryEntry) error {
	return p.chatRepo.Append(ctx, entry)
}

func (p *Persistence) ChatHistory(ctx context.Context, sessionID string) ([]*models.ChatHistoryEntry, error) {
	return p.chatRepo.History(ctx, sessionID)
}

func (p *Persistence) DeleteChatHistory(ctx context.Context, sessionID string) error {
	return p.chatRepo.DeleteSession(ctx, sessionID)
}

func (p *Persistence) PurgeChatHistoryBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	return p.chatRepo.PurgeBefore(ctx, cutoff)
}
