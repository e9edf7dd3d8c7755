package services

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/manishsingh1309/ai-planet/pkg/ai"
	"github.com/manishsingh1309/ai-planet/pkg/cache"
	"github.com/manishsingh1309/ai-planet/pkg/models"
	"github.com/manishsingh1309/ai-planet/pkg/persistence"
)

// ErrSessionNotFound is returned when a chat session is not found.
var ErrSessionNotFound = persistence.ErrSessionNotFound

// Chat provides retrieval-augmented conversation over the document store.
type Chat struct {
	persistence persistence.Persistence
	retriever   Retriever
	llm         ai.LLM
	sessions    cache.SessionCache
	logger      *slog.Logger
}

// NewChat creates a new chat service.
func NewChat(
	persistence persistence.Persistence,
	retriever Retriever,
	llm ai.LLM,
	sessions cache.SessionCache,
	logger *slog.Logger,
) *Chat {
	return &Chat{
		persistence: persistence,
		retriever:   retriever,
		llm:         llm,
		sessions:    sessions,
		logger:      logger.With("module", "chat-service"),
	}
}

// ChatRequest carries one chat message.
type ChatRequest struct {
	Content         string
	SessionID       string
	WorkflowContext map[string]any
}

// ChatResponse is the assistant's reply.
type ChatResponse struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
	SessionID string    `json:"session_id"`
}

// Send answers one message with document context and persists both sides of
// the exchange. An absent session id starts a fresh session.
func (c *Chat) Send(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	if strings.TrimSpace(req.Content) == "" {
		return nil, ErrQueryRequired
	}

	documentContext := ""

	matches, err := c.retriever.SearchSimilar(ctx, req.Content, retrievalLimit)
	if err != nil {
		c.logger.WarnContext(ctx, "retrieval failed, continuing without context", "error", err)
	} else {
		documentContext = joinMatches(matches, contextChunkTopN)
	}

	response, err := c.llm.Generate(ctx, ai.GenerateRequest{
		Prompt:      req.Content,
		Context:     documentContext,
		Model:       models.DefaultModel,
		Temperature: models.DefaultTemperature,
	})
	if err != nil {
		return nil, err
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	userEntry := &models.ChatHistoryEntry{
		SessionID: sessionID,
		Role:      models.ChatRoleUser,
		Content:   req.Content,
		Metadata:  req.WorkflowContext,
	}
	if err := c.persistence.AppendChatEntry(ctx, userEntry); err != nil {
		return nil, err
	}

	assistantEntry := &models.ChatHistoryEntry{
		SessionID: sessionID,
		Role:      models.ChatRoleAssistant,
		Content:   response,
		Metadata:  map[string]any{"context_used": documentContext != ""},
	}
	if err := c.persistence.AppendChatEntry(ctx, assistantEntry); err != nil {
		return nil, err
	}

	c.invalidateSession(ctx, sessionID)

	return &ChatResponse{
		Role:      string(models.ChatRoleAssistant),
		Content:   response,
		Timestamp: time.Now().UTC(),
		SessionID: sessionID,
	}, nil
}

// History returns a session's entries in chronological order, going through
// the session cache when one is configured.
func (c *Chat) History(ctx context.Context, sessionID string) ([]*models.ChatHistoryEntry, error) {
	cached, hit, err := c.sessions.GetHistory(ctx, sessionID)
	if err != nil {
		c.logger.WarnContext(ctx, "session cache read failed", "error", err)
	} else if hit {
		return cached, nil
	}

	entries, err := c.persistence.ChatHistory(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if err := c.sessions.SetHistory(ctx, sessionID, entries); err != nil {
		c.logger.WarnContext(ctx, "session cache write failed", "error", err)
	}

	return entries, nil
}

// DeleteHistory removes all entries of a session.
func (c *Chat) DeleteHistory(ctx context.Context, sessionID string) error {
	if err := c.persistence.DeleteChatHistory(ctx, sessionID); err != nil {
		return err
	}

	c.invalidateSession(ctx, sessionID)

	return nil
}

func (c *Chat) invalidateSession(ctx context.Context, sessionID string) {
	if err := c.sessions.Invalidate(ctx, sessionID); err != nil {
		c.logger.WarnContext(ctx, "session cache invalidation failed", "error", err)
	}
}
