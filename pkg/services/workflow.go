package services

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/manishsingh1309/ai-planet/pkg/ai"
	"github.com/manishsingh1309/ai-planet/pkg/models"
	"github.com/manishsingh1309/ai-planet/pkg/persistence"
	"github.com/manishsingh1309/ai-planet/pkg/vectorstore"
	"github.com/manishsingh1309/ai-planet/pkg/workflow"
)

// ErrWorkflowNotFound is returned when a workflow is not found.
var ErrWorkflowNotFound = persistence.ErrWorkflowNotFound

// Retrieval window for the query path. The store returns up to five nearest
// chunks; the top three feed the generation context.
const (
	retrievalLimit   = 5
	contextChunkTopN = 3
)

// Retriever finds document chunks similar to a query.
type Retriever interface {
	SearchSimilar(ctx context.Context, query string, limit int) ([]vectorstore.Match, error)
}

// Workflow provides workflow management and execution.
type Workflow struct {
	persistence persistence.Persistence
	executor    *workflow.Executor
	retriever   Retriever
	searcher    ai.Searcher
	llm         ai.LLM
	logger      *slog.Logger
}

// NewWorkflow creates a new workflow service.
func NewWorkflow(
	persistence persistence.Persistence,
	executor *workflow.Executor,
	retriever Retriever,
	searcher ai.Searcher,
	llm ai.LLM,
	logger *slog.Logger,
) *Workflow {
	return &Workflow{
		persistence: persistence,
		executor:    executor,
		retriever:   retriever,
		searcher:    searcher,
		llm:         llm,
		logger:      logger.With("module", "workflow-service"),
	}
}

// HealthCheck checks the health of the persistence layer.
func (w *Workflow) HealthCheck(ctx context.Context) (string, bool) {
	if w.persistence == nil {
		return "Persistence layer not initialized", false
	}

	err := w.persistence.HealthCheck(ctx)
	if err != nil {
		return "Persistence layer is unhealthy: " + err.Error(), false
	}

	return "Persistence layer is healthy", true
}

// List returns all active workflows, newest first.
func (w *Workflow) List(ctx context.Context) ([]*models.Workflow, error) {
	return w.persistence.Workflows(ctx)
}

// Get returns one active workflow.
func (w *Workflow) Get(ctx context.Context, id string) (*models.Workflow, error) {
	return w.persistence.WorkflowByID(ctx, id)
}

// Save creates or updates a workflow definition.
func (w *Workflow) Save(ctx context.Context, wf *models.Workflow) error {
	if wf == nil {
		return ErrWorkflowNil
	}

	if strings.TrimSpace(wf.Name) == "" {
		return ErrWorkflowNameRequired
	}

	// The editor's default edge style; edges arriving without one get it here
	// so every stored edge renders the same way on reload.
	for _, edge := range wf.Edges {
		if edge != nil && edge.Type == "" {
			edge.Type = models.DefaultEdgeType
		}
	}

	wf.Active = true

	return w.persistence.SaveWorkflow(ctx, wf)
}

// Delete soft deletes a workflow.
func (w *Workflow) Delete(ctx context.Context, id string) error {
	return w.persistence.DeleteWorkflow(ctx, id)
}

// ExecuteEnhanced runs the five-checkpoint executor over a saved workflow.
// Structural and runtime faults surface inside the returned status, not as
// errors; only a missing workflow is an error.
func (w *Workflow) ExecuteEnhanced(ctx context.Context, id string, req workflow.Request) (*models.ExecutionStatus, error) {
	wf, err := w.persistence.WorkflowByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return w.executor.Execute(ctx, wf, req), nil
}

// ExecuteRequest carries one retrieval-augmented query invocation.
type ExecuteRequest struct {
	Query        string
	UseContext   bool
	UseWebSearch bool
}

// ExecuteResult is the response of the retrieval-augmented query path.
type ExecuteResult struct {
	SessionID     string    `json:"session_id"`
	Query         string    `json:"query"`
	Response      string    `json:"response"`
	ContextUsed   bool      `json:"context_used"`
	WebSearchUsed bool      `json:"web_search_used"`
	Timestamp     time.Time `json:"timestamp"`
}

// Execute runs the retrieval-augmented query path against a workflow: nearest
// document chunks plus optional web search feed one generation call, and both
// sides of the exchange are persisted under a fresh session.
func (w *Workflow) Execute(ctx context.Context, id string, req ExecuteRequest) (*ExecuteResult, error) {
	if strings.TrimSpace(req.Query) == "" {
		return nil, ErrQueryRequired
	}

	wf, err := w.persistence.WorkflowByID(ctx, id)
	if err != nil {
		return nil, err
	}

	documentContext := ""

	if req.UseContext {
		matches, err := w.retriever.SearchSimilar(ctx, req.Query, retrievalLimit)
		if err != nil {
			w.logger.WarnContext(ctx, "retrieval failed, continuing without context", "error", err)
		} else {
			documentContext = joinMatches(matches, contextChunkTopN)
		}
	}

	fullContext := documentContext

	if req.UseWebSearch {
		webContext, err := w.searcher.Search(ctx, req.Query)
		if err != nil {
			return nil, err
		}

		if webContext != "" {
			fullContext = documentContext + "\n\nWeb Search Results:\n" + webContext
		}
	}

	response, err := w.llm.Generate(ctx, ai.GenerateRequest{
		Prompt:      req.Query,
		Context:     fullContext,
		Model:       models.DefaultModel,
		Temperature: models.DefaultTemperature,
	})
	if err != nil {
		return nil, err
	}

	sessionID := uuid.NewString()

	userEntry := &models.ChatHistoryEntry{
		SessionID:  sessionID,
		Role:       models.ChatRoleUser,
		Content:    req.Query,
		WorkflowID: wf.ID,
		Metadata: map[string]any{
			"use_context":    req.UseContext,
			"use_web_search": req.UseWebSearch,
		},
	}
	if err := w.persistence.AppendChatEntry(ctx, userEntry); err != nil {
		return nil, err
	}

	assistantEntry := &models.ChatHistoryEntry{
		SessionID:  sessionID,
		Role:       models.ChatRoleAssistant,
		Content:    response,
		WorkflowID: wf.ID,
		Metadata: map[string]any{
			"context_used":    documentContext != "",
			"web_search_used": req.UseWebSearch,
		},
	}
	if err := w.persistence.AppendChatEntry(ctx, assistantEntry); err != nil {
		return nil, err
	}

	return &ExecuteResult{
		SessionID:     sessionID,
		Query:         req.Query,
		Response:      response,
		ContextUsed:   documentContext != "",
		WebSearchUsed: req.UseWebSearch,
		Timestamp:     time.Now().UTC(),
	}, nil
}

func joinMatches(matches []vectorstore.Match, topN int) string {
	if len(matches) > topN {
		matches = matches[:topN]
	}

	parts := make([]string, 0, len(matches))
	for _, match := range matches {
		parts = append(parts, match.Content)
	}

	return strings.Join(parts, "\n\n")
}
