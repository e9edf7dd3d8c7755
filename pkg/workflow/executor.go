// Package workflow runs the five-checkpoint execution pipeline over a saved
// workflow definition.
package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/manishsingh1309/ai-planet/pkg/ai"
	"github.com/manishsingh1309/ai-planet/pkg/eventbus"
	"github.com/manishsingh1309/ai-planet/pkg/events"
	"github.com/manishsingh1309/ai-planet/pkg/models"
	"github.com/manishsingh1309/ai-planet/pkg/persistence"
)

// Structural validation errors, checked in this order. The first failing
// check short-circuits the rest.
const (
	ErrNoUserQueryComponent = "No user query component found"
	ErrNoOutputComponent    = "No output component found"
	ErrNoLLMEngineComponent = "No LLM engine component found"
)

// Placeholder contributions for knowledge sources this path does not fetch.
// Real document retrieval lives in the upload pipeline.
const (
	placeholderUploadContent = "Document content would be processed here"
	placeholderURLContent    = "URL content would be processed here"
)

// Progress checkpoints. Fixed and strictly ordered, no branching back.
const (
	progressQuery      = 20
	progressKnowledge  = 40
	progressGeneration = 70
	progressFormatting = 90
	progressCompleted  = 100
)

const defaultSessionID = "default"

// Request carries one execution invocation.
type Request struct {
	Query     string
	SessionID string
}

// Executor walks a workflow's components through the fixed checkpoints. It is
// stateless across invocations; every run gets a fresh ExecutionStatus.
type Executor struct {
	llm    ai.LLM
	chats  persistence.ChatRepository
	bus    eventbus.EventPublisher
	logger *slog.Logger
}

// NewExecutor creates an executor with its collaborators. The event bus may
// be nil; publishing is then skipped.
func NewExecutor(llm ai.LLM, chats persistence.ChatRepository, bus eventbus.EventPublisher, logger *slog.Logger) *Executor {
	return &Executor{
		llm:    llm,
		chats:  chats,
		bus:    bus,
		logger: logger.With("module", "executor"),
	}
}

// Execute runs one workflow synchronously. Faults never surface as errors;
// they land in the returned status as a terminal failed state.
func (e *Executor) Execute(ctx context.Context, wf *models.Workflow, req Request) *models.ExecutionStatus {
	startedAt := time.Now()

	status := &models.ExecutionStatus{
		ExecutionID: uuid.NewString(),
		Status:      models.ExecutionStateRunning,
		Progress:    0,
		CurrentStep: models.StepInitializing,
	}

	e.publishStarted(ctx, wf, status, req)

	userQueryNodes := wf.NodesByType(models.ComponentUserQuery)
	knowledgeBaseNodes := wf.NodesByType(models.ComponentKnowledgeBase)
	llmEngineNodes := wf.NodesByType(models.ComponentLLMEngine)
	outputNodes := wf.NodesByType(models.ComponentOutput)

	switch {
	case len(userQueryNodes) == 0:
		status.Fail(ErrNoUserQueryComponent)
	case len(outputNodes) == 0:
		status.Fail(ErrNoOutputComponent)
	case len(llmEngineNodes) == 0:
		status.Fail(ErrNoLLMEngineComponent)
	}

	if status.Status == models.ExecutionStateFailed {
		e.publishFailed(ctx, wf, status, startedAt)

		return status
	}

	status.Advance(progressQuery, models.StepProcessingQuery)

	status.Advance(progressKnowledge, models.StepRetrieving)
	knowledgeContext := accumulateContext(knowledgeBaseNodes)

	status.Advance(progressGeneration, models.StepGenerating)

	// Ties among multiple engines are not merged; only the first counts.
	engine, err := models.NewLLMEngineConfig(llmEngineNodes[0].Data)
	if err != nil {
		return e.fail(ctx, wf, status, startedAt, err)
	}

	response, err := e.llm.Generate(ctx, ai.GenerateRequest{
		Prompt:      req.Query,
		Context:     knowledgeContext,
		Model:       engine.Model,
		Temperature: engine.Temperature,
	})
	if err != nil {
		return e.fail(ctx, wf, status, startedAt, err)
	}

	status.Advance(progressFormatting, models.StepFormatting)

	output, err := models.NewOutputConfig(outputNodes[0].Data)
	if err != nil {
		return e.fail(ctx, wf, status, startedAt, err)
	}

	formatted := FormatResponse(output.Format, req.Query, response, engine.Model, time.Now().UTC())

	status.Advance(progressCompleted, models.StepCompleted)
	status.Status = models.ExecutionStateCompleted
	status.Result = &models.ExecutionResult{
		Response:      formatted,
		Format:        output.Format,
		ExecutionTime: fmt.Sprintf("%.1fs", time.Since(startedAt).Seconds()),
		ComponentsUsed: map[string]int{
			"user_query":      len(userQueryNodes),
			"knowledge_bases": len(knowledgeBaseNodes),
			"llm_engines":     len(llmEngineNodes),
			"output":          len(outputNodes),
		},
	}

	if err := e.recordResult(ctx, wf, status, req); err != nil {
		return e.fail(ctx, wf, status, startedAt, err)
	}

	e.publishCompleted(ctx, wf, status, startedAt)

	return status
}

// accumulateContext concatenates knowledge contributions in node order,
// newline separated. Nodes without a source kind contribute nothing; absence
// of knowledge nodes yields an empty context.
func accumulateContext(knowledgeBaseNodes []*models.WorkflowNode) string {
	contextData := make([]string, 0, len(knowledgeBaseNodes))

	for _, node := range knowledgeBaseNodes {
		cfg, err := models.NewKnowledgeBaseConfig(node.Data)
		if err != nil {
			continue
		}

		switch cfg.Source {
		case models.SourceText:
			if cfg.TextContent != "" {
				contextData = append(contextData, cfg.TextContent)
			}
		case models.SourceUpload:
			contextData = append(contextData, placeholderUploadContent)
		case models.SourceURL:
			contextData = append(contextData, placeholderURLContent)
		}
	}

	return strings.Join(contextData, "\n")
}

func (e *Executor) recordResult(ctx context.Context, wf *models.Workflow, status *models.ExecutionStatus, req Request) error {
	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = defaultSessionID
	}

	entry := &models.ChatHistoryEntry{
		SessionID:  sessionID,
		Role:       models.ChatRoleAssistant,
		Content:    status.Result.Response,
		WorkflowID: wf.ID,
		Metadata: map[string]any{
			"execution_id":   status.ExecutionID,
			"workflow_name":  wf.Name,
			"execution_time": status.Result.ExecutionTime,
		},
	}

	return e.chats.AppendChatEntry(ctx, entry)
}

func (e *Executor) fail(ctx context.Context, wf *models.Workflow, status *models.ExecutionStatus, startedAt time.Time, err error) *models.ExecutionStatus {
	e.logger.ErrorContext(ctx, "workflow execution failed",
		"workflow_id", wf.ID,
		"execution_id", status.ExecutionID,
		"error", err,
	)

	status.CurrentStep = models.StepFailed
	status.Fail(err.Error())
	e.publishFailed(ctx, wf, status, startedAt)

	return status
}

// Event publishing is observability only. A bus fault never affects the
// execution outcome.

func (e *Executor) publishStarted(ctx context.Context, wf *models.Workflow, status *models.ExecutionStatus, req Request) {
	if e.bus == nil {
		return
	}

	event := events.ExecutionStarted{
		BaseEvent:    events.NewBaseEvent(events.ExecutionStartedEvent, wf.ID),
		ExecutionID:  status.ExecutionID,
		WorkflowName: wf.Name,
		Query:        req.Query,
		SessionID:    req.SessionID,
	}

	if err := e.bus.Publish(ctx, wf.ID, event); err != nil {
		e.logger.WarnContext(ctx, "failed to publish execution started event", "error", err)
	}
}

func (e *Executor) publishCompleted(ctx context.Context, wf *models.Workflow, status *models.ExecutionStatus, startedAt time.Time) {
	if e.bus == nil {
		return
	}

	event := events.ExecutionCompleted{
		BaseEvent:      events.NewBaseEvent(events.ExecutionCompletedEvent, wf.ID),
		ExecutionID:    status.ExecutionID,
		Status:         string(status.Status),
		DurationMs:     time.Since(startedAt).Milliseconds(),
		ComponentsUsed: status.Result.ComponentsUsed,
	}

	if err := e.bus.Publish(ctx, wf.ID, event); err != nil {
		e.logger.WarnContext(ctx, "failed to publish execution completed event", "error", err)
	}
}

func (e *Executor) publishFailed(ctx context.Context, wf *models.Workflow, status *models.ExecutionStatus, startedAt time.Time) {
	if e.bus == nil {
		return
	}

	event := events.ExecutionFailed{
		BaseEvent:   events.NewBaseEvent(events.ExecutionFailedEvent, wf.ID),
		ExecutionID: status.ExecutionID,
		Status:      string(status.Status),
		DurationMs:  time.Since(startedAt).Milliseconds(),
		Error:       status.Error,
	}

	if err := e.bus.Publish(ctx, wf.ID, event); err != nil {
		e.logger.WarnContext(ctx, "failed to publish execution failed event", "error", err)
	}
}
