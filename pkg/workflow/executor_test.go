package workflow_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manishsingh1309/ai-planet/pkg/ai"
	"github.com/manishsingh1309/ai-planet/pkg/models"
	"github.com/manishsingh1309/ai-planet/pkg/workflow"
)

// capturingLLM records the generation request and returns a fixed response.
type capturingLLM struct {
	lastRequest ai.GenerateRequest
	response    string
}

func (c *capturingLLM) Generate(_ context.Context, req ai.GenerateRequest) (string, error) {
	c.lastRequest = req

	return c.response, nil
}

// chatRecorder collects appended entries in memory.
type chatRecorder struct {
	entries []*models.ChatHistoryEntry
}

func (r *chatRecorder) AppendChatEntry(_ context.Context, entry *models.ChatHistoryEntry) error {
	r.entries = append(r.entries, entry)

	return nil
}

func (r *chatRecorder) ChatHistory(_ context.Context, sessionID string) ([]*models.ChatHistoryEntry, error) {
	result := make([]*models.ChatHistoryEntry, 0)

	for _, entry := range r.entries {
		if entry.SessionID == sessionID {
			result = append(result, entry)
		}
	}

	return result, nil
}

func (r *chatRecorder) DeleteChatHistory(_ context.Context, _ string) error {
	return nil
}

func (r *chatRecorder) PurgeChatHistoryBefore(_ context.Context, _ time.Time) (int64, error) {
	return 0, nil
}

func node(nodeType string, data map[string]any) *models.WorkflowNode {
	return &models.WorkflowNode{ID: nodeType + "-1", Type: nodeType, Data: data}
}

func newTestExecutor(llm ai.LLM) (*workflow.Executor, *chatRecorder) {
	chats := &chatRecorder{}

	return workflow.NewExecutor(llm, chats, nil, slog.Default()), chats
}

func TestExecutor_StructuralValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		nodes         []*models.WorkflowNode
		expectedError string
	}{
		{
			name: "missing user query",
			nodes: []*models.WorkflowNode{
				node("llmEngine", nil),
				node("output", nil),
			},
			expectedError: "No user query component found",
		},
		{
			name: "missing output",
			nodes: []*models.WorkflowNode{
				node("userQuery", nil),
				node("llmEngine", nil),
			},
			expectedError: "No output component found",
		},
		{
			name: "missing llm engine",
			nodes: []*models.WorkflowNode{
				node("userQuery", nil),
				node("output", nil),
			},
			expectedError: "No LLM engine component found",
		},
		{
			name:          "user query check wins over output check",
			nodes:         []*models.WorkflowNode{node("llmEngine", nil)},
			expectedError: "No user query component found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			executor, chats := newTestExecutor(ai.NewStubLLM())
			wf := &models.Workflow{ID: "wf-1", Name: "Test", Nodes: tt.nodes}

			status := executor.Execute(context.Background(), wf, workflow.Request{Query: "hi"})

			assert.Equal(t, models.ExecutionStateFailed, status.Status)
			assert.Equal(t, tt.expectedError, status.Error)
			assert.Equal(t, 0, status.Progress)
			assert.Nil(t, status.Result)
			assert.Empty(t, chats.entries)
		})
	}
}

func TestExecutor_CompletesWithJSONFormat(t *testing.T) {
	t.Parallel()

	llm := &capturingLLM{response: "generated text"}
	executor, chats := newTestExecutor(llm)

	wf := &models.Workflow{
		ID:   "wf-1",
		Name: "JSON Pipeline",
		Nodes: []*models.WorkflowNode{
			node("userQuery", nil),
			node("llmEngine", map[string]any{"model": "m1"}),
			node("output", map[string]any{"format": "json"}),
		},
	}

	status := executor.Execute(context.Background(), wf, workflow.Request{Query: "hi"})

	assert.Equal(t, models.ExecutionStateCompleted, status.Status)
	assert.Equal(t, 100, status.Progress)
	assert.Equal(t, models.StepCompleted, status.CurrentStep)
	require.NotNil(t, status.Result)
	assert.Equal(t, "json", status.Result.Format)

	var payload map[string]any

	require.NoError(t, json.Unmarshal([]byte(status.Result.Response), &payload))
	assert.Equal(t, "hi", payload["query"])
	assert.Equal(t, "generated text", payload["response"])
	assert.Equal(t, "m1", payload["model"])

	assert.Equal(t, map[string]int{
		"user_query":      1,
		"knowledge_bases": 0,
		"llm_engines":     1,
		"output":          1,
	}, status.Result.ComponentsUsed)

	require.Len(t, chats.entries, 1)
	entry := chats.entries[0]
	assert.Equal(t, "default", entry.SessionID)
	assert.Equal(t, models.ChatRoleAssistant, entry.Role)
	assert.Equal(t, status.Result.Response, entry.Content)
	assert.Equal(t, status.ExecutionID, entry.Metadata["execution_id"])
	assert.Equal(t, "JSON Pipeline", entry.Metadata["workflow_name"])
}

func TestExecutor_ContextAccumulation(t *testing.T) {
	t.Parallel()

	llm := &capturingLLM{response: "ok"}
	executor, _ := newTestExecutor(llm)

	wf := &models.Workflow{
		ID:   "wf-1",
		Name: "KB Pipeline",
		Nodes: []*models.WorkflowNode{
			node("userQuery", nil),
			node("knowledgeBase", map[string]any{"source": "text", "textContent": "first snippet"}),
			node("knowledgeBase", map[string]any{"source": "upload"}),
			node("knowledgeBase", map[string]any{"source": "url"}),
			node("knowledgeBase", map[string]any{"textContent": "no source, contributes nothing"}),
			node("knowledgeBase", map[string]any{"source": "text", "textContent": "second snippet"}),
			node("llmEngine", map[string]any{"model": "m1"}),
			node("output", nil),
		},
	}

	status := executor.Execute(context.Background(), wf, workflow.Request{Query: "hi"})

	assert.Equal(t, models.ExecutionStateCompleted, status.Status)
	assert.Equal(t,
		"first snippet\n"+
			"Document content would be processed here\n"+
			"URL content would be processed here\n"+
			"second snippet",
		llm.lastRequest.Context,
	)
}

func TestExecutor_FirstEngineWins(t *testing.T) {
	t.Parallel()

	llm := &capturingLLM{response: "ok"}
	executor, _ := newTestExecutor(llm)

	wf := &models.Workflow{
		ID:   "wf-1",
		Name: "Two Engines",
		Nodes: []*models.WorkflowNode{
			node("userQuery", nil),
			node("llmEngine", map[string]any{"model": "m1", "temperature": 0.2}),
			node("llmEngine", map[string]any{"model": "m2", "temperature": 0.9}),
			node("output", nil),
		},
	}

	status := executor.Execute(context.Background(), wf, workflow.Request{Query: "hi"})

	assert.Equal(t, models.ExecutionStateCompleted, status.Status)
	assert.Equal(t, "m1", llm.lastRequest.Model)
	assert.InDelta(t, 0.2, llm.lastRequest.Temperature, 0.0001)
	assert.Equal(t, 2, status.Result.ComponentsUsed["llm_engines"])
}

func TestExecutor_EngineConfigCoercion(t *testing.T) {
	t.Parallel()

	llm := &capturingLLM{response: "ok"}
	executor, _ := newTestExecutor(llm)

	// Programmatic callers may pass ints where JSON decoding yields float64.
	wf := &models.Workflow{
		ID:   "wf-1",
		Name: "Coercion",
		Nodes: []*models.WorkflowNode{
			node("userQuery", nil),
			node("llmEngine", map[string]any{"model": "m1", "temperature": 1}),
			node("output", map[string]any{"format": ""}),
		},
	}

	status := executor.Execute(context.Background(), wf, workflow.Request{Query: "hi"})

	assert.Equal(t, models.ExecutionStateCompleted, status.Status)
	assert.InDelta(t, 1.0, llm.lastRequest.Temperature, 0.0001)
	assert.Equal(t, models.DefaultFormat, status.Result.Format)
}

func TestExecutor_DefaultsApply(t *testing.T) {
	t.Parallel()

	llm := &capturingLLM{response: "ok"}
	executor, _ := newTestExecutor(llm)

	wf := &models.Workflow{
		ID:   "wf-1",
		Name: "Defaults",
		Nodes: []*models.WorkflowNode{
			node("userQuery", nil),
			node("llmEngine", map[string]any{}),
			node("output", map[string]any{}),
		},
	}

	status := executor.Execute(context.Background(), wf, workflow.Request{Query: "hi", SessionID: "s-1"})

	assert.Equal(t, models.ExecutionStateCompleted, status.Status)
	assert.Equal(t, models.DefaultModel, llm.lastRequest.Model)
	assert.InDelta(t, models.DefaultTemperature, llm.lastRequest.Temperature, 0.0001)
	assert.Equal(t, "text", status.Result.Format)
	assert.Equal(t, "ok", status.Result.Response)
}

func TestExecutor_SessionIDPropagates(t *testing.T) {
	t.Parallel()

	executor, chats := newTestExecutor(ai.NewStubLLM())

	wf := &models.Workflow{
		ID:   "wf-1",
		Name: "Session",
		Nodes: []*models.WorkflowNode{
			node("userQuery", nil),
			node("llmEngine", map[string]any{"model": "m1"}),
			node("output", nil),
		},
	}

	status := executor.Execute(context.Background(), wf, workflow.Request{Query: "hi", SessionID: "session-42"})

	assert.Equal(t, models.ExecutionStateCompleted, status.Status)
	require.Len(t, chats.entries, 1)
	assert.Equal(t, "session-42", chats.entries[0].SessionID)
}
