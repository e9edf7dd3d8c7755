package web_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manishsingh1309/ai-planet/pkg/ai"
	"github.com/manishsingh1309/ai-planet/pkg/cache"
	"github.com/manishsingh1309/ai-planet/pkg/documents"
	"github.com/manishsingh1309/ai-planet/pkg/models"
	"github.com/manishsingh1309/ai-planet/pkg/persistence/file"
	"github.com/manishsingh1309/ai-planet/pkg/registry"
	"github.com/manishsingh1309/ai-planet/pkg/services"
	"github.com/manishsingh1309/ai-planet/pkg/validation"
	"github.com/manishsingh1309/ai-planet/pkg/vectorstore"
	"github.com/manishsingh1309/ai-planet/pkg/web"
	"github.com/manishsingh1309/ai-planet/pkg/workflow"
)

func setupTestApp(t *testing.T) *fiber.App {
	t.Helper()

	logger := slog.Default()
	persistence := file.NewPersistence(t.TempDir())
	vectors := vectorstore.NewMemoryStore()
	llm := ai.NewStubLLM()
	embedder := ai.NewStubEmbedder()
	searcher := ai.NewSerpAPIClient("")

	ingestor := documents.NewIngestor(embedder, vectors, logger)
	executor := workflow.NewExecutor(llm, persistence, nil, logger)

	workflowService := services.NewWorkflow(persistence, executor, ingestor, searcher, llm, logger)
	chatService := services.NewChat(persistence, ingestor, llm, cache.NewNoop(), logger)
	documentService := services.NewDocument(persistence, ingestor, vectors, nil, logger)

	handlers := web.NewAPIHandlers(
		workflowService,
		chatService,
		documentService,
		validation.NewValidator(),
		validator.New(validator.WithRequiredStructEnabled()),
		registry.NewRegistry(),
		func() (string, bool) { return "partially_available", false },
	)

	app := fiber.New()

	app.Get("/", handlers.Root)
	app.Get("/health", handlers.HealthCheck)

	api := app.Group("/api")

	components := api.Group("/components")
	components.Post("/validate", handlers.ValidateComponent)
	components.Get("/types", handlers.GetComponentTypes)

	workflows := api.Group("/workflows")
	workflows.Get("/", handlers.GetWorkflows)
	workflows.Post("/", handlers.CreateWorkflow)
	workflows.Get("/:id", handlers.GetWorkflow)
	workflows.Put("/:id", handlers.UpdateWorkflow)
	workflows.Delete("/:id", handlers.DeleteWorkflow)
	workflows.Post("/:id/execute", handlers.ExecuteWorkflow)
	workflows.Post("/:id/execute-enhanced", handlers.ExecuteWorkflowEnhanced)

	docs := api.Group("/documents")
	docs.Post("/upload", handlers.UploadDocument)
	docs.Get("/", handlers.GetDocuments)
	docs.Delete("/:id", handlers.DeleteDocument)

	chat := api.Group("/chat")
	chat.Post("/", handlers.Chat)
	chat.Get("/history/:session_id", handlers.GetChatHistory)
	chat.Delete("/history/:session_id", handlers.DeleteChatHistory)

	app.Post("/upload", handlers.LegacyUpload)
	app.Post("/chat", handlers.LegacyChat)

	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any) (*http.Response, []byte) {
	t.Helper()

	var reader io.Reader

	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req)
	require.NoError(t, err)

	responseBody, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp, responseBody
}

func createWorkflow(t *testing.T, app *fiber.App, nodes []map[string]any) string {
	t.Helper()

	resp, body := doJSON(t, app, http.MethodPost, "/api/workflows/", map[string]any{
		"name":        "Test Workflow",
		"description": "pipeline under test",
		"nodes":       nodes,
		"edges":       []map[string]any{},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	var summary web.WorkflowSummary

	require.NoError(t, json.Unmarshal(body, &summary))
	require.NotEmpty(t, summary.ID)

	return summary.ID
}

func fullPipelineNodes() []map[string]any {
	return []map[string]any{
		{"id": "n1", "type": "userQuery", "data": map[string]any{}},
		{"id": "n2", "type": "llmEngine", "data": map[string]any{"model": "gemini-1.5-flash"}},
		{"id": "n3", "type": "output", "data": map[string]any{"format": "text"}},
	}
}

func TestRootAndHealth(t *testing.T) {
	t.Parallel()

	app := setupTestApp(t)

	resp, body := doJSON(t, app, http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var root map[string]any

	require.NoError(t, json.Unmarshal(body, &root))
	assert.Equal(t, "IntelliFlow Workspace API", root["message"])
	assert.Equal(t, "running", root["status"])

	resp, body = doJSON(t, app, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var health map[string]any

	require.NoError(t, json.Unmarshal(body, &health))
	assert.Equal(t, "healthy", health["api"])
	assert.Equal(t, "healthy", health["database"])
	assert.Equal(t, "partially_available", health["ai_services"])
}

func TestValidateComponentEndpoint(t *testing.T) {
	t.Parallel()

	app := setupTestApp(t)

	resp, body := doJSON(t, app, http.MethodPost, "/api/components/validate", map[string]any{
		"component_type": "userQuery",
		"configuration":  map[string]any{},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result models.ValidationResult

	require.NoError(t, json.Unmarshal(body, &result))
	assert.False(t, result.IsValid)
	assert.Equal(t, []string{"Query is required"}, result.Errors)
	assert.Empty(t, result.Warnings)
}

func TestGetComponentTypes(t *testing.T) {
	t.Parallel()

	app := setupTestApp(t)

	resp, body := doJSON(t, app, http.MethodGet, "/api/components/types", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var types map[string]registry.ComponentTypeSpec

	require.NoError(t, json.Unmarshal(body, &types))
	require.Len(t, types, 4)
	assert.Equal(t, "User Query", types["userQuery"].Name)
	assert.Equal(t, "#f59e0b", types["output"].Color)
}

func TestWorkflowCRUD(t *testing.T) {
	t.Parallel()

	app := setupTestApp(t)
	id := createWorkflow(t, app, fullPipelineNodes())

	resp, body := doJSON(t, app, http.MethodGet, "/api/workflows/"+id, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var wf models.Workflow

	require.NoError(t, json.Unmarshal(body, &wf))
	assert.Equal(t, "Test Workflow", wf.Name)
	assert.Len(t, wf.Nodes, 3)

	newName := "Renamed Workflow"
	resp, body = doJSON(t, app, http.MethodPut, "/api/workflows/"+id, map[string]any{
		"name": newName,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	resp, body = doJSON(t, app, http.MethodGet, "/api/workflows/", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var summaries []map[string]any

	require.NoError(t, json.Unmarshal(body, &summaries))
	require.Len(t, summaries, 1)
	assert.Equal(t, newName, summaries[0]["name"])
	assert.Equal(t, float64(3), summaries[0]["node_count"])

	resp, _ = doJSON(t, app, http.MethodDelete, "/api/workflows/"+id, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodGet, "/api/workflows/"+id, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCreateWorkflowDefaultsEdgeType(t *testing.T) {
	t.Parallel()

	app := setupTestApp(t)

	resp, body := doJSON(t, app, http.MethodPost, "/api/workflows/", map[string]any{
		"name":  "Edged",
		"nodes": fullPipelineNodes(),
		"edges": []map[string]any{
			{"id": "e1", "source": "n1", "target": "n2"},
			{"id": "e2", "source": "n2", "target": "n3", "type": "straight"},
		},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	var summary web.WorkflowSummary

	require.NoError(t, json.Unmarshal(body, &summary))

	resp, body = doJSON(t, app, http.MethodGet, "/api/workflows/"+summary.ID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var wf models.Workflow

	require.NoError(t, json.Unmarshal(body, &wf))
	require.Len(t, wf.Edges, 2)
	assert.Equal(t, models.DefaultEdgeType, wf.Edges[0].Type)
	assert.Equal(t, "straight", wf.Edges[1].Type)
}

func TestCreateWorkflowValidation(t *testing.T) {
	t.Parallel()

	app := setupTestApp(t)

	resp, _ := doJSON(t, app, http.MethodPost, "/api/workflows/", map[string]any{
		"description": "missing name",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodPost, "/api/workflows/", map[string]any{
		"name": "Bad Nodes",
		"nodes": []map[string]any{
			{"id": "n1"},
		},
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestExecuteEnhanced(t *testing.T) {
	t.Parallel()

	app := setupTestApp(t)
	id := createWorkflow(t, app, fullPipelineNodes())

	resp, body := doJSON(t, app, http.MethodPost, "/api/workflows/"+id+"/execute-enhanced", map[string]any{
		"query":      "What is a workflow?",
		"session_id": "s-1",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	var status models.ExecutionStatus

	require.NoError(t, json.Unmarshal(body, &status))
	assert.Equal(t, models.ExecutionStateCompleted, status.Status)
	assert.Equal(t, 100, status.Progress)
	require.NotNil(t, status.Result)
	assert.Equal(t, "text", status.Result.Format)
	assert.NotEmpty(t, status.Result.Response)

	resp, body = doJSON(t, app, http.MethodGet, "/api/chat/history/s-1", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var messages []map[string]any

	require.NoError(t, json.Unmarshal(body, &messages))
	require.Len(t, messages, 1)
	assert.Equal(t, "assistant", messages[0]["role"])
}

func TestExecuteEnhancedStructuralFailure(t *testing.T) {
	t.Parallel()

	app := setupTestApp(t)
	id := createWorkflow(t, app, []map[string]any{
		{"id": "n1", "type": "userQuery", "data": map[string]any{}},
		{"id": "n2", "type": "llmEngine", "data": map[string]any{}},
	})

	resp, body := doJSON(t, app, http.MethodPost, "/api/workflows/"+id+"/execute-enhanced", map[string]any{
		"query": "hi",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var status models.ExecutionStatus

	require.NoError(t, json.Unmarshal(body, &status))
	assert.Equal(t, models.ExecutionStateFailed, status.Status)
	assert.Equal(t, "No output component found", status.Error)
	assert.Equal(t, 0, status.Progress)
}

func TestExecuteEnhancedMissingWorkflow(t *testing.T) {
	t.Parallel()

	app := setupTestApp(t)

	resp, _ := doJSON(t, app, http.MethodPost, "/api/workflows/unknown/execute-enhanced", map[string]any{
		"query": "hi",
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestExecuteSimplePath(t *testing.T) {
	t.Parallel()

	app := setupTestApp(t)
	id := createWorkflow(t, app, fullPipelineNodes())

	resp, body := doJSON(t, app, http.MethodPost, "/api/workflows/"+id+"/execute", map[string]any{
		"query": "What is the refund policy?",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	var result services.ExecuteResult

	require.NoError(t, json.Unmarshal(body, &result))
	assert.Equal(t, "What is the refund policy?", result.Query)
	assert.NotEmpty(t, result.Response)
	assert.NotEmpty(t, result.SessionID)
	assert.False(t, result.WebSearchUsed)

	resp, body = doJSON(t, app, http.MethodGet, "/api/chat/history/"+result.SessionID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var messages []map[string]any

	require.NoError(t, json.Unmarshal(body, &messages))
	require.Len(t, messages, 2)
	assert.Equal(t, "user", messages[0]["role"])
	assert.Equal(t, "assistant", messages[1]["role"])
}

func TestChatEndpoint(t *testing.T) {
	t.Parallel()

	app := setupTestApp(t)

	resp, body := doJSON(t, app, http.MethodPost, "/api/chat/", map[string]any{
		"content": "hello there",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	var chatResponse services.ChatResponse

	require.NoError(t, json.Unmarshal(body, &chatResponse))
	assert.Equal(t, "assistant", chatResponse.Role)
	assert.NotEmpty(t, chatResponse.Content)
	require.NotEmpty(t, chatResponse.SessionID)

	resp, body = doJSON(t, app, http.MethodGet, "/api/chat/history/"+chatResponse.SessionID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var messages []map[string]any

	require.NoError(t, json.Unmarshal(body, &messages))
	assert.Len(t, messages, 2)

	resp, _ = doJSON(t, app, http.MethodDelete, "/api/chat/history/"+chatResponse.SessionID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = doJSON(t, app, http.MethodGet, "/api/chat/history/"+chatResponse.SessionID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(body, &messages))
	assert.Empty(t, messages)
}

func TestChatEndpointRequiresContent(t *testing.T) {
	t.Parallel()

	app := setupTestApp(t)

	resp, _ := doJSON(t, app, http.MethodPost, "/api/chat/", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestLegacyChat(t *testing.T) {
	t.Parallel()

	app := setupTestApp(t)

	resp, _ := doJSON(t, app, http.MethodPost, "/chat", map[string]any{"question": ""})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, body := doJSON(t, app, http.MethodPost, "/chat", map[string]any{"question": "ping"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var messages []web.LegacyChatMessage

	require.NoError(t, json.Unmarshal(body, &messages))
	require.Len(t, messages, 2)
	assert.Equal(t, "user", messages[0].Role)
	assert.Equal(t, "ping", messages[0].Content)
	assert.Equal(t, "assistant", messages[1].Role)
}

func TestUploadRejectsNonPDF(t *testing.T) {
	t.Parallel()

	app := setupTestApp(t)

	var buf bytes.Buffer

	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", "notes.txt")
	require.NoError(t, err)

	_, err = part.Write([]byte("plain text"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/documents/upload", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	responseBody, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var problem map[string]any

	require.NoError(t, json.Unmarshal(responseBody, &problem))
	assert.Equal(t, "Only PDF files are supported", problem["detail"])
}

func TestUploadRequiresFile(t *testing.T) {
	t.Parallel()

	app := setupTestApp(t)

	req := httptest.NewRequest(http.MethodPost, "/api/documents/upload", nil)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGetDocumentsEmpty(t *testing.T) {
	t.Parallel()

	app := setupTestApp(t)

	resp, body := doJSON(t, app, http.MethodGet, "/api/documents/", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var docs []map[string]any

	require.NoError(t, json.Unmarshal(body, &docs))
	assert.Empty(t, docs)
}

func TestDeleteDocumentNotFound(t *testing.T) {
	t.Parallel()

	app := setupTestApp(t)

	resp, _ := doJSON(t, app, http.MethodDelete, "/api/documents/unknown", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
