// Package web provides the HTTP handlers for the workflow builder API.
package web

import (
	"encoding/json"
	"io"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"

	"github.com/manishsingh1309/ai-planet/pkg/models"
	"github.com/manishsingh1309/ai-planet/pkg/registry"
	"github.com/manishsingh1309/ai-planet/pkg/services"
	"github.com/manishsingh1309/ai-planet/pkg/validation"
	"github.com/manishsingh1309/ai-planet/pkg/workflow"
)

const apiVersion = "1.0.0"

// AICheck reports the configured AI providers for the health endpoint.
type AICheck func() (string, bool)

type APIHandlers struct {
	workflowService    *services.Workflow
	chatService        *services.Chat
	documentService    *services.Document
	componentValidator *validation.Validator
	validator          *validator.Validate
	registry           *registry.Registry
	aiCheck            AICheck
}

func NewAPIHandlers(
	workflowService *services.Workflow,
	chatService *services.Chat,
	documentService *services.Document,
	componentValidator *validation.Validator,
	validate *validator.Validate,
	reg *registry.Registry,
	aiCheck AICheck,
) *APIHandlers {
	return &APIHandlers{
		workflowService:    workflowService,
		chatService:        chatService,
		documentService:    documentService,
		componentValidator: componentValidator,
		validator:          validate,
		registry:           reg,
		aiCheck:            aiCheck,
	}
}

func (h *APIHandlers) Root(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"message":   "IntelliFlow Workspace API",
		"status":    "running",
		"version":   apiVersion,
		"timestamp": time.Now().UTC(),
	})
}

// HealthCheck reports per-component statuses. The endpoint itself always
// answers 200; degraded collaborators show up in the body.
func (h *APIHandlers) HealthCheck(c fiber.Ctx) error {
	database := "healthy"
	if message, ok := h.workflowService.HealthCheck(c.Context()); !ok {
		database = "unhealthy: " + message
	}

	aiServices, _ := h.aiCheck()

	return c.JSON(fiber.Map{
		"api":         "healthy",
		"database":    database,
		"ai_services": aiServices,
		"timestamp":   time.Now().UTC(),
	})
}

// Component endpoints

func (h *APIHandlers) ValidateComponent(c fiber.Ctx) error {
	var req ComponentValidationRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	result := h.componentValidator.Validate(req.ComponentType, req.Configuration)

	return c.JSON(result)
}

func (h *APIHandlers) GetComponentTypes(c fiber.Ctx) error {
	return c.JSON(h.registry.Types())
}

// Workflow endpoints

func (h *APIHandlers) GetWorkflows(c fiber.Ctx) error {
	workflows, err := h.workflowService.List(c.Context())
	if err != nil {
		return internalError(c, err)
	}

	summaries := make([]fiber.Map, 0, len(workflows))
	for _, wf := range workflows {
		summaries = append(summaries, fiber.Map{
			"id":          wf.ID,
			"name":        wf.Name,
			"description": wf.Description,
			"created_at":  wf.CreatedAt,
			"updated_at":  wf.UpdatedAt,
			"node_count":  len(wf.Nodes),
			"edge_count":  len(wf.Edges),
		})
	}

	return c.JSON(summaries)
}

func (h *APIHandlers) CreateWorkflow(c fiber.Ctx) error {
	var payload map[string]any
	if err := json.Unmarshal(c.Body(), &payload); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := registry.ValidateWorkflowDefinition(payload); err != nil {
		return badRequest(c, err.Error())
	}

	var req WorkflowRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	wf := &models.Workflow{
		Name:        req.Name,
		Description: req.Description,
		Nodes:       req.Nodes,
		Edges:       req.Edges,
	}

	if err := h.workflowService.Save(c.Context(), wf); err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(WorkflowSummary{
		ID:          wf.ID,
		Name:        wf.Name,
		Description: wf.Description,
		CreatedAt:   wf.CreatedAt.Format(time.RFC3339),
	})
}

func (h *APIHandlers) GetWorkflow(c fiber.Ctx) error {
	wf, err := h.workflowService.Get(c.Context(), c.Params("id"))
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(wf)
}

func (h *APIHandlers) UpdateWorkflow(c fiber.Ctx) error {
	var req UpdateWorkflowRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	wf, err := h.workflowService.Get(c.Context(), c.Params("id"))
	if err != nil {
		return handleServiceError(c, err)
	}

	if req.Name != nil {
		wf.Name = *req.Name
	}

	if req.Description != nil {
		wf.Description = *req.Description
	}

	if req.Nodes != nil {
		wf.Nodes = req.Nodes
	}

	if req.Edges != nil {
		wf.Edges = req.Edges
	}

	if err := h.workflowService.Save(c.Context(), wf); err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"id":          wf.ID,
		"name":        wf.Name,
		"description": wf.Description,
		"updated_at":  wf.UpdatedAt,
	})
}

func (h *APIHandlers) DeleteWorkflow(c fiber.Ctx) error {
	if err := h.workflowService.Delete(c.Context(), c.Params("id")); err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Workflow deleted successfully"})
}

func (h *APIHandlers) ExecuteWorkflow(c fiber.Ctx) error {
	var req QueryRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	useContext := true
	if req.UseContext != nil {
		useContext = *req.UseContext
	}

	result, err := h.workflowService.Execute(c.Context(), c.Params("id"), services.ExecuteRequest{
		Query:        req.Query,
		UseContext:   useContext,
		UseWebSearch: req.UseWebSearch,
	})
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(result)
}

func (h *APIHandlers) ExecuteWorkflowEnhanced(c fiber.Ctx) error {
	var req ExecutionRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	status, err := h.workflowService.ExecuteEnhanced(c.Context(), c.Params("id"), workflow.Request{
		Query:     req.Query,
		SessionID: req.SessionID,
	})
	if err != nil {
		return handleServiceError(c, err)
	}

	// Structural and runtime faults ride inside the status body with a 200.
	return c.JSON(status)
}

// Document endpoints

func (h *APIHandlers) UploadDocument(c fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return badRequest(c, "File is required")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return internalError(c, err)
	}

	defer func() {
		_ = file.Close()
	}()

	data, err := io.ReadAll(file)
	if err != nil {
		return internalError(c, err)
	}

	result, err := h.documentService.Upload(c.Context(), services.UploadRequest{
		Filename:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Size:        fileHeader.Size,
		Data:        data,
	})
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(result)
}

func (h *APIHandlers) GetDocuments(c fiber.Ctx) error {
	docs, err := h.documentService.List(c.Context())
	if err != nil {
		return internalError(c, err)
	}

	summaries := make([]fiber.Map, 0, len(docs))
	for _, doc := range docs {
		summaries = append(summaries, fiber.Map{
			"id":         doc.ID,
			"filename":   doc.OriginalFilename,
			"size":       doc.Size,
			"processed":  doc.Processed,
			"created_at": doc.CreatedAt,
			"chunks":     doc.ChunkCount(),
		})
	}

	return c.JSON(summaries)
}

func (h *APIHandlers) DeleteDocument(c fiber.Ctx) error {
	if err := h.documentService.Delete(c.Context(), c.Params("id")); err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Document deleted successfully"})
}

// Chat endpoints

func (h *APIHandlers) Chat(c fiber.Ctx) error {
	var req ChatRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	response, err := h.chatService.Send(c.Context(), services.ChatRequest{
		Content:         req.Content,
		SessionID:       req.SessionID,
		WorkflowContext: req.WorkflowContext,
	})
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(response)
}

func (h *APIHandlers) GetChatHistory(c fiber.Ctx) error {
	entries, err := h.chatService.History(c.Context(), c.Params("session_id"))
	if err != nil {
		return internalError(c, err)
	}

	messages := make([]fiber.Map, 0, len(entries))
	for _, entry := range entries {
		messages = append(messages, fiber.Map{
			"role":      entry.Role,
			"content":   entry.Content,
			"timestamp": entry.CreatedAt,
			"metadata":  entry.Metadata,
		})
	}

	return c.JSON(messages)
}

func (h *APIHandlers) DeleteChatHistory(c fiber.Ctx) error {
	if err := h.chatService.DeleteHistory(c.Context(), c.Params("session_id")); err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Chat history cleared"})
}

// Legacy endpoints kept for backward compatibility with early frontends.

func (h *APIHandlers) LegacyUpload(c fiber.Ctx) error {
	return h.UploadDocument(c)
}

func (h *APIHandlers) LegacyChat(c fiber.Ctx) error {
	var req LegacyChatRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if req.Question == "" {
		return badRequest(c, "Question is required")
	}

	response, err := h.chatService.Send(c.Context(), services.ChatRequest{Content: req.Question})
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON([]LegacyChatMessage{
		{Role: "user", Content: req.Question},
		{Role: "assistant", Content: response.Content},
	})
}
