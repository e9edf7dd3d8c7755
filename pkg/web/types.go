// Package web provides HTTP request and response types for the workflow API.
package web

import "github.com/manishsingh1309/ai-planet/pkg/models"

// WorkflowRequest is the request body for creating or updating a workflow.
// The node and edge documents are stored as the editor produced them.
type WorkflowRequest struct {
	Name        string                 `json:"name"        validate:"required"`
	Description string                 `json:"description"`
	Nodes       []*models.WorkflowNode `json:"nodes"`
	Edges       []*models.WorkflowEdge `json:"edges"`
}

// WorkflowSummary is the response for a created workflow.
type WorkflowSummary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	CreatedAt   string `json:"created_at"`
}

// UpdateWorkflowRequest is the request body for partially updating a
// workflow. Absent fields keep their stored values.
type UpdateWorkflowRequest struct {
	Name        *string                `json:"name,omitempty"`
	Description *string                `json:"description,omitempty"`
	Nodes       []*models.WorkflowNode `json:"nodes,omitempty"`
	Edges       []*models.WorkflowEdge `json:"edges,omitempty"`
}

// ComponentValidationRequest is the request body for validating one
// component's configuration.
type ComponentValidationRequest struct {
	ComponentType string         `json:"component_type" validate:"required"`
	Configuration map[string]any `json:"configuration"`
}

// QueryRequest is the request body for the retrieval-augmented execute path.
// Context retrieval defaults to on when the field is absent.
type QueryRequest struct {
	Query        string `json:"query"          validate:"required"`
	UseContext   *bool  `json:"use_context"`
	UseWebSearch bool   `json:"use_web_search"`
}

// ExecutionRequest is the request body for the enhanced execute path.
type ExecutionRequest struct {
	Query     string `json:"query"      validate:"required"`
	SessionID string `json:"session_id"`
}

// ChatRequest is the request body for the chat endpoint.
type ChatRequest struct {
	Content         string         `json:"content"          validate:"required"`
	SessionID       string         `json:"session_id"`
	WorkflowContext map[string]any `json:"workflow_context"`
}

// LegacyChatRequest is the request body of the backward-compatible /chat
// endpoint.
type LegacyChatRequest struct {
	Question string `json:"question"`
}

// LegacyChatMessage is one element of the backward-compatible /chat response.
type LegacyChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}
