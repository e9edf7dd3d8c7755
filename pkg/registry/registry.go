// Package registry holds the fixed catalog of workflow component types and
// their configuration schemas. The catalog is defined at process start and
// never mutated; callers receive it verbatim for form rendering.
package registry

import "github.com/manishsingh1309/ai-planet/pkg/models"

// FieldSpec describes one configuration field of a component type.
type FieldSpec struct {
	Type     string   `json:"type"`
	Required bool     `json:"required,omitempty"`
	Default  any      `json:"default,omitempty"`
	Enum     []any    `json:"enum,omitempty"`
	Min      *float64 `json:"min,omitempty"`
	Max      *float64 `json:"max,omitempty"`
}

// ComponentTypeSpec describes one of the four component kinds. MaxInstances
// nil means unbounded.
type ComponentTypeSpec struct {
	Name         string               `json:"name"`
	Description  string               `json:"description"`
	Icon         string               `json:"icon"`
	Color        string               `json:"color"`
	MaxInstances *int                 `json:"maxInstances"`
	ConfigSchema map[string]FieldSpec `json:"configSchema"`
}

// Registry is the read-only component catalog.
type Registry struct {
	types map[string]ComponentTypeSpec
}

func bound(v float64) *float64 { return &v }

func limit(n int) *int { return &n }

// NewRegistry builds the catalog with the four built-in component types.
func NewRegistry() *Registry {
	return &Registry{
		types: map[string]ComponentTypeSpec{
			models.ComponentUserQuery: {
				Name:         "User Query",
				Description:  "Captures user input and questions",
				Icon:         "MessageSquare",
				Color:        "#3b82f6",
				MaxInstances: limit(1),
				ConfigSchema: map[string]FieldSpec{
					"query":    {Type: "string", Required: true},
					"context":  {Type: "string"},
					"priority": {Type: "string", Enum: []any{"low", "medium", "high"}, Default: "medium"},
				},
			},
			models.ComponentKnowledgeBase: {
				Name:        "Knowledge Base",
				Description: "Provides context from documents, URLs, or text",
				Icon:        "Database",
				Color:       "#10b981",
				ConfigSchema: map[string]FieldSpec{
					"source":      {Type: "string", Enum: []any{"upload", "url", "text"}, Required: true},
					"documents":   {Type: "array"},
					"url":         {Type: "string"},
					"textContent": {Type: "string"},
					"chunkSize":   {Type: "integer", Default: 1000, Min: bound(100), Max: bound(4000)},
					"overlap":     {Type: "integer", Default: 200, Min: bound(0), Max: bound(500)},
				},
			},
			models.ComponentLLMEngine: {
				Name:        "LLM Engine",
				Description: "AI language model for generating responses",
				Icon:        "Cpu",
				Color:       "#8b5cf6",
				ConfigSchema: map[string]FieldSpec{
					"model":          {Type: "string", Enum: []any{"gemini-1.5-flash", "gemini-1.5-pro", "gpt-3.5-turbo", "gpt-4"}, Required: true},
					"temperature":    {Type: "number", Default: 0.7, Min: bound(0), Max: bound(1)},
					"maxTokens":      {Type: "integer", Default: 2048, Min: bound(1), Max: bound(8192)},
					"systemPrompt":   {Type: "string"},
					"useContext":     {Type: "boolean", Default: true},
					"streamResponse": {Type: "boolean", Default: false},
				},
			},
			models.ComponentOutput: {
				Name:         "Output",
				Description:  "Formats and delivers the final response",
				Icon:         "FileOutput",
				Color:        "#f59e0b",
				MaxInstances: limit(1),
				ConfigSchema: map[string]FieldSpec{
					"format":          {Type: "string", Enum: []any{"text", "markdown", "json", "html"}, Required: true},
					"destination":     {Type: "string", Enum: []any{"display", "download", "email", "api"}, Default: "display"},
					"filename":        {Type: "string"},
					"email":           {Type: "string"},
					"apiEndpoint":     {Type: "string"},
					"includeMetadata": {Type: "boolean", Default: false},
					"prettify":        {Type: "boolean", Default: true},
				},
			},
		},
	}
}

// Types returns the full catalog keyed by component type name.
func (r *Registry) Types() map[string]ComponentTypeSpec {
	return r.types
}

// Spec returns the descriptor for a single component type.
func (r *Registry) Spec(componentType string) (ComponentTypeSpec, bool) {
	spec, ok := r.types[componentType]

	return spec, ok
}

// KnownType reports whether the component type exists in the catalog.
func (r *Registry) KnownType(componentType string) bool {
	_, ok := r.types[componentType]

	return ok
}

// HealthCheck reports catalog availability for the health endpoint.
func (r *Registry) HealthCheck() (string, bool) {
	if len(r.types) == 0 {
		return "component catalog is empty", false
	}

	return "ok", true
}
