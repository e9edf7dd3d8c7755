package models

import (
	"errors"
	"fmt"
)

// Component type names as used by the workflow editor.
const (
	ComponentUserQuery     = "userQuery"
	ComponentKnowledgeBase = "knowledgeBase"
	ComponentLLMEngine     = "llmEngine"
	ComponentOutput        = "output"
)

// Knowledge base source kinds.
const (
	SourceUpload = "upload"
	SourceURL    = "url"
	SourceText   = "text"
)

// Output destinations.
const (
	DestinationDisplay  = "display"
	DestinationDownload = "download"
	DestinationEmail    = "email"
	DestinationAPI      = "api"
)

// Defaults applied when a node's configuration omits a field.
const (
	DefaultModel       = "gemini-1.5-flash"
	DefaultTemperature = 0.7
	DefaultMaxTokens   = 2048
	DefaultChunkSize   = 1000
	DefaultOverlap     = 200
	DefaultFormat      = "text"
	DefaultPriority    = "medium"
)

var ErrMissingField = errors.New("missing required configuration field")

// UserQueryConfig is the typed configuration of a userQuery component.
type UserQueryConfig struct {
	Query    string
	Context  string
	Priority string
}

// KnowledgeBaseConfig is the typed configuration of a knowledgeBase component.
type KnowledgeBaseConfig struct {
	Source      string
	Documents   []any
	URL         string
	TextContent string
	ChunkSize   int
	Overlap     int
}

// LLMEngineConfig is the typed configuration of an llmEngine component.
type LLMEngineConfig struct {
	Model          string
	Temperature    float64
	MaxTokens      int
	SystemPrompt   string
	UseContext     bool
	StreamResponse bool
}

// OutputConfig is the typed configuration of an output component.
type OutputConfig struct {
	Format          string
	Destination     string
	Filename        string
	Email           string
	APIEndpoint     string
	IncludeMetadata bool
	Prettify        bool
}

// NewUserQueryConfig decodes a raw configuration mapping, failing closed when
// the required query field is absent.
func NewUserQueryConfig(raw map[string]any) (UserQueryConfig, error) {
	cfg := UserQueryConfig{
		Query:    stringField(raw, "query", ""),
		Context:  stringField(raw, "context", ""),
		Priority: stringField(raw, "priority", DefaultPriority),
	}

	if cfg.Query == "" {
		return cfg, fmt.Errorf("%w: query", ErrMissingField)
	}

	return cfg, nil
}

// NewKnowledgeBaseConfig decodes a raw configuration mapping. The source kind
// is required; per-source content fields are checked by the validator, not here.
func NewKnowledgeBaseConfig(raw map[string]any) (KnowledgeBaseConfig, error) {
	cfg := KnowledgeBaseConfig{
		Source:      stringField(raw, "source", ""),
		URL:         stringField(raw, "url", ""),
		TextContent: stringField(raw, "textContent", ""),
		ChunkSize:   intField(raw, "chunkSize", DefaultChunkSize),
		Overlap:     intField(raw, "overlap", DefaultOverlap),
	}

	if docs, ok := raw["documents"].([]any); ok {
		cfg.Documents = docs
	}

	if cfg.Source == "" {
		return cfg, fmt.Errorf("%w: source", ErrMissingField)
	}

	return cfg, nil
}

// NewLLMEngineConfig decodes a raw configuration mapping, applying the
// executor defaults for model and temperature when omitted.
func NewLLMEngineConfig(raw map[string]any) (LLMEngineConfig, error) {
	return LLMEngineConfig{
		Model:          stringField(raw, "model", DefaultModel),
		Temperature:    floatField(raw, "temperature", DefaultTemperature),
		MaxTokens:      intField(raw, "maxTokens", DefaultMaxTokens),
		SystemPrompt:   stringField(raw, "systemPrompt", ""),
		UseContext:     boolField(raw, "useContext", true),
		StreamResponse: boolField(raw, "streamResponse", false),
	}, nil
}

// NewOutputConfig decodes a raw configuration mapping, defaulting the format
// to plain text and the destination to display.
func NewOutputConfig(raw map[string]any) (OutputConfig, error) {
	return OutputConfig{
		Format:          stringField(raw, "format", DefaultFormat),
		Destination:     stringField(raw, "destination", DestinationDisplay),
		Filename:        stringField(raw, "filename", ""),
		Email:           stringField(raw, "email", ""),
		APIEndpoint:     stringField(raw, "apiEndpoint", ""),
		IncludeMetadata: boolField(raw, "includeMetadata", false),
		Prettify:        boolField(raw, "prettify", true),
	}, nil
}

func stringField(raw map[string]any, key, fallback string) string {
	if v, ok := raw[key].(string); ok && v != "" {
		return v
	}

	return fallback
}

func intField(raw map[string]any, key string, fallback int) int {
	switch v := raw[key].(type) {
	case int:
		return v
	case float64:
		// JSON numbers decode as float64.
		return int(v)
	default:
		return fallback
	}
}

func floatField(raw map[string]any, key string, fallback float64) float64 {
	switch v := raw[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	default:
		return fallback
	}
}

func boolField(raw map[string]any, key string, fallback bool) bool {
	if v, ok := raw[key].(bool); ok {
		return v
	}

	return fallback
}
