// Package validation checks component configurations against the domain
// rules of each component type. Rules are hardcoded per type rather than
// derived from the registry schema; the two deliberately stay in sync by
// convention, matching the editor's behavior.
package validation

import (
	"fmt"
	"strings"

	"github.com/manishsingh1309/ai-planet/pkg/models"
)

const (
	maxQueryLength = 1000

	minChunkSize = 100
	maxChunkSize = 4000

	minTemperature = 0.0
	maxTemperature = 1.0

	minMaxTokens = 1
	maxMaxTokens = 8192
)

// Validator validates component configurations. It is pure: no side effects,
// domain violations become entries in the result rather than errors.
type Validator struct{}

func NewValidator() *Validator {
	return &Validator{}
}

// Validate checks a raw configuration mapping for the given component type.
func (v *Validator) Validate(componentType string, configuration map[string]any) models.ValidationResult {
	var errs, warnings []string

	switch componentType {
	case models.ComponentUserQuery:
		errs, warnings = v.validateUserQuery(configuration)
	case models.ComponentKnowledgeBase:
		errs, warnings = v.validateKnowledgeBase(configuration)
	case models.ComponentLLMEngine:
		errs, warnings = v.validateLLMEngine(configuration)
	case models.ComponentOutput:
		errs, warnings = v.validateOutput(configuration)
	default:
		errs = []string{fmt.Sprintf("Unknown component type: %s", componentType)}
	}

	return models.NewValidationResult(errs, warnings)
}

func (v *Validator) validateUserQuery(configuration map[string]any) ([]string, []string) {
	var errs, warnings []string

	query, _ := configuration["query"].(string)
	if strings.TrimSpace(query) == "" {
		errs = append(errs, "Query is required")
	} else if len(query) > maxQueryLength {
		warnings = append(warnings, "Query is very long, consider shortening")
	}

	return errs, warnings
}

func (v *Validator) validateKnowledgeBase(configuration map[string]any) ([]string, []string) {
	var errs, warnings []string

	source, _ := configuration["source"].(string)

	switch {
	case source == "":
		errs = append(errs, "Knowledge source is required")
	case source == models.SourceUpload && isEmpty(configuration["documents"]):
		errs = append(errs, "Documents are required for upload source")
	case source == models.SourceURL && isEmpty(configuration["url"]):
		errs = append(errs, "URL is required for URL source")
	case source == models.SourceText && isEmpty(configuration["textContent"]):
		errs = append(errs, "Text content is required for text source")
	}

	chunkSize := numberOrDefault(configuration["chunkSize"], models.DefaultChunkSize)
	if chunkSize < minChunkSize || chunkSize > maxChunkSize {
		warnings = append(warnings, "Chunk size should be between 100-4000 characters")
	}

	return errs, warnings
}

func (v *Validator) validateLLMEngine(configuration map[string]any) ([]string, []string) {
	var errs, warnings []string

	if isEmpty(configuration["model"]) {
		errs = append(errs, "Model selection is required")
	}

	temperature := numberOrDefault(configuration["temperature"], models.DefaultTemperature)
	if temperature < minTemperature || temperature > maxTemperature {
		errs = append(errs, "Temperature must be between 0 and 1")
	}

	maxTokens := numberOrDefault(configuration["maxTokens"], models.DefaultMaxTokens)
	if maxTokens < minMaxTokens || maxTokens > maxMaxTokens {
		warnings = append(warnings, "Max tokens should be between 1-8192")
	}

	return errs, warnings
}

func (v *Validator) validateOutput(configuration map[string]any) ([]string, []string) {
	var errs, warnings []string

	if isEmpty(configuration["format"]) {
		errs = append(errs, "Output format is required")
	}

	destination, ok := configuration["destination"].(string)
	if !ok {
		destination = models.DestinationDisplay
	}

	switch {
	case destination == models.DestinationEmail && isEmpty(configuration["email"]):
		errs = append(errs, "Email address is required for email destination")
	case destination == models.DestinationAPI && isEmpty(configuration["apiEndpoint"]):
		errs = append(errs, "API endpoint is required for API destination")
	}

	return errs, warnings
}

// isEmpty reports whether a configuration value is absent or empty, mirroring
// the editor's falsy check.
func isEmpty(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return v == ""
	case []any:
		return len(v) == 0
	default:
		return false
	}
}

// numberOrDefault coerces JSON numbers; non-numeric values fall back to the
// field default so bad types surface as range checks against the default.
func numberOrDefault(value any, fallback float64) float64 {
	switch v := value.(type) {
	case float64:
		return v
	case int:
		return float64(v)
	default:
		return fallback
	}
}
