package models

// ValidationResult is the outcome of validating one component configuration.
// Errors block execution; warnings do not. Ephemeral, never persisted.
type ValidationResult struct {
	IsValid  bool     `json:"is_valid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

// NewValidationResult derives IsValid from the error list. The slices are
// always non-nil so the JSON encoding carries empty arrays, not null.
func NewValidationResult(errs, warnings []string) ValidationResult {
	if errs == nil {
		errs = []string{}
	}

	if warnings == nil {
		warnings = []string{}
	}

	return ValidationResult{
		IsValid:  len(errs) == 0,
		Errors:   errs,
		Warnings: warnings,
	}
}
