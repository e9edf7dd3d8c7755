// Package services implements the business operations behind the HTTP
// surface: workflow management and execution, retrieval-augmented chat, and
// the document upload pipeline.
package services

import "errors"

// Business logic errors. These indicate client errors (4xx responses).
var (
	// Validation errors (400 Bad Request).
	ErrInvalidRequest       = errors.New("invalid request")
	ErrWorkflowNameRequired = errors.New("workflow name is required")
	ErrQueryRequired        = errors.New("query is required")
	ErrWorkflowNil          = errors.New("workflow cannot be nil")

	// Upload validation errors (400 Bad Request).
	ErrOnlyPDFSupported = errors.New("Only PDF files are supported")
	ErrFileTooLarge     = errors.New("File size must be less than 10MB")
	ErrNoTextContent    = errors.New("No text content found in PDF")
)

// IsValidationError checks if an error is a validation error that should
// return HTTP 400.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidRequest) ||
		errors.Is(err, ErrWorkflowNameRequired) ||
		errors.Is(err, ErrQueryRequired) ||
		errors.Is(err, ErrWorkflowNil) ||
		errors.Is(err, ErrOnlyPDFSupported) ||
		errors.Is(err, ErrFileTooLarge) ||
		errors.Is(err, ErrNoTextContent)
}
