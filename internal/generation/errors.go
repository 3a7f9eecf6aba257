package generation

import (
	"errors"
	"fmt"

	"github.com/surgeryhub/dailydose-api/internal/domain"
)

// Common errors returned by the generation package
var (
	// ErrGenerationFailed is returned when dose generation fails for any general reason
	ErrGenerationFailed = errors.New("failed to generate dose from prompt")

	// ErrInvalidResponse is returned when the LLM response cannot be parsed
	// or fails schema validation
	ErrInvalidResponse = errors.New("invalid response from language model")

	// ErrContentBlocked is returned when the LLM blocks the content due to safety filters
	ErrContentBlocked = errors.New("content blocked by language model safety filters")

	// ErrTransientFailure is returned for temporary errors that might resolve on retry
	ErrTransientFailure = errors.New("transient error during dose generation")

	// ErrInvalidConfig is returned when the generator configuration is invalid
	ErrInvalidConfig = errors.New("invalid generator configuration")
)

// ValidationError carries the field-level issues found in a model response.
// It unwraps to ErrInvalidResponse so callers can branch with errors.Is and
// still surface the issue list to editors.
type ValidationError struct {
	Issues []domain.ValidationIssue
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%v: %d validation issue(s)", ErrInvalidResponse, len(e.Issues))
}

// Unwrap returns ErrInvalidResponse for errors.Is matching.
func (e *ValidationError) Unwrap() error {
	return ErrInvalidResponse
}
