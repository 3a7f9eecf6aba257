package gemini

import "errors"

// Error definitions for the gemini package.
var (
	// ErrEmptyPromptText is returned when the editor prompt is empty.
	ErrEmptyPromptText = errors.New("prompt text cannot be empty")
)
