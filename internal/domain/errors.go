package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidFormat is returned when data is not in the expected format.
	ErrInvalidFormat = errors.New("invalid format")

	// ErrInvalidID is returned when an ID is malformed or invalid.
	ErrInvalidID = errors.New("invalid ID")

	// ErrEmptyContent is returned when required content is empty.
	ErrEmptyContent = errors.New("content cannot be empty")

	// ErrInvalidTargetRole is returned when a staff role is not one of the
	// recognised values.
	ErrInvalidTargetRole = errors.New("invalid target role")

	// ErrInvalidRiskLevel is returned when a risk level is not one of the
	// recognised values.
	ErrInvalidRiskLevel = errors.New("invalid risk level")

	// ErrInvalidSlot is returned when a triage slot is not one of the
	// recognised values.
	ErrInvalidSlot = errors.New("invalid slot")

	// ErrInvalidDoseStatus is returned when a dose status is not valid.
	ErrInvalidDoseStatus = errors.New("invalid dose status")

	// ErrUnauthorized is returned when an operation is not permitted.
	ErrUnauthorized = errors.New("unauthorized operation")
)
