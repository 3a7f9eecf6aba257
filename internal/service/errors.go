// Package service provides application-level services for managing doses,
// sessions and publication within a surgery.
package service

import (
	"errors"
	"fmt"

	"github.com/surgeryhub/dailydose-api/internal/domain"
)

// Common service errors - sentinel errors used across service implementations.
// Callers check these with errors.Is(); the API layer maps them to HTTP
// status codes and machine-readable error codes.
var (
	// ErrNotOwned indicates a resource belongs to a different surgery than
	// the one making the request. API layer maps this to HTTP 403.
	ErrNotOwned = errors.New("resource belongs to another surgery")

	// ErrDoseNotFound indicates the dose does not exist.
	ErrDoseNotFound = errors.New("dose not found")

	// ErrDoseNotPublishable indicates the dose is in a status that cannot
	// transition to published (already published or archived).
	ErrDoseNotPublishable = errors.New("dose cannot be published from its current status")

	// ErrClinicianApprovalRequired indicates a HIGH-risk dose is missing
	// clinician sign-off. API layer maps this to CLINICIAN_APPROVAL_REQUIRED.
	ErrClinicianApprovalRequired = errors.New("clinician approval required before publishing")

	// ErrSafetyValidationFailed indicates admin-content safety rules or
	// sourcing requirements block publication. Wrapped by
	// SafetyValidationError carrying the individual violations.
	ErrSafetyValidationFailed = errors.New("safety validation failed")

	// ErrNoCardResults indicates a session completion request carried no
	// card outcomes.
	ErrNoCardResults = errors.New("session must contain at least one card result")
)

// SafetyValidationError carries the individual safety violations that block
// a publish. It unwraps to ErrSafetyValidationFailed so callers can gate on
// the sentinel.
type SafetyValidationError struct {
	Violations []domain.SafetyViolation
}

// Error implements the error interface.
func (e *SafetyValidationError) Error() string {
	return fmt.Sprintf("%v: %d violation(s)", ErrSafetyValidationFailed, len(e.Violations))
}

// Unwrap supports errors.Is checks against ErrSafetyValidationFailed.
func (e *SafetyValidationError) Unwrap() error {
	return ErrSafetyValidationFailed
}
