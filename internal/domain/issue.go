package domain

import "fmt"

// ValidationIssue is a single addressable validation failure. Path is a
// dot-separated field path into the offending document ("root" when no
// narrower path applies), so an editor can jump straight to the field.
type ValidationIssue struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// NewIssue builds a ValidationIssue with a formatted message.
func NewIssue(path, format string, args ...any) ValidationIssue {
	return ValidationIssue{Path: path, Message: fmt.Sprintf(format, args...)}
}

// Safety violation codes produced by the content safety guard. These are
// machine codes: the route layer surfaces them verbatim so callers can act
// on them without string matching.
const (
	ViolationForbiddenPattern     = "FORBIDDEN_PATTERN"
	ViolationMissingToolkitSource = "MISSING_TOOLKIT_SOURCE"
	ViolationMissingSlotGuidance  = "MISSING_SLOT_GUIDANCE"
	ViolationUnresolvedSourcing   = "UNRESOLVED_SOURCING"
)

// SafetyViolation is one admin-content rule breach found by the safety
// guard. CardTitle is empty when the violation is not tied to a single card.
type SafetyViolation struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	CardTitle string `json:"cardTitle,omitempty"`
}

// SafetyFinding is the combined output of the content safety guard for one
// card: the inferred risk level, whether sourcing is still needed, and any
// admin-specific rule violations.
type SafetyFinding struct {
	RiskLevel     RiskLevel         `json:"riskLevel"`
	NeedsSourcing bool              `json:"needsSourcing"`
	Violations    []SafetyViolation `json:"violations,omitempty"`
}
