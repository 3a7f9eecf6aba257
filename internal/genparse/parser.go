package genparse

import (
	"github.com/surgeryhub/dailydose-api/internal/domain"
)

// Result is the outcome of parsing and validating raw model output. Exactly
// one of Data or Issues is meaningful: Data is set when validation passed,
// Issues carries every failure otherwise. RawJSON and NormalizedJSON hold
// the intermediate generic values for diagnostics whenever a parse
// succeeded, regardless of whether validation did.
type Result struct {
	Data           *domain.GenerationOutput
	RawJSON        any
	NormalizedJSON any
	Repaired       bool
	Issues         []domain.ValidationIssue
}

// OK reports whether parsing and validation both succeeded.
func (r *Result) OK() bool {
	return len(r.Issues) == 0
}

// ParseAndValidate turns untrusted free-text model output into a validated
// GenerationOutput, or a precise list of validation issues. It never panics
// for any input; all failure paths are returned as data.
//
// Repaired is true only when the strict first-pass parse failed and the
// repair pass produced parseable JSON; it stays false when parsing fails
// terminally, since no successful repair occurred.
func ParseAndValidate(raw string) *Result {
	result := &Result{}

	sliced, found := extractObject(raw)
	if !found {
		result.Issues = append(result.Issues,
			domain.NewIssue("root", "no JSON object found in model output"))
		return result
	}

	attempt := tryParse(sliced)
	if !attempt.ok() {
		repaired := tryParse(repair(sliced))
		if !repaired.ok() {
			result.Issues = append(result.Issues,
				domain.NewIssue("root", "model output is not parseable JSON: %v", attempt.err))
			return result
		}
		attempt = repaired
		result.Repaired = true
	}

	result.RawJSON = attempt.value
	result.NormalizedJSON = normalizeGeneration(attempt.value)

	data, issues := validateGeneration(result.NormalizedJSON)
	if len(issues) > 0 {
		result.Issues = issues
		return result
	}

	result.Data = data
	return result
}
