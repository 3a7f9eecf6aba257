// Package safety derives safety metadata from card content and enforces the
// stricter rule set for admin-facing material. Every check is a pure
// computation over its arguments: the guard owns no state between calls and
// never fails, it only returns classifications and violation lists.
package safety

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/surgeryhub/dailydose-api/internal/domain"
)

// Guard evaluates card content against an injected policy.
type Guard struct {
	policy Policy
}

// NewGuard creates a Guard with the given policy.
func NewGuard(policy Policy) *Guard {
	return &Guard{policy: policy}
}

// NewDefaultGuard creates a Guard with the standard production policy.
func NewDefaultGuard() *Guard {
	return NewGuard(DefaultPolicy())
}

// InferRiskLevel scans combined card text for escalation and crisis
// keywords. Any match classifies the card HIGH; text with no match is LOW.
// Callers combine the result with an editor-declared level via
// CombineRiskLevels rather than overwriting it.
func (g *Guard) InferRiskLevel(combinedText string) domain.RiskLevel {
	lowered := strings.ToLower(combinedText)
	for _, keyword := range g.policy.RiskKeywords {
		if strings.Contains(lowered, keyword) {
			return domain.RiskLevelHigh
		}
	}
	return domain.RiskLevelLow
}

// CombineRiskLevels merges an editor-declared risk level with an inferred
// one. HIGH from either side wins; otherwise the declared level stands, so
// inference can only ever escalate.
func CombineRiskLevels(declared, inferred domain.RiskLevel) domain.RiskLevel {
	if declared == domain.RiskLevelHigh || inferred == domain.RiskLevelHigh {
		return domain.RiskLevelHigh
	}
	return declared
}

// ResolveNeedsSourcing reports whether a card still needs sourcing work. An
// empty source list always does. When at least one source points at a
// recognised UK authority domain or an internal toolkit link, the editor's
// declared value stands; an unrecognised-only list forces true regardless of
// what the editor declared.
func (g *Guard) ResolveNeedsSourcing(sources []domain.Source, declared bool) bool {
	if len(sources) == 0 {
		return true
	}
	for _, source := range sources {
		if source.URL == nil {
			continue
		}
		if g.isAuthorityURL(*source.URL) || g.isToolkitLink(*source.URL) {
			return declared
		}
	}
	return true
}

// ShouldRequireClinicianApproval reports whether publishing content at the
// given risk level is gated on a clinician sign-off.
func (g *Guard) ShouldRequireClinicianApproval(risk domain.RiskLevel) bool {
	return risk == domain.RiskLevelHigh
}

// ValidateAdminCards applies the admin-content rules to the ADMIN-role cards
// in the batch: no named clinical instruments in the text, at least one
// internal toolkit citation among the sources, and slot guidance present
// when the originating prompt asked for triage or booking content. Cards for
// other roles are skipped. The returned list is empty when every rule holds.
func (g *Guard) ValidateAdminCards(cards []domain.LearningCard, promptText string) []domain.SafetyViolation {
	var violations []domain.SafetyViolation

	expectsSlotGuidance := g.promptExpectsSlotGuidance(promptText)

	for i := range cards {
		card := &cards[i]
		if card.TargetRole != domain.TargetRoleAdmin {
			continue
		}

		text := strings.ToLower(card.CombinedText())
		for _, forbidden := range g.policy.ForbiddenPatterns {
			if strings.Contains(text, forbidden.Pattern) {
				violations = append(violations, domain.SafetyViolation{
					Code:      domain.ViolationForbiddenPattern,
					Message:   fmt.Sprintf("clinical instrument %s must not appear in admin-facing content", forbidden.Label),
					CardTitle: card.Title,
				})
				break
			}
		}

		if !g.hasToolkitCitation(card.Sources) {
			violations = append(violations, domain.SafetyViolation{
				Code:      domain.ViolationMissingToolkitSource,
				Message:   "admin-facing cards must cite an internal toolkit source",
				CardTitle: card.Title,
			})
		}

		if expectsSlotGuidance && len(card.SlotLanguage.Guidance) == 0 {
			violations = append(violations, domain.SafetyViolation{
				Code:      domain.ViolationMissingSlotGuidance,
				Message:   "prompt asks for triage or booking guidance but the card carries no slot guidance",
				CardTitle: card.Title,
			})
		}
	}

	return violations
}

// EvaluateCard runs the full guard over one card: risk inference combined
// with the declared level, sourcing resolution, and (for ADMIN cards) the
// admin rule set against the given prompt.
func (g *Guard) EvaluateCard(card *domain.LearningCard, promptText string) domain.SafetyFinding {
	return domain.SafetyFinding{
		RiskLevel:     CombineRiskLevels(card.RiskLevel, g.InferRiskLevel(card.CombinedText())),
		NeedsSourcing: g.ResolveNeedsSourcing(card.Sources, card.NeedsSourcing),
		Violations:    g.ValidateAdminCards([]domain.LearningCard{*card}, promptText),
	}
}

func (g *Guard) promptExpectsSlotGuidance(promptText string) bool {
	lowered := strings.ToLower(promptText)
	for _, keyword := range g.policy.TriagePromptKeywords {
		if strings.Contains(lowered, keyword) {
			return true
		}
	}
	return false
}

// isAuthorityURL reports whether the URL's host is one of the allowed UK
// authority domains or a subdomain of one.
func (g *Guard) isAuthorityURL(raw string) bool {
	parsed, err := url.Parse(raw)
	if err != nil || parsed.Host == "" {
		return false
	}
	host := strings.ToLower(parsed.Host)
	for _, allowed := range g.policy.AllowedDomains {
		if host == allowed || strings.HasSuffix(host, "."+allowed) {
			return true
		}
	}
	return false
}

// isToolkitLink reports whether the URL is a relative internal toolkit link
// or an absolute link to the toolkit's own domain.
func (g *Guard) isToolkitLink(raw string) bool {
	for _, prefix := range g.policy.ToolkitPathPrefixes {
		if strings.HasPrefix(raw, prefix) {
			return true
		}
	}
	if g.policy.ToolkitDomain == "" {
		return false
	}
	parsed, err := url.Parse(raw)
	if err != nil || parsed.Host == "" {
		return false
	}
	host := strings.ToLower(parsed.Host)
	return host == g.policy.ToolkitDomain || strings.HasSuffix(host, "."+g.policy.ToolkitDomain)
}

// hasToolkitCitation reports whether at least one source is an internal
// toolkit citation. A source with no URL counts as practice-internal.
func (g *Guard) hasToolkitCitation(sources []domain.Source) bool {
	for _, source := range sources {
		if source.URL == nil {
			return true
		}
		if g.isToolkitLink(*source.URL) {
			return true
		}
	}
	return false
}
