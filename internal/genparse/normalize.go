package genparse

import (
	"encoding/json"
	"strings"

	"github.com/surgeryhub/dailydose-api/internal/domain"
)

// normalizeGeneration applies the known-field normalisations to a freshly
// parsed generic JSON value and returns a new value; the input is never
// mutated. Unknown shapes pass through untouched for schema validation to
// reject with a precise path.
func normalizeGeneration(value any) any {
	root, ok := value.(map[string]any)
	if !ok {
		return deepCopy(value)
	}

	out := make(map[string]any, len(root))
	for k, v := range root {
		out[k] = deepCopy(v)
	}

	if cards, ok := out["cards"]; ok {
		list := ensureList(cards)
		for i, card := range list {
			list[i] = normalizeCard(card)
		}
		out["cards"] = list
	}

	if quiz, ok := out["quiz"]; ok {
		out["quiz"] = normalizeQuiz(quiz)
	}

	return out
}

// ensureList coerces a singular value into a one-element list. A model that
// was asked for an array sometimes returns the lone object directly.
func ensureList(v any) []any {
	if v == nil {
		return nil
	}
	if list, ok := v.([]any); ok {
		return list
	}
	return []any{v}
}

func normalizeCard(v any) any {
	card, ok := v.(map[string]any)
	if !ok {
		return v
	}

	if role, ok := card["targetRole"].(string); ok {
		card["targetRole"] = normalizeRole(role)
	}
	if risk, ok := card["riskLevel"].(string); ok {
		card["riskLevel"] = normalizeRisk(risk)
	}

	for _, key := range []string{"tags", "sources", "contentBlocks", "safetyNetting"} {
		if raw, ok := card[key]; ok {
			card[key] = ensureList(raw)
		}
	}

	if raw, ok := card["interactions"]; ok {
		list := ensureList(raw)
		for _, item := range list {
			normalizeQuestionFields(item)
		}
		card["interactions"] = list
	}

	if raw, ok := card["contentBlocks"]; ok {
		if blocks, ok := raw.([]any); ok {
			for _, item := range blocks {
				if block, ok := item.(map[string]any); ok {
					if typ, ok := block["type"].(string); ok {
						block["type"] = normalizeVariantTag(typ)
					}
				}
			}
		}
	}

	if slotLang, ok := card["slotLanguage"].(map[string]any); ok {
		if raw, ok := slotLang["guidance"]; ok {
			guidance := ensureList(raw)
			for _, item := range guidance {
				if entry, ok := item.(map[string]any); ok {
					if slot, ok := entry["slot"].(string); ok {
						entry["slot"] = normalizeSlot(slot)
					}
				}
			}
			slotLang["guidance"] = guidance
		}
	}

	return card
}

func normalizeQuiz(v any) any {
	quiz, ok := v.(map[string]any)
	if !ok {
		return v
	}

	if raw, ok := quiz["questions"]; ok {
		questions := ensureList(raw)
		for _, item := range questions {
			normalizeQuestionFields(item)
		}
		quiz["questions"] = questions
	}

	return quiz
}

// normalizeQuestionFields fixes up the shared fields of interactions and
// quiz questions: the variant tag spelling, the options list, and a
// correctIndex sent as a numeric string.
func normalizeQuestionFields(item any) {
	q, ok := item.(map[string]any)
	if !ok {
		return
	}

	if typ, ok := q["type"].(string); ok {
		q["type"] = normalizeVariantTag(typ)
	}
	if raw, ok := q["options"]; ok {
		q["options"] = ensureList(raw)
	}
	if s, ok := q["correctIndex"].(string); ok {
		if num := strings.TrimSpace(s); num != "" && isNumeric(num) {
			q["correctIndex"] = json.Number(num)
		}
	}
}

func isNumeric(s string) bool {
	for i, r := range s {
		if r == '-' && i == 0 {
			continue
		}
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// normalizeRole maps the observed staff-role spellings onto the canonical
// enum values. Unrecognised values are upper-cased and passed through for
// schema validation to reject.
func normalizeRole(role string) string {
	switch strings.ToLower(strings.TrimSpace(role)) {
	case "receptionist", "reception", "admin":
		return string(domain.TargetRoleAdmin)
	case "gp":
		return string(domain.TargetRoleGP)
	case "nurse":
		return string(domain.TargetRoleNurse)
	default:
		return strings.ToUpper(strings.TrimSpace(role))
	}
}

// normalizeRisk maps the observed risk spellings onto the canonical enum
// values.
func normalizeRisk(risk string) string {
	switch strings.ToLower(strings.TrimSpace(risk)) {
	case "low":
		return string(domain.RiskLevelLow)
	case "med", "medium":
		return string(domain.RiskLevelMed)
	case "high":
		return string(domain.RiskLevelHigh)
	default:
		return strings.ToUpper(strings.TrimSpace(risk))
	}
}

// normalizeSlot maps slot spellings onto the canonical values, ignoring
// case, spaces and punctuation so that "pink/purple", "Pink - Purple" and
// "purple" all land on Pink-Purple.
func normalizeSlot(slot string) string {
	letters := strings.Map(func(r rune) rune {
		if r >= 'a' && r <= 'z' {
			return r
		}
		if r >= 'A' && r <= 'Z' {
			return r + ('a' - 'A')
		}
		return -1
	}, slot)

	switch letters {
	case "red":
		return string(domain.SlotRed)
	case "orange":
		return string(domain.SlotOrange)
	case "green":
		return string(domain.SlotGreen)
	case "pinkpurple", "pink", "purple":
		return string(domain.SlotPinkPurple)
	default:
		return slot
	}
}

// normalizeVariantTag canonicalises a tagged-variant discriminator: lower
// case with hyphens and spaces collapsed to the underscore spelling, except
// for the do-dont block tag which keeps its hyphen.
func normalizeVariantTag(tag string) string {
	t := strings.ToLower(strings.TrimSpace(tag))
	if t == "do-dont" || t == "do dont" || t == "do_dont" {
		return string(domain.ContentBlockDoDont)
	}
	t = strings.ReplaceAll(t, "-", "_")
	t = strings.ReplaceAll(t, " ", "_")
	return t
}

// deepCopy clones a generic JSON value so normalisation cannot alias the
// raw parsed object kept for diagnostics.
func deepCopy(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = deepCopy(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = deepCopy(val)
		}
		return out
	default:
		return v
	}
}
