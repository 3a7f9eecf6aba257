package genparse

import (
	"encoding/json"
	"fmt"

	"github.com/surgeryhub/dailydose-api/internal/domain"
)

// validator accumulates path-addressed issues while building the typed
// output. Validation never stops at the first failure: an editor gets every
// addressable problem in one pass.
type validator struct {
	issues []domain.ValidationIssue
}

func (v *validator) addf(path, format string, args ...any) {
	v.issues = append(v.issues, domain.NewIssue(path, format, args...))
}

func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "boolean"
	case json.Number, float64:
		return "number"
	case map[string]any:
		return "object"
	case []any:
		return "array"
	default:
		return fmt.Sprintf("%T", v)
	}
}

// requireString returns the string at key, recording an issue when the field
// is absent, the wrong type, or empty.
func (v *validator) requireString(m map[string]any, path, key string) (string, bool) {
	raw, ok := m[key]
	if !ok {
		v.addf(path+"."+key, "expected string, received nothing")
		return "", false
	}
	s, ok := raw.(string)
	if !ok {
		v.addf(path+"."+key, "expected string, received %s", typeName(raw))
		return "", false
	}
	if s == "" {
		v.addf(path+"."+key, "must not be empty")
		return "", false
	}
	return s, true
}

func (v *validator) optionalString(m map[string]any, path, key string) (*string, bool) {
	raw, ok := m[key]
	if !ok || raw == nil {
		return nil, true
	}
	s, ok := raw.(string)
	if !ok {
		v.addf(path+"."+key, "expected string, received %s", typeName(raw))
		return nil, false
	}
	return &s, true
}

func (v *validator) requireBool(m map[string]any, path, key string) (bool, bool) {
	raw, ok := m[key]
	if !ok {
		v.addf(path+"."+key, "expected boolean, received nothing")
		return false, false
	}
	b, ok := raw.(bool)
	if !ok {
		v.addf(path+"."+key, "expected boolean, received %s", typeName(raw))
		return false, false
	}
	return b, true
}

func (v *validator) requireInt(m map[string]any, path, key string) (int, bool) {
	raw, ok := m[key]
	if !ok {
		v.addf(path+"."+key, "expected integer, received nothing")
		return 0, false
	}
	num, ok := raw.(json.Number)
	if !ok {
		v.addf(path+"."+key, "expected integer, received %s", typeName(raw))
		return 0, false
	}
	n, err := num.Int64()
	if err != nil {
		v.addf(path+"."+key, "expected integer, received %q", num.String())
		return 0, false
	}
	return int(n), true
}

func (v *validator) requireObject(m map[string]any, path, key string) (map[string]any, bool) {
	raw, ok := m[key]
	if !ok {
		v.addf(path+"."+key, "expected object, received nothing")
		return nil, false
	}
	obj, ok := raw.(map[string]any)
	if !ok {
		v.addf(path+"."+key, "expected object, received %s", typeName(raw))
		return nil, false
	}
	return obj, true
}

// requireList returns the array at key, recording an issue when the field is
// absent, not an array, or empty while nonEmpty is set.
func (v *validator) requireList(m map[string]any, path, key string, nonEmpty bool) ([]any, bool) {
	raw, ok := m[key]
	if !ok {
		v.addf(path+"."+key, "expected array, received nothing")
		return nil, false
	}
	list, ok := raw.([]any)
	if !ok {
		v.addf(path+"."+key, "expected array, received %s", typeName(raw))
		return nil, false
	}
	if nonEmpty && len(list) == 0 {
		v.addf(path+"."+key, "must not be empty")
		return nil, false
	}
	return list, true
}

func (v *validator) stringList(list []any, path string) []string {
	out := make([]string, 0, len(list))
	for i, item := range list {
		s, ok := item.(string)
		if !ok {
			v.addf(fmt.Sprintf("%s.%d", path, i), "expected string, received %s", typeName(item))
			continue
		}
		out = append(out, s)
	}
	return out
}

// validateGeneration checks the normalised value against the
// GenerationOutput schema, returning the typed output and all accumulated
// issues. Data is nil whenever at least one issue was recorded.
func validateGeneration(value any) (*domain.GenerationOutput, []domain.ValidationIssue) {
	v := &validator{}

	root, ok := value.(map[string]any)
	if !ok {
		v.addf("root", "expected object, received %s", typeName(value))
		return nil, v.issues
	}

	out := &domain.GenerationOutput{}

	if cards, ok := v.requireList(root, "root", "cards", true); ok {
		out.Cards = make([]domain.LearningCard, 0, len(cards))
		for i, raw := range cards {
			path := fmt.Sprintf("cards.%d", i)
			card, ok := raw.(map[string]any)
			if !ok {
				v.addf(path, "expected object, received %s", typeName(raw))
				continue
			}
			out.Cards = append(out.Cards, v.validateCard(card, path))
		}
	}

	if quiz, ok := v.requireObject(root, "root", "quiz"); ok {
		out.Quiz = v.validateQuiz(quiz, "quiz")
	}

	if len(v.issues) > 0 {
		return nil, v.issues
	}
	return out, nil
}

func (v *validator) validateCard(m map[string]any, path string) domain.LearningCard {
	var card domain.LearningCard

	if role, ok := v.requireString(m, path, "targetRole"); ok {
		card.TargetRole = domain.TargetRole(role)
		if !card.TargetRole.IsValid() {
			v.addf(path+".targetRole", "expected one of ADMIN, GP, NURSE, received %q", role)
		}
	}

	card.Title, _ = v.requireString(m, path, "title")

	if minutes, ok := v.requireInt(m, path, "estimatedTimeMinutes"); ok {
		if minutes < 3 || minutes > 10 {
			v.addf(path+".estimatedTimeMinutes", "must be between 3 and 10, received %d", minutes)
		}
		card.EstimatedTimeMinutes = minutes
	}

	// Tags may be empty; an absent field is treated as an empty list.
	card.Tags = []string{}
	if raw, ok := m["tags"]; ok {
		if list, ok := raw.([]any); ok {
			card.Tags = v.stringList(list, path+".tags")
		} else {
			v.addf(path+".tags", "expected array, received %s", typeName(raw))
		}
	}

	if risk, ok := v.requireString(m, path, "riskLevel"); ok {
		card.RiskLevel = domain.RiskLevel(risk)
		if !card.RiskLevel.IsValid() {
			v.addf(path+".riskLevel", "expected one of LOW, MED, HIGH, received %q", risk)
		}
	}

	card.NeedsSourcing, _ = v.requireBool(m, path, "needsSourcing")
	card.ReviewByDate, _ = v.requireString(m, path, "reviewByDate")

	if sources, ok := v.requireList(m, path, "sources", true); ok {
		card.Sources = make([]domain.Source, 0, len(sources))
		for i, raw := range sources {
			sourcePath := fmt.Sprintf("%s.sources.%d", path, i)
			obj, ok := raw.(map[string]any)
			if !ok {
				v.addf(sourcePath, "expected object, received %s", typeName(raw))
				continue
			}
			var source domain.Source
			source.Title, _ = v.requireString(obj, sourcePath, "title")
			source.URL, _ = v.optionalString(obj, sourcePath, "url")
			source.Publisher, _ = v.optionalString(obj, sourcePath, "publisher")
			card.Sources = append(card.Sources, source)
		}
	}

	if blocks, ok := v.requireList(m, path, "contentBlocks", true); ok {
		card.ContentBlocks = make([]domain.ContentBlock, 0, len(blocks))
		for i, raw := range blocks {
			blockPath := fmt.Sprintf("%s.contentBlocks.%d", path, i)
			obj, ok := raw.(map[string]any)
			if !ok {
				v.addf(blockPath, "expected object, received %s", typeName(raw))
				continue
			}
			card.ContentBlocks = append(card.ContentBlocks, v.validateContentBlock(obj, blockPath))
		}
	}

	if interactions, ok := v.requireList(m, path, "interactions", true); ok {
		card.Interactions = make([]domain.Interaction, 0, len(interactions))
		for i, raw := range interactions {
			itemPath := fmt.Sprintf("%s.interactions.%d", path, i)
			obj, ok := raw.(map[string]any)
			if !ok {
				v.addf(itemPath, "expected object, received %s", typeName(raw))
				continue
			}
			card.Interactions = append(card.Interactions, v.validateInteraction(obj, itemPath))
		}
	}

	if slotLang, ok := v.requireObject(m, path, "slotLanguage"); ok {
		card.SlotLanguage = v.validateSlotLanguage(slotLang, path+".slotLanguage")
	}

	if netting, ok := v.requireList(m, path, "safetyNetting", true); ok {
		card.SafetyNetting = v.stringList(netting, path+".safetyNetting")
	}

	return card
}

func (v *validator) validateContentBlock(m map[string]any, path string) domain.ContentBlock {
	var block domain.ContentBlock

	if typ, ok := v.requireString(m, path, "type"); ok {
		block.Type = domain.ContentBlockType(typ)
		if !block.Type.IsValid() {
			v.addf(path+".type", "expected one of text, callout, steps, do-dont, received %q", typ)
			return block
		}
	} else {
		return block
	}

	switch block.Type {
	case domain.ContentBlockText, domain.ContentBlockCallout:
		block.Text, _ = v.requireString(m, path, "text")
	case domain.ContentBlockSteps:
		if steps, ok := v.requireList(m, path, "steps", true); ok {
			block.Steps = v.stringList(steps, path+".steps")
		}
	case domain.ContentBlockDoDont:
		if raw, ok := m["do"]; ok {
			if list, ok := raw.([]any); ok {
				block.Do = v.stringList(list, path+".do")
			} else {
				v.addf(path+".do", "expected array, received %s", typeName(raw))
			}
		}
		if raw, ok := m["dont"]; ok {
			if list, ok := raw.([]any); ok {
				block.Dont = v.stringList(list, path+".dont")
			} else {
				v.addf(path+".dont", "expected array, received %s", typeName(raw))
			}
		}
		if len(block.Do) == 0 && len(block.Dont) == 0 {
			v.addf(path, "do-dont block must carry at least one do or dont entry")
		}
	}

	return block
}

func (v *validator) validateInteraction(m map[string]any, path string) domain.Interaction {
	var interaction domain.Interaction

	if typ, ok := v.requireString(m, path, "type"); ok {
		interaction.Type = domain.InteractionType(typ)
		if !interaction.Type.IsValid() {
			v.addf(path+".type", "expected one of mcq, true_false, choose_action, received %q", typ)
		}
	}

	interaction.Prompt, _ = v.requireString(m, path, "prompt")
	interaction.Explanation, _ = v.requireString(m, path, "explanation")

	options, optionsOK := v.requireList(m, path, "options", true)
	if optionsOK {
		interaction.Options = v.stringList(options, path+".options")
		if len(interaction.Options) < 2 {
			v.addf(path+".options", "must contain at least 2 options, received %d", len(interaction.Options))
		}
	}

	if index, ok := v.requireInt(m, path, "correctIndex"); ok {
		interaction.CorrectIndex = index
		if optionsOK && (index < 0 || index >= len(interaction.Options)) {
			v.addf(path+".correctIndex",
				"must be a valid index into options (0..%d), received %d",
				len(interaction.Options)-1, index)
		}
	}

	return interaction
}

func (v *validator) validateSlotLanguage(m map[string]any, path string) domain.SlotLanguage {
	var slotLang domain.SlotLanguage

	slotLang.Relevant, _ = v.requireBool(m, path, "relevant")

	// Guidance may be empty; an absent field is treated as an empty list.
	slotLang.Guidance = []domain.SlotGuidance{}
	raw, ok := m["guidance"]
	if !ok {
		return slotLang
	}
	list, ok := raw.([]any)
	if !ok {
		v.addf(path+".guidance", "expected array, received %s", typeName(raw))
		return slotLang
	}

	for i, item := range list {
		entryPath := fmt.Sprintf("%s.guidance.%d", path, i)
		obj, ok := item.(map[string]any)
		if !ok {
			v.addf(entryPath, "expected object, received %s", typeName(item))
			continue
		}

		var guidance domain.SlotGuidance
		if slot, ok := v.requireString(obj, entryPath, "slot"); ok {
			guidance.Slot = domain.Slot(slot)
			if !guidance.Slot.IsValid() {
				v.addf(entryPath+".slot",
					"expected one of Red, Orange, Pink-Purple, Green, received %q", slot)
			}
		}
		guidance.Rule, _ = v.requireString(obj, entryPath, "rule")
		slotLang.Guidance = append(slotLang.Guidance, guidance)
	}

	return slotLang
}

func (v *validator) validateQuiz(m map[string]any, path string) domain.Quiz {
	var quiz domain.Quiz

	quiz.Title, _ = v.requireString(m, path, "title")

	questions, ok := v.requireList(m, path, "questions", true)
	if !ok {
		return quiz
	}

	quiz.Questions = make([]domain.QuizQuestion, 0, len(questions))
	for i, raw := range questions {
		questionPath := fmt.Sprintf("%s.questions.%d", path, i)
		obj, ok := raw.(map[string]any)
		if !ok {
			v.addf(questionPath, "expected object, received %s", typeName(raw))
			continue
		}
		quiz.Questions = append(quiz.Questions, v.validateQuizQuestion(obj, questionPath))
	}

	return quiz
}

func (v *validator) validateQuizQuestion(m map[string]any, path string) domain.QuizQuestion {
	var question domain.QuizQuestion

	if typ, ok := v.requireString(m, path, "type"); ok {
		question.Type = domain.QuestionType(typ)
		if !question.Type.IsValid() {
			v.addf(path+".type", "expected one of mcq, true_false, received %q", typ)
		}
	}

	question.Question, _ = v.requireString(m, path, "question")
	question.Explanation, _ = v.requireString(m, path, "explanation")

	options, optionsOK := v.requireList(m, path, "options", true)
	if optionsOK {
		question.Options = v.stringList(options, path+".options")
		if len(question.Options) < 2 {
			v.addf(path+".options", "must contain at least 2 options, received %d", len(question.Options))
		}
	}

	if index, ok := v.requireInt(m, path, "correctIndex"); ok {
		question.CorrectIndex = index
		if optionsOK && (index < 0 || index >= len(question.Options)) {
			v.addf(path+".correctIndex",
				"must be a valid index into options (0..%d), received %d",
				len(question.Options)-1, index)
		}
	}

	if raw, ok := m["linkedCardIds"]; ok && raw != nil {
		if list, ok := raw.([]any); ok {
			question.LinkedCardIDs = v.stringList(list, path+".linkedCardIds")
		} else {
			v.addf(path+".linkedCardIds", "expected array, received %s", typeName(raw))
		}
	}

	return question
}
