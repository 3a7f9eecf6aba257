package domain

// TargetRole identifies which practice staff group a learning card is
// written for.
type TargetRole string

// Recognised target roles.
const (
	TargetRoleAdmin TargetRole = "ADMIN"
	TargetRoleGP    TargetRole = "GP"
	TargetRoleNurse TargetRole = "NURSE"
)

// IsValid reports whether the role is one of the recognised values.
func (r TargetRole) IsValid() bool {
	switch r {
	case TargetRoleAdmin, TargetRoleGP, TargetRoleNurse:
		return true
	default:
		return false
	}
}

// RiskLevel classifies how much clinical risk a piece of generated content
// carries. HIGH content cannot be published without clinician approval.
type RiskLevel string

// Recognised risk levels, in ascending order of severity.
const (
	RiskLevelLow  RiskLevel = "LOW"
	RiskLevelMed  RiskLevel = "MED"
	RiskLevelHigh RiskLevel = "HIGH"
)

// IsValid reports whether the risk level is one of the recognised values.
func (l RiskLevel) IsValid() bool {
	switch l {
	case RiskLevelLow, RiskLevelMed, RiskLevelHigh:
		return true
	default:
		return false
	}
}

// Slot is a practice-specific urgency category used in triage guidance.
type Slot string

// Recognised slots. PinkPurple is the single canonical spelling for the
// combined pink/purple category; normalisation maps all observed variants
// onto it.
const (
	SlotRed        Slot = "Red"
	SlotOrange     Slot = "Orange"
	SlotPinkPurple Slot = "Pink-Purple"
	SlotGreen      Slot = "Green"
)

// IsValid reports whether the slot is one of the recognised values.
func (s Slot) IsValid() bool {
	switch s {
	case SlotRed, SlotOrange, SlotPinkPurple, SlotGreen:
		return true
	default:
		return false
	}
}

// ContentBlockType tags the variant of a card content block.
type ContentBlockType string

// Recognised content block variants.
const (
	ContentBlockText    ContentBlockType = "text"
	ContentBlockCallout ContentBlockType = "callout"
	ContentBlockSteps   ContentBlockType = "steps"
	ContentBlockDoDont  ContentBlockType = "do-dont"
)

// IsValid reports whether the block type is one of the recognised values.
func (t ContentBlockType) IsValid() bool {
	switch t {
	case ContentBlockText, ContentBlockCallout, ContentBlockSteps, ContentBlockDoDont:
		return true
	default:
		return false
	}
}

// InteractionType tags the variant of an in-card interaction.
type InteractionType string

// Recognised interaction variants.
const (
	InteractionMCQ          InteractionType = "mcq"
	InteractionTrueFalse    InteractionType = "true_false"
	InteractionChooseAction InteractionType = "choose_action"
)

// IsValid reports whether the interaction type is one of the recognised values.
func (t InteractionType) IsValid() bool {
	switch t {
	case InteractionMCQ, InteractionTrueFalse, InteractionChooseAction:
		return true
	default:
		return false
	}
}

// QuestionType tags the variant of a quiz question.
type QuestionType string

// Recognised quiz question variants.
const (
	QuestionMCQ       QuestionType = "mcq"
	QuestionTrueFalse QuestionType = "true_false"
)

// IsValid reports whether the question type is one of the recognised values.
func (t QuestionType) IsValid() bool {
	return t == QuestionMCQ || t == QuestionTrueFalse
}

// Source is a citation attached to a learning card. URL and Publisher are
// optional; a nil URL marks practice-internal content.
type Source struct {
	Title     string  `json:"title"`
	URL       *string `json:"url,omitempty"`
	Publisher *string `json:"publisher,omitempty"`
}

// ContentBlock is one tagged block of card body content. Which fields are
// populated depends on Type: Text for text and callout blocks, Steps for
// steps blocks, Do/Dont for do-dont blocks.
type ContentBlock struct {
	Type  ContentBlockType `json:"type"`
	Text  string           `json:"text,omitempty"`
	Steps []string         `json:"steps,omitempty"`
	Do    []string         `json:"do,omitempty"`
	Dont  []string         `json:"dont,omitempty"`
}

// Interaction is a single in-card exercise. CorrectIndex is zero-based into
// Options.
type Interaction struct {
	Type         InteractionType `json:"type"`
	Prompt       string          `json:"prompt"`
	Options      []string        `json:"options"`
	CorrectIndex int             `json:"correctIndex"`
	Explanation  string          `json:"explanation"`
}

// SlotGuidance is one rule of triage slot language for a card.
type SlotGuidance struct {
	Slot Slot   `json:"slot"`
	Rule string `json:"rule"`
}

// SlotLanguage carries the triage guidance attached to a card. Guidance may
// be empty when Relevant is false.
type SlotLanguage struct {
	Relevant bool           `json:"relevant"`
	Guidance []SlotGuidance `json:"guidance"`
}

// LearningCard is one validated Daily Dose learning card.
type LearningCard struct {
	TargetRole           TargetRole     `json:"targetRole"`
	Title                string         `json:"title"`
	EstimatedTimeMinutes int            `json:"estimatedTimeMinutes"`
	Tags                 []string       `json:"tags"`
	RiskLevel            RiskLevel      `json:"riskLevel"`
	NeedsSourcing        bool           `json:"needsSourcing"`
	ReviewByDate         string         `json:"reviewByDate"`
	Sources              []Source       `json:"sources"`
	ContentBlocks        []ContentBlock `json:"contentBlocks"`
	Interactions         []Interaction  `json:"interactions"`
	SlotLanguage         SlotLanguage   `json:"slotLanguage"`
	SafetyNetting        []string       `json:"safetyNetting"`
}

// QuizQuestion is a single question in the end-of-dose quiz. CorrectIndex is
// zero-based into Options.
type QuizQuestion struct {
	Type          QuestionType `json:"type"`
	Question      string       `json:"question"`
	Options       []string     `json:"options"`
	CorrectIndex  int          `json:"correctIndex"`
	Explanation   string       `json:"explanation"`
	LinkedCardIDs []string     `json:"linkedCardIds,omitempty"`
}

// Quiz is the end-of-dose quiz that accompanies a set of learning cards.
type Quiz struct {
	Title     string         `json:"title"`
	Questions []QuizQuestion `json:"questions"`
}

// GenerationOutput is the validated target shape the generation parser
// produces: a non-empty ordered list of learning cards plus one quiz.
type GenerationOutput struct {
	Cards []LearningCard `json:"cards"`
	Quiz  Quiz           `json:"quiz"`
}

// CombinedText concatenates the human-readable text of a card: title,
// content blocks, interactions, slot guidance and safety netting. It is the
// input the safety guard scans for risk keywords.
func (c *LearningCard) CombinedText() string {
	parts := make([]string, 0, 8)
	parts = append(parts, c.Title)
	for _, b := range c.ContentBlocks {
		if b.Text != "" {
			parts = append(parts, b.Text)
		}
		parts = append(parts, b.Steps...)
		parts = append(parts, b.Do...)
		parts = append(parts, b.Dont...)
	}
	for _, in := range c.Interactions {
		parts = append(parts, in.Prompt)
		parts = append(parts, in.Options...)
		parts = append(parts, in.Explanation)
	}
	for _, g := range c.SlotLanguage.Guidance {
		parts = append(parts, g.Rule)
	}
	parts = append(parts, c.SafetyNetting...)
	return joinNonEmpty(parts)
}

func joinNonEmpty(parts []string) string {
	out := ""
	for _, p := range parts {
		if p == "" {
			continue
		}
		if out != "" {
			out += "\n"
		}
		out += p
	}
	return out
}
