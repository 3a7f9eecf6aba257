package safety

// ForbiddenPattern is a text pattern that must not appear in cards written
// for non-clinical staff, such as a named clinical assessment instrument.
type ForbiddenPattern struct {
	// Pattern is matched as a case-insensitive substring.
	Pattern string

	// Label names the pattern in the violation message.
	Label string
}

// Policy holds the keyword and domain lists the guard checks against. The
// lists are plain data so a deployment can tune them without touching the
// matching logic.
type Policy struct {
	// RiskKeywords force a HIGH classification when any of them appears in
	// the combined card text.
	RiskKeywords []string

	// AllowedDomains are UK authority domains whose presence among a card's
	// sources satisfies the sourcing requirement.
	AllowedDomains []string

	// ToolkitPathPrefixes identify relative internal toolkit links.
	ToolkitPathPrefixes []string

	// ToolkitDomain is the platform's own domain; absolute links to it also
	// count as toolkit citations.
	ToolkitDomain string

	// ForbiddenPatterns are rejected in admin-facing card text.
	ForbiddenPatterns []ForbiddenPattern

	// TriagePromptKeywords mark a generation prompt as expecting slot and
	// triage guidance in the resulting cards.
	TriagePromptKeywords []string
}

// DefaultPolicy returns the standard policy used in production.
func DefaultPolicy() Policy {
	return Policy{
		RiskKeywords: []string{
			"chest pain",
			"collapse",
			"unconscious",
			"suicide",
			"suicidal",
			"self-harm",
			"self harm",
			"overdose",
			"anaphylaxis",
			"sepsis",
			"stroke",
			"severe bleeding",
			"difficulty breathing",
		},
		AllowedDomains: []string{
			"nhs.uk",
			"nice.org.uk",
			"gov.uk",
			"cqc.org.uk",
		},
		ToolkitPathPrefixes: []string{
			"/s/",
			"/symptom/",
		},
		ToolkitDomain: "toolkit.surgeryhub.uk",
		ForbiddenPatterns: []ForbiddenPattern{
			{Pattern: "phq-9", Label: "PHQ-9"},
			{Pattern: "phq9", Label: "PHQ-9"},
			{Pattern: "gad-7", Label: "GAD-7"},
			{Pattern: "gad7", Label: "GAD-7"},
			{Pattern: "audit-c", Label: "AUDIT-C"},
			{Pattern: "news2", Label: "NEWS2"},
			{Pattern: "mmse", Label: "MMSE"},
		},
		TriagePromptKeywords: []string{
			"slot",
			"triage",
			"booking",
			"appointment type",
		},
	}
}
