package gemini

// promptData represents the data passed to the prompt template.
type promptData struct {
	PromptText string
}

// dosePromptTemplate instructs the model to return a single JSON object in
// the GenerationOutput shape. The enum values and ranges here mirror the
// schema the parser validates against; drift between the two shows up as
// validation issues, not silent acceptance.
const dosePromptTemplate = `You are writing micro-learning content for UK GP practice staff.

Create a Daily Dose for this topic:

{{.PromptText}}

Respond with ONLY a single JSON object, no markdown fences and no commentary, in exactly this shape:

{
  "cards": [
    {
      "targetRole": "ADMIN" | "GP" | "NURSE",
      "title": "string",
      "estimatedTimeMinutes": 3-10,
      "tags": ["string"],
      "riskLevel": "LOW" | "MED" | "HIGH",
      "needsSourcing": true | false,
      "reviewByDate": "YYYY-MM-DD",
      "sources": [{"title": "string", "url": "string or null", "publisher": "string"}],
      "contentBlocks": [
        {"type": "text", "text": "string"} |
        {"type": "callout", "text": "string"} |
        {"type": "steps", "steps": ["string"]} |
        {"type": "do-dont", "do": ["string"], "dont": ["string"]}
      ],
      "interactions": [
        {
          "type": "mcq" | "true_false" | "choose_action",
          "prompt": "string",
          "options": ["string", "string"],
          "correctIndex": 0,
          "explanation": "string"
        }
      ],
      "slotLanguage": {
        "relevant": true | false,
        "guidance": [{"slot": "Red" | "Orange" | "Pink-Purple" | "Green", "rule": "string"}]
      },
      "safetyNetting": ["string"]
    }
  ],
  "quiz": {
    "title": "string",
    "questions": [
      {
        "type": "mcq" | "true_false",
        "question": "string",
        "options": ["string", "string"],
        "correctIndex": 0,
        "explanation": "string",
        "linkedCardIds": ["string"]
      }
    ]
  }
}

Rules:
- Content for ADMIN staff must never instruct them to make clinical judgements or use clinical assessment instruments.
- Cite UK sources (nhs.uk, nice.org.uk) or internal toolkit pages.
- Safety netting must name the escalation route for red-flag presentations.
- Keep each card completable in the stated estimatedTimeMinutes.`
