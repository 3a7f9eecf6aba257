package genparse

import (
	"encoding/json"
	"regexp"
	"strings"
)

// parseAttempt is the outcome of a strict JSON parse. Modelling the failure
// as data keeps the repair branch a data-driven decision instead of an
// exception handler.
type parseAttempt struct {
	value any
	err   error
}

// ok reports whether the parse succeeded.
func (a parseAttempt) ok() bool {
	return a.err == nil
}

// tryParse attempts a strict JSON parse of the given text. Numbers are
// decoded as json.Number so integer fields survive without float rounding.
func tryParse(text string) parseAttempt {
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()

	var value any
	if err := dec.Decode(&value); err != nil {
		return parseAttempt{err: err}
	}
	return parseAttempt{value: value}
}

var fenceMarkerRe = regexp.MustCompile("(?i)```(?:json)?")

// extractObject strips markdown code-fence markers, then slices the text to
// the span between the first '{' and the last '}'. This tolerates the model
// wrapping its JSON in commentary. Returns false when no object span exists.
func extractObject(raw string) (string, bool) {
	cleaned := fenceMarkerRe.ReplaceAllString(raw, "")

	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start == -1 || end == -1 || end < start {
		return "", false
	}

	return cleaned[start : end+1], true
}

var (
	// Trailing-comma removal only matches a comma immediately followed by a
	// closing bracket, so it cannot touch commas inside string content.
	trailingCommaRe = regexp.MustCompile(`,\s*([}\]])`)

	// Bareword key quoting only fires when the key is preceded by '{' or ','
	// and followed by ':'.
	barewordKeyRe = regexp.MustCompile(`([{,]\s*)([A-Za-z_][A-Za-z0-9_]*)\s*:`)

	smartQuoteReplacer = strings.NewReplacer(
		"“", `"`, // left double curly
		"”", `"`, // right double curly
		"„", `"`, // low double curly
		"‘", "'", // left single curly
		"’", "'", // right single curly
	)
)

// repair applies the narrowly scoped substitutions for the observed LLM
// failure modes, in order: smart-quote normalisation, trailing-comma
// removal, bareword key quoting. The result still has to survive a strict
// parse; repair never claims success on its own.
func repair(text string) string {
	text = smartQuoteReplacer.Replace(text)
	text = trailingCommaRe.ReplaceAllString(text, "$1")
	text = barewordKeyRe.ReplaceAllString(text, `$1"$2":`)
	return text
}
