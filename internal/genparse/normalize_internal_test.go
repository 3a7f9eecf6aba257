package genparse

import (
	"encoding/json"
	"testing"
)

func TestNormalizeSlot(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		input    string
		expected string
	}{
		{input: "Red", expected: "Red"},
		{input: "red", expected: "Red"},
		{input: "ORANGE", expected: "Orange"},
		{input: "green", expected: "Green"},
		{input: "Pink-Purple", expected: "Pink-Purple"},
		{input: "pink/purple", expected: "Pink-Purple"},
		{input: "Pink - Purple", expected: "Pink-Purple"},
		{input: "pink", expected: "Pink-Purple"},
		{input: "purple", expected: "Pink-Purple"},
		{input: "magenta", expected: "magenta"},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			t.Parallel()
			if got := normalizeSlot(tc.input); got != tc.expected {
				t.Errorf("normalizeSlot(%q) = %q, want %q", tc.input, got, tc.expected)
			}
		})
	}
}

func TestNormalizeRole(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		input    string
		expected string
	}{
		{input: "receptionist", expected: "ADMIN"},
		{input: "Reception", expected: "ADMIN"},
		{input: "admin", expected: "ADMIN"},
		{input: "ADMIN", expected: "ADMIN"},
		{input: "gp", expected: "GP"},
		{input: " GP ", expected: "GP"},
		{input: "Nurse", expected: "NURSE"},
		{input: "physio", expected: "PHYSIO"},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			t.Parallel()
			if got := normalizeRole(tc.input); got != tc.expected {
				t.Errorf("normalizeRole(%q) = %q, want %q", tc.input, got, tc.expected)
			}
		})
	}
}

func TestNormalizeRisk(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		input    string
		expected string
	}{
		{input: "low", expected: "LOW"},
		{input: "med", expected: "MED"},
		{input: "Medium", expected: "MED"},
		{input: "HIGH", expected: "HIGH"},
		{input: "critical", expected: "CRITICAL"},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			t.Parallel()
			if got := normalizeRisk(tc.input); got != tc.expected {
				t.Errorf("normalizeRisk(%q) = %q, want %q", tc.input, got, tc.expected)
			}
		})
	}
}

func TestNormalizeVariantTag(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		input    string
		expected string
	}{
		{input: "MCQ", expected: "mcq"},
		{input: "true-false", expected: "true_false"},
		{input: "True False", expected: "true_false"},
		{input: "do-dont", expected: "do-dont"},
		{input: "do_dont", expected: "do-dont"},
		{input: "Do Dont", expected: "do-dont"},
		{input: "choose-action", expected: "choose_action"},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			t.Parallel()
			if got := normalizeVariantTag(tc.input); got != tc.expected {
				t.Errorf("normalizeVariantTag(%q) = %q, want %q", tc.input, got, tc.expected)
			}
		})
	}
}

func TestNormalizeGenerationDoesNotMutateInput(t *testing.T) {
	t.Parallel()

	input := map[string]any{
		"cards": map[string]any{
			"targetRole": "receptionist",
			"interactions": []any{
				map[string]any{"correctIndex": "2"},
			},
		},
	}

	normalized := normalizeGeneration(input)

	card, ok := input["cards"].(map[string]any)
	if !ok {
		t.Fatal("input cards value was replaced")
	}
	if card["targetRole"] != "receptionist" {
		t.Errorf("input targetRole mutated to %v", card["targetRole"])
	}

	out, ok := normalized.(map[string]any)
	if !ok {
		t.Fatalf("normalized value is %T, want map", normalized)
	}
	cards, ok := out["cards"].([]any)
	if !ok || len(cards) != 1 {
		t.Fatalf("normalized cards = %v, want one-element list", out["cards"])
	}
	normCard := cards[0].(map[string]any)
	if normCard["targetRole"] != "ADMIN" {
		t.Errorf("normalized targetRole = %v, want ADMIN", normCard["targetRole"])
	}
	interactions := normCard["interactions"].([]any)
	index := interactions[0].(map[string]any)["correctIndex"]
	if index != json.Number("2") {
		t.Errorf("normalized correctIndex = %v (%T), want json.Number(2)", index, index)
	}
}

func TestEnsureList(t *testing.T) {
	t.Parallel()

	if got := ensureList([]any{"a", "b"}); len(got) != 2 {
		t.Errorf("ensureList on a list = %v, want unchanged", got)
	}
	if got := ensureList("a"); len(got) != 1 || got[0] != "a" {
		t.Errorf("ensureList on a scalar = %v, want one-element list", got)
	}
	if got := ensureList(nil); got != nil {
		t.Errorf("ensureList(nil) = %v, want nil", got)
	}
}
