// Package genparse turns untrusted free-text model output into a validated
// GenerationOutput, or fails with a precise, addressable list of validation
// issues. It is a pure library: no I/O, no network calls, and no panics for
// any input.
//
// The pipeline is staged and each stage is best-effort before falling
// through: fence/prose stripping, a strict first-pass parse, a narrowly
// scoped repair pass (smart quotes, trailing commas, bareword keys),
// normalisation of known enum spellings and coercions over a generic JSON
// value, and finally strict schema validation into the domain types. The
// repair heuristics target known, observed failure modes of LLM output
// rather than attempting a general permissive JSON grammar, so they cannot
// silently corrupt already-valid JSON content.
package genparse
