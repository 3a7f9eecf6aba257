// Package gemini provides an implementation of the generation.Generator
// interface that uses Google's Gemini API for generating Daily Dose content
// from editor prompts.
//
// This package is an infrastructure adapter: it owns the network call,
// retry logic with exponential backoff, response-text extraction, and the
// handoff of raw model output to the parse and safety pipeline. The rest of
// the application only sees the generation.Generator interface and the
// domain types.
package gemini
