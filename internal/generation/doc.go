// Package generation provides interfaces for interacting with external
// AI/LLM services for content generation. It abstracts the details of LLM
// API integration (Gemini), allowing the application to generate Daily Dose
// content from editor prompts without coupling to a specific external
// service.
package generation
