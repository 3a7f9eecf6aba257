// Package domain contains the core business entities, value objects, and
// domain logic of the Daily Dose platform: generated learning cards and
// quizzes, per-user spaced-repetition review state, and the validation and
// safety value objects shared between the generation pipeline and the
// publish workflow. It is independent of any specific infrastructure or
// delivery mechanism.
package domain
