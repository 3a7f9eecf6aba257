package generation

import (
	"context"

	"github.com/google/uuid"
	"github.com/surgeryhub/dailydose-api/internal/domain"
)

// Generator defines the interface for generating Daily Dose content from an
// editor prompt. It is the boundary between the application core and the
// hosted LLM: implementations own the network call, retries, and parse and
// safety handling of the raw model output.
type Generator interface {
	// GenerateDose produces a validated GenerationOutput for the given
	// prompt. Cards in the returned output carry resolved safety metadata:
	// the risk level floor has been applied and needsSourcing reflects the
	// sources actually present.
	//
	// Returns ErrInvalidResponse (wrapping the validation issues) when the
	// model output cannot be repaired into a valid document, and
	// ErrTransientFailure when retries were exhausted on a temporary
	// failure.
	GenerateDose(ctx context.Context, promptText string, userID uuid.UUID) (*domain.GenerationOutput, error)
}
