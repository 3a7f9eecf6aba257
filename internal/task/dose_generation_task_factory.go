package task

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/surgeryhub/dailydose-api/internal/generation"
)

// DoseGenerationTaskFactory rebuilds dose generation tasks from persisted
// rows so the runner can requeue them after a restart.
type DoseGenerationTaskFactory struct {
	generator   generation.Generator
	doseService DoseService
	logger      *slog.Logger
}

var _ TaskFactory = (*DoseGenerationTaskFactory)(nil)

// NewDoseGenerationTaskFactory creates a factory wired to the live
// generator and dose service.
func NewDoseGenerationTaskFactory(
	generator generation.Generator,
	doseService DoseService,
	logger *slog.Logger,
) (*DoseGenerationTaskFactory, error) {
	if generator == nil {
		return nil, ErrNilGenerator
	}
	if doseService == nil {
		return nil, ErrNilDoseService
	}
	if logger == nil {
		return nil, ErrNilLogger
	}
	return &DoseGenerationTaskFactory{
		generator:   generator,
		doseService: doseService,
		logger:      logger,
	}, nil
}

// CreateFromPayload rehydrates a task from its stored type and payload,
// preserving the persisted task ID.
func (f *DoseGenerationTaskFactory) CreateFromPayload(taskID uuid.UUID, taskType string, payload []byte) (Task, error) {
	if taskType != TaskTypeDoseGeneration {
		return nil, fmt.Errorf("unknown task type: %s", taskType)
	}

	var p doseGenerationPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return nil, fmt.Errorf("failed to unmarshal task payload: %w", err)
	}

	t, err := NewDoseGenerationTask(p.SurgeryID, p.CreatedBy, p.PromptText, f.generator, f.doseService, f.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to rebuild task: %w", err)
	}
	t.id = taskID
	return t, nil
}
