package task

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/surgeryhub/dailydose-api/internal/domain"
	"github.com/surgeryhub/dailydose-api/internal/generation"
)

// Common errors
var (
	ErrNilGenerator   = errors.New("generator cannot be nil")
	ErrNilDoseService = errors.New("dose service cannot be nil")
	ErrNilLogger      = errors.New("logger cannot be nil")
	ErrEmptyPrompt    = errors.New("prompt text cannot be empty")
	ErrEmptySurgeryID = errors.New("surgery ID cannot be empty")
	ErrEmptyCreator   = errors.New("creator ID cannot be empty")
)

// DoseService defines the dose persistence operations the task needs.
type DoseService interface {
	// CreateDraft persists a generated dose as a draft.
	CreateDraft(ctx context.Context, dose *domain.Dose) error
}

// doseGenerationPayload is the serialized task data persisted alongside the
// task row, enough to rebuild the task after a restart.
type doseGenerationPayload struct {
	SurgeryID  uuid.UUID `json:"surgery_id"`
	CreatedBy  uuid.UUID `json:"created_by"`
	PromptText string    `json:"prompt_text"`
}

// DoseGenerationTask implements the Task interface for generating a Daily
// Dose from an editor prompt: call the generator, fold per-card safety
// metadata up to the dose level, and persist the draft.
type DoseGenerationTask struct {
	id          uuid.UUID
	payload     doseGenerationPayload
	generator   generation.Generator
	doseService DoseService
	logger      *slog.Logger
	status      TaskStatus
}

// NewDoseGenerationTask creates a new dose generation task.
func NewDoseGenerationTask(
	surgeryID, createdBy uuid.UUID,
	promptText string,
	generator generation.Generator,
	doseService DoseService,
	logger *slog.Logger,
) (*DoseGenerationTask, error) {
	if generator == nil {
		return nil, ErrNilGenerator
	}
	if doseService == nil {
		return nil, ErrNilDoseService
	}
	if logger == nil {
		return nil, ErrNilLogger
	}
	if surgeryID == uuid.Nil {
		return nil, ErrEmptySurgeryID
	}
	if createdBy == uuid.Nil {
		return nil, ErrEmptyCreator
	}
	if promptText == "" {
		return nil, ErrEmptyPrompt
	}

	return &DoseGenerationTask{
		id: uuid.New(),
		payload: doseGenerationPayload{
			SurgeryID:  surgeryID,
			CreatedBy:  createdBy,
			PromptText: promptText,
		},
		generator:   generator,
		doseService: doseService,
		logger:      logger.With("task_type", TaskTypeDoseGeneration, "surgery_id", surgeryID),
		status:      TaskStatusPending,
	}, nil
}

// ID returns the task's unique identifier
func (t *DoseGenerationTask) ID() uuid.UUID {
	return t.id
}

// Type returns the task type identifier
func (t *DoseGenerationTask) Type() string {
	return TaskTypeDoseGeneration
}

// Payload returns the task data as a byte slice
func (t *DoseGenerationTask) Payload() []byte {
	data, err := json.Marshal(t.payload)
	if err != nil {
		t.logger.Error("failed to marshal task payload", "error", err)
		return []byte{}
	}
	return data
}

// Status returns the current task status
func (t *DoseGenerationTask) Status() TaskStatus {
	return t.status
}

// Execute runs the generation pipeline and persists the resulting draft.
func (t *DoseGenerationTask) Execute(ctx context.Context) error {
	t.status = TaskStatusProcessing

	output, err := t.generator.GenerateDose(ctx, t.payload.PromptText, t.payload.CreatedBy)
	if err != nil {
		t.status = TaskStatusFailed
		return fmt.Errorf("dose generation failed: %w", err)
	}

	content, err := json.Marshal(output)
	if err != nil {
		t.status = TaskStatusFailed
		return fmt.Errorf("failed to serialize generation output: %w", err)
	}

	riskLevel, needsSourcing := foldSafetyMetadata(output)

	dose, err := domain.NewDose(
		t.payload.SurgeryID,
		t.payload.CreatedBy,
		t.payload.PromptText,
		content,
		riskLevel,
		needsSourcing,
	)
	if err != nil {
		t.status = TaskStatusFailed
		return fmt.Errorf("failed to build dose: %w", err)
	}

	if err := t.doseService.CreateDraft(ctx, dose); err != nil {
		t.status = TaskStatusFailed
		return fmt.Errorf("failed to persist dose draft: %w", err)
	}

	t.status = TaskStatusCompleted
	t.logger.Info("dose draft created",
		"dose_id", dose.ID,
		"card_count", len(output.Cards),
		"risk_level", string(riskLevel))
	return nil
}

// foldSafetyMetadata reduces per-card safety metadata to the dose level: the
// highest card risk wins and any card needing sourcing marks the whole dose.
func foldSafetyMetadata(output *domain.GenerationOutput) (domain.RiskLevel, bool) {
	riskLevel := domain.RiskLevelLow
	needsSourcing := false
	for i := range output.Cards {
		card := &output.Cards[i]
		riskLevel = maxRiskLevel(riskLevel, card.RiskLevel)
		if card.NeedsSourcing {
			needsSourcing = true
		}
	}
	return riskLevel, needsSourcing
}

func maxRiskLevel(a, b domain.RiskLevel) domain.RiskLevel {
	if a == domain.RiskLevelHigh || b == domain.RiskLevelHigh {
		return domain.RiskLevelHigh
	}
	if a == domain.RiskLevelMed || b == domain.RiskLevelMed {
		return domain.RiskLevelMed
	}
	return domain.RiskLevelLow
}
