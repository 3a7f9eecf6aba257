package domain

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// DoseStatus represents the editorial state of a generated dose.
type DoseStatus string

// Possible dose status values
const (
	DoseStatusDraft         DoseStatus = "draft"
	DoseStatusPendingReview DoseStatus = "pending_review"
	DoseStatusPublished     DoseStatus = "published"
	DoseStatusArchived      DoseStatus = "archived"
)

// Common validation errors for Dose
var (
	ErrEmptyDoseID        = errors.New("dose ID cannot be empty")
	ErrEmptyDoseSurgeryID = errors.New("dose surgery ID cannot be empty")
	ErrEmptyDoseCreator   = errors.New("dose creator ID cannot be empty")
	ErrEmptyDoseContent   = errors.New("dose content cannot be empty")
	ErrInvalidDoseContent = errors.New("dose content must be valid JSON")
)

// Dose represents one generated Daily Dose draft: the validated generation
// output persisted for review and eventual publication within a surgery.
// Content holds the GenerationOutput serialised as JSONB.
type Dose struct {
	ID            uuid.UUID       `json:"id"`
	SurgeryID     uuid.UUID       `json:"surgery_id"`
	CreatedBy     uuid.UUID       `json:"created_by"`
	PromptText    string          `json:"prompt_text"`
	Content       json.RawMessage `json:"content"`
	Status        DoseStatus      `json:"status"`
	RiskLevel     RiskLevel       `json:"risk_level"`
	NeedsSourcing bool            `json:"needs_sourcing"`
	ApprovedBy    *uuid.UUID      `json:"approved_by,omitempty"`
	ApprovedAt    *time.Time      `json:"approved_at,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// NewDose creates a new draft Dose for the given surgery and creator.
// Returns an error if validation fails.
func NewDose(
	surgeryID, createdBy uuid.UUID,
	promptText string,
	content json.RawMessage,
	riskLevel RiskLevel,
	needsSourcing bool,
) (*Dose, error) {
	now := time.Now().UTC()
	dose := &Dose{
		ID:            uuid.New(),
		SurgeryID:     surgeryID,
		CreatedBy:     createdBy,
		PromptText:    promptText,
		Content:       content,
		Status:        DoseStatusDraft,
		RiskLevel:     riskLevel,
		NeedsSourcing: needsSourcing,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := dose.Validate(); err != nil {
		return nil, err
	}

	return dose, nil
}

// Validate checks if the Dose has valid data.
// Returns an error if any field fails validation.
func (d *Dose) Validate() error {
	if d.ID == uuid.Nil {
		return ErrEmptyDoseID
	}

	if d.SurgeryID == uuid.Nil {
		return ErrEmptyDoseSurgeryID
	}

	if d.CreatedBy == uuid.Nil {
		return ErrEmptyDoseCreator
	}

	if len(d.Content) == 0 {
		return ErrEmptyDoseContent
	}

	var js json.RawMessage
	if err := json.Unmarshal(d.Content, &js); err != nil {
		return ErrInvalidDoseContent
	}

	if !isValidDoseStatus(d.Status) {
		return ErrInvalidDoseStatus
	}

	if !d.RiskLevel.IsValid() {
		return ErrInvalidRiskLevel
	}

	return nil
}

// Approve records the clinician sign-off required before HIGH-risk content
// can be published.
func (d *Dose) Approve(clinicianID uuid.UUID, at time.Time) {
	d.ApprovedBy = &clinicianID
	d.ApprovedAt = &at
	d.UpdatedAt = time.Now().UTC()
}

// Approved reports whether a clinician has signed off on the dose.
func (d *Dose) Approved() bool {
	return d.ApprovedBy != nil && d.ApprovedAt != nil
}

// UpdateStatus updates the dose's status and the UpdatedAt timestamp.
// Returns an error if the new status is invalid.
func (d *Dose) UpdateStatus(status DoseStatus) error {
	if !isValidDoseStatus(status) {
		return ErrInvalidDoseStatus
	}

	d.Status = status
	d.UpdatedAt = time.Now().UTC()
	return nil
}

// isValidDoseStatus checks if the given status is a valid DoseStatus.
func isValidDoseStatus(status DoseStatus) bool {
	switch status {
	case DoseStatusDraft, DoseStatusPendingReview, DoseStatusPublished, DoseStatusArchived:
		return true
	default:
		return false
	}
}
