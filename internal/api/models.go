package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/surgeryhub/dailydose-api/internal/domain"
	"github.com/surgeryhub/dailydose-api/internal/service"
)

// Common request/response structures

// LoginRequest defines the payload for the login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// AuthResponse defines the successful response for authentication endpoints.
type AuthResponse struct {
	UserID       uuid.UUID         `json:"user_id"`
	SurgeryID    uuid.UUID         `json:"surgery_id"`
	Role         domain.TargetRole `json:"role"`
	AccessToken  string            `json:"access_token"`
	RefreshToken string            `json:"refresh_token"`
}

// RefreshTokenRequest defines the payload for the token refresh endpoint.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// GenerateDoseRequest defines the payload for enqueueing dose generation.
type GenerateDoseRequest struct {
	PromptText string `json:"prompt_text" validate:"required,min=3,max=4000"`
}

// GenerateDoseResponse acknowledges an enqueued generation task.
type GenerateDoseResponse struct {
	TaskID uuid.UUID `json:"task_id"`
	Status string    `json:"status"`
}

// ParseDoseRequest defines the payload for synchronous parsing of raw model
// output.
type ParseDoseRequest struct {
	RawText string `json:"raw_text" validate:"required"`
}

// ParseDoseResponse is the successful parse result.
type ParseDoseResponse struct {
	Data     *domain.GenerationOutput `json:"data"`
	Repaired bool                     `json:"repaired"`
}

// DoseResponse is the API shape of a dose record.
type DoseResponse struct {
	ID            uuid.UUID         `json:"id"`
	SurgeryID     uuid.UUID         `json:"surgery_id"`
	Status        domain.DoseStatus `json:"status"`
	RiskLevel     domain.RiskLevel  `json:"risk_level"`
	NeedsSourcing bool              `json:"needs_sourcing"`
	Approved      bool              `json:"approved"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

// NewDoseResponse maps a domain dose onto the API shape.
func NewDoseResponse(dose *domain.Dose) DoseResponse {
	return DoseResponse{
		ID:            dose.ID,
		SurgeryID:     dose.SurgeryID,
		Status:        dose.Status,
		RiskLevel:     dose.RiskLevel,
		NeedsSourcing: dose.NeedsSourcing,
		Approved:      dose.Approved(),
		CreatedAt:     dose.CreatedAt,
		UpdatedAt:     dose.UpdatedAt,
	}
}

// DoseListResponse wraps a page of doses.
type DoseListResponse struct {
	Doses []DoseResponse `json:"doses"`
}

// CompleteSessionRequest defines the payload for session completion.
type CompleteSessionRequest struct {
	Results []CardResultPayload `json:"results" validate:"required,min=1,dive"`
}

// CardResultPayload is one card outcome within a session completion request.
type CardResultPayload struct {
	CardID        uuid.UUID `json:"card_id"        validate:"required"`
	CorrectCount  int       `json:"correct_count"  validate:"gte=0"`
	QuestionCount int       `json:"question_count" validate:"gte=1"`
}

// CompleteSessionResponse returns the session aggregates.
type CompleteSessionResponse struct {
	CardsReviewed int       `json:"cards_reviewed"`
	CardsCorrect  int       `json:"cards_correct"`
	Accuracy      float64   `json:"accuracy"`
	XPEarned      int       `json:"xp_earned"`
	CompletedAt   time.Time `json:"completed_at"`
}

// NewCompleteSessionResponse maps a session summary onto the API shape.
func NewCompleteSessionResponse(summary *service.SessionSummary) CompleteSessionResponse {
	return CompleteSessionResponse{
		CardsReviewed: summary.CardsReviewed,
		CardsCorrect:  summary.CardsCorrect,
		Accuracy:      summary.Accuracy,
		XPEarned:      summary.XPEarned,
		CompletedAt:   summary.CompletedAt,
	}
}

// DueCardResponse is one due review-state entry.
type DueCardResponse struct {
	CardID       uuid.UUID `json:"card_id"`
	Box          int       `json:"box"`
	DueAt        time.Time `json:"due_at"`
	IntervalDays int       `json:"interval_days"`
}

// DueCardsResponse lists a user's due cards, soonest first.
type DueCardsResponse struct {
	Cards []DueCardResponse `json:"cards"`
}
