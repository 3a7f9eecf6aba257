package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/surgeryhub/dailydose-api/internal/domain"
	"github.com/surgeryhub/dailydose-api/internal/platform/logger"
	"github.com/surgeryhub/dailydose-api/internal/safety"
	"github.com/surgeryhub/dailydose-api/internal/store"
)

// PublishService moves a reviewed dose draft into the published state,
// enforcing the safety gates first.
type PublishService interface {
	// Publish transitions a dose to published. It fails with
	// ErrClinicianApprovalRequired when the dose is HIGH risk and carries no
	// clinician sign-off, and with a SafetyValidationError when sourcing is
	// unresolved or admin-content rules are breached.
	Publish(ctx context.Context, doseID, surgeryID uuid.UUID) (*domain.Dose, error)
}

type publishServiceImpl struct {
	doseStore store.DoseStore
	guard     *safety.Guard
	logger    *slog.Logger
}

var _ PublishService = (*publishServiceImpl)(nil)

// NewPublishService creates a new PublishService.
func NewPublishService(
	doseStore store.DoseStore,
	guard *safety.Guard,
	logger *slog.Logger,
) (PublishService, error) {
	if doseStore == nil {
		return nil, errors.New("doseStore cannot be nil")
	}
	if guard == nil {
		guard = safety.NewDefaultGuard()
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &publishServiceImpl{
		doseStore: doseStore,
		guard:     guard,
		logger:    logger.With(slog.String("component", "publish_service")),
	}, nil
}

// Publish implements PublishService.
func (s *publishServiceImpl) Publish(ctx context.Context, doseID, surgeryID uuid.UUID) (*domain.Dose, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	dose, err := s.doseStore.GetByID(ctx, doseID)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, ErrDoseNotFound
		}
		return nil, fmt.Errorf("failed to load dose: %w", err)
	}

	if dose.SurgeryID != surgeryID {
		log.Warn("cross-surgery publish denied",
			slog.String("dose_id", doseID.String()),
			slog.String("requesting_surgery_id", surgeryID.String()))
		return nil, ErrNotOwned
	}

	if dose.Status != domain.DoseStatusDraft && dose.Status != domain.DoseStatusPendingReview {
		return nil, ErrDoseNotPublishable
	}

	if s.guard.ShouldRequireClinicianApproval(dose.RiskLevel) && !dose.Approved() {
		log.Info("publish blocked pending clinician approval",
			slog.String("dose_id", doseID.String()),
			slog.String("risk_level", string(dose.RiskLevel)))
		return nil, ErrClinicianApprovalRequired
	}

	violations, err := s.collectViolations(dose)
	if err != nil {
		return nil, err
	}
	if len(violations) > 0 {
		log.Info("publish blocked by safety validation",
			slog.String("dose_id", doseID.String()),
			slog.Int("violation_count", len(violations)))
		return nil, &SafetyValidationError{Violations: violations}
	}

	if err := dose.UpdateStatus(domain.DoseStatusPublished); err != nil {
		return nil, err
	}

	if err := s.doseStore.Update(ctx, dose); err != nil {
		return nil, fmt.Errorf("failed to persist published dose: %w", err)
	}

	log.Info("dose published",
		slog.String("dose_id", doseID.String()),
		slog.String("surgery_id", surgeryID.String()))

	return dose, nil
}

// collectViolations gathers everything that blocks publication: unresolved
// sourcing on the dose, and admin-content rule breaches within its cards.
func (s *publishServiceImpl) collectViolations(dose *domain.Dose) ([]domain.SafetyViolation, error) {
	var violations []domain.SafetyViolation

	if dose.NeedsSourcing {
		violations = append(violations, domain.SafetyViolation{
			Code:    domain.ViolationUnresolvedSourcing,
			Message: "dose has unresolved sourcing; attach an authoritative source before publishing",
		})
	}

	// Content was validated at creation time; a decode failure here means
	// the row was corrupted out of band.
	var output domain.GenerationOutput
	if err := json.Unmarshal(dose.Content, &output); err != nil {
		return nil, fmt.Errorf("failed to decode dose content for safety validation: %w", err)
	}

	violations = append(violations, s.guard.ValidateAdminCards(output.Cards, dose.PromptText)...)
	return violations, nil
}
