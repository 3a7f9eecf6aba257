package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/surgeryhub/dailydose-api/internal/domain"
	"github.com/surgeryhub/dailydose-api/internal/platform/logger"
	"github.com/surgeryhub/dailydose-api/internal/store"
)

// DoseService provides dose draft operations scoped to a surgery.
type DoseService interface {
	// CreateDraft persists a generated dose as a draft.
	CreateDraft(ctx context.Context, dose *domain.Dose) error

	// GetDose retrieves a dose, enforcing that it belongs to the caller's
	// surgery. Returns ErrDoseNotFound or ErrNotOwned.
	GetDose(ctx context.Context, doseID, surgeryID uuid.UUID) (*domain.Dose, error)

	// ListDoses lists a surgery's doses filtered by status, newest first.
	ListDoses(ctx context.Context, surgeryID uuid.UUID, status domain.DoseStatus, limit, offset int) ([]*domain.Dose, error)
}

type doseServiceImpl struct {
	doseStore store.DoseStore
	logger    *slog.Logger
}

var _ DoseService = (*doseServiceImpl)(nil)

// NewDoseService creates a new DoseService.
func NewDoseService(doseStore store.DoseStore, logger *slog.Logger) (DoseService, error) {
	if doseStore == nil {
		return nil, errors.New("doseStore cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &doseServiceImpl{
		doseStore: doseStore,
		logger:    logger.With(slog.String("component", "dose_service")),
	}, nil
}

func (s *doseServiceImpl) CreateDraft(ctx context.Context, dose *domain.Dose) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := s.doseStore.Create(ctx, dose); err != nil {
		log.Error("failed to create dose draft",
			slog.String("error", err.Error()),
			slog.String("surgery_id", dose.SurgeryID.String()))
		return err
	}

	log.Info("dose draft created",
		slog.String("dose_id", dose.ID.String()),
		slog.String("surgery_id", dose.SurgeryID.String()),
		slog.String("risk_level", string(dose.RiskLevel)))
	return nil
}

func (s *doseServiceImpl) GetDose(ctx context.Context, doseID, surgeryID uuid.UUID) (*domain.Dose, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	dose, err := s.doseStore.GetByID(ctx, doseID)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, ErrDoseNotFound
		}
		log.Error("failed to retrieve dose",
			slog.String("error", err.Error()),
			slog.String("dose_id", doseID.String()))
		return nil, err
	}

	if dose.SurgeryID != surgeryID {
		log.Warn("cross-surgery dose access denied",
			slog.String("dose_id", doseID.String()),
			slog.String("requesting_surgery_id", surgeryID.String()))
		return nil, ErrNotOwned
	}

	return dose, nil
}

func (s *doseServiceImpl) ListDoses(
	ctx context.Context,
	surgeryID uuid.UUID,
	status domain.DoseStatus,
	limit, offset int,
) ([]*domain.Dose, error) {
	return s.doseStore.ListBySurgery(ctx, surgeryID, status, limit, offset)
}
