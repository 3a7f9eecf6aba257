package postgres

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/google/uuid"
	"github.com/surgeryhub/dailydose-api/internal/domain"
	"github.com/surgeryhub/dailydose-api/internal/platform/logger"
	"github.com/surgeryhub/dailydose-api/internal/store"
)

// PostgresDoseStore implements the store.DoseStore interface using a
// PostgreSQL database as the storage backend. Dose content is stored as
// JSONB.
type PostgresDoseStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresDoseStore creates a new PostgreSQL implementation of the
// DoseStore interface. It accepts a database connection or transaction that
// should be initialized and managed by the caller. If logger is nil, a
// default logger will be used.
func NewPostgresDoseStore(db store.DBTX, logger *slog.Logger) *PostgresDoseStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresDoseStore{
		db:     db,
		logger: logger.With(slog.String("component", "dose_store")),
	}
}

// Ensure PostgresDoseStore implements store.DoseStore
var _ store.DoseStore = (*PostgresDoseStore)(nil)

const doseColumns = `
	id, surgery_id, created_by, prompt_text, content, status,
	risk_level, needs_sourcing, approved_by, approved_at, created_at, updated_at
`

// Create implements store.DoseStore.Create.
func (s *PostgresDoseStore) Create(ctx context.Context, dose *domain.Dose) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := dose.Validate(); err != nil {
		log.Warn("dose validation failed during create",
			slog.String("error", err.Error()),
			slog.String("dose_id", dose.ID.String()))
		return err
	}

	query := `
		INSERT INTO doses (` + doseColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		dose.ID,
		dose.SurgeryID,
		dose.CreatedBy,
		dose.PromptText,
		[]byte(dose.Content),
		dose.Status,
		dose.RiskLevel,
		dose.NeedsSourcing,
		dose.ApprovedBy,
		dose.ApprovedAt,
		dose.CreatedAt,
		dose.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to create dose",
			slog.String("error", err.Error()),
			slog.String("dose_id", dose.ID.String()),
			slog.String("surgery_id", dose.SurgeryID.String()))
		return MapError(err)
	}

	log.Info("dose created",
		slog.String("dose_id", dose.ID.String()),
		slog.String("surgery_id", dose.SurgeryID.String()),
		slog.String("status", string(dose.Status)))
	return nil
}

// GetByID implements store.DoseStore.GetByID.
// Returns store.ErrDoseNotFound if the dose does not exist.
func (s *PostgresDoseStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Dose, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT ` + doseColumns + `
		FROM doses
		WHERE id = $1
	`

	dose, err := scanDose(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, store.ErrDoseNotFound
		}
		log.Error("failed to get dose",
			slog.String("error", err.Error()),
			slog.String("dose_id", id.String()))
		return nil, MapError(err)
	}

	return dose, nil
}

// Update implements store.DoseStore.Update.
// Returns store.ErrDoseNotFound if the dose does not exist.
func (s *PostgresDoseStore) Update(ctx context.Context, dose *domain.Dose) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := dose.Validate(); err != nil {
		log.Warn("dose validation failed during update",
			slog.String("error", err.Error()),
			slog.String("dose_id", dose.ID.String()))
		return err
	}

	query := `
		UPDATE doses
		SET content = $1, status = $2, risk_level = $3, needs_sourcing = $4,
			approved_by = $5, approved_at = $6, updated_at = $7
		WHERE id = $8
	`
	result, err := s.db.ExecContext(
		ctx,
		query,
		[]byte(dose.Content),
		dose.Status,
		dose.RiskLevel,
		dose.NeedsSourcing,
		dose.ApprovedBy,
		dose.ApprovedAt,
		dose.UpdatedAt,
		dose.ID,
	)
	if err != nil {
		log.Error("failed to update dose",
			slog.String("error", err.Error()),
			slog.String("dose_id", dose.ID.String()))
		return MapError(err)
	}

	return CheckRowsAffected(result, "dose")
}

// ListBySurgery implements store.DoseStore.ListBySurgery.
func (s *PostgresDoseStore) ListBySurgery(ctx context.Context, surgeryID uuid.UUID, status domain.DoseStatus, limit, offset int) ([]*domain.Dose, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT ` + doseColumns + `
		FROM doses
		WHERE surgery_id = $1 AND ($2 = '' OR status = $2)
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4
	`

	rows, err := s.db.QueryContext(ctx, query, surgeryID, string(status), limit, offset)
	if err != nil {
		log.Error("failed to list doses",
			slog.String("error", err.Error()),
			slog.String("surgery_id", surgeryID.String()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	var doses []*domain.Dose
	for rows.Next() {
		dose, err := scanDose(rows)
		if err != nil {
			return nil, MapError(err)
		}
		doses = append(doses, dose)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return doses, nil
}

// WithTx implements store.DoseStore.WithTx.
func (s *PostgresDoseStore) WithTx(tx *sql.Tx) store.DoseStore {
	return &PostgresDoseStore{
		db:     tx,
		logger: s.logger,
	}
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanDose(row rowScanner) (*domain.Dose, error) {
	var dose domain.Dose
	var content []byte
	var approvedBy uuid.NullUUID
	var approvedAt sql.NullTime

	err := row.Scan(
		&dose.ID,
		&dose.SurgeryID,
		&dose.CreatedBy,
		&dose.PromptText,
		&content,
		&dose.Status,
		&dose.RiskLevel,
		&dose.NeedsSourcing,
		&approvedBy,
		&approvedAt,
		&dose.CreatedAt,
		&dose.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	dose.Content = content
	if approvedBy.Valid {
		dose.ApprovedBy = &approvedBy.UUID
	}
	if approvedAt.Valid {
		dose.ApprovedAt = &approvedAt.Time
	}

	return &dose, nil
}
