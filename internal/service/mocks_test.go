package service

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/surgeryhub/dailydose-api/internal/domain"
	"github.com/surgeryhub/dailydose-api/internal/store"
)

// mockDoseStore is an in-memory store.DoseStore for service tests.
type mockDoseStore struct {
	mu       sync.Mutex
	doses    map[uuid.UUID]*domain.Dose
	CreateFn func(ctx context.Context, dose *domain.Dose) error
	UpdateFn func(ctx context.Context, dose *domain.Dose) error
}

func newMockDoseStore() *mockDoseStore {
	return &mockDoseStore{doses: make(map[uuid.UUID]*domain.Dose)}
}

func (m *mockDoseStore) Create(ctx context.Context, dose *domain.Dose) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, dose)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.doses[dose.ID] = dose
	return nil
}

func (m *mockDoseStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Dose, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	dose, ok := m.doses[id]
	if !ok {
		return nil, store.ErrDoseNotFound
	}
	copied := *dose
	return &copied, nil
}

func (m *mockDoseStore) Update(ctx context.Context, dose *domain.Dose) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, dose)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.doses[dose.ID]; !ok {
		return store.ErrDoseNotFound
	}
	m.doses[dose.ID] = dose
	return nil
}

func (m *mockDoseStore) ListBySurgery(
	ctx context.Context,
	surgeryID uuid.UUID,
	status domain.DoseStatus,
	limit, offset int,
) ([]*domain.Dose, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.Dose
	for _, d := range m.doses {
		if d.SurgeryID != surgeryID {
			continue
		}
		if status != "" && d.Status != status {
			continue
		}
		copied := *d
		out = append(out, &copied)
	}
	return out, nil
}

func (m *mockDoseStore) WithTx(tx *sql.Tx) store.DoseStore {
	return m
}

// mockReviewStateStore is an in-memory store.ReviewStateStore keyed by
// user x card.
type mockReviewStateStore struct {
	mu     sync.Mutex
	states map[string]*domain.ReviewState
	SaveFn func(ctx context.Context, state *domain.ReviewState) error
}

func newMockReviewStateStore() *mockReviewStateStore {
	return &mockReviewStateStore{states: make(map[string]*domain.ReviewState)}
}

func stateKey(userID, cardID uuid.UUID) string {
	return userID.String() + "/" + cardID.String()
}

func (m *mockReviewStateStore) Get(ctx context.Context, userID, cardID uuid.UUID) (*domain.ReviewState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	state, ok := m.states[stateKey(userID, cardID)]
	if !ok {
		return nil, store.ErrReviewStateNotFound
	}
	copied := *state
	return &copied, nil
}

func (m *mockReviewStateStore) GetForUpdate(ctx context.Context, userID, cardID uuid.UUID) (*domain.ReviewState, error) {
	return m.Get(ctx, userID, cardID)
}

func (m *mockReviewStateStore) Save(ctx context.Context, state *domain.ReviewState) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, state)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *state
	m.states[stateKey(state.UserID, state.CardID)] = &copied
	return nil
}

func (m *mockReviewStateStore) ListDue(
	ctx context.Context,
	userID uuid.UUID,
	due time.Time,
	limit int,
) ([]*domain.ReviewState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.ReviewState
	for _, s := range m.states {
		if s.UserID == userID && !s.DueAt.After(due) {
			copied := *s
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (m *mockReviewStateStore) WithTx(tx *sql.Tx) store.ReviewStateStore {
	return m
}

// passthroughTx bypasses the real database transaction so the service logic
// can be exercised against in-memory stores.
func passthroughTx(ctx context.Context, db *sql.DB, fn store.TxFn) error {
	return fn(ctx, nil)
}
