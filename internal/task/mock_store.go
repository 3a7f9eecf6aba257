package task

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MockTaskStore implements the TaskStore interface for testing
type MockTaskStore struct {
	mutex           sync.RWMutex
	tasks           map[uuid.UUID]Task
	taskStatuses    map[uuid.UUID]TaskStatus
	taskStatusTimes map[uuid.UUID]time.Time
	SaveFn          func(ctx context.Context, task Task) error
	UpdateStatusFn  func(ctx context.Context, taskID uuid.UUID, status TaskStatus, errorMsg string) error
}

// NewMockTaskStore creates a new MockTaskStore with default implementations
func NewMockTaskStore() *MockTaskStore {
	store := &MockTaskStore{
		tasks:           make(map[uuid.UUID]Task),
		taskStatuses:    make(map[uuid.UUID]TaskStatus),
		taskStatusTimes: make(map[uuid.UUID]time.Time),
	}

	store.SaveFn = func(ctx context.Context, task Task) error {
		store.mutex.Lock()
		defer store.mutex.Unlock()

		store.tasks[task.ID()] = task
		store.taskStatuses[task.ID()] = task.Status()
		store.taskStatusTimes[task.ID()] = time.Now()
		return nil
	}

	store.UpdateStatusFn = func(ctx context.Context, taskID uuid.UUID, status TaskStatus, errorMsg string) error {
		store.mutex.Lock()
		defer store.mutex.Unlock()

		if _, exists := store.tasks[taskID]; !exists {
			return nil
		}

		store.taskStatuses[taskID] = status
		store.taskStatusTimes[taskID] = time.Now()
		return nil
	}

	return store
}

// SaveTask persists a task to the mock store
func (s *MockTaskStore) SaveTask(ctx context.Context, task Task) error {
	return s.SaveFn(ctx, task)
}

// UpdateTaskStatus updates the status of a task in the mock store
func (s *MockTaskStore) UpdateTaskStatus(
	ctx context.Context,
	taskID uuid.UUID,
	status TaskStatus,
	errorMsg string,
) error {
	return s.UpdateStatusFn(ctx, taskID, status, errorMsg)
}

// GetPendingTasks retrieves all tasks with "pending" status
func (s *MockTaskStore) GetPendingTasks(ctx context.Context) ([]Task, error) {
	return s.getTasksByStatus(TaskStatusPending, 0), nil
}

// GetProcessingTasks retrieves tasks with "processing" status
func (s *MockTaskStore) GetProcessingTasks(ctx context.Context, olderThan time.Duration) ([]Task, error) {
	return s.getTasksByStatus(TaskStatusProcessing, olderThan), nil
}

func (s *MockTaskStore) getTasksByStatus(status TaskStatus, olderThan time.Duration) []Task {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	var matched []Task
	now := time.Now()

	for id, t := range s.tasks {
		if s.taskStatuses[id] != status {
			continue
		}
		statusTime, exists := s.taskStatusTimes[id]
		if olderThan == 0 || (exists && now.Sub(statusTime) > olderThan) {
			matched = append(matched, t)
		}
	}

	return matched
}

// StatusOf returns the recorded status for a task, for test assertions.
func (s *MockTaskStore) StatusOf(taskID uuid.UUID) (TaskStatus, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	status, ok := s.taskStatuses[taskID]
	return status, ok
}

// WithTx implements TaskStore.WithTx for the mock store. The mock ignores
// the transaction and returns the same instance.
func (s *MockTaskStore) WithTx(tx *sql.Tx) TaskStore {
	return s
}
