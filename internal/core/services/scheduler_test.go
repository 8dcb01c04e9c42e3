package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/contest-reminder/internal/core/domain"
	"github.com/custodia-labs/contest-reminder/internal/core/ports/driven"
	"github.com/custodia-labs/contest-reminder/internal/core/ports/driving"
)

// --- Mock implementations for scheduler testing ---

// mockSchedulerStore implements driven.SchedulerStore for testing.
type mockSchedulerStore struct {
	mu       sync.RWMutex
	tasks    map[string]*domain.ScheduledTask
	results  map[string][]domain.TaskResult
	saveErr  error
	listErr  error
	getErr   error
	pruneErr error
}

func newMockSchedulerStore() *mockSchedulerStore {
	return &mockSchedulerStore{
		tasks:   make(map[string]*domain.ScheduledTask),
		results: make(map[string][]domain.TaskResult),
	}
}

func (m *mockSchedulerStore) GetTask(_ context.Context, taskID string) (*domain.ScheduledTask, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	task, exists := m.tasks[taskID]
	if !exists {
		return nil, nil
	}
	// Return a copy
	taskCopy := *task
	return &taskCopy, nil
}

func (m *mockSchedulerStore) ListTasks(_ context.Context) ([]domain.ScheduledTask, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	tasks := make([]domain.ScheduledTask, 0, len(m.tasks))
	for _, t := range m.tasks {
		tasks = append(tasks, *t)
	}
	return tasks, nil
}

func (m *mockSchedulerStore) SaveTask(_ context.Context, task *domain.ScheduledTask) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	if task == nil {
		return domain.ErrInvalidInput
	}
	taskCopy := *task
	m.tasks[task.ID] = &taskCopy
	return nil
}

func (m *mockSchedulerStore) DeleteTask(_ context.Context, taskID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.tasks, taskID)
	return nil
}

func (m *mockSchedulerStore) RecordResult(_ context.Context, result *domain.TaskResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if result == nil {
		return domain.ErrInvalidInput
	}
	m.results[result.TaskID] = append(m.results[result.TaskID], *result)
	return nil
}

func (m *mockSchedulerStore) GetTaskHistory(_ context.Context, taskID string, limit int) ([]domain.TaskResult, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	results := m.results[taskID]
	if len(results) > limit {
		results = results[len(results)-limit:]
	}
	return results, nil
}

func (m *mockSchedulerStore) PruneHistory(_ context.Context, _ int) error {
	return m.pruneErr
}

// mockFleetSyncer implements driving.FleetSyncer for testing.
type mockFleetSyncer struct {
	mu            sync.Mutex
	syncAllCalled int
	syncAllErr    error
	summary       domain.FleetSummary
}

func (m *mockFleetSyncer) SyncAll(_ context.Context) (domain.FleetSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.syncAllCalled++
	return m.summary, m.syncAllErr
}

func (m *mockFleetSyncer) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.syncAllCalled
}

// Ensure mocks implement interfaces
var _ driven.SchedulerStore = (*mockSchedulerStore)(nil)
var _ driving.FleetSyncer = (*mockFleetSyncer)(nil)

// ==================== Scheduler Tests ====================

func TestNewScheduler(t *testing.T) {
	config := domain.DefaultSchedulerConfig()
	store := newMockSchedulerStore()
	fleet := &mockFleetSyncer{}

	scheduler := NewScheduler(config, store, fleet)

	require.NotNil(t, scheduler)
	assert.Equal(t, config.Enabled, scheduler.config.Enabled)
}

func TestScheduler_StartStop(t *testing.T) {
	config := domain.DefaultSchedulerConfig()
	store := newMockSchedulerStore()
	fleet := &mockFleetSyncer{}

	scheduler := NewScheduler(config, store, fleet)

	ctx, cancel := context.WithCancel(context.Background())

	// Start scheduler in goroutine
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = scheduler.Start(ctx)
	}()

	// Give it time to start
	time.Sleep(50 * time.Millisecond)

	// Stop scheduler
	cancel()
	err := scheduler.Stop()
	require.NoError(t, err)

	wg.Wait()
}

func TestScheduler_StopWithoutStart(t *testing.T) {
	config := domain.DefaultSchedulerConfig()
	store := newMockSchedulerStore()
	fleet := &mockFleetSyncer{}

	scheduler := NewScheduler(config, store, fleet)

	// Stop without starting should be safe
	err := scheduler.Stop()
	require.NoError(t, err)
}

func TestScheduler_DoubleStart(t *testing.T) {
	config := domain.DefaultSchedulerConfig()
	store := newMockSchedulerStore()
	fleet := &mockFleetSyncer{}

	scheduler := NewScheduler(config, store, fleet)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// First start
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = scheduler.Start(ctx)
	}()

	time.Sleep(50 * time.Millisecond)

	// Second start should return immediately (already running)
	ctx2 := context.Background()
	err := scheduler.Start(ctx2)
	assert.NoError(t, err) // Should not error

	cancel()
	scheduler.Stop() //nolint:errcheck
	wg.Wait()
}

func TestScheduler_InitialiseTasks(t *testing.T) {
	config := domain.DefaultSchedulerConfig()
	store := newMockSchedulerStore()
	fleet := &mockFleetSyncer{}

	scheduler := NewScheduler(config, store, fleet)

	ctx := context.Background()
	err := scheduler.initialiseTasks(ctx)
	require.NoError(t, err)

	syncTask, err := store.GetTask(ctx, domain.TaskIDContestSync)
	require.NoError(t, err)
	require.NotNil(t, syncTask)
	assert.Equal(t, "Contest Reminder Sync", syncTask.Name)
	assert.True(t, syncTask.Enabled)
	assert.Equal(t, domain.DefaultSyncInterval, syncTask.Interval)
	assert.True(t, syncTask.NextRun.IsZero())
}

func TestScheduler_EnsureTask_UpdateInterval(t *testing.T) {
	config := domain.DefaultSchedulerConfig()
	store := newMockSchedulerStore()
	fleet := &mockFleetSyncer{}

	scheduler := NewScheduler(config, store, fleet)
	ctx := context.Background()

	// Create initial task
	taskCfg := domain.TaskConfig{
		Enabled:  true,
		Interval: 1 * time.Hour,
	}
	err := scheduler.ensureTask(ctx, "test-task", "Test Task", taskCfg)
	require.NoError(t, err)

	// Update with new interval
	taskCfg.Interval = 2 * time.Hour
	err = scheduler.ensureTask(ctx, "test-task", "Test Task", taskCfg)
	require.NoError(t, err)

	// Verify interval was updated
	task, err := store.GetTask(ctx, "test-task")
	require.NoError(t, err)
	assert.Equal(t, 2*time.Hour, task.Interval)
	assert.False(t, task.NextRun.IsZero())
}

func TestScheduler_RunContestSync(t *testing.T) {
	config := domain.DefaultSchedulerConfig()
	store := newMockSchedulerStore()
	fleet := &mockFleetSyncer{summary: domain.FleetSummary{UsersProcessed: 3}}

	scheduler := NewScheduler(config, store, fleet)

	n, err := scheduler.runContestSync(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, 1, fleet.calls())
}

func TestScheduler_RunContestSync_NilFleet(t *testing.T) {
	config := domain.DefaultSchedulerConfig()
	store := newMockSchedulerStore()

	scheduler := NewScheduler(config, store, nil)

	n, err := scheduler.runContestSync(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestScheduler_CheckAndRunDueTasks(t *testing.T) {
	config := domain.DefaultSchedulerConfig()
	store := newMockSchedulerStore()
	fleet := &mockFleetSyncer{summary: domain.FleetSummary{UsersProcessed: 2}}

	scheduler := NewScheduler(config, store, fleet)
	ctx := context.Background()

	// Create a task that is due
	now := time.Now()
	dueTask := &domain.ScheduledTask{
		ID:       domain.TaskIDContestSync,
		Name:     "Contest Reminder Sync",
		Interval: 1 * time.Hour,
		NextRun:  now.Add(-1 * time.Minute), // Already past due
		Enabled:  true,
	}
	err := store.SaveTask(ctx, dueTask)
	require.NoError(t, err)

	scheduler.checkAndRunDueTasks(ctx)
	scheduler.wg.Wait()

	assert.Equal(t, 1, fleet.calls())

	task, err := store.GetTask(ctx, domain.TaskIDContestSync)
	require.NoError(t, err)
	assert.True(t, task.NextRun.After(now))
	assert.Empty(t, task.LastError)
	assert.False(t, task.LastSuccess.IsZero())

	history, err := store.GetTaskHistory(ctx, domain.TaskIDContestSync, 10)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.True(t, history[0].Success)
	assert.Equal(t, 2, history[0].ItemsProcessed)

	// Not due again until the interval elapses.
	scheduler.checkAndRunDueTasks(ctx)
	scheduler.wg.Wait()
	assert.Equal(t, 1, fleet.calls())
}

func TestScheduler_RecordsFailure(t *testing.T) {
	config := domain.DefaultSchedulerConfig()
	store := newMockSchedulerStore()
	fleet := &mockFleetSyncer{syncAllErr: errors.New("list syncable users: closed")}

	scheduler := NewScheduler(config, store, fleet)
	ctx := context.Background()

	task := &domain.ScheduledTask{ID: domain.TaskIDContestSync, Interval: time.Hour, Enabled: true}
	require.NoError(t, store.SaveTask(ctx, task))

	scheduler.checkAndRunDueTasks(ctx)
	scheduler.wg.Wait()

	saved, err := store.GetTask(ctx, domain.TaskIDContestSync)
	require.NoError(t, err)
	assert.Contains(t, saved.LastError, "closed")

	history, err := store.GetTaskHistory(ctx, domain.TaskIDContestSync, 10)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.False(t, history[0].Success)
}

func TestScheduler_Disabled(t *testing.T) {
	config := domain.SchedulerConfig{Enabled: false}
	store := newMockSchedulerStore()
	fleet := &mockFleetSyncer{}

	scheduler := NewScheduler(config, store, fleet)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = scheduler.Start(ctx)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()
	<-done

	assert.Equal(t, 0, fleet.calls())
	tasks, err := store.ListTasks(context.Background())
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestScheduler_RunTask_UnknownTaskID(t *testing.T) {
	config := domain.DefaultSchedulerConfig()
	store := newMockSchedulerStore()

	scheduler := NewScheduler(config, store, nil)
	ctx := context.Background()

	// Create unknown task
	task := &domain.ScheduledTask{
		ID:      "unknown-task",
		Name:    "Unknown",
		Enabled: true,
	}

	// This should just log and return, not panic
	scheduler.runTask(ctx, task)
	scheduler.wg.Wait()
}
