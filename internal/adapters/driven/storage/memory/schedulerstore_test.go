package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/contest-reminder/internal/core/domain"
)

func TestSchedulerStore_Tasks(t *testing.T) {
	store := NewSchedulerStore()
	ctx := context.Background()

	got, err := store.GetTask(ctx, domain.TaskIDContestSync)
	require.NoError(t, err)
	assert.Nil(t, got)

	task := &domain.ScheduledTask{ID: domain.TaskIDContestSync, Name: "Contest Reminder Sync", Interval: time.Hour, Enabled: true}
	require.NoError(t, store.SaveTask(ctx, task))

	got, err = store.GetTask(ctx, domain.TaskIDContestSync)
	require.NoError(t, err)
	assert.Equal(t, time.Hour, got.Interval)

	tasks, err := store.ListTasks(ctx)
	require.NoError(t, err)
	assert.Len(t, tasks, 1)

	require.NoError(t, store.DeleteTask(ctx, domain.TaskIDContestSync))
	tasks, _ = store.ListTasks(ctx)
	assert.Empty(t, tasks)

	assert.ErrorIs(t, store.SaveTask(ctx, nil), domain.ErrInvalidInput)
}

func TestSchedulerStore_History(t *testing.T) {
	store := NewSchedulerStore()
	ctx := context.Background()
	base := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		require.NoError(t, store.RecordResult(ctx, &domain.TaskResult{
			TaskID:         domain.TaskIDContestSync,
			StartedAt:      base.Add(time.Duration(i) * time.Hour),
			Success:        true,
			ItemsProcessed: i,
		}))
	}
	require.NoError(t, store.RecordResult(ctx, &domain.TaskResult{TaskID: "other", StartedAt: base}))

	history, err := store.GetTaskHistory(ctx, domain.TaskIDContestSync, 2)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, 4, history[0].ItemsProcessed)
	assert.Equal(t, 3, history[1].ItemsProcessed)

	require.NoError(t, store.PruneHistory(ctx, 3))
	history, _ = store.GetTaskHistory(ctx, domain.TaskIDContestSync, 10)
	require.Len(t, history, 3)
	assert.Equal(t, 2, history[2].ItemsProcessed)

	other, _ := store.GetTaskHistory(ctx, "other", 10)
	assert.Len(t, other, 1)
}
