package scheduler

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/fentz26/taskpulse/internal/models"
	"github.com/fentz26/taskpulse/internal/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRunOnce_SeedsAndComputes(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		task, err := s.CreateTask(ctx, store.TaskInput{Title: "Hecha"})
		require.NoError(t, err)
		_, err = s.SetCompleted(ctx, task.ID, true)
		require.NoError(t, err)
	}
	_, err := s.CreateTask(ctx, store.TaskInput{Title: "Pendiente"})
	require.NoError(t, err)

	sch := New(s, s, &Config{Interval: time.Hour}, nil)
	sch.RunOnce(ctx)

	saved, err := s.LoadGoals(ctx)
	require.NoError(t, err)
	require.Len(t, saved, 3)

	byID := map[string]models.Goal{}
	for _, g := range saved {
		byID[g.ID] = g
	}
	assert.Equal(t, 2, byID["daily-tasks"].Current)
	assert.Equal(t, 2, byID["weekly-tasks"].Current)
	assert.Equal(t, 67, byID["monthly-productivity"].Current)

	stats := sch.GetStats()
	assert.Equal(t, 1, stats["runs"])
	assert.Equal(t, 0, stats["failures"])
	assert.Contains(t, stats, "last_run")
}

type failingTasks struct{}

func (failingTasks) ListTasks(context.Context) ([]models.Task, error) {
	return nil, errors.New("db locked")
}

func TestRunOnce_LogsFailure(t *testing.T) {
	s := newTestStore(t)
	core, logs := observer.New(zapcore.WarnLevel)

	sch := New(s, failingTasks{}, nil, zap.New(core))
	sch.RunOnce(context.Background())

	stats := sch.GetStats()
	assert.Equal(t, 1, stats["failures"])
	assert.Contains(t, stats["last_error"], "db locked")
	assert.Equal(t, 1, logs.FilterMessage("goal refresh failed").Len())
}

func TestStartStop(t *testing.T) {
	s := newTestStore(t)

	sch := New(s, s, &Config{Interval: 10 * time.Millisecond, RunOnStart: true}, nil)
	sch.Start()

	require.Eventually(t, func() bool {
		runs, _ := sch.GetStats()["runs"].(int)
		return runs >= 2
	}, 2*time.Second, 5*time.Millisecond)

	done := make(chan struct{})
	go func() {
		sch.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not return")
	}

	goals, err := s.LoadGoals(context.Background())
	require.NoError(t, err)
	assert.Len(t, goals, 3)
}
