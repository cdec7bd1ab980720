package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/fentz26/taskpulse/internal/models"
)

func TestNew(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "nested", "test.db")

	s, err := New(dbPath)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	defer s.Close()

	// Verify file was created
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestTaskCRUD(t *testing.T) {
	s := newTestStore(t)
	defer s.Close()
	ctx := context.Background()

	desc := "Preparar la presentación"
	cat := "trabajo"
	prio := models.PriorityHigh
	due := time.Date(2026, 10, 20, 9, 0, 0, 0, time.UTC)

	// Create
	task, err := s.CreateTask(ctx, TaskInput{
		Title:       "  Reunión con el jefe ",
		Description: &desc,
		DueDate:     &due,
		Priority:    &prio,
		Category:    &cat,
		Tags:        []string{"oficina"},
	})
	if err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}
	if task.ID == "" {
		t.Error("Task ID should not be empty")
	}
	if task.Completed {
		t.Error("New task should be pending")
	}

	// Get
	got, err := s.GetTask(ctx, task.ID)
	if err != nil {
		t.Fatalf("GetTask failed: %v", err)
	}
	if got.Title != "Reunión con el jefe" {
		t.Errorf("Expected trimmed title, got %q", got.Title)
	}
	if got.DescriptionText() != desc {
		t.Errorf("Expected description %q, got %q", desc, got.DescriptionText())
	}
	if got.DueDate == nil || !got.DueDate.Equal(due) {
		t.Errorf("Expected due date %v, got %v", due, got.DueDate)
	}
	if got.Priority == nil || *got.Priority != models.PriorityHigh {
		t.Errorf("Expected high priority, got %v", got.Priority)
	}
	if got.Category == nil || *got.Category != cat {
		t.Errorf("Expected category %q, got %v", cat, got.Category)
	}
	if len(got.Tags) != 1 || got.Tags[0] != "oficina" {
		t.Errorf("Expected tags [oficina], got %v", got.Tags)
	}

	// Update clears optional fields
	updated, err := s.UpdateTask(ctx, task.ID, TaskInput{Title: "Reunión"})
	if err != nil {
		t.Fatalf("UpdateTask failed: %v", err)
	}
	if updated.Category != nil || updated.DueDate != nil || updated.Priority != nil {
		t.Errorf("Expected optional fields cleared, got %+v", updated)
	}
	if updated.Tags == nil || len(updated.Tags) != 0 {
		t.Errorf("Expected empty tag list, got %v", updated.Tags)
	}

	// Toggle
	toggled, err := s.ToggleTask(ctx, task.ID)
	if err != nil {
		t.Fatalf("ToggleTask failed: %v", err)
	}
	if !toggled.Completed {
		t.Error("Expected task to be completed after toggle")
	}
	toggled, _ = s.ToggleTask(ctx, task.ID)
	if toggled.Completed {
		t.Error("Expected task to be pending after second toggle")
	}

	done, err := s.SetCompleted(ctx, task.ID, true)
	if err != nil {
		t.Fatalf("SetCompleted failed: %v", err)
	}
	if !done.Completed {
		t.Error("Expected task to be completed")
	}

	// List
	tasks, err := s.ListTasks(ctx)
	if err != nil {
		t.Fatalf("ListTasks failed: %v", err)
	}
	if len(tasks) != 1 {
		t.Errorf("Expected 1 task, got %d", len(tasks))
	}

	// Delete
	if err := s.DeleteTask(ctx, task.ID); err != nil {
		t.Fatalf("DeleteTask failed: %v", err)
	}
	if _, err := s.GetTask(ctx, task.ID); !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("Expected ErrTaskNotFound, got %v", err)
	}
}

func TestTaskNotFound(t *testing.T) {
	s := newTestStore(t)
	defer s.Close()
	ctx := context.Background()

	if _, err := s.ToggleTask(ctx, "missing"); !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("ToggleTask: expected ErrTaskNotFound, got %v", err)
	}
	if _, err := s.UpdateTask(ctx, "missing", TaskInput{Title: "x"}); !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("UpdateTask: expected ErrTaskNotFound, got %v", err)
	}
	if err := s.DeleteTask(ctx, "missing"); !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("DeleteTask: expected ErrTaskNotFound, got %v", err)
	}
}

func TestTaskValidation(t *testing.T) {
	s := newTestStore(t)
	defer s.Close()
	ctx := context.Background()

	if _, err := s.CreateTask(ctx, TaskInput{Title: "   "}); !errors.Is(err, ErrInvalidTask) {
		t.Errorf("Expected ErrInvalidTask for blank title, got %v", err)
	}
	bad := models.Priority("urgent")
	if _, err := s.CreateTask(ctx, TaskInput{Title: "x", Priority: &bad}); !errors.Is(err, ErrInvalidTask) {
		t.Errorf("Expected ErrInvalidTask for unknown priority, got %v", err)
	}
}

func TestListTasks_NewestFirst(t *testing.T) {
	s := newTestStore(t)
	defer s.Close()
	ctx := context.Background()

	base := time.Date(2026, 10, 1, 8, 0, 0, 0, time.UTC)
	for i, title := range []string{"a", "b", "c"} {
		if _, err := s.CreateTask(ctx, TaskInput{Title: title, CreatedAt: base.Add(time.Duration(i) * time.Hour)}); err != nil {
			t.Fatalf("CreateTask failed: %v", err)
		}
	}

	tasks, err := s.ListTasks(ctx)
	if err != nil {
		t.Fatalf("ListTasks failed: %v", err)
	}
	if len(tasks) != 3 || tasks[0].Title != "c" || tasks[2].Title != "a" {
		t.Errorf("Expected newest first, got %v", tasks)
	}
	if !tasks[2].CreatedAt.Equal(base) {
		t.Errorf("Expected imported created_at %v, got %v", base, tasks[2].CreatedAt)
	}
}

func TestListTasks_Empty(t *testing.T) {
	s := newTestStore(t)
	defer s.Close()

	tasks, err := s.ListTasks(context.Background())
	if err != nil {
		t.Fatalf("ListTasks failed: %v", err)
	}
	if tasks == nil || len(tasks) != 0 {
		t.Errorf("Expected empty non-nil list, got %v", tasks)
	}
}

func TestGoals(t *testing.T) {
	s := newTestStore(t)
	defer s.Close()
	ctx := context.Background()

	goals, err := s.LoadGoals(ctx)
	if err != nil {
		t.Fatalf("LoadGoals failed: %v", err)
	}
	if goals != nil {
		t.Errorf("Expected nil goals before first save, got %v", goals)
	}

	want := []models.Goal{{
		ID: "daily-tasks", Title: "Tareas diarias", Target: 3, Current: 1,
		Type: models.GoalDaily, Category: models.GoalCategoryTasks,
	}}
	if err := s.SaveGoals(ctx, want); err != nil {
		t.Fatalf("SaveGoals failed: %v", err)
	}
	goals, err = s.LoadGoals(ctx)
	if err != nil {
		t.Fatalf("LoadGoals failed: %v", err)
	}
	if len(goals) != 1 || goals[0].ID != "daily-tasks" || goals[0].Current != 1 {
		t.Errorf("Unexpected goals %+v", goals)
	}

	// Saving an empty list is distinct from never saving.
	if err := s.SaveGoals(ctx, nil); err != nil {
		t.Fatalf("SaveGoals failed: %v", err)
	}
	goals, _ = s.LoadGoals(ctx)
	if goals == nil || len(goals) != 0 {
		t.Errorf("Expected empty non-nil goals, got %v", goals)
	}
}

func TestDecisions(t *testing.T) {
	s := newTestStore(t)
	defer s.Close()
	ctx := context.Background()

	task, _ := s.CreateTask(ctx, TaskInput{Title: "Test"})

	rec, err := s.WriteDecision(ctx, "suggestion.accept", "abc123", "applied", task.ID, "set_category=trabajo")
	if err != nil {
		t.Fatalf("WriteDecision failed: %v", err)
	}
	if rec.ID == "" {
		t.Error("Decision ID should not be empty")
	}
	if _, err := s.WriteDecision(ctx, "suggestion.reject", "def456", "rejected", "", ""); err != nil {
		t.Fatalf("WriteDecision failed: %v", err)
	}

	all, err := s.ListDecisions(ctx, "", 0)
	if err != nil {
		t.Fatalf("ListDecisions failed: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("Expected 2 decisions, got %d", len(all))
	}

	forTask, err := s.ListDecisions(ctx, task.ID, 10)
	if err != nil {
		t.Fatalf("ListDecisions failed: %v", err)
	}
	if len(forTask) != 1 || forTask[0].Details != "set_category=trabajo" {
		t.Errorf("Unexpected decisions for task: %+v", forTask)
	}
}

func TestConcurrentToggles(t *testing.T) {
	s := newTestStore(t)
	defer s.Close()
	ctx := context.Background()

	task, err := s.CreateTask(ctx, TaskInput{Title: "Concurrent"})
	if err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}

	const n = 10
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.ToggleTask(ctx, task.ID); err != nil {
				t.Errorf("ToggleTask failed: %v", err)
			}
		}()
	}
	wg.Wait()

	got, _ := s.GetTask(ctx, task.ID)
	if got.Completed {
		t.Error("An even number of toggles should leave the task pending")
	}
}

func TestPing(t *testing.T) {
	s := newTestStore(t)
	defer s.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := s.Ping(ctx)
	if err != nil {
		t.Errorf("Ping failed: %v", err)
	}
}

func newTestStore(t *testing.T) *Store {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	s, err := New(dbPath)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	return s
}
