package controlplane

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fentz26/taskpulse/internal/audit"
	"github.com/fentz26/taskpulse/internal/models"
	"github.com/fentz26/taskpulse/internal/store"
	"github.com/fentz26/taskpulse/internal/suggest"
)

func suggestionWith(kind, value string) models.AISuggestion {
	return models.AISuggestion{
		ID:         "s1",
		Type:       models.SuggestionCategory,
		Title:      "Categoría sugerida",
		Confidence: 0.8,
		Action:     &models.SuggestionAction{Kind: kind, Value: value},
		Source:     models.SourceLocal,
	}
}

func TestAcceptSuggestion_AppliesAction(t *testing.T) {
	svc, st := newTestService(t)
	defer st.Close()
	ctx := context.Background()
	svc.now = func() time.Time { return time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC) }

	task, err := svc.CreateTask(ctx, store.TaskInput{Title: "Preparar informe"})
	require.NoError(t, err)

	updated, err := svc.AcceptSuggestion(ctx, task.ID, suggestionWith(models.ActionSetCategory, "trabajo"))
	require.NoError(t, err)
	require.NotNil(t, updated.Category)
	assert.Equal(t, "trabajo", *updated.Category)

	updated, err = svc.AcceptSuggestion(ctx, task.ID, suggestionWith(models.ActionSetPriority, "high"))
	require.NoError(t, err)
	require.NotNil(t, updated.Priority)
	assert.Equal(t, models.PriorityHigh, *updated.Priority)
	assert.Equal(t, "trabajo", *updated.Category, "other fields are kept")

	updated, err = svc.AcceptSuggestion(ctx, task.ID, suggestionWith(models.ActionSetDueDate, "2026-10-20"))
	require.NoError(t, err)
	require.NotNil(t, updated.DueDate)
	assert.True(t, updated.DueDate.Equal(time.Date(2026, 10, 20, 23, 59, 59, 0, time.UTC)))

	records, err := svc.Decisions(ctx, task.ID, 10)
	require.NoError(t, err)
	require.Len(t, records, 3)
	for _, r := range records {
		assert.Equal(t, audit.ActionAccept, r.Action)
		assert.Equal(t, audit.OutcomeApplied, r.Outcome)
	}
}

func TestApplyAction_DueDateAcrossClockChanges(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("timezone data unavailable: %v", err)
	}
	svc, st := newTestService(t)
	defer st.Close()
	svc.now = func() time.Time { return time.Date(2026, 3, 1, 9, 0, 0, 0, loc) }

	for _, day := range []string{"2026-03-08", "2026-11-01", "2026-10-20"} {
		var in store.TaskInput
		require.NoError(t, svc.applyAction(&in, models.SuggestionAction{Kind: models.ActionSetDueDate, Value: day}))
		require.NotNil(t, in.DueDate)

		due := in.DueDate.In(loc)
		assert.Equal(t, day, due.Format("2006-01-02"), day)
		assert.Equal(t, 23, due.Hour(), day)
		assert.Equal(t, 59, due.Minute(), day)
		assert.Equal(t, 59, due.Second(), day)
	}
}

func TestAcceptSuggestion_Errors(t *testing.T) {
	svc, st := newTestService(t)
	defer st.Close()
	ctx := context.Background()

	task, err := svc.CreateTask(ctx, store.TaskInput{Title: "Comprar leche"})
	require.NoError(t, err)

	noAction := suggestionWith(models.ActionSetCategory, "compras")
	noAction.Action = nil
	_, err = svc.AcceptSuggestion(ctx, task.ID, noAction)
	assert.ErrorIs(t, err, ErrNoAction)

	_, err = svc.AcceptSuggestion(ctx, task.ID, suggestionWith(models.ActionSetPriority, "urgent"))
	assert.ErrorIs(t, err, ErrInvalidAction)

	_, err = svc.AcceptSuggestion(ctx, task.ID, suggestionWith(models.ActionSetDueDate, "mañana"))
	assert.ErrorIs(t, err, ErrInvalidAction)

	_, err = svc.AcceptSuggestion(ctx, task.ID, suggestionWith("set_color", "rojo"))
	assert.ErrorIs(t, err, ErrInvalidAction)

	_, err = svc.AcceptSuggestion(ctx, "missing", suggestionWith(models.ActionSetCategory, "compras"))
	assert.ErrorIs(t, err, store.ErrTaskNotFound)

	records, err := svc.Decisions(ctx, task.ID, 10)
	require.NoError(t, err)
	require.Len(t, records, 3, "failed applications are recorded")
	for _, r := range records {
		assert.Equal(t, audit.OutcomeFailed, r.Outcome)
	}

	got, err := svc.GetTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Nil(t, got.Priority)
	assert.Nil(t, got.DueDate)
}

func TestRejectSuggestion_RecordsOnly(t *testing.T) {
	svc, st := newTestService(t)
	defer st.Close()
	ctx := context.Background()

	task, err := svc.CreateTask(ctx, store.TaskInput{Title: "Llamar al médico"})
	require.NoError(t, err)

	require.NoError(t, svc.RejectSuggestion(ctx, task.ID, suggestionWith(models.ActionSetCategory, "trabajo")))

	got, err := svc.GetTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Nil(t, got.Category)

	records, err := svc.Decisions(ctx, task.ID, 10)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, audit.ActionReject, records[0].Action)
	assert.Equal(t, audit.OutcomeRejected, records[0].Outcome)
	assert.Equal(t, "set_category=trabajo", records[0].Details)
}

func TestGoals_SeedReplaceRefresh(t *testing.T) {
	svc, st := newTestService(t)
	defer st.Close()
	ctx := context.Background()

	list, err := svc.Goals(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)

	task, err := svc.CreateTask(ctx, store.TaskInput{Title: "Ordenar escritorio"})
	require.NoError(t, err)
	_, err = svc.ToggleTask(ctx, task.ID)
	require.NoError(t, err)

	refreshed, err := svc.RefreshGoals(ctx)
	require.NoError(t, err)
	byID := map[string]models.Goal{}
	for _, g := range refreshed {
		byID[g.ID] = g
	}
	assert.Equal(t, 1, byID["daily-tasks"].Current)
	assert.Equal(t, 100, byID["monthly-productivity"].Current)
	assert.True(t, byID["monthly-productivity"].Completed)

	dup := []models.Goal{list[0], list[0]}
	_, err = svc.ReplaceGoals(ctx, dup)
	assert.ErrorIs(t, err, ErrInvalidInput)

	replaced, err := svc.ReplaceGoals(ctx, list[:1])
	require.NoError(t, err)
	assert.Len(t, replaced, 1)

	stored, err := st.LoadGoals(ctx)
	require.NoError(t, err)
	assert.Len(t, stored, 1)
}

func TestSuggest_RequiresTitle(t *testing.T) {
	svc, st := newTestService(t)
	defer st.Close()

	_, err := svc.Suggest(context.Background(), suggest.Request{Title: "  "})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
