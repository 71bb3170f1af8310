package backup

import (
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cwtshtodo/internal/model"
	"cwtshtodo/internal/repository"
)

func newTestAdapter(t *testing.T) *Adapter {
	t.Helper()
	db, err := repository.NewDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	return NewAdapter(
		repository.NewTaskRepository(db),
		repository.NewCategoryRepository(db),
		repository.NewFocusSessionRepository(db),
		repository.NewHabitRepository(db),
		repository.NewHabitLogRepository(db),
	)
}

func TestImportPartial_DoesNotTouchOtherCollections(t *testing.T) {
	ctx := context.Background()
	a := newTestAdapter(t)

	habit := model.Habit{ID: "h1", Name: "Read", TargetDays: []int{1}, CreatedAt: 1}
	require.NoError(t, a.habits.Put(ctx, &habit))

	tasks := []model.Task{{
		ID:        "t1",
		Title:     "imported",
		StartTime: time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC),
		EndTime:   time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC),
	}}
	categories := []model.Category{}
	require.NoError(t, a.ImportPartial(ctx, Document{Tasks: &tasks, Categories: &categories}))

	habits, err := a.habits.List(ctx)
	require.NoError(t, err)
	require.Len(t, habits, 1)
	assert.Equal(t, "h1", habits[0].ID)

	got, err := a.tasks.GetByID(ctx, "t1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "imported", got.Title)
}

func TestImport_RejectsDocumentWithoutRequiredKeys(t *testing.T) {
	ctx := context.Background()
	a := newTestAdapter(t)

	habits := []model.Habit{{ID: "h1", Name: "Read"}}
	doc := Document{Habits: &habits}

	assert.ErrorIs(t, a.ImportPartial(ctx, doc), ErrInvalidDocument)
	assert.ErrorIs(t, a.ImportFull(ctx, doc), ErrInvalidDocument)

	// Fail fast: nothing may have been written.
	stored, err := a.habits.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestImport_CollidingIDOverwrites(t *testing.T) {
	ctx := context.Background()
	a := newTestAdapter(t)

	existing := model.Category{ID: "cat-1", Name: "Old", Color: "#000000", Icon: "x", CreatedAt: 1}
	require.NoError(t, a.categories.Put(ctx, &existing))

	categories := []model.Category{{ID: "cat-1", Name: "New", Color: "#ffffff", Icon: "y", CreatedAt: 2}}
	require.NoError(t, a.ImportPartial(ctx, Document{Categories: &categories}))

	got, err := a.categories.GetByID(ctx, "cat-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "New", got.Name)
	assert.Equal(t, int64(2), got.CreatedAt)
}

func TestExportImport_RoundTrip(t *testing.T) {
	ctx := context.Background()
	a := newTestAdapter(t)

	task := model.Task{
		ID:        "t1",
		Title:     "task",
		StartTime: time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC),
		EndTime:   time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC),
		Reminder:  &model.Reminder{Enabled: true, BeforeMinutes: []int{10}},
		CreatedAt: 1,
		UpdatedAt: 1,
	}
	category := model.Category{ID: "cat-1", Name: "Work", Color: "#3B82F6", Icon: "💼", CreatedAt: 1}
	session := model.FocusSession{ID: "s1", TaskID: "t1", Duration: 1500, CompletedAt: 2, Mode: model.ModeFocus}
	habit := model.Habit{ID: "h1", Name: "Read", TargetDays: []int{1, 3}, CreatedAt: 1}
	habitLog := model.HabitLog{ID: model.HabitLogID("h1", "2024-01-01"), HabitID: "h1", Date: "2024-01-01", Completed: true, CompletedAt: 3}

	require.NoError(t, a.tasks.Put(ctx, &task))
	require.NoError(t, a.categories.Put(ctx, &category))
	require.NoError(t, a.focusSessions.Put(ctx, &session))
	require.NoError(t, a.habits.Put(ctx, &habit))
	require.NoError(t, a.habitLogs.Put(ctx, &habitLog))

	first, err := a.ExportAll(ctx)
	require.NoError(t, err)
	assert.True(t, first.IsFull())

	require.NoError(t, a.ImportFull(ctx, first))

	second, err := a.ExportAll(ctx)
	require.NoError(t, err)

	firstJSON, err := json.Marshal(first)
	require.NoError(t, err)
	secondJSON, err := json.Marshal(second)
	require.NoError(t, err)
	assert.JSONEq(t, string(firstJSON), string(secondJSON))
}

func TestExportAll_AlwaysCarriesAllKeys(t *testing.T) {
	doc, err := newTestAdapter(t).ExportAll(context.Background())
	require.NoError(t, err)

	data, err := json.Marshal(doc)
	require.NoError(t, err)
	for _, key := range []string{"tasks", "categories", "focusSessions", "habits", "habitLogs"} {
		assert.Contains(t, string(data), `"`+key+`"`)
	}
}

func TestDecode_FullVersusPartial(t *testing.T) {
	partial, err := Decode(strings.NewReader(`{"tasks":[],"categories":[]}`))
	require.NoError(t, err)
	assert.False(t, partial.IsFull())
	assert.NoError(t, partial.Validate())

	full, err := Decode(strings.NewReader(`{"tasks":[],"categories":[],"habits":[]}`))
	require.NoError(t, err)
	assert.True(t, full.IsFull())

	_, err = Decode(strings.NewReader(`not json`))
	assert.Error(t, err)
}
