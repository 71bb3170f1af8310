package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"cwtshtodo/internal/model"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := NewDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	return db
}

func sampleTask(id string, start time.Time) model.Task {
	return model.Task{
		ID:        id,
		Title:     "task " + id,
		StartTime: start,
		EndTime:   start.Add(time.Hour),
		Priority:  model.PriorityMedium,
		CreatedAt: start.UnixMilli(),
		UpdatedAt: start.UnixMilli(),
	}
}

func TestTaskRepository_PutThenGet(t *testing.T) {
	ctx := context.Background()
	repo := NewTaskRepository(openTestDB(t))

	start := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)
	task := sampleTask("t1", start)
	task.CategoryID = "cat-1"
	task.Reminder = &model.Reminder{Enabled: true, BeforeMinutes: []int{5, 30}}
	task.RecurringRule = &model.RecurringRule{Frequency: "weekly", Interval: 1, DaysOfWeek: []int{1, 3}}

	require.NoError(t, repo.Put(ctx, &task))

	got, err := repo.GetByID(ctx, "t1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, task.Title, got.Title)
	assert.Equal(t, task.CategoryID, got.CategoryID)
	assert.Equal(t, task.Priority, got.Priority)
	assert.Equal(t, task.Reminder, got.Reminder)
	assert.Equal(t, task.RecurringRule, got.RecurringRule)
	assert.Equal(t, task.CreatedAt, got.CreatedAt)
	assert.True(t, got.StartTime.Equal(task.StartTime))
	assert.True(t, got.EndTime.Equal(task.EndTime))
}

func TestTaskRepository_PutOverwritesWholeRecord(t *testing.T) {
	ctx := context.Background()
	repo := NewTaskRepository(openTestDB(t))

	start := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)
	task := sampleTask("t1", start)
	task.Description = "original"
	require.NoError(t, repo.Put(ctx, &task))

	replacement := sampleTask("t1", start.Add(time.Hour))
	replacement.Title = "replaced"
	require.NoError(t, repo.Put(ctx, &replacement))

	got, err := repo.GetByID(ctx, "t1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "replaced", got.Title)
	assert.Empty(t, got.Description) // full replace, not a patch

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestTaskRepository_GetByID_Absent(t *testing.T) {
	repo := NewTaskRepository(openTestDB(t))

	got, err := repo.GetByID(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestTaskRepository_DeleteIdempotent(t *testing.T) {
	ctx := context.Background()
	repo := NewTaskRepository(openTestDB(t))

	task := sampleTask("t1", time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC))
	require.NoError(t, repo.Put(ctx, &task))

	require.NoError(t, repo.Delete(ctx, "t1"))
	require.NoError(t, repo.Delete(ctx, "t1")) // second delete is a no-op

	got, err := repo.GetByID(ctx, "t1")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestTaskRepository_ListByStartTimeRange(t *testing.T) {
	ctx := context.Background()
	repo := NewTaskRepository(openTestDB(t))

	jan1 := time.Date(2024, 1, 1, 23, 59, 0, 0, time.UTC)
	jan2 := time.Date(2024, 1, 2, 0, 1, 0, 0, time.UTC)
	t1 := sampleTask("t1", jan1)
	t2 := sampleTask("t2", jan2)
	require.NoError(t, repo.Put(ctx, &t1))
	require.NoError(t, repo.Put(ctx, &t2))

	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 1, 1, 23, 59, 59, 0, time.UTC)
	got, err := repo.ListByStartTimeRange(ctx, from, to)
	require.NoError(t, err)

	require.Len(t, got, 1)
	assert.Equal(t, "t1", got[0].ID)
}

func TestTaskRepository_ListByCategory(t *testing.T) {
	ctx := context.Background()
	repo := NewTaskRepository(openTestDB(t))

	start := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)
	t1 := sampleTask("t1", start)
	t1.CategoryID = "cat-1"
	t2 := sampleTask("t2", start)
	t2.CategoryID = "cat-2"
	require.NoError(t, repo.Put(ctx, &t1))
	require.NoError(t, repo.Put(ctx, &t2))

	got, err := repo.ListByCategory(ctx, "cat-1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "t1", got[0].ID)
}

func TestFocusSessionRepository_ListByCompletedRange(t *testing.T) {
	ctx := context.Background()
	repo := NewFocusSessionRepository(openTestDB(t))

	day := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	in := model.FocusSession{ID: "in", Duration: 1500, CompletedAt: day.Add(9 * time.Hour).UnixMilli(), Mode: model.ModeFocus}
	out := model.FocusSession{ID: "out", Duration: 1500, CompletedAt: day.AddDate(0, 0, 1).UnixMilli(), Mode: model.ModeFocus}
	require.NoError(t, repo.Put(ctx, &in))
	require.NoError(t, repo.Put(ctx, &out))

	got, err := repo.ListByCompletedRange(ctx, day.UnixMilli(), day.Add(24*time.Hour-time.Millisecond).UnixMilli())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "in", got[0].ID)
}

func TestFocusSessionRepository_ListByTask(t *testing.T) {
	ctx := context.Background()
	repo := NewFocusSessionRepository(openTestDB(t))

	a := model.FocusSession{ID: "a", TaskID: "t1", Duration: 1500, CompletedAt: 1, Mode: model.ModeFocus}
	b := model.FocusSession{ID: "b", TaskID: "t2", Duration: 1500, CompletedAt: 2, Mode: model.ModeFocus}
	require.NoError(t, repo.Put(ctx, &a))
	require.NoError(t, repo.Put(ctx, &b))

	got, err := repo.ListByTask(ctx, "t1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "a", got[0].ID)
}

func TestHabitLogRepository_Indexes(t *testing.T) {
	ctx := context.Background()
	repo := NewHabitLogRepository(openTestDB(t))

	logs := []model.HabitLog{
		{ID: model.HabitLogID("h1", "2024-01-08"), HabitID: "h1", Date: "2024-01-08", Completed: true},
		{ID: model.HabitLogID("h1", "2024-01-09"), HabitID: "h1", Date: "2024-01-09", Completed: true},
		{ID: model.HabitLogID("h2", "2024-01-08"), HabitID: "h2", Date: "2024-01-08", Completed: true},
	}
	for i := range logs {
		require.NoError(t, repo.Put(ctx, &logs[i]))
	}

	byHabit, err := repo.ListByHabit(ctx, "h1")
	require.NoError(t, err)
	assert.Len(t, byHabit, 2)

	byDate, err := repo.ListByDate(ctx, "2024-01-08")
	require.NoError(t, err)
	assert.Len(t, byDate, 2)
}

func TestHabitRepository_PutThenGet(t *testing.T) {
	ctx := context.Background()
	repo := NewHabitRepository(openTestDB(t))

	habit := model.Habit{
		ID:           "h1",
		Name:         "Read",
		Icon:         "📖",
		Color:        "#10B981",
		TargetDays:   []int{1, 3, 5},
		ReminderTime: "21:00",
		CreatedAt:    42,
	}
	require.NoError(t, repo.Put(ctx, &habit))

	got, err := repo.GetByID(ctx, "h1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, habit, *got)
}

func TestClear_EmptiesCollection(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	repo := NewCategoryRepository(db)

	cat := model.Category{ID: "cat-1", Name: "Work", Color: "#3B82F6", Icon: "💼", CreatedAt: 1}
	require.NoError(t, repo.Put(ctx, &cat))

	require.NoError(t, repo.Clear(ctx))

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestNewDB_UpgradeIsIdempotent(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "test.db")

	db, err := NewDB(path)
	require.NoError(t, err)

	task := sampleTask("t1", time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC))
	require.NoError(t, NewTaskRepository(db).Put(ctx, &task))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	// Reopening runs the upgrade path again; existing data must survive.
	db, err = NewDB(path)
	require.NoError(t, err)

	got, err := NewTaskRepository(db).GetByID(ctx, "t1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, task.Title, got.Title)

	var meta schemaMeta
	require.NoError(t, db.First(&meta).Error)
	assert.Equal(t, SchemaVersion, meta.Version)
}
