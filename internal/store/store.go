// Package store is the single in-memory source of truth for application
// state. Every mutation is written through to durable storage first and
// applied to memory only after that write succeeds, so the in-memory view
// never claims a state the disk does not back.
package store

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"cwtshtodo/internal/backup"
	"cwtshtodo/internal/model"
	"cwtshtodo/internal/query"
)

// ErrNotFound is returned when a mutation targets an id that is not loaded.
var ErrNotFound = errors.New("record not found")

// Store holds the five collections plus transient UI state. All access goes
// through its methods; snapshot accessors return copies.
type Store struct {
	mu     sync.RWMutex
	stores Stores
	bulk   BackupAdapter
	now    func() time.Time

	tasks         []model.Task
	categories    []model.Category
	focusSessions []model.FocusSession
	habits        []model.Habit
	habitLogs     []model.HabitLog

	loading          bool
	currentDate      time.Time
	viewMode         ViewMode
	categoryFilterID string
	activeModal      Modal
	editingTaskID    string
}

// New wires a store against its durable collections. Call LoadData before
// reading; the zero collections stand in until then.
func New(stores Stores, bulk BackupAdapter) *Store {
	return &Store{
		stores:      stores,
		bulk:        bulk,
		now:         time.Now,
		currentDate: time.Now(),
		viewMode:    ViewDay,
	}
}

// persistThenApply is the two-phase helper behind every mutation: await the
// durable write, then apply the in-memory change. On a rejected write the
// in-memory state is left untouched and the error propagates to the caller.
func (s *Store) persistThenApply(ctx context.Context, persist func(context.Context) error, apply func()) error {
	if err := persist(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	apply()
	s.mu.Unlock()
	return nil
}

// LoadData populates the in-memory collections from durable storage. A failed
// read degrades to an empty collection rather than blocking startup; empty
// category and habit collections fall back to the built-in seed data. Always
// returns nil so a broken storage engine still yields a usable (empty) app.
func (s *Store) LoadData(ctx context.Context) error {
	s.mu.Lock()
	s.loading = true
	s.mu.Unlock()

	tasks := loadAll(ctx, s.stores.Tasks.List, "tasks")
	categories := loadAll(ctx, s.stores.Categories.List, "categories")
	sessions := loadAll(ctx, s.stores.FocusSessions.List, "focus sessions")
	habits := loadAll(ctx, s.stores.Habits.List, "habits")
	logs := loadAll(ctx, s.stores.HabitLogs.List, "habit logs")

	if len(categories) == 0 {
		categories = model.DefaultCategories(s.now())
		persistSeeds(ctx, s.stores.Categories.Put, categories, "categories")
	}
	if len(habits) == 0 {
		habits = model.DefaultHabits(s.now())
		persistSeeds(ctx, s.stores.Habits.Put, habits, "habits")
	}

	s.mu.Lock()
	s.tasks = tasks
	s.categories = categories
	s.focusSessions = sessions
	s.habits = habits
	s.habitLogs = logs
	s.loading = false
	s.mu.Unlock()
	return nil
}

func loadAll[T any](ctx context.Context, list func(context.Context) ([]T, error), name string) []T {
	records, err := list(ctx)
	if err != nil {
		log.Printf("load %s: %v (starting empty)", name, err)
		return nil
	}
	return records
}

// persistSeeds writes the default records through to durable storage so the
// in-memory view only ever claims committed state. Best-effort: a failing
// engine must not block startup, so errors are logged and the seeds stay in
// memory regardless.
func persistSeeds[T any](ctx context.Context, put func(context.Context, *T) error, seeds []T, name string) {
	for i := range seeds {
		if err := put(ctx, &seeds[i]); err != nil {
			log.Printf("seed %s: %v", name, err)
			return
		}
	}
}

// Dispose exists for lifecycle symmetry in tests; the store holds no
// resources of its own.
func (s *Store) Dispose() {}

// --- Task actions ---

// normalizeTask enforces the task time invariant: all-day tasks span their
// whole calendar day, and otherwise the end may not precede the start.
func normalizeTask(task model.Task) (model.Task, error) {
	if strings.TrimSpace(task.Title) == "" {
		return model.Task{}, errors.New("task title is required")
	}
	if task.IsAllDay {
		task.StartTime = query.StartOfDay(task.StartTime)
		task.EndTime = query.EndOfDay(task.StartTime)
		return task, nil
	}
	if task.EndTime.Before(task.StartTime) {
		return model.Task{}, fmt.Errorf("task %q ends before it starts", task.Title)
	}
	return task, nil
}

// AddTask persists and appends a task. A missing id and timestamps are
// filled in; the stored record is returned.
func (s *Store) AddTask(ctx context.Context, task model.Task) (model.Task, error) {
	task, err := normalizeTask(task)
	if err != nil {
		return model.Task{}, err
	}
	if task.ID == "" {
		task.ID = uuid.New().String()
	}
	ms := s.now().UnixMilli()
	if task.CreatedAt == 0 {
		task.CreatedAt = ms
	}
	if task.UpdatedAt == 0 {
		task.UpdatedAt = ms
	}
	err = s.persistThenApply(ctx,
		func(ctx context.Context) error { return s.stores.Tasks.Put(ctx, &task) },
		func() { s.tasks = append(s.tasks, task) },
	)
	if err != nil {
		return model.Task{}, err
	}
	return task, nil
}

// UpdateTask replaces the task with the same id, stamping updatedAt.
func (s *Store) UpdateTask(ctx context.Context, task model.Task) error {
	task, err := normalizeTask(task)
	if err != nil {
		return err
	}
	task.UpdatedAt = s.now().UnixMilli()
	return s.persistThenApply(ctx,
		func(ctx context.Context) error { return s.stores.Tasks.Put(ctx, &task) },
		func() { s.tasks = replaceTask(s.tasks, task) },
	)
}

// RemoveTask hard-deletes a task.
func (s *Store) RemoveTask(ctx context.Context, id string) error {
	return s.persistThenApply(ctx,
		func(ctx context.Context) error { return s.stores.Tasks.Delete(ctx, id) },
		func() {
			s.tasks = removeTask(s.tasks, id)
			if s.editingTaskID == id {
				s.editingTaskID = ""
			}
		},
	)
}

// ToggleTaskComplete flips the completion flag and stamps updatedAt. Calling
// it twice restores the original state.
func (s *Store) ToggleTaskComplete(ctx context.Context, id string) error {
	s.mu.RLock()
	task, ok := findTask(s.tasks, id)
	s.mu.RUnlock()
	if !ok {
		return fmt.Errorf("toggle task %s: %w", id, ErrNotFound)
	}

	task.IsCompleted = !task.IsCompleted
	task.UpdatedAt = s.now().UnixMilli()
	return s.persistThenApply(ctx,
		func(ctx context.Context) error { return s.stores.Tasks.Put(ctx, &task) },
		func() { s.tasks = replaceTask(s.tasks, task) },
	)
}

// CompleteTasks marks each listed task completed, one awaited write at a
// time. Already-completed and unknown ids are skipped.
func (s *Store) CompleteTasks(ctx context.Context, ids []string) error {
	for _, id := range ids {
		s.mu.RLock()
		task, ok := findTask(s.tasks, id)
		s.mu.RUnlock()
		if !ok || task.IsCompleted {
			continue
		}

		task.IsCompleted = true
		task.UpdatedAt = s.now().UnixMilli()
		err := s.persistThenApply(ctx,
			func(ctx context.Context) error { return s.stores.Tasks.Put(ctx, &task) },
			func() { s.tasks = replaceTask(s.tasks, task) },
		)
		if err != nil {
			return err
		}
	}
	return nil
}

// RemoveTasks deletes each listed task sequentially.
func (s *Store) RemoveTasks(ctx context.Context, ids []string) error {
	for _, id := range ids {
		if err := s.RemoveTask(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

// --- Category actions ---

func (s *Store) AddCategory(ctx context.Context, category model.Category) (model.Category, error) {
	if category.ID == "" {
		category.ID = uuid.New().String()
	}
	if category.CreatedAt == 0 {
		category.CreatedAt = s.now().UnixMilli()
	}
	err := s.persistThenApply(ctx,
		func(ctx context.Context) error { return s.stores.Categories.Put(ctx, &category) },
		func() { s.categories = append(s.categories, category) },
	)
	if err != nil {
		return model.Category{}, err
	}
	return category, nil
}

func (s *Store) UpdateCategory(ctx context.Context, category model.Category) error {
	return s.persistThenApply(ctx,
		func(ctx context.Context) error { return s.stores.Categories.Put(ctx, &category) },
		func() {
			for i := range s.categories {
				if s.categories[i].ID == category.ID {
					s.categories[i] = category
					return
				}
			}
			s.categories = append(s.categories, category)
		},
	)
}

// RemoveCategory deletes the category record only. Tasks referencing it keep
// their categoryId; the dangling reference is an expected state.
func (s *Store) RemoveCategory(ctx context.Context, id string) error {
	return s.persistThenApply(ctx,
		func(ctx context.Context) error { return s.stores.Categories.Delete(ctx, id) },
		func() {
			kept := s.categories[:0]
			for _, c := range s.categories {
				if c.ID != id {
					kept = append(kept, c)
				}
			}
			s.categories = kept
			if s.categoryFilterID == id {
				s.categoryFilterID = ""
			}
		},
	)
}

// --- Focus session actions ---

// AddFocusSession records a finished timer interval. Sessions are append-only.
func (s *Store) AddFocusSession(ctx context.Context, session model.FocusSession) (model.FocusSession, error) {
	if session.ID == "" {
		session.ID = uuid.New().String()
	}
	if session.CompletedAt == 0 {
		session.CompletedAt = s.now().UnixMilli()
	}
	err := s.persistThenApply(ctx,
		func(ctx context.Context) error { return s.stores.FocusSessions.Put(ctx, &session) },
		func() { s.focusSessions = append(s.focusSessions, session) },
	)
	if err != nil {
		return model.FocusSession{}, err
	}
	return session, nil
}

// --- Habit actions ---

func (s *Store) AddHabit(ctx context.Context, habit model.Habit) (model.Habit, error) {
	if habit.ID == "" {
		habit.ID = uuid.New().String()
	}
	if habit.CreatedAt == 0 {
		habit.CreatedAt = s.now().UnixMilli()
	}
	err := s.persistThenApply(ctx,
		func(ctx context.Context) error { return s.stores.Habits.Put(ctx, &habit) },
		func() { s.habits = append(s.habits, habit) },
	)
	if err != nil {
		return model.Habit{}, err
	}
	return habit, nil
}

func (s *Store) UpdateHabit(ctx context.Context, habit model.Habit) error {
	return s.persistThenApply(ctx,
		func(ctx context.Context) error { return s.stores.Habits.Put(ctx, &habit) },
		func() {
			for i := range s.habits {
				if s.habits[i].ID == habit.ID {
					s.habits[i] = habit
					return
				}
			}
			s.habits = append(s.habits, habit)
		},
	)
}

// RemoveHabit deletes the habit, then its logs, as an ordered sequence of
// awaited single-collection deletes. A crash in between leaves orphaned logs,
// which are tolerated and never displayed.
func (s *Store) RemoveHabit(ctx context.Context, id string) error {
	err := s.persistThenApply(ctx,
		func(ctx context.Context) error { return s.stores.Habits.Delete(ctx, id) },
		func() {
			kept := s.habits[:0]
			for _, h := range s.habits {
				if h.ID != id {
					kept = append(kept, h)
				}
			}
			s.habits = kept
		},
	)
	if err != nil {
		return err
	}

	s.mu.RLock()
	var logIDs []string
	for _, l := range s.habitLogs {
		if l.HabitID == id {
			logIDs = append(logIDs, l.ID)
		}
	}
	s.mu.RUnlock()

	for _, logID := range logIDs {
		err := s.persistThenApply(ctx,
			func(ctx context.Context) error { return s.stores.HabitLogs.Delete(ctx, logID) },
			func() { s.habitLogs = removeHabitLog(s.habitLogs, logID) },
		)
		if err != nil {
			return err
		}
	}
	return nil
}

// ToggleHabitLog marks or un-marks a habit for the given YYYY-MM-DD date:
// delete the log if one exists, otherwise create a completed one. The
// deterministic id keeps repeated toggles from ever stacking duplicates.
func (s *Store) ToggleHabitLog(ctx context.Context, habitID, date string) error {
	logID := model.HabitLogID(habitID, date)

	s.mu.RLock()
	exists := false
	for _, l := range s.habitLogs {
		if l.ID == logID {
			exists = true
			break
		}
	}
	s.mu.RUnlock()

	if exists {
		return s.persistThenApply(ctx,
			func(ctx context.Context) error { return s.stores.HabitLogs.Delete(ctx, logID) },
			func() { s.habitLogs = removeHabitLog(s.habitLogs, logID) },
		)
	}

	habitLog := model.HabitLog{
		ID:          logID,
		HabitID:     habitID,
		Date:        date,
		Completed:   true,
		CompletedAt: s.now().UnixMilli(),
	}
	return s.persistThenApply(ctx,
		func(ctx context.Context) error { return s.stores.HabitLogs.Put(ctx, &habitLog) },
		func() { s.habitLogs = append(s.habitLogs, habitLog) },
	)
}

// --- Bulk actions ---

// ClearAllData wipes every collection and resets memory to the seed state.
func (s *Store) ClearAllData(ctx context.Context) error {
	clears := []func(context.Context) error{
		s.stores.Tasks.Clear,
		s.stores.Categories.Clear,
		s.stores.FocusSessions.Clear,
		s.stores.Habits.Clear,
		s.stores.HabitLogs.Clear,
	}
	for _, clear := range clears {
		if err := clear(ctx); err != nil {
			return err
		}
	}

	categories := model.DefaultCategories(s.now())
	habits := model.DefaultHabits(s.now())
	persistSeeds(ctx, s.stores.Categories.Put, categories, "categories")
	persistSeeds(ctx, s.stores.Habits.Put, habits, "habits")

	s.mu.Lock()
	s.tasks = nil
	s.focusSessions = nil
	s.habitLogs = nil
	s.categories = categories
	s.habits = habits
	s.mu.Unlock()
	return nil
}

// ExportAllData snapshots every collection into a backup document.
func (s *Store) ExportAllData(ctx context.Context) (backup.Document, error) {
	return s.bulk.ExportAll(ctx)
}

// ImportData merges a legacy tasks+categories document, then reloads so
// memory reflects disk.
func (s *Store) ImportData(ctx context.Context, doc backup.Document) error {
	if err := s.bulk.ImportPartial(ctx, doc); err != nil {
		return err
	}
	return s.LoadData(ctx)
}

// ImportAllData merges a full five-collection document, then reloads.
func (s *Store) ImportAllData(ctx context.Context, doc backup.Document) error {
	if err := s.bulk.ImportFull(ctx, doc); err != nil {
		return err
	}
	return s.LoadData(ctx)
}

// --- Snapshot accessors ---

func (s *Store) Tasks() []model.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.Task(nil), s.tasks...)
}

func (s *Store) Categories() []model.Category {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.Category(nil), s.categories...)
}

func (s *Store) FocusSessions() []model.FocusSession {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.FocusSession(nil), s.focusSessions...)
}

func (s *Store) Habits() []model.Habit {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.Habit(nil), s.habits...)
}

func (s *Store) HabitLogs() []model.HabitLog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.HabitLog(nil), s.habitLogs...)
}

func (s *Store) IsLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// --- Transient UI state ---

func (s *Store) SetCurrentDate(date time.Time) {
	s.mu.Lock()
	s.currentDate = date
	s.mu.Unlock()
}

func (s *Store) CurrentDate() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currentDate
}

func (s *Store) SetViewMode(mode ViewMode) {
	s.mu.Lock()
	s.viewMode = mode
	s.mu.Unlock()
}

func (s *Store) ViewMode() ViewMode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.viewMode
}

// SetCategoryFilter narrows task views to one category; empty clears it.
func (s *Store) SetCategoryFilter(categoryID string) {
	s.mu.Lock()
	s.categoryFilterID = categoryID
	s.mu.Unlock()
}

func (s *Store) CategoryFilter() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.categoryFilterID
}

func (s *Store) OpenModal(modal Modal) {
	s.mu.Lock()
	s.activeModal = modal
	s.mu.Unlock()
}

func (s *Store) CloseModal() {
	s.mu.Lock()
	s.activeModal = ModalNone
	s.editingTaskID = ""
	s.mu.Unlock()
}

func (s *Store) ActiveModal() Modal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.activeModal
}

// EditTask opens the edit modal for the given task.
func (s *Store) EditTask(id string) {
	s.mu.Lock()
	s.activeModal = ModalEditTask
	s.editingTaskID = id
	s.mu.Unlock()
}

func (s *Store) EditingTaskID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.editingTaskID
}

// --- Derived queries ---

// GetTasksForDate returns the uncompleted tasks scheduled on date's day.
func (s *Store) GetTasksForDate(date time.Time) []model.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return query.TasksForDate(s.tasks, date)
}

// GetFilteredTasks returns the tasks for the current date and view mode,
// narrowed by the category filter when one is set.
func (s *Store) GetFilteredTasks() []model.Task {
	s.mu.RLock()
	date, mode, filter := s.currentDate, s.viewMode, s.categoryFilterID
	tasks := append([]model.Task(nil), s.tasks...)
	s.mu.RUnlock()

	var visible []model.Task
	switch mode {
	case ViewWeek:
		from := query.StartOfWeek(date, time.Monday)
		visible = query.TasksForRange(tasks, from, query.EndOfDay(from.AddDate(0, 0, 6)))
	case ViewMonth:
		from := time.Date(date.Year(), date.Month(), 1, 0, 0, 0, 0, date.Location())
		visible = query.TasksForRange(tasks, from, query.EndOfDay(from.AddDate(0, 1, -1)))
	default:
		visible = query.TasksForDate(tasks, date)
	}

	if filter == "" {
		return visible
	}
	var out []model.Task
	for _, t := range visible {
		if t.CategoryID == filter {
			out = append(out, t)
		}
	}
	return out
}

// GetTodayFocusTime sums today's focus seconds.
func (s *Store) GetTodayFocusTime() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return query.TodayFocusTime(s.focusSessions, s.now())
}

// GetWeekFocusStats returns per-day focus totals for the current week
// (starting Monday).
func (s *Store) GetWeekFocusStats() []query.DayFocus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return query.WeekFocusStats(s.focusSessions, query.StartOfWeek(s.now(), time.Monday))
}

// GetHabitStats computes streak and completion rate for one habit as of now.
func (s *Store) GetHabitStats(habitID string) (query.HabitStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, h := range s.habits {
		if h.ID == habitID {
			return query.StatsForHabit(h, s.habitLogs, s.now()), nil
		}
	}
	return query.HabitStats{}, fmt.Errorf("habit %s: %w", habitID, ErrNotFound)
}

// GetHabitLogsForWeek returns the habit's per-day logs for the week starting
// at weekStart; days without a log hold nil.
func (s *Store) GetHabitLogsForWeek(habitID string, weekStart time.Time) []*model.HabitLog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return query.HabitLogsForWeek(s.habitLogs, habitID, weekStart)
}

// GetCategoryStats reports per-category completion counts within [from, to].
func (s *Store) GetCategoryStats(from, to time.Time) []query.CategoryStat {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return query.CategoryStats(s.tasks, s.categories, from, to)
}

// --- helpers ---

func findTask(tasks []model.Task, id string) (model.Task, bool) {
	for _, t := range tasks {
		if t.ID == id {
			return t, true
		}
	}
	return model.Task{}, false
}

func replaceTask(tasks []model.Task, task model.Task) []model.Task {
	for i := range tasks {
		if tasks[i].ID == task.ID {
			tasks[i] = task
			return tasks
		}
	}
	return append(tasks, task)
}

func removeTask(tasks []model.Task, id string) []model.Task {
	kept := tasks[:0]
	for _, t := range tasks {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	return kept
}

func removeHabitLog(logs []model.HabitLog, id string) []model.HabitLog {
	kept := logs[:0]
	for _, l := range logs {
		if l.ID != id {
			kept = append(kept, l)
		}
	}
	return kept
}
