package store

import (
	"context"

	"cwtshtodo/internal/backup"
	"cwtshtodo/internal/model"
)

// Per-collection persistence interfaces. The repository package satisfies all
// of them; tests swap in memory fakes to inject failures.

type TaskStore interface {
	List(ctx context.Context) ([]model.Task, error)
	Put(ctx context.Context, task *model.Task) error
	Delete(ctx context.Context, id string) error
	Clear(ctx context.Context) error
}

type CategoryStore interface {
	List(ctx context.Context) ([]model.Category, error)
	Put(ctx context.Context, category *model.Category) error
	Delete(ctx context.Context, id string) error
	Clear(ctx context.Context) error
}

type FocusSessionStore interface {
	List(ctx context.Context) ([]model.FocusSession, error)
	Put(ctx context.Context, session *model.FocusSession) error
	Delete(ctx context.Context, id string) error
	Clear(ctx context.Context) error
}

type HabitStore interface {
	List(ctx context.Context) ([]model.Habit, error)
	Put(ctx context.Context, habit *model.Habit) error
	Delete(ctx context.Context, id string) error
	Clear(ctx context.Context) error
}

type HabitLogStore interface {
	List(ctx context.Context) ([]model.HabitLog, error)
	Put(ctx context.Context, habitLog *model.HabitLog) error
	Delete(ctx context.Context, id string) error
	Clear(ctx context.Context) error
}

// BackupAdapter is the bulk import/export surface the store delegates to.
type BackupAdapter interface {
	ExportAll(ctx context.Context) (backup.Document, error)
	ImportPartial(ctx context.Context, doc backup.Document) error
	ImportFull(ctx context.Context, doc backup.Document) error
}

// Stores bundles the five durable collections behind the state container.
type Stores struct {
	Tasks         TaskStore
	Categories    CategoryStore
	FocusSessions FocusSessionStore
	Habits        HabitStore
	HabitLogs     HabitLogStore
}

// ViewMode selects which calendar view is active.
type ViewMode string

const (
	ViewDay   ViewMode = "day"
	ViewWeek  ViewMode = "week"
	ViewMonth ViewMode = "month"
)

// Modal names which overlay, if any, the UI has open.
type Modal string

const (
	ModalNone           Modal = ""
	ModalAddTask        Modal = "addTask"
	ModalEditTask       Modal = "editTask"
	ModalDataManagement Modal = "dataManagement"
	ModalSettings       Modal = "settings"
)
