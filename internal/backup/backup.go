// Package backup serializes the full record set to a single JSON document and
// restores it by merge: records are upserted by id, and collections missing
// from a document are never cleared, so a partial backup cannot silently
// delete unrelated data.
package backup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"cwtshtodo/internal/model"
	"cwtshtodo/internal/repository"
)

// ErrInvalidDocument is returned when a document carries neither a tasks nor
// a categories key. Validation runs before any write.
var ErrInvalidDocument = errors.New("backup: document has neither tasks nor categories")

// Document is the backup snapshot format. Pointer-to-slice fields distinguish
// "key absent" (nil) from "key present but empty" so merge semantics stay
// precise for legacy partial backups.
type Document struct {
	Tasks         *[]model.Task         `json:"tasks,omitempty"`
	Categories    *[]model.Category     `json:"categories,omitempty"`
	FocusSessions *[]model.FocusSession `json:"focusSessions,omitempty"`
	Habits        *[]model.Habit        `json:"habits,omitempty"`
	HabitLogs     *[]model.HabitLog     `json:"habitLogs,omitempty"`
}

// Validate rejects documents that carry none of the required keys.
func (d Document) Validate() error {
	if d.Tasks == nil && d.Categories == nil {
		return ErrInvalidDocument
	}
	return nil
}

// IsFull reports whether the document uses the full five-collection format
// rather than the legacy tasks+categories one.
func (d Document) IsFull() bool {
	return d.FocusSessions != nil || d.Habits != nil || d.HabitLogs != nil
}

// Decode parses a JSON backup stream into a Document.
func Decode(r io.Reader) (Document, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return Document{}, fmt.Errorf("decode backup: %w", err)
	}
	return doc, nil
}

// Adapter reads and writes backup documents against the durable store.
type Adapter struct {
	tasks         *repository.TaskRepository
	categories    *repository.CategoryRepository
	focusSessions *repository.FocusSessionRepository
	habits        *repository.HabitRepository
	habitLogs     *repository.HabitLogRepository
}

func NewAdapter(
	tasks *repository.TaskRepository,
	categories *repository.CategoryRepository,
	focusSessions *repository.FocusSessionRepository,
	habits *repository.HabitRepository,
	habitLogs *repository.HabitLogRepository,
) *Adapter {
	return &Adapter{
		tasks:         tasks,
		categories:    categories,
		focusSessions: focusSessions,
		habits:        habits,
		habitLogs:     habitLogs,
	}
}

// ExportAll assembles a full snapshot of every collection. All five keys are
// always present in the result, even when empty.
func (a *Adapter) ExportAll(ctx context.Context) (Document, error) {
	tasks, err := a.tasks.List(ctx)
	if err != nil {
		return Document{}, err
	}
	categories, err := a.categories.List(ctx)
	if err != nil {
		return Document{}, err
	}
	sessions, err := a.focusSessions.List(ctx)
	if err != nil {
		return Document{}, err
	}
	habits, err := a.habits.List(ctx)
	if err != nil {
		return Document{}, err
	}
	logs, err := a.habitLogs.List(ctx)
	if err != nil {
		return Document{}, err
	}

	if tasks == nil {
		tasks = []model.Task{}
	}
	if categories == nil {
		categories = []model.Category{}
	}
	if sessions == nil {
		sessions = []model.FocusSession{}
	}
	if habits == nil {
		habits = []model.Habit{}
	}
	if logs == nil {
		logs = []model.HabitLog{}
	}

	return Document{
		Tasks:         &tasks,
		Categories:    &categories,
		FocusSessions: &sessions,
		Habits:        &habits,
		HabitLogs:     &logs,
	}, nil
}

// ImportPartial merges the legacy tasks+categories document into the store.
// Colliding ids are overwritten whole; everything else is untouched.
func (a *Adapter) ImportPartial(ctx context.Context, doc Document) error {
	if err := doc.Validate(); err != nil {
		return err
	}
	if err := a.importTasksAndCategories(ctx, doc); err != nil {
		return err
	}
	return nil
}

// ImportFull merges every collection present in the document into the store.
func (a *Adapter) ImportFull(ctx context.Context, doc Document) error {
	if err := doc.Validate(); err != nil {
		return err
	}
	if err := a.importTasksAndCategories(ctx, doc); err != nil {
		return err
	}
	if doc.FocusSessions != nil {
		for i := range *doc.FocusSessions {
			if err := a.focusSessions.Put(ctx, &(*doc.FocusSessions)[i]); err != nil {
				return err
			}
		}
	}
	if doc.Habits != nil {
		for i := range *doc.Habits {
			if err := a.habits.Put(ctx, &(*doc.Habits)[i]); err != nil {
				return err
			}
		}
	}
	if doc.HabitLogs != nil {
		for i := range *doc.HabitLogs {
			if err := a.habitLogs.Put(ctx, &(*doc.HabitLogs)[i]); err != nil {
				return err
			}
		}
	}
	return nil
}

func (a *Adapter) importTasksAndCategories(ctx context.Context, doc Document) error {
	if doc.Tasks != nil {
		for i := range *doc.Tasks {
			if err := a.tasks.Put(ctx, &(*doc.Tasks)[i]); err != nil {
				return err
			}
		}
	}
	if doc.Categories != nil {
		for i := range *doc.Categories {
			if err := a.categories.Put(ctx, &(*doc.Categories)[i]); err != nil {
				return err
			}
		}
	}
	return nil
}
