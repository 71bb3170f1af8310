package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"cwtshtodo/internal/model"
)

// TaskRepository handles durable storage for tasks.
type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// List returns every task in unspecified order; callers sort.
func (r *TaskRepository) List(ctx context.Context) ([]model.Task, error) {
	var tasks []model.Task
	if err := r.db.WithContext(ctx).Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

// GetByID returns the task with the given id, or nil when absent.
func (r *TaskRepository) GetByID(ctx context.Context, id string) (*model.Task, error) {
	var task model.Task
	err := r.db.WithContext(ctx).First(&task, "id = ?", id).Error
	switch {
	case err == nil:
		return &task, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, nil
	default:
		return nil, fmt.Errorf("get task: %w", err)
	}
}

// Put upserts the task by primary key, replacing the whole record.
func (r *TaskRepository) Put(ctx context.Context, task *model.Task) error {
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(task).Error; err != nil {
		return fmt.Errorf("put task: %w", err)
	}
	return nil
}

// Delete removes the task; deleting an absent id is not an error.
func (r *TaskRepository) Delete(ctx context.Context, id string) error {
	if err := r.db.WithContext(ctx).Delete(&model.Task{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return nil
}

// ListByStartTimeRange returns tasks whose start time falls in [from, to],
// bounds inclusive. Backed by the start-time index.
func (r *TaskRepository) ListByStartTimeRange(ctx context.Context, from, to time.Time) ([]model.Task, error) {
	var tasks []model.Task
	if err := r.db.WithContext(ctx).
		Where("start_time >= ? AND start_time <= ?", from, to).
		Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("list tasks by start time: %w", err)
	}
	return tasks, nil
}

// ListByCategory returns tasks referencing the given category.
func (r *TaskRepository) ListByCategory(ctx context.Context, categoryID string) ([]model.Task, error) {
	var tasks []model.Task
	if err := r.db.WithContext(ctx).
		Where("category_id = ?", categoryID).
		Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("list tasks by category: %w", err)
	}
	return tasks, nil
}

// Clear removes every task. Used only by the wipe-all-data flow.
func (r *TaskRepository) Clear(ctx context.Context) error {
	if err := r.db.WithContext(ctx).
		Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&model.Task{}).Error; err != nil {
		return fmt.Errorf("clear tasks: %w", err)
	}
	return nil
}
