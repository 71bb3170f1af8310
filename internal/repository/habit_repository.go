package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"cwtshtodo/internal/model"
)

// HabitRepository handles durable storage for habits.
type HabitRepository struct {
	db *gorm.DB
}

func NewHabitRepository(db *gorm.DB) *HabitRepository {
	return &HabitRepository{db: db}
}

func (r *HabitRepository) List(ctx context.Context) ([]model.Habit, error) {
	var habits []model.Habit
	if err := r.db.WithContext(ctx).Find(&habits).Error; err != nil {
		return nil, fmt.Errorf("list habits: %w", err)
	}
	return habits, nil
}

func (r *HabitRepository) GetByID(ctx context.Context, id string) (*model.Habit, error) {
	var habit model.Habit
	err := r.db.WithContext(ctx).First(&habit, "id = ?", id).Error
	switch {
	case err == nil:
		return &habit, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, nil
	default:
		return nil, fmt.Errorf("get habit: %w", err)
	}
}

func (r *HabitRepository) Put(ctx context.Context, habit *model.Habit) error {
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(habit).Error; err != nil {
		return fmt.Errorf("put habit: %w", err)
	}
	return nil
}

func (r *HabitRepository) Delete(ctx context.Context, id string) error {
	if err := r.db.WithContext(ctx).Delete(&model.Habit{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("delete habit: %w", err)
	}
	return nil
}

func (r *HabitRepository) Clear(ctx context.Context) error {
	if err := r.db.WithContext(ctx).
		Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&model.Habit{}).Error; err != nil {
		return fmt.Errorf("clear habits: %w", err)
	}
	return nil
}
