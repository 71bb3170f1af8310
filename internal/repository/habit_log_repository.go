package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"cwtshtodo/internal/model"
)

// HabitLogRepository handles durable storage for habit logs.
type HabitLogRepository struct {
	db *gorm.DB
}

func NewHabitLogRepository(db *gorm.DB) *HabitLogRepository {
	return &HabitLogRepository{db: db}
}

func (r *HabitLogRepository) List(ctx context.Context) ([]model.HabitLog, error) {
	var logs []model.HabitLog
	if err := r.db.WithContext(ctx).Find(&logs).Error; err != nil {
		return nil, fmt.Errorf("list habit logs: %w", err)
	}
	return logs, nil
}

func (r *HabitLogRepository) GetByID(ctx context.Context, id string) (*model.HabitLog, error) {
	var habitLog model.HabitLog
	err := r.db.WithContext(ctx).First(&habitLog, "id = ?", id).Error
	switch {
	case err == nil:
		return &habitLog, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, nil
	default:
		return nil, fmt.Errorf("get habit log: %w", err)
	}
}

func (r *HabitLogRepository) Put(ctx context.Context, habitLog *model.HabitLog) error {
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(habitLog).Error; err != nil {
		return fmt.Errorf("put habit log: %w", err)
	}
	return nil
}

func (r *HabitLogRepository) Delete(ctx context.Context, id string) error {
	if err := r.db.WithContext(ctx).Delete(&model.HabitLog{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("delete habit log: %w", err)
	}
	return nil
}

// ListByHabit returns every log recorded for the given habit.
func (r *HabitLogRepository) ListByHabit(ctx context.Context, habitID string) ([]model.HabitLog, error) {
	var logs []model.HabitLog
	if err := r.db.WithContext(ctx).
		Where("habit_id = ?", habitID).
		Find(&logs).Error; err != nil {
		return nil, fmt.Errorf("list habit logs by habit: %w", err)
	}
	return logs, nil
}

// ListByDate returns every log recorded on the given YYYY-MM-DD date.
func (r *HabitLogRepository) ListByDate(ctx context.Context, date string) ([]model.HabitLog, error) {
	var logs []model.HabitLog
	if err := r.db.WithContext(ctx).
		Where("date = ?", date).
		Find(&logs).Error; err != nil {
		return nil, fmt.Errorf("list habit logs by date: %w", err)
	}
	return logs, nil
}

func (r *HabitLogRepository) Clear(ctx context.Context) error {
	if err := r.db.WithContext(ctx).
		Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&model.HabitLog{}).Error; err != nil {
		return fmt.Errorf("clear habit logs: %w", err)
	}
	return nil
}
