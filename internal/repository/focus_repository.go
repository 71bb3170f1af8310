package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"cwtshtodo/internal/model"
)

// FocusSessionRepository handles durable storage for focus sessions.
type FocusSessionRepository struct {
	db *gorm.DB
}

func NewFocusSessionRepository(db *gorm.DB) *FocusSessionRepository {
	return &FocusSessionRepository{db: db}
}

func (r *FocusSessionRepository) List(ctx context.Context) ([]model.FocusSession, error) {
	var sessions []model.FocusSession
	if err := r.db.WithContext(ctx).Find(&sessions).Error; err != nil {
		return nil, fmt.Errorf("list focus sessions: %w", err)
	}
	return sessions, nil
}

func (r *FocusSessionRepository) GetByID(ctx context.Context, id string) (*model.FocusSession, error) {
	var session model.FocusSession
	err := r.db.WithContext(ctx).First(&session, "id = ?", id).Error
	switch {
	case err == nil:
		return &session, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, nil
	default:
		return nil, fmt.Errorf("get focus session: %w", err)
	}
}

func (r *FocusSessionRepository) Put(ctx context.Context, session *model.FocusSession) error {
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(session).Error; err != nil {
		return fmt.Errorf("put focus session: %w", err)
	}
	return nil
}

func (r *FocusSessionRepository) Delete(ctx context.Context, id string) error {
	if err := r.db.WithContext(ctx).Delete(&model.FocusSession{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("delete focus session: %w", err)
	}
	return nil
}

// ListByCompletedRange returns sessions completed within [from, to] epoch
// milliseconds, bounds inclusive.
func (r *FocusSessionRepository) ListByCompletedRange(ctx context.Context, from, to int64) ([]model.FocusSession, error) {
	var sessions []model.FocusSession
	if err := r.db.WithContext(ctx).
		Where("completed_at >= ? AND completed_at <= ?", from, to).
		Find(&sessions).Error; err != nil {
		return nil, fmt.Errorf("list focus sessions by completion: %w", err)
	}
	return sessions, nil
}

// ListByTask returns sessions recorded against the given task.
func (r *FocusSessionRepository) ListByTask(ctx context.Context, taskID string) ([]model.FocusSession, error) {
	var sessions []model.FocusSession
	if err := r.db.WithContext(ctx).
		Where("task_id = ?", taskID).
		Find(&sessions).Error; err != nil {
		return nil, fmt.Errorf("list focus sessions by task: %w", err)
	}
	return sessions, nil
}

func (r *FocusSessionRepository) Clear(ctx context.Context) error {
	if err := r.db.WithContext(ctx).
		Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&model.FocusSession{}).Error; err != nil {
		return fmt.Errorf("clear focus sessions: %w", err)
	}
	return nil
}
