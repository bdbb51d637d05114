package repository

import (
	"context"
	"errors"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
)

type HabitGormRepository struct {
	db *gorm.DB
}

func NewHabitGormRepository(db *gorm.DB) *HabitGormRepository {
	return &HabitGormRepository{db: db}
}

func (r *HabitGormRepository) ListActiveByUserID(ctx context.Context, userID int64) ([]model.Habit, error) {
	var items []model.Habit
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND is_active = ?", userID, true).
		Order("id asc").
		Find(&items).Error
	if err != nil {
		return []model.Habit{}, err
	}
	return items, nil
}

func (r *HabitGormRepository) FindByID(ctx context.Context, habitID int64) (model.Habit, error) {
	var h model.Habit
	err := r.db.WithContext(ctx).Where("id = ?", habitID).First(&h).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Habit{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Habit{}, err
	}
	return h, nil
}

func (r *HabitGormRepository) Create(ctx context.Context, h model.Habit) (model.Habit, error) {
	if err := r.db.WithContext(ctx).Create(&h).Error; err != nil {
		return model.Habit{}, err
	}
	return h, nil
}

func (r *HabitGormRepository) Update(ctx context.Context, h model.Habit) error {
	res := r.db.WithContext(ctx).Model(&model.Habit{}).
		Where("id = ?", h.ID).
		Updates(map[string]any{
			"habit_name":       h.HabitName,
			"description":      h.Description,
			"target_frequency": h.TargetFrequency,
			"color":            h.Color,
			"is_active":        h.IsActive,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *HabitGormRepository) DeleteByID(ctx context.Context, habitID int64) error {
	if err := r.db.WithContext(ctx).
		Where("habit_id = ?", habitID).
		Delete(&model.HabitLog{}).Error; err != nil {
		return err
	}

	res := r.db.WithContext(ctx).Where("id = ?", habitID).Delete(&model.Habit{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

type HabitLogGormRepository struct {
	db *gorm.DB
}

func NewHabitLogGormRepository(db *gorm.DB) *HabitLogGormRepository {
	return &HabitLogGormRepository{db: db}
}

func (r *HabitLogGormRepository) FindByHabitAndDate(ctx context.Context, habitID int64, date time.Time) (model.HabitLog, bool, error) {
	var l model.HabitLog
	err := r.db.WithContext(ctx).
		Where("habit_id = ? AND date = ?", habitID, date).
		First(&l).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.HabitLog{}, false, nil
	}
	if err != nil {
		return model.HabitLog{}, false, err
	}
	return l, true, nil
}

func (r *HabitLogGormRepository) Create(ctx context.Context, l model.HabitLog) error {
	err := r.db.WithContext(ctx).Create(&l).Error
	if err != nil && isUniqueViolation(err) {
		// 同じ日の二重記録はno-op
		return nil
	}
	return err
}

func (r *HabitLogGormRepository) DeleteByHabitAndDate(ctx context.Context, habitID int64, date time.Time) error {
	return r.db.WithContext(ctx).
		Where("habit_id = ? AND date = ?", habitID, date).
		Delete(&model.HabitLog{}).Error
}

func (r *HabitLogGormRepository) ListCompletedDates(ctx context.Context, habitID int64, limit int) ([]time.Time, error) {
	if limit <= 0 {
		limit = 366
	}

	var logs []model.HabitLog
	err := r.db.WithContext(ctx).
		Where("habit_id = ? AND completed = ?", habitID, true).
		Order("date desc").
		Limit(limit).
		Find(&logs).Error
	if err != nil {
		return []time.Time{}, err
	}

	dates := make([]time.Time, 0, len(logs))
	for _, l := range logs {
		dates = append(dates, l.Date)
	}
	return dates, nil
}
