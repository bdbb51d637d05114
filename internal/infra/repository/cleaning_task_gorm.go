package repository

import (
	"context"
	"errors"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
)

type CleaningTaskGormRepository struct {
	db *gorm.DB
}

func NewCleaningTaskGormRepository(db *gorm.DB) *CleaningTaskGormRepository {
	return &CleaningTaskGormRepository{db: db}
}

func (r *CleaningTaskGormRepository) ListActiveByUserID(ctx context.Context, userID int64) ([]model.CleaningTask, error) {
	var items []model.CleaningTask
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND is_active = ?", userID, true).
		Order("next_due asc").
		Find(&items).Error
	if err != nil {
		return []model.CleaningTask{}, err
	}
	return items, nil
}

func (r *CleaningTaskGormRepository) FindByID(ctx context.Context, taskID int64) (model.CleaningTask, error) {
	var t model.CleaningTask
	err := r.db.WithContext(ctx).Where("id = ?", taskID).First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.CleaningTask{}, repo.ErrNotFound
	}
	if err != nil {
		return model.CleaningTask{}, err
	}
	return t, nil
}

func (r *CleaningTaskGormRepository) Create(ctx context.Context, t model.CleaningTask) (model.CleaningTask, error) {
	if err := r.db.WithContext(ctx).Create(&t).Error; err != nil {
		return model.CleaningTask{}, err
	}
	return t, nil
}

func (r *CleaningTaskGormRepository) Update(ctx context.Context, t model.CleaningTask) error {
	res := r.db.WithContext(ctx).Model(&model.CleaningTask{}).
		Where("id = ?", t.ID).
		Updates(map[string]any{
			"task_name":      t.TaskName,
			"room":           t.Room,
			"frequency":      t.Frequency,
			"last_completed": t.LastCompleted,
			"next_due":       t.NextDue,
			"notes":          t.Notes,
			"is_active":      t.IsActive,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *CleaningTaskGormRepository) DeleteByID(ctx context.Context, taskID int64) error {
	res := r.db.WithContext(ctx).Where("id = ?", taskID).Delete(&model.CleaningTask{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
