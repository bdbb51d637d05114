package repository

import (
	"context"
	"errors"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
)

type DiaryGormRepository struct {
	db *gorm.DB
}

func NewDiaryGormRepository(db *gorm.DB) *DiaryGormRepository {
	return &DiaryGormRepository{db: db}
}

func (r *DiaryGormRepository) ListByUserID(ctx context.Context, userID int64) ([]model.DiaryEntry, error) {
	var items []model.DiaryEntry
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("date desc, created_at desc").
		Find(&items).Error
	if err != nil {
		return []model.DiaryEntry{}, err
	}
	return items, nil
}

func (r *DiaryGormRepository) FindByID(ctx context.Context, entryID int64) (model.DiaryEntry, error) {
	var e model.DiaryEntry
	err := r.db.WithContext(ctx).Where("id = ?", entryID).First(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.DiaryEntry{}, repo.ErrNotFound
	}
	if err != nil {
		return model.DiaryEntry{}, err
	}
	return e, nil
}

func (r *DiaryGormRepository) Create(ctx context.Context, e model.DiaryEntry) (model.DiaryEntry, error) {
	if err := r.db.WithContext(ctx).Create(&e).Error; err != nil {
		return model.DiaryEntry{}, err
	}
	return e, nil
}

func (r *DiaryGormRepository) Update(ctx context.Context, e model.DiaryEntry) error {
	res := r.db.WithContext(ctx).Model(&model.DiaryEntry{}).
		Where("id = ?", e.ID).
		Updates(map[string]any{
			"date":    e.Date,
			"title":   e.Title,
			"content": e.Content,
			"mood":    e.Mood,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *DiaryGormRepository) DeleteByID(ctx context.Context, entryID int64) error {
	res := r.db.WithContext(ctx).Where("id = ?", entryID).Delete(&model.DiaryEntry{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
