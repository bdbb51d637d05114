package repository

import (
	"context"
	"errors"
	"strings"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
)

type ModuleGormRepository struct {
	db *gorm.DB
}

func NewModuleGormRepository(db *gorm.DB) *ModuleGormRepository {
	return &ModuleGormRepository{db: db}
}

func (r *ModuleGormRepository) ListPublic(ctx context.Context, q repo.ModuleListQuery) ([]model.Module, int64, error) {
	if q.Page <= 0 {
		q.Page = 1
	}
	if q.Limit <= 0 || q.Limit > 100 {
		q.Limit = 50
	}

	query := r.db.WithContext(ctx).Model(&model.Module{}).Where("is_active = ?", true)
	if q.Q != "" {
		query = query.Where("lower(name) LIKE ?", "%"+strings.ToLower(q.Q)+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return []model.Module{}, 0, err
	}

	var items []model.Module
	offset := (q.Page - 1) * q.Limit
	if err := query.Order("id asc").Limit(q.Limit).Offset(offset).Find(&items).Error; err != nil {
		return []model.Module{}, 0, err
	}

	return items, total, nil
}

func (r *ModuleGormRepository) FindByID(ctx context.Context, moduleID int64) (model.Module, error) {
	var m model.Module
	err := r.db.WithContext(ctx).Where("id = ?", moduleID).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Module{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Module{}, err
	}
	return m, nil
}

func (r *ModuleGormRepository) Create(ctx context.Context, m model.Module) (model.Module, error) {
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return model.Module{}, err
	}
	return m, nil
}

func (r *ModuleGormRepository) Update(ctx context.Context, m model.Module) error {
	res := r.db.WithContext(ctx).Model(&model.Module{}).
		Where("id = ?", m.ID).
		Updates(map[string]any{
			"name":        m.Name,
			"module_type": m.ModuleType,
			"description": m.Description,
			"price":       m.Price,
			"is_active":   m.IsActive,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *ModuleGormRepository) SoftDelete(ctx context.Context, moduleID int64) error {
	res := r.db.WithContext(ctx).Where("id = ?", moduleID).Delete(&model.Module{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
