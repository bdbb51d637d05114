package repository

import (
	"context"
	"errors"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
)

type MealPlanGormRepository struct {
	db *gorm.DB
}

func NewMealPlanGormRepository(db *gorm.DB) *MealPlanGormRepository {
	return &MealPlanGormRepository{db: db}
}

func (r *MealPlanGormRepository) ListByUserID(ctx context.Context, userID int64) ([]model.MealPlan, error) {
	var items []model.MealPlan
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("date desc").
		Find(&items).Error
	if err != nil {
		return []model.MealPlan{}, err
	}
	return items, nil
}

func (r *MealPlanGormRepository) FindByID(ctx context.Context, planID int64) (model.MealPlan, error) {
	var p model.MealPlan
	err := r.db.WithContext(ctx).Where("id = ?", planID).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.MealPlan{}, repo.ErrNotFound
	}
	if err != nil {
		return model.MealPlan{}, err
	}
	return p, nil
}

func (r *MealPlanGormRepository) Create(ctx context.Context, p model.MealPlan) (model.MealPlan, error) {
	if err := r.db.WithContext(ctx).Create(&p).Error; err != nil {
		return model.MealPlan{}, err
	}
	return p, nil
}

func (r *MealPlanGormRepository) Update(ctx context.Context, p model.MealPlan) error {
	res := r.db.WithContext(ctx).Model(&model.MealPlan{}).
		Where("id = ?", p.ID).
		Updates(map[string]any{
			"date":         p.Date,
			"breakfast":    p.Breakfast,
			"lunch":        p.Lunch,
			"dinner":       p.Dinner,
			"snacks":       p.Snacks,
			"water_intake": p.WaterIntake,
			"notes":        p.Notes,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *MealPlanGormRepository) DeleteByID(ctx context.Context, planID int64) error {
	res := r.db.WithContext(ctx).Where("id = ?", planID).Delete(&model.MealPlan{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
