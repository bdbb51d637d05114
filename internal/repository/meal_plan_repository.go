package repository

import (
	"context"

	"app/internal/domain/model"
)

type MealPlanRepository interface {
	ListByUserID(ctx context.Context, userID int64) ([]model.MealPlan, error)
	FindByID(ctx context.Context, planID int64) (model.MealPlan, error)
	Create(ctx context.Context, p model.MealPlan) (model.MealPlan, error)
	Update(ctx context.Context, p model.MealPlan) error
	DeleteByID(ctx context.Context, planID int64) error
}
