package repository

import (
	"context"

	"app/internal/domain/model"
)

type CleaningTaskRepository interface {
	ListActiveByUserID(ctx context.Context, userID int64) ([]model.CleaningTask, error)
	FindByID(ctx context.Context, taskID int64) (model.CleaningTask, error)
	Create(ctx context.Context, t model.CleaningTask) (model.CleaningTask, error)
	Update(ctx context.Context, t model.CleaningTask) error
	DeleteByID(ctx context.Context, taskID int64) error
}
