package repository

import (
	"context"

	"app/internal/domain/model"
)

type DiaryRepository interface {
	ListByUserID(ctx context.Context, userID int64) ([]model.DiaryEntry, error)
	FindByID(ctx context.Context, entryID int64) (model.DiaryEntry, error)
	Create(ctx context.Context, e model.DiaryEntry) (model.DiaryEntry, error)
	Update(ctx context.Context, e model.DiaryEntry) error
	DeleteByID(ctx context.Context, entryID int64) error
}
