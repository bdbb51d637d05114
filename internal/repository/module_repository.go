package repository

import (
	"context"
	"errors"

	"app/internal/domain/model"
)

var ErrNotFound = errors.New("not found")

// 一意制約違反（payment_refの競合など）。呼び出し側は既存行を取り直す。
var ErrConflict = errors.New("conflict")

type ModuleListQuery struct {
	Page  int
	Limit int
	Q     string
}

type ModuleRepository interface {
	ListPublic(ctx context.Context, q ModuleListQuery) ([]model.Module, int64, error)
	FindByID(ctx context.Context, moduleID int64) (model.Module, error)
	Create(ctx context.Context, m model.Module) (model.Module, error)
	Update(ctx context.Context, m model.Module) error
	SoftDelete(ctx context.Context, moduleID int64) error
}
