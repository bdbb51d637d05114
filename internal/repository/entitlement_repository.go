package repository

import (
	"context"

	"app/internal/domain/model"
)

// UserModule（モジュール利用権）の保存。
// Grantは(user, module)で冪等：既にあれば何もしない。
type EntitlementRepository interface {
	Grant(ctx context.Context, userID int64, moduleID int64) error
	HasByUserAndModule(ctx context.Context, userID int64, moduleID int64) (bool, error)
	HasByUserAndType(ctx context.Context, userID int64, moduleType model.ModuleType) (bool, error)
	ListByUserID(ctx context.Context, userID int64) ([]model.UserModule, error)
}
