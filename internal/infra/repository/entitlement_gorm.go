package repository

import (
	"context"

	"app/internal/domain/model"

	"gorm.io/gorm"
)

type EntitlementGormRepository struct {
	db *gorm.DB
}

func NewEntitlementGormRepository(db *gorm.DB) *EntitlementGormRepository {
	return &EntitlementGormRepository{db: db}
}

// Grantは冪等。既に(user, module)の行があれば一意制約違反を成功として扱う。
func (r *EntitlementGormRepository) Grant(ctx context.Context, userID int64, moduleID int64) error {
	um := model.UserModule{UserID: userID, ModuleID: moduleID}
	err := r.db.WithContext(ctx).Create(&um).Error
	if err != nil && isUniqueViolation(err) {
		return nil
	}
	return err
}

func (r *EntitlementGormRepository) HasByUserAndModule(ctx context.Context, userID int64, moduleID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.UserModule{}).
		Where("user_id = ? AND module_id = ?", userID, moduleID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// 利用権の有無をモジュール種別で判定する（機能ゲート用）。
func (r *EntitlementGormRepository) HasByUserAndType(ctx context.Context, userID int64, moduleType model.ModuleType) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.UserModule{}).
		Joins("JOIN modules ON modules.id = user_modules.module_id").
		Where("user_modules.user_id = ? AND modules.module_type = ?", userID, moduleType).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *EntitlementGormRepository) ListByUserID(ctx context.Context, userID int64) ([]model.UserModule, error) {
	var items []model.UserModule
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Find(&items).Error
	if err != nil {
		return []model.UserModule{}, err
	}
	return items, nil
}
