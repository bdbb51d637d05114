package model

import "time"

// 購入済みモジュールの利用権。(user, module)で一意。
type UserModule struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID      int64     `gorm:"not null;uniqueIndex:idx_user_module" json:"user_id"`
	ModuleID    int64     `gorm:"not null;uniqueIndex:idx_user_module" json:"module_id"`
	PurchasedAt time.Time `gorm:"not null;autoCreateTime" json:"purchased_at"`
}
