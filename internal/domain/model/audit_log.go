package model

import "time"

// 管理操作の記録（カタログの作成・変更など）
type AuditLog struct {
	ID         int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	ActorID    int64     `gorm:"not null;index" json:"actor_id"`
	Action     string    `gorm:"type:varchar(50);not null" json:"action"`
	TargetType string    `gorm:"type:varchar(50);not null" json:"target_type"`
	TargetID   int64     `gorm:"not null" json:"target_id"`
	Detail     string    `gorm:"type:text" json:"detail"`
	CreatedAt  time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}
