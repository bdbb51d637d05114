package model

import "time"

// 1回の購入の記録。
// PaymentRefは決済プロバイダのトランザクションID。空でなければ全注文で一意
// （同期フローとWebhookの二重作成をDB制約で防ぐ）。
type Order struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderNumber string    `gorm:"type:varchar(32);uniqueIndex;not null" json:"order_number"`
	UserID      *int64    `gorm:"index" json:"user_id"`
	FullName    string    `gorm:"type:varchar(50);not null" json:"full_name"`
	Email       string    `gorm:"type:varchar(254);not null" json:"email"`
	PhoneNumber string    `gorm:"type:varchar(20)" json:"phone_number"`
	Total       int64     `gorm:"not null" json:"total"`
	PaymentRef  string    `gorm:"type:varchar(254);uniqueIndex;not null" json:"-"`
	CreatedAt   time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}
