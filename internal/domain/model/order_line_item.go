package model

import "time"

type OrderLineItem struct {
	ID                 int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID            int64     `gorm:"not null;index" json:"order_id"`
	ModuleID           int64     `gorm:"not null;index" json:"module_id"`
	ModuleNameSnapshot string    `gorm:"type:varchar(254);not null" json:"module_name_snapshot"`
	Amount             int64     `gorm:"not null" json:"amount"`
	CreatedAt          time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}
