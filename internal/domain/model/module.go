package model

import (
	"time"

	"gorm.io/gorm"
)

type ModuleType string

const (
	ModuleTypeMealPlanner      ModuleType = "meal_planner"
	ModuleTypeCleaningSchedule ModuleType = "cleaning_schedule"
	ModuleTypeStickers         ModuleType = "stickers"
	ModuleTypeHabitTracker     ModuleType = "habit_tracker"
)

type Category struct {
	ID           int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Name         string `gorm:"type:varchar(254);not null" json:"name"`
	FriendlyName string `gorm:"type:varchar(254)" json:"friendly_name"`
}

// 販売する機能モジュール（カタログ）
type Module struct {
	ID          int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	CategoryID  *int64         `gorm:"index" json:"category_id"`
	Name        string         `gorm:"type:varchar(254);not null" json:"name"`
	ModuleType  ModuleType     `gorm:"type:varchar(50);not null;index" json:"module_type"`
	Description string         `gorm:"type:text" json:"description"`
	Price       int64          `gorm:"not null" json:"price"`
	IsActive    bool           `gorm:"not null;default:true" json:"is_active"`
	CreatedAt   time.Time      `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"not null;autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}
