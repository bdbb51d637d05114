package model

import "time"

type Habit struct {
	ID              int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID          int64     `gorm:"not null;index" json:"user_id"`
	HabitName       string    `gorm:"type:varchar(200);not null" json:"habit_name"`
	Description     string    `gorm:"type:text" json:"description"`
	TargetFrequency string    `gorm:"type:varchar(20);not null;default:'daily'" json:"target_frequency"`
	Color           string    `gorm:"type:varchar(7);not null;default:'#6c757d'" json:"color"`
	IsActive        bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt       time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

// 1習慣・1日につき1行
type HabitLog struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	HabitID   int64     `gorm:"not null;uniqueIndex:idx_habit_date" json:"habit_id"`
	Date      time.Time `gorm:"type:date;not null;uniqueIndex:idx_habit_date" json:"date"`
	Completed bool      `gorm:"not null;default:true" json:"completed"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}
