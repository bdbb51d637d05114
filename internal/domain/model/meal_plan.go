package model

import "time"

type MealPlan struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID      int64     `gorm:"not null;index" json:"user_id"`
	Date        time.Time `gorm:"type:date;not null" json:"date"`
	Breakfast   string    `gorm:"type:text" json:"breakfast"`
	Lunch       string    `gorm:"type:text" json:"lunch"`
	Dinner      string    `gorm:"type:text" json:"dinner"`
	Snacks      string    `gorm:"type:text" json:"snacks"`
	WaterIntake int       `gorm:"not null;default:0" json:"water_intake"`
	Notes       string    `gorm:"type:text" json:"notes"`
	CreatedAt   time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
