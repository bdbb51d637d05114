package model

import "time"

type CleaningFrequency string

const (
	FrequencyDaily   CleaningFrequency = "daily"
	FrequencyWeekly  CleaningFrequency = "weekly"
	FrequencyMonthly CleaningFrequency = "monthly"
)

func IsValidFrequency(f CleaningFrequency) bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly:
		return true
	}
	return false
}

type CleaningTask struct {
	ID            int64             `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID        int64             `gorm:"not null;index" json:"user_id"`
	TaskName      string            `gorm:"type:varchar(200);not null" json:"task_name"`
	Room          string            `gorm:"type:varchar(100);not null" json:"room"`
	Frequency     CleaningFrequency `gorm:"type:varchar(20);not null" json:"frequency"`
	LastCompleted *time.Time        `gorm:"type:date" json:"last_completed"`
	NextDue       time.Time         `gorm:"type:date;not null" json:"next_due"`
	Notes         string            `gorm:"type:text" json:"notes"`
	IsActive      bool              `gorm:"not null;default:true" json:"is_active"`
	CreatedAt     time.Time         `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time         `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
