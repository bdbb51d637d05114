package model

import "time"

type Mood string

const (
	MoodHappy   Mood = "happy"
	MoodSad     Mood = "sad"
	MoodNeutral Mood = "neutral"
	MoodExcited Mood = "excited"
	MoodAnxious Mood = "anxious"
)

func IsValidMood(m Mood) bool {
	switch m {
	case MoodHappy, MoodSad, MoodNeutral, MoodExcited, MoodAnxious:
		return true
	}
	return false
}

type DiaryEntry struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    int64     `gorm:"not null;index" json:"user_id"`
	Date      time.Time `gorm:"type:date;not null" json:"date"`
	Title     string    `gorm:"type:varchar(200);not null" json:"title"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	Mood      Mood      `gorm:"type:varchar(50)" json:"mood"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
