package repository

import (
	"context"
	"time"

	"app/internal/domain/model"
)

type HabitRepository interface {
	ListActiveByUserID(ctx context.Context, userID int64) ([]model.Habit, error)
	FindByID(ctx context.Context, habitID int64) (model.Habit, error)
	Create(ctx context.Context, h model.Habit) (model.Habit, error)
	Update(ctx context.Context, h model.Habit) error
	DeleteByID(ctx context.Context, habitID int64) error
}

type HabitLogRepository interface {
	FindByHabitAndDate(ctx context.Context, habitID int64, date time.Time) (model.HabitLog, bool, error)
	Create(ctx context.Context, l model.HabitLog) error
	DeleteByHabitAndDate(ctx context.Context, habitID int64, date time.Time) error
	// 新しい順に日付だけ返す（ストリーク計算用）
	ListCompletedDates(ctx context.Context, habitID int64, limit int) ([]time.Time, error)
}
