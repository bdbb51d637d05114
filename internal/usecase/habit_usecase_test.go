package usecase

import (
	"context"
	"testing"
	"time"

	"app/internal/domain/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type HabitRepoMock struct{ mock.Mock }

func (m *HabitRepoMock) ListActiveByUserID(ctx context.Context, userID int64) ([]model.Habit, error) {
	args := m.Called(ctx, userID)
	items, _ := args.Get(0).([]model.Habit)
	return items, args.Error(1)
}

func (m *HabitRepoMock) FindByID(ctx context.Context, habitID int64) (model.Habit, error) {
	args := m.Called(ctx, habitID)
	h, _ := args.Get(0).(model.Habit)
	return h, args.Error(1)
}

func (m *HabitRepoMock) Create(ctx context.Context, h model.Habit) (model.Habit, error) {
	args := m.Called(ctx, h)
	created, _ := args.Get(0).(model.Habit)
	return created, args.Error(1)
}

func (m *HabitRepoMock) Update(ctx context.Context, h model.Habit) error {
	args := m.Called(ctx, h)
	return args.Error(0)
}

func (m *HabitRepoMock) DeleteByID(ctx context.Context, habitID int64) error {
	args := m.Called(ctx, habitID)
	return args.Error(0)
}

type HabitLogRepoMock struct{ mock.Mock }

func (m *HabitLogRepoMock) FindByHabitAndDate(ctx context.Context, habitID int64, date time.Time) (model.HabitLog, bool, error) {
	args := m.Called(ctx, habitID, date)
	l, _ := args.Get(0).(model.HabitLog)
	return l, args.Bool(1), args.Error(2)
}

func (m *HabitLogRepoMock) Create(ctx context.Context, l model.HabitLog) error {
	args := m.Called(ctx, l)
	return args.Error(0)
}

func (m *HabitLogRepoMock) DeleteByHabitAndDate(ctx context.Context, habitID int64, date time.Time) error {
	args := m.Called(ctx, habitID, date)
	return args.Error(0)
}

func (m *HabitLogRepoMock) ListCompletedDates(ctx context.Context, habitID int64, limit int) ([]time.Time, error) {
	args := m.Called(ctx, habitID, limit)
	dates, _ := args.Get(0).([]time.Time)
	return dates, args.Error(1)
}

// =====================
// ストリーク計算
// =====================

func TestCurrentStreak(t *testing.T) {
	today := dateAt(2025, time.March, 10)

	//記録なし
	assert.Equal(t, 0, CurrentStreak(today, nil))

	//今日で終わる3連続
	assert.Equal(t, 3, CurrentStreak(today, []time.Time{
		dateAt(2025, time.March, 10),
		dateAt(2025, time.March, 9),
		dateAt(2025, time.March, 8),
	}))

	//今日が未完了でも昨日から数える
	assert.Equal(t, 2, CurrentStreak(today, []time.Time{
		dateAt(2025, time.March, 9),
		dateAt(2025, time.March, 8),
	}))

	//一昨日で途切れている → 0
	assert.Equal(t, 0, CurrentStreak(today, []time.Time{
		dateAt(2025, time.March, 8),
		dateAt(2025, time.March, 7),
	}))

	//途中に穴があると止まる
	assert.Equal(t, 1, CurrentStreak(today, []time.Time{
		dateAt(2025, time.March, 10),
		dateAt(2025, time.March, 8),
	}))
}

// =====================
// トグル
// =====================

func TestToggleToday_CreatesThenDeletes(t *testing.T) {
	habitRepo := new(HabitRepoMock)
	logRepo := new(HabitLogRepoMock)
	entitlements := new(EntitlementRepoMock)

	uc := NewHabitUsecase(habitRepo, logRepo, entitlements)
	today := dateAt(2025, time.March, 10)
	uc.now = func() time.Time { return today }

	entitlements.On("HasByUserAndType", mock.Anything, int64(1), model.ModuleTypeHabitTracker).Return(true, nil)
	habitRepo.On("FindByID", mock.Anything, int64(3)).Return(model.Habit{ID: 3, UserID: 1, HabitName: "Run", IsActive: true}, nil)

	//未記録 → 作成
	logRepo.On("FindByHabitAndDate", mock.Anything, int64(3), today).Return(model.HabitLog{}, false, nil).Once()
	logRepo.On("Create", mock.Anything, mock.MatchedBy(func(l model.HabitLog) bool {
		return l.HabitID == 3 && l.Date.Equal(today) && l.Completed
	})).Return(nil).Once()
	//出力用の再照会
	logRepo.On("FindByHabitAndDate", mock.Anything, int64(3), today).Return(model.HabitLog{HabitID: 3, Date: today}, true, nil).Once()
	logRepo.On("ListCompletedDates", mock.Anything, int64(3), 366).Return([]time.Time{today}, nil)

	out, err := uc.ToggleToday(context.Background(), 1, 3)
	assert.NoError(t, err)
	assert.True(t, out.CompletedToday)
	assert.Equal(t, 1, out.Streak)
	logRepo.AssertExpectations(t)
}

func TestToggleToday_DeletesExistingLog(t *testing.T) {
	habitRepo := new(HabitRepoMock)
	logRepo := new(HabitLogRepoMock)
	entitlements := new(EntitlementRepoMock)

	uc := NewHabitUsecase(habitRepo, logRepo, entitlements)
	today := dateAt(2025, time.March, 10)
	uc.now = func() time.Time { return today }

	entitlements.On("HasByUserAndType", mock.Anything, int64(1), model.ModuleTypeHabitTracker).Return(true, nil)
	habitRepo.On("FindByID", mock.Anything, int64(3)).Return(model.Habit{ID: 3, UserID: 1, IsActive: true}, nil)

	//記録済み → 削除
	logRepo.On("FindByHabitAndDate", mock.Anything, int64(3), today).Return(model.HabitLog{HabitID: 3, Date: today}, true, nil).Once()
	logRepo.On("DeleteByHabitAndDate", mock.Anything, int64(3), today).Return(nil).Once()
	logRepo.On("FindByHabitAndDate", mock.Anything, int64(3), today).Return(model.HabitLog{}, false, nil).Once()
	logRepo.On("ListCompletedDates", mock.Anything, int64(3), 366).Return([]time.Time{}, nil)

	out, err := uc.ToggleToday(context.Background(), 1, 3)
	assert.NoError(t, err)
	assert.False(t, out.CompletedToday)
	assert.Equal(t, 0, out.Streak)
	logRepo.AssertExpectations(t)
}
