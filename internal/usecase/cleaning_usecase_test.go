package usecase

import (
	"context"
	"net/http"
	"testing"
	"time"

	"app/internal/domain/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type CleaningRepoMock struct{ mock.Mock }

func (m *CleaningRepoMock) ListActiveByUserID(ctx context.Context, userID int64) ([]model.CleaningTask, error) {
	args := m.Called(ctx, userID)
	items, _ := args.Get(0).([]model.CleaningTask)
	return items, args.Error(1)
}

func (m *CleaningRepoMock) FindByID(ctx context.Context, taskID int64) (model.CleaningTask, error) {
	args := m.Called(ctx, taskID)
	t, _ := args.Get(0).(model.CleaningTask)
	return t, args.Error(1)
}

func (m *CleaningRepoMock) Create(ctx context.Context, t model.CleaningTask) (model.CleaningTask, error) {
	args := m.Called(ctx, t)
	created, _ := args.Get(0).(model.CleaningTask)
	return created, args.Error(1)
}

func (m *CleaningRepoMock) Update(ctx context.Context, t model.CleaningTask) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *CleaningRepoMock) DeleteByID(ctx context.Context, taskID int64) error {
	args := m.Called(ctx, taskID)
	return args.Error(0)
}

func TestNextDueAfter(t *testing.T) {
	completed := dateAt(2025, time.March, 10)

	assert.Equal(t, dateAt(2025, time.March, 11), NextDueAfter(completed, model.FrequencyDaily))
	assert.Equal(t, dateAt(2025, time.March, 17), NextDueAfter(completed, model.FrequencyWeekly))
	assert.Equal(t, dateAt(2025, time.April, 9), NextDueAfter(completed, model.FrequencyMonthly))
}

// 完了でlast_completed=今日、next_due=今日+頻度
func TestCompleteTask_AdvancesNextDue(t *testing.T) {
	taskRepo := new(CleaningRepoMock)
	entitlements := new(EntitlementRepoMock)

	uc := NewCleaningUsecase(taskRepo, entitlements)
	today := dateAt(2025, time.March, 10)
	uc.now = func() time.Time { return today }

	entitlements.On("HasByUserAndType", mock.Anything, int64(1), model.ModuleTypeCleaningSchedule).Return(true, nil)
	taskRepo.On("FindByID", mock.Anything, int64(7)).Return(model.CleaningTask{
		ID: 7, UserID: 1, TaskName: "Vacuum", Room: "Living room",
		Frequency: model.FrequencyWeekly, NextDue: today, IsActive: true,
	}, nil)
	taskRepo.On("Update", mock.Anything, mock.MatchedBy(func(task model.CleaningTask) bool {
		return task.LastCompleted != nil && task.LastCompleted.Equal(today) &&
			task.NextDue.Equal(dateAt(2025, time.March, 17))
	})).Return(nil)

	out, err := uc.CompleteTask(context.Background(), 1, 7)
	assert.NoError(t, err)
	assert.Equal(t, dateAt(2025, time.March, 17), out.NextDue)
	taskRepo.AssertExpectations(t)
}

// 期限切れと今後の予定を分けて返す
func TestListTasks_SplitsOverdue(t *testing.T) {
	taskRepo := new(CleaningRepoMock)
	entitlements := new(EntitlementRepoMock)

	uc := NewCleaningUsecase(taskRepo, entitlements)
	today := dateAt(2025, time.March, 10)
	uc.now = func() time.Time { return today }

	entitlements.On("HasByUserAndType", mock.Anything, int64(1), model.ModuleTypeCleaningSchedule).Return(true, nil)
	taskRepo.On("ListActiveByUserID", mock.Anything, int64(1)).Return([]model.CleaningTask{
		{ID: 1, UserID: 1, TaskName: "Vacuum", NextDue: dateAt(2025, time.March, 8), IsActive: true},
		{ID: 2, UserID: 1, TaskName: "Windows", NextDue: today, IsActive: true},
		{ID: 3, UserID: 1, TaskName: "Fridge", NextDue: dateAt(2025, time.March, 20), IsActive: true},
	}, nil)

	out, err := uc.ListTasks(context.Background(), 1)
	assert.NoError(t, err)
	assert.Len(t, out.Overdue, 1)
	assert.Equal(t, "Vacuum", out.Overdue[0].TaskName)
	//当日はまだ期限切れ扱いにしない
	assert.Len(t, out.Upcoming, 2)
}

// 未購入ユーザーは403
func TestCleaning_RequiresEntitlement(t *testing.T) {
	entitlements := new(EntitlementRepoMock)
	uc := NewCleaningUsecase(new(CleaningRepoMock), entitlements)

	entitlements.On("HasByUserAndType", mock.Anything, int64(1), model.ModuleTypeCleaningSchedule).Return(false, nil)

	_, err := uc.ListTasks(context.Background(), 1)
	assertHTTPError(t, err, http.StatusForbidden)
}

// 他人のタスクは404
func TestCompleteTask_ForeignTaskHidden(t *testing.T) {
	taskRepo := new(CleaningRepoMock)
	entitlements := new(EntitlementRepoMock)
	uc := NewCleaningUsecase(taskRepo, entitlements)

	entitlements.On("HasByUserAndType", mock.Anything, int64(1), model.ModuleTypeCleaningSchedule).Return(true, nil)
	taskRepo.On("FindByID", mock.Anything, int64(7)).Return(model.CleaningTask{
		ID: 7, UserID: 2, IsActive: true,
	}, nil)

	_, err := uc.CompleteTask(context.Background(), 1, 7)
	assertHTTPError(t, err, http.StatusNotFound)
}
