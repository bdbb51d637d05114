package usecase

import (
	"context"
	"net/http"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

// CleaningUsecase は掃除スケジュール。cleaning_scheduleモジュールの購入が必要。
type CleaningUsecase struct {
	taskRepo     repo.CleaningTaskRepository
	entitlements repo.EntitlementRepository
	now          func() time.Time
}

func NewCleaningUsecase(taskRepo repo.CleaningTaskRepository, entitlements repo.EntitlementRepository) *CleaningUsecase {
	return &CleaningUsecase{
		taskRepo:     taskRepo,
		entitlements: entitlements,
		now:          time.Now,
	}
}

type CleaningTaskInput struct {
	TaskName  string
	Room      string
	Frequency model.CleaningFrequency
	NextDue   time.Time
	Notes     string
}

type CleaningListOutput struct {
	Overdue  []model.CleaningTask `json:"overdue"`
	Upcoming []model.CleaningTask `json:"upcoming"`
}

// ListTasks は期限切れと今後の予定に分けて返す。
func (u *CleaningUsecase) ListTasks(ctx context.Context, userID int64) (CleaningListOutput, error) {
	if userID <= 0 {
		return CleaningListOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if err := requireModuleAccess(ctx, u.entitlements, userID, model.ModuleTypeCleaningSchedule); err != nil {
		return CleaningListOutput{}, err
	}

	tasks, err := u.taskRepo.ListActiveByUserID(ctx, userID)
	if err != nil {
		return CleaningListOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	out := CleaningListOutput{
		Overdue:  []model.CleaningTask{},
		Upcoming: []model.CleaningTask{},
	}
	today := truncateToDate(u.now())
	for _, t := range tasks {
		if t.NextDue.Before(today) {
			out.Overdue = append(out.Overdue, t)
		} else {
			out.Upcoming = append(out.Upcoming, t)
		}
	}
	return out, nil
}

func (u *CleaningUsecase) CreateTask(ctx context.Context, userID int64, in CleaningTaskInput) (model.CleaningTask, error) {
	if userID <= 0 {
		return model.CleaningTask{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if err := requireModuleAccess(ctx, u.entitlements, userID, model.ModuleTypeCleaningSchedule); err != nil {
		return model.CleaningTask{}, err
	}
	if err := validateCleaningInput(in); err != nil {
		return model.CleaningTask{}, err
	}

	nextDue := in.NextDue
	if nextDue.IsZero() {
		nextDue = truncateToDate(u.now())
	}

	created, err := u.taskRepo.Create(ctx, model.CleaningTask{
		UserID:    userID,
		TaskName:  in.TaskName,
		Room:      in.Room,
		Frequency: in.Frequency,
		NextDue:   nextDue,
		Notes:     in.Notes,
		IsActive:  true,
	})
	if err != nil {
		return model.CleaningTask{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return created, nil
}

func (u *CleaningUsecase) UpdateTask(ctx context.Context, userID int64, taskID int64, in CleaningTaskInput) (model.CleaningTask, error) {
	if userID <= 0 {
		return model.CleaningTask{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if err := requireModuleAccess(ctx, u.entitlements, userID, model.ModuleTypeCleaningSchedule); err != nil {
		return model.CleaningTask{}, err
	}
	if err := validateCleaningInput(in); err != nil {
		return model.CleaningTask{}, err
	}

	t, err := u.findOwned(ctx, userID, taskID)
	if err != nil {
		return model.CleaningTask{}, err
	}

	t.TaskName = in.TaskName
	t.Room = in.Room
	t.Frequency = in.Frequency
	t.Notes = in.Notes
	if !in.NextDue.IsZero() {
		t.NextDue = in.NextDue
	}

	if err := u.taskRepo.Update(ctx, t); err != nil {
		return model.CleaningTask{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return t, nil
}

// CompleteTask は完了記録。last_completedを今日にし、next_dueを頻度ぶん進める。
func (u *CleaningUsecase) CompleteTask(ctx context.Context, userID int64, taskID int64) (model.CleaningTask, error) {
	if userID <= 0 {
		return model.CleaningTask{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if err := requireModuleAccess(ctx, u.entitlements, userID, model.ModuleTypeCleaningSchedule); err != nil {
		return model.CleaningTask{}, err
	}

	t, err := u.findOwned(ctx, userID, taskID)
	if err != nil {
		return model.CleaningTask{}, err
	}

	today := truncateToDate(u.now())
	t.LastCompleted = &today
	t.NextDue = NextDueAfter(today, t.Frequency)

	if err := u.taskRepo.Update(ctx, t); err != nil {
		return model.CleaningTask{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return t, nil
}

func (u *CleaningUsecase) DeleteTask(ctx context.Context, userID int64, taskID int64) error {
	if userID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if err := requireModuleAccess(ctx, u.entitlements, userID, model.ModuleTypeCleaningSchedule); err != nil {
		return err
	}

	if _, err := u.findOwned(ctx, userID, taskID); err != nil {
		return err
	}

	if err := u.taskRepo.DeleteByID(ctx, taskID); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

// NextDueAfter は完了日から次回予定日を計算する。
// daily=+1日 / weekly=+7日 / monthly=+30日（暦月ではなく固定30日）。
func NextDueAfter(completed time.Time, f model.CleaningFrequency) time.Time {
	switch f {
	case model.FrequencyDaily:
		return completed.AddDate(0, 0, 1)
	case model.FrequencyWeekly:
		return completed.AddDate(0, 0, 7)
	case model.FrequencyMonthly:
		return completed.AddDate(0, 0, 30)
	default:
		return completed.AddDate(0, 0, 7)
	}
}

func (u *CleaningUsecase) findOwned(ctx context.Context, userID int64, taskID int64) (model.CleaningTask, error) {
	if taskID <= 0 {
		return model.CleaningTask{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	t, err := u.taskRepo.FindByID(ctx, taskID)
	if err == repo.ErrNotFound {
		return model.CleaningTask{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return model.CleaningTask{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if t.UserID != userID || !t.IsActive {
		return model.CleaningTask{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	return t, nil
}

func validateCleaningInput(in CleaningTaskInput) error {
	if in.TaskName == "" {
		return NewHTTPError(http.StatusBadRequest, "task_name required")
	}
	if in.Room == "" {
		return NewHTTPError(http.StatusBadRequest, "room required")
	}
	if !model.IsValidFrequency(in.Frequency) {
		return NewHTTPError(http.StatusBadRequest, "invalid frequency")
	}
	return nil
}

func truncateToDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
