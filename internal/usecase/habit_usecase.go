package usecase

import (
	"context"
	"net/http"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

// HabitUsecase は習慣トラッカー。habit_trackerモジュールの購入が必要。
type HabitUsecase struct {
	habitRepo    repo.HabitRepository
	habitLogRepo repo.HabitLogRepository
	entitlements repo.EntitlementRepository
	now          func() time.Time
}

func NewHabitUsecase(
	habitRepo repo.HabitRepository,
	habitLogRepo repo.HabitLogRepository,
	entitlements repo.EntitlementRepository,
) *HabitUsecase {
	return &HabitUsecase{
		habitRepo:    habitRepo,
		habitLogRepo: habitLogRepo,
		entitlements: entitlements,
		now:          time.Now,
	}
}

type HabitInput struct {
	HabitName       string
	Description     string
	TargetFrequency string
	Color           string
}

type HabitOutput struct {
	ID             int64  `json:"id"`
	HabitName      string `json:"habit_name"`
	Description    string `json:"description"`
	Color          string `json:"color"`
	CompletedToday bool   `json:"completed_today"`
	Streak         int    `json:"streak"`
}

func (u *HabitUsecase) ListHabits(ctx context.Context, userID int64) ([]HabitOutput, error) {
	if userID <= 0 {
		return nil, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if err := requireModuleAccess(ctx, u.entitlements, userID, model.ModuleTypeHabitTracker); err != nil {
		return nil, err
	}

	habits, err := u.habitRepo.ListActiveByUserID(ctx, userID)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	outs := make([]HabitOutput, 0, len(habits))
	for _, h := range habits {
		out, err := u.buildHabitOutput(ctx, h)
		if err != nil {
			return nil, err
		}
		outs = append(outs, out)
	}
	return outs, nil
}

func (u *HabitUsecase) CreateHabit(ctx context.Context, userID int64, in HabitInput) (HabitOutput, error) {
	if userID <= 0 {
		return HabitOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if err := requireModuleAccess(ctx, u.entitlements, userID, model.ModuleTypeHabitTracker); err != nil {
		return HabitOutput{}, err
	}
	if in.HabitName == "" {
		return HabitOutput{}, NewHTTPError(http.StatusBadRequest, "habit_name required")
	}

	h := model.Habit{
		UserID:          userID,
		HabitName:       in.HabitName,
		Description:     in.Description,
		TargetFrequency: in.TargetFrequency,
		Color:           in.Color,
		IsActive:        true,
	}
	if h.TargetFrequency == "" {
		h.TargetFrequency = "daily"
	}
	if h.Color == "" {
		h.Color = "#6c757d"
	}

	created, err := u.habitRepo.Create(ctx, h)
	if err != nil {
		return HabitOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return HabitOutput{
		ID:          created.ID,
		HabitName:   created.HabitName,
		Description: created.Description,
		Color:       created.Color,
	}, nil
}

// ToggleToday は今日の完了記録をトグルする。
// 記録済みなら消し、無ければ作る。二重POSTはno-opに収束する。
func (u *HabitUsecase) ToggleToday(ctx context.Context, userID int64, habitID int64) (HabitOutput, error) {
	if userID <= 0 {
		return HabitOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if err := requireModuleAccess(ctx, u.entitlements, userID, model.ModuleTypeHabitTracker); err != nil {
		return HabitOutput{}, err
	}

	h, err := u.findOwned(ctx, userID, habitID)
	if err != nil {
		return HabitOutput{}, err
	}

	today := truncateToDate(u.now())
	_, found, err := u.habitLogRepo.FindByHabitAndDate(ctx, h.ID, today)
	if err != nil {
		return HabitOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if found {
		if err := u.habitLogRepo.DeleteByHabitAndDate(ctx, h.ID, today); err != nil {
			return HabitOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
	} else {
		// uniqueIndexがあるので競合しても1行のまま
		if err := u.habitLogRepo.Create(ctx, model.HabitLog{
			HabitID:   h.ID,
			Date:      today,
			Completed: true,
		}); err != nil {
			return HabitOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
	}

	return u.buildHabitOutput(ctx, h)
}

func (u *HabitUsecase) DeleteHabit(ctx context.Context, userID int64, habitID int64) error {
	if userID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if err := requireModuleAccess(ctx, u.entitlements, userID, model.ModuleTypeHabitTracker); err != nil {
		return err
	}

	if _, err := u.findOwned(ctx, userID, habitID); err != nil {
		return err
	}

	if err := u.habitRepo.DeleteByID(ctx, habitID); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

func (u *HabitUsecase) buildHabitOutput(ctx context.Context, h model.Habit) (HabitOutput, error) {
	today := truncateToDate(u.now())

	_, completedToday, err := u.habitLogRepo.FindByHabitAndDate(ctx, h.ID, today)
	if err != nil {
		return HabitOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	dates, err := u.habitLogRepo.ListCompletedDates(ctx, h.ID, 366)
	if err != nil {
		return HabitOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return HabitOutput{
		ID:             h.ID,
		HabitName:      h.HabitName,
		Description:    h.Description,
		Color:          h.Color,
		CompletedToday: completedToday,
		Streak:         CurrentStreak(today, dates),
	}, nil
}

// CurrentStreak は今日で終わる連続完了日数。
// 今日が未完了なら昨日から数える（今日の分はまだ間に合うため）。
// datesは新しい順であること。
func CurrentStreak(today time.Time, dates []time.Time) int {
	if len(dates) == 0 {
		return 0
	}

	expect := today
	latest := truncateToDate(dates[0])
	if !latest.Equal(expect) {
		expect = today.AddDate(0, 0, -1)
		if !latest.Equal(expect) {
			return 0
		}
	}

	streak := 0
	for _, d := range dates {
		if !truncateToDate(d).Equal(expect) {
			break
		}
		streak++
		expect = expect.AddDate(0, 0, -1)
	}
	return streak
}

func (u *HabitUsecase) findOwned(ctx context.Context, userID int64, habitID int64) (model.Habit, error) {
	if habitID <= 0 {
		return model.Habit{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	h, err := u.habitRepo.FindByID(ctx, habitID)
	if err == repo.ErrNotFound {
		return model.Habit{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return model.Habit{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if h.UserID != userID || !h.IsActive {
		return model.Habit{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	return h, nil
}
