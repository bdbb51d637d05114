package usecase

import (
	"context"
	"net/http"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

// MealPlanUsecase は食事プランのCRUD。meal_plannerモジュールの購入が必要。
type MealPlanUsecase struct {
	mealPlanRepo repo.MealPlanRepository
	entitlements repo.EntitlementRepository
}

func NewMealPlanUsecase(mealPlanRepo repo.MealPlanRepository, entitlements repo.EntitlementRepository) *MealPlanUsecase {
	return &MealPlanUsecase{
		mealPlanRepo: mealPlanRepo,
		entitlements: entitlements,
	}
}

type MealPlanInput struct {
	Date        time.Time
	Breakfast   string
	Lunch       string
	Dinner      string
	Snacks      string
	WaterIntake int
	Notes       string
}

func (u *MealPlanUsecase) ListPlans(ctx context.Context, userID int64) ([]model.MealPlan, error) {
	if userID <= 0 {
		return nil, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if err := requireModuleAccess(ctx, u.entitlements, userID, model.ModuleTypeMealPlanner); err != nil {
		return nil, err
	}

	plans, err := u.mealPlanRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return plans, nil
}

func (u *MealPlanUsecase) GetPlan(ctx context.Context, userID int64, planID int64) (model.MealPlan, error) {
	if userID <= 0 {
		return model.MealPlan{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if err := requireModuleAccess(ctx, u.entitlements, userID, model.ModuleTypeMealPlanner); err != nil {
		return model.MealPlan{}, err
	}
	return u.findOwned(ctx, userID, planID)
}

func (u *MealPlanUsecase) CreatePlan(ctx context.Context, userID int64, in MealPlanInput) (model.MealPlan, error) {
	if userID <= 0 {
		return model.MealPlan{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if err := requireModuleAccess(ctx, u.entitlements, userID, model.ModuleTypeMealPlanner); err != nil {
		return model.MealPlan{}, err
	}
	if err := validateMealPlanInput(in); err != nil {
		return model.MealPlan{}, err
	}

	created, err := u.mealPlanRepo.Create(ctx, model.MealPlan{
		UserID:      userID,
		Date:        in.Date,
		Breakfast:   in.Breakfast,
		Lunch:       in.Lunch,
		Dinner:      in.Dinner,
		Snacks:      in.Snacks,
		WaterIntake: in.WaterIntake,
		Notes:       in.Notes,
	})
	if err != nil {
		return model.MealPlan{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return created, nil
}

func (u *MealPlanUsecase) UpdatePlan(ctx context.Context, userID int64, planID int64, in MealPlanInput) (model.MealPlan, error) {
	if userID <= 0 {
		return model.MealPlan{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if err := requireModuleAccess(ctx, u.entitlements, userID, model.ModuleTypeMealPlanner); err != nil {
		return model.MealPlan{}, err
	}
	if err := validateMealPlanInput(in); err != nil {
		return model.MealPlan{}, err
	}

	p, err := u.findOwned(ctx, userID, planID)
	if err != nil {
		return model.MealPlan{}, err
	}

	p.Date = in.Date
	p.Breakfast = in.Breakfast
	p.Lunch = in.Lunch
	p.Dinner = in.Dinner
	p.Snacks = in.Snacks
	p.WaterIntake = in.WaterIntake
	p.Notes = in.Notes

	if err := u.mealPlanRepo.Update(ctx, p); err != nil {
		return model.MealPlan{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return p, nil
}

func (u *MealPlanUsecase) DeletePlan(ctx context.Context, userID int64, planID int64) error {
	if userID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if err := requireModuleAccess(ctx, u.entitlements, userID, model.ModuleTypeMealPlanner); err != nil {
		return err
	}

	if _, err := u.findOwned(ctx, userID, planID); err != nil {
		return err
	}

	if err := u.mealPlanRepo.DeleteByID(ctx, planID); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

func (u *MealPlanUsecase) findOwned(ctx context.Context, userID int64, planID int64) (model.MealPlan, error) {
	if planID <= 0 {
		return model.MealPlan{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	p, err := u.mealPlanRepo.FindByID(ctx, planID)
	if err == repo.ErrNotFound {
		return model.MealPlan{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return model.MealPlan{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if p.UserID != userID {
		return model.MealPlan{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	return p, nil
}

func validateMealPlanInput(in MealPlanInput) error {
	if in.Date.IsZero() {
		return NewHTTPError(http.StatusBadRequest, "date required")
	}
	if in.WaterIntake < 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid water_intake")
	}
	return nil
}
