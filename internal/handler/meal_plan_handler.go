package handler

import (
	"net/http"
	"strconv"

	"app/internal/config"
	"app/internal/middleware"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /meal-plansのHTTP。meal_plannerモジュール購入者のみ。
type MealPlanHandler struct {
	uc *usecase.MealPlanUsecase
}

// DI
func NewMealPlanHandler(uc *usecase.MealPlanUsecase) *MealPlanHandler {
	return &MealPlanHandler{uc: uc}
}

type MealPlanRequest struct {
	Date        string `json:"date"`
	Breakfast   string `json:"breakfast"`
	Lunch       string `json:"lunch"`
	Dinner      string `json:"dinner"`
	Snacks      string `json:"snacks"`
	WaterIntake int    `json:"water_intake"`
	Notes       string `json:"notes"`
}

func (h *MealPlanHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("/meal-plans")
	g.Use(middleware.AuthJWT(cfg))

	g.GET("", h.list)
	g.POST("", h.create)
	g.GET("/:id", h.detail)
	g.PUT("/:id", h.update)
	g.DELETE("/:id", h.delete)
}

func (h *MealPlanHandler) list(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	out, err := h.uc.ListPlans(c.Request().Context(), userID)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *MealPlanHandler) detail(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	out, err := h.uc.GetPlan(c.Request().Context(), userID, id)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *MealPlanHandler) create(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req MealPlanRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	date, err := parseDateParam(req.Date)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid date"})
	}

	out, err := h.uc.CreatePlan(c.Request().Context(), userID, usecase.MealPlanInput{
		Date:        date,
		Breakfast:   req.Breakfast,
		Lunch:       req.Lunch,
		Dinner:      req.Dinner,
		Snacks:      req.Snacks,
		WaterIntake: req.WaterIntake,
		Notes:       req.Notes,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, out)
}

func (h *MealPlanHandler) update(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var req MealPlanRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	date, err := parseDateParam(req.Date)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid date"})
	}

	out, err := h.uc.UpdatePlan(c.Request().Context(), userID, id, usecase.MealPlanInput{
		Date:        date,
		Breakfast:   req.Breakfast,
		Lunch:       req.Lunch,
		Dinner:      req.Dinner,
		Snacks:      req.Snacks,
		WaterIntake: req.WaterIntake,
		Notes:       req.Notes,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *MealPlanHandler) delete(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	if err := h.uc.DeletePlan(c.Request().Context(), userID, id); err != nil {
		return writeError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}
