package handler

import (
	"net/http"
	"strconv"

	"app/internal/config"
	"app/internal/domain/model"
	"app/internal/middleware"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /cleaning-tasksのHTTP。cleaning_scheduleモジュール購入者のみ。
type CleaningHandler struct {
	uc *usecase.CleaningUsecase
}

// DI
func NewCleaningHandler(uc *usecase.CleaningUsecase) *CleaningHandler {
	return &CleaningHandler{uc: uc}
}

type CleaningTaskRequest struct {
	TaskName  string `json:"task_name"`
	Room      string `json:"room"`
	Frequency string `json:"frequency"`
	NextDue   string `json:"next_due"`
	Notes     string `json:"notes"`
}

func (h *CleaningHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("/cleaning-tasks")
	g.Use(middleware.AuthJWT(cfg))

	g.GET("", h.list)
	g.POST("", h.create)
	g.PUT("/:id", h.update)
	g.POST("/:id/complete", h.complete)
	g.DELETE("/:id", h.delete)
}

func (h *CleaningHandler) list(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	out, err := h.uc.ListTasks(c.Request().Context(), userID)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *CleaningHandler) create(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req CleaningTaskRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	nextDue, err := parseDateParam(req.NextDue)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid next_due"})
	}

	out, err := h.uc.CreateTask(c.Request().Context(), userID, usecase.CleaningTaskInput{
		TaskName:  req.TaskName,
		Room:      req.Room,
		Frequency: model.CleaningFrequency(req.Frequency),
		NextDue:   nextDue,
		Notes:     req.Notes,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, out)
}

func (h *CleaningHandler) update(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var req CleaningTaskRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	nextDue, err := parseDateParam(req.NextDue)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid next_due"})
	}

	out, err := h.uc.UpdateTask(c.Request().Context(), userID, id, usecase.CleaningTaskInput{
		TaskName:  req.TaskName,
		Room:      req.Room,
		Frequency: model.CleaningFrequency(req.Frequency),
		NextDue:   nextDue,
		Notes:     req.Notes,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

// 完了記録。next_dueが頻度ぶん進む。
func (h *CleaningHandler) complete(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	out, err := h.uc.CompleteTask(c.Request().Context(), userID, id)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *CleaningHandler) delete(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	if err := h.uc.DeleteTask(c.Request().Context(), userID, id); err != nil {
		return writeError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}
