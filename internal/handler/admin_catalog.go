package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/fitness-class-booking/internal/model"
)

type workoutTypeReq struct {
	Title           string `json:"title"`
	Description     string `json:"description"`
	DurationMinutes int    `json:"duration_minutes"`
}

func (r workoutTypeReq) valid() bool {
	return strings.TrimSpace(r.Title) != "" && r.DurationMinutes > 0
}

// CreateWorkoutType adds a catalog entry.
func (h *AdminHandler) CreateWorkoutType(c echo.Context) error {
	var req workoutTypeReq
	if err := c.Bind(&req); err != nil || !req.valid() {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title and positive duration_minutes required"})
	}
	wt := &model.WorkoutType{
		Title:           strings.TrimSpace(req.Title),
		Description:     strings.TrimSpace(req.Description),
		DurationMinutes: req.DurationMinutes,
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.Types.Create(ctx, wt); err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusCreated, wt)
}

// UpdateWorkoutType edits a catalog entry.
func (h *AdminHandler) UpdateWorkoutType(c echo.Context) error {
	id, ok := paramID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req workoutTypeReq
	if err := c.Bind(&req); err != nil || !req.valid() {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title and positive duration_minutes required"})
	}
	wt := &model.WorkoutType{
		ID:              id,
		Title:           strings.TrimSpace(req.Title),
		Description:     strings.TrimSpace(req.Description),
		DurationMinutes: req.DurationMinutes,
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.Types.Update(ctx, wt); err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, wt)
}

// DeleteWorkoutType removes a catalog entry together with its sessions
// and their bookings.
func (h *AdminHandler) DeleteWorkoutType(c echo.Context) error {
	id, ok := paramID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.Types.Delete(ctx, id); err != nil {
		return repoError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
