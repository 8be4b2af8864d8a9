package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/fitness-class-booking/internal/model"
)

// Dashboard aggregates the admin overview: member counts, registrations
// over the last seven days, the catalog's average workout duration and
// booking counts per workout type.
func (h *AdminHandler) Dashboard(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	total, err := h.Users.Count(ctx)
	if err != nil {
		return repoError(c, err)
	}
	recent, err := h.Users.CountCreatedSince(ctx, time.Now().UTC().AddDate(0, 0, -7))
	if err != nil {
		return repoError(c, err)
	}
	avg, err := h.Types.AverageDuration(ctx)
	if err != nil {
		return repoError(c, err)
	}
	popularity, err := h.Subs.PopularityByType(ctx)
	if err != nil {
		return repoError(c, err)
	}

	return c.JSON(http.StatusOK, model.DashboardStats{
		TotalUsers:             total,
		NewUsersLast7Days:      recent,
		AverageWorkoutDuration: avg,
		WorkoutPopularity:      popularity,
	})
}
