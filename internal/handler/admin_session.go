package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/fitness-class-booking/internal/model"
	"github.com/iliyamo/fitness-class-booking/internal/repository"
)

// AdminHandler serves the admin endpoints: session management, the
// workout catalog, news and booking oversight.
type AdminHandler struct {
	Sessions *repository.SessionRepo
	Types    *repository.WorkoutTypeRepo
	Subs     *repository.SubscriptionRepo
	Users    *repository.UserRepo
	News     *repository.NewsRepo
}

func NewAdminHandler(sessions *repository.SessionRepo, types *repository.WorkoutTypeRepo, subs *repository.SubscriptionRepo, users *repository.UserRepo, news *repository.NewsRepo) *AdminHandler {
	return &AdminHandler{Sessions: sessions, Types: types, Subs: subs, Users: users, News: news}
}

type sessionReq struct {
	WorkoutTypeID uint64    `json:"workout_type_id"`
	TrainerID     uint64    `json:"trainer_id"`
	StartTime     time.Time `json:"start_time"`
	TotalSlots    int       `json:"total_slots"`
}

func (r sessionReq) valid() bool {
	return r.WorkoutTypeID != 0 && r.TrainerID != 0 && !r.StartTime.IsZero()
}

// CreateSession schedules a new session. The submitted capacity becomes
// both total and available slots; the repository rejects past start times
// and non-trainer assignees.
func (h *AdminHandler) CreateSession(c echo.Context) error {
	var req sessionReq
	if err := c.Bind(&req); err != nil || !req.valid() {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "workout_type_id, trainer_id and start_time required"})
	}

	s := &model.Session{
		WorkoutTypeID: req.WorkoutTypeID,
		TrainerID:     req.TrainerID,
		StartTime:     req.StartTime.UTC(),
		TotalSlots:    req.TotalSlots,
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.Sessions.Create(ctx, s); err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusCreated, s)
}

// UpdateSession edits a session. The capacity in the body is the new
// total; booked slots are preserved and availability is recomputed, so a
// shrink below the booked count leaves the session overfull rather than
// dropping bookings.
func (h *AdminHandler) UpdateSession(c echo.Context) error {
	id, ok := paramID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req sessionReq
	if err := c.Bind(&req); err != nil || !req.valid() {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "workout_type_id, trainer_id and start_time required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.Sessions.Update(ctx, id, req.WorkoutTypeID, req.TrainerID, req.StartTime.UTC(), req.TotalSlots); err != nil {
		return repoError(c, err)
	}
	s, err := h.Sessions.GetByID(ctx, id)
	if err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, s)
}

// DeleteSession removes a session and every booking on it.
func (h *AdminHandler) DeleteSession(c echo.Context) error {
	id, ok := paramID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.Sessions.Delete(ctx, id); err != nil {
		return repoError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// SessionSubscribers lists who is booked into any session, without the
// trainer ownership restriction.
func (h *AdminHandler) SessionSubscribers(c echo.Context) error {
	id, ok := paramID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	users, err := h.Subs.Subscribers(ctx, id)
	if err != nil {
		return repoError(c, err)
	}
	out := make([]rosterEntry, len(users))
	for i, u := range users {
		out[i] = rosterEntry{ID: u.ID, FullName: u.FullName, Email: u.Email}
	}
	return c.JSON(http.StatusOK, out)
}

// CancelSubscription removes any member's booking and frees the slot.
func (h *AdminHandler) CancelSubscription(c echo.Context) error {
	id, ok := paramID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.Subs.AdminCancel(ctx, id); err != nil {
		return repoError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
