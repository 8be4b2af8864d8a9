package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/fitness-class-booking/internal/repository"
)

// TrainerHandler serves the trainer-facing endpoints: a trainer's own
// timetable and the roster of members booked into one of their sessions.
type TrainerHandler struct {
	Sessions *repository.SessionRepo
	Subs     *repository.SubscriptionRepo
}

func NewTrainerHandler(sessions *repository.SessionRepo, subs *repository.SubscriptionRepo) *TrainerHandler {
	return &TrainerHandler{Sessions: sessions, Subs: subs}
}

// MySessions lists the caller's own sessions newest first, with the same
// date and workout type filters as the public schedule.
func (h *TrainerHandler) MySessions(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	date, err := queryDate(c, "date")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date"})
	}
	typeID, err := queryID(c, "workout_type_id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid workout_type_id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()
	details, err := h.Sessions.ListByTrainer(ctx, uid, date, typeID)
	if err != nil {
		return repoError(c, err)
	}
	now := time.Now().UTC()
	return c.JSON(http.StatusOK, toEntries(details, now))
}

// rosterEntry is what a trainer sees about a booked member.
type rosterEntry struct {
	ID       uint64 `json:"id"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
}

// Subscribers lists the members booked into one of the caller's sessions.
// A session owned by another trainer yields 403.
func (h *TrainerHandler) Subscribers(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	sessionID, ok := paramID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid session id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()
	users, err := h.Subs.SubscribersForTrainer(ctx, sessionID, uid)
	if err != nil {
		return repoError(c, err)
	}
	out := make([]rosterEntry, len(users))
	for i, u := range users {
		out[i] = rosterEntry{ID: u.ID, FullName: u.FullName, Email: u.Email}
	}
	return c.JSON(http.StatusOK, out)
}
