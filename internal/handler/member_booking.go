package handler

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/fitness-class-booking/internal/queue"
	"github.com/iliyamo/fitness-class-booking/internal/repository"
	"github.com/iliyamo/fitness-class-booking/internal/schedule"
	queue_publisher "github.com/iliyamo/fitness-class-booking/internal/service"
)

// MemberHandler serves the member-facing booking endpoints.
type MemberHandler struct {
	Subs     *repository.SubscriptionRepo
	Sessions *repository.SessionRepo
	Users    *repository.UserRepo
}

func NewMemberHandler(subs *repository.SubscriptionRepo, sessions *repository.SessionRepo, users *repository.UserRepo) *MemberHandler {
	return &MemberHandler{Subs: subs, Sessions: sessions, Users: users}
}

// Book reserves a slot in a session for the caller. The repository
// returns one typed outcome per rejection reason; repoError maps each to
// its status code. After a successful commit a confirmation event is
// published in the background; the booking stands even if the broker is
// down.
func (h *MemberHandler) Book(c echo.Context) error {
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
	sub, err := h.Subs.Book(ctx, uid, sessionID)
	if err != nil {
		return repoError(c, err)
	}

	go h.publishConfirmed(sub.ID, uid, sessionID)
	return c.JSON(http.StatusCreated, sub)
}

func (h *MemberHandler) publishConfirmed(subID, userID, sessionID uint64) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	ev := queue.BookingConfirmedEvent{
		SubscriptionID: subID,
		UserID:         userID,
		SessionID:      sessionID,
		ConfirmedAt:    time.Now().UTC().Format(time.RFC3339),
	}
	if u, err := h.Users.GetByID(ctx, userID); err == nil {
		ev.UserEmail = u.Email
	}
	if d, err := h.Sessions.GetDetail(ctx, sessionID); err == nil {
		ev.WorkoutTitle = d.WorkoutTitle
		ev.TrainerName = d.TrainerName
		ev.StartsAt = d.StartTime.UTC().Format(time.RFC3339)
	}
	if err := queue_publisher.PublishBookingConfirmed(ctx, ev); err != nil {
		log.Printf("booking: publish confirmation for subscription %d failed: %v", subID, err)
	}
}

// bookedEntry is a schedule entry plus whether the caller has booked it.
type bookedEntry struct {
	scheduleEntry
	Booked bool `json:"booked"`
}

type bookedScheduleResp struct {
	Active []bookedEntry `json:"active"`
	Past   []bookedEntry `json:"past"`
}

func markEntries(entries []scheduleEntry, booked map[uint64]bool) []bookedEntry {
	out := make([]bookedEntry, len(entries))
	for i, e := range entries {
		out[i] = bookedEntry{scheduleEntry: e, Booked: booked[e.ID]}
	}
	return out
}

// Schedule is the member's view of the timetable: the public listing with
// each entry flagged when the caller already holds a booking for it. Same
// filters as the public schedule endpoint.
func (h *MemberHandler) Schedule(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	filter, err := scheduleFilter(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid filter"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()
	details, err := h.Sessions.Search(ctx, filter)
	if err != nil {
		return repoError(c, err)
	}
	ids, err := h.Subs.SubscribedSessionIDs(ctx, uid)
	if err != nil {
		return repoError(c, err)
	}

	now := time.Now().UTC()
	l := schedule.Partition(details, now, filter.IsDefaultSort())
	booked := schedule.MarkBooked(ids)
	return c.JSON(http.StatusOK, bookedScheduleResp{
		Active: markEntries(toEntries(l.Active, now), booked),
		Past:   markEntries(toEntries(l.Past, now), booked),
	})
}

// Cancel releases the caller's own booking and frees the slot. A booking
// on an already-held session may still be cancelled.
func (h *MemberHandler) Cancel(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	subID, ok := paramID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid subscription id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.Subs.Cancel(ctx, uid, subID); err != nil {
		return repoError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// MyWorkouts lists the caller's bookings split into upcoming and history.
// Optional filters: date (YYYY-MM-DD) and workout_type_id.
func (h *MemberHandler) MyWorkouts(c echo.Context) error {
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
	subs, err := h.Subs.ListByUser(ctx, uid, date, typeID)
	if err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, schedule.SplitWorkouts(subs, time.Now().UTC()))
}

// NextWorkout returns the caller's earliest future booking, or 404 when
// nothing is scheduled.
func (h *MemberHandler) NextWorkout(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	d, err := h.Subs.NextUpcoming(ctx, uid)
	if err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, d)
}

// IsBooked reports whether the caller already holds a booking for the
// session, so the UI can render the button state without attempting a
// booking.
func (h *MemberHandler) IsBooked(c echo.Context) error {
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
	booked, err := h.Subs.IsBooked(ctx, uid, sessionID)
	if err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"booked": booked})
}
