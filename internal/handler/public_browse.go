package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/fitness-class-booking/internal/model"
	"github.com/iliyamo/fitness-class-booking/internal/repository"
	"github.com/iliyamo/fitness-class-booking/internal/schedule"
)

// PublicHandler serves the unauthenticated browse endpoints: the class
// schedule, the workout catalog, the trainer directory and the news feed.
type PublicHandler struct {
	Sessions *repository.SessionRepo
	Types    *repository.WorkoutTypeRepo
	Users    *repository.UserRepo
	News     *repository.NewsRepo
}

func NewPublicHandler(s *repository.SessionRepo, t *repository.WorkoutTypeRepo, u *repository.UserRepo, n *repository.NewsRepo) *PublicHandler {
	return &PublicHandler{Sessions: s, Types: t, Users: u, News: n}
}

// scheduleEntry is a listed session plus its derived status.
type scheduleEntry struct {
	model.SessionDetail
	Status model.SessionStatus `json:"status"`
}

type scheduleResp struct {
	Active []scheduleEntry `json:"active"`
	Past   []scheduleEntry `json:"past"`
}

func toEntries(details []model.SessionDetail, now time.Time) []scheduleEntry {
	out := make([]scheduleEntry, len(details))
	for i, d := range details {
		s := model.Session{StartTime: d.StartTime, TotalSlots: d.TotalSlots, AvailableSlots: d.AvailableSlots}
		out[i] = scheduleEntry{SessionDetail: d, Status: s.Status(now)}
	}
	return out
}

// Schedule lists all sessions split into active (not yet started) and past
// groups. Supported query parameters: q (keyword over workout title and
// trainer name), date (YYYY-MM-DD), workout_type_id, sort and order
// (asc|desc). Under the default start-time ordering, active sessions with
// free slots are listed before full ones.
func (h *PublicHandler) Schedule(c echo.Context) error {
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

	now := time.Now().UTC()
	l := schedule.Partition(details, now, filter.IsDefaultSort())
	return c.JSON(http.StatusOK, scheduleResp{
		Active: toEntries(l.Active, now),
		Past:   toEntries(l.Past, now),
	})
}

func scheduleFilter(c echo.Context) (repository.SessionFilter, error) {
	date, err := queryDate(c, "date")
	if err != nil {
		return repository.SessionFilter{}, err
	}
	typeID, err := queryID(c, "workout_type_id")
	if err != nil {
		return repository.SessionFilter{}, err
	}
	return repository.SessionFilter{
		Keyword:       c.QueryParam("q"),
		Date:          date,
		WorkoutTypeID: typeID,
		SortField:     c.QueryParam("sort"),
		SortDesc:      strings.EqualFold(c.QueryParam("order"), "desc"),
	}, nil
}

// Session returns one session with joined details and derived status.
func (h *PublicHandler) Session(c echo.Context) error {
	id, ok := paramID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	d, err := h.Sessions.GetDetail(ctx, id)
	if err != nil {
		return repoError(c, err)
	}
	now := time.Now().UTC()
	return c.JSON(http.StatusOK, toEntries([]model.SessionDetail{*d}, now)[0])
}

// WorkoutTypes lists the catalog.
func (h *PublicHandler) WorkoutTypes(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()
	types, err := h.Types.List(ctx)
	if err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, types)
}

// WorkoutType returns one catalog entry.
func (h *PublicHandler) WorkoutType(c echo.Context) error {
	id, ok := paramID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	wt, err := h.Types.GetByID(ctx, id)
	if err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, wt)
}

// trainerPart strips credentials from a trainer row.
type trainerPart struct {
	ID       uint64 `json:"id"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
}

// Trainers lists all users with the TRAINER role.
func (h *PublicHandler) Trainers(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()
	users, err := h.Users.ListTrainers(ctx)
	if err != nil {
		return repoError(c, err)
	}
	out := make([]trainerPart, len(users))
	for i, u := range users {
		out[i] = trainerPart{ID: u.ID, FullName: u.FullName, Email: u.Email}
	}
	return c.JSON(http.StatusOK, out)
}

// NewsList returns announcements newest first; ?limit=n caps the count.
func (h *PublicHandler) NewsList(c echo.Context) error {
	limit, err := queryID(c, "limit")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid limit"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	items, err := h.News.List(ctx, int(limit))
	if err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, items)
}

// NewsItem returns one announcement.
func (h *PublicHandler) NewsItem(c echo.Context) error {
	id, ok := paramID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	n, err := h.News.GetByID(ctx, id)
	if err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, n)
}
