package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/fitness-class-booking/internal/repository"
)

func newTestContext(t *testing.T, target string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestRepoErrorMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"session not found", repository.ErrSessionNotFound, http.StatusNotFound},
		{"workout type not found", repository.ErrWorkoutTypeNotFound, http.StatusNotFound},
		{"subscription not found", repository.ErrSubscriptionNotFound, http.StatusNotFound},
		{"own session", repository.ErrOwnSession, http.StatusConflict},
		{"session started", repository.ErrSessionStarted, http.StatusConflict},
		{"already booked", repository.ErrAlreadyBooked, http.StatusConflict},
		{"no slots", repository.ErrNoSlotsAvailable, http.StatusConflict},
		{"not a trainer", repository.ErrNotTrainer, http.StatusUnprocessableEntity},
		{"past start time", repository.ErrPastStartTime, http.StatusUnprocessableEntity},
		{"negative slots", repository.ErrNegativeSlots, http.StatusUnprocessableEntity},
		{"forbidden", repository.ErrForbidden, http.StatusForbidden},
		{"email exists", repository.ErrEmailExists, http.StatusConflict},
		{"driver error stays opaque", errors.New("connection reset"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, rec := newTestContext(t, "/")
			if err := repoError(c, tc.err); err != nil {
				t.Fatalf("repoError returned %v", err)
			}
			if rec.Code != tc.want {
				t.Errorf("status = %d, want %d", rec.Code, tc.want)
			}
		})
	}
}

func TestGetUserID(t *testing.T) {
	c, _ := newTestContext(t, "/")
	// The JWT middleware stores the raw claim, decoded by the JSON parser
	// as float64.
	c.Set("user_id", float64(7))
	if id, err := getUserID(c); err != nil || id != 7 {
		t.Errorf("getUserID = %d, %v; want 7, nil", id, err)
	}

	c2, _ := newTestContext(t, "/")
	if _, err := getUserID(c2); err == nil {
		t.Error("missing user_id did not error")
	}
}

func TestParamID(t *testing.T) {
	c, _ := newTestContext(t, "/")
	c.SetParamNames("id")
	c.SetParamValues("42")
	if id, ok := paramID(c, "id"); !ok || id != 42 {
		t.Errorf("paramID = %d, %v; want 42, true", id, ok)
	}

	for _, bad := range []string{"0", "-1", "abc", ""} {
		c, _ := newTestContext(t, "/")
		c.SetParamNames("id")
		c.SetParamValues(bad)
		if _, ok := paramID(c, "id"); ok {
			t.Errorf("paramID accepted %q", bad)
		}
	}
}

func TestQueryDate(t *testing.T) {
	c, _ := newTestContext(t, "/?date=2026-03-10")
	d, err := queryDate(c, "date")
	if err != nil || d == nil {
		t.Fatalf("queryDate: %v, %v", d, err)
	}
	if d.Year() != 2026 || d.Month() != 3 || d.Day() != 10 {
		t.Errorf("parsed date = %v", d)
	}

	c2, _ := newTestContext(t, "/")
	if d, err := queryDate(c2, "date"); err != nil || d != nil {
		t.Errorf("absent date: %v, %v; want nil, nil", d, err)
	}

	c3, _ := newTestContext(t, "/?date=10-03-2026")
	if _, err := queryDate(c3, "date"); err == nil {
		t.Error("malformed date accepted")
	}
}
