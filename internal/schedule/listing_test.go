package schedule

import (
	"testing"
	"time"

	"github.com/iliyamo/fitness-class-booking/internal/model"
)

func detail(id uint64, start time.Time, available int) model.SessionDetail {
	return model.SessionDetail{
		ID:             id,
		WorkoutTitle:   "Yoga",
		StartTime:      start,
		TotalSlots:     10,
		AvailableSlots: available,
	}
}

func ids(sessions []model.SessionDetail) []uint64 {
	out := make([]uint64, len(sessions))
	for i, s := range sessions {
		out[i] = s.ID
	}
	return out
}

func equalIDs(a []uint64, b ...uint64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestPartitionDefaultOrder(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	sessions := []model.SessionDetail{
		detail(1, now.Add(-time.Hour), 3),   // held an hour ago
		detail(2, now.Add(2*time.Hour), 5),  // later today, open
		detail(3, now.Add(time.Hour), 0),    // sooner but full
		detail(4, now.Add(3*time.Hour), 0),  // full
		detail(5, now.Add(30*time.Minute), 2),
		detail(6, now.Add(-2*time.Hour), 0), // held earlier
	}

	l := Partition(sessions, now, true)

	// Open sessions first (soonest first), then full ones (soonest first).
	if got := ids(l.Active); !equalIDs(got, 5, 2, 3, 4) {
		t.Errorf("active order = %v, want [5 2 3 4]", got)
	}
	// Past is always most recent first.
	if got := ids(l.Past); !equalIDs(got, 1, 6) {
		t.Errorf("past order = %v, want [1 6]", got)
	}
}

func TestPartitionExplicitOrderKept(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	// Arrived sorted by title or whatever the caller asked for; a full
	// session ahead of an open one must stay put.
	sessions := []model.SessionDetail{
		detail(1, now.Add(time.Hour), 0),
		detail(2, now.Add(2*time.Hour), 5),
		detail(3, now.Add(-time.Hour), 1),
	}

	l := Partition(sessions, now, false)

	if got := ids(l.Active); !equalIDs(got, 1, 2) {
		t.Errorf("active order = %v, want [1 2]", got)
	}
	if got := ids(l.Past); !equalIDs(got, 3) {
		t.Errorf("past = %v, want [3]", got)
	}
}

func TestPartitionBoundary(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	// A session starting exactly now is already past, same as the PAST
	// status derivation.
	l := Partition([]model.SessionDetail{detail(1, now, 5)}, now, true)
	if len(l.Active) != 0 || len(l.Past) != 1 {
		t.Fatalf("session starting at now: active=%d past=%d, want 0 and 1", len(l.Active), len(l.Past))
	}
}

func TestPartitionEmpty(t *testing.T) {
	l := Partition(nil, time.Now(), true)
	if l.Active == nil || l.Past == nil {
		t.Fatal("groups must be empty slices, not nil, so they encode as [] in JSON")
	}
}

func TestSplitWorkouts(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	sub := func(id uint64, start time.Time) model.SubscriptionDetail {
		return model.SubscriptionDetail{ID: id, StartTime: start}
	}
	subs := []model.SubscriptionDetail{
		sub(1, now.Add(48 * time.Hour)),
		sub(2, now.Add(-24 * time.Hour)),
		sub(3, now.Add(time.Hour)),
		sub(4, now.Add(-time.Hour)),
	}

	w := SplitWorkouts(subs, now)

	got := make([]uint64, 0)
	for _, s := range w.Upcoming {
		got = append(got, s.ID)
	}
	if !equalIDs(got, 3, 1) {
		t.Errorf("upcoming = %v, want [3 1]", got)
	}
	got = got[:0]
	for _, s := range w.History {
		got = append(got, s.ID)
	}
	if !equalIDs(got, 4, 2) {
		t.Errorf("history = %v, want [4 2]", got)
	}
}
