// Package schedule holds the presentation rules for the class timetable:
// how a flat session list is split into upcoming and past groups and how
// each group is ordered. The rules are pure functions over already-loaded
// rows so they can be tested without a database.
package schedule

import (
	"sort"
	"time"

	"github.com/iliyamo/fitness-class-booking/internal/model"
)

// Listing is the schedule as shown to visitors: sessions that have not
// started yet, followed by those already held.
type Listing struct {
	Active []model.SessionDetail `json:"active"`
	Past   []model.SessionDetail `json:"past"`
}

// Partition splits sessions by start time relative to now. A session
// starting exactly at now counts as past, matching the PAST status rule.
//
// The past group is always ordered most recent first. The active group
// keeps the order it arrived in unless defaultOrder is set, in which case
// sessions with free slots are ranked before full ones and each rank is
// ordered by start time ascending. Callers pass defaultOrder only for the
// start-time-ascending sort; an explicit sort choice is respected as-is.
func Partition(sessions []model.SessionDetail, now time.Time, defaultOrder bool) Listing {
	l := Listing{
		Active: make([]model.SessionDetail, 0, len(sessions)),
		Past:   make([]model.SessionDetail, 0),
	}
	for _, s := range sessions {
		if s.StartTime.After(now) {
			l.Active = append(l.Active, s)
		} else {
			l.Past = append(l.Past, s)
		}
	}
	if defaultOrder {
		sort.SliceStable(l.Active, func(i, j int) bool {
			oi, oj := l.Active[i].AvailableSlots > 0, l.Active[j].AvailableSlots > 0
			if oi != oj {
				return oi
			}
			return l.Active[i].StartTime.Before(l.Active[j].StartTime)
		})
	}
	sort.SliceStable(l.Past, func(i, j int) bool {
		return l.Past[i].StartTime.After(l.Past[j].StartTime)
	})
	return l
}

// Workouts is a member's bookings split the same way the schedule is.
type Workouts struct {
	Upcoming []model.SubscriptionDetail `json:"upcoming"`
	History  []model.SubscriptionDetail `json:"history"`
}

// SplitWorkouts partitions a member's subscriptions into upcoming and
// already-held, upcoming soonest first and history most recent first.
func SplitWorkouts(subs []model.SubscriptionDetail, now time.Time) Workouts {
	w := Workouts{
		Upcoming: make([]model.SubscriptionDetail, 0, len(subs)),
		History:  make([]model.SubscriptionDetail, 0),
	}
	for _, s := range subs {
		if s.StartTime.After(now) {
			w.Upcoming = append(w.Upcoming, s)
		} else {
			w.History = append(w.History, s)
		}
	}
	sort.SliceStable(w.Upcoming, func(i, j int) bool {
		return w.Upcoming[i].StartTime.Before(w.Upcoming[j].StartTime)
	})
	sort.SliceStable(w.History, func(i, j int) bool {
		return w.History[i].StartTime.After(w.History[j].StartTime)
	})
	return w
}

// MarkBooked returns the set of session IDs a member has booked, for
// flagging schedule entries.
func MarkBooked(ids []uint64) map[uint64]bool {
	m := make(map[uint64]bool, len(ids))
	for _, id := range ids {
		m[id] = true
	}
	return m
}
