package repository

import "testing"

func TestRecomputeAvailable(t *testing.T) {
	cases := []struct {
		name     string
		newTotal int
		booked   int
		want     int
	}{
		{"grow keeps booked", 20, 7, 13},
		{"shrink above booked", 8, 7, 1},
		{"shrink with three booked", 5, 3, 2},
		{"shrink to booked", 7, 7, 0},
		{"shrink below booked clamps to zero", 5, 7, 0},
		{"no bookings", 10, 0, 10},
		{"zero capacity", 0, 0, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := recomputeAvailable(tc.newTotal, tc.booked); got != tc.want {
				t.Errorf("recomputeAvailable(%d, %d) = %d, want %d", tc.newTotal, tc.booked, got, tc.want)
			}
		})
	}
}

func TestSessionFilterIsDefaultSort(t *testing.T) {
	cases := []struct {
		name   string
		filter SessionFilter
		want   bool
	}{
		{"empty", SessionFilter{}, true},
		{"explicit startTime asc", SessionFilter{SortField: "startTime"}, true},
		{"snake case alias", SessionFilter{SortField: "start_time"}, true},
		{"startTime desc", SessionFilter{SortField: "startTime", SortDesc: true}, false},
		{"by title", SessionFilter{SortField: "title"}, false},
		{"by available slots", SessionFilter{SortField: "availableSlots"}, false},
		{"unknown field falls back but is not default", SessionFilter{SortField: "bogus"}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.filter.IsDefaultSort(); got != tc.want {
				t.Errorf("IsDefaultSort() = %v, want %v", got, tc.want)
			}
		})
	}
}
