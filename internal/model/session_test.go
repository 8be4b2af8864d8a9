package model

import (
	"testing"
	"time"
)

func TestSessionStatus(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		session Session
		want    SessionStatus
	}{
		{
			name:    "future session with free slots is open",
			session: Session{StartTime: now.Add(2 * time.Hour), TotalSlots: 10, AvailableSlots: 3},
			want:    SessionOpen,
		},
		{
			name:    "future session with no slots is full",
			session: Session{StartTime: now.Add(time.Hour), TotalSlots: 10, AvailableSlots: 0},
			want:    SessionFull,
		},
		{
			name:    "started session is past even with free slots",
			session: Session{StartTime: now.Add(-time.Minute), TotalSlots: 10, AvailableSlots: 10},
			want:    SessionPast,
		},
		{
			name:    "session starting exactly now is past",
			session: Session{StartTime: now, TotalSlots: 5, AvailableSlots: 5},
			want:    SessionPast,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.session.Status(now); got != tt.want {
				t.Errorf("Status() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSessionBookedSlots(t *testing.T) {
	s := Session{TotalSlots: 10, AvailableSlots: 7}
	if got := s.BookedSlots(); got != 3 {
		t.Errorf("BookedSlots() = %d, want 3", got)
	}
	s = Session{TotalSlots: 5, AvailableSlots: 5}
	if got := s.BookedSlots(); got != 0 {
		t.Errorf("BookedSlots() = %d, want 0", got)
	}
}

func TestUserIsTrainer(t *testing.T) {
	if (&User{Role: RoleMember}).IsTrainer() {
		t.Error("member must not count as trainer")
	}
	if !(&User{Role: RoleTrainer}).IsTrainer() {
		t.Error("trainer role not recognized")
	}
	if (&User{Role: RoleAdmin}).IsTrainer() {
		t.Error("admin must not count as trainer")
	}
}
