package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	_ "github.com/go-sql-driver/mysql"

	"github.com/iliyamo/fitness-class-booking/internal/model"
)

// The tests in this file run against a real MySQL instance because the
// booking engine's guarantees live in row locks and the unique key, which
// cannot be exercised in-memory. Set TEST_DB_DSN to a DSN with
// parseTime=true pointing at a throwaway database with the schema from
// db/schema.sql applied, e.g.
//
//	TEST_DB_DSN='root:secret@tcp(127.0.0.1:3306)/fitness_test?parseTime=true&loc=UTC'
func testDB(t *testing.T) *sql.DB {
	t.Helper()
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN not set; skipping database-backed test")
	}
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.Ping(); err != nil {
		t.Fatalf("ping test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

type fixture struct {
	db        *sql.DB
	trainerID uint64
	memberID  uint64
	member2ID uint64
	typeID    uint64
}

// newFixture inserts a trainer, two members and a workout type, all
// removed again (with their sessions and subscriptions) when the test
// ends.
func newFixture(t *testing.T, db *sql.DB) *fixture {
	t.Helper()
	f := &fixture{db: db}
	suffix := fmt.Sprintf("%s-%d", t.Name(), time.Now().UnixNano())
	f.trainerID = insertUser(t, db, "trainer-"+suffix+"@test.local", model.RoleTrainer)
	f.memberID = insertUser(t, db, "member1-"+suffix+"@test.local", model.RoleMember)
	f.member2ID = insertUser(t, db, "member2-"+suffix+"@test.local", model.RoleMember)

	res, err := db.Exec(`INSERT INTO workout_types (title, description, duration_minutes) VALUES (?, ?, 45)`,
		"Test Workout "+suffix, "fixture")
	if err != nil {
		t.Fatalf("insert workout type: %v", err)
	}
	id, _ := res.LastInsertId()
	f.typeID = uint64(id)

	t.Cleanup(func() {
		db.Exec(`DELETE FROM subscriptions WHERE session_id IN (SELECT id FROM sessions WHERE workout_type_id = ?)`, f.typeID)
		db.Exec(`DELETE FROM sessions WHERE workout_type_id = ?`, f.typeID)
		db.Exec(`DELETE FROM workout_types WHERE id = ?`, f.typeID)
		db.Exec(`DELETE FROM users WHERE id IN (?, ?, ?)`, f.trainerID, f.memberID, f.member2ID)
	})
	return f
}

func insertUser(t *testing.T, db *sql.DB, email, role string) uint64 {
	t.Helper()
	res, err := db.Exec(`INSERT INTO users (email, password_hash, full_name, role) VALUES (?, 'x', 'Fixture User', ?)`,
		email, role)
	if err != nil {
		t.Fatalf("insert user %s: %v", email, err)
	}
	id, _ := res.LastInsertId()
	return uint64(id)
}

// session inserts a session row directly so tests can control start time
// and slot counts without going through Create's future-start validation.
func (f *fixture) session(t *testing.T, start time.Time, total, available int) uint64 {
	t.Helper()
	res, err := f.db.Exec(
		`INSERT INTO sessions (workout_type_id, trainer_id, start_time, total_slots, available_slots) VALUES (?, ?, ?, ?, ?)`,
		f.typeID, f.trainerID, start.UTC(), total, available)
	if err != nil {
		t.Fatalf("insert session: %v", err)
	}
	id, _ := res.LastInsertId()
	return uint64(id)
}

func (f *fixture) availableSlots(t *testing.T, sessionID uint64) int {
	t.Helper()
	var n int
	if err := f.db.QueryRow(`SELECT available_slots FROM sessions WHERE id = ?`, sessionID).Scan(&n); err != nil {
		t.Fatalf("read available_slots: %v", err)
	}
	return n
}

func TestBookOutcomes(t *testing.T) {
	db := testDB(t)
	f := newFixture(t, db)
	repo := NewSubscriptionRepo(db)
	ctx := context.Background()
	future := time.Now().UTC().Add(2 * time.Hour)

	t.Run("unknown session", func(t *testing.T) {
		if _, err := repo.Book(ctx, f.memberID, 999999999); !errors.Is(err, ErrSessionNotFound) {
			t.Fatalf("got %v, want ErrSessionNotFound", err)
		}
	})

	t.Run("own session", func(t *testing.T) {
		sid := f.session(t, future, 10, 10)
		if _, err := repo.Book(ctx, f.trainerID, sid); !errors.Is(err, ErrOwnSession) {
			t.Fatalf("got %v, want ErrOwnSession", err)
		}
	})

	t.Run("already started", func(t *testing.T) {
		sid := f.session(t, time.Now().UTC().Add(-time.Hour), 10, 10)
		if _, err := repo.Book(ctx, f.memberID, sid); !errors.Is(err, ErrSessionStarted) {
			t.Fatalf("got %v, want ErrSessionStarted", err)
		}
	})

	t.Run("success then duplicate", func(t *testing.T) {
		sid := f.session(t, future, 10, 10)
		sub, err := repo.Book(ctx, f.memberID, sid)
		if err != nil {
			t.Fatalf("first booking: %v", err)
		}
		if sub.ID == 0 || sub.SessionID != sid {
			t.Fatalf("unexpected subscription %+v", sub)
		}
		if got := f.availableSlots(t, sid); got != 9 {
			t.Fatalf("available_slots = %d, want 9", got)
		}
		if _, err := repo.Book(ctx, f.memberID, sid); !errors.Is(err, ErrAlreadyBooked) {
			t.Fatalf("got %v, want ErrAlreadyBooked", err)
		}
		if got := f.availableSlots(t, sid); got != 9 {
			t.Fatalf("available_slots changed on rejected duplicate: %d", got)
		}
	})

	t.Run("full session", func(t *testing.T) {
		sid := f.session(t, future, 10, 0)
		if _, err := repo.Book(ctx, f.memberID, sid); !errors.Is(err, ErrNoSlotsAvailable) {
			t.Fatalf("got %v, want ErrNoSlotsAvailable", err)
		}
	})

	// Own-session check must win over the started check, and started must
	// win over duplicate: a trainer probing their own past session sees
	// ErrOwnSession.
	t.Run("check order", func(t *testing.T) {
		sid := f.session(t, time.Now().UTC().Add(-time.Hour), 10, 0)
		if _, err := repo.Book(ctx, f.trainerID, sid); !errors.Is(err, ErrOwnSession) {
			t.Fatalf("got %v, want ErrOwnSession", err)
		}
	})
}

// TestBookLastSlotRace fires two members at a session with one remaining
// slot. Exactly one booking must succeed and the counter must end at
// zero, never below.
func TestBookLastSlotRace(t *testing.T) {
	db := testDB(t)
	f := newFixture(t, db)
	repo := NewSubscriptionRepo(db)
	sid := f.session(t, time.Now().UTC().Add(2*time.Hour), 5, 1)

	var wg sync.WaitGroup
	results := make([]error, 2)
	for i, uid := range []uint64{f.memberID, f.member2ID} {
		wg.Add(1)
		go func(i int, uid uint64) {
			defer wg.Done()
			_, results[i] = repo.Book(context.Background(), uid, sid)
		}(i, uid)
	}
	wg.Wait()

	var ok, noSlots int
	for _, err := range results {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, ErrNoSlotsAvailable):
			noSlots++
		default:
			t.Fatalf("unexpected booking error: %v", err)
		}
	}
	if ok != 1 || noSlots != 1 {
		t.Fatalf("got %d successes and %d capacity rejections, want 1 and 1", ok, noSlots)
	}
	if got := f.availableSlots(t, sid); got != 0 {
		t.Fatalf("available_slots = %d, want 0", got)
	}
}

func TestCancelRestoresSlot(t *testing.T) {
	db := testDB(t)
	f := newFixture(t, db)
	repo := NewSubscriptionRepo(db)
	ctx := context.Background()
	sid := f.session(t, time.Now().UTC().Add(2*time.Hour), 10, 10)

	sub, err := repo.Book(ctx, f.memberID, sid)
	if err != nil {
		t.Fatalf("book: %v", err)
	}

	if err := repo.Cancel(ctx, f.member2ID, sub.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("foreign cancel: got %v, want ErrForbidden", err)
	}
	if err := repo.Cancel(ctx, f.memberID, sub.ID); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if got := f.availableSlots(t, sid); got != 10 {
		t.Fatalf("available_slots = %d, want 10", got)
	}
	if err := repo.Cancel(ctx, f.memberID, sub.ID); !errors.Is(err, ErrSubscriptionNotFound) {
		t.Fatalf("second cancel: got %v, want ErrSubscriptionNotFound", err)
	}

	// Booking again after a cancel must succeed: the unique key row is
	// gone.
	if _, err := repo.Book(ctx, f.memberID, sid); err != nil {
		t.Fatalf("rebook after cancel: %v", err)
	}
}

// A cancel after the session was shrunk below its booked count must not
// push available_slots past total_slots.
func TestCancelAfterShrinkClamps(t *testing.T) {
	db := testDB(t)
	f := newFixture(t, db)
	subs := NewSubscriptionRepo(db)
	sessions := NewSessionRepo(db)
	ctx := context.Background()
	start := time.Now().UTC().Add(2 * time.Hour)
	sid := f.session(t, start, 2, 2)

	s1, err := subs.Book(ctx, f.memberID, sid)
	if err != nil {
		t.Fatalf("book member1: %v", err)
	}
	if _, err := subs.Book(ctx, f.member2ID, sid); err != nil {
		t.Fatalf("book member2: %v", err)
	}
	// Shrink to zero: both bookings survive, available clamps to 0.
	if err := sessions.Update(ctx, sid, f.typeID, f.trainerID, start, 0); err != nil {
		t.Fatalf("resize: %v", err)
	}
	if got := f.availableSlots(t, sid); got != 0 {
		t.Fatalf("available_slots after shrink = %d, want 0", got)
	}
	if err := subs.Cancel(ctx, f.memberID, s1.ID); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if got := f.availableSlots(t, sid); got != 0 {
		t.Fatalf("available_slots after cancel = %d, want clamp at total 0", got)
	}
}

func TestResizePreservesBookedCount(t *testing.T) {
	db := testDB(t)
	f := newFixture(t, db)
	subs := NewSubscriptionRepo(db)
	sessions := NewSessionRepo(db)
	ctx := context.Background()
	start := time.Now().UTC().Add(2 * time.Hour)
	sid := f.session(t, start, 10, 10)

	for _, uid := range []uint64{f.memberID, f.member2ID} {
		if _, err := subs.Book(ctx, uid, sid); err != nil {
			t.Fatalf("book %d: %v", uid, err)
		}
	}
	// 2 booked; growing to 12 must leave 10 available, shrinking to 5
	// must leave 3.
	if err := sessions.Update(ctx, sid, f.typeID, f.trainerID, start, 12); err != nil {
		t.Fatalf("grow: %v", err)
	}
	if got := f.availableSlots(t, sid); got != 10 {
		t.Fatalf("after grow available = %d, want 10", got)
	}
	if err := sessions.Update(ctx, sid, f.typeID, f.trainerID, start, 5); err != nil {
		t.Fatalf("shrink: %v", err)
	}
	if got := f.availableSlots(t, sid); got != 3 {
		t.Fatalf("after shrink available = %d, want 3", got)
	}
}

func TestDeleteSessionCascades(t *testing.T) {
	db := testDB(t)
	f := newFixture(t, db)
	subs := NewSubscriptionRepo(db)
	sessions := NewSessionRepo(db)
	ctx := context.Background()
	sid := f.session(t, time.Now().UTC().Add(2*time.Hour), 10, 10)

	sub, err := subs.Book(ctx, f.memberID, sid)
	if err != nil {
		t.Fatalf("book: %v", err)
	}
	if err := sessions.Delete(ctx, sid); err != nil {
		t.Fatalf("delete session: %v", err)
	}
	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM subscriptions WHERE id = ?`, sub.ID).Scan(&n); err != nil {
		t.Fatalf("count subscriptions: %v", err)
	}
	if n != 0 {
		t.Fatalf("subscription survived session delete")
	}
	if err := sessions.Delete(ctx, sid); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("second delete: got %v, want ErrSessionNotFound", err)
	}
}
