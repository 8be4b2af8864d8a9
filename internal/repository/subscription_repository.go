package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/iliyamo/fitness-class-booking/internal/model"
)

// SubscriptionRepo is the booking engine. Book and Cancel pair every
// mutation of sessions.available_slots with the matching subscription
// insert or delete inside a single transaction, so partial state (slot
// consumed without a subscription row, or the reverse) is never
// observable.
type SubscriptionRepo struct {
	db *sql.DB
}

func NewSubscriptionRepo(db *sql.DB) *SubscriptionRepo { return &SubscriptionRepo{db: db} }

// Book reserves one slot in a session for a member.
//
// The pre-checks (own session, already started, duplicate, no slots) exist
// for precise error messages; none of them is the correctness boundary.
// Two concurrent requests can both pass them, so the commit itself must be
// safe: the session row is locked with SELECT ... FOR UPDATE, the
// decrement is conditional on available_slots > 0 with its affected-row
// count checked, and the subscriptions unique key turns the loser of a
// duplicate race into ErrAlreadyBooked. With available_slots = 1 and two
// racing members, exactly one commit succeeds and the other observes
// ErrNoSlotsAvailable; the counter can never go negative.
func (r *SubscriptionRepo) Book(ctx context.Context, userID, sessionID uint64) (*model.Subscription, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	// Lock the session row. This serializes concurrent bookings on the
	// same session and excludes a concurrent resize or delete.
	var (
		trainerID uint64
		startTime time.Time
		available int
	)
	err = tx.QueryRowContext(ctx,
		`SELECT trainer_id, start_time, available_slots FROM sessions WHERE id = ? FOR UPDATE`,
		sessionID,
	).Scan(&trainerID, &startTime, &available)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	if trainerID == userID {
		return nil, ErrOwnSession
	}
	if !startTime.After(time.Now().UTC()) {
		return nil, ErrSessionStarted
	}
	var exists int
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM subscriptions WHERE user_id = ? AND session_id = ?`,
		userID, sessionID,
	).Scan(&exists)
	if err != nil {
		return nil, err
	}
	if exists > 0 {
		return nil, ErrAlreadyBooked
	}
	if available <= 0 {
		return nil, ErrNoSlotsAvailable
	}

	// Conditional decrement: the WHERE clause re-checks capacity at write
	// time, so even if the pre-check raced, the counter cannot drop below
	// zero.
	res, err := tx.ExecContext(ctx,
		`UPDATE sessions SET available_slots = available_slots - 1 WHERE id = ? AND available_slots > 0`,
		sessionID,
	)
	if err != nil {
		return nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, ErrNoSlotsAvailable
	}

	ins, err := tx.ExecContext(ctx,
		`INSERT INTO subscriptions (user_id, session_id) VALUES (?, ?)`,
		userID, sessionID,
	)
	if err != nil {
		// A duplicate key violation here means we lost a race with another
		// booking for the same (user, session) pair: report it as the
		// typed outcome, not as an infrastructure error.
		if isDuplicateKey(err) {
			return nil, ErrAlreadyBooked
		}
		return nil, err
	}
	id, err := ins.LastInsertId()
	if err != nil {
		return nil, err
	}
	sub := &model.Subscription{ID: uint64(id), UserID: userID, SessionID: sessionID}
	if err = tx.QueryRowContext(ctx,
		`SELECT created_at FROM subscriptions WHERE id = ?`, sub.ID,
	).Scan(&sub.CreatedAt); err != nil {
		return nil, err
	}
	if err = tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	return sub, nil
}

// Cancel releases a member's own booking: the subscription row is deleted
// and the owning session's slot is returned, in one transaction. There is
// no time restriction; past bookings may be cancelled too.
func (r *SubscriptionRepo) Cancel(ctx context.Context, userID, subscriptionID uint64) error {
	return r.cancel(ctx, subscriptionID, &userID)
}

// AdminCancel is Cancel without the ownership check, for privileged
// callers.
func (r *SubscriptionRepo) AdminCancel(ctx context.Context, subscriptionID uint64) error {
	return r.cancel(ctx, subscriptionID, nil)
}

func (r *SubscriptionRepo) cancel(ctx context.Context, subscriptionID uint64, enforceOwner *uint64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			_ = tx.Commit()
		}
	}()
	var ownerID, sessionID uint64
	err = tx.QueryRowContext(ctx,
		`SELECT user_id, session_id FROM subscriptions WHERE id = ? FOR UPDATE`,
		subscriptionID,
	).Scan(&ownerID, &sessionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrSubscriptionNotFound
		}
		return err
	}
	if enforceOwner != nil && ownerID != *enforceOwner {
		return ErrForbidden
	}
	// LEAST keeps available <= total even if the session was shrunk below
	// its booked count by a resize.
	if _, err = tx.ExecContext(ctx,
		`UPDATE sessions SET available_slots = LEAST(available_slots + 1, total_slots) WHERE id = ?`,
		sessionID,
	); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM subscriptions WHERE id = ?`, subscriptionID); err != nil {
		return err
	}
	return nil
}

// IsBooked reports whether the member holds a subscription for the
// session.
func (r *SubscriptionRepo) IsBooked(ctx context.Context, userID, sessionID uint64) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM subscriptions WHERE user_id = ? AND session_id = ?`,
		userID, sessionID,
	).Scan(&n)
	return n > 0, err
}

// SubscribedSessionIDs returns the IDs of every session the member has
// booked, used to flag booked entries in the schedule listing.
func (r *SubscriptionRepo) SubscribedSessionIDs(ctx context.Context, userID uint64) ([]uint64, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT session_id FROM subscriptions WHERE user_id = ?`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	ids := make([]uint64, 0)
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// ListByUser returns a member's subscriptions joined with session and
// workout details, optionally filtered by day and workout type, ordered by
// session start time ascending. The upcoming/history split happens in the
// schedule package.
func (r *SubscriptionRepo) ListByUser(ctx context.Context, userID uint64, date *time.Time, workoutTypeID uint64) ([]model.SubscriptionDetail, error) {
	q := `SELECT sub.id, sub.session_id, s.workout_type_id, wt.title, wt.duration_minutes,
                 u.full_name, s.start_time, sub.created_at
          FROM subscriptions sub
          JOIN sessions s ON s.id = sub.session_id
          JOIN workout_types wt ON wt.id = s.workout_type_id
          JOIN users u ON u.id = s.trainer_id
          WHERE sub.user_id = ?`
	args := []any{userID}
	if date != nil {
		q += ` AND DATE(s.start_time) = ?`
		args = append(args, date.UTC().Format("2006-01-02"))
	}
	if workoutTypeID != 0 {
		q += ` AND s.workout_type_id = ?`
		args = append(args, workoutTypeID)
	}
	q += ` ORDER BY s.start_time ASC`

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	details := make([]model.SubscriptionDetail, 0)
	for rows.Next() {
		var d model.SubscriptionDetail
		if err := rows.Scan(
			&d.ID, &d.SessionID, &d.WorkoutTypeID, &d.WorkoutTitle, &d.DurationMinutes,
			&d.TrainerName, &d.StartTime, &d.CreatedAt,
		); err != nil {
			return nil, err
		}
		details = append(details, d)
	}
	return details, rows.Err()
}

// NextUpcoming returns the member's earliest future booking, or
// ErrSubscriptionNotFound when there is none.
func (r *SubscriptionRepo) NextUpcoming(ctx context.Context, userID uint64) (*model.SubscriptionDetail, error) {
	const q = `SELECT sub.id, sub.session_id, s.workout_type_id, wt.title, wt.duration_minutes,
                      u.full_name, s.start_time, sub.created_at
               FROM subscriptions sub
               JOIN sessions s ON s.id = sub.session_id
               JOIN workout_types wt ON wt.id = s.workout_type_id
               JOIN users u ON u.id = s.trainer_id
               WHERE sub.user_id = ? AND s.start_time > ?
               ORDER BY s.start_time ASC
               LIMIT 1`
	var d model.SubscriptionDetail
	err := r.db.QueryRowContext(ctx, q, userID, time.Now().UTC()).Scan(
		&d.ID, &d.SessionID, &d.WorkoutTypeID, &d.WorkoutTitle, &d.DurationMinutes,
		&d.TrainerName, &d.StartTime, &d.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSubscriptionNotFound
		}
		return nil, err
	}
	return &d, nil
}

// SubscribersForTrainer lists the members booked into a session, after
// verifying that the session belongs to the requesting trainer. Returns
// ErrSessionNotFound when the session does not exist and ErrForbidden when
// it is owned by another trainer.
func (r *SubscriptionRepo) SubscribersForTrainer(ctx context.Context, sessionID, trainerID uint64) ([]model.User, error) {
	var actual uint64
	err := r.db.QueryRowContext(ctx, `SELECT trainer_id FROM sessions WHERE id = ?`, sessionID).Scan(&actual)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	if actual != trainerID {
		return nil, ErrForbidden
	}
	return r.Subscribers(ctx, sessionID)
}

// Subscribers lists the members booked into a session without an
// ownership check; admin endpoints use it directly.
func (r *SubscriptionRepo) Subscribers(ctx context.Context, sessionID uint64) ([]model.User, error) {
	var one int
	err := r.db.QueryRowContext(ctx, `SELECT 1 FROM sessions WHERE id = ? LIMIT 1`, sessionID).Scan(&one)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	const q = `SELECT u.id, u.email, u.password_hash, u.full_name, u.role, u.created_at, u.updated_at
               FROM subscriptions sub
               JOIN users u ON u.id = sub.user_id
               WHERE sub.session_id = ?
               ORDER BY sub.created_at ASC`
	rows, err := r.db.QueryContext(ctx, q, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	users := make([]model.User, 0)
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FullName, &u.Role, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// PopularityByType counts subscriptions per workout type, most popular
// first. Feeds the admin dashboard.
func (r *SubscriptionRepo) PopularityByType(ctx context.Context) ([]model.WorkoutPopularity, error) {
	const q = `SELECT wt.id, wt.title, COUNT(sub.id) AS cnt
               FROM subscriptions sub
               JOIN sessions s ON s.id = sub.session_id
               JOIN workout_types wt ON wt.id = s.workout_type_id
               GROUP BY wt.id, wt.title
               ORDER BY cnt DESC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	pop := make([]model.WorkoutPopularity, 0)
	for rows.Next() {
		var p model.WorkoutPopularity
		if err := rows.Scan(&p.WorkoutTypeID, &p.Title, &p.Subscriptions); err != nil {
			return nil, err
		}
		pop = append(pop, p)
	}
	return pop, rows.Err()
}
