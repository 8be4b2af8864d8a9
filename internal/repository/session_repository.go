package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/iliyamo/fitness-class-booking/internal/model"
)

// SessionRepo owns the session lifecycle: create, update (capacity
// resize), delete with cascading subscription cleanup, and the filtered
// schedule search. The available_slots counter itself is mutated here only
// by the resize recomputation; bookings go through SubscriptionRepo.
type SessionRepo struct {
	db *sql.DB
}

func NewSessionRepo(db *sql.DB) *SessionRepo { return &SessionRepo{db: db} }

// DB exposes the underlying sql.DB so callers can begin transactions
// spanning multiple repositories.
func (r *SessionRepo) DB() *sql.DB { return r.db }

// recomputeAvailable derives the new available_slots after a capacity
// change. Booked slots are preserved: the caller's input is the new TOTAL,
// never the new available count, otherwise already-booked slots would be
// silently destroyed.
func recomputeAvailable(newTotal, booked int) int {
	avail := newTotal - booked
	if avail < 0 {
		return 0
	}
	return avail
}

// validateAssignment checks inside the given transaction that the workout
// type exists and that the assigned user exists and holds the TRAINER
// role.
func validateAssignment(ctx context.Context, tx *sql.Tx, workoutTypeID, trainerID uint64) error {
	var one int
	if err := tx.QueryRowContext(ctx, `SELECT 1 FROM workout_types WHERE id = ? LIMIT 1`, workoutTypeID).Scan(&one); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrWorkoutTypeNotFound
		}
		return err
	}
	var role string
	if err := tx.QueryRowContext(ctx, `SELECT role FROM users WHERE id = ? LIMIT 1`, trainerID).Scan(&role); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrUserNotFound
		}
		return err
	}
	if role != model.RoleTrainer {
		return ErrNotTrainer
	}
	return nil
}

// Create schedules a new session with available_slots equal to
// total_slots. The start time must be strictly in the future and the
// capacity non-negative; the referenced workout type and trainer are
// validated in the same transaction as the insert.
func (r *SessionRepo) Create(ctx context.Context, s *model.Session) error {
	if s.TotalSlots < 0 {
		return ErrNegativeSlots
	}
	if !s.StartTime.After(time.Now().UTC()) {
		return ErrPastStartTime
	}
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
	if err = validateAssignment(ctx, tx, s.WorkoutTypeID, s.TrainerID); err != nil {
		return err
	}
	s.AvailableSlots = s.TotalSlots
	const q = `INSERT INTO sessions (workout_type_id, trainer_id, start_time, total_slots, available_slots)
               VALUES (?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, q, s.WorkoutTypeID, s.TrainerID, s.StartTime.UTC(), s.TotalSlots, s.AvailableSlots)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)
	// Read the row back to populate the DB-default timestamps.
	const sel = `SELECT created_at, updated_at FROM sessions WHERE id = ?`
	err = tx.QueryRowContext(ctx, sel, s.ID).Scan(&s.CreatedAt, &s.UpdatedAt)
	return err
}

// GetByID retrieves a session or ErrSessionNotFound.
func (r *SessionRepo) GetByID(ctx context.Context, id uint64) (*model.Session, error) {
	const q = `SELECT id, workout_type_id, trainer_id, start_time, total_slots, available_slots, created_at, updated_at
               FROM sessions WHERE id = ?`
	var s model.Session
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&s.ID, &s.WorkoutTypeID, &s.TrainerID, &s.StartTime, &s.TotalSlots, &s.AvailableSlots, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return &s, nil
}

// Update replaces a session's workout type, trainer and start time and
// resizes its capacity. The submitted capacity is the new TOTAL; the
// number of booked slots (total - available) is preserved and available
// is recomputed as max(0, newTotal - booked). The session row is locked
// for the duration so a concurrent booking cannot interleave with the
// recomputation.
func (r *SessionRepo) Update(ctx context.Context, sessionID, workoutTypeID, trainerID uint64, startTime time.Time, newTotal int) error {
	if newTotal < 0 {
		return ErrNegativeSlots
	}
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
	var total, available int
	err = tx.QueryRowContext(ctx,
		`SELECT total_slots, available_slots FROM sessions WHERE id = ? FOR UPDATE`, sessionID,
	).Scan(&total, &available)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrSessionNotFound
		}
		return err
	}
	if err = validateAssignment(ctx, tx, workoutTypeID, trainerID); err != nil {
		return err
	}
	booked := total - available
	newAvailable := recomputeAvailable(newTotal, booked)
	const q = `UPDATE sessions
               SET workout_type_id = ?, trainer_id = ?, start_time = ?, total_slots = ?, available_slots = ?, updated_at = CURRENT_TIMESTAMP
               WHERE id = ?`
	_, err = tx.ExecContext(ctx, q, workoutTypeID, trainerID, startTime.UTC(), newTotal, newAvailable, sessionID)
	return err
}

// Delete removes a session and all of its subscriptions in one
// transaction, subscriptions first. The row lock makes the delete
// serialize with any in-flight booking: the booking either commits before
// the cascade or fails with ErrSessionNotFound, never leaving an orphaned
// subscription.
func (r *SessionRepo) Delete(ctx context.Context, id uint64) error {
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
	var one int
	err = tx.QueryRowContext(ctx, `SELECT 1 FROM sessions WHERE id = ? FOR UPDATE`, id).Scan(&one)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrSessionNotFound
		}
		return err
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM subscriptions WHERE session_id = ?`, id); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id); err != nil {
		return err
	}
	return nil
}

// GetDetail retrieves a session joined with its workout type and trainer,
// as needed for detail pages and event payloads.
func (r *SessionRepo) GetDetail(ctx context.Context, id uint64) (*model.SessionDetail, error) {
	const q = `SELECT s.id, s.workout_type_id, wt.title, wt.duration_minutes,
                      s.trainer_id, u.full_name, s.start_time, s.total_slots, s.available_slots
               FROM sessions s
               JOIN workout_types wt ON wt.id = s.workout_type_id
               JOIN users u ON u.id = s.trainer_id
               WHERE s.id = ?`
	var d model.SessionDetail
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&d.ID, &d.WorkoutTypeID, &d.WorkoutTitle, &d.DurationMinutes,
		&d.TrainerID, &d.TrainerName, &d.StartTime, &d.TotalSlots, &d.AvailableSlots)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return &d, nil
}

// SessionFilter describes the schedule search parameters. Keyword matches
// the workout title or trainer name case-insensitively; Date restricts to
// a calendar day; WorkoutTypeID of zero means "any type".
type SessionFilter struct {
	Keyword       string
	Date          *time.Time
	WorkoutTypeID uint64
	SortField     string
	SortDesc      bool
}

// sortColumns whitelists the sortable fields. Anything not listed falls
// back to the start time so the ORDER BY clause is never built from raw
// client input.
var sortColumns = map[string]string{
	"startTime":      "s.start_time",
	"start_time":     "s.start_time",
	"availableSlots": "s.available_slots",
	"title":          "wt.title",
	"trainer":        "u.full_name",
	"duration":       "wt.duration_minutes",
}

// IsDefaultSort reports whether the filter sorts by start time ascending,
// which is the only ordering the listing layer augments with its
// open-slots-first rule.
func (f SessionFilter) IsDefaultSort() bool {
	if f.SortDesc {
		return false
	}
	col, ok := sortColumns[f.SortField]
	return f.SortField == "" || (ok && col == "s.start_time")
}

// Search returns sessions joined with their workout type and trainer,
// filtered and sorted per the given filter. Partitioning into upcoming and
// past groups is left to the schedule package; this query only guarantees
// the requested base ordering.
func (r *SessionRepo) Search(ctx context.Context, f SessionFilter) ([]model.SessionDetail, error) {
	q := `SELECT s.id, s.workout_type_id, wt.title, wt.duration_minutes,
                 s.trainer_id, u.full_name, s.start_time, s.total_slots, s.available_slots
          FROM sessions s
          JOIN workout_types wt ON wt.id = s.workout_type_id
          JOIN users u ON u.id = s.trainer_id`
	where := []string{}
	args := []any{}
	if kw := strings.TrimSpace(f.Keyword); kw != "" {
		where = append(where, `(LOWER(wt.title) LIKE ? OR LOWER(u.full_name) LIKE ?)`)
		like := "%" + strings.ToLower(kw) + "%"
		args = append(args, like, like)
	}
	if f.Date != nil {
		where = append(where, `DATE(s.start_time) = ?`)
		args = append(args, f.Date.UTC().Format("2006-01-02"))
	}
	if f.WorkoutTypeID != 0 {
		where = append(where, `s.workout_type_id = ?`)
		args = append(args, f.WorkoutTypeID)
	}
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	col, ok := sortColumns[f.SortField]
	if !ok {
		col = "s.start_time"
	}
	dir := "ASC"
	if f.SortDesc {
		dir = "DESC"
	}
	q += " ORDER BY " + col + " " + dir

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSessionDetails(rows)
}

// ListByTrainer returns a trainer's own sessions, optionally restricted to
// a day and a workout type, newest first.
func (r *SessionRepo) ListByTrainer(ctx context.Context, trainerID uint64, date *time.Time, workoutTypeID uint64) ([]model.SessionDetail, error) {
	q := `SELECT s.id, s.workout_type_id, wt.title, wt.duration_minutes,
                 s.trainer_id, u.full_name, s.start_time, s.total_slots, s.available_slots
          FROM sessions s
          JOIN workout_types wt ON wt.id = s.workout_type_id
          JOIN users u ON u.id = s.trainer_id
          WHERE s.trainer_id = ?`
	args := []any{trainerID}
	if date != nil {
		q += ` AND DATE(s.start_time) = ?`
		args = append(args, date.UTC().Format("2006-01-02"))
	}
	if workoutTypeID != 0 {
		q += ` AND s.workout_type_id = ?`
		args = append(args, workoutTypeID)
	}
	q += ` ORDER BY s.start_time DESC`

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSessionDetails(rows)
}

func scanSessionDetails(rows *sql.Rows) ([]model.SessionDetail, error) {
	details := make([]model.SessionDetail, 0)
	for rows.Next() {
		var d model.SessionDetail
		if err := rows.Scan(
			&d.ID, &d.WorkoutTypeID, &d.WorkoutTitle, &d.DurationMinutes,
			&d.TrainerID, &d.TrainerName, &d.StartTime, &d.TotalSlots, &d.AvailableSlots,
		); err != nil {
			return nil, err
		}
		details = append(details, d)
	}
	return details, rows.Err()
}
