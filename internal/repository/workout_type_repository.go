package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/fitness-class-booking/internal/model"
)

// WorkoutTypeRepo manages the catalog of activity templates. The catalog
// itself is plain CRUD; the only delicate operation is Delete, which must
// remove dependent sessions and their subscriptions in one transaction.
type WorkoutTypeRepo struct {
	db *sql.DB
}

func NewWorkoutTypeRepo(db *sql.DB) *WorkoutTypeRepo { return &WorkoutTypeRepo{db: db} }

// Create inserts a new workout type and assigns the generated ID back to
// the struct. Duration must be at least one minute.
func (r *WorkoutTypeRepo) Create(ctx context.Context, wt *model.WorkoutType) error {
	if wt.DurationMinutes < 1 {
		return ErrInvalidDuration
	}
	const q = `INSERT INTO workout_types (title, description, duration_minutes) VALUES (?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, wt.Title, wt.Description, wt.DurationMinutes)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	wt.ID = uint64(id)
	return nil
}

// GetByID retrieves a workout type or ErrWorkoutTypeNotFound.
func (r *WorkoutTypeRepo) GetByID(ctx context.Context, id uint64) (*model.WorkoutType, error) {
	const q = `SELECT id, title, description, duration_minutes FROM workout_types WHERE id = ?`
	var wt model.WorkoutType
	err := r.db.QueryRowContext(ctx, q, id).Scan(&wt.ID, &wt.Title, &wt.Description, &wt.DurationMinutes)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrWorkoutTypeNotFound
		}
		return nil, err
	}
	return &wt, nil
}

// List returns all workout types ordered by title.
func (r *WorkoutTypeRepo) List(ctx context.Context) ([]model.WorkoutType, error) {
	const q = `SELECT id, title, description, duration_minutes FROM workout_types ORDER BY title ASC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	types := make([]model.WorkoutType, 0)
	for rows.Next() {
		var wt model.WorkoutType
		if err := rows.Scan(&wt.ID, &wt.Title, &wt.Description, &wt.DurationMinutes); err != nil {
			return nil, err
		}
		types = append(types, wt)
	}
	return types, rows.Err()
}

// Update replaces the editable fields of a workout type.
func (r *WorkoutTypeRepo) Update(ctx context.Context, wt *model.WorkoutType) error {
	const q = `UPDATE workout_types SET title = ?, description = ?, duration_minutes = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, wt.Title, wt.Description, wt.DurationMinutes, wt.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// Either missing or unchanged; distinguish with an existence check.
		var one int
		if err := r.db.QueryRowContext(ctx, `SELECT 1 FROM workout_types WHERE id = ? LIMIT 1`, wt.ID).Scan(&one); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrWorkoutTypeNotFound
			}
			return err
		}
	}
	return nil
}

// Delete removes a workout type together with every session that
// references it and every subscription on those sessions. The cleanup is
// an explicit ordered transaction (subscriptions, then sessions, then the
// type) so the cascade is visible and testable rather than delegated to
// FK cascade rules.
func (r *WorkoutTypeRepo) Delete(ctx context.Context, id uint64) error {
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
	err = tx.QueryRowContext(ctx, `SELECT 1 FROM workout_types WHERE id = ? LIMIT 1`, id).Scan(&one)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrWorkoutTypeNotFound
		}
		return err
	}
	if _, err = tx.ExecContext(ctx,
		`DELETE FROM subscriptions WHERE session_id IN (SELECT id FROM sessions WHERE workout_type_id = ?)`, id); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM sessions WHERE workout_type_id = ?`, id); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM workout_types WHERE id = ?`, id); err != nil {
		return err
	}
	return nil
}

// AverageDuration returns the mean duration over all workout types in
// minutes, 0 when the catalog is empty.
func (r *WorkoutTypeRepo) AverageDuration(ctx context.Context) (float64, error) {
	var avg sql.NullFloat64
	if err := r.db.QueryRowContext(ctx, `SELECT AVG(duration_minutes) FROM workout_types`).Scan(&avg); err != nil {
		return 0, err
	}
	if !avg.Valid {
		return 0, nil
	}
	return avg.Float64, nil
}
