package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/fitness-class-booking/internal/model"
)

// NewsRepo manages club announcements.
type NewsRepo struct{ db *sql.DB }

func NewNewsRepo(db *sql.DB) *NewsRepo { return &NewsRepo{db: db} }

// Create inserts an announcement and assigns the generated ID and publish
// date back to the struct.
func (r *NewsRepo) Create(ctx context.Context, n *model.News) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO news (title, content) VALUES (?, ?)`, n.Title, n.Content)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	n.ID = uint64(id)
	return r.db.QueryRowContext(ctx,
		`SELECT publish_date FROM news WHERE id = ?`, n.ID).Scan(&n.PublishDate)
}

// GetByID retrieves an announcement or ErrNewsNotFound.
func (r *NewsRepo) GetByID(ctx context.Context, id uint64) (*model.News, error) {
	var n model.News
	err := r.db.QueryRowContext(ctx,
		`SELECT id, title, content, publish_date FROM news WHERE id = ?`, id,
	).Scan(&n.ID, &n.Title, &n.Content, &n.PublishDate)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNewsNotFound
		}
		return nil, err
	}
	return &n, nil
}

// List returns announcements newest first. A limit of zero means all.
func (r *NewsRepo) List(ctx context.Context, limit int) ([]model.News, error) {
	q := `SELECT id, title, content, publish_date FROM news ORDER BY publish_date DESC, id DESC`
	args := []any{}
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := make([]model.News, 0)
	for rows.Next() {
		var n model.News
		if err := rows.Scan(&n.ID, &n.Title, &n.Content, &n.PublishDate); err != nil {
			return nil, err
		}
		items = append(items, n)
	}
	return items, rows.Err()
}

// Update replaces the title and content of an announcement.
func (r *NewsRepo) Update(ctx context.Context, n *model.News) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE news SET title = ?, content = ? WHERE id = ?`, n.Title, n.Content, n.ID)
	if err != nil {
		return err
	}
	if cnt, _ := res.RowsAffected(); cnt == 0 {
		var one int
		if err := r.db.QueryRowContext(ctx, `SELECT 1 FROM news WHERE id = ? LIMIT 1`, n.ID).Scan(&one); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrNewsNotFound
			}
			return err
		}
	}
	return nil
}

// Delete removes an announcement.
func (r *NewsRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM news WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNewsNotFound
	}
	return nil
}
