package repository

import (
	"context"      // context for controlling query lifetime
	"database/sql" // sql provides DB abstraction
	"errors"

	"github.com/iliyamo/show-catalog/internal/model"
)

const showColumns = `id, title, description, category, image`

// ShowRepo manages persistence for shows.  Every method is a single
// statement, so concurrent callers only rely on per-statement atomicity.
type ShowRepo struct {
	db *sql.DB
}

// NewShowRepo constructs a ShowRepo with the given DB handle.
func NewShowRepo(db *sql.DB) *ShowRepo {
	return &ShowRepo{db: db}
}

// Create inserts a new show and assigns the generated ID back to s.
func (r *ShowRepo) Create(ctx context.Context, s *model.Show) error {
	const q = `INSERT INTO shows (title, description, category, image) VALUES (?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, s.Title, s.Description, string(s.Category), nullString(s.Image))
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = id
	return nil
}

// GetByID retrieves a show by its ID.  It returns ErrShowNotFound if
// there is no matching row.
func (r *ShowRepo) GetByID(ctx context.Context, id int64) (*model.Show, error) {
	const q = `SELECT ` + showColumns + ` FROM shows WHERE id = ?`
	s, err := scanShow(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrShowNotFound
		}
		return nil, err
	}
	return s, nil
}

// List returns every show ordered by title.  Ordering of equal titles is
// left to the store.
func (r *ShowRepo) List(ctx context.Context) ([]model.Show, error) {
	const q = `SELECT ` + showColumns + ` FROM shows ORDER BY title`
	return r.query(ctx, q)
}

// ListByCategory returns shows in the given category ordered by title.  An
// unknown category simply matches nothing.
func (r *ShowRepo) ListByCategory(ctx context.Context, category string) ([]model.Show, error) {
	const q = `SELECT ` + showColumns + ` FROM shows WHERE category = ? ORDER BY title`
	return r.query(ctx, q, category)
}

// Update overwrites title, description and category of the show with s.ID.
// A nil s.Image keeps the stored image.  ErrShowNotFound is returned when
// no row matched.
func (r *ShowRepo) Update(ctx context.Context, s *model.Show) error {
	const q = `UPDATE shows SET title = ?, description = ?, category = ?, image = COALESCE(?, image) WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, s.Title, s.Description, string(s.Category), nullString(s.Image), s.ID)
	if err != nil {
		return err
	}
	return expectAffected(res)
}

// Delete removes the show with the given id.
func (r *ShowRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM shows WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return expectAffected(res)
}

// ImageOf returns the stored image path of a show, nil when it has none.
func (r *ShowRepo) ImageOf(ctx context.Context, id int64) (*string, error) {
	var img sql.NullString
	err := r.db.QueryRowContext(ctx, `SELECT image FROM shows WHERE id = ?`, id).Scan(&img)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrShowNotFound
		}
		return nil, err
	}
	return stringPtr(img), nil
}

func (r *ShowRepo) query(ctx context.Context, q string, args ...any) ([]model.Show, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	result := make([]model.Show, 0)
	for rows.Next() {
		s, err := scanShow(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *s)
	}
	return result, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanShow(row rowScanner) (*model.Show, error) {
	var (
		s        model.Show
		category string
		img      sql.NullString
	)
	if err := row.Scan(&s.ID, &s.Title, &s.Description, &category, &img); err != nil {
		return nil, err
	}
	s.Category = model.Category(category)
	s.Image = stringPtr(img)
	return &s, nil
}

func expectAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrShowNotFound
	}
	return nil
}

func nullString(p *string) sql.NullString {
	if p == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *p, Valid: true}
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	v := ns.String
	return &v
}
