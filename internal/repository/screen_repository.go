package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// Screen is an auditorium inside a theatre. The seating grid is NumRows by
// NumCols; their product is the seat capacity that bounds showtime bookings.
type Screen struct {
	ID           string
	TheatreID    string
	ScreenNumber int
	NumRows      int
	NumCols      int
	CreatedAt    time.Time
	UpdatedAt    time.Time
	IsDeleted    bool
	DeletedAt    sql.NullTime
	CreatedBy    sql.NullString
}

// Capacity returns the total seat count of the screen's grid.
func (s *Screen) Capacity() int {
	return s.NumRows * s.NumCols
}

// ScreenFilter narrows List results. Zero values mean no filtering.
type ScreenFilter struct {
	TheatreID    string // equality on owning theatre
	ScreenNumber *int   // equality on screen number
}

// ScreenRepo encapsulates all database queries related to screens.
type ScreenRepo struct {
	db *sql.DB
}

// NewScreenRepo constructs a ScreenRepo with the provided DB handle.
func NewScreenRepo(db *sql.DB) *ScreenRepo {
	return &ScreenRepo{db: db}
}

const screenCols = "id, theatre_id, screen_number, num_rows, num_cols, created_at, updated_at, is_deleted, deleted_at, created_by"

func scanScreen(row interface{ Scan(...any) error }) (*Screen, error) {
	var s Screen
	if err := row.Scan(&s.ID, &s.TheatreID, &s.ScreenNumber, &s.NumRows, &s.NumCols,
		&s.CreatedAt, &s.UpdatedAt, &s.IsDeleted, &s.DeletedAt, &s.CreatedBy); err != nil {
		return nil, err
	}
	return &s, nil
}

// Create inserts a new screen with caller-supplied ID and timestamps.
func (r *ScreenRepo) Create(ctx context.Context, s *Screen) error {
	const q = `INSERT INTO screens (id, theatre_id, screen_number, num_rows, num_cols, created_at, updated_at, is_deleted, created_by)
	           VALUES (?, ?, ?, ?, ?, ?, ?, 0, ?)`
	_, err := r.db.ExecContext(ctx, q, s.ID, s.TheatreID, s.ScreenNumber, s.NumRows, s.NumCols,
		s.CreatedAt, s.UpdatedAt, s.CreatedBy)
	return err
}

// GetByID fetches a live screen by ID, ErrNotFound when absent or tombstoned.
func (r *ScreenRepo) GetByID(ctx context.Context, id string) (*Screen, error) {
	const q = "SELECT " + screenCols + " FROM screens WHERE id = ? AND is_deleted = 0"
	s, err := scanScreen(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s, nil
}

// List returns all live screens matching the filter.
func (r *ScreenRepo) List(ctx context.Context, f ScreenFilter) ([]*Screen, error) {
	q := "SELECT " + screenCols + " FROM screens WHERE is_deleted = 0"
	var args []any
	if f.TheatreID != "" {
		q += " AND theatre_id = ?"
		args = append(args, f.TheatreID)
	}
	if f.ScreenNumber != nil {
		q += " AND screen_number = ?"
		args = append(args, *f.ScreenNumber)
	}
	q += " ORDER BY created_at, id"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Screen
	for rows.Next() {
		s, err := scanScreen(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Update replaces the mutable columns, revalidating the row version at commit
// time. ErrStale means another writer won the race; nothing was mutated.
// Assumes updated_at advances on every write; see CinemaRepo.Update for the
// DATETIME(6) resolution note.
func (r *ScreenRepo) Update(ctx context.Context, s *Screen, expectedUpdatedAt time.Time) error {
	const q = `UPDATE screens SET theatre_id = ?, screen_number = ?, num_rows = ?, num_cols = ?, updated_at = ?
	           WHERE id = ? AND is_deleted = 0 AND updated_at = ?`
	res, err := r.db.ExecContext(ctx, q, s.TheatreID, s.ScreenNumber, s.NumRows, s.NumCols, s.UpdatedAt,
		s.ID, expectedUpdatedAt)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return r.staleOrMissing(ctx, s.ID)
	}
	return nil
}

// SoftDelete tombstones a screen.
func (r *ScreenRepo) SoftDelete(ctx context.Context, id string, at time.Time) error {
	const q = `UPDATE screens SET is_deleted = 1, deleted_at = ?, updated_at = ?
	           WHERE id = ? AND is_deleted = 0`
	res, err := r.db.ExecContext(ctx, q, at, at, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ScreenRepo) staleOrMissing(ctx context.Context, id string) error {
	var one int
	err := r.db.QueryRowContext(ctx, "SELECT 1 FROM screens WHERE id = ? AND is_deleted = 0", id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	return ErrStale
}
