package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// Theatre is a building belonging to a cinema. CinemaID must reference a live
// (non-deleted) cinema; the service layer enforces that on create and update.
type Theatre struct {
	ID          string
	CinemaID    string
	Name        string
	Address     string
	ScreenCount int
	CreatedAt   time.Time
	UpdatedAt   time.Time
	IsDeleted   bool
	DeletedAt   sql.NullTime
	CreatedBy   sql.NullString
}

// TheatreFilter narrows List results. Zero values mean no filtering.
type TheatreFilter struct {
	Name     string // substring match on name
	CinemaID string // equality on owning cinema
}

// TheatreRepo encapsulates all database queries related to theatres.
type TheatreRepo struct {
	db *sql.DB
}

// NewTheatreRepo constructs a TheatreRepo with the provided DB handle.
func NewTheatreRepo(db *sql.DB) *TheatreRepo {
	return &TheatreRepo{db: db}
}

const theatreCols = "id, cinema_id, name, address, screen_count, created_at, updated_at, is_deleted, deleted_at, created_by"

func scanTheatre(row interface{ Scan(...any) error }) (*Theatre, error) {
	var t Theatre
	if err := row.Scan(&t.ID, &t.CinemaID, &t.Name, &t.Address, &t.ScreenCount,
		&t.CreatedAt, &t.UpdatedAt, &t.IsDeleted, &t.DeletedAt, &t.CreatedBy); err != nil {
		return nil, err
	}
	return &t, nil
}

// Create inserts a new theatre with caller-supplied ID and timestamps.
func (r *TheatreRepo) Create(ctx context.Context, t *Theatre) error {
	const q = `INSERT INTO theatres (id, cinema_id, name, address, screen_count, created_at, updated_at, is_deleted, created_by)
	           VALUES (?, ?, ?, ?, ?, ?, ?, 0, ?)`
	_, err := r.db.ExecContext(ctx, q, t.ID, t.CinemaID, t.Name, t.Address, t.ScreenCount,
		t.CreatedAt, t.UpdatedAt, t.CreatedBy)
	return err
}

// GetByID fetches a live theatre by ID, ErrNotFound when absent or tombstoned.
func (r *TheatreRepo) GetByID(ctx context.Context, id string) (*Theatre, error) {
	const q = "SELECT " + theatreCols + " FROM theatres WHERE id = ? AND is_deleted = 0"
	t, err := scanTheatre(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return t, nil
}

// List returns all live theatres matching the filter.
func (r *TheatreRepo) List(ctx context.Context, f TheatreFilter) ([]*Theatre, error) {
	q := "SELECT " + theatreCols + " FROM theatres WHERE is_deleted = 0"
	var args []any
	if f.CinemaID != "" {
		q += " AND cinema_id = ?"
		args = append(args, f.CinemaID)
	}
	if f.Name != "" {
		q += " AND name LIKE ?"
		args = append(args, "%"+f.Name+"%")
	}
	q += " ORDER BY created_at, id"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Theatre
	for rows.Next() {
		t, err := scanTheatre(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
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
func (r *TheatreRepo) Update(ctx context.Context, t *Theatre, expectedUpdatedAt time.Time) error {
	const q = `UPDATE theatres SET cinema_id = ?, name = ?, address = ?, screen_count = ?, updated_at = ?
	           WHERE id = ? AND is_deleted = 0 AND updated_at = ?`
	res, err := r.db.ExecContext(ctx, q, t.CinemaID, t.Name, t.Address, t.ScreenCount, t.UpdatedAt,
		t.ID, expectedUpdatedAt)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return r.staleOrMissing(ctx, t.ID)
	}
	return nil
}

// SoftDelete tombstones a theatre.
func (r *TheatreRepo) SoftDelete(ctx context.Context, id string, at time.Time) error {
	const q = `UPDATE theatres SET is_deleted = 1, deleted_at = ?, updated_at = ?
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

func (r *TheatreRepo) staleOrMissing(ctx context.Context, id string) error {
	var one int
	err := r.db.QueryRowContext(ctx, "SELECT 1 FROM theatres WHERE id = ? AND is_deleted = 0", id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	return ErrStale
}
