package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// Showtime is a scheduled screening on a screen. MovieID references a movie
// managed by an external service; SeatsBooked is bounded by the screen's
// seating grid and only moves through guarded delta updates.
type Showtime struct {
	ID          string
	ScreenID    string
	MovieID     string
	StartTime   time.Time
	Price       float64
	SeatsBooked int
	CreatedAt   time.Time
	UpdatedAt   time.Time
	IsDeleted   bool
	DeletedAt   sql.NullTime
	CreatedBy   sql.NullString
}

// ShowtimeFilter narrows List results. Zero values mean no filtering.
type ShowtimeFilter struct {
	ScreenID       string     // equality on screen
	MovieID        string     // equality on movie
	StartTimeAfter *time.Time // keep showtimes starting at or after this instant
}

// ShowtimeRepo encapsulates all database queries related to showtimes.
type ShowtimeRepo struct {
	db *sql.DB
}

// NewShowtimeRepo constructs a ShowtimeRepo with the provided DB handle.
func NewShowtimeRepo(db *sql.DB) *ShowtimeRepo {
	return &ShowtimeRepo{db: db}
}

const showtimeCols = "id, screen_id, movie_id, start_time, price, seats_booked, created_at, updated_at, is_deleted, deleted_at, created_by"

func scanShowtime(row interface{ Scan(...any) error }) (*Showtime, error) {
	var s Showtime
	if err := row.Scan(&s.ID, &s.ScreenID, &s.MovieID, &s.StartTime, &s.Price, &s.SeatsBooked,
		&s.CreatedAt, &s.UpdatedAt, &s.IsDeleted, &s.DeletedAt, &s.CreatedBy); err != nil {
		return nil, err
	}
	return &s, nil
}

// Create inserts a new showtime with caller-supplied ID and timestamps.
func (r *ShowtimeRepo) Create(ctx context.Context, s *Showtime) error {
	const q = `INSERT INTO showtimes (id, screen_id, movie_id, start_time, price, seats_booked, created_at, updated_at, is_deleted, created_by)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?, 0, ?)`
	_, err := r.db.ExecContext(ctx, q, s.ID, s.ScreenID, s.MovieID, s.StartTime, s.Price, s.SeatsBooked,
		s.CreatedAt, s.UpdatedAt, s.CreatedBy)
	return err
}

// GetByID fetches a live showtime by ID, ErrNotFound when absent or tombstoned.
func (r *ShowtimeRepo) GetByID(ctx context.Context, id string) (*Showtime, error) {
	const q = "SELECT " + showtimeCols + " FROM showtimes WHERE id = ? AND is_deleted = 0"
	s, err := scanShowtime(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s, nil
}

// List returns all live showtimes matching the filter, ordered by start time.
func (r *ShowtimeRepo) List(ctx context.Context, f ShowtimeFilter) ([]*Showtime, error) {
	q := "SELECT " + showtimeCols + " FROM showtimes WHERE is_deleted = 0"
	var args []any
	if f.ScreenID != "" {
		q += " AND screen_id = ?"
		args = append(args, f.ScreenID)
	}
	if f.MovieID != "" {
		q += " AND movie_id = ?"
		args = append(args, f.MovieID)
	}
	if f.StartTimeAfter != nil {
		q += " AND start_time >= ?"
		args = append(args, *f.StartTimeAfter)
	}
	q += " ORDER BY start_time, id"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Showtime
	for rows.Next() {
		s, err := scanShowtime(rows)
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
func (r *ShowtimeRepo) Update(ctx context.Context, s *Showtime, expectedUpdatedAt time.Time) error {
	const q = `UPDATE showtimes SET screen_id = ?, movie_id = ?, start_time = ?, price = ?, seats_booked = ?, updated_at = ?
	           WHERE id = ? AND is_deleted = 0 AND updated_at = ?`
	res, err := r.db.ExecContext(ctx, q, s.ScreenID, s.MovieID, s.StartTime, s.Price, s.SeatsBooked, s.UpdatedAt,
		s.ID, expectedUpdatedAt)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return r.staleOrMissing(ctx, s.ID)
	}
	return nil
}

// AdjustSeats applies a signed delta to seats_booked. The bounds live in the
// WHERE clause so concurrent deltas cannot overshoot [0, capacity] no matter
// how they interleave. Returns the updated row, ErrSeatCapacity when the
// delta would leave the range, or ErrNotFound when the showtime is gone.
func (r *ShowtimeRepo) AdjustSeats(ctx context.Context, id string, delta, capacity int, at time.Time) (*Showtime, error) {
	const q = `UPDATE showtimes SET seats_booked = seats_booked + ?, updated_at = ?
	           WHERE id = ? AND is_deleted = 0
	             AND seats_booked + ? >= 0 AND seats_booked + ? <= ?`
	res, err := r.db.ExecContext(ctx, q, delta, at, id, delta, delta, capacity)
	if err != nil {
		return nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// Row exists but the guard rejected the delta.
		if err := r.staleOrMissing(ctx, id); !errors.Is(err, ErrStale) {
			return nil, err
		}
		return nil, ErrSeatCapacity
	}
	return r.GetByID(ctx, id)
}

// SoftDelete tombstones a showtime.
func (r *ShowtimeRepo) SoftDelete(ctx context.Context, id string, at time.Time) error {
	const q = `UPDATE showtimes SET is_deleted = 1, deleted_at = ?, updated_at = ?
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

func (r *ShowtimeRepo) staleOrMissing(ctx context.Context, id string) error {
	var one int
	err := r.db.QueryRowContext(ctx, "SELECT 1 FROM showtimes WHERE id = ? AND is_deleted = 0", id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	return ErrStale
}
