package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// Cinema is a venue owning zero or more theatres. IsDeleted, DeletedAt and
// CreatedBy are tombstone/audit fields and are never exposed through the API.
type Cinema struct {
	ID        string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
	IsDeleted bool
	DeletedAt sql.NullTime
	CreatedBy sql.NullString
}

// CinemaFilter narrows List results. Zero values mean no filtering.
type CinemaFilter struct {
	Name string // substring match on name
}

// CinemaRepo encapsulates all database queries related to cinemas.
type CinemaRepo struct {
	db *sql.DB
}

// NewCinemaRepo constructs a CinemaRepo with the provided DB handle.
func NewCinemaRepo(db *sql.DB) *CinemaRepo {
	return &CinemaRepo{db: db}
}

const cinemaCols = "id, name, created_at, updated_at, is_deleted, deleted_at, created_by"

func scanCinema(row interface{ Scan(...any) error }) (*Cinema, error) {
	var c Cinema
	if err := row.Scan(&c.ID, &c.Name, &c.CreatedAt, &c.UpdatedAt, &c.IsDeleted, &c.DeletedAt, &c.CreatedBy); err != nil {
		return nil, err
	}
	return &c, nil
}

// Create inserts a new cinema. The caller supplies the generated ID and
// timestamps so the persisted values are byte-identical to the ones hashed
// into the entity tag.
func (r *CinemaRepo) Create(ctx context.Context, c *Cinema) error {
	const q = `INSERT INTO cinemas (id, name, created_at, updated_at, is_deleted, created_by)
	           VALUES (?, ?, ?, ?, 0, ?)`
	_, err := r.db.ExecContext(ctx, q, c.ID, c.Name, c.CreatedAt, c.UpdatedAt, c.CreatedBy)
	return err
}

// GetByID fetches a live cinema by ID. Soft-deleted rows are treated as
// absent and yield ErrNotFound.
func (r *CinemaRepo) GetByID(ctx context.Context, id string) (*Cinema, error) {
	const q = "SELECT " + cinemaCols + " FROM cinemas WHERE id = ? AND is_deleted = 0"
	c, err := scanCinema(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

// List returns all live cinemas matching the filter, ordered by creation time.
func (r *CinemaRepo) List(ctx context.Context, f CinemaFilter) ([]*Cinema, error) {
	q := "SELECT " + cinemaCols + " FROM cinemas WHERE is_deleted = 0"
	var args []any
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

	var out []*Cinema
	for rows.Next() {
		c, err := scanCinema(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Update replaces the mutable columns of a cinema, but only if the row still
// carries expectedUpdatedAt. The WHERE clause is the commit-time revalidation
// of the optimistic-concurrency protocol: a racing writer that committed
// first has already advanced updated_at, so this statement affects no rows
// and ErrStale is returned without mutating anything.
//
// The zero-rows check assumes updated_at advances on every write. At
// DATETIME(6) resolution a rewrite landing in the same microsecond as the
// previous one would leave the row byte-identical, report zero affected rows
// and read as stale; services always stamp a fresh nowUTC() before calling
// Update, so the window never occurs in practice.
func (r *CinemaRepo) Update(ctx context.Context, c *Cinema, expectedUpdatedAt time.Time) error {
	const q = `UPDATE cinemas SET name = ?, updated_at = ?
	           WHERE id = ? AND is_deleted = 0 AND updated_at = ?`
	res, err := r.db.ExecContext(ctx, q, c.Name, c.UpdatedAt, c.ID, expectedUpdatedAt)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return r.staleOrMissing(ctx, c.ID)
	}
	return nil
}

// SoftDelete tombstones a cinema: the row stays for audit but disappears from
// every read. Deleting an already-deleted or absent cinema yields ErrNotFound.
func (r *CinemaRepo) SoftDelete(ctx context.Context, id string, at time.Time) error {
	const q = `UPDATE cinemas SET is_deleted = 1, deleted_at = ?, updated_at = ?
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

// staleOrMissing distinguishes "row gone" from "row moved on" after a guarded
// UPDATE affected nothing.
func (r *CinemaRepo) staleOrMissing(ctx context.Context, id string) error {
	var one int
	err := r.db.QueryRowContext(ctx, "SELECT 1 FROM cinemas WHERE id = ? AND is_deleted = 0", id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	return ErrStale
}
