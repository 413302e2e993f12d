package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/Hamsitha-Challagundla/theatre-service/internal/repository"
)

// Store interfaces abstract the persistence layer. The MySQL repositories and
// the in-memory store both satisfy them; services never see *sql.DB.
// Update takes the updated_at value the service read so the store can
// revalidate the row version at commit time (update-if-matches).

// CinemaStore persists cinemas.
type CinemaStore interface {
	Create(ctx context.Context, c *repository.Cinema) error
	GetByID(ctx context.Context, id string) (*repository.Cinema, error)
	List(ctx context.Context, f repository.CinemaFilter) ([]*repository.Cinema, error)
	Update(ctx context.Context, c *repository.Cinema, expectedUpdatedAt time.Time) error
	SoftDelete(ctx context.Context, id string, at time.Time) error
}

// TheatreStore persists theatres.
type TheatreStore interface {
	Create(ctx context.Context, t *repository.Theatre) error
	GetByID(ctx context.Context, id string) (*repository.Theatre, error)
	List(ctx context.Context, f repository.TheatreFilter) ([]*repository.Theatre, error)
	Update(ctx context.Context, t *repository.Theatre, expectedUpdatedAt time.Time) error
	SoftDelete(ctx context.Context, id string, at time.Time) error
}

// ScreenStore persists screens.
type ScreenStore interface {
	Create(ctx context.Context, s *repository.Screen) error
	GetByID(ctx context.Context, id string) (*repository.Screen, error)
	List(ctx context.Context, f repository.ScreenFilter) ([]*repository.Screen, error)
	Update(ctx context.Context, s *repository.Screen, expectedUpdatedAt time.Time) error
	SoftDelete(ctx context.Context, id string, at time.Time) error
}

// ShowtimeStore persists showtimes.
type ShowtimeStore interface {
	Create(ctx context.Context, s *repository.Showtime) error
	GetByID(ctx context.Context, id string) (*repository.Showtime, error)
	List(ctx context.Context, f repository.ShowtimeFilter) ([]*repository.Showtime, error)
	Update(ctx context.Context, s *repository.Showtime, expectedUpdatedAt time.Time) error
	AdjustSeats(ctx context.Context, id string, delta, capacity int, at time.Time) (*repository.Showtime, error)
	SoftDelete(ctx context.Context, id string, at time.Time) error
}

// EventPublisher delivers change events to the broker. Services treat it as
// best-effort and never fail a request on a publish error.
type EventPublisher interface {
	Publish(ctx context.Context, queueName string, event any) error
}

// Queue names for published events.
const (
	catalogQueue = "catalog.changed"
	seatsQueue   = "showtime.seats_adjusted"
)

// nowUTC returns the current time in UTC truncated to microseconds, the
// precision of the DATETIME(6) columns. Persisted timestamps must round-trip
// byte-identical through the database or every re-read would change the
// entity tag.
func nowUTC() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

// auditRef converts an optional actor ID into the nullable created_by column.
func auditRef(createdBy *string) sql.NullString {
	if createdBy == nil || *createdBy == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: *createdBy, Valid: true}
}
