package service

import (
	"time"

	"github.com/Hamsitha-Challagundla/theatre-service/internal/repository"
)

// Views are the API-facing representations. Tombstone and audit fields
// (is_deleted, deleted_at, created_by) are deliberately absent: the entity
// tag is computed over exactly these field sets, so internal bookkeeping
// never leaks into the public contract or the tag. Timestamps are always UTC
// and therefore serialize with the trailing "Z".

// CinemaView is the public representation of a cinema.
type CinemaView struct {
	CinemaID  string    `json:"cinema_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TheatreView is the public representation of a theatre.
type TheatreView struct {
	TheatreID   string    `json:"theatre_id"`
	CinemaID    string    `json:"cinema_id"`
	Name        string    `json:"name"`
	Address     string    `json:"address"`
	ScreenCount int       `json:"screen_count"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ScreenView is the public representation of a screen.
type ScreenView struct {
	ScreenID     string    `json:"screen_id"`
	TheatreID    string    `json:"theatre_id"`
	ScreenNumber int       `json:"screen_number"`
	NumRows      int       `json:"num_rows"`
	NumCols      int       `json:"num_cols"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ShowtimeView is the public representation of a showtime.
type ShowtimeView struct {
	ShowtimeID  string    `json:"showtime_id"`
	ScreenID    string    `json:"screen_id"`
	MovieID     string    `json:"movie_id"`
	StartTime   time.Time `json:"start_time"`
	Price       float64   `json:"price"`
	SeatsBooked int       `json:"seats_booked"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// AvailabilityView summarizes seat availability for a showtime against its
// screen's seating grid.
type AvailabilityView struct {
	ShowtimeID     string `json:"showtime_id"`
	ScreenID       string `json:"screen_id"`
	TotalSeats     int    `json:"total_seats"`
	SeatsBooked    int    `json:"seats_booked"`
	SeatsAvailable int    `json:"seats_available"`
}

func cinemaView(c *repository.Cinema) CinemaView {
	return CinemaView{
		CinemaID:  c.ID,
		Name:      c.Name,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func theatreView(t *repository.Theatre) TheatreView {
	return TheatreView{
		TheatreID:   t.ID,
		CinemaID:    t.CinemaID,
		Name:        t.Name,
		Address:     t.Address,
		ScreenCount: t.ScreenCount,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func screenView(s *repository.Screen) ScreenView {
	return ScreenView{
		ScreenID:     s.ID,
		TheatreID:    s.TheatreID,
		ScreenNumber: s.ScreenNumber,
		NumRows:      s.NumRows,
		NumCols:      s.NumCols,
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
	}
}

func showtimeView(s *repository.Showtime) ShowtimeView {
	return ShowtimeView{
		ShowtimeID:  s.ID,
		ScreenID:    s.ScreenID,
		MovieID:     s.MovieID,
		StartTime:   s.StartTime,
		Price:       s.Price,
		SeatsBooked: s.SeatsBooked,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}
