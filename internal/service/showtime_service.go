package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Hamsitha-Challagundla/theatre-service/internal/etag"
	"github.com/Hamsitha-Challagundla/theatre-service/internal/queue"
	"github.com/Hamsitha-Challagundla/theatre-service/internal/repository"
)

// ShowtimeInput carries the full field set for create and replace.
type ShowtimeInput struct {
	ScreenID    string    `json:"screen_id"`
	MovieID     string    `json:"movie_id"`
	StartTime   time.Time `json:"start_time"`
	Price       float64   `json:"price"`
	SeatsBooked int       `json:"seats_booked"`
}

// ShowtimePatch carries optional fields for partial update.
type ShowtimePatch struct {
	ScreenID    *string    `json:"screen_id"`
	MovieID     *string    `json:"movie_id"`
	StartTime   *time.Time `json:"start_time"`
	Price       *float64   `json:"price"`
	SeatsBooked *int       `json:"seats_booked"`
}

// ShowtimeService implements the showtime resource operations, the seat
// availability report, and the guarded seat-adjustment operation. It holds
// the screen store to resolve seat capacity and enforce the screen reference
// invariant.
type ShowtimeService struct {
	store   ShowtimeStore
	screens ScreenStore
	events  EventPublisher
}

// NewShowtimeService constructs a ShowtimeService.
func NewShowtimeService(store ShowtimeStore, screens ScreenStore, events EventPublisher) *ShowtimeService {
	return &ShowtimeService{store: store, screens: screens, events: events}
}

// List returns all live showtimes matching the filter, ordered by start time.
func (s *ShowtimeService) List(ctx context.Context, f repository.ShowtimeFilter) ([]ShowtimeView, error) {
	rows, err := s.store.List(ctx, f)
	if err != nil {
		return nil, err
	}
	out := make([]ShowtimeView, 0, len(rows))
	for _, st := range rows {
		out = append(out, showtimeView(st))
	}
	return out, nil
}

// Get returns a showtime and its current entity tag.
func (s *ShowtimeService) Get(ctx context.Context, id string) (ShowtimeView, string, error) {
	st, err := s.store.GetByID(ctx, id)
	if err != nil {
		return ShowtimeView{}, "", wrapShowtimeErr(err)
	}
	return tagged(showtimeView(st))
}

// Create inserts a new showtime. The referenced screen must be live and the
// initial booked count must fit its seating grid.
func (s *ShowtimeService) Create(ctx context.Context, in ShowtimeInput, createdBy *string) (ShowtimeView, string, error) {
	if err := s.validateInput(&in); err != nil {
		return ShowtimeView{}, "", err
	}
	screen, err := s.requireScreen(ctx, in.ScreenID)
	if err != nil {
		return ShowtimeView{}, "", err
	}
	if in.SeatsBooked > screen.Capacity() {
		return ShowtimeView{}, "", invalid("seats_booked exceeds screen capacity of %d", screen.Capacity())
	}
	now := nowUTC()
	st := &repository.Showtime{
		ID:          uuid.NewString(),
		ScreenID:    in.ScreenID,
		MovieID:     in.MovieID,
		StartTime:   in.StartTime.UTC().Truncate(time.Microsecond),
		Price:       in.Price,
		SeatsBooked: in.SeatsBooked,
		CreatedAt:   now,
		UpdatedAt:   now,
		CreatedBy:   auditRef(createdBy),
	}
	if err := s.store.Create(ctx, st); err != nil {
		return ShowtimeView{}, "", err
	}
	view, tag, err := tagged(showtimeView(st))
	if err != nil {
		return ShowtimeView{}, "", err
	}
	s.notify(ctx, queue.ActionCreated, st.ID, tag)
	return view, tag, nil
}

// Update applies a partial update under the If-Match precondition. Changing
// screen_id or seats_booked re-checks the capacity invariant against the
// (possibly new) screen.
func (s *ShowtimeService) Update(ctx context.Context, id string, patch ShowtimePatch, ifMatch *string) (ShowtimeView, string, error) {
	cur, err := s.store.GetByID(ctx, id)
	if err != nil {
		return ShowtimeView{}, "", wrapShowtimeErr(err)
	}
	curTag, err := etag.Compute(showtimeView(cur))
	if err != nil {
		return ShowtimeView{}, "", err
	}
	if err := checkPrecondition(ifMatch, curTag, true); err != nil {
		return ShowtimeView{}, "", err
	}

	next := *cur
	if patch.ScreenID != nil {
		next.ScreenID = *patch.ScreenID
	}
	if patch.MovieID != nil {
		movieID := strings.TrimSpace(*patch.MovieID)
		if movieID == "" {
			return ShowtimeView{}, "", invalid("movie_id must not be empty")
		}
		next.MovieID = movieID
	}
	if patch.StartTime != nil {
		next.StartTime = patch.StartTime.UTC().Truncate(time.Microsecond)
	}
	if patch.Price != nil {
		if *patch.Price < 0 {
			return ShowtimeView{}, "", invalid("price must not be negative")
		}
		next.Price = *patch.Price
	}
	if patch.SeatsBooked != nil {
		if *patch.SeatsBooked < 0 {
			return ShowtimeView{}, "", invalid("seats_booked must not be negative")
		}
		next.SeatsBooked = *patch.SeatsBooked
	}
	if patch.ScreenID != nil || patch.SeatsBooked != nil {
		screen, err := s.requireScreen(ctx, next.ScreenID)
		if err != nil {
			return ShowtimeView{}, "", err
		}
		if next.SeatsBooked > screen.Capacity() {
			return ShowtimeView{}, "", invalid("seats_booked exceeds screen capacity of %d", screen.Capacity())
		}
	}
	next.UpdatedAt = nowUTC()

	if err := s.store.Update(ctx, &next, cur.UpdatedAt); err != nil {
		return ShowtimeView{}, "", wrapShowtimeErr(err)
	}
	view, tag, err := tagged(showtimeView(&next))
	if err != nil {
		return ShowtimeView{}, "", err
	}
	s.notify(ctx, queue.ActionUpdated, id, tag)
	return view, tag, nil
}

// Replace swaps the full field set under the If-Match precondition.
func (s *ShowtimeService) Replace(ctx context.Context, id string, in ShowtimeInput, ifMatch *string) (ShowtimeView, string, error) {
	cur, err := s.store.GetByID(ctx, id)
	if err != nil {
		return ShowtimeView{}, "", wrapShowtimeErr(err)
	}
	curTag, err := etag.Compute(showtimeView(cur))
	if err != nil {
		return ShowtimeView{}, "", err
	}
	// Precondition before payload: a missing or stale tag must answer
	// 428/412 even when the body would not validate.
	if err := checkPrecondition(ifMatch, curTag, true); err != nil {
		return ShowtimeView{}, "", err
	}
	if err := s.validateInput(&in); err != nil {
		return ShowtimeView{}, "", err
	}
	screen, err := s.requireScreen(ctx, in.ScreenID)
	if err != nil {
		return ShowtimeView{}, "", err
	}
	if in.SeatsBooked > screen.Capacity() {
		return ShowtimeView{}, "", invalid("seats_booked exceeds screen capacity of %d", screen.Capacity())
	}

	next := *cur
	next.ScreenID = in.ScreenID
	next.MovieID = in.MovieID
	next.StartTime = in.StartTime.UTC().Truncate(time.Microsecond)
	next.Price = in.Price
	next.SeatsBooked = in.SeatsBooked
	next.UpdatedAt = nowUTC()

	if err := s.store.Update(ctx, &next, cur.UpdatedAt); err != nil {
		return ShowtimeView{}, "", wrapShowtimeErr(err)
	}
	view, tag, err := tagged(showtimeView(&next))
	if err != nil {
		return ShowtimeView{}, "", err
	}
	s.notify(ctx, queue.ActionReplaced, id, tag)
	return view, tag, nil
}

// Delete soft-deletes a showtime; If-Match is optional but checked if present.
func (s *ShowtimeService) Delete(ctx context.Context, id string, ifMatch *string) error {
	cur, err := s.store.GetByID(ctx, id)
	if err != nil {
		return wrapShowtimeErr(err)
	}
	curTag, err := etag.Compute(showtimeView(cur))
	if err != nil {
		return err
	}
	if err := checkPrecondition(ifMatch, curTag, false); err != nil {
		return err
	}
	if err := s.store.SoftDelete(ctx, id, nowUTC()); err != nil {
		return wrapShowtimeErr(err)
	}
	s.notify(ctx, queue.ActionDeleted, id, "")
	return nil
}

// Availability reports total, booked and free seats for a showtime against
// its screen's seating grid.
func (s *ShowtimeService) Availability(ctx context.Context, id string) (AvailabilityView, error) {
	st, err := s.store.GetByID(ctx, id)
	if err != nil {
		return AvailabilityView{}, wrapShowtimeErr(err)
	}
	screen, err := s.requireScreen(ctx, st.ScreenID)
	if err != nil {
		return AvailabilityView{}, err
	}
	total := screen.Capacity()
	return AvailabilityView{
		ShowtimeID:     st.ID,
		ScreenID:       st.ScreenID,
		TotalSeats:     total,
		SeatsBooked:    st.SeatsBooked,
		SeatsAvailable: total - st.SeatsBooked,
	}, nil
}

// AdjustSeats applies a signed delta to the booked-seat count. The resulting
// count must stay within [0, screen capacity]; violations are rejected
// without mutating. The store applies the delta with the bounds in the WHERE
// clause, so concurrent adjustments cannot overshoot.
func (s *ShowtimeService) AdjustSeats(ctx context.Context, id string, delta int) (ShowtimeView, string, error) {
	cur, err := s.store.GetByID(ctx, id)
	if err != nil {
		return ShowtimeView{}, "", wrapShowtimeErr(err)
	}
	screen, err := s.requireScreen(ctx, cur.ScreenID)
	if err != nil {
		return ShowtimeView{}, "", err
	}
	total := screen.Capacity()
	next := cur.SeatsBooked + delta
	if next < 0 {
		return ShowtimeView{}, "", invalid("cannot release more seats than are currently booked")
	}
	if next > total {
		return ShowtimeView{}, "", invalid("cannot book more seats than available: total %d, already booked %d", total, cur.SeatsBooked)
	}

	updated, err := s.store.AdjustSeats(ctx, id, delta, total, nowUTC())
	if err != nil {
		if errors.Is(err, repository.ErrSeatCapacity) {
			// A concurrent adjustment changed the count between our read and
			// the guarded write.
			return ShowtimeView{}, "", invalid("seat adjustment of %d no longer fits within capacity %d", delta, total)
		}
		return ShowtimeView{}, "", wrapShowtimeErr(err)
	}
	view, tag, err := tagged(showtimeView(updated))
	if err != nil {
		return ShowtimeView{}, "", err
	}
	if s.events != nil {
		_ = s.events.Publish(ctx, seatsQueue, queue.SeatCountEvent{
			ShowtimeID:  updated.ID,
			ScreenID:    updated.ScreenID,
			Delta:       delta,
			SeatsBooked: updated.SeatsBooked,
			TotalSeats:  total,
			OccurredAt:  nowUTC(),
		})
	}
	return view, tag, nil
}

func (s *ShowtimeService) validateInput(in *ShowtimeInput) error {
	in.ScreenID = strings.TrimSpace(in.ScreenID)
	in.MovieID = strings.TrimSpace(in.MovieID)
	switch {
	case in.ScreenID == "":
		return invalid("screen_id is required")
	case in.MovieID == "":
		return invalid("movie_id is required")
	case in.StartTime.IsZero():
		return invalid("start_time is required")
	case in.Price < 0:
		return invalid("price must not be negative")
	case in.SeatsBooked < 0:
		return invalid("seats_booked must not be negative")
	}
	return nil
}

// requireScreen checks that the referenced screen exists and is live, and
// returns it so callers can read the seating grid.
func (s *ShowtimeService) requireScreen(ctx context.Context, screenID string) (*repository.Screen, error) {
	screen, err := s.screens.GetByID(ctx, screenID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("screen %s %w", screenID, ErrNotFound)
		}
		return nil, err
	}
	return screen, nil
}

func (s *ShowtimeService) notify(ctx context.Context, action, id, tag string) {
	if s.events == nil {
		return
	}
	_ = s.events.Publish(ctx, catalogQueue, queue.ResourceEvent{
		Resource:   "showtimes",
		Action:     action,
		ID:         id,
		ETag:       tag,
		OccurredAt: nowUTC(),
	})
}

func wrapShowtimeErr(err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return fmt.Errorf("showtime %w", ErrNotFound)
	case errors.Is(err, repository.ErrStale):
		return ErrPreconditionFailed
	default:
		return err
	}
}
