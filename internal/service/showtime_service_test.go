package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Hamsitha-Challagundla/theatre-service/internal/queue"
	"github.com/Hamsitha-Challagundla/theatre-service/internal/repository"
)

// fixture builds the full entity chain: cinema -> theatre -> screen, and
// returns services wired to one shared in-memory store.
type fixture struct {
	mem       *repository.Memory
	cinemas   *CinemaService
	theatres  *TheatreService
	screens   *ScreenService
	showtimes *ShowtimeService
	pub       *recordingPublisher

	screenID string
}

func newFixture(t *testing.T, rows, cols int) *fixture {
	t.Helper()
	ctx := context.Background()

	mem := repository.NewMemory()
	pub := &recordingPublisher{}
	f := &fixture{
		mem:       mem,
		cinemas:   NewCinemaService(mem.Cinemas(), pub),
		theatres:  NewTheatreService(mem.Theatres(), mem.Cinemas(), pub),
		screens:   NewScreenService(mem.Screens(), mem.Theatres(), pub),
		showtimes: NewShowtimeService(mem.Showtimes(), mem.Screens(), pub),
		pub:       pub,
	}

	cinema, _, err := f.cinemas.Create(ctx, CinemaInput{Name: "Grand"}, nil)
	require.NoError(t, err)
	theatre, _, err := f.theatres.Create(ctx, TheatreInput{
		CinemaID: cinema.CinemaID,
		Name:     "Main House",
		Address:  "1 Plaza Way",
	}, nil)
	require.NoError(t, err)
	screen, _, err := f.screens.Create(ctx, ScreenInput{
		TheatreID:    theatre.TheatreID,
		ScreenNumber: 1,
		NumRows:      rows,
		NumCols:      cols,
	}, nil)
	require.NoError(t, err)
	f.screenID = screen.ScreenID
	return f
}

func (f *fixture) createShowtime(t *testing.T, seatsBooked int) ShowtimeView {
	t.Helper()
	view, _, err := f.showtimes.Create(context.Background(), ShowtimeInput{
		ScreenID:    f.screenID,
		MovieID:     "tt0111161",
		StartTime:   time.Date(2026, 9, 12, 19, 30, 0, 0, time.UTC),
		Price:       12.50,
		SeatsBooked: seatsBooked,
	}, nil)
	require.NoError(t, err)
	return view
}

func TestShowtimeCreateRequiresLiveScreen(t *testing.T) {
	f := newFixture(t, 10, 20)

	_, _, err := f.showtimes.Create(context.Background(), ShowtimeInput{
		ScreenID:  "missing",
		MovieID:   "tt0111161",
		StartTime: time.Date(2026, 9, 12, 19, 30, 0, 0, time.UTC),
		Price:     10,
	}, nil)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestShowtimeCreateRejectsOverCapacity(t *testing.T) {
	f := newFixture(t, 10, 20)

	_, _, err := f.showtimes.Create(context.Background(), ShowtimeInput{
		ScreenID:    f.screenID,
		MovieID:     "tt0111161",
		StartTime:   time.Date(2026, 9, 12, 19, 30, 0, 0, time.UTC),
		Price:       10,
		SeatsBooked: 201,
	}, nil)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
}

func TestAdjustSeatsBoundaries(t *testing.T) {
	// 10x20 grid means 200 seats.
	f := newFixture(t, 10, 20)
	ctx := context.Background()
	st := f.createShowtime(t, 199)

	// +1 fills the last seat.
	view, _, err := f.showtimes.AdjustSeats(ctx, st.ShowtimeID, 1)
	require.NoError(t, err)
	assert.Equal(t, 200, view.SeatsBooked)

	// +2 from 199 would overshoot; count must stay untouched.
	st2 := f.createShowtime(t, 199)
	var ve *ValidationError
	_, _, err = f.showtimes.AdjustSeats(ctx, st2.ShowtimeID, 2)
	require.ErrorAs(t, err, &ve)
	got, _, err := f.showtimes.Get(ctx, st2.ShowtimeID)
	require.NoError(t, err)
	assert.Equal(t, 199, got.SeatsBooked)

	// -200 from 200 releases everything.
	view, _, err = f.showtimes.AdjustSeats(ctx, st.ShowtimeID, -200)
	require.NoError(t, err)
	assert.Equal(t, 0, view.SeatsBooked)

	// -1 from 0 goes negative and is rejected.
	_, _, err = f.showtimes.AdjustSeats(ctx, st.ShowtimeID, -1)
	require.ErrorAs(t, err, &ve)
}

func TestAdjustSeatsRotatesTagAndPublishes(t *testing.T) {
	f := newFixture(t, 10, 20)
	ctx := context.Background()
	st := f.createShowtime(t, 0)

	_, tag0, err := f.showtimes.Get(ctx, st.ShowtimeID)
	require.NoError(t, err)

	view, tag1, err := f.showtimes.AdjustSeats(ctx, st.ShowtimeID, 5)
	require.NoError(t, err)
	assert.Equal(t, 5, view.SeatsBooked)
	assert.NotEqual(t, tag0, tag1)

	var seatEvt *queue.SeatCountEvent
	for i, q := range f.pub.queues {
		if q == "showtime.seats_adjusted" {
			evt, ok := f.pub.events[i].(queue.SeatCountEvent)
			require.True(t, ok)
			seatEvt = &evt
		}
	}
	require.NotNil(t, seatEvt)
	assert.Equal(t, st.ShowtimeID, seatEvt.ShowtimeID)
	assert.Equal(t, 5, seatEvt.Delta)
	assert.Equal(t, 5, seatEvt.SeatsBooked)
	assert.Equal(t, 200, seatEvt.TotalSeats)
}

func TestAvailability(t *testing.T) {
	f := newFixture(t, 10, 20)
	ctx := context.Background()
	st := f.createShowtime(t, 30)

	avail, err := f.showtimes.Availability(ctx, st.ShowtimeID)
	require.NoError(t, err)
	assert.Equal(t, st.ShowtimeID, avail.ShowtimeID)
	assert.Equal(t, f.screenID, avail.ScreenID)
	assert.Equal(t, 200, avail.TotalSeats)
	assert.Equal(t, 30, avail.SeatsBooked)
	assert.Equal(t, 170, avail.SeatsAvailable)

	_, err = f.showtimes.Availability(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestShowtimeUpdateConditional(t *testing.T) {
	f := newFixture(t, 10, 20)
	ctx := context.Background()
	st := f.createShowtime(t, 0)

	_, tag0, err := f.showtimes.Get(ctx, st.ShowtimeID)
	require.NoError(t, err)

	price := 15.00
	_, _, err = f.showtimes.Update(ctx, st.ShowtimeID, ShowtimePatch{Price: &price}, nil)
	assert.ErrorIs(t, err, ErrPreconditionRequired)

	updated, tag1, err := f.showtimes.Update(ctx, st.ShowtimeID, ShowtimePatch{Price: &price}, &tag0)
	require.NoError(t, err)
	assert.Equal(t, 15.00, updated.Price)
	assert.NotEqual(t, tag0, tag1)

	_, _, err = f.showtimes.Update(ctx, st.ShowtimeID, ShowtimePatch{Price: &price}, &tag0)
	assert.ErrorIs(t, err, ErrPreconditionFailed)
}

func TestShowtimeReplacePreconditionOutranksValidation(t *testing.T) {
	f := newFixture(t, 10, 20)
	ctx := context.Background()
	st := f.createShowtime(t, 0)

	_, _, err := f.showtimes.Replace(ctx, st.ShowtimeID, ShowtimeInput{}, nil)
	assert.ErrorIs(t, err, ErrPreconditionRequired)

	stale := `"0000000000000000000000000000000000000000000000000000000000000000"`
	_, _, err = f.showtimes.Replace(ctx, st.ShowtimeID, ShowtimeInput{}, &stale)
	assert.ErrorIs(t, err, ErrPreconditionFailed)
}

func TestShowtimePatchSeatsBeyondCapacity(t *testing.T) {
	f := newFixture(t, 2, 2)
	ctx := context.Background()

	st, tag, err := f.showtimes.Create(ctx, ShowtimeInput{
		ScreenID:    f.screenID,
		MovieID:     "tt0111161",
		StartTime:   time.Date(2026, 9, 12, 19, 30, 0, 0, time.UTC),
		Price:       10,
		SeatsBooked: 2,
	}, nil)
	require.NoError(t, err)

	over := 5
	_, _, err = f.showtimes.Update(ctx, st.ShowtimeID, ShowtimePatch{SeatsBooked: &over}, &tag)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
}

func TestShowtimeListFilters(t *testing.T) {
	f := newFixture(t, 10, 20)
	ctx := context.Background()

	early, _, err := f.showtimes.Create(ctx, ShowtimeInput{
		ScreenID:  f.screenID,
		MovieID:   "tt0111161",
		StartTime: time.Date(2026, 9, 12, 14, 0, 0, 0, time.UTC),
		Price:     10,
	}, nil)
	require.NoError(t, err)
	late, _, err := f.showtimes.Create(ctx, ShowtimeInput{
		ScreenID:  f.screenID,
		MovieID:   "tt0068646",
		StartTime: time.Date(2026, 9, 12, 21, 0, 0, 0, time.UTC),
		Price:     10,
	}, nil)
	require.NoError(t, err)

	byMovie, err := f.showtimes.List(ctx, repository.ShowtimeFilter{MovieID: "tt0068646"})
	require.NoError(t, err)
	require.Len(t, byMovie, 1)
	assert.Equal(t, late.ShowtimeID, byMovie[0].ShowtimeID)

	cutoff := time.Date(2026, 9, 12, 18, 0, 0, 0, time.UTC)
	after, err := f.showtimes.List(ctx, repository.ShowtimeFilter{StartTimeAfter: &cutoff})
	require.NoError(t, err)
	require.Len(t, after, 1)
	assert.Equal(t, late.ShowtimeID, after[0].ShowtimeID)

	all, err := f.showtimes.List(ctx, repository.ShowtimeFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, early.ShowtimeID, all[0].ShowtimeID)
}

func TestShowtimeDeleteHidesFromReads(t *testing.T) {
	f := newFixture(t, 10, 20)
	ctx := context.Background()
	st := f.createShowtime(t, 0)

	require.NoError(t, f.showtimes.Delete(ctx, st.ShowtimeID, nil))

	_, _, err := f.showtimes.Get(ctx, st.ShowtimeID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = f.showtimes.Availability(ctx, st.ShowtimeID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, _, err = f.showtimes.AdjustSeats(ctx, st.ShowtimeID, 1)
	assert.ErrorIs(t, err, ErrNotFound)
}
