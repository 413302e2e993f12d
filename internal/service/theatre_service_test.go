package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Hamsitha-Challagundla/theatre-service/internal/repository"
)

func newTheatreFixture(t *testing.T) (*CinemaService, *TheatreService, string) {
	t.Helper()
	mem := repository.NewMemory()
	cinemas := NewCinemaService(mem.Cinemas(), nil)
	theatres := NewTheatreService(mem.Theatres(), mem.Cinemas(), nil)

	cinema, _, err := cinemas.Create(context.Background(), CinemaInput{Name: "Grand"}, nil)
	require.NoError(t, err)
	return cinemas, theatres, cinema.CinemaID
}

func TestTheatreCreateRequiresLiveCinema(t *testing.T) {
	_, theatres, _ := newTheatreFixture(t)

	_, _, err := theatres.Create(context.Background(), TheatreInput{
		CinemaID: "missing",
		Name:     "Main House",
		Address:  "1 Plaza Way",
	}, nil)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTheatreCreateRejectsDeletedCinema(t *testing.T) {
	cinemas, theatres, cinemaID := newTheatreFixture(t)
	ctx := context.Background()

	require.NoError(t, cinemas.Delete(ctx, cinemaID, nil))

	_, _, err := theatres.Create(ctx, TheatreInput{
		CinemaID: cinemaID,
		Name:     "Main House",
		Address:  "1 Plaza Way",
	}, nil)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTheatreValidation(t *testing.T) {
	_, theatres, cinemaID := newTheatreFixture(t)
	ctx := context.Background()

	cases := []TheatreInput{
		{CinemaID: cinemaID, Name: "", Address: "1 Plaza Way"},
		{CinemaID: cinemaID, Name: "Main House", Address: ""},
		{CinemaID: "", Name: "Main House", Address: "1 Plaza Way"},
		{CinemaID: cinemaID, Name: "Main House", Address: "1 Plaza Way", ScreenCount: -1},
	}
	for _, in := range cases {
		_, _, err := theatres.Create(ctx, in, nil)
		var ve *ValidationError
		assert.ErrorAs(t, err, &ve)
	}
}

func TestTheatreRepointToAnotherCinema(t *testing.T) {
	cinemas, theatres, cinemaID := newTheatreFixture(t)
	ctx := context.Background()

	theatre, tag, err := theatres.Create(ctx, TheatreInput{
		CinemaID: cinemaID,
		Name:     "Main House",
		Address:  "1 Plaza Way",
	}, nil)
	require.NoError(t, err)

	// Repointing to a cinema that does not exist fails.
	missing := "missing"
	_, _, err = theatres.Update(ctx, theatre.TheatreID, TheatrePatch{CinemaID: &missing}, &tag)
	assert.ErrorIs(t, err, ErrNotFound)

	// Repointing to a live cinema succeeds.
	other, _, err := cinemas.Create(ctx, CinemaInput{Name: "Riverside"}, nil)
	require.NoError(t, err)
	updated, _, err := theatres.Update(ctx, theatre.TheatreID, TheatrePatch{CinemaID: &other.CinemaID}, &tag)
	require.NoError(t, err)
	assert.Equal(t, other.CinemaID, updated.CinemaID)
}

func TestTheatreReplacePreconditionOutranksValidation(t *testing.T) {
	_, theatres, cinemaID := newTheatreFixture(t)
	ctx := context.Background()

	theatre, _, err := theatres.Create(ctx, TheatreInput{
		CinemaID: cinemaID,
		Name:     "Main House",
		Address:  "1 Plaza Way",
	}, nil)
	require.NoError(t, err)

	_, _, err = theatres.Replace(ctx, theatre.TheatreID, TheatreInput{}, nil)
	assert.ErrorIs(t, err, ErrPreconditionRequired)
}

func TestScreenReplacePreconditionOutranksValidation(t *testing.T) {
	_, theatres, cinemaID := newTheatreFixture(t)
	ctx := context.Background()

	theatre, _, err := theatres.Create(ctx, TheatreInput{
		CinemaID: cinemaID,
		Name:     "Main House",
		Address:  "1 Plaza Way",
	}, nil)
	require.NoError(t, err)

	screens := NewScreenService(repository.NewMemory().Screens(), theatres.store, nil)
	screen, _, err := screens.Create(ctx, ScreenInput{
		TheatreID:    theatre.TheatreID,
		ScreenNumber: 1,
		NumRows:      10,
		NumCols:      20,
	}, nil)
	require.NoError(t, err)

	_, _, err = screens.Replace(ctx, screen.ScreenID, ScreenInput{}, nil)
	assert.ErrorIs(t, err, ErrPreconditionRequired)
}

func TestScreenCreateRequiresLiveTheatre(t *testing.T) {
	mem := repository.NewMemory()
	screens := NewScreenService(mem.Screens(), mem.Theatres(), nil)

	_, _, err := screens.Create(context.Background(), ScreenInput{
		TheatreID:    "missing",
		ScreenNumber: 1,
		NumRows:      10,
		NumCols:      20,
	}, nil)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestScreenValidation(t *testing.T) {
	_, theatres, cinemaID := newTheatreFixture(t)
	ctx := context.Background()

	theatre, _, err := theatres.Create(ctx, TheatreInput{
		CinemaID: cinemaID,
		Name:     "Main House",
		Address:  "1 Plaza Way",
	}, nil)
	require.NoError(t, err)

	screens := NewScreenService(repository.NewMemory().Screens(), theatres.store, nil)

	cases := []ScreenInput{
		{TheatreID: theatre.TheatreID, ScreenNumber: 0, NumRows: 10, NumCols: 20},
		{TheatreID: theatre.TheatreID, ScreenNumber: 1, NumRows: 0, NumCols: 20},
		{TheatreID: theatre.TheatreID, ScreenNumber: 1, NumRows: 10, NumCols: 0},
		{TheatreID: "", ScreenNumber: 1, NumRows: 10, NumCols: 20},
	}
	for _, in := range cases {
		_, _, err := screens.Create(ctx, in, nil)
		var ve *ValidationError
		assert.ErrorAs(t, err, &ve)
	}
}
