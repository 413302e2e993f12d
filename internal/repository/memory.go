package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
)

// Memory is an in-memory implementation of the four entity stores. It mirrors
// the MySQL repositories exactly — central soft-delete filtering,
// update-if-matches on updated_at, guarded seat deltas — so the services and
// the conditional-request protocol can be exercised without a database.
// Per-entity views (Cinemas, Theatres, Screens, Showtimes) expose the same
// method sets as the corresponding *Repo types.
type Memory struct {
	mu        sync.Mutex
	cinemas   map[string]Cinema
	theatres  map[string]Theatre
	screens   map[string]Screen
	showtimes map[string]Showtime
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		cinemas:   make(map[string]Cinema),
		theatres:  make(map[string]Theatre),
		screens:   make(map[string]Screen),
		showtimes: make(map[string]Showtime),
	}
}

// Cinemas returns a view implementing the cinema store methods.
func (m *Memory) Cinemas() *MemoryCinemas { return &MemoryCinemas{m: m} }

// Theatres returns a view implementing the theatre store methods.
func (m *Memory) Theatres() *MemoryTheatres { return &MemoryTheatres{m: m} }

// Screens returns a view implementing the screen store methods.
func (m *Memory) Screens() *MemoryScreens { return &MemoryScreens{m: m} }

// Showtimes returns a view implementing the showtime store methods.
func (m *Memory) Showtimes() *MemoryShowtimes { return &MemoryShowtimes{m: m} }

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

// MemoryCinemas adapts Memory to the cinema store interface.
type MemoryCinemas struct{ m *Memory }

func (v *MemoryCinemas) Create(_ context.Context, c *Cinema) error {
	v.m.mu.Lock()
	defer v.m.mu.Unlock()
	v.m.cinemas[c.ID] = *c
	return nil
}

func (v *MemoryCinemas) GetByID(_ context.Context, id string) (*Cinema, error) {
	v.m.mu.Lock()
	defer v.m.mu.Unlock()
	c, ok := v.m.cinemas[id]
	if !ok || c.IsDeleted {
		return nil, ErrNotFound
	}
	out := c
	return &out, nil
}

func (v *MemoryCinemas) List(_ context.Context, f CinemaFilter) ([]*Cinema, error) {
	v.m.mu.Lock()
	defer v.m.mu.Unlock()
	var out []*Cinema
	for _, c := range v.m.cinemas {
		if c.IsDeleted {
			continue
		}
		if f.Name != "" && !containsFold(c.Name, f.Name) {
			continue
		}
		cc := c
		out = append(out, &cc)
	}
	sortByCreation(out, func(c *Cinema) (time.Time, string) { return c.CreatedAt, c.ID })
	return out, nil
}

func (v *MemoryCinemas) Update(_ context.Context, c *Cinema, expectedUpdatedAt time.Time) error {
	v.m.mu.Lock()
	defer v.m.mu.Unlock()
	cur, ok := v.m.cinemas[c.ID]
	if !ok || cur.IsDeleted {
		return ErrNotFound
	}
	if !cur.UpdatedAt.Equal(expectedUpdatedAt) {
		return ErrStale
	}
	v.m.cinemas[c.ID] = *c
	return nil
}

func (v *MemoryCinemas) SoftDelete(_ context.Context, id string, at time.Time) error {
	v.m.mu.Lock()
	defer v.m.mu.Unlock()
	cur, ok := v.m.cinemas[id]
	if !ok || cur.IsDeleted {
		return ErrNotFound
	}
	cur.IsDeleted = true
	cur.DeletedAt.Time, cur.DeletedAt.Valid = at, true
	cur.UpdatedAt = at
	v.m.cinemas[id] = cur
	return nil
}

// MemoryTheatres adapts Memory to the theatre store interface.
type MemoryTheatres struct{ m *Memory }

func (v *MemoryTheatres) Create(_ context.Context, t *Theatre) error {
	v.m.mu.Lock()
	defer v.m.mu.Unlock()
	v.m.theatres[t.ID] = *t
	return nil
}

func (v *MemoryTheatres) GetByID(_ context.Context, id string) (*Theatre, error) {
	v.m.mu.Lock()
	defer v.m.mu.Unlock()
	t, ok := v.m.theatres[id]
	if !ok || t.IsDeleted {
		return nil, ErrNotFound
	}
	out := t
	return &out, nil
}

func (v *MemoryTheatres) List(_ context.Context, f TheatreFilter) ([]*Theatre, error) {
	v.m.mu.Lock()
	defer v.m.mu.Unlock()
	var out []*Theatre
	for _, t := range v.m.theatres {
		if t.IsDeleted {
			continue
		}
		if f.CinemaID != "" && t.CinemaID != f.CinemaID {
			continue
		}
		if f.Name != "" && !containsFold(t.Name, f.Name) {
			continue
		}
		tt := t
		out = append(out, &tt)
	}
	sortByCreation(out, func(t *Theatre) (time.Time, string) { return t.CreatedAt, t.ID })
	return out, nil
}

func (v *MemoryTheatres) Update(_ context.Context, t *Theatre, expectedUpdatedAt time.Time) error {
	v.m.mu.Lock()
	defer v.m.mu.Unlock()
	cur, ok := v.m.theatres[t.ID]
	if !ok || cur.IsDeleted {
		return ErrNotFound
	}
	if !cur.UpdatedAt.Equal(expectedUpdatedAt) {
		return ErrStale
	}
	v.m.theatres[t.ID] = *t
	return nil
}

func (v *MemoryTheatres) SoftDelete(_ context.Context, id string, at time.Time) error {
	v.m.mu.Lock()
	defer v.m.mu.Unlock()
	cur, ok := v.m.theatres[id]
	if !ok || cur.IsDeleted {
		return ErrNotFound
	}
	cur.IsDeleted = true
	cur.DeletedAt.Time, cur.DeletedAt.Valid = at, true
	cur.UpdatedAt = at
	v.m.theatres[id] = cur
	return nil
}

// MemoryScreens adapts Memory to the screen store interface.
type MemoryScreens struct{ m *Memory }

func (v *MemoryScreens) Create(_ context.Context, s *Screen) error {
	v.m.mu.Lock()
	defer v.m.mu.Unlock()
	v.m.screens[s.ID] = *s
	return nil
}

func (v *MemoryScreens) GetByID(_ context.Context, id string) (*Screen, error) {
	v.m.mu.Lock()
	defer v.m.mu.Unlock()
	s, ok := v.m.screens[id]
	if !ok || s.IsDeleted {
		return nil, ErrNotFound
	}
	out := s
	return &out, nil
}

func (v *MemoryScreens) List(_ context.Context, f ScreenFilter) ([]*Screen, error) {
	v.m.mu.Lock()
	defer v.m.mu.Unlock()
	var out []*Screen
	for _, s := range v.m.screens {
		if s.IsDeleted {
			continue
		}
		if f.TheatreID != "" && s.TheatreID != f.TheatreID {
			continue
		}
		if f.ScreenNumber != nil && s.ScreenNumber != *f.ScreenNumber {
			continue
		}
		ss := s
		out = append(out, &ss)
	}
	sortByCreation(out, func(s *Screen) (time.Time, string) { return s.CreatedAt, s.ID })
	return out, nil
}

func (v *MemoryScreens) Update(_ context.Context, s *Screen, expectedUpdatedAt time.Time) error {
	v.m.mu.Lock()
	defer v.m.mu.Unlock()
	cur, ok := v.m.screens[s.ID]
	if !ok || cur.IsDeleted {
		return ErrNotFound
	}
	if !cur.UpdatedAt.Equal(expectedUpdatedAt) {
		return ErrStale
	}
	v.m.screens[s.ID] = *s
	return nil
}

func (v *MemoryScreens) SoftDelete(_ context.Context, id string, at time.Time) error {
	v.m.mu.Lock()
	defer v.m.mu.Unlock()
	cur, ok := v.m.screens[id]
	if !ok || cur.IsDeleted {
		return ErrNotFound
	}
	cur.IsDeleted = true
	cur.DeletedAt.Time, cur.DeletedAt.Valid = at, true
	cur.UpdatedAt = at
	v.m.screens[id] = cur
	return nil
}

// MemoryShowtimes adapts Memory to the showtime store interface.
type MemoryShowtimes struct{ m *Memory }

func (v *MemoryShowtimes) Create(_ context.Context, s *Showtime) error {
	v.m.mu.Lock()
	defer v.m.mu.Unlock()
	v.m.showtimes[s.ID] = *s
	return nil
}

func (v *MemoryShowtimes) GetByID(_ context.Context, id string) (*Showtime, error) {
	v.m.mu.Lock()
	defer v.m.mu.Unlock()
	s, ok := v.m.showtimes[id]
	if !ok || s.IsDeleted {
		return nil, ErrNotFound
	}
	out := s
	return &out, nil
}

func (v *MemoryShowtimes) List(_ context.Context, f ShowtimeFilter) ([]*Showtime, error) {
	v.m.mu.Lock()
	defer v.m.mu.Unlock()
	var out []*Showtime
	for _, s := range v.m.showtimes {
		if s.IsDeleted {
			continue
		}
		if f.ScreenID != "" && s.ScreenID != f.ScreenID {
			continue
		}
		if f.MovieID != "" && s.MovieID != f.MovieID {
			continue
		}
		if f.StartTimeAfter != nil && s.StartTime.Before(*f.StartTimeAfter) {
			continue
		}
		ss := s
		out = append(out, &ss)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].StartTime.Equal(out[j].StartTime) {
			return out[i].StartTime.Before(out[j].StartTime)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (v *MemoryShowtimes) Update(_ context.Context, s *Showtime, expectedUpdatedAt time.Time) error {
	v.m.mu.Lock()
	defer v.m.mu.Unlock()
	cur, ok := v.m.showtimes[s.ID]
	if !ok || cur.IsDeleted {
		return ErrNotFound
	}
	if !cur.UpdatedAt.Equal(expectedUpdatedAt) {
		return ErrStale
	}
	v.m.showtimes[s.ID] = *s
	return nil
}

func (v *MemoryShowtimes) AdjustSeats(_ context.Context, id string, delta, capacity int, at time.Time) (*Showtime, error) {
	v.m.mu.Lock()
	defer v.m.mu.Unlock()
	cur, ok := v.m.showtimes[id]
	if !ok || cur.IsDeleted {
		return nil, ErrNotFound
	}
	next := cur.SeatsBooked + delta
	if next < 0 || next > capacity {
		return nil, ErrSeatCapacity
	}
	cur.SeatsBooked = next
	cur.UpdatedAt = at
	v.m.showtimes[id] = cur
	out := cur
	return &out, nil
}

func (v *MemoryShowtimes) SoftDelete(_ context.Context, id string, at time.Time) error {
	v.m.mu.Lock()
	defer v.m.mu.Unlock()
	cur, ok := v.m.showtimes[id]
	if !ok || cur.IsDeleted {
		return ErrNotFound
	}
	cur.IsDeleted = true
	cur.DeletedAt.Time, cur.DeletedAt.Valid = at, true
	cur.UpdatedAt = at
	v.m.showtimes[id] = cur
	return nil
}

// sortByCreation orders rows by creation time then ID, matching the SQL
// repositories' ORDER BY.
func sortByCreation[T any](rows []*T, key func(*T) (time.Time, string)) {
	sort.Slice(rows, func(i, j int) bool {
		ti, idi := key(rows[i])
		tj, idj := key(rows[j])
		if !ti.Equal(tj) {
			return ti.Before(tj)
		}
		return idi < idj
	})
}
