package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/Hamsitha-Challagundla/theatre-service/internal/etag"
	"github.com/Hamsitha-Challagundla/theatre-service/internal/queue"
	"github.com/Hamsitha-Challagundla/theatre-service/internal/repository"
)

// TheatreInput carries the full field set for create and replace.
type TheatreInput struct {
	CinemaID    string `json:"cinema_id"`
	Name        string `json:"name"`
	Address     string `json:"address"`
	ScreenCount int    `json:"screen_count"`
}

// TheatrePatch carries optional fields for partial update.
type TheatrePatch struct {
	CinemaID    *string `json:"cinema_id"`
	Name        *string `json:"name"`
	Address     *string `json:"address"`
	ScreenCount *int    `json:"screen_count"`
}

// TheatreService implements the theatre resource operations. It holds the
// cinema store as well, to enforce that a theatre always references a live
// cinema.
type TheatreService struct {
	store   TheatreStore
	cinemas CinemaStore
	events  EventPublisher
}

// NewTheatreService constructs a TheatreService.
func NewTheatreService(store TheatreStore, cinemas CinemaStore, events EventPublisher) *TheatreService {
	return &TheatreService{store: store, cinemas: cinemas, events: events}
}

// List returns all live theatres matching the filter.
func (s *TheatreService) List(ctx context.Context, f repository.TheatreFilter) ([]TheatreView, error) {
	rows, err := s.store.List(ctx, f)
	if err != nil {
		return nil, err
	}
	out := make([]TheatreView, 0, len(rows))
	for _, t := range rows {
		out = append(out, theatreView(t))
	}
	return out, nil
}

// Get returns a theatre and its current entity tag.
func (s *TheatreService) Get(ctx context.Context, id string) (TheatreView, string, error) {
	t, err := s.store.GetByID(ctx, id)
	if err != nil {
		return TheatreView{}, "", wrapTheatreErr(err)
	}
	return tagged(theatreView(t))
}

// Create inserts a new theatre after verifying its owning cinema is live.
func (s *TheatreService) Create(ctx context.Context, in TheatreInput, createdBy *string) (TheatreView, string, error) {
	if err := s.validateInput(&in); err != nil {
		return TheatreView{}, "", err
	}
	if err := s.requireCinema(ctx, in.CinemaID); err != nil {
		return TheatreView{}, "", err
	}
	now := nowUTC()
	t := &repository.Theatre{
		ID:          uuid.NewString(),
		CinemaID:    in.CinemaID,
		Name:        in.Name,
		Address:     in.Address,
		ScreenCount: in.ScreenCount,
		CreatedAt:   now,
		UpdatedAt:   now,
		CreatedBy:   auditRef(createdBy),
	}
	if err := s.store.Create(ctx, t); err != nil {
		return TheatreView{}, "", err
	}
	view, tag, err := tagged(theatreView(t))
	if err != nil {
		return TheatreView{}, "", err
	}
	s.notify(ctx, queue.ActionCreated, t.ID, tag)
	return view, tag, nil
}

// Update applies a partial update under the If-Match precondition. Changing
// cinema_id re-checks that the new cinema is live.
func (s *TheatreService) Update(ctx context.Context, id string, patch TheatrePatch, ifMatch *string) (TheatreView, string, error) {
	cur, err := s.store.GetByID(ctx, id)
	if err != nil {
		return TheatreView{}, "", wrapTheatreErr(err)
	}
	curTag, err := etag.Compute(theatreView(cur))
	if err != nil {
		return TheatreView{}, "", err
	}
	if err := checkPrecondition(ifMatch, curTag, true); err != nil {
		return TheatreView{}, "", err
	}

	next := *cur
	if patch.CinemaID != nil {
		if err := s.requireCinema(ctx, *patch.CinemaID); err != nil {
			return TheatreView{}, "", err
		}
		next.CinemaID = *patch.CinemaID
	}
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return TheatreView{}, "", invalid("name must not be empty")
		}
		next.Name = name
	}
	if patch.Address != nil {
		addr := strings.TrimSpace(*patch.Address)
		if addr == "" {
			return TheatreView{}, "", invalid("address must not be empty")
		}
		next.Address = addr
	}
	if patch.ScreenCount != nil {
		if *patch.ScreenCount < 0 {
			return TheatreView{}, "", invalid("screen_count must not be negative")
		}
		next.ScreenCount = *patch.ScreenCount
	}
	next.UpdatedAt = nowUTC()

	if err := s.store.Update(ctx, &next, cur.UpdatedAt); err != nil {
		return TheatreView{}, "", wrapTheatreErr(err)
	}
	view, tag, err := tagged(theatreView(&next))
	if err != nil {
		return TheatreView{}, "", err
	}
	s.notify(ctx, queue.ActionUpdated, id, tag)
	return view, tag, nil
}

// Replace swaps the full field set under the If-Match precondition.
func (s *TheatreService) Replace(ctx context.Context, id string, in TheatreInput, ifMatch *string) (TheatreView, string, error) {
	cur, err := s.store.GetByID(ctx, id)
	if err != nil {
		return TheatreView{}, "", wrapTheatreErr(err)
	}
	curTag, err := etag.Compute(theatreView(cur))
	if err != nil {
		return TheatreView{}, "", err
	}
	// Precondition before payload: a missing or stale tag must answer
	// 428/412 even when the body would not validate.
	if err := checkPrecondition(ifMatch, curTag, true); err != nil {
		return TheatreView{}, "", err
	}
	if err := s.validateInput(&in); err != nil {
		return TheatreView{}, "", err
	}
	if err := s.requireCinema(ctx, in.CinemaID); err != nil {
		return TheatreView{}, "", err
	}

	next := *cur
	next.CinemaID = in.CinemaID
	next.Name = in.Name
	next.Address = in.Address
	next.ScreenCount = in.ScreenCount
	next.UpdatedAt = nowUTC()

	if err := s.store.Update(ctx, &next, cur.UpdatedAt); err != nil {
		return TheatreView{}, "", wrapTheatreErr(err)
	}
	view, tag, err := tagged(theatreView(&next))
	if err != nil {
		return TheatreView{}, "", err
	}
	s.notify(ctx, queue.ActionReplaced, id, tag)
	return view, tag, nil
}

// Delete soft-deletes a theatre; If-Match is optional but checked if present.
func (s *TheatreService) Delete(ctx context.Context, id string, ifMatch *string) error {
	cur, err := s.store.GetByID(ctx, id)
	if err != nil {
		return wrapTheatreErr(err)
	}
	curTag, err := etag.Compute(theatreView(cur))
	if err != nil {
		return err
	}
	if err := checkPrecondition(ifMatch, curTag, false); err != nil {
		return err
	}
	if err := s.store.SoftDelete(ctx, id, nowUTC()); err != nil {
		return wrapTheatreErr(err)
	}
	s.notify(ctx, queue.ActionDeleted, id, "")
	return nil
}

func (s *TheatreService) validateInput(in *TheatreInput) error {
	in.Name = strings.TrimSpace(in.Name)
	in.Address = strings.TrimSpace(in.Address)
	in.CinemaID = strings.TrimSpace(in.CinemaID)
	switch {
	case in.Name == "":
		return invalid("name is required")
	case in.Address == "":
		return invalid("address is required")
	case in.CinemaID == "":
		return invalid("cinema_id is required")
	case in.ScreenCount < 0:
		return invalid("screen_count must not be negative")
	}
	return nil
}

// requireCinema checks the ownership invariant: the referenced cinema must
// exist and not be soft-deleted.
func (s *TheatreService) requireCinema(ctx context.Context, cinemaID string) error {
	if _, err := s.cinemas.GetByID(ctx, cinemaID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("cinema %s %w", cinemaID, ErrNotFound)
		}
		return err
	}
	return nil
}

func (s *TheatreService) notify(ctx context.Context, action, id, tag string) {
	if s.events == nil {
		return
	}
	_ = s.events.Publish(ctx, catalogQueue, queue.ResourceEvent{
		Resource:   "theatres",
		Action:     action,
		ID:         id,
		ETag:       tag,
		OccurredAt: nowUTC(),
	})
}

func wrapTheatreErr(err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return fmt.Errorf("theatre %w", ErrNotFound)
	case errors.Is(err, repository.ErrStale):
		return ErrPreconditionFailed
	default:
		return err
	}
}
