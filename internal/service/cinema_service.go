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

// CinemaInput carries the full field set for create and replace.
type CinemaInput struct {
	Name string `json:"name"`
}

// CinemaPatch carries optional fields for partial update; nil means "leave
// unchanged".
type CinemaPatch struct {
	Name *string `json:"name"`
}

// CinemaService implements the cinema resource operations with the
// conditional-request protocol applied to every mutation.
type CinemaService struct {
	store  CinemaStore
	events EventPublisher
}

// NewCinemaService constructs a CinemaService. events may be nil to disable
// change-event publication.
func NewCinemaService(store CinemaStore, events EventPublisher) *CinemaService {
	return &CinemaService{store: store, events: events}
}

// List returns all live cinemas matching the filter.
func (s *CinemaService) List(ctx context.Context, f repository.CinemaFilter) ([]CinemaView, error) {
	rows, err := s.store.List(ctx, f)
	if err != nil {
		return nil, err
	}
	out := make([]CinemaView, 0, len(rows))
	for _, c := range rows {
		out = append(out, cinemaView(c))
	}
	return out, nil
}

// Get returns a cinema and its current entity tag.
func (s *CinemaService) Get(ctx context.Context, id string) (CinemaView, string, error) {
	c, err := s.store.GetByID(ctx, id)
	if err != nil {
		return CinemaView{}, "", wrapCinemaErr(err)
	}
	return tagged(cinemaView(c))
}

// Create inserts a new cinema and returns it with its initial tag.
func (s *CinemaService) Create(ctx context.Context, in CinemaInput, createdBy *string) (CinemaView, string, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return CinemaView{}, "", invalid("name is required")
	}
	now := nowUTC()
	c := &repository.Cinema{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
		CreatedBy: auditRef(createdBy),
	}
	if err := s.store.Create(ctx, c); err != nil {
		return CinemaView{}, "", err
	}
	view, tag, err := tagged(cinemaView(c))
	if err != nil {
		return CinemaView{}, "", err
	}
	s.notify(ctx, queue.ActionCreated, c.ID, tag)
	return view, tag, nil
}

// Update applies a partial update after validating the If-Match precondition
// against the cinema's current tag. A missing tag yields
// ErrPreconditionRequired, a stale one ErrPreconditionFailed; neither mutates.
func (s *CinemaService) Update(ctx context.Context, id string, patch CinemaPatch, ifMatch *string) (CinemaView, string, error) {
	cur, err := s.store.GetByID(ctx, id)
	if err != nil {
		return CinemaView{}, "", wrapCinemaErr(err)
	}
	curTag, err := etag.Compute(cinemaView(cur))
	if err != nil {
		return CinemaView{}, "", err
	}
	if err := checkPrecondition(ifMatch, curTag, true); err != nil {
		return CinemaView{}, "", err
	}

	next := *cur
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return CinemaView{}, "", invalid("name must not be empty")
		}
		next.Name = name
	}
	next.UpdatedAt = nowUTC()

	if err := s.store.Update(ctx, &next, cur.UpdatedAt); err != nil {
		return CinemaView{}, "", wrapCinemaErr(err)
	}
	view, tag, err := tagged(cinemaView(&next))
	if err != nil {
		return CinemaView{}, "", err
	}
	s.notify(ctx, queue.ActionUpdated, id, tag)
	return view, tag, nil
}

// Replace swaps the full field set, under the same precondition rules as
// Update.
func (s *CinemaService) Replace(ctx context.Context, id string, in CinemaInput, ifMatch *string) (CinemaView, string, error) {
	cur, err := s.store.GetByID(ctx, id)
	if err != nil {
		return CinemaView{}, "", wrapCinemaErr(err)
	}
	curTag, err := etag.Compute(cinemaView(cur))
	if err != nil {
		return CinemaView{}, "", err
	}
	// Precondition before payload: a missing or stale tag must answer
	// 428/412 even when the body would not validate.
	if err := checkPrecondition(ifMatch, curTag, true); err != nil {
		return CinemaView{}, "", err
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return CinemaView{}, "", invalid("name is required")
	}

	next := *cur
	next.Name = name
	next.UpdatedAt = nowUTC()

	if err := s.store.Update(ctx, &next, cur.UpdatedAt); err != nil {
		return CinemaView{}, "", wrapCinemaErr(err)
	}
	view, tag, err := tagged(cinemaView(&next))
	if err != nil {
		return CinemaView{}, "", err
	}
	s.notify(ctx, queue.ActionReplaced, id, tag)
	return view, tag, nil
}

// Delete soft-deletes a cinema. The If-Match tag is optional here; when
// supplied it must match the current tag or the delete is rejected.
func (s *CinemaService) Delete(ctx context.Context, id string, ifMatch *string) error {
	cur, err := s.store.GetByID(ctx, id)
	if err != nil {
		return wrapCinemaErr(err)
	}
	curTag, err := etag.Compute(cinemaView(cur))
	if err != nil {
		return err
	}
	if err := checkPrecondition(ifMatch, curTag, false); err != nil {
		return err
	}
	if err := s.store.SoftDelete(ctx, id, nowUTC()); err != nil {
		return wrapCinemaErr(err)
	}
	s.notify(ctx, queue.ActionDeleted, id, "")
	return nil
}

func (s *CinemaService) notify(ctx context.Context, action, id, tag string) {
	if s.events == nil {
		return
	}
	_ = s.events.Publish(ctx, catalogQueue, queue.ResourceEvent{
		Resource:   "cinemas",
		Action:     action,
		ID:         id,
		ETag:       tag,
		OccurredAt: nowUTC(),
	})
}

// wrapCinemaErr converts store sentinels into the service taxonomy.
func wrapCinemaErr(err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return fmt.Errorf("cinema %w", ErrNotFound)
	case errors.Is(err, repository.ErrStale):
		return ErrPreconditionFailed
	default:
		return err
	}
}

// tagged pairs a view with its freshly computed entity tag.
func tagged[V any](view V) (V, string, error) {
	tag, err := etag.Compute(view)
	if err != nil {
		var zero V
		return zero, "", err
	}
	return view, tag, nil
}
