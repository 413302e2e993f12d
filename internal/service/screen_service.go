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

// ScreenInput carries the full field set for create and replace.
type ScreenInput struct {
	TheatreID    string `json:"theatre_id"`
	ScreenNumber int    `json:"screen_number"`
	NumRows      int    `json:"num_rows"`
	NumCols      int    `json:"num_cols"`
}

// ScreenPatch carries optional fields for partial update.
type ScreenPatch struct {
	TheatreID    *string `json:"theatre_id"`
	ScreenNumber *int    `json:"screen_number"`
	NumRows      *int    `json:"num_rows"`
	NumCols      *int    `json:"num_cols"`
}

// ScreenService implements the screen resource operations and enforces that
// a screen always references a live theatre.
type ScreenService struct {
	store    ScreenStore
	theatres TheatreStore
	events   EventPublisher
}

// NewScreenService constructs a ScreenService.
func NewScreenService(store ScreenStore, theatres TheatreStore, events EventPublisher) *ScreenService {
	return &ScreenService{store: store, theatres: theatres, events: events}
}

// List returns all live screens matching the filter.
func (s *ScreenService) List(ctx context.Context, f repository.ScreenFilter) ([]ScreenView, error) {
	rows, err := s.store.List(ctx, f)
	if err != nil {
		return nil, err
	}
	out := make([]ScreenView, 0, len(rows))
	for _, sc := range rows {
		out = append(out, screenView(sc))
	}
	return out, nil
}

// Get returns a screen and its current entity tag.
func (s *ScreenService) Get(ctx context.Context, id string) (ScreenView, string, error) {
	sc, err := s.store.GetByID(ctx, id)
	if err != nil {
		return ScreenView{}, "", wrapScreenErr(err)
	}
	return tagged(screenView(sc))
}

// Create inserts a new screen after verifying its theatre is live.
func (s *ScreenService) Create(ctx context.Context, in ScreenInput, createdBy *string) (ScreenView, string, error) {
	if err := s.validateInput(&in); err != nil {
		return ScreenView{}, "", err
	}
	if err := s.requireTheatre(ctx, in.TheatreID); err != nil {
		return ScreenView{}, "", err
	}
	now := nowUTC()
	sc := &repository.Screen{
		ID:           uuid.NewString(),
		TheatreID:    in.TheatreID,
		ScreenNumber: in.ScreenNumber,
		NumRows:      in.NumRows,
		NumCols:      in.NumCols,
		CreatedAt:    now,
		UpdatedAt:    now,
		CreatedBy:    auditRef(createdBy),
	}
	if err := s.store.Create(ctx, sc); err != nil {
		return ScreenView{}, "", err
	}
	view, tag, err := tagged(screenView(sc))
	if err != nil {
		return ScreenView{}, "", err
	}
	s.notify(ctx, queue.ActionCreated, sc.ID, tag)
	return view, tag, nil
}

// Update applies a partial update under the If-Match precondition.
func (s *ScreenService) Update(ctx context.Context, id string, patch ScreenPatch, ifMatch *string) (ScreenView, string, error) {
	cur, err := s.store.GetByID(ctx, id)
	if err != nil {
		return ScreenView{}, "", wrapScreenErr(err)
	}
	curTag, err := etag.Compute(screenView(cur))
	if err != nil {
		return ScreenView{}, "", err
	}
	if err := checkPrecondition(ifMatch, curTag, true); err != nil {
		return ScreenView{}, "", err
	}

	next := *cur
	if patch.TheatreID != nil {
		if err := s.requireTheatre(ctx, *patch.TheatreID); err != nil {
			return ScreenView{}, "", err
		}
		next.TheatreID = *patch.TheatreID
	}
	if patch.ScreenNumber != nil {
		if *patch.ScreenNumber < 1 {
			return ScreenView{}, "", invalid("screen_number must be positive")
		}
		next.ScreenNumber = *patch.ScreenNumber
	}
	if patch.NumRows != nil {
		if *patch.NumRows < 1 {
			return ScreenView{}, "", invalid("num_rows must be positive")
		}
		next.NumRows = *patch.NumRows
	}
	if patch.NumCols != nil {
		if *patch.NumCols < 1 {
			return ScreenView{}, "", invalid("num_cols must be positive")
		}
		next.NumCols = *patch.NumCols
	}
	next.UpdatedAt = nowUTC()

	if err := s.store.Update(ctx, &next, cur.UpdatedAt); err != nil {
		return ScreenView{}, "", wrapScreenErr(err)
	}
	view, tag, err := tagged(screenView(&next))
	if err != nil {
		return ScreenView{}, "", err
	}
	s.notify(ctx, queue.ActionUpdated, id, tag)
	return view, tag, nil
}

// Replace swaps the full field set under the If-Match precondition.
func (s *ScreenService) Replace(ctx context.Context, id string, in ScreenInput, ifMatch *string) (ScreenView, string, error) {
	cur, err := s.store.GetByID(ctx, id)
	if err != nil {
		return ScreenView{}, "", wrapScreenErr(err)
	}
	curTag, err := etag.Compute(screenView(cur))
	if err != nil {
		return ScreenView{}, "", err
	}
	// Precondition before payload: a missing or stale tag must answer
	// 428/412 even when the body would not validate.
	if err := checkPrecondition(ifMatch, curTag, true); err != nil {
		return ScreenView{}, "", err
	}
	if err := s.validateInput(&in); err != nil {
		return ScreenView{}, "", err
	}
	if err := s.requireTheatre(ctx, in.TheatreID); err != nil {
		return ScreenView{}, "", err
	}

	next := *cur
	next.TheatreID = in.TheatreID
	next.ScreenNumber = in.ScreenNumber
	next.NumRows = in.NumRows
	next.NumCols = in.NumCols
	next.UpdatedAt = nowUTC()

	if err := s.store.Update(ctx, &next, cur.UpdatedAt); err != nil {
		return ScreenView{}, "", wrapScreenErr(err)
	}
	view, tag, err := tagged(screenView(&next))
	if err != nil {
		return ScreenView{}, "", err
	}
	s.notify(ctx, queue.ActionReplaced, id, tag)
	return view, tag, nil
}

// Delete soft-deletes a screen; If-Match is optional but checked if present.
func (s *ScreenService) Delete(ctx context.Context, id string, ifMatch *string) error {
	cur, err := s.store.GetByID(ctx, id)
	if err != nil {
		return wrapScreenErr(err)
	}
	curTag, err := etag.Compute(screenView(cur))
	if err != nil {
		return err
	}
	if err := checkPrecondition(ifMatch, curTag, false); err != nil {
		return err
	}
	if err := s.store.SoftDelete(ctx, id, nowUTC()); err != nil {
		return wrapScreenErr(err)
	}
	s.notify(ctx, queue.ActionDeleted, id, "")
	return nil
}

func (s *ScreenService) validateInput(in *ScreenInput) error {
	in.TheatreID = strings.TrimSpace(in.TheatreID)
	switch {
	case in.TheatreID == "":
		return invalid("theatre_id is required")
	case in.ScreenNumber < 1:
		return invalid("screen_number must be positive")
	case in.NumRows < 1:
		return invalid("num_rows must be positive")
	case in.NumCols < 1:
		return invalid("num_cols must be positive")
	}
	return nil
}

// requireTheatre checks the ownership invariant: the referenced theatre must
// exist and not be soft-deleted.
func (s *ScreenService) requireTheatre(ctx context.Context, theatreID string) error {
	if _, err := s.theatres.GetByID(ctx, theatreID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("theatre %s %w", theatreID, ErrNotFound)
		}
		return err
	}
	return nil
}

func (s *ScreenService) notify(ctx context.Context, action, id, tag string) {
	if s.events == nil {
		return
	}
	_ = s.events.Publish(ctx, catalogQueue, queue.ResourceEvent{
		Resource:   "screens",
		Action:     action,
		ID:         id,
		ETag:       tag,
		OccurredAt: nowUTC(),
	})
}

func wrapScreenErr(err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return fmt.Errorf("screen %w", ErrNotFound)
	case errors.Is(err, repository.ErrStale):
		return ErrPreconditionFailed
	default:
		return err
	}
}
