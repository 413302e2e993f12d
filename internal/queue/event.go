// Package queue defines message payloads exchanged over the message broker
// and the publisher that delivers them. Downstream consumers (search indexers,
// cache invalidators, the booking service) use these events to react to
// catalog changes without polling the primary database.
package queue

import "time"

// Resource change actions carried in ResourceEvent.Action.
const (
	ActionCreated  = "created"
	ActionUpdated  = "updated"
	ActionReplaced = "replaced"
	ActionDeleted  = "deleted"
)

// ResourceEvent is published after any successful mutation of a catalog
// entity. Resource is the collection name (cinemas, theatres, screens,
// showtimes).
type ResourceEvent struct {
	Resource   string    `json:"resource"`
	Action     string    `json:"action"`
	ID         string    `json:"id"`
	ETag       string    `json:"etag,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// SeatCountEvent is published when a showtime's booked-seat count changes
// through the seat-adjustment endpoint. It carries enough state for the
// booking service to reconcile availability without a follow-up query.
type SeatCountEvent struct {
	ShowtimeID  string    `json:"showtime_id"`
	ScreenID    string    `json:"screen_id"`
	Delta       int       `json:"delta"`
	SeatsBooked int       `json:"seats_booked"`
	TotalSeats  int       `json:"total_seats"`
	OccurredAt  time.Time `json:"occurred_at"`
}
