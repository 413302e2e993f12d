// Package repository contains data access logic separated from HTTP handlers
// and services. Each entity gets its own repository type over *sql.DB; every
// read filters soft-deleted rows and every mutating write revalidates the row
// version it is replacing. This file defines sentinel errors shared across
// repositories so higher layers can classify failures with errors.Is.
package repository

import "errors"

// ErrNotFound is returned when a row does not exist or is soft-deleted.
var ErrNotFound = errors.New("not found")

// ErrStale is returned when an update-if-matches write affects no rows
// because another writer committed first. Services translate this into a
// precondition failure so the losing client can re-fetch and retry.
var ErrStale = errors.New("stale row version")

// ErrSeatCapacity is returned when a guarded seat-count update would push
// seats_booked outside [0, capacity].
var ErrSeatCapacity = errors.New("seat capacity exceeded")
