// Package service implements the resource services: per-entity CRUD flows,
// the conditional-request (ETag precondition) state machine, referential
// invariants, and the seat-capacity rule. Services work against store
// interfaces so the whole protocol is testable against the in-memory store.
//
// This file defines the client-facing error taxonomy. Handlers translate it
// into HTTP statuses: not found -> 404, precondition required -> 428,
// precondition failed -> 412, validation -> 400, anything else -> 500.
package service

import (
	"errors"
	"fmt"
)

// ErrNotFound marks an entity that is absent or soft-deleted. Services wrap
// it with the resource name, e.g. fmt.Errorf("cinema %w", ErrNotFound).
var ErrNotFound = errors.New("not found")

// ErrPreconditionRequired is returned when a PATCH or PUT arrives without an
// If-Match entity tag.
var ErrPreconditionRequired = errors.New("precondition required: missing If-Match")

// ErrPreconditionFailed is returned when the supplied entity tag does not
// match the resource's current tag. The mutation was not applied; the client
// should re-fetch and retry.
var ErrPreconditionFailed = errors.New("precondition failed: entity tag mismatch")

// ValidationError reports malformed or out-of-range input, including seat
// deltas that would violate the screen's capacity.
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string { return e.msg }

// invalid builds a ValidationError from a format string.
func invalid(format string, args ...any) *ValidationError {
	return &ValidationError{msg: fmt.Sprintf(format, args...)}
}

// checkPrecondition validates the client-supplied entity tag against the
// resource's current tag. required marks operations that must carry a tag
// (PATCH/PUT); DELETE passes false so an absent tag is accepted. A mismatch
// is always fatal and non-mutating.
func checkPrecondition(ifMatch *string, current string, required bool) error {
	if ifMatch == nil {
		if required {
			return ErrPreconditionRequired
		}
		return nil
	}
	if *ifMatch != current {
		return ErrPreconditionFailed
	}
	return nil
}
