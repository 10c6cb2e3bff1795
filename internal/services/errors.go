// Package services defines the business logic of the duplicate detection &
// merge engine. This file centralizes common service-level error values so
// that they can be consistently returned by service methods and checked by
// callers.
//
// These errors are intended for internal use by the service layer and
// translation into user-facing messages or HTTP status codes should be
// performed at the handler/controller layer.
package services

import "errors"

var (
	// ErrUnknownEntityType is returned when a request names an entity type
	// that is not mergeable (anything other than contacts or companies).
	ErrUnknownEntityType = errors.New("unknown entity type")

	// ErrInvalidThreshold is returned when an explicit similarity threshold
	// falls outside the 0–100 range.
	ErrInvalidThreshold = errors.New("similarity threshold must be between 0 and 100")

	// ErrSameRecord is returned when a merge or preview names the same id as
	// both survivor and loser.
	ErrSameRecord = errors.New("survivor and loser must be different records")

	// ErrRecordNotFound indicates that an id does not resolve to an active
	// record of the requested tenant and entity type. A second merge of an
	// already-consumed loser fails with this error by design.
	ErrRecordNotFound = errors.New("record not found")

	// ErrInvalidFieldSelection is returned when a merge's field selections
	// name a field that is not mergeable for the entity type. Detected before
	// any mutation.
	ErrInvalidFieldSelection = errors.New("field selection names an unknown field")

	// ErrMergeConflict is returned when a record became inactive between the
	// caller's preview and the merge itself. Safe to retry after re-fetching
	// fresh state.
	ErrMergeConflict = errors.New("record changed since preview")

	// ErrMergeFailed is the generic error surfaced for infrastructure-level
	// failures during the merge transaction. The underlying cause is logged
	// with full context; nothing is partially applied.
	ErrMergeFailed = errors.New("merge transaction failed")
)
