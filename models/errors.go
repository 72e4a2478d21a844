// Copyright (c) 2025 NH-SK-U22.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "errors"

// Error taxonomy surfaced by the ledger and board store. Handlers map these
// to HTTP status codes; nothing is swallowed.
var (
	// ErrValidation marks a missing or malformed field, rejected before
	// any write.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound marks an absent target row.
	ErrNotFound = errors.New("not found")

	// ErrSelfVote is returned when a student votes on their own sticky.
	ErrSelfVote = errors.New("cannot vote on own sticky")

	// ErrCampNotSet is returned when a student without a camp assignment
	// tries to create a sticky or cast a vote.
	ErrCampNotSet = errors.New("student has no camp assigned")

	// ErrConflict marks a concurrent duplicate insert caught by a unique
	// constraint.
	ErrConflict = errors.New("conflict")
)
