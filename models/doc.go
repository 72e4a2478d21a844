// Copyright (c) 2025 NH-SK-U22.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Domain Types

  - Student: identity, school, mutable camp assignment, point balances
  - Theme: a bounded debate round with start/end and cached final scores
  - Camp: one side of a theme; is_winner is stamped at closure
  - Sticky: a posted note with frozen author_camp_id and tier counters
  - VoteRecord: one ledger row per (voter, sticky) with frozen voter_camp_id
  - Message: sticky-room chat message with its own tier counters
  - PointHistory: append-only per-student snapshot taken at round closure
  - CampScore: scoring engine output for one camp

# Frozen Camp Fields

Sticky.AuthorCampID and VoteRecord.VoterCampID are denormalized copies made
at write time. They keep historical scoring stable even if the student later
changes camp or has it cleared between rounds. The scoring engine resolves
legacy logical values ("1"/"2") positionally against the theme's camps.

# Error Taxonomy

ErrValidation, ErrNotFound, ErrSelfVote, ErrCampNotSet, and ErrConflict live
in errors.go. Handlers translate these into HTTP responses via
middleware.ErrorResponse.
*/
package models
