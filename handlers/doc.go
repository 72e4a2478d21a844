// Copyright (c) 2025 NH-SK-U22.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package handlers implements the HTTP surface of the debate board: sticky
// CRUD, the vote ledger, camp scoring, themes and their closure, student
// enrollment and points, and sticky-room chat.
//
// Handlers write through database/sql transactions and publish realtime
// events only after commit. Camp attribution is frozen at action time
// (sticky.author_camp_id, sticky_votes.voter_camp_id); later enrollment
// changes never rewrite history.
package handlers
