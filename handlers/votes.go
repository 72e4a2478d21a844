// Copyright (c) 2025 NH-SK-U22.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/NH-SK-U22/SKproject/middleware"
	"github.com/NH-SK-U22/SKproject/models"
	"github.com/NH-SK-U22/SKproject/realtime"
)

type VoteHandler struct {
	db  *sql.DB
	hub *realtime.Hub
}

func NewVoteHandler(db *sql.DB, hub *realtime.Hub) *VoteHandler {
	return &VoteHandler{db: db, hub: hub}
}

// CastVote handles POST /api/sticky/{id}/votes
//
// One ledger row per (sticky, voter). Re-voting replaces the previous tier
// rather than adding a second row, and the denormalized feedback counters
// on the sticky move in the same transaction so they never drift from the
// ledger.
func (h *VoteHandler) CastVote(w http.ResponseWriter, r *http.Request) {
	stickyID := r.PathValue("id")
	if stickyID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "id is required")
		return
	}

	var req models.CastVoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.VoterID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "voter_id is required")
		return
	}
	if !models.ValidTier(req.VoteType) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "vote_type must be A, B or C")
		return
	}

	tx, err := h.db.Begin()
	if err != nil {
		slog.Error("failed to begin transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer tx.Rollback()

	sticky, err := fetchSticky(tx, stickyID)
	if err != nil {
		domainErrorResponse(w, err)
		return
	}

	if sticky.StudentID == req.VoterID {
		domainErrorResponse(w, models.ErrSelfVote)
		return
	}

	// The voter's camp is frozen onto the ledger row, so a voter with no
	// camp cannot produce a scoreable row at all.
	var voterCamp sql.NullString
	err = tx.QueryRow(`
		SELECT camp_id FROM students WHERE student_id = $1
	`, req.VoterID).Scan(&voterCamp)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusBadRequest, "voter not found")
		return
	}
	if err != nil {
		slog.Error("failed to query voter", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if !voterCamp.Valid {
		domainErrorResponse(w, models.ErrCampNotSet)
		return
	}

	var previousTier string
	err = tx.QueryRow(`
		SELECT vote_type FROM sticky_votes WHERE sticky_id = $1 AND voter_id = $2
	`, stickyID, req.VoterID).Scan(&previousTier)

	switch {
	case err == sql.ErrNoRows:
		_, err = tx.Exec(`
			INSERT INTO sticky_votes (sticky_id, voter_id, voter_camp_id, vote_type, created_at)
			VALUES ($1, $2, $3, $4, $5)
		`, stickyID, req.VoterID, voterCamp.String, req.VoteType, time.Now())
		if isUniqueViolation(err) {
			// Lost a race with the voter's own concurrent first vote.
			domainErrorResponse(w, models.ErrConflict)
			return
		}
		if err == nil {
			err = adjustFeedback(tx, stickyID, req.VoteType, +1)
		}

	case err != nil:
		slog.Error("failed to query existing vote", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return

	case previousTier == req.VoteType:
		// Same tier again; counters are already right, only the ledger
		// timestamp moves.
		_, err = tx.Exec(`
			UPDATE sticky_votes SET created_at = $1
			WHERE sticky_id = $2 AND voter_id = $3
		`, time.Now(), stickyID, req.VoterID)

	default:
		_, err = tx.Exec(`
			UPDATE sticky_votes SET vote_type = $1, created_at = $2
			WHERE sticky_id = $3 AND voter_id = $4
		`, req.VoteType, time.Now(), stickyID, req.VoterID)
		if err == nil {
			err = adjustFeedback(tx, stickyID, previousTier, -1)
		}
		if err == nil {
			err = adjustFeedback(tx, stickyID, req.VoteType, +1)
		}
	}

	if err != nil {
		slog.Error("failed to record vote", "error", err, "sticky_id", stickyID, "voter_id", req.VoterID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to record vote")
		return
	}

	var resp models.CastVoteResponse
	resp.StickyID = stickyID
	err = tx.QueryRow(`
		SELECT feedback_a, feedback_b, feedback_c FROM sticky WHERE sticky_id = $1
	`, stickyID).Scan(&resp.FeedbackA, &resp.FeedbackB, &resp.FeedbackC)
	if err != nil {
		slog.Error("failed to read feedback counters", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if err := tx.Commit(); err != nil {
		slog.Error("failed to commit transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to record vote")
		return
	}

	h.hub.Broadcast(realtime.SchoolRoom(sticky.SchoolID), realtime.Event{
		Type:    realtime.EventFeedbackUpdated,
		Payload: resp,
	})

	slog.Info("vote recorded", "sticky_id", stickyID, "voter_id", req.VoterID, "vote_type", req.VoteType)

	middleware.JSONResponse(w, http.StatusOK, resp)
}

// VotesForNote handles GET /api/sticky/{id}/votes
func (h *VoteHandler) VotesForNote(w http.ResponseWriter, r *http.Request) {
	stickyID := r.PathValue("id")
	if stickyID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "id is required")
		return
	}

	if _, err := fetchSticky(h.db, stickyID); err != nil {
		domainErrorResponse(w, err)
		return
	}

	rows, err := h.db.Query(`
		SELECT v.sticky_id, v.voter_id, v.voter_camp_id, v.vote_type, v.created_at, st.name
		FROM sticky_votes v
		JOIN students st ON v.voter_id = st.student_id
		WHERE v.sticky_id = $1
		ORDER BY v.created_at
	`, stickyID)
	if err != nil {
		slog.Error("failed to query votes", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	votes := []models.VoteRecord{}
	for rows.Next() {
		var v models.VoteRecord
		if err := rows.Scan(&v.StickyID, &v.VoterID, &v.VoterCampID, &v.VoteType, &v.CreatedAt, &v.VoterName); err != nil {
			slog.Error("failed to scan vote", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		votes = append(votes, v)
	}
	if err := rows.Err(); err != nil {
		slog.Error("failed to iterate votes", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, votes)
}

// adjustFeedback moves one of a sticky's denormalized tier counters by
// delta. The arithmetic runs in SQL so concurrent votes cannot clobber
// each other's counts.
func adjustFeedback(q querier, stickyID, tier string, delta int) error {
	var column string
	switch tier {
	case models.TierA:
		column = "feedback_a"
	case models.TierB:
		column = "feedback_b"
	case models.TierC:
		column = "feedback_c"
	}
	_, err := q.Exec(
		"UPDATE sticky SET "+column+" = "+column+" + $1 WHERE sticky_id = $2",
		delta, stickyID)
	return err
}
