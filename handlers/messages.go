// Copyright (c) 2025 NH-SK-U22.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/NH-SK-U22/SKproject/ids"
	"github.com/NH-SK-U22/SKproject/middleware"
	"github.com/NH-SK-U22/SKproject/models"
	"github.com/NH-SK-U22/SKproject/realtime"
)

type MessageHandler struct {
	db  *sql.DB
	hub *realtime.Hub
}

func NewMessageHandler(db *sql.DB, hub *realtime.Hub) *MessageHandler {
	return &MessageHandler{db: db, hub: hub}
}

// CreateMessage handles POST /api/message
func (h *MessageHandler) CreateMessage(w http.ResponseWriter, r *http.Request) {
	var req models.CreateMessageRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.StudentID == "" || req.StickyID == "" || req.MessageContent == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "student_id, sticky_id and message_content are required")
		return
	}

	if _, err := fetchSticky(h.db, req.StickyID); err != nil {
		domainErrorResponse(w, err)
		return
	}

	messageID, err := ids.New(16)
	if err != nil {
		slog.Error("failed to generate message id", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create message")
		return
	}

	_, err = h.db.Exec(`
		INSERT INTO messages (message_id, sticky_id, student_id, camp_id, message_content, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, messageID, req.StickyID, req.StudentID, req.CampID, req.MessageContent, time.Now())
	if err != nil {
		slog.Error("failed to insert message", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create message")
		return
	}

	message, err := fetchMessage(h.db, messageID)
	if err != nil {
		slog.Error("failed to load created message", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	h.hub.Broadcast(realtime.StickyRoom(req.StickyID), realtime.Event{
		Type:    realtime.EventMessageSent,
		Payload: message,
	})

	slog.Info("message created", "message_id", messageID, "sticky_id", req.StickyID)

	middleware.JSONResponse(w, http.StatusCreated, message)
}

// ListMessages handles GET /api/message/sticky/{id}?voter_id=
//
// When voter_id is given, each message carries that voter's own vote so
// the chat UI can render its reaction state without a second request.
func (h *MessageHandler) ListMessages(w http.ResponseWriter, r *http.Request) {
	stickyID := r.PathValue("id")
	voterID := r.URL.Query().Get("voter_id")

	if _, err := fetchSticky(h.db, stickyID); err != nil {
		domainErrorResponse(w, err)
		return
	}

	rows, err := h.db.Query(`
		SELECT m.message_id, m.sticky_id, m.student_id, m.camp_id, m.message_content,
		       m.feedback_a, m.feedback_b, m.feedback_c, m.created_at, st.name,
		       mv.vote_type
		FROM messages m
		JOIN students st ON m.student_id = st.student_id
		LEFT JOIN message_votes mv ON mv.message_id = m.message_id AND mv.voter_id = $1
		WHERE m.sticky_id = $2
		ORDER BY m.created_at
	`, voterID, stickyID)
	if err != nil {
		slog.Error("failed to query messages", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	messages := []models.Message{}
	for rows.Next() {
		var m models.Message
		if err := rows.Scan(
			&m.ID, &m.StickyID, &m.StudentID, &m.CampID, &m.MessageContent,
			&m.FeedbackA, &m.FeedbackB, &m.FeedbackC, &m.CreatedAt, &m.StudentName,
			&m.UserVoteType,
		); err != nil {
			slog.Error("failed to scan message", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		slog.Error("failed to iterate messages", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, struct {
		Messages     []models.Message `json:"messages"`
		MessageCount int              `json:"message_count"`
	}{messages, len(messages)})
}

// RoomVote handles POST /api/room-vote
//
// Unlike sticky feedback counters, message counters are recounted from the
// message_votes ledger after every change instead of being adjusted
// incrementally.
func (h *MessageHandler) RoomVote(w http.ResponseWriter, r *http.Request) {
	var req models.RoomVoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.MessageID == "" || req.VoterID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "message_id and voter_id are required")
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

	if _, err := fetchMessage(tx, req.MessageID); err != nil {
		domainErrorResponse(w, err)
		return
	}

	result, err := tx.Exec(`
		UPDATE message_votes SET vote_type = $1, created_at = $2
		WHERE message_id = $3 AND voter_id = $4
	`, req.VoteType, time.Now(), req.MessageID, req.VoterID)
	if err != nil {
		slog.Error("failed to update message vote", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to record vote")
		return
	}
	affected, _ := result.RowsAffected()
	if affected == 0 {
		_, err = tx.Exec(`
			INSERT INTO message_votes (message_id, voter_id, vote_type, created_at)
			VALUES ($1, $2, $3, $4)
		`, req.MessageID, req.VoterID, req.VoteType, time.Now())
		if isUniqueViolation(err) {
			domainErrorResponse(w, models.ErrConflict)
			return
		}
		if err != nil {
			slog.Error("failed to insert message vote", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to record vote")
			return
		}
	}

	_, err = tx.Exec(`
		UPDATE messages SET
			feedback_a = (SELECT COUNT(*) FROM message_votes WHERE message_id = $1 AND vote_type = 'A'),
			feedback_b = (SELECT COUNT(*) FROM message_votes WHERE message_id = $2 AND vote_type = 'B'),
			feedback_c = (SELECT COUNT(*) FROM message_votes WHERE message_id = $3 AND vote_type = 'C')
		WHERE message_id = $4
	`, req.MessageID, req.MessageID, req.MessageID, req.MessageID)
	if err != nil {
		slog.Error("failed to recount message votes", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to record vote")
		return
	}

	message, err := fetchMessage(tx, req.MessageID)
	if err != nil {
		slog.Error("failed to load message after recount", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if err := tx.Commit(); err != nil {
		slog.Error("failed to commit transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to record vote")
		return
	}

	h.hub.Broadcast(realtime.StickyRoom(message.StickyID), realtime.Event{
		Type:    realtime.EventMessageUpdated,
		Payload: message,
	})

	slog.Info("message vote recorded", "message_id", req.MessageID, "voter_id", req.VoterID, "vote_type", req.VoteType)

	middleware.JSONResponse(w, http.StatusOK, message)
}
