// Copyright (c) 2025 NH-SK-U22.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/NH-SK-U22/SKproject/ids"
	"github.com/NH-SK-U22/SKproject/middleware"
	"github.com/NH-SK-U22/SKproject/models"
	"github.com/NH-SK-U22/SKproject/realtime"
)

type BoardHandler struct {
	db  *sql.DB
	hub *realtime.Hub
}

func NewBoardHandler(db *sql.DB, hub *realtime.Hub) *BoardHandler {
	return &BoardHandler{db: db, hub: hub}
}

// CreateSticky handles POST /api/sticky
func (h *BoardHandler) CreateSticky(w http.ResponseWriter, r *http.Request) {
	var req models.CreateStickyRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.StudentID == "" || req.StickyContent == "" || req.StickyColor == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "student_id, sticky_content and sticky_color are required")
		return
	}

	tx, err := h.db.Begin()
	if err != nil {
		slog.Error("failed to begin transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer tx.Rollback()

	// A sticky cannot exist without attribution to a side, so the author's
	// camp is frozen onto the row here.
	var campID sql.NullString
	var schoolID string
	err = tx.QueryRow(`
		SELECT camp_id, school_id FROM students WHERE student_id = $1
	`, req.StudentID).Scan(&campID, &schoolID)

	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusBadRequest, "student not found")
		return
	}
	if err != nil {
		slog.Error("failed to query student", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if !campID.Valid {
		domainErrorResponse(w, models.ErrCampNotSet)
		return
	}

	// Next display index for this school: max + 1. Deleted stickies leave
	// gaps; indexes are never renumbered or reused.
	var maxIndex int
	err = tx.QueryRow(`
		SELECT COALESCE(MAX(s.display_index), 0)
		FROM sticky s
		JOIN students st ON s.student_id = st.student_id
		WHERE st.school_id = $1
	`, schoolID).Scan(&maxIndex)
	if err != nil {
		slog.Error("failed to query display index", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	stickyID, err := ids.New(16)
	if err != nil {
		slog.Error("failed to generate sticky id", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create sticky")
		return
	}
	_, err = tx.Exec(`
		INSERT INTO sticky (sticky_id, student_id, author_camp_id, sticky_content, sticky_color,
		                    x_axis, y_axis, display_index, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, stickyID, req.StudentID, campID.String, req.StickyContent, req.StickyColor,
		req.XAxis, req.YAxis, maxIndex+1, time.Now())
	if err != nil {
		slog.Error("failed to insert sticky", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create sticky")
		return
	}

	sticky, err := fetchSticky(tx, stickyID)
	if err != nil {
		slog.Error("failed to load created sticky", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if err := tx.Commit(); err != nil {
		slog.Error("failed to commit transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create sticky")
		return
	}

	// Emit only after the transaction commits so a client that reacts to
	// the event always re-reads consistent state.
	h.hub.Broadcast(realtime.SchoolRoom(sticky.SchoolID), realtime.Event{
		Type:    realtime.EventStickyCreated,
		Payload: sticky,
	})

	slog.Info("sticky created", "sticky_id", stickyID, "student_id", req.StudentID, "display_index", sticky.DisplayIndex)

	middleware.JSONResponse(w, http.StatusCreated, sticky)
}

// UpdateSticky handles PATCH /api/sticky/{id}
// Only whitelisted fields may change; everything else on the row is frozen.
func (h *BoardHandler) UpdateSticky(w http.ResponseWriter, r *http.Request) {
	stickyID := r.PathValue("id")
	if stickyID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "id is required")
		return
	}

	var req models.UpdateStickyRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	var setClauses []string
	var values []interface{}
	add := func(column string, v interface{}) {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, len(values)+1))
		values = append(values, v)
	}

	if req.StickyContent != nil {
		add("sticky_content", *req.StickyContent)
	}
	if req.StickyColor != nil {
		add("sticky_color", *req.StickyColor)
	}
	if req.XAxis != nil {
		add("x_axis", *req.XAxis)
	}
	if req.YAxis != nil {
		add("y_axis", *req.YAxis)
	}
	if req.DisplayIndex != nil {
		add("display_index", *req.DisplayIndex)
	}
	if req.FeedbackA != nil {
		add("feedback_a", *req.FeedbackA)
	}
	if req.FeedbackB != nil {
		add("feedback_b", *req.FeedbackB)
	}
	if req.FeedbackC != nil {
		add("feedback_c", *req.FeedbackC)
	}

	if len(setClauses) == 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "no updatable fields provided")
		return
	}

	values = append(values, stickyID)
	query := fmt.Sprintf("UPDATE sticky SET %s WHERE sticky_id = $%d",
		strings.Join(setClauses, ", "), len(values))

	result, err := h.db.Exec(query, values...)
	if err != nil {
		slog.Error("failed to update sticky", "error", err, "sticky_id", stickyID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to update sticky")
		return
	}
	affected, _ := result.RowsAffected()
	if affected == 0 {
		middleware.ErrorResponse(w, http.StatusNotFound, "sticky not found")
		return
	}

	sticky, err := fetchSticky(h.db, stickyID)
	if err != nil {
		slog.Error("failed to load updated sticky", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	h.hub.Broadcast(realtime.SchoolRoom(sticky.SchoolID), realtime.Event{
		Type:    realtime.EventStickyUpdated,
		Payload: sticky,
	})

	slog.Info("sticky updated", "sticky_id", stickyID)

	middleware.JSONResponse(w, http.StatusOK, sticky)
}

// DeleteSticky handles DELETE /api/sticky/{id}
func (h *BoardHandler) DeleteSticky(w http.ResponseWriter, r *http.Request) {
	stickyID := r.PathValue("id")
	if stickyID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "id is required")
		return
	}

	// Capture identifying fields before the row disappears; clients need
	// them to remove the sticky locally.
	var info models.DeleteStickyResponse
	err := h.db.QueryRow(`
		SELECT s.sticky_id, s.student_id, st.school_id
		FROM sticky s
		JOIN students st ON s.student_id = st.student_id
		WHERE s.sticky_id = $1
	`, stickyID).Scan(&info.StickyID, &info.StudentID, &info.SchoolID)

	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "sticky not found")
		return
	}
	if err != nil {
		slog.Error("failed to query sticky", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	// Ledger rows cascade with the sticky, so deleted notes drop out of
	// all future score computations without explicit vote cleanup.
	result, err := h.db.Exec(`DELETE FROM sticky WHERE sticky_id = $1`, stickyID)
	if err != nil {
		slog.Error("failed to delete sticky", "error", err, "sticky_id", stickyID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to delete sticky")
		return
	}
	affected, _ := result.RowsAffected()
	if affected == 0 {
		middleware.ErrorResponse(w, http.StatusNotFound, "sticky not found")
		return
	}

	h.hub.Broadcast(realtime.SchoolRoom(info.SchoolID), realtime.Event{
		Type:    realtime.EventStickyDeleted,
		Payload: info,
	})

	slog.Info("sticky deleted", "sticky_id", stickyID)

	middleware.JSONResponse(w, http.StatusOK, info)
}

// ListSticky handles GET /api/sticky?student_id=|school_id=|theme_id=
// Results are always ordered by (display_index, created_at desc).
func (h *BoardHandler) ListSticky(w http.ResponseWriter, r *http.Request) {
	studentID := r.URL.Query().Get("student_id")
	schoolID := r.URL.Query().Get("school_id")
	themeID := r.URL.Query().Get("theme_id")

	const ordering = ` ORDER BY s.display_index, s.created_at DESC`

	var rows *sql.Rows
	var err error
	switch {
	case themeID != "":
		// Theme scoping: the theme's school, restricted to the voting window.
		var themeSchool string
		var start, end time.Time
		err = h.db.QueryRow(`
			SELECT school_id, start_date, end_date FROM debate_themes WHERE theme_id = $1
		`, themeID).Scan(&themeSchool, &start, &end)
		if err == sql.ErrNoRows {
			middleware.ErrorResponse(w, http.StatusNotFound, "theme not found")
			return
		}
		if err != nil {
			slog.Error("failed to query theme", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		rows, err = h.db.Query(stickySelect+`
			WHERE st.school_id = $1 AND s.created_at >= $2 AND s.created_at < $3`+ordering,
			themeSchool, start, end)

	case studentID != "":
		rows, err = h.db.Query(stickySelect+` WHERE s.student_id = $1`+ordering, studentID)

	case schoolID != "":
		rows, err = h.db.Query(stickySelect+` WHERE st.school_id = $1`+ordering, schoolID)

	default:
		middleware.ErrorResponse(w, http.StatusBadRequest, "student_id, school_id or theme_id is required")
		return
	}

	if err != nil {
		slog.Error("failed to query stickies", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	stickies, err := scanStickies(rows)
	if err != nil {
		slog.Error("failed to scan stickies", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if stickies == nil {
		stickies = []models.Sticky{}
	}

	middleware.JSONResponse(w, http.StatusOK, stickies)
}
