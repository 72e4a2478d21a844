// Copyright (c) 2025 NH-SK-U22.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"

	"github.com/NH-SK-U22/SKproject/middleware"
	"github.com/NH-SK-U22/SKproject/models"
)

// querier is satisfied by both *sql.DB and *sql.Tx so the row-fetch helpers
// can run inside or outside a transaction.
type querier interface {
	QueryRow(query string, args ...interface{}) *sql.Row
	Query(query string, args ...interface{}) (*sql.Rows, error)
	Exec(query string, args ...interface{}) (sql.Result, error)
}

// domainErrorResponse maps the models error taxonomy onto HTTP statuses.
// Anything outside the taxonomy is a 500.
func domainErrorResponse(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrValidation):
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, models.ErrNotFound):
		middleware.ErrorResponse(w, http.StatusNotFound, err.Error())
	case errors.Is(err, models.ErrSelfVote):
		middleware.ErrorResponse(w, http.StatusForbidden, err.Error())
	case errors.Is(err, models.ErrCampNotSet):
		middleware.ErrorResponse(w, http.StatusConflict, err.Error())
	case errors.Is(err, models.ErrConflict):
		middleware.ErrorResponse(w, http.StatusConflict, err.Error())
	default:
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
	}
}

// isUniqueViolation recognizes duplicate-key failures from both drivers.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value violates unique constraint")
}

const stickySelect = `
	SELECT s.sticky_id, s.student_id, s.author_camp_id, s.sticky_content, s.sticky_color,
	       s.x_axis, s.y_axis, s.display_index, s.feedback_a, s.feedback_b, s.feedback_c,
	       s.created_at, st.name, st.school_id
	FROM sticky s
	JOIN students st ON s.student_id = st.student_id`

// fetchSticky loads one sticky with its author's name and school joined in.
// Returns models.ErrNotFound when the row is absent.
func fetchSticky(q querier, stickyID string) (models.Sticky, error) {
	var s models.Sticky
	err := q.QueryRow(stickySelect+` WHERE s.sticky_id = $1`, stickyID).Scan(
		&s.ID, &s.StudentID, &s.AuthorCampID, &s.StickyContent, &s.StickyColor,
		&s.XAxis, &s.YAxis, &s.DisplayIndex, &s.FeedbackA, &s.FeedbackB, &s.FeedbackC,
		&s.CreatedAt, &s.StudentName, &s.SchoolID,
	)
	if err == sql.ErrNoRows {
		return models.Sticky{}, models.ErrNotFound
	}
	if err != nil {
		return models.Sticky{}, err
	}
	return s, nil
}

func scanStickies(rows *sql.Rows) ([]models.Sticky, error) {
	defer rows.Close()

	var stickies []models.Sticky
	for rows.Next() {
		var s models.Sticky
		if err := rows.Scan(
			&s.ID, &s.StudentID, &s.AuthorCampID, &s.StickyContent, &s.StickyColor,
			&s.XAxis, &s.YAxis, &s.DisplayIndex, &s.FeedbackA, &s.FeedbackB, &s.FeedbackC,
			&s.CreatedAt, &s.StudentName, &s.SchoolID,
		); err != nil {
			return nil, err
		}
		stickies = append(stickies, s)
	}
	return stickies, rows.Err()
}

const messageSelect = `
	SELECT m.message_id, m.sticky_id, m.student_id, m.camp_id, m.message_content,
	       m.feedback_a, m.feedback_b, m.feedback_c, m.created_at, st.name
	FROM messages m
	JOIN students st ON m.student_id = st.student_id`

// fetchMessage loads one chat message with its author's name joined in.
func fetchMessage(q querier, messageID string) (models.Message, error) {
	var m models.Message
	err := q.QueryRow(messageSelect+` WHERE m.message_id = $1`, messageID).Scan(
		&m.ID, &m.StickyID, &m.StudentID, &m.CampID, &m.MessageContent,
		&m.FeedbackA, &m.FeedbackB, &m.FeedbackC, &m.CreatedAt, &m.StudentName,
	)
	if err == sql.ErrNoRows {
		return models.Message{}, models.ErrNotFound
	}
	if err != nil {
		return models.Message{}, err
	}
	return m, nil
}
