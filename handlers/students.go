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

	"github.com/NH-SK-U22/SKproject/middleware"
	"github.com/NH-SK-U22/SKproject/models"
)

type StudentHandler struct {
	db *sql.DB
}

func NewStudentHandler(db *sql.DB) *StudentHandler {
	return &StudentHandler{db: db}
}

const studentSelect = `
	SELECT student_id, school_id, name, camp_id, sum_point, have_point, created_at
	FROM students`

func fetchStudent(q querier, studentID string) (models.Student, error) {
	var s models.Student
	err := q.QueryRow(studentSelect+` WHERE student_id = $1`, studentID).Scan(
		&s.ID, &s.SchoolID, &s.Name, &s.CampID, &s.SumPoint, &s.HavePoint, &s.CreatedAt)
	if err == sql.ErrNoRows {
		return models.Student{}, models.ErrNotFound
	}
	if err != nil {
		return models.Student{}, err
	}
	return s, nil
}

// GetStudent handles GET /api/students/{id}
func (h *StudentHandler) GetStudent(w http.ResponseWriter, r *http.Request) {
	student, err := fetchStudent(h.db, r.PathValue("id"))
	if err != nil {
		domainErrorResponse(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, student)
}

// ListStudents handles GET /api/students?school_id=
func (h *StudentHandler) ListStudents(w http.ResponseWriter, r *http.Request) {
	schoolID := r.URL.Query().Get("school_id")
	if schoolID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "school_id is required")
		return
	}

	rows, err := h.db.Query(studentSelect+` WHERE school_id = $1 ORDER BY name`, schoolID)
	if err != nil {
		slog.Error("failed to query students", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	students := []models.Student{}
	for rows.Next() {
		var s models.Student
		if err := rows.Scan(&s.ID, &s.SchoolID, &s.Name, &s.CampID, &s.SumPoint, &s.HavePoint, &s.CreatedAt); err != nil {
			slog.Error("failed to scan student", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		students = append(students, s)
	}
	if err := rows.Err(); err != nil {
		slog.Error("failed to iterate students", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, students)
}

// UpdateCamp handles PATCH /api/students/{id}/camp
//
// A student who already holds a camp may not switch while their school's
// current theme is still running. Frozen camp fields on historical stickies
// and votes are untouched by any enrollment change.
func (h *StudentHandler) UpdateCamp(w http.ResponseWriter, r *http.Request) {
	studentID := r.PathValue("id")

	var req models.UpdateCampRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	student, err := fetchStudent(h.db, studentID)
	if err != nil {
		domainErrorResponse(w, err)
		return
	}

	if student.CampID != nil {
		theme, err := newestThemeForSchool(h.db, student.SchoolID, time.Now())
		if err != nil && err != models.ErrNotFound {
			slog.Error("failed to query newest theme", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		if err == nil && theme.EndDate.After(time.Now()) {
			middleware.ErrorResponse(w, http.StatusBadRequest, "cannot change camp during a running debate")
			return
		}
	}

	if req.CampID != nil && *req.CampID != "" {
		var exists int
		err := h.db.QueryRow(`SELECT 1 FROM camps WHERE camp_id = $1`, *req.CampID).Scan(&exists)
		if err == sql.ErrNoRows {
			middleware.ErrorResponse(w, http.StatusBadRequest, "camp not found")
			return
		}
		if err != nil {
			slog.Error("failed to query camp", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
	}

	var newCamp interface{}
	if req.CampID != nil && *req.CampID != "" {
		newCamp = *req.CampID
	}
	if _, err := h.db.Exec(`UPDATE students SET camp_id = $1 WHERE student_id = $2`, newCamp, studentID); err != nil {
		slog.Error("failed to update camp", "error", err, "student_id", studentID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to update camp")
		return
	}

	student, err = fetchStudent(h.db, studentID)
	if err != nil {
		domainErrorResponse(w, err)
		return
	}

	slog.Info("camp updated", "student_id", studentID, "camp_id", student.CampID)

	middleware.JSONResponse(w, http.StatusOK, student)
}

// UpdatePoints handles PATCH /api/students/{id}/points
func (h *StudentHandler) UpdatePoints(w http.ResponseWriter, r *http.Request) {
	studentID := r.PathValue("id")

	var req models.UpdatePointsRequest
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
	if req.SumPoint != nil {
		add("sum_point", *req.SumPoint)
	}
	if req.HavePoint != nil {
		add("have_point", *req.HavePoint)
	}
	if len(setClauses) == 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "no updatable fields provided")
		return
	}

	values = append(values, studentID)
	query := fmt.Sprintf("UPDATE students SET %s WHERE student_id = $%d",
		strings.Join(setClauses, ", "), len(values))

	result, err := h.db.Exec(query, values...)
	if err != nil {
		slog.Error("failed to update points", "error", err, "student_id", studentID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to update points")
		return
	}
	affected, _ := result.RowsAffected()
	if affected == 0 {
		middleware.ErrorResponse(w, http.StatusNotFound, "student not found")
		return
	}

	student, err := fetchStudent(h.db, studentID)
	if err != nil {
		domainErrorResponse(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, student)
}

// PointHistoryList handles GET /api/students/{id}/point-history
func (h *StudentHandler) PointHistoryList(w http.ResponseWriter, r *http.Request) {
	studentID := r.PathValue("id")

	if _, err := fetchStudent(h.db, studentID); err != nil {
		domainErrorResponse(w, err)
		return
	}

	rows, err := h.db.Query(`
		SELECT history_id, student_id, theme_id, camp_id, sum_point, created_at
		FROM point_history
		WHERE student_id = $1
		ORDER BY created_at DESC
	`, studentID)
	if err != nil {
		slog.Error("failed to query point history", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	history := []models.PointHistory{}
	for rows.Next() {
		var p models.PointHistory
		if err := rows.Scan(&p.ID, &p.StudentID, &p.ThemeID, &p.CampID, &p.SumPoint, &p.CreatedAt); err != nil {
			slog.Error("failed to scan point history", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		history = append(history, p)
	}
	if err := rows.Err(); err != nil {
		slog.Error("failed to iterate point history", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, history)
}
