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
)

type ThemeHandler struct {
	db *sql.DB
}

func NewThemeHandler(db *sql.DB) *ThemeHandler {
	return &ThemeHandler{db: db}
}

// CreateTheme handles POST /api/themes
//
// Camp IDs are derived from the theme ID ("<theme>-1", "<theme>-2") so the
// camp_id ordering that positional logic depends on is stable by
// construction.
func (h *ThemeHandler) CreateTheme(w http.ResponseWriter, r *http.Request) {
	var req models.CreateThemeRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.SchoolID == "" || req.Title == "" || req.Camp1Name == "" || req.Camp2Name == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "school_id, title, camp1_name and camp2_name are required")
		return
	}
	if !req.EndDate.After(req.StartDate) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "end_date must be after start_date")
		return
	}

	themeID, err := ids.New(16)
	if err != nil {
		slog.Error("failed to generate theme id", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create theme")
		return
	}

	tx, err := h.db.Begin()
	if err != nil {
		slog.Error("failed to begin transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO debate_themes (theme_id, school_id, title, start_date, end_date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, themeID, req.SchoolID, req.Title, req.StartDate, req.EndDate, time.Now())
	if err != nil {
		slog.Error("failed to insert theme", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create theme")
		return
	}

	camps := []models.Camp{
		{ID: themeID + "-1", ThemeID: themeID, CampName: req.Camp1Name},
		{ID: themeID + "-2", ThemeID: themeID, CampName: req.Camp2Name},
	}
	for _, c := range camps {
		_, err = tx.Exec(`
			INSERT INTO camps (camp_id, theme_id, camp_name, is_winner)
			VALUES ($1, $2, $3, $4)
		`, c.ID, c.ThemeID, c.CampName, false)
		if err != nil {
			slog.Error("failed to insert camp", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create theme")
			return
		}
	}

	if err := tx.Commit(); err != nil {
		slog.Error("failed to commit transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create theme")
		return
	}

	slog.Info("theme created", "theme_id", themeID, "school_id", req.SchoolID, "title", req.Title)

	middleware.JSONResponse(w, http.StatusCreated, models.CreateThemeResponse{
		ThemeID: themeID,
		Camps:   camps,
	})
}

// ListThemes handles GET /api/themes?school_id=
func (h *ThemeHandler) ListThemes(w http.ResponseWriter, r *http.Request) {
	schoolID := r.URL.Query().Get("school_id")
	if schoolID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "school_id is required")
		return
	}

	rows, err := h.db.Query(`
		SELECT theme_id, school_id, title, start_date, end_date,
		       winner_name, camp1_score, camp2_score, created_at
		FROM debate_themes
		WHERE school_id = $1
		ORDER BY end_date DESC
	`, schoolID)
	if err != nil {
		slog.Error("failed to query themes", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	themes := []models.Theme{}
	for rows.Next() {
		var t models.Theme
		if err := scanTheme(rows.Scan, &t); err != nil {
			slog.Error("failed to scan theme", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		themes = append(themes, t)
	}
	if err := rows.Err(); err != nil {
		slog.Error("failed to iterate themes", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, themes)
}

// GetTheme handles GET /api/themes/{id}
func (h *ThemeHandler) GetTheme(w http.ResponseWriter, r *http.Request) {
	themeID := r.PathValue("id")

	theme, err := fetchTheme(h.db, themeID)
	if err != nil {
		domainErrorResponse(w, err)
		return
	}

	camps, err := themeCamps(h.db, themeID)
	if err != nil {
		slog.Error("failed to query camps", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, struct {
		models.Theme
		Camps []models.Camp `json:"camps"`
	}{theme, camps})
}

// UpdateTheme handles PATCH /api/themes/{id}
func (h *ThemeHandler) UpdateTheme(w http.ResponseWriter, r *http.Request) {
	themeID := r.PathValue("id")

	var req models.UpdateThemeRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	// A partial date update is checked against the stored window so a
	// PATCH cannot invert what CreateTheme validated.
	if req.StartDate != nil || req.EndDate != nil {
		theme, err := fetchTheme(h.db, themeID)
		if err != nil {
			domainErrorResponse(w, err)
			return
		}
		start, end := theme.StartDate, theme.EndDate
		if req.StartDate != nil {
			start = *req.StartDate
		}
		if req.EndDate != nil {
			end = *req.EndDate
		}
		if !end.After(start) {
			middleware.ErrorResponse(w, http.StatusBadRequest, "end_date must be after start_date")
			return
		}
	}

	var setClauses []string
	var values []interface{}
	add := func(column string, v interface{}) {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, len(values)+1))
		values = append(values, v)
	}
	if req.Title != nil {
		add("title", *req.Title)
	}
	if req.StartDate != nil {
		add("start_date", *req.StartDate)
	}
	if req.EndDate != nil {
		add("end_date", *req.EndDate)
	}
	if len(setClauses) == 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "no updatable fields provided")
		return
	}

	values = append(values, themeID)
	query := fmt.Sprintf("UPDATE debate_themes SET %s WHERE theme_id = $%d",
		strings.Join(setClauses, ", "), len(values))

	result, err := h.db.Exec(query, values...)
	if err != nil {
		slog.Error("failed to update theme", "error", err, "theme_id", themeID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to update theme")
		return
	}
	affected, _ := result.RowsAffected()
	if affected == 0 {
		middleware.ErrorResponse(w, http.StatusNotFound, "theme not found")
		return
	}

	theme, err := fetchTheme(h.db, themeID)
	if err != nil {
		domainErrorResponse(w, err)
		return
	}

	slog.Info("theme updated", "theme_id", themeID)

	middleware.JSONResponse(w, http.StatusOK, theme)
}

// NewestTheme handles GET /api/newest-theme?school_id=
//
// "Newest" means the running or upcoming theme that ends soonest; only
// when every theme has already ended does it fall back to the most
// recently ended one.
func (h *ThemeHandler) NewestTheme(w http.ResponseWriter, r *http.Request) {
	schoolID := r.URL.Query().Get("school_id")
	if schoolID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "school_id is required")
		return
	}

	theme, err := newestThemeForSchool(h.db, schoolID, time.Now())
	if err != nil {
		domainErrorResponse(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, theme)
}

// CloseTheme handles POST /api/themes/{id}/close
//
// Closing is the only write path for winner_name, camp1_score and
// camp2_score. The score computation, the winner stamp and the point
// history snapshot commit atomically; a failed closure leaves the theme
// fully open.
func (h *ThemeHandler) CloseTheme(w http.ResponseWriter, r *http.Request) {
	themeID := r.PathValue("id")

	tx, err := h.db.Begin()
	if err != nil {
		slog.Error("failed to begin transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer tx.Rollback()

	var schoolID string
	var start, end time.Time
	var winnerName sql.NullString
	err = tx.QueryRow(`
		SELECT school_id, start_date, end_date, winner_name
		FROM debate_themes WHERE theme_id = $1
	`, themeID).Scan(&schoolID, &start, &end, &winnerName)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "theme not found")
		return
	}
	if err != nil {
		slog.Error("failed to query theme", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if winnerName.Valid {
		middleware.ErrorResponse(w, http.StatusConflict, "theme is already closed")
		return
	}
	if time.Now().Before(end) {
		middleware.ErrorResponse(w, http.StatusConflict, "theme has not ended yet")
		return
	}

	camps, err := themeCamps(tx, themeID)
	if err != nil || len(camps) != 2 {
		slog.Error("failed to load camps for closure", "error", err, "theme_id", themeID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	votes, err := collectVotes(tx, schoolID, start, end)
	if err != nil {
		slog.Error("failed to collect votes", "error", err, "theme_id", themeID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	scores := scoreVotes(camps, votes)

	winnerIdx := -1
	winner := models.WinnerDraw
	switch {
	case scores[0].Score > scores[1].Score:
		winnerIdx, winner = 0, scores[0].CampName
	case scores[1].Score > scores[0].Score:
		winnerIdx, winner = 1, scores[1].CampName
	}

	for i := range camps {
		isWinner := i == winnerIdx
		if _, err := tx.Exec(`
			UPDATE camps SET is_winner = $1 WHERE camp_id = $2
		`, isWinner, camps[i].ID); err != nil {
			slog.Error("failed to stamp winner", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to close theme")
			return
		}
	}

	_, err = tx.Exec(`
		UPDATE debate_themes SET winner_name = $1, camp1_score = $2, camp2_score = $3
		WHERE theme_id = $4
	`, winner, scores[0].Score, scores[1].Score, themeID)
	if err != nil {
		slog.Error("failed to record result", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to close theme")
		return
	}

	historyRows, err := snapshotPoints(tx, themeID, camps)
	if err != nil {
		slog.Error("failed to snapshot points", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to close theme")
		return
	}

	if err := tx.Commit(); err != nil {
		slog.Error("failed to commit closure", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to close theme")
		return
	}

	slog.Info("theme closed", "theme_id", themeID, "winner", winner,
		"camp1_score", scores[0].Score, "camp2_score", scores[1].Score, "history_rows", historyRows)

	middleware.JSONResponse(w, http.StatusOK, models.CloseThemeResponse{
		ThemeID:     themeID,
		WinnerName:  winner,
		Camp1Score:  scores[0].Score,
		Camp2Score:  scores[1].Score,
		HistoryRows: historyRows,
	})
}

// GetCampScores handles GET /api/themes/{id}/scores
func (h *ThemeHandler) GetCampScores(w http.ResponseWriter, r *http.Request) {
	themeID := r.PathValue("id")

	scores, err := ComputeCampScores(h.db, themeID)
	if err != nil {
		if err == models.ErrNotFound {
			middleware.ErrorResponse(w, http.StatusNotFound, "theme not found")
			return
		}
		slog.Error("failed to compute scores", "error", err, "theme_id", themeID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, scores)
}

// snapshotPoints writes one point_history row per student enrolled in
// either camp, preserving their sum_point at closure time.
func snapshotPoints(q querier, themeID string, camps []models.Camp) (int, error) {
	rows, err := q.Query(`
		SELECT student_id, camp_id, sum_point FROM students
		WHERE camp_id = $1 OR camp_id = $2
	`, camps[0].ID, camps[1].ID)
	if err != nil {
		return 0, err
	}

	type enrolled struct {
		studentID string
		campID    string
		sumPoint  int
	}
	var students []enrolled
	for rows.Next() {
		var e enrolled
		if err := rows.Scan(&e.studentID, &e.campID, &e.sumPoint); err != nil {
			rows.Close()
			return 0, err
		}
		students = append(students, e)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, err
	}

	for _, e := range students {
		historyID, err := ids.New(16)
		if err != nil {
			return 0, err
		}
		_, err = q.Exec(`
			INSERT INTO point_history (history_id, student_id, theme_id, camp_id, sum_point, created_at)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, historyID, e.studentID, themeID, e.campID, e.sumPoint, time.Now())
		if err != nil {
			return 0, err
		}
	}
	return len(students), nil
}

// fetchTheme loads one theme row. Returns models.ErrNotFound when absent.
func fetchTheme(q querier, themeID string) (models.Theme, error) {
	var t models.Theme
	err := q.QueryRow(`
		SELECT theme_id, school_id, title, start_date, end_date,
		       winner_name, camp1_score, camp2_score, created_at
		FROM debate_themes WHERE theme_id = $1
	`, themeID).Scan(&t.ID, &t.SchoolID, &t.Title, &t.StartDate, &t.EndDate,
		&t.WinnerName, &t.Camp1Score, &t.Camp2Score, &t.CreatedAt)
	if err == sql.ErrNoRows {
		return models.Theme{}, models.ErrNotFound
	}
	if err != nil {
		return models.Theme{}, err
	}
	return t, nil
}

// newestThemeForSchool picks the school's active theme: among themes whose
// end_date is still in the future, the one ending soonest; otherwise the
// most recently ended theme.
func newestThemeForSchool(q querier, schoolID string, now time.Time) (models.Theme, error) {
	var t models.Theme
	scan := func(row *sql.Row) error {
		return row.Scan(&t.ID, &t.SchoolID, &t.Title, &t.StartDate, &t.EndDate,
			&t.WinnerName, &t.Camp1Score, &t.Camp2Score, &t.CreatedAt)
	}

	const cols = `
		SELECT theme_id, school_id, title, start_date, end_date,
		       winner_name, camp1_score, camp2_score, created_at
		FROM debate_themes`

	err := scan(q.QueryRow(cols+`
		WHERE school_id = $1 AND end_date > $2
		ORDER BY end_date ASC LIMIT 1
	`, schoolID, now))
	if err == nil {
		return t, nil
	}
	if err != sql.ErrNoRows {
		return models.Theme{}, err
	}

	err = scan(q.QueryRow(cols+`
		WHERE school_id = $1
		ORDER BY end_date DESC LIMIT 1
	`, schoolID))
	if err == sql.ErrNoRows {
		return models.Theme{}, models.ErrNotFound
	}
	if err != nil {
		return models.Theme{}, err
	}
	return t, nil
}

// scanTheme adapts a rows.Scan to the theme column list used above.
func scanTheme(scan func(dest ...interface{}) error, t *models.Theme) error {
	return scan(&t.ID, &t.SchoolID, &t.Title, &t.StartDate, &t.EndDate,
		&t.WinnerName, &t.Camp1Score, &t.Camp2Score, &t.CreatedAt)
}
