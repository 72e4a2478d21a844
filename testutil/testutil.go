// Copyright (c) 2025 NH-SK-U22.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/NH-SK-U22/SKproject/cliparse"
	"github.com/NH-SK-U22/SKproject/db"
	"github.com/NH-SK-U22/SKproject/ids"
)

// SetupTestDB opens an in-memory sqlite database with the full schema.
// Each call gets a private database; no cross-test cleanup needed.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := db.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:          3318,
		DatabaseURL:   ":memory:",
		DatabaseType:  "sqlite",
		SweepInterval: time.Minute,
	}
}

// CreateTestStudent inserts a student and returns its ID. campID may be
// empty for a student with no camp.
func CreateTestStudent(t *testing.T, conn *sql.DB, schoolID, name, campID string) string {
	t.Helper()

	studentID := ids.MustNew(16)
	var camp *string
	if campID != "" {
		camp = &campID
	}
	_, err := conn.Exec(`
		INSERT INTO students (student_id, school_id, name, camp_id, sum_point, have_point, created_at)
		VALUES ($1, $2, $3, $4, 0, 0, $5)
	`, studentID, schoolID, name, camp, time.Now())
	if err != nil {
		t.Fatalf("Failed to create test student: %v", err)
	}

	return studentID
}

// CreateTestTheme inserts a theme with its two camps and returns the theme
// ID and the two camp IDs in positional order.
func CreateTestTheme(t *testing.T, conn *sql.DB, schoolID, title string, start, end time.Time) (themeID, camp1ID, camp2ID string) {
	t.Helper()

	themeID = ids.MustNew(16)
	camp1ID = themeID + "-1"
	camp2ID = themeID + "-2"

	_, err := conn.Exec(`
		INSERT INTO debate_themes (theme_id, school_id, title, start_date, end_date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, themeID, schoolID, title, start, end, time.Now())
	if err != nil {
		t.Fatalf("Failed to create test theme: %v", err)
	}

	for i, name := range []string{"Camp One", "Camp Two"} {
		campID := camp1ID
		if i == 1 {
			campID = camp2ID
		}
		_, err := conn.Exec(`
			INSERT INTO camps (camp_id, theme_id, camp_name, is_winner)
			VALUES ($1, $2, $3, FALSE)
		`, campID, themeID, name)
		if err != nil {
			t.Fatalf("Failed to create test camp: %v", err)
		}
	}

	return themeID, camp1ID, camp2ID
}

// CreateTestSticky inserts a sticky authored by studentID with the given
// frozen camp and returns the sticky ID.
func CreateTestSticky(t *testing.T, conn *sql.DB, studentID, authorCampID, content string) string {
	t.Helper()

	stickyID := ids.MustNew(16)
	_, err := conn.Exec(`
		INSERT INTO sticky (sticky_id, student_id, author_camp_id, sticky_content, sticky_color,
		                    x_axis, y_axis, display_index, created_at)
		VALUES ($1, $2, $3, $4, 'yellow', 0, 0, 1, $5)
	`, stickyID, studentID, authorCampID, content, time.Now())
	if err != nil {
		t.Fatalf("Failed to create test sticky: %v", err)
	}

	return stickyID
}

// CastTestVote inserts a ledger row directly, bypassing the handler.
func CastTestVote(t *testing.T, conn *sql.DB, stickyID, voterID, voterCampID, voteType string) {
	t.Helper()

	_, err := conn.Exec(`
		INSERT INTO sticky_votes (sticky_id, voter_id, voter_camp_id, vote_type, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, stickyID, voterID, voterCampID, voteType, time.Now())
	if err != nil {
		t.Fatalf("Failed to cast test vote: %v", err)
	}
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
