// Copyright (c) 2025 NH-SK-U22.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/NH-SK-U22/SKproject/ids"
	"github.com/NH-SK-U22/SKproject/models"
	"github.com/NH-SK-U22/SKproject/testutil"
)

func TestGetStudent(t *testing.T) {
	conn := setupTestDB(t)
	h := NewStudentHandler(conn)

	_, camp1, _ := createTheme(t, conn, "school-1", time.Now().Add(-time.Hour), time.Now().Add(time.Hour))
	studentID := createStudent(t, conn, "school-1", "Alice", camp1)

	req := testutil.MakeRequest("GET", "/api/students/"+studentID, nil, nil)
	req.SetPathValue("id", studentID)
	w := httptest.NewRecorder()
	h.GetStudent(w, req)

	testutil.AssertStatus(t, w, 200)

	var student models.Student
	testutil.AssertJSON(t, w, &student)
	if student.Name != "Alice" || student.CampID == nil || *student.CampID != camp1 {
		t.Errorf("Unexpected student: %+v", student)
	}
}

func TestGetStudentNotFound(t *testing.T) {
	conn := setupTestDB(t)
	h := NewStudentHandler(conn)

	req := testutil.MakeRequest("GET", "/api/students/missing", nil, nil)
	req.SetPathValue("id", "missing")
	w := httptest.NewRecorder()
	h.GetStudent(w, req)

	testutil.AssertStatus(t, w, 404)
}

func TestListStudents(t *testing.T) {
	conn := setupTestDB(t)
	h := NewStudentHandler(conn)

	createStudent(t, conn, "school-1", "Alice", "")
	createStudent(t, conn, "school-1", "Bob", "")
	createStudent(t, conn, "school-2", "Carol", "")

	req := testutil.MakeRequest("GET", "/api/students?school_id=school-1", nil, nil)
	w := httptest.NewRecorder()
	h.ListStudents(w, req)

	testutil.AssertStatus(t, w, 200)

	var students []models.Student
	testutil.AssertJSON(t, w, &students)
	if len(students) != 2 {
		t.Errorf("Expected 2 students, got %d", len(students))
	}
}

func TestUpdateCampFirstEnrollment(t *testing.T) {
	conn := setupTestDB(t)
	h := NewStudentHandler(conn)

	// A running theme does not block a student who has no camp yet.
	_, camp1, _ := createTheme(t, conn, "school-1", time.Now().Add(-time.Hour), time.Now().Add(time.Hour))
	studentID := createStudent(t, conn, "school-1", "Alice", "")

	req := testutil.MakeRequest("PATCH", "/api/students/"+studentID+"/camp", models.UpdateCampRequest{
		CampID: &camp1,
	}, nil)
	req.SetPathValue("id", studentID)
	w := httptest.NewRecorder()
	h.UpdateCamp(w, req)

	testutil.AssertStatus(t, w, 200)

	var student models.Student
	testutil.AssertJSON(t, w, &student)
	if student.CampID == nil || *student.CampID != camp1 {
		t.Errorf("Expected camp %s, got %v", camp1, student.CampID)
	}
}

func TestUpdateCampBlockedDuringDebate(t *testing.T) {
	conn := setupTestDB(t)
	h := NewStudentHandler(conn)

	_, camp1, camp2 := createTheme(t, conn, "school-1", time.Now().Add(-time.Hour), time.Now().Add(time.Hour))
	studentID := createStudent(t, conn, "school-1", "Alice", camp1)

	req := testutil.MakeRequest("PATCH", "/api/students/"+studentID+"/camp", models.UpdateCampRequest{
		CampID: &camp2,
	}, nil)
	req.SetPathValue("id", studentID)
	w := httptest.NewRecorder()
	h.UpdateCamp(w, req)

	testutil.AssertStatus(t, w, 400)
}

func TestUpdateCampAfterDebateEnds(t *testing.T) {
	conn := setupTestDB(t)
	h := NewStudentHandler(conn)

	_, camp1, camp2 := createTheme(t, conn, "school-1", time.Now().Add(-48*time.Hour), time.Now().Add(-time.Hour))
	studentID := createStudent(t, conn, "school-1", "Alice", camp1)

	req := testutil.MakeRequest("PATCH", "/api/students/"+studentID+"/camp", models.UpdateCampRequest{
		CampID: &camp2,
	}, nil)
	req.SetPathValue("id", studentID)
	w := httptest.NewRecorder()
	h.UpdateCamp(w, req)

	testutil.AssertStatus(t, w, 200)
}

func TestUpdateCampDoesNotRewriteHistory(t *testing.T) {
	conn := setupTestDB(t)
	h := NewStudentHandler(conn)

	_, camp1, camp2 := createTheme(t, conn, "school-1", time.Now().Add(-48*time.Hour), time.Now().Add(-time.Hour))
	studentID := createStudent(t, conn, "school-1", "Alice", camp1)
	stickyID := testutil.CreateTestSticky(t, conn, studentID, camp1, "posted as camp one")

	req := testutil.MakeRequest("PATCH", "/api/students/"+studentID+"/camp", models.UpdateCampRequest{
		CampID: &camp2,
	}, nil)
	req.SetPathValue("id", studentID)
	w := httptest.NewRecorder()
	h.UpdateCamp(w, req)
	testutil.AssertStatus(t, w, 200)

	var frozen string
	if err := conn.QueryRow(`SELECT author_camp_id FROM sticky WHERE sticky_id = $1`, stickyID).Scan(&frozen); err != nil {
		t.Fatalf("Failed to read sticky: %v", err)
	}
	if frozen != camp1 {
		t.Errorf("Frozen author camp changed: expected %s, got %s", camp1, frozen)
	}
}

func TestUpdateCampUnknownCamp(t *testing.T) {
	conn := setupTestDB(t)
	h := NewStudentHandler(conn)

	studentID := createStudent(t, conn, "school-1", "Alice", "")

	bogus := "not-a-camp"
	req := testutil.MakeRequest("PATCH", "/api/students/"+studentID+"/camp", models.UpdateCampRequest{
		CampID: &bogus,
	}, nil)
	req.SetPathValue("id", studentID)
	w := httptest.NewRecorder()
	h.UpdateCamp(w, req)

	testutil.AssertStatus(t, w, 400)
}

func TestUpdatePoints(t *testing.T) {
	conn := setupTestDB(t)
	h := NewStudentHandler(conn)

	studentID := createStudent(t, conn, "school-1", "Alice", "")

	sum := 120
	have := 45
	req := testutil.MakeRequest("PATCH", "/api/students/"+studentID+"/points", models.UpdatePointsRequest{
		SumPoint:  &sum,
		HavePoint: &have,
	}, nil)
	req.SetPathValue("id", studentID)
	w := httptest.NewRecorder()
	h.UpdatePoints(w, req)

	testutil.AssertStatus(t, w, 200)

	var student models.Student
	testutil.AssertJSON(t, w, &student)
	if student.SumPoint != 120 || student.HavePoint != 45 {
		t.Errorf("Expected points 120/45, got %d/%d", student.SumPoint, student.HavePoint)
	}
}

func TestUpdatePointsNoFields(t *testing.T) {
	conn := setupTestDB(t)
	h := NewStudentHandler(conn)

	studentID := createStudent(t, conn, "school-1", "Alice", "")

	req := testutil.MakeRequest("PATCH", "/api/students/"+studentID+"/points", models.UpdatePointsRequest{}, nil)
	req.SetPathValue("id", studentID)
	w := httptest.NewRecorder()
	h.UpdatePoints(w, req)

	testutil.AssertStatus(t, w, 400)
}

func TestPointHistoryList(t *testing.T) {
	conn := setupTestDB(t)
	h := NewStudentHandler(conn)

	themeID, camp1, _ := createTheme(t, conn, "school-1", time.Now().Add(-48*time.Hour), time.Now().Add(-time.Hour))
	studentID := createStudent(t, conn, "school-1", "Alice", camp1)

	_, err := conn.Exec(`
		INSERT INTO point_history (history_id, student_id, theme_id, camp_id, sum_point, created_at)
		VALUES ($1, $2, $3, $4, 80, $5)
	`, ids.MustNew(16), studentID, themeID, camp1, time.Now())
	if err != nil {
		t.Fatalf("Failed to insert history: %v", err)
	}

	req := testutil.MakeRequest("GET", "/api/students/"+studentID+"/point-history", nil, nil)
	req.SetPathValue("id", studentID)
	w := httptest.NewRecorder()
	h.PointHistoryList(w, req)

	testutil.AssertStatus(t, w, 200)

	var history []models.PointHistory
	testutil.AssertJSON(t, w, &history)
	if len(history) != 1 || history[0].SumPoint != 80 {
		t.Errorf("Unexpected history: %+v", history)
	}
}
