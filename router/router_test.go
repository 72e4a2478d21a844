// Copyright (c) 2025 NH-SK-U22.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/NH-SK-U22/SKproject/realtime"
	"github.com/NH-SK-U22/SKproject/testutil"
)

func TestHealthEndpoint(t *testing.T) {
	db := testutil.SetupTestDB(t)
	mux := NewRouter(db, realtime.NewHub(""))

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()

	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	if w.Body.String() != "OK" {
		t.Errorf("Expected body 'OK', got '%s'", w.Body.String())
	}
}

func TestRootEndpoint(t *testing.T) {
	db := testutil.SetupTestDB(t)
	mux := NewRouter(db, realtime.NewHub(""))

	req := httptest.NewRequest("GET", "/", nil)
	w := httptest.NewRecorder()

	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	expected := "debate board API v1"
	if w.Body.String() != expected {
		t.Errorf("Expected body '%s', got '%s'", expected, w.Body.String())
	}
}

func TestRouteExistence(t *testing.T) {
	db := testutil.SetupTestDB(t)
	mux := NewRouter(db, realtime.NewHub(""))

	// Routes respond with handler output, never the mux's own 404 page.
	// Handlers legitimately return 400/404 for the synthetic ids used here.
	testCases := []struct {
		method string
		path   string
	}{
		{"GET", "/health"},
		{"GET", "/"},

		{"POST", "/api/sticky"},
		{"GET", "/api/sticky"},
		{"PATCH", "/api/sticky/test-id"},
		{"DELETE", "/api/sticky/test-id"},
		{"POST", "/api/sticky/test-id/votes"},
		{"GET", "/api/sticky/test-id/votes"},

		{"POST", "/api/themes"},
		{"GET", "/api/themes"},
		{"GET", "/api/themes/test-id"},
		{"PATCH", "/api/themes/test-id"},
		{"POST", "/api/themes/test-id/close"},
		{"GET", "/api/themes/test-id/scores"},
		{"GET", "/api/newest-theme"},

		{"GET", "/api/students"},
		{"GET", "/api/students/test-id"},
		{"PATCH", "/api/students/test-id/camp"},
		{"PATCH", "/api/students/test-id/points"},
		{"GET", "/api/students/test-id/point-history"},

		{"POST", "/api/message"},
		{"GET", "/api/message/sticky/test-id"},
		{"POST", "/api/room-vote"},
	}

	for _, tc := range testCases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			w := httptest.NewRecorder()

			mux.ServeHTTP(w, req)

			if w.Code == http.StatusNotFound && w.Body.String() == "404 page not found\n" {
				t.Errorf("Route %s %s not registered", tc.method, tc.path)
			}
		})
	}
}
