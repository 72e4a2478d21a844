// Copyright (c) 2025 NH-SK-U22.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"

	"github.com/NH-SK-U22/SKproject/handlers"
	"github.com/NH-SK-U22/SKproject/middleware"
	"github.com/NH-SK-U22/SKproject/realtime"
)

func NewRouter(db *sql.DB, hub *realtime.Hub) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	boardHandler := handlers.NewBoardHandler(db, hub)
	voteHandler := handlers.NewVoteHandler(db, hub)
	themeHandler := handlers.NewThemeHandler(db)
	studentHandler := handlers.NewStudentHandler(db)
	messageHandler := handlers.NewMessageHandler(db, hub)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Realtime session gateway
	mux.HandleFunc("GET /ws", hub.HandleWebSocket)

	// Sticky board
	mux.HandleFunc("POST /api/sticky", middleware.WithLogging(boardHandler.CreateSticky))
	mux.HandleFunc("GET /api/sticky", middleware.WithLogging(boardHandler.ListSticky))
	mux.HandleFunc("PATCH /api/sticky/{id}", middleware.WithLogging(boardHandler.UpdateSticky))
	mux.HandleFunc("DELETE /api/sticky/{id}", middleware.WithLogging(boardHandler.DeleteSticky))

	// Vote ledger
	mux.HandleFunc("POST /api/sticky/{id}/votes", middleware.WithLogging(voteHandler.CastVote))
	mux.HandleFunc("GET /api/sticky/{id}/votes", middleware.WithLogging(voteHandler.VotesForNote))

	// Debate themes and scoring
	mux.HandleFunc("POST /api/themes", middleware.WithLogging(themeHandler.CreateTheme))
	mux.HandleFunc("GET /api/themes", middleware.WithLogging(themeHandler.ListThemes))
	mux.HandleFunc("GET /api/themes/{id}", middleware.WithLogging(themeHandler.GetTheme))
	mux.HandleFunc("PATCH /api/themes/{id}", middleware.WithLogging(themeHandler.UpdateTheme))
	mux.HandleFunc("POST /api/themes/{id}/close", middleware.WithLogging(themeHandler.CloseTheme))
	mux.HandleFunc("GET /api/themes/{id}/scores", middleware.WithLogging(themeHandler.GetCampScores))
	mux.HandleFunc("GET /api/newest-theme", middleware.WithLogging(themeHandler.NewestTheme))

	// Students
	mux.HandleFunc("GET /api/students", middleware.WithLogging(studentHandler.ListStudents))
	mux.HandleFunc("GET /api/students/{id}", middleware.WithLogging(studentHandler.GetStudent))
	mux.HandleFunc("PATCH /api/students/{id}/camp", middleware.WithLogging(studentHandler.UpdateCamp))
	mux.HandleFunc("PATCH /api/students/{id}/points", middleware.WithLogging(studentHandler.UpdatePoints))
	mux.HandleFunc("GET /api/students/{id}/point-history", middleware.WithLogging(studentHandler.PointHistoryList))

	// Sticky-room chat
	mux.HandleFunc("POST /api/message", middleware.WithLogging(messageHandler.CreateMessage))
	mux.HandleFunc("GET /api/message/sticky/{id}", middleware.WithLogging(messageHandler.ListMessages))
	mux.HandleFunc("POST /api/room-vote", middleware.WithLogging(messageHandler.RoomVote))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("debate board API v1"))
	})

	return mux
}
