// Copyright (c) 2025 NH-SK-U22.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the debate board API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(db, hub)

# Endpoints

Health:

	GET /health

Realtime:

	GET /ws - Websocket session gateway (join_school / join_sticky_chat)

Sticky board:

	POST   /api/sticky      - Create sticky
	GET    /api/sticky      - List by student_id, school_id or theme_id
	PATCH  /api/sticky/{id} - Whitelisted partial update
	DELETE /api/sticky/{id} - Delete (ledger rows cascade)

Vote ledger:

	POST /api/sticky/{id}/votes - Cast or replace a vote
	GET  /api/sticky/{id}/votes - List votes on a note

Themes and scoring:

	POST  /api/themes             - Create theme with its two camps
	GET   /api/themes             - List by school_id
	GET   /api/themes/{id}        - Theme with camps
	PATCH /api/themes/{id}        - Whitelisted partial update
	POST  /api/themes/{id}/close  - Close and snapshot results
	GET   /api/themes/{id}/scores - Live camp standings
	GET   /api/newest-theme       - Active theme for a school

Students:

	GET   /api/students                    - List by school_id
	GET   /api/students/{id}               - Single student
	PATCH /api/students/{id}/camp          - Change enrollment (blocked mid-round)
	PATCH /api/students/{id}/points        - Update point balances
	GET   /api/students/{id}/point-history - Closure snapshots

Sticky-room chat:

	POST /api/message             - Post a chat message
	GET  /api/message/sticky/{id} - Messages with the caller's own vote
	POST /api/room-vote           - React to a message

# Handler Initialization

The router creates handler instances with dependency injection:

	boardHandler := handlers.NewBoardHandler(db, hub)
	voteHandler := handlers.NewVoteHandler(db, hub)
	themeHandler := handlers.NewThemeHandler(db)

Handlers that publish realtime events receive the hub alongside the
database connection.
*/
package router
