// Copyright (c) 2025 NH-SK-U22.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the classroom debate board server.

The server hosts per-school debate rounds: students enroll in one of two
camps, post sticky notes arguing their side, and rate each other's notes
on a three-tier scale. Cross-camp praise is worth more than praise from an
ally, so conceding a good point to the other side moves the score most.
Board changes fan out to connected clients over websockets.

# Starting the Server

The server reads environment variables (optionally from a .env file) or
CLI flags:

	DATABASE_URL=postgres://... DATABASE_TYPE=postgres go run .

Or with flags:

	go run . -p 5000 -t sqlite -d board.db

# Configuration

Settings:

  - DATABASE_URL (-d): connection string or sqlite path (required)
  - DATABASE_TYPE (-t): "sqlite" or "postgres" (default: sqlite)
  - PORT (-p): server port (default: 5000)
  - SWEEP_INTERVAL (-sweep): camp sweep cadence (default: 1m)
  - ALLOWED_ORIGIN (-origin): websocket/CORS origin (default: echo any)

# Architecture

The server uses a handler-based architecture with dependency injection:

  - handlers: HTTP request handlers (board, votes, scoring, themes, students, chat)
  - realtime: websocket hub, rooms and the session gateway
  - jobs: cron-driven camp sweep between rounds
  - router: route definitions using Go 1.22+ routing
  - middleware: CORS, logging, JSON helpers
  - models: request/response and domain types
  - db: connection setup and schema creation
  - ids: random identifier generation
  - cliparse: configuration parsing

See package documentation for each component.
*/
package main
