// Copyright (c) 2025 NH-SK-U22.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and JSON helpers.

  - WithLogging: wraps a handler with structured request/completion logs
  - JSONResponse / ErrorResponse: write JSON bodies with the right headers
  - ParseJSONBody: decode a request body into a struct
  - CORS: allow the configured frontend origin (echo mode for development)
*/
package middleware
