// Copyright (c) 2025 NH-SK-U22.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package jobs holds the background schedules that run alongside the HTTP
// server.
package jobs
