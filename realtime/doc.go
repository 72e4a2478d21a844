// Copyright (c) 2025 NH-SK-U22.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package realtime is the session gateway and room-based broadcaster.

# Rooms

Two independent grouping keys exist: school_<id> carries board-wide events
(sticky lifecycle, vote tallies) and sticky_<id> carries one note's chat.
A connection occupies exactly the rooms it asked for via signal messages:

	{"action": "join_school", "school_id": "sch1"}
	{"action": "leave_school", "school_id": "sch1"}
	{"action": "join_sticky_chat", "sticky_id": "abc"}
	{"action": "leave_sticky_chat", "sticky_id": "abc"}

# Delivery

Fire-and-forget, at-most-once, best-effort. There is no replay or backlog:
clients that join late fetch current state over HTTP before relying on live
events. Broadcast never blocks a writer; a member whose send buffer is full
misses the event and a warning is logged.

# Events

sticky_created, sticky_updated, sticky_deleted, feedback_updated (school
rooms); message_sent, message_updated (sticky rooms). Payloads are full
entity snapshots.

# Connection lifecycle

HandleWebSocket upgrades the request, then runs one reader and one writer
goroutine per connection. Ping frames every 30s keep the read deadline
fresh; a dead peer is detected within 60s and removed from all its rooms.
*/
package realtime
