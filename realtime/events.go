// Copyright (c) 2025 NH-SK-U22.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package realtime

// Event types emitted to rooms. Every payload is the full current-state
// snapshot of the affected entity, so clients never need to diff.
const (
	EventStickyCreated   = "sticky_created"
	EventStickyUpdated   = "sticky_updated"
	EventStickyDeleted   = "sticky_deleted"
	EventFeedbackUpdated = "feedback_updated"
	EventMessageSent     = "message_sent"
	EventMessageUpdated  = "message_updated"
)

// Signal actions accepted from clients. Membership is only ever changed by
// these signals; nothing is inferred from connection metadata.
const (
	ActionJoinSchool      = "join_school"
	ActionLeaveSchool     = "leave_school"
	ActionJoinStickyChat  = "join_sticky_chat"
	ActionLeaveStickyChat = "leave_sticky_chat"
)

// Event is a server-to-client message.
type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// Signal is a client-to-server room membership message.
type Signal struct {
	Action   string `json:"action"`
	SchoolID string `json:"school_id,omitempty"`
	StickyID string `json:"sticky_id,omitempty"`
}

// SchoolRoom returns the room name carrying board-wide events for a school.
func SchoolRoom(schoolID string) string { return "school_" + schoolID }

// StickyRoom returns the room name carrying one note's chat events.
func StickyRoom(stickyID string) string { return "sticky_" + stickyID }
