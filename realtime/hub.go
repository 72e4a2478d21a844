// Copyright (c) 2025 NH-SK-U22.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package realtime

import (
	"log/slog"
	"sync"

	"github.com/puzpuzpuz/xsync/v4"
)

// Hub is the room registry. Rooms are created on first join and removed
// when their last member leaves. Delivery is fire-and-forget, at-most-once:
// a slow consumer's events are dropped, never back-pressured onto writers.
type Hub struct {
	rooms         *xsync.Map[string, *room]
	allowedOrigin string
}

type room struct {
	mu      sync.RWMutex
	members map[string]*Client
	closed  bool
}

// NewHub creates an empty hub. allowedOrigin restricts WebSocket upgrades;
// empty allows any origin (development mode).
func NewHub(allowedOrigin string) *Hub {
	return &Hub{
		rooms:         xsync.NewMap[string, *room](),
		allowedOrigin: allowedOrigin,
	}
}

// Join adds c to the named room, creating the room if needed.
func (h *Hub) Join(name string, c *Client) {
	for {
		r, _ := h.rooms.LoadOrStore(name, &room{members: make(map[string]*Client)})
		r.mu.Lock()
		if r.closed {
			// Lost a race with the last-member cleanup; retry on a fresh room.
			r.mu.Unlock()
			continue
		}
		r.members[c.ID] = c
		r.mu.Unlock()

		c.trackJoin(name)
		return
	}
}

// Leave removes c from the named room. Leaving a room the client never
// joined is a no-op.
func (h *Hub) Leave(name string, c *Client) {
	r, ok := h.rooms.Load(name)
	if !ok {
		return
	}

	r.mu.Lock()
	delete(r.members, c.ID)
	if len(r.members) == 0 {
		r.closed = true
		h.rooms.Delete(name)
	}
	r.mu.Unlock()

	c.trackLeave(name)
}

// LeaveAll removes c from every room it joined. Called on disconnect.
func (h *Hub) LeaveAll(c *Client) {
	for _, name := range c.joinedRooms() {
		h.Leave(name, c)
	}
}

// Broadcast fans an event out to every member of the named room. A room
// with no subscribers is a no-op, not an error. Sends never block: a member
// whose buffer is full simply misses the event.
func (h *Hub) Broadcast(name string, ev Event) {
	r, ok := h.rooms.Load(name)
	if !ok {
		return
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	for id, member := range r.members {
		select {
		case member.send <- ev:
		default:
			slog.Warn("dropping event for slow client",
				"client_id", id,
				"room", name,
				"event", ev.Type,
			)
		}
	}
}

// RoomSize reports the member count of the named room.
func (h *Hub) RoomSize(name string) int {
	r, ok := h.rooms.Load(name)
	if !ok {
		return 0
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.members)
}
