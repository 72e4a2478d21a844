// Copyright (c) 2025 NH-SK-U22.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package realtime

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 30 * time.Second
	sendBufferSize = 256
)

// Client is one WebSocket connection served by the hub.
type Client struct {
	ID string

	hub  *Hub
	conn *websocket.Conn
	send chan Event

	mu    sync.Mutex
	rooms map[string]bool
}

// NewLocalClient creates a hub member that is not backed by a WebSocket
// connection. Delivered events are read from Events. In-process consumers
// use it to observe room traffic without a network round trip.
func NewLocalClient(h *Hub, buffer int) *Client {
	return &Client{
		ID:    uuid.NewString(),
		hub:   h,
		send:  make(chan Event, buffer),
		rooms: make(map[string]bool),
	}
}

// Events is the client's delivery channel. For WebSocket clients it is
// drained by writePump; local clients read it directly.
func (c *Client) Events() <-chan Event {
	return c.send
}

func (c *Client) trackJoin(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rooms[name] = true
}

func (c *Client) trackLeave(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.rooms, name)
}

func (c *Client) joinedRooms() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	names := make([]string, 0, len(c.rooms))
	for name := range c.rooms {
		names = append(names, name)
	}
	return names
}

// HandleWebSocket upgrades the connection and serves join/leave signals
// until the client disconnects.
//
// Client sends: {"action": "join_school", "school_id": "sch1"}
// Client sends: {"action": "join_sticky_chat", "sticky_id": "abc"}
// Server sends: {"type": "sticky_created", "payload": {...}} and friends.
func (h *Hub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
		CheckOrigin: func(r *http.Request) bool {
			if h.allowedOrigin == "" {
				return true
			}
			return r.Header.Get("Origin") == h.allowedOrigin
		},
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("websocket upgrade failed", "error", err, "remote", r.RemoteAddr)
		return
	}

	client := &Client{
		ID:    uuid.NewString(),
		hub:   h,
		conn:  conn,
		send:  make(chan Event, sendBufferSize),
		rooms: make(map[string]bool),
	}

	slog.Info("websocket client connected", "client_id", client.ID, "remote", r.RemoteAddr)

	go client.writePump()
	client.readPump()

	slog.Info("websocket client disconnected", "client_id", client.ID)
}

// readPump reads membership signals until the connection closes, then
// tears the client down. It owns all reads on the connection.
func (c *Client) readPump() {
	defer func() {
		c.hub.LeaveAll(c)
		close(c.send)
		c.conn.Close()
	}()

	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var sig Signal
		if err := c.conn.ReadJSON(&sig); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				slog.Error("websocket read error", "client_id", c.ID, "error", err)
			}
			return
		}
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		c.handleSignal(sig)
	}
}

func (c *Client) handleSignal(sig Signal) {
	switch sig.Action {
	case ActionJoinSchool:
		if sig.SchoolID == "" {
			c.sendError("school_id is required")
			return
		}
		c.hub.Join(SchoolRoom(sig.SchoolID), c)
		c.ack("joined", SchoolRoom(sig.SchoolID))

	case ActionLeaveSchool:
		if sig.SchoolID == "" {
			c.sendError("school_id is required")
			return
		}
		c.hub.Leave(SchoolRoom(sig.SchoolID), c)
		c.ack("left", SchoolRoom(sig.SchoolID))

	case ActionJoinStickyChat:
		if sig.StickyID == "" {
			c.sendError("sticky_id is required")
			return
		}
		c.hub.Join(StickyRoom(sig.StickyID), c)
		c.ack("joined", StickyRoom(sig.StickyID))

	case ActionLeaveStickyChat:
		if sig.StickyID == "" {
			c.sendError("sticky_id is required")
			return
		}
		c.hub.Leave(StickyRoom(sig.StickyID), c)
		c.ack("left", StickyRoom(sig.StickyID))

	default:
		c.sendError("unknown action: " + sig.Action)
	}
}

func (c *Client) ack(kind, roomName string) {
	select {
	case c.send <- Event{Type: kind, Payload: map[string]string{"room": roomName}}:
	default:
	}
}

func (c *Client) sendError(msg string) {
	select {
	case c.send <- Event{Type: "error", Payload: map[string]string{"message": msg}}:
	default:
	}
}

// writePump drains the send channel onto the wire and keeps the connection
// alive with pings. It owns all writes on the connection and exits when
// readPump closes the send channel.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case ev, ok := <-c.send:
			if !ok {
				return
			}
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(ev); err != nil {
				slog.Error("websocket write failed", "client_id", c.ID, "error", err)
				return
			}

		case <-ticker.C:
			if err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}
