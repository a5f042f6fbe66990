// Package realtime is the websocket gateway: presence broadcast, chat rooms,
// message relay and typing indicators. It holds only ephemeral in-memory
// state; nothing here is persisted, and a restart forgets everything.
package realtime

import (
	"sync"
)

// Hub tracks every connected client, the userID → connection presence map,
// and room membership keyed by chat id.
//
// Presence is a single entry per user: a second connection from the same
// user overwrites the first (last-connect-wins), so the earlier tab can
// appear erroneously offline once the newer one disconnects. Known
// ambiguity, kept as-is.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
	online  map[uint]*Client
	rooms   map[string]map[*Client]struct{}
}

// NewHub creates an empty Hub
func NewHub() *Hub {
	return &Hub{
		clients: make(map[*Client]struct{}),
		online:  make(map[uint]*Client),
		rooms:   make(map[string]map[*Client]struct{}),
	}
}

// Register adds a connection, records presence, and broadcasts user:online
// to every connected client.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.online[c.UserID] = c
	h.mu.Unlock()

	h.broadcast(envelope(EventUserOnline, PresenceData{UserID: c.UserID}))
}

// Unregister removes a connection from all rooms and, if the presence map
// still points at it, clears presence and broadcasts user:offline.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	delete(h.clients, c)
	for chatID, members := range h.rooms {
		delete(members, c)
		if len(members) == 0 {
			delete(h.rooms, chatID)
		}
	}
	wentOffline := h.online[c.UserID] == c
	if wentOffline {
		delete(h.online, c.UserID)
	}
	h.mu.Unlock()

	if wentOffline {
		h.broadcast(envelope(EventUserOffline, PresenceData{UserID: c.UserID}))
	}
	c.Close()
}

// JoinRoom adds the client to the room for a chat id
func (h *Hub) JoinRoom(chatID string, c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.rooms[chatID]; !ok {
		h.rooms[chatID] = make(map[*Client]struct{})
	}
	h.rooms[chatID][c] = struct{}{}
}

// LeaveRoom removes the client from the room for a chat id
func (h *Hub) LeaveRoom(chatID string, c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if members, ok := h.rooms[chatID]; ok {
		delete(members, c)
		if len(members) == 0 {
			delete(h.rooms, chatID)
		}
	}
}

// InRoom reports whether the client has joined the room for a chat id
func (h *Hub) InRoom(chatID string, c *Client) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.rooms[chatID][c]
	return ok
}

// RelayToRoom sends a frame to every room member except the sender
func (h *Hub) RelayToRoom(chatID string, sender *Client, frame []byte) {
	h.mu.RLock()
	members := make([]*Client, 0, len(h.rooms[chatID]))
	for c := range h.rooms[chatID] {
		if c != sender {
			members = append(members, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range members {
		c.Send(frame)
	}
}

// IsOnline reports whether the user currently holds the presence entry
func (h *Hub) IsOnline(userID uint) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.online[userID]
	return ok
}

// OnlineUserIDs returns a snapshot of users with an active presence entry
func (h *Hub) OnlineUserIDs() []uint {
	h.mu.RLock()
	defer h.mu.RUnlock()
	ids := make([]uint, 0, len(h.online))
	for id := range h.online {
		ids = append(ids, id)
	}
	return ids
}

func (h *Hub) broadcast(frame []byte) {
	h.mu.RLock()
	targets := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		targets = append(targets, c)
	}
	h.mu.RUnlock()

	for _, c := range targets {
		c.Send(frame)
	}
}
