package realtime

import "encoding/json"

// Wire event names. The client and gateway agree on these exactly.
const (
	EventUserOnline     = "user:online"
	EventUserOffline    = "user:offline"
	EventChatJoin       = "chat:join"
	EventChatLeave      = "chat:leave"
	EventMessageSend    = "message:send"
	EventMessageReceive = "message:receive"
	EventTypingStart    = "typing:start"
	EventTypingStop     = "typing:stop"
	EventError          = "error"
)

// Event is the envelope for every frame on the socket
type Event struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// PresenceData announces a user coming online or going offline
type PresenceData struct {
	UserID uint `json:"user_id"`
}

// RoomData identifies the chat room for join/leave and typing events
type RoomData struct {
	ChatID string `json:"chat_id"`
}

// RelayData carries a message already persisted via the REST path. The
// gateway rebroadcasts the message payload verbatim; it does not inspect it.
type RelayData struct {
	ChatID  string          `json:"chat_id"`
	Message json.RawMessage `json:"message"`
}

// TypingData scopes a typing indicator to a chat room
type TypingData struct {
	ChatID string `json:"chat_id"`
	UserID uint   `json:"user_id"`
}

// ErrorData is sent to a single connection on a rejected event
type ErrorData struct {
	Message string `json:"message"`
}

// envelope marshals an event frame. Marshal of these payload types cannot
// fail, so errors are swallowed.
func envelope(event string, data interface{}) []byte {
	raw, _ := json.Marshal(data)
	frame, _ := json.Marshal(Event{Event: event, Data: raw})
	return frame
}
