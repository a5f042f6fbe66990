package realtime

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/tripverse/backend/internal/middleware"
	"github.com/tripverse/backend/internal/repositories"
)

// Gateway upgrades authenticated HTTP requests to websocket connections and
// dispatches their events to the hub. It performs no persistence: messages
// are stored by the REST chat endpoints before the client relays them here.
type Gateway struct {
	hub       *Hub
	chats     repositories.ChatRepository
	jwtSecret string
	logger    *slog.Logger
	upgrader  websocket.Upgrader
}

// NewGateway creates a Gateway bound to a hub and chat store
func NewGateway(hub *Hub, chats repositories.ChatRepository, jwtSecret string, logger *slog.Logger) *Gateway {
	return &Gateway{
		hub:       hub,
		chats:     chats,
		jwtSecret: jwtSecret,
		logger:    logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Browser clients connect from the SPA origin; CORS policy is
			// enforced at the HTTP layer.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// ServeWS is the websocket endpoint. The bearer token arrives as a `token`
// query parameter and is verified synchronously before the upgrade; a missing
// or invalid token rejects the connection with 401.
func (g *Gateway) ServeWS(c echo.Context) error {
	token := c.QueryParam("token")
	if token == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "Missing token")
	}

	claims, err := middleware.ParseToken(token, g.jwtSecret)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
	}

	conn, err := g.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}

	client := NewClient(claims.UserID, conn)
	g.hub.Register(client)
	g.logger.Info("socket connected", "user_id", client.UserID)

	go client.writePump()
	g.readLoop(client)
	return nil
}

// readLoop runs in the connection's goroutine until the socket drops, then
// clears presence.
func (g *Gateway) readLoop(client *Client) {
	defer func() {
		g.hub.Unregister(client)
		g.logger.Info("socket disconnected", "user_id", client.UserID)
	}()

	client.conn.SetReadLimit(maxMessageSize)
	client.conn.SetReadDeadline(time.Now().Add(pongWait))
	client.conn.SetPongHandler(func(string) error {
		client.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := client.conn.ReadMessage()
		if err != nil {
			return
		}

		var event Event
		if err := json.Unmarshal(raw, &event); err != nil {
			client.Send(envelope(EventError, ErrorData{Message: "malformed event"}))
			continue
		}
		g.Dispatch(client, &event)
	}
}

// Dispatch routes one inbound event from a client.
func (g *Gateway) Dispatch(client *Client, event *Event) {
	switch event.Event {
	case EventChatJoin:
		var data RoomData
		if err := json.Unmarshal(event.Data, &data); err != nil || data.ChatID == "" {
			client.Send(envelope(EventError, ErrorData{Message: "chat_id required"}))
			return
		}
		// Membership check before admitting the connection to the room;
		// non-participants must not receive relayed messages.
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		ok, err := g.chats.IsParticipant(ctx, data.ChatID, client.UserID)
		cancel()
		if err != nil || !ok {
			client.Send(envelope(EventError, ErrorData{Message: "not a participant of this chat"}))
			return
		}
		g.hub.JoinRoom(data.ChatID, client)

	case EventChatLeave:
		var data RoomData
		if err := json.Unmarshal(event.Data, &data); err != nil || data.ChatID == "" {
			return
		}
		g.hub.LeaveRoom(data.ChatID, client)

	case EventMessageSend:
		var data RelayData
		if err := json.Unmarshal(event.Data, &data); err != nil || data.ChatID == "" {
			client.Send(envelope(EventError, ErrorData{Message: "chat_id required"}))
			return
		}
		// Only joined clients may relay; joining already ran the participant
		// check, so room membership stands in for it here.
		if !g.hub.InRoom(data.ChatID, client) {
			client.Send(envelope(EventError, ErrorData{Message: "join the chat before sending"}))
			return
		}
		// Pure fan-out: the message body was already persisted via REST and
		// is not inspected here.
		g.hub.RelayToRoom(data.ChatID, client, envelope(EventMessageReceive, data))

	case EventTypingStart, EventTypingStop:
		var data RoomData
		if err := json.Unmarshal(event.Data, &data); err != nil || data.ChatID == "" {
			return
		}
		// Typing indicators are best-effort; a non-joined sender is dropped
		// silently, matching the malformed-payload handling above.
		if !g.hub.InRoom(data.ChatID, client) {
			return
		}
		g.hub.RelayToRoom(data.ChatID, client, envelope(event.Event, TypingData{
			ChatID: data.ChatID,
			UserID: client.UserID,
		}))

	default:
		client.Send(envelope(EventError, ErrorData{Message: "unknown event: " + event.Event}))
	}
}
