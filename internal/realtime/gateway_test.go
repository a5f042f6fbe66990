package realtime

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripverse/backend/internal/models"
	"github.com/tripverse/backend/internal/repositories"
)

// fakeChatRepo implements repositories.ChatRepository with a static
// participant table; only IsParticipant matters to the gateway.
type fakeChatRepo struct {
	participants map[string][]uint
}

func (f *fakeChatRepo) IsParticipant(_ context.Context, chatID string, userID uint) (bool, error) {
	for _, id := range f.participants[chatID] {
		if id == userID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeChatRepo) EnsureIndexes(context.Context) error { return nil }
func (f *fakeChatRepo) GetOrCreate(context.Context, uint, uint) (*models.Chat, error) {
	return nil, repositories.ErrChatNotFound
}
func (f *fakeChatRepo) GetByID(context.Context, string) (*models.Chat, error) {
	return nil, repositories.ErrChatNotFound
}
func (f *fakeChatRepo) ListByUser(context.Context, uint) ([]models.Chat, error) { return nil, nil }
func (f *fakeChatRepo) AppendMessage(context.Context, string, *models.Message) error {
	return nil
}
func (f *fakeChatRepo) MarkRead(context.Context, string, uint) error { return nil }
func (f *fakeChatRepo) UnreadCount(context.Context, uint) (int, error) { return 0, nil }
func (f *fakeChatRepo) Delete(context.Context, string) error { return nil }
func (f *fakeChatRepo) CountChats(context.Context) (int64, error) { return 0, nil }
func (f *fakeChatRepo) CountMessages(context.Context) (int64, error) { return 0, nil }
func (f *fakeChatRepo) CountUnreadMessages(context.Context) (int64, error) { return 0, nil }

func newTestGateway(participants map[string][]uint) *Gateway {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewGateway(NewHub(), &fakeChatRepo{participants: participants}, "test-secret", logger)
}

func event(t *testing.T, name string, data interface{}) *Event {
	t.Helper()
	raw, err := json.Marshal(data)
	require.NoError(t, err)
	return &Event{Event: name, Data: raw}
}

func TestDispatchJoinAdmitsParticipant(t *testing.T) {
	g := newTestGateway(map[string][]uint{"chat-1": {1, 2}})
	member := NewClient(1, nil)
	peer := NewClient(2, nil)

	g.Dispatch(member, event(t, EventChatJoin, RoomData{ChatID: "chat-1"}))
	g.Dispatch(peer, event(t, EventChatJoin, RoomData{ChatID: "chat-1"}))
	assertNoFrame(t, member)

	g.hub.RelayToRoom("chat-1", peer, []byte(`{"event":"message:receive"}`))
	ev := recvFrame(t, member)
	assert.Equal(t, EventMessageReceive, ev.Event)
}

func TestDispatchJoinRejectsNonParticipant(t *testing.T) {
	g := newTestGateway(map[string][]uint{"chat-1": {1, 2}})
	intruder := NewClient(99, nil)

	g.Dispatch(intruder, event(t, EventChatJoin, RoomData{ChatID: "chat-1"}))

	ev := recvFrame(t, intruder)
	assert.Equal(t, EventError, ev.Event)

	// And nothing relayed into the room reaches them.
	g.hub.RelayToRoom("chat-1", nil, []byte(`{"event":"message:receive"}`))
	assertNoFrame(t, intruder)
}

func TestDispatchMessageSendRelaysVerbatim(t *testing.T) {
	g := newTestGateway(map[string][]uint{"chat-1": {1, 2}})
	sender := NewClient(1, nil)
	receiver := NewClient(2, nil)
	g.Dispatch(sender, event(t, EventChatJoin, RoomData{ChatID: "chat-1"}))
	g.Dispatch(receiver, event(t, EventChatJoin, RoomData{ChatID: "chat-1"}))

	payload := json.RawMessage(`{"id":"m1","content":"see you in Lisbon","sender_id":1}`)
	g.Dispatch(sender, event(t, EventMessageSend, RelayData{ChatID: "chat-1", Message: payload}))

	ev := recvFrame(t, receiver)
	assert.Equal(t, EventMessageReceive, ev.Event)

	var data RelayData
	require.NoError(t, json.Unmarshal(ev.Data, &data))
	assert.Equal(t, "chat-1", data.ChatID)
	assert.JSONEq(t, string(payload), string(data.Message))

	assertNoFrame(t, sender)
}

func TestDispatchMessageSendRequiresJoin(t *testing.T) {
	g := newTestGateway(map[string][]uint{"chat-1": {1, 2}})
	receiver := NewClient(2, nil)
	g.Dispatch(receiver, event(t, EventChatJoin, RoomData{ChatID: "chat-1"}))

	// A participant who never joined the room cannot relay into it.
	outsider := NewClient(1, nil)
	payload := json.RawMessage(`{"id":"m1","content":"hi"}`)
	g.Dispatch(outsider, event(t, EventMessageSend, RelayData{ChatID: "chat-1", Message: payload}))

	ev := recvFrame(t, outsider)
	assert.Equal(t, EventError, ev.Event)
	assertNoFrame(t, receiver)

	// Leaving the room revokes relay rights too.
	g.Dispatch(outsider, event(t, EventChatJoin, RoomData{ChatID: "chat-1"}))
	g.Dispatch(outsider, event(t, EventChatLeave, RoomData{ChatID: "chat-1"}))
	g.Dispatch(outsider, event(t, EventMessageSend, RelayData{ChatID: "chat-1", Message: payload}))

	ev = recvFrame(t, outsider)
	assert.Equal(t, EventError, ev.Event)
	assertNoFrame(t, receiver)
}

func TestDispatchTypingRequiresJoin(t *testing.T) {
	g := newTestGateway(map[string][]uint{"chat-1": {1, 2}})
	receiver := NewClient(2, nil)
	g.Dispatch(receiver, event(t, EventChatJoin, RoomData{ChatID: "chat-1"}))

	outsider := NewClient(1, nil)
	g.Dispatch(outsider, event(t, EventTypingStart, RoomData{ChatID: "chat-1"}))

	// Typing from a non-joined client is dropped without an error frame.
	assertNoFrame(t, outsider)
	assertNoFrame(t, receiver)
}

func TestDispatchTypingRelay(t *testing.T) {
	g := newTestGateway(map[string][]uint{"chat-1": {1, 2}})
	sender := NewClient(1, nil)
	receiver := NewClient(2, nil)
	g.Dispatch(sender, event(t, EventChatJoin, RoomData{ChatID: "chat-1"}))
	g.Dispatch(receiver, event(t, EventChatJoin, RoomData{ChatID: "chat-1"}))

	g.Dispatch(sender, event(t, EventTypingStart, RoomData{ChatID: "chat-1"}))

	ev := recvFrame(t, receiver)
	assert.Equal(t, EventTypingStart, ev.Event)
	var data TypingData
	require.NoError(t, json.Unmarshal(ev.Data, &data))
	assert.Equal(t, "chat-1", data.ChatID)
	assert.Equal(t, uint(1), data.UserID)

	g.Dispatch(sender, event(t, EventTypingStop, RoomData{ChatID: "chat-1"}))
	ev = recvFrame(t, receiver)
	assert.Equal(t, EventTypingStop, ev.Event)
}

func TestDispatchRejectsMalformedAndUnknown(t *testing.T) {
	g := newTestGateway(nil)
	c := NewClient(1, nil)

	g.Dispatch(c, event(t, EventMessageSend, RelayData{}))
	ev := recvFrame(t, c)
	assert.Equal(t, EventError, ev.Event)

	g.Dispatch(c, event(t, "message:eat", RoomData{ChatID: "chat-1"}))
	ev = recvFrame(t, c)
	assert.Equal(t, EventError, ev.Event)
}
