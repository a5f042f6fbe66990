package models

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Chat is a two-participant conversation stored in MongoDB with its messages
// embedded. PairKey is the sorted participant id pair; a unique index on it
// makes get-or-create atomic, so two concurrent creates for the same pair
// collapse into one document.
type Chat struct {
	ID            primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Participants  []uint             `json:"participants" bson:"participants"`
	PairKey       string             `json:"-" bson:"pair_key"`
	Messages      []Message          `json:"messages" bson:"messages"`
	LastMessage   string             `json:"last_message" bson:"last_message"`
	LastMessageAt time.Time          `json:"last_message_at" bson:"last_message_at"`
	CreatedAt     time.Time          `json:"created_at" bson:"created_at"`
}

// Message is embedded in its Chat. It is append-only except for the read
// flag; messages are never edited or deleted individually.
type Message struct {
	ID        primitive.ObjectID `json:"id" bson:"id"`
	SenderID  uint               `json:"sender_id" bson:"sender_id"`
	Content   string             `json:"content" bson:"content"`
	Read      bool               `json:"read" bson:"read"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
}

// ChatPairKey builds the deterministic key for a participant pair,
// independent of argument order.
func ChatPairKey(a, b uint) string {
	if a > b {
		a, b = b, a
	}
	return fmt.Sprintf("%d:%d", a, b)
}

// HasParticipant reports whether userID is a member of the chat.
func (c *Chat) HasParticipant(userID uint) bool {
	for _, p := range c.Participants {
		if p == userID {
			return true
		}
	}
	return false
}

// UnreadCountFor counts messages not authored by userID that are still unread.
func (c *Chat) UnreadCountFor(userID uint) int {
	n := 0
	for _, m := range c.Messages {
		if m.SenderID != userID && !m.Read {
			n++
		}
	}
	return n
}

// CreateChatRequest defines the request body for opening a chat with a user
type CreateChatRequest struct {
	UserID uint `json:"user_id" validate:"required"`
}

// SendMessageRequest defines the request body for sending a chat message
type SendMessageRequest struct {
	Content string `json:"content" validate:"required,min=1,max=2000"`
}
