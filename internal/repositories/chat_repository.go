package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tripverse/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrChatNotFound is returned when no chat exists for the given ID.
var ErrChatNotFound = errors.New("chat not found")

// ChatRepository defines the interface for chat data operations
type ChatRepository interface {
	EnsureIndexes(ctx context.Context) error
	GetOrCreate(ctx context.Context, userA, userB uint) (*models.Chat, error)
	GetByID(ctx context.Context, id string) (*models.Chat, error)
	ListByUser(ctx context.Context, userID uint) ([]models.Chat, error)
	AppendMessage(ctx context.Context, chatID string, message *models.Message) error
	MarkRead(ctx context.Context, chatID string, userID uint) error
	UnreadCount(ctx context.Context, userID uint) (int, error)
	IsParticipant(ctx context.Context, chatID string, userID uint) (bool, error)
	Delete(ctx context.Context, chatID string) error
	CountChats(ctx context.Context) (int64, error)
	CountMessages(ctx context.Context) (int64, error)
	CountUnreadMessages(ctx context.Context) (int64, error)
}

// MongoChatRepository implements ChatRepository for MongoDB. Messages are
// embedded in the chat document; the denormalized last_message fields keep
// list sorting cheap.
type MongoChatRepository struct {
	collection *mongo.Collection
}

// NewMongoChatRepository creates a new MongoChatRepository
func NewMongoChatRepository(db *mongo.Database) *MongoChatRepository {
	return &MongoChatRepository{collection: db.Collection("chats")}
}

// EnsureIndexes creates the unique pair_key index. The index is what makes
// GetOrCreate safe under concurrent calls for the same participant pair.
func (r *MongoChatRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "pair_key", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "participants", Value: 1}, {Key: "last_message_at", Value: -1}},
		},
	})
	return err
}

// GetOrCreate finds the chat for a participant pair, creating it atomically
// if absent. Both orderings of the pair map to the same document via pair_key.
func (r *MongoChatRepository) GetOrCreate(ctx context.Context, userA, userB uint) (*models.Chat, error) {
	pairKey := models.ChatPairKey(userA, userB)
	now := time.Now()

	update := bson.M{
		"$setOnInsert": bson.M{
			"participants":    []uint{userA, userB},
			"pair_key":        pairKey,
			"messages":        []models.Message{},
			"last_message":    "",
			"last_message_at": now,
			"created_at":      now,
		},
	}

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var chat models.Chat
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"pair_key": pairKey}, update, opts).Decode(&chat)
	if err != nil {
		return nil, err
	}
	return &chat, nil
}

// GetByID retrieves a chat by its hex ID
func (r *MongoChatRepository) GetByID(ctx context.Context, id string) (*models.Chat, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid chat ID format: %w", err)
	}

	var chat models.Chat
	err = r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&chat)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrChatNotFound
		}
		return nil, err
	}
	return &chat, nil
}

// ListByUser retrieves every chat the user participates in, most recent
// activity first. No pagination; full message history rides along.
func (r *MongoChatRepository) ListByUser(ctx context.Context, userID uint) ([]models.Chat, error) {
	var chats []models.Chat
	findOptions := options.Find().SetSort(bson.D{{Key: "last_message_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"participants": userID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &chats); err != nil {
		return nil, err
	}
	return chats, nil
}

// AppendMessage pushes a message onto the chat and refreshes the denormalized
// last-message fields in the same update.
func (r *MongoChatRepository) AppendMessage(ctx context.Context, chatID string, message *models.Message) error {
	objID, err := primitive.ObjectIDFromHex(chatID)
	if err != nil {
		return fmt.Errorf("invalid chat ID format: %w", err)
	}

	update := bson.M{
		"$push": bson.M{"messages": message},
		"$set": bson.M{
			"last_message":    message.Content,
			"last_message_at": message.CreatedAt,
		},
	}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": objID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrChatNotFound
	}
	return nil
}

// MarkRead flips read=true on every message in the chat not authored by
// userID. Idempotent.
func (r *MongoChatRepository) MarkRead(ctx context.Context, chatID string, userID uint) error {
	objID, err := primitive.ObjectIDFromHex(chatID)
	if err != nil {
		return fmt.Errorf("invalid chat ID format: %w", err)
	}

	update := bson.M{"$set": bson.M{"messages.$[m].read": true}}
	opts := options.Update().SetArrayFilters(options.ArrayFilters{
		Filters: []interface{}{bson.M{"m.sender_id": bson.M{"$ne": userID}, "m.read": false}},
	})

	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": objID}, update, opts)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrChatNotFound
	}
	return nil
}

// UnreadCount sums unread foreign messages across every chat the user is in.
// Linear in the user's total message history.
func (r *MongoChatRepository) UnreadCount(ctx context.Context, userID uint) (int, error) {
	chats, err := r.ListByUser(ctx, userID)
	if err != nil {
		return 0, err
	}
	total := 0
	for i := range chats {
		total += chats[i].UnreadCountFor(userID)
	}
	return total, nil
}

// IsParticipant reports whether the user belongs to the chat. Used by the
// realtime gateway before admitting a connection to a chat room.
func (r *MongoChatRepository) IsParticipant(ctx context.Context, chatID string, userID uint) (bool, error) {
	objID, err := primitive.ObjectIDFromHex(chatID)
	if err != nil {
		return false, fmt.Errorf("invalid chat ID format: %w", err)
	}
	count, err := r.collection.CountDocuments(ctx, bson.M{"_id": objID, "participants": userID})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Delete hard-deletes the chat document
func (r *MongoChatRepository) Delete(ctx context.Context, chatID string) error {
	objID, err := primitive.ObjectIDFromHex(chatID)
	if err != nil {
		return fmt.Errorf("invalid chat ID format: %w", err)
	}

	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrChatNotFound
	}
	return nil
}

// CountChats returns the total number of chat documents
func (r *MongoChatRepository) CountChats(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{})
}

// CountMessages returns the total number of embedded messages across all chats
func (r *MongoChatRepository) CountMessages(ctx context.Context) (int64, error) {
	return r.sumAggregate(ctx, mongo.Pipeline{
		{{Key: "$project", Value: bson.M{"n": bson.M{"$size": "$messages"}}}},
		{{Key: "$group", Value: bson.M{"_id": nil, "total": bson.M{"$sum": "$n"}}}},
	})
}

// CountUnreadMessages returns the number of embedded messages still unread
// across all chats
func (r *MongoChatRepository) CountUnreadMessages(ctx context.Context) (int64, error) {
	return r.sumAggregate(ctx, mongo.Pipeline{
		{{Key: "$unwind", Value: "$messages"}},
		{{Key: "$match", Value: bson.M{"messages.read": false}}},
		{{Key: "$group", Value: bson.M{"_id": nil, "total": bson.M{"$sum": 1}}}},
	})
}

func (r *MongoChatRepository) sumAggregate(ctx context.Context, pipeline mongo.Pipeline) (int64, error) {
	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, err
	}
	defer cursor.Close(ctx)

	var results []struct {
		Total int64 `bson:"total"`
	}
	if err := cursor.All(ctx, &results); err != nil {
		return 0, err
	}
	if len(results) == 0 {
		return 0, nil
	}
	return results[0].Total, nil
}
