package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Post represents a travel post stored in MongoDB.
// The like/comment/bookmark counters are maintained alongside the relational
// rows by the handlers; they are not derived, so they can drift if a partial
// failure interrupts the paired write.
type Post struct {
	ID             primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	UserID         uint               `json:"user_id" bson:"user_id"`
	Title          string             `json:"title" bson:"title"`
	Content        string             `json:"content" bson:"content"`
	ImageURLs      []string           `json:"image_urls,omitempty" bson:"image_urls,omitempty"`
	LikesCount     int                `json:"likes_count" bson:"likes_count"`
	CommentsCount  int                `json:"comments_count" bson:"comments_count"`
	BookmarksCount int                `json:"bookmarks_count" bson:"bookmarks_count"`
	CreatedAt      time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at" bson:"updated_at"`
}

// TitleSnippet returns the post title truncated for notification messages.
// Truncation counts runes, not bytes, so multi-byte titles stay valid UTF-8.
func (p *Post) TitleSnippet() string {
	const max = 30
	r := []rune(p.Title)
	if len(r) <= max {
		return p.Title
	}
	return string(r[:max])
}

// CreatePostRequest defines the request body for creating a new post
type CreatePostRequest struct {
	Title     string   `json:"title" validate:"required,min=1,max=120"`
	Content   string   `json:"content" validate:"required,min=1,max=10000"`
	ImageURLs []string `json:"image_urls,omitempty" validate:"omitempty,dive,url"`
}

// UpdatePostRequest defines the request body for updating an existing post
type UpdatePostRequest struct {
	Title     string   `json:"title,omitempty" validate:"omitempty,min=1,max=120"`
	Content   string   `json:"content,omitempty" validate:"omitempty,min=1,max=10000"`
	ImageURLs []string `json:"image_urls,omitempty" validate:"omitempty,dive,url"`
}
