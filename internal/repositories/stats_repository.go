package repositories

import (
	"context"

	"github.com/tripverse/backend/internal/models"
	"gorm.io/gorm"
)

// PlatformStats is the aggregate snapshot served by the admin dashboard
type PlatformStats struct {
	Users          int64 `json:"users"`
	Posts          int64 `json:"posts"`
	Comments       int64 `json:"comments"`
	Likes          int64 `json:"likes"`
	Bookmarks      int64 `json:"bookmarks"`
	Follows        int64 `json:"follows"`
	Chats          int64 `json:"chats"`
	Messages       int64 `json:"messages"`
	UnreadMessages int64 `json:"unread_messages"`
	Notifications  int64 `json:"notifications"`
}

// StatsRepository gathers aggregate counts across both stores
type StatsRepository interface {
	GetPlatformStats(ctx context.Context) (*PlatformStats, error)
}

type statsRepository struct {
	db       *gorm.DB
	postRepo PostRepository
	chatRepo ChatRepository
}

// NewStatsRepository creates a StatsRepository spanning PostgreSQL and MongoDB
func NewStatsRepository(db *gorm.DB, postRepo PostRepository, chatRepo ChatRepository) StatsRepository {
	return &statsRepository{db: db, postRepo: postRepo, chatRepo: chatRepo}
}

func (r *statsRepository) GetPlatformStats(ctx context.Context) (*PlatformStats, error) {
	stats := &PlatformStats{}

	counts := []struct {
		model interface{}
		dest  *int64
	}{
		{&models.User{}, &stats.Users},
		{&models.Comment{}, &stats.Comments},
		{&models.Like{}, &stats.Likes},
		{&models.Bookmark{}, &stats.Bookmarks},
		{&models.Follow{}, &stats.Follows},
		{&models.Notification{}, &stats.Notifications},
	}
	for _, c := range counts {
		if err := r.db.WithContext(ctx).Model(c.model).Count(c.dest).Error; err != nil {
			return nil, err
		}
	}

	var err error
	if stats.Posts, err = r.postRepo.CountPosts(ctx); err != nil {
		return nil, err
	}
	if stats.Chats, err = r.chatRepo.CountChats(ctx); err != nil {
		return nil, err
	}
	if stats.Messages, err = r.chatRepo.CountMessages(ctx); err != nil {
		return nil, err
	}
	if stats.UnreadMessages, err = r.chatRepo.CountUnreadMessages(ctx); err != nil {
		return nil, err
	}

	return stats, nil
}
