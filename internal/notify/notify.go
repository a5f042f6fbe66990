// Package notify builds and coalesces user notifications for follow, like,
// comment and mention events.
package notify

import (
	"regexp"
	"time"

	"github.com/tripverse/backend/internal/models"
	"github.com/tripverse/backend/internal/repositories"
	"gorm.io/gorm"
)

// coalesceWindow is the trailing window inside which a repeat of the same
// (recipient, actor, type, target) event bumps the existing notification
// instead of inserting a new one.
const coalesceWindow = 24 * time.Hour

var mentionPattern = regexp.MustCompile(`@([A-Za-z0-9_]+)`)

// Notifier creates notifications with self-suppression and 24h coalescing.
type Notifier struct {
	notifications repositories.NotificationRepository
	profiles      repositories.ProfileRepository
}

// New creates a Notifier
func New(notifications repositories.NotificationRepository, profiles repositories.ProfileRepository) *Notifier {
	return &Notifier{notifications: notifications, profiles: profiles}
}

// Create is the notification primitive. Self-notifications are suppressed.
// If an active notification with the same tuple exists it is bumped: message
// refreshed, is_read reset, timestamp reset. The lookup-then-write is a fresh
// query per call; concurrent triggers of the same event can race, which is
// acceptable for best-effort notification semantics.
func (n *Notifier) Create(recipientID, actorID uint, notifType, message, targetType, targetID string) error {
	if recipientID == actorID {
		return nil
	}

	existing, err := n.notifications.FindActive(
		recipientID, actorID, notifType, targetType, targetID,
		time.Now().Add(-coalesceWindow),
	)
	if err == nil {
		existing.Message = message
		existing.IsRead = false
		existing.CreatedAt = time.Now()
		return n.notifications.UpdateNotification(existing)
	}
	if err != gorm.ErrRecordNotFound {
		return err
	}

	return n.notifications.CreateNotification(&models.Notification{
		Type:        notifType,
		ActorID:     actorID,
		RecipientID: recipientID,
		TargetID:    targetID,
		TargetType:  targetType,
		Message:     message,
		CreatedAt:   time.Now(),
	})
}

// Follow notifies recipientID that actorID started following them.
func (n *Notifier) Follow(recipientID, actorID uint) error {
	msg := n.actorName(actorID) + " started following you"
	return n.Create(recipientID, actorID, models.NotificationFollow, msg, "user", "")
}

// Like notifies the post author that actorID liked their post.
func (n *Notifier) Like(recipientID, actorID uint, post *models.Post) error {
	msg := n.actorName(actorID) + " liked your post \"" + post.TitleSnippet() + "\""
	return n.Create(recipientID, actorID, models.NotificationLike, msg, "post", post.ID.Hex())
}

// Comment notifies the post author that actorID commented on their post.
func (n *Notifier) Comment(recipientID, actorID uint, post *models.Post, commentID string) error {
	msg := n.actorName(actorID) + " commented on your post \"" + post.TitleSnippet() + "\""
	return n.Create(recipientID, actorID, models.NotificationComment, msg, "comment", commentID)
}

// Mentions scans content for @tokens, resolves each unique token against
// profile display names, and fires one mention notification per resolved
// profile. Display names are not unique; the first matching profile wins.
func (n *Notifier) Mentions(actorID uint, content string, post *models.Post) error {
	seen := map[string]bool{}
	actor := n.actorName(actorID)

	for _, match := range mentionPattern.FindAllStringSubmatch(content, -1) {
		token := match[1]
		if seen[token] {
			continue
		}
		seen[token] = true

		profile, err := n.profiles.GetByDisplayName(token)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				continue
			}
			return err
		}

		msg := actor + " mentioned you in \"" + post.TitleSnippet() + "\""
		if err := n.Create(profile.UserID, actorID, models.NotificationMention, msg, "post", post.ID.Hex()); err != nil {
			return err
		}
	}
	return nil
}

// actorName resolves the actor's display name, falling back to "Someone"
// when no profile name is set.
func (n *Notifier) actorName(actorID uint) string {
	profile, err := n.profiles.GetByUserID(actorID)
	if err != nil || profile.DisplayName == "" {
		return "Someone"
	}
	return profile.DisplayName
}
