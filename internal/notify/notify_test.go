package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"gorm.io/gorm"

	"github.com/tripverse/backend/internal/models"
)

// fakeNotificationRepo is an in-memory NotificationRepository.
type fakeNotificationRepo struct {
	rows   []*models.Notification
	nextID uint
}

func (f *fakeNotificationRepo) CreateNotification(n *models.Notification) error {
	f.nextID++
	n.ID = f.nextID
	f.rows = append(f.rows, n)
	return nil
}

func (f *fakeNotificationRepo) UpdateNotification(n *models.Notification) error {
	for i, row := range f.rows {
		if row.ID == n.ID {
			f.rows[i] = n
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (f *fakeNotificationRepo) FindActive(recipientID, actorID uint, notifType, targetType, targetID string, since time.Time) (*models.Notification, error) {
	for i := len(f.rows) - 1; i >= 0; i-- {
		n := f.rows[i]
		if n.RecipientID == recipientID && n.ActorID == actorID && n.Type == notifType &&
			n.TargetType == targetType && n.TargetID == targetID && !n.CreatedAt.Before(since) {
			cp := *n
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeNotificationRepo) GetByRecipientID(recipientID uint, page, limit int) ([]models.Notification, int64, error) {
	var out []models.Notification
	for _, n := range f.rows {
		if n.RecipientID == recipientID {
			out = append(out, *n)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeNotificationRepo) GetUnreadCount(recipientID uint) (int64, error) {
	var count int64
	for _, n := range f.rows {
		if n.RecipientID == recipientID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (f *fakeNotificationRepo) MarkAsRead(notificationID uint) error {
	for _, n := range f.rows {
		if n.ID == notificationID {
			n.IsRead = true
		}
	}
	return nil
}

func (f *fakeNotificationRepo) MarkAllAsRead(recipientID uint) error {
	for _, n := range f.rows {
		if n.RecipientID == recipientID {
			n.IsRead = true
		}
	}
	return nil
}

// fakeProfileRepo is an in-memory ProfileRepository.
type fakeProfileRepo struct {
	profiles []*models.Profile
}

func (f *fakeProfileRepo) GetByUserID(userID uint) (*models.Profile, error) {
	for _, p := range f.profiles {
		if p.UserID == userID {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeProfileRepo) GetByUserIDs(userIDs []uint) ([]models.Profile, error) {
	var out []models.Profile
	for _, p := range f.profiles {
		for _, id := range userIDs {
			if p.UserID == id {
				out = append(out, *p)
			}
		}
	}
	return out, nil
}

func (f *fakeProfileRepo) GetByDisplayName(name string) (*models.Profile, error) {
	for _, p := range f.profiles {
		if p.DisplayName == name {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeProfileRepo) Save(profile *models.Profile) error {
	f.profiles = append(f.profiles, profile)
	return nil
}

func (f *fakeProfileRepo) Search(query string) ([]models.Profile, error) {
	return nil, nil
}

func testPost(t *testing.T, title string) *models.Post {
	t.Helper()
	return &models.Post{
		ID:    primitive.NewObjectID(),
		Title: title,
	}
}

func TestCreate_SuppressesSelfNotification(t *testing.T) {
	repo := &fakeNotificationRepo{}
	n := New(repo, &fakeProfileRepo{})

	err := n.Create(7, 7, models.NotificationLike, "msg", "post", "abc")
	require.NoError(t, err)
	assert.Empty(t, repo.rows)
}

func TestCreate_CoalescesWithin24h(t *testing.T) {
	repo := &fakeNotificationRepo{}
	profiles := &fakeProfileRepo{profiles: []*models.Profile{{UserID: 2, DisplayName: "ana"}}}
	n := New(repo, profiles)
	post := testPost(t, "Hiking the Dolomites")

	require.NoError(t, n.Like(1, 2, post))
	require.Len(t, repo.rows, 1)

	// Recipient reads it, then the same sender likes the same post again.
	repo.rows[0].IsRead = true
	firstCreated := repo.rows[0].CreatedAt

	require.NoError(t, n.Like(1, 2, post))

	require.Len(t, repo.rows, 1, "repeat event must bump, not duplicate")
	assert.False(t, repo.rows[0].IsRead, "bump resets read")
	assert.False(t, repo.rows[0].CreatedAt.Before(firstCreated))
}

func TestCreate_DistinctTargetsDoNotCoalesce(t *testing.T) {
	repo := &fakeNotificationRepo{}
	profiles := &fakeProfileRepo{profiles: []*models.Profile{{UserID: 2, DisplayName: "ana"}}}
	n := New(repo, profiles)

	require.NoError(t, n.Like(1, 2, testPost(t, "Post A")))
	require.NoError(t, n.Like(1, 2, testPost(t, "Post B")))

	assert.Len(t, repo.rows, 2)
}

func TestCreate_ExpiredNotificationIsNotBumped(t *testing.T) {
	repo := &fakeNotificationRepo{}
	profiles := &fakeProfileRepo{profiles: []*models.Profile{{UserID: 2, DisplayName: "ana"}}}
	n := New(repo, profiles)
	post := testPost(t, "Old news")

	require.NoError(t, n.Like(1, 2, post))
	repo.rows[0].CreatedAt = time.Now().Add(-25 * time.Hour)

	require.NoError(t, n.Like(1, 2, post))
	assert.Len(t, repo.rows, 2, "an event outside the window creates a fresh row")
}

func TestActorNameFallback(t *testing.T) {
	repo := &fakeNotificationRepo{}
	n := New(repo, &fakeProfileRepo{}) // no profiles at all

	require.NoError(t, n.Follow(1, 2))
	require.Len(t, repo.rows, 1)
	assert.Equal(t, "Someone started following you", repo.rows[0].Message)
}

func TestLikeMessageTruncatesTitle(t *testing.T) {
	repo := &fakeNotificationRepo{}
	profiles := &fakeProfileRepo{profiles: []*models.Profile{{UserID: 2, DisplayName: "ana"}}}
	n := New(repo, profiles)

	longTitle := "A very long travel post title that keeps going and going"
	require.NoError(t, n.Like(1, 2, testPost(t, longTitle)))

	require.Len(t, repo.rows, 1)
	assert.Contains(t, repo.rows[0].Message, longTitle[:30])
	assert.NotContains(t, repo.rows[0].Message, longTitle)
}

func TestMentions(t *testing.T) {
	repo := &fakeNotificationRepo{}
	profiles := &fakeProfileRepo{profiles: []*models.Profile{
		{UserID: 2, DisplayName: "ana"},
		{UserID: 3, DisplayName: "bob"},
	}}
	n := New(repo, profiles)
	post := testPost(t, "Trip notes")

	err := n.Mentions(1, "thanks @ana and @bob, also @ana again and @ghost", post)
	require.NoError(t, err)

	require.Len(t, repo.rows, 2, "one notification per resolved unique token")
	recipients := []uint{repo.rows[0].RecipientID, repo.rows[1].RecipientID}
	assert.ElementsMatch(t, []uint{2, 3}, recipients)
	for _, row := range repo.rows {
		assert.Equal(t, models.NotificationMention, row.Type)
	}
}

func TestMentions_SelfMentionSuppressed(t *testing.T) {
	repo := &fakeNotificationRepo{}
	profiles := &fakeProfileRepo{profiles: []*models.Profile{{UserID: 1, DisplayName: "ana"}}}
	n := New(repo, profiles)

	err := n.Mentions(1, "note to self: @ana", testPost(t, "Journal"))
	require.NoError(t, err)
	assert.Empty(t, repo.rows)
}

// Display names are not unique. The current behavior resolves a mention to
// the first matching profile; this test pins that down as a documented
// limitation rather than asserting it is desirable.
func TestMentions_DuplicateDisplayNameFirstWins(t *testing.T) {
	repo := &fakeNotificationRepo{}
	profiles := &fakeProfileRepo{profiles: []*models.Profile{
		{UserID: 2, DisplayName: "ana"},
		{UserID: 5, DisplayName: "ana"},
	}}
	n := New(repo, profiles)

	err := n.Mentions(1, "hi @ana", testPost(t, "Trip"))
	require.NoError(t, err)

	require.Len(t, repo.rows, 1)
	assert.Equal(t, uint(2), repo.rows[0].RecipientID)
}
