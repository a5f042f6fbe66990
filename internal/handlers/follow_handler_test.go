package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/tripverse/backend/internal/models"
	"github.com/tripverse/backend/internal/notify"
)

// fakeFollowRepo is an in-memory FollowRepository.
type fakeFollowRepo struct {
	follows []models.Follow
}

func (f *fakeFollowRepo) CreateFollow(follow *models.Follow) error {
	f.follows = append(f.follows, *follow)
	return nil
}

func (f *fakeFollowRepo) DeleteFollow(followerID, followingID uint) error {
	for i, fl := range f.follows {
		if fl.FollowerID == followerID && fl.FollowingID == followingID {
			f.follows = append(f.follows[:i], f.follows[i+1:]...)
			return nil
		}
	}
	return nil
}

func (f *fakeFollowRepo) IsFollowing(followerID, followingID uint) (bool, error) {
	for _, fl := range f.follows {
		if fl.FollowerID == followerID && fl.FollowingID == followingID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeFollowRepo) GetFollowers(userID uint) ([]models.Follow, error) {
	var out []models.Follow
	for _, fl := range f.follows {
		if fl.FollowingID == userID {
			out = append(out, fl)
		}
	}
	return out, nil
}

func (f *fakeFollowRepo) GetFollowing(userID uint) ([]models.Follow, error) {
	var out []models.Follow
	for _, fl := range f.follows {
		if fl.FollowerID == userID {
			out = append(out, fl)
		}
	}
	return out, nil
}

// fakeNotificationRepo records notifications created by handlers.
type fakeNotificationRepo struct {
	rows []*models.Notification
}

func (f *fakeNotificationRepo) CreateNotification(n *models.Notification) error {
	n.ID = uint(len(f.rows) + 1)
	f.rows = append(f.rows, n)
	return nil
}

func (f *fakeNotificationRepo) UpdateNotification(n *models.Notification) error { return nil }

func (f *fakeNotificationRepo) FindActive(uint, uint, string, string, string, time.Time) (*models.Notification, error) {
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeNotificationRepo) GetByRecipientID(uint, int, int) ([]models.Notification, int64, error) {
	return nil, 0, nil
}

func (f *fakeNotificationRepo) GetUnreadCount(uint) (int64, error) { return 0, nil }
func (f *fakeNotificationRepo) MarkAsRead(uint) error { return nil }
func (f *fakeNotificationRepo) MarkAllAsRead(uint) error { return nil }

func newFollowTest(t *testing.T) (*FollowHandler, *fakeFollowRepo, *fakeNotificationRepo) {
	t.Helper()
	follows := &fakeFollowRepo{}
	users := newFakeUserRepo()
	require.NoError(t, users.CreateUser(&models.User{Email: "a@example.com"})) // id 1
	require.NoError(t, users.CreateUser(&models.User{Email: "b@example.com"})) // id 2
	notifications := &fakeNotificationRepo{}
	notifier := notify.New(notifications, &fakeProfileRepo{})
	return NewFollowHandler(follows, users, notifier), follows, notifications
}

func followReq(h *FollowHandler, userID uint, targetID string) error {
	c, _ := authedJSON(http.MethodPost, "/", "", userID)
	c.SetParamNames("id")
	c.SetParamValues(targetID)
	return h.FollowUser(c)
}

func TestFollowUser(t *testing.T) {
	h, follows, notifications := newFollowTest(t)

	require.NoError(t, followReq(h, 1, "2"))
	require.Len(t, follows.follows, 1)
	assert.Equal(t, uint(1), follows.follows[0].FollowerID)
	assert.Equal(t, uint(2), follows.follows[0].FollowingID)

	// The followed user gets a notification.
	require.Len(t, notifications.rows, 1)
	assert.Equal(t, models.NotificationFollow, notifications.rows[0].Type)
	assert.Equal(t, uint(2), notifications.rows[0].RecipientID)
}

func TestFollowUserRejectsSelf(t *testing.T) {
	h, _, _ := newFollowTest(t)

	err := followReq(h, 1, "1")
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, err.(*echo.HTTPError).Code)
}

func TestFollowUserUnknownTarget(t *testing.T) {
	h, _, _ := newFollowTest(t)

	err := followReq(h, 1, "42")
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, err.(*echo.HTTPError).Code)
}

func TestFollowUserTwiceConflicts(t *testing.T) {
	h, _, _ := newFollowTest(t)

	require.NoError(t, followReq(h, 1, "2"))
	err := followReq(h, 1, "2")
	require.Error(t, err)
	assert.Equal(t, http.StatusConflict, err.(*echo.HTTPError).Code)
}

func TestUnfollowUser(t *testing.T) {
	h, follows, _ := newFollowTest(t)
	require.NoError(t, followReq(h, 1, "2"))

	c, _ := authedJSON(http.MethodDelete, "/", "", 1)
	c.SetParamNames("id")
	c.SetParamValues("2")
	require.NoError(t, h.UnfollowUser(c))
	assert.Empty(t, follows.follows)
}

func TestGetFollowersAndFollowing(t *testing.T) {
	h, _, _ := newFollowTest(t)
	require.NoError(t, followReq(h, 1, "2"))

	c, rec := authedJSON(http.MethodGet, "/", "", 1)
	c.SetParamNames("id")
	c.SetParamValues("2")
	require.NoError(t, h.GetFollowers(c))
	assert.Contains(t, rec.Body.String(), `"user_ids":[1]`)

	c, rec = authedJSON(http.MethodGet, "/", "", 1)
	c.SetParamNames("id")
	c.SetParamValues("1")
	require.NoError(t, h.GetFollowing(c))
	assert.Contains(t, rec.Body.String(), `"user_ids":[2]`)
}
