package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/tripverse/backend/internal/models"
	"github.com/tripverse/backend/internal/repositories"
)

// FeedHandler handles feed-related HTTP requests
type FeedHandler struct {
	postRepository     repositories.PostRepository
	profileRepository  repositories.ProfileRepository
	followRepository   repositories.FollowRepository
	likeRepository     repositories.LikeRepository
	bookmarkRepository repositories.BookmarkRepository
}

// NewFeedHandler creates a new FeedHandler
func NewFeedHandler(
	postRepo repositories.PostRepository,
	profileRepo repositories.ProfileRepository,
	followRepo repositories.FollowRepository,
	likeRepo repositories.LikeRepository,
	bookmarkRepo repositories.BookmarkRepository,
) *FeedHandler {
	return &FeedHandler{
		postRepository:     postRepo,
		profileRepository:  profileRepo,
		followRepository:   followRepo,
		likeRepository:     likeRepo,
		bookmarkRepository: bookmarkRepo,
	}
}

// RegisterFeedRoutes registers feed-related routes
func (h *FeedHandler) RegisterFeedRoutes(g *echo.Group) {
	g.GET("/feed", h.GetFeed)
}

// EnrichedPost is a post with author info and caller-specific flags
type EnrichedPost struct {
	models.Post
	Author       *models.Profile `json:"author,omitempty"`
	IsLiked      bool            `json:"is_liked"`
	IsBookmarked bool            `json:"is_bookmarked"`
}

// GetFeed returns posts by followed users, newest first
func (h *FeedHandler) GetFeed(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 50 {
		limit = 10
	}
	skip := int64((page - 1) * limit)

	following, err := h.followRepository.GetFollowing(currentUserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	// Own posts appear in the feed too.
	authorIDs := make([]uint, 0, len(following)+1)
	authorIDs = append(authorIDs, currentUserID)
	for _, f := range following {
		authorIDs = append(authorIDs, f.FollowingID)
	}

	posts, err := h.postRepository.GetPostsByUserIDs(c.Request().Context(), authorIDs, skip, int64(limit))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	profiles, err := h.profileRepository.GetByUserIDs(authorIDs)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	profileByUser := make(map[uint]*models.Profile, len(profiles))
	for i := range profiles {
		profileByUser[profiles[i].UserID] = &profiles[i]
	}

	enriched := make([]EnrichedPost, len(posts))
	for i, post := range posts {
		enriched[i] = EnrichedPost{Post: post, Author: profileByUser[post.UserID]}
		if liked, err := h.likeRepository.HasLiked(post.ID.Hex(), currentUserID); err == nil {
			enriched[i].IsLiked = liked
		}
		if saved, err := h.bookmarkRepository.IsBookmarked(currentUserID, post.ID.Hex()); err == nil {
			enriched[i].IsBookmarked = saved
		}
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    echo.Map{"posts": enriched},
		"meta":    echo.Map{"currentPage": page, "itemsPerPage": limit},
	})
}
