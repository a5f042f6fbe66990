package handlers

import (
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/tripverse/backend/internal/models"
	"github.com/tripverse/backend/internal/repositories"
)

// ChatHandler handles the REST side of messaging. Persistence happens here;
// live delivery is a separate relay over the websocket gateway that the
// client performs after this handler returns the stored message.
type ChatHandler struct {
	chatRepository    repositories.ChatRepository
	userRepository    repositories.UserRepository
	profileRepository repositories.ProfileRepository
}

// NewChatHandler creates a new ChatHandler
func NewChatHandler(chatRepo repositories.ChatRepository, userRepo repositories.UserRepository, profileRepo repositories.ProfileRepository) *ChatHandler {
	return &ChatHandler{
		chatRepository:    chatRepo,
		userRepository:    userRepo,
		profileRepository: profileRepo,
	}
}

// RegisterChatRoutes registers chat-related routes
func (h *ChatHandler) RegisterChatRoutes(g *echo.Group) {
	g.GET("/chats", h.ListChats)
	g.POST("/chats", h.GetOrCreateChat)
	g.POST("/chats/:id/messages", h.SendMessage)
	g.PUT("/chats/:id/read", h.MarkRead)
	g.GET("/chats/unread-count", h.GetUnreadCount)
	g.DELETE("/chats/:id", h.DeleteChat)
}

// EnrichedChat is a chat with participant profiles joined
type EnrichedChat struct {
	models.Chat
	Profiles []models.Profile `json:"profiles"`
}

// ListChats returns every chat the caller participates in, most recent
// activity first, with participant profiles attached.
func (h *ChatHandler) ListChats(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	chats, err := h.chatRepository.ListByUser(c.Request().Context(), currentUserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	participantIDs := map[uint]bool{}
	for i := range chats {
		for _, p := range chats[i].Participants {
			participantIDs[p] = true
		}
	}
	ids := make([]uint, 0, len(participantIDs))
	for id := range participantIDs {
		ids = append(ids, id)
	}

	profiles, err := h.profileRepository.GetByUserIDs(ids)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	profileByUser := make(map[uint]models.Profile, len(profiles))
	for _, p := range profiles {
		profileByUser[p.UserID] = p
	}

	enriched := make([]EnrichedChat, len(chats))
	for i, chat := range chats {
		enriched[i] = EnrichedChat{Chat: chat}
		for _, p := range chat.Participants {
			if profile, ok := profileByUser[p]; ok {
				enriched[i].Profiles = append(enriched[i].Profiles, profile)
			}
		}
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"chats": enriched}})
}

// GetOrCreateChat finds or atomically creates the chat between the caller
// and another user.
func (h *ChatHandler) GetOrCreateChat(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.CreateChatRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if req.UserID == currentUserID {
		return echo.NewHTTPError(http.StatusBadRequest, "Cannot open a chat with yourself")
	}

	if _, err := h.userRepository.GetUserByID(req.UserID); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "User not found")
	}

	chat, err := h.chatRepository.GetOrCreate(c.Request().Context(), currentUserID, req.UserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, chat)
}

// SendMessage appends a message to a chat. The stored message, id included,
// is returned so the client can relay it over the socket.
func (h *ChatHandler) SendMessage(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	chatID := c.Param("id")

	var req models.SendMessageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	chat, err := h.chatRepository.GetByID(c.Request().Context(), chatID)
	if err != nil {
		if err == repositories.ErrChatNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Chat not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if !chat.HasParticipant(currentUserID) {
		return echo.NewHTTPError(http.StatusForbidden, "Not a participant of this chat")
	}

	message := &models.Message{
		ID:        primitive.NewObjectID(),
		SenderID:  currentUserID,
		Content:   req.Content,
		Read:      false,
		CreatedAt: time.Now(),
	}

	if err := h.chatRepository.AppendMessage(c.Request().Context(), chatID, message); err != nil {
		if err == repositories.ErrChatNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Chat not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusCreated, message)
}

// MarkRead flips read=true on every message in the chat not sent by the
// caller. Safe to call repeatedly.
func (h *ChatHandler) MarkRead(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	chatID := c.Param("id")

	chat, err := h.chatRepository.GetByID(c.Request().Context(), chatID)
	if err != nil {
		if err == repositories.ErrChatNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Chat not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if !chat.HasParticipant(currentUserID) {
		return echo.NewHTTPError(http.StatusForbidden, "Not a participant of this chat")
	}

	if err := h.chatRepository.MarkRead(c.Request().Context(), chatID, currentUserID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// GetUnreadCount returns the caller's unread message total across all chats
func (h *ChatHandler) GetUnreadCount(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	count, err := h.chatRepository.UnreadCount(c.Request().Context(), currentUserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"count": count}})
}

// DeleteChat hard-deletes a chat the caller participates in
func (h *ChatHandler) DeleteChat(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	chatID := c.Param("id")

	chat, err := h.chatRepository.GetByID(c.Request().Context(), chatID)
	if err != nil {
		if err == repositories.ErrChatNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Chat not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if !chat.HasParticipant(currentUserID) {
		return echo.NewHTTPError(http.StatusForbidden, "Not a participant of this chat")
	}

	if err := h.chatRepository.Delete(c.Request().Context(), chatID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.NoContent(http.StatusNoContent)
}
