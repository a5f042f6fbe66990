package handlers

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/tripverse/backend/internal/faq"
)

// FAQHandler answers support questions via keyword matching
type FAQHandler struct {
	bot *faq.Bot
}

// NewFAQHandler creates a new FAQHandler
func NewFAQHandler(bot *faq.Bot) *FAQHandler {
	return &FAQHandler{bot: bot}
}

// RegisterFAQRoutes registers FAQ routes
func (h *FAQHandler) RegisterFAQRoutes(g *echo.Group) {
	g.POST("/faq/ask", h.Ask)
}

// AskRequest defines the request body for an FAQ question
type AskRequest struct {
	Question string `json:"question" validate:"required,min=1,max=500"`
}

// Ask returns the best-matching FAQ answer
func (h *FAQHandler) Ask(c echo.Context) error {
	var req AskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"answer": h.bot.Answer(req.Question)}})
}
