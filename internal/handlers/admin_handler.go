package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tripverse/backend/internal/repositories"
)

// AdminHandler serves the admin dashboard aggregates
type AdminHandler struct {
	statsRepository repositories.StatsRepository
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(statsRepo repositories.StatsRepository) *AdminHandler {
	return &AdminHandler{statsRepository: statsRepo}
}

// RegisterAdminRoutes registers admin routes; callers must wrap the group
// with the admin middleware.
func (h *AdminHandler) RegisterAdminRoutes(g *echo.Group) {
	g.GET("/stats", h.GetStats)
}

// GetStats returns platform-wide aggregate counts
func (h *AdminHandler) GetStats(c echo.Context) error {
	stats, err := h.statsRepository.GetPlatformStats(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": stats})
}
