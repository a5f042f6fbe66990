package handlers

import (
	"github.com/labstack/echo/v4"

	"github.com/tripverse/backend/internal/models"
)

// getUserIDFromContext extracts the authenticated user's ID from the JWT
// claims placed in context by the auth middleware. Returns 0 if absent.
func getUserIDFromContext(c echo.Context) uint {
	claims, ok := c.Get("user").(*models.JwtCustomClaims)
	if !ok {
		return 0
	}
	return claims.UserID
}
