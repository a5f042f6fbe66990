package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tripverse/backend/internal/upload"
)

// UploadHandler proxies image uploads to the hosting provider
type UploadHandler struct {
	uploader *upload.CloudinaryUploader
}

// NewUploadHandler creates a new UploadHandler
func NewUploadHandler(uploader *upload.CloudinaryUploader) *UploadHandler {
	return &UploadHandler{uploader: uploader}
}

// RegisterUploadRoutes registers upload-related routes
func (h *UploadHandler) RegisterUploadRoutes(g *echo.Group) {
	g.POST("/uploads", h.UploadImage)
}

// UploadImage accepts a multipart file and returns its hosted URL
func (h *UploadHandler) UploadImage(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Missing file field")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Unreadable file")
	}
	defer file.Close()

	url, err := h.uploader.Upload(c.Request().Context(), fileHeader.Filename, file)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, "Image upload failed")
	}

	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": echo.Map{"url": url}})
}
