package handlers

import (
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/tripverse/backend/internal/email"
	"github.com/tripverse/backend/internal/models"
	"github.com/tripverse/backend/internal/repositories"
)

// magicLinkTTL is how long an emailed sign-in token stays valid.
const magicLinkTTL = 15 * time.Minute

// AuthHandler handles magic-link authentication
type AuthHandler struct {
	userRepository repositories.UserRepository
	mailer         *email.Sender
	jwtSecret      string
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(userRepo repositories.UserRepository, mailer *email.Sender, jwtSecret string) *AuthHandler {
	return &AuthHandler{
		userRepository: userRepo,
		mailer:         mailer,
		jwtSecret:      jwtSecret,
	}
}

// RegisterAuthRoutes registers authentication-related routes
func (h *AuthHandler) RegisterAuthRoutes(g *echo.Group) {
	g.POST("/magic-link", h.RequestMagicLink)
	g.POST("/verify", h.VerifyToken)
}

// RequestMagicLink creates the user on first sight of the email, stores a
// fresh one-time token (overwriting any previous one), and emails the link.
// The response does not reveal whether the email was already registered.
func (h *AuthHandler) RequestMagicLink(c echo.Context) error {
	var req models.MagicLinkRequest

	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.userRepository.GetUserByEmail(req.Email)
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusInternalServerError, "Database error")
		}
		user = &models.User{Email: req.Email}
		if err := h.userRepository.CreateUser(user); err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create user")
		}
	}

	token := uuid.NewString()
	expiry := time.Now().Add(magicLinkTTL)
	user.MagicToken = &token
	user.TokenExpiry = &expiry
	if err := h.userRepository.UpdateUser(user); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to store token")
	}

	if err := h.mailer.SendMagicLink(c.Request().Context(), user.Email, token); err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, "Failed to send email")
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Check your email for a sign-in link"})
}

// VerifyToken redeems a magic-link token for a JWT. The token is cleared on
// success so it cannot be replayed.
func (h *AuthHandler) VerifyToken(c echo.Context) error {
	var req models.VerifyTokenRequest

	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.userRepository.GetUserByMagicToken(req.Token)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired token")
	}

	if user.TokenExpiry == nil || time.Now().After(*user.TokenExpiry) {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired token")
	}

	user.MagicToken = nil
	user.TokenExpiry = nil
	if err := h.userRepository.UpdateUser(user); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to clear token")
	}

	token, err := h.generateJWT(user)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to generate token")
	}

	c.SetCookie(&http.Cookie{
		Name:     "token",
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	return c.JSON(http.StatusOK, echo.Map{"token": token})
}

// generateJWT generates a JWT token for a given user
func (h *AuthHandler) generateJWT(user *models.User) (string, error) {
	claims := &models.JwtCustomClaims{
		UserID:  user.ID,
		Email:   user.Email,
		IsAdmin: user.IsAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour * 72)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	t, err := token.SignedString([]byte(h.jwtSecret))
	if err != nil {
		return "", err
	}
	return t, nil
}
