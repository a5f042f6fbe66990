package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripverse/backend/internal/models"
)

const testSecret = "test-secret"

func signToken(t *testing.T, claims *models.JwtCustomClaims, secret string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func validClaims() *models.JwtCustomClaims {
	return &models.JwtCustomClaims{
		UserID: 42,
		Email:  "traveler@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
}

func TestParseToken(t *testing.T) {
	signed := signToken(t, validClaims(), testSecret)

	claims, err := ParseToken(signed, testSecret)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "traveler@example.com", claims.Email)
	assert.False(t, claims.IsAdmin)
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	signed := signToken(t, validClaims(), "other-secret")

	_, err := ParseToken(signed, testSecret)
	assert.Error(t, err)
}

func TestParseTokenRejectsExpired(t *testing.T) {
	claims := validClaims()
	claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
	signed := signToken(t, claims, testSecret)

	_, err := ParseToken(signed, testSecret)
	assert.Error(t, err)
}

func runMiddleware(t *testing.T, req *http.Request, mw echo.MiddlewareFunc) (*httptest.ResponseRecorder, error) {
	t.Helper()
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	handler := mw(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	return rec, handler(c)
}

func TestJWTAuthMiddlewareBearerHeader(t *testing.T) {
	signed := signToken(t, validClaims(), testSecret)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signed)

	rec, err := runMiddleware(t, req, JWTAuthMiddleware(testSecret))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestJWTAuthMiddlewareCookieFallback(t *testing.T) {
	signed := signToken(t, validClaims(), testSecret)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: signed})

	rec, err := runMiddleware(t, req, JWTAuthMiddleware(testSecret))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestJWTAuthMiddlewareMissingCredentials(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	_, err := runMiddleware(t, req, JWTAuthMiddleware(testSecret))
	require.Error(t, err)
	httpErr, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
}

func TestAdminOnly(t *testing.T) {
	e := echo.New()

	next := func(c echo.Context) error { return c.NoContent(http.StatusOK) }

	// Non-admin claims are rejected with 403.
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	c := e.NewContext(req, httptest.NewRecorder())
	c.Set("user", validClaims())
	err := AdminOnly()(next)(c)
	require.Error(t, err)
	httpErr, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusForbidden, httpErr.Code)

	// Admin claims pass through.
	admin := validClaims()
	admin.IsAdmin = true
	rec := httptest.NewRecorder()
	c = e.NewContext(req, rec)
	c.Set("user", admin)
	require.NoError(t, AdminOnly()(next)(c))
	assert.Equal(t, http.StatusOK, rec.Code)
}
