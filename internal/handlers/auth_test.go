package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/tripverse/backend/internal/email"
	"github.com/tripverse/backend/internal/middleware"
	"github.com/tripverse/backend/internal/models"
)

// fakeUserRepo is an in-memory UserRepository.
type fakeUserRepo struct {
	users  map[uint]*models.User
	nextID uint
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[uint]*models.User{}}
}

func (f *fakeUserRepo) CreateUser(user *models.User) error {
	f.nextID++
	user.ID = f.nextID
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) GetUserByID(id uint) (*models.User, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) GetUserByEmail(email string) (*models.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) GetUserByMagicToken(token string) (*models.User, error) {
	for _, u := range f.users {
		if u.MagicToken != nil && *u.MagicToken == token {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) UpdateUser(user *models.User) error {
	if _, ok := f.users[user.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) DeleteUser(id uint) error {
	delete(f.users, id)
	return nil
}

// recordingProvider captures outgoing mail; fails when broken is set.
type recordingProvider struct {
	sent   []string
	broken bool
}

func (p *recordingProvider) Send(_ context.Context, to, _, _ string) error {
	if p.broken {
		return errors.New("smtp unavailable")
	}
	p.sent = append(p.sent, to)
	return nil
}

func newAuthTest(provider email.Provider) (*AuthHandler, *fakeUserRepo) {
	repo := newFakeUserRepo()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	mailer := email.New(provider, logger, "http://localhost:3000")
	return NewAuthHandler(repo, mailer, "test-secret"), repo
}

func postJSON(path, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestRequestMagicLinkCreatesUser(t *testing.T) {
	provider := &recordingProvider{}
	h, repo := newAuthTest(provider)

	c, rec := postJSON("/auth/magic-link", `{"email":"new@example.com"}`)
	require.NoError(t, h.RequestMagicLink(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	user, err := repo.GetUserByEmail("new@example.com")
	require.NoError(t, err)
	require.NotNil(t, user.MagicToken)
	require.NotNil(t, user.TokenExpiry)
	assert.True(t, user.TokenExpiry.After(time.Now()))
	assert.Equal(t, []string{"new@example.com"}, provider.sent)
}

func TestRequestMagicLinkOverwritesPreviousToken(t *testing.T) {
	h, repo := newAuthTest(&recordingProvider{})

	c, _ := postJSON("/auth/magic-link", `{"email":"repeat@example.com"}`)
	require.NoError(t, h.RequestMagicLink(c))
	user, _ := repo.GetUserByEmail("repeat@example.com")
	first := *user.MagicToken

	c, _ = postJSON("/auth/magic-link", `{"email":"repeat@example.com"}`)
	require.NoError(t, h.RequestMagicLink(c))
	user, _ = repo.GetUserByEmail("repeat@example.com")

	assert.NotEqual(t, first, *user.MagicToken, "a new request invalidates the old token")
	assert.Len(t, repo.users, 1, "no duplicate user rows")
}

func TestRequestMagicLinkRejectsBadEmail(t *testing.T) {
	h, _ := newAuthTest(&recordingProvider{})

	c, _ := postJSON("/auth/magic-link", `{"email":"not-an-email"}`)
	err := h.RequestMagicLink(c)
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, err.(*echo.HTTPError).Code)
}

func TestRequestMagicLinkMailerFailure(t *testing.T) {
	h, _ := newAuthTest(&recordingProvider{broken: true})

	c, _ := postJSON("/auth/magic-link", `{"email":"new@example.com"}`)
	err := h.RequestMagicLink(c)
	require.Error(t, err)
	assert.Equal(t, http.StatusBadGateway, err.(*echo.HTTPError).Code)
}

func TestVerifyTokenIssuesJWTOnce(t *testing.T) {
	h, repo := newAuthTest(&recordingProvider{})

	c, _ := postJSON("/auth/magic-link", `{"email":"login@example.com"}`)
	require.NoError(t, h.RequestMagicLink(c))
	user, _ := repo.GetUserByEmail("login@example.com")
	magic := *user.MagicToken

	c, rec := postJSON("/auth/verify", `{"token":"`+magic+`"}`)
	require.NoError(t, h.VerifyToken(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	claims, err := middleware.ParseToken(body["token"], "test-secret")
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "login@example.com", claims.Email)

	// The JWT also lands in an httpOnly cookie for the SPA.
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "token", cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)

	// Second redemption of the same magic token fails.
	c, _ = postJSON("/auth/verify", `{"token":"`+magic+`"}`)
	errVerify := h.VerifyToken(c)
	require.Error(t, errVerify)
	assert.Equal(t, http.StatusUnauthorized, errVerify.(*echo.HTTPError).Code)
}

func TestVerifyTokenRejectsExpired(t *testing.T) {
	h, repo := newAuthTest(&recordingProvider{})

	token := "expired-token"
	expiry := time.Now().Add(-time.Minute)
	require.NoError(t, repo.CreateUser(&models.User{
		Email:       "stale@example.com",
		MagicToken:  &token,
		TokenExpiry: &expiry,
	}))

	c, _ := postJSON("/auth/verify", `{"token":"expired-token"}`)
	err := h.VerifyToken(c)
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, err.(*echo.HTTPError).Code)
}

func TestVerifyTokenRejectsUnknown(t *testing.T) {
	h, _ := newAuthTest(&recordingProvider{})

	c, _ := postJSON("/auth/verify", `{"token":"never-issued"}`)
	err := h.VerifyToken(c)
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, err.(*echo.HTTPError).Code)
}
