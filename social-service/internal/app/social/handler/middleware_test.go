package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"signalidea/social-service/internal/app/social/entity"
	"signalidea/social-service/internal/app/social/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func sessionEcho(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"user_id": currentUserID(c), "has_session": currentSession(c) != nil})
}

func TestAuthMiddleware_Authenticate_MissingHeader(t *testing.T) {
	// Arrange
	d := newSessionDeps()
	middleware := NewAuthMiddleware(d.sessions, service.NewRequestTracker())

	router := setupTestRouter(http.MethodGet, "/protected", middleware.Authenticate(), sessionEcho)
	rec := httptest.NewRecorder()

	// Act
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/protected", nil))

	// Assert
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, true, decodeBody(t, rec)["login_required"])
}

func TestAuthMiddleware_Authenticate_ValidToken(t *testing.T) {
	// Arrange
	d := newSessionDeps()
	middleware := NewAuthMiddleware(d.sessions, service.NewRequestTracker())

	token, err := d.jwt.GenerateAccessToken("u1", "u1@example.com")
	require.NoError(t, err)

	d.tokenRepo.On("IsBlacklisted", mock.Anything, token).Return(false, nil)
	d.profileRepo.On("GetByID", mock.Anything, "u1").Return(&entity.Profile{ID: "u1", AccountType: entity.AccountTypePrivate}, nil)

	router := setupTestRouter(http.MethodGet, "/protected", middleware.Authenticate(), sessionEcho)
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	// Act
	router.ServeHTTP(rec, req)

	// Assert
	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "u1", body["user_id"])
	assert.Equal(t, true, body["has_session"])
}

func TestAuthMiddleware_Authenticate_BlacklistedToken(t *testing.T) {
	d := newSessionDeps()
	middleware := NewAuthMiddleware(d.sessions, service.NewRequestTracker())

	token, err := d.jwt.GenerateAccessToken("u1", "u1@example.com")
	require.NoError(t, err)
	d.tokenRepo.On("IsBlacklisted", mock.Anything, token).Return(true, nil)

	router := setupTestRouter(http.MethodGet, "/protected", middleware.Authenticate(), sessionEcho)
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddleware_Authenticate_MalformedHeader(t *testing.T) {
	d := newSessionDeps()
	middleware := NewAuthMiddleware(d.sessions, nil)

	router := setupTestRouter(http.MethodGet, "/protected", middleware.Authenticate(), sessionEcho)
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Token abc")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddleware_OptionalAuthenticate_InvalidTokenIsAnonymous(t *testing.T) {
	// Arrange
	d := newSessionDeps()
	middleware := NewAuthMiddleware(d.sessions, nil)

	router := setupTestRouter(http.MethodGet, "/feed", middleware.OptionalAuthenticate(), sessionEcho)
	req := httptest.NewRequest(http.MethodGet, "/feed", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	rec := httptest.NewRecorder()

	// Act
	router.ServeHTTP(rec, req)

	// Assert
	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "", body["user_id"])
	assert.Equal(t, false, body["has_session"])
}

func TestAuthMiddleware_LatestOnly_TracksRequest(t *testing.T) {
	// Arrange
	tracker := service.NewRequestTracker()
	middleware := NewAuthMiddleware(newSessionDeps().sessions, tracker)

	var inFlight int
	router := setupTestRouter(http.MethodGet, "/search",
		withSession(&entity.Session{UserID: "u1"}),
		middleware.LatestOnly("profile-search"),
		func(c *gin.Context) {
			inFlight = tracker.InFlight()
			c.Status(http.StatusNoContent)
		},
	)
	rec := httptest.NewRecorder()

	// Act
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/search", nil))

	// Assert
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, 1, inFlight)
	assert.Equal(t, 0, tracker.InFlight())
}

func TestSuperseded_RespondsConflict(t *testing.T) {
	router := setupTestRouter(http.MethodGet, "/stale", func(c *gin.Context) {
		ctx, cancel := context.WithCancelCause(c.Request.Context())
		cancel(service.ErrSuperseded)
		c.Request = c.Request.WithContext(ctx)

		if superseded(c) {
			return
		}
		c.Status(http.StatusOK)
	})
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/stale", nil))

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "superseded", decodeBody(t, rec)["error"])
}
