package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"signalidea/social-service/internal/app/social/entity"
	"signalidea/social-service/internal/app/social/repository"
	"signalidea/social-service/internal/app/social/repository/mocks"
	"signalidea/social-service/internal/app/social/service"
	"signalidea/social-service/internal/app/social/util"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// Хелперы для создания тестового окружения

type sessionDeps struct {
	userRepo    *mocks.MockUserRepository
	profileRepo *mocks.MockProfileRepository
	tokenRepo   *mocks.MockTokenRepository
	jwt         *util.JWTManager
	sessions    *service.SessionService
}

func newSessionDeps() *sessionDeps {
	d := &sessionDeps{
		userRepo:    new(mocks.MockUserRepository),
		profileRepo: new(mocks.MockProfileRepository),
		tokenRepo:   new(mocks.MockTokenRepository),
		jwt:         util.NewJWTManager("test-secret-key", 15*time.Minute, 7*24*time.Hour),
	}
	d.sessions = service.NewSessionService(d.userRepo, d.profileRepo, d.tokenRepo, d.jwt)
	return d
}

// setupTestRouter создаёт тестовый Gin router с одним хендлером
func setupTestRouter(method, path string, handlers ...gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	router.Handle(method, path, handlers...)
	return router
}

// withSession подставляет уже разрешенную сессию, минуя AuthMiddleware
func withSession(session *entity.Session) gin.HandlerFunc {
	return func(c *gin.Context) {
		if session != nil {
			c.Set(ctxUserID, session.UserID)
			c.Set(ctxSession, session)
		}
		c.Next()
	}
}

func jsonRequest(t *testing.T, method, path string, body interface{}) *http.Request {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(method, path, bytes.NewBuffer(payload))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

// ==================== SignUp Handler Tests ====================

func TestAuthHandler_SignUp_Success(t *testing.T) {
	// Arrange
	d := newSessionDeps()
	handler := NewAuthHandler(d.sessions)

	d.userRepo.On("GetByEmail", mock.Anything, "newuser@example.com").Return(nil, repository.ErrNotFound)
	d.userRepo.On("Create", mock.Anything, mock.AnythingOfType("*entity.User")).Return(nil)
	d.profileRepo.On("Create", mock.Anything, mock.AnythingOfType("*entity.Profile")).Return(nil)
	d.tokenRepo.On("SaveRefreshToken", mock.Anything, mock.AnythingOfType("string"), mock.AnythingOfType("string"), mock.AnythingOfType("time.Time")).Return(nil)

	router := setupTestRouter(http.MethodPost, "/auth/signup", handler.SignUp)
	req := jsonRequest(t, http.MethodPost, "/auth/signup", entity.SignUpRequest{
		Email:       "newuser@example.com",
		Password:    "password123",
		DisplayName: "New User",
	})
	rec := httptest.NewRecorder()

	// Act
	router.ServeHTTP(rec, req)

	// Assert
	assert.Equal(t, http.StatusCreated, rec.Code)

	var response entity.AuthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.NotEmpty(t, response.AccessToken)
	assert.NotEmpty(t, response.RefreshToken)
	assert.Equal(t, entity.AccountTypePrivate, response.Session.AccountType)
	assert.Equal(t, "New User", response.Session.DisplayName)
}

func TestAuthHandler_SignUp_InvalidBody(t *testing.T) {
	// Arrange
	d := newSessionDeps()
	handler := NewAuthHandler(d.sessions)

	router := setupTestRouter(http.MethodPost, "/auth/signup", handler.SignUp)
	req := httptest.NewRequest(http.MethodPost, "/auth/signup", bytes.NewBufferString("{broken"))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	// Act
	router.ServeHTTP(rec, req)

	// Assert
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	d.userRepo.AssertNotCalled(t, "GetByEmail", mock.Anything, mock.Anything)
}

func TestAuthHandler_SignUp_InvalidEmail(t *testing.T) {
	d := newSessionDeps()
	handler := NewAuthHandler(d.sessions)

	router := setupTestRouter(http.MethodPost, "/auth/signup", handler.SignUp)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, jsonRequest(t, http.MethodPost, "/auth/signup", gin.H{
		"email":    "not-an-email",
		"password": "password123",
	}))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Email is email", decodeBody(t, rec)["error"])
}

func TestAuthHandler_SignUp_UserExists(t *testing.T) {
	// Arrange
	d := newSessionDeps()
	handler := NewAuthHandler(d.sessions)

	d.userRepo.On("GetByEmail", mock.Anything, "taken@example.com").Return(&entity.User{ID: "u1", Email: "taken@example.com"}, nil)

	router := setupTestRouter(http.MethodPost, "/auth/signup", handler.SignUp)
	rec := httptest.NewRecorder()

	// Act
	router.ServeHTTP(rec, jsonRequest(t, http.MethodPost, "/auth/signup", entity.SignUpRequest{
		Email:    "taken@example.com",
		Password: "password123",
	}))

	// Assert
	assert.Equal(t, http.StatusConflict, rec.Code)
}

// ==================== SignIn Handler Tests ====================

func TestAuthHandler_SignIn_WrongPassword(t *testing.T) {
	// Arrange
	d := newSessionDeps()
	handler := NewAuthHandler(d.sessions)

	hash, err := util.HashPassword("password123")
	require.NoError(t, err)
	d.userRepo.On("GetByEmail", mock.Anything, "user@example.com").Return(&entity.User{
		ID:           "u1",
		Email:        "user@example.com",
		PasswordHash: hash,
	}, nil)

	router := setupTestRouter(http.MethodPost, "/auth/login", handler.SignIn)
	rec := httptest.NewRecorder()

	// Act
	router.ServeHTTP(rec, jsonRequest(t, http.MethodPost, "/auth/login", entity.SignInRequest{
		Email:    "user@example.com",
		Password: "wrongpass1",
	}))

	// Assert
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid email or password", decodeBody(t, rec)["error"])
}

func TestAuthHandler_Refresh_InvalidToken(t *testing.T) {
	d := newSessionDeps()
	handler := NewAuthHandler(d.sessions)

	d.tokenRepo.On("GetRefreshToken", mock.Anything, "stale").Return("", repository.ErrRefreshNotFound)

	router := setupTestRouter(http.MethodPost, "/auth/refresh", handler.Refresh)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, jsonRequest(t, http.MethodPost, "/auth/refresh", entity.RefreshRequest{RefreshToken: "stale"}))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

// ==================== Session Handler Tests ====================

func TestAuthHandler_GetSession(t *testing.T) {
	d := newSessionDeps()
	handler := NewAuthHandler(d.sessions)
	session := &entity.Session{UserID: "u1", AccountType: entity.AccountTypeBusiness, DisplayName: "Acme"}

	router := setupTestRouter(http.MethodGet, "/auth/session", withSession(session), handler.GetSession)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/auth/session", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "business", body["account_type"])
	assert.Equal(t, "u1", body["user_id"])
}

func TestAuthHandler_GetSession_Anonymous(t *testing.T) {
	d := newSessionDeps()
	handler := NewAuthHandler(d.sessions)

	router := setupTestRouter(http.MethodGet, "/auth/session", handler.GetSession)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/auth/session", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, true, decodeBody(t, rec)["login_required"])
}

func TestAuthHandler_UpdateUser_NotFound(t *testing.T) {
	d := newSessionDeps()
	handler := NewAuthHandler(d.sessions)
	name := "Renamed"

	d.userRepo.On("GetByID", mock.Anything, "u1").Return(nil, repository.ErrNotFound)

	router := setupTestRouter(http.MethodPatch, "/auth/user", withSession(&entity.Session{UserID: "u1"}), handler.UpdateUser)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, jsonRequest(t, http.MethodPatch, "/auth/user", entity.UpdateUserRequest{DisplayName: &name}))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
