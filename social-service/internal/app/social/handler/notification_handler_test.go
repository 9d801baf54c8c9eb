package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"signalidea/social-service/internal/app/social/entity"
	"signalidea/social-service/internal/app/social/repository/mocks"
	"signalidea/social-service/internal/app/social/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestNotificationHandler_List(t *testing.T) {
	// Arrange
	notificationRepo := new(mocks.MockNotificationRepository)
	profileRepo := new(mocks.MockProfileRepository)
	ideaRepo := new(mocks.MockIdeaRepository)
	handler := NewNotificationHandler(service.NewNotificationService(notificationRepo, profileRepo, ideaRepo))
	ideaID := "i1"

	notificationRepo.On("ListByRecipient", mock.Anything, "me", 50).Return([]entity.Notification{
		{ID: "n1", RecipientID: "me", ActorID: "fan", Type: entity.NotificationSignal, IdeaID: &ideaID, CreatedAt: time.Now()},
	}, nil)
	profileRepo.On("GetByIDs", mock.Anything, []string{"fan"}).Return(map[string]entity.Profile{
		"fan": {ID: "fan", DisplayName: "Fan"},
	}, nil)
	ideaRepo.On("ResolveUpdateParents", mock.Anything, []string{}).Return(map[string]string{}, nil)
	ideaRepo.On("GetTitles", mock.Anything, []string{"i1"}).Return(map[string]string{"i1": "Solar kiosk"}, nil)
	notificationRepo.On("MarkReadUpTo", mock.Anything, "me", mock.AnythingOfType("time.Time")).Return(int64(1), nil)

	router := setupTestRouter(http.MethodGet, "/notifications", withSession(&entity.Session{UserID: "me"}), handler.List)
	rec := httptest.NewRecorder()

	// Act
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/notifications", nil))

	// Assert
	assert.Equal(t, http.StatusOK, rec.Code)

	var response entity.NotificationListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	require.Len(t, response.Notifications, 1)
	assert.Equal(t, `Fan signalled your idea "Solar kiosk"`, response.Notifications[0].Text)
	assert.False(t, response.Notifications[0].Read)
	notificationRepo.AssertExpectations(t)
}

func TestNotificationHandler_UnreadCount(t *testing.T) {
	notificationRepo := new(mocks.MockNotificationRepository)
	handler := NewNotificationHandler(service.NewNotificationService(notificationRepo, nil, nil))

	notificationRepo.On("CountUnread", mock.Anything, "me").Return(4, nil)

	router := setupTestRouter(http.MethodGet, "/notifications/unread-count", withSession(&entity.Session{UserID: "me"}), handler.UnreadCount)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/notifications/unread-count", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(4), decodeBody(t, rec)["count"])
}

func TestNotificationHandler_List_Anonymous(t *testing.T) {
	handler := NewNotificationHandler(service.NewNotificationService(new(mocks.MockNotificationRepository), nil, nil))

	router := setupTestRouter(http.MethodGet, "/notifications", handler.List)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/notifications", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestNotificationHandler_List_StoreFailureIsEmpty(t *testing.T) {
	notificationRepo := new(mocks.MockNotificationRepository)
	handler := NewNotificationHandler(service.NewNotificationService(notificationRepo, nil, nil))

	notificationRepo.On("ListByRecipient", mock.Anything, "me", 50).Return(nil, errors.New("connection refused"))

	router := setupTestRouter(http.MethodGet, "/notifications", withSession(&entity.Session{UserID: "me"}), handler.List)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/notifications", nil))

	assert.Equal(t, http.StatusOK, rec.Code)

	var response entity.NotificationListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Empty(t, response.Notifications)
	assert.Equal(t, 0, response.Total)
	notificationRepo.AssertNotCalled(t, "MarkReadUpTo", mock.Anything, mock.Anything, mock.Anything)
}
