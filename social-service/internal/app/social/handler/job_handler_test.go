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

func validListingRequest() entity.CreateJobListingRequest {
	return entity.CreateJobListingRequest{
		Title:          "Barista",
		Description:    "Morning shifts at the kiosk",
		Location:       "Lisbon",
		EmploymentType: string(entity.EmploymentPartTime),
	}
}

func TestJobHandler_Create_Business(t *testing.T) {
	// Arrange
	jobRepo := new(mocks.MockJobListingRepository)
	handler := NewJobHandler(service.NewJobService(jobRepo))
	jobRepo.On("Create", mock.Anything, mock.AnythingOfType("*entity.JobListing")).Return(nil)

	session := &entity.Session{UserID: "shop", AccountType: entity.AccountTypeBusiness}
	router := setupTestRouter(http.MethodPost, "/jobs", withSession(session), handler.Create)
	rec := httptest.NewRecorder()

	// Act
	router.ServeHTTP(rec, jsonRequest(t, http.MethodPost, "/jobs", validListingRequest()))

	// Assert
	assert.Equal(t, http.StatusCreated, rec.Code)

	var listing entity.JobListing
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listing))
	assert.Equal(t, "shop", listing.BusinessID)
	assert.Equal(t, entity.JobListingOpen, listing.Status)
	assert.True(t, listing.ExpiresAt.After(time.Now()))
}

func TestJobHandler_Create_PrivateAccount(t *testing.T) {
	jobRepo := new(mocks.MockJobListingRepository)
	handler := NewJobHandler(service.NewJobService(jobRepo))

	session := &entity.Session{UserID: "me", AccountType: entity.AccountTypePrivate}
	router := setupTestRouter(http.MethodPost, "/jobs", withSession(session), handler.Create)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, jsonRequest(t, http.MethodPost, "/jobs", validListingRequest()))

	assert.Equal(t, http.StatusForbidden, rec.Code)
	jobRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestJobHandler_Create_UnknownEmploymentType(t *testing.T) {
	jobRepo := new(mocks.MockJobListingRepository)
	handler := NewJobHandler(service.NewJobService(jobRepo))

	req := validListingRequest()
	req.EmploymentType = "gig"

	session := &entity.Session{UserID: "shop", AccountType: entity.AccountTypeBusiness}
	router := setupTestRouter(http.MethodPost, "/jobs", withSession(session), handler.Create)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, jsonRequest(t, http.MethodPost, "/jobs", req))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "EmploymentType is oneof", decodeBody(t, rec)["error"])
}

func TestJobHandler_ListOpen_Limit(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		wantLimit int
	}{
		{name: "default", query: "", wantLimit: 50},
		{name: "explicit", query: "?limit=10", wantLimit: 10},
		{name: "capped", query: "?limit=100000", wantLimit: 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			jobRepo := new(mocks.MockJobListingRepository)
			handler := NewJobHandler(service.NewJobService(jobRepo))
			jobRepo.On("ListOpen", mock.Anything, "", tt.wantLimit).Return([]entity.JobListing{
				{ID: "j1", Title: "Barista", Status: entity.JobListingOpen},
			}, nil)

			router := setupTestRouter(http.MethodGet, "/jobs", handler.ListOpen)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/jobs"+tt.query, nil))

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, float64(1), decodeBody(t, rec)["total"])
			jobRepo.AssertExpectations(t)
		})
	}
}

func TestJobHandler_ListByBusiness_StoreFailureIsEmpty(t *testing.T) {
	jobRepo := new(mocks.MockJobListingRepository)
	handler := NewJobHandler(service.NewJobService(jobRepo))
	jobRepo.On("ListByBusiness", mock.Anything, "shop").Return(nil, errors.New("connection refused"))

	router := setupTestRouter(http.MethodGet, "/businesses/:id/jobs", handler.ListByBusiness)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/businesses/shop/jobs", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, []interface{}{}, body["listings"])
	assert.Equal(t, float64(0), body["total"])
}

func TestJobHandler_Close_NotOwner(t *testing.T) {
	jobRepo := new(mocks.MockJobListingRepository)
	handler := NewJobHandler(service.NewJobService(jobRepo))
	jobRepo.On("GetByID", mock.Anything, "j1").Return(&entity.JobListing{ID: "j1", BusinessID: "shop"}, nil)

	router := setupTestRouter(http.MethodPost, "/jobs/:id/close", withSession(&entity.Session{UserID: "rival"}), handler.Close)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/jobs/j1/close", nil))

	assert.Equal(t, http.StatusForbidden, rec.Code)
	jobRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}
