package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"signalidea/pkg/logger"
	"signalidea/social-service/internal/app/social/entity"
	"signalidea/social-service/internal/app/social/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

const (
	ctxUserID  = "user_id"
	ctxEmail   = "email"
	ctxSession = "session"
	ctxToken   = "access_token"
)

var validate = validator.New()

// bindJSON читает тело и проверяет validate-теги; при ошибке ответ уже отправлен
func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return false
	}

	if err := validate.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": formatValidationError(err)})
		return false
	}

	return true
}

func formatValidationError(err error) string {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		for _, fieldError := range validationErrors {
			return fieldError.Field() + " is " + fieldError.Tag()
		}
	}
	return "Validation failed"
}

// currentUserID - id из сессии; пусто для анонимного запроса
func currentUserID(c *gin.Context) string {
	return c.GetString(ctxUserID)
}

func currentSession(c *gin.Context) *entity.Session {
	value, exists := c.Get(ctxSession)
	if !exists {
		return nil
	}
	session, _ := value.(*entity.Session)
	return session
}

// domainResponse подбирает HTTP ответ для доменной ошибки; ok=false для остальных
func domainResponse(err error) (status int, body gin.H, ok bool) {
	switch {
	case errors.Is(err, service.ErrAuthRequired),
		errors.Is(err, service.ErrTokenExpired),
		errors.Is(err, service.ErrInvalidToken),
		errors.Is(err, service.ErrTokenBlacklisted):
		return http.StatusUnauthorized, gin.H{"error": "Login required", "login_required": true}, true
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized, gin.H{"error": "Invalid email or password"}, true
	case errors.Is(err, service.ErrInvalidRefreshToken):
		return http.StatusUnauthorized, gin.H{"error": "Invalid or expired refresh token"}, true
	case errors.Is(err, service.ErrValidation),
		errors.Is(err, service.ErrRatingOutOfRange),
		errors.Is(err, service.ErrUnsupportedMedia):
		return http.StatusBadRequest, gin.H{"error": err.Error()}, true
	case errors.Is(err, service.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge, gin.H{"error": err.Error()}, true
	case errors.Is(err, service.ErrNotEligible):
		return http.StatusForbidden, gin.H{"error": err.Error()}, true
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden, gin.H{"error": "Access denied"}, true
	case errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrProfileNotFound),
		errors.Is(err, service.ErrIdeaNotFound),
		errors.Is(err, service.ErrMessageNotFound),
		errors.Is(err, service.ErrListingNotFound):
		return http.StatusNotFound, gin.H{"error": err.Error()}, true
	case errors.Is(err, service.ErrUserExists):
		return http.StatusConflict, gin.H{"error": "User with this email already exists"}, true
	case errors.Is(err, service.ErrAlreadyReviewed):
		return http.StatusConflict, gin.H{"error": service.ErrAlreadyReviewed.Error(), "already_reviewed": true}, true
	case errors.Is(err, service.ErrSuperseded), errors.Is(err, service.ErrSignedOut):
		return http.StatusConflict, gin.H{"error": "superseded"}, true
	case errors.Is(err, service.ErrStorage):
		return http.StatusServiceUnavailable, gin.H{"error": "Media storage is unavailable"}, true
	}
	return 0, nil, false
}

// respondError переводит доменную ошибку в HTTP ответ.
// fallback - сообщение для неожиданных ошибок, детали уходят только в лог.
func respondError(c *gin.Context, err error, fallback string) {
	if status, body, ok := domainResponse(err); ok {
		c.JSON(status, body)
		return
	}

	logger.Ctx(c.Request.Context()).Error().Err(err).Msg(fallback)
	c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
}

// respondReadError - для чтения: доменные ошибки как в respondError,
// сбой хранилища превращается в пустой результат empty со статусом 200
func respondReadError(c *gin.Context, err error, message string, empty any) {
	if status, body, ok := domainResponse(err); ok {
		c.JSON(status, body)
		return
	}

	logger.Ctx(c.Request.Context()).Warn().Err(err).Msg(message + ", responding with empty result")
	c.JSON(http.StatusOK, empty)
}

// queryInt читает целый query-параметр; некорректное значение дает def
func queryInt(c *gin.Context, name string, def int) int {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return def
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return value
}
