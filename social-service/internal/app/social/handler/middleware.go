package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"signalidea/social-service/internal/app/social/service"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware кладет в контекст запроса сессию, разрешенную SessionService
type AuthMiddleware struct {
	sessions service.SessionServiceInterface
	tracker  *service.RequestTracker
}

func NewAuthMiddleware(sessions service.SessionServiceInterface, tracker *service.RequestTracker) *AuthMiddleware {
	return &AuthMiddleware{
		sessions: sessions,
		tracker:  tracker,
	}
}

func bearerToken(c *gin.Context) (string, bool) {
	parts := strings.Split(c.GetHeader("Authorization"), " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// Authenticate требует сессию; без нее 401 с login_required
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Login required", "login_required": true})
			return
		}

		if err := m.resolve(c, token); err != nil {
			respondError(c, err, "Failed to resolve session")
			c.Abort()
			return
		}

		c.Next()
	}
}

// OptionalAuthenticate разрешает сессию, если токен передан и валиден.
// Анонимный запрос проходит дальше без user_id.
func (m *AuthMiddleware) OptionalAuthenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, ok := bearerToken(c); ok {
			if err := m.resolve(c, token); err != nil && !isAuthError(err) {
				respondError(c, err, "Failed to resolve session")
				c.Abort()
				return
			}
		}

		c.Next()
	}
}

func (m *AuthMiddleware) resolve(c *gin.Context, token string) error {
	ctx := c.Request.Context()

	claims, err := m.sessions.ValidateToken(ctx, token)
	if err != nil {
		return err
	}

	session, err := m.sessions.Resolve(ctx, claims.UserID)
	if err != nil {
		return err
	}
	session.Email = claims.Email

	c.Set(ctxUserID, session.UserID)
	c.Set(ctxEmail, claims.Email)
	c.Set(ctxSession, session)
	c.Set(ctxToken, token)

	return nil
}

func isAuthError(err error) bool {
	return errors.Is(err, service.ErrAuthRequired) ||
		errors.Is(err, service.ErrTokenExpired) ||
		errors.Is(err, service.ErrInvalidToken) ||
		errors.Is(err, service.ErrTokenBlacklisted)
}

// LatestOnly помечает запрос ключом (пользователь, scope): когда тот же пользователь
// начинает новый запрос в этом scope, контекст старого отменяется.
// Ручка, получившая отмену, отвечает 409 superseded.
func (m *AuthMiddleware) LatestOnly(scope string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := currentUserID(c)
		if userID == "" || m.tracker == nil {
			c.Next()
			return
		}

		ctx, done := m.tracker.Begin(c.Request.Context(), userID, scope)
		defer done()

		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// superseded отвечает 409, если более новый запрос уже вытеснил этот
func superseded(c *gin.Context) bool {
	if !service.Superseded(c.Request.Context()) {
		return false
	}
	respondError(c, context.Cause(c.Request.Context()), "Request superseded")
	return true
}
