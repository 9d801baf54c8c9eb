package handler

import (
	"net/http"

	"signalidea/social-service/internal/app/social/entity"
	"signalidea/social-service/internal/app/social/service"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	sessions service.SessionServiceInterface
}

func NewAuthHandler(sessions service.SessionServiceInterface) *AuthHandler {
	return &AuthHandler{sessions: sessions}
}

func (h *AuthHandler) SignUp(c *gin.Context) {
	var req entity.SignUpRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.sessions.SignUp(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, "Failed to sign up")
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (h *AuthHandler) SignIn(c *gin.Context) {
	var req entity.SignInRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.sessions.SignInWithPassword(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, "Failed to sign in")
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	var req entity.RefreshRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.sessions.RefreshSession(c.Request.Context(), req.RefreshToken)
	if err != nil {
		respondError(c, err, "Failed to refresh session")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetSession возвращает сессию, уже разрешенную middleware
func (h *AuthHandler) GetSession(c *gin.Context) {
	session := currentSession(c)
	if session == nil {
		respondError(c, service.ErrAuthRequired, "")
		return
	}

	c.JSON(http.StatusOK, session)
}

func (h *AuthHandler) GetUser(c *gin.Context) {
	user, err := h.sessions.GetUser(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, err, "Failed to get user")
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *AuthHandler) UpdateUser(c *gin.Context) {
	var req entity.UpdateUserRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.sessions.UpdateUser(c.Request.Context(), currentUserID(c), &req)
	if err != nil {
		respondError(c, err, "Failed to update user")
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *AuthHandler) SignOut(c *gin.Context) {
	if err := h.sessions.SignOut(c.Request.Context(), c.GetString(ctxToken)); err != nil {
		respondError(c, err, "Failed to sign out")
		return
	}

	c.JSON(http.StatusOK, entity.SuccessResponse{Message: "Successfully signed out"})
}
