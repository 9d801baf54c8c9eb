package handler

import (
	"net/http"

	"signalidea/social-service/internal/app/social/entity"
	"signalidea/social-service/internal/app/social/service"

	"github.com/gin-gonic/gin"
)

type IdeaHandler struct {
	ideas service.IdeaServiceInterface
}

func NewIdeaHandler(ideas service.IdeaServiceInterface) *IdeaHandler {
	return &IdeaHandler{ideas: ideas}
}

func (h *IdeaHandler) Create(c *gin.Context) {
	var req entity.CreateIdeaRequest
	if !bindJSON(c, &req) {
		return
	}

	idea, err := h.ideas.CreateIdea(c.Request.Context(), currentUserID(c), &req)
	if err != nil {
		respondError(c, err, "Failed to create idea")
		return
	}

	c.JSON(http.StatusCreated, idea)
}

func (h *IdeaHandler) Get(c *gin.Context) {
	idea, err := h.ideas.GetIdea(c.Request.Context(), currentUserID(c), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to get idea")
		return
	}

	c.JSON(http.StatusOK, idea)
}

func (h *IdeaHandler) ListByUser(c *gin.Context) {
	ideas, err := h.ideas.ListIdeasByUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondReadError(c, err, "Failed to list ideas", gin.H{"ideas": []entity.Idea{}, "total": 0})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ideas": ideas, "total": len(ideas)})
}

func (h *IdeaHandler) PostUpdate(c *gin.Context) {
	var req entity.PostUpdateRequest
	if !bindJSON(c, &req) {
		return
	}

	update, err := h.ideas.PostUpdate(c.Request.Context(), currentUserID(c), c.Param("id"), &req)
	if err != nil {
		respondError(c, err, "Failed to post update")
		return
	}

	c.JSON(http.StatusCreated, update)
}

func (h *IdeaHandler) ListUpdates(c *gin.Context) {
	updates, err := h.ideas.ListUpdates(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondReadError(c, err, "Failed to list updates", gin.H{"updates": []entity.IdeaUpdate{}, "total": 0})
		return
	}

	c.JSON(http.StatusOK, gin.H{"updates": updates, "total": len(updates)})
}

func (h *IdeaHandler) GiveSignal(c *gin.Context) {
	count, err := h.ideas.GiveSignal(c.Request.Context(), currentUserID(c), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to give signal")
		return
	}

	c.JSON(http.StatusOK, gin.H{"signalled": true, "signal_count": count})
}

func (h *IdeaHandler) WithdrawSignal(c *gin.Context) {
	count, err := h.ideas.WithdrawSignal(c.Request.Context(), currentUserID(c), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to withdraw signal")
		return
	}

	c.JSON(http.StatusOK, gin.H{"signalled": false, "signal_count": count})
}
