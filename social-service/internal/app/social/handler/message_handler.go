package handler

import (
	"net/http"

	"signalidea/social-service/internal/app/social/entity"
	"signalidea/social-service/internal/app/social/service"

	"github.com/gin-gonic/gin"
)

type MessageHandler struct {
	messages service.MessageServiceInterface
}

func NewMessageHandler(messages service.MessageServiceInterface) *MessageHandler {
	return &MessageHandler{messages: messages}
}

func (h *MessageHandler) Send(c *gin.Context) {
	var req entity.SendMessageRequest
	if !bindJSON(c, &req) {
		return
	}

	message, err := h.messages.Send(c.Request.Context(), currentUserID(c), &req)
	if err != nil {
		respondError(c, err, "Failed to send message")
		return
	}

	c.JSON(http.StatusCreated, message)
}

func (h *MessageHandler) Inbox(c *gin.Context) {
	entries, err := h.messages.Inbox(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondReadError(c, err, "Failed to load inbox", gin.H{"conversations": []entity.InboxEntry{}, "total": 0})
		return
	}

	c.JSON(http.StatusOK, gin.H{"conversations": entries, "total": len(entries)})
}

func (h *MessageHandler) Conversation(c *gin.Context) {
	messages, err := h.messages.Conversation(c.Request.Context(), currentUserID(c), c.Param("id"), queryInt(c, "limit", 0))
	if superseded(c) {
		return
	}
	if err != nil {
		respondReadError(c, err, "Failed to load conversation", gin.H{"messages": []entity.Message{}, "total": 0})
		return
	}

	c.JSON(http.StatusOK, gin.H{"messages": messages, "total": len(messages)})
}

func (h *MessageHandler) MarkRead(c *gin.Context) {
	if err := h.messages.MarkRead(c.Request.Context(), currentUserID(c), c.Param("id")); err != nil {
		respondError(c, err, "Failed to mark message read")
		return
	}

	c.JSON(http.StatusOK, entity.SuccessResponse{Message: "Message marked as read"})
}

func (h *MessageHandler) UnreadCount(c *gin.Context) {
	count, err := h.messages.UnreadCount(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondReadError(c, err, "Failed to count messages", entity.CountResponse{Count: 0})
		return
	}

	c.JSON(http.StatusOK, entity.CountResponse{Count: count})
}
