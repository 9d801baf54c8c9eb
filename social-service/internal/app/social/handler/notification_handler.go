package handler

import (
	"net/http"

	"signalidea/social-service/internal/app/social/entity"
	"signalidea/social-service/internal/app/social/service"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	notifications service.NotificationServiceInterface
}

func NewNotificationHandler(notifications service.NotificationServiceInterface) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

func (h *NotificationHandler) List(c *gin.Context) {
	views, err := h.notifications.List(c.Request.Context(), currentUserID(c), queryInt(c, "limit", 0))
	if err != nil {
		respondReadError(c, err, "Failed to list notifications", entity.NotificationListResponse{Notifications: []entity.NotificationView{}, Total: 0})
		return
	}

	c.JSON(http.StatusOK, entity.NotificationListResponse{Notifications: views, Total: len(views)})
}

func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	count, err := h.notifications.UnreadCount(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondReadError(c, err, "Failed to count notifications", entity.CountResponse{Count: 0})
		return
	}

	c.JSON(http.StatusOK, entity.CountResponse{Count: count})
}
