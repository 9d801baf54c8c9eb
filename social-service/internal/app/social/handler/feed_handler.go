package handler

import (
	"net/http"
	"time"

	"signalidea/social-service/internal/app/social/entity"
	"signalidea/social-service/internal/app/social/service"

	"github.com/gin-gonic/gin"
)

type FeedHandler struct {
	feed service.FeedServiceInterface
}

func NewFeedHandler(feed service.FeedServiceInterface) *FeedHandler {
	return &FeedHandler{feed: feed}
}

// Discover отдает ленту. Сбой хранилища не ошибка для клиента: лента просто пустая.
func (h *FeedHandler) Discover(c *gin.Context) {
	query := entity.FeedQuery{Limit: queryInt(c, "limit", 0)}

	if raw := c.Query("before"); raw != "" {
		before, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "before must be an RFC3339 timestamp"})
			return
		}
		query.Before = &before
	}

	items, _ := h.feed.Discover(c.Request.Context(), currentUserID(c), query)
	if superseded(c) {
		return
	}

	c.JSON(http.StatusOK, entity.FeedResponse{Items: items, Total: len(items)})
}
