package handler

import (
	"net/http"

	"signalidea/social-service/internal/app/social/entity"
	"signalidea/social-service/internal/app/social/service"

	"github.com/gin-gonic/gin"
)

type ReviewHandler struct {
	reviews service.ReviewServiceInterface
}

func NewReviewHandler(reviews service.ReviewServiceInterface) *ReviewHandler {
	return &ReviewHandler{reviews: reviews}
}

// Eligibility - может ли текущий пользователь оставить отзыв subject_id в category.
// Анонимный пользователь получает allowed=false с причиной auth_required.
func (h *ReviewHandler) Eligibility(c *gin.Context) {
	subjectID := c.Query("subject_id")
	if subjectID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "subject_id is required"})
		return
	}

	result, err := h.reviews.Eligibility(c.Request.Context(), currentSession(c), subjectID, entity.ReviewCategory(c.Query("category")))
	if err != nil {
		respondError(c, err, "Failed to check eligibility")
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *ReviewHandler) SearchSubjects(c *gin.Context) {
	profiles, err := h.reviews.SearchSubjects(
		c.Request.Context(),
		currentSession(c),
		entity.ReviewCategory(c.Query("category")),
		c.Query("q"),
		queryInt(c, "limit", 0),
	)
	if superseded(c) {
		return
	}
	if err != nil {
		respondReadError(c, err, "Failed to search review subjects", gin.H{"profiles": []entity.Profile{}, "total": 0})
		return
	}

	c.JSON(http.StatusOK, gin.H{"profiles": profiles, "total": len(profiles)})
}

func (h *ReviewHandler) Submit(c *gin.Context) {
	var req entity.SubmitReviewRequest
	if !bindJSON(c, &req) {
		return
	}

	review, err := h.reviews.Submit(c.Request.Context(), currentSession(c), &req)
	if err != nil {
		respondError(c, err, "Failed to submit review")
		return
	}

	c.JSON(http.StatusCreated, review)
}

func (h *ReviewHandler) ListForSubject(c *gin.Context) {
	category := entity.ReviewCategory(c.DefaultQuery("category", string(entity.CategoryWorkplace)))

	reviews, err := h.reviews.ListForSubject(c.Request.Context(), c.Param("id"), category)
	if superseded(c) {
		return
	}
	if err != nil {
		respondReadError(c, err, "Failed to list reviews", entity.ReviewListResponse{Reviews: []entity.ReviewView{}, Total: 0})
		return
	}

	c.JSON(http.StatusOK, entity.ReviewListResponse{Reviews: reviews, Total: len(reviews)})
}

func (h *ReviewHandler) Summary(c *gin.Context) {
	summaries, err := h.reviews.SummariesFor(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondReadError(c, err, "Failed to get review summary", gin.H{"summaries": []entity.ReviewSummary{}})
		return
	}

	c.JSON(http.StatusOK, gin.H{"summaries": summaries})
}
