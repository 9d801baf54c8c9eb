package handler

import (
	"net/http"

	"signalidea/social-service/internal/app/social/entity"
	"signalidea/social-service/internal/app/social/service"

	"github.com/gin-gonic/gin"
)

type ProfileHandler struct {
	profiles      service.ProfileServiceInterface
	relationships service.RelationshipServiceInterface
}

func NewProfileHandler(profiles service.ProfileServiceInterface, relationships service.RelationshipServiceInterface) *ProfileHandler {
	return &ProfileHandler{
		profiles:      profiles,
		relationships: relationships,
	}
}

func (h *ProfileHandler) GetProfile(c *gin.Context) {
	page, err := h.profiles.GetProfilePage(c.Request.Context(), currentUserID(c), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to get profile")
		return
	}

	c.JSON(http.StatusOK, page)
}

// Search - поиск профилей по имени; устаревший ответ заменяется 409
func (h *ProfileHandler) Search(c *gin.Context) {
	profiles, err := h.profiles.SearchProfiles(c.Request.Context(), c.Query("q"), queryInt(c, "limit", 0))
	if superseded(c) {
		return
	}
	if err != nil {
		respondReadError(c, err, "Failed to search profiles", gin.H{"profiles": []entity.Profile{}, "total": 0})
		return
	}

	c.JSON(http.StatusOK, gin.H{"profiles": profiles, "total": len(profiles)})
}

func (h *ProfileHandler) UpdateMe(c *gin.Context) {
	var req entity.UpdateProfileRequest
	if !bindJSON(c, &req) {
		return
	}

	profile, err := h.profiles.UpdateProfile(c.Request.Context(), currentUserID(c), &req)
	if err != nil {
		respondError(c, err, "Failed to update profile")
		return
	}

	c.JSON(http.StatusOK, profile)
}

func (h *ProfileHandler) UpdateReviewSettings(c *gin.Context) {
	var req entity.ReviewSettingsRequest
	if !bindJSON(c, &req) {
		return
	}

	profile, err := h.profiles.UpdateReviewSettings(c.Request.Context(), currentUserID(c), &req)
	if err != nil {
		respondError(c, err, "Failed to update review settings")
		return
	}

	c.JSON(http.StatusOK, profile)
}

func (h *ProfileHandler) Follow(c *gin.Context) {
	ctx := c.Request.Context()
	subjectID := c.Param("id")

	if err := h.relationships.Follow(ctx, currentUserID(c), subjectID); err != nil {
		respondError(c, err, "Failed to follow")
		return
	}

	h.respondCounts(c, subjectID, true)
}

func (h *ProfileHandler) Unfollow(c *gin.Context) {
	ctx := c.Request.Context()
	subjectID := c.Param("id")

	if err := h.relationships.Unfollow(ctx, currentUserID(c), subjectID); err != nil {
		respondError(c, err, "Failed to unfollow")
		return
	}

	h.respondCounts(c, subjectID, false)
}

func (h *ProfileHandler) respondCounts(c *gin.Context, subjectID string, following bool) {
	counts, err := h.relationships.Counts(c.Request.Context(), subjectID)
	if err != nil {
		respondError(c, err, "Failed to count followers")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"is_following":    following,
		"follower_count":  counts.Followers,
		"following_count": counts.Following,
	})
}

func (h *ProfileHandler) Followers(c *gin.Context) {
	profiles, err := h.relationships.FollowerProfiles(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondReadError(c, err, "Failed to list followers", gin.H{"profiles": []entity.Profile{}, "total": 0})
		return
	}

	c.JSON(http.StatusOK, gin.H{"profiles": profiles, "total": len(profiles)})
}

func (h *ProfileHandler) Following(c *gin.Context) {
	profiles, err := h.relationships.FollowingProfiles(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondReadError(c, err, "Failed to list following", gin.H{"profiles": []entity.Profile{}, "total": 0})
		return
	}

	c.JSON(http.StatusOK, gin.H{"profiles": profiles, "total": len(profiles)})
}
