package handler

import (
	"net/http"

	"signalidea/social-service/internal/app/social/entity"
	"signalidea/social-service/internal/app/social/service"

	"github.com/gin-gonic/gin"
)

type JobHandler struct {
	jobs service.JobServiceInterface
}

func NewJobHandler(jobs service.JobServiceInterface) *JobHandler {
	return &JobHandler{jobs: jobs}
}

func (h *JobHandler) Create(c *gin.Context) {
	var req entity.CreateJobListingRequest
	if !bindJSON(c, &req) {
		return
	}

	listing, err := h.jobs.Create(c.Request.Context(), currentSession(c), &req)
	if err != nil {
		respondError(c, err, "Failed to create job listing")
		return
	}

	c.JSON(http.StatusCreated, listing)
}

func (h *JobHandler) ListOpen(c *gin.Context) {
	listings, err := h.jobs.ListOpen(c.Request.Context(), c.Query("q"), queryInt(c, "limit", 0))
	if err != nil {
		respondReadError(c, err, "Failed to list job listings", gin.H{"listings": []entity.JobListing{}, "total": 0})
		return
	}

	c.JSON(http.StatusOK, gin.H{"listings": listings, "total": len(listings)})
}

func (h *JobHandler) ListByBusiness(c *gin.Context) {
	listings, err := h.jobs.ListByBusiness(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondReadError(c, err, "Failed to list job listings", gin.H{"listings": []entity.JobListing{}, "total": 0})
		return
	}

	c.JSON(http.StatusOK, gin.H{"listings": listings, "total": len(listings)})
}

func (h *JobHandler) Close(c *gin.Context) {
	if err := h.jobs.Close(c.Request.Context(), currentUserID(c), c.Param("id")); err != nil {
		respondError(c, err, "Failed to close job listing")
		return
	}

	c.JSON(http.StatusOK, entity.SuccessResponse{Message: "Job listing closed"})
}
