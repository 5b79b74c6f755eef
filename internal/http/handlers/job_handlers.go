package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/klap2026/klap/domain"
	"github.com/klap2026/klap/internal/http/middleware"
	"github.com/klap2026/klap/internal/services"
)

// JobHandlers serves the job CRUD endpoints.
type JobHandlers struct {
	jobSvc *services.JobService
}

func NewJobHandlers(jobSvc *services.JobService) *JobHandlers {
	return &JobHandlers{jobSvc: jobSvc}
}

// List handles GET /api/jobs with optional technicianId, customerId
// and status query filters.
func (h *JobHandlers) List(c *gin.Context) {
	if _, ok := middleware.Identity(c); !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	filter := domain.JobFilter{
		CustomerID:   c.Query("customerId"),
		TechnicianID: c.Query("technicianId"),
		Status:       c.Query("status"),
	}
	jobs, err := h.jobSvc.List(c.Request.Context(), filter)
	if err != nil {
		lg := middleware.LoggerFrom(c)
		lg.Error().Err(err).Msg("list jobs failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	bodies := make([]jobBody, 0, len(jobs))
	for _, job := range jobs {
		bodies = append(bodies, toJobBody(job))
	}
	c.JSON(http.StatusOK, gin.H{"jobs": bodies})
}

type createJobRequest struct {
	CustomerID  string   `json:"customerId"`
	Description string   `json:"description"`
	Address     string   `json:"address"`
	Lat         float64  `json:"lat"`
	Lng         float64  `json:"lng"`
	Photos      []string `json:"photos"`
	Category    string   `json:"category"`
}

// Create handles POST /api/jobs
func (h *JobHandlers) Create(c *gin.Context) {
	userID, ok := middleware.Identity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req createJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if req.CustomerID == "" || req.Description == "" || req.Address == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Customer, description and address are required"})
		return
	}

	job, err := h.jobSvc.Create(c.Request.Context(), userID, services.JobInput{
		CustomerID:  req.CustomerID,
		Description: req.Description,
		Address:     req.Address,
		Lat:         req.Lat,
		Lng:         req.Lng,
		Photos:      req.Photos,
		Category:    req.Category,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrProfileNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Customer profile not found"})
		case errors.Is(err, domain.ErrForbidden):
			c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		default:
			lg := middleware.LoggerFrom(c)
			lg.Error().Err(err).Msg("create job failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"job": toJobBody(job)})
}

// Get handles GET /api/jobs/:id
func (h *JobHandlers) Get(c *gin.Context) {
	userID, ok := middleware.Identity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	job, err := h.jobSvc.Get(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		h.writeJobError(c, err, "load job failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"job": toJobBody(job)})
}

type patchJobRequest struct {
	Status       *string `json:"status"`
	TechnicianID *string `json:"technicianId"`
	Description  *string `json:"description"`
	Category     *string `json:"category"`
}

// Patch handles PATCH /api/jobs/:id
func (h *JobHandlers) Patch(c *gin.Context) {
	userID, ok := middleware.Identity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req patchJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	job, err := h.jobSvc.Patch(c.Request.Context(), userID, c.Param("id"), services.JobPatch{
		Status:       req.Status,
		TechnicianID: req.TechnicianID,
		Description:  req.Description,
		Category:     req.Category,
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidStatus) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid job status"})
			return
		}
		h.writeJobError(c, err, "update job failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"job": toJobBody(job)})
}

func (h *JobHandlers) writeJobError(c *gin.Context, err error, msg string) {
	switch {
	case errors.Is(err, domain.ErrJobNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Job not found"})
	case errors.Is(err, domain.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
	default:
		lg := middleware.LoggerFrom(c)
		lg.Error().Err(err).Msg(msg)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
