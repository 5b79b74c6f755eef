package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/klap2026/klap/domain"
	"github.com/klap2026/klap/internal/http/middleware"
	"github.com/klap2026/klap/internal/services"
)

// ProfileHandlers serves the caller-scoped customer and technician
// profile endpoints.
type ProfileHandlers struct {
	profileSvc *services.ProfileService
}

func NewProfileHandlers(profileSvc *services.ProfileService) *ProfileHandlers {
	return &ProfileHandlers{profileSvc: profileSvc}
}

type customerRequest struct {
	Name    *string  `json:"name"`
	Phone   *string  `json:"phone"`
	Address *string  `json:"address"`
	Lat     *float64 `json:"lat"`
	Lng     *float64 `json:"lng"`
}

func (r customerRequest) input() services.CustomerInput {
	return services.CustomerInput{
		Name:    r.Name,
		Phone:   r.Phone,
		Address: r.Address,
		Lat:     r.Lat,
		Lng:     r.Lng,
	}
}

// GetCustomer handles GET /api/customers. A missing profile is not an
// error for onboarding, it answers 200 with a null customer.
func (h *ProfileHandlers) GetCustomer(c *gin.Context) {
	userID, ok := middleware.Identity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	customer, err := h.profileSvc.GetCustomer(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrProfileNotFound) {
			c.JSON(http.StatusOK, gin.H{"customer": nil})
			return
		}
		lg := middleware.LoggerFrom(c)
		lg.Error().Err(err).Msg("load customer failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"customer": toCustomerBody(customer)})
}

// CreateCustomer handles POST /api/customers
func (h *ProfileHandlers) CreateCustomer(c *gin.Context) {
	userID, ok := middleware.Identity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req customerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if req.Name == nil || *req.Name == "" || req.Address == nil || *req.Address == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Name and address are required"})
		return
	}

	customer, err := h.profileSvc.CreateCustomer(c.Request.Context(), userID, req.input())
	if err != nil {
		lg := middleware.LoggerFrom(c)
		lg.Error().Err(err).Msg("create customer failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"customer": toCustomerBody(customer)})
}

// UpdateCustomer handles PUT /api/customers
func (h *ProfileHandlers) UpdateCustomer(c *gin.Context) {
	userID, ok := middleware.Identity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req customerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	customer, err := h.profileSvc.UpdateCustomer(c.Request.Context(), userID, req.input())
	if err != nil {
		if errors.Is(err, domain.ErrProfileNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Customer profile not found"})
			return
		}
		lg := middleware.LoggerFrom(c)
		lg.Error().Err(err).Msg("update customer failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"customer": toCustomerBody(customer)})
}

type technicianRequest struct {
	Name            *string  `json:"name"`
	Phone           *string  `json:"phone"`
	Specializations []string `json:"specializations"`
	WorkingHours    *string  `json:"workingHours"`
}

func (r technicianRequest) input() services.TechnicianInput {
	return services.TechnicianInput{
		Name:            r.Name,
		Phone:           r.Phone,
		Specializations: r.Specializations,
		WorkingHours:    r.WorkingHours,
	}
}

// GetTechnician handles GET /api/technicians
func (h *ProfileHandlers) GetTechnician(c *gin.Context) {
	userID, ok := middleware.Identity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	technician, err := h.profileSvc.GetTechnician(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrProfileNotFound) {
			c.JSON(http.StatusOK, gin.H{"technician": nil})
			return
		}
		lg := middleware.LoggerFrom(c)
		lg.Error().Err(err).Msg("load technician failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"technician": toTechnicianBody(technician)})
}

// CreateTechnician handles POST /api/technicians
func (h *ProfileHandlers) CreateTechnician(c *gin.Context) {
	userID, ok := middleware.Identity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req technicianRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if req.Name == nil || *req.Name == "" || len(req.Specializations) == 0 ||
		req.WorkingHours == nil || *req.WorkingHours == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Name, specializations and working hours are required"})
		return
	}

	technician, err := h.profileSvc.CreateTechnician(c.Request.Context(), userID, req.input())
	if err != nil {
		lg := middleware.LoggerFrom(c)
		lg.Error().Err(err).Msg("create technician failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"technician": toTechnicianBody(technician)})
}

// UpdateTechnician handles PUT /api/technicians
func (h *ProfileHandlers) UpdateTechnician(c *gin.Context) {
	userID, ok := middleware.Identity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req technicianRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	technician, err := h.profileSvc.UpdateTechnician(c.Request.Context(), userID, req.input())
	if err != nil {
		if errors.Is(err, domain.ErrProfileNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Technician profile not found"})
			return
		}
		lg := middleware.LoggerFrom(c)
		lg.Error().Err(err).Msg("update technician failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"technician": toTechnicianBody(technician)})
}
