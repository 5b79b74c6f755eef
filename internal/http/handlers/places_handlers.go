package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/klap2026/klap/domain"
	"github.com/klap2026/klap/internal/http/middleware"
	"github.com/klap2026/klap/internal/infrastructure/places"
	"github.com/klap2026/klap/internal/ratelimit"
)

// PlacesLimits carries the per-IP rate limit settings for the places
// proxy endpoints.
type PlacesLimits struct {
	Window time.Duration
	Max    int
}

// PlacesHandlers proxies address autocompletion and place details so
// the API key never reaches the clients.
type PlacesHandlers struct {
	client  *places.Client
	limiter domain.RateLimiter
	limits  PlacesLimits
}

func NewPlacesHandlers(client *places.Client, limiter domain.RateLimiter, limits PlacesLimits) *PlacesHandlers {
	return &PlacesHandlers{client: client, limiter: limiter, limits: limits}
}

type autocompleteRequest struct {
	Input        string `json:"input"`
	SessionToken string `json:"sessionToken"`
}

// Autocomplete handles POST /api/places/autocomplete
func (h *PlacesHandlers) Autocomplete(c *gin.Context) {
	if !enforceLimit(c, h.limiter, ratelimit.PlacesKey("autocomplete", c.ClientIP()), h.limits.Window, h.limits.Max) {
		return
	}

	var req autocompleteRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Input == "" || req.SessionToken == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Input and session token are required"})
		return
	}

	raw, err := h.client.Autocomplete(c.Request.Context(), req.Input, req.SessionToken)
	if err != nil {
		h.writeError(c, err, "places autocomplete failed")
		return
	}
	c.Data(http.StatusOK, "application/json", raw)
}

type detailsRequest struct {
	PlaceID string `json:"placeId"`
}

// Details handles POST /api/places/details
func (h *PlacesHandlers) Details(c *gin.Context) {
	if !enforceLimit(c, h.limiter, ratelimit.PlacesKey("details", c.ClientIP()), h.limits.Window, h.limits.Max) {
		return
	}

	var req detailsRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.PlaceID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Place ID is required"})
		return
	}

	raw, err := h.client.Details(c.Request.Context(), req.PlaceID)
	if err != nil {
		h.writeError(c, err, "places details failed")
		return
	}
	c.Data(http.StatusOK, "application/json", raw)
}

func (h *PlacesHandlers) writeError(c *gin.Context, err error, msg string) {
	if errors.Is(err, places.ErrNotConfigured) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Places API not configured"})
		return
	}
	lg := middleware.LoggerFrom(c)
	lg.Error().Err(err).Msg(msg)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
}
