package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/klap2026/klap/domain"
)

// Wire shapes for the JSON API. Role is a pointer so an unset role
// serializes as null, which the onboarding clients key off.

type userBody struct {
	ID    string  `json:"id"`
	Phone string  `json:"phone"`
	Role  *string `json:"role"`
}

type customerBody struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone,omitempty"`
	Address   string    `json:"address"`
	Lat       *float64  `json:"lat,omitempty"`
	Lng       *float64  `json:"lng,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type technicianBody struct {
	ID              string    `json:"id"`
	UserID          string    `json:"userId"`
	Name            string    `json:"name"`
	Phone           string    `json:"phone,omitempty"`
	Specializations []string  `json:"specializations"`
	WorkingHours    string    `json:"workingHours"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

type jobBody struct {
	ID           string          `json:"id"`
	CustomerID   string          `json:"customerId"`
	TechnicianID string          `json:"technicianId,omitempty"`
	Description  string          `json:"description"`
	ChatSummary  string          `json:"chatSummary"`
	Address      string          `json:"address"`
	Lat          float64         `json:"lat"`
	Lng          float64         `json:"lng"`
	Photos       []string        `json:"photos"`
	Category     string          `json:"category,omitempty"`
	Status       string          `json:"status"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
	Customer     *customerBody   `json:"customer,omitempty"`
	Technician   *technicianBody `json:"technician,omitempty"`
}

func toUserBody(u *domain.User) userBody {
	body := userBody{ID: u.ID, Phone: u.Phone}
	if u.Role != "" {
		role := u.Role
		body.Role = &role
	}
	return body
}

func toCustomerBody(c *domain.Customer) *customerBody {
	if c == nil {
		return nil
	}
	return &customerBody{
		ID:        c.ID,
		UserID:    c.UserID,
		Name:      c.Name,
		Phone:     c.Phone,
		Address:   c.Address,
		Lat:       c.Lat,
		Lng:       c.Lng,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func toTechnicianBody(t *domain.Technician) *technicianBody {
	if t == nil {
		return nil
	}
	return &technicianBody{
		ID:              t.ID,
		UserID:          t.UserID,
		Name:            t.Name,
		Phone:           t.Phone,
		Specializations: t.Specializations,
		WorkingHours:    t.WorkingHours,
		CreatedAt:       t.CreatedAt,
		UpdatedAt:       t.UpdatedAt,
	}
}

func toJobBody(j *domain.Job) jobBody {
	return jobBody{
		ID:           j.ID,
		CustomerID:   j.CustomerID,
		TechnicianID: j.TechnicianID,
		Description:  j.Description,
		ChatSummary:  j.ChatSummary,
		Address:      j.Address,
		Lat:          j.Lat,
		Lng:          j.Lng,
		Photos:       j.Photos,
		Category:     j.Category,
		Status:       j.Status,
		CreatedAt:    j.CreatedAt,
		UpdatedAt:    j.UpdatedAt,
		Customer:     toCustomerBody(j.Customer),
		Technician:   toTechnicianBody(j.Technician),
	}
}

// enforceLimit runs one fixed-window check and, on denial, writes the
// 429 response with the retry hint. Returns whether the request was
// admitted.
func enforceLimit(c *gin.Context, limiter domain.RateLimiter, key string, window time.Duration, max int) bool {
	result, err := limiter.Check(c.Request.Context(), key, window, max)
	if err != nil {
		// A broken limiter store must not take authentication down.
		return true
	}
	c.Header("X-RateLimit-Limit", strconv.Itoa(result.Limit))
	c.Header("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
	c.Header("X-RateLimit-Reset", result.ResetAt.UTC().Format(time.RFC3339))
	if !result.Allowed {
		c.AbortWithStatusJSON(429, gin.H{
			"error":      "Too many requests. Please try again later.",
			"retryAfter": result.RetryAfter(time.Now()),
		})
		return false
	}
	return true
}
