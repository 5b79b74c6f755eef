package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/klap2026/klap/domain"
	"github.com/klap2026/klap/internal/http/authcookie"
	"github.com/klap2026/klap/internal/http/middleware"
	"github.com/klap2026/klap/internal/ratelimit"
)

// AuthLimits carries the per-operation rate limit settings for the
// authentication endpoints.
type AuthLimits struct {
	SendOTPWindow    time.Duration
	SendOTPMax       int
	VerifyOTPWindow  time.Duration
	VerifyOTPMax     int
	RoleUpdateWindow time.Duration
	RoleUpdateMax    int
}

// AuthHandlers serves the phone/OTP authentication endpoints.
type AuthHandlers struct {
	authSvc      domain.AuthService
	otpSvc       domain.OTPService
	limiter      domain.RateLimiter
	limits       AuthLimits
	secureCookie bool
}

func NewAuthHandlers(authSvc domain.AuthService, otpSvc domain.OTPService, limiter domain.RateLimiter, limits AuthLimits, secureCookie bool) *AuthHandlers {
	return &AuthHandlers{
		authSvc:      authSvc,
		otpSvc:       otpSvc,
		limiter:      limiter,
		limits:       limits,
		secureCookie: secureCookie,
	}
}

type sendOTPRequest struct {
	Phone string `json:"phone" binding:"required"`
}

// SendOTP handles POST /api/auth/send-otp
func (h *AuthHandlers) SendOTP(c *gin.Context) {
	var req sendOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Phone number is required"})
		return
	}
	phone := strings.TrimSpace(req.Phone)
	if !strings.HasPrefix(phone, "+") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Phone number must be in international format"})
		return
	}
	if !enforceLimit(c, h.limiter, ratelimit.SendOTPKey(phone), h.limits.SendOTPWindow, h.limits.SendOTPMax) {
		return
	}

	issue, err := h.otpSvc.Issue(c.Request.Context(), phone)
	if err != nil {
		if errors.Is(err, domain.ErrOTPDelivery) {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send verification code"})
			return
		}
		lg := middleware.LoggerFrom(c)
		lg.Error().Err(err).Msg("send otp failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	resp := gin.H{"success": true}
	if issue.MockCode != "" {
		resp["mockCode"] = issue.MockCode
	}
	c.JSON(http.StatusOK, resp)
}

type verifyOTPRequest struct {
	Phone string `json:"phone" binding:"required"`
	Code  string `json:"code" binding:"required"`
}

// VerifyOTP handles POST /api/auth/verify-otp
func (h *AuthHandlers) VerifyOTP(c *gin.Context) {
	var req verifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Phone and code are required"})
		return
	}
	phone := strings.TrimSpace(req.Phone)
	if !enforceLimit(c, h.limiter, ratelimit.VerifyOTPKey(phone), h.limits.VerifyOTPWindow, h.limits.VerifyOTPMax) {
		return
	}

	result, err := h.authSvc.VerifyOTP(c.Request.Context(), phone, strings.TrimSpace(req.Code))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrOTPMaxAttempts):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Too many failed attempts. Request a new code."})
		case errors.Is(err, domain.ErrOTPNotFound),
			errors.Is(err, domain.ErrOTPExpired),
			errors.Is(err, domain.ErrOTPInvalid):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired code"})
		default:
			lg := middleware.LoggerFrom(c)
			lg.Error().Err(err).Msg("verify otp failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	authcookie.Set(c, result.Token, h.secureCookie)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"token":   result.Token,
		"user":    toUserBody(result.User),
	})
}

type updateRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

// UpdateRole handles POST /api/auth/update-role
func (h *AuthHandlers) UpdateRole(c *gin.Context) {
	userID, ok := middleware.Identity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	if !enforceLimit(c, h.limiter, ratelimit.RoleUpdateKey(userID), h.limits.RoleUpdateWindow, h.limits.RoleUpdateMax) {
		return
	}

	var req updateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Role is required"})
		return
	}

	result, err := h.authSvc.UpdateRole(c.Request.Context(), userID, req.Role)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidRole):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid role"})
		case errors.Is(err, domain.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		default:
			lg := middleware.LoggerFrom(c)
			lg.Error().Err(err).Msg("update role failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	// The refreshed token carries the new role so the gateway admits
	// the client to its role area without a new login.
	authcookie.Set(c, result.Token, h.secureCookie)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user":    toUserBody(result.User),
	})
}

// Me handles GET /api/auth/me
func (h *AuthHandlers) Me(c *gin.Context) {
	userID, ok := middleware.Identity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	profile, err := h.authSvc.Profile(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		lg := middleware.LoggerFrom(c)
		lg.Error().Err(err).Msg("load profile failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	user := toUserBody(profile.User)
	c.JSON(http.StatusOK, gin.H{
		"id":         user.ID,
		"phone":      user.Phone,
		"role":       user.Role,
		"customer":   toCustomerBody(profile.Customer),
		"technician": toTechnicianBody(profile.Technician),
	})
}

// Logout handles POST /api/auth/logout. The cookie is cleared even
// when the session row cannot be removed, so a client is never stuck
// logged in.
func (h *AuthHandlers) Logout(c *gin.Context) {
	token := authcookie.Token(c)
	if token == "" {
		if auth := c.GetHeader("Authorization"); strings.HasPrefix(auth, "Bearer ") {
			token = strings.TrimPrefix(auth, "Bearer ")
		}
	}

	err := h.authSvc.Logout(c.Request.Context(), token)
	authcookie.Clear(c)
	if err != nil {
		log.Warn().Err(err).Msg("session cleanup on logout failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Logout failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Logged out successfully"})
}
