package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/klap2026/klap/domain"
	"github.com/klap2026/klap/internal/http/middleware"
)

// AdminHandlers serves administrative maintenance endpoints.
type AdminHandlers struct {
	adminRepo domain.AdminRepository
}

func NewAdminHandlers(adminRepo domain.AdminRepository) *AdminHandlers {
	return &AdminHandlers{adminRepo: adminRepo}
}

// DeleteUser handles DELETE /api/admin/users/:id. The delete cascades
// over sessions, OTP codes, profiles and the customer's jobs in one
// transaction, so a failure leaves everything in place.
func (h *AdminHandlers) DeleteUser(c *gin.Context) {
	userID := c.Param("id")
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "User ID is required"})
		return
	}

	if err := h.adminRepo.DeleteUserCascade(c.Request.Context(), userID); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		lg := middleware.LoggerFrom(c)
		lg.Error().Err(err).Str("user_id", userID).Msg("cascade delete failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete user"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "User and all associated data deleted"})
}
