package handlers

import (
	"errors"

	"gemvault/internal/core/services"
	"gemvault/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// ReferralHandler handles referral endpoints
type ReferralHandler struct {
	referralService *services.ReferralService
}

// NewReferralHandler creates a new referral handler
func NewReferralHandler(referralService *services.ReferralService) *ReferralHandler {
	return &ReferralHandler{referralService: referralService}
}

// GetStats handles the referral dashboard read
// @Summary Get referral stats
// @Description Get the current user's referrals, commissions and purchase totals
// @Tags Referrals
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /referrals/stats [get]
func (h *ReferralHandler) GetStats(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	stats, err := h.referralService.GetStats(c.Context(), userID)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			return response.NotFound(c, "User not found")
		}
		return response.ErrorWithCause(c, fiber.StatusInternalServerError, "Failed to get referral stats", err)
	}

	return response.Success(c, "Referral stats retrieved successfully", stats)
}
