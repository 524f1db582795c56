package handlers

import (
	"errors"
	"strconv"

	"gemvault/internal/adapters/persistence/models"
	"gemvault/internal/core/services"
	"gemvault/internal/pkg/pagination"
	"gemvault/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// WithdrawalHandler handles balance and withdrawal endpoints
type WithdrawalHandler struct {
	withdrawalService *services.WithdrawalService
	balanceService    *services.BalanceService
}

// NewWithdrawalHandler creates a new withdrawal handler
func NewWithdrawalHandler(
	withdrawalService *services.WithdrawalService,
	balanceService *services.BalanceService,
) *WithdrawalHandler {
	return &WithdrawalHandler{
		withdrawalService: withdrawalService,
		balanceService:    balanceService,
	}
}

// GetBalance handles the balance breakdown read
// @Summary Get balance
// @Description Get the current user's full balance breakdown
// @Tags Withdrawals
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /withdrawals/balance [get]
func (h *WithdrawalHandler) GetBalance(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	balance, err := h.balanceService.CalculateBalance(c.Context(), userID)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			return response.NotFound(c, "User not found")
		}
		return response.ErrorWithCause(c, fiber.StatusInternalServerError, "Failed to calculate balance", err)
	}

	return c.JSON(fiber.Map{
		"balance":                  balance.AvailableBalance,
		"commissionSum":            balance.CommissionSum,
		"principalSum":             balance.PrincipalSum,
		"appreciationSum":          balance.AppreciationSum,
		"grossTotal":               balance.GrossTotal,
		"totalApprovedWithdrawals": balance.TotalApprovedWithdrawals,
		"totalPendingWithdrawals":  balance.TotalPendingWithdrawals,
		"availableBalance":         balance.AvailableBalance,
		"pendingBalance":           balance.PendingBalance,
		"hasPendingWithdrawals":    balance.HasPendingWithdrawals(),
	})
}

// WithdrawalRequest represents withdrawal request body
type WithdrawalRequest struct {
	Amount            float64 `json:"amount"`
	BankName          string  `json:"bank_name"`
	AccountNumber     string  `json:"account_number"`
	ForfeitPurchaseID *uint   `json:"forfeit_purchase_id"`
}

// RequestWithdrawal handles a withdrawal request
// @Summary Request withdrawal
// @Description Request a withdrawal, optionally forfeiting a purchase to unlock balance
// @Tags Withdrawals
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body WithdrawalRequest true "Withdrawal data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /withdrawals [post]
func (h *WithdrawalHandler) RequestWithdrawal(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var req WithdrawalRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if req.Amount <= 0 {
		return response.BadRequest(c, "Amount must be greater than zero")
	}
	if req.BankName == "" {
		return response.BadRequest(c, "Bank name is required")
	}
	if req.AccountNumber == "" {
		return response.BadRequest(c, "Account number is required")
	}

	withdrawal, err := h.withdrawalService.RequestWithdrawal(c.Context(), userID, &services.RequestWithdrawalInput{
		Amount:            req.Amount,
		BankName:          req.BankName,
		AccountNumber:     req.AccountNumber,
		ForfeitPurchaseID: req.ForfeitPurchaseID,
	})
	if err != nil {
		var insufficient *services.InsufficientBalanceError
		switch {
		case errors.As(err, &insufficient):
			return c.Status(fiber.StatusUnprocessableEntity).JSON(response.Response{
				Success: false,
				Error:   "Insufficient balance",
				Data: fiber.Map{
					"available": insufficient.Available,
					"requested": insufficient.Requested,
				},
			})
		case errors.Is(err, services.ErrInvalidAmount):
			return response.BadRequest(c, "Amount must be greater than zero")
		case errors.Is(err, services.ErrBankDetailsRequired):
			return response.BadRequest(c, "Bank name and account number are required")
		case errors.Is(err, services.ErrForfeitNotEligible):
			return response.NotFound(c, "Purchase not eligible for forfeit")
		default:
			return response.ErrorWithCause(c, fiber.StatusInternalServerError, "Failed to request withdrawal", err)
		}
	}

	return response.Created(c, "Withdrawal requested successfully", fiber.Map{
		"withdrawal": withdrawal.ToResponse(),
	})
}

// MyWithdrawals handles listing own withdrawals
// @Summary List own withdrawals
// @Description Get the current user's withdrawal history
// @Tags Withdrawals
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /withdrawals [get]
func (h *WithdrawalHandler) MyWithdrawals(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	withdrawals, err := h.withdrawalService.ListByUser(c.Context(), userID)
	if err != nil {
		return response.ErrorWithCause(c, fiber.StatusInternalServerError, "Failed to list withdrawals", err)
	}

	items := make([]*models.WithdrawalResponse, len(withdrawals))
	var requested, approved, pending float64
	for i, w := range withdrawals {
		items[i] = w.ToResponse()
		requested += w.Amount
		switch w.Status {
		case models.StatusApproved:
			approved += w.Amount
		case models.StatusPending:
			pending += w.Amount
		}
	}

	return response.Success(c, "Withdrawals retrieved successfully", fiber.Map{
		"withdrawals": items,
		"summary": fiber.Map{
			"totalRequested": requested,
			"totalApproved":  approved,
			"totalPending":   pending,
		},
	})
}

// ListWithdrawals handles listing all withdrawals (Admin only)
// @Summary List all withdrawals
// @Description Get withdrawals across all users (Admin only)
// @Tags Withdrawals
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /admin/withdrawals [get]
func (h *WithdrawalHandler) ListWithdrawals(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	withdrawals, total, err := h.withdrawalService.List(c.Context(), params.Offset, params.Limit)
	if err != nil {
		return response.ErrorWithCause(c, fiber.StatusInternalServerError, "Failed to list withdrawals", err)
	}

	items := make([]*models.WithdrawalResponse, len(withdrawals))
	for i, w := range withdrawals {
		items[i] = w.ToResponse()
	}

	return response.Success(c, "Withdrawals retrieved successfully", pagination.NewResponse(items, params, total))
}

// UpdateWithdrawalRequest represents withdrawal status update body
type UpdateWithdrawalRequest struct {
	Status    string  `json:"status"`
	AdminNote *string `json:"admin_note"`
}

// UpdateWithdrawalStatus handles settling a withdrawal (Admin only)
// @Summary Update withdrawal status
// @Description Approve or decline a pending withdrawal (Admin only)
// @Tags Withdrawals
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Withdrawal ID"
// @Param body body UpdateWithdrawalRequest true "New status"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /admin/withdrawals/{id}/status [put]
func (h *WithdrawalHandler) UpdateWithdrawalStatus(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid withdrawal ID")
	}

	var req UpdateWithdrawalRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	withdrawal, err := h.withdrawalService.UpdateStatus(c.Context(), uint(id), &services.UpdateStatusInput{
		Status:    req.Status,
		AdminNote: req.AdminNote,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidWithdrawStatus):
			return response.BadRequest(c, "Status must be 'approved' or 'declined'")
		case errors.Is(err, services.ErrWithdrawalNotFound):
			return response.NotFound(c, "Withdrawal not found")
		case errors.Is(err, services.ErrWithdrawalProcessed):
			return response.Conflict(c, "Withdrawal already processed")
		default:
			return response.ErrorWithCause(c, fiber.StatusInternalServerError, "Failed to update withdrawal", err)
		}
	}

	return response.Success(c, "Withdrawal updated successfully", fiber.Map{
		"withdrawal": withdrawal.ToResponse(),
	})
}
