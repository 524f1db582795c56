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

// PurchaseHandler handles checkout and purchase endpoints
type PurchaseHandler struct {
	purchaseService *services.PurchaseService
}

// NewPurchaseHandler creates a new purchase handler
func NewPurchaseHandler(purchaseService *services.PurchaseService) *PurchaseHandler {
	return &PurchaseHandler{purchaseService: purchaseService}
}

// CheckoutRequest represents checkout request body
type CheckoutRequest struct {
	Items []services.CartItem `json:"items"`
}

// Checkout handles cart checkout
// @Summary Checkout cart
// @Description Create pending purchases from the cart, one per item
// @Tags Purchases
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CheckoutRequest true "Cart items"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /purchases/checkout [post]
func (h *PurchaseHandler) Checkout(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var req CheckoutRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	purchases, err := h.purchaseService.Checkout(c.Context(), userID, &services.CheckoutInput{Items: req.Items})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmptyCart):
			return response.BadRequest(c, "Cart is empty")
		case errors.Is(err, services.ErrInvalidQuantity):
			return response.BadRequest(c, "Quantity must be greater than zero")
		case errors.Is(err, services.ErrProductNotFound):
			return response.NotFound(c, "Product not found")
		default:
			return response.ErrorWithCause(c, fiber.StatusInternalServerError, "Failed to checkout", err)
		}
	}

	items := make([]*models.PurchaseResponse, len(purchases))
	for i, p := range purchases {
		items[i] = p.ToResponse()
	}

	return response.Created(c, "Checkout successful, purchases pending approval", fiber.Map{
		"purchases": items,
	})
}

// MyPurchases handles listing own purchases
// @Summary List own purchases
// @Description Get the current user's purchase history
// @Tags Purchases
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /purchases [get]
func (h *PurchaseHandler) MyPurchases(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	purchases, err := h.purchaseService.ListByUser(c.Context(), userID)
	if err != nil {
		return response.ErrorWithCause(c, fiber.StatusInternalServerError, "Failed to list purchases", err)
	}

	items := make([]*models.PurchaseResponse, len(purchases))
	for i, p := range purchases {
		items[i] = p.ToResponse()
	}

	return response.Success(c, "Purchases retrieved successfully", fiber.Map{
		"purchases": items,
	})
}

// ListPurchases handles listing all purchases (Admin only)
// @Summary List all purchases
// @Description Get purchases across all users, optionally filtered by status (Admin only)
// @Tags Purchases
// @Produce json
// @Security BearerAuth
// @Param status query string false "Filter by status" Enums(pending, approved, declined)
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /admin/purchases [get]
func (h *PurchaseHandler) ListPurchases(c *fiber.Ctx) error {
	params := pagination.GetParams(c)
	status := c.Query("status")

	purchases, total, err := h.purchaseService.List(c.Context(), status, params.Offset, params.Limit)
	if err != nil {
		return response.ErrorWithCause(c, fiber.StatusInternalServerError, "Failed to list purchases", err)
	}

	items := make([]*models.PurchaseResponse, len(purchases))
	for i, p := range purchases {
		items[i] = p.ToResponse()
	}

	return response.Success(c, "Purchases retrieved successfully", pagination.NewResponse(items, params, total))
}

// ProcessPurchaseRequest represents purchase processing request body
type ProcessPurchaseRequest struct {
	Status string `json:"status"`
}

// ProcessPurchase handles approving/declining a purchase (Admin only)
// @Summary Process purchase
// @Description Approve or decline a pending purchase (Admin only)
// @Tags Purchases
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Purchase ID"
// @Param body body ProcessPurchaseRequest true "New status"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /admin/purchases/{id}/status [put]
func (h *PurchaseHandler) ProcessPurchase(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid purchase ID")
	}

	var req ProcessPurchaseRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	purchase, err := h.purchaseService.Process(c.Context(), uint(id), &services.ProcessInput{Status: req.Status})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidPurchStatus):
			return response.BadRequest(c, "Status must be 'approved' or 'declined'")
		case errors.Is(err, services.ErrPurchaseNotFound):
			return response.NotFound(c, "Purchase not found")
		case errors.Is(err, services.ErrPurchaseProcessed):
			return response.Conflict(c, "Purchase already processed")
		default:
			return response.ErrorWithCause(c, fiber.StatusInternalServerError, "Failed to process purchase", err)
		}
	}

	return response.Success(c, "Purchase processed successfully", fiber.Map{
		"purchase": purchase.ToResponse(),
	})
}
