package handlers

import (
	"errors"
	"strconv"

	"gemvault/internal/core/services"
	"gemvault/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// ProductHandler handles catalog endpoints
type ProductHandler struct {
	productService *services.ProductService
}

// NewProductHandler creates a new product handler
func NewProductHandler(productService *services.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// ListProducts handles listing the catalog
// @Summary List products
// @Description Get the full gem catalog
// @Tags Products
// @Produce json
// @Success 200 {object} response.Response
// @Router /products [get]
func (h *ProductHandler) ListProducts(c *fiber.Ctx) error {
	products, err := h.productService.List(c.Context())
	if err != nil {
		return response.ErrorWithCause(c, fiber.StatusInternalServerError, "Failed to list products", err)
	}

	return response.Success(c, "Products retrieved successfully", fiber.Map{
		"products": products,
	})
}

// GetProduct handles getting a product by ID
// @Summary Get product by ID
// @Description Get a specific catalog entry
// @Tags Products
// @Produce json
// @Param id path int true "Product ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /products/{id} [get]
func (h *ProductHandler) GetProduct(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid product ID")
	}

	product, err := h.productService.GetByID(c.Context(), uint(id))
	if err != nil {
		if errors.Is(err, services.ErrProductNotFound) {
			return response.NotFound(c, "Product not found")
		}
		return response.ErrorWithCause(c, fiber.StatusInternalServerError, "Failed to get product", err)
	}

	return response.Success(c, "Product retrieved successfully", fiber.Map{
		"product": product,
	})
}

// ProductRequest represents create/update product request body
type ProductRequest struct {
	Name        string  `json:"name"`
	Type        string  `json:"type"`
	Price       float64 `json:"price"`
	ImageURL    string  `json:"image_url"`
	Description string  `json:"description"`
}

// CreateProduct handles adding a product (Admin only)
// @Summary Create product
// @Description Add a product to the catalog (Admin only)
// @Tags Products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body ProductRequest true "Product data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /admin/products [post]
func (h *ProductHandler) CreateProduct(c *fiber.Ctx) error {
	var req ProductRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if req.Name == "" {
		return response.BadRequest(c, "Product name is required")
	}
	if req.Price <= 0 {
		return response.BadRequest(c, "Product price must be greater than zero")
	}

	product, err := h.productService.Create(c.Context(), &services.ProductInput{
		Name:        req.Name,
		Type:        req.Type,
		Price:       req.Price,
		ImageURL:    req.ImageURL,
		Description: req.Description,
	})
	if err != nil {
		return response.ErrorWithCause(c, fiber.StatusInternalServerError, "Failed to create product", err)
	}

	return response.Created(c, "Product created successfully", fiber.Map{
		"product": product,
	})
}

// UpdateProduct handles updating a product (Admin only)
// @Summary Update product
// @Description Update a catalog entry (Admin only)
// @Tags Products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Product ID"
// @Param body body ProductRequest true "Product data"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /admin/products/{id} [put]
func (h *ProductHandler) UpdateProduct(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid product ID")
	}

	var req ProductRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if req.Name == "" {
		return response.BadRequest(c, "Product name is required")
	}
	if req.Price <= 0 {
		return response.BadRequest(c, "Product price must be greater than zero")
	}

	product, err := h.productService.Update(c.Context(), uint(id), &services.ProductInput{
		Name:        req.Name,
		Type:        req.Type,
		Price:       req.Price,
		ImageURL:    req.ImageURL,
		Description: req.Description,
	})
	if err != nil {
		if errors.Is(err, services.ErrProductNotFound) {
			return response.NotFound(c, "Product not found")
		}
		return response.ErrorWithCause(c, fiber.StatusInternalServerError, "Failed to update product", err)
	}

	return response.Success(c, "Product updated successfully", fiber.Map{
		"product": product,
	})
}

// DeleteProduct handles removing a product (Admin only)
// @Summary Delete product
// @Description Remove a product from the catalog (Admin only)
// @Tags Products
// @Produce json
// @Security BearerAuth
// @Param id path int true "Product ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /admin/products/{id} [delete]
func (h *ProductHandler) DeleteProduct(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid product ID")
	}

	if err := h.productService.Delete(c.Context(), uint(id)); err != nil {
		if errors.Is(err, services.ErrProductNotFound) {
			return response.NotFound(c, "Product not found")
		}
		return response.ErrorWithCause(c, fiber.StatusInternalServerError, "Failed to delete product", err)
	}

	return response.Success(c, "Product deleted successfully", nil)
}
