package services

import (
	"context"
	"errors"
	"log"

	"gemvault/internal/adapters/persistence/models"
	"gemvault/internal/adapters/persistence/repositories"

	"gorm.io/gorm"
)

// ProductService handles the gem catalog
type ProductService struct {
	productRepo repositories.ProductRepository
}

// NewProductService creates a new product service
func NewProductService(productRepo repositories.ProductRepository) *ProductService {
	return &ProductService{productRepo: productRepo}
}

// ProductInput represents create/update product input
type ProductInput struct {
	Name        string  `json:"name" validate:"required,max=100"`
	Type        string  `json:"type" validate:"required,max=50"`
	Price       float64 `json:"price" validate:"required,gt=0"`
	ImageURL    string  `json:"image_url,omitempty"`
	Description string  `json:"description,omitempty"`
}

// List returns the full catalog.
func (s *ProductService) List(ctx context.Context) ([]*models.Product, error) {
	return s.productRepo.List(ctx)
}

// GetByID returns one product.
func (s *ProductService) GetByID(ctx context.Context, id uint) (*models.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return product, nil
}

// Create adds a product to the catalog.
func (s *ProductService) Create(ctx context.Context, input *ProductInput) (*models.Product, error) {
	product := &models.Product{
		Name:        input.Name,
		Type:        input.Type,
		Price:       input.Price,
		ImageURL:    input.ImageURL,
		Description: input.Description,
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}

	log.Printf("💎 Product created: %s (%.2f)", product.Name, product.Price)
	return product, nil
}

// Update modifies a catalog entry. Existing purchases keep the amount
// they were priced at; a price change only affects future checkouts.
func (s *ProductService) Update(ctx context.Context, id uint, input *ProductInput) (*models.Product, error) {
	product, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	product.Name = input.Name
	product.Type = input.Type
	product.Price = input.Price
	product.ImageURL = input.ImageURL
	product.Description = input.Description

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}

	return product, nil
}

// Delete removes a product from the catalog (soft delete).
func (s *ProductService) Delete(ctx context.Context, id uint) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	return s.productRepo.Delete(ctx, id)
}
