package services

import (
	"context"
	"errors"
	"log"

	"gemvault/internal/adapters/persistence/models"
	"gemvault/internal/adapters/persistence/repositories"

	"gorm.io/gorm"
)

// Purchase service errors
var (
	ErrProductNotFound    = errors.New("product not found")
	ErrPurchaseNotFound   = errors.New("purchase not found")
	ErrPurchaseProcessed  = errors.New("purchase already processed")
	ErrEmptyCart          = errors.New("cart is empty")
	ErrInvalidQuantity    = errors.New("quantity must be greater than zero")
	ErrInvalidPurchStatus = errors.New("invalid purchase status")
)

// PurchaseService handles checkout and purchase processing
type PurchaseService struct {
	txManager    repositories.TxManager
	purchaseRepo repositories.PurchaseRepository
	productRepo  repositories.ProductRepository
}

// NewPurchaseService creates a new purchase service
func NewPurchaseService(
	txManager repositories.TxManager,
	purchaseRepo repositories.PurchaseRepository,
	productRepo repositories.ProductRepository,
) *PurchaseService {
	return &PurchaseService{
		txManager:    txManager,
		purchaseRepo: purchaseRepo,
		productRepo:  productRepo,
	}
}

// CartItem is one line of a checkout request
type CartItem struct {
	ProductID uint `json:"product_id" validate:"required"`
	Quantity  int  `json:"quantity" validate:"required,gt=0"`
}

// CheckoutInput represents checkout input
type CheckoutInput struct {
	Items []CartItem `json:"items" validate:"required,min=1,dive"`
}

// Checkout turns a cart into pending purchases, one per item. Prices
// come from the catalog at checkout time, never from the client. All
// rows are created in one transaction.
func (s *PurchaseService) Checkout(ctx context.Context, userID uint, input *CheckoutInput) ([]*models.Purchase, error) {
	if len(input.Items) == 0 {
		return nil, ErrEmptyCart
	}
	for _, item := range input.Items {
		if item.Quantity <= 0 {
			return nil, ErrInvalidQuantity
		}
	}

	var created []*models.Purchase
	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context, r *repositories.Repositories) error {
		for _, item := range input.Items {
			product, err := r.Products.GetByID(ctx, item.ProductID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrProductNotFound
				}
				return err
			}

			productID := product.ID
			purchase := &models.Purchase{
				UserID:      userID,
				ProductID:   &productID,
				TotalAmount: product.Price * float64(item.Quantity),
				Status:      models.StatusPending,
				Active:      true,
			}

			if err := r.Purchases.Create(ctx, purchase); err != nil {
				return err
			}
			created = append(created, purchase)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("🛒 Checkout: user=%d items=%d", userID, len(created))
	return created, nil
}

// ProcessInput represents admin purchase processing input
type ProcessInput struct {
	Status string `json:"status" validate:"required,oneof=approved declined"`
}

// Process settles a pending purchase. Only approved purchases ever
// enter balance calculations; declined ones are kept for the record but
// never accrue. A purchase is settled exactly once.
func (s *PurchaseService) Process(ctx context.Context, id uint, input *ProcessInput) (*models.Purchase, error) {
	if input.Status != models.StatusApproved && input.Status != models.StatusDeclined {
		return nil, ErrInvalidPurchStatus
	}

	var updated *models.Purchase
	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context, r *repositories.Repositories) error {
		purchase, err := r.Purchases.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPurchaseNotFound
			}
			return err
		}

		if purchase.Status != models.StatusPending {
			return ErrPurchaseProcessed
		}

		purchase.Status = input.Status
		if err := r.Purchases.Update(ctx, purchase); err != nil {
			return err
		}

		updated = purchase
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("✅ Purchase #%d %s", updated.ID, updated.Status)
	return updated, nil
}

// GetByID returns one purchase.
func (s *PurchaseService) GetByID(ctx context.Context, id uint) (*models.Purchase, error) {
	purchase, err := s.purchaseRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPurchaseNotFound
		}
		return nil, err
	}
	return purchase, nil
}

// ListByUser returns a user's purchase history, newest first.
func (s *PurchaseService) ListByUser(ctx context.Context, userID uint) ([]*models.Purchase, error) {
	return s.purchaseRepo.ListByUser(ctx, userID)
}

// List returns purchases for admin review, optionally filtered by status.
func (s *PurchaseService) List(ctx context.Context, status string, offset, limit int) ([]*models.Purchase, int64, error) {
	if status != "" {
		return s.purchaseRepo.ListByStatus(ctx, status, offset, limit)
	}
	return s.purchaseRepo.List(ctx, offset, limit)
}
