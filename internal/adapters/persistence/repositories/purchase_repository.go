package repositories

import (
	"context"

	"gemvault/internal/adapters/persistence/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// purchaseRepository implements PurchaseRepository interface
type purchaseRepository struct {
	db     *gorm.DB
	locked bool
}

// NewPurchaseRepository creates a new purchase repository
func NewPurchaseRepository(db *gorm.DB) PurchaseRepository {
	return &purchaseRepository{db: db}
}

func (r *purchaseRepository) query(ctx context.Context) *gorm.DB {
	q := r.db.WithContext(ctx)
	if r.locked {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return q
}

// Create creates a new purchase
func (r *purchaseRepository) Create(ctx context.Context, purchase *models.Purchase) error {
	return r.db.WithContext(ctx).Create(purchase).Error
}

// GetByID gets a purchase by ID
func (r *purchaseRepository) GetByID(ctx context.Context, id uint) (*models.Purchase, error) {
	var purchase models.Purchase
	err := r.query(ctx).First(&purchase, id).Error
	if err != nil {
		return nil, err
	}
	return &purchase, nil
}

// GetOwnedAccruing gets a purchase by ID only if it belongs to the user
// and is approved and active
func (r *purchaseRepository) GetOwnedAccruing(ctx context.Context, id, userID uint) (*models.Purchase, error) {
	var purchase models.Purchase
	err := r.query(ctx).
		Where("id = ? AND user_id = ? AND status = ? AND active = ?",
			id, userID, models.StatusApproved, true).
		First(&purchase).Error
	if err != nil {
		return nil, err
	}
	return &purchase, nil
}

// ListByUser lists all purchases of a user
func (r *purchaseRepository) ListByUser(ctx context.Context, userID uint) ([]*models.Purchase, error) {
	var purchases []*models.Purchase
	err := r.query(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&purchases).Error
	return purchases, err
}

// ListAccruingByUser lists the user's approved and active purchases
func (r *purchaseRepository) ListAccruingByUser(ctx context.Context, userID uint) ([]*models.Purchase, error) {
	var purchases []*models.Purchase
	err := r.query(ctx).
		Where("user_id = ? AND status = ? AND active = ?", userID, models.StatusApproved, true).
		Order("created_at ASC").
		Find(&purchases).Error
	return purchases, err
}

// ListApprovedByUsers lists approved purchases of the given users,
// irrespective of the active flag
func (r *purchaseRepository) ListApprovedByUsers(ctx context.Context, userIDs []uint) ([]*models.Purchase, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	var purchases []*models.Purchase
	err := r.query(ctx).
		Where("user_id IN ? AND status = ?", userIDs, models.StatusApproved).
		Order("created_at ASC").
		Find(&purchases).Error
	return purchases, err
}

// List lists all purchases with pagination
func (r *purchaseRepository) List(ctx context.Context, offset, limit int) ([]*models.Purchase, int64, error) {
	var purchases []*models.Purchase
	var total int64

	r.db.WithContext(ctx).Model(&models.Purchase{}).Count(&total)

	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Product").
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&purchases).Error

	return purchases, total, err
}

// ListByStatus lists purchases by status with pagination
func (r *purchaseRepository) ListByStatus(ctx context.Context, status string, offset, limit int) ([]*models.Purchase, int64, error) {
	var purchases []*models.Purchase
	var total int64

	r.db.WithContext(ctx).Model(&models.Purchase{}).Where("status = ?", status).Count(&total)

	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Product").
		Where("status = ?", status).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&purchases).Error

	return purchases, total, err
}

// Update updates a purchase
func (r *purchaseRepository) Update(ctx context.Context, purchase *models.Purchase) error {
	return r.db.WithContext(ctx).Save(purchase).Error
}
