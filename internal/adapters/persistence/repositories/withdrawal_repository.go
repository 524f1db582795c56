package repositories

import (
	"context"

	"gemvault/internal/adapters/persistence/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// withdrawalRepository implements WithdrawalRepository interface
type withdrawalRepository struct {
	db     *gorm.DB
	locked bool
}

// NewWithdrawalRepository creates a new withdrawal repository
func NewWithdrawalRepository(db *gorm.DB) WithdrawalRepository {
	return &withdrawalRepository{db: db}
}

func (r *withdrawalRepository) query(ctx context.Context) *gorm.DB {
	q := r.db.WithContext(ctx)
	if r.locked {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return q
}

// Create creates a new withdrawal
func (r *withdrawalRepository) Create(ctx context.Context, withdrawal *models.Withdrawal) error {
	return r.db.WithContext(ctx).Create(withdrawal).Error
}

// GetByID gets a withdrawal by ID
func (r *withdrawalRepository) GetByID(ctx context.Context, id uint) (*models.Withdrawal, error) {
	var withdrawal models.Withdrawal
	err := r.query(ctx).First(&withdrawal, id).Error
	if err != nil {
		return nil, err
	}
	return &withdrawal, nil
}

// ListByUser lists all withdrawals of a user
func (r *withdrawalRepository) ListByUser(ctx context.Context, userID uint) ([]*models.Withdrawal, error) {
	var withdrawals []*models.Withdrawal
	err := r.query(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&withdrawals).Error
	return withdrawals, err
}

// ListByUserAndStatus lists a user's withdrawals with the given status
func (r *withdrawalRepository) ListByUserAndStatus(ctx context.Context, userID uint, status string) ([]*models.Withdrawal, error) {
	var withdrawals []*models.Withdrawal
	err := r.query(ctx).
		Where("user_id = ? AND status = ?", userID, status).
		Order("created_at DESC").
		Find(&withdrawals).Error
	return withdrawals, err
}

// List lists all withdrawals with pagination. User is preloaded for the
// admin view; withdrawals of deleted users come back with a nil User.
func (r *withdrawalRepository) List(ctx context.Context, offset, limit int) ([]*models.Withdrawal, int64, error) {
	var withdrawals []*models.Withdrawal
	var total int64

	r.db.WithContext(ctx).Model(&models.Withdrawal{}).Count(&total)

	err := r.db.WithContext(ctx).
		Preload("User").
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&withdrawals).Error

	return withdrawals, total, err
}

// Update updates a withdrawal
func (r *withdrawalRepository) Update(ctx context.Context, withdrawal *models.Withdrawal) error {
	return r.db.WithContext(ctx).Save(withdrawal).Error
}
