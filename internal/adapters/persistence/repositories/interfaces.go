package repositories

import (
	"context"

	"gemvault/internal/adapters/persistence/models"
)

// UserRepository defines user repository interface
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByPhone(ctx context.Context, phone string) (*models.User, error)
	GetByReferralCode(ctx context.Context, code string) (*models.User, error)
	ListReferredBy(ctx context.Context, referrerID uint) ([]*models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, offset, limit int) ([]*models.User, int64, error)
	ExistsByPhone(ctx context.Context, phone string) (bool, error)
	ExistsByReferralCode(ctx context.Context, code string) (bool, error)
}

// ProductRepository defines product repository interface
type ProductRepository interface {
	Create(ctx context.Context, product *models.Product) error
	GetByID(ctx context.Context, id uint) (*models.Product, error)
	List(ctx context.Context) ([]*models.Product, error)
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id uint) error
}

// PurchaseRepository defines purchase repository interface
type PurchaseRepository interface {
	Create(ctx context.Context, purchase *models.Purchase) error
	GetByID(ctx context.Context, id uint) (*models.Purchase, error)
	// GetOwnedAccruing returns the purchase only if it belongs to userID
	// and is approved and active (i.e. eligible for forfeit).
	GetOwnedAccruing(ctx context.Context, id, userID uint) (*models.Purchase, error)
	ListByUser(ctx context.Context, userID uint) ([]*models.Purchase, error)
	// ListAccruingByUser returns the user's approved AND active purchases.
	ListAccruingByUser(ctx context.Context, userID uint) ([]*models.Purchase, error)
	// ListApprovedByUsers returns approved purchases of the given users
	// irrespective of the active flag (commission basis).
	ListApprovedByUsers(ctx context.Context, userIDs []uint) ([]*models.Purchase, error)
	List(ctx context.Context, offset, limit int) ([]*models.Purchase, int64, error)
	ListByStatus(ctx context.Context, status string, offset, limit int) ([]*models.Purchase, int64, error)
	Update(ctx context.Context, purchase *models.Purchase) error
}

// WithdrawalRepository defines withdrawal repository interface
type WithdrawalRepository interface {
	Create(ctx context.Context, withdrawal *models.Withdrawal) error
	GetByID(ctx context.Context, id uint) (*models.Withdrawal, error)
	ListByUser(ctx context.Context, userID uint) ([]*models.Withdrawal, error)
	ListByUserAndStatus(ctx context.Context, userID uint, status string) ([]*models.Withdrawal, error)
	List(ctx context.Context, offset, limit int) ([]*models.Withdrawal, int64, error)
	Update(ctx context.Context, withdrawal *models.Withdrawal) error
}

// RefreshTokenRepository defines refresh token repository interface
type RefreshTokenRepository interface {
	Create(ctx context.Context, token *models.RefreshToken) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*models.RefreshToken, error)
	GetByUserID(ctx context.Context, userID uint) ([]*models.RefreshToken, error)
	Revoke(ctx context.Context, id uint) error
	RevokeByTokenHash(ctx context.Context, tokenHash string) error
	RevokeAllByUserID(ctx context.Context, userID uint) error
	DeleteExpired(ctx context.Context) error
	CountActiveByUserID(ctx context.Context, userID uint) (int64, error)
}

// Repositories bundles the ledger repositories handed to a unit of work.
type Repositories struct {
	Users       UserRepository
	Products    ProductRepository
	Purchases   PurchaseRepository
	Withdrawals WithdrawalRepository
}

// TxManager runs a function inside one database transaction. The
// repositories passed to fn are bound to that transaction and take row
// locks on ledger reads, so two concurrent withdrawal requests for the
// same user cannot both observe the same unspent balance. Returning an
// error rolls every write back.
type TxManager interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context, r *Repositories) error) error
}
