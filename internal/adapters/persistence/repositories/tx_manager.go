package repositories

import (
	"context"

	"gorm.io/gorm"
)

// txManager implements TxManager on top of a GORM transaction
type txManager struct {
	db *gorm.DB
}

// NewTxManager creates a new transaction manager
func NewTxManager(db *gorm.DB) TxManager {
	return &txManager{db: db}
}

// WithinTransaction runs fn inside one database transaction. The ledger
// repositories handed to fn read with SELECT ... FOR UPDATE so the
// user's purchase and withdrawal rows stay serialized for the duration
// of the transaction. If fn returns an error the transaction is rolled
// back, otherwise it is committed.
func (m *txManager) WithinTransaction(ctx context.Context, fn func(ctx context.Context, r *Repositories) error) error {
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r := &Repositories{
			Users:       &userRepository{db: tx, locked: true},
			Products:    &productRepository{db: tx},
			Purchases:   &purchaseRepository{db: tx, locked: true},
			Withdrawals: &withdrawalRepository{db: tx, locked: true},
		}
		return fn(ctx, r)
	})
}

// NewRepositories bundles plain (non-locking) repositories for
// read-only callers outside a transaction.
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Users:       NewUserRepository(db),
		Products:    NewProductRepository(db),
		Purchases:   NewPurchaseRepository(db),
		Withdrawals: NewWithdrawalRepository(db),
	}
}
