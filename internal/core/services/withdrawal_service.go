package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"gemvault/internal/adapters/persistence/models"
	"gemvault/internal/adapters/persistence/repositories"

	"gorm.io/gorm"
)

// Withdrawal service errors
var (
	ErrWithdrawalNotFound    = errors.New("withdrawal not found")
	ErrInvalidAmount         = errors.New("amount must be greater than zero")
	ErrBankDetailsRequired   = errors.New("bank name and account number are required")
	ErrWithdrawalProcessed   = errors.New("withdrawal already processed")
	ErrInsufficientBalance   = errors.New("insufficient balance")
	ErrForfeitNotEligible    = errors.New("purchase not eligible for forfeit")
	ErrInvalidWithdrawStatus = errors.New("invalid withdrawal status")
)

// InsufficientBalanceError carries the figures behind an insufficient
// balance rejection so handlers can echo them to the client.
type InsufficientBalanceError struct {
	Available float64
	Requested float64
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient balance: available %.2f, requested %.2f", e.Available, e.Requested)
}

func (e *InsufficientBalanceError) Is(target error) bool {
	return target == ErrInsufficientBalance
}

// WithdrawalService handles the withdrawal lifecycle
type WithdrawalService struct {
	txManager      repositories.TxManager
	withdrawalRepo repositories.WithdrawalRepository
	balanceService *BalanceService
}

// NewWithdrawalService creates a new withdrawal service
func NewWithdrawalService(
	txManager repositories.TxManager,
	withdrawalRepo repositories.WithdrawalRepository,
	balanceService *BalanceService,
) *WithdrawalService {
	return &WithdrawalService{
		txManager:      txManager,
		withdrawalRepo: withdrawalRepo,
		balanceService: balanceService,
	}
}

// RequestWithdrawalInput represents withdrawal request input
type RequestWithdrawalInput struct {
	Amount            float64 `json:"amount" validate:"required,gt=0"`
	BankName          string  `json:"bank_name" validate:"required"`
	AccountNumber     string  `json:"account_number" validate:"required"`
	ForfeitPurchaseID *uint   `json:"forfeit_purchase_id,omitempty"`
}

// RequestWithdrawal creates a pending withdrawal for the user. The
// balance check, the optional forfeit, and the insert all happen inside
// one transaction with the user's ledger rows locked, so two concurrent
// requests cannot both spend the same balance. If the forfeited
// purchase does not cover the shortfall the whole transaction rolls
// back, including the deactivation.
func (s *WithdrawalService) RequestWithdrawal(ctx context.Context, userID uint, input *RequestWithdrawalInput) (*models.Withdrawal, error) {
	if input.Amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if input.BankName == "" || input.AccountNumber == "" {
		return nil, ErrBankDetailsRequired
	}

	var created *models.Withdrawal
	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context, r *repositories.Repositories) error {
		// Balance before the forfeit flip: the payout is unlocked on
		// top of the pre-forfeit pending balance. Spendable =
		// pendingBalance, not availableBalance, so amounts already
		// requested but not yet settled stay earmarked.
		balance, err := s.balanceService.CalculateIn(ctx, r, userID)
		if err != nil {
			return err
		}

		withdrawal := &models.Withdrawal{
			UserID:        userID,
			Amount:        input.Amount,
			BankName:      input.BankName,
			AccountNumber: input.AccountNumber,
			Status:        models.StatusPending,
		}

		// Deactivating the purchase removes it from every later
		// balance read; this request is checked against the balance
		// it still contributed to.
		forfeited := 0.0
		if input.ForfeitPurchaseID != nil {
			purchase, err := r.Purchases.GetOwnedAccruing(ctx, *input.ForfeitPurchaseID, userID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrForfeitNotEligible
				}
				return err
			}

			purchase.Active = false
			if err := r.Purchases.Update(ctx, purchase); err != nil {
				return err
			}

			forfeited = purchase.TotalAmount * forfeitPayoutRate
			withdrawal.ForfeitPurchaseID = &purchase.ID
			withdrawal.ForfeitedAmount = round2(forfeited)
		}

		available := round2(balance.PendingBalance + forfeited)
		if input.Amount > available {
			return &InsufficientBalanceError{
				Available: available,
				Requested: input.Amount,
			}
		}

		if err := r.Withdrawals.Create(ctx, withdrawal); err != nil {
			return err
		}

		created = withdrawal
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("💸 Withdrawal #%d requested: user=%d amount=%.2f forfeit=%v",
		created.ID, userID, created.Amount, created.ForfeitPurchaseID != nil)

	return created, nil
}

// UpdateStatusInput represents admin status update input
type UpdateStatusInput struct {
	Status    string  `json:"status" validate:"required,oneof=approved declined"`
	AdminNote *string `json:"admin_note,omitempty"`
}

// UpdateStatus settles a pending withdrawal. Approving marks the amount
// spent; declining releases it and, if a purchase was forfeited toward
// this withdrawal, reactivates that purchase. A withdrawal can only be
// settled once.
func (s *WithdrawalService) UpdateStatus(ctx context.Context, id uint, input *UpdateStatusInput) (*models.Withdrawal, error) {
	if input.Status != models.StatusApproved && input.Status != models.StatusDeclined {
		return nil, ErrInvalidWithdrawStatus
	}

	var updated *models.Withdrawal
	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context, r *repositories.Repositories) error {
		withdrawal, err := r.Withdrawals.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrWithdrawalNotFound
			}
			return err
		}

		if !withdrawal.IsPending() {
			return ErrWithdrawalProcessed
		}

		withdrawal.Status = input.Status
		withdrawal.AdminNote = input.AdminNote
		now := time.Now()
		withdrawal.ProcessedAt = &now

		// Declining hands the forfeited purchase back. The purchase
		// may have been removed since; that is not a reason to block
		// the decline.
		if input.Status == models.StatusDeclined && withdrawal.ForfeitPurchaseID != nil {
			purchase, err := r.Purchases.GetByID(ctx, *withdrawal.ForfeitPurchaseID)
			if err == nil {
				purchase.Active = true
				if err := r.Purchases.Update(ctx, purchase); err != nil {
					return err
				}
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
		}

		if err := r.Withdrawals.Update(ctx, withdrawal); err != nil {
			return err
		}

		updated = withdrawal
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("✅ Withdrawal #%d %s", updated.ID, updated.Status)
	return updated, nil
}

// GetByID returns one withdrawal.
func (s *WithdrawalService) GetByID(ctx context.Context, id uint) (*models.Withdrawal, error) {
	withdrawal, err := s.withdrawalRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWithdrawalNotFound
		}
		return nil, err
	}
	return withdrawal, nil
}

// ListByUser returns a user's withdrawal history, newest first.
func (s *WithdrawalService) ListByUser(ctx context.Context, userID uint) ([]*models.Withdrawal, error) {
	return s.withdrawalRepo.ListByUser(ctx, userID)
}

// List returns all withdrawals for admin review, newest first.
func (s *WithdrawalService) List(ctx context.Context, offset, limit int) ([]*models.Withdrawal, int64, error) {
	return s.withdrawalRepo.List(ctx, offset, limit)
}
