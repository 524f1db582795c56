package services

import (
	"context"
	"errors"
	"math"
	"time"

	"gemvault/internal/adapters/persistence/models"
	"gemvault/internal/adapters/persistence/repositories"
	"gemvault/internal/core/domain"

	"gorm.io/gorm"
)

// Balance rates. Appreciation accrues per full day an approved purchase
// stays active, capped at appreciationCapDays.
const (
	commissionRate      = 0.15
	appreciationRate    = 0.01
	appreciationCapDays = 60
	forfeitPayoutRate   = 0.85
)

// BalanceService computes balance breakdowns. The breakdown is derived
// on every call from purchases and withdrawals; nothing is cached or
// persisted, so a balance read can never go stale.
type BalanceService struct {
	repos *repositories.Repositories

	// now is swappable so appreciation can be pinned in tests.
	now func() time.Time
}

// NewBalanceService creates a new balance service
func NewBalanceService(repos *repositories.Repositories) *BalanceService {
	return &BalanceService{
		repos: repos,
		now:   time.Now,
	}
}

// CalculateBalance computes the full balance breakdown for a user.
func (s *BalanceService) CalculateBalance(ctx context.Context, userID uint) (*domain.BalanceBreakdown, error) {
	return s.CalculateIn(ctx, s.repos, userID)
}

// CalculateIn computes the breakdown against the given repository
// bundle. The withdrawal flow passes its transaction-scoped bundle here
// so the balance it checks is the one its row locks protect.
func (s *BalanceService) CalculateIn(ctx context.Context, r *repositories.Repositories, userID uint) (*domain.BalanceBreakdown, error) {
	if _, err := r.Users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	// Commission: 15% of every approved purchase made by users this
	// user referred. Forfeiting a purchase does not claw commission
	// back, so the active flag is ignored here.
	referred, err := r.Users.ListReferredBy(ctx, userID)
	if err != nil {
		return nil, err
	}

	commissionSum := 0.0
	if len(referred) > 0 {
		referredIDs := make([]uint, 0, len(referred))
		for _, u := range referred {
			referredIDs = append(referredIDs, u.ID)
		}

		purchases, err := r.Purchases.ListApprovedByUsers(ctx, referredIDs)
		if err != nil {
			return nil, err
		}
		for _, p := range purchases {
			commissionSum += p.TotalAmount * commissionRate
		}
	}

	// Principal and appreciation: the user's own approved purchases
	// that are still active.
	accruing, err := r.Purchases.ListAccruingByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	principalSum := 0.0
	appreciationSum := 0.0
	for _, p := range accruing {
		principalSum += p.TotalAmount
		appreciationSum += appreciation(p.TotalAmount, p.CreatedAt, now)
	}

	grossTotal := commissionSum + principalSum + appreciationSum

	approved, err := r.Withdrawals.ListByUserAndStatus(ctx, userID, models.StatusApproved)
	if err != nil {
		return nil, err
	}
	totalApproved := 0.0
	for _, w := range approved {
		totalApproved += w.Amount
	}

	pending, err := r.Withdrawals.ListByUserAndStatus(ctx, userID, models.StatusPending)
	if err != nil {
		return nil, err
	}
	totalPending := 0.0
	for _, w := range pending {
		totalPending += w.Amount
	}

	available := grossTotal - totalApproved
	if available < 0 {
		available = 0
	}
	pendingBalance := available - totalPending
	if pendingBalance < 0 {
		pendingBalance = 0
	}

	return &domain.BalanceBreakdown{
		CommissionSum:            round2(commissionSum),
		PrincipalSum:             round2(principalSum),
		AppreciationSum:          round2(appreciationSum),
		GrossTotal:               round2(grossTotal),
		TotalApprovedWithdrawals: round2(totalApproved),
		TotalPendingWithdrawals:  round2(totalPending),
		AvailableBalance:         round2(available),
		PendingBalance:           round2(pendingBalance),
	}, nil
}

// appreciation returns 1% of amount per full day between createdAt and
// now, capped at 60 days. Purchases created in the future accrue
// nothing.
func appreciation(amount float64, createdAt, now time.Time) float64 {
	days := math.Floor(now.Sub(createdAt).Hours() / 24)
	if days < 0 {
		days = 0
	}
	if days > appreciationCapDays {
		days = appreciationCapDays
	}
	return amount * appreciationRate * days
}

// round2 rounds half away from zero to 2 decimal places. Intermediate
// sums stay unrounded; only the reported figures are rounded.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
