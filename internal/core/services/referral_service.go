package services

import (
	"context"
	"errors"
	"time"

	"gemvault/internal/adapters/persistence/models"
	"gemvault/internal/adapters/persistence/repositories"

	"gorm.io/gorm"
)

// ReferralService aggregates referral statistics. Commission figures
// here are derived the same way the balance calculator derives them, so
// the two views can never disagree.
type ReferralService struct {
	repos *repositories.Repositories
}

// NewReferralService creates a new referral service
func NewReferralService(repos *repositories.Repositories) *ReferralService {
	return &ReferralService{repos: repos}
}

// CommissionEntry is one approved purchase by a referred user and the
// commission it earned the referrer.
type CommissionEntry struct {
	PurchaseID    uint      `json:"purchaseId"`
	ReferredUser  uint      `json:"referredUserId"`
	ReferredPhone string    `json:"referredPhone"`
	Amount        float64   `json:"amount"`
	Commission    float64   `json:"commission"`
	EarnedAt      time.Time `json:"earnedAt"`
}

// ReferralEntry is one referred user with their purchase totals.
type ReferralEntry struct {
	ID             uint       `json:"id"`
	Name           string     `json:"name"`
	Phone          string     `json:"phone"`
	JoinedAt       time.Time  `json:"joinedAt"`
	IsActive       bool       `json:"isActive"`
	TotalPurchases int        `json:"totalPurchases"`
	TotalSpent     float64    `json:"totalSpent"`
	LastPurchase   *time.Time `json:"lastPurchase"`
}

// ReferralStats is the full referral dashboard payload.
type ReferralStats struct {
	ReferralCode    string            `json:"referralCode"`
	TotalReferrals  int               `json:"totalReferrals"`
	ActiveReferrals int               `json:"activeReferrals"`
	Referrals       []ReferralEntry   `json:"referrals"`
	Commissions     []CommissionEntry `json:"commissions"`
	TotalCommission float64           `json:"totalCommission"`

	// Own purchase stats. Totals cover every purchase regardless of
	// status; the per-status figures break them down.
	TotalPurchases    int     `json:"totalPurchases"`
	PendingPurchases  int     `json:"pendingPurchases"`
	ApprovedPurchases int     `json:"approvedPurchases"`
	ActivePurchases   int     `json:"activePurchases"`
	TotalSpent        float64 `json:"totalSpent"`
	ApprovedSpent     float64 `json:"approvedSpent"`
	ActiveSpent       float64 `json:"activeSpent"`
}

// GetStats builds the referral dashboard for a user. A user with no
// referrals gets zeroed stats, not an error.
func (s *ReferralService) GetStats(ctx context.Context, userID uint) (*ReferralStats, error) {
	user, err := s.repos.Users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	referred, err := s.repos.Users.ListReferredBy(ctx, userID)
	if err != nil {
		return nil, err
	}

	stats := &ReferralStats{
		ReferralCode:   user.ReferralCode,
		TotalReferrals: len(referred),
		Referrals:      []ReferralEntry{},
		Commissions:    []CommissionEntry{},
	}

	if len(referred) > 0 {
		referredIDs := make([]uint, 0, len(referred))
		byID := make(map[uint]*models.User, len(referred))
		for _, u := range referred {
			referredIDs = append(referredIDs, u.ID)
			byID[u.ID] = u
			if u.IsActive {
				stats.ActiveReferrals++
			}
		}

		// Approved purchases of referred users, active or not: the
		// commission basis never shrinks when a purchase is forfeited.
		purchases, err := s.repos.Purchases.ListApprovedByUsers(ctx, referredIDs)
		if err != nil {
			return nil, err
		}

		perUser := make(map[uint][]*models.Purchase)
		for _, p := range purchases {
			perUser[p.UserID] = append(perUser[p.UserID], p)

			owner := byID[p.UserID]
			entry := CommissionEntry{
				PurchaseID:   p.ID,
				ReferredUser: p.UserID,
				Amount:       p.TotalAmount,
				Commission:   round2(p.TotalAmount * commissionRate),
				EarnedAt:     p.CreatedAt,
			}
			if owner != nil {
				entry.ReferredPhone = owner.Phone
			}
			stats.Commissions = append(stats.Commissions, entry)
			stats.TotalCommission += p.TotalAmount * commissionRate
		}

		for _, u := range referred {
			entry := ReferralEntry{
				ID:       u.ID,
				Name:     u.Name,
				Phone:    u.Phone,
				JoinedAt: u.CreatedAt,
				IsActive: u.IsActive,
			}
			for _, p := range perUser[u.ID] {
				entry.TotalPurchases++
				entry.TotalSpent += p.TotalAmount
				if entry.LastPurchase == nil || p.CreatedAt.After(*entry.LastPurchase) {
					t := p.CreatedAt
					entry.LastPurchase = &t
				}
			}
			entry.TotalSpent = round2(entry.TotalSpent)
			stats.Referrals = append(stats.Referrals, entry)
		}
	}
	stats.TotalCommission = round2(stats.TotalCommission)

	// Own purchase totals, every status counted.
	own, err := s.repos.Purchases.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, p := range own {
		stats.TotalPurchases++
		stats.TotalSpent += p.TotalAmount

		switch p.Status {
		case models.StatusPending:
			stats.PendingPurchases++
		case models.StatusApproved:
			stats.ApprovedPurchases++
			stats.ApprovedSpent += p.TotalAmount
			if p.Active {
				stats.ActivePurchases++
				stats.ActiveSpent += p.TotalAmount
			}
		}
	}
	stats.TotalSpent = round2(stats.TotalSpent)
	stats.ApprovedSpent = round2(stats.ApprovedSpent)
	stats.ActiveSpent = round2(stats.ActiveSpent)

	return stats, nil
}
