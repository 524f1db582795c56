package services

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// DashboardService handles admin dashboard aggregates. It queries the
// database directly; these are reporting reads, not ledger reads, so
// they take no locks and tolerate slightly stale numbers.
type DashboardService struct {
	db *gorm.DB
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(db *gorm.DB) *DashboardService {
	return &DashboardService{db: db}
}

// AdminDashboardData represents admin dashboard data
type AdminDashboardData struct {
	// User Statistics
	TotalUsers    int64 `json:"total_users"`
	ActiveUsers   int64 `json:"active_users"`
	TotalReferred int64 `json:"total_referred"`

	// Purchase Statistics
	TotalPurchases    int64   `json:"total_purchases"`
	PendingPurchases  int64   `json:"pending_purchases"`
	ApprovedPurchases int64   `json:"approved_purchases"`
	TotalVolume       float64 `json:"total_volume"`
	ApprovedVolume    float64 `json:"approved_volume"`
	ForfeitedVolume   float64 `json:"forfeited_volume"`

	// Withdrawal Statistics
	TotalWithdrawals    int64   `json:"total_withdrawals"`
	PendingWithdrawals  int64   `json:"pending_withdrawals"`
	ApprovedWithdrawals int64   `json:"approved_withdrawals"`
	PaidOutAmount       float64 `json:"paid_out_amount"`
	PendingAmount       float64 `json:"pending_amount"`

	// Monthly Statistics
	PurchasesThisMonth int64   `json:"purchases_this_month"`
	VolumeThisMonth    float64 `json:"volume_this_month"`

	// Recent Activity
	RecentPurchases   []PurchaseSummary   `json:"recent_purchases"`
	RecentWithdrawals []WithdrawalSummary `json:"recent_withdrawals"`
}

// PurchaseSummary represents purchase summary
type PurchaseSummary struct {
	ID          uint      `json:"id"`
	UserPhone   string    `json:"user_phone"`
	ProductName string    `json:"product_name"`
	Amount      float64   `json:"amount"`
	Status      string    `json:"status"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
}

// WithdrawalSummary represents withdrawal summary
type WithdrawalSummary struct {
	ID        uint      `json:"id"`
	UserPhone string    `json:"user_phone"`
	Amount    float64   `json:"amount"`
	Status    string    `json:"status"`
	Forfeit   bool      `json:"forfeit"`
	CreatedAt time.Time `json:"created_at"`
}

// GetAdminDashboard returns admin dashboard data
func (s *DashboardService) GetAdminDashboard(ctx context.Context) (*AdminDashboardData, error) {
	data := &AdminDashboardData{}

	// User counts
	s.db.WithContext(ctx).Table("users").Where("deleted_at IS NULL").Count(&data.TotalUsers)
	s.db.WithContext(ctx).Table("users").Where("is_active = ? AND deleted_at IS NULL", true).Count(&data.ActiveUsers)
	s.db.WithContext(ctx).Table("users").Where("referred_by IS NOT NULL AND deleted_at IS NULL").Count(&data.TotalReferred)

	// Purchase counts and volumes
	s.db.WithContext(ctx).Table("purchases").Count(&data.TotalPurchases)
	s.db.WithContext(ctx).Table("purchases").Where("status = ?", "pending").Count(&data.PendingPurchases)
	s.db.WithContext(ctx).Table("purchases").Where("status = ?", "approved").Count(&data.ApprovedPurchases)

	s.db.WithContext(ctx).Table("purchases").
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&data.TotalVolume)

	s.db.WithContext(ctx).Table("purchases").
		Where("status = ?", "approved").
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&data.ApprovedVolume)

	s.db.WithContext(ctx).Table("purchases").
		Where("status = ? AND active = ?", "approved", false).
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&data.ForfeitedVolume)

	// Withdrawal counts and amounts
	s.db.WithContext(ctx).Table("withdrawals").Count(&data.TotalWithdrawals)
	s.db.WithContext(ctx).Table("withdrawals").Where("status = ?", "pending").Count(&data.PendingWithdrawals)
	s.db.WithContext(ctx).Table("withdrawals").Where("status = ?", "approved").Count(&data.ApprovedWithdrawals)

	s.db.WithContext(ctx).Table("withdrawals").
		Where("status = ?", "approved").
		Select("COALESCE(SUM(amount), 0)").
		Scan(&data.PaidOutAmount)

	s.db.WithContext(ctx).Table("withdrawals").
		Where("status = ?", "pending").
		Select("COALESCE(SUM(amount), 0)").
		Scan(&data.PendingAmount)

	// This month statistics
	startOfMonth := time.Now().AddDate(0, 0, -time.Now().Day()+1).Truncate(24 * time.Hour)
	s.db.WithContext(ctx).Table("purchases").
		Where("created_at >= ?", startOfMonth).
		Count(&data.PurchasesThisMonth)

	s.db.WithContext(ctx).Table("purchases").
		Where("created_at >= ?", startOfMonth).
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&data.VolumeThisMonth)

	// Recent purchases
	var recentPurchases []struct {
		ID          uint
		UserPhone   string
		ProductName string
		Amount      float64
		Status      string
		Active      bool
		CreatedAt   time.Time
	}
	s.db.WithContext(ctx).Table("purchases").
		Select("purchases.id, COALESCE(users.phone, '') as user_phone, COALESCE(products.name, '') as product_name, purchases.total_amount as amount, purchases.status, purchases.active, purchases.created_at").
		Joins("LEFT JOIN users ON purchases.user_id = users.id").
		Joins("LEFT JOIN products ON purchases.product_id = products.id").
		Order("purchases.created_at DESC").
		Limit(10).
		Scan(&recentPurchases)

	data.RecentPurchases = make([]PurchaseSummary, len(recentPurchases))
	for i, p := range recentPurchases {
		data.RecentPurchases[i] = PurchaseSummary{
			ID:          p.ID,
			UserPhone:   p.UserPhone,
			ProductName: p.ProductName,
			Amount:      p.Amount,
			Status:      p.Status,
			Active:      p.Active,
			CreatedAt:   p.CreatedAt,
		}
	}

	// Recent withdrawals
	var recentWithdrawals []struct {
		ID                uint
		UserPhone         string
		Amount            float64
		Status            string
		ForfeitPurchaseID *uint
		CreatedAt         time.Time
	}
	s.db.WithContext(ctx).Table("withdrawals").
		Select("withdrawals.id, COALESCE(users.phone, '') as user_phone, withdrawals.amount, withdrawals.status, withdrawals.forfeit_purchase_id, withdrawals.created_at").
		Joins("LEFT JOIN users ON withdrawals.user_id = users.id").
		Order("withdrawals.created_at DESC").
		Limit(10).
		Scan(&recentWithdrawals)

	data.RecentWithdrawals = make([]WithdrawalSummary, len(recentWithdrawals))
	for i, w := range recentWithdrawals {
		data.RecentWithdrawals[i] = WithdrawalSummary{
			ID:        w.ID,
			UserPhone: w.UserPhone,
			Amount:    w.Amount,
			Status:    w.Status,
			Forfeit:   w.ForfeitPurchaseID != nil,
			CreatedAt: w.CreatedAt,
		}
	}

	return data, nil
}
