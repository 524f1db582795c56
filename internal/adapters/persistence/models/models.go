package models

import (
	"time"

	"gorm.io/gorm"
)

// ============================================================
// Auth & User Tables
// ============================================================

// User represents users table. ReferredBy is a numeric FK to the
// referrer's id; the referral code is only used to resolve the
// referrer at registration time.
type User struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Name         string         `gorm:"size:100;not null" json:"name"`
	Phone        string         `gorm:"uniqueIndex;size:20;not null" json:"phone"`
	Password     string         `gorm:"size:255;not null" json:"-"`
	ReferralCode string         `gorm:"uniqueIndex;size:20;not null" json:"referral_code"`
	ReferredBy   *uint          `gorm:"index" json:"referred_by"`
	IsAdmin      bool           `gorm:"default:false" json:"is_admin"`
	IsActive     bool           `gorm:"default:true" json:"is_active"`
	CreatedAt    time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Referrals   []User       `gorm:"foreignKey:ReferredBy" json:"referrals,omitempty"`
	Purchases   []Purchase   `gorm:"foreignKey:UserID" json:"purchases,omitempty"`
	Withdrawals []Withdrawal `gorm:"foreignKey:UserID" json:"withdrawals,omitempty"`
}

func (User) TableName() string {
	return "users"
}

// UserResponse DTO
type UserResponse struct {
	ID           uint      `json:"id"`
	Name         string    `json:"name"`
	Phone        string    `json:"phone"`
	ReferralCode string    `json:"referral_code"`
	ReferredBy   *uint     `json:"referred_by"`
	IsAdmin      bool      `json:"is_admin"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}

func (u *User) ToResponse() *UserResponse {
	return &UserResponse{
		ID:           u.ID,
		Name:         u.Name,
		Phone:        u.Phone,
		ReferralCode: u.ReferralCode,
		ReferredBy:   u.ReferredBy,
		IsAdmin:      u.IsAdmin,
		IsActive:     u.IsActive,
		CreatedAt:    u.CreatedAt,
	}
}

// RefreshToken represents refresh_tokens table
type RefreshToken struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    uint       `gorm:"index;not null" json:"user_id"`
	TokenHash string     `gorm:"size:255;not null;index" json:"-"`
	ExpiresAt time.Time  `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	RevokedAt *time.Time `gorm:"index" json:"revoked_at"`
	User      User       `gorm:"foreignKey:UserID" json:"-"`
}

func (RefreshToken) TableName() string {
	return "refresh_tokens"
}

func (rt *RefreshToken) IsRevoked() bool {
	return rt.RevokedAt != nil
}

func (rt *RefreshToken) IsExpired() bool {
	return time.Now().After(rt.ExpiresAt)
}

// ============================================================
// Catalog Tables
// ============================================================

// Product represents the gem catalog
type Product struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Name        string         `gorm:"size:100;not null" json:"name"`
	Type        string         `gorm:"size:50;not null" json:"type"`
	Price       float64        `gorm:"type:decimal(15,2);not null" json:"price"`
	ImageURL    string         `gorm:"type:text" json:"image_url"`
	Description string         `gorm:"type:text" json:"description"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Product) TableName() string {
	return "products"
}

// ============================================================
// Ledger Tables
// ============================================================

// Purchase / Withdrawal statuses. Both tables share the same tri-state
// admin-controlled lifecycle: pending until processed, then terminal.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusDeclined = "declined"
)

// Purchase represents a single checkout record. Status is flipped
// exactly once by admin action. Active flips false when the purchase is
// forfeited toward a withdrawal, and back to true if that withdrawal is
// declined; an approved purchase therefore can be inactive.
type Purchase struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"not null;index" json:"user_id"`
	ProductID   *uint     `gorm:"index" json:"product_id"`
	TotalAmount float64   `gorm:"type:decimal(15,2);not null" json:"total_amount"`
	Status      string    `gorm:"size:20;not null;default:'pending';index" json:"status"`
	Active      bool      `gorm:"default:true" json:"active"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Relations
	User    *User    `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

func (Purchase) TableName() string {
	return "purchases"
}

// IsAccruing reports whether the purchase contributes principal and
// appreciation to its owner's balance.
func (p *Purchase) IsAccruing() bool {
	return p.Status == StatusApproved && p.Active
}

// PurchaseResponse DTO
type PurchaseResponse struct {
	ID          uint      `json:"id"`
	UserID      uint      `json:"user_id"`
	UserPhone   string    `json:"user_phone,omitempty"`
	ProductID   *uint     `json:"product_id"`
	ProductName string    `json:"product_name,omitempty"`
	TotalAmount float64   `json:"total_amount"`
	Status      string    `json:"status"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
}

func (p *Purchase) ToResponse() *PurchaseResponse {
	resp := &PurchaseResponse{
		ID:          p.ID,
		UserID:      p.UserID,
		ProductID:   p.ProductID,
		TotalAmount: p.TotalAmount,
		Status:      p.Status,
		Active:      p.Active,
		CreatedAt:   p.CreatedAt,
	}

	if p.User != nil {
		resp.UserPhone = p.User.Phone
	}
	if p.Product != nil {
		resp.ProductName = p.Product.Name
	}

	return resp
}

// Withdrawal represents a cash-out request. Amount is the exact payout
// requested; no charge is deducted. Rows are never deleted, and UserID
// may point at a deleted user (admin views must tolerate that).
type Withdrawal struct {
	ID                uint       `gorm:"primaryKey" json:"id"`
	UserID            uint       `gorm:"not null;index" json:"user_id"`
	Amount            float64    `gorm:"type:decimal(15,2);not null" json:"amount"`
	BankName          string     `gorm:"size:100;not null" json:"bank_name"`
	AccountNumber     string     `gorm:"size:50;not null" json:"account_number"`
	Status            string     `gorm:"size:20;not null;default:'pending';index" json:"status"`
	ForfeitPurchaseID *uint      `json:"forfeit_purchase_id"`
	ForfeitedAmount   float64    `gorm:"type:decimal(15,2);default:0" json:"forfeited_amount"`
	AdminNote         *string    `gorm:"type:text" json:"admin_note"`
	CreatedAt         time.Time  `gorm:"autoCreateTime" json:"created_at"`
	ProcessedAt       *time.Time `json:"processed_at"`

	// Relations
	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (Withdrawal) TableName() string {
	return "withdrawals"
}

func (w *Withdrawal) IsPending() bool {
	return w.Status == StatusPending
}

// WithdrawalResponse DTO
type WithdrawalResponse struct {
	ID                uint       `json:"id"`
	UserID            uint       `json:"user_id"`
	UserPhone         string     `json:"user_phone,omitempty"`
	Amount            float64    `json:"amount"`
	BankName          string     `json:"bank_name"`
	AccountNumber     string     `json:"account_number"`
	Status            string     `json:"status"`
	ForfeitPurchaseID *uint      `json:"forfeit_purchase_id"`
	ForfeitedAmount   float64    `json:"forfeited_amount"`
	AdminNote         *string    `json:"admin_note"`
	CreatedAt         time.Time  `json:"created_at"`
	ProcessedAt       *time.Time `json:"processed_at"`
}

func (w *Withdrawal) ToResponse() *WithdrawalResponse {
	resp := &WithdrawalResponse{
		ID:                w.ID,
		UserID:            w.UserID,
		Amount:            w.Amount,
		BankName:          w.BankName,
		AccountNumber:     w.AccountNumber,
		Status:            w.Status,
		ForfeitPurchaseID: w.ForfeitPurchaseID,
		ForfeitedAmount:   w.ForfeitedAmount,
		AdminNote:         w.AdminNote,
		CreatedAt:         w.CreatedAt,
		ProcessedAt:       w.ProcessedAt,
	}

	if w.User != nil {
		resp.UserPhone = w.User.Phone
	}

	return resp
}

// ============================================================
// Auto Migration
// ============================================================

// AutoMigrate runs auto migration for all tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&RefreshToken{},
		&Product{},
		&Purchase{},
		&Withdrawal{},
	)
}
