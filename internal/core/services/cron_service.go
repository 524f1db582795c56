package services

import (
	"context"
	"log"

	"gemvault/internal/adapters/persistence/repositories"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// CronService runs scheduled maintenance jobs
type CronService struct {
	db               *gorm.DB
	refreshTokenRepo repositories.RefreshTokenRepository
	cron             *cron.Cron
}

// NewCronService creates a new cron service
func NewCronService(db *gorm.DB, refreshTokenRepo repositories.RefreshTokenRepository) *CronService {
	return &CronService{
		db:               db,
		refreshTokenRepo: refreshTokenRepo,
		cron:             cron.New(),
	}
}

// Start registers and launches all scheduled jobs
func (s *CronService) Start() {
	// Purge expired refresh tokens every hour
	s.cron.AddFunc("0 * * * *", s.purgeExpiredTokens)

	// Log platform totals once a day at 00:05
	s.cron.AddFunc("5 0 * * *", s.logDailyTotals)

	s.cron.Start()
	log.Println("⏰ CronService started")
}

// Stop stops the scheduler and waits for running jobs
func (s *CronService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Println("🛑 CronService stopped")
}

func (s *CronService) purgeExpiredTokens() {
	if err := s.refreshTokenRepo.DeleteExpired(context.Background()); err != nil {
		log.Printf("⚠️ Token purge failed: %v", err)
		return
	}
	log.Println("🧹 Expired refresh tokens purged")
}

// logDailyTotals writes a one-line platform snapshot to the log. Pure
// reporting; the ledger itself is always derived on demand.
func (s *CronService) logDailyTotals() {
	var users, purchases, withdrawals int64
	var approvedVolume, paidOut float64

	s.db.Table("users").Where("deleted_at IS NULL").Count(&users)
	s.db.Table("purchases").Count(&purchases)
	s.db.Table("withdrawals").Count(&withdrawals)
	s.db.Table("purchases").Where("status = ?", "approved").
		Select("COALESCE(SUM(total_amount), 0)").Scan(&approvedVolume)
	s.db.Table("withdrawals").Where("status = ?", "approved").
		Select("COALESCE(SUM(amount), 0)").Scan(&paidOut)

	log.Printf("📊 Daily totals: users=%d purchases=%d withdrawals=%d approved_volume=%.2f paid_out=%.2f",
		users, purchases, withdrawals, approvedVolume, paidOut)
}
