package config

import (
	"log"

	"gemvault/internal/adapters/persistence/models"
	"gemvault/internal/pkg/password"
	"gemvault/internal/pkg/referral"

	"gorm.io/gorm"
)

// Seeder handles database seeding
type Seeder struct {
	db *gorm.DB
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db}
}

// Run executes all seeders
func (s *Seeder) Run() error {
	log.Println("🌱 Running database seeders...")

	if err := s.seedAdminUser(); err != nil {
		log.Printf("⚠️ Admin seeder skipped: %v", err)
	}

	if err := s.seedProducts(); err != nil {
		log.Printf("⚠️ Product seeder skipped: %v", err)
	}

	log.Println("✅ Database seeding completed")
	return nil
}

// seedAdminUser seeds default admin user
// This is for development/testing only
// In production, create admin through secure process
func (s *Seeder) seedAdminUser() error {
	// Check if admin already exists
	var count int64
	s.db.Model(&models.User{}).Where("is_admin = ?", true).Count(&count)
	if count > 0 {
		return nil // Admin already exists
	}

	hashedPassword, err := password.Hash(getEnv("ADMIN_PASSWORD", "admin123456"))
	if err != nil {
		return err
	}

	admin := &models.User{
		Name:         "Administrator",
		Phone:        getEnv("ADMIN_PHONE", "0000000000"),
		Password:     hashedPassword,
		ReferralCode: referral.NewCode(),
		IsAdmin:      true,
		IsActive:     true,
	}

	if err := s.db.Create(admin).Error; err != nil {
		return err
	}

	log.Printf("✅ Admin user created: %s (referral code: %s)", admin.Phone, admin.ReferralCode)
	return nil
}

// seedProducts seeds the initial gem catalog
func (s *Seeder) seedProducts() error {
	var count int64
	s.db.Model(&models.Product{}).Count(&count)
	if count > 0 {
		return nil // Catalog already seeded
	}

	products := []models.Product{
		{Name: "Ruby Classic", Type: "ruby", Price: 50000, Description: "Entry-grade natural ruby"},
		{Name: "Ruby Premium", Type: "ruby", Price: 150000, Description: "Premium pigeon-blood ruby"},
		{Name: "Sapphire Classic", Type: "sapphire", Price: 75000, Description: "Blue sapphire, heat treated"},
		{Name: "Sapphire Royal", Type: "sapphire", Price: 200000, Description: "Royal blue sapphire, unheated"},
		{Name: "Emerald Classic", Type: "emerald", Price: 100000, Description: "Colombian emerald, minor oil"},
		{Name: "Diamond Brilliant", Type: "diamond", Price: 300000, Description: "Round brilliant cut, VS clarity"},
	}

	if err := s.db.Create(&products).Error; err != nil {
		return err
	}

	log.Printf("✅ Seeded %d products", len(products))
	return nil
}
