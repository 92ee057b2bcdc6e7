package config

import (
	"log"

	"alumnifund/internal/adapters/persistence/models"
	"alumnifund/internal/core/domain"
	"alumnifund/internal/pkg/password"

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

	if err := s.seedSuperAdmin(); err != nil {
		log.Printf("⚠️ Superadmin seeder skipped: %v", err)
	}

	log.Println("✅ Database seeding completed")
	return nil
}

// seedSuperAdmin seeds the bootstrap superadmin account.
// This is for development/testing only.
// In production, create the superadmin through a secure process.
func (s *Seeder) seedSuperAdmin() error {
	var count int64
	s.db.Model(&models.User{}).Where("role = ?", domain.RoleSuperAdmin).Count(&count)
	if count > 0 {
		return nil // Superadmin already exists
	}

	// Every user account must be backed by a registry member,
	// so seed a placeholder member record for the superadmin.
	member := &models.Member{
		FullName:       "System Administrator",
		Email:          "admin@alumnifund.org",
		Department:     "Association Office",
		GraduationYear: 2000,
	}
	if err := s.db.Where("email = ?", member.Email).FirstOrCreate(member).Error; err != nil {
		return err
	}

	hashedPassword, err := password.Hash("admin123456")
	if err != nil {
		return err
	}

	admin := &models.User{
		MemberID: member.ID,
		Username: "admin",
		Email:    member.Email,
		Password: hashedPassword,
		Role:     domain.RoleSuperAdmin,
		IsActive: true,
	}

	if err := s.db.Create(admin).Error; err != nil {
		return err
	}

	log.Printf("✅ Superadmin user created: %s", admin.Username)
	return nil
}
