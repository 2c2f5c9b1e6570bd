package service

import (
	"log"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"imageshare.com/internal/model"
)

// SeedTags installs the fixed tag set. Tags are not user-creatable, so this
// is the only place they come from. Upsert on name keeps restarts idempotent.
func SeedTags(db *gorm.DB) {
	tags := []model.Tag{
		{Name: "portrait"},
		{Name: "architecture"},
		{Name: "custom"},
	}

	log.Printf("Seed: Ensuring %d tags...", len(tags))
	for _, t := range tags {
		db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoNothing: true,
		}).Create(&t)
	}
}

// EnsureDefaultAccounts creates a default admin and approver when the user
// table is empty, so a fresh deployment is immediately manageable.
func EnsureDefaultAccounts(db *gorm.DB) {
	var count int64
	db.Model(&model.User{}).Count(&count)
	if count > 0 {
		return
	}

	log.Println("Seed: No users found. Creating default admin and approver...")

	defaults := []struct {
		username, email, password, role string
	}{
		{"admin", "admin@admin.org", "admin123", model.RoleAdmin},
		{"approver", "approver@approver.org", "approver123", model.RoleApprover},
	}

	for _, d := range defaults {
		hashed, err := bcrypt.GenerateFromPassword([]byte(d.password), bcrypt.DefaultCost)
		if err != nil {
			log.Printf("Seed: Failed to hash password for %s: %v", d.username, err)
			continue
		}
		user := model.User{
			Username: d.username,
			Email:    d.email,
			Password: string(hashed),
			Role:     d.role,
			Active:   true,
		}
		if err := db.Create(&user).Error; err != nil {
			log.Printf("Seed: Failed to create %s user: %v", d.username, err)
		} else {
			log.Printf("Seed: Created default user: %s / %s", d.username, d.password)
		}
	}
}
