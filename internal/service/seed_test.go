package service

import (
	"testing"

	"imageshare.com/internal/model"
)

func TestEnsureDefaultAccounts(t *testing.T) {
	db := newTestDB(t)

	EnsureDefaultAccounts(db)

	var count int64
	db.Model(&model.User{}).Count(&count)
	if count != 2 {
		t.Fatalf("expected 2 default accounts, got %d", count)
	}

	var admin model.User
	if err := db.Where("role = ?", model.RoleAdmin).First(&admin).Error; err != nil {
		t.Fatal("expected a default admin account")
	}
	var approver model.User
	if err := db.Where("role = ?", model.RoleApprover).First(&approver).Error; err != nil {
		t.Fatal("expected a default approver account")
	}

	// A populated table is left alone
	EnsureDefaultAccounts(db)
	db.Model(&model.User{}).Count(&count)
	if count != 2 {
		t.Errorf("repeated seeding should not add accounts, got %d", count)
	}
}
