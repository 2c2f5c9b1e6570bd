package service

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"imageshare.com/internal/event"
	"imageshare.com/internal/model"
	"imageshare.com/internal/storage"
)

const testJWTSecret = "test-secret"

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	if err := db.AutoMigrate(&model.User{}, &model.Tag{}, &model.Image{}); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return db
}

func newTestStore(t *testing.T) *storage.LocalStore {
	t.Helper()

	store, err := storage.NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create test store: %v", err)
	}
	return store
}

func newTestBus(t *testing.T) *event.Bus {
	t.Helper()

	bus := event.NewBus(16)
	t.Cleanup(bus.Shutdown)
	return bus
}

func createUser(t *testing.T, db *gorm.DB, username, role string, active bool) *model.User {
	t.Helper()

	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}

	user := model.User{
		Username: username,
		Email:    username + "@example.org",
		Password: string(hashed),
		Role:     role,
		Active:   active,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("Failed to create user %s: %v", username, err)
	}
	return &user
}

func createTag(t *testing.T, db *gorm.DB, name string) *model.Tag {
	t.Helper()

	tag := model.Tag{Name: name}
	if err := db.Create(&tag).Error; err != nil {
		t.Fatalf("Failed to create tag %s: %v", name, err)
	}
	return &tag
}

func createImage(t *testing.T, db *gorm.DB, owner *model.User, tag *model.Tag, caption string, approved bool) *model.Image {
	t.Helper()

	image := model.Image{
		Caption:   caption,
		DateTaken: time.Now(),
		Approved:  approved,
		Ext:       "jpg",
		UserID:    owner.ID,
		TagID:     tag.ID,
	}
	if err := db.Create(&image).Error; err != nil {
		t.Fatalf("Failed to create image %s: %v", caption, err)
	}
	return &image
}
