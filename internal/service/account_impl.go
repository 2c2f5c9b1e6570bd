package service

import (
	"context"
	"log"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"imageshare.com/internal/auth"
	"imageshare.com/internal/constants"
	"imageshare.com/internal/domain"
	"imageshare.com/internal/event"
	"imageshare.com/internal/model"
)

// AccountServiceImpl implements domain.AccountService
type AccountServiceImpl struct {
	db        *gorm.DB
	store     domain.ImageStore
	bus       *event.Bus
	jwtSecret []byte
	tokenTTL  time.Duration
}

func NewAccountService(db *gorm.DB, store domain.ImageStore, bus *event.Bus, jwtSecret []byte, tokenTTL time.Duration) *AccountServiceImpl {
	return &AccountServiceImpl{
		db:        db,
		store:     store,
		bus:       bus,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
	}
}

// Register creates a new account with the default user role
func (s *AccountServiceImpl) Register(ctx context.Context, username, email, password string, ada bool) (*model.User, error) {
	if username == "" || email == "" {
		return nil, domain.NewValidationError("username and email are required")
	}
	if len(password) < 6 {
		return nil, domain.NewValidationError("password must be at least 6 characters")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, domain.NewInternalError("failed to hash password", err)
	}

	user := model.User{
		Username: username,
		Email:    email,
		Password: string(hashed),
		Role:     model.RoleUser,
		Active:   true,
		ADA:      ada,
	}

	if err := s.db.Create(&user).Error; err != nil {
		return nil, domain.NewConflictError("username or email already exists")
	}

	log.Printf("AccountService: Registered user %s (%d)", user.Username, user.ID)
	return &user, nil
}

// Authenticate verifies credentials by username or email and returns a
// signed session token. Deactivated accounts cannot log in.
func (s *AccountServiceImpl) Authenticate(ctx context.Context, login, password string) (*model.User, string, error) {
	if login == "" {
		return nil, "", domain.NewValidationError("username or email is required")
	}

	var user model.User
	if err := s.db.Where("username = ? OR email = ?", login, login).First(&user).Error; err != nil {
		return nil, "", domain.NewUnauthorizedError("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, "", domain.NewUnauthorizedError("invalid credentials")
	}

	if !user.Active {
		return nil, "", domain.NewUnauthorizedError("account is deactivated")
	}

	token, err := auth.IssueToken(&user, s.jwtSecret, s.tokenTTL)
	if err != nil {
		return nil, "", domain.NewInternalError("failed to sign token", err)
	}

	return &user, token, nil
}

// ChangePassword verifies the old password before setting the new one
func (s *AccountServiceImpl) ChangePassword(ctx context.Context, userID uint, oldPassword, newPassword string) error {
	if len(newPassword) < 6 {
		return domain.NewValidationError("password must be at least 6 characters")
	}

	var user model.User
	if err := s.db.First(&user, userID).Error; err != nil {
		return domain.NewNotFoundError("user not found")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(oldPassword)); err != nil {
		return domain.NewValidationError("the old password is invalid")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return domain.NewInternalError("failed to hash password", err)
	}

	if err := s.db.Model(&user).Update("password", string(hashed)).Error; err != nil {
		return domain.NewInternalError("failed to update password", err)
	}
	return nil
}

// SetActive deactivates or reactivates an account. Deactivation deletes all
// of the user's image rows and their payload files; reactivation only flips
// the flag back, deleted images are not restored. Repeating either direction
// is a no-op.
func (s *AccountServiceImpl) SetActive(ctx context.Context, actor *model.User, userID uint, active bool) error {
	if d := auth.Authorize(actor, auth.ActionManageAccounts, userID); !d.Allowed {
		return domain.NewForbiddenError("not allowed to manage accounts", d.Reason)
	}

	var user model.User
	if err := s.db.First(&user, userID).Error; err != nil {
		return domain.NewNotFoundError("user not found")
	}

	if user.Active == active {
		return nil
	}

	if active {
		if err := s.db.Model(&user).Update("active", true).Error; err != nil {
			return domain.NewInternalError("failed to reactivate user", err)
		}
		s.bus.Publish(event.Event{Type: constants.EventUserReactivated, Source: "account", Data: userID})
		return nil
	}

	// Deactivation: cascade-delete the user's images inside one transaction,
	// then clean up payload files best-effort after the commit.
	var images []model.Image
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Find(&images).Error; err != nil {
			return err
		}
		if len(images) > 0 {
			if err := tx.Unscoped().Where("user_id = ?", userID).Delete(&model.Image{}).Error; err != nil {
				return err
			}
		}
		return tx.Model(&user).Update("active", false).Error
	})
	if err != nil {
		return domain.NewInternalError("failed to deactivate user", err)
	}

	for _, img := range images {
		if err := s.store.Remove(img.ID, img.Ext); err != nil {
			log.Printf("AccountService: Failed to remove payload for image %d: %v", img.ID, err)
		}
	}

	log.Printf("AccountService: Deactivated user %d, removed %d images", userID, len(images))
	s.bus.Publish(event.Event{Type: constants.EventUserDeactivated, Source: "account", Data: userID})
	return nil
}

// ListUsers returns accounts for the admin management view
func (s *AccountServiceImpl) ListUsers(ctx context.Context, page, pageSize int) ([]model.User, int64, error) {
	var users []model.User
	var total int64

	offset := (page - 1) * pageSize

	if err := s.db.Model(&model.User{}).Count(&total).Error; err != nil {
		return nil, 0, domain.NewInternalError("failed to count users", err)
	}

	if err := s.db.Order("id ASC").Limit(pageSize).Offset(offset).Find(&users).Error; err != nil {
		return nil, 0, domain.NewInternalError("failed to fetch users", err)
	}

	return users, total, nil
}

// Interface guard
var _ domain.AccountService = (*AccountServiceImpl)(nil)
