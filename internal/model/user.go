package model

import "gorm.io/gorm"

// Role names. One primary role per user; Casbin policies are keyed by role.
const (
	RoleUser     = "user"
	RoleAdmin    = "admin"
	RoleApprover = "approver"
)

// User represents an account in the system
type User struct {
	gorm.Model
	Username string `gorm:"uniqueIndex;not null" json:"username"`
	Email    string `gorm:"uniqueIndex;not null" json:"email"`
	Password string `gorm:"not null" json:"-"` // bcrypt hash, never serialized
	Role     string `gorm:"default:'user'" json:"role"`
	Active   bool   `gorm:"default:true" json:"active"`
	ADA      bool   `gorm:"default:false" json:"ada"` // accessibility preference, presentation only

	Images []Image `gorm:"foreignKey:UserID" json:"-"`
}
