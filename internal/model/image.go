package model

import (
	"time"

	"gorm.io/gorm"
)

// Image is the metadata record for an uploaded picture. The payload bytes
// live on the filesystem, addressed by the image ID (see internal/storage).
type Image struct {
	gorm.Model
	Caption     string    `gorm:"not null" json:"caption"`
	Description string    `json:"description"`
	DateTaken   time.Time `json:"date_taken"`
	Approved    bool      `gorm:"default:false" json:"approved"`
	Ext         string    `gorm:"default:'jpg'" json:"ext"` // payload file extension

	UserID uint  `gorm:"not null;index" json:"user_id"`
	User   *User `gorm:"foreignKey:UserID" json:"user,omitempty"`

	TagID uint `gorm:"not null;index" json:"tag_id"`
	Tag   *Tag `gorm:"foreignKey:TagID" json:"tag,omitempty"`
}
