package model

import "gorm.io/gorm"

// Tag categorizes images. Tags are seeded at boot and not user-creatable.
type Tag struct {
	gorm.Model
	Name string `gorm:"uniqueIndex;not null" json:"name"`

	Images []Image `gorm:"foreignKey:TagID" json:"-"`
}
