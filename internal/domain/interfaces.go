package domain

import (
	"context"
	"io"
	"time"

	"imageshare.com/internal/model"
)

// ===========================
// Account service interface
// ===========================

// AccountService defines account lifecycle and authentication operations
type AccountService interface {
	// Register a new account with the default user role
	Register(ctx context.Context, username, email, password string, ada bool) (*model.User, error)
	// Authenticate by username or email, returns the user and a signed token
	Authenticate(ctx context.Context, login, password string) (*model.User, string, error)
	// Change the password of the logged-in user, verifying the old one
	ChangePassword(ctx context.Context, userID uint, oldPassword, newPassword string) error
	// Deactivate or reactivate an account (admin only); deactivation cascades
	SetActive(ctx context.Context, actor *model.User, userID uint, active bool) error
	// List accounts for the admin management view
	ListUsers(ctx context.Context, page, pageSize int) ([]model.User, int64, error)
}

// ===========================
// Image service interface
// ===========================

// ImageUpload carries the fields of an upload request
type ImageUpload struct {
	Caption     string
	Description string
	DateTaken   time.Time
	TagID       uint
	Ext         string
	File        io.Reader
	Size        int64
}

// ImageEdit carries the mutable fields of an image. A zero DateTaken
// leaves the stored value untouched.
type ImageEdit struct {
	Caption     string
	Description string
	DateTaken   time.Time
	TagID       uint
}

// ImageService defines the moderation and ownership workflow over images
type ImageService interface {
	// Upload creates the metadata row and persists the payload
	Upload(ctx context.Context, actor *model.User, up ImageUpload) (*model.Image, error)
	// Details returns an image joined with its user and tag
	Details(ctx context.Context, imageID uint) (*model.Image, error)
	// Edit updates caption/description/date/tag, owner only
	Edit(ctx context.Context, actor *model.User, imageID uint, edit ImageEdit) (*model.Image, error)
	// Delete removes the row and the payload, owner only
	Delete(ctx context.Context, actor *model.User, imageID uint) error
	// SetApproved toggles publication, approver only
	SetApproved(ctx context.Context, actor *model.User, imageID uint, approved bool) error
	// ListPending returns images awaiting approval, for the moderation view
	ListPending(ctx context.Context, page, pageSize int) ([]model.Image, int64, error)
	// Open returns a reader over the payload bytes of an image
	Open(ctx context.Context, imageID uint) (io.ReadCloser, string, error)
}

// ===========================
// Listing service interface
// ===========================

// ListingService builds approved-only views of the image set
type ListingService interface {
	// ListAll returns every approved image
	ListAll(ctx context.Context, page, pageSize int) ([]model.Image, int64, error)
	// ListByTag returns approved images under one tag
	ListByTag(ctx context.Context, tagID uint, page, pageSize int) ([]model.Image, int64, error)
	// ListByUser returns approved images owned by one user
	ListByUser(ctx context.Context, userID uint, page, pageSize int) ([]model.Image, int64, error)
	// Tags returns the seeded tag set
	Tags(ctx context.Context) ([]model.Tag, error)
}

// ===========================
// Image payload storage interface
// ===========================

// ImageStore persists raw image bytes outside the database, keyed by image ID
type ImageStore interface {
	// Write stores the payload, creating the directory if needed
	Write(id uint, ext string, r io.Reader) error
	// Open returns a reader over a stored payload
	Open(id uint, ext string) (io.ReadCloser, error)
	// Remove deletes a stored payload
	Remove(id uint, ext string) error
	// PathFor returns the logical path of a payload
	PathFor(id uint, ext string) string
}
