package service

import (
	"context"
	"errors"
	"io"
	"log"

	"gorm.io/gorm"

	"imageshare.com/internal/auth"
	"imageshare.com/internal/constants"
	"imageshare.com/internal/domain"
	"imageshare.com/internal/event"
	"imageshare.com/internal/model"
)

// ImageServiceImpl implements domain.ImageService
type ImageServiceImpl struct {
	db    *gorm.DB
	store domain.ImageStore
	bus   *event.Bus
}

func NewImageService(db *gorm.DB, store domain.ImageStore, bus *event.Bus) *ImageServiceImpl {
	return &ImageServiceImpl{
		db:    db,
		store: store,
		bus:   bus,
	}
}

// Upload creates the metadata row and persists the payload. The row is
// created inside a transaction and the file is written before the commit:
// if the file write fails the row is rolled back, so no metadata-only image
// survives. A crash between file write and commit leaves an orphan file at
// worst, never a payload-less row.
func (s *ImageServiceImpl) Upload(ctx context.Context, actor *model.User, up domain.ImageUpload) (*model.Image, error) {
	if actor == nil || !actor.Active {
		return nil, domain.NewUnauthorizedError("no active session")
	}
	if up.File == nil || up.Size <= 0 {
		return nil, domain.NewValidationError("no image file specified")
	}
	if up.Caption == "" {
		return nil, domain.NewValidationError("caption is required")
	}

	var tag model.Tag
	if err := s.db.First(&tag, up.TagID).Error; err != nil {
		return nil, domain.NewValidationError("unknown tag")
	}

	ext := up.Ext
	if ext == "" {
		ext = "jpg"
	}

	image := model.Image{
		Caption:     up.Caption,
		Description: up.Description,
		DateTaken:   up.DateTaken,
		Approved:    false,
		Ext:         ext,
		UserID:      actor.ID,
		TagID:       tag.ID,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&image).Error; err != nil {
			return err
		}
		// Payload write happens inside the transaction scope so a failed
		// write rolls the metadata row back.
		return s.store.Write(image.ID, ext, up.File)
	})
	if err != nil {
		return nil, domain.NewInternalError("failed to store image", err)
	}

	log.Printf("ImageService: User %d uploaded image %d (%s)", actor.ID, image.ID, image.Caption)
	s.bus.Publish(event.Event{Type: constants.EventImageUploaded, Source: "image", Data: image.ID})
	return &image, nil
}

// Details returns an image joined with its user and tag
func (s *ImageServiceImpl) Details(ctx context.Context, imageID uint) (*model.Image, error) {
	var image model.Image
	if err := s.db.Preload("User").Preload("Tag").First(&image, imageID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("image not found")
		}
		return nil, domain.NewInternalError("failed to fetch image", err)
	}
	return &image, nil
}

// Edit updates the mutable fields of an image. Only the owner may edit;
// admin or approver roles do not substitute for ownership.
func (s *ImageServiceImpl) Edit(ctx context.Context, actor *model.User, imageID uint, edit domain.ImageEdit) (*model.Image, error) {
	var image model.Image
	if err := s.db.First(&image, imageID).Error; err != nil {
		return nil, domain.NewNotFoundError("image not found")
	}

	if d := auth.Authorize(actor, auth.ActionEditImage, image.UserID); !d.Allowed {
		return nil, domain.NewForbiddenError("not allowed to edit this image", d.Reason)
	}

	if edit.Caption == "" {
		return nil, domain.NewValidationError("caption is required")
	}

	var tag model.Tag
	if err := s.db.First(&tag, edit.TagID).Error; err != nil {
		return nil, domain.NewValidationError("unknown tag")
	}

	image.Caption = edit.Caption
	image.Description = edit.Description
	// A zero DateTaken means the form omitted the field; keep the stored value
	if !edit.DateTaken.IsZero() {
		image.DateTaken = edit.DateTaken
	}
	image.TagID = tag.ID

	if err := s.db.Save(&image).Error; err != nil {
		return nil, domain.NewInternalError("failed to update image", err)
	}

	// An approved image may already sit in a cached listing page under the
	// old caption or tag, so edits invalidate the same way moderation does.
	s.bus.Publish(event.Event{Type: constants.EventImageEdited, Source: "image", Data: image.ID})
	return &image, nil
}

// Delete removes the metadata row and the payload file. Owner only.
func (s *ImageServiceImpl) Delete(ctx context.Context, actor *model.User, imageID uint) error {
	var image model.Image
	if err := s.db.First(&image, imageID).Error; err != nil {
		return domain.NewNotFoundError("image not found")
	}

	if d := auth.Authorize(actor, auth.ActionDeleteImage, image.UserID); !d.Allowed {
		return domain.NewForbiddenError("not allowed to delete this image", d.Reason)
	}

	if err := s.db.Unscoped().Delete(&image).Error; err != nil {
		return domain.NewInternalError("failed to delete image", err)
	}

	// The row is authoritative; payload removal is best-effort.
	if err := s.store.Remove(image.ID, image.Ext); err != nil {
		log.Printf("ImageService: Failed to remove payload for image %d: %v", image.ID, err)
	}

	s.bus.Publish(event.Event{Type: constants.EventImageDeleted, Source: "image", Data: image.ID})
	return nil
}

// SetApproved toggles publication of an image. Approver role only, no
// ownership check: any approver may moderate any image. Approval is
// revocable by passing approved=false.
func (s *ImageServiceImpl) SetApproved(ctx context.Context, actor *model.User, imageID uint, approved bool) error {
	var image model.Image
	if err := s.db.First(&image, imageID).Error; err != nil {
		return domain.NewNotFoundError("image not found")
	}

	if d := auth.Authorize(actor, auth.ActionApproveImage, image.UserID); !d.Allowed {
		return domain.NewForbiddenError("not allowed to approve images", d.Reason)
	}

	if image.Approved == approved {
		return nil
	}

	if err := s.db.Model(&image).Update("approved", approved).Error; err != nil {
		return domain.NewInternalError("failed to update approval", err)
	}

	evType := constants.EventImageApproved
	if !approved {
		evType = constants.EventImageUnapproved
	}
	log.Printf("ImageService: Approver %d set image %d approved=%v", actor.ID, imageID, approved)
	s.bus.Publish(event.Event{Type: evType, Source: "image", Data: imageID})
	return nil
}

// ListPending returns unapproved images for the moderation view
func (s *ImageServiceImpl) ListPending(ctx context.Context, page, pageSize int) ([]model.Image, int64, error) {
	var images []model.Image
	var total int64

	offset := (page - 1) * pageSize

	query := s.db.Model(&model.Image{}).Where("approved = ?", false)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, domain.NewInternalError("failed to count pending images", err)
	}

	if err := query.Preload("User").Preload("Tag").
		Order("id ASC").
		Limit(pageSize).
		Offset(offset).
		Find(&images).Error; err != nil {
		return nil, 0, domain.NewInternalError("failed to fetch pending images", err)
	}

	return images, total, nil
}

// Open returns a reader over the payload bytes and the file extension
func (s *ImageServiceImpl) Open(ctx context.Context, imageID uint) (io.ReadCloser, string, error) {
	var image model.Image
	if err := s.db.First(&image, imageID).Error; err != nil {
		return nil, "", domain.NewNotFoundError("image not found")
	}

	rc, err := s.store.Open(image.ID, image.Ext)
	if err != nil {
		return nil, "", domain.NewInternalError("failed to open image payload", err)
	}
	return rc, image.Ext, nil
}

// Interface guard
var _ domain.ImageService = (*ImageServiceImpl)(nil)
