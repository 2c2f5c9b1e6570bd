package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"testing"
	"time"

	"imageshare.com/internal/constants"
	"imageshare.com/internal/domain"
	"imageshare.com/internal/event"
	"imageshare.com/internal/model"
)

func uploadFor(caption string, tagID uint, payload []byte) domain.ImageUpload {
	return domain.ImageUpload{
		Caption:   caption,
		DateTaken: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		TagID:     tagID,
		Ext:       "jpg",
		File:      bytes.NewReader(payload),
		Size:      int64(len(payload)),
	}
}

func appErrCode(t *testing.T, err error) int {
	t.Helper()

	var appErr *domain.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected *domain.AppError, got %T: %v", err, err)
	}
	return appErr.Code
}

func TestUpload_StartsUnapproved(t *testing.T) {
	db := newTestDB(t)
	store := newTestStore(t)
	svc := NewImageService(db, store, newTestBus(t))
	ctx := context.Background()

	user := createUser(t, db, "u1", model.RoleUser, true)
	tag := createTag(t, db, "portrait")

	image, err := svc.Upload(ctx, user, uploadFor("A", tag.ID, []byte("JPEGDATA")))
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}
	if image.ID == 0 {
		t.Error("expected a new image id")
	}
	if image.Approved {
		t.Error("freshly uploaded image must not be approved")
	}

	// Payload must exist on disk, keyed by the image id
	if _, err := os.Stat(store.PathFor(image.ID, "jpg")); err != nil {
		t.Errorf("payload file missing: %v", err)
	}

	// Details round trip
	got, err := svc.Details(ctx, image.ID)
	if err != nil {
		t.Fatalf("Details failed: %v", err)
	}
	if got.Caption != "A" || got.Approved || got.UserID != user.ID {
		t.Errorf("unexpected details: %+v", got)
	}
	if got.User == nil || got.User.Username != "u1" {
		t.Error("Details should preload the owning user")
	}
}

func TestUpload_Validation(t *testing.T) {
	db := newTestDB(t)
	svc := NewImageService(db, newTestStore(t), newTestBus(t))
	ctx := context.Background()

	user := createUser(t, db, "u1", model.RoleUser, true)
	tag := createTag(t, db, "portrait")

	// Unknown tag
	if _, err := svc.Upload(ctx, user, uploadFor("A", tag.ID+99, []byte("x"))); err == nil {
		t.Error("upload with unknown tag should fail")
	} else if code := appErrCode(t, err); code != 400 {
		t.Errorf("expected 400, got %d", code)
	}

	// Empty file
	if _, err := svc.Upload(ctx, user, uploadFor("A", tag.ID, nil)); err == nil {
		t.Error("upload with empty file should fail")
	} else if code := appErrCode(t, err); code != 400 {
		t.Errorf("expected 400, got %d", code)
	}

	// No active session
	if _, err := svc.Upload(ctx, nil, uploadFor("A", tag.ID, []byte("x"))); err == nil {
		t.Error("upload without session should fail")
	} else if code := appErrCode(t, err); code != 401 {
		t.Errorf("expected 401, got %d", code)
	}

	// Nothing should have been written
	var count int64
	db.Model(&model.Image{}).Count(&count)
	if count != 0 {
		t.Errorf("expected 0 images, got %d", count)
	}
}

func TestUpload_FileWriteFailureRollsBackRow(t *testing.T) {
	db := newTestDB(t)
	svc := NewImageService(db, failingStore{}, newTestBus(t))
	ctx := context.Background()

	user := createUser(t, db, "u1", model.RoleUser, true)
	tag := createTag(t, db, "portrait")

	if _, err := svc.Upload(ctx, user, uploadFor("A", tag.ID, []byte("JPEGDATA"))); err == nil {
		t.Fatal("upload should fail when the payload write fails")
	}

	// The metadata row must not survive a failed payload write
	var count int64
	db.Model(&model.Image{}).Count(&count)
	if count != 0 {
		t.Errorf("expected rolled-back metadata, found %d rows", count)
	}
}

func TestEdit_OwnerOnly(t *testing.T) {
	db := newTestDB(t)
	svc := NewImageService(db, newTestStore(t), newTestBus(t))
	ctx := context.Background()

	owner := createUser(t, db, "u1", model.RoleUser, true)
	other := createUser(t, db, "u2", model.RoleUser, true)
	admin := createUser(t, db, "boss", model.RoleAdmin, true)
	tag := createTag(t, db, "portrait")
	tag2 := createTag(t, db, "architecture")
	image := createImage(t, db, owner, tag, "before", false)

	edit := domain.ImageEdit{Caption: "after", TagID: tag2.ID, DateTaken: time.Now()}

	// Non-owner is rejected and the image is unchanged
	if _, err := svc.Edit(ctx, other, image.ID, edit); err == nil {
		t.Error("non-owner edit should fail")
	} else if code := appErrCode(t, err); code != 403 {
		t.Errorf("expected 403, got %d", code)
	}

	// Admin role does not substitute for ownership
	if _, err := svc.Edit(ctx, admin, image.ID, edit); err == nil {
		t.Error("admin edit of foreign image should fail")
	}

	var unchanged model.Image
	db.First(&unchanged, image.ID)
	if unchanged.Caption != "before" {
		t.Errorf("image changed by rejected edit: %q", unchanged.Caption)
	}

	// Owner succeeds
	updated, err := svc.Edit(ctx, owner, image.ID, edit)
	if err != nil {
		t.Fatalf("owner edit failed: %v", err)
	}
	if updated.Caption != "after" || updated.TagID != tag2.ID {
		t.Errorf("edit not applied: %+v", updated)
	}

	// Unknown image
	if _, err := svc.Edit(ctx, owner, image.ID+99, edit); err == nil {
		t.Error("edit of missing image should fail")
	} else if code := appErrCode(t, err); code != 404 {
		t.Errorf("expected 404, got %d", code)
	}
}

func TestEdit_PublishesEditedEvent(t *testing.T) {
	db := newTestDB(t)
	bus := newTestBus(t)
	svc := NewImageService(db, newTestStore(t), bus)
	ctx := context.Background()

	owner := createUser(t, db, "u1", model.RoleUser, true)
	tag := createTag(t, db, "portrait")
	tag2 := createTag(t, db, "architecture")
	image := createImage(t, db, owner, tag, "before", true)

	seen := make(chan event.Event, 1)
	bus.Subscribe(constants.EventImageEdited, func(ctx context.Context, ev event.Event) error {
		seen <- ev
		return nil
	})

	// Retagging an approved image must announce itself, or the cached
	// listing for the old tag keeps serving it
	if _, err := svc.Edit(ctx, owner, image.ID, domain.ImageEdit{Caption: "after", TagID: tag2.ID}); err != nil {
		t.Fatalf("Edit failed: %v", err)
	}

	select {
	case ev := <-seen:
		if ev.Data != image.ID {
			t.Errorf("unexpected event data: %v", ev.Data)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("edit published no event")
	}
}

func TestEdit_KeepsDateTakenWhenOmitted(t *testing.T) {
	db := newTestDB(t)
	svc := NewImageService(db, newTestStore(t), newTestBus(t))
	ctx := context.Background()

	owner := createUser(t, db, "u1", model.RoleUser, true)
	tag := createTag(t, db, "portrait")
	image := createImage(t, db, owner, tag, "before", false)

	var before model.Image
	db.First(&before, image.ID)

	// Omitted date leaves the stored value alone
	updated, err := svc.Edit(ctx, owner, image.ID, domain.ImageEdit{Caption: "after", TagID: tag.ID})
	if err != nil {
		t.Fatalf("Edit failed: %v", err)
	}
	if !updated.DateTaken.Equal(before.DateTaken) {
		t.Errorf("omitted date overwrote stored value: %v != %v", updated.DateTaken, before.DateTaken)
	}

	// An explicit date still replaces it
	when := time.Date(2023, 3, 14, 0, 0, 0, 0, time.UTC)
	updated, err = svc.Edit(ctx, owner, image.ID, domain.ImageEdit{Caption: "after", TagID: tag.ID, DateTaken: when})
	if err != nil {
		t.Fatalf("Edit failed: %v", err)
	}
	if !updated.DateTaken.Equal(when) {
		t.Errorf("explicit date not applied: %v", updated.DateTaken)
	}
}

func TestDelete_OwnerOnly(t *testing.T) {
	db := newTestDB(t)
	store := newTestStore(t)
	svc := NewImageService(db, store, newTestBus(t))
	ctx := context.Background()

	owner := createUser(t, db, "u1", model.RoleUser, true)
	other := createUser(t, db, "u2", model.RoleUser, true)
	tag := createTag(t, db, "portrait")
	image := createImage(t, db, owner, tag, "A", true)
	if err := store.Write(image.ID, "jpg", bytes.NewReader([]byte("JPEGDATA"))); err != nil {
		t.Fatalf("seed payload write failed: %v", err)
	}

	if err := svc.Delete(ctx, other, image.ID); err == nil {
		t.Error("non-owner delete should fail")
	}

	if err := svc.Delete(ctx, owner, image.ID); err != nil {
		t.Fatalf("owner delete failed: %v", err)
	}

	var count int64
	db.Model(&model.Image{}).Count(&count)
	if count != 0 {
		t.Errorf("expected 0 images after delete, got %d", count)
	}
	if _, err := os.Stat(store.PathFor(image.ID, "jpg")); !os.IsNotExist(err) {
		t.Error("payload file should be removed with the row")
	}
}

func TestSetApproved_ApproverGate(t *testing.T) {
	db := newTestDB(t)
	svc := NewImageService(db, newTestStore(t), newTestBus(t))
	ctx := context.Background()

	owner := createUser(t, db, "u1", model.RoleUser, true)
	approver := createUser(t, db, "p1", model.RoleApprover, true)
	admin := createUser(t, db, "boss", model.RoleAdmin, true)
	tag := createTag(t, db, "portrait")
	image := createImage(t, db, owner, tag, "A", false)

	// Owner without the approver role cannot approve their own image
	if err := svc.SetApproved(ctx, owner, image.ID, true); err == nil {
		t.Error("owner approval without role should fail")
	}
	if err := svc.SetApproved(ctx, admin, image.ID, true); err == nil {
		t.Error("admin approval should fail")
	}

	// Any approver may approve any image
	if err := svc.SetApproved(ctx, approver, image.ID, true); err != nil {
		t.Fatalf("approver approval failed: %v", err)
	}

	var got model.Image
	db.First(&got, image.ID)
	if !got.Approved {
		t.Error("image should be approved")
	}

	// Approval is revocable
	if err := svc.SetApproved(ctx, approver, image.ID, false); err != nil {
		t.Fatalf("unapprove failed: %v", err)
	}
	db.First(&got, image.ID)
	if got.Approved {
		t.Error("image should be back to pending")
	}
}

func TestListPending(t *testing.T) {
	db := newTestDB(t)
	svc := NewImageService(db, newTestStore(t), newTestBus(t))
	ctx := context.Background()

	owner := createUser(t, db, "u1", model.RoleUser, true)
	tag := createTag(t, db, "portrait")
	createImage(t, db, owner, tag, "pending1", false)
	createImage(t, db, owner, tag, "published", true)
	createImage(t, db, owner, tag, "pending2", false)

	images, total, err := svc.ListPending(ctx, 1, 50)
	if err != nil {
		t.Fatalf("ListPending failed: %v", err)
	}
	if total != 2 || len(images) != 2 {
		t.Fatalf("expected 2 pending images, got total=%d len=%d", total, len(images))
	}
	for _, img := range images {
		if img.Approved {
			t.Errorf("approved image %d in pending list", img.ID)
		}
	}
}

// failingStore satisfies domain.ImageStore but refuses all writes
type failingStore struct{}

func (failingStore) Write(id uint, ext string, r io.Reader) error { return errDiskFull }
func (failingStore) Open(id uint, ext string) (io.ReadCloser, error) {
	return nil, errDiskFull
}
func (failingStore) Remove(id uint, ext string) error   { return nil }
func (failingStore) PathFor(id uint, ext string) string { return "" }

var errDiskFull = errors.New("disk full")
