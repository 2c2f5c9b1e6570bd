package api

import (
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"imageshare.com/internal/api/middleware"
	"imageshare.com/internal/domain"
)

// ImageHandler serves the image lifecycle: upload, details, edit, delete,
// payload download, and the approver moderation actions.
type ImageHandler struct {
	images domain.ImageService
}

func NewImageHandler(images domain.ImageService) *ImageHandler {
	return &ImageHandler{images: images}
}

// dateTakenLayouts accepted on upload/edit forms
var dateTakenLayouts = []string{"2006-01-02", time.RFC3339}

func parseDateTaken(raw string) (time.Time, bool) {
	if raw == "" {
		return time.Time{}, true
	}
	for _, layout := range dateTakenLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Upload stores a new image from a multipart form
// POST /api/images
func (h *ImageHandler) Upload(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	fileHeader, err := c.FormFile("image")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"Error": "No image file specified"})
	}

	tagID, _ := strconv.Atoi(c.FormValue("TagId"))
	dateTaken, ok := parseDateTaken(c.FormValue("DateTaken"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"Error": "Please enter a valid date"})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"Error": "Unreadable image file"})
	}
	defer file.Close()

	image, err := h.images.Upload(c.Context(), user, domain.ImageUpload{
		Caption:     c.FormValue("Caption"),
		Description: c.FormValue("Description"),
		DateTaken:   dateTaken,
		TagID:       uint(tagID),
		Ext:         extFor(fileHeader.Filename),
		File:        file,
		Size:        fileHeader.Size,
	})
	if err != nil {
		return SendError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"Status": true, "Data": image})
}

// Details returns one image with its user and tag
// GET /api/images/:id
func (h *ImageHandler) Details(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"Error": "Invalid image id"})
	}

	image, err := h.images.Details(c.Context(), uint(id))
	if err != nil {
		return SendError(c, err)
	}

	return c.JSON(fiber.Map{"Status": true, "Data": image})
}

// File streams the payload bytes
// GET /api/images/:id/file
func (h *ImageHandler) File(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"Error": "Invalid image id"})
	}

	rc, ext, err := h.images.Open(c.Context(), uint(id))
	if err != nil {
		return SendError(c, err)
	}

	c.Set(fiber.HeaderContentType, contentTypeFor(ext))
	return c.SendStream(rc)
}

type EditImageRequest struct {
	Caption     string `json:"Caption"`
	Description string `json:"Description"`
	DateTaken   string `json:"DateTaken"`
	TagID       uint   `json:"TagId"`
}

// Edit updates caption, description, date taken and tag. Owner only.
// PUT /api/images/:id
func (h *ImageHandler) Edit(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"Error": "Invalid image id"})
	}

	var req EditImageRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"Error": "Invalid body"})
	}

	dateTaken, ok := parseDateTaken(req.DateTaken)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"Error": "Please enter a valid date"})
	}

	image, err := h.images.Edit(c.Context(), user, uint(id), domain.ImageEdit{
		Caption:     req.Caption,
		Description: req.Description,
		DateTaken:   dateTaken,
		TagID:       req.TagID,
	})
	if err != nil {
		return SendError(c, err)
	}

	return c.JSON(fiber.Map{"Status": true, "Data": image})
}

// Delete removes an image and its payload. Owner only.
// DELETE /api/images/:id
func (h *ImageHandler) Delete(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"Error": "Invalid image id"})
	}

	if err := h.images.Delete(c.Context(), user, uint(id)); err != nil {
		return SendError(c, err)
	}

	return c.JSON(fiber.Map{"Status": true})
}

type ApprovalRequest struct {
	Approved bool `json:"Approved"`
}

// SetApproval publishes or unpublishes an image. Approver role only.
// PUT /api/images/:id/approval
func (h *ImageHandler) SetApproval(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"Error": "Invalid image id"})
	}

	var req ApprovalRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"Error": "Invalid body"})
	}

	if err := h.images.SetApproved(c.Context(), user, uint(id), req.Approved); err != nil {
		return SendError(c, err)
	}

	return c.JSON(fiber.Map{"Status": true})
}

// Pending lists images awaiting approval
// GET /api/moderation/pending
func (h *ImageHandler) Pending(c *fiber.Ctx) error {
	page, pageSize := ParsePagination(c)

	images, total, err := h.images.ListPending(c.Context(), page, pageSize)
	if err != nil {
		return SendError(c, err)
	}

	return SendPaginatedResponse(c, images, page, pageSize, total)
}

// extFor derives the payload extension from the client filename. Only the
// image types contentTypeFor serves are allowed through; anything else,
// including no extension at all, is stored as jpg.
func extFor(filename string) string {
	switch ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), "."); ext {
	case "jpg", "jpeg", "png", "gif", "webp":
		return ext
	default:
		return "jpg"
	}
}

func contentTypeFor(ext string) string {
	switch ext {
	case "png":
		return "image/png"
	case "gif":
		return "image/gif"
	case "webp":
		return "image/webp"
	default:
		return "image/jpeg"
	}
}
