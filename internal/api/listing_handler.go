package api

import (
	"github.com/gofiber/fiber/v2"

	"imageshare.com/internal/domain"
)

// ListingHandler serves the approved-only browse views
type ListingHandler struct {
	listings domain.ListingService
}

func NewListingHandler(listings domain.ListingService) *ListingHandler {
	return &ListingHandler{listings: listings}
}

// ListAll returns every approved image
// GET /api/listings
func (h *ListingHandler) ListAll(c *fiber.Ctx) error {
	page, pageSize := ParsePagination(c)

	images, total, err := h.listings.ListAll(c.Context(), page, pageSize)
	if err != nil {
		return SendError(c, err)
	}

	return SendPaginatedResponse(c, images, page, pageSize, total)
}

// ListByTag returns approved images under one tag
// GET /api/listings/tags/:tagID
func (h *ListingHandler) ListByTag(c *fiber.Ctx) error {
	tagID, err := c.ParamsInt("tagID")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"Error": "Invalid tag id"})
	}

	page, pageSize := ParsePagination(c)

	images, total, err := h.listings.ListByTag(c.Context(), uint(tagID), page, pageSize)
	if err != nil {
		return SendError(c, err)
	}

	return SendPaginatedResponse(c, images, page, pageSize, total)
}

// ListByUser returns approved images owned by one user
// GET /api/listings/users/:userID
func (h *ListingHandler) ListByUser(c *fiber.Ctx) error {
	userID, err := c.ParamsInt("userID")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"Error": "Invalid user id"})
	}

	page, pageSize := ParsePagination(c)

	images, total, err := h.listings.ListByUser(c.Context(), uint(userID), page, pageSize)
	if err != nil {
		return SendError(c, err)
	}

	return SendPaginatedResponse(c, images, page, pageSize, total)
}

// Tags returns the selectable tag set
// GET /api/tags
func (h *ListingHandler) Tags(c *fiber.Ctx) error {
	tags, err := h.listings.Tags(c.Context())
	if err != nil {
		return SendError(c, err)
	}

	return c.JSON(fiber.Map{"Status": true, "Data": tags})
}
