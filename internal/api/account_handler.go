package api

import (
	"github.com/gofiber/fiber/v2"

	"imageshare.com/internal/api/middleware"
	"imageshare.com/internal/domain"
)

// AccountHandler serves the admin account management surface
type AccountHandler struct {
	accounts domain.AccountService
}

func NewAccountHandler(accounts domain.AccountService) *AccountHandler {
	return &AccountHandler{accounts: accounts}
}

// ListUsers returns all accounts for the management view
// GET /api/users
func (h *AccountHandler) ListUsers(c *fiber.Ctx) error {
	page, pageSize := ParsePagination(c)

	users, total, err := h.accounts.ListUsers(c.Context(), page, pageSize)
	if err != nil {
		return SendError(c, err)
	}

	return SendPaginatedResponse(c, users, page, pageSize, total)
}

type SetActiveRequest struct {
	Active bool `json:"Active"`
}

// SetActive deactivates or reactivates an account. Deactivation removes all
// of the target user's images; reactivation does not bring them back.
// PUT /api/users/:id/active
func (h *AccountHandler) SetActive(c *fiber.Ctx) error {
	actor := middleware.CurrentUser(c)

	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"Error": "Invalid user id"})
	}

	var req SetActiveRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"Error": "Invalid body"})
	}

	if err := h.accounts.SetActive(c.Context(), actor, uint(id), req.Active); err != nil {
		return SendError(c, err)
	}

	return c.JSON(fiber.Map{"Status": true})
}
