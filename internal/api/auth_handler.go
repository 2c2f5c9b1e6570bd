package api

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"

	"imageshare.com/internal/api/middleware"
	"imageshare.com/internal/constants"
	"imageshare.com/internal/domain"
)

type AuthHandler struct {
	accounts domain.AccountService
	rdb      *redis.Client
}

func NewAuthHandler(accounts domain.AccountService, rdb *redis.Client) *AuthHandler {
	return &AuthHandler{accounts: accounts, rdb: rdb}
}

type RegisterRequest struct {
	Username string `json:"Username"`
	Email    string `json:"Email"`
	Password string `json:"Password"`
	ADA      bool   `json:"ADA"`
}

type LoginRequest struct {
	Login    string `json:"Login"` // username or email
	Password string `json:"Password"`
}

type AuthResponse struct {
	Token    string `json:"Token"`
	ID       uint   `json:"ID"`
	Username string `json:"Username"`
	Email    string `json:"Email"`
	Role     string `json:"Role"`
}

// Register creates a new user (default role: user)
// POST /auth/register
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"Error": "Invalid request"})
	}

	user, err := h.accounts.Register(c.Context(), req.Username, req.Email, req.Password, req.ADA)
	if err != nil {
		return SendError(c, err)
	}

	middleware.SetADACookie(c, req.ADA)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"Message": "User registered successfully",
		"ID":      user.ID,
	})
}

// Login authenticates by username or email and returns a session token
// POST /auth/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"Error": "Invalid request"})
	}

	user, token, err := h.accounts.Authenticate(c.Context(), req.Login, req.Password)
	if err != nil {
		return SendError(c, err)
	}

	middleware.SetADACookie(c, user.ADA)

	return c.JSON(AuthResponse{
		Token:    token,
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		Role:     user.Role,
	})
}

// Logout blacklists the current token until its natural expiry
// POST /api/auth/logout
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	claims := middleware.CurrentClaims(c)
	if claims != nil && h.rdb != nil && claims.TokenID != "" {
		ttl := time.Until(claims.ExpiresAt)
		if ttl > 0 {
			key := constants.RedisKeyTokenBlacklist + claims.TokenID
			if err := h.rdb.Set(c.Context(), key, 1, ttl).Err(); err != nil {
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"Error": "Failed to revoke token"})
			}
		}
	}

	return c.JSON(fiber.Map{"Message": "Logged out successfully"})
}

// GetMe returns the logged-in account
// GET /api/auth/me
func (h *AuthHandler) GetMe(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"Error": "Unauthorized"})
	}

	// Refresh the preference cookie while we are at it
	middleware.SetADACookie(c, user.ADA)

	return c.JSON(fiber.Map{
		"ID":        user.ID,
		"Username":  user.Username,
		"Email":     user.Email,
		"Role":      user.Role,
		"Active":    user.Active,
		"ADA":       user.ADA,
		"CreatedAt": user.CreatedAt,
	})
}

type ChangePasswordRequest struct {
	OldPassword string `json:"OldPassword"`
	NewPassword string `json:"NewPassword"`
}

// ChangePassword verifies the old password before setting the new one
// PUT /api/auth/password
func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"Error": "Unauthorized"})
	}

	var req ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"Error": "Invalid request"})
	}

	if err := h.accounts.ChangePassword(c.Context(), user.ID, req.OldPassword, req.NewPassword); err != nil {
		return SendError(c, err)
	}

	return c.JSON(fiber.Map{"Message": "Your password has been changed"})
}
