package middleware

import (
	"log"
	"strings"

	"github.com/casbin/casbin/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"imageshare.com/internal/auth"
	"imageshare.com/internal/constants"
	"imageshare.com/internal/model"
)

// SessionMiddleware authenticates the request and enforces route RBAC.
// The pipeline per request:
//
//  1. Parse and validate the bearer token.
//  2. Reject tokens blacklisted by a previous logout.
//  3. Enforce the Casbin policy with the role claim as subject.
//  4. Load the account row and reject deactivated accounts, so revocation
//     takes effect immediately rather than at token expiry.
//
// The loaded *model.User lands in Locals("user") for the handlers.
func SessionMiddleware(db *gorm.DB, rdb *redis.Client, enforcer *casbin.Enforcer, jwtSecret []byte) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"Error": "Missing Authorization header"})
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		claims, err := auth.ParseToken(tokenString, jwtSecret)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"Error": "Invalid or expired token"})
		}

		if rdb != nil && claims.TokenID != "" {
			exists, err := rdb.Exists(c.Context(), constants.RedisKeyTokenBlacklist+claims.TokenID).Result()
			if err != nil {
				// Fail open: a Redis outage must not lock out every session,
				// so revocation degrades to token expiry until it recovers.
				log.Printf("SessionMiddleware: Blacklist check failed, accepting token %s: %v", claims.TokenID, err)
			} else if exists > 0 {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"Error": "Token has been revoked"})
			}
		}

		// Policies are defined per role, not per user
		sub := claims.Role
		obj := c.Path()
		act := c.Method()

		permit, err := enforcer.Enforce(sub, obj, act)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"Error": "Permission check failed"})
		}
		if !permit {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"Error":  "Permission denied",
				"Reason": "route-not-allowed",
			})
		}

		var user model.User
		if err := db.First(&user, claims.UserID).Error; err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"Error": "Account no longer exists"})
		}
		if !user.Active {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"Error": "Account is deactivated"})
		}

		c.Locals("user", &user)
		c.Locals("claims", claims)

		return c.Next()
	}
}

// CurrentUser pulls the authenticated account out of the request context
func CurrentUser(c *fiber.Ctx) *model.User {
	user, _ := c.Locals("user").(*model.User)
	return user
}

// CurrentClaims pulls the decoded token claims out of the request context
func CurrentClaims(c *fiber.Ctx) *auth.TokenClaims {
	claims, _ := c.Locals("claims").(*auth.TokenClaims)
	return claims
}
