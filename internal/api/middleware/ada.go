package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// ADACookieName is the client-side accessibility preference cookie
const ADACookieName = "ada"

// ADAMiddleware reads the accessibility preference cookie on every request
// and exposes it via Locals("ada"). The flag only adjusts presentation;
// it is never consulted for authorization.
func ADAMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals("ada", c.Cookies(ADACookieName) == "true")
		return c.Next()
	}
}

// SetADACookie persists the preference client-side for 3 months
func SetADACookie(c *fiber.Ctx, value bool) {
	v := "false"
	if value {
		v = "true"
	}
	c.Cookie(&fiber.Cookie{
		Name:     ADACookieName,
		Value:    v,
		Expires:  time.Now().AddDate(0, 3, 0),
		Secure:   true,
		SameSite: fiber.CookieSameSiteNoneMode,
	})
}

// CurrentADA reports the accessibility preference for this request
func CurrentADA(c *fiber.Ctx) bool {
	ada, _ := c.Locals("ada").(bool)
	return ada
}
