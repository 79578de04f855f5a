package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/csrf"

	"github.com/ahmetcoskunkizilkaya/mediatrack/internal/config"
	"github.com/ahmetcoskunkizilkaya/mediatrack/internal/dto"
)

// CSRF guards the cookie-authenticated mutating endpoints. Safe methods
// issue the csrf_token cookie, unsafe ones must echo it back in the
// X-CSRF-Token header. The cookie stays readable from JavaScript so the
// frontend can copy it into the header.
func CSRF(cfg *config.Config) fiber.Handler {
	return csrf.New(csrf.Config{
		KeyLookup:      "header:X-CSRF-Token",
		CookieName:     "csrf_token",
		CookieSameSite: "Lax",
		CookieSecure:   cfg.CookieSecure,
		CookieHTTPOnly: false,
		Expiration:     time.Hour,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Error:   true,
				Message: "CSRF token missing or invalid",
			})
		},
	})
}
