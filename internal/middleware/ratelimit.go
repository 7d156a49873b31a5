package middleware

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"storefront/internal/httperr"
)

// Limit is a request budget per client over a sliding window.
type Limit struct {
	Max    int
	Window time.Duration
}

// ClientKey identifies the caller by the first X-Forwarded-For entry, falling
// back to the peer address.
func ClientKey(c *fiber.Ctx) string {
	if forwarded := c.Get(fiber.HeaderXForwardedFor); forwarded != "" {
		first := strings.TrimSpace(strings.Split(forwarded, ",")[0])
		if first != "" {
			return first
		}
	}
	return c.IP()
}

// RateLimit rejects clients exceeding limit with 429.
func RateLimit(limit Limit) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:               limit.Max,
		Expiration:        limit.Window,
		KeyGenerator:      ClientKey,
		LimiterMiddleware: limiter.SlidingWindow{},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(httperr.Response{
				Error:   httperr.CodeRateLimited,
				Message: "too many requests, try again later",
			})
		},
	})
}
