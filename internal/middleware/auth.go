package middleware

import (
	"context"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"storefront/internal/apperrors"
	"storefront/internal/httperr"
	"storefront/internal/services"
)

const identityKey = "identity"

// SessionCookie describes the cookie carrying the session token.
type SessionCookie struct {
	Name   string
	Secure bool
}

// NewSessionCookie names the cookie <prefix>.session_token.
func NewSessionCookie(prefix string, secure bool) SessionCookie {
	return SessionCookie{Name: prefix + ".session_token", Secure: secure}
}

// Set stores token in the cookie until expires.
func (s SessionCookie) Set(c *fiber.Ctx, token string, expires time.Time) {
	c.Cookie(&fiber.Cookie{
		Name:     s.Name,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		Secure:   s.Secure,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// Clear expires the cookie.
func (s SessionCookie) Clear(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     s.Name,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		Secure:   s.Secure,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// Authenticator resolves a session token to an identity.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*services.Identity, error)
}

// AuthRequired rejects requests without a valid session. The token is read
// from the session cookie first, then from a Bearer Authorization header.
// Extended sessions get their new token written back to the cookie.
func AuthRequired(auth Authenticator, cookie SessionCookie) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Cookies(cookie.Name)
		if token == "" {
			authHeader := c.Get(fiber.HeaderAuthorization)
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
				token = strings.TrimSpace(parts[1])
			}
		}
		if token == "" {
			return httperr.Write(c, apperrors.NewUnauthorizedError("authentication required"))
		}

		identity, err := auth.Authenticate(c.UserContext(), token)
		if err != nil {
			return httperr.Write(c, err)
		}
		if identity.RefreshedToken != "" {
			cookie.Set(c, identity.RefreshedToken, identity.Session.ExpiresAt)
		}

		c.Locals(identityKey, identity)
		return c.Next()
	}
}

// AdminRequired must run after AuthRequired.
func AdminRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity := CurrentIdentity(c)
		if identity == nil {
			return httperr.Write(c, apperrors.NewUnauthorizedError("authentication required"))
		}
		if !identity.User.IsAdmin() {
			return httperr.Write(c, apperrors.NewForbiddenError("admin role required"))
		}
		return c.Next()
	}
}

// CurrentIdentity returns the identity stored by AuthRequired, or nil.
func CurrentIdentity(c *fiber.Ctx) *services.Identity {
	identity, _ := c.Locals(identityKey).(*services.Identity)
	return identity
}
