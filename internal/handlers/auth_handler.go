package handlers

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"storefront/internal/middleware"
	"storefront/internal/models"
	"storefront/internal/services"
)

// SessionResponse is returned after sign-up, sign-in and by the session endpoint.
type SessionResponse struct {
	User      *models.User `json:"user"`
	Token     string       `json:"token,omitempty"`
	SessionID string       `json:"session_id"`
	ExpiresAt time.Time    `json:"expires_at"`
}

// AuthLimits are the per-client budgets of the public auth endpoints.
type AuthLimits struct {
	SignUp middleware.Limit
	SignIn middleware.Limit
}

// DefaultAuthLimits allows 3 sign-ups per 10 minutes and 5 sign-ins per 5
// minutes from one client.
func DefaultAuthLimits() AuthLimits {
	return AuthLimits{
		SignUp: middleware.Limit{Max: 3, Window: 10 * time.Minute},
		SignIn: middleware.Limit{Max: 5, Window: 5 * time.Minute},
	}
}

// AuthHandler handles HTTP requests for authentication.
type AuthHandler struct {
	authService *services.AuthService
	cookie      middleware.SessionCookie
	validate    *validator.Validate
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService, cookie middleware.SessionCookie, v *validator.Validate) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		cookie:      cookie,
		validate:    v,
	}
}

// RegisterRoutes registers the authentication routes. requireAuth protects
// the session endpoints.
func (h *AuthHandler) RegisterRoutes(router fiber.Router, requireAuth fiber.Handler, limits AuthLimits) {
	authRoutes := router.Group("/auth")
	authRoutes.Post("/sign-up", middleware.RateLimit(limits.SignUp), h.SignUp)
	authRoutes.Post("/sign-in", middleware.RateLimit(limits.SignIn), h.SignIn)
	authRoutes.Post("/sign-out", requireAuth, h.SignOut)
	authRoutes.Get("/session", requireAuth, h.Session)
}

// SignUp registers a user and starts a session.
func (h *AuthHandler) SignUp(c *fiber.Ctx) error {
	var input models.SignUpInput
	if err := parseBody(c, h.validate, &input); err != nil {
		return err
	}
	result, err := h.authService.SignUp(c.UserContext(), input, clientInfo(c))
	if err != nil {
		return err
	}
	return h.started(c, fiber.StatusCreated, result)
}

// SignIn starts a session for valid credentials.
func (h *AuthHandler) SignIn(c *fiber.Ctx) error {
	var input models.SignInInput
	if err := parseBody(c, h.validate, &input); err != nil {
		return err
	}
	result, err := h.authService.SignIn(c.UserContext(), input, clientInfo(c))
	if err != nil {
		return err
	}
	return h.started(c, fiber.StatusOK, result)
}

// SignOut ends the current session.
func (h *AuthHandler) SignOut(c *fiber.Ctx) error {
	identity := middleware.CurrentIdentity(c)
	if err := h.authService.SignOut(c.UserContext(), identity.Session.ID); err != nil {
		return err
	}
	h.cookie.Clear(c)
	return c.JSON(fiber.Map{"success": true})
}

// Session describes the caller's session.
func (h *AuthHandler) Session(c *fiber.Ctx) error {
	identity := middleware.CurrentIdentity(c)
	return c.JSON(SessionResponse{
		User:      identity.User,
		Token:     identity.RefreshedToken,
		SessionID: identity.Session.ID,
		ExpiresAt: identity.Session.ExpiresAt,
	})
}

func (h *AuthHandler) started(c *fiber.Ctx, status int, result *services.AuthResult) error {
	h.cookie.Set(c, result.Token, result.Session.ExpiresAt)
	return c.Status(status).JSON(SessionResponse{
		User:      result.User,
		Token:     result.Token,
		SessionID: result.Session.ID,
		ExpiresAt: result.Session.ExpiresAt,
	})
}

func clientInfo(c *fiber.Ctx) services.ClientInfo {
	return services.ClientInfo{
		IPAddress: middleware.ClientKey(c),
		UserAgent: c.Get(fiber.HeaderUserAgent),
	}
}
