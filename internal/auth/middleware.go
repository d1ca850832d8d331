package auth

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/AgboolaAgbeniga/multi-framework-ticket-app/internal/domain"
	"github.com/AgboolaAgbeniga/multi-framework-ticket-app/pkg/util"
)

const principalKey = "auth_principal"

// Principal represents the authenticated caller.
type Principal struct {
	UserID string
	Email  string
	Name   string
}

// TokenValidator resolves a bearer string to the user snapshot it was
// minted for. A nil result with a nil error means the token is absent
// or expired.
type TokenValidator interface {
	Validate(ctx context.Context, token string) (*domain.TokenUser, error)
}

// Middleware validates bearer tokens and loads principals. Every
// protected route goes through the same full lookup and expiry check;
// there is no shortcut for merely non-empty tokens.
type Middleware struct {
	tokens TokenValidator
}

// NewMiddleware constructs middleware.
func NewMiddleware(tokens TokenValidator) *Middleware {
	return &Middleware{tokens: tokens}
}

// Handle enforces authentication for protected routes.
func (m *Middleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return util.NewUnauthorized("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return util.NewUnauthorized("invalid authorization header")
	}

	user, err := m.tokens.Validate(c.UserContext(), parts[1])
	if err != nil {
		return util.MapError(err)
	}
	if user == nil {
		return util.NewUnauthorized("invalid or expired token")
	}

	c.Locals(principalKey, &Principal{UserID: user.ID, Email: user.Email, Name: user.Name})
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated entity.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}
