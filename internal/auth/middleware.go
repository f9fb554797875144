package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	apperrors "github.com/spec-kit/auth-gateway/pkg/util"
)

const identityKey = "auth_identity"

// Identity is the verified token payload attached to a request.
type Identity struct {
	ID    string
	Email string
	Name  string
}

// Middleware rejects requests that do not carry a valid bearer token.
type Middleware struct {
	tokens TokenIssuer
}

// NewMiddleware constructs the middleware.
func NewMiddleware(tokens TokenIssuer) *Middleware {
	return &Middleware{tokens: tokens}
}

// Handle enforces authentication for protected routes. The header value is
// split once on a single space and the second segment is taken as the token;
// the scheme prefix itself is not inspected.
func (m *Middleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return apperrors.NewUnauthorized("No token provided")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[1] == "" {
		return apperrors.NewUnauthorized("No token provided")
	}

	payload, err := m.tokens.Verify(parts[1])
	if err != nil {
		return apperrors.NewUnauthorized("Invalid token")
	}

	c.Locals(identityKey, &Identity{ID: payload.ID, Email: payload.Email, Name: payload.Name})
	return c.Next()
}

// IdentityFromContext retrieves the authenticated identity.
func IdentityFromContext(c *fiber.Ctx) (*Identity, bool) {
	val := c.Locals(identityKey)
	if val == nil {
		return nil, false
	}
	identity, ok := val.(*Identity)
	return identity, ok
}
