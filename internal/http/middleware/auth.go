package middleware

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"qualityweb/internal/auth"
)

// IdentityLocalKey is the Fiber locals key holding the verified *auth.Identity.
const IdentityLocalKey = "identity"

// TokenVerifier is satisfied by *auth.TokenService.
type TokenVerifier interface {
	Verify(ctx context.Context, raw string) (*auth.Identity, error)
}

// Auth admits only requests carrying a valid "Authorization: Bearer <token>".
// Every rejection is the same 401 so clients cannot tell a missing token from
// an expired or forged one.
func Auth(v TokenVerifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw, ok := bearerToken(c.Get(fiber.HeaderAuthorization))
		if !ok {
			return fiber.ErrUnauthorized
		}

		id, err := v.Verify(c.UserContext(), raw)
		if err != nil {
			return fiber.ErrUnauthorized
		}

		c.Locals(IdentityLocalKey, id)
		c.SetUserContext(auth.WithIdentity(c.UserContext(), id))
		return c.Next()
	}
}

// IdentityFromCtx returns the identity stored by Auth.
func IdentityFromCtx(c *fiber.Ctx) (*auth.Identity, bool) {
	id, ok := c.Locals(IdentityLocalKey).(*auth.Identity)
	return id, ok && id != nil
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
