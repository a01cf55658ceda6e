package auth

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/wmachadoc/Abertura-de-tickets/internal/domain"
	apperrors "github.com/wmachadoc/Abertura-de-tickets/pkg/util/errorutil"
)

const principalKey = "auth_principal"

// UserLookup resolves a token subject back to a directory user.
type UserLookup interface {
	FindActiveUser(ctx context.Context, email string) (*domain.User, error)
}

// Principal represents the authenticated caller.
type Principal struct {
	User *domain.User
}

// AuthMiddleware validates bearer tokens and loads principals.
type AuthMiddleware struct {
	tokens *TokenManager
	users  UserLookup
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager, users UserLookup) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, users: users}
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return apperrors.NewUnauthorized("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewUnauthorized("invalid authorization header")
	}

	claims, err := m.tokens.ParseToken(parts[1])
	if err != nil {
		return apperrors.NewUnauthorized("invalid token")
	}

	user, err := m.users.FindActiveUser(c.UserContext(), claims.Email)
	if err != nil {
		return apperrors.NewUnauthorized("user not found or inactive")
	}

	c.Locals(principalKey, &Principal{User: user})
	return c.Next()
}

// RequireAdmin allows only admin profiles through. Client admins pass; the
// per-client visibility check happens in the handlers.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok || principal.User == nil {
			return apperrors.NewUnauthorized("authentication required")
		}
		switch principal.User.Profile {
		case domain.ProfileGlobalAdmin, domain.ProfileClientAdmin:
			return c.Next()
		}
		return apperrors.NewForbidden("admin profile required")
	}
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
