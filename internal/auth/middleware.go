package auth

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/approval-desk/internal/domain"
	apperrors "github.com/spec-kit/approval-desk/pkg/util/errorutil"
)

const principalKey = "auth_principal"

// ProfileResolver loads the profile for an authenticated uid. A disabled
// profile must come back as an AccountDisabled error so the middleware
// blocks everything past sign-in.
type ProfileResolver interface {
	Resolve(ctx context.Context, uid string) (*domain.UserProfile, error)
}

// AuthMiddleware validates bearer tokens and loads the principal profile.
type AuthMiddleware struct {
	tokens   *TokenManager
	profiles ProfileResolver
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager, profiles ProfileResolver) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, profiles: profiles}
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

	profile, err := m.profiles.Resolve(c.Context(), claims.UID)
	if err != nil {
		return err
	}

	c.Locals(principalKey, profile)
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated profile.
func PrincipalFromContext(c *fiber.Ctx) (*domain.UserProfile, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	profile, ok := val.(*domain.UserProfile)
	return profile, ok
}
