package auth

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/commercekit/storefront/internal/domain"
	"github.com/commercekit/storefront/internal/httpx"
)

const userIDLocal = "auth_user_id"

// UserLookup is the slice of the user store the seller check needs.
type UserLookup interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

// RequireAuth verifies the x-auth-token header and stores the authenticated
// user id in the request locals.
func RequireAuth(tokens *TokenManager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString := c.Get("x-auth-token")
		if tokenString == "" {
			return httpx.UnauthorizedResponse(c, "Access denied. No token provided.")
		}

		userID, err := tokens.Verify(tokenString)
		if err != nil {
			return httpx.UnauthorizedResponse(c, "Invalid token.")
		}

		c.Locals(userIDLocal, userID)
		return c.Next()
	}
}

// RequireSeller gates seller-only routes. It must run after RequireAuth.
func RequireSeller(users UserLookup) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := users.GetByID(c.Context(), UserID(c))
		if err != nil {
			return httpx.UnauthorizedResponse(c, "Unknown user.")
		}
		if !user.IsSeller() {
			return httpx.ForbiddenResponse(c, "Only sellers are allowed to manage products")
		}
		return c.Next()
	}
}

// UserID returns the authenticated user id set by RequireAuth.
func UserID(c *fiber.Ctx) uuid.UUID {
	if id, ok := c.Locals(userIDLocal).(uuid.UUID); ok {
		return id
	}
	return uuid.Nil
}

// SetUserID injects an authenticated user id, for handler tests.
func SetUserID(c *fiber.Ctx, id uuid.UUID) {
	c.Locals(userIDLocal, id)
}
