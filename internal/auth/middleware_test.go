package auth

import (
	"context"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/commercekit/storefront/internal/domain"
)

type staticUserLookup struct {
	user *domain.User
}

func (l staticUserLookup) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if l.user != nil && l.user.ID == id {
		return l.user, nil
	}
	return nil, fmt.Errorf("user: %w", domain.ErrNotFound)
}

func TestRequireAuth(t *testing.T) {
	tokens := NewTokenManager("secret")
	userID := uuid.New()

	app := fiber.New()
	app.Get("/me", RequireAuth(tokens), func(c *fiber.Ctx) error {
		return c.SendString(UserID(c).String())
	})

	t.Run("missing token", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("GET", "/me", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("invalid token", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/me", nil)
		req.Header.Set("x-auth-token", "bogus")
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("valid token", func(t *testing.T) {
		signed, err := tokens.Issue(userID)
		require.NoError(t, err)

		req := httptest.NewRequest("GET", "/me", nil)
		req.Header.Set("x-auth-token", signed)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.Equal(t, userID.String(), string(body))
	})
}

func TestRequireSeller(t *testing.T) {
	tokens := NewTokenManager("secret")

	buyer := domain.NewUser("bob", "bob@example.com", "hash")
	seller := domain.NewUser("sal", "sal@example.com", "hash")
	seller.Role = domain.RoleSeller

	run := func(user *domain.User) int {
		app := fiber.New()
		app.Post("/products", RequireAuth(tokens), RequireSeller(staticUserLookup{user: user}), func(c *fiber.Ctx) error {
			return c.SendStatus(fiber.StatusCreated)
		})

		signed, err := tokens.Issue(user.ID)
		require.NoError(t, err)

		req := httptest.NewRequest("POST", "/products", nil)
		req.Header.Set("x-auth-token", signed)
		resp, err := app.Test(req)
		require.NoError(t, err)
		return resp.StatusCode
	}

	assert.Equal(t, fiber.StatusForbidden, run(buyer))
	assert.Equal(t, fiber.StatusCreated, run(seller))
}
