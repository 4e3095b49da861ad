package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/commercekit/storefront/internal/domain"
	"github.com/commercekit/storefront/internal/httpx"
)

// respondError maps domain errors onto the response envelope.
func respondError(c *fiber.Ctx, err error) error {
	var allOut *domain.AllOutOfStockError
	if errors.As(err, &allOut) {
		return httpx.BadRequestResponse(c, "All products are out of stock.", map[string]interface{}{
			"outOfStock": allOut.Shortages,
		})
	}

	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return httpx.BadRequestResponse(c, err.Error(), nil)
	case errors.Is(err, domain.ErrNotFound):
		return httpx.NotFoundResponse(c, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		return httpx.ForbiddenResponse(c, err.Error())
	case errors.Is(err, domain.ErrConflict):
		return httpx.ConflictResponse(c, err.Error(), nil)
	default:
		return httpx.InternalServerErrorResponse(c, "An error occurred", map[string]interface{}{
			"error": err.Error(),
		})
	}
}
