package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/commercekit/storefront/internal/auth"
	"github.com/commercekit/storefront/internal/httpx"
	"github.com/commercekit/storefront/internal/service"
)

type ProductHandler struct {
	productService *service.ProductService
}

func NewProductHandler(productService *service.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

func (h *ProductHandler) CreateProduct(c *fiber.Ctx) error {
	var request CreateProductRequest
	if err := c.BodyParser(&request); err != nil {
		return httpx.BadRequestResponse(c, "Invalid request body", map[string]interface{}{
			"parse_error": err.Error(),
		})
	}

	input := service.NewProductInput{
		Name:        request.Name,
		Price:       request.Price,
		Description: request.Description,
		Category:    request.Category,
	}

	product, created, err := h.productService.CreateOrIncrement(c.Context(), auth.UserID(c).String(), input)
	if err != nil {
		return respondError(c, err)
	}

	if created {
		return httpx.CreatedResponse(c, "New product created successfully!", toProductResponse(product))
	}
	return httpx.SuccessResponse(c, "Product count incremented successfully!", toProductResponse(product))
}

func (h *ProductHandler) SearchByName(c *fiber.Ctx) error {
	products, err := h.productService.SearchByName(c.Context(), c.Query("name"))
	if err != nil {
		return respondError(c, err)
	}

	return httpx.SuccessResponse(c, "Products retrieved successfully", map[string]interface{}{
		"productsInfo": toProductResponses(products),
	})
}

func (h *ProductHandler) GetByCategory(c *fiber.Ctx) error {
	listing, err := h.productService.GetByCategory(c.Context(), c.Query("category"))
	if err != nil {
		return respondError(c, err)
	}

	return httpx.SuccessResponse(c, "Products retrieved successfully", map[string]interface{}{
		"products": listing,
	})
}

func (h *ProductHandler) GetProduct(c *fiber.Ctx) error {
	product, err := h.productService.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return httpx.SuccessResponse(c, "Product retrieved successfully", toProductResponse(product))
}

func (h *ProductHandler) UpdateProduct(c *fiber.Ctx) error {
	var fields map[string]interface{}
	if err := c.BodyParser(&fields); err != nil {
		return httpx.BadRequestResponse(c, "Invalid request body", map[string]interface{}{
			"parse_error": err.Error(),
		})
	}

	product, err := h.productService.Update(c.Context(), c.Params("id"), auth.UserID(c).String(), fields)
	if err != nil {
		return respondError(c, err)
	}
	return httpx.SuccessResponse(c, "Product updated successfully!", toProductResponse(product))
}

func (h *ProductHandler) DeleteProduct(c *fiber.Ctx) error {
	product, err := h.productService.Delete(c.Context(), c.Params("id"), auth.UserID(c).String())
	if err != nil {
		return respondError(c, err)
	}
	return httpx.SuccessResponse(c, "This product has been deleted successfully!", toProductResponse(product))
}
