package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/commercekit/storefront/internal/auth"
	"github.com/commercekit/storefront/internal/httpx"
	"github.com/commercekit/storefront/internal/service"
)

type OrderHandler struct {
	orderService *service.OrderService
}

func NewOrderHandler(orderService *service.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

func (h *OrderHandler) CreateOrder(c *fiber.Ctx) error {
	var request CreateOrderRequest
	if err := c.BodyParser(&request); err != nil {
		return httpx.BadRequestResponse(c, "Invalid request body", map[string]interface{}{
			"parse_error": err.Error(),
		})
	}

	if len(request.Products) == 0 {
		return httpx.BadRequestResponse(c, "Invalid or empty products array", nil)
	}

	result, err := h.orderService.PlaceOrder(c.Context(), auth.UserID(c), request.ToRequestedLines())
	if err != nil {
		return respondError(c, err)
	}

	message := "New order created successfully!"
	if len(result.OutOfStock) > 0 {
		message = "New order created successfully, and there were some out of stock products!"
	}

	return httpx.CreatedResponse(c, message, PlacementResponse{
		OrderID:    result.OrderID,
		OutOfStock: result.OutOfStock,
	})
}

func (h *OrderHandler) GetOrder(c *fiber.Ctx) error {
	orderID, err := parseOrderID(c)
	if err != nil {
		return httpx.BadRequestResponse(c, "Invalid order ID", nil)
	}

	order, orderLines, err := h.orderService.GetOrder(c.Context(), orderID)
	if err != nil {
		return respondError(c, err)
	}

	return httpx.SuccessResponse(c, "Order retrieved successfully", OrderDetailResponse{
		OrderInformation: toOrderResponse(order),
		OrderInDetail:    toOrderLineResponses(orderLines),
	})
}

func (h *OrderHandler) ArrivedOrder(c *fiber.Ctx) error {
	orderID, err := parseOrderID(c)
	if err != nil {
		return httpx.BadRequestResponse(c, "Invalid order ID", nil)
	}

	order, orderLines, err := h.orderService.ArrivedOrder(c.Context(), orderID, c.Hostname())
	if err != nil {
		return respondError(c, err)
	}

	return httpx.SuccessResponse(c, "Your order has arrived!", OrderDetailResponse{
		OrderInformation: toOrderResponse(order),
		OrderInDetail:    toOrderLineResponses(orderLines),
	})
}

func (h *OrderHandler) ConfirmOrder(c *fiber.Ctx) error {
	orderID, err := parseOrderID(c)
	if err != nil {
		return httpx.BadRequestResponse(c, "Invalid order ID", nil)
	}

	order, err := h.orderService.ConfirmOrder(c.Context(), orderID, auth.UserID(c))
	if err != nil {
		return respondError(c, err)
	}

	return httpx.SuccessResponse(c, "You have confirmed the delivery successfully!", toOrderResponse(order))
}

func (h *OrderHandler) DeleteOrder(c *fiber.Ctx) error {
	orderID, err := parseOrderID(c)
	if err != nil {
		return httpx.BadRequestResponse(c, "Invalid order ID", nil)
	}

	order, err := h.orderService.DeleteOrder(c.Context(), orderID, auth.UserID(c))
	if err != nil {
		return respondError(c, err)
	}

	return httpx.SuccessResponse(c, "This order has been deleted successfully!", toOrderResponse(order))
}

func parseOrderID(c *fiber.Ctx) (uuid.UUID, error) {
	return uuid.Parse(c.Params("id"))
}
