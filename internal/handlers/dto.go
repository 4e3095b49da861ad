package handlers

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/commercekit/storefront/internal/domain"
)

type CreateOrderRequest struct {
	Products []RequestedLineDTO `json:"products"`
}

type RequestedLineDTO struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	Quantity int    `json:"quantity"`
}

func (r CreateOrderRequest) ToRequestedLines() []domain.RequestedLine {
	lines := make([]domain.RequestedLine, len(r.Products))
	for i, p := range r.Products {
		lines[i] = domain.RequestedLine{
			Name:     p.Name,
			Category: p.Category,
			Quantity: p.Quantity,
		}
	}
	return lines
}

type PlacementResponse struct {
	OrderID    uuid.UUID               `json:"orderId"`
	OutOfStock []domain.ShortageRecord `json:"outOfStock,omitempty"`
}

type OrderResponse struct {
	ID          uuid.UUID       `json:"id"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	Status      string          `json:"status"`
	CreatedAt   time.Time       `json:"createdAt"`
}

func toOrderResponse(order *domain.Order) OrderResponse {
	return OrderResponse{
		ID:          order.ID,
		TotalAmount: order.TotalAmount,
		Status:      string(order.Status),
		CreatedAt:   order.CreatedAt,
	}
}

type OrderLineResponse struct {
	ProductName     string          `json:"productName"`
	ProductCategory string          `json:"productCategory"`
	Quantity        int             `json:"quantity"`
	Price           decimal.Decimal `json:"price"`
}

func toOrderLineResponses(lines []domain.OrderLine) []OrderLineResponse {
	responses := make([]OrderLineResponse, len(lines))
	for i, line := range lines {
		responses[i] = OrderLineResponse{
			ProductName:     line.ProductName,
			ProductCategory: line.ProductCategory,
			Quantity:        line.Quantity,
			Price:           line.Price,
		}
	}
	return responses
}

type OrderDetailResponse struct {
	OrderInformation OrderResponse       `json:"orderInformation"`
	OrderInDetail    []OrderLineResponse `json:"orderInDetail"`
}

type CreateProductRequest struct {
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
}

type ProductResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Description string  `json:"description,omitempty"`
	Category    string  `json:"category"`
	Count       int     `json:"count"`
}

func toProductResponse(product *domain.Product) ProductResponse {
	return ProductResponse{
		ID:          product.ID,
		Name:        product.Name,
		Price:       product.Price,
		Description: product.Description,
		Category:    product.Category,
		Count:       product.Count,
	}
}

func toProductResponses(products []domain.Product) []ProductResponse {
	responses := make([]ProductResponse, len(products))
	for i := range products {
		responses[i] = toProductResponse(&products[i])
	}
	return responses
}

type RegisterUserRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UpdateUserRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UserResponse struct {
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

func toUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		Username:  user.Username,
		Email:     user.Email,
		Role:      string(user.Role),
		CreatedAt: user.CreatedAt,
	}
}
