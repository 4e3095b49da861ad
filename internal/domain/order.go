package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusUncompleted OrderStatus = "uncompleted"
	OrderStatusCompleted   OrderStatus = "completed"
)

type Order struct {
	ID          uuid.UUID       `json:"id"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	Status      OrderStatus     `json:"status"`
	OwnerID     uuid.UUID       `json:"-"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"-"`
}

func NewOrder(ownerID uuid.UUID, totalAmount decimal.Decimal) *Order {
	now := time.Now()
	return &Order{
		ID:          uuid.New(),
		TotalAmount: totalAmount,
		Status:      OrderStatusUncompleted,
		OwnerID:     ownerID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// OrderLine is one fulfilled line of an order. Partial allocations produce a
// single line at the allocated quantity.
type OrderLine struct {
	ID              uuid.UUID       `json:"-"`
	OrderID         uuid.UUID       `json:"-"`
	ProductID       string          `json:"-"`
	ProductName     string          `json:"productName"`
	ProductCategory string          `json:"productCategory"`
	Quantity        int             `json:"quantity"`
	Price           decimal.Decimal `json:"price"`
}
