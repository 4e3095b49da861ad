package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/commercekit/storefront/internal/domain"
)

// ProductCatalog is the engine's view of the product store. Lookups return
// domain.ErrNotFound (wrapped) when nothing matches.
type ProductCatalog interface {
	Insert(ctx context.Context, product *domain.Product) error
	FindByNameCategory(ctx context.Context, name, category string) (*domain.Product, error)
	FindByID(ctx context.Context, id string) (*domain.Product, error)
	SearchByName(ctx context.Context, fragment string) ([]domain.Product, error)
	FindByCategory(ctx context.Context, category string) ([]domain.Product, error)
	IncrementCount(ctx context.Context, id string, n int) (*domain.Product, error)
	DecrementCount(ctx context.Context, id string, n int) (*domain.Product, error)
	Update(ctx context.Context, id string, fields map[string]interface{}) (*domain.Product, error)
	Delete(ctx context.Context, id string) (*domain.Product, error)
}

// OrderStore persists orders and their lines.
type OrderStore interface {
	CreateOrder(ctx context.Context, order *domain.Order) error
	CreateOrderLine(ctx context.Context, line *domain.OrderLine) error
	GetOrder(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	GetOrderLines(ctx context.Context, orderID uuid.UUID) ([]domain.OrderLine, error)
	SetOrderStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus) (*domain.Order, error)
	DeleteOrder(ctx context.Context, id uuid.UUID) error
}

// UserStore persists user accounts.
type UserStore interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	SetRole(ctx context.Context, id uuid.UUID, role domain.UserRole) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// Notifier hands a message off for delivery. Implementations are
// fire-and-forget past the hand-off.
type Notifier interface {
	Send(ctx context.Context, recipient, subject, body string) error
}
