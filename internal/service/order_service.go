package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/commercekit/storefront/internal/domain"
)

type OrderService struct {
	catalog  ProductCatalog
	orders   OrderStore
	users    UserStore
	notifier Notifier
}

func NewOrderService(catalog ProductCatalog, orders OrderStore, users UserStore, notifier Notifier) *OrderService {
	return &OrderService{
		catalog:  catalog,
		orders:   orders,
		users:    users,
		notifier: notifier,
	}
}

// PlacementResult is the outcome of a successful placement. OutOfStock is
// non-empty when some lines were short or absent; the caller should present
// that as a partial success.
type PlacementResult struct {
	OrderID    uuid.UUID
	OutOfStock []domain.ShortageRecord
}

// PlaceOrder allocates catalog stock to the requested lines, persists the
// order and its fulfilled lines, then decrements stock by the allocated
// quantities. Writes are not rolled back if a later step fails.
func (s *OrderService) PlaceOrder(ctx context.Context, ownerID uuid.UUID, lines []domain.RequestedLine) (*PlacementResult, error) {
	if len(lines) == 0 {
		return nil, fmt.Errorf("empty products list: %w", domain.ErrInvalidInput)
	}
	for _, line := range lines {
		if !line.Valid() {
			return nil, fmt.Errorf("product line needs a name, a category and a positive quantity: %w", domain.ErrInvalidInput)
		}
	}

	var (
		inStock     []domain.FulfilledLine
		outOfStock  []domain.ShortageRecord
		totalAmount = decimal.Zero
	)

	for _, line := range lines {
		product, err := s.catalog.FindByNameCategory(ctx, line.Name, line.Category)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("catalog lookup error: %w", err)
		}

		outcome := domain.Allocate(line, product)
		if outcome.Fulfilled != nil {
			inStock = append(inStock, *outcome.Fulfilled)
			totalAmount = totalAmount.Add(outcome.Fulfilled.Subtotal())
		}
		if outcome.Shortage != nil {
			outOfStock = append(outOfStock, *outcome.Shortage)
		}
	}

	if len(inStock) == 0 {
		return nil, &domain.AllOutOfStockError{Shortages: outOfStock}
	}

	order := domain.NewOrder(ownerID, totalAmount)
	if err := s.orders.CreateOrder(ctx, order); err != nil {
		return nil, fmt.Errorf("order creation error: %w", err)
	}

	for _, fulfilled := range inStock {
		line := &domain.OrderLine{
			ID:              uuid.New(),
			OrderID:         order.ID,
			ProductID:       fulfilled.ProductID,
			ProductName:     fulfilled.Name,
			ProductCategory: fulfilled.Category,
			Quantity:        fulfilled.Quantity,
			Price:           fulfilled.UnitPrice,
		}
		if err := s.orders.CreateOrderLine(ctx, line); err != nil {
			// The order is already durable; there is no compensation.
			return nil, fmt.Errorf("order line creation error: %w", err)
		}
	}

	// Stock moves only after the order and its lines are durable, and only
	// by the allocated quantity.
	for _, fulfilled := range inStock {
		if _, err := s.catalog.DecrementCount(ctx, fulfilled.ProductID, fulfilled.Quantity); err != nil {
			return nil, fmt.Errorf("stock decrement error for product %s: %w", fulfilled.ProductID, err)
		}
	}

	slog.Info("order placed",
		"order_id", order.ID,
		"owner_id", ownerID,
		"total_amount", totalAmount.String(),
		"fulfilled_lines", len(inStock),
		"shortages", len(outOfStock),
	)

	return &PlacementResult{OrderID: order.ID, OutOfStock: outOfStock}, nil
}

func (s *OrderService) GetOrder(ctx context.Context, orderID uuid.UUID) (*domain.Order, []domain.OrderLine, error) {
	order, err := s.orders.GetOrder(ctx, orderID)
	if err != nil {
		return nil, nil, err
	}

	orderLines, err := s.orders.GetOrderLines(ctx, orderID)
	if err != nil {
		return nil, nil, err
	}
	return order, orderLines, nil
}

// ArrivedOrder emails the order's owner a confirmation link and returns the
// order with its lines. The stored order is not changed.
func (s *OrderService) ArrivedOrder(ctx context.Context, orderID uuid.UUID, host string) (*domain.Order, []domain.OrderLine, error) {
	order, orderLines, err := s.GetOrder(ctx, orderID)
	if err != nil {
		return nil, nil, err
	}

	owner, err := s.users.GetByID(ctx, order.OwnerID)
	if err != nil {
		return nil, nil, err
	}

	body := fmt.Sprintf(
		"Hello %s,\n\nYour order has arrived at your address. Please confirm the delivery here:\nhttp://%s/api/v1/orders/confirmation/%s\n\nThank you!\n",
		owner.Username, host, order.ID,
	)
	if err := s.notifier.Send(ctx, owner.Email, "Your order has arrived", body); err != nil {
		return nil, nil, fmt.Errorf("arrival notification error: %w", err)
	}

	return order, orderLines, nil
}

// ConfirmOrder marks an order completed. Only the owner may confirm;
// re-confirming a completed order re-applies the same status.
func (s *OrderService) ConfirmOrder(ctx context.Context, orderID, actorID uuid.UUID) (*domain.Order, error) {
	order, err := s.orders.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.OwnerID != actorID {
		return nil, fmt.Errorf("order %s belongs to another user: %w", orderID, domain.ErrForbidden)
	}

	return s.orders.SetOrderStatus(ctx, orderID, domain.OrderStatusCompleted)
}

// DeleteOrder removes an order and returns its last snapshot. Only the owner
// may delete.
func (s *OrderService) DeleteOrder(ctx context.Context, orderID, actorID uuid.UUID) (*domain.Order, error) {
	order, err := s.orders.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.OwnerID != actorID {
		return nil, fmt.Errorf("order %s belongs to another user: %w", orderID, domain.ErrForbidden)
	}

	if err := s.orders.DeleteOrder(ctx, orderID); err != nil {
		return nil, err
	}

	slog.Info("order deleted", "order_id", orderID, "owner_id", actorID)
	return order, nil
}
