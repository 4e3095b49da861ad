package service

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/commercekit/storefront/internal/domain"
)

// fakeCatalog is an in-memory ProductCatalog keyed by (name, category).
type fakeCatalog struct {
	mu            sync.Mutex
	products      map[string]*domain.Product // key: name|category
	decrements    map[string]int             // product id -> total decremented
	failDecrement bool
}

func newFakeCatalog(products ...domain.Product) *fakeCatalog {
	c := &fakeCatalog{
		products:   make(map[string]*domain.Product),
		decrements: make(map[string]int),
	}
	for i := range products {
		p := products[i]
		if p.ID == "" {
			p.ID = fmt.Sprintf("prod-%d", i+1)
		}
		c.products[catalogKey(p.Name, p.Category)] = &p
	}
	return c
}

func catalogKey(name, category string) string {
	return name + "|" + category
}

func (c *fakeCatalog) Insert(ctx context.Context, product *domain.Product) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if product.ID == "" {
		product.ID = fmt.Sprintf("prod-%d", len(c.products)+1)
	}
	clone := *product
	c.products[catalogKey(product.Name, product.Category)] = &clone
	return nil
}

func (c *fakeCatalog) FindByNameCategory(ctx context.Context, name, category string) (*domain.Product, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if p, ok := c.products[catalogKey(name, category)]; ok {
		clone := *p
		return &clone, nil
	}
	return nil, fmt.Errorf("product: %w", domain.ErrNotFound)
}

func (c *fakeCatalog) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, p := range c.products {
		if p.ID == id {
			clone := *p
			return &clone, nil
		}
	}
	return nil, fmt.Errorf("product %s: %w", id, domain.ErrNotFound)
}

func (c *fakeCatalog) SearchByName(ctx context.Context, fragment string) ([]domain.Product, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []domain.Product
	for _, p := range c.products {
		if strings.Contains(strings.ToLower(p.Name), strings.ToLower(fragment)) {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (c *fakeCatalog) FindByCategory(ctx context.Context, category string) ([]domain.Product, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []domain.Product
	for _, p := range c.products {
		if strings.EqualFold(p.Category, category) {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (c *fakeCatalog) IncrementCount(ctx context.Context, id string, n int) (*domain.Product, error) {
	return c.adjustCount(id, n)
}

func (c *fakeCatalog) DecrementCount(ctx context.Context, id string, n int) (*domain.Product, error) {
	if c.failDecrement {
		return nil, fmt.Errorf("catalog write failed")
	}

	product, err := c.adjustCount(id, -n)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.decrements[id] += n
	c.mu.Unlock()
	return product, nil
}

func (c *fakeCatalog) adjustCount(id string, delta int) (*domain.Product, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, p := range c.products {
		if p.ID == id {
			p.Count += delta
			clone := *p
			return &clone, nil
		}
	}
	return nil, fmt.Errorf("product %s: %w", id, domain.ErrNotFound)
}

func (c *fakeCatalog) Update(ctx context.Context, id string, fields map[string]interface{}) (*domain.Product, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, p := range c.products {
		if p.ID == id {
			if name, ok := fields["name"].(string); ok {
				p.Name = name
			}
			if price, ok := fields["price"].(float64); ok {
				p.Price = price
			}
			if description, ok := fields["description"].(string); ok {
				p.Description = description
			}
			clone := *p
			return &clone, nil
		}
	}
	return nil, fmt.Errorf("product %s: %w", id, domain.ErrNotFound)
}

func (c *fakeCatalog) Delete(ctx context.Context, id string) (*domain.Product, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key, p := range c.products {
		if p.ID == id {
			delete(c.products, key)
			return p, nil
		}
	}
	return nil, fmt.Errorf("product %s: %w", id, domain.ErrNotFound)
}

func (c *fakeCatalog) stockOf(name, category string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if p, ok := c.products[catalogKey(name, category)]; ok {
		return p.Count
	}
	return -1
}

// fakeOrderStore records orders and lines in memory.
type fakeOrderStore struct {
	mu              sync.Mutex
	orders          map[uuid.UUID]*domain.Order
	lines           map[uuid.UUID][]domain.OrderLine
	failCreateOrder bool
	failCreateLine  bool
}

func newFakeOrderStore() *fakeOrderStore {
	return &fakeOrderStore{
		orders: make(map[uuid.UUID]*domain.Order),
		lines:  make(map[uuid.UUID][]domain.OrderLine),
	}
}

func (s *fakeOrderStore) CreateOrder(ctx context.Context, order *domain.Order) error {
	if s.failCreateOrder {
		return fmt.Errorf("order store write failed")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	clone := *order
	s.orders[order.ID] = &clone
	return nil
}

func (s *fakeOrderStore) CreateOrderLine(ctx context.Context, line *domain.OrderLine) error {
	if s.failCreateLine {
		return fmt.Errorf("order line store write failed")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines[line.OrderID] = append(s.lines[line.OrderID], *line)
	return nil
}

func (s *fakeOrderStore) GetOrder(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if order, ok := s.orders[id]; ok {
		clone := *order
		return &clone, nil
	}
	return nil, fmt.Errorf("order %s: %w", id, domain.ErrNotFound)
}

func (s *fakeOrderStore) GetOrderLines(ctx context.Context, orderID uuid.UUID) ([]domain.OrderLine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lines[orderID], nil
}

func (s *fakeOrderStore) SetOrderStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus) (*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	order, ok := s.orders[id]
	if !ok {
		return nil, fmt.Errorf("order %s: %w", id, domain.ErrNotFound)
	}
	order.Status = status
	clone := *order
	return &clone, nil
}

func (s *fakeOrderStore) DeleteOrder(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.orders[id]; !ok {
		return fmt.Errorf("order %s: %w", id, domain.ErrNotFound)
	}
	delete(s.orders, id)
	delete(s.lines, id)
	return nil
}

func (s *fakeOrderStore) orderCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.orders)
}

// fakeUserStore keeps users in memory.
type fakeUserStore struct {
	mu    sync.Mutex
	users map[uuid.UUID]*domain.User
}

func newFakeUserStore(users ...*domain.User) *fakeUserStore {
	s := &fakeUserStore{users: make(map[uuid.UUID]*domain.User)}
	for _, u := range users {
		s.users[u.ID] = u
	}
	return s
}

func (s *fakeUserStore) Create(ctx context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.Email == user.Email {
			return fmt.Errorf("email already registered: %w", domain.ErrConflict)
		}
	}
	clone := *user
	s.users[user.ID] = &clone
	return nil
}

func (s *fakeUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if user, ok := s.users[id]; ok {
		clone := *user
		return &clone, nil
	}
	return nil, fmt.Errorf("user: %w", domain.ErrNotFound)
}

func (s *fakeUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, user := range s.users {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, fmt.Errorf("user: %w", domain.ErrNotFound)
}

func (s *fakeUserStore) Update(ctx context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[user.ID]; !ok {
		return fmt.Errorf("user: %w", domain.ErrNotFound)
	}
	clone := *user
	s.users[user.ID] = &clone
	return nil
}

func (s *fakeUserStore) SetRole(ctx context.Context, id uuid.UUID, role domain.UserRole) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return fmt.Errorf("user: %w", domain.ErrNotFound)
	}
	user.Role = role
	return nil
}

func (s *fakeUserStore) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		return fmt.Errorf("user: %w", domain.ErrNotFound)
	}
	delete(s.users, id)
	return nil
}

// fakeNotifier records outbound messages.
type fakeNotifier struct {
	mu       sync.Mutex
	messages []sentMail
	fail     bool
}

type sentMail struct {
	Recipient string
	Subject   string
	Body      string
}

func (n *fakeNotifier) Send(ctx context.Context, recipient, subject, body string) error {
	if n.fail {
		return fmt.Errorf("notifier unavailable")
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, sentMail{Recipient: recipient, Subject: subject, Body: body})
	return nil
}

func (n *fakeNotifier) sent() []sentMail {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]sentMail(nil), n.messages...)
}
