package cart

import (
	"context"
	"fmt"
	"sync"
	"time"

	"catalog/navigator/internal/domain"
	"catalog/navigator/internal/domain/event"
	"catalog/navigator/internal/pricing"
)

// ProductResolver looks products up by id, normally the catalog snapshot
type ProductResolver interface {
	Product(id string) (*domain.Product, error)
}

type CartItem struct {
	Product  *domain.Product `json:"product"`
	Quantity int             `json:"quantity"`
	Price    domain.Price    `json:"price"` // Unit price captured when the product was first added
}

// Total is the unit price times the quantity
func (i CartItem) Total() domain.Price {
	return i.Price.Mul(i.Quantity)
}

// Cart is safe for concurrent use; every operation is serialized on the cart's mutex
type Cart struct {
	id        string
	resolver  ProductResolver
	converter pricing.Converter
	notify    func(ctx context.Context, c *Cart, e event.Event)

	saveMu sync.Mutex // Serializes snapshot writes so the store never ends on a stale one

	mu        sync.Mutex
	items     map[string]*CartItem
	order     []string
	updatedAt time.Time
}

// NewCart creates an empty cart. converter may be nil, in which case mixed
// currencies make TotalPrice fail.
func NewCart(id string, resolver ProductResolver, converter pricing.Converter) *Cart {
	return &Cart{
		id:        id,
		resolver:  resolver,
		converter: converter,
		items:     make(map[string]*CartItem),
		order:     make([]string, 0),
		updatedAt: time.Now(),
	}
}

func (c *Cart) ID() string {
	return c.id
}

// AddProduct adds one unit of the product. A product already in the cart has its
// quantity incremented and keeps the price captured on its first add.
func (c *Cart) AddProduct(ctx context.Context, productID string) error {
	product, err := c.resolver.Product(productID)
	if err != nil {
		return fmt.Errorf("failed to add product %s to cart: %w", productID, err)
	}

	c.mu.Lock()
	item, ok := c.items[productID]
	if ok {
		item.Quantity++
	} else {
		item = &CartItem{
			Product:  product,
			Quantity: 1,
			Price:    product.Price,
		}
		c.items[productID] = item
		c.order = append(c.order, productID)
	}
	added := *item
	c.updatedAt = time.Now()
	c.mu.Unlock()

	if c.notify != nil {
		c.notify(ctx, c, &event.CartItemAdded{
			CartID:    c.id,
			ProductID: productID,
			Quantity:  added.Quantity,
			UnitPrice: added.Price.Amount.String(),
			Currency:  added.Price.Currency,
			AddedAt:   time.Now().UTC(),
		})
	}
	return nil
}

// RemoveProduct drops the product line regardless of its quantity
func (c *Cart) RemoveProduct(ctx context.Context, productID string) error {
	c.mu.Lock()
	if _, ok := c.items[productID]; !ok {
		c.mu.Unlock()
		return fmt.Errorf("product %s in cart %s: %w", productID, c.id, domain.ErrNotFound)
	}
	delete(c.items, productID)
	for i, id := range c.order {
		if id == productID {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	c.updatedAt = time.Now()
	c.mu.Unlock()

	if c.notify != nil {
		c.notify(ctx, c, &event.CartItemRemoved{
			CartID:    c.id,
			ProductID: productID,
			RemovedAt: time.Now().UTC(),
		})
	}
	return nil
}

// Items returns copies of the items in the order they were first added
func (c *Cart) Items() []CartItem {
	c.mu.Lock()
	defer c.mu.Unlock()

	items := make([]CartItem, 0, len(c.order))
	for _, id := range c.order {
		items = append(items, *c.items[id])
	}
	return items
}

// Count is the sum of all quantities
func (c *Cart) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	count := 0
	for _, item := range c.items {
		count += item.Quantity
	}
	return count
}

// TotalPrice sums unit price times quantity in the currency of the first item
func (c *Cart) TotalPrice() (domain.Price, error) {
	c.mu.Lock()
	totals := make([]domain.Price, 0, len(c.order))
	for _, id := range c.order {
		totals = append(totals, c.items[id].Total())
	}
	c.mu.Unlock()

	total, err := pricing.Sum(totals, c.converter)
	if err != nil {
		return domain.Price{}, fmt.Errorf("failed to compute total for cart %s: %w", c.id, err)
	}
	return total, nil
}

func (c *Cart) UpdatedAt() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.updatedAt
}
