package cart

import (
	"context"
	"time"

	"catalog/navigator/internal/domain"

	log "github.com/sirupsen/logrus"
)

// Snapshot is the persisted form of a cart: product ids with captured prices
type Snapshot struct {
	ID        string         `json:"id"`
	Items     []SnapshotItem `json:"items"`
	UpdatedAt time.Time      `json:"updated_at"`
}

type SnapshotItem struct {
	ProductID string       `json:"product_id"`
	Quantity  int          `json:"quantity"`
	Price     domain.Price `json:"price"`
}

func (c *Cart) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	items := make([]SnapshotItem, 0, len(c.order))
	for _, id := range c.order {
		item := c.items[id]
		items = append(items, SnapshotItem{
			ProductID: id,
			Quantity:  item.Quantity,
			Price:     item.Price,
		})
	}

	return Snapshot{
		ID:        c.id,
		Items:     items,
		UpdatedAt: c.updatedAt,
	}
}

// persist writes the current snapshot. Writes are serialized per cart and each one
// snapshots after acquiring the turn, so the last write always carries the latest state.
func (c *Cart) persist(ctx context.Context, store Store) error {
	c.saveMu.Lock()
	defer c.saveMu.Unlock()
	return store.SaveCart(ctx, c.Snapshot())
}

// restore loads snapshot lines, keeping captured prices. Products that no longer
// resolve and lines with a non-positive quantity are dropped.
func (c *Cart) restore(snapshot Snapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, line := range snapshot.Items {
		if line.Quantity < 1 {
			continue
		}
		product, err := c.resolver.Product(line.ProductID)
		if err != nil {
			log.Warnf("⚠️ Dropping product %s from restored cart %s: %v", line.ProductID, c.id, err)
			continue
		}
		if existing, ok := c.items[line.ProductID]; ok {
			existing.Quantity += line.Quantity
			continue
		}
		c.items[line.ProductID] = &CartItem{
			Product:  product,
			Quantity: line.Quantity,
			Price:    line.Price,
		}
		c.order = append(c.order, line.ProductID)
	}
	if !snapshot.UpdatedAt.IsZero() {
		c.updatedAt = snapshot.UpdatedAt
	}
}
