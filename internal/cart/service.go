package cart

import (
	"context"
	"fmt"
	"sync"

	"catalog/navigator/internal/domain"
	"catalog/navigator/internal/domain/event"
	"catalog/navigator/internal/pricing"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// Store persists cart snapshots across sessions
type Store interface {
	SaveCart(ctx context.Context, snapshot Snapshot) error
	LoadCart(ctx context.Context, id string) (*Snapshot, error)
}

// Publisher receives cart events
type Publisher interface {
	Publish(ctx context.Context, e event.Event) (string, error)
}

// Service owns the carts of the running process. Store and publisher are optional.
type Service struct {
	resolver  ProductResolver
	converter pricing.Converter
	store     Store
	publisher Publisher

	mu    sync.RWMutex
	carts map[string]*Cart
}

func NewService(resolver ProductResolver, converter pricing.Converter, store Store, publisher Publisher) *Service {
	return &Service{
		resolver:  resolver,
		converter: converter,
		store:     store,
		publisher: publisher,
		carts:     make(map[string]*Cart),
	}
}

// CreateCart returns a fresh, empty cart registered with the service
func (s *Service) CreateCart() *Cart {
	return s.register(uuid.New().String())
}

func (s *Service) register(id string) *Cart {
	c := NewCart(id, s.resolver, s.converter)
	c.notify = s.changed

	s.mu.Lock()
	s.carts[id] = c
	s.mu.Unlock()

	log.Debugf("Cart %s created", id)
	return c
}

func (s *Service) Cart(id string) (*Cart, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.carts[id]
	if !ok {
		return nil, fmt.Errorf("cart %s: %w", id, domain.ErrNotFound)
	}
	return c, nil
}

// SaveCart writes the cart snapshot to the store
func (s *Service) SaveCart(ctx context.Context, id string) error {
	if s.store == nil {
		return fmt.Errorf("no cart store configured")
	}
	c, err := s.Cart(id)
	if err != nil {
		return err
	}
	if err := c.persist(ctx, s.store); err != nil {
		return fmt.Errorf("failed to save cart %s: %w", id, err)
	}
	return nil
}

// RestoreCart loads a stored snapshot into a registered cart, replacing any cart with that id
func (s *Service) RestoreCart(ctx context.Context, id string) (*Cart, error) {
	if s.store == nil {
		return nil, fmt.Errorf("no cart store configured")
	}
	snapshot, err := s.store.LoadCart(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart %s: %w", id, err)
	}

	c := s.register(snapshot.ID)
	c.restore(*snapshot)
	log.Infof("🛒 Restored cart %s with %d items", id, c.Count())
	return c, nil
}

func (s *Service) changed(ctx context.Context, c *Cart, e event.Event) {
	if s.publisher != nil {
		if _, err := s.publisher.Publish(ctx, e); err != nil {
			log.Warnf("⚠️ Failed to publish %s for cart %s: %v", e.EventType(), c.ID(), err)
		}
	}
	if s.store != nil {
		if err := c.persist(ctx, s.store); err != nil {
			log.Warnf("⚠️ Failed to save cart %s: %v", c.ID(), err)
		}
	}
}
