package catalog

import (
	"fmt"
	"sort"
	"strings"

	"catalog/navigator/internal/domain"

	log "github.com/sirupsen/logrus"
)

// Catalog is a materialized, read-only snapshot of categories and products.
// Concurrent readers need no locking.
type Catalog struct {
	tree     *Tree
	products map[string]*domain.Product
	ordered  []*domain.Product // By id
	index    map[string]string // Product id -> lowercased searchable text
}

func New(tree *Tree, products []domain.Product) (*Catalog, error) {
	c := &Catalog{
		tree:     tree,
		products: make(map[string]*domain.Product, len(products)),
		ordered:  make([]*domain.Product, 0, len(products)),
		index:    make(map[string]string, len(products)),
	}

	for i := range products {
		p := products[i]
		if p.ID == "" {
			return nil, fmt.Errorf("product %q has an empty id", p.Name)
		}
		if _, exists := c.products[p.ID]; exists {
			return nil, fmt.Errorf("duplicate product id %s", p.ID)
		}
		for _, categoryID := range p.CategoryIDs {
			if _, err := tree.CategoryByID(categoryID); err != nil {
				return nil, fmt.Errorf("%w: product %s references category %s", domain.ErrInvalidCategory, p.ID, categoryID)
			}
		}

		c.products[p.ID] = &p
		c.ordered = append(c.ordered, &p)
		c.index[p.ID] = searchText(&p)
	}

	sort.Slice(c.ordered, func(i, j int) bool {
		return c.ordered[i].ID < c.ordered[j].ID
	})

	log.Debugf("Catalog snapshot built with %d categories and %d products", tree.Len(), len(c.ordered))
	return c, nil
}

func (c *Catalog) Tree() *Tree {
	return c.tree
}

// Product returns the shared snapshot of a product; callers must not modify it
func (c *Catalog) Product(id string) (*domain.Product, error) {
	p, ok := c.products[id]
	if !ok {
		return nil, fmt.Errorf("product %s: %w", id, domain.ErrNotFound)
	}
	return p, nil
}

// Products returns all products ordered by id
func (c *Catalog) Products() []*domain.Product {
	return append([]*domain.Product(nil), c.ordered...)
}

// ProductsInCategory returns the products owned by the category or any of its descendants, ordered by id
func (c *Catalog) ProductsInCategory(categoryID string) ([]*domain.Product, error) {
	if _, err := c.tree.CategoryByID(categoryID); err != nil {
		return nil, err
	}

	result := make([]*domain.Product, 0)
	for _, p := range c.ordered {
		if c.inCategory(p, categoryID) {
			result = append(result, p)
		}
	}
	return result, nil
}

// InCategory reports whether the product belongs to the category subtree
func (c *Catalog) InCategory(productID, categoryID string) bool {
	p, ok := c.products[productID]
	return ok && c.inCategory(p, categoryID)
}

func (c *Catalog) inCategory(p *domain.Product, categoryID string) bool {
	for _, owner := range p.CategoryIDs {
		if c.tree.InSubtree(owner, categoryID) {
			return true
		}
	}
	return false
}

// Search returns the products whose indexed text contains every token of the phrase,
// case-insensitively. Products with more tokens in their name rank first, ties by id.
func (c *Catalog) Search(phrase string) []*domain.Product {
	tokens := strings.Fields(strings.ToLower(phrase))
	if len(tokens) == 0 {
		return []*domain.Product{}
	}

	type hit struct {
		product *domain.Product
		score   int
	}

	hits := make([]hit, 0)
	for _, p := range c.ordered {
		text := c.index[p.ID]
		matched := true
		for _, token := range tokens {
			if !strings.Contains(text, token) {
				matched = false
				break
			}
		}
		if !matched {
			continue
		}

		name := strings.ToLower(p.Name)
		score := 0
		for _, token := range tokens {
			if strings.Contains(name, token) {
				score++
			}
		}
		hits = append(hits, hit{product: p, score: score})
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].score > hits[j].score
	})

	result := make([]*domain.Product, len(hits))
	for i, h := range hits {
		result[i] = h.product
	}
	return result
}

func searchText(p *domain.Product) string {
	parts := []string{p.Name, PlainText(p.Description)}
	for _, value := range p.Attributes {
		if value.Kind() != domain.AttributeNumber {
			parts = append(parts, value.String())
		}
	}
	for _, facet := range p.Facets {
		parts = append(parts, facet.Values...)
	}
	return strings.ToLower(strings.Join(parts, " "))
}
