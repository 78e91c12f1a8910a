package query

import (
	"context"
	"fmt"
	"strings"

	"catalog/navigator/internal/catalog"
	"catalog/navigator/internal/domain"
	"catalog/navigator/internal/promotion"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

type PromotionResolver interface {
	Resolve(ctx promotion.Context) []domain.Promotion
}

// Options tune the executor
type Options struct {
	DefaultViewSize int               // Used by NewQuery; DefaultViewSize when not positive
	PriceBuckets    []decimal.Decimal // Price facet boundaries; no price facet when empty
}

// Executor runs queries against a catalog snapshot. It is safe for concurrent use.
type Executor struct {
	catalog         *catalog.Catalog
	promotions      PromotionResolver
	buckets         priceBuckets
	defaultViewSize int
}

func NewExecutor(cat *catalog.Catalog, promotions PromotionResolver, opts Options) *Executor {
	viewSize := opts.DefaultViewSize
	if viewSize <= 0 {
		viewSize = DefaultViewSize
	}
	return &Executor{
		catalog:         cat,
		promotions:      promotions,
		buckets:         newPriceBuckets(opts.PriceBuckets),
		defaultViewSize: viewSize,
	}
}

// NewQuery returns an empty query carrying the executor's default view size
func (e *Executor) NewQuery() Query {
	return New().WithViewSize(e.defaultViewSize)
}

// Query validates and runs q, returning its first page
func (e *Executor) Query(ctx context.Context, q Query) (*Result, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	if q.ViewType == "" {
		q.ViewType = domain.ViewTypeDefault
	}
	q.SearchPhrase = strings.TrimSpace(q.SearchPhrase)
	q = q.WithFacets(q.Facets)

	candidates, err := e.candidates(q)
	if err != nil {
		return nil, err
	}

	filtered := make([]*domain.Product, 0, len(candidates))
	for _, p := range candidates {
		if e.matches(p, q) {
			filtered = append(filtered, p)
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("query cancelled: %w", err)
	}

	var (
		groups     []domain.FacetGroup
		promotions []domain.Promotion
	)

	errGroup := new(errgroup.Group)
	errGroup.Go(func() error {
		groups = aggregateFacets(e.catalog.Tree(), filtered, e.buckets)
		return nil
	})
	errGroup.Go(func() error {
		promotions = e.resolvePromotions(q)
		return nil
	})
	if err := errGroup.Wait(); err != nil {
		return nil, err
	}

	log.Debugf("Query category=%q phrase=%q matched %d products", q.CategoryID, q.SearchPhrase, len(filtered))

	first := &Result{
		query:       q,
		tree:        e.catalog.Tree(),
		filtered:    filtered,
		facetGroups: groups,
		promotions:  promotions,
	}
	return first.at(0), nil
}

func (e *Executor) candidates(q Query) ([]*domain.Product, error) {
	if q.SearchPhrase == "" {
		return e.catalog.ProductsInCategory(q.CategoryID)
	}

	if q.CategoryID != "" {
		if _, err := e.catalog.Tree().CategoryByID(q.CategoryID); err != nil {
			return nil, err
		}
	}

	hits := e.catalog.Search(q.SearchPhrase)
	if q.CategoryID == "" {
		return hits, nil
	}

	inCategory := make([]*domain.Product, 0, len(hits))
	for _, p := range hits {
		if e.catalog.InCategory(p.ID, q.CategoryID) {
			inCategory = append(inCategory, p)
		}
	}
	return inCategory, nil
}

func (e *Executor) matches(p *domain.Product, q Query) bool {
	if !q.FilterAttribute.IsZero() {
		value, ok := p.Attributes[q.FilterAttribute.Name]
		if !ok || !value.Matches(q.FilterAttribute.Value) {
			return false
		}
	}
	return matchesFacets(p, q.Facets, e.buckets)
}

func (e *Executor) resolvePromotions(q Query) []domain.Promotion {
	if e.promotions == nil {
		return []domain.Promotion{}
	}
	return e.promotions.Resolve(promotion.Context{
		CategoryID:   q.CategoryID,
		SearchPhrase: q.SearchPhrase,
		Facets:       q.Facets,
	})
}
