package service

import (
	"context"
	"strings"
	"testing"

	"catalog/navigator/internal/cart"
	"catalog/navigator/internal/catalog/catalogtest"
	"catalog/navigator/internal/config"
	"catalog/navigator/internal/domain"
	"catalog/navigator/internal/promotion"
	"catalog/navigator/internal/query"
	"catalog/navigator/internal/queue"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	cat := catalogtest.NewCatalog(t)
	resolver := promotion.NewResolver(cat.Tree(), catalogtest.Promotions())
	executor := query.NewExecutor(cat, resolver, query.Options{
		PriceBuckets: []decimal.Decimal{decimal.NewFromInt(50)},
	})
	return NewService(
		cat.Tree(),
		executor,
		query.NewDetailService(cat, resolver),
		cart.NewService(cat, nil, nil, nil),
		nil,
		"/products",
		"Products",
	)
}

func hasPrefix(logged []string, prefix string) bool {
	for _, message := range logged {
		if strings.HasPrefix(message, prefix) {
			return true
		}
	}
	return false
}

func messages(hook *test.Hook) []string {
	entries := hook.AllEntries()
	result := make([]string, len(entries))
	for i, entry := range entries {
		result[i] = entry.Message
	}
	return result
}

func TestRunWalkthrough(t *testing.T) {
	hook := test.NewGlobal()
	defer hook.Reset()

	s := newTestService(t)
	err := s.Run(context.Background(), config.InspectConfig{
		CategoryID:      "shoes",
		CategoryPath:    "Products/Shoes",
		SearchPhrase:    "runner",
		SearchFacets:    map[string]string{"color": "red"},
		FilterAttribute: "material",
		FilterValue:     "leather",
		ProductID:       "run-07",
		CartProductIDs:  []string{"P1", "P1", "P2"},
	})
	require.NoError(t, err)

	logged := messages(hook)
	assert.Contains(t, logged, "Category ID: shoes, Name: Shoes")
	assert.Contains(t, logged, "Category ID: running, Name: Running")
	assert.Contains(t, logged, "  Product ID: run-01 Name: Runner 01")
	assert.Contains(t, logged, "Category: Trail")
	assert.Contains(t, logged, "Promo ID: promo-shoes Name: shoe-week Title: Shoe Week")
	assert.Contains(t, logged, "Facet group title: Category, type: category")
	assert.Contains(t, logged, `"Shoes" URL: /products/shoes category: true`)
	assert.Contains(t, logged, "Total count: 25")
	assert.Contains(t, logged, "Total count: 8")
	assert.Contains(t, logged, "Product Description: Lightweight road shoe")
	assert.Contains(t, logged, "ID: running Name: Running Parent: Shoes")
	assert.Contains(t, logged, "Name: weight Value: 207")
	assert.True(t, hasPrefix(logged, "Total items: 3, updated at: "))
	assert.Contains(t, logged, "Category ID: shoes, Name: Shoes, Depth: 1")
	assert.Contains(t, logged, "Offset: 0 of 28, has previous: false, has next: true")
	assert.Contains(t, logged, "Offset: 10 of 28, has previous: true, has next: true")
	assert.Contains(t, logged, "Total price: 55.50 EUR")

	last := hook.LastEntry()
	require.NotNil(t, last)
	assert.Equal(t, logrus.InfoLevel, last.Level)
	assert.Equal(t, "✅ Completed 13 catalog walkthroughs", last.Message)
}

func TestRunWithNothingToDo(t *testing.T) {
	hook := test.NewGlobal()
	defer hook.Reset()

	require.NoError(t, newTestService(t).Run(context.Background(), config.InspectConfig{}))
	entries := hook.AllEntries()
	require.Len(t, entries, 3)
	assert.Equal(t, logrus.WarnLevel, entries[0].Level)
	assert.Equal(t, "Category ID: products, Name: Products", entries[2].Message)
}

func TestRunStopsOnError(t *testing.T) {
	hook := test.NewGlobal()
	defer hook.Reset()

	s := newTestService(t)

	err := s.Run(context.Background(), config.InspectConfig{CategoryPath: "Products/Hats"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	err = s.Run(context.Background(), config.InspectConfig{ProductID: "ghost"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	err = s.Cart(context.Background(), "P1", "P3")
	assert.ErrorIs(t, err, domain.ErrCurrencyMismatch)
}

func TestRunHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := newTestService(t).Run(ctx, config.InspectConfig{CategoryID: "shoes"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestParseFacets(t *testing.T) {
	facets := ParseFacets(map[string]string{
		"color": "red, blue ,",
		"brand": "Swift",
	})
	assert.Equal(t, []domain.FacetParameter{
		{Name: "brand", Values: []string{"Swift"}},
		{Name: "color", Values: []string{"red", "blue"}},
	}, facets)
}

func TestCartReportsPublishedEvents(t *testing.T) {
	hook := test.NewGlobal()
	defer hook.Reset()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	publisher := queue.NewRedisPublisher(rdb, config.RedisConfig{StreamPrefix: "test:stream:"})

	cat := catalogtest.NewCatalog(t)
	resolver := promotion.NewResolver(cat.Tree(), catalogtest.Promotions())
	s := NewService(
		cat.Tree(),
		query.NewExecutor(cat, resolver, query.Options{}),
		query.NewDetailService(cat, resolver),
		cart.NewService(cat, nil, nil, publisher),
		publisher,
		"/products",
		"Products",
	)

	// Another cart's events share the stream
	require.NoError(t, s.Cart(context.Background(), "P2"))
	hook.Reset()

	require.NoError(t, s.Cart(context.Background(), "P1", "P1", "P2"))
	assert.Equal(t, "Published CartItemAdded events for cart: 3", hook.LastEntry().Message)
}
