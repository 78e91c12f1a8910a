package container

import (
	"context"
	"errors"
	"testing"

	"catalog/navigator/internal/catalog/catalogtest"
	"catalog/navigator/internal/config"
	"catalog/navigator/internal/pricing"
	"catalog/navigator/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixtureRepository struct {
	err error
}

func (r fixtureRepository) LoadSnapshot(ctx context.Context) (*repository.Snapshot, error) {
	if r.err != nil {
		return nil, r.err
	}
	return &repository.Snapshot{
		Categories: catalogtest.Categories(),
		Products:   catalogtest.Products(),
		Promotions: catalogtest.Promotions(),
	}, nil
}

type failingRatesClient struct{}

func (failingRatesClient) FetchRates(ctx context.Context) (*pricing.RateTable, error) {
	return nil, errors.New("provider down")
}

func testConfig() *config.Config {
	return &config.Config{
		Query: config.QueryConfig{
			DefaultViewSize: 10,
			PriceBuckets:    []string{"25", "50"},
		},
		Pricing: config.PricingConfig{
			BaseCurrency: "EUR",
			Rates:        map[string]string{"usd": "1.25"},
		},
		Inspect: config.InspectConfig{
			RootURL:   "/products",
			RootTitle: "Products",
		},
	}
}

func TestLoadBuildsServices(t *testing.T) {
	c := &Container{Config: testConfig(), Repository: fixtureRepository{}}
	require.NoError(t, c.Load(context.Background()))

	require.NotNil(t, c.Catalog)
	require.NotNil(t, c.Inspector)
	assert.Equal(t, 10, c.Executor.NewQuery().ViewSize)

	result, err := c.Executor.Query(context.Background(), c.Executor.NewQuery().WithCategoryID("running"))
	require.NoError(t, err)
	assert.Equal(t, catalogtest.RunningCount, result.TotalCount())
	assert.Len(t, result.FacetGroups("price"), 1)

	// Conversion disabled: mixed currencies are rejected
	shopping := c.Carts.CreateCart()
	require.NoError(t, shopping.AddProduct(context.Background(), "P1"))
	require.NoError(t, shopping.AddProduct(context.Background(), "P3"))
	_, err = shopping.TotalPrice()
	assert.Error(t, err)
}

func TestLoadFallsBackToConfiguredRates(t *testing.T) {
	cfg := testConfig()
	cfg.Pricing.ConvertCurrencies = true

	c := &Container{Config: cfg, Repository: fixtureRepository{}, RatesClient: failingRatesClient{}}
	require.NoError(t, c.Load(context.Background()))

	shopping := c.Carts.CreateCart()
	require.NoError(t, shopping.AddProduct(context.Background(), "P1"))
	require.NoError(t, shopping.AddProduct(context.Background(), "P3"))

	total, err := shopping.TotalPrice()
	require.NoError(t, err)
	assert.True(t, total.Amount.Equal(decimal.RequireFromString("29.60")))
	assert.Equal(t, "EUR", total.Currency)
}

func TestLoadErrors(t *testing.T) {
	c := &Container{Config: testConfig(), Repository: fixtureRepository{err: errors.New("db down")}}
	assert.Error(t, c.Load(context.Background()))

	cfg := testConfig()
	cfg.Query.PriceBuckets = []string{"cheap"}
	c = &Container{Config: cfg, Repository: fixtureRepository{}}
	assert.Error(t, c.Load(context.Background()))

	cfg = testConfig()
	cfg.Pricing.ConvertCurrencies = true
	cfg.Pricing.Rates = map[string]string{"usd": "lots"}
	c = &Container{Config: cfg, Repository: fixtureRepository{}}
	assert.Error(t, c.Load(context.Background()))
}

func TestCloseWithoutConnections(t *testing.T) {
	c := &Container{Config: testConfig()}
	assert.NoError(t, c.Close())
}
