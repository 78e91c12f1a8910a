package cart

import (
	"context"
	"sync"
	"testing"

	"catalog/navigator/internal/catalog/catalogtest"
	"catalog/navigator/internal/domain"
	"catalog/navigator/internal/pricing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartTotals(t *testing.T) {
	ctx := context.Background()
	c := NewCart("cart-1", catalogtest.NewCatalog(t), nil)

	require.NoError(t, c.AddProduct(ctx, "P1"))
	require.NoError(t, c.AddProduct(ctx, "P1"))
	require.NoError(t, c.AddProduct(ctx, "P2"))

	items := c.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "P1", items[0].Product.ID)
	assert.Equal(t, 2, items[0].Quantity)
	assert.Equal(t, "40.00 EUR", items[0].Total().Formatted())
	assert.Equal(t, 1, items[1].Quantity)

	assert.Equal(t, 3, c.Count())

	total, err := c.TotalPrice()
	require.NoError(t, err)
	assert.Equal(t, "55.50 EUR", total.Formatted())
}

func TestEmptyCart(t *testing.T) {
	c := NewCart("cart-1", catalogtest.NewCatalog(t), nil)

	assert.Empty(t, c.Items())
	assert.Zero(t, c.Count())

	total, err := c.TotalPrice()
	require.NoError(t, err)
	assert.True(t, total.Amount.IsZero())
}

func TestAddUnknownProduct(t *testing.T) {
	c := NewCart("cart-1", catalogtest.NewCatalog(t), nil)

	err := c.AddProduct(context.Background(), "ghost")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Zero(t, c.Count())
}

func TestRemoveProduct(t *testing.T) {
	ctx := context.Background()
	c := NewCart("cart-1", catalogtest.NewCatalog(t), nil)

	require.NoError(t, c.AddProduct(ctx, "P1"))
	require.NoError(t, c.AddProduct(ctx, "P1"))
	require.NoError(t, c.AddProduct(ctx, "P2"))
	require.NoError(t, c.RemoveProduct(ctx, "P1"))

	assert.Equal(t, 1, c.Count())
	require.Len(t, c.Items(), 1)
	assert.Equal(t, "P2", c.Items()[0].Product.ID)

	assert.ErrorIs(t, c.RemoveProduct(ctx, "P1"), domain.ErrNotFound)
}

func TestCartMixedCurrencies(t *testing.T) {
	ctx := context.Background()

	strict := NewCart("cart-1", catalogtest.NewCatalog(t), nil)
	require.NoError(t, strict.AddProduct(ctx, "P1"))
	require.NoError(t, strict.AddProduct(ctx, "P3"))

	_, err := strict.TotalPrice()
	assert.ErrorIs(t, err, domain.ErrCurrencyMismatch)

	rates := pricing.NewRateTable("EUR", map[string]decimal.Decimal{"USD": decimal.RequireFromString("1.25")})
	converting := NewCart("cart-2", catalogtest.NewCatalog(t), rates)
	require.NoError(t, converting.AddProduct(ctx, "P1"))
	require.NoError(t, converting.AddProduct(ctx, "P3"))

	total, err := converting.TotalPrice()
	require.NoError(t, err)
	assert.Equal(t, "29.60 EUR", total.Formatted())
}

func TestConcurrentAdds(t *testing.T) {
	ctx := context.Background()
	c := NewCart("cart-1", catalogtest.NewCatalog(t), nil)

	const workers = 50
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			productID := "P1"
			if i%2 == 1 {
				productID = "P2"
			}
			assert.NoError(t, c.AddProduct(ctx, productID))
		}(i)
	}
	wg.Wait()

	assert.Equal(t, workers, c.Count())
	assert.Len(t, c.Items(), 2)

	total, err := c.TotalPrice()
	require.NoError(t, err)
	assert.Equal(t, "887.50 EUR", total.Formatted())
}

func TestSnapshotRestore(t *testing.T) {
	ctx := context.Background()
	cat := catalogtest.NewCatalog(t)

	original := NewCart("cart-1", cat, nil)
	require.NoError(t, original.AddProduct(ctx, "P1"))
	require.NoError(t, original.AddProduct(ctx, "P1"))
	require.NoError(t, original.AddProduct(ctx, "P2"))

	snapshot := original.Snapshot()
	assert.Equal(t, "cart-1", snapshot.ID)
	require.Len(t, snapshot.Items, 2)

	snapshot.Items = append(snapshot.Items,
		SnapshotItem{ProductID: "ghost", Quantity: 1},
		SnapshotItem{ProductID: "P3", Quantity: 0},
		SnapshotItem{ProductID: "P2", Quantity: 2, Price: snapshot.Items[1].Price},
	)
	snapshot.Items[0].Price = domain.Price{Amount: decimal.NewFromInt(18), Currency: "EUR"}

	restored := NewCart("cart-1", cat, nil)
	restored.restore(snapshot)

	assert.Equal(t, 5, restored.Count())
	assert.Equal(t, snapshot.UpdatedAt, restored.UpdatedAt())

	total, err := restored.TotalPrice()
	require.NoError(t, err)
	assert.Equal(t, "82.50 EUR", total.Formatted())
}
