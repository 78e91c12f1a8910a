// Package catalogtest provides a small, deterministic catalog for tests.
//
// Tree: Products > Shoes > {Running, Trail} and Products > Bags.
// Running holds 25 products run-01..run-25 priced 4 EUR × n, brand Swift for odd n and
// Stride for even n, color red when n is a multiple of 3 and blue otherwise.
package catalogtest

import (
	"fmt"
	"testing"

	"catalog/navigator/internal/catalog"
	"catalog/navigator/internal/domain"

	"github.com/shopspring/decimal"
)

const RunningCount = 25

func Categories() []domain.Category {
	return []domain.Category{
		{ID: "products", Name: "Products"},
		{ID: "shoes", Name: "Shoes", ParentID: "products"},
		{ID: "bags", Name: "Bags", ParentID: "products"},
		{ID: "running", Name: "Running", ParentID: "shoes"},
		{ID: "trail", Name: "Trail", ParentID: "shoes"},
	}
}

func Products() []domain.Product {
	products := make([]domain.Product, 0, RunningCount+6)

	for i := 1; i <= RunningCount; i++ {
		brand := "Stride"
		if i%2 == 1 {
			brand = "Swift"
		}
		color := "blue"
		if i%3 == 0 {
			color = "red"
		}
		products = append(products, domain.Product{
			ID:              fmt.Sprintf("run-%02d", i),
			Name:            fmt.Sprintf("Runner %02d", i),
			Description:     "<p>Lightweight <b>road</b> shoe</p>",
			Price:           eur(int64(4 * i)),
			DetailPageURL:   fmt.Sprintf("/products/run-%02d", i),
			PrimaryImageURL: fmt.Sprintf("/images/run-%02d.jpg", i),
			CategoryIDs:     []string{"running"},
			Facets: []domain.FacetParameter{
				{Name: "brand", Values: []string{brand}},
				{Name: "color", Values: []string{color}},
			},
			Attributes: map[string]domain.AttributeValue{
				"material": domain.StringValue("mesh"),
				"weight":   domain.NumberValue(decimal.NewFromInt(int64(200 + i))),
				"sizes":    domain.StringsValue("42", "43"),
			},
		})
	}

	for i := 1; i <= 3; i++ {
		products = append(products, domain.Product{
			ID:          fmt.Sprintf("trail-%02d", i),
			Name:        fmt.Sprintf("Trail Blazer %02d", i),
			Description: "<div>Rugged trail shoe with grip</div>",
			Price:       eur(120),
			CategoryIDs: []string{"trail"},
			Facets: []domain.FacetParameter{
				{Name: "brand", Values: []string{"Swift"}},
				{Name: "color", Values: []string{"green"}},
			},
			Attributes: map[string]domain.AttributeValue{
				"material": domain.StringValue("leather"),
			},
		})
	}

	products = append(products,
		domain.Product{
			ID:          "bag-01",
			Name:        "Gym Bag",
			Description: "Canvas bag for running gear",
			Price:       eur(35),
			CategoryIDs: []string{"bags"},
			Facets: []domain.FacetParameter{
				{Name: "brand", Values: []string{"Stride"}},
			},
			Attributes: map[string]domain.AttributeValue{
				"material": domain.StringValue("canvas"),
			},
		},
		domain.Product{
			ID:          "P1",
			Name:        "Classic Tee",
			Price:       mustPrice("20.00", "EUR"),
			CategoryIDs: []string{"products"},
		},
		domain.Product{
			ID:          "P2",
			Name:        "Sport Socks",
			Price:       mustPrice("15.50", "EUR"),
			CategoryIDs: []string{"products"},
		},
		domain.Product{
			ID:          "P3",
			Name:        "Import Cap",
			Price:       mustPrice("12.00", "USD"),
			CategoryIDs: []string{"products"},
		},
	)

	return products
}

func Promotions() []domain.Promotion {
	return []domain.Promotion{
		{ID: "promo-shoes", Name: "shoe-week", Title: "Shoe Week", CategoryIDs: []string{"shoes"}},
		{ID: "promo-runner", Name: "runner-deal", Title: "Runner Deal", Keywords: []string{"runner"}},
		{ID: "promo-red", Name: "red-days", Title: "Red Days", Facets: []domain.FacetParameter{
			{Name: "color", Values: []string{"red"}},
		}},
		{ID: "promo-bags", Name: "bag-sale", Title: "Bag Sale", CategoryIDs: []string{"bags"}},
	}
}

// NewCatalog builds the fixture catalog or fails the test
func NewCatalog(t testing.TB) *catalog.Catalog {
	t.Helper()

	tree, err := catalog.NewTree(Categories())
	if err != nil {
		t.Fatalf("failed to build fixture tree: %v", err)
	}
	cat, err := catalog.New(tree, Products())
	if err != nil {
		t.Fatalf("failed to build fixture catalog: %v", err)
	}
	return cat
}

func eur(amount int64) domain.Price {
	return domain.Price{Amount: decimal.NewFromInt(amount), Currency: "EUR"}
}

func mustPrice(amount, currency string) domain.Price {
	p, err := domain.NewPrice(amount, currency)
	if err != nil {
		panic(err)
	}
	return p
}
