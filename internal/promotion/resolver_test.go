package promotion

import (
	"testing"

	"catalog/navigator/internal/catalog"
	"catalog/navigator/internal/catalog/catalogtest"
	"catalog/navigator/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestResolver(t *testing.T) *Resolver {
	t.Helper()
	tree, err := catalog.NewTree(catalogtest.Categories())
	require.NoError(t, err)
	return NewResolver(tree, catalogtest.Promotions())
}

func resolvedIDs(promotions []domain.Promotion) []string {
	ids := make([]string, len(promotions))
	for i, p := range promotions {
		ids[i] = p.ID
	}
	return ids
}

func TestResolve(t *testing.T) {
	resolver := newTestResolver(t)

	tests := []struct {
		name string
		ctx  Context
		want []string
	}{
		{"category", Context{CategoryID: "shoes"}, []string{"promo-shoes"}},
		{"descendant category", Context{CategoryID: "running"}, []string{"promo-shoes"}},
		{"ancestor category", Context{CategoryID: "products"}, []string{}},
		{"keyword", Context{SearchPhrase: "Fast RUNNERS"}, []string{"promo-runner"}},
		{"facet", Context{CategoryID: "bags", Facets: []domain.FacetParameter{{Name: "color", Values: []string{"red"}}}}, []string{"promo-red", "promo-bags"}},
		{"facet other dimension", Context{Facets: []domain.FacetParameter{{Name: "brand", Values: []string{"red"}}}}, []string{}},
		{"stored order", Context{CategoryID: "running", SearchPhrase: "runner"}, []string{"promo-shoes", "promo-runner"}},
		{"nothing", Context{}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := resolver.Resolve(tt.ctx)
			assert.NotNil(t, got)
			assert.Equal(t, tt.want, resolvedIDs(got))
		})
	}
}
