package catalog_test

import (
	"testing"

	"catalog/navigator/internal/catalog"
	"catalog/navigator/internal/catalog/catalogtest"
	"catalog/navigator/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ids(products []*domain.Product) []string {
	result := make([]string, len(products))
	for i, p := range products {
		result[i] = p.ID
	}
	return result
}

func TestProductsInCategoryIncludesDescendants(t *testing.T) {
	cat := catalogtest.NewCatalog(t)

	running, err := cat.ProductsInCategory("running")
	require.NoError(t, err)
	assert.Len(t, running, catalogtest.RunningCount)
	assert.Equal(t, "run-01", running[0].ID)
	assert.Equal(t, "run-25", running[len(running)-1].ID)

	shoes, err := cat.ProductsInCategory("shoes")
	require.NoError(t, err)
	assert.Len(t, shoes, catalogtest.RunningCount+3)

	all, err := cat.ProductsInCategory("products")
	require.NoError(t, err)
	assert.Len(t, all, len(catalogtest.Products()))

	_, err = cat.ProductsInCategory("missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProductLookup(t *testing.T) {
	cat := catalogtest.NewCatalog(t)

	p, err := cat.Product("P2")
	require.NoError(t, err)
	assert.Equal(t, "Sport Socks", p.Name)

	_, err = cat.Product("nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.True(t, cat.InCategory("run-03", "shoes"))
	assert.False(t, cat.InCategory("bag-01", "shoes"))
	assert.False(t, cat.InCategory("nope", "shoes"))
}

func TestSearch(t *testing.T) {
	cat := catalogtest.NewCatalog(t)

	// Markup is stripped before indexing
	assert.Len(t, cat.Search("ROAD shoe"), catalogtest.RunningCount)
	assert.Empty(t, cat.Search("<b>"))

	// Name hits rank before description hits
	hits := ids(cat.Search("trail"))
	assert.Equal(t, []string{"trail-01", "trail-02", "trail-03"}, hits)

	running := ids(cat.Search("running"))
	assert.Equal(t, []string{"bag-01"}, running)

	// Facet values and text attributes are searchable
	assert.Len(t, cat.Search("leather"), 3)
	assert.Len(t, cat.Search("green swift"), 3)

	assert.Empty(t, cat.Search("   "))
	assert.Empty(t, cat.Search("unicorn"))
}

func TestNewRejectsBadProducts(t *testing.T) {
	tree, err := catalog.NewTree(catalogtest.Categories())
	require.NoError(t, err)

	_, err = catalog.New(tree, []domain.Product{{ID: "x", CategoryIDs: []string{"ghost"}}})
	assert.ErrorIs(t, err, domain.ErrInvalidCategory)

	_, err = catalog.New(tree, []domain.Product{{ID: "x"}, {ID: "x"}})
	assert.Error(t, err)

	_, err = catalog.New(tree, []domain.Product{{Name: "No id"}})
	assert.Error(t, err)
}

func TestPlainText(t *testing.T) {
	assert.Equal(t, "plain text", catalog.PlainText("  plain \n text "))
	assert.Equal(t, "Bold and italic", catalog.PlainText("<p><b>Bold</b> and <i>italic</i></p>"))
	assert.Equal(t, "Visible", catalog.PlainText("<div>Visible<script>var x = 1;</script><style>p{}</style></div>"))
	assert.Equal(t, "", catalog.PlainText(""))
}
