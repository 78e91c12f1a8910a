package promotion

import (
	"strings"

	"catalog/navigator/internal/catalog"
	"catalog/navigator/internal/domain"
)

// Context is the query context promotions are resolved against
type Context struct {
	CategoryID   string
	SearchPhrase string
	Facets       []domain.FacetParameter
}

// Resolver is a pure lookup over a fixed set of promotions
type Resolver struct {
	tree       *catalog.Tree
	promotions []domain.Promotion
}

func NewResolver(tree *catalog.Tree, promotions []domain.Promotion) *Resolver {
	return &Resolver{
		tree:       tree,
		promotions: append([]domain.Promotion(nil), promotions...),
	}
}

// Resolve returns the promotions applying to the context, in stored order.
// A promotion on a category also applies to the category's descendants.
func (r *Resolver) Resolve(ctx Context) []domain.Promotion {
	result := make([]domain.Promotion, 0)
	phrase := strings.ToLower(strings.TrimSpace(ctx.SearchPhrase))

	for _, p := range r.promotions {
		if r.matchesCategory(p, ctx.CategoryID) || matchesKeyword(p, phrase) || matchesFacet(p, ctx.Facets) {
			result = append(result, p)
		}
	}
	return result
}

func (r *Resolver) matchesCategory(p domain.Promotion, categoryID string) bool {
	if categoryID == "" {
		return false
	}
	for _, id := range p.CategoryIDs {
		if r.tree.InSubtree(categoryID, id) {
			return true
		}
	}
	return false
}

func matchesKeyword(p domain.Promotion, phrase string) bool {
	if phrase == "" {
		return false
	}
	for _, keyword := range p.Keywords {
		keyword = strings.ToLower(strings.TrimSpace(keyword))
		if keyword != "" && strings.Contains(phrase, keyword) {
			return true
		}
	}
	return false
}

func matchesFacet(p domain.Promotion, selected []domain.FacetParameter) bool {
	for _, promoFacet := range p.Facets {
		for _, facet := range selected {
			if facet.Name != promoFacet.Name {
				continue
			}
			for _, want := range promoFacet.Values {
				for _, got := range facet.Values {
					if want == got {
						return true
					}
				}
			}
		}
	}
	return false
}
