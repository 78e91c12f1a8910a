package query

import (
	"sort"

	"catalog/navigator/internal/catalog"
	"catalog/navigator/internal/domain"

	"github.com/shopspring/decimal"
)

// priceBuckets splits prices at ascending boundaries: [25, 50] gives 0-25, 25-50 and 50+
type priceBuckets []decimal.Decimal

func newPriceBuckets(boundaries []decimal.Decimal) priceBuckets {
	sorted := make(priceBuckets, 0, len(boundaries))
	for _, b := range boundaries {
		if b.IsPositive() {
			sorted = append(sorted, b)
		}
	}
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].LessThan(sorted[j])
	})
	return sorted
}

func (b priceBuckets) bucket(amount decimal.Decimal) string {
	lower := decimal.Zero
	for _, upper := range b {
		if amount.LessThan(upper) {
			return lower.String() + "-" + upper.String()
		}
		lower = upper
	}
	return lower.String() + "+"
}

// facetValues returns the distinct values a product carries for a facet group
func facetValues(p *domain.Product, groupID string, buckets priceBuckets) []string {
	var values []string
	switch groupID {
	case domain.CategoryFacetGroup:
		values = p.CategoryIDs
	case domain.PriceFacetGroup:
		if len(buckets) == 0 {
			return nil
		}
		return []string{buckets.bucket(p.Price.Amount)}
	default:
		values = p.FacetValues(groupID)
	}

	seen := make(map[string]struct{}, len(values))
	distinct := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		distinct = append(distinct, v)
	}
	return distinct
}

// matchesFacets requires every selected value of every parameter
func matchesFacets(p *domain.Product, selected []domain.FacetParameter, buckets priceBuckets) bool {
	for _, param := range selected {
		carried := facetValues(p, param.Name, buckets)
		for _, want := range param.Values {
			found := false
			for _, got := range carried {
				if got == want {
					found = true
					break
				}
			}
			if !found {
				return false
			}
		}
	}
	return true
}

type facetCounter struct {
	counts map[string]int
	titles map[string]string
}

// aggregateFacets counts facet values over the whole filtered set.
// Groups: category first, attribute groups by id, price last.
func aggregateFacets(tree *catalog.Tree, products []*domain.Product, buckets priceBuckets) []domain.FacetGroup {
	attributeGroups := make(map[string]*facetCounter)
	categories := &facetCounter{counts: map[string]int{}, titles: map[string]string{}}
	prices := &facetCounter{counts: map[string]int{}, titles: map[string]string{}}

	for _, p := range products {
		for _, id := range facetValues(p, domain.CategoryFacetGroup, buckets) {
			categories.counts[id]++
			if _, ok := categories.titles[id]; !ok {
				categories.titles[id] = categoryTitle(tree, id)
			}
		}

		for _, id := range facetValues(p, domain.PriceFacetGroup, buckets) {
			prices.counts[id]++
			prices.titles[id] = id
		}

		for _, name := range p.FacetNames() {
			if name == domain.CategoryFacetGroup || name == domain.PriceFacetGroup {
				continue
			}
			counter, ok := attributeGroups[name]
			if !ok {
				counter = &facetCounter{counts: map[string]int{}, titles: map[string]string{}}
				attributeGroups[name] = counter
			}
			for _, v := range facetValues(p, name, buckets) {
				counter.counts[v]++
				counter.titles[v] = v
			}
		}
	}

	groups := make([]domain.FacetGroup, 0, len(attributeGroups)+2)
	if len(categories.counts) > 0 {
		groups = append(groups, newFacetGroup(domain.CategoryFacetGroup, "Category", domain.FacetTypeCategory, categories))
	}

	names := make([]string, 0, len(attributeGroups))
	for name := range attributeGroups {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		groups = append(groups, newFacetGroup(name, name, domain.FacetTypeAttribute, attributeGroups[name]))
	}

	if len(prices.counts) > 0 {
		groups = append(groups, newFacetGroup(domain.PriceFacetGroup, "Price", domain.FacetTypePriceRange, prices))
	}

	return groups
}

func newFacetGroup(id, title string, facetType domain.FacetType, counter *facetCounter) domain.FacetGroup {
	facets := make([]domain.Facet, 0, len(counter.counts))
	for value, count := range counter.counts {
		facets = append(facets, domain.Facet{
			ID:    value,
			Title: counter.titles[value],
			Count: count,
		})
	}

	sort.Slice(facets, func(i, j int) bool {
		if facets[i].Count != facets[j].Count {
			return facets[i].Count > facets[j].Count
		}
		if facets[i].Title != facets[j].Title {
			return facets[i].Title < facets[j].Title
		}
		return facets[i].ID < facets[j].ID
	})

	return domain.FacetGroup{
		ID:     id,
		Title:  title,
		Type:   facetType,
		Facets: facets,
	}
}

func categoryTitle(tree *catalog.Tree, id string) string {
	c, err := tree.CategoryByID(id)
	if err != nil {
		return id
	}
	return c.Name
}

func cloneGroups(groups []domain.FacetGroup) []domain.FacetGroup {
	cloned := make([]domain.FacetGroup, len(groups))
	for i, g := range groups {
		cloned[i] = g
		cloned[i].Facets = append([]domain.Facet(nil), g.Facets...)
	}
	return cloned
}
