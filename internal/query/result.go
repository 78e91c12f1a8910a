package query

import (
	"catalog/navigator/internal/catalog"
	"catalog/navigator/internal/domain"

	log "github.com/sirupsen/logrus"
)

// Result is one page of a query. It keeps the filtered set it was cut from, so
// Next and Previous page through the same snapshot without re-running the query.
type Result struct {
	query       Query
	tree        *catalog.Tree
	filtered    []*domain.Product
	products    []*domain.Product
	offset      int
	facetGroups []domain.FacetGroup
	promotions  []domain.Promotion
}

func (r *Result) at(offset int) *Result {
	page := &Result{
		query:       r.query,
		tree:        r.tree,
		filtered:    r.filtered,
		offset:      offset,
		facetGroups: r.facetGroups,
		promotions:  r.promotions,
	}
	page.products = page.slice()
	return page
}

func (r *Result) slice() []*domain.Product {
	if r.query.ViewType == domain.ViewTypeFlyout {
		return []*domain.Product{}
	}
	end := min(r.offset+r.query.ViewSize, len(r.filtered))
	if r.offset >= end {
		return []*domain.Product{}
	}
	return append([]*domain.Product(nil), r.filtered[r.offset:end]...)
}

// Products returns the current page
func (r *Result) Products() []*domain.Product {
	return append([]*domain.Product(nil), r.products...)
}

// TotalCount is the size of the filtered set before pagination
func (r *Result) TotalCount() int {
	return len(r.filtered)
}

func (r *Result) Offset() int {
	return r.offset
}

func (r *Result) ViewSize() int {
	return r.query.ViewSize
}

func (r *Result) Query() Query {
	return r.query.WithFacets(r.query.Facets)
}

// FacetGroups returns all groups for an empty id, otherwise only the matching group.
// An unknown id yields an empty slice.
func (r *Result) FacetGroups(groupID string) []domain.FacetGroup {
	if groupID == "" {
		return cloneGroups(r.facetGroups)
	}
	for _, g := range r.facetGroups {
		if g.ID == groupID {
			return cloneGroups([]domain.FacetGroup{g})
		}
	}
	return []domain.FacetGroup{}
}

func (r *Result) Promotions() []domain.Promotion {
	return append([]domain.Promotion{}, r.promotions...)
}

// Breadcrumbs returns the trail to the query category; a pure search gets the root entry only
func (r *Result) Breadcrumbs(rootURL, rootTitle string) []domain.Breadcrumb {
	trail, err := BuildBreadcrumbs(r.tree, r.query.CategoryID, rootURL, rootTitle)
	if err != nil {
		log.Warnf("Failed to build breadcrumbs for category %s: %v", r.query.CategoryID, err)
		return []domain.Breadcrumb{{Title: rootTitle, URL: rootURL}}
	}
	return trail
}

// HasNext reports whether a following page holds products
func (r *Result) HasNext() bool {
	return r.offset+r.query.ViewSize < len(r.filtered)
}

func (r *Result) HasPrevious() bool {
	return r.offset > 0
}

// Next moves one page forward, clamped at the total count. Past the last page it
// returns an empty page with the same totals, facets and promotions.
func (r *Result) Next() *Result {
	offset := min(r.offset+r.query.ViewSize, len(r.filtered))
	return r.at(offset)
}

// Previous moves back to the previous page boundary, never below zero
func (r *Result) Previous() *Result {
	offset := r.offset - r.query.ViewSize
	if rem := r.offset % r.query.ViewSize; rem != 0 {
		offset = r.offset - rem
	}
	return r.at(max(offset, 0))
}
