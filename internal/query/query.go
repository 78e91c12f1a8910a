package query

import (
	"fmt"
	"strings"

	"catalog/navigator/internal/domain"
)

const DefaultViewSize = 20

// Query is an immutable description of a product query. Every With method returns a
// modified copy, so a Query can be shared between goroutines and extended freely.
type Query struct {
	CategoryID      string
	SearchPhrase    string
	ViewSize        int
	ViewType        domain.ViewType
	Facets          []domain.FacetParameter
	FilterAttribute domain.FilterAttribute
}

// New returns a query with the default view size and view type
func New() Query {
	return Query{
		ViewSize: DefaultViewSize,
		ViewType: domain.ViewTypeDefault,
	}
}

func (q Query) WithCategory(category domain.Category) Query {
	q.CategoryID = category.ID
	return q
}

func (q Query) WithCategoryID(id string) Query {
	q.CategoryID = id
	return q
}

func (q Query) WithSearchPhrase(phrase string) Query {
	q.SearchPhrase = phrase
	return q
}

func (q Query) WithViewSize(size int) Query {
	q.ViewSize = size
	return q
}

func (q Query) WithViewType(viewType domain.ViewType) Query {
	q.ViewType = viewType
	return q
}

func (q Query) WithFacets(facets []domain.FacetParameter) Query {
	q.Facets = cloneFacets(facets)
	return q
}

func (q Query) WithFilterAttribute(filter domain.FilterAttribute) Query {
	q.FilterAttribute = filter
	return q
}

// Validate rejects a query before any work is done
func (q Query) Validate() error {
	if q.ViewSize <= 0 {
		return fmt.Errorf("%w: view size must be positive, got %d", domain.ErrInvalidQuery, q.ViewSize)
	}
	if q.CategoryID == "" && strings.TrimSpace(q.SearchPhrase) == "" {
		return fmt.Errorf("%w: category or search phrase required", domain.ErrInvalidQuery)
	}
	if q.ViewType != "" && !q.ViewType.IsValid() {
		return fmt.Errorf("%w: unknown view type %q", domain.ErrInvalidQuery, q.ViewType)
	}
	return nil
}

func cloneFacets(facets []domain.FacetParameter) []domain.FacetParameter {
	if facets == nil {
		return nil
	}
	cloned := make([]domain.FacetParameter, len(facets))
	for i, f := range facets {
		cloned[i] = domain.FacetParameter{
			Name:   f.Name,
			Values: append([]string(nil), f.Values...),
		}
	}
	return cloned
}
