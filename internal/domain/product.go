package domain

// FacetParameter is a facet dimension with a set of values.
// On a product it lists the values the product carries, on a query the selected values.
type FacetParameter struct {
	Name   string   `json:"name"`
	Values []string `json:"values"`
}

// FilterAttribute constrains a query to products whose attribute matches Value
type FilterAttribute struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// IsZero reports whether no attribute filter is set
func (f FilterAttribute) IsZero() bool {
	return f.Name == ""
}

type Product struct {
	ID              string                    `json:"id"`
	Name            string                    `json:"name"`
	Description     string                    `json:"description"`
	Price           Price                     `json:"price"`
	DetailPageURL   string                    `json:"detail_page_url"`
	PrimaryImageURL string                    `json:"primary_image_url"`
	CategoryIDs     []string                  `json:"category_ids"` // First entry is the primary category
	Facets          []FacetParameter          `json:"facets,omitempty"`
	Attributes      map[string]AttributeValue `json:"attributes,omitempty"`
}

// PrimaryCategoryID returns the first owning category, or empty if the product has none
func (p *Product) PrimaryCategoryID() string {
	if len(p.CategoryIDs) == 0 {
		return ""
	}
	return p.CategoryIDs[0]
}

// FacetValues returns the values the product carries for the named facet, merged
// across every parameter with that name
func (p *Product) FacetValues(name string) []string {
	var values []string
	for _, facet := range p.Facets {
		if facet.Name == name {
			values = append(values, facet.Values...)
		}
	}
	return values
}

// FacetNames returns the distinct facet names of the product in first-seen order
func (p *Product) FacetNames() []string {
	names := make([]string, 0, len(p.Facets))
	seen := make(map[string]struct{}, len(p.Facets))
	for _, facet := range p.Facets {
		if _, ok := seen[facet.Name]; ok {
			continue
		}
		seen[facet.Name] = struct{}{}
		names = append(names, facet.Name)
	}
	return names
}
