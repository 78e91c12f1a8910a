package domain

// Promotion is a read-only merchandising entry attached to categories, keywords or facet values
type Promotion struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Title       string           `json:"title"`
	CategoryIDs []string         `json:"category_ids,omitempty"`
	Keywords    []string         `json:"keywords,omitempty"`
	Facets      []FacetParameter `json:"facets,omitempty"`
}
