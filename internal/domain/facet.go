package domain

type FacetType string

func (t FacetType) String() string {
	return string(t)
}

const (
	FacetTypeCategory   FacetType = "category"
	FacetTypeAttribute  FacetType = "attribute"
	FacetTypePriceRange FacetType = "price-range"
)

// Well-known facet group ids
const (
	CategoryFacetGroup = "category"
	PriceFacetGroup    = "price"
)

type Facet struct {
	ID    string `json:"id"`    // Value used for filtering
	Title string `json:"title"` // Display title
	Count int    `json:"count"` // Products in the filtered set carrying the value
}

type FacetGroup struct {
	ID     string    `json:"id"`
	Title  string    `json:"title"`
	Type   FacetType `json:"type"`
	Facets []Facet   `json:"facets"`
}
