package domain

type ViewType string

func (v ViewType) String() string {
	return string(v)
}

const (
	ViewTypeDefault ViewType = "default"
	ViewTypeFlyout  ViewType = "flyout" // Facets and promotions only, no product listing
)

var ViewTypes = []ViewType{
	ViewTypeDefault,
	ViewTypeFlyout,
}

// IsValid reports whether v is one of the known view types
func (v ViewType) IsValid() bool {
	for _, known := range ViewTypes {
		if v == known {
			return true
		}
	}
	return false
}
