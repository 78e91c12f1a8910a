package query

import (
	"strings"
	"unicode"

	"catalog/navigator/internal/catalog"
	"catalog/navigator/internal/domain"
)

// BuildBreadcrumbs returns the trail from the catalog root down to the category.
// The root category itself is represented by the synthetic root entry.
func BuildBreadcrumbs(tree *catalog.Tree, categoryID, rootURL, rootTitle string) ([]domain.Breadcrumb, error) {
	trail := []domain.Breadcrumb{{
		Title:      rootTitle,
		URL:        rootURL,
		IsCategory: false,
	}}
	if categoryID == "" {
		return trail, nil
	}

	chain, err := tree.Ancestors(categoryID)
	if err != nil {
		return nil, err
	}

	url := strings.TrimSuffix(rootURL, "/")
	for _, c := range chain[1:] {
		url += "/" + Slug(c.Name)
		trail = append(trail, domain.Breadcrumb{
			Title:      c.Name,
			URL:        url,
			IsCategory: true,
		})
	}

	return trail, nil
}

// Slug lowercases a category name and replaces runs of other characters with a dash
func Slug(name string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteRune('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
