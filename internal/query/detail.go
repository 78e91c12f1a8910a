package query

import (
	"context"
	"fmt"

	"catalog/navigator/internal/catalog"
	"catalog/navigator/internal/domain"
	"catalog/navigator/internal/promotion"

	log "github.com/sirupsen/logrus"
)

// DetailResult is a product detail view with its navigation context
type DetailResult struct {
	Product    *domain.Product
	Promotions []domain.Promotion
	tree       *catalog.Tree
}

// Breadcrumbs ends at the product's primary category, not at the product itself
func (d *DetailResult) Breadcrumbs(rootURL, rootTitle string) []domain.Breadcrumb {
	trail, err := BuildBreadcrumbs(d.tree, d.Product.PrimaryCategoryID(), rootURL, rootTitle)
	if err != nil {
		log.Warnf("Failed to build breadcrumbs for product %s: %v", d.Product.ID, err)
		return []domain.Breadcrumb{{Title: rootTitle, URL: rootURL}}
	}
	return trail
}

type DetailService struct {
	catalog    *catalog.Catalog
	promotions PromotionResolver
}

func NewDetailService(cat *catalog.Catalog, promotions PromotionResolver) *DetailService {
	return &DetailService{
		catalog:    cat,
		promotions: promotions,
	}
}

func (s *DetailService) Detail(ctx context.Context, productID string) (*DetailResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("detail cancelled: %w", err)
	}

	product, err := s.catalog.Product(productID)
	if err != nil {
		return nil, err
	}

	promotions := []domain.Promotion{}
	if s.promotions != nil {
		promotions = s.promotions.Resolve(promotion.Context{CategoryID: product.PrimaryCategoryID()})
	}

	return &DetailResult{
		Product:    product,
		Promotions: promotions,
		tree:       s.catalog.Tree(),
	}, nil
}
