package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"catalog/navigator/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Snapshot is the materialized catalog as read from the store
type Snapshot struct {
	Categories []domain.Category
	Products   []domain.Product
	Promotions []domain.Promotion
}

type CatalogRepository interface {
	LoadSnapshot(ctx context.Context) (*Snapshot, error)
}

// querier is the subset of pgxpool.Pool used by the repository
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

type catalogRepository struct {
	db querier
}

func NewCatalogRepository(db *pgxpool.Pool) CatalogRepository {
	return &catalogRepository{
		db: db,
	}
}

// LoadSnapshot reads categories, products and promotions concurrently
func (r *catalogRepository) LoadSnapshot(ctx context.Context) (*Snapshot, error) {
	snapshot := &Snapshot{}

	errGroup, ctx := errgroup.WithContext(ctx)
	errGroup.Go(func() error {
		categories, err := r.loadCategories(ctx)
		snapshot.Categories = categories
		return err
	})
	errGroup.Go(func() error {
		products, err := r.loadProducts(ctx)
		snapshot.Products = products
		return err
	})
	errGroup.Go(func() error {
		promotions, err := r.loadPromotions(ctx)
		snapshot.Promotions = promotions
		return err
	})

	if err := errGroup.Wait(); err != nil {
		return nil, err
	}

	log.Infof("✅ Loaded catalog snapshot: %d categories, %d products, %d promotions",
		len(snapshot.Categories), len(snapshot.Products), len(snapshot.Promotions))
	return snapshot, nil
}

func (r *catalogRepository) loadCategories(ctx context.Context) ([]domain.Category, error) {
	query := `
	SELECT id, name, COALESCE(parent_id, '')
	FROM categories
	ORDER BY COALESCE(parent_id, ''), position, id`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}

	categories, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Category, error) {
		var c domain.Category
		err := row.Scan(&c.ID, &c.Name, &c.ParentID)
		return c, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan categories: %w", err)
	}

	return categories, nil
}

func (r *catalogRepository) loadProducts(ctx context.Context) ([]domain.Product, error) {
	query := `
	SELECT p.id, p.name, COALESCE(p.description, ''), p.price::text, p.currency,
	       COALESCE(p.detail_page_url, ''), COALESCE(p.primary_image_url, ''),
	       COALESCE(ARRAY(
	           SELECT pc.category_id FROM product_categories pc
	           WHERE pc.product_id = p.id ORDER BY pc.position
	       ), '{}'),
	       COALESCE(p.facets, '[]'::jsonb), COALESCE(p.attributes, '{}'::jsonb)
	FROM products p
	ORDER BY p.id`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}

	products, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Product, error) {
		var (
			p                  domain.Product
			price, currency    string
			facets, attributes []byte
		)
		if err := row.Scan(&p.ID, &p.Name, &p.Description, &price, &currency,
			&p.DetailPageURL, &p.PrimaryImageURL, &p.CategoryIDs, &facets, &attributes); err != nil {
			return p, err
		}
		return p, decodeProduct(&p, price, currency, facets, attributes)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan products: %w", err)
	}

	return products, nil
}

func (r *catalogRepository) loadPromotions(ctx context.Context) ([]domain.Promotion, error) {
	query := `
	SELECT id, name, COALESCE(title, ''),
	       COALESCE(category_ids, '{}'), COALESCE(keywords, '{}'),
	       COALESCE(facets, '[]'::jsonb)
	FROM promotions
	WHERE active
	ORDER BY position, id`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query promotions: %w", err)
	}

	promotions, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Promotion, error) {
		var (
			p      domain.Promotion
			facets []byte
		)
		if err := row.Scan(&p.ID, &p.Name, &p.Title, &p.CategoryIDs, &p.Keywords, &facets); err != nil {
			return p, err
		}
		if err := json.Unmarshal(facets, &p.Facets); err != nil {
			return p, fmt.Errorf("failed to decode facets of promotion %s: %w", p.ID, err)
		}
		return p, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan promotions: %w", err)
	}

	return promotions, nil
}

// decodeProduct fills the price and the JSON columns of a scanned product
func decodeProduct(p *domain.Product, price, currency string, facets, attributes []byte) error {
	amount, err := decimal.NewFromString(price)
	if err != nil {
		return fmt.Errorf("failed to parse price of product %s: %w", p.ID, err)
	}
	p.Price = domain.Price{Amount: amount, Currency: currency}

	if len(facets) > 0 {
		if err := json.Unmarshal(facets, &p.Facets); err != nil {
			return fmt.Errorf("failed to decode facets of product %s: %w", p.ID, err)
		}
	}

	if len(attributes) > 0 {
		if err := json.Unmarshal(attributes, &p.Attributes); err != nil {
			return fmt.Errorf("failed to decode attributes of product %s: %w", p.ID, err)
		}
	}

	return nil
}
