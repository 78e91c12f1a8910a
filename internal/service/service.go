package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"catalog/navigator/internal/cart"
	"catalog/navigator/internal/catalog"
	"catalog/navigator/internal/config"
	"catalog/navigator/internal/domain"
	"catalog/navigator/internal/domain/event"
	"catalog/navigator/internal/query"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// EventLog reads back published cart events
type EventLog interface {
	Read(ctx context.Context, eventType, start string, count int64) ([]redis.XMessage, error)
}

// Service walks the catalog the way a storefront would and logs what it sees
type Service struct {
	tree      *catalog.Tree
	executor  *query.Executor
	details   *query.DetailService
	carts     *cart.Service
	events    EventLog // Optional
	rootURL   string
	rootTitle string
}

func NewService(
	tree *catalog.Tree,
	executor *query.Executor,
	details *query.DetailService,
	carts *cart.Service,
	events EventLog,
	rootURL string,
	rootTitle string,
) *Service {
	return &Service{
		tree:      tree,
		executor:  executor,
		details:   details,
		carts:     carts,
		events:    events,
		rootURL:   rootURL,
		rootTitle: rootTitle,
	}
}

// Run executes every walkthrough the configuration asks for
func (s *Service) Run(ctx context.Context, cfg config.InspectConfig) error {
	steps := make([]func() error, 0)

	if cfg.CategoryID != "" {
		steps = append(steps, func() error { return s.InspectCategoryByID(ctx, cfg.CategoryID) })
	}
	if cfg.CategoryPath != "" {
		path := cfg.CategoryPath
		steps = append(steps,
			func() error { return s.InspectCategoryByPath(ctx, path) },
			func() error { return s.InspectProductsInCategory(ctx, path) },
			func() error { return s.NavigateCategoryTree(ctx, path) },
			func() error { return s.InspectPromotions(ctx, path) },
			func() error { return s.InspectFacets(ctx, path) },
			func() error { return s.InspectBreadcrumbs(ctx, path) },
			func() error { return s.QueryFlyout(ctx, path) },
		)
		if cfg.FilterAttribute != "" {
			filter := domain.FilterAttribute{Name: cfg.FilterAttribute, Value: cfg.FilterValue}
			steps = append(steps, func() error { return s.QueryWithFilterAttribute(ctx, path, filter) })
		}
	}
	if cfg.SearchPhrase != "" {
		steps = append(steps, func() error { return s.Search(ctx, cfg.SearchPhrase) })
		if len(cfg.SearchFacets) > 0 {
			facets := ParseFacets(cfg.SearchFacets)
			steps = append(steps, func() error { return s.SearchWithFacets(ctx, cfg.SearchPhrase, facets) })
		}
	}
	if cfg.ProductID != "" {
		steps = append(steps, func() error { return s.ProductDetail(ctx, cfg.ProductID) })
	}
	if len(cfg.CartProductIDs) > 0 {
		steps = append(steps, func() error { return s.Cart(ctx, cfg.CartProductIDs...) })
	}

	if len(steps) == 0 {
		log.Warn("⚠️ Nothing to inspect, set inspect.category_path, inspect.search_phrase or inspect.product_id")
		s.InspectRoots()
		return nil
	}

	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := step(); err != nil {
			return err
		}
	}

	log.Infof("✅ Completed %d catalog walkthroughs", len(steps))
	return nil
}

// ParseFacets turns "group: v1,v2" configuration entries into facet parameters ordered by group
func ParseFacets(raw map[string]string) []domain.FacetParameter {
	names := make([]string, 0, len(raw))
	for name := range raw {
		names = append(names, name)
	}
	sort.Strings(names)

	facets := make([]domain.FacetParameter, 0, len(names))
	for _, name := range names {
		values := make([]string, 0)
		for _, v := range strings.Split(raw[name], ",") {
			if v = strings.TrimSpace(v); v != "" {
				values = append(values, v)
			}
		}
		facets = append(facets, domain.FacetParameter{Name: name, Values: values})
	}
	return facets
}

// InspectRoots lists the top-level categories as starting points for category paths
func (s *Service) InspectRoots() {
	log.Info("------ Root categories: ---------")
	for _, root := range s.tree.Roots() {
		log.Infof("Category ID: %s, Name: %s", root.ID, root.Name)
	}
}

func (s *Service) InspectCategoryByID(ctx context.Context, categoryID string) error {
	category, err := s.tree.CategoryByID(categoryID)
	if err != nil {
		return fmt.Errorf("failed to get category by id: %w", err)
	}
	log.Infof("Category ID: %s, Name: %s", category.ID, category.Name)
	return s.printChildren(category.ID)
}

func (s *Service) InspectCategoryByPath(ctx context.Context, path string) error {
	category, err := s.tree.CategoryByPath(path)
	if err != nil {
		return fmt.Errorf("failed to get category by path: %w", err)
	}
	depth, err := s.tree.Depth(category.ID)
	if err != nil {
		return err
	}
	log.Infof("Category ID: %s, Name: %s, Depth: %d", category.ID, category.Name, depth)
	return s.printChildren(category.ID)
}

// InspectProductsInCategory pages forward once and back again
func (s *Service) InspectProductsInCategory(ctx context.Context, path string) error {
	category, err := s.tree.CategoryByPath(path)
	if err != nil {
		return fmt.Errorf("failed to get category by path: %w", err)
	}
	log.Infof("Category ID: %s, Name: %s", category.ID, category.Name)

	result, err := s.executor.Query(ctx, s.executor.NewQuery().WithCategory(*category).WithViewSize(10))
	if err != nil {
		return fmt.Errorf("failed to query category %s: %w", category.ID, err)
	}
	printProducts(result)

	log.Info("Next set of products =>")
	result = result.Next()
	printProducts(result)

	log.Info("Previous set of products =>")
	result = result.Previous()
	printProducts(result)
	return nil
}

func (s *Service) NavigateCategoryTree(ctx context.Context, path string) error {
	category, err := s.tree.CategoryByPath(path)
	if err != nil {
		return fmt.Errorf("failed to get category by path: %w", err)
	}

	children, err := s.tree.Children(category.ID)
	if err != nil {
		return err
	}

	log.Info("Navigate through subcategories:")
	for _, child := range children {
		log.Infof("Category: %s", child.Name)
		result, err := s.executor.Query(ctx, s.executor.NewQuery().WithCategory(child))
		if err != nil {
			return fmt.Errorf("failed to query category %s: %w", child.ID, err)
		}
		printProducts(result)
	}
	return nil
}

func (s *Service) InspectPromotions(ctx context.Context, path string) error {
	result, err := s.queryPath(ctx, path, s.executor.NewQuery().WithViewSize(10))
	if err != nil {
		return err
	}
	printPromotions(result.Promotions())
	return nil
}

func (s *Service) InspectFacets(ctx context.Context, path string) error {
	result, err := s.queryPath(ctx, path, s.executor.NewQuery().WithViewSize(10))
	if err != nil {
		return err
	}
	printFacets(result.FacetGroups(""))
	return nil
}

func (s *Service) InspectBreadcrumbs(ctx context.Context, path string) error {
	result, err := s.queryPath(ctx, path, s.executor.NewQuery().WithViewSize(10))
	if err != nil {
		return err
	}
	printBreadcrumbs(result.Breadcrumbs(s.rootURL, s.rootTitle))
	return nil
}

func (s *Service) Search(ctx context.Context, phrase string) error {
	result, err := s.executor.Query(ctx, s.executor.NewQuery().WithSearchPhrase(phrase).WithViewSize(100))
	if err != nil {
		return fmt.Errorf("failed to search %q: %w", phrase, err)
	}
	log.Infof("Total count: %d", result.TotalCount())
	printProducts(result)
	printFacets(result.FacetGroups(""))
	return nil
}

func (s *Service) SearchWithFacets(ctx context.Context, phrase string, facets []domain.FacetParameter) error {
	q := s.executor.NewQuery().
		WithSearchPhrase(phrase).
		WithViewSize(10).
		WithFacets(facets)

	result, err := s.executor.Query(ctx, q)
	if err != nil {
		return fmt.Errorf("failed to search %q with facets: %w", phrase, err)
	}
	log.Infof("Total count: %d", result.TotalCount())
	printProducts(result)
	printFacets(result.FacetGroups(""))
	return nil
}

func (s *Service) QueryFlyout(ctx context.Context, path string) error {
	q := s.executor.NewQuery().
		WithViewSize(10).
		WithViewType(domain.ViewTypeFlyout)

	result, err := s.queryPath(ctx, path, q)
	if err != nil {
		return err
	}
	printFacets(result.FacetGroups(""))
	printPromotions(result.Promotions())
	return nil
}

func (s *Service) QueryWithFilterAttribute(ctx context.Context, path string, filter domain.FilterAttribute) error {
	q := s.executor.NewQuery().
		WithViewSize(10).
		WithFilterAttribute(filter)

	result, err := s.queryPath(ctx, path, q)
	if err != nil {
		return err
	}
	printFacets(result.FacetGroups(""))
	printPromotions(result.Promotions())
	return nil
}

func (s *Service) ProductDetail(ctx context.Context, productID string) error {
	log.Info("Getting detail for product...")
	result, err := s.details.Detail(ctx, productID)
	if err != nil {
		return fmt.Errorf("failed to get product detail: %w", err)
	}

	product := result.Product
	log.Infof("Product ID: %s", product.ID)
	log.Infof("Product Name: %s", product.Name)
	log.Infof("Product Description: %s", catalog.PlainText(product.Description))
	log.Infof("Price: %s", product.Price.Formatted())
	log.Infof("Detail Page URL: %s", product.DetailPageURL)
	log.Infof("Primary Image URL: %s", product.PrimaryImageURL)

	log.Info("Categories: ")
	for _, id := range product.CategoryIDs {
		category, err := s.tree.CategoryByID(id)
		if err != nil {
			return err
		}
		parent, err := s.tree.Parent(id)
		if err != nil {
			return err
		}
		parentName := ""
		if parent != nil {
			parentName = parent.Name
		}
		log.Infof("ID: %s Name: %s Parent: %s", category.ID, category.Name, parentName)
	}

	log.Info("Breadcrumbs: ")
	printBreadcrumbs(result.Breadcrumbs(s.rootURL, s.rootTitle))
	printPromotions(result.Promotions)

	log.Info("Facets: ")
	for _, facet := range product.Facets {
		log.Infof("%s : %v", facet.Name, facet.Values)
	}

	log.Info("Attributes: ")
	names := make([]string, 0, len(product.Attributes))
	for name := range product.Attributes {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		log.Infof("Name: %s Value: %s", name, product.Attributes[name])
	}
	return nil
}

func (s *Service) Cart(ctx context.Context, productIDs ...string) error {
	log.Info("🛒 Test cart...")

	c := s.carts.CreateCart()
	for _, productID := range productIDs {
		log.Infof("Adding product with ID: %s to cart...", productID)
		if err := c.AddProduct(ctx, productID); err != nil {
			return err
		}
		if err := printCartItems(c); err != nil {
			return err
		}
	}
	return s.printCartEvents(ctx, c.ID())
}

// printCartEvents counts the add events published for the cart
func (s *Service) printCartEvents(ctx context.Context, cartID string) error {
	if s.events == nil {
		return nil
	}

	eventType := (&event.CartItemAdded{}).EventType()
	messages, err := s.events.Read(ctx, eventType, "-", 1000)
	if err != nil {
		return fmt.Errorf("failed to read cart events: %w", err)
	}

	published := 0
	for _, message := range messages {
		data, ok := message.Values["event_data"].(string)
		if !ok {
			continue
		}
		added, err := event.UnmarshalEvent[*event.CartItemAdded]([]byte(data))
		if err != nil {
			log.Warnf("⚠️ Skipping undecodable event %s: %v", message.ID, err)
			continue
		}
		if added.CartID == cartID {
			published++
		}
	}
	log.Infof("Published %s events for cart: %d", eventType, published)
	return nil
}

func (s *Service) queryPath(ctx context.Context, path string, q query.Query) (*query.Result, error) {
	category, err := s.tree.CategoryByPath(path)
	if err != nil {
		return nil, fmt.Errorf("failed to get category by path: %w", err)
	}
	result, err := s.executor.Query(ctx, q.WithCategory(*category))
	if err != nil {
		return nil, fmt.Errorf("failed to query category %s: %w", category.ID, err)
	}
	return result, nil
}

func (s *Service) printChildren(categoryID string) error {
	children, err := s.tree.Children(categoryID)
	if err != nil {
		return err
	}
	log.Info("------ Categories: ---------")
	for _, child := range children {
		log.Infof("Category ID: %s, Name: %s", child.ID, child.Name)
	}
	return nil
}

func printProducts(result *query.Result) {
	log.Info("------ Products: ---------")
	for _, product := range result.Products() {
		log.Infof("  Product ID: %s Name: %s", product.ID, product.Name)
	}
	log.Infof("Offset: %d of %d, has previous: %t, has next: %t",
		result.Offset(), result.TotalCount(), result.HasPrevious(), result.HasNext())
}

func printPromotions(promotions []domain.Promotion) {
	log.Info("------ Promotions: -------")
	for _, promotion := range promotions {
		log.Infof("Promo ID: %s Name: %s Title: %s", promotion.ID, promotion.Name, promotion.Title)
	}
}

func printFacets(groups []domain.FacetGroup) {
	log.Info("------- Facets: ----------")
	for _, group := range groups {
		log.Infof("Facet group title: %s, type: %s", group.Title, group.Type)
		for _, facet := range group.Facets {
			log.Infof("%s (%d)", facet.Title, facet.Count)
		}
	}
}

func printBreadcrumbs(trail []domain.Breadcrumb) {
	log.Info("------- Breadcrumbs: ---------")
	for _, crumb := range trail {
		log.Infof("%q URL: %s category: %t", crumb.Title, crumb.URL, crumb.IsCategory)
	}
}

func printCartItems(c *cart.Cart) error {
	log.Info("Cart items:")
	for _, item := range c.Items() {
		log.Infof("Product: %s Price: %s Quantity: %d", item.Product.Name, item.Price.Formatted(), item.Quantity)
	}
	log.Infof("Total items: %d, updated at: %s", c.Count(), c.UpdatedAt().Format(time.RFC3339))

	total, err := c.TotalPrice()
	if err != nil {
		return err
	}
	log.Infof("Total price: %s", total.Formatted())
	return nil
}
