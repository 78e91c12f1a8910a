package container

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"catalog/navigator/internal/cart"
	"catalog/navigator/internal/catalog"
	"catalog/navigator/internal/client"
	"catalog/navigator/internal/config"
	"catalog/navigator/internal/pricing"
	"catalog/navigator/internal/promotion"
	"catalog/navigator/internal/query"
	"catalog/navigator/internal/queue"
	"catalog/navigator/internal/repository"
	"catalog/navigator/internal/service"
	"catalog/navigator/internal/state"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

// Container holds all initialized components
type Container struct {
	Config       *config.Config
	Repository   repository.CatalogRepository
	RatesClient  client.RatesClient
	StateManager state.CartStateManager
	Publisher    *queue.RedisPublisher

	// Built by Load from the catalog snapshot
	Catalog   *catalog.Catalog
	Executor  *query.Executor
	Details   *query.DetailService
	Carts     *cart.Service
	Inspector *service.Service

	db    *pgxpool.Pool
	redis *redis.Client
}

// New creates a new container with its external connections initialized
func New(cfg *config.Config) (*Container, error) {
	container := &Container{
		Config: cfg,
	}

	db, err := pgxpool.New(context.Background(),
		fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
			cfg.Database.Host,
			cfg.Database.Port,
			cfg.Database.User,
			cfg.Database.Password,
			cfg.Database.Name,
		))
	if err != nil {
		return nil, err
	}
	container.db = db
	container.Repository = repository.NewCatalogRepository(db)

	if cfg.Redis.Enabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.Database,
		})

		if _, err := rdb.Ping(context.Background()).Result(); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}
		log.Info("✅ Connected to Redis successfully")

		container.redis = rdb
		container.StateManager = state.NewRedisStateManager(rdb, cfg.Redis.CartKeyPrefix,
			time.Duration(cfg.Redis.CartTTL)*time.Second)
		container.Publisher = queue.NewRedisPublisher(rdb, cfg.Redis)
	}

	if cfg.Pricing.RatesURL != "" {
		container.RatesClient = client.NewRatesClient(cfg.Pricing)
	}

	return container, nil
}

// Load reads the catalog snapshot and the exchange rates concurrently and builds the services
func (c *Container) Load(ctx context.Context) error {
	var (
		snapshot *repository.Snapshot
		rates    *pricing.RateTable
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		snapshot, err = c.Repository.LoadSnapshot(gctx)
		if err != nil {
			return fmt.Errorf("failed to load catalog: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		rates, err = c.loadRates(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	return c.Build(snapshot, rates)
}

// Build wires the query and cart services over a loaded snapshot. rates may be nil.
func (c *Container) Build(snapshot *repository.Snapshot, rates *pricing.RateTable) error {
	tree, err := catalog.NewTree(snapshot.Categories)
	if err != nil {
		return fmt.Errorf("failed to build category tree: %w", err)
	}

	cat, err := catalog.New(tree, snapshot.Products)
	if err != nil {
		return fmt.Errorf("failed to build catalog: %w", err)
	}

	buckets, err := parseBuckets(c.Config.Query.PriceBuckets)
	if err != nil {
		return err
	}

	promotions := promotion.NewResolver(tree, snapshot.Promotions)

	c.Catalog = cat
	c.Executor = query.NewExecutor(cat, promotions, query.Options{
		DefaultViewSize: c.Config.Query.DefaultViewSize,
		PriceBuckets:    buckets,
	})
	c.Details = query.NewDetailService(cat, promotions)

	var converter pricing.Converter
	if c.Config.Pricing.ConvertCurrencies && rates != nil {
		converter = rates
	}
	var store cart.Store
	if c.StateManager != nil {
		store = c.StateManager
	}
	var publisher cart.Publisher
	if c.Publisher != nil {
		publisher = c.Publisher
	}
	c.Carts = cart.NewService(cat, converter, store, publisher)

	var events service.EventLog
	if c.Publisher != nil {
		events = c.Publisher
	}
	c.Inspector = service.NewService(tree, c.Executor, c.Details, c.Carts, events,
		c.Config.Inspect.RootURL, c.Config.Inspect.RootTitle)

	return nil
}

func (c *Container) loadRates(ctx context.Context) (*pricing.RateTable, error) {
	if !c.Config.Pricing.ConvertCurrencies {
		return nil, nil
	}

	if c.RatesClient != nil {
		rates, err := c.RatesClient.FetchRates(ctx)
		if err == nil {
			log.Infof("✅ Fetched %d exchange rates against %s", rates.Len()-1, rates.Base())
			return rates, nil
		}
		log.Warnf("⚠️ Falling back to configured rates: %v", err)
	}

	rates, err := pricing.ParseRates(c.Config.Pricing.BaseCurrency, c.Config.Pricing.Rates)
	if err != nil {
		return nil, fmt.Errorf("failed to parse configured rates: %w", err)
	}
	return rates, nil
}

func parseBuckets(raw []string) ([]decimal.Decimal, error) {
	buckets := make([]decimal.Decimal, 0, len(raw))
	for _, value := range raw {
		d, err := decimal.NewFromString(value)
		if err != nil {
			return nil, fmt.Errorf("invalid price bucket %q: %w", value, err)
		}
		buckets = append(buckets, d)
	}
	return buckets, nil
}

// Run loads the catalog and runs the configured walkthroughs
func (c *Container) Run(ctx context.Context) error {
	if err := c.Load(ctx); err != nil {
		return err
	}
	return c.Inspector.Run(ctx, c.Config.Inspect)
}

// Close performs cleanup when shutting down
func (c *Container) Close() error {
	log.Info("Shutting down container...")

	if c.db != nil {
		c.db.Close()
	}
	if c.redis != nil {
		if err := c.redis.Close(); err != nil {
			return err
		}
	}

	log.Info("Container shut down successfully")
	return nil
}
