package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Log      LogConfig      `mapstructure:"log"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Query    QueryConfig    `mapstructure:"query"`
	Pricing  PricingConfig  `mapstructure:"pricing"`
	Inspect  InspectConfig  `mapstructure:"inspect"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

// DatabaseConfig holds the catalog database connection
type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Name     string `mapstructure:"name"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
}

// RedisConfig holds Redis connection details for cart state and cart events
type RedisConfig struct {
	Enabled       bool   `mapstructure:"enabled"`
	Host          string `mapstructure:"host"`
	Port          int    `mapstructure:"port"`
	Password      string `mapstructure:"password"`
	Database      int    `mapstructure:"database"`
	CartKeyPrefix string `mapstructure:"cart_key_prefix"`
	CartTTL       int    `mapstructure:"cart_ttl"` // Seconds, 0 keeps carts forever
	StreamPrefix  string `mapstructure:"stream_prefix"`
	StreamMaxLen  int64  `mapstructure:"stream_max_len"`
}

// QueryConfig holds product query defaults
type QueryConfig struct {
	DefaultViewSize int      `mapstructure:"default_view_size"`
	PriceBuckets    []string `mapstructure:"price_buckets"` // Ascending boundaries of the price facet
}

// PricingConfig holds the currency conversion policy
type PricingConfig struct {
	ConvertCurrencies    bool              `mapstructure:"convert_currencies"`
	BaseCurrency         string            `mapstructure:"base_currency"`
	Rates                map[string]string `mapstructure:"rates"` // Static rates against the base currency
	RatesURL             string            `mapstructure:"rates_url"`
	Timeout              int               `mapstructure:"timeout"`
	MaxRetries           int               `mapstructure:"max_retries"`
	MaxRequestsPerSecond int               `mapstructure:"max_requests_per_second"`
}

// InspectConfig selects the catalog walkthrough run by the CLI
type InspectConfig struct {
	RootURL         string            `mapstructure:"root_url"`
	RootTitle       string            `mapstructure:"root_title"`
	CategoryID      string            `mapstructure:"category_id"`
	CategoryPath    string            `mapstructure:"category_path"`
	SearchPhrase    string            `mapstructure:"search_phrase"`
	SearchFacets    map[string]string `mapstructure:"search_facets"` // Facet group -> comma-separated values
	FilterAttribute string            `mapstructure:"filter_attribute"`
	FilterValue     string            `mapstructure:"filter_value"`
	ProductID       string            `mapstructure:"product_id"`
	CartProductIDs  []string          `mapstructure:"cart_product_ids"`
}

// Load loads configuration from config.yaml in the working directory with environment variable overrides
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	return load(v)
}

// LoadFile loads configuration from an explicit YAML file
func LoadFile(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	return load(v)
}

func load(v *viper.Viper) (*Config, error) {
	setDefaults(v)

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil, fmt.Errorf("config.yaml file not found in current directory")
		}
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "catalog")
	v.SetDefault("database.user", "catalog_user")
	v.SetDefault("database.password", "catalog_pass")

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.database", 0)
	v.SetDefault("redis.cart_key_prefix", "catalog:cart:")
	v.SetDefault("redis.cart_ttl", 7*24*60*60)
	v.SetDefault("redis.stream_prefix", "catalog:stream:")
	v.SetDefault("redis.stream_max_len", 10000)

	v.SetDefault("query.default_view_size", 20)
	v.SetDefault("query.price_buckets", []string{"25", "50", "100"})

	v.SetDefault("pricing.convert_currencies", false)
	v.SetDefault("pricing.base_currency", "EUR")
	v.SetDefault("pricing.rates_url", "")
	v.SetDefault("pricing.timeout", 10)
	v.SetDefault("pricing.max_retries", 3)
	v.SetDefault("pricing.max_requests_per_second", 5)

	v.SetDefault("inspect.root_url", "/products")
	v.SetDefault("inspect.root_title", "Products")
}
