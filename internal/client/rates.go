package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"catalog/navigator/internal/config"
	"catalog/navigator/internal/pricing"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"go.uber.org/ratelimit"
	"resty.dev/v3"
)

type RatesClient interface {
	FetchRates(ctx context.Context) (*pricing.RateTable, error)
}

// ratesResponse is the payload of the rates endpoint, e.g. {"base":"EUR","rates":{"USD":1.08}}
type ratesResponse struct {
	Base  string                     `json:"base"`
	Rates map[string]decimal.Decimal `json:"rates"`
}

type ratesClient struct {
	rl         ratelimit.Limiter
	config     config.PricingConfig
	ratesURL   string
	httpClient *resty.Client

	// Circuit breaker for rate limiting by the rates provider
	circuitBreakerMutex sync.RWMutex
	throttledUntil      time.Time
	circuitBreakerDelay time.Duration
}

func NewRatesClient(cfg config.PricingConfig) RatesClient {
	client := resty.New().
		SetTimeout(time.Duration(cfg.Timeout)*time.Second).
		SetRetryCount(cfg.MaxRetries).
		SetRetryWaitTime(500*time.Millisecond).
		SetRetryMaxWaitTime(5*time.Second).
		SetHeader("Accept", "application/json")

	limiter := ratelimit.NewUnlimited()
	if cfg.MaxRequestsPerSecond > 0 {
		limiter = ratelimit.New(cfg.MaxRequestsPerSecond)
	}

	return &ratesClient{
		rl:                  limiter,
		config:              cfg,
		ratesURL:            cfg.RatesURL,
		httpClient:          client,
		circuitBreakerDelay: 5 * time.Minute,
	}
}

// FetchRates downloads the current exchange rates into a conversion table
func (c *ratesClient) FetchRates(ctx context.Context) (*pricing.RateTable, error) {
	body, err := c.fetch(ctx, c.ratesURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch exchange rates: %w", err)
	}

	var payload ratesResponse
	if err := json.Unmarshal([]byte(body), &payload); err != nil {
		return nil, fmt.Errorf("failed to decode exchange rates: %w", err)
	}

	base := payload.Base
	if base == "" {
		base = c.config.BaseCurrency
	}
	if len(payload.Rates) == 0 {
		return nil, fmt.Errorf("rates endpoint returned no rates for base %s", base)
	}

	table := pricing.NewRateTable(base, payload.Rates)
	log.Debugf("Fetched %d exchange rates against %s", table.Len()-1, table.Base())
	return table, nil
}

func (c *ratesClient) isCircuitBreakerOpen() bool {
	c.circuitBreakerMutex.RLock()
	defer c.circuitBreakerMutex.RUnlock()
	return time.Now().Before(c.throttledUntil)
}

func (c *ratesClient) triggerCircuitBreaker() {
	c.circuitBreakerMutex.Lock()
	defer c.circuitBreakerMutex.Unlock()

	c.throttledUntil = time.Now().Add(c.circuitBreakerDelay)
	log.Warnf("🚫 Rates provider throttled us, requests disabled until %v",
		c.throttledUntil.Format("15:04:05"))
}

func (c *ratesClient) fetch(ctx context.Context, url string) (string, error) {
	if strings.TrimSpace(url) == "" {
		return "", fmt.Errorf("no rates url configured")
	}

	if c.isCircuitBreakerOpen() {
		return "", fmt.Errorf("circuit breaker is open - rates requests disabled")
	}

	c.rl.Take()

	resp, err := c.httpClient.R().
		SetContext(ctx).
		Get(url)

	if err != nil {
		if ctx.Err() != nil {
			return "", fmt.Errorf("request cancelled: %w", ctx.Err())
		}
		return "", fmt.Errorf("failed to fetch URL: %w", err)
	}

	if resp.StatusCode() == http.StatusTooManyRequests {
		c.triggerCircuitBreaker()
		return "", fmt.Errorf("HTTP error: %d %s", resp.StatusCode(), resp.Status())
	}

	if resp.IsError() {
		return "", fmt.Errorf("HTTP error: %d %s", resp.StatusCode(), resp.Status())
	}

	return resp.String(), nil
}
