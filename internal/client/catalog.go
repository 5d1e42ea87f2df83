package client

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"restaurant/ordering/internal/config"
	"restaurant/ordering/internal/domain"

	log "github.com/sirupsen/logrus"
	"go.uber.org/ratelimit"
	"golang.org/x/sync/errgroup"
	"resty.dev/v3"
)

// Resource names under the catalog base URL.
const (
	SettingsResource   = "settings.json"
	CategoriesResource = "categories.json"
	ProductsResource   = "products.json"
)

type CatalogClient interface {
	// Load fetches settings, categories and products. It fails with
	// domain.ErrFetchFailure when any resource exhausts its attempts.
	Load(ctx context.Context) (*domain.Catalog, error)
}

type catalogClient struct {
	rl         ratelimit.Limiter
	config     config.CatalogConfig
	baseURL    string
	httpClient *resty.Client
}

func NewCatalogClient(cfg config.CatalogConfig) CatalogClient {
	// Attempts are driven by fetchJSON so every attempt gets its own timeout.
	client := resty.New().
		SetRetryCount(0).
		SetHeader("Accept", "application/json")

	rps := cfg.MaxRequestsPerSecond
	if rps <= 0 {
		rps = 10
	}

	return &catalogClient{
		rl:         ratelimit.New(rps),
		config:     cfg,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: client,
	}
}

func (c *catalogClient) Load(ctx context.Context) (*domain.Catalog, error) {
	var (
		settings   domain.Settings
		categories domain.Categories
		products   domain.ProductList
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return c.fetchJSON(gctx, SettingsResource, &settings) })
	g.Go(func() error { return c.fetchJSON(gctx, CategoriesResource, &categories) })
	g.Go(func() error { return c.fetchJSON(gctx, ProductsResource, &products) })

	if err := g.Wait(); err != nil {
		return nil, err
	}

	log.Infof("✅ Catalog loaded: %d categories, %d products", len(categories.Categories), len(products.Products))
	return &domain.Catalog{
		Settings:   settings,
		Categories: categories,
		Products:   products.Products,
	}, nil
}

// fetchJSON makes up to MaxRetries attempts, each bounded by Timeout.
func (c *catalogClient) fetchJSON(ctx context.Context, resource string, out any) error {
	url := c.baseURL + "/" + resource
	attempts := max(1, c.config.MaxRetries)

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if attempt > 1 && c.config.RetryWait > 0 {
			select {
			case <-ctx.Done():
				return fmt.Errorf("%w: %s: %v", domain.ErrFetchFailure, resource, ctx.Err())
			case <-time.After(c.config.RetryWait):
			}
		}

		lastErr = c.fetchOnce(ctx, url, out)
		if lastErr == nil {
			log.Debugf("Fetched %s on attempt %d", resource, attempt)
			return nil
		}

		if ctx.Err() != nil {
			break
		}
		log.Warnf("🔄 Attempt %d/%d for %s failed: %v", attempt, attempts, resource, lastErr)
	}

	log.Errorf("❌ Giving up on %s after %d attempts", resource, attempts)
	return fmt.Errorf("%w: %s: %v", domain.ErrFetchFailure, resource, lastErr)
}

func (c *catalogClient) fetchOnce(ctx context.Context, url string, out any) error {
	c.rl.Take()

	reqCtx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	resp, err := c.httpClient.R().
		SetContext(reqCtx).
		Get(url)
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("request cancelled: %w", ctx.Err())
		}
		return fmt.Errorf("failed to fetch URL: %w", err)
	}

	if resp.IsError() {
		return fmt.Errorf("HTTP error: %d %s", resp.StatusCode(), resp.Status())
	}

	if err := json.Unmarshal([]byte(resp.String()), out); err != nil {
		return fmt.Errorf("failed to decode %s: %w", url, err)
	}
	return nil
}
