// internal/domain/catalog/service.go
package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/xavisavvy/toa-website-sub001/internal/pkg/cache"
)

// CacheNamespace is the cache namespace catalog responses live in.
const CacheNamespace = "printful"

const productListKey = "product-list"

// api is the slice of Client the service needs; split out so tests can fake
// the upstream.
type api interface {
	ListProducts(ctx context.Context) ([]Product, error)
	GetProduct(ctx context.Context, productID string) (*Product, error)
	ShippingRates(ctx context.Context, recipient ShippingRecipient, items []ShippingItem) ([]ShippingRate, error)
}

// Service serves catalog reads through the expiring cache. Fresh entries
// are served without touching Printful; on upstream failure any cached
// entry, however stale, is better than an empty shop page.
type Service struct {
	client api
	cache  *cache.Cache
	ttl    time.Duration
	logger *logrus.Logger
	now    func() time.Time
}

// NewService creates a catalog service.
func NewService(client *Client, store cache.Store, ttl time.Duration, logger *logrus.Logger) *Service {
	return &Service{
		client: client,
		cache:  cache.New(store, CacheNamespace),
		ttl:    ttl,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// GetProducts returns the store's product list, cached.
func (s *Service) GetProducts(ctx context.Context) ([]Product, error) {
	var cached []Product
	timestamp, found, err := s.cache.GetJSON(ctx, productListKey, &cached)
	if err != nil {
		s.logger.WithError(err).Warn("Product cache read failed")
	}
	if found && cache.IsFresh(timestamp, s.ttl, s.now()) {
		return cached, nil
	}

	products, fetchErr := s.client.ListProducts(ctx)
	if fetchErr != nil {
		// Stale-if-error: a cached copy of any age beats failing the page.
		if found {
			s.logger.WithError(fetchErr).Warn("Printful unavailable, serving stale product list")
			return cached, nil
		}
		return nil, fmt.Errorf("failed to load products: %w", fetchErr)
	}

	if err := s.cache.SetJSON(ctx, productListKey, products); err != nil {
		s.logger.WithError(err).Warn("Product cache write failed")
	}
	return products, nil
}

// GetProduct returns one product with variants, cached per product id.
func (s *Service) GetProduct(ctx context.Context, productID string) (*Product, error) {
	var cached Product
	timestamp, found, err := s.cache.GetJSON(ctx, productID, &cached)
	if err != nil {
		s.logger.WithError(err).Warn("Product cache read failed")
	}
	if found && cache.IsFresh(timestamp, s.ttl, s.now()) {
		return &cached, nil
	}

	product, fetchErr := s.client.GetProduct(ctx, productID)
	if fetchErr != nil {
		if found {
			s.logger.WithError(fetchErr).WithField("product_id", productID).Warn("Printful unavailable, serving stale product")
			return &cached, nil
		}
		return nil, fmt.Errorf("failed to load product %s: %w", productID, fetchErr)
	}

	if err := s.cache.SetJSON(ctx, productID, product); err != nil {
		s.logger.WithError(err).Warn("Product cache write failed")
	}
	return product, nil
}

// GetVariant resolves a product variant for cart and checkout snapshots.
func (s *Service) GetVariant(ctx context.Context, productID, variantID string) (*Variant, error) {
	product, err := s.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	for i := range product.Variants {
		if product.Variants[i].ID == variantID {
			return &product.Variants[i], nil
		}
	}
	return nil, fmt.Errorf("variant %s not found on product %s", variantID, productID)
}

// EstimateShipping returns live shipping rates. Quotes are address-specific
// and never cached.
func (s *Service) EstimateShipping(ctx context.Context, recipient ShippingRecipient, items []ShippingItem) ([]ShippingRate, error) {
	if len(items) == 0 {
		return []ShippingRate{}, nil
	}
	rates, err := s.client.ShippingRates(ctx, recipient, items)
	if err != nil {
		return nil, fmt.Errorf("failed to estimate shipping: %w", err)
	}
	return rates, nil
}
