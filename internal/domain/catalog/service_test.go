package catalog

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/xavisavvy/toa-website-sub001/internal/pkg/cache"
)

type fakeAPI struct {
	products []Product
	detail   *Product
	rates    []ShippingRate
	err      error
	calls    int
}

func (f *fakeAPI) ListProducts(ctx context.Context) ([]Product, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.products, nil
}

func (f *fakeAPI) GetProduct(ctx context.Context, productID string) (*Product, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.detail, nil
}

func (f *fakeAPI) ShippingRates(ctx context.Context, recipient ShippingRecipient, items []ShippingItem) ([]ShippingRate, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.rates, nil
}

func testCatalogService(api *fakeAPI, store cache.Store) *Service {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return &Service{
		client: api,
		cache:  cache.New(store, CacheNamespace),
		ttl:    10 * time.Minute,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func TestGetProductsCachesUpstream(t *testing.T) {
	ctx := context.Background()
	api := &fakeAPI{products: []Product{{ID: "1", Name: "Dice Tee"}}}
	svc := testCatalogService(api, cache.NewMemoryStore())

	first, err := svc.GetProducts(ctx)
	if err != nil {
		t.Fatalf("first load failed: %v", err)
	}
	second, err := svc.GetProducts(ctx)
	if err != nil {
		t.Fatalf("second load failed: %v", err)
	}

	if api.calls != 1 {
		t.Fatalf("fresh cache should be served without refetching, got %d calls", api.calls)
	}
	if len(first) != 1 || len(second) != 1 || second[0].Name != "Dice Tee" {
		t.Fatalf("cached payload mismatch: %+v", second)
	}
}

func TestGetProductsStaleCacheTriggersRefetch(t *testing.T) {
	ctx := context.Background()
	api := &fakeAPI{products: []Product{{ID: "1", Name: "Dice Tee"}}}
	svc := testCatalogService(api, cache.NewMemoryStore())

	if _, err := svc.GetProducts(ctx); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	// Move the clock past the freshness window.
	svc.now = func() time.Time { return time.Now().UTC().Add(11 * time.Minute) }
	api.products = []Product{{ID: "1", Name: "Dice Tee"}, {ID: "2", Name: "Map Poster"}}

	products, err := svc.GetProducts(ctx)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if api.calls != 2 {
		t.Fatalf("stale cache should refetch, got %d calls", api.calls)
	}
	if len(products) != 2 {
		t.Fatalf("expected refreshed list, got %+v", products)
	}
}

func TestGetProductsStaleIfError(t *testing.T) {
	ctx := context.Background()
	api := &fakeAPI{products: []Product{{ID: "1", Name: "Dice Tee"}}}
	svc := testCatalogService(api, cache.NewMemoryStore())

	if _, err := svc.GetProducts(ctx); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	// Upstream goes down after the cache has gone stale.
	svc.now = func() time.Time { return time.Now().UTC().Add(11 * time.Minute) }
	api.err = errors.New("upstream 503")

	products, err := svc.GetProducts(ctx)
	if err != nil {
		t.Fatalf("stale fallback should not error: %v", err)
	}
	if len(products) != 1 || products[0].Name != "Dice Tee" {
		t.Fatalf("expected stale payload, got %+v", products)
	}
}

func TestGetProductsFailureWithoutCachePropagates(t *testing.T) {
	ctx := context.Background()
	api := &fakeAPI{err: errors.New("upstream 503")}
	svc := testCatalogService(api, cache.NewMemoryStore())

	if _, err := svc.GetProducts(ctx); err == nil {
		t.Fatalf("no cache and no upstream should surface the failure")
	}
}

func TestGetVariant(t *testing.T) {
	ctx := context.Background()
	api := &fakeAPI{detail: &Product{
		ID:   "1",
		Name: "Dice Tee",
		Variants: []Variant{
			{ID: "11", ProductID: "1", Name: "S", RetailPrice: decimal.RequireFromString("24.00"), InStock: true},
			{ID: "12", ProductID: "1", Name: "M", RetailPrice: decimal.RequireFromString("24.00"), InStock: true},
		},
	}}
	svc := testCatalogService(api, cache.NewMemoryStore())

	variant, err := svc.GetVariant(ctx, "1", "12")
	if err != nil {
		t.Fatalf("variant lookup failed: %v", err)
	}
	if variant.Name != "M" {
		t.Fatalf("wrong variant: %+v", variant)
	}

	if _, err := svc.GetVariant(ctx, "1", "99"); err == nil {
		t.Fatalf("unknown variant should error")
	}
}

func TestEstimateShippingEmptyItems(t *testing.T) {
	ctx := context.Background()
	api := &fakeAPI{}
	svc := testCatalogService(api, cache.NewMemoryStore())

	rates, err := svc.EstimateShipping(ctx, ShippingRecipient{CountryCode: "US"}, nil)
	if err != nil {
		t.Fatalf("empty estimate failed: %v", err)
	}
	if len(rates) != 0 || api.calls != 0 {
		t.Fatalf("empty item set should not call upstream")
	}
}
