// internal/domain/catalog/client.go
package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xavisavvy/toa-website-sub001/internal/config"
)

// Client talks to the Printful store API.
type Client struct {
	apiKey     string
	storeID    string
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a Printful API client from config.
func NewClient(cfg *config.Config) *Client {
	return &Client{
		apiKey:  cfg.External.Printful.APIKey,
		storeID: cfg.External.Printful.StoreID,
		baseURL: cfg.External.Printful.BaseURL,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// Printful wraps every response in a code/result envelope. Prices come back
// as decimal strings.

type envelope struct {
	Code   int             `json:"code"`
	Result json.RawMessage `json:"result"`
}

type syncProductSummary struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	ThumbnailURL string `json:"thumbnail_url"`
	Variants     int    `json:"variants"`
}

type syncProductDetail struct {
	SyncProduct  syncProductSummary `json:"sync_product"`
	SyncVariants []syncVariant      `json:"sync_variants"`
}

type syncVariant struct {
	ID                 int64  `json:"id"`
	Name               string `json:"name"`
	RetailPrice        string `json:"retail_price"`
	Currency           string `json:"currency"`
	AvailabilityStatus string `json:"availability_status"`
	Product            struct {
		Image string `json:"image"`
	} `json:"product"`
}

type shippingRateResult struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Rate            string `json:"rate"`
	Currency        string `json:"currency"`
	MinDeliveryDays int    `json:"minDeliveryDays"`
	MaxDeliveryDays int    `json:"maxDeliveryDays"`
}

// ListProducts fetches all sync products in the store.
func (c *Client) ListProducts(ctx context.Context) ([]Product, error) {
	response, err := c.makeAPICall(ctx, http.MethodGet, "/store/products", nil)
	if err != nil {
		return nil, err
	}

	var summaries []syncProductSummary
	if err := json.Unmarshal(response, &summaries); err != nil {
		return nil, fmt.Errorf("failed to parse product list: %w", err)
	}

	products := make([]Product, len(summaries))
	for i, s := range summaries {
		products[i] = Product{
			ID:           fmt.Sprintf("%d", s.ID),
			Name:         s.Name,
			ThumbnailURL: s.ThumbnailURL,
			VariantCount: s.Variants,
		}
	}
	return products, nil
}

// GetProduct fetches one product with its variants.
func (c *Client) GetProduct(ctx context.Context, productID string) (*Product, error) {
	response, err := c.makeAPICall(ctx, http.MethodGet, "/store/products/"+productID, nil)
	if err != nil {
		return nil, err
	}

	var detail syncProductDetail
	if err := json.Unmarshal(response, &detail); err != nil {
		return nil, fmt.Errorf("failed to parse product: %w", err)
	}

	product := &Product{
		ID:           fmt.Sprintf("%d", detail.SyncProduct.ID),
		Name:         detail.SyncProduct.Name,
		ThumbnailURL: detail.SyncProduct.ThumbnailURL,
		VariantCount: len(detail.SyncVariants),
		Variants:     make([]Variant, len(detail.SyncVariants)),
	}

	for i, v := range detail.SyncVariants {
		price, err := decimal.NewFromString(v.RetailPrice)
		if err != nil {
			return nil, fmt.Errorf("bad retail price %q for variant %d: %w", v.RetailPrice, v.ID, err)
		}
		product.Variants[i] = Variant{
			ID:          fmt.Sprintf("%d", v.ID),
			ProductID:   product.ID,
			Name:        v.Name,
			RetailPrice: price,
			Currency:    v.Currency,
			ImageURL:    v.Product.Image,
			InStock:     v.AvailabilityStatus != "discontinued" && v.AvailabilityStatus != "out_of_stock",
		}
	}

	return product, nil
}

// ShippingRates estimates shipping options for a destination and item set.
func (c *Client) ShippingRates(ctx context.Context, recipient ShippingRecipient, items []ShippingItem) ([]ShippingRate, error) {
	body := map[string]interface{}{
		"recipient": recipient,
		"items":     items,
	}

	response, err := c.makeAPICall(ctx, http.MethodPost, "/shipping/rates", body)
	if err != nil {
		return nil, err
	}

	var results []shippingRateResult
	if err := json.Unmarshal(response, &results); err != nil {
		return nil, fmt.Errorf("failed to parse shipping rates: %w", err)
	}

	rates := make([]ShippingRate, len(results))
	for i, r := range results {
		rate, err := decimal.NewFromString(r.Rate)
		if err != nil {
			return nil, fmt.Errorf("bad shipping rate %q: %w", r.Rate, err)
		}
		rates[i] = ShippingRate{
			ID:              r.ID,
			Name:            r.Name,
			Rate:            rate,
			Currency:        r.Currency,
			MinDeliveryDays: r.MinDeliveryDays,
			MaxDeliveryDays: r.MaxDeliveryDays,
		}
	}
	return rates, nil
}

// makeAPICall makes HTTP calls to the Printful API and unwraps the
// code/result envelope.
func (c *Client) makeAPICall(ctx context.Context, method, endpoint string, data interface{}) (json.RawMessage, error) {
	var reqBody []byte
	var err error

	if data != nil {
		reqBody, err = json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request data: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, bytes.NewBuffer(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if c.storeID != "" {
		req.Header.Set("X-PF-Store-Id", c.storeID)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call Printful: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("Printful API call failed with status %d: %s", resp.StatusCode, string(respBody))
	}

	var env envelope
	if err := json.Unmarshal(respBody, &env); err != nil {
		return nil, fmt.Errorf("failed to parse Printful envelope: %w", err)
	}

	return env.Result, nil
}
