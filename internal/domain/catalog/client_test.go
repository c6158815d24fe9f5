package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func testClient(baseURL string) *Client {
	return &Client{
		apiKey:     "test-key",
		storeID:    "42",
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 5 * time.Second},
	}
}

func TestGetProductParsesEnvelopeAndPrices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/store/products/7" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("missing bearer auth, got %q", got)
		}
		if got := r.Header.Get("X-PF-Store-Id"); got != "42" {
			t.Errorf("missing store id header, got %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"code": 200,
			"result": {
				"sync_product": {"id": 7, "name": "Alethrion Tee", "thumbnail_url": "https://img/7.png"},
				"sync_variants": [
					{"id": 71, "name": "Alethrion Tee / S", "retail_price": "24.00", "currency": "USD",
					 "availability_status": "active", "product": {"image": "https://img/71.png"}},
					{"id": 72, "name": "Alethrion Tee / M", "retail_price": "24.00", "currency": "USD",
					 "availability_status": "out_of_stock", "product": {"image": "https://img/72.png"}}
				]
			}
		}`))
	}))
	defer server.Close()

	product, err := testClient(server.URL).GetProduct(context.Background(), "7")
	if err != nil {
		t.Fatalf("get product failed: %v", err)
	}

	if product.Name != "Alethrion Tee" || len(product.Variants) != 2 {
		t.Fatalf("unexpected product: %+v", product)
	}
	if !product.Variants[0].RetailPrice.Equal(decimal.RequireFromString("24.00")) {
		t.Fatalf("price parsed wrong: %s", product.Variants[0].RetailPrice)
	}
	if !product.Variants[0].InStock {
		t.Fatalf("active variant should be in stock")
	}
	if product.Variants[1].InStock {
		t.Fatalf("out_of_stock variant should not be in stock")
	}
}

func TestMakeAPICallSurfacesUpstreamErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"code":503,"error":{"message":"down"}}`, http.StatusServiceUnavailable)
	}))
	defer server.Close()

	if _, err := testClient(server.URL).ListProducts(context.Background()); err == nil {
		t.Fatalf("5xx from upstream should return an error")
	}
}

func TestShippingRatesParsing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/shipping/rates" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		w.Write([]byte(`{
			"code": 200,
			"result": [
				{"id": "STANDARD", "name": "Flat Rate", "rate": "4.99", "currency": "USD",
				 "minDeliveryDays": 3, "maxDeliveryDays": 7}
			]
		}`))
	}))
	defer server.Close()

	rates, err := testClient(server.URL).ShippingRates(context.Background(),
		ShippingRecipient{CountryCode: "US", ZIP: "90210"},
		[]ShippingItem{{VariantID: "71", Quantity: 2}})
	if err != nil {
		t.Fatalf("shipping rates failed: %v", err)
	}
	if len(rates) != 1 || rates[0].ID != "STANDARD" {
		t.Fatalf("unexpected rates: %+v", rates)
	}
	if !rates[0].Rate.Equal(decimal.RequireFromString("4.99")) {
		t.Fatalf("rate parsed wrong: %s", rates[0].Rate)
	}
}
