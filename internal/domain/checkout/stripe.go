// internal/domain/checkout/stripe.go
package checkout

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/xavisavvy/toa-website-sub001/internal/config"
)

// StripeClient talks to the Stripe API. Stripe takes form-encoded requests
// and answers JSON.
type StripeClient struct {
	secretKey  string
	baseURL    string
	httpClient *http.Client
}

// NewStripeClient creates a Stripe API client from config.
func NewStripeClient(cfg *config.Config) *StripeClient {
	return &StripeClient{
		secretKey: cfg.External.Stripe.SecretKey,
		baseURL:   "https://api.stripe.com/v1",
		httpClient: &http.Client{
			Timeout: 20 * time.Second,
		},
	}
}

// SessionLineItem is one purchasable line on a checkout session. Amounts are
// in the currency's smallest unit (cents).
type SessionLineItem struct {
	Name       string
	UnitAmount int64
	Currency   string
	Quantity   int
}

// SessionParams holds everything needed to open a checkout session.
type SessionParams struct {
	LineItems      []SessionLineItem
	CustomerEmail  string
	SuccessURL     string
	CancelURL      string
	ShippingLabel  string
	ShippingAmount int64
	Currency       string
	Metadata       map[string]string
}

// CheckoutSession is the Stripe checkout session object, trimmed to the
// fields the storefront uses.
type CheckoutSession struct {
	ID              string            `json:"id"`
	URL             string            `json:"url"`
	Status          string            `json:"status"`
	PaymentStatus   string            `json:"payment_status"`
	PaymentIntentID string            `json:"payment_intent"`
	CustomerEmail   string            `json:"customer_email"`
	Metadata        map[string]string `json:"metadata"`
}

// CreateSession opens a hosted checkout session and returns its redirect URL.
func (c *StripeClient) CreateSession(ctx context.Context, params SessionParams) (*CheckoutSession, error) {
	form := url.Values{}
	form.Set("mode", "payment")
	form.Set("customer_email", params.CustomerEmail)
	form.Set("success_url", params.SuccessURL)
	form.Set("cancel_url", params.CancelURL)

	for i, item := range params.LineItems {
		prefix := fmt.Sprintf("line_items[%d]", i)
		form.Set(prefix+"[price_data][currency]", strings.ToLower(item.Currency))
		form.Set(prefix+"[price_data][product_data][name]", item.Name)
		form.Set(prefix+"[price_data][unit_amount]", strconv.FormatInt(item.UnitAmount, 10))
		form.Set(prefix+"[quantity]", strconv.Itoa(item.Quantity))
	}

	if params.ShippingAmount > 0 || params.ShippingLabel != "" {
		form.Set("shipping_options[0][shipping_rate_data][type]", "fixed_amount")
		form.Set("shipping_options[0][shipping_rate_data][display_name]", params.ShippingLabel)
		form.Set("shipping_options[0][shipping_rate_data][fixed_amount][amount]", strconv.FormatInt(params.ShippingAmount, 10))
		form.Set("shipping_options[0][shipping_rate_data][fixed_amount][currency]", strings.ToLower(params.Currency))
	}

	for key, value := range params.Metadata {
		form.Set(fmt.Sprintf("metadata[%s]", key), value)
	}

	var session CheckoutSession
	if err := c.makeAPICall(ctx, http.MethodPost, "/checkout/sessions", form, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// GetSession fetches an existing checkout session.
func (c *StripeClient) GetSession(ctx context.Context, sessionID string) (*CheckoutSession, error) {
	var session CheckoutSession
	if err := c.makeAPICall(ctx, http.MethodGet, "/checkout/sessions/"+sessionID, nil, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// makeAPICall makes a form-encoded HTTP call to the Stripe API
func (c *StripeClient) makeAPICall(ctx context.Context, method, endpoint string, form url.Values, result interface{}) error {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call Stripe: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return fmt.Errorf("Stripe API call failed with status %d: %s", resp.StatusCode, string(respBody))
	}

	if err := json.Unmarshal(respBody, result); err != nil {
		return fmt.Errorf("failed to parse Stripe response: %w", err)
	}
	return nil
}
