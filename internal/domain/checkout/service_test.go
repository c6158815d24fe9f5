package checkout

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/xavisavvy/toa-website-sub001/internal/config"
	"github.com/xavisavvy/toa-website-sub001/internal/domain/cart"
	"github.com/xavisavvy/toa-website-sub001/internal/domain/catalog"
	"github.com/xavisavvy/toa-website-sub001/internal/domain/order"
	"github.com/xavisavvy/toa-website-sub001/internal/pkg/email"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type memStore struct {
	mu    sync.Mutex
	blobs map[string][]byte
}

func newMemStore() *memStore {
	return &memStore{blobs: make(map[string][]byte)}
}

func (m *memStore) Load(ctx context.Context, sessionID string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.blobs[sessionID]
	return data, ok, nil
}

func (m *memStore) Save(ctx context.Context, sessionID string, data []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.blobs[sessionID] = data
	return nil
}

func (m *memStore) Delete(ctx context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.blobs, sessionID)
	return nil
}

type fakePricing struct {
	variants map[string]*catalog.Variant
	rates    []catalog.ShippingRate
}

func (f *fakePricing) GetVariant(ctx context.Context, productID, variantID string) (*catalog.Variant, error) {
	if v, ok := f.variants[productID+"-"+variantID]; ok {
		return v, nil
	}
	return nil, fmt.Errorf("variant %s not found on product %s", variantID, productID)
}

func (f *fakePricing) EstimateShipping(ctx context.Context, recipient catalog.ShippingRecipient, items []catalog.ShippingItem) ([]catalog.ShippingRate, error) {
	return f.rates, nil
}

type fakeStripe struct {
	params  []SessionParams
	session *CheckoutSession
}

func (f *fakeStripe) CreateSession(ctx context.Context, params SessionParams) (*CheckoutSession, error) {
	f.params = append(f.params, params)
	return f.session, nil
}

type fakeMailer struct {
	sent []string
}

func (f *fakeMailer) SendOrderConfirmation(ctx context.Context, data email.OrderConfirmationData) error {
	f.sent = append(f.sent, data.OrderNumber)
	return nil
}

type checkoutFixture struct {
	svc    *Service
	carts  *cart.Service
	orders *order.Service
	stripe *fakeStripe
	mailer *fakeMailer
	cfg    *config.Config
}

func newFixture(t *testing.T, pricing *fakePricing) *checkoutFixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.AutoMigrate(&order.Order{}, &order.OrderItem{}, &order.WebhookEvent{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	cfg := &config.Config{}
	cfg.Cart.ExpiryDays = 7
	cfg.External.Stripe.WebhookSecret = "whsec_test"
	cfg.External.Stripe.SuccessURL = "https://talesofalethrion.example/shop/success"
	cfg.External.Stripe.CancelURL = "https://talesofalethrion.example/shop/cart"

	carts := cart.NewService(newMemStore(), cfg, logger)
	orders := order.NewService(db, logger)
	stripe := &fakeStripe{session: &CheckoutSession{ID: "cs_test_1", URL: "https://checkout.stripe.test/cs_test_1"}}
	m := &fakeMailer{}

	return &checkoutFixture{
		svc: &Service{
			carts:   carts,
			catalog: pricing,
			orders:  orders,
			stripe:  stripe,
			mailer:  m,
			config:  cfg,
			logger:  logger,
			now:     func() time.Time { return time.Now().UTC() },
		},
		carts:  carts,
		orders: orders,
		stripe: stripe,
		mailer: m,
		cfg:    cfg,
	}
}

func standardPricing() *fakePricing {
	return &fakePricing{
		variants: map[string]*catalog.Variant{
			"1-11": {
				ID: "11", ProductID: "1", Name: "Alethrion Tee / M", Currency: "USD",
				RetailPrice: decimal.RequireFromString("29.99"), InStock: true,
			},
		},
		rates: []catalog.ShippingRate{
			{ID: "STANDARD", Name: "Flat Rate", Rate: decimal.RequireFromString("4.99"), Currency: "USD"},
		},
	}
}

func seedCart(t *testing.T, f *checkoutFixture, price string) {
	t.Helper()
	_, err := f.carts.AddItem(context.Background(), "sess-1", cart.CartItem{
		ID:          "1-11",
		ProductID:   "1",
		VariantID:   "11",
		ProductName: "Alethrion Tee",
		VariantName: "Alethrion Tee / M",
		Price:       decimal.RequireFromString(price),
		Quantity:    2,
		InStock:     true,
	})
	if err != nil {
		t.Fatalf("seed cart failed: %v", err)
	}
}

func checkoutRequest() *Request {
	return &Request{
		Email:            "fan@example.com",
		ShippingMethodID: "STANDARD",
		Recipient:        catalog.ShippingRecipient{CountryCode: "US", ZIP: "90210"},
		Address:          order.Address{Name: "A. Fan", AddressLine1: "1 Main St", City: "Springfield", CountryCode: "US"},
	}
}

func TestCreateSessionRepricesFromCatalog(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, standardPricing())

	// The cart snapshot carries an outdated price; the charge must use the
	// live catalog price.
	seedCart(t, f, "19.99")

	redirect, err := f.svc.CreateSession(ctx, "sess-1", checkoutRequest())
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}
	if redirect.CheckoutURL != "https://checkout.stripe.test/cs_test_1" {
		t.Fatalf("unexpected redirect: %+v", redirect)
	}

	o, err := f.orders.GetByNumber(ctx, redirect.OrderNumber)
	if err != nil {
		t.Fatalf("order lookup failed: %v", err)
	}
	if !o.Subtotal.Equal(decimal.RequireFromString("59.98")) {
		t.Fatalf("subtotal must use catalog price, got %s", o.Subtotal)
	}
	if !o.Total.Equal(decimal.RequireFromString("64.97")) {
		t.Fatalf("total must include shipping, got %s", o.Total)
	}

	if len(f.stripe.params) != 1 {
		t.Fatalf("expected one payment session, got %d", len(f.stripe.params))
	}
	params := f.stripe.params[0]
	if params.LineItems[0].UnitAmount != 2999 || params.LineItems[0].Quantity != 2 {
		t.Fatalf("line item must carry catalog cents: %+v", params.LineItems[0])
	}
	if params.ShippingAmount != 499 {
		t.Fatalf("shipping amount wrong: %d", params.ShippingAmount)
	}
	if params.Metadata[metaOrderNumber] != redirect.OrderNumber || params.Metadata[metaCartSession] != "sess-1" {
		t.Fatalf("session metadata incomplete: %+v", params.Metadata)
	}
}

func TestCreateSessionEmptyCart(t *testing.T) {
	f := newFixture(t, standardPricing())
	if _, err := f.svc.CreateSession(context.Background(), "sess-1", checkoutRequest()); err == nil {
		t.Fatalf("empty cart must not check out")
	}
}

func TestCreateSessionUnknownShippingMethod(t *testing.T) {
	f := newFixture(t, standardPricing())
	seedCart(t, f, "29.99")

	req := checkoutRequest()
	req.ShippingMethodID = "OVERNIGHT"
	if _, err := f.svc.CreateSession(context.Background(), "sess-1", req); err == nil {
		t.Fatalf("unavailable shipping method must be rejected")
	}
}

func TestCreateSessionOutOfStockVariant(t *testing.T) {
	pricing := standardPricing()
	pricing.variants["1-11"].InStock = false

	f := newFixture(t, pricing)
	seedCart(t, f, "29.99")

	if _, err := f.svc.CreateSession(context.Background(), "sess-1", checkoutRequest()); err == nil {
		t.Fatalf("out of stock variant must be rejected")
	}
}

func webhookPayload(t *testing.T, eventID, eventType string, session CheckoutSession) []byte {
	t.Helper()
	object, err := json.Marshal(session)
	if err != nil {
		t.Fatalf("marshal session: %v", err)
	}
	payload, err := json.Marshal(map[string]interface{}{
		"id":   eventID,
		"type": eventType,
		"data": map[string]json.RawMessage{"object": object},
	})
	if err != nil {
		t.Fatalf("marshal event: %v", err)
	}
	return payload
}

func TestHandleWebhookCompletesOrder(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, standardPricing())
	seedCart(t, f, "29.99")

	redirect, err := f.svc.CreateSession(ctx, "sess-1", checkoutRequest())
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}

	now := time.Now()
	payload := webhookPayload(t, "evt_1", "checkout.session.completed", CheckoutSession{
		ID:              "cs_test_1",
		PaymentIntentID: "pi_1",
		Metadata:        map[string]string{metaOrderNumber: redirect.OrderNumber, metaCartSession: "sess-1"},
	})
	header := signPayload(payload, "whsec_test", now)

	if err := f.svc.HandleWebhook(ctx, payload, header); err != nil {
		t.Fatalf("webhook failed: %v", err)
	}

	o, err := f.orders.GetByNumber(ctx, redirect.OrderNumber)
	if err != nil {
		t.Fatalf("order lookup failed: %v", err)
	}
	if o.Status != order.OrderStatusPaid || o.PaymentIntentID != "pi_1" {
		t.Fatalf("order not settled: %+v", o)
	}

	// Cart is cleared once payment lands.
	c, err := f.carts.Get(ctx, "sess-1")
	if err != nil {
		t.Fatalf("cart load failed: %v", err)
	}
	if len(c.Items) != 0 {
		t.Fatalf("cart should be empty after payment, got %d items", len(c.Items))
	}

	if len(f.mailer.sent) != 1 || f.mailer.sent[0] != redirect.OrderNumber {
		t.Fatalf("confirmation not sent: %+v", f.mailer.sent)
	}

	// Redelivery of the same event changes nothing and sends no second mail.
	if err := f.svc.HandleWebhook(ctx, payload, signPayload(payload, "whsec_test", time.Now())); err != nil {
		t.Fatalf("redelivery failed: %v", err)
	}
	if len(f.mailer.sent) != 1 {
		t.Fatalf("duplicate event must not resend confirmation")
	}
}

func TestHandleWebhookRejectsBadSignature(t *testing.T) {
	f := newFixture(t, standardPricing())

	payload := webhookPayload(t, "evt_1", "checkout.session.completed", CheckoutSession{ID: "cs_test_1"})
	header := signPayload(payload, "whsec_wrong", time.Now())

	if err := f.svc.HandleWebhook(context.Background(), payload, header); err == nil {
		t.Fatalf("forged signature must be rejected")
	}
}

func TestHandleWebhookExpiredSessionCancelsPending(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, standardPricing())
	seedCart(t, f, "29.99")

	redirect, err := f.svc.CreateSession(ctx, "sess-1", checkoutRequest())
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}

	payload := webhookPayload(t, "evt_2", "checkout.session.expired", CheckoutSession{ID: "cs_test_1"})
	if err := f.svc.HandleWebhook(ctx, payload, signPayload(payload, "whsec_test", time.Now())); err != nil {
		t.Fatalf("webhook failed: %v", err)
	}

	o, err := f.orders.GetByNumber(ctx, redirect.OrderNumber)
	if err != nil {
		t.Fatalf("order lookup failed: %v", err)
	}
	if o.Status != order.OrderStatusCancelled {
		t.Fatalf("expired session should cancel pending order, got %s", o.Status)
	}
}
