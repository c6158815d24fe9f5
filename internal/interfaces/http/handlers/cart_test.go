// internal/interfaces/http/handlers/cart_test.go
package handlers

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/xavisavvy/toa-website-sub001/internal/config"
	"github.com/xavisavvy/toa-website-sub001/internal/domain/cart"
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

func cartRouter(t *testing.T) (*gin.Engine, *cart.Service, *config.Config) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	cfg := &config.Config{}
	cfg.Cart.ExpiryDays = 7
	cfg.Cart.CookieName = "cart_session"
	cfg.Cart.CookieMaxAge = 7 * 24 * 60 * 60

	carts := cart.NewService(newMemStore(), cfg, logger)
	h := NewCartHandler(carts, nil, cfg)

	r := gin.New()
	r.GET("/cart", h.GetCart)
	r.PUT("/cart/items/:id", h.UpdateCartItem)
	return r, carts, cfg
}

func seedLine(t *testing.T, carts *cart.Service, sessionID string, quantity int) string {
	t.Helper()

	itemID := cart.ItemID("1", "11")
	_, err := carts.AddItem(context.Background(), sessionID, cart.CartItem{
		ID:          itemID,
		ProductID:   "1",
		VariantID:   "11",
		ProductName: "Alethrion Tee",
		VariantName: "Alethrion Tee / M",
		Price:       decimal.RequireFromString("29.99"),
		Quantity:    quantity,
		InStock:     true,
	})
	if err != nil {
		t.Fatalf("failed to seed cart: %v", err)
	}
	return itemID
}

func TestUpdateCartItemNegativeQuantityRemovesLine(t *testing.T) {
	r, carts, cfg := cartRouter(t)
	itemID := seedLine(t, carts, "sess-1", 2)

	body := bytes.NewBufferString(`{"quantity": -1}`)
	req := httptest.NewRequest(http.MethodPut, "/cart/items/"+itemID, body)
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(&http.Cookie{Name: cfg.Cart.CookieName, Value: "sess-1"})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	// Zero-or-less means remove; the API must not reject negatives.
	if w.Code != http.StatusOK {
		t.Fatalf("negative quantity should remove the line, got status %d: %s", w.Code, w.Body.String())
	}

	c, err := carts.Get(context.Background(), "sess-1")
	if err != nil {
		t.Fatalf("failed to reload cart: %v", err)
	}
	if len(c.Items) != 0 {
		t.Fatalf("expected empty cart after negative-quantity update, got %d items", len(c.Items))
	}
}

func TestUpdateCartItemSetsQuantity(t *testing.T) {
	r, carts, cfg := cartRouter(t)
	itemID := seedLine(t, carts, "sess-2", 2)

	body := bytes.NewBufferString(`{"quantity": 5}`)
	req := httptest.NewRequest(http.MethodPut, "/cart/items/"+itemID, body)
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(&http.Cookie{Name: cfg.Cart.CookieName, Value: "sess-2"})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("update failed with status %d: %s", w.Code, w.Body.String())
	}

	c, err := carts.Get(context.Background(), "sess-2")
	if err != nil {
		t.Fatalf("failed to reload cart: %v", err)
	}
	if len(c.Items) != 1 || c.Items[0].Quantity != 5 {
		t.Fatalf("expected one line with quantity 5, got %+v", c.Items)
	}
}
