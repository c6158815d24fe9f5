package order

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func testService(t *testing.T) *Service {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.AutoMigrate(&Order{}, &OrderItem{}, &WebhookEvent{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return &Service{
		db:     db,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func pendingOrder(email string) *Order {
	return &Order{
		Email:        email,
		Currency:     "USD",
		Subtotal:     decimal.RequireFromString("59.98"),
		ShippingCost: decimal.RequireFromString("4.99"),
		Total:        decimal.RequireFromString("64.97"),
		Items: []OrderItem{
			{
				ProductID:   "1",
				VariantID:   "11",
				Name:        "Alethrion Tee",
				VariantName: "Alethrion Tee / M",
				Quantity:    2,
				UnitPrice:   decimal.RequireFromString("29.99"),
				TotalPrice:  decimal.RequireFromString("59.98"),
			},
		},
	}
}

func TestCreatePendingAssignsOrderNumber(t *testing.T) {
	ctx := context.Background()
	svc := testService(t)

	o := pendingOrder("fan@example.com")
	if err := svc.CreatePending(ctx, o); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if o.OrderNumber == "" || o.Status != OrderStatusPending {
		t.Fatalf("order not initialized: %+v", o)
	}

	loaded, err := svc.GetByNumber(ctx, o.OrderNumber)
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if len(loaded.Items) != 1 || !loaded.Total.Equal(decimal.RequireFromString("64.97")) {
		t.Fatalf("loaded order mismatch: %+v", loaded)
	}
}

func TestMarkPaidTransitionsOrder(t *testing.T) {
	ctx := context.Background()
	svc := testService(t)

	o := pendingOrder("fan@example.com")
	if err := svc.CreatePending(ctx, o); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if err := svc.AttachSession(ctx, o.OrderNumber, "cs_test_123"); err != nil {
		t.Fatalf("attach session failed: %v", err)
	}

	paid, processed, err := svc.MarkPaid(ctx, "evt_1", "checkout.session.completed", "cs_test_123", "pi_456")
	if err != nil {
		t.Fatalf("mark paid failed: %v", err)
	}
	if !processed {
		t.Fatalf("first delivery should be processed")
	}
	if paid.Status != OrderStatusPaid || paid.PaidAt == nil || paid.PaymentIntentID != "pi_456" {
		t.Fatalf("order not marked paid: %+v", paid)
	}
}

func TestMarkPaidIsIdempotent(t *testing.T) {
	ctx := context.Background()
	svc := testService(t)

	o := pendingOrder("fan@example.com")
	if err := svc.CreatePending(ctx, o); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if err := svc.AttachSession(ctx, o.OrderNumber, "cs_test_123"); err != nil {
		t.Fatalf("attach session failed: %v", err)
	}

	if _, _, err := svc.MarkPaid(ctx, "evt_1", "checkout.session.completed", "cs_test_123", "pi_456"); err != nil {
		t.Fatalf("first delivery failed: %v", err)
	}

	// Stripe redelivers the same event.
	_, processed, err := svc.MarkPaid(ctx, "evt_1", "checkout.session.completed", "cs_test_123", "pi_456")
	if err != nil {
		t.Fatalf("redelivery should not error: %v", err)
	}
	if processed {
		t.Fatalf("duplicate event id must be skipped")
	}

	loaded, err := svc.GetBySession(ctx, "cs_test_123")
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if loaded.Status != OrderStatusPaid {
		t.Fatalf("order should remain paid, got %s", loaded.Status)
	}
}

func TestMarkPaidUnknownSession(t *testing.T) {
	ctx := context.Background()
	svc := testService(t)

	if _, _, err := svc.MarkPaid(ctx, "evt_9", "checkout.session.completed", "cs_missing", "pi_1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCancelBySessionOnlyCancelsPending(t *testing.T) {
	ctx := context.Background()
	svc := testService(t)

	o := pendingOrder("fan@example.com")
	if err := svc.CreatePending(ctx, o); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if err := svc.AttachSession(ctx, o.OrderNumber, "cs_test_123"); err != nil {
		t.Fatalf("attach session failed: %v", err)
	}
	if _, _, err := svc.MarkPaid(ctx, "evt_1", "checkout.session.completed", "cs_test_123", "pi_456"); err != nil {
		t.Fatalf("mark paid failed: %v", err)
	}

	// Expiry webhook arriving after payment must not cancel a paid order.
	if err := svc.CancelBySession(ctx, "cs_test_123"); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	loaded, _ := svc.GetBySession(ctx, "cs_test_123")
	if loaded.Status != OrderStatusPaid {
		t.Fatalf("paid order must not be cancelled, got %s", loaded.Status)
	}
}

func TestListFiltersByStatus(t *testing.T) {
	ctx := context.Background()
	svc := testService(t)

	first := pendingOrder("a@example.com")
	second := pendingOrder("b@example.com")
	if err := svc.CreatePending(ctx, first); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if err := svc.CreatePending(ctx, second); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if err := svc.AttachSession(ctx, second.OrderNumber, "cs_2"); err != nil {
		t.Fatalf("attach session failed: %v", err)
	}
	if _, _, err := svc.MarkPaid(ctx, "evt_2", "checkout.session.completed", "cs_2", "pi_2"); err != nil {
		t.Fatalf("mark paid failed: %v", err)
	}

	paid, total, err := svc.List(ctx, OrderStatusPaid, 20, 0)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 1 || len(paid) != 1 || paid[0].Email != "b@example.com" {
		t.Fatalf("unexpected list result: total=%d orders=%+v", total, paid)
	}

	all, total, err := svc.List(ctx, "", 20, 0)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 2 || len(all) != 2 {
		t.Fatalf("expected both orders, got total=%d", total)
	}
}

func TestMarkFulfilledRequiresPaid(t *testing.T) {
	ctx := context.Background()
	svc := testService(t)

	o := pendingOrder("fan@example.com")
	if err := svc.CreatePending(ctx, o); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if err := svc.MarkFulfilled(ctx, o.OrderNumber); !errors.Is(err, ErrNotFound) {
		t.Fatalf("pending order must not be fulfillable, got %v", err)
	}
}
