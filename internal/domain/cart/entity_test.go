package cart

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func testItem(productID, variantID string, price string, quantity int) CartItem {
	return CartItem{
		ID:          ItemID(productID, variantID),
		ProductID:   productID,
		VariantID:   variantID,
		ProductName: "Test Product",
		VariantName: "M",
		Price:       decimal.RequireFromString(price),
		Quantity:    quantity,
		InStock:     true,
	}
}

func TestNewCartExpiresInExactlySevenDays(t *testing.T) {
	now := time.Now().UTC()
	c := New(now, 7)

	if got := c.ExpiresAt - c.CreatedAt; got != 7*24*60*60*1000 {
		t.Fatalf("expiry window = %d ms, want exactly 7 days", got)
	}
	if c.IsExpired(now) {
		t.Fatalf("fresh cart must not be expired")
	}
	if len(c.Items) != 0 {
		t.Fatalf("fresh cart must be empty")
	}
}

func TestAddItemMergesDuplicates(t *testing.T) {
	now := time.Now().UTC()
	c := New(now, 7)

	c.AddItem(testItem("p1", "v1", "29.99", 2), now)
	c.AddItem(testItem("p1", "v1", "24.99", 3), now.Add(time.Minute))

	if len(c.Items) != 1 {
		t.Fatalf("duplicate add should merge, got %d lines", len(c.Items))
	}
	if c.Items[0].Quantity != 5 {
		t.Fatalf("merged quantity = %d, want 5", c.Items[0].Quantity)
	}
	// Latest snapshot wins for mutable fields.
	if !c.Items[0].Price.Equal(decimal.RequireFromString("24.99")) {
		t.Fatalf("merged price = %s, want the incoming snapshot", c.Items[0].Price)
	}
}

func TestAddItemClampsToAvailableQuantity(t *testing.T) {
	now := time.Now().UTC()
	c := New(now, 7)

	available := 4
	first := testItem("p1", "v1", "29.99", 3)
	first.AvailableQuantity = &available
	second := testItem("p1", "v1", "29.99", 3)
	second.AvailableQuantity = &available

	c.AddItem(first, now)
	c.AddItem(second, now)

	if c.Items[0].Quantity != 4 {
		t.Fatalf("quantity = %d, want clamp to available 4", c.Items[0].Quantity)
	}
}

func TestAddItemPreservesInsertionOrder(t *testing.T) {
	now := time.Now().UTC()
	c := New(now, 7)

	c.AddItem(testItem("p1", "v1", "10.00", 1), now)
	c.AddItem(testItem("p2", "v1", "10.00", 1), now)
	c.AddItem(testItem("p1", "v2", "10.00", 1), now)
	c.AddItem(testItem("p2", "v1", "12.00", 1), now) // merge, not move

	ids := []string{"p1-v1", "p2-v1", "p1-v2"}
	if len(c.Items) != len(ids) {
		t.Fatalf("got %d lines, want %d", len(c.Items), len(ids))
	}
	for i, id := range ids {
		if c.Items[i].ID != id {
			t.Fatalf("line %d = %s, want %s", i, c.Items[i].ID, id)
		}
	}
}

func TestUpdateQuantityZeroRemovesLine(t *testing.T) {
	now := time.Now().UTC()
	c := New(now, 7)
	c.AddItem(testItem("p1", "v1", "10.00", 1), now)
	c.AddItem(testItem("p2", "v1", "20.00", 2), now)

	c.UpdateQuantity("p1-v1", 0, now)

	if len(c.Items) != 1 {
		t.Fatalf("got %d lines, want 1", len(c.Items))
	}
	if c.Items[0].ID != "p2-v1" || c.Items[0].Quantity != 2 {
		t.Fatalf("surviving line changed: %+v", c.Items[0])
	}
}

func TestUpdateQuantityDoesNotClamp(t *testing.T) {
	now := time.Now().UTC()
	c := New(now, 7)

	available := 3
	item := testItem("p1", "v1", "10.00", 1)
	item.AvailableQuantity = &available
	c.AddItem(item, now)

	// Quantity updates are not clamped; the excess is surfaced by Validate.
	c.UpdateQuantity("p1-v1", 10, now)

	if c.Items[0].Quantity != 10 {
		t.Fatalf("quantity = %d, want unclamped 10", c.Items[0].Quantity)
	}
	result := c.Validate()
	if result.Valid || len(result.QuantityExceededItems) != 1 {
		t.Fatalf("validation should flag the excess: %+v", result)
	}
}

func TestRemoveItemAbsentIsNoOp(t *testing.T) {
	now := time.Now().UTC()
	c := New(now, 7)
	c.AddItem(testItem("p1", "v1", "10.00", 1), now)
	c.AddItem(testItem("p2", "v1", "20.00", 2), now)

	c.RemoveItem("ghost", now)

	if len(c.Items) != 2 {
		t.Fatalf("no-op removal changed the cart: %d lines", len(c.Items))
	}
	if c.Items[0].ID != "p1-v1" || c.Items[1].ID != "p2-v1" {
		t.Fatalf("line order changed: %+v", c.Items)
	}
}

func TestTotalAndItemCount(t *testing.T) {
	now := time.Now().UTC()
	c := New(now, 7)

	if !c.Total().IsZero() || c.ItemCount() != 0 {
		t.Fatalf("empty cart should total zero")
	}

	c.AddItem(testItem("p1", "v1", "29.99", 2), now)
	c.AddItem(testItem("p2", "v1", "19.99", 1), now)

	if want := decimal.RequireFromString("79.97"); !c.Total().Equal(want) {
		t.Fatalf("total = %s, want %s", c.Total(), want)
	}
	if c.ItemCount() != 3 {
		t.Fatalf("item count = %d, want 3", c.ItemCount())
	}
}

func TestExpiryBoundary(t *testing.T) {
	now := time.Now().UTC()
	c := New(now, 7)

	expiry := time.UnixMilli(c.ExpiresAt)
	if c.IsExpired(expiry.Add(-time.Millisecond)) {
		t.Fatalf("cart expired before its expiry instant")
	}
	// now >= expiresAt counts as expired.
	if !c.IsExpired(expiry) {
		t.Fatalf("cart must be expired exactly at its expiry instant")
	}
}

func TestDaysUntilExpiration(t *testing.T) {
	now := time.Now().UTC()
	c := New(now, 7)

	if got := c.DaysUntilExpiration(now); got != 7 {
		t.Fatalf("fresh cart has %d days left, want 7", got)
	}
	if got := c.DaysUntilExpiration(now.Add(6*24*time.Hour + time.Hour)); got != 1 {
		t.Fatalf("partial day should round up: got %d, want 1", got)
	}
	if got := c.DaysUntilExpiration(now.Add(10 * 24 * time.Hour)); got != 0 {
		t.Fatalf("expired cart has %d days left, want 0", got)
	}
}

func TestValidateOutOfStock(t *testing.T) {
	now := time.Now().UTC()
	c := New(now, 7)

	good := testItem("p1", "v1", "10.00", 1)
	gone := testItem("p2", "v1", "20.00", 1)
	gone.InStock = false
	c.AddItem(good, now)
	c.AddItem(gone, now)

	result := c.Validate()
	if result.Valid {
		t.Fatalf("cart with an out-of-stock line must not validate")
	}
	if len(result.OutOfStockItems) != 1 || result.OutOfStockItems[0].ID != "p2-v1" {
		t.Fatalf("wrong out-of-stock subset: %+v", result.OutOfStockItems)
	}
	if len(result.QuantityExceededItems) != 0 {
		t.Fatalf("unexpected quantity-exceeded subset: %+v", result.QuantityExceededItems)
	}
}
