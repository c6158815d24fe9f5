package cache

import (
	"context"
	"testing"
	"time"
)

func TestIsFreshBoundaryIsExclusive(t *testing.T) {
	now := time.Now().UTC()

	// Exactly at the boundary: already expired.
	if IsFresh(now.Add(-60*time.Second).UnixMilli(), 60*time.Second, now) {
		t.Fatalf("value exactly at max age should not be fresh")
	}

	// One millisecond inside the window: still fresh.
	if !IsFresh(now.Add(-59999*time.Millisecond).UnixMilli(), 60*time.Second, now) {
		t.Fatalf("value inside max age should be fresh")
	}

	// Just past the boundary.
	if IsFresh(now.Add(-61*time.Second).UnixMilli(), 60*time.Second, now) {
		t.Fatalf("value past max age should not be fresh")
	}
}

func TestSetPreservesSiblingKeys(t *testing.T) {
	ctx := context.Background()
	c := New(NewMemoryStore(), "videos")

	if err := c.SetJSON(ctx, "playlist-a", []string{"ep1", "ep2"}); err != nil {
		t.Fatalf("set playlist-a failed: %v", err)
	}
	if err := c.SetJSON(ctx, "playlist-b", []string{"ep9"}); err != nil {
		t.Fatalf("set playlist-b failed: %v", err)
	}

	var a []string
	if _, ok, err := c.GetJSON(ctx, "playlist-a", &a); err != nil || !ok {
		t.Fatalf("playlist-a should survive a sibling write: ok=%v err=%v", ok, err)
	}
	if len(a) != 2 || a[0] != "ep1" {
		t.Fatalf("playlist-a payload changed: %v", a)
	}
}

func TestGetJSONMissingKey(t *testing.T) {
	ctx := context.Background()
	c := New(NewMemoryStore(), "videos")

	var dest []string
	ts, ok, err := c.GetJSON(ctx, "nope", &dest)
	if err != nil {
		t.Fatalf("missing key must not error: %v", err)
	}
	if ok || ts != 0 {
		t.Fatalf("expected miss, got ok=%v ts=%d", ok, ts)
	}
}

func TestGetJSONCorruptEntryIsAMiss(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	c := New(store, "videos")

	err := store.Set(ctx, "videos", "bad", &Entry{
		Data:      []byte("{not json"),
		Timestamp: time.Now().UnixMilli(),
	})
	if err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	var dest map[string]string
	_, ok, err := c.GetJSON(ctx, "bad", &dest)
	if err != nil {
		t.Fatalf("corrupt entry must not error: %v", err)
	}
	if ok {
		t.Fatalf("corrupt entry should be reported as a miss")
	}

	// The corrupt blob is dropped, so the next read misses cleanly too.
	if _, found, _ := store.Get(ctx, "videos", "bad"); found {
		t.Fatalf("corrupt entry should have been deleted")
	}
}

func TestPurgeDropsNamespaceOnly(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	videos := New(store, "videos")
	products := New(store, "products")

	if err := videos.SetJSON(ctx, "a", "x"); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	if err := products.SetJSON(ctx, "a", "y"); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	if err := store.Purge(ctx, "videos"); err != nil {
		t.Fatalf("purge failed: %v", err)
	}

	var s string
	if _, ok, _ := videos.GetJSON(ctx, "a", &s); ok {
		t.Fatalf("purged namespace should be empty")
	}
	if _, ok, _ := products.GetJSON(ctx, "a", &s); !ok {
		t.Fatalf("sibling namespace should survive a purge")
	}
}
