// internal/interfaces/http/middleware/flags_test.go
package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/xavisavvy/toa-website-sub001/internal/pkg/flags"
)

func guardedRouter(t *testing.T, registry *flags.Registry, flagName string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(RequestID())
	r.GET("/guarded", RequireFlag(registry, flagName), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "ok"})
	})
	return r
}

func TestRequireFlagAnswers404WhenGatedOff(t *testing.T) {
	registry := flags.NewRegistry("production", map[string]flags.Flag{
		"store": {Name: "store", Enabled: false},
	}, nil, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
	guardedRouter(t, registry, "store").ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("gated-off route should answer 404, got %d", w.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("guard response should be JSON: %v", err)
	}
	if body["error"] != "Not found" {
		t.Fatalf("unexpected error field: %q", body["error"])
	}
	if body["message"] != "This feature is not available" {
		t.Fatalf("unexpected message field: %q", body["message"])
	}
}

func TestRequireFlagPassesWhenEnabled(t *testing.T) {
	registry := flags.NewRegistry("production", map[string]flags.Flag{
		"store": {Name: "store", Enabled: true},
	}, nil, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
	guardedRouter(t, registry, "store").ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("enabled flag should let the request through, got %d", w.Code)
	}
}

func TestRequireFlagUsesRequestContextForRollout(t *testing.T) {
	zero := 0
	registry := flags.NewRegistry("production", map[string]flags.Flag{
		"store": {Name: "store", Enabled: true, RolloutPercentage: &zero},
	}, nil, nil)

	// The guard builds its evaluation context from the request id, so a 0%
	// rollout must gate off any request carrying one.
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
	req.Header.Set("X-Request-ID", "req-abc-123")
	guardedRouter(t, registry, "store").ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("0%% rollout should gate the route off, got %d", w.Code)
	}
}
