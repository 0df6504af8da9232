package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/needmomatcha/stockwatch/internal/state"
)

func TestProducts_AnnotatesMonitoredAndStock(t *testing.T) {
	store := registeredStore(t)
	ctx := context.Background()
	if err := store.UpsertStockRecord(ctx, "ikuyo_100g", true, time.Now().UTC()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	h := ProductsHandler{Store: store, Catalog: mustCatalog(t)}

	req := httptest.NewRequest(http.MethodGet, "/v1/products", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, asUser(req, "u1"))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp struct {
		Items []productView `json:"items"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Items) != mustCatalog(t).Len() {
		t.Fatalf("expected the full catalog, got %d items", len(resp.Items))
	}

	byID := make(map[string]productView, len(resp.Items))
	for _, item := range resp.Items {
		byID[item.ID] = item
	}

	ikuyo := byID["ikuyo_100g"]
	if !ikuyo.Monitored {
		t.Fatalf("expected ikuyo_100g monitored for u1: %#v", ikuyo)
	}
	if ikuyo.Stock != "available" {
		t.Fatalf("expected known stock, got %q", ikuyo.Stock)
	}

	kan := byID["kan_30g"]
	if kan.Monitored {
		t.Fatalf("kan_30g must not be monitored for u1")
	}
	if kan.Stock != "unknown" {
		t.Fatalf("never-observed variant must report unknown, got %q", kan.Stock)
	}
}

func TestProducts_PreservesCatalogOrder(t *testing.T) {
	h := ProductsHandler{Store: state.NewMemoryStore(), Catalog: mustCatalog(t)}

	req := httptest.NewRequest(http.MethodGet, "/v1/products", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, asUser(req, "u1"))

	var resp struct {
		Items []productView `json:"items"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Items[0].ID != "ummon_40g" {
		t.Fatalf("expected website order, got %s first", resp.Items[0].ID)
	}
}
