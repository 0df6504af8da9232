package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/needmomatcha/stockwatch/internal/state"
)

func registeredStore(t *testing.T) *state.MemoryStore {
	t.Helper()
	s := state.NewMemoryStore()
	if _, err := s.RegisterUser(context.Background(), "u1", "Alice", []string{"ikuyo_100g"}, time.Now().UTC()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return s
}

func subscriptionIDs(t *testing.T, body []byte) []string {
	t.Helper()
	var resp struct {
		Subscription struct {
			VariantIDs []string `json:"variant_ids"`
		} `json:"subscription"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp.Subscription.VariantIDs
}

func TestParseSubscriptionPath(t *testing.T) {
	cases := []struct {
		path       string
		wantUser   string
		wantAction string
		wantOK     bool
	}{
		{"/v1/users/u1/subscriptions", "u1", "", true},
		{"/v1/users/u1/subscriptions:add", "u1", "add", true},
		{"/v1/users/u1/subscriptions:remove", "u1", "remove", true},
		{"/v1/users/u1/subscriptions:reset", "u1", "reset", true},
		{"/v1/users/u1/subscriptions:", "", "", false},
		{"/v1/users//subscriptions", "", "", false},
		{"/v1/users/u1/other", "", "", false},
		{"/v1/products", "", "", false},
	}

	for _, tc := range cases {
		user, action, ok := parseSubscriptionPath(tc.path)
		if user != tc.wantUser || action != tc.wantAction || ok != tc.wantOK {
			t.Fatalf("%s: got (%q, %q, %v), want (%q, %q, %v)",
				tc.path, user, action, ok, tc.wantUser, tc.wantAction, tc.wantOK)
		}
	}
}

func TestSubscriptions_GetOwn(t *testing.T) {
	h := SubscriptionsHandler{Store: registeredStore(t), Catalog: mustCatalog(t)}

	req := httptest.NewRequest(http.MethodGet, "/v1/users/u1/subscriptions", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, asUser(req, "u1"))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	ids := subscriptionIDs(t, rr.Body.Bytes())
	if len(ids) != 1 || ids[0] != "ikuyo_100g" {
		t.Fatalf("unexpected subscription: %v", ids)
	}
}

func TestSubscriptions_OtherUserForbidden(t *testing.T) {
	h := SubscriptionsHandler{Store: registeredStore(t), Catalog: mustCatalog(t)}

	req := httptest.NewRequest(http.MethodGet, "/v1/users/u1/subscriptions", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, asUser(req, "u2"))

	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rr.Code)
	}
}

func TestSubscriptions_ReplaceRejectsUnknownVariant(t *testing.T) {
	h := SubscriptionsHandler{Store: registeredStore(t), Catalog: mustCatalog(t)}

	req := httptest.NewRequest(http.MethodPut, "/v1/users/u1/subscriptions",
		strings.NewReader(`{"variant_ids":["no_such_matcha"]}`))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, asUser(req, "u1"))

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rr.Code, rr.Body.String())
	}
	if !strings.Contains(rr.Body.String(), "unknown_variant") {
		t.Fatalf("expected unknown_variant error: %s", rr.Body.String())
	}
}

func TestSubscriptions_ReplaceDeduplicates(t *testing.T) {
	h := SubscriptionsHandler{Store: registeredStore(t), Catalog: mustCatalog(t)}

	req := httptest.NewRequest(http.MethodPut, "/v1/users/u1/subscriptions",
		strings.NewReader(`{"variant_ids":["kan_30g","kan_30g","wakaki_40g"]}`))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, asUser(req, "u1"))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	ids := subscriptionIDs(t, rr.Body.Bytes())
	if len(ids) != 2 {
		t.Fatalf("expected deduplicated set, got %v", ids)
	}
}

func TestSubscriptions_AddAndRemove(t *testing.T) {
	h := SubscriptionsHandler{Store: registeredStore(t), Catalog: mustCatalog(t)}

	req := httptest.NewRequest(http.MethodPost, "/v1/users/u1/subscriptions:add",
		strings.NewReader(`{"variant_id":"kan_30g"}`))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, asUser(req, "u1"))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if ids := subscriptionIDs(t, rr.Body.Bytes()); len(ids) != 2 {
		t.Fatalf("expected 2 variants after add, got %v", ids)
	}

	req = httptest.NewRequest(http.MethodPost, "/v1/users/u1/subscriptions:remove",
		strings.NewReader(`{"variant_id":"ikuyo_100g"}`))
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, asUser(req, "u1"))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	ids := subscriptionIDs(t, rr.Body.Bytes())
	if len(ids) != 1 || ids[0] != "kan_30g" {
		t.Fatalf("unexpected subscription after remove: %v", ids)
	}
}

func TestSubscriptions_AddExistingIsNoOp(t *testing.T) {
	h := SubscriptionsHandler{Store: registeredStore(t), Catalog: mustCatalog(t)}

	req := httptest.NewRequest(http.MethodPost, "/v1/users/u1/subscriptions:add",
		strings.NewReader(`{"variant_id":"ikuyo_100g"}`))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, asUser(req, "u1"))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}

	var resp struct {
		Changed bool `json:"changed"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Changed {
		t.Fatalf("adding an existing variant must report changed=false")
	}
}

func TestSubscriptions_ResetRestoresDefault(t *testing.T) {
	store := registeredStore(t)
	h := SubscriptionsHandler{Store: store, Catalog: mustCatalog(t)}

	if err := store.SetSubscription(context.Background(), "u1", []string{"kan_30g", "wakaki_40g"}, time.Now().UTC()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/v1/users/u1/subscriptions:reset", strings.NewReader(`{}`))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, asUser(req, "u1"))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	ids := subscriptionIDs(t, rr.Body.Bytes())
	if len(ids) != 1 || ids[0] != "ikuyo_100g" {
		t.Fatalf("expected default subscription after reset, got %v", ids)
	}
}

func TestSubscriptions_UnregisteredUser(t *testing.T) {
	h := SubscriptionsHandler{Store: state.NewMemoryStore(), Catalog: mustCatalog(t)}

	req := httptest.NewRequest(http.MethodPut, "/v1/users/ghost/subscriptions",
		strings.NewReader(`{"variant_ids":["ikuyo_100g"]}`))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, asUser(req, "ghost"))

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", rr.Code, rr.Body.String())
	}
	if !strings.Contains(rr.Body.String(), "not_registered") {
		t.Fatalf("expected not_registered error: %s", rr.Body.String())
	}
}
