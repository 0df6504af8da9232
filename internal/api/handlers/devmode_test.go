package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/needmomatcha/stockwatch/internal/domain"
	"github.com/needmomatcha/stockwatch/internal/state"
)

func devModeOf(t *testing.T, body []byte) domain.DevMode {
	t.Helper()
	var resp struct {
		DevMode domain.DevMode `json:"dev_mode"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp.DevMode
}

func TestDevMode_AdminOnly(t *testing.T) {
	h := DevModeHandler{Store: state.NewMemoryStore()}

	req := httptest.NewRequest(http.MethodGet, "/v1/devmode", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, asUser(req, "u1"))

	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-admin, got %d", rr.Code)
	}
}

func TestDevMode_EnableAndDisable(t *testing.T) {
	store := state.NewMemoryStore()
	h := DevModeHandler{Store: store}

	req := httptest.NewRequest(http.MethodPut, "/v1/devmode",
		strings.NewReader(`{"enabled":true,"user_id":"u1"}`))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, asAdmin(req))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	mode := devModeOf(t, rr.Body.Bytes())
	if !mode.Enabled || mode.UserID != "u1" {
		t.Fatalf("unexpected dev mode: %#v", mode)
	}

	req = httptest.NewRequest(http.MethodPut, "/v1/devmode", strings.NewReader(`{"enabled":false}`))
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, asAdmin(req))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if mode := devModeOf(t, rr.Body.Bytes()); mode.Enabled {
		t.Fatalf("expected disabled, got %#v", mode)
	}

	stored, ok, err := store.GetDevMode(context.Background())
	if err != nil || !ok {
		t.Fatalf("expected persisted record, ok=%v err=%v", ok, err)
	}
	if stored.Enabled {
		t.Fatalf("expected disabled in store, got %#v", stored)
	}
}

func TestDevMode_EnableWithoutTargetKeepsPrevious(t *testing.T) {
	store := state.NewMemoryStore()
	if err := store.SetDevMode(context.Background(), domain.DevMode{Enabled: false, UserID: "u1"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	h := DevModeHandler{Store: store}

	req := httptest.NewRequest(http.MethodPut, "/v1/devmode", strings.NewReader(`{"enabled":true}`))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, asAdmin(req))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	mode := devModeOf(t, rr.Body.Bytes())
	if !mode.Enabled || mode.UserID != "u1" {
		t.Fatalf("expected previous target to be kept, got %#v", mode)
	}
}

func TestDevMode_EnableWithoutAnyTarget(t *testing.T) {
	h := DevModeHandler{Store: state.NewMemoryStore()}

	req := httptest.NewRequest(http.MethodPut, "/v1/devmode", strings.NewReader(`{"enabled":true}`))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, asAdmin(req))

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rr.Code, rr.Body.String())
	}
	if !strings.Contains(rr.Body.String(), "missing_user_id") {
		t.Fatalf("expected missing_user_id error: %s", rr.Body.String())
	}
}
