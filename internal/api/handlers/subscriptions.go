package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/needmomatcha/stockwatch/internal/api/authctx"
	"github.com/needmomatcha/stockwatch/internal/catalog"
	"github.com/needmomatcha/stockwatch/internal/state"
)

// SubscriptionsHandler serves /v1/users/{user_id}/subscriptions and its
// :add / :remove / :reset actions, mirroring the chat commands /add,
// /remove and /default.
type SubscriptionsHandler struct {
	Store   state.Store
	Catalog catalog.Catalog
}

type setSubscriptionRequest struct {
	VariantIDs []string `json:"variant_ids"`
}

type variantActionRequest struct {
	VariantID string `json:"variant_id"`
}

func (h SubscriptionsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	userID, action, ok := parseSubscriptionPath(r.URL.Path)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]any{
			"error":   "not_found",
			"message": "not found",
		})
		return
	}

	if !authctx.CanAccess(r.Context(), userID) {
		writeJSON(w, http.StatusForbidden, map[string]any{
			"error":   "forbidden",
			"message": "cannot access another user's subscriptions",
		})
		return
	}

	switch {
	case action == "" && r.Method == http.MethodGet:
		h.get(w, r, userID)
	case action == "" && r.Method == http.MethodPut:
		h.replace(w, r, userID)
	case action == "add" && r.Method == http.MethodPost:
		h.add(w, r, userID)
	case action == "remove" && r.Method == http.MethodPost:
		h.remove(w, r, userID)
	case action == "reset" && r.Method == http.MethodPost:
		h.set(w, r, userID, h.Catalog.DefaultVariantIDs())
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// parseSubscriptionPath splits /v1/users/{user_id}/subscriptions[:action].
func parseSubscriptionPath(path string) (userID, action string, ok bool) {
	const prefix = "/v1/users/"
	if !strings.HasPrefix(path, prefix) {
		return "", "", false
	}

	rest := strings.TrimPrefix(path, prefix)
	i := strings.IndexByte(rest, '/')
	if i <= 0 {
		return "", "", false
	}

	userID = rest[:i]
	tail := rest[i+1:]

	if tail == "subscriptions" {
		return userID, "", true
	}
	if strings.HasPrefix(tail, "subscriptions:") {
		action = strings.TrimPrefix(tail, "subscriptions:")
		if action == "" {
			return "", "", false
		}
		return userID, action, true
	}
	return "", "", false
}

func (h SubscriptionsHandler) get(w http.ResponseWriter, r *http.Request, userID string) {
	sub, ok, err := h.Store.GetSubscription(r.Context(), userID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"error":   "read_subscription_failed",
			"message": err.Error(),
		})
		return
	}
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]any{
			"error":   "not_registered",
			"message": "user is not registered",
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"subscription": sub,
	})
}

func (h SubscriptionsHandler) replace(w http.ResponseWriter, r *http.Request, userID string) {
	var req setSubscriptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error":   "invalid_body",
			"message": "body must be JSON with variant_ids",
		})
		return
	}

	h.set(w, r, userID, req.VariantIDs)
}

func (h SubscriptionsHandler) add(w http.ResponseWriter, r *http.Request, userID string) {
	variantID, ok := h.decodeVariantAction(w, r)
	if !ok {
		return
	}

	sub, registered, err := h.Store.GetSubscription(r.Context(), userID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"error":   "read_subscription_failed",
			"message": err.Error(),
		})
		return
	}
	if !registered {
		writeJSON(w, http.StatusNotFound, map[string]any{
			"error":   "not_registered",
			"message": "user is not registered",
		})
		return
	}

	if sub.Monitors(variantID) {
		writeJSON(w, http.StatusOK, map[string]any{
			"changed":      false,
			"subscription": sub,
		})
		return
	}

	h.set(w, r, userID, append(sub.VariantIDs, variantID))
}

func (h SubscriptionsHandler) remove(w http.ResponseWriter, r *http.Request, userID string) {
	variantID, ok := h.decodeVariantAction(w, r)
	if !ok {
		return
	}

	sub, registered, err := h.Store.GetSubscription(r.Context(), userID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"error":   "read_subscription_failed",
			"message": err.Error(),
		})
		return
	}
	if !registered {
		writeJSON(w, http.StatusNotFound, map[string]any{
			"error":   "not_registered",
			"message": "user is not registered",
		})
		return
	}

	if !sub.Monitors(variantID) {
		writeJSON(w, http.StatusOK, map[string]any{
			"changed":      false,
			"subscription": sub,
		})
		return
	}

	kept := make([]string, 0, len(sub.VariantIDs))
	for _, id := range sub.VariantIDs {
		if id != variantID {
			kept = append(kept, id)
		}
	}
	h.set(w, r, userID, kept)
}

// decodeVariantAction reads {variant_id} and validates it against the
// catalog. Invalid ids are rejected here, at the command boundary, so the
// stores never hold an id outside the catalog.
func (h SubscriptionsHandler) decodeVariantAction(w http.ResponseWriter, r *http.Request) (string, bool) {
	var req variantActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error":   "invalid_body",
			"message": "body must be JSON with a variant_id",
		})
		return "", false
	}

	variantID := strings.TrimSpace(req.VariantID)
	if variantID == "" || !h.Catalog.Contains(variantID) {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error":   "unknown_variant",
			"message": "variant_id is not in the catalog",
		})
		return "", false
	}
	return variantID, true
}

func (h SubscriptionsHandler) set(w http.ResponseWriter, r *http.Request, userID string, variantIDs []string) {
	for _, id := range variantIDs {
		if !h.Catalog.Contains(id) {
			writeJSON(w, http.StatusBadRequest, map[string]any{
				"error":   "unknown_variant",
				"message": "variant_id " + id + " is not in the catalog",
			})
			return
		}
	}

	err := h.Store.SetSubscription(r.Context(), userID, dedupe(variantIDs), time.Now().UTC())
	if errors.Is(err, state.ErrUserNotRegistered) {
		writeJSON(w, http.StatusNotFound, map[string]any{
			"error":   "not_registered",
			"message": "user is not registered",
		})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"error":   "set_subscription_failed",
			"message": err.Error(),
		})
		return
	}

	sub, _, err := h.Store.GetSubscription(r.Context(), userID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"error":   "read_subscription_failed",
			"message": err.Error(),
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"changed":      true,
		"subscription": sub,
	})
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
