package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/needmomatcha/stockwatch/internal/api/authctx"
	"github.com/needmomatcha/stockwatch/internal/catalog"
	"github.com/needmomatcha/stockwatch/internal/state"
)

// RegisterHandler handles POST /v1/users:register. Registration is
// idempotent: a second call for the same user is a no-op that reports the
// existing subscription.
type RegisterHandler struct {
	Store   state.Store
	Catalog catalog.Catalog
}

type registerRequest struct {
	UserID string `json:"user_id"`
	Name   string `json:"name,omitempty"`
}

func (h RegisterHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error":   "invalid_body",
			"message": "body must be JSON with a user_id",
		})
		return
	}

	userID := strings.TrimSpace(req.UserID)
	if userID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error":   "missing_user_id",
			"message": "user_id is required",
		})
		return
	}

	if !authctx.CanAccess(r.Context(), userID) {
		writeJSON(w, http.StatusForbidden, map[string]any{
			"error":   "forbidden",
			"message": "cannot register another user",
		})
		return
	}

	created, err := h.Store.RegisterUser(r.Context(), userID, strings.TrimSpace(req.Name), h.Catalog.DefaultVariantIDs(), time.Now().UTC())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"error":   "register_failed",
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

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}

	writeJSON(w, status, map[string]any{
		"created":      created,
		"subscription": sub,
	})
}
