package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/needmomatcha/stockwatch/internal/api/authctx"
	"github.com/needmomatcha/stockwatch/internal/domain"
	"github.com/needmomatcha/stockwatch/internal/state"
)

// DevModeHandler serves GET and PUT /v1/devmode. The toggle is admin-only;
// the monitor re-reads the record at the start of every cycle.
type DevModeHandler struct {
	Store state.Store
}

type devModeRequest struct {
	Enabled bool   `json:"enabled"`
	UserID  string `json:"user_id,omitempty"`
}

func (h DevModeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, ok := authctx.From(r.Context())
	if !ok || !id.Admin {
		writeJSON(w, http.StatusForbidden, map[string]any{
			"error":   "forbidden",
			"message": "dev mode is admin-only",
		})
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.get(w, r)
	case http.MethodPut:
		h.put(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (h DevModeHandler) get(w http.ResponseWriter, r *http.Request) {
	mode, _, err := h.Store.GetDevMode(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"error":   "read_dev_mode_failed",
			"message": err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"dev_mode": mode,
	})
}

func (h DevModeHandler) put(w http.ResponseWriter, r *http.Request) {
	var req devModeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error":   "invalid_body",
			"message": "body must be JSON with enabled and user_id",
		})
		return
	}

	userID := strings.TrimSpace(req.UserID)
	if req.Enabled && userID == "" {
		// Keep the previously configured target if one exists.
		prev, ok, err := h.Store.GetDevMode(r.Context())
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]any{
				"error":   "read_dev_mode_failed",
				"message": err.Error(),
			})
			return
		}
		if !ok || prev.UserID == "" {
			writeJSON(w, http.StatusBadRequest, map[string]any{
				"error":   "missing_user_id",
				"message": "user_id is required to enable dev mode",
			})
			return
		}
		userID = prev.UserID
	}

	mode := domain.DevMode{Enabled: req.Enabled, UserID: userID}
	if err := h.Store.SetDevMode(r.Context(), mode); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"error":   "set_dev_mode_failed",
			"message": err.Error(),
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"dev_mode": mode,
	})
}
