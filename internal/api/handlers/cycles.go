package handlers

import (
	"net/http"
	"strconv"

	"github.com/needmomatcha/stockwatch/internal/state"
)

// CyclesHandler serves GET /v1/cycles: recent polling-cycle summaries,
// newest first.
type CyclesHandler struct {
	Store state.Store
}

func (h CyclesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			limit = n
		}
	}
	if limit <= 0 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}

	cycles, err := h.Store.ListCycles(r.Context(), limit)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"error":   "list_cycles_failed",
			"message": err.Error(),
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"items": cycles,
	})
}
