package handlers

import (
	"net/http"

	"github.com/needmomatcha/stockwatch/internal/api/authctx"
	"github.com/needmomatcha/stockwatch/internal/catalog"
	"github.com/needmomatcha/stockwatch/internal/domain"
	"github.com/needmomatcha/stockwatch/internal/state"
)

// ProductsHandler serves GET /v1/products: the ordered catalog, each entry
// annotated with the caller's monitored flag and the last known stock state.
type ProductsHandler struct {
	Store   state.Store
	Catalog catalog.Catalog
}

type productView struct {
	ID          string              `json:"id"`
	ProductName string              `json:"product_name"`
	SizeLabel   string              `json:"size_label"`
	URL         string              `json:"url"`
	Strength    domain.Strength     `json:"strength"`
	Monitored   bool                `json:"monitored"`
	Stock       domain.Availability `json:"stock"`
}

func (h ProductsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	monitored := map[string]bool{}
	if id, ok := authctx.From(r.Context()); ok {
		if sub, registered, err := h.Store.GetSubscription(r.Context(), id.UserID); err == nil && registered {
			for _, variantID := range sub.VariantIDs {
				monitored[variantID] = true
			}
		}
	}

	records, err := h.Store.ListStockRecords(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"error":   "list_stock_failed",
			"message": err.Error(),
		})
		return
	}
	stock := make(map[string]domain.Availability, len(records))
	for _, rec := range records {
		stock[rec.VariantID] = rec.Available
	}

	items := make([]productView, 0, h.Catalog.Len())
	for _, v := range h.Catalog.All() {
		avail, ok := stock[v.ID]
		if !ok {
			avail = domain.AvailabilityUnknown
		}
		items = append(items, productView{
			ID:          v.ID,
			ProductName: v.ProductName,
			SizeLabel:   v.SizeLabel,
			URL:         v.URL,
			Strength:    v.Strength,
			Monitored:   monitored[v.ID],
			Stock:       avail,
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"items": items,
	})
}
