package httpx

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/davitran/storefront/internal/invoices"
)

type StatsSource interface {
	StatsSnapshot(ctx context.Context) (invoices.Stats, error)
}

type DashboardCache interface {
	Snapshot(ctx context.Context) (invoices.Stats, bool, error)
}

type ProductCounter interface {
	Count(ctx context.Context) (int64, error)
}

type DashboardHandler struct {
	Cache    DashboardCache
	Invoices StatsSource
	Products ProductCounter
}

type dashboardView struct {
	invoices.Stats
	TotalProducts int64 `json:"total_products"`
}

func (h *DashboardHandler) RegisterAdmin(r chi.Router) {
	r.Get("/dashboard", h.stats)
}

func (h *DashboardHandler) stats(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	stats, ok, err := h.Cache.Snapshot(ctx)
	if err != nil || !ok {
		// cold hash, recompute from the ledger
		stats, err = h.Invoices.StatsSnapshot(ctx)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
	}

	products, err := h.Products.Count(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeData(w, http.StatusOK, dashboardView{Stats: stats, TotalProducts: products})
}
