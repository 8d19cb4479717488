package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"markettakip/pkg/catalog"
	"markettakip/pkg/live"
	"markettakip/pkg/response"
)

// StatsController serves the profitability dashboards.
type StatsController struct {
	state *live.State
}

func NewStatsController(state *live.State) *StatsController {
	return &StatsController{state: state}
}

// Catalog returns the catalog-wide profitability totals.
func (c *StatsController) Catalog(w http.ResponseWriter, r *http.Request) {
	response.Success(w, catalog.Stats(c.state.Products()))
}

// Supplier returns one supplier's performance across every product carrying
// its offer. A supplier with no offers yields an empty, zeroed report rather
// than a 404 — registry-only suppliers are legitimate.
func (c *StatsController) Supplier(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	response.Success(w, catalog.SupplierPerformance(c.state.Products(), name))
}
