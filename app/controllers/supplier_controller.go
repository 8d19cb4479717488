package controllers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"markettakip/app/models"
	"markettakip/app/repositories"
	"markettakip/app/services"
	"markettakip/pkg/catalog"
	"markettakip/pkg/live"
	"markettakip/pkg/logger"
	"markettakip/pkg/response"
	"markettakip/pkg/store"
	"markettakip/pkg/validate"
)

// SupplierController serves the roster views and the registry writes.
//
// The roster (summaries) is derived on every request from the current product
// snapshot plus the registry names — suppliers are primarily discovered from
// offers; the registry only adds names that have no offers yet.
type SupplierController struct {
	state     *live.State
	suppliers *repositories.SupplierRepository
	service   *services.SupplierService
}

func NewSupplierController(state *live.State, suppliers *repositories.SupplierRepository, service *services.SupplierService) *SupplierController {
	return &SupplierController{state: state, suppliers: suppliers, service: service}
}

// Index lists supplier summaries, optionally filtered by the `q` name
// substring.
func (c *SupplierController) Index(w http.ResponseWriter, r *http.Request) {
	summaries := catalog.SupplierSummaries(c.state.Products(), c.state.RegistryNames())
	response.Success(w, catalog.FilterSummaries(summaries, r.URL.Query().Get("q")))
}

// Show returns one supplier's summary by exact name.
func (c *SupplierController) Show(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	summary, ok := catalog.FindSupplierSummary(c.state.Products(), c.state.RegistryNames(), name)
	if !ok {
		response.NotFound(w)
		return
	}
	response.Success(w, summary)
}

// Registry lists the raw registry entries (with their ids, for deletion).
func (c *SupplierController) Registry(w http.ResponseWriter, r *http.Request) {
	response.Success(w, c.state.Suppliers())
}

type supplierInput struct {
	Name string `json:"name" validate:"required,max=200"`
}

// Store creates a registry entry so a supplier can exist before any product
// carries its offer.
func (c *SupplierController) Store(w http.ResponseWriter, r *http.Request) {
	var in supplierInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if errs := validate.Struct(in); validate.HasErrors(errs) {
		response.ValidationError(w, errs)
		return
	}

	s := models.Supplier{Name: in.Name}
	if err := c.suppliers.Create(r.Context(), &s); err != nil {
		logger.WithCtx(r.Context()).Error("supplier create failed", "error", err)
		response.StoreError(w)
		return
	}
	response.Created(w, s)
}

// Destroy deletes a supplier by name, whether it came from the registry or
// only from product offers: its offers are stripped from every product and
// its registry entry, if any, is removed. Returns and photos stay.
func (c *SupplierController) Destroy(w http.ResponseWriter, r *http.Request) {
	if err := c.service.Delete(r.Context(), chi.URLParam(r, "name")); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			response.NotFound(w)
			return
		}
		logger.WithCtx(r.Context()).Error("supplier delete failed", "error", err)
		response.StoreError(w)
		return
	}
	response.NoContent(w)
}
