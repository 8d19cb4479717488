package controllers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"markettakip/app/models"
	"markettakip/app/repositories"
	"markettakip/pkg/catalog"
	"markettakip/pkg/collection"
	"markettakip/pkg/live"
	"markettakip/pkg/logger"
	"markettakip/pkg/response"
	"markettakip/pkg/store"
	"markettakip/pkg/validate"
)

// ProductController serves the catalog's read and write endpoints. Reads come
// from the live snapshot state; writes go to the store and surface back
// through the subscription.
type ProductController struct {
	state    *live.State
	products *repositories.ProductRepository
}

func NewProductController(state *live.State, products *repositories.ProductRepository) *ProductController {
	return &ProductController{state: state, products: products}
}

type offerInput struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"  validate:"required,max=200"`
	Price float64 `json:"price" validate:"gte=0"`
}

type productInput struct {
	Barcode    string       `json:"barcode"    validate:"required,max=100"`
	Brand      string       `json:"brand"      validate:"nullable,max=200"`
	Name       string       `json:"name"       validate:"required,max=200"`
	Weight     string       `json:"weight"     validate:"nullable,max=50"`
	SalesPrice float64      `json:"salesPrice" validate:"gte=0"`
	Suppliers  []offerInput `json:"suppliers"`
}

// productView is a product joined with its derived profitability, the shape
// the list and detail screens render.
type productView struct {
	models.Product
	Profitability catalog.ProductProfit  `json:"profitability"`
	BestOffers    []models.SupplierOffer `json:"bestOffers"`
}

func viewOf(p models.Product) productView {
	return productView{
		Product:       p,
		Profitability: catalog.ProfitFor(p),
		BestOffers:    catalog.CheapestOffers(p, 2),
	}
}

// Index lists products, filtered by the `q` search term and the exact
// `supplier` name, both optional.
func (c *ProductController) Index(w http.ResponseWriter, r *http.Request) {
	products := catalog.FilterProducts(
		c.state.Products(),
		r.URL.Query().Get("q"),
		r.URL.Query().Get("supplier"),
	)
	response.Success(w, collection.Map(products, viewOf))
}

// Show returns one product with its profitability view.
func (c *ProductController) Show(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	p, ok := collection.First(c.state.Products(), func(p models.Product) bool { return p.ID == id })
	if !ok {
		response.NotFound(w)
		return
	}
	response.Success(w, viewOf(p))
}

// Store creates a product.
func (c *ProductController) Store(w http.ResponseWriter, r *http.Request) {
	var in productInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if errs := validate.Struct(in); validate.HasErrors(errs) {
		response.ValidationError(w, errs)
		return
	}
	if errs := validateOffers(in.Suppliers); validate.HasErrors(errs) {
		response.ValidationError(w, errs)
		return
	}

	p := models.Product{
		Barcode:    in.Barcode,
		Brand:      in.Brand,
		Name:       in.Name,
		Weight:     in.Weight,
		SalesPrice: in.SalesPrice,
		Suppliers:  buildOffers(in.Suppliers),
	}
	if err := c.products.Create(r.Context(), &p); err != nil {
		logger.WithCtx(r.Context()).Error("product create failed", "error", err)
		response.StoreError(w)
		return
	}
	response.Created(w, viewOf(p))
}

// productPatch is the partial-update body: only fields present in the JSON
// are merged into the record.
type productPatch struct {
	Barcode    *string       `json:"barcode"`
	Brand      *string       `json:"brand"`
	Name       *string       `json:"name"`
	Weight     *string       `json:"weight"`
	SalesPrice *float64      `json:"salesPrice"`
	Suppliers  *[]offerInput `json:"suppliers"`
}

// Update merges the provided fields into a product.
func (c *ProductController) Update(w http.ResponseWriter, r *http.Request) {
	var in productPatch
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	fields := map[string]any{}
	if in.Barcode != nil {
		fields["barcode"] = *in.Barcode
	}
	if in.Brand != nil {
		fields["brand"] = *in.Brand
	}
	if in.Name != nil {
		fields["name"] = *in.Name
	}
	if in.Weight != nil {
		fields["weight"] = *in.Weight
	}
	if in.SalesPrice != nil {
		if *in.SalesPrice < 0 {
			response.ValidationError(w, map[string]string{"salesPrice": "The salesPrice must be greater than or equal to 0."})
			return
		}
		fields["salesPrice"] = *in.SalesPrice
	}
	if in.Suppliers != nil {
		if errs := validateOffers(*in.Suppliers); validate.HasErrors(errs) {
			response.ValidationError(w, errs)
			return
		}
		fields["suppliers"] = buildOffers(*in.Suppliers)
	}
	if len(fields) == 0 {
		response.BadRequest(w, "No fields to update")
		return
	}

	if err := c.products.Update(r.Context(), chi.URLParam(r, "id"), fields); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			response.NotFound(w)
			return
		}
		logger.WithCtx(r.Context()).Error("product update failed", "error", err)
		response.StoreError(w)
		return
	}
	response.NoContent(w)
}

// Destroy deletes a product. Offers go with it; returns and photos that
// mention the same supplier names are untouched.
func (c *ProductController) Destroy(w http.ResponseWriter, r *http.Request) {
	if err := c.products.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			response.NotFound(w)
			return
		}
		logger.WithCtx(r.Context()).Error("product delete failed", "error", err)
		response.StoreError(w)
		return
	}
	response.NoContent(w)
}

func validateOffers(offers []offerInput) map[string]string {
	for _, o := range offers {
		if errs := validate.Struct(o); validate.HasErrors(errs) {
			return errs
		}
	}
	return nil
}

// buildOffers converts the input offers, assigning ids to new entries so
// the UI can address rows before the next snapshot arrives.
func buildOffers(offers []offerInput) []models.SupplierOffer {
	out := make([]models.SupplierOffer, len(offers))
	for i, o := range offers {
		id := o.ID
		if id == "" {
			id = uuid.NewString()
		}
		out[i] = models.SupplierOffer{ID: id, Name: o.Name, Price: o.Price}
	}
	return out
}
