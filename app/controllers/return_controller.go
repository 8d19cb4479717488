package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"markettakip/app/models"
	"markettakip/app/repositories"
	"markettakip/pkg/collection"
	"markettakip/pkg/imaging"
	"markettakip/pkg/live"
	"markettakip/pkg/logger"
	"markettakip/pkg/metrics"
	"markettakip/pkg/response"
	"markettakip/pkg/store"
	"markettakip/pkg/validate"
)

// ReturnController serves the supplier-return log.
type ReturnController struct {
	state   *live.State
	returns *repositories.ReturnRepository
}

func NewReturnController(state *live.State, returns *repositories.ReturnRepository) *ReturnController {
	return &ReturnController{state: state, returns: returns}
}

type returnInput struct {
	SupplierName string `json:"supplierName" validate:"required,max=200"`
	Brand        string `json:"brand"        validate:"nullable,max=200"`
	ProductName  string `json:"productName"  validate:"required,max=200"`
	Weight       string `json:"weight"       validate:"nullable,max=50"`
	Quantity     int    `json:"quantity"     validate:"required,integer,gt=0"`
	Image        string `json:"image"`
}

// Index lists return records, newest first, optionally narrowed to one
// supplier's exact name.
func (c *ReturnController) Index(w http.ResponseWriter, r *http.Request) {
	items := c.state.Returns()
	if supplier := r.URL.Query().Get("supplier"); supplier != "" {
		items = collection.Filter(items, func(item models.ReturnItem) bool {
			return item.SupplierName == supplier
		})
	}
	response.Success(w, items)
}

// Store creates a return record. The optional image is downscaled before
// persistence; a decode failure aborts the whole operation — no record
// without its evidence.
func (c *ReturnController) Store(w http.ResponseWriter, r *http.Request) {
	var in returnInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if errs := validate.Struct(in); validate.HasErrors(errs) {
		response.ValidationError(w, errs)
		return
	}

	item := models.ReturnItem{
		SupplierName: in.SupplierName,
		Brand:        in.Brand,
		ProductName:  in.ProductName,
		Weight:       in.Weight,
		Quantity:     in.Quantity,
	}

	if in.Image != "" {
		downscaled, err := downscalePayload(in.Image)
		if err != nil {
			logger.WithCtx(r.Context()).Warn("return image rejected", "error", err)
			response.BadRequest(w, "Image could not be processed")
			return
		}
		item.Image = downscaled
	}

	if err := c.returns.Create(r.Context(), &item); err != nil {
		logger.WithCtx(r.Context()).Error("return create failed", "error", err)
		response.StoreError(w)
		return
	}
	response.Created(w, item)
}

// returnPatch is the partial-update body for a return record.
type returnPatch struct {
	SupplierName *string `json:"supplierName"`
	Brand        *string `json:"brand"`
	ProductName  *string `json:"productName"`
	Weight       *string `json:"weight"`
	Quantity     *int    `json:"quantity"`
	IsReturned   *bool   `json:"isReturned"`
}

// Update merges the provided fields into a return record.
func (c *ReturnController) Update(w http.ResponseWriter, r *http.Request) {
	var in returnPatch
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	fields := map[string]any{}
	if in.SupplierName != nil {
		fields["supplierName"] = *in.SupplierName
	}
	if in.Brand != nil {
		fields["brand"] = *in.Brand
	}
	if in.ProductName != nil {
		fields["productName"] = *in.ProductName
	}
	if in.Weight != nil {
		fields["weight"] = *in.Weight
	}
	if in.Quantity != nil {
		if *in.Quantity <= 0 {
			response.ValidationError(w, map[string]string{"quantity": "The quantity must be greater than 0."})
			return
		}
		fields["quantity"] = *in.Quantity
	}
	if in.IsReturned != nil {
		fields["isReturned"] = *in.IsReturned
	}
	if len(fields) == 0 {
		response.BadRequest(w, "No fields to update")
		return
	}

	if err := c.returns.Update(r.Context(), chi.URLParam(r, "id"), fields); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			response.NotFound(w)
			return
		}
		logger.WithCtx(r.Context()).Error("return update failed", "error", err)
		response.StoreError(w)
		return
	}
	response.NoContent(w)
}

// Toggle flips the returned flag of a record.
func (c *ReturnController) Toggle(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	item, ok := collection.First(c.state.Returns(), func(item models.ReturnItem) bool { return item.ID == id })
	if !ok {
		response.NotFound(w)
		return
	}

	if err := c.returns.Update(r.Context(), id, map[string]any{"isReturned": !item.IsReturned}); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			response.NotFound(w)
			return
		}
		logger.WithCtx(r.Context()).Error("return toggle failed", "error", err)
		response.StoreError(w)
		return
	}
	response.Success(w, map[string]bool{"isReturned": !item.IsReturned})
}

// Destroy deletes a return record.
func (c *ReturnController) Destroy(w http.ResponseWriter, r *http.Request) {
	if err := c.returns.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			response.NotFound(w)
			return
		}
		logger.WithCtx(r.Context()).Error("return delete failed", "error", err)
		response.StoreError(w)
		return
	}
	response.NoContent(w)
}

// downscalePayload runs the full base64 → downscaled-data-URI pipeline with
// the duration metric observed.
func downscalePayload(raw string) (string, error) {
	data, _, err := imaging.ParseDataURI(raw)
	if err != nil {
		return "", err
	}
	start := time.Now()
	out, err := imaging.Downscale(data)
	if err != nil {
		return "", err
	}
	metrics.ImageDownscaleDuration.Observe(time.Since(start).Seconds())
	return out, nil
}
