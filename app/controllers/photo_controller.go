package controllers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"markettakip/app/models"
	"markettakip/app/services"
	"markettakip/pkg/collection"
	"markettakip/pkg/imaging"
	"markettakip/pkg/live"
	"markettakip/pkg/logger"
	"markettakip/pkg/response"
	"markettakip/pkg/store"
	"markettakip/pkg/validate"
)

// PhotoController serves the supplier photo-evidence endpoints.
type PhotoController struct {
	state   *live.State
	service *services.PhotoService
}

func NewPhotoController(state *live.State, service *services.PhotoService) *PhotoController {
	return &PhotoController{state: state, service: service}
}

type photoInput struct {
	SupplierName string `json:"supplierName" validate:"required,max=200"`
	Name         string `json:"name"         validate:"required,max=200"`
	Image        string `json:"image"        validate:"required"`
}

// Index lists photos, newest first, optionally narrowed to one supplier's
// exact name.
func (c *PhotoController) Index(w http.ResponseWriter, r *http.Request) {
	photos := c.state.Photos()
	if supplier := r.URL.Query().Get("supplier"); supplier != "" {
		photos = collection.Filter(photos, func(p models.SupplierPhoto) bool {
			return p.SupplierName == supplier
		})
	}
	response.Success(w, photos)
}

// Store creates a photo: downscaled copy into the store, original archived
// to the storage disk.
func (c *PhotoController) Store(w http.ResponseWriter, r *http.Request) {
	var in photoInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if errs := validate.Struct(in); validate.HasErrors(errs) {
		response.ValidationError(w, errs)
		return
	}

	photo, err := c.service.Create(r.Context(), in.SupplierName, in.Name, in.Image)
	if err != nil {
		if errors.Is(err, imaging.ErrMedia) {
			logger.WithCtx(r.Context()).Warn("photo image rejected", "error", err)
			response.BadRequest(w, "Image could not be processed")
			return
		}
		logger.WithCtx(r.Context()).Error("photo create failed", "error", err)
		response.StoreError(w)
		return
	}
	response.Created(w, photo)
}

// Destroy deletes a photo record and its archived original.
func (c *PhotoController) Destroy(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	photo, ok := collection.First(c.state.Photos(), func(p models.SupplierPhoto) bool { return p.ID == id })
	if !ok {
		response.NotFound(w)
		return
	}

	if err := c.service.Delete(r.Context(), photo); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			response.NotFound(w)
			return
		}
		logger.WithCtx(r.Context()).Error("photo delete failed", "error", err)
		response.StoreError(w)
		return
	}
	response.NoContent(w)
}
