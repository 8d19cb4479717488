package routes

import (
	"markettakip/app/controllers"
	"markettakip/app/repositories"
	"markettakip/app/services"
	"markettakip/pkg/live"
	"markettakip/pkg/router"
	"markettakip/pkg/store"
	"markettakip/pkg/ws"
)

// Deps carries everything the API controllers need.
type Deps struct {
	State  *live.State
	Driver store.Driver
	Hub    *ws.Hub
}

// RegisterAPI mounts the whole REST + stream surface under /api.
func RegisterAPI(r *router.Router, deps Deps) {
	productRepo := repositories.NewProductRepository(deps.Driver)
	supplierRepo := repositories.NewSupplierRepository(deps.Driver)
	returnRepo := repositories.NewReturnRepository(deps.Driver)
	photoRepo := repositories.NewPhotoRepository(deps.Driver)

	supplierService := services.NewSupplierService(supplierRepo, productRepo)
	photoService := services.NewPhotoService(photoRepo)

	products := controllers.NewProductController(deps.State, productRepo)
	suppliers := controllers.NewSupplierController(deps.State, supplierRepo, supplierService)
	stats := controllers.NewStatsController(deps.State)
	returns := controllers.NewReturnController(deps.State, returnRepo)
	photos := controllers.NewPhotoController(deps.State, photoService)
	stream := controllers.NewStreamController(deps.State, deps.Hub)
	export := controllers.NewExportController(deps.State)

	api := r.Group("/api")

	api.Get("/products", "products.index", products.Index)
	api.Post("/products", "products.store", products.Store)
	api.Get("/products/{id}", "products.show", products.Show)
	api.Patch("/products/{id}", "products.update", products.Update)
	api.Delete("/products/{id}", "products.destroy", products.Destroy)

	api.Get("/suppliers", "suppliers.index", suppliers.Index)
	api.Post("/suppliers", "suppliers.store", suppliers.Store)
	api.Get("/suppliers/registry", "suppliers.registry", suppliers.Registry)
	api.Get("/suppliers/{name}", "suppliers.show", suppliers.Show)
	api.Delete("/suppliers/{name}", "suppliers.destroy", suppliers.Destroy)

	api.Get("/stats/catalog", "stats.catalog", stats.Catalog)
	api.Get("/stats/suppliers/{name}", "stats.supplier", stats.Supplier)

	api.Get("/returns", "returns.index", returns.Index)
	api.Post("/returns", "returns.store", returns.Store)
	api.Patch("/returns/{id}", "returns.update", returns.Update)
	api.Patch("/returns/{id}/toggle", "returns.toggle", returns.Toggle)
	api.Delete("/returns/{id}", "returns.destroy", returns.Destroy)

	api.Get("/photos", "photos.index", photos.Index)
	api.Post("/photos", "photos.store", photos.Store)
	api.Delete("/photos/{id}", "photos.destroy", photos.Destroy)

	api.Get("/stream", "stream.sse", stream.SSE)
	api.Get("/ws", "stream.ws", stream.WS)

	api.Get("/export/catalog", "export.catalog", export.Catalog)
}
