package repositories

import (
	"context"
	"time"

	"markettakip/app/models"
	"markettakip/pkg/store"
)

// ProductRepository handles store operations for Product.
type ProductRepository struct {
	driver store.Driver
}

func NewProductRepository(driver store.Driver) *ProductRepository {
	return &ProductRepository{driver: driver}
}

// Create persists a new product. The store assigns the identifier; the
// creation timestamp is stamped here unless the caller already set one
// (the migration preserves legacy timestamps).
func (r *ProductRepository) Create(ctx context.Context, p *models.Product) error {
	p.ID = ""
	if p.CreatedAt == 0 {
		p.CreatedAt = time.Now().UnixMilli()
	}
	if p.Suppliers == nil {
		p.Suppliers = []models.SupplierOffer{}
	}

	id, err := r.driver.Create(ctx, store.Products, p)
	if err != nil {
		return err
	}
	p.ID = id
	return nil
}

// Update merges the given fields into an existing product.
func (r *ProductRepository) Update(ctx context.Context, id string, fields map[string]any) error {
	return r.driver.Update(ctx, store.Products, id, fields)
}

// Delete removes a product.
func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	return r.driver.Delete(ctx, store.Products, id)
}

// BatchUpdate applies multiple partial product updates in one bulk write.
func (r *ProductRepository) BatchUpdate(ctx context.Context, updates []store.BatchUpdate) error {
	return r.driver.BatchUpdate(ctx, store.Products, updates)
}

// All returns every product, newest first.
func (r *ProductRepository) All(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	err := r.driver.FindAll(ctx, store.Products, "createdAt", true, &products)
	return products, err
}

// Count returns the number of stored products. The startup migration uses
// it as its only-run-once guard.
func (r *ProductRepository) Count(ctx context.Context) (int64, error) {
	return r.driver.Count(ctx, store.Products)
}
