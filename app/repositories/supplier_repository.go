package repositories

import (
	"context"
	"time"

	"markettakip/app/models"
	"markettakip/pkg/store"
)

// SupplierRepository handles store operations for the supplier registry.
type SupplierRepository struct {
	driver store.Driver
}

func NewSupplierRepository(driver store.Driver) *SupplierRepository {
	return &SupplierRepository{driver: driver}
}

// Create persists a new registry entry.
func (r *SupplierRepository) Create(ctx context.Context, s *models.Supplier) error {
	s.ID = ""
	if s.CreatedAt == 0 {
		s.CreatedAt = time.Now().UnixMilli()
	}

	id, err := r.driver.Create(ctx, store.Suppliers, s)
	if err != nil {
		return err
	}
	s.ID = id
	return nil
}

// Update merges the given fields into a registry entry.
func (r *SupplierRepository) Update(ctx context.Context, id string, fields map[string]any) error {
	return r.driver.Update(ctx, store.Suppliers, id, fields)
}

// Delete removes a registry entry. Offer cleanup on products is the supplier
// service's job, not the repository's.
func (r *SupplierRepository) Delete(ctx context.Context, id string) error {
	return r.driver.Delete(ctx, store.Suppliers, id)
}

// All returns every registry entry, ordered by name.
func (r *SupplierRepository) All(ctx context.Context) ([]models.Supplier, error) {
	var suppliers []models.Supplier
	err := r.driver.FindAll(ctx, store.Suppliers, "name", false, &suppliers)
	return suppliers, err
}
