package services

import (
	"context"
	"fmt"

	"markettakip/app/models"
	"markettakip/app/repositories"
	"markettakip/pkg/collection"
	"markettakip/pkg/logger"
	"markettakip/pkg/store"
)

// SupplierService owns the registry operations that touch more than one
// collection — most importantly the deletion cascade.
type SupplierService struct {
	suppliers *repositories.SupplierRepository
	products  *repositories.ProductRepository
}

func NewSupplierService(suppliers *repositories.SupplierRepository, products *repositories.ProductRepository) *SupplierService {
	return &SupplierService{suppliers: suppliers, products: products}
}

// Delete removes a supplier by name: its offers are stripped from every
// product that carries them in one bulk write, and its registry entry is
// removed when one exists. Suppliers discovered from offers alone have no
// registry entry, so the name — not a registry id — addresses the deletion.
//
// The cascade stops there: return records and photos keep the supplier's
// display name as historical data and are never touched.
func (s *SupplierService) Delete(ctx context.Context, name string) error {
	all, err := s.suppliers.All(ctx)
	if err != nil {
		return fmt.Errorf("load suppliers: %w", err)
	}
	entry, registered := collection.First(all, func(sup models.Supplier) bool { return sup.Name == name })

	stripped, err := s.stripOffers(ctx, name)
	if err != nil {
		return err
	}
	if !registered && stripped == 0 {
		return store.ErrNotFound
	}

	if registered {
		if err := s.suppliers.Delete(ctx, entry.ID); err != nil {
			return err
		}
	}

	logger.Info("supplier deleted", "name", name, "products", stripped)
	return nil
}

// stripOffers removes every offer with the given supplier name from every
// product that has one, returning how many products were touched.
func (s *SupplierService) stripOffers(ctx context.Context, name string) (int, error) {
	products, err := s.products.All(ctx)
	if err != nil {
		return 0, fmt.Errorf("load products: %w", err)
	}

	var updates []store.BatchUpdate
	for _, p := range products {
		kept := collection.Filter(p.Suppliers, func(o models.SupplierOffer) bool {
			return o.Name != name
		})
		if len(kept) == len(p.Suppliers) {
			continue
		}
		updates = append(updates, store.BatchUpdate{
			ID:     p.ID,
			Fields: map[string]any{"suppliers": kept},
		})
	}

	if len(updates) == 0 {
		return 0, nil
	}
	if err := s.products.BatchUpdate(ctx, updates); err != nil {
		return 0, fmt.Errorf("strip offers of %q: %w", name, err)
	}
	return len(updates), nil
}
