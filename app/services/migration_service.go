package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/google/uuid"

	"markettakip/app/models"
	"markettakip/app/repositories"
	"markettakip/pkg/logger"
)

// MigrationService performs the one-shot import of the browser's
// locally-cached product list into the Entity Store.
//
// The old front-end kept the entire catalog in local browser storage; its
// export is a plain JSON array of products. The import runs at startup and
// only when the products collection is completely empty — any existing
// record means the remote store is already authoritative and the legacy file
// is stale.
type MigrationService struct {
	products *repositories.ProductRepository
	path     string
}

func NewMigrationService(products *repositories.ProductRepository, path string) *MigrationService {
	return &MigrationService{products: products, path: path}
}

// Run executes the import. It never returns an error to the caller: a failed
// or skipped migration is logged and the application keeps serving whatever
// the store holds. It is not retried within the process.
func (m *MigrationService) Run(ctx context.Context) {
	count, err := m.products.Count(ctx)
	if err != nil {
		logger.Error("migration: count check failed", "error", err)
		return
	}
	if count > 0 {
		logger.Info("migration: skipped, store already populated", "products", count)
		return
	}

	legacy, err := m.readLegacy()
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logger.Info("migration: no legacy file", "path", m.path)
		} else {
			logger.Error("migration: legacy file unreadable", "path", m.path, "error", err)
		}
		return
	}
	if len(legacy) == 0 {
		logger.Info("migration: legacy file empty", "path", m.path)
		return
	}

	imported := 0
	for _, p := range legacy {
		// Legacy identifiers are browser-local; the store assigns fresh
		// ones. Offer ids are regenerated too. Timestamps survive.
		p.ID = ""
		for i := range p.Suppliers {
			p.Suppliers[i].ID = uuid.NewString()
		}

		if err := m.products.Create(ctx, &p); err != nil {
			logger.Error("migration: import failed", "barcode", p.Barcode, "name", p.Name, "error", err)
			continue
		}
		imported++
	}

	logger.Info("migration: finished", "imported", imported, "total", len(legacy))
}

func (m *MigrationService) readLegacy() ([]models.Product, error) {
	data, err := os.ReadFile(m.path)
	if err != nil {
		return nil, err
	}

	var products []models.Product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, fmt.Errorf("decode legacy products: %w", err)
	}
	return products, nil
}
