package services_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"markettakip/app/models"
	"markettakip/app/repositories"
	"markettakip/app/services"
	"markettakip/pkg/store"
)

const legacyFixture = `[
  {
    "id": "local-1",
    "barcode": "8690123",
    "brand": "Ülker",
    "name": "Çikolatalı Gofret",
    "weight": "36g",
    "salesPrice": 10,
    "suppliers": [{"id": "local-offer-1", "name": "Acme", "price": 5}],
    "createdAt": 1700000000000
  },
  {
    "id": "local-2",
    "barcode": "8690456",
    "brand": "Eti",
    "name": "Cin",
    "weight": "",
    "salesPrice": 7,
    "suppliers": [],
    "createdAt": 0
  }
]`

func writeLegacyFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "market_tracker_products.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestMigration_ImportsIntoEmptyStore(t *testing.T) {
	driver := store.NewMemory()
	repo := repositories.NewProductRepository(driver)
	path := writeLegacyFile(t, legacyFixture)

	services.NewMigrationService(repo, path).Run(context.Background())

	products, err := repo.All(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 2)

	byName := map[string]models.Product{}
	for _, p := range products {
		byName[p.Name] = p
	}

	gofret := byName["Çikolatalı Gofret"]
	// Legacy identifiers never survive; the store assigns fresh ones.
	assert.NotEqual(t, "local-1", gofret.ID)
	assert.NotEmpty(t, gofret.ID)
	require.Len(t, gofret.Suppliers, 1)
	assert.NotEqual(t, "local-offer-1", gofret.Suppliers[0].ID)
	assert.NotEmpty(t, gofret.Suppliers[0].ID)

	// Legacy timestamps survive; missing ones are stamped at import time.
	assert.Equal(t, int64(1700000000000), gofret.CreatedAt)
	assert.NotZero(t, byName["Cin"].CreatedAt)
}

func TestMigration_SkipsWhenStorePopulated(t *testing.T) {
	driver := store.NewMemory()
	repo := repositories.NewProductRepository(driver)
	ctx := context.Background()

	existing := models.Product{Name: "Already here", CreatedAt: 1}
	require.NoError(t, repo.Create(ctx, &existing))

	path := writeLegacyFile(t, legacyFixture)
	services.NewMigrationService(repo, path).Run(ctx)

	products, err := repo.All(ctx)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Already here", products[0].Name)
}

func TestMigration_MissingFileIsNotAnError(t *testing.T) {
	driver := store.NewMemory()
	repo := repositories.NewProductRepository(driver)
	ctx := context.Background()

	services.NewMigrationService(repo, filepath.Join(t.TempDir(), "absent.json")).Run(ctx)

	count, err := driver.Count(ctx, store.Products)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestMigration_MalformedFileLeavesStoreEmpty(t *testing.T) {
	driver := store.NewMemory()
	repo := repositories.NewProductRepository(driver)
	ctx := context.Background()

	path := writeLegacyFile(t, "{not json")
	services.NewMigrationService(repo, path).Run(ctx)

	count, err := driver.Count(ctx, store.Products)
	require.NoError(t, err)
	assert.Zero(t, count)
}
