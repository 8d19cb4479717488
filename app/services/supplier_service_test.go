package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"markettakip/app/models"
	"markettakip/app/repositories"
	"markettakip/app/services"
	"markettakip/pkg/store"
)

func seedCascadeFixture(t *testing.T, driver store.Driver) {
	t.Helper()
	ctx := context.Background()

	supplier := models.Supplier{Name: "Acme", CreatedAt: 1}
	_, err := driver.Create(ctx, store.Suppliers, supplier)
	require.NoError(t, err)

	products := []models.Product{
		{Name: "Gofret", SalesPrice: 10, CreatedAt: 1, Suppliers: []models.SupplierOffer{
			{ID: "o1", Name: "Acme", Price: 5},
			{ID: "o2", Name: "Beta", Price: 6},
		}},
		{Name: "Cola", SalesPrice: 20, CreatedAt: 2, Suppliers: []models.SupplierOffer{
			{ID: "o3", Name: "Acme", Price: 12},
		}},
		{Name: "Tea", SalesPrice: 15, CreatedAt: 3, Suppliers: []models.SupplierOffer{
			{ID: "o4", Name: "Beta", Price: 9},
		}},
	}
	for _, p := range products {
		_, err := driver.Create(ctx, store.Products, p)
		require.NoError(t, err)
	}

	_, err = driver.Create(ctx, store.Returns, models.ReturnItem{
		SupplierName: "Acme", ProductName: "Gofret", Quantity: 2, Date: 1,
	})
	require.NoError(t, err)

	_, err = driver.Create(ctx, store.SupplierPhotos, models.SupplierPhoto{
		SupplierName: "Acme", Name: "invoice", Image: "data:image/jpeg;base64,x", Date: 1,
	})
	require.NoError(t, err)
}

func TestSupplierDelete_CascadesOffersOnly(t *testing.T) {
	driver := store.NewMemory()
	ctx := context.Background()
	seedCascadeFixture(t, driver)

	svc := services.NewSupplierService(
		repositories.NewSupplierRepository(driver),
		repositories.NewProductRepository(driver),
	)

	require.NoError(t, svc.Delete(ctx, "Acme"))

	// The registry entry is gone.
	var suppliers []models.Supplier
	require.NoError(t, driver.FindAll(ctx, store.Suppliers, "name", false, &suppliers))
	assert.Empty(t, suppliers)

	// Every Acme offer is stripped; the products themselves survive.
	var products []models.Product
	require.NoError(t, driver.FindAll(ctx, store.Products, "createdAt", false, &products))
	require.Len(t, products, 3)
	for _, p := range products {
		for _, o := range p.Suppliers {
			assert.NotEqual(t, "Acme", o.Name, "offer not stripped on %s", p.Name)
		}
	}

	// Beta's offers are untouched.
	gofret := products[0]
	require.Len(t, gofret.Suppliers, 1)
	assert.Equal(t, "Beta", gofret.Suppliers[0].Name)

	// Historical returns and photos keep the old display name.
	var returns []models.ReturnItem
	require.NoError(t, driver.FindAll(ctx, store.Returns, "date", false, &returns))
	require.Len(t, returns, 1)
	assert.Equal(t, "Acme", returns[0].SupplierName)

	var photos []models.SupplierPhoto
	require.NoError(t, driver.FindAll(ctx, store.SupplierPhotos, "date", false, &photos))
	require.Len(t, photos, 1)
	assert.Equal(t, "Acme", photos[0].SupplierName)
}

// Beta never had a registry entry — it exists only through product offers.
// Deleting it must still cascade.
func TestSupplierDelete_OfferOnlySupplier(t *testing.T) {
	driver := store.NewMemory()
	ctx := context.Background()
	seedCascadeFixture(t, driver)

	svc := services.NewSupplierService(
		repositories.NewSupplierRepository(driver),
		repositories.NewProductRepository(driver),
	)

	require.NoError(t, svc.Delete(ctx, "Beta"))

	var products []models.Product
	require.NoError(t, driver.FindAll(ctx, store.Products, "createdAt", false, &products))
	for _, p := range products {
		for _, o := range p.Suppliers {
			assert.NotEqual(t, "Beta", o.Name, "offer not stripped on %s", p.Name)
		}
	}

	// Acme's registry entry is untouched.
	count, err := driver.Count(ctx, store.Suppliers)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestSupplierDelete_UnknownName(t *testing.T) {
	driver := store.NewMemory()
	seedCascadeFixture(t, driver)

	svc := services.NewSupplierService(
		repositories.NewSupplierRepository(driver),
		repositories.NewProductRepository(driver),
	)

	err := svc.Delete(context.Background(), "Nobody")
	assert.True(t, errors.Is(err, store.ErrNotFound))
}

func TestSupplierDelete_NoAffectedProducts(t *testing.T) {
	driver := store.NewMemory()
	ctx := context.Background()

	_, err := driver.Create(ctx, store.Suppliers, models.Supplier{Name: "Lonely", CreatedAt: 1})
	require.NoError(t, err)

	svc := services.NewSupplierService(
		repositories.NewSupplierRepository(driver),
		repositories.NewProductRepository(driver),
	)
	require.NoError(t, svc.Delete(ctx, "Lonely"))

	count, err := driver.Count(ctx, store.Suppliers)
	require.NoError(t, err)
	assert.Zero(t, count)
}
