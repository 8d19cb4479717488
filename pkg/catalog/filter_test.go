package catalog_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"markettakip/app/models"
	"markettakip/pkg/catalog"
)

func filterFixture() []models.Product {
	return []models.Product{
		{ID: "1", Barcode: "8690123", Brand: "Ülker", Name: "Çikolatalı Gofret",
			Suppliers: []models.SupplierOffer{offer("Acme", 5)}},
		{ID: "2", Barcode: "8690456", Brand: "Eti", Name: "Cin",
			Suppliers: []models.SupplierOffer{offer("Beta", 3)}},
		{ID: "3", Barcode: "8690789", Brand: "Torku", Name: "Banada",
			Suppliers: []models.SupplierOffer{offer("Acme", 7), offer("Beta", 6)}},
	}
}

func TestFilterProducts_TermMatchesAnyField(t *testing.T) {
	products := filterFixture()

	byName := catalog.FilterProducts(products, "gofret", "")
	require.Len(t, byName, 1)
	assert.Equal(t, "1", byName[0].ID)

	byBarcode := catalog.FilterProducts(products, "8690456", "")
	require.Len(t, byBarcode, 1)
	assert.Equal(t, "2", byBarcode[0].ID)

	byBrand := catalog.FilterProducts(products, "torku", "")
	require.Len(t, byBrand, 1)
	assert.Equal(t, "3", byBrand[0].ID)

	byOfferName := catalog.FilterProducts(products, "beta", "")
	assert.Len(t, byOfferName, 2)
}

func TestFilterProducts_SupplierIsExactMatch(t *testing.T) {
	products := filterFixture()

	acme := catalog.FilterProducts(products, "", "Acme")
	assert.Len(t, acme, 2)

	// Substring of a supplier name does not match the exact filter.
	assert.Empty(t, catalog.FilterProducts(products, "", "Acm"))
}

func TestFilterProducts_AndComposition(t *testing.T) {
	products := filterFixture()

	got := catalog.FilterProducts(products, "banada", "Acme")
	require.Len(t, got, 1)
	assert.Equal(t, "3", got[0].ID)

	assert.Empty(t, catalog.FilterProducts(products, "gofret", "Beta"))
}

func TestFilterProducts_EmptyFiltersPassThrough(t *testing.T) {
	products := filterFixture()
	got := catalog.FilterProducts(products, "", "")
	assert.Equal(t, products, got)
}

func TestFilterSummaries(t *testing.T) {
	summaries := []catalog.SupplierSummary{
		{Name: "Acme Gıda"},
		{Name: "Beta Dağıtım"},
	}

	got := catalog.FilterSummaries(summaries, "acme")
	require.Len(t, got, 1)
	assert.Equal(t, "Acme Gıda", got[0].Name)

	assert.Equal(t, summaries, catalog.FilterSummaries(summaries, " "))
}
