package excel_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"markettakip/app/models"
	"markettakip/pkg/excel"
)

func TestCatalogWorkbook(t *testing.T) {
	products := []models.Product{
		{ID: "p1", Barcode: "8690123", Brand: "Ülker", Name: "Gofret", SalesPrice: 10,
			Suppliers: []models.SupplierOffer{
				{ID: "o1", Name: "Acme", Price: 6},
				{ID: "o2", Name: "Beta", Price: 5},
			}},
	}

	f, err := excel.CatalogWorkbook(products, []string{"Registry Only"})
	require.NoError(t, err)
	defer f.Close()

	assert.ElementsMatch(t, []string{"Products", "Suppliers"}, f.GetSheetList())

	name, err := f.GetCellValue("Products", "C2")
	require.NoError(t, err)
	assert.Equal(t, "Gofret", name)

	cost, err := f.GetCellValue("Products", "F2")
	require.NoError(t, err)
	assert.Equal(t, "5", cost)

	cheapest, err := f.GetCellValue("Products", "I2")
	require.NoError(t, err)
	assert.Equal(t, "Beta", cheapest)

	// Suppliers sheet: Acme, Beta and the registry-only name, one row each.
	rows, err := f.GetRows("Suppliers")
	require.NoError(t, err)
	require.Len(t, rows, 4) // header + three suppliers

	names := []string{rows[1][0], rows[2][0], rows[3][0]}
	assert.ElementsMatch(t, []string{"Acme", "Beta", "Registry Only"}, names)
}

func TestFilename(t *testing.T) {
	day := time.Date(2026, time.August, 27, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, "katalog-2026-08-27.xlsx", excel.Filename(day))
}
