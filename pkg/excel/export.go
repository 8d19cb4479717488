// Package excel renders the catalog as an .xlsx workbook for offline review
// (the shop owner's accountant still lives in spreadsheets).
package excel

import (
	"fmt"
	"io"
	"math"
	"time"

	"github.com/xuri/excelize/v2"

	"markettakip/app/models"
	"markettakip/pkg/catalog"
)

const (
	productsSheet  = "Products"
	suppliersSheet = "Suppliers"
)

var productHeaders = []string{
	"Barcode", "Brand", "Name", "Weight", "Sales Price",
	"Lowest Cost", "Profit", "Margin %", "Cheapest Supplier", "Offer Count",
}

var supplierHeaders = []string{
	"Supplier", "Products Attributed", "Total Purchase", "Total Sale", "Total Profit", "Avg Margin %",
}

// CatalogWorkbook builds the two-sheet export: one row per product with its
// profitability, one row per supplier with its performance totals.
func CatalogWorkbook(products []models.Product, registryNames []string) (*excelize.File, error) {
	f := excelize.NewFile()

	f.SetSheetName("Sheet1", productsSheet)
	if _, err := f.NewSheet(suppliersSheet); err != nil {
		return nil, fmt.Errorf("excel: create sheet: %w", err)
	}

	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"DDEBF7"}},
	})
	if err != nil {
		return nil, fmt.Errorf("excel: header style: %w", err)
	}

	if err := writeProductsSheet(f, header, products); err != nil {
		return nil, err
	}
	if err := writeSuppliersSheet(f, header, products, registryNames); err != nil {
		return nil, err
	}

	f.SetActiveSheet(0)
	return f, nil
}

// WriteCatalog streams the workbook to w.
func WriteCatalog(w io.Writer, products []models.Product, registryNames []string) error {
	f, err := CatalogWorkbook(products, registryNames)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.Write(w); err != nil {
		return fmt.Errorf("excel: write workbook: %w", err)
	}
	return nil
}

// Filename returns a dated download name like "katalog-2026-08-27.xlsx".
func Filename(now time.Time) string {
	return "katalog-" + now.Format("2006-01-02") + ".xlsx"
}

func writeProductsSheet(f *excelize.File, headerStyle int, products []models.Product) error {
	if err := f.SetSheetRow(productsSheet, "A1", &productHeaders); err != nil {
		return fmt.Errorf("excel: products header: %w", err)
	}
	if err := f.SetRowStyle(productsSheet, 1, 1, headerStyle); err != nil {
		return fmt.Errorf("excel: products header style: %w", err)
	}

	for i, p := range products {
		profit := catalog.ProfitFor(p)

		cheapest := ""
		if best := catalog.CheapestOffers(p, 1); len(best) > 0 {
			cheapest = best[0].Name
		}

		row := []interface{}{
			p.Barcode, p.Brand, p.Name, p.Weight, p.SalesPrice,
			profit.LowestCost, profit.Profit, round2(profit.Margin), cheapest, len(p.Suppliers),
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("excel: products cell: %w", err)
		}
		if err := f.SetSheetRow(productsSheet, cell, &row); err != nil {
			return fmt.Errorf("excel: products row %d: %w", i+2, err)
		}
	}

	widths := map[string]float64{"A": 16, "B": 18, "C": 32, "D": 10, "I": 22}
	for col, w := range widths {
		if err := f.SetColWidth(productsSheet, col, col, w); err != nil {
			return fmt.Errorf("excel: products col width: %w", err)
		}
	}
	return nil
}

func writeSuppliersSheet(f *excelize.File, headerStyle int, products []models.Product, registryNames []string) error {
	if err := f.SetSheetRow(suppliersSheet, "A1", &supplierHeaders); err != nil {
		return fmt.Errorf("excel: suppliers header: %w", err)
	}
	if err := f.SetRowStyle(suppliersSheet, 1, 1, headerStyle); err != nil {
		return fmt.Errorf("excel: suppliers header style: %w", err)
	}

	summaries := catalog.SupplierSummaries(products, registryNames)
	for i, s := range summaries {
		perf := catalog.SupplierPerformance(products, s.Name)

		row := []interface{}{
			s.Name, s.ProductCount,
			perf.TotalPurchase, perf.TotalSale, perf.TotalProfit, round2(perf.AvgMargin),
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("excel: suppliers cell: %w", err)
		}
		if err := f.SetSheetRow(suppliersSheet, cell, &row); err != nil {
			return fmt.Errorf("excel: suppliers row %d: %w", i+2, err)
		}
	}

	if err := f.SetColWidth(suppliersSheet, "A", "A", 26); err != nil {
		return fmt.Errorf("excel: suppliers col width: %w", err)
	}
	return nil
}

// round2 keeps exported percentages readable without a cell number format.
func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
