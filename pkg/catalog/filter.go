package catalog

import (
	"strings"

	"markettakip/app/models"
	"markettakip/pkg/collection"
)

// FilterProducts applies the search box and the supplier dropdown.
//
// supplier, when non-empty, keeps only products carrying an offer from that
// exact name. term matches case-insensitively as a substring of the barcode,
// name, brand, or any offer's supplier name. Both filters compose by AND.
// Input order is preserved; all matches are returned.
func FilterProducts(products []models.Product, term, supplier string) []models.Product {
	filtered := products

	if supplier != "" {
		filtered = collection.Filter(filtered, func(p models.Product) bool {
			return collection.Contains(p.Suppliers, func(o models.SupplierOffer) bool {
				return o.Name == supplier
			})
		})
	}

	needle := strings.ToLower(strings.TrimSpace(term))
	if needle != "" {
		filtered = collection.Filter(filtered, func(p models.Product) bool {
			return strings.Contains(strings.ToLower(p.Barcode), needle) ||
				strings.Contains(strings.ToLower(p.Name), needle) ||
				strings.Contains(strings.ToLower(p.Brand), needle) ||
				collection.Contains(p.Suppliers, func(o models.SupplierOffer) bool {
					return strings.Contains(strings.ToLower(o.Name), needle)
				})
		})
	}

	return filtered
}

// FilterSummaries keeps summaries whose supplier name contains term,
// case-insensitively, preserving the roster's sort order.
func FilterSummaries(summaries []SupplierSummary, term string) []SupplierSummary {
	needle := strings.ToLower(strings.TrimSpace(term))
	if needle == "" {
		return summaries
	}
	return collection.Filter(summaries, func(s SupplierSummary) bool {
		return strings.Contains(strings.ToLower(s.Name), needle)
	})
}
