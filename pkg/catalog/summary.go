// Package catalog holds the derived-view computations of MarketTakip: the
// supplier roster, profitability metrics, and search filters.
//
// Every function is pure — no I/O, no internal state, deterministic for a
// given input. The live-state layer re-invokes them with a completely
// replaced product list on every store snapshot, so nothing here may cache
// or mutate its inputs.
package catalog

import (
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"markettakip/app/models"
	"markettakip/pkg/collection"
)

// SummaryProduct is one (product, matched price) pair credited to a
// supplier's summary.
type SummaryProduct struct {
	Product models.Product `json:"product"`
	Price   float64        `json:"price"`
}

// SupplierSummary is the aggregated roster view of one supplier.
type SupplierSummary struct {
	Name         string           `json:"name"`
	ProductCount int              `json:"productCount"`
	Products     []SummaryProduct `json:"products"`
}

// SupplierSummaries derives the supplier roster from the product list plus
// the registry-only names.
//
// Every distinct supplier name appearing in any product's offers gets a
// summary, as does every registry name not already present — registry-only
// suppliers appear with zero products. Each product is then attributed to
// exactly one supplier: the one behind its single cheapest offer, ties
// resolved to the earliest-listed offer. A product is never double-counted,
// neither across suppliers nor for a supplier listed twice in its offers.
//
// The result is sorted by supplier name ascending using locale-aware
// collation and contains no duplicate names.
func SupplierSummaries(products []models.Product, registryNames []string) []SupplierSummary {
	byName := make(map[string]*SupplierSummary)

	ensure := func(name string) *SupplierSummary {
		s, ok := byName[name]
		if !ok {
			s = &SupplierSummary{Name: name}
			byName[name] = s
		}
		return s
	}

	for _, p := range products {
		for _, offer := range p.Suppliers {
			ensure(offer.Name)
		}
	}
	for _, name := range registryNames {
		ensure(name)
	}

	for _, p := range products {
		cheapest, ok := cheapestOffer(p)
		if !ok {
			continue
		}
		s := ensure(cheapest.Name)
		s.ProductCount++
		s.Products = append(s.Products, SummaryProduct{Product: p, Price: cheapest.Price})
	}

	out := make([]SupplierSummary, 0, len(byName))
	for _, s := range byName {
		out = append(out, *s)
	}
	// collate.Collator keeps mutable iterator state between CompareString
	// calls, so each invocation builds its own. Turkish collation orders
	// names the way the UI expects rather than by raw byte value.
	col := collate.New(language.Turkish)
	return collection.SortBy(out, func(a, b SupplierSummary) bool {
		return col.CompareString(a.Name, b.Name) < 0
	})
}

// FindSupplierSummary looks up one summary by exact name from the full
// computed roster. The second return is false when the name is absent.
func FindSupplierSummary(products []models.Product, registryNames []string, name string) (SupplierSummary, bool) {
	return collection.First(SupplierSummaries(products, registryNames), func(s SupplierSummary) bool {
		return s.Name == name
	})
}

// cheapestOffer returns the offer with the minimum purchase price, keeping
// the earliest-listed offer on a tie. ok is false when there are no offers.
func cheapestOffer(p models.Product) (models.SupplierOffer, bool) {
	if len(p.Suppliers) == 0 {
		return models.SupplierOffer{}, false
	}
	min := p.Suppliers[0]
	for _, offer := range p.Suppliers[1:] {
		if offer.Price < min.Price {
			min = offer
		}
	}
	return min, true
}
