package catalog

import (
	"markettakip/app/models"
	"markettakip/pkg/collection"
)

// ProductProfit is the per-product profitability view.
//
// Margin is cost-based (markup): (salesPrice − lowestCost) / lowestCost × 100.
// This is a deliberate business convention — profit relative to what the
// product cost to buy, not gross margin on revenue. salesPrice=120 against
// lowestCost=100 reads as 20%, not 16.67%.
type ProductProfit struct {
	LowestCost float64 `json:"lowestCost"`
	Profit     float64 `json:"profit"`
	Margin     float64 `json:"margin"`
	Profitable bool    `json:"profitable"`
}

// LowestCost is the minimum offer price across the product's offers, or 0
// when no offers exist (the cost is undefined, displayed as 0).
func LowestCost(p models.Product) float64 {
	offer, ok := cheapestOffer(p)
	if !ok {
		return 0
	}
	return offer.Price
}

// ProfitFor computes the profitability view for one product. Zero profit
// counts as not profitable.
func ProfitFor(p models.Product) ProductProfit {
	cost := LowestCost(p)
	profit := p.SalesPrice - cost

	margin := 0.0
	if cost > 0 {
		margin = profit / cost * 100
	}

	return ProductProfit{
		LowestCost: cost,
		Profit:     profit,
		Margin:     margin,
		Profitable: profit > 0,
	}
}

// CheapestOffers returns up to n offers sorted by price ascending, stable so
// equal prices keep their listed order. Used by the detail view's
// "best suppliers" panel (n=2).
func CheapestOffers(p models.Product, n int) []models.SupplierOffer {
	sorted := collection.SortBy(p.Suppliers, func(a, b models.SupplierOffer) bool {
		return a.Price < b.Price
	})
	if n < len(sorted) {
		sorted = sorted[:n]
	}
	return sorted
}

// CatalogStats are the catalog-wide totals. Products with zero offers are
// excluded from every monetary total — their cost is undefined, not zero —
// but still count toward TotalProducts.
type CatalogStats struct {
	TotalProducts   int     `json:"totalProducts"`
	ProfitableCount int     `json:"profitableCount"`
	TotalRevenue    float64 `json:"totalRevenue"`
	TotalCost       float64 `json:"totalCost"`
	TotalProfit     float64 `json:"totalProfit"`
	OverallMargin   float64 `json:"overallMargin"`
}

// Stats computes the catalog-wide profitability totals.
func Stats(products []models.Product) CatalogStats {
	stats := CatalogStats{TotalProducts: len(products)}

	for _, p := range products {
		if len(p.Suppliers) == 0 {
			continue
		}
		cost := LowestCost(p)
		stats.TotalRevenue += p.SalesPrice
		stats.TotalCost += cost
		if p.SalesPrice > cost {
			stats.ProfitableCount++
		}
	}

	stats.TotalProfit = stats.TotalRevenue - stats.TotalCost
	if stats.TotalCost > 0 {
		stats.OverallMargin = stats.TotalProfit / stats.TotalCost * 100
	}

	return stats
}

// SupplierItem is one product as seen through a single supplier's offer,
// priced at that supplier's own price rather than the catalog-wide cheapest.
type SupplierItem struct {
	Product       models.Product `json:"product"`
	PurchasePrice float64        `json:"purchasePrice"`
	SalePrice     float64        `json:"salePrice"`
	Profit        float64        `json:"profit"`
	Margin        float64        `json:"margin"`
}

// SupplierStats is the performance view of one supplier across every product
// that carries its offer.
type SupplierStats struct {
	Name          string         `json:"name"`
	ProductCount  int            `json:"productCount"`
	TotalPurchase float64        `json:"totalPurchase"`
	TotalSale     float64        `json:"totalSale"`
	TotalProfit   float64        `json:"totalProfit"`
	AvgMargin     float64        `json:"avgMargin"`
	Items         []SupplierItem `json:"items"`
}

// SupplierPerformance answers "how is supplier X performing across
// everything they sell me". Unlike SupplierSummaries — which attributes each
// product to its one cheapest supplier — this view includes a product under
// every supplier that offers it, using that supplier's own price. The two
// views answer different questions and must not be unified.
//
// AvgMargin is the simple arithmetic mean of the per-item margins, not a
// weighted recomputation from the summed totals. Items are sorted by margin
// descending.
func SupplierPerformance(products []models.Product, name string) SupplierStats {
	var items []SupplierItem

	for _, p := range products {
		offer, ok := collection.First(p.Suppliers, func(o models.SupplierOffer) bool {
			return o.Name == name
		})
		if !ok {
			continue
		}

		profit := p.SalesPrice - offer.Price
		margin := 0.0
		if offer.Price > 0 {
			margin = profit / offer.Price * 100
		}

		items = append(items, SupplierItem{
			Product:       p,
			PurchasePrice: offer.Price,
			SalePrice:     p.SalesPrice,
			Profit:        profit,
			Margin:        margin,
		})
	}

	stats := SupplierStats{
		Name:          name,
		ProductCount:  len(items),
		TotalPurchase: collection.Sum(items, func(i SupplierItem) float64 { return i.PurchasePrice }),
		TotalSale:     collection.Sum(items, func(i SupplierItem) float64 { return i.SalePrice }),
	}
	stats.TotalProfit = stats.TotalSale - stats.TotalPurchase

	if len(items) > 0 {
		stats.AvgMargin = collection.Sum(items, func(i SupplierItem) float64 { return i.Margin }) / float64(len(items))
	}

	stats.Items = collection.SortBy(items, func(a, b SupplierItem) bool {
		return a.Margin > b.Margin
	})

	return stats
}
