package catalog_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"markettakip/app/models"
	"markettakip/pkg/catalog"
)

func TestProfitFor_CostBasedMargin(t *testing.T) {
	p := product("Cola", 120, offer("Acme", 100))

	got := catalog.ProfitFor(p)
	assert.Equal(t, 100.0, got.LowestCost)
	assert.Equal(t, 20.0, got.Profit)
	// Markup convention: profit over cost, not over revenue.
	assert.InDelta(t, 20.0, got.Margin, 1e-9)
	assert.True(t, got.Profitable)
}

func TestProfitFor_ZeroProfitNotProfitable(t *testing.T) {
	p := product("Break-even", 50, offer("Acme", 50))

	got := catalog.ProfitFor(p)
	assert.Equal(t, 0.0, got.Profit)
	assert.False(t, got.Profitable)
}

func TestProfitFor_NoOffers(t *testing.T) {
	p := product("Orphan", 30)

	got := catalog.ProfitFor(p)
	assert.Equal(t, 0.0, got.LowestCost)
	assert.Equal(t, 30.0, got.Profit)
	assert.Equal(t, 0.0, got.Margin) // undefined cost reads as zero margin
	assert.True(t, got.Profitable)
}

func TestCheapestOffers_StablePrefix(t *testing.T) {
	p := product("Gofret", 10, offer("Acme", 6), offer("Beta", 5), offer("Gamma", 6))

	got := catalog.CheapestOffers(p, 2)
	require.Len(t, got, 2)
	assert.Equal(t, "Beta", got[0].Name)
	// Acme and Gamma tie at 6; the earlier-listed offer wins the slot.
	assert.Equal(t, "Acme", got[1].Name)
}

func TestGofretEndToEnd(t *testing.T) {
	p := product("Gofret", 10, offer("Acme", 6), offer("Beta", 5), offer("Acme", 7))

	got := catalog.ProfitFor(p)
	assert.Equal(t, 5.0, got.LowestCost)
	assert.Equal(t, 5.0, got.Profit)
	assert.InDelta(t, 100.0, got.Margin, 1e-9)
	assert.True(t, got.Profitable)

	best := catalog.CheapestOffers(p, 2)
	require.Len(t, best, 2)
	assert.Equal(t, []string{"Beta", "Acme"}, []string{best[0].Name, best[1].Name})
	assert.Equal(t, []float64{5, 6}, []float64{best[0].Price, best[1].Price})
}

func TestStats_ExcludesOfferlessFromTotals(t *testing.T) {
	products := []models.Product{
		product("Cola", 120, offer("Acme", 100)),
		product("Orphan", 30), // no offers: counted, never totalled
		product("Loss", 40, offer("Beta", 50)),
	}

	got := catalog.Stats(products)
	assert.Equal(t, 3, got.TotalProducts)
	assert.Equal(t, 1, got.ProfitableCount)
	assert.Equal(t, 160.0, got.TotalRevenue)
	assert.Equal(t, 150.0, got.TotalCost)
	assert.Equal(t, 10.0, got.TotalProfit)
	assert.InDelta(t, 10.0/150.0*100, got.OverallMargin, 1e-9)
}

func TestStats_Empty(t *testing.T) {
	got := catalog.Stats(nil)
	assert.Equal(t, 0, got.TotalProducts)
	assert.Equal(t, 0.0, got.OverallMargin)
}

func TestSupplierPerformance_OwnPriceNotCheapest(t *testing.T) {
	products := []models.Product{
		// Acme is NOT the cheapest here, but still appears in its own report
		// at its own price.
		product("Gofret", 10, offer("Beta", 5), offer("Acme", 8)),
		product("Cola", 30, offer("Acme", 20)),
		product("Tea", 15, offer("Beta", 9)),
	}

	got := catalog.SupplierPerformance(products, "Acme")
	assert.Equal(t, "Acme", got.Name)
	assert.Equal(t, 2, got.ProductCount)
	assert.Equal(t, 28.0, got.TotalPurchase)
	assert.Equal(t, 40.0, got.TotalSale)
	assert.Equal(t, 12.0, got.TotalProfit)

	// Arithmetic mean of the item margins, not a weighted recomputation:
	// Gofret (10−8)/8 = 25%, Cola (30−20)/20 = 50% → mean 37.5%.
	assert.InDelta(t, 37.5, got.AvgMargin, 1e-9)

	// Items sorted by margin descending.
	require.Len(t, got.Items, 2)
	assert.Equal(t, "Cola", got.Items[0].Product.Name)
	assert.Equal(t, "Gofret", got.Items[1].Product.Name)
}

func TestSupplierPerformance_UnknownSupplier(t *testing.T) {
	got := catalog.SupplierPerformance([]models.Product{product("Tea", 15, offer("Acme", 9))}, "Nobody")
	assert.Equal(t, 0, got.ProductCount)
	assert.Empty(t, got.Items)
	assert.Equal(t, 0.0, got.AvgMargin)
}
