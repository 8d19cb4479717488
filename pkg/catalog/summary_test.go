package catalog_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"markettakip/app/models"
	"markettakip/pkg/catalog"
)

func product(name string, salesPrice float64, offers ...models.SupplierOffer) models.Product {
	return models.Product{
		ID:         "p-" + name,
		Name:       name,
		SalesPrice: salesPrice,
		Suppliers:  offers,
	}
}

func offer(name string, price float64) models.SupplierOffer {
	return models.SupplierOffer{ID: name + "-offer", Name: name, Price: price}
}

func TestSupplierSummaries_CheapestAttribution(t *testing.T) {
	products := []models.Product{
		product("Gofret", 10, offer("Acme", 6), offer("Beta", 5), offer("Acme", 7)),
		product("Cola", 20, offer("Acme", 12)),
	}

	summaries := catalog.SupplierSummaries(products, nil)
	require.Len(t, summaries, 2)

	acme, ok := catalog.FindSupplierSummary(products, nil, "Acme")
	require.True(t, ok)
	beta, ok := catalog.FindSupplierSummary(products, nil, "Beta")
	require.True(t, ok)

	// Gofret's cheapest offer is Beta at 5; only Cola is Acme's.
	assert.Equal(t, 1, acme.ProductCount)
	require.Len(t, acme.Products, 1)
	assert.Equal(t, "Cola", acme.Products[0].Product.Name)
	assert.Equal(t, 12.0, acme.Products[0].Price)

	assert.Equal(t, 1, beta.ProductCount)
	require.Len(t, beta.Products, 1)
	assert.Equal(t, "Gofret", beta.Products[0].Product.Name)
	assert.Equal(t, 5.0, beta.Products[0].Price)
}

func TestSupplierSummaries_TieKeepsEarliestOffer(t *testing.T) {
	products := []models.Product{
		product("Gum", 3, offer("First", 2), offer("Second", 2)),
	}

	first, ok := catalog.FindSupplierSummary(products, nil, "First")
	require.True(t, ok)
	second, ok := catalog.FindSupplierSummary(products, nil, "Second")
	require.True(t, ok)

	assert.Equal(t, 1, first.ProductCount)
	assert.Equal(t, 0, second.ProductCount)
}

func TestSupplierSummaries_DuplicateNameNotDoubleCounted(t *testing.T) {
	products := []models.Product{
		product("Soap", 9, offer("Acme", 6), offer("Acme", 4)),
	}

	summaries := catalog.SupplierSummaries(products, nil)
	require.Len(t, summaries, 1)
	assert.Equal(t, 1, summaries[0].ProductCount)
	assert.Equal(t, 4.0, summaries[0].Products[0].Price)
}

func TestSupplierSummaries_RegistryOnlySupplier(t *testing.T) {
	products := []models.Product{
		product("Tea", 15, offer("Acme", 10)),
	}

	summaries := catalog.SupplierSummaries(products, []string{"Fresh Dist", "Acme"})
	require.Len(t, summaries, 2)

	fresh, ok := catalog.FindSupplierSummary(products, []string{"Fresh Dist"}, "Fresh Dist")
	require.True(t, ok)
	assert.Equal(t, 0, fresh.ProductCount)
	assert.Empty(t, fresh.Products)
}

func TestSupplierSummaries_SortedNoDuplicates(t *testing.T) {
	products := []models.Product{
		product("A", 1, offer("Zeta", 1)),
		product("B", 1, offer("Alpha", 1)),
		product("C", 1, offer("Mid", 1)),
	}

	summaries := catalog.SupplierSummaries(products, []string{"Alpha", "Beta"})

	names := make([]string, len(summaries))
	seen := map[string]bool{}
	for i, s := range summaries {
		names[i] = s.Name
		assert.False(t, seen[s.Name], "duplicate summary for %s", s.Name)
		seen[s.Name] = true
	}
	assert.Equal(t, []string{"Alpha", "Beta", "Mid", "Zeta"}, names)
}

func TestSupplierSummaries_OfferlessProductAttributedNowhere(t *testing.T) {
	products := []models.Product{
		product("Orphan", 5),
		product("Tea", 15, offer("Acme", 10)),
	}

	summaries := catalog.SupplierSummaries(products, nil)
	require.Len(t, summaries, 1)
	assert.Equal(t, 1, summaries[0].ProductCount)
}

func TestFindSupplierSummary_Absent(t *testing.T) {
	_, ok := catalog.FindSupplierSummary(nil, nil, "Nobody")
	assert.False(t, ok)
}

// Summaries are computed per request from shared snapshots; concurrent
// calls must not interfere with each other's sort order. Run with -race.
func TestSupplierSummaries_Concurrent(t *testing.T) {
	products := []models.Product{
		product("A", 1, offer("Çınar", 1)),
		product("B", 1, offer("Şeker", 1)),
		product("C", 1, offer("Irmak", 1)),
		product("D", 1, offer("İpek", 1)),
		product("E", 1, offer("Umut", 1)),
		product("F", 1, offer("Ünal", 1)),
	}
	registry := []string{"Ada", "Öz Gıda"}

	want := catalog.SupplierSummaries(products, registry)

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 300; i++ {
				got := catalog.SupplierSummaries(products, registry)
				if !assert.ObjectsAreEqual(want, got) {
					t.Errorf("summary order diverged under concurrency")
					return
				}
			}
		}()
	}
	wg.Wait()
}
