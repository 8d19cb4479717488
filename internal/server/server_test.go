package server_test

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"markettakip/app/models"
	"markettakip/internal/server"
	"markettakip/pkg/live"
	"markettakip/pkg/storage"
	"markettakip/pkg/store"
	"markettakip/pkg/ws"
)

// fakeDisk satisfies storage.Disk in memory so photo archival works without
// a filesystem or bucket.
type fakeDisk struct {
	files map[string][]byte
}

func newFakeDisk() *fakeDisk { return &fakeDisk{files: map[string][]byte{}} }

func (d *fakeDisk) Put(path string, content []byte) error { d.files[path] = content; return nil }

func (d *fakeDisk) PutStream(path string, r io.Reader) error {
	content, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	d.files[path] = content
	return nil
}

func (d *fakeDisk) Get(path string) ([]byte, error) { return d.files[path], nil }

func (d *fakeDisk) GetStream(path string) (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(d.files[path])), nil
}

func (d *fakeDisk) Exists(path string) bool        { _, ok := d.files[path]; return ok }
func (d *fakeDisk) Delete(path string) error       { delete(d.files, path); return nil }
func (d *fakeDisk) URL(path string) string         { return "fake://" + path }
func (d *fakeDisk) Files(string) ([]string, error) { return nil, nil }

type env struct {
	state  *live.State
	driver *store.Memory
	srv    *httptest.Server
	disk   *fakeDisk
}

func newEnv(t *testing.T) *env {
	t.Helper()

	disk := newFakeDisk()
	storage.RegisterDisk("test", disk)

	state := live.NewState()
	driver := store.NewMemory()
	hub := ws.NewHub()
	go hub.Run()

	srv := httptest.NewServer(server.BuildRouter(state, driver, hub))
	t.Cleanup(srv.Close)

	return &env{state: state, driver: driver, srv: srv, disk: disk}
}

// refresh copies the driver contents into the live state, standing in for
// the store subscription the real server runs.
func (e *env) refresh(t *testing.T) {
	t.Helper()
	ctx := context.Background()

	var products []models.Product
	require.NoError(t, e.driver.FindAll(ctx, store.Products, "createdAt", true, &products))
	e.state.SetProducts(products)

	var returns []models.ReturnItem
	require.NoError(t, e.driver.FindAll(ctx, store.Returns, "date", true, &returns))
	e.state.SetReturns(returns)

	var photos []models.SupplierPhoto
	require.NoError(t, e.driver.FindAll(ctx, store.SupplierPhotos, "date", true, &photos))
	e.state.SetPhotos(photos)

	var suppliers []models.Supplier
	require.NoError(t, e.driver.FindAll(ctx, store.Suppliers, "name", false, &suppliers))
	e.state.SetSuppliers(suppliers)
}

func (e *env) do(t *testing.T, method, path string, body any) *http.Response {
	t.Helper()

	var rd *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(raw)
	} else {
		rd = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, e.srv.URL+path, rd)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func decodeData[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()

	var envelope struct {
		Data T `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	return envelope.Data
}

func pngDataURI(t *testing.T, w, h int) string {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 64, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

func TestHealthz(t *testing.T) {
	e := newEnv(t)

	resp := e.do(t, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeData[map[string]string](t, resp)
	assert.Equal(t, "ok", body["status"])
}

func TestProductLifecycle(t *testing.T) {
	e := newEnv(t)

	resp := e.do(t, http.MethodPost, "/api/products", map[string]any{
		"barcode":    "8690123",
		"brand":      "Ülker",
		"name":       "Çikolatalı Gofret",
		"weight":     "36g",
		"salesPrice": 10,
		"suppliers": []map[string]any{
			{"name": "Acme", "price": 6},
			{"name": "Beta", "price": 5},
		},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	created := decodeData[map[string]any](t, resp)
	id, _ := created["id"].(string)
	require.NotEmpty(t, id)

	profit, ok := created["profitability"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, 5.0, profit["lowestCost"])
	assert.Equal(t, 5.0, profit["profit"])
	assert.InDelta(t, 100.0, profit["margin"], 1e-9)

	e.refresh(t)

	resp = e.do(t, http.MethodGet, "/api/products?q=gofret", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list := decodeData[[]map[string]any](t, resp)
	require.Len(t, list, 1)

	resp = e.do(t, http.MethodPatch, "/api/products/"+id, map[string]any{"salesPrice": 12})
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	resp = e.do(t, http.MethodDelete, "/api/products/"+id, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	count, err := e.driver.Count(context.Background(), store.Products)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestProductValidation(t *testing.T) {
	e := newEnv(t)

	resp := e.do(t, http.MethodPost, "/api/products", map[string]any{
		"brand": "No name or barcode",
	})
	defer resp.Body.Close()
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	var envelope struct {
		Errors map[string]string `json:"errors"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	assert.Contains(t, envelope.Errors, "barcode")
	assert.Contains(t, envelope.Errors, "name")
}

func TestSupplierSummariesEndpoint(t *testing.T) {
	e := newEnv(t)

	e.state.SetProducts([]models.Product{
		{ID: "p1", Name: "Gofret", SalesPrice: 10, Suppliers: []models.SupplierOffer{
			{ID: "o1", Name: "Beta", Price: 5},
			{ID: "o2", Name: "Acme", Price: 6},
		}},
	})
	e.state.SetSuppliers([]models.Supplier{{ID: "s1", Name: "Registry Only"}})

	resp := e.do(t, http.MethodGet, "/api/suppliers", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	summaries := decodeData[[]map[string]any](t, resp)
	require.Len(t, summaries, 3)

	counts := map[string]float64{}
	for _, s := range summaries {
		counts[s["name"].(string)] = s["productCount"].(float64)
	}
	assert.Equal(t, 0.0, counts["Acme"])
	assert.Equal(t, 1.0, counts["Beta"])
	assert.Equal(t, 0.0, counts["Registry Only"])
}

func TestSupplierDeleteCascade(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, err := e.driver.Create(ctx, store.Suppliers, models.Supplier{Name: "Acme", CreatedAt: 1})
	require.NoError(t, err)
	_, err = e.driver.Create(ctx, store.Products, models.Product{
		Name: "Gofret", SalesPrice: 10, CreatedAt: 1,
		Suppliers: []models.SupplierOffer{{ID: "o1", Name: "Acme", Price: 5}},
	})
	require.NoError(t, err)

	resp := e.do(t, http.MethodDelete, "/api/suppliers/Acme", nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	var products []models.Product
	require.NoError(t, e.driver.FindAll(ctx, store.Products, "createdAt", false, &products))
	require.Len(t, products, 1)
	assert.Empty(t, products[0].Suppliers)

	count, err := e.driver.Count(ctx, store.Suppliers)
	require.NoError(t, err)
	assert.Zero(t, count)
}

// Suppliers that only exist through product offers (legacy imports, offers
// typed straight onto a product) have no registry entry but must still be
// deletable by name.
func TestSupplierDeleteWithoutRegistryEntry(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, err := e.driver.Create(ctx, store.Products, models.Product{
		Name: "Gofret", SalesPrice: 10, CreatedAt: 1,
		Suppliers: []models.SupplierOffer{
			{ID: "o1", Name: "Acme", Price: 5},
			{ID: "o2", Name: "Beta", Price: 6},
		},
	})
	require.NoError(t, err)

	resp := e.do(t, http.MethodDelete, "/api/suppliers/Acme", nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	var products []models.Product
	require.NoError(t, e.driver.FindAll(ctx, store.Products, "createdAt", false, &products))
	require.Len(t, products, 1)
	require.Len(t, products[0].Suppliers, 1)
	assert.Equal(t, "Beta", products[0].Suppliers[0].Name)

	resp = e.do(t, http.MethodDelete, "/api/suppliers/Nobody", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestStatsEndpoints(t *testing.T) {
	e := newEnv(t)

	e.state.SetProducts([]models.Product{
		{ID: "p1", Name: "Cola", SalesPrice: 120, Suppliers: []models.SupplierOffer{
			{ID: "o1", Name: "Acme", Price: 100},
		}},
	})

	resp := e.do(t, http.MethodGet, "/api/stats/catalog", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	stats := decodeData[map[string]any](t, resp)
	assert.Equal(t, 1.0, stats["totalProducts"])
	assert.InDelta(t, 20.0, stats["overallMargin"], 1e-9)

	resp = e.do(t, http.MethodGet, "/api/stats/suppliers/Acme", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	perf := decodeData[map[string]any](t, resp)
	assert.Equal(t, 1.0, perf["productCount"])
	assert.InDelta(t, 20.0, perf["avgMargin"], 1e-9)
}

func TestReturnLifecycle(t *testing.T) {
	e := newEnv(t)

	resp := e.do(t, http.MethodPost, "/api/returns", map[string]any{
		"supplierName": "Acme",
		"productName":  "Gofret",
		"quantity":     3,
		"image":        pngDataURI(t, 1200, 600),
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	created := decodeData[map[string]any](t, resp)
	id, _ := created["id"].(string)
	require.NotEmpty(t, id)
	assert.Equal(t, false, created["isReturned"])

	img, _ := created["image"].(string)
	assert.True(t, strings.HasPrefix(img, "data:image/jpeg;base64,"),
		"image should be a downscaled jpeg data uri")

	e.refresh(t)

	resp = e.do(t, http.MethodPatch, "/api/returns/"+id+"/toggle", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	toggled := decodeData[map[string]bool](t, resp)
	assert.True(t, toggled["isReturned"])
}

func TestReturnRejectsBadImage(t *testing.T) {
	e := newEnv(t)

	resp := e.do(t, http.MethodPost, "/api/returns", map[string]any{
		"supplierName": "Acme",
		"productName":  "Gofret",
		"quantity":     1,
		"image":        "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("junk")),
	})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	count, err := e.driver.Count(context.Background(), store.Returns)
	require.NoError(t, err)
	assert.Zero(t, count, "no record without its evidence")
}

func TestPhotoCreateArchivesOriginal(t *testing.T) {
	e := newEnv(t)

	resp := e.do(t, http.MethodPost, "/api/photos", map[string]any{
		"supplierName": "Acme",
		"name":         "invoice",
		"image":        pngDataURI(t, 1000, 500),
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	created := decodeData[map[string]any](t, resp)
	archive, _ := created["archivePath"].(string)
	require.NotEmpty(t, archive)
	assert.True(t, strings.HasPrefix(archive, "photos/"))
	assert.True(t, e.disk.Exists(archive), "original should be archived")
}

func TestExportCatalog(t *testing.T) {
	e := newEnv(t)
	e.state.SetProducts([]models.Product{
		{ID: "p1", Name: "Gofret", SalesPrice: 10, Suppliers: []models.SupplierOffer{
			{ID: "o1", Name: "Acme", Price: 5},
		}},
	})

	resp := e.do(t, http.MethodGet, "/api/export/catalog", nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "spreadsheetml")
	assert.Contains(t, resp.Header.Get("Content-Disposition"), ".xlsx")
}
