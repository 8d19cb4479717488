package router_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"markettakip/pkg/router"
)

func ok(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) }

func TestNamedRoutesAndURL(t *testing.T) {
	r := router.New()
	r.Get("/api/products/{id}", "products.show", ok)

	path, err := r.URL("products.show", map[string]string{"id": "abc"})
	if err != nil {
		t.Fatalf("URL: %v", err)
	}
	if path != "/api/products/abc" {
		t.Errorf("unexpected path: %q", path)
	}

	if _, err := r.URL("products.show", nil); err == nil {
		t.Error("expected error for missing params")
	}
	if _, err := r.URL("nope", nil); err == nil {
		t.Error("expected error for unknown route")
	}
}

func TestGroupPrefixes(t *testing.T) {
	r := router.New()
	api := r.Group("/api")
	api.Get("/returns", "returns.index", ok)

	srv := httptest.NewServer(r.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/returns")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}
}

func TestRoutesListing(t *testing.T) {
	r := router.New()
	r.Get("/a", "a.index", ok)
	r.Post("/b", "b.store", ok)
	r.Get("/c", "", ok) // unnamed routes are not listed

	infos := r.Routes()
	if len(infos) != 2 {
		t.Fatalf("expected 2 named routes, got %d", len(infos))
	}
}

func TestMethodNotAllowed(t *testing.T) {
	r := router.New()
	r.Get("/only-get", "x", ok)

	srv := httptest.NewServer(r.Handler())
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/only-get", "application/json", nil)
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("expected 405, got %d", resp.StatusCode)
	}
}
