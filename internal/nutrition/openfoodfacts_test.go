package nutrition

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestLookupBarcodeUsesServingValues(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v2/product/12345678.json" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
  "status": 1,
  "product": {
    "product_name": "Yogurt Cup",
    "brands": "Brand Co",
    "serving_quantity": 170,
    "serving_quantity_unit": "g",
    "nutriments": {
      "energy-kcal_serving": 120,
      "proteins_serving": 10,
      "carbohydrates_serving": "15",
      "fat_serving": 2,
      "energy-kcal_100g": 70
    }
  }
}`))
	}))
	defer ts.Close()

	c := &Client{BaseURL: ts.URL, HTTPClient: ts.Client()}
	p, err := c.LookupBarcode(context.Background(), "12345678")
	if err != nil {
		t.Fatalf("lookup barcode: %v", err)
	}
	if p.Name != "Yogurt Cup" || p.Portion != "170 g" {
		t.Fatalf("unexpected product: %+v", p)
	}
	if p.Macros.Calories != 120 || p.Macros.Protein != 10 || p.Macros.Carbs != 15 || p.Macros.Fat != 2 {
		t.Fatalf("unexpected macros: %+v", p.Macros)
	}
}

func TestLookupBarcodeFallsBackToPer100g(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":1,"product":{"product_name":"Oats","nutriments":{"energy-kcal_100g":380,"proteins_100g":13}}}`))
	}))
	defer ts.Close()

	c := &Client{BaseURL: ts.URL, HTTPClient: ts.Client()}
	p, err := c.LookupBarcode(context.Background(), "400")
	if err != nil {
		t.Fatalf("lookup barcode: %v", err)
	}
	if p.Portion != "100 g" || p.Macros.Calories != 380 || p.Macros.Protein != 13 {
		t.Fatalf("unexpected product: %+v", p)
	}
}

func TestLookupBarcodeNotFound(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":0}`))
	}))
	defer ts.Close()

	c := &Client{BaseURL: ts.URL, HTTPClient: ts.Client()}
	if _, err := c.LookupBarcode(context.Background(), "999"); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
	if _, err := c.LookupBarcode(context.Background(), "abc"); err == nil {
		t.Fatalf("expected invalid barcode error")
	}
}
