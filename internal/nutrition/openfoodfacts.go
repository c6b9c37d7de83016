// Package nutrition resolves packaged-food barcodes to a name, portion and
// macros using the Open Food Facts product API.
package nutrition

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/ADILE66/OptilifeAI-sub001/internal/model"
)

const defaultBaseURL = "https://world.openfoodfacts.org"

var ErrProductNotFound = errors.New("product not found")

// Product is one food as it would be logged: macros are per portion when
// the product declares a serving, otherwise per 100 g.
type Product struct {
	Barcode string
	Name    string
	Brand   string
	Portion string
	Macros  model.Macros
}

type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

func (c *Client) LookupBarcode(ctx context.Context, barcode string) (Product, error) {
	barcode = strings.TrimSpace(barcode)
	if barcode == "" {
		return Product{}, fmt.Errorf("barcode is required")
	}
	if _, err := strconv.ParseUint(barcode, 10, 64); err != nil {
		return Product{}, fmt.Errorf("invalid barcode %q (digits only)", barcode)
	}
	base := strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	if base == "" {
		base = defaultBaseURL
	}
	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 12 * time.Second}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/api/v2/product/%s.json", base, barcode), nil)
	if err != nil {
		return Product{}, fmt.Errorf("create openfoodfacts request: %w", err)
	}
	req.Header.Set("User-Agent", "optilife/1.0")

	resp, err := httpClient.Do(req)
	if err != nil {
		return Product{}, fmt.Errorf("execute openfoodfacts request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Product{}, fmt.Errorf("read openfoodfacts response: %w", err)
	}
	if resp.StatusCode == http.StatusNotFound {
		return Product{}, fmt.Errorf("barcode %s: %w", barcode, ErrProductNotFound)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Product{}, fmt.Errorf("openfoodfacts request failed with status %d", resp.StatusCode)
	}

	var parsed offResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return Product{}, fmt.Errorf("decode openfoodfacts response: %w", err)
	}
	name := strings.TrimSpace(parsed.Product.ProductName)
	if parsed.Status != 1 || name == "" {
		return Product{}, fmt.Errorf("barcode %s: %w", barcode, ErrProductNotFound)
	}

	suffix, portion := servingBasis(parsed.Product)
	n := parsed.Product.Nutriments
	return Product{
		Barcode: barcode,
		Name:    name,
		Brand:   strings.TrimSpace(parsed.Product.Brands),
		Portion: portion,
		Macros: model.Macros{
			Calories: nutrient(n, "energy-kcal", suffix),
			Protein:  nutrient(n, "proteins", suffix),
			Carbs:    nutrient(n, "carbohydrates", suffix),
			Fat:      nutrient(n, "fat", suffix),
		},
	}, nil
}

// servingBasis picks per-serving values when the product has a serving
// size with a calorie figure, else per-100g values.
func servingBasis(p offProduct) (suffix, portion string) {
	if _, ok := parseFloatAny(p.Nutriments["energy-kcal_serving"]); ok {
		switch {
		case p.ServingQuantity > 0:
			unit := strings.TrimSpace(p.ServingQuantityUnit)
			if unit == "" {
				unit = "g"
			}
			return "_serving", strconv.FormatFloat(p.ServingQuantity, 'f', -1, 64) + " " + unit
		case strings.TrimSpace(p.ServingSize) != "":
			return "_serving", strings.TrimSpace(p.ServingSize)
		}
	}
	return "_100g", "100 g"
}

func nutrient(n map[string]any, name, suffix string) float64 {
	v, ok := parseFloatAny(n[name+suffix])
	if !ok || v < 0 {
		return 0
	}
	return v
}

func parseFloatAny(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

type offResponse struct {
	Status  int        `json:"status"`
	Product offProduct `json:"product"`
}

type offProduct struct {
	ProductName         string         `json:"product_name"`
	Brands              string         `json:"brands"`
	ServingSize         string         `json:"serving_size"`
	ServingQuantity     float64        `json:"serving_quantity"`
	ServingQuantityUnit string         `json:"serving_quantity_unit"`
	Nutriments          map[string]any `json:"nutriments"`
}
