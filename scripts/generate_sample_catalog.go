//go:build ignore

package main

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
)

// Writes catalog/seed.jsonl.gz for cmd/seed.
// Run with: go run scripts/generate_sample_catalog.go
func main() {
	dataDir := "catalog"

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		log.Fatalf("Failed to create directory: %v", err)
	}

	records := []map[string]any{
		product("P001", "Luxury Hydrating Face Cream", "GlowLux", "skincare", "45.99", "", "SKI-GLO-001", 50, true),
		product("P002", "Matte Lipstick - Ruby Red", "ColorPop Beauty", "makeup", "24.99", "19.99", "MAK-COL-002", 120, true),
		product("P003", "Volumizing Shampoo", "HairRevive", "haircare", "28.50", "", "HAI-REV-003", 80, false),
		product("P004", "Rose Blossom Eau de Parfum", "Essence Luxe", "fragrance", "89.99", "", "FRA-ESS-004", 30, true),
		product("P005", "Professional Makeup Brush Set", "BeautyTools Pro", "tools", "59.99", "44.99", "TOO-BEA-005", 40, false),
		product("P006", "Lavender Aromatherapy Bath Salts", "Spa Essence", "bath-body", "18.99", "", "BAT-SPA-006", 0, false),
		product("P007", "Gel Nail Polish - Midnight Blue", "NailGlow", "nails", "12.99", "", "NAI-GLO-007", 200, false),
		product("P008", "Men's Energizing Face Wash", "ManCare", "mens", "22.99", "", "MEN-MAN-008", 60, false),

		service("haircut-style", "Premium Haircut & Style", "hair", "65.00", 60, true),
		service("color-treatment", "Full Color Treatment", "hair", "150.00", 180, true),
		service("makeup-application", "Professional Makeup Application", "makeup", "85.00", 90, true),
		service("bridal-makeup", "Bridal Makeup Package", "makeup", "250.00", 120, true),
		service("deep-facial", "Deep Cleansing Facial", "skincare", "95.00", 75, true),
		service("anti-aging", "Anti-Aging Treatment", "skincare", "175.00", 90, false),
		service("gel-manicure", "Gel Manicure", "nails", "45.00", 45, false),
		service("hot-stone", "Hot Stone Massage", "spa", "120.00", 90, false),
	}

	filePath := filepath.Join(dataDir, "seed.jsonl.gz")
	if err := writeCatalog(filePath, records); err != nil {
		log.Fatalf("Failed to create %s: %v", filePath, err)
	}

	fmt.Printf("Created %s with %d records\n", filePath, len(records))
}

func product(id, name, brand, category, price, salePrice, sku string, qty int, featured bool) map[string]any {
	p := map[string]any{
		"kind":        "product",
		"id":          id,
		"name":        name,
		"description": name + " by " + brand + ".",
		"brand":       brand,
		"category":    category,
		"price":       price,
		"images":      []string{"/images/products/" + id + ".jpg"},
		"inStock":     qty > 0,
		"quantity":    qty,
		"sku":         sku,
		"featured":    featured,
	}
	if salePrice != "" {
		p["salePrice"] = salePrice
	}
	return p
}

func service(id, name, category, price string, duration int, featured bool) map[string]any {
	return map[string]any{
		"kind":        "service",
		"id":          id,
		"name":        name,
		"description": name + ".",
		"category":    category,
		"price":       price,
		"duration":    duration,
		"featured":    featured,
		"images":      []string{"/images/services/" + id + ".jpg"},
	}
}

// writeCatalog creates a gzipped file with one JSON record per line.
func writeCatalog(filePath string, records []map[string]any) error {
	file, err := os.Create(filePath)
	if err != nil {
		return err
	}
	defer file.Close()

	gzipWriter := gzip.NewWriter(file)
	defer gzipWriter.Close()

	enc := json.NewEncoder(gzipWriter)
	for _, r := range records {
		if err := enc.Encode(r); err != nil {
			return err
		}
	}

	return nil
}
