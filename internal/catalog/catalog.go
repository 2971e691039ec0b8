// Package catalog reads gzipped JSON-lines catalog files and seeds them into the store.
//
// Each line is an object with a "kind" of "product" or "service"; the remaining
// fields are those of model.Product or model.SalonService.
package catalog

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"

	"planet-beauty/internal/model"
)

const (
	KindProduct = "product"
	KindService = "service"
)

// Catalog is the decoded content of one catalog file.
type Catalog struct {
	Products []model.Product
	Services []model.SalonService
}

// Size returns the number of records in the catalog.
func (c *Catalog) Size() int {
	return len(c.Products) + len(c.Services)
}

// Loader defines the interface for loading catalog files.
type Loader interface {
	// Load reads a gzipped catalog file and returns its records.
	Load(ctx context.Context, path string) (*Catalog, error)
}

type kindOnly struct {
	Kind string `json:"kind"`
}

// decode reads JSON lines from r. The first malformed or invalid line aborts the read.
func decode(ctx context.Context, r io.Reader) (*Catalog, error) {
	cat := &Catalog{}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		if lineNo%10_000 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var k kindOnly
		if err := json.Unmarshal([]byte(line), &k); err != nil {
			return nil, fmt.Errorf("line %d: invalid JSON: %w", lineNo, err)
		}

		switch k.Kind {
		case KindProduct:
			var p model.Product
			if err := json.Unmarshal([]byte(line), &p); err != nil {
				return nil, fmt.Errorf("line %d: invalid product: %w", lineNo, err)
			}
			if err := validateProduct(&p); err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			cat.Products = append(cat.Products, p)
		case KindService:
			var s model.SalonService
			if err := json.Unmarshal([]byte(line), &s); err != nil {
				return nil, fmt.Errorf("line %d: invalid service: %w", lineNo, err)
			}
			if err := validateService(&s); err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			cat.Services = append(cat.Services, s)
		default:
			return nil, fmt.Errorf("line %d: unknown kind %q", lineNo, k.Kind)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	return cat, nil
}

func validateProduct(p *model.Product) error {
	switch {
	case p.ID == "":
		return fmt.Errorf("product id is required")
	case p.Name == "":
		return fmt.Errorf("product %s: name is required", p.ID)
	case p.SKU == "":
		return fmt.Errorf("product %s: sku is required", p.ID)
	case p.Price.IsNegative():
		return fmt.Errorf("product %s: price must not be negative", p.ID)
	case p.SalePrice != nil && p.SalePrice.IsNegative():
		return fmt.Errorf("product %s: sale price must not be negative", p.ID)
	case p.Quantity < 0:
		return fmt.Errorf("product %s: quantity must not be negative", p.ID)
	}
	if p.Images == nil {
		p.Images = []string{}
	}
	return nil
}

func validateService(s *model.SalonService) error {
	switch {
	case s.ID == "":
		return fmt.Errorf("service id is required")
	case s.Name == "":
		return fmt.Errorf("service %s: name is required", s.ID)
	case !slices.Contains(model.SalonServiceCategories, s.Category):
		return fmt.Errorf("service %s: invalid category %q", s.ID, s.Category)
	case s.Duration < 15:
		return fmt.Errorf("service %s: duration must be at least 15 minutes", s.ID)
	case s.Price.IsNegative():
		return fmt.Errorf("service %s: price must not be negative", s.ID)
	}
	if s.Images == nil {
		s.Images = []string{}
	}
	return nil
}
