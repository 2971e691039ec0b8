package catalog

import (
	"context"
	"fmt"

	"planet-beauty/internal/model"

	"github.com/rs/zerolog"
)

// ProductWriter upserts products.
type ProductWriter interface {
	Upsert(ctx context.Context, p *model.Product) error
}

// ServiceWriter upserts salon services.
type ServiceWriter interface {
	Upsert(ctx context.Context, s *model.SalonService) error
}

// SeedResult counts the records written.
type SeedResult struct {
	Products int
	Services int
}

// Seed upserts every record of cat. Seeding is idempotent; it stops at the first write error.
func Seed(ctx context.Context, cat *Catalog, products ProductWriter, services ServiceWriter, logger zerolog.Logger) (SeedResult, error) {
	logger = logger.With().Str("component", "catalog-seed").Logger()
	var res SeedResult

	for i := range cat.Products {
		if err := products.Upsert(ctx, &cat.Products[i]); err != nil {
			return res, fmt.Errorf("failed to upsert product %s: %w", cat.Products[i].ID, err)
		}
		res.Products++
	}
	for i := range cat.Services {
		if err := services.Upsert(ctx, &cat.Services[i]); err != nil {
			return res, fmt.Errorf("failed to upsert service %s: %w", cat.Services[i].ID, err)
		}
		res.Services++
	}

	logger.Info().
		Int("products", res.Products).
		Int("services", res.Services).
		Msg("catalog seeded")
	return res, nil
}
