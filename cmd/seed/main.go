// Command seed loads a catalog file into the database.
//
//	seed [-file catalog/seed.jsonl.gz]
//
// With S3 enabled the file is read from S3_BUCKET under S3_PREFIX first and
// from the local path when that fails.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"planet-beauty/internal/catalog"
	"planet-beauty/internal/config"
	"planet-beauty/internal/database"
	"planet-beauty/internal/repository"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	file := flag.String("file", "catalog/seed.jsonl.gz", "gzipped JSON-lines catalog file")
	flag.Parse()

	cfg, err := config.Read()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := config.NewLogger(cfg.Logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var s3Loader catalog.Loader
	if cfg.S3.Enabled {
		s3Loader, err = catalog.NewS3Loader(ctx, cfg.S3.Bucket, cfg.S3.Region, logger)
		if err != nil {
			logger.Warn().
				Err(err).
				Msg("failed to initialise S3 loader, falling back to local file system only")
		}
	} else {
		logger.Info().Msg("using local file system for catalog files (S3 disabled)")
	}
	loader := catalog.NewFallbackLoader(s3Loader, catalog.NewFileLoader(logger), cfg.S3.Prefix, logger)

	cat, err := loader.Load(ctx, *file)
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}

	if err := database.Migrate(cfg.Database.ConnectionString(), logger); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	res, err := catalog.Seed(ctx, cat,
		repository.NewProductRepository(pool, logger),
		repository.NewSalonServiceRepository(pool, logger),
		logger)
	if err != nil {
		return err
	}

	fmt.Printf("Seeded %d products and %d services from %s\n", res.Products, res.Services, *file)
	return nil
}
