package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"planet-beauty/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

const salonColumns = `id, name, description, category, price, duration, featured, images, stylist, created_at`

type salonServiceRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewSalonServiceRepository creates a PostgreSQL-backed salon service repository.
func NewSalonServiceRepository(pool *pgxpool.Pool, logger zerolog.Logger) SalonServiceRepository {
	return &salonServiceRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "salon_service").Logger(),
	}
}

func scanSalonService(row pgx.Row, s *model.SalonService) error {
	return row.Scan(&s.ID, &s.Name, &s.Description, &s.Category, &s.Price, &s.Duration,
		&s.Featured, &s.Images, &s.Stylist, &s.CreatedAt)
}

func (r *salonServiceRepository) List(ctx context.Context, filter model.SalonServiceFilter) ([]model.SalonService, error) {
	query := `
		SELECT ` + salonColumns + `
		FROM salon_services
		WHERE ($1 = '' OR category = $1)
		  AND (NOT $2 OR featured)
		ORDER BY category, name
	`

	rows, err := r.pool.Query(ctx, query, filter.Category, filter.Featured)
	if err != nil {
		r.logger.Error().Err(err).Str("category", filter.Category).Msg("failed to query salon services")
		return nil, fmt.Errorf("failed to query salon services: %w", err)
	}
	defer rows.Close()

	services := []model.SalonService{}
	for rows.Next() {
		var s model.SalonService
		if err := scanSalonService(rows, &s); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan salon service row")
			return nil, fmt.Errorf("failed to scan salon service: %w", err)
		}
		services = append(services, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating salon services: %w", err)
	}

	return services, nil
}

func (r *salonServiceRepository) GetByID(ctx context.Context, id string) (*model.SalonService, error) {
	query := `SELECT ` + salonColumns + ` FROM salon_services WHERE id = $1`

	var s model.SalonService
	if err := scanSalonService(r.pool.QueryRow(ctx, query, id), &s); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("service_id", id).Msg("failed to query salon service")
		return nil, fmt.Errorf("failed to query salon service: %w", err)
	}
	return &s, nil
}

func (r *salonServiceRepository) Upsert(ctx context.Context, s *model.SalonService) error {
	query := `
		INSERT INTO salon_services (` + salonColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			description = EXCLUDED.description,
			category = EXCLUDED.category,
			price = EXCLUDED.price,
			duration = EXCLUDED.duration,
			featured = EXCLUDED.featured,
			images = EXCLUDED.images,
			stylist = EXCLUDED.stylist
	`

	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}

	images := s.Images
	if images == nil {
		images = []string{}
	}

	if _, err := r.pool.Exec(ctx, query, s.ID, s.Name, s.Description, s.Category, s.Price, s.Duration,
		s.Featured, images, s.Stylist, s.CreatedAt); err != nil {
		r.logger.Error().Err(err).Str("service_id", s.ID).Msg("failed to upsert salon service")
		return fmt.Errorf("failed to upsert salon service: %w", err)
	}
	return nil
}
