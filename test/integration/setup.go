package integration

import (
	"context"
	"testing"
	"time"

	"planet-beauty/internal/config"
	"planet-beauty/internal/database"
	"planet-beauty/internal/model"
	"planet-beauty/internal/repository"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.mongodb.org/mongo-driver/mongo"
)

// TestDB represents a migrated PostgreSQL test database.
type TestDB struct {
	Container *postgres.PostgresContainer
	Pool      *pgxpool.Pool
	ConnStr   string
}

// SetupTestDB starts a PostgreSQL container, applies the embedded migrations and opens a pool.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	ctx := context.Background()

	postgresContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}
	t.Cleanup(func() {
		if err := postgresContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	logger := zerolog.Nop()
	if err := database.Migrate(connStr, logger); err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}

	pool, err := database.NewPoolFromURL(ctx, connStr, config.DatabaseConfig{
		MaxConnections:  10,
		MinConnections:  2,
		MaxConnLifetime: 300,
	}, logger)
	if err != nil {
		t.Fatalf("failed to create connection pool: %v", err)
	}
	t.Cleanup(pool.Close)

	return &TestDB{
		Container: postgresContainer,
		Pool:      pool,
		ConnStr:   connStr,
	}
}

// SetupTestMongo starts a MongoDB container and returns a database with cart indexes in place.
func SetupTestMongo(t *testing.T) *mongo.Database {
	t.Helper()

	ctx := context.Background()

	mongoContainer, err := mongodb.Run(ctx, "mongo:7")
	if err != nil {
		t.Fatalf("failed to start mongodb container: %v", err)
	}
	t.Cleanup(func() {
		if err := mongoContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	uri, err := mongoContainer.ConnectionString(ctx)
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	db, err := repository.ConnectMongo(ctx, uri, "planetbeauty_test")
	if err != nil {
		t.Fatalf("failed to connect to mongodb: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Client().Disconnect(context.Background())
	})

	if err := repository.CreateCartIndexes(ctx, db); err != nil {
		t.Fatalf("failed to create cart indexes: %v", err)
	}
	return db
}

func price(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// testProducts is the fixture catalogue. P003 is on sale.
func testProducts() []model.Product {
	sale := price("19.99")
	return []model.Product{
		{ID: "P001", Name: "Hydrating Face Cream", Brand: "GlowLux", Category: "skincare", Price: price("45.99"), Images: []string{"/img/p001.jpg"}, InStock: true, Quantity: 50, SKU: "SKI-001", Featured: true},
		{ID: "P002", Name: "Volumizing Shampoo", Brand: "HairRevive", Category: "haircare", Price: price("28.50"), Images: []string{}, InStock: true, Quantity: 80, SKU: "HAI-002"},
		{ID: "P003", Name: "Matte Lipstick", Brand: "ColorPop", Category: "makeup", Price: price("24.99"), SalePrice: &sale, Images: []string{"/img/p003.jpg"}, InStock: true, Quantity: 120, SKU: "MAK-003", Featured: true},
		{ID: "P004", Name: "Rose Eau de Parfum", Brand: "Essence Luxe", Category: "fragrance", Price: price("89.99"), Images: []string{}, InStock: true, Quantity: 30, SKU: "FRA-004"},
		{ID: "P005", Name: "Lavender Bath Salts", Brand: "Spa Essence", Category: "bath-body", Price: price("18.99"), Images: []string{}, InStock: false, Quantity: 0, SKU: "BAT-005"},
	}
}

func testServices() []model.SalonService {
	return []model.SalonService{
		{ID: "haircut", Name: "Premium Haircut & Style", Category: "hair", Price: price("65.00"), Duration: 60, Featured: true, Images: []string{}},
		{ID: "facial", Name: "Deep Cleansing Facial", Category: "skincare", Price: price("95.00"), Duration: 75, Images: []string{}},
	}
}

// SeedCatalog upserts the fixture products and salon services.
func SeedCatalog(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()
	logger := zerolog.Nop()

	products := repository.NewProductRepository(pool, logger)
	for _, p := range testProducts() {
		if err := products.Upsert(ctx, &p); err != nil {
			t.Fatalf("failed to seed product %s: %v", p.ID, err)
		}
	}

	services := repository.NewSalonServiceRepository(pool, logger)
	for _, s := range testServices() {
		if err := services.Upsert(ctx, &s); err != nil {
			t.Fatalf("failed to seed service %s: %v", s.ID, err)
		}
	}
}

// CleanupDB removes all rows from every application table.
func CleanupDB(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	_, err := pool.Exec(context.Background(),
		"TRUNCATE order_items, orders, cart_items, carts, bookings, salon_services, products, users CASCADE")
	if err != nil {
		t.Fatalf("failed to clean database: %v", err)
	}
}
