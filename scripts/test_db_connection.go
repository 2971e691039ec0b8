//go:build ignore

package main

import (
	"context"
	"fmt"
	"os"

	"planet-beauty/internal/config"

	"github.com/jackc/pgx/v5"
)

// Checks the configured database and reports the schema version.
// Run with: go run scripts/test_db_connection.go
func main() {
	cfg, err := config.Read()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	conn, err := pgx.Connect(ctx, cfg.Database.ConnectionString())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer conn.Close(ctx)

	var dbName string
	if err := conn.QueryRow(ctx, "SELECT current_database()").Scan(&dbName); err != nil {
		fmt.Fprintf(os.Stderr, "QueryRow failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Successfully connected to database: %s\n", dbName)

	var version int64
	var dirty bool
	err = conn.QueryRow(ctx, "SELECT version, dirty FROM schema_migrations").Scan(&version, &dirty)
	if err != nil {
		fmt.Println("Schema not migrated yet (no schema_migrations table)")
		return
	}
	fmt.Printf("Schema version: %d (dirty=%v)\n", version, dirty)

	for _, table := range []string{"products", "salon_services", "users", "orders", "bookings"} {
		var n int
		if err := conn.QueryRow(ctx, "SELECT count(*) FROM "+table).Scan(&n); err != nil {
			fmt.Printf("  %-16s error: %v\n", table, err)
			continue
		}
		fmt.Printf("  %-16s %d rows\n", table, n)
	}
}
