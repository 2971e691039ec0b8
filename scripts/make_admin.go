//go:build ignore

package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"planet-beauty/internal/config"
	"planet-beauty/internal/database"
	"planet-beauty/internal/model"
	"planet-beauty/internal/repository"
)

// Promotes an existing user to admin.
// Run with: go run scripts/make_admin.go <email>
func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "Usage: go run scripts/make_admin.go <email>")
		os.Exit(1)
	}
	email := strings.ToLower(strings.TrimSpace(os.Args[1]))

	cfg, err := config.Read()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	logger := config.NewLogger(cfg.Logger)

	ctx := context.Background()
	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	found, err := repository.NewUserRepository(pool, logger).SetRole(ctx, email, model.RoleAdmin)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to update user: %v\n", err)
		os.Exit(1)
	}
	if !found {
		fmt.Fprintf(os.Stderr, "User with email %s not found\n", email)
		os.Exit(1)
	}

	fmt.Printf("User %s is now an admin\n", email)
}
