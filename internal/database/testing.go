package database

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/yourusername/sportcast/internal/config"
)

// SetupTestDB creates a test database connection. Tests that need a live
// database are skipped unless SPORTCAST_TEST_DB_HOST is set.
func SetupTestDB(t *testing.T) *DB {
	t.Helper()

	host := os.Getenv("SPORTCAST_TEST_DB_HOST")
	if host == "" {
		t.Skip("skipping: SPORTCAST_TEST_DB_HOST not set")
	}

	cfg := &config.DatabaseConfig{
		Host:               host,
		Port:               5432,
		Name:               "sportcast_test",
		User:               "sportcast",
		Password:           os.Getenv("SPORTCAST_TEST_DB_PASSWORD"),
		SSLMode:            "disable",
		MaxConnections:     4,
		MaxIdleConnections: 2,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	db, err := NewDB(ctx, cfg)
	if err != nil {
		t.Fatalf("failed to create test database connection: %v", err)
	}

	if _, err := db.pool.Exec(ctx, schema); err != nil {
		db.Close()
		t.Fatalf("failed to apply test schema: %v", err)
	}

	return db
}

// TeardownTestDB closes the database connection cleanly
func TeardownTestDB(t *testing.T, db *DB) {
	t.Helper()
	db.Close()
}
