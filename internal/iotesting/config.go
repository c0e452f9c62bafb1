// Package iotesting provides shared test utilities.
// This is an internal package for test infrastructure only.
package iotesting

import (
	"context"
	"os"
	"strconv"
	"testing"

	"github.com/gnames/gnforms/internal/iodb"
	"github.com/gnames/gnforms/internal/iostore"
	"github.com/gnames/gnforms/pkg/config"
	"github.com/gnames/gnforms/pkg/db"
	"github.com/gnames/gnforms/pkg/schema"
	"github.com/gnames/gnforms/pkg/store"
)

const (
	// TestDatabaseName is the PostgreSQL database used by integration
	// tests. Tests never run against other databases.
	TestDatabaseName = "gnforms_test"
)

// Config returns a configuration that keeps everything inside a
// temporary home directory and uses SQLite.
func Config(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.New()
	cfg.Update([]config.Option{
		config.OptHomeDir(t.TempDir()),
		config.OptDatabaseDriver("sqlite"),
		config.OptLogDestination("stderr"),
	})
	return cfg
}

// PostgresConfig returns a configuration for integration tests against
// PostgreSQL. Connection settings come from GNFORMS_DATABASE_* variables,
// the database name is always TestDatabaseName.
func PostgresConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := Config(t)
	opts := []config.Option{config.OptDatabaseDriver("postgres")}
	if v := os.Getenv("GNFORMS_DATABASE_HOST"); v != "" {
		opts = append(opts, config.OptDatabaseHost(v))
	}
	if v := os.Getenv("GNFORMS_DATABASE_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			opts = append(opts, config.OptDatabasePort(port))
		}
	}
	if v := os.Getenv("GNFORMS_DATABASE_USER"); v != "" {
		opts = append(opts, config.OptDatabaseUser(v))
	}
	if v := os.Getenv("GNFORMS_DATABASE_PASSWORD"); v != "" {
		opts = append(opts, config.OptDatabasePassword(v))
	}
	opts = append(opts, config.OptDatabaseDatabase(TestDatabaseName))
	cfg.Update(opts)
	return cfg
}

// Operator connects to a fresh temporary SQLite database with the schema
// in place. The connection is closed when the test finishes.
func Operator(t *testing.T) db.Operator {
	t.Helper()
	return connect(t, Config(t))
}

// PostgresOperator connects to the PostgreSQL test database with a fresh
// schema. It skips the test in short mode or when the server is
// unreachable.
func PostgresOperator(t *testing.T) db.Operator {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping PostgreSQL integration test in short mode")
	}
	op := iodb.NewOperator()
	if err := op.Connect(context.Background(), PostgresConfig(t)); err != nil {
		t.Skipf("PostgreSQL is not available: %v", err)
	}
	t.Cleanup(func() { op.Close() })
	if err := op.DropAllTables(context.Background()); err != nil {
		t.Fatalf("Failed to drop tables: %v", err)
	}
	if err := schema.Migrate(op.DB()); err != nil {
		t.Fatalf("Failed to migrate schema: %v", err)
	}
	return op
}

func connect(t *testing.T, cfg *config.Config) db.Operator {
	t.Helper()
	op := iodb.NewOperator()
	if err := op.Connect(context.Background(), cfg); err != nil {
		t.Fatalf("Failed to connect: %v", err)
	}
	t.Cleanup(func() { op.Close() })
	if err := schema.Migrate(op.DB()); err != nil {
		t.Fatalf("Failed to migrate schema: %v", err)
	}
	return op
}

// Store returns a store over a fresh temporary SQLite database.
func Store(t *testing.T) store.Store {
	t.Helper()
	return iostore.New(Operator(t).DB())
}
