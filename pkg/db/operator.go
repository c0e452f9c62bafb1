package db

import (
	"context"

	"github.com/gnames/gnforms/pkg/config"
	"gorm.io/gorm"
)

// Operator defines the interface for basic database management operations.
// It owns the connection lifecycle and exposes a GORM handle for the store
// and the schema manager.
type Operator interface {
	// Connect opens the database selected by cfg.Database.Driver.
	// SQLite files and their directories are created when missing.
	Connect(ctx context.Context, cfg *config.Config) error

	// Close releases all database connections.
	Close() error

	// DB returns the GORM handle, or nil before Connect.
	DB() *gorm.DB

	// Driver returns "sqlite" or "postgres".
	Driver() string

	// TableExists checks if a table exists in the database.
	TableExists(ctx context.Context, tableName string) (bool, error)

	// HasTables checks if any of the GNforms tables exist.
	// Used to determine if schema creation should prompt for confirmation.
	HasTables(ctx context.Context) (bool, error)

	// DropAllTables drops all GNforms tables.
	DropAllTables(ctx context.Context) error
}
