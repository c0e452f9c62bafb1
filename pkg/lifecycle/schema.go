package lifecycle

import (
	"context"
)

// SchemaManager defines the interface for database schema management.
// It uses GORM AutoMigrate to handle both initial schema creation and
// migrations. Schema management is idempotent, safe to run multiple times.
type SchemaManager interface {
	// Create creates the database schema. With force it drops existing
	// GNforms tables first, otherwise existing tables are kept and
	// migrated.
	Create(ctx context.Context, force bool) error

	// Migrate updates the database schema to the latest version using
	// GORM AutoMigrate.
	Migrate(ctx context.Context) error
}
