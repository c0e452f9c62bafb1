// Package ioschema implements SchemaManager interface for
// database schema management. This is an impure I/O package
// that wraps GORM AutoMigrate functionality.
package ioschema

import (
	"context"
	"log/slog"

	"github.com/gnames/gnforms/pkg/db"
	"github.com/gnames/gnforms/pkg/lifecycle"
	"github.com/gnames/gnforms/pkg/schema"
)

// manager implements the lifecycle.SchemaManager interface
// using GORM AutoMigrate.
type manager struct {
	operator db.Operator
}

// NewManager creates a new SchemaManager.
func NewManager(op db.Operator) lifecycle.SchemaManager {
	return &manager{operator: op}
}

// Create creates the database schema using GORM AutoMigrate.
func (m *manager) Create(ctx context.Context, force bool) error {
	gormDB := m.operator.DB()
	if gormDB == nil {
		return NotConnectedError()
	}

	if force {
		slog.Info("Dropping existing tables")
		if err := m.operator.DropAllTables(ctx); err != nil {
			return err
		}
	}

	if err := schema.Migrate(gormDB.WithContext(ctx)); err != nil {
		return CreateSchemaError(m.operator.Driver(), err)
	}
	slog.Info("Schema created", "driver", m.operator.Driver())
	return nil
}

// Migrate updates the database schema to the latest version
// using GORM AutoMigrate.
func (m *manager) Migrate(ctx context.Context) error {
	gormDB := m.operator.DB()
	if gormDB == nil {
		return NotConnectedError()
	}

	if err := schema.Migrate(gormDB.WithContext(ctx)); err != nil {
		return MigrateSchemaError(m.operator.Driver(), err)
	}
	slog.Info("Schema migrated", "driver", m.operator.Driver())
	return nil
}
