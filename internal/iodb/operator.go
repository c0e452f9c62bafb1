// Package iodb implements database operations on top of GORM.
// This is an impure I/O package that implements contracts
// defined in pkg/.
package iodb

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gnames/gnforms/pkg/config"
	"github.com/gnames/gnforms/pkg/db"
	"github.com/gnames/gnforms/pkg/schema"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite" // Pure Go SQLite driver, registered as "sqlite"
)

// gormOperator implements db.Operator for SQLite and PostgreSQL.
type gormOperator struct {
	driver string
	db     *gorm.DB
	sqlDB  *sql.DB
	pool   *pgxpool.Pool
}

// NewOperator creates a new database operator
// (without connecting).
func NewOperator() db.Operator {
	return &gormOperator{}
}

// Connect opens SQLite or PostgreSQL according to the configuration.
func (o *gormOperator) Connect(
	ctx context.Context,
	cfg *config.Config,
) error {
	var err error
	switch cfg.Database.Driver {
	case "postgres":
		err = o.connectPostgres(ctx, &cfg.Database)
	default:
		err = o.connectSQLite(ctx, cfg.SQLitePath())
	}
	if err != nil {
		return err
	}
	slog.Info("Connected to database", "driver", o.driver)
	return nil
}

func (o *gormOperator) connectSQLite(ctx context.Context, path string) error {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return SQLiteConnectionError(path, err)
		}
	}

	dsn := "file:" + path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return SQLiteConnectionError(path, err)
	}
	// SQLite has a single writer.
	sqlDB.SetMaxOpenConns(1)

	if err = sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return SQLiteConnectionError(path, err)
	}

	gormDB, err := gorm.Open(
		sqlite.New(sqlite.Config{Conn: sqlDB}),
		gormConfig(),
	)
	if err != nil {
		sqlDB.Close()
		return SQLiteConnectionError(path, err)
	}

	o.driver = "sqlite"
	o.sqlDB = sqlDB
	o.db = gormDB
	return nil
}

// connectPostgres establishes a connection pool to PostgreSQL.
// Uses sensible hardcoded pool settings that work well for
// most use cases.
func (o *gormOperator) connectPostgres(
	ctx context.Context,
	cfg *config.DatabaseConfig,
) error {
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.Database,
		cfg.SSLMode,
	)

	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return ConnectionError(cfg.Host, cfg.Port,
			cfg.Database, cfg.User, err)
	}

	poolConfig.MaxConns = 10
	poolConfig.MinConns = 1

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return ConnectionError(cfg.Host, cfg.Port,
			cfg.Database, cfg.User, err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return ConnectionError(cfg.Host, cfg.Port,
			cfg.Database, cfg.User, err)
	}

	sqlDB := stdlib.OpenDBFromPool(pool)
	gormDB, err := gorm.Open(
		postgres.New(postgres.Config{Conn: sqlDB}),
		gormConfig(),
	)
	if err != nil {
		sqlDB.Close()
		pool.Close()
		return ConnectionError(cfg.Host, cfg.Port,
			cfg.Database, cfg.User, err)
	}

	o.driver = "postgres"
	o.pool = pool
	o.sqlDB = sqlDB
	o.db = gormDB
	return nil
}

func gormConfig() *gorm.Config {
	return &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	}
}

// Close releases all database connections.
func (o *gormOperator) Close() error {
	var err error
	if o.sqlDB != nil {
		err = o.sqlDB.Close()
	}
	if o.pool != nil {
		o.pool.Close()
	}
	o.db, o.sqlDB, o.pool = nil, nil, nil
	return err
}

// DB returns the GORM handle.
func (o *gormOperator) DB() *gorm.DB {
	return o.db
}

// Driver returns the name of the connected backend.
func (o *gormOperator) Driver() string {
	return o.driver
}

// TableExists checks if a table exists in the current
// database.
func (o *gormOperator) TableExists(
	ctx context.Context,
	tableName string,
) (bool, error) {
	if o.db == nil {
		return false, NotConnectedError()
	}
	return o.db.WithContext(ctx).Migrator().HasTable(tableName), nil
}

// HasTables checks if any GNforms table is present.
func (o *gormOperator) HasTables(
	ctx context.Context,
) (bool, error) {
	if o.db == nil {
		return false, NotConnectedError()
	}

	m := o.db.WithContext(ctx).Migrator()
	for _, v := range schema.TableNames() {
		if m.HasTable(v) {
			return true, nil
		}
	}
	return false, nil
}

// DropAllTables drops GNforms tables, children first.
func (o *gormOperator) DropAllTables(ctx context.Context) error {
	if o.db == nil {
		return NotConnectedError()
	}

	m := o.db.WithContext(ctx).Migrator()
	for _, table := range schema.TableNames() {
		if err := m.DropTable(table); err != nil {
			return DropTableError(table, err)
		}
	}
	return nil
}
