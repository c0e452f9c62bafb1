// Package config provides configuration management for GNforms.
//
// This package has no I/O dependencies (no file operations, no network calls).
// Validation functions may write user-facing warnings via gn.Warn().
//
// # Configuration Sources
//
// Precedence (highest to lowest): CLI flags > env vars > .env file >
// config.yaml > defaults
//
// # Design Principles
//
// - Default config (from New()) is always valid - no validation needed
// - All mutations go through Option functions - the only way to modify Config
// - Invalid options are rejected with gn.Warn() - config remains in valid state
// - ToOptions() converts persistent fields (those in config.yaml)
// - Environment variables match ToOptions() fields exactly
//
// # Persistent vs Runtime Fields
//
// Persistent fields (in ToOptions, config.yaml, and env vars):
//   - Database: driver, path, host, port, user, password, database, ssl_mode
//   - Log: level, format, destination
//   - Server: addr, jwt_secret, token_ttl_hours
//   - Import: name_scope
//   - User: identity used by CLI commands that modify data
//
// Runtime-only fields (CLI flags only):
//   - HomeDir (set once at startup)
//
// # Environment Variables
//
// Use GNFORMS_ prefix with underscores for nesting:
//
//	GNFORMS_DATABASE_DRIVER=postgres
//	GNFORMS_DATABASE_HOST=localhost
//	GNFORMS_LOG_LEVEL=info
//	GNFORMS_USER=alice
package config

// DefaultJWTSecret is the placeholder secret of the built-in defaults.
// It is public, so the REST server refuses to start with it.
const DefaultJWTSecret = "gnforms-dev-secret"

// Config represents the complete GNforms configuration.
type Config struct {
	// Database contains storage connection settings.
	Database DatabaseConfig `mapstructure:"database" yaml:"database"`

	Log LogConfig `mapstructure:"log" yaml:"log"`

	// Server contains settings of the REST API.
	Server ServerConfig `mapstructure:"server" yaml:"server"`

	// Import contains settings used during CSV import.
	Import ImportConfig `mapstructure:"import" yaml:"import"`

	// User is the username CLI commands act as. Commands that
	// create, import, edit or delete data fail without it.
	User string `mapstructure:"user" yaml:"user"`

	// HomeDir determines where config, data and logs directories reside.
	// It must be set by CLI during init, there is no default value for it.
	HomeDir string
}

// DatabaseConfig contains connection parameters for SQLite or PostgreSQL.
type DatabaseConfig struct {
	// Driver selects the backend.
	// Valid values: "sqlite", "postgres"
	Driver string `mapstructure:"driver" yaml:"driver"`

	// Path is the SQLite database file. When empty, the file is
	// created in the data directory (see DataDir).
	Path string `mapstructure:"path" yaml:"path"`

	// Host is the PostgreSQL server hostname or IP address.
	Host string `mapstructure:"host" yaml:"host"`

	// Port is the PostgreSQL server port number.
	Port int `mapstructure:"port" yaml:"port"`

	// User is the PostgreSQL database username.
	User string `mapstructure:"user" yaml:"user"`

	// Password is the PostgreSQL database password.
	Password string `mapstructure:"password" yaml:"password"`

	// Database is the PostgreSQL database name to connect to.
	Database string `mapstructure:"database" yaml:"database"`

	// SSLMode specifies the SSL connection mode.
	// Valid values: "disable", "require", "verify-ca", "verify-full"
	SSLMode string `mapstructure:"ssl_mode" yaml:"ssl_mode"`
}

// LogConfig provides typical settings for application logs.
type LogConfig struct {
	// Format can be 'json' or 'text'.
	Format string `mapstructure:"format"      yaml:"format"`
	// Level of logging -- 'error', 'warn', 'info', 'debug'
	Level string `mapstructure:"level"       yaml:"level"`
	// Destination can be a log file (to default place), STDERR or STDOUT
	Destination string `mapstructure:"destination" yaml:"destination"`
}

// ServerConfig contains REST API settings.
type ServerConfig struct {
	// Addr is the listen address, for example ":8080".
	Addr string `mapstructure:"addr" yaml:"addr"`

	// JWTSecret signs and verifies bearer tokens.
	JWTSecret string `mapstructure:"jwt_secret" yaml:"jwt_secret"`

	// TokenTTLHours is the lifetime of issued tokens.
	TokenTTLHours int `mapstructure:"token_ttl_hours" yaml:"token_ttl_hours"`
}

// ImportConfig contains settings for CSV import.
type ImportConfig struct {
	// NameScope decides against which variable names imported names are
	// disambiguated.
	// Valid values:
	//   - "global": every variable name already stored in the database
	//   - "form": only names assigned earlier within the same import
	NameScope string `mapstructure:"name_scope" yaml:"name_scope"`
}

// New creates a Config with sensible default values.
// The returned config is always valid and ready to use.
// Default values can be overridden using Option functions via Update().
func New() *Config {
	res := &Config{
		Database: DatabaseConfig{
			Driver:   "sqlite",
			Host:     "localhost",
			Port:     5432,
			User:     "postgres",
			Password: "postgres",
			Database: "gnforms",
			SSLMode:  "disable",
		},
		Log: LogConfig{
			Format: "json",
			Level:  "info",
			// for now file is rewritten every time the log starts
			Destination: "file",
		},
		Server: ServerConfig{
			Addr:          ":8080",
			JWTSecret:     DefaultJWTSecret,
			TokenTTLHours: 24,
		},
		Import: ImportConfig{
			NameScope: "global",
		},
	}

	return res
}
