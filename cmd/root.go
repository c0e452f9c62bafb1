/*
Copyright © 2025 Dmitry Mozzherin <dmozzherin@gmail.com>

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/gnames/gn"
	"github.com/gnames/gnforms/internal/iofs"
	"github.com/gnames/gnforms/internal/iologger"
	app "github.com/gnames/gnforms/pkg"
	"github.com/gnames/gnforms/pkg/config"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	homeDir   string
	opts      []config.Option
	cfg       *config.Config
	logCloser io.Closer
)

func getRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Version: fmt.Sprintf("version: %s\nbuild:   %s", app.Version, app.Build),
		Use:     "gnforms",
		Short:   "GNforms builds versioned REDCap data dictionaries",
		Long: `GNforms imports REDCap data dictionaries (CSV), keeps every
question edit as a new version, and exports forms back to REDCap CSV.

It works with SQLite (default) or PostgreSQL and can serve its
functionality as a REST API.

Configuration precedence (highest to lowest):
  1. CLI flags (--user)
  2. Environment variables (GNFORMS_*)
  3. .env file in the configuration directory
  4. config.yaml in the configuration directory
  5. Built-in defaults

Examples:
  GNFORMS_DATABASE_DRIVER=postgres  use PostgreSQL
  GNFORMS_USER=alice                act as alice
  GNFORMS_LOG_DESTINATION=stderr    log to STDERR`,
		PersistentPreRunE: bootstrap,
		RunE:              runRoot,
		SilenceErrors:     true,
		SilenceUsage:      true,
	}

	// Remove the automatic "gnforms version" prefix
	rootCmd.SetVersionTemplate("{{.Version}}\n")

	// Override version flag to use -V (consistent with other gn projects)
	rootCmd.Flags().BoolP("version", "V", false, "version for gnforms")

	rootCmd.PersistentFlags().StringP("user", "u", "",
		"username to act as (overrides config and GNFORMS_USER)")

	rootCmd.AddCommand(
		getCreateCmd(),
		getMigrateCmd(),
		getImportCmd(),
		getExportCmd(),
		getFormCmd(),
		getQuestionCmd(),
		getUserCmd(),
		getServeCmd(),
	)

	return rootCmd
}

func bootstrap(cmd *cobra.Command, _ []string) error {
	var err error
	homeDir, err = os.UserHomeDir()
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	if err = iofs.EnsureDirs(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	// Initialize logging with hardcoded defaults
	// Will be reconfigured later with user's config settings
	defaultLog := config.LogConfig{
		Format:      "json",
		Level:       "info",
		Destination: "file",
	}
	if err = reconfigureLogging(config.LogDir(homeDir), defaultLog); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	if err = iofs.EnsureConfigFile(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	if err = loadEnvFile(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	var cfgViper *config.Config
	if cfgViper, err = initConfig(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	cfg = config.New()
	opts = cfgViper.ToOptions()
	if user, _ := cmd.Flags().GetString("user"); user != "" {
		opts = append(opts, config.OptUser(user))
	}
	cfg.Update(opts)

	// Set HomeDir after config is loaded
	cfg.Update([]config.Option{config.OptHomeDir(homeDir)})

	// Reconfigure logging with user's settings and proper log file location
	if err = reconfigureLogging(config.LogDir(cfg.HomeDir), cfg.Log); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	slog.Info("Configuration loaded", "config_file", config.ConfigFilePath(homeDir))

	return nil
}

// loadEnvFile exports variables from the optional .env file. Variables
// already set in the environment win.
func loadEnvFile(home string) error {
	path := config.EnvFilePath(home)
	err := godotenv.Load(path)
	if err == nil {
		slog.Info("Environment file loaded", "path", path)
		return nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return iofs.ReadFileError(path, err)
}

// reconfigureLogging points the global logger to a new destination and
// releases the previous log file.
func reconfigureLogging(logDir string, logCfg config.LogConfig) error {
	closer, err := iologger.Init(logDir, logCfg)
	if err != nil {
		return err
	}
	if logCloser != nil {
		_ = logCloser.Close()
	}
	logCloser = closer
	return nil
}

func runRoot(cmd *cobra.Command, _ []string) error {
	gn.Info(
		"Configuration files are available at <em>%s</em>",
		config.ConfigDir(homeDir),
	)
	return cmd.Help()
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := getRootCmd().Execute()
	if logCloser != nil {
		_ = logCloser.Close()
	}
	if err != nil {
		os.Exit(1)
	}
}

func initConfig(home string) (*config.Config, error) {
	var err error
	cfgPath := config.ConfigFilePath(home)
	v := viper.New()
	v.SetConfigFile(cfgPath)

	initEnvVars(v)

	if err = v.ReadInConfig(); err != nil {
		return nil, iofs.ReadFileError(cfgPath, err)
	}

	var res config.Config
	if err = v.Unmarshal(&res); err != nil {
		return nil, iofs.ReadFileError(cfgPath, err)
	}

	return &res, nil
}

func initEnvVars(v *viper.Viper) {
	// Set environment variables we want.
	// We set them manually so we can see clearly which env variables are allowed.
	// These match the fields included in config.ToOptions() - i.e., persistent
	// configuration that can be stored in config.yaml.
	v.SetEnvPrefix("GNFORMS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Database configuration
	v.BindEnv("database.driver", "GNFORMS_DATABASE_DRIVER")
	v.BindEnv("database.path", "GNFORMS_DATABASE_PATH")
	v.BindEnv("database.host", "GNFORMS_DATABASE_HOST")
	v.BindEnv("database.port", "GNFORMS_DATABASE_PORT")
	v.BindEnv("database.user", "GNFORMS_DATABASE_USER")
	v.BindEnv("database.password", "GNFORMS_DATABASE_PASSWORD")
	v.BindEnv("database.database", "GNFORMS_DATABASE_DATABASE")
	v.BindEnv("database.ssl_mode", "GNFORMS_DATABASE_SSL_MODE")

	// Log configuration
	v.BindEnv("log.level", "GNFORMS_LOG_LEVEL")
	v.BindEnv("log.format", "GNFORMS_LOG_FORMAT")
	v.BindEnv("log.destination", "GNFORMS_LOG_DESTINATION")

	// Server configuration
	v.BindEnv("server.addr", "GNFORMS_SERVER_ADDR")
	v.BindEnv("server.jwt_secret", "GNFORMS_SERVER_JWT_SECRET")
	v.BindEnv("server.token_ttl_hours", "GNFORMS_SERVER_TOKEN_TTL_HOURS")

	// Import configuration
	v.BindEnv("import.name_scope", "GNFORMS_IMPORT_NAME_SCOPE")

	// General configuration
	v.BindEnv("user", "GNFORMS_USER")

	v.AutomaticEnv()
}
