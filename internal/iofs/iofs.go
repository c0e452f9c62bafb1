// Package iofs prepares the directories and files GNforms keeps in the
// user's home directory.
package iofs

import (
	"crypto/rand"
	_ "embed"
	"os"
	"path/filepath"
	"strings"

	"github.com/gnames/gnforms/pkg/config"
)

// ConfigYAML is the documented default configuration.
//
//go:embed config.yaml
var ConfigYAML string

// EnsureDirs creates the config, data and log directories.
func EnsureDirs(homeDir string) error {
	dirs := []string{
		config.ConfigDir(homeDir),
		config.DataDir(homeDir),
		config.LogDir(homeDir),
	}
	for _, v := range dirs {
		if err := touchDir(v); err != nil {
			return err
		}
	}
	return nil
}

func touchDir(dir string) error {
	info, err := os.Stat(dir)
	if err == nil && info.IsDir() {
		return nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return CreateDirError(dir, err)
	}

	return nil
}

// EnsureConfigFile writes the default config.yaml unless it exists.
// The placeholder JWT secret is replaced by a random one.
func EnsureConfigFile(homeDir string) error {
	configPath := config.ConfigFilePath(homeDir)

	if _, err := os.Stat(configPath); err == nil {
		return nil
	}

	if err := os.WriteFile(configPath, []byte(newConfigYAML()), 0600); err != nil {
		return CopyFileError(configPath, err)
	}

	return nil
}

// newConfigYAML returns the default configuration with a fresh JWT
// secret.
func newConfigYAML() string {
	return strings.Replace(
		ConfigYAML,
		"jwt_secret: "+config.DefaultJWTSecret,
		"jwt_secret: "+rand.Text()+rand.Text(),
		1,
	)
}

// ReadFile reads an input file such as an uploaded CSV or a form
// definition.
func ReadFile(path string) ([]byte, error) {
	res, err := os.ReadFile(path)
	if err != nil {
		return nil, ReadFileError(path, err)
	}
	return res, nil
}

// WriteFile writes exported data, creating missing parent directories.
func WriteFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := touchDir(dir); err != nil {
			return err
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return WriteFileError(path, err)
	}
	return nil
}
