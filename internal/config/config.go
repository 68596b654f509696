// Package config loads flashdeck settings from a YAML file, FLASHDECK_*
// environment variables and command-line flags, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

const (
	appName   = "flashdeck"
	envPrefix = "FLASHDECK_"
)

// Built-in lesson sources.
const (
	SourceNone = "none"
	SourceHTTP = "http"
	SourceDir  = "dir"
	SourceGit  = "git"
)

type Config struct {
	DB      string        `koanf:"db" validate:"required"`
	Lang    string        `koanf:"lang" validate:"required,bcp47_language_tag"`
	Debug   bool          `koanf:"debug"`
	BuiltIn BuiltInConfig `koanf:"builtin"`
}

type BuiltInConfig struct {
	Source   string `koanf:"source" validate:"oneof=none http dir git"`
	Location string `koanf:"location" validate:"required_unless=Source none"`
	Manifest string `koanf:"manifest" validate:"required"`
	// Checkout is where a git source is cloned. Empty derives a directory
	// from Location under the data directory.
	Checkout string `koanf:"checkout"`
}

// Default returns the configuration used when nothing overrides it.
func Default() Config {
	return Config{
		DB:   filepath.Join(DataHome(), appName, appName+".db"),
		Lang: "en-GB",
		BuiltIn: BuiltInConfig{
			Source:   SourceNone,
			Manifest: "files.txt",
		},
	}
}

// RegisterFlags adds the override flags to fs. Nested keys use "-" in flag
// names: --builtin-source sets builtin.source.
func RegisterFlags(fs *pflag.FlagSet) {
	def := Default()
	fs.String("db", def.DB, "Path to the SQLite database file")
	fs.String("lang", def.Lang, "Language of lessons whose header names none")
	fs.Bool("debug", def.Debug, "Enable debug logging")
	fs.String("builtin-source", def.BuiltIn.Source, "Built-in lesson source: none, http, dir or git")
	fs.String("builtin-location", def.BuiltIn.Location, "Base URL, directory or git URL of the built-in lessons")
	fs.String("builtin-manifest", def.BuiltIn.Manifest, "Name of the file listing the built-in lesson files")
	fs.String("builtin-checkout", def.BuiltIn.Checkout, "Local clone directory for a git source")
}

// Load reads the configuration. An explicit path must exist; with an empty
// path the default config file is read if present. fs may be nil.
func Load(path string, fs *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if path == "" {
		path = DefaultConfigFile()
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			path = ""
		}
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, envPrefix)), "_", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	if fs != nil {
		provider := posflag.ProviderWithFlag(fs, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !isConfigFlag(f.Name) {
				return "", nil
			}
			return strings.ReplaceAll(f.Name, "-", "."), posflag.FlagVal(fs, f)
		})
		if err := k.Load(provider, nil); err != nil {
			return nil, fmt.Errorf("failed to read flags: %w", err)
		}
	}

	cfg := Default()
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration format: %w", err)
	}
	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func isConfigFlag(name string) bool {
	switch name {
	case "db", "lang", "debug", "builtin-source", "builtin-location", "builtin-manifest", "builtin-checkout":
		return true
	}
	return false
}

// DataHome returns XDG_DATA_HOME or its default.
func DataHome() string {
	if dataHome := os.Getenv("XDG_DATA_HOME"); dataHome != "" {
		return dataHome
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(homeDir, ".local", "share")
}

// ConfigHome returns XDG_CONFIG_HOME or its default.
func ConfigHome() string {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return configHome
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(homeDir, ".config")
}

// DefaultConfigFile is read when no --config is given.
func DefaultConfigFile() string {
	return filepath.Join(ConfigHome(), appName, "config.yml")
}

// ReposDir holds git checkouts whose location is not configured.
func ReposDir() string {
	return filepath.Join(DataHome(), appName, "repos")
}
