// Package config loads the CLI configuration from a TOML file. Every setting
// has a default so the file is optional.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
)

const (
	// EnvVar names the environment variable pointing at the config file.
	EnvVar = "FORMCRAFT_CONFIG"
	// DefaultFileName is looked up in the working directory when neither a
	// flag nor EnvVar names a file.
	DefaultFileName = "formcraft.toml"
)

type (
	Config struct {
		Locale string       `toml:"locale"`
		Server ServerConfig `toml:"server"`
		Export ExportConfig `toml:"export"`
		Log    LogConfig    `toml:"log"`

		// Path is the file the configuration was read from; empty when only
		// defaults apply.
		Path string `toml:"-"`
	}

	ServerConfig struct {
		Addr           string   `toml:"addr"`
		AllowedOrigins []string `toml:"allowed_origins"`
	}

	ExportConfig struct {
		Target    string `toml:"target"`
		OutputDir string `toml:"output_dir"`
	}

	LogConfig struct {
		Level  string `toml:"level"`
		Format string `toml:"format"`
	}
)

const (
	defaultLocale    = "en"
	defaultAddr      = ":8080"
	defaultTarget    = "react"
	defaultOutputDir = "."
	defaultLogLevel  = "info"
	defaultLogFormat = "text"
)

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Locale: defaultLocale,
		Server: ServerConfig{Addr: defaultAddr},
		Export: ExportConfig{Target: defaultTarget, OutputDir: defaultOutputDir},
		Log:    LogConfig{Level: defaultLogLevel, Format: defaultLogFormat},
	}
}

// Load reads the configuration. path wins over EnvVar, which wins over
// DefaultFileName. A file named by path or EnvVar must exist; a missing
// DefaultFileName yields the defaults. Keys absent from the file keep their
// default values; unknown keys are rejected.
func Load(path string) (Config, error) {
	explicit := true
	if path == "" {
		path = os.Getenv(EnvVar)
	}
	if path == "" {
		path = DefaultFileName
		explicit = false
	}

	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, key := range undecoded {
			keys = append(keys, key.String())
		}
		sort.Strings(keys)
		return Config{}, fmt.Errorf("config: %s: unknown keys %s", path, strings.Join(keys, ", "))
	}

	cfg.Path = path
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Locale) == "" {
		return errors.New("locale must not be empty")
	}
	if strings.TrimSpace(c.Server.Addr) == "" {
		return errors.New("server.addr must not be empty")
	}
	if strings.TrimSpace(c.Export.Target) == "" {
		return errors.New("export.target must not be empty")
	}
	if _, err := parseLevel(c.Log.Level); err != nil {
		return err
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log.format %q: expected text or json", c.Log.Format)
	}
	return nil
}

// Save writes cfg as TOML, creating parent directories.
func Save(path string, cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("config: create directory: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("config: create %s: %w", path, err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return fmt.Errorf("config: encode: %w", err)
	}
	return nil
}

// SlogLevel maps log.level onto a slog level.
func (c Config) SlogLevel() slog.Level {
	level, err := parseLevel(c.Log.Level)
	if err != nil {
		return slog.LevelInfo
	}
	return level
}

func parseLevel(raw string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("log.level %q: expected debug, info, warn or error", raw)
}
