// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package config loads impeller settings from TOML files and the
// environment.
//
// Settings are layered: the embedded defaults, then the user's
// config.toml, then environment variables.
package config

import (
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/gogpu/impeller"
	"github.com/gogpu/impeller/backend"
)

//go:embed default/*.toml
var configFS embed.FS

// Environment variables read by ApplyEnv.
const (
	EnvBackend     = "IMPELLER_BACKEND"
	EnvStrict      = impeller.StrictEnv
	EnvLibraryPath = "IMPELLER_LIBRARY_PATH"
	EnvConfigDir   = "IMPELLER_CONFIG_DIR"
)

// ErrInvalid is wrapped by every Validate error.
var ErrInvalid = errors.New("config: invalid")

// Config holds every setting.
type Config struct {
	Backend  string        `toml:"backend"`
	Platform string        `toml:"platform"`
	Library  LibraryConfig `toml:"library"`
	Interop  InteropConfig `toml:"interop"`
	Vulkan   VulkanConfig  `toml:"vulkan"`
	Log      LogConfig     `toml:"log"`
}

// LibraryConfig locates the engine library.
type LibraryConfig struct {
	SearchPaths []string `toml:"search_paths"`
	Names       []string `toml:"names"`
}

type InteropConfig struct {
	Strict bool `toml:"strict"`
}

type VulkanConfig struct {
	Validation bool `toml:"validation"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

// Default returns the embedded default configuration.
func Default() *Config {
	data, err := configFS.ReadFile("default/config.toml")
	if err != nil {
		panic(fmt.Sprintf("config: no embedded default config: %v", err))
	}
	c := &Config{}
	if err := c.Load(string(data)); err != nil {
		panic(fmt.Sprintf("config: bad embedded default config: %v", err))
	}
	return c
}

// Load decodes data over c. Keys absent from data keep their values.
func (c *Config) Load(data string) error {
	md, err := toml.Decode(data, c)
	if err != nil {
		return err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		impeller.Logger().Warn("config: unknown keys ignored", "keys", strings.Join(keys, ", "))
	}
	return nil
}

// FilePath returns the user configuration file: config.toml in
// IMPELLER_CONFIG_DIR when that names a directory, otherwise in the
// impeller directory under os.UserConfigDir. It returns "" when neither
// can be determined.
func FilePath() string {
	if dir := os.Getenv(EnvConfigDir); dir != "" {
		if s, err := os.Stat(dir); err == nil && s.IsDir() {
			return filepath.Join(dir, "config.toml")
		}
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "impeller", "config.toml")
}

// Load returns the defaults overlaid with the user's file, if any, and the
// environment. The result is validated.
func Load() (*Config, error) {
	c := Default()
	if path := FilePath(); path != "" {
		if err := c.LoadFile(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}
	c.ApplyEnv(os.Getenv)
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadFile decodes the file at path over c.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := c.Load(string(data)); err != nil {
		return fmt.Errorf("config: %s: %w", path, err)
	}
	return nil
}

// ApplyEnv applies environment overrides read through getenv. An empty
// variable leaves the setting alone. IMPELLER_LIBRARY_PATH directories are
// searched before the configured ones.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := getenv(EnvBackend); v != "" {
		c.Backend = v
	}
	if v := getenv(EnvStrict); v != "" {
		c.Interop.Strict = truthy(v)
	}
	if v := getenv(EnvLibraryPath); v != "" {
		var dirs []string
		for _, d := range filepath.SplitList(v) {
			if d != "" {
				dirs = append(dirs, d)
			}
		}
		c.Library.SearchPaths = append(dirs, c.Library.SearchPaths...)
	}
}

func truthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

// Validate reports unknown backend, platform and log level names.
func (c *Config) Validate() error {
	var errs []error
	if _, err := backend.ParseKind(c.Backend); err != nil {
		errs = append(errs, fmt.Errorf("%w: backend: %w", ErrInvalid, err))
	}
	if _, err := backend.ParsePlatform(c.Platform); err != nil {
		errs = append(errs, fmt.Errorf("%w: platform: %w", ErrInvalid, err))
	}
	if _, err := parseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("%w: log.level: %w", ErrInvalid, err))
	}
	return errors.Join(errs...)
}

// BackendKind returns the configured backend.
func (c *Config) BackendKind() (backend.Kind, error) { return backend.ParseKind(c.Backend) }

// PlatformHint returns the configured platform.
func (c *Config) PlatformHint() (backend.Platform, error) { return backend.ParsePlatform(c.Platform) }

// LogLevel returns the configured log level.
func (c *Config) LogLevel() slog.Level {
	l, err := parseLevel(c.Log.Level)
	if err != nil {
		return slog.LevelWarn
	}
	return l
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "", "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("unknown level %q", s)
}

// EngineOptions returns the options for impeller.Load.
func (c *Config) EngineOptions() []impeller.EngineOption {
	opts := []impeller.EngineOption{impeller.WithStrict(c.Interop.Strict)}
	if len(c.Library.SearchPaths) > 0 {
		opts = append(opts, impeller.WithSearchPaths(c.Library.SearchPaths...))
	}
	if len(c.Library.Names) > 0 {
		opts = append(opts, impeller.WithLibraryNames(c.Library.Names...))
	}
	return opts
}

// BackendOptions returns the options for backend.Create.
func (c *Config) BackendOptions() []backend.Option {
	return []backend.Option{backend.WithVulkanValidation(c.Vulkan.Validation)}
}
