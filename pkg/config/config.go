// Package config loads dimcalc settings from defaults, a YAML file, the
// environment and command line overrides, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/rhino1998/dimcalc/pkg/parser"
)

// FileName is looked up in the working directory when no file is given.
const FileName = "dimcalc.yaml"

const EnvPrefix = "DIMCALC_"

const (
	FormatText  = "text"
	FormatLaTeX = "latex"
)

var (
	formats = []string{FormatText, FormatLaTeX}
	levels  = []string{"debug", "info", "warn", "error"}
)

type Config struct {
	Format      string            `koanf:"format"`
	LogLevel    string            `koanf:"log_level"`
	HistoryFile string            `koanf:"history_file"`
	Units       map[string]string `koanf:"units"`
	CustomUnits []string          `koanf:"custom_units"`

	// File is the config file that was read, if any.
	File string `koanf:"-"`
}

func defaults() map[string]any {
	return map[string]any{
		"format":       FormatText,
		"log_level":    "warn",
		"history_file": "",
	}
}

// Load builds a Config. If path is empty, FileName is used when it exists.
// Keys in overrides win over everything else.
func Load(path string, overrides map[string]any) (*Config, error) {
	k := koanf.New(".")

	err := k.Load(confmap.Provider(defaults(), "."), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	used := path
	if used == "" {
		if _, err := os.Stat(FileName); err == nil {
			used = FileName
		}
	}

	if used != "" {
		err = k.Load(file.Provider(used), yaml.Parser())
		if err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", used, err)
		}
	}

	// DIMCALC_LOG_LEVEL -> log_level
	err = k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	if len(overrides) > 0 {
		err = k.Load(confmap.Provider(overrides, "."), nil)
		if err != nil {
			return nil, fmt.Errorf("failed to load overrides: %w", err)
		}
	}

	var cfg Config
	err = k.Unmarshal("", &cfg)
	if err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	cfg.File = used

	return &cfg, nil
}

func (c *Config) Validate(logger *slog.Logger) error {
	var errs []error
	if !slices.Contains(formats, c.Format) {
		errs = append(errs, fmt.Errorf("unknown format %q, expected one of %s", c.Format, strings.Join(formats, ", ")))
	}

	if !slices.Contains(levels, strings.ToLower(c.LogLevel)) {
		errs = append(errs, fmt.Errorf("unknown log level %q, expected one of %s", c.LogLevel, strings.Join(levels, ", ")))
	}

	pc := c.Parser()
	err := pc.Validate(logger)
	if err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// Level is the slog level named by LogLevel. Unknown names map to warn.
func (c *Config) Level() slog.Level {
	var level slog.Level
	err := level.UnmarshalText([]byte(c.LogLevel))
	if err != nil {
		return slog.LevelWarn
	}

	return level
}

func (c *Config) Parser() parser.Config {
	return parser.Config{
		Units:       c.Units,
		CustomUnits: c.CustomUnits,
	}
}
