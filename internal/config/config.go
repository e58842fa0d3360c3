// Package config resolves where streaks keeps its data and how the timeline
// starts out, from an optional TOML file and command-line overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	toml "github.com/pelletier/go-toml/v2"

	"github.com/julianstephens/streaks/internal/constants"
)

// ErrInvalidConfig is returned for a config file that parses but holds
// unusable values.
var ErrInvalidConfig = errors.New("invalid config")

// Config is the contents of config.toml.
type Config struct {
	DataFile   string `toml:"data_file"`
	SpanDays   int    `toml:"span_days"`
	MaxBackups int    `toml:"max_backups"`
	Debug      bool   `toml:"debug"`
}

// Overrides are values given on the command line. Zero values leave the
// file setting alone.
type Overrides struct {
	DataFile string
	SpanDays int
	Debug    bool
}

// DefaultPath is $XDG_CONFIG_HOME/streaks/config.toml.
func DefaultPath() string {
	return filepath.Join(xdg.ConfigHome, constants.AppName, constants.ConfigFileName)
}

// DefaultDataFile is $XDG_DATA_HOME/streaks/streaks.json.
func DefaultDataFile() string {
	return filepath.Join(xdg.DataHome, constants.AppName, constants.StreaksFileName)
}

func Default() Config {
	return Config{
		DataFile:   DefaultDataFile(),
		SpanDays:   constants.DefaultSpanDays,
		MaxBackups: constants.MaxBackups,
	}
}

// Load reads the config file at path over the defaults. A missing file is
// not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("reading %s: %w", path, err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing %s: %w", path, err)
	}
	if cfg.DataFile == "" {
		cfg.DataFile = DefaultDataFile()
	}
	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}

	cfg.DataFile, err = expandPath(cfg.DataFile)
	if err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.SpanDays < constants.MinSpanDays {
		return fmt.Errorf("%w: span_days must be at least %d, got %d", ErrInvalidConfig, constants.MinSpanDays, c.SpanDays)
	}
	if c.MaxBackups < 1 {
		return fmt.Errorf("%w: max_backups must be at least 1, got %d", ErrInvalidConfig, c.MaxBackups)
	}
	return nil
}

// Apply returns c with the command-line overrides applied.
func (c Config) Apply(o Overrides) (Config, error) {
	if o.DataFile != "" {
		path, err := expandPath(o.DataFile)
		if err != nil {
			return Config{}, err
		}
		c.DataFile = path
	}
	if o.SpanDays != 0 {
		c.SpanDays = o.SpanDays
	}
	c.Debug = c.Debug || o.Debug
	return c, c.validate()
}

// DataDir is the directory holding the data file, its lockfile, logs and
// backups.
func (c Config) DataDir() string {
	return filepath.Dir(c.DataFile)
}

// Encode renders c as TOML.
func (c Config) Encode() ([]byte, error) {
	data, err := toml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("marshaling config: %w", err)
	}
	return data, nil
}

// expandPath resolves a leading ~ and makes path absolute.
func expandPath(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolving home directory: %w", err)
		}
		path = filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", path, err)
	}
	return abs, nil
}
