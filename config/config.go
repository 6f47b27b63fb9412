package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

const (
	OutputText = "text"
	OutputYAML = "yaml"
)

// Config holds the settings of the command line front-end.
type Config struct {
	// SingleAssignment rejects binding a global name twice in one run.
	SingleAssignment bool   `yaml:"single_assignment" toml:"single_assignment"`
	ShowScopes       bool   `yaml:"show_scopes" toml:"show_scopes"`
	Output           string `yaml:"output" toml:"output"`
	LogLevel         string `yaml:"log_level" toml:"log_level"`
	Color            bool   `yaml:"color" toml:"color"`
}

func Default() *Config {
	return &Config{
		Output:   OutputText,
		LogLevel: "warn",
		Color:    true,
	}
}

// Load reads a YAML (.yaml, .yml) or TOML (.toml) file on top of the
// defaults. An empty path returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	case ".toml":
		md, err := toml.Decode(string(data), cfg)
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, fmt.Errorf("parsing %s: unknown keys %v", path, undecoded)
		}
	default:
		return nil, fmt.Errorf("unsupported config format %q", ext)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.Output {
	case OutputText, OutputYAML:
	default:
		return fmt.Errorf("unknown output format %q", c.Output)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

func (c *Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("unknown log level %q", c.LogLevel)
	}
	return level, nil
}
