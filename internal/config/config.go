// Package config loads tam.toml / tam.yaml project configuration.
package config

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/tam-lang/tam/internal/cli"
	"github.com/tam-lang/tam/internal/errors"
)

// Format represents the configuration file format
type Format int

const (
	// FormatTOML represents TOML format (default)
	FormatTOML Format = iota
	// FormatYAML represents YAML format
	FormatYAML
)

// String returns the string representation of the format
func (f Format) String() string {
	switch f {
	case FormatTOML:
		return "toml"
	case FormatYAML:
		return "yaml"
	default:
		return "unknown"
	}
}

// FileNames are the names Discover looks for, in order.
var FileNames = []string{"tam.toml", "tam.yaml", "tam.yml"}

// DefaultFiles is the input list used when neither the command line nor the
// configuration names any source.
var DefaultFiles = []string{"ornek1.tk", "ornek2.tk", "ornek3.tk", "ornek4.tk"}

// Config holds the tool settings.
type Config struct {
	// Files checked when no paths are given on the command line.
	Files []string `toml:"files" yaml:"files"`
	// Output format: text or json.
	Format string `toml:"format" yaml:"format"`
	// Color mode: auto, always or never.
	Color string `toml:"color" yaml:"color"`
	// Semantic version constraint the tool must satisfy.
	Requires string      `toml:"requires" yaml:"requires"`
	Serve    ServeConfig `toml:"serve" yaml:"serve"`
	Watch    WatchConfig `toml:"watch" yaml:"watch"`

	path string
}

// ServeConfig configures the HTTP/3 validation endpoint.
type ServeConfig struct {
	Addr     string `toml:"addr" yaml:"addr"`
	CertFile string `toml:"cert_file" yaml:"cert_file"`
	KeyFile  string `toml:"key_file" yaml:"key_file"`
}

// WatchConfig configures watch mode.
type WatchConfig struct {
	PollInterval time.Duration `toml:"poll_interval" yaml:"poll_interval"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Files:  append([]string(nil), DefaultFiles...),
		Format: "text",
		Color:  "auto",
		Serve: ServeConfig{
			Addr: "localhost:4433",
		},
		Watch: WatchConfig{
			PollInterval: 500 * time.Millisecond,
		},
	}
}

// Path returns the file the configuration was loaded from, if any.
func (c *Config) Path() string { return c.path }

// FormatFor picks the file format from the extension.
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return 0, fmt.Errorf("unsupported config file extension %q", filepath.Ext(path))
}

// Load reads path over the defaults. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, errors.InvalidConfig(path, err)
	}

	format, err := FormatFor(path)
	if err != nil {
		return nil, errors.InvalidConfig(path, err)
	}
	if err := cfg.decode(format, data); err != nil {
		return nil, errors.InvalidConfig(path, err)
	}
	cfg.path = path
	return cfg, nil
}

func (c *Config) decode(format Format, data []byte) error {
	switch format {
	case FormatTOML:
		if _, err := toml.Decode(string(data), c); err != nil {
			return fmt.Errorf("failed to parse TOML: %w", err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, c); err != nil {
			return fmt.Errorf("failed to parse YAML: %w", err)
		}
	}
	return nil
}

// Discover returns the first configuration file present in dir, or "".
func Discover(dir string) string {
	for _, name := range FileNames {
		p := filepath.Join(dir, name)
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p
		}
	}
	return ""
}

// ApplyEnv overrides settings from TAM_* environment variables.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if getenv == nil {
		getenv = os.Getenv
	}
	if v := getenv("TAM_FORMAT"); v != "" {
		c.Format = v
	}
	if v := getenv("TAM_COLOR"); v != "" {
		c.Color = v
	}
	if v := getenv("TAM_SERVE_ADDR"); v != "" {
		c.Serve.Addr = v
	}
}

// Validate checks enumerated settings and the version constraint.
func (c *Config) Validate() error {
	where := c.path
	if where == "" {
		where = "defaults"
	}
	switch c.Format {
	case "text", "json":
	default:
		return errors.InvalidConfig(where, fmt.Errorf("format must be text or json, got %q", c.Format))
	}
	switch c.Color {
	case "auto", "always", "never":
	default:
		return errors.InvalidConfig(where, fmt.Errorf("color must be auto, always or never, got %q", c.Color))
	}
	if c.Watch.PollInterval < 0 {
		return errors.InvalidConfig(where, fmt.Errorf("watch.poll_interval must not be negative"))
	}

	ok, err := cli.CheckCompatible(c.Requires)
	if err != nil {
		return errors.InvalidConfig(where, err)
	}
	if !ok {
		return errors.IncompatibleVersion(cli.Version, c.Requires)
	}
	return nil
}
