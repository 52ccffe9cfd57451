// Package config loads fade's settings from YAML or TOML.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/fentz26/fade/internal/geometry"
	"gopkg.in/yaml.v3"
)

// Config holds fade configuration.
type Config struct {
	Todo      TodoConfig      `yaml:"todo" toml:"todo"`
	Indicator geometry.Circle `yaml:"indicator" toml:"indicator"`
	Journal   JournalConfig   `yaml:"journal" toml:"journal"`
	Server    ServerConfig    `yaml:"server" toml:"server"`
	Log       LogConfig       `yaml:"log" toml:"log"`
}

// TodoConfig tunes the item lifecycle.
type TodoConfig struct {
	// Expiry is how long an active item lives.
	Expiry Duration `yaml:"expiry" toml:"expiry"`
	// FadeDelay is how long a completed item lingers before removal.
	FadeDelay Duration `yaml:"fade_delay" toml:"fade_delay"`
	// TickInterval is the period of the expiry sweep.
	TickInterval Duration `yaml:"tick_interval" toml:"tick_interval"`
}

// JournalConfig controls the lifecycle event journal.
type JournalConfig struct {
	Enabled bool   `yaml:"enabled" toml:"enabled"`
	Path    string `yaml:"path" toml:"path"`
}

// ServerConfig configures `fade serve`.
type ServerConfig struct {
	Listen string `yaml:"listen" toml:"listen"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level string `yaml:"level" toml:"level"`
	// File receives TUI logs; the terminal is owned by the UI.
	File string `yaml:"file,omitempty" toml:"file,omitempty"`
}

// Duration is a time.Duration written as "30m" or "500ms" in config files.
type Duration struct {
	time.Duration
}

// D wraps d.
func D(d time.Duration) Duration { return Duration{d} }

func (d Duration) MarshalYAML() (interface{}, error) {
	return d.String(), nil
}

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	return d.UnmarshalText([]byte(node.Value))
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(strings.TrimSpace(string(text)))
	if err != nil {
		return fmt.Errorf("duration %q: %w", text, err)
	}
	d.Duration = v
	return nil
}

// Dir returns ~/.fade.
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".fade"
	}
	return filepath.Join(home, ".fade")
}

// DefaultPath returns ~/.fade/config.yaml.
func DefaultPath() string {
	return filepath.Join(Dir(), "config.yaml")
}

// DefaultConfig returns the reference configuration.
func DefaultConfig() *Config {
	return &Config{
		Todo: TodoConfig{
			Expiry:       D(30 * time.Minute),
			FadeDelay:    D(500 * time.Millisecond),
			TickInterval: D(time.Second),
		},
		Indicator: geometry.Indicator,
		Journal: JournalConfig{
			Enabled: true,
			Path:    filepath.Join(Dir(), "journal.db"),
		},
		Server: ServerConfig{
			Listen: "127.0.0.1:7467",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error
	if c.Todo.Expiry.Duration <= 0 {
		errs = append(errs, fmt.Errorf("todo.expiry must be positive, got %s", c.Todo.Expiry))
	}
	if c.Todo.FadeDelay.Duration < 0 {
		errs = append(errs, fmt.Errorf("todo.fade_delay must not be negative, got %s", c.Todo.FadeDelay))
	}
	if c.Todo.TickInterval.Duration <= 0 {
		errs = append(errs, fmt.Errorf("todo.tick_interval must be positive, got %s", c.Todo.TickInterval))
	}
	if c.Indicator.R <= 0 {
		errs = append(errs, fmt.Errorf("indicator.radius must be positive, got %v", c.Indicator.R))
	}
	if c.Journal.Enabled && strings.TrimSpace(c.Journal.Path) == "" {
		errs = append(errs, errors.New("journal.path is required when the journal is enabled"))
	}
	if strings.TrimSpace(c.Server.Listen) == "" {
		errs = append(errs, errors.New("server.listen is required"))
	}
	switch strings.ToLower(c.Log.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("log.level %q is not one of debug, info, warn, error", c.Log.Level))
	}
	return errors.Join(errs...)
}

// Load reads configuration from path. TOML is used for .toml files, YAML
// otherwise. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if isTOML(path) {
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg.Journal.Path = expandHome(cfg.Journal.Path)
	cfg.Log.File = expandHome(cfg.Log.File)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Save writes cfg to path in the format implied by its extension, creating
// parent directories if needed.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errors.New("config is nil")
	}
	data, err := Encode(cfg, isTOML(path))
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// Encode renders cfg as TOML or YAML.
func Encode(cfg *Config, asTOML bool) ([]byte, error) {
	if asTOML {
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
			return nil, fmt.Errorf("encoding config: %w", err)
		}
		return buf.Bytes(), nil
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("encoding config: %w", err)
	}
	return data, nil
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}
