package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fentz26/fade/internal/geometry"
	"github.com/google/go-cmp/cmp"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default config invalid: %v", err)
	}
	if cfg.Todo.Expiry.Duration != 30*time.Minute {
		t.Errorf("Expected 30m expiry, got %s", cfg.Todo.Expiry)
	}
	if cfg.Todo.FadeDelay.Duration != 500*time.Millisecond {
		t.Errorf("Expected 500ms fade, got %s", cfg.Todo.FadeDelay)
	}
	if cfg.Indicator != geometry.Indicator {
		t.Errorf("Expected reference indicator, got %+v", cfg.Indicator)
	}
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if diff := cmp.Diff(DefaultConfig(), cfg); diff != "" {
		t.Errorf("Config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
todo:
  expiry: 10m
  fade_delay: 1s
indicator:
  cx: 50
  cy: 50
  radius: 40
journal:
  enabled: false
server:
  listen: ":9000"
log:
  level: debug
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Todo.Expiry.Duration != 10*time.Minute {
		t.Errorf("Expected 10m expiry, got %s", cfg.Todo.Expiry)
	}
	if cfg.Todo.FadeDelay.Duration != time.Second {
		t.Errorf("Expected 1s fade, got %s", cfg.Todo.FadeDelay)
	}
	if cfg.Todo.TickInterval.Duration != time.Second {
		t.Errorf("Unset tick interval should keep default, got %s", cfg.Todo.TickInterval)
	}
	if cfg.Indicator != (geometry.Circle{CX: 50, CY: 50, R: 40}) {
		t.Errorf("Unexpected indicator %+v", cfg.Indicator)
	}
	if cfg.Journal.Enabled {
		t.Error("Expected journal disabled")
	}
	if cfg.Server.Listen != ":9000" || cfg.Log.Level != "debug" {
		t.Errorf("Unexpected server/log: %+v %+v", cfg.Server, cfg.Log)
	}
}

func TestLoadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `
[todo]
expiry = "5m"
tick_interval = "250ms"

[log]
level = "warn"
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Todo.Expiry.Duration != 5*time.Minute {
		t.Errorf("Expected 5m expiry, got %s", cfg.Todo.Expiry)
	}
	if cfg.Todo.TickInterval.Duration != 250*time.Millisecond {
		t.Errorf("Expected 250ms tick, got %s", cfg.Todo.TickInterval)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("Expected warn level, got %q", cfg.Log.Level)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{"zero expiry", "todo:\n  expiry: 0s\n", "todo.expiry"},
		{"bad duration", "todo:\n  expiry: soon\n", "parsing config file"},
		{"negative radius", "indicator:\n  radius: -1\n", "indicator.radius"},
		{"bad level", "log:\n  level: loud\n", "log.level"},
		{"no journal path", "journal:\n  enabled: true\n  path: \"\"\n", "journal.path"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(path, []byte(tt.data), 0644); err != nil {
				t.Fatal(err)
			}
			_, err := Load(path)
			if err == nil {
				t.Fatal("Expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestSaveAndLoad(t *testing.T) {
	for _, name := range []string{"config.yaml", "config.toml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "nested", name)
			cfg := DefaultConfig()
			cfg.Todo.Expiry = D(45 * time.Minute)
			cfg.Server.Listen = "0.0.0.0:8080"

			if err := Save(path, cfg); err != nil {
				t.Fatalf("Save failed: %v", err)
			}
			got, err := Load(path)
			if err != nil {
				t.Fatalf("Load failed: %v", err)
			}
			if diff := cmp.Diff(cfg, got); diff != "" {
				t.Errorf("Round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSaveNil(t *testing.T) {
	if err := Save(filepath.Join(t.TempDir(), "c.yaml"), nil); err == nil {
		t.Error("Expected error for nil config")
	}
}
