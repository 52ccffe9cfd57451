package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    log.Level
		wantErr bool
	}{
		{"", log.InfoLevel, false},
		{"debug", log.DebugLevel, false},
		{"WARN", log.WarnLevel, false},
		{" error ", log.ErrorLevel, false},
		{"loud", log.InfoLevel, true},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNewWritesStructuredFields(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, log.InfoLevel)

	logger.Debug("hidden")
	logger.Info("todo expired", "id", "abc")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("Debug line should be filtered at info level")
	}
	if !strings.Contains(out, "todo expired") || !strings.Contains(out, "id=abc") {
		t.Errorf("Unexpected output: %q", out)
	}
	if !strings.Contains(out, Prefix) {
		t.Errorf("Missing prefix in %q", out)
	}
}

func TestOpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "fade.log")

	logger, closer, err := OpenFile(path, log.DebugLevel)
	if err != nil {
		t.Fatalf("OpenFile failed: %v", err)
	}
	logger.Debug("tick", "expired", 2)
	if err := closer.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if !strings.Contains(string(data), "expired=2") {
		t.Errorf("Unexpected log file content: %q", data)
	}
}
