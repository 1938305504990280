package logging

import (
	"bytes"
	"io"
	"strings"
	"testing"

	spylog "github.com/msto63/opspy/foundation/core/log"
)

func TestDefaultLoggerConfig(t *testing.T) {
	cfg := DefaultLoggerConfig("opspy")

	if cfg.ServiceName != "opspy" {
		t.Errorf("ServiceName = %v, want opspy", cfg.ServiceName)
	}
	if cfg.Level != "warn" {
		t.Errorf("Level = %v, want warn", cfg.Level)
	}
	if cfg.Format != "text" {
		t.Errorf("Format = %v, want text", cfg.Format)
	}
}

func TestNewLogger_Level(t *testing.T) {
	tests := []struct {
		level    string
		expected spylog.Level
	}{
		{"trace", spylog.LevelTrace},
		{"debug", spylog.LevelDebug},
		{"warn", spylog.LevelWarn},
		{"error", spylog.LevelError},
		{"bogus", spylog.LevelInfo},
		{"", spylog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			logger := NewLogger(LoggerConfig{Level: tt.level, Output: &bytes.Buffer{}})
			if logger.GetLevel() != tt.expected {
				t.Errorf("GetLevel() = %v, want %v", logger.GetLevel(), tt.expected)
			}
		})
	}
}

func TestNewLogger_WritesAllOutputs(t *testing.T) {
	var primary, extra bytes.Buffer
	logger := NewLogger(LoggerConfig{
		ServiceName:       "opspy",
		Level:             "info",
		Format:            "json",
		Output:            &primary,
		AdditionalOutputs: []io.Writer{&extra},
	})

	logger.Info("grammar loaded", spylog.Fields{"commands": 3})

	for name, buf := range map[string]*bytes.Buffer{"primary": &primary, "extra": &extra} {
		if !strings.Contains(buf.String(), `"message":"grammar loaded"`) {
			t.Errorf("%s output missing entry: %s", name, buf.String())
		}
	}
	if logger.Name() != "opspy" {
		t.Errorf("Name() = %q", logger.Name())
	}
}

func TestInstall(t *testing.T) {
	previous := spylog.GetDefault()
	defer spylog.SetDefault(previous)

	logger := Install(LoggerConfig{Level: "debug", Output: &bytes.Buffer{}})
	if spylog.GetDefault() != logger {
		t.Error("Install() should replace the default logger")
	}
}

func TestVerbose(t *testing.T) {
	tests := []struct {
		count    int
		expected string
	}{
		{0, "warn"},
		{1, "info"},
		{2, "debug"},
		{5, "trace"},
	}
	for _, tt := range tests {
		if got := Verbose("warn", tt.count); got != tt.expected {
			t.Errorf("Verbose(warn, %d) = %q, want %q", tt.count, got, tt.expected)
		}
	}
}
