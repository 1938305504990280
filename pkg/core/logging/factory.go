// ============================================================================
// opspy - OpenSees call spy
// ============================================================================
//
// Package:     logging
// Description: Factory functions for creating foundation loggers from
//              application settings
// Author:      Mike Stoffels
// Created:     2025-10-15
// License:     MIT
// ============================================================================

package logging

import (
	"io"
	"os"

	spylog "github.com/msto63/opspy/foundation/core/log"
)

// LoggerConfig holds configuration for creating loggers
type LoggerConfig struct {
	// Service name
	ServiceName string

	// Log level (trace, debug, info, warn, error)
	Level string

	// Output format
	Format string // "json" or "text" (default: text)

	// Output writer (default: os.Stderr, keeps stdout free for results)
	Output io.Writer

	// Additional outputs besides Output
	AdditionalOutputs []io.Writer
}

// DefaultLoggerConfig returns a default configuration
func DefaultLoggerConfig(serviceName string) LoggerConfig {
	return LoggerConfig{
		ServiceName: serviceName,
		Level:       "warn",
		Format:      "text",
	}
}

// NewLogger creates a new foundation logger. Unknown levels and formats
// fall back to info and text.
func NewLogger(cfg LoggerConfig) *spylog.Logger {
	level, err := spylog.ParseLevel(cfg.Level)
	if err != nil {
		level = spylog.LevelInfo
	}

	format := spylog.FormatText
	if cfg.Format == "json" {
		format = spylog.FormatJSON
	}

	var output io.Writer = os.Stderr
	if cfg.Output != nil {
		output = cfg.Output
	}
	if len(cfg.AdditionalOutputs) > 0 {
		writers := append([]io.Writer{output}, cfg.AdditionalOutputs...)
		output = io.MultiWriter(writers...)
	}

	return spylog.NewWithConfig(spylog.Config{
		Level:  level,
		Format: format,
		Output: output,
		Name:   cfg.ServiceName,
	})
}

// NewSimpleLogger creates a logger with default settings
func NewSimpleLogger(serviceName string) *spylog.Logger {
	return NewLogger(DefaultLoggerConfig(serviceName))
}

// Install creates a logger and makes it the foundation default
func Install(cfg LoggerConfig) *spylog.Logger {
	logger := NewLogger(cfg)
	spylog.SetDefault(logger)
	return logger
}

// Verbose returns the level for a -v count: 0 keeps base, 1 is info,
// 2 is debug, more is trace
func Verbose(base string, count int) string {
	switch {
	case count <= 0:
		return base
	case count == 1:
		return "info"
	case count == 2:
		return "debug"
	default:
		return "trace"
	}
}
