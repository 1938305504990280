// ============================================================================
// opspy - OpenSees call spy
// ============================================================================
//
// Package:     config
// Description: Typed application configuration loaded from TOML or YAML
// Author:      Mike Stoffels
// Created:     2025-10-15
// License:     MIT
// ============================================================================

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	spyconfig "github.com/msto63/opspy/foundation/core/config"
	spyerr "github.com/msto63/opspy/foundation/core/error"
)

// EnvVar names the environment variable holding the config path
const EnvVar = "OPSPY_CONFIG"

// Config holds the complete application configuration
type Config struct {
	General  GeneralConfig  `toml:"general" yaml:"general"`
	Model    ModelConfig    `toml:"model" yaml:"model"`
	Handlers HandlersConfig `toml:"handlers" yaml:"handlers"`
	Grammar  GrammarConfig  `toml:"grammar" yaml:"grammar"`
	Script   ScriptConfig   `toml:"script" yaml:"script"`
}

// GeneralConfig holds general application settings
type GeneralConfig struct {
	LogLevel  string `toml:"log_level" yaml:"log_level"`
	LogFormat string `toml:"log_format" yaml:"log_format"`
}

// ModelConfig holds the dimensions assumed before a script calls model
type ModelConfig struct {
	NDM int `toml:"ndm" yaml:"ndm"`
	NDF int `toml:"ndf" yaml:"ndf"`
}

// HandlersConfig selects the handlers of a session. An empty list enables
// every default handler.
type HandlersConfig struct {
	Enabled []string `toml:"enabled" yaml:"enabled"`
}

// GrammarConfig lists grammar documents merged over the built-in grammar
type GrammarConfig struct {
	Files []string `toml:"files" yaml:"files"`
}

// ScriptConfig holds model script settings
type ScriptConfig struct {
	Global        string   `toml:"global" yaml:"global"`
	WatchDebounce Duration `toml:"watch_debounce" yaml:"watch_debounce"`
}

// Duration wraps time.Duration for TOML and YAML parsing
type Duration struct {
	time.Duration
}

// UnmarshalText parses a duration string
func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText formats the duration as a string
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns a configuration with every default applied
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load loads configuration from a TOML or YAML file, chosen by extension
func Load(path string) (*Config, error) {
	var cfg Config
	if err := spyconfig.DecodeFile(path, &cfg); err != nil {
		return nil, err
	}

	// Apply defaults
	cfg.applyDefaults()

	// Expand environment variables in paths
	cfg.expandEnvVars()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadFromEnv loads configuration from OPSPY_CONFIG or a default location
func LoadFromEnv() (*Config, error) {
	path := os.Getenv(EnvVar)
	if path == "" {
		for _, p := range DefaultPaths() {
			if _, err := os.Stat(p); err == nil {
				path = p
				break
			}
		}
	}

	if path == "" {
		return nil, spyerr.New(fmt.Sprintf("no config file found, set %s or create opspy.toml", EnvVar)).
			WithCode(spyerr.CodeMissingConfig).
			WithOperation("config.LoadFromEnv")
	}

	return Load(path)
}

// DefaultPaths returns the locations searched when OPSPY_CONFIG is unset
func DefaultPaths() []string {
	return []string{
		"./opspy.toml",
		"./opspy.yaml",
		"./configs/opspy.toml",
		filepath.Join(os.Getenv("HOME"), ".config/opspy/config.toml"),
	}
}

// applyDefaults sets default values for missing configuration
func (c *Config) applyDefaults() {
	// General
	if c.General.LogLevel == "" {
		c.General.LogLevel = "warn"
	}
	if c.General.LogFormat == "" {
		c.General.LogFormat = "text"
	}

	// Model
	if c.Model.NDM == 0 {
		c.Model.NDM = 2
	}
	if c.Model.NDF == 0 {
		c.Model.NDF = c.Model.NDM * (c.Model.NDM + 1) / 2
	}

	// Script
	if c.Script.Global == "" {
		c.Script.Global = "ops"
	}
	if c.Script.WatchDebounce.Duration == 0 {
		c.Script.WatchDebounce.Duration = 200 * time.Millisecond
	}
}

// expandEnvVars expands environment variables in configuration values
func (c *Config) expandEnvVars() {
	for i, f := range c.Grammar.Files {
		c.Grammar.Files[i] = os.ExpandEnv(f)
	}
}

// Validate checks value ranges after defaults are applied
func (c *Config) Validate() error {
	invalid := func(field string, value interface{}) error {
		return spyerr.New(fmt.Sprintf("invalid value for %s: %v", field, value)).
			WithCode(spyerr.CodeInvalidConfig).
			WithOperation("config.Validate").
			WithDetail("field", field)
	}

	if c.Model.NDM < 1 || c.Model.NDM > 3 {
		return invalid("model.ndm", c.Model.NDM)
	}
	if c.Model.NDF < 1 || c.Model.NDF > 6 {
		return invalid("model.ndf", c.Model.NDF)
	}
	if c.General.LogFormat != "text" && c.General.LogFormat != "json" {
		return invalid("general.log_format", c.General.LogFormat)
	}
	if c.Script.WatchDebounce.Duration < 0 {
		return invalid("script.watch_debounce", c.Script.WatchDebounce.Duration)
	}
	return nil
}

// HandlerEnabled reports whether the named handler is enabled
func (c *Config) HandlerEnabled(name string) bool {
	if len(c.Handlers.Enabled) == 0 {
		return true
	}
	for _, n := range c.Handlers.Enabled {
		if n == name {
			return true
		}
	}
	return false
}
