// File: config.go
// Title: Configuration Document Decoding
// Description: Detects the format of a configuration document from its file
//              extension and decodes TOML or YAML content into typed values.
//              Shared by the application config and the grammar loader.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-25
// Modified: 2025-10-15
//
// Change History:
// - 2025-01-25 v0.1.0: Key-path configuration with TOML/YAML support
// - 2025-10-15 v0.2.0: Reduced to typed decoding; callers own their structs

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	spyerr "github.com/msto63/opspy/foundation/core/error"
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

// ParseFormat parses a format name such as "yaml" or "toml"
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "toml", "":
		return FormatTOML, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return FormatTOML, spyerr.New(fmt.Sprintf("unsupported format: %s", name)).
			WithCode(spyerr.CodeInvalidInput).
			WithOperation("config.ParseFormat")
	}
}

// DetectFormat derives the format from a file extension, defaulting to TOML
func DetectFormat(filePath string) Format {
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatTOML
	}
}

// Decode parses content in the given format into v. YAML documents are
// decoded strictly so that misspelled keys surface as errors.
func Decode(content []byte, format Format, v interface{}) error {
	switch format {
	case FormatTOML:
		md, err := toml.Decode(string(content), v)
		if err != nil {
			return spyerr.Wrap(err, "TOML parse error").
				WithCode(spyerr.CodeInvalidInput).
				WithOperation("config.Decode")
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return spyerr.New(fmt.Sprintf("unknown TOML keys: %v", undecoded)).
				WithCode(spyerr.CodeInvalidConfig).
				WithOperation("config.Decode")
		}
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(content))
		dec.KnownFields(true)
		if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
			return spyerr.Wrap(err, "YAML parse error").
				WithCode(spyerr.CodeInvalidInput).
				WithOperation("config.Decode")
		}
	default:
		return spyerr.New(fmt.Sprintf("unsupported format: %s", format)).
			WithCode(spyerr.CodeInvalidInput).
			WithOperation("config.Decode").
			WithDetail("format", format.String())
	}
	return nil
}

// DecodeFile reads filePath and decodes it using the format implied by its
// extension. Environment variables in the path are expanded.
func DecodeFile(filePath string, v interface{}) error {
	filePath = os.ExpandEnv(filePath)

	content, err := os.ReadFile(filePath)
	if err != nil {
		code := spyerr.CodeConfigError
		if os.IsNotExist(err) {
			code = spyerr.CodeMissingConfig
		}
		return spyerr.Wrap(err, "failed to read config file").
			WithCode(code).
			WithOperation("config.DecodeFile").
			WithDetail("filePath", filePath)
	}

	if err := Decode(content, DetectFormat(filePath), v); err != nil {
		return spyerr.Wrap(err, "failed to decode "+filepath.Base(filePath))
	}
	return nil
}
