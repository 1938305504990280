// File: codes.go
// Title: Error Code Definitions
// Description: Defines the error codes used across the spy engine so callers
//              can classify failures (grammar, arity, lookup, hooking) without
//              string matching.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2025-10-15
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with core error codes
// - 2025-10-15 v0.2.0: Reduced to the codes used by the command spy

package error

// Code represents a structured error code for categorizing errors
type Code string

const (
	// Generic codes
	CodeUnknown      Code = "UNKNOWN"
	CodeInternal     Code = "INTERNAL"
	CodeNotFound     Code = "NOT_FOUND"
	CodeInvalidInput Code = "INVALID_INPUT"

	// Grammar and parsing
	CodeArity          Code = "ARITY"
	CodeInvalidGrammar Code = "INVALID_GRAMMAR"

	// Interception
	CodeHookFailed Code = "HOOK_FAILED"

	// Scripts
	CodeScriptError Code = "SCRIPT_ERROR"

	// Configuration and environment
	CodeConfigError   Code = "CONFIG_ERROR"
	CodeMissingConfig Code = "MISSING_CONFIG"
	CodeInvalidConfig Code = "INVALID_CONFIG"
)

// String returns the string representation of the error code
func (c Code) String() string {
	return string(c)
}

// IsValid checks if the error code is a known valid code
func (c Code) IsValid() bool {
	switch c {
	case CodeUnknown, CodeInternal, CodeNotFound, CodeInvalidInput,
		CodeArity, CodeInvalidGrammar, CodeHookFailed, CodeScriptError,
		CodeConfigError, CodeMissingConfig, CodeInvalidConfig:
		return true
	default:
		return false
	}
}

// Category returns the high-level category of the error code
func (c Code) Category() string {
	switch c {
	case CodeArity, CodeInvalidGrammar:
		return "grammar"
	case CodeHookFailed:
		return "intercept"
	case CodeScriptError:
		return "script"
	case CodeConfigError, CodeMissingConfig, CodeInvalidConfig:
		return "configuration"
	default:
		return "generic"
	}
}
