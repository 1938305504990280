// File: severity.go
// Title: Error Severity Levels
// Description: Defines severity levels for errors so callers can decide
//              whether a failure is worth surfacing or only logging.
// Author: msto63
// Version: v0.1.0
// Created: 2025-01-24
// Modified: 2025-01-24
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with severity levels

package error

// Severity represents the severity level of an error
type Severity int

const (
	// SeverityLow indicates a minor error, e.g. a malformed call that is
	// still forwarded unchanged
	SeverityLow Severity = iota

	// SeverityMedium indicates an error that affects functionality but has workarounds
	SeverityMedium

	// SeverityHigh indicates a serious error, e.g. a namespace that refuses hooks
	SeverityHigh

	// SeverityCritical indicates the session is unusable
	SeverityCritical
)

// String returns the string representation of the severity level
func (s Severity) String() string {
	switch s {
	case SeverityLow:
		return "low"
	case SeverityMedium:
		return "medium"
	case SeverityHigh:
		return "high"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// GetSeverityFromCode determines appropriate severity level based on error code
func GetSeverityFromCode(code Code) Severity {
	switch code {
	case CodeHookFailed:
		return SeverityHigh
	case CodeInvalidGrammar, CodeConfigError, CodeMissingConfig, CodeInvalidConfig, CodeScriptError:
		return SeverityMedium
	case CodeArity, CodeNotFound, CodeInvalidInput:
		return SeverityLow
	default:
		return SeverityMedium
	}
}
