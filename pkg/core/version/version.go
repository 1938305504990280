// ============================================================================
// opspy - OpenSees call spy
// ============================================================================
//
// Package:     version
// Description: Central version management for the CLI and its components
// Author:      Mike Stoffels
// Created:     2025-10-15
// License:     MIT
// ============================================================================

package version

// Version constants for opspy
const (
	// Platform version
	Platform = "0.1.0"

	// Component versions
	Grammar   = "0.1.0"
	Parser    = "0.1.0"
	Registry  = "0.1.0"
	Intercept = "0.1.0"
	Script    = "0.1.0"

	// GrammarDocument is the schema revision of grammar files
	GrammarDocument = "1"
)

// ComponentVersion returns the version for a given component name
func ComponentVersion(name string) string {
	switch name {
	case "grammar":
		return Grammar
	case "parser":
		return Parser
	case "registry":
		return Registry
	case "intercept":
		return Intercept
	case "script":
		return Script
	default:
		return Platform
	}
}

// Components returns the component names in display order
func Components() []string {
	return []string{"grammar", "parser", "registry", "intercept", "script"}
}
