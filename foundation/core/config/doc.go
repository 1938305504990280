// File: doc.go
// Title: Configuration Package Documentation
// Description: Package documentation for configuration document decoding.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-25
// Modified: 2025-10-15
//
// Change History:
// - 2025-01-25 v0.1.0: Initial configuration package
// - 2025-10-15 v0.2.0: Typed decoding only

/*
Package config decodes TOML and YAML documents into caller-owned structs.

The format is chosen from the file extension (.toml, .yaml, .yml), TOML being
the default. Unknown keys are rejected in both formats so that typos in
grammar files and application settings do not pass unnoticed.

	var cfg MySettings
	if err := config.DecodeFile("opspy.toml", &cfg); err != nil {
		return err
	}
*/
package config
