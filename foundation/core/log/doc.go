// File: doc.go
// Title: Log Package Documentation
// Description: Package documentation for the structured logger.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2025-10-15

/*
Package log provides the structured logger used by every opspy component.

Loggers are immutable from the caller's point of view: the With* methods
return a derived copy, so a component can attach its own context once and
hand the result around.

	logger := log.NewWithConfig(log.Config{Level: log.LevelDebug, Format: log.FormatText})
	reg := logger.WithField("component", "spy-registry")
	reg.Warn("handler overwritten", log.Fields{"name": "Load"})

JSON output writes one object per line with the keys timestamp, level,
message, logger and every field.
*/
package log
