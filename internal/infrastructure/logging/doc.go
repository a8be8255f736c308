// Package logging provides structured logging using uber/zap.
//
// Two modes:
//   - Production: JSON output for machine parsing
//   - Development: Colored console output for human readability
//
// Components take a *Logger and derive a named child, so every line carries
// its origin in the "component" key. Window controllers use ForWindow, which
// also stamps the window ID:
//
//	logger, _ := logging.New(logging.DefaultConfig())
//	logger.Named(logging.ComponentShell).ForWindow(id).Info("Window opened")
//
// Failures the shell recovers from locally (style reads, script injection,
// geometry, persistence) are logged rather than surfaced, so this is the
// only place they become visible.
package logging
