// Package logging provides structured logging using uber/zap.
//
// This package offers two modes:
//   - Production: JSON output for machine parsing
//   - Development: Colored console output for human readability
//
// Output goes to stderr so that CLI commands can keep stdout for results.
//
// Example Usage:
//
//	logger := logging.NewDefault()
//	logger.Info("Bridge listening", zap.String("addr", "127.0.0.1:8765"))
//	logger.Error("Failed to bind", zap.Error(err))
package logging
