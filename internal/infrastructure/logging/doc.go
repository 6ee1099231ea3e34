// Package logging provides structured logging for BLE Mapper.
//
// This package wraps Go's standard log/slog package to provide
// consistent, structured logging across the entire application.
//
// # Features
//
//   - JSON output for production (machine-parsable)
//   - Text output for development (human-readable)
//   - Level filtering (debug, info, warn, error)
//   - Default fields (service, version) on every record
//
// Usage:
//
//	log := logging.New(cfg.Logging, version)
//	log.Info("attribute created", "uuid", attr.UUID)
package logging
