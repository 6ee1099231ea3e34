// Package mqtt provides the optional catalog event publisher for BLE Mapper.
//
// When enabled in configuration, the API server announces catalog changes
// (creates, updates, deletes, seeding, log-parse ingestion) on the broker so
// companion tools can react without polling. The wrapper handles connection
// management, automatic reconnection with backoff, and Last Will and
// Testament for offline detection.
//
// All methods are safe for concurrent use from multiple goroutines.
package mqtt
