// Package logger provides a structured logging facility based on Zap.
//
// The sync run reports every inserted, deleted and updated layout through the
// logger, and the read-only HTTP API uses it for request logs.
//
// # Context Awareness
//
// The WithRayID helper extracts the RayID (request ID) set by the rayid
// middleware from a Fiber context and attaches it to the log entry, so all
// logs of one request can be correlated.
//
// # Configuration
//
//   - Level: debug, info, warn, error
//   - Format: json (machine readable) or console (human readable)
//
// # Usage
//
//	log, _ := logger.New(&logger.Config{Level: "info", Format: "console"})
//	log.Info("Sync started")
package logger
