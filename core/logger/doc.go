// Package logger provides the structured Zap logger used across the sync
// service: server boot, sync passes, and the HTTP handlers.
//
// # Configuration
//
// The logger is built from logger.Config (level + format), which core/config
// fills from the LOG_LEVEL and LOG_FORMAT environment variables. The
// defaults are level "info" with JSON encoding; "debug" switches to Zap's
// development config and "console" enables colored console output for local
// runs and the CLI.
//
// # Request correlation
//
// Every HTTP request gets a ray id from the rayid middleware. The WithRayID
// helper reads it back from the Fiber context and attaches it to the log
// entry, so all logs of one request (and the sync pass it may trigger) can
// be correlated.
//
// # Usage
//
//	log, _ := logger.New(&cfg.Log)
//	log.Info("Sync pass finished", zap.Int("created", n))
//
//	// In a request handler:
//	l := logger.WithRayID(log, c)
//	l.Error("Handler failed", zap.Error(err))
package logger
