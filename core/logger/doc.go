// Package logger provides a structured logging facility based on Zap.
//
// New builds a development or production logger from Config. The WithRayID helper
// attaches the request's RayID (set by the rayid middleware) so every log line of
// a request can be correlated.
//
// # Configuration
//
//   - Level: debug, info, warn, error
//   - Format: json (production) or console (development)
//
// # Usage
//
//	log, _ := logger.New(&cfg.Log)
//	log.Info("Server started")
//
//	// In a request handler:
//	l := logger.WithRayID(log, c)
//	l.Error("Handler failed", zap.Error(err))
package logger
