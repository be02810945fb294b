// Package logging provides structured logging using uber/zap.
//
// Two output modes:
//   - Production: JSON lines for log collectors
//   - Development: colored console output
//
// Shell commands are logged at debug with the session and duration,
// snapshot re-seeding at warn, server lifecycle at info.
//
//	logger := logging.NewDefault()
//	logger.Info("Server starting", zap.String("port", "8000"))
package logging
