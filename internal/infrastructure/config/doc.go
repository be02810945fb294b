// Package config provides 12-factor configuration for vshell.
//
// Configuration is loaded from environment variables with defaults. A .env
// file is read first when present; variables already set in the process
// environment win. CLI flags on cmd/server override both.
//
// Sections:
//   - Server: HTTP listen address
//   - Logging: level and output format
//   - RateLimit: per-IP request limits
//   - Shell: default user, home directory, history size, host seed directory
//   - Storage: snapshot backend, key, codec and compression
//
// Usage:
//
//	cfg := config.LoadOrDefault()
//	fmt.Printf("listening on %s:%s\n", cfg.Server.Host, cfg.Server.Port)
package config
