// Package main is the entry point for the vshell HTTP server.
//
// The server hosts shell sessions over a virtual file system whose
// snapshot lives in memory, on disk, in PostgreSQL or in an S3 bucket.
//
// The server provides:
//   - REST API for sessions, command execution and services
//   - WebSocket streaming of an interactive session
//   - Snapshot export as JSON, YAML or TOML
//   - Prometheus metrics and rate limiting
//
// Configuration:
//   - .env file (optional, never overrides the environment)
//   - Environment variables (12-factor)
//   - CLI flags (override env vars)
//
// Usage:
//
//	# In-memory file system on :8000
//	./server
//
//	# Persist to ./data and log at debug level
//	./server -storage file -data ./data -dev
//
// Signals:
//   - SIGINT, SIGTERM: Graceful shutdown
package main
