/*
Package monitoring provides Prometheus metrics for vshell.

# Overview

Metrics are registered on a per-instance registry so several servers (and
tests) can coexist in one process. Tracked:

  - HTTP requests (count, latency, sizes) by route template
  - shell commands by service and tool, with failures by error code
  - snapshot load/save/reset latency and size
  - active sessions and WebSocket connections

# Usage

	metrics := monitoring.NewMetrics()
	router.Use(monitoring.Middleware(metrics))
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	timer := monitoring.NewTimer(metrics, "filesystem", "ls")
	// ... run the command ...
	timer.Stop("success")

Metrics implements the snapshot observer hook of the vfs repository, so
passing it to Repository.WithObserver records snapshot traffic.
*/
package monitoring
