/*
Package monitoring provides metrics collection for the bridge.

# Overview

Metrics are Prometheus collectors registered on a registry owned by each
Metrics value, so several servers (or tests) can coexist in one process.

# Features

- HTTP request metrics (latency, throughput, size)
- Command metrics (calls, duration, errors by kind, bytes moved)
- gRPC and WebSocket traffic
- Go runtime, process and uptime collectors

# Usage

	metrics := monitoring.NewMetrics()
	router.Use(monitoring.Middleware(metrics))
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	timer := monitoring.NewTimer(metrics, "fs_read_file")
	// ... perform operation ...
	timer.Stop("success")
*/
package monitoring
