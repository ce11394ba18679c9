// Package server assembles the bridge process: configuration, logging,
// metrics, tracing, the dispatcher with the filesystem provider, and the
// HTTP, WebSocket and optional gRPC transports.
package server
