// Package dispatch routes named commands to registered handlers.
//
// It is the host dispatcher the transports (HTTP, WebSocket, gRPC) share:
// a command arrives as a name plus a JSON object of arguments and leaves as
// either a value or a single error string.
//
// Components:
//   - Registry: command catalog and invocation
//   - Provider: interface for command sets (see providers/filesystem)
//   - Args: raw JSON arguments with sonic-backed binding
//   - Classify, Respond: error kind tagging and wire response shaping
//
// Invocation:
//   - Unknown names fail with ErrUnknownCommand
//   - Missing required keys fail with ErrInvalidArgs before the handler runs
//   - Handlers run synchronously on the caller's goroutine
//   - Every call is timed into metrics and traced at debug level
//
// Example Usage:
//
//	registry := dispatch.NewRegistry().WithLogger(logger).WithMetrics(metrics)
//	registry.Register(filesystem.NewProvider(filesystem.Options{}))
//	result, err := registry.Invoke(ctx, "fs_stat", dispatch.MustArgs(map[string]string{"path": "."}))
//	resp := dispatch.Respond("", result, err)
package dispatch
