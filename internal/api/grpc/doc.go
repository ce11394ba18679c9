// Package grpc exposes the dispatcher as the fsbridge.Bridge gRPC service.
//
// Messages are the same Go structs the HTTP transport uses, carried by a
// JSON codec registered under the "json" content-subtype. The standard
// grpc.health.v1.Health service is registered alongside.
//
// Methods:
//   - Invoke(InvokeRequest) → Response
//   - ListCommands(ListCommandsRequest) → ListCommandsResponse
//
// Example Usage:
//
//	srv, _ := grpc.NewGRPCServer(registry, grpc.Options{Tracer: tracer, Metrics: metrics})
//	go srv.Serve(lis)
//
//	client, _ := grpc.Dial("127.0.0.1:8766")
//	resp, err := client.Invoke(ctx, &types.InvokeRequest{Command: "fs_stat", Args: args})
package grpc
