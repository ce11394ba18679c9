package grpc

import (
	"context"

	"google.golang.org/grpc"

	"github.com/GriffinCanCode/fsbridge/internal/types"
)

// ServiceName is the fully qualified gRPC service name
const ServiceName = "fsbridge.Bridge"

const (
	methodInvoke       = "/" + ServiceName + "/Invoke"
	methodListCommands = "/" + ServiceName + "/ListCommands"
)

// ListCommandsRequest optionally filters discovery by category
type ListCommandsRequest struct {
	Category string `json:"category,omitempty"`
}

// BridgeServer is the server API for the bridge service
type BridgeServer interface {
	Invoke(context.Context, *types.InvokeRequest) (*types.Response, error)
	ListCommands(context.Context, *ListCommandsRequest) (*types.ListCommandsResponse, error)
}

// RegisterBridgeServer registers srv on s
func RegisterBridgeServer(s grpc.ServiceRegistrar, srv BridgeServer) {
	s.RegisterService(&BridgeServiceDesc, srv)
}

// BridgeServiceDesc describes the bridge service for grpc.Server
var BridgeServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*BridgeServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Invoke", Handler: invokeHandler},
		{MethodName: "ListCommands", Handler: listCommandsHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "fsbridge/bridge.json",
}

func invokeHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(types.InvokeRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(BridgeServer).Invoke(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: methodInvoke}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(BridgeServer).Invoke(ctx, req.(*types.InvokeRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func listCommandsHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(ListCommandsRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(BridgeServer).ListCommands(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: methodListCommands}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(BridgeServer).ListCommands(ctx, req.(*ListCommandsRequest))
	}
	return interceptor(ctx, in, info, handler)
}
