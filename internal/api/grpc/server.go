package grpc

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/keepalive"
	"google.golang.org/grpc/status"

	"github.com/GriffinCanCode/fsbridge/internal/dispatch"
	"github.com/GriffinCanCode/fsbridge/internal/infrastructure/logging"
	"github.com/GriffinCanCode/fsbridge/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/fsbridge/internal/infrastructure/tracing"
	"github.com/GriffinCanCode/fsbridge/internal/shared/id"
	"github.com/GriffinCanCode/fsbridge/internal/types"
)

// Server implements BridgeServer on top of the dispatcher
type Server struct {
	registry *dispatch.Registry
	logger   *logging.Logger
}

// NewServer creates the bridge service implementation
func NewServer(registry *dispatch.Registry, logger *logging.Logger) *Server {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Server{registry: registry, logger: logger}
}

// Invoke runs one command. Command failures travel in the Response;
// unknown commands and bad arguments become NotFound and InvalidArgument.
func (s *Server) Invoke(ctx context.Context, req *types.InvokeRequest) (*types.Response, error) {
	if req.Command == "" {
		return nil, status.Error(codes.InvalidArgument, "command is required")
	}
	reqID := req.ID
	if reqID == "" {
		reqID = id.NewRequestID().String()
	}

	result, err := s.registry.Invoke(ctx, req.Command, dispatch.Args(req.Args))
	switch {
	case errors.Is(err, dispatch.ErrUnknownCommand):
		return nil, status.Error(codes.NotFound, err.Error())
	case errors.Is(err, dispatch.ErrInvalidArgs):
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	resp := dispatch.Respond(reqID, result, err)
	return &resp, nil
}

// ListCommands returns the registered service definitions
func (s *Server) ListCommands(_ context.Context, req *ListCommandsRequest) (*types.ListCommandsResponse, error) {
	var category *types.Category
	if req.Category != "" {
		cat := types.Category(req.Category)
		category = &cat
	}
	return &types.ListCommandsResponse{
		Services: s.registry.List(category),
		Stats:    s.registry.Stats(),
	}, nil
}

// Options configures the gRPC listener
type Options struct {
	MaxMessageBytes int
	Tracer          *tracing.Tracer
	Metrics         *monitoring.Metrics
	Logger          *logging.Logger
}

// NewGRPCServer builds a grpc.Server with the bridge and health services registered
func NewGRPCServer(registry *dispatch.Registry, opts Options) (*grpc.Server, *health.Server) {
	if opts.MaxMessageBytes <= 0 {
		opts.MaxMessageBytes = 10 * 1024 * 1024
	}

	interceptors := []grpc.UnaryServerInterceptor{recoveryInterceptor(opts.Logger)}
	if opts.Tracer != nil {
		interceptors = append(interceptors, tracing.GRPCUnaryInterceptor(opts.Tracer))
	}
	if opts.Metrics != nil {
		interceptors = append(interceptors, metricsInterceptor(opts.Metrics))
	}

	srv := grpc.NewServer(
		grpc.ChainUnaryInterceptor(interceptors...),
		grpc.MaxRecvMsgSize(opts.MaxMessageBytes),
		grpc.MaxSendMsgSize(opts.MaxMessageBytes),
		grpc.KeepaliveEnforcementPolicy(keepalive.EnforcementPolicy{
			MinTime:             30 * time.Second,
			PermitWithoutStream: false,
		}),
		grpc.KeepaliveParams(keepalive.ServerParameters{
			Time:    60 * time.Second,
			Timeout: 20 * time.Second,
		}),
	)

	RegisterBridgeServer(srv, NewServer(registry, opts.Logger))

	healthSrv := health.NewServer()
	healthSrv.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	healthSrv.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(srv, healthSrv)

	return srv, healthSrv
}

func metricsInterceptor(metrics *monitoring.Metrics) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		resp, err := handler(ctx, req)
		metrics.RecordGRPCCall(info.FullMethod, status.Code(err).String())
		return resp, err
	}
}

func recoveryInterceptor(logger *logging.Logger) grpc.UnaryServerInterceptor {
	if logger == nil {
		logger = logging.NewNop()
	}
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp any, err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic in grpc handler",
					zap.String("method", info.FullMethod),
					zap.Any("panic", r),
				)
				err = status.Error(codes.Internal, "internal error")
			}
		}()
		return handler(ctx, req)
	}
}
