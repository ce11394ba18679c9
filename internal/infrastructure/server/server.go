package server

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/klauspost/compress/gzhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"

	bridgegrpc "github.com/GriffinCanCode/fsbridge/internal/api/grpc"
	bridgehttp "github.com/GriffinCanCode/fsbridge/internal/api/http"
	"github.com/GriffinCanCode/fsbridge/internal/api/middleware"
	"github.com/GriffinCanCode/fsbridge/internal/api/ws"
	"github.com/GriffinCanCode/fsbridge/internal/dispatch"
	"github.com/GriffinCanCode/fsbridge/internal/infrastructure/config"
	"github.com/GriffinCanCode/fsbridge/internal/infrastructure/logging"
	"github.com/GriffinCanCode/fsbridge/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/fsbridge/internal/infrastructure/tracing"
	"github.com/GriffinCanCode/fsbridge/internal/providers/filesystem"
)

// Server wires the dispatcher to its transports
type Server struct {
	config   *config.Config
	logger   *logging.Logger
	metrics  *monitoring.Metrics
	tracer   *tracing.Tracer
	registry *dispatch.Registry

	router  *gin.Engine
	handler http.Handler
	http    *http.Server
	grpc    *grpc.Server
	health  *health.Server
}

// New creates a server from cfg. A nil logger is built from cfg.Logging.
func New(cfg *config.Config, logger *logging.Logger) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	if logger == nil {
		l, err := logging.New(logging.Config{
			Level:       cfg.Logging.Level,
			Development: cfg.Logging.Development,
			OutputPaths: []string{"stderr"},
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create logger: %w", err)
		}
		logger = l
	}

	logger.Info("Initializing filesystem bridge",
		zap.String("addr", cfg.Addr()),
		zap.Bool("grpc", cfg.GRPC.Enabled),
		zap.Bool("atomic_writes", cfg.Filesystem.AtomicWrites),
	)

	metrics := monitoring.NewMetrics()
	tracer := tracing.New("fsbridge", logger.Logger)

	registry := dispatch.NewRegistry().WithLogger(logger).WithMetrics(metrics)
	if err := registry.Register(filesystem.NewProvider(filesystem.Options{
		AtomicWrites: cfg.Filesystem.AtomicWrites,
		Metrics:      metrics,
	})); err != nil {
		tracer.Close()
		return nil, fmt.Errorf("failed to register filesystem provider: %w", err)
	}

	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(tracing.HTTPMiddleware(tracer))
	router.Use(monitoring.Middleware(metrics))

	corsCfg := middleware.DefaultCORSConfig()
	if len(cfg.CORS.AllowOrigins) > 0 {
		corsCfg.AllowOrigins = cfg.CORS.AllowOrigins
	}
	router.Use(middleware.CORS(corsCfg))

	if cfg.RateLimit.Enabled {
		logger.Info("Rate limiting enabled",
			zap.Int("rps", cfg.RateLimit.RequestsPerSecond),
			zap.Int("burst", cfg.RateLimit.Burst),
		)
		rl := middleware.DefaultRateLimitConfig()
		rl.RequestsPerSecond = cfg.RateLimit.RequestsPerSecond
		rl.Burst = cfg.RateLimit.Burst
		router.Use(middleware.RateLimit(rl))
	}
	router.Use(middleware.BodyLimit(cfg.Server.MaxBodyBytes))

	bridgehttp.NewHandlers(registry, metrics, logger.Named("http"), cfg.Server.MaxBodyBytes).RegisterRoutes(router)

	wsHandler := ws.NewHandler(registry, metrics, logger.Named("ws"), ws.Options{
		MaxInFlight: cfg.WebSocket.MaxInFlight,
		ReadLimit:   cfg.Server.MaxBodyBytes,
	})
	router.GET("/ws", wsHandler.HandleConnection)

	compress, err := gzhttp.NewWrapper(gzhttp.MinSize(gzhttp.DefaultMinSize))
	if err != nil {
		tracer.Close()
		return nil, fmt.Errorf("failed to create compression wrapper: %w", err)
	}
	handler := compress(router)

	s := &Server{
		config:   cfg,
		logger:   logger,
		metrics:  metrics,
		tracer:   tracer,
		registry: registry,
		router:   router,
		handler:  handler,
		http: &http.Server{
			Addr:              cfg.Addr(),
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
			IdleTimeout:       120 * time.Second,
		},
	}

	if cfg.GRPC.Enabled {
		s.grpc, s.health = bridgegrpc.NewGRPCServer(registry, bridgegrpc.Options{
			MaxMessageBytes: messageLimit(cfg.Server.MaxBodyBytes),
			Tracer:          tracer,
			Metrics:         metrics,
			Logger:          logger.Named("grpc"),
		})
	}

	logger.Info("Server initialized successfully",
		zap.Strings("commands", registry.Commands()),
	)
	return s, nil
}

// Handler returns the compressed HTTP handler serving every route
func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) Registry() *dispatch.Registry {
	return s.registry
}

func (s *Server) Metrics() *monitoring.Metrics {
	return s.metrics
}

// Run listens on the configured addresses and serves until ctx is done
func (s *Server) Run(ctx context.Context) error {
	httpLn, err := net.Listen("tcp", s.config.Addr())
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.config.Addr(), err)
	}

	var grpcLn net.Listener
	if s.grpc != nil {
		grpcLn, err = net.Listen("tcp", s.config.GRPCAddr())
		if err != nil {
			httpLn.Close()
			return fmt.Errorf("failed to listen on %s: %w", s.config.GRPCAddr(), err)
		}
	}

	return s.Serve(ctx, httpLn, grpcLn)
}

// Serve accepts connections on the given listeners until ctx is done or a
// listener fails, then shuts down gracefully. grpcLn is ignored unless gRPC
// is enabled.
func (s *Server) Serve(ctx context.Context, httpLn, grpcLn net.Listener) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.logger.Info("Starting HTTP server", zap.String("addr", httpLn.Addr().String()))
		if err := s.http.Serve(httpLn); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	if s.grpc != nil && grpcLn != nil {
		g.Go(func() error {
			s.logger.Info("Starting gRPC server", zap.String("addr", grpcLn.Addr().String()))
			if err := s.grpc.Serve(grpcLn); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
				return fmt.Errorf("grpc server: %w", err)
			}
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		return s.shutdown()
	})

	return g.Wait()
}

func (s *Server) shutdown() error {
	s.logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout())
	defer cancel()

	var errs []error
	if s.grpc != nil {
		s.health.Shutdown()
		stopped := make(chan struct{})
		go func() {
			s.grpc.GracefulStop()
			close(stopped)
		}()
		select {
		case <-stopped:
		case <-ctx.Done():
			s.logger.Warn("gRPC graceful stop timed out, forcing")
			s.grpc.Stop()
		}
	}

	if err := s.http.Shutdown(ctx); err != nil {
		s.logger.Error("HTTP shutdown failed", zap.Error(err))
		errs = append(errs, fmt.Errorf("http shutdown: %w", err))
	}

	s.tracer.Close()
	_ = s.logger.Sync()

	return errors.Join(errs...)
}

func messageLimit(maxBody int64) int {
	// byte payloads travel as JSON number arrays, up to four bytes per byte
	limit := maxBody * 4
	if limit <= 0 || limit > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(limit)
}
