package grpc

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/bibbank/fraud-detection/pkg/tlsutil"
)

// ServiceName is the health service name reported for the prediction API.
const ServiceName = "fraud-detection"

// ServerConfig configures the gRPC health server.
type ServerConfig struct {
	Address     string
	TLSCertFile string
	TLSKeyFile  string
	Reflection  bool
	// Ready reports whether a model is loaded. A nil Ready is never ready.
	Ready func() bool
	// PollInterval controls how often Ready is re-evaluated. Defaults to 5s.
	PollInterval time.Duration
}

// Server exposes the standard gRPC health protocol for the prediction service
// so orchestrators can probe readiness without HTTP.
type Server struct {
	cfg        ServerConfig
	grpcServer *grpc.Server
	health     *health.Server
	logger     *slog.Logger
	stop       chan struct{}
}

// NewServer creates the gRPC server. TLS is enabled when both certificate and
// key files are configured.
func NewServer(cfg ServerConfig, logger *slog.Logger) (*Server, error) {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 5 * time.Second
	}

	var serverOpts []grpc.ServerOption
	if cfg.TLSCertFile != "" && cfg.TLSKeyFile != "" {
		creds, err := tlsutil.ServerCredentials(cfg.TLSCertFile, cfg.TLSKeyFile)
		if err != nil {
			return nil, fmt.Errorf("loading gRPC TLS credentials: %w", err)
		}
		serverOpts = append(serverOpts, grpc.Creds(creds))
		logger.Info("gRPC TLS enabled", "cert", cfg.TLSCertFile, "key", cfg.TLSKeyFile)
	} else {
		logger.Info("gRPC TLS not configured, running without TLS")
	}

	grpcServer := grpc.NewServer(serverOpts...)

	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthServer)

	if cfg.Reflection {
		reflection.Register(grpcServer)
	}

	s := &Server{
		cfg:        cfg,
		grpcServer: grpcServer,
		health:     healthServer,
		logger:     logger,
		stop:       make(chan struct{}),
	}
	s.refresh()
	return s, nil
}

// refresh publishes the current readiness as the serving status.
func (s *Server) refresh() {
	status := healthpb.HealthCheckResponse_NOT_SERVING
	if s.cfg.Ready != nil && s.cfg.Ready() {
		status = healthpb.HealthCheckResponse_SERVING
	}
	s.health.SetServingStatus(ServiceName, status)
	s.health.SetServingStatus("", status)
}

func (s *Server) watch() {
	ticker := time.NewTicker(s.cfg.PollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.refresh()
		case <-s.stop:
			return
		}
	}
}

// Serve serves gRPC requests on lis until Stop is called.
func (s *Server) Serve(lis net.Listener) error {
	go s.watch()
	s.logger.Info("gRPC server starting", slog.String("address", lis.Addr().String()))
	return s.grpcServer.Serve(lis)
}

// Start begins listening on the configured address and serving gRPC requests.
func (s *Server) Start() error {
	listener, err := net.Listen("tcp", s.cfg.Address)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.cfg.Address, err)
	}
	return s.Serve(listener)
}

// Stop gracefully stops the gRPC server, falling back to a hard stop when ctx
// expires first.
func (s *Server) Stop(ctx context.Context) {
	s.logger.Info("gRPC server shutting down")
	select {
	case <-s.stop:
	default:
		close(s.stop)
	}
	s.health.Shutdown()

	done := make(chan struct{})
	go func() {
		s.grpcServer.GracefulStop()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		s.grpcServer.Stop()
	}
}
