package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel"

	"github.com/bibbank/fraud-detection/internal/application/usecase"
	"github.com/bibbank/fraud-detection/internal/domain/port"
	"github.com/bibbank/fraud-detection/internal/domain/service"
	"github.com/bibbank/fraud-detection/internal/infrastructure/audit"
	"github.com/bibbank/fraud-detection/internal/infrastructure/config"
	"github.com/bibbank/fraud-detection/internal/infrastructure/hfhub"
	"github.com/bibbank/fraud-detection/internal/infrastructure/httpclient"
	"github.com/bibbank/fraud-detection/internal/infrastructure/local"
	"github.com/bibbank/fraud-detection/internal/infrastructure/messaging"
	"github.com/bibbank/fraud-detection/internal/infrastructure/mlflow"
	"github.com/bibbank/fraud-detection/internal/infrastructure/postgres"
	"github.com/bibbank/fraud-detection/internal/infrastructure/postgres/migrations"
	"github.com/bibbank/fraud-detection/internal/infrastructure/schema"
	"github.com/bibbank/fraud-detection/internal/infrastructure/telemetry"
	grpcpresentation "github.com/bibbank/fraud-detection/internal/presentation/grpc"
	"github.com/bibbank/fraud-detection/internal/presentation/rest"
	"github.com/bibbank/fraud-detection/pkg/kafka"
	"github.com/bibbank/fraud-detection/pkg/observability"
	pgpkg "github.com/bibbank/fraud-detection/pkg/postgres"
	"github.com/bibbank/fraud-detection/pkg/tlsutil"
)

const serviceName = "fraud-detection"

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "1.0.0"

func main() {
	if err := run(); err != nil {
		slog.Error("fraud-detection exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := observability.InitLogger(observability.LogConfig{
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
		Service: serviceName,
	})

	logger.Info("starting fraud-detection",
		"version", version,
		"http_port", cfg.HTTPPort,
		"grpc_port", cfg.GRPCPort,
		"model_source", cfg.ModelSource.String(),
	)

	shutdownTracer, err := observability.InitTracer(ctx, observability.TracingConfig{
		ServiceName: serviceName,
		Endpoint:    cfg.OTLPEndpoint,
		Insecure:    true,
	})
	if err != nil {
		logger.Warn("failed to initialize tracer, continuing without tracing", "error", err)
		shutdownTracer = func(context.Context) error { return nil }
	}

	meterProvider, metricsHandler, err := observability.InitMetrics(observability.MetricsConfig{
		ServiceName: serviceName,
	})
	if err != nil {
		return fmt.Errorf("initializing metrics: %w", err)
	}

	hc := httpclient.New(httpclient.Options{
		Timeout:    cfg.RegistryTimeout,
		MaxRetries: cfg.RegistryMaxRetry,
	})

	// Model resolution.
	var (
		mlflowClient *mlflow.Client
		registry     port.ModelRegistry
	)
	if cfg.RegistryConfigured() {
		mlflowClient, err = mlflow.NewClient(cfg.MLflowTrackingURI, hc)
		if err != nil {
			logger.Warn("model registry unavailable", "uri", cfg.MLflowTrackingURI, "error", err)
		} else {
			registry = mlflow.NewRegistry(mlflowClient, cfg.ModelName)
		}
	}

	loaders := []port.ModelLoader{
		mlflow.NewLoader(mlflowClient, cfg.ModelName, cfg.ModelStage, logger),
		local.NewLoader(cfg.LocalModelPaths, logger),
	}
	if cfg.HubConfigured() {
		hub := hfhub.NewClient(cfg.HFEndpoint, cfg.HFToken, cfg.HFCacheDir, hc)
		loaders = append(loaders, hfhub.NewLoader(hub, cfg.HFModelRepo, cfg.HFRevision, logger))
	}

	bundle, err := usecase.NewResolveModel(cfg.ModelSource, loaders, logger).Execute(ctx)
	if err != nil {
		logger.Error("no model loaded, predictions will be rejected until restart", "error", err)
	}

	predictorCfg := service.PredictorConfig{
		RiskScheme:  cfg.RiskScheme,
		ScoreOutput: cfg.ScoreOutput,
	}
	predictor := service.NewPredictor(bundle, predictorCfg)
	if bundle != nil {
		if err := predictor.Verify(ctx); err != nil {
			logger.Error("resolved model does not match SCORE_OUTPUT, predictions will be rejected until restart",
				"model_source", bundle.Source().String(),
				"model_version", bundle.Version(),
				"score_output", cfg.ScoreOutput.String(),
				"error", err,
			)
			predictor = service.NewPredictor(nil, predictorCfg)
		}
	}

	// Audit trail.
	var (
		sinks    []audit.Sink
		producer *kafka.Producer
		pool     *pgxpool.Pool
	)
	if len(cfg.KafkaBrokers) > 0 {
		producer, err = kafka.NewProducer(kafka.Config{
			ClientID:         serviceName,
			Brokers:          cfg.KafkaBrokers,
			Compression:      cfg.KafkaCompress,
			AutoCreateTopics: cfg.KafkaAutoCreate,
		})
		if err != nil {
			return fmt.Errorf("configuring kafka: %w", err)
		}
		if err := producer.Ping(ctx); err != nil {
			logger.Warn("kafka brokers not reachable yet, events will be retried per batch", "error", err)
		}
		publisher := messaging.NewKafkaPublisher(producer, cfg.PredictionTopic, logger)
		sinks = append(sinks, audit.NewEventSink(publisher))
		logger.Info("prediction events enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.PredictionTopic)
	}
	if cfg.DatabaseURL != "" {
		pool, err = openDatabase(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Error("prediction audit store unavailable", "error", err)
		} else {
			sinks = append(sinks, audit.NewRepositorySink(postgres.NewPredictionRepository(pool)))
			logger.Info("prediction audit store enabled", "database", pgpkg.Redact(cfg.DatabaseURL))
		}
	}

	var (
		recorder   port.PredictionRecorder = audit.Nop{}
		dispatcher *audit.Dispatcher
	)
	if !cfg.AuditEnabled() {
		logger.Info("prediction audit trail disabled, set KAFKA_BROKERS or DATABASE_URL to enable")
	}
	if len(sinks) > 0 {
		dispatcher = audit.NewDispatcher(sinks, cfg.AuditBuffer, logger)
		recorder = dispatcher
	}

	auditDropped := func() int64 {
		if dispatcher == nil {
			return 0
		}
		return dispatcher.Dropped()
	}
	metrics, err := telemetry.NewMetrics(otel.Meter(telemetry.MeterName), telemetry.Probes{
		ModelLoaded:  predictor.Ready,
		AuditDropped: auditDropped,
	})
	if err != nil {
		return fmt.Errorf("registering metrics: %w", err)
	}

	validator, err := schema.NewValidator()
	if err != nil {
		return fmt.Errorf("compiling transaction schema: %w", err)
	}

	handler := rest.NewHandler(rest.HandlerConfig{
		Predict:    usecase.NewPredictTransaction(predictor, validator, recorder, metrics),
		Validate:   usecase.NewValidatePayload(),
		ListModels: usecase.NewListModels(registry),
		Health:     usecase.NewGetHealth(predictor),
		Logger:     logger,
		Schema:     schema.Transaction(),
		Version:    version,
	})

	httpServer := &http.Server{
		Addr: cfg.HTTPAddress(),
		Handler: rest.NewRouter(rest.RouterConfig{
			Handler:        handler,
			Metrics:        metricsHandler,
			Logger:         logger,
			ServiceName:    serviceName,
			AllowedOrigins: cfg.AllowedOrigins,
			RateLimit:      cfg.RateLimit,
		}),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	if cfg.TLSEnabled() {
		httpServer.TLSConfig, err = tlsutil.ServerConfig(cfg.TLSCertFile, cfg.TLSKeyFile)
		if err != nil {
			return err
		}
	}

	grpcServer, err := grpcpresentation.NewServer(grpcpresentation.ServerConfig{
		Address:     cfg.GRPCAddress(),
		TLSCertFile: cfg.TLSCertFile,
		TLSKeyFile:  cfg.TLSKeyFile,
		Reflection:  cfg.GRPCReflection,
		Ready:       predictor.Ready,
	}, logger)
	if err != nil {
		return err
	}

	errCh := make(chan error, 2)

	go func() {
		if err := grpcServer.Start(); err != nil {
			errCh <- fmt.Errorf("gRPC server error: %w", err)
		}
	}()

	go func() {
		logger.Info("HTTP server starting", "address", cfg.HTTPAddress(), "tls", cfg.TLSEnabled())
		if err := serveHTTP(httpServer); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	logger.Info("fraud-detection started",
		"grpc_address", cfg.GRPCAddress(),
		"http_address", cfg.HTTPAddress(),
		"environment", cfg.Environment,
		"model_loaded", predictor.Ready(),
	)

	var serveErr error
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case serveErr = <-errCh:
		logger.Error("server error", "error", serveErr)
	}

	logger.Info("shutting down fraud-detection")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", "error", err)
	}
	grpcServer.Stop(shutdownCtx)

	if dispatcher != nil {
		if err := dispatcher.Close(shutdownCtx); err != nil {
			logger.Error("audit trail did not drain", "error", err, "dropped", dispatcher.Dropped())
		}
	}
	if producer != nil {
		if err := producer.Close(); err != nil {
			logger.Error("kafka producer close error", "error", err)
		}
	}
	if pool != nil {
		pool.Close()
	}
	if err := meterProvider.Shutdown(shutdownCtx); err != nil {
		logger.Error("meter provider shutdown error", "error", err)
	}
	if err := shutdownTracer(shutdownCtx); err != nil {
		logger.Error("tracer shutdown error", "error", err)
	}

	logger.Info("fraud-detection stopped")
	return serveErr
}

// serveHTTP uses the certificates already loaded into TLSConfig, if any.
func serveHTTP(srv *http.Server) error {
	if srv.TLSConfig != nil {
		return srv.ListenAndServeTLS("", "")
	}
	return srv.ListenAndServe()
}

// openDatabase connects to the audit store and applies pending migrations.
func openDatabase(ctx context.Context, url string) (*pgxpool.Pool, error) {
	pool, err := pgpkg.NewPool(ctx, pgpkg.Config{
		URL:             url,
		ApplicationName: serviceName,
		MaxConns:        4,
	})
	if err != nil {
		return nil, err
	}
	if err := pgpkg.RunMigrations(url, migrations.FS, postgres.MigrationsDir); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}
