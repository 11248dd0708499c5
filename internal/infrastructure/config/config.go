package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/bibbank/fraud-detection/internal/domain/valueobject"
)

// Default CORS origins. ALLOWED_ORIGINS adds to these.
var defaultAllowedOrigins = []string{"http://localhost:3000", "http://localhost:3001"}

// Default local model locations, tried in order.
var defaultLocalModelPaths = []string{
	"models/model.json",
	"artifacts/model/model.json",
	"mlruns/models/model.json",
}

// Config holds all configuration for the fraud detection service.
type Config struct {
	ModelSource valueobject.ModelSource
	RiskScheme  valueobject.RiskScheme
	ScoreOutput valueobject.ScoreOutput

	HTTPPort    string
	GRPCPort    string
	Environment string
	LogLevel    string
	LogFormat   string

	ModelName         string
	ModelStage        string
	MLflowTrackingURI string

	HFModelRepo string
	HFRevision  string
	HFEndpoint  string
	HFToken     string
	HFCacheDir  string

	OTLPEndpoint    string
	PredictionTopic string
	KafkaCompress   string
	DatabaseURL     string
	TLSCertFile     string
	TLSKeyFile      string

	LocalModelPaths []string
	AllowedOrigins  []string
	KafkaBrokers    []string

	RegistryTimeout  time.Duration
	RegistryMaxRetry int
	RateLimit        int
	AuditBuffer      int
	GRPCReflection   bool
	KafkaAutoCreate  bool
}

// Load reads configuration from environment variables with sensible defaults.
// A dotenv file (ENV_FILE, default ".env") is applied first when present;
// variables already set in the environment win.
func Load() (*Config, error) {
	envFile := getEnv("ENV_FILE", ".env")
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading %s: %w", envFile, err)
	}

	source, err := valueobject.ModelSourceFromString(getEnv("MODEL_SOURCE", "registry"))
	if err != nil {
		return nil, err
	}
	scheme, err := valueobject.RiskSchemeFromString(getEnv("RISK_SCHEME", ""))
	if err != nil {
		return nil, err
	}
	output, err := valueobject.ScoreOutputFromString(getEnv("SCORE_OUTPUT", ""))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		ModelSource:       source,
		RiskScheme:        scheme,
		ScoreOutput:       output,
		HTTPPort:          getEnv("HTTP_PORT", "8000"),
		GRPCPort:          getEnv("GRPC_PORT", "9090"),
		Environment:       getEnv("ENVIRONMENT", "development"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		LogFormat:         getEnv("LOG_FORMAT", "json"),
		ModelName:         getEnv("MODEL_NAME", "fraud-detector"),
		ModelStage:        getEnv("MODEL_STAGE", "Production"),
		MLflowTrackingURI: getEnv("MLFLOW_TRACKING_URI", ""),
		RegistryTimeout:   getEnvDuration("REGISTRY_TIMEOUT", 10*time.Second),
		RegistryMaxRetry:  getEnvInt("REGISTRY_MAX_RETRY", 3),
		HFModelRepo:       getEnv("HF_MODEL_REPO", ""),
		HFRevision:        getEnv("HF_REVISION", "main"),
		HFEndpoint:        getEnv("HF_ENDPOINT", "https://huggingface.co"),
		HFToken:           getEnv("HF_TOKEN", ""),
		HFCacheDir:        getEnv("HF_CACHE_DIR", "./hf_cache"),
		LocalModelPaths:   getEnvList("LOCAL_MODEL_PATHS", defaultLocalModelPaths),
		AllowedOrigins:    mergeOrigins(defaultAllowedOrigins, getEnvList("ALLOWED_ORIGINS", nil)),
		RateLimit:         getEnvInt("RATE_LIMIT", 0),
		OTLPEndpoint:      getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		KafkaBrokers:      getEnvList("KAFKA_BROKERS", nil),
		PredictionTopic:   getEnv("PREDICTION_TOPIC", "fraud.predictions"),
		KafkaCompress:     getEnv("KAFKA_COMPRESSION", "snappy"),
		KafkaAutoCreate:   getEnvBool("KAFKA_AUTO_CREATE_TOPICS", true),
		DatabaseURL:       getEnv("DATABASE_URL", ""),
		AuditBuffer:       getEnvInt("AUDIT_BUFFER", 256),
		GRPCReflection:    getEnvBool("GRPC_REFLECTION", false),
		TLSCertFile:       getEnv("TLS_CERT_FILE", ""),
		TLSKeyFile:        getEnv("TLS_KEY_FILE", ""),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the invariants Load cannot express through defaults.
func (c *Config) Validate() error {
	var errs []error
	if c.HTTPPort == "" {
		errs = append(errs, errors.New("HTTP_PORT must not be empty"))
	}
	if c.ModelName == "" {
		errs = append(errs, errors.New("MODEL_NAME must not be empty"))
	}
	if c.RegistryMaxRetry < 0 {
		errs = append(errs, fmt.Errorf("REGISTRY_MAX_RETRY must be >= 0, got %d", c.RegistryMaxRetry))
	}
	if c.RateLimit < 0 {
		errs = append(errs, fmt.Errorf("RATE_LIMIT must be >= 0, got %d", c.RateLimit))
	}
	if c.AuditBuffer <= 0 {
		errs = append(errs, fmt.Errorf("AUDIT_BUFFER must be > 0, got %d", c.AuditBuffer))
	}
	if (c.TLSCertFile == "") != (c.TLSKeyFile == "") {
		errs = append(errs, errors.New("TLS_CERT_FILE and TLS_KEY_FILE must be set together"))
	}
	return errors.Join(errs...)
}

// RegistryConfigured reports whether a remote model registry can be reached.
// Local "file:" tracking stores have no REST API.
func (c *Config) RegistryConfigured() bool {
	return c.MLflowTrackingURI != "" && !strings.HasPrefix(c.MLflowTrackingURI, "file:")
}

// HubConfigured reports whether a hub repository is set.
func (c *Config) HubConfigured() bool {
	return c.HFModelRepo != ""
}

// AuditEnabled reports whether any audit sink is configured.
func (c *Config) AuditEnabled() bool {
	return len(c.KafkaBrokers) > 0 || c.DatabaseURL != ""
}

// TLSEnabled reports whether the HTTP and gRPC listeners serve TLS.
func (c *Config) TLSEnabled() bool {
	return c.TLSCertFile != "" && c.TLSKeyFile != ""
}

// GRPCAddress returns the full gRPC listen address.
func (c *Config) GRPCAddress() string {
	return fmt.Sprintf(":%s", c.GRPCPort)
}

// HTTPAddress returns the full HTTP listen address.
func (c *Config) HTTPAddress() string {
	return fmt.Sprintf(":%s", c.HTTPPort)
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if i, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if b, err := strconv.ParseBool(strings.TrimSpace(value)); err == nil {
			return b
		}
	}
	return defaultValue
}

// getEnvDuration accepts Go durations ("5s") or a bare number of seconds.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	value = strings.TrimSpace(value)
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if secs, err := strconv.ParseFloat(value, 64); err == nil {
		return time.Duration(secs * float64(time.Second))
	}
	return defaultValue
}

// getEnvList splits a comma-separated variable, trimming blanks.
func getEnvList(key string, defaultValue []string) []string {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}

func mergeOrigins(base, extra []string) []string {
	out := make([]string, 0, len(base)+len(extra))
	seen := make(map[string]bool, len(base)+len(extra))
	for _, o := range append(append([]string{}, base...), extra...) {
		if !seen[o] {
			seen[o] = true
			out = append(out, o)
		}
	}
	return out
}
