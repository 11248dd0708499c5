package rest

import (
	"log/slog"
	"net/http"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// RouterConfig holds the options of the HTTP router.
type RouterConfig struct {
	Handler *Handler
	// Metrics is mounted at GET /metrics when set.
	Metrics        http.Handler
	Logger         *slog.Logger
	ServiceName    string
	AllowedOrigins []string
	RateLimit      int
}

// NewRouter builds the service's HTTP handler with its middleware stack.
func NewRouter(cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()
	cfg.Handler.RegisterRoutes(mux)
	if cfg.Metrics != nil {
		mux.Handle("GET /metrics", cfg.Metrics)
	}

	h := Chain(mux,
		RecoverMiddleware(cfg.Logger),
		LoggingMiddleware(cfg.Logger),
		CORSMiddleware(cfg.AllowedOrigins),
		RateLimitMiddleware(cfg.RateLimit),
	)

	return otelhttp.NewHandler(h, cfg.ServiceName,
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return r.Method + " " + r.URL.Path
		}),
	)
}
