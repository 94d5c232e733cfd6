package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/fitnessbro/platform/internal/config"
	"github.com/fitnessbro/platform/internal/httputil"
	"github.com/fitnessbro/platform/internal/metrics"
	"github.com/fitnessbro/platform/internal/middleware"
	"github.com/fitnessbro/platform/pkg/logger"
)

// NewRouter builds the middleware chain shared by every service: logging,
// metrics, CORS, rate limiting and the token gate. skipPaths name the
// endpoints the gate lets through; /health and /metrics are always open.
func NewRouter(serviceName string, cfg *config.Config, log *logger.Logger, m *metrics.Metrics, skipPaths []string) *mux.Router {
	if log == nil {
		log = logger.NewDefault(serviceName)
	}
	r := mux.NewRouter()

	r.Use(middleware.LoggingMiddleware(log))
	r.Use(middleware.MetricsMiddleware(serviceName, m))
	r.Use(middleware.NewCORSMiddleware(cfg.CORS.AllowedOrigins).Handler)

	open := append([]string{"/health", "/metrics"}, skipPaths...)
	r.Use(middleware.NewAuthMiddleware(cfg.Auth.Secret, log, open).Handler)

	// After the gate so authenticated traffic is keyed per user; skip-path
	// traffic falls back to the remote address.
	r.Use(middleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst, log).Handler)

	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, map[string]string{
			"status":  "ok",
			"service": serviceName,
		})
	}).Methods(http.MethodGet)
	r.Handle("/metrics", m.Handler()).Methods(http.MethodGet)

	return r
}
