package router

import (
	"log/slog"
	"net/http"
	"time"

	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	bootstrap "github.com/tbeaudouin05/localized-pricing/api/bootstrap"
	pricingapp "github.com/tbeaudouin05/localized-pricing/api/services/pricing/app"
	grpcserver "github.com/tbeaudouin05/localized-pricing/api/services/pricing/grpc"
)

const (
	PathHealth  = "/healthz"
	PathMetrics = "/metrics"
)

// NewRouter returns the central HTTP router for the API using grpc-gateway,
// wired to the bootstrapped pricing service.
func NewRouter() http.Handler {
	// Non-fatal here; /healthz reports the failure.
	if err := bootstrap.Ensure(); err != nil {
		slog.Error("bootstrap ensure failed", "err", err)
	}
	return New(bootstrap.GetPricingService(), slog.Default())
}

// New builds the router around svc. With a nil svc only /healthz (503) and
// /metrics are served.
func New(svc pricingapp.Service, logger *slog.Logger) http.Handler {
	mux := runtime.NewServeMux()
	if svc != nil {
		if err := grpcserver.RegisterGateway(mux, grpcserver.New(svc)); err != nil {
			logger.Error("failed to register grpc-gateway routes", "err", err)
		}
	}
	_ = mux.HandlePath(http.MethodGet, PathHealth, func(w http.ResponseWriter, r *http.Request, _ map[string]string) {
		w.Header().Set("Content-Type", "application/json")
		if svc == nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"status":"unavailable"}`))
			return
		}
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	metrics := promhttp.Handler()
	_ = mux.HandlePath(http.MethodGet, PathMetrics, func(w http.ResponseWriter, r *http.Request, _ map[string]string) {
		metrics.ServeHTTP(w, r)
	})

	var h http.Handler = mux
	h = requestLogger(logger)(h)
	h = chiMiddleware.Recoverer(h)
	h = chiMiddleware.RequestID(h)
	return h
}

// requestLogger logs each HTTP request with its status and latency.
func requestLogger(logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			logger.LogAttrs(r.Context(), slog.LevelInfo, "http request",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status_code", ww.Status()),
				slog.Int64("duration_ms", time.Since(start).Milliseconds()),
				slog.String("request_id", chiMiddleware.GetReqID(r.Context())),
			)
		})
	}
}
