// Package http exposes the round-up savings engine over a JSON API.
package http

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	applog "roundup/internal/log"
	"roundup/internal/metrics"
	"roundup/internal/tracing"
)

// BasePath prefixes every domain route.
const BasePath = "/blackrock/challenge/v1"

// Server wires the engine's operations to HTTP routes.
type Server struct {
	http.Server

	log          *applog.Logger
	rateLimiter  *rateLimiter
	shutdownOnce sync.Once
}

// Options configures server behavior beyond the listen address.
type Options struct {
	// RequestsPerMinute caps POST requests per client IP. Zero disables
	// rate limiting.
	RequestsPerMinute int
}

// NewServer configures routes and middleware, returning a ready-to-run
// server.
func NewServer(addr string, logger *applog.Logger, opts Options) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		log: logger.WithComponent(applog.ComponentHTTP),
	}
	if opts.RequestsPerMinute > 0 {
		s.rateLimiter = newRateLimiter(opts.RequestsPerMinute)
	}

	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", handleReady)
	mux.Handle("/metrics", promhttp.Handler())

	mux.HandleFunc(BasePath+"/performance", s.withMiddleware("performance", s.handlePerformance))
	mux.HandleFunc(BasePath+"/transactions:parse", s.withMiddleware("transactions:parse", s.handleParse))
	mux.HandleFunc(BasePath+"/transactions:validator", s.withMiddleware("transactions:validator", s.handleValidator))
	mux.HandleFunc(BasePath+"/transactions:filter", s.withMiddleware("transactions:filter", s.handleFilter))
	mux.HandleFunc(BasePath+"/returns:nps", s.withMiddleware("returns:nps", s.handleReturnsNPS))
	mux.HandleFunc(BasePath+"/returns:index", s.withMiddleware("returns:index", s.handleReturnsIndex))

	return s
}

// Shutdown gracefully shuts down the server and its cleanup routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}

// withMiddleware adds per-request tracing, structured logging, rate
// limiting and metrics around a handler.
func (s *Server) withMiddleware(route string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		clientIP := extractClientIP(r)
		requestID := generateRequestID()

		ctx := context.WithValue(r.Context(), requestIDKey, requestID)
		ctx, span := tracing.Tracer.Start(ctx, route)
		defer span.End()
		r = r.WithContext(ctx)

		s.log.InfoContext(ctx, "Request started",
			applog.FieldRequestID, requestID,
			applog.FieldMethod, r.Method,
			applog.FieldPath, r.URL.Path,
			applog.FieldClientIP, clientIP,
			applog.FieldUserAgent, r.Header.Get("User-Agent"))

		if r.Method == http.MethodPost && s.rateLimiter != nil && !s.rateLimiter.allow(clientIP) {
			s.log.WarnContext(ctx, "Rate limit exceeded", applog.FieldClientIP, clientIP, applog.FieldPath, r.URL.Path)
			w.Header().Set("Retry-After", "60")
			writeError(w, http.StatusTooManyRequests, "Rate limit exceeded. Please try again later.")
			metrics.HTTPRequests.WithLabelValues(route, strconv.Itoa(http.StatusTooManyRequests)).Inc()
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		duration := time.Since(start)
		metrics.HTTPRequests.WithLabelValues(route, strconv.Itoa(rw.statusCode)).Inc()
		metrics.HTTPDuration.WithLabelValues(route).Observe(duration.Seconds())

		s.log.InfoContext(ctx, "Request completed",
			applog.FieldRequestID, requestID,
			applog.FieldMethod, r.Method,
			applog.FieldPath, r.URL.Path,
			applog.FieldStatusCode, rw.statusCode,
			applog.FieldDuration, duration.Milliseconds(),
			applog.FieldClientIP, clientIP)
	}
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
