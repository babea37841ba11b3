// Package server assembles the chi router, middleware stack and HTTP server.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/osse101/CaseBot_Go/internal/admin"
	"github.com/osse101/CaseBot_Go/internal/economy"
	"github.com/osse101/CaseBot_Go/internal/handler"
	"github.com/osse101/CaseBot_Go/internal/logger"
	"github.com/osse101/CaseBot_Go/internal/metrics"
	"github.com/osse101/CaseBot_Go/internal/middleware"
	"github.com/osse101/CaseBot_Go/internal/user"
)

// Options configure the HTTP surface
type Options struct {
	Port           int
	APIKey         string
	TrustedProxies []string
	CORSOrigins    []string
	MaxBodyBytes   int64
}

// Dependencies are the services the routes call into
type Dependencies struct {
	Store       handler.Pinger
	Economy     economy.Service
	Users       user.Service
	Admin       admin.Service
	Idempotency *middleware.Idempotency
}

// Server wraps the http.Server
type Server struct {
	httpServer *http.Server
}

// NewServer creates a new Server instance
func NewServer(opts Options, deps Dependencies) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf(":%d", opts.Port),
			Handler:           NewRouter(opts, deps),
			ReadHeaderTimeout: ReadHeaderTimeout,
			ReadTimeout:       ReadTimeout,
			WriteTimeout:      WriteTimeout,
			IdleTimeout:       IdleTimeout,
		},
	}
}

// NewRouter builds the route tree. Exposed so tests can drive it with httptest.
func NewRouter(opts Options, deps Dependencies) http.Handler {
	r := chi.NewRouter()
	detector := NewSuspiciousActivityDetector()

	// outermost first
	r.Use(chimiddleware.Recoverer)
	r.Use(loggingMiddleware)
	r.Use(metrics.Middleware)
	r.Use(SecurityHeadersMiddleware())
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", HeaderAPIKey, "Idempotency-Key", HeaderRequestID},
		ExposedHeaders: []string{HeaderRequestID, "Idempotent-Replayed"},
		MaxAge:         CORSMaxAge,
	}))
	r.Use(RateLimitMiddleware(opts.TrustedProxies, detector))
	r.Use(AuthMiddleware(opts.APIKey, opts.TrustedProxies, detector))
	if opts.MaxBodyBytes > 0 {
		r.Use(RequestSizeLimitMiddleware(opts.MaxBodyBytes))
	}

	r.Get("/healthz", handler.HandleHealthz())
	r.Get("/readyz", handler.HandleReadyz(deps.Store))
	r.Get("/version", handler.HandleVersion())
	r.Handle("/metrics", promhttp.Handler())

	idempotent := func(h http.Handler) http.Handler { return h }
	if deps.Idempotency != nil {
		idempotent = deps.Idempotency.Handler
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/users", func(r chi.Router) {
			r.Post("/register", handler.HandleRegisterUser(deps.Users))
			r.Get("/{userID}", handler.HandleGetUser(deps.Economy))
			r.Get("/{userID}/inventory", handler.HandleGetInventory(deps.Economy))
			r.Get("/{userID}/transactions", handler.HandleGetTransactions(deps.Economy))
		})

		r.Get("/cases", handler.HandleGetCases(deps.Economy))
		r.With(idempotent).Post("/cases/{caseID}/open", handler.HandleOpenCase(deps.Economy))
		r.With(idempotent).Post("/items/{itemID}/sell", handler.HandleSellItem(deps.Economy))

		adminHandler := handler.NewAdminHandler(deps.Admin, deps.Users)
		r.Route("/admin", func(r chi.Router) {
			r.Post("/dialog", adminHandler.HandleDialog)
			r.With(idempotent).Post("/balance", adminHandler.HandleAdjustBalance)
			r.Post("/reset", adminHandler.HandleReset)
			r.Get("/stats", adminHandler.HandleStats)
		})
	})

	return r
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
}

func (rw *responseWriter) WriteHeader(statusCode int) {
	if !rw.written {
		rw.statusCode = statusCode
		rw.written = true
		rw.ResponseWriter.WriteHeader(statusCode)
	}
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.written {
		rw.WriteHeader(http.StatusOK)
	}
	return rw.ResponseWriter.Write(b)
}

// loggingMiddleware attaches a request id and logs start and completion.
// Probe and scrape endpoints are not logged.
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/healthz") ||
			strings.HasPrefix(r.URL.Path, "/readyz") ||
			strings.HasPrefix(r.URL.Path, "/metrics") {
			next.ServeHTTP(w, r)
			return
		}

		start := time.Now()
		requestID := r.Header.Get(HeaderRequestID)
		if requestID == "" || len(requestID) > 64 {
			requestID = logger.GenerateRequestID()
		}
		ctx := logger.WithRequestID(r.Context(), requestID)
		r = r.WithContext(ctx)
		w.Header().Set(HeaderRequestID, requestID)

		log := logger.FromContext(ctx)
		log.Info(LogMsgRequestStarted,
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"content_length", r.ContentLength)
		log.Debug(LogMsgRequestHeaders, "headers", sanitizeHeaders(r.Header))

		rw := newResponseWriter(w)
		next.ServeHTTP(rw, r)

		duration := time.Since(start)
		log.Info(LogMsgRequestCompleted,
			"method", r.Method,
			"path", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", duration.Milliseconds())
	})
}

func sanitizeHeaders(h http.Header) http.Header {
	out := make(http.Header, len(h))
	for k, v := range h {
		if strings.EqualFold(k, HeaderAPIKey) || strings.EqualFold(k, HeaderAuthorization) {
			out[k] = []string{RedactedValue}
			continue
		}
		out[k] = v
	}
	return out
}

// Start serves until Stop is called
func (s *Server) Start() error {
	slog.Default().Info(LogMsgServerStarting, "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Stop stops the server gracefully
func (s *Server) Stop(ctx context.Context) error {
	slog.Default().Info(LogMsgServerStopping)
	return s.httpServer.Shutdown(ctx)
}
