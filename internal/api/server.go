package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/ramonehamilton/otherworld-codex/internal/api/handlers"
	"github.com/ramonehamilton/otherworld-codex/internal/charts"
	"github.com/ramonehamilton/otherworld-codex/internal/metrics"
)

// Server is the REST API server.
type Server struct {
	router     *chi.Mux
	httpServer *http.Server
	port       int

	cacheMaxAge    time.Duration
	allowedOrigins []string
	requestTimeout time.Duration

	catalogs handlers.CatalogSource
	searcher handlers.Searcher
	charts   charts.ChartConfig
	metrics  *metrics.ServerMetrics
	logger   *zap.Logger
}

// Config holds configuration for the API server.
type Config struct {
	Port int
	// CacheMaxAge is sent as Cache-Control max-age on GET responses.
	CacheMaxAge    time.Duration
	AllowedOrigins []string
	RequestTimeout time.Duration
}

// DefaultConfig returns the default API server configuration.
func DefaultConfig() *Config {
	return &Config{
		Port:           8080,
		CacheMaxAge:    24 * time.Hour,
		AllowedOrigins: []string{"http://localhost:*", "http://127.0.0.1:*", "https://localhost:*"},
		RequestTimeout: 60 * time.Second,
	}
}

// Deps are the services the server reads from.
type Deps struct {
	Catalogs handlers.CatalogSource
	Searcher handlers.Searcher
	Metrics  *metrics.ServerMetrics
	Logger   *zap.Logger
}

// NewServer creates a new API server.
func NewServer(cfg *Config, deps Deps) *Server {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Metrics == nil {
		deps.Metrics = metrics.NewServerMetrics()
	}

	s := &Server{
		router:         chi.NewRouter(),
		port:           cfg.Port,
		cacheMaxAge:    cfg.CacheMaxAge,
		allowedOrigins: cfg.AllowedOrigins,
		requestTimeout: cfg.RequestTimeout,
		catalogs:       deps.Catalogs,
		searcher:       deps.Searcher,
		charts:         charts.DefaultChartConfig(),
		metrics:        deps.Metrics,
		logger:         deps.Logger,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// setupMiddleware configures the middleware stack.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.requestLogger)
	s.router.Use(middleware.Recoverer)
	if s.requestTimeout > 0 {
		s.router.Use(middleware.Timeout(s.requestTimeout))
	}

	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	s.router.Use(s.jsonContentTypeMiddleware)
	s.router.Use(s.cacheControlMiddleware)
}

// requestLogger logs every request with zap and feeds the server metrics.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		took := time.Since(start)
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		s.metrics.RecordRequest(took, status)
		switch {
		case strings.HasPrefix(r.URL.Path, "/api/v1/browse/"):
			s.metrics.BrowseLatency.Record(took)
		case r.URL.Path == "/api/v1/search":
			s.metrics.SearchLatency.Record(took)
		}

		s.logger.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", status),
			zap.Int("bytes", ww.BytesWritten()),
			zap.Duration("took", took),
			zap.String("request_id", middleware.GetReqID(r.Context())))
	})
}

// jsonContentTypeMiddleware enforces application/json content-type for requests with bodies.
func (s *Server) jsonContentTypeMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost && r.ContentLength != 0 {
			contentType := r.Header.Get("Content-Type")
			if contentType != "application/json" && !strings.HasPrefix(contentType, "application/json;") {
				http.Error(w, "Content-Type must be application/json", http.StatusUnsupportedMediaType)
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

// cacheControlMiddleware marks API GET responses as publicly cacheable.
func (s *Server) cacheControlMiddleware(next http.Handler) http.Handler {
	value := fmt.Sprintf("public, max-age=%d", int(s.cacheMaxAge.Seconds()))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet && s.cacheMaxAge > 0 && strings.HasPrefix(r.URL.Path, "/api/") {
			w.Header().Set("Cache-Control", value)
		}
		next.ServeHTTP(w, r)
	})
}

// Handler returns the router, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start listens on the configured port and serves in a goroutine. Listen
// errors are returned; later serve errors are logged.
func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", s.port),
		Handler:           s.router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on port %d: %w", s.port, err)
	}

	go func() {
		s.logger.Info("API server starting", zap.Int("port", s.port))
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("API server error", zap.Error(err))
		}
	}()

	return nil
}

// Shutdown gracefully shuts down the API server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}

	s.logger.Info("shutting down API server")
	return s.httpServer.Shutdown(ctx)
}

// Port returns the port the server is configured to listen on.
func (s *Server) Port() int {
	return s.port
}
