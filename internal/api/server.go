package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	apiHandlers "github.com/jyotish-back/internal/api/handlers"
	"github.com/jyotish-back/internal/arcs"
	"github.com/jyotish-back/internal/cache"
	"github.com/jyotish-back/internal/chart"
	"github.com/jyotish-back/internal/messaging"
	"github.com/jyotish-back/pkg/config"
)

// Server represents the HTTP API server
type Server struct {
	cfg        *config.Config
	logger     *logrus.Logger
	router     *mux.Router
	httpServer *http.Server

	// Dependencies
	calc       *chart.Calculator
	arcTable   *arcs.Table
	redisCache *cache.RedisClient
	natsClient *messaging.NATSClient

	// API handlers
	chartHandler *apiHandlers.ChartHandler

	// Charts computed across the cluster, counted from NATS events
	chartEvents uint64
}

// NewServer creates a new API server
func NewServer(
	cfg *config.Config,
	logger *logrus.Logger,
	calc *chart.Calculator,
	arcTable *arcs.Table,
	redisCache *cache.RedisClient,
	natsClient *messaging.NATSClient,
) *Server {
	s := &Server{
		cfg:        cfg,
		logger:     logger,
		calc:       calc,
		arcTable:   arcTable,
		redisCache: redisCache,
		natsClient: natsClient,
	}

	// Initialize API handlers
	s.chartHandler = apiHandlers.NewChartHandler(calc, redisCache, natsClient, &cfg.Messaging, logger)

	// Count computed charts cluster-wide for the debug endpoint
	if natsClient != nil {
		if err := natsClient.SubscribeChartComputed(func(*messaging.ChartComputedEvent) {
			atomic.AddUint64(&s.chartEvents, 1)
		}); err != nil {
			logger.WithError(err).Warn("Failed to subscribe to chart events")
		}
	}

	// Setup routes
	s.setupRoutes()

	return s
}

// setupRoutes configures all API routes
func (s *Server) setupRoutes() {
	s.router = mux.NewRouter()

	// Apply middleware FIRST, before defining routes
	s.router.Use(s.loggingMiddleware)
	s.router.Use(s.recoveryMiddleware)

	// CORS middleware if enabled - MUST be before route definitions
	if s.cfg.Security.CORSEnabled {
		s.router.Use(s.corsMiddleware)
	}

	// API versioning
	apiV1 := s.router.PathPrefix("/api/v1").Subrouter()

	// Health check
	apiV1.HandleFunc("/health", s.handleHealth).Methods("GET")

	// Chart computation
	s.chartHandler.RegisterRoutes(s.router)

	// Reference data endpoints
	apiV1.HandleFunc("/arcs", s.handleGetArcs).Methods("GET")

	// Debug endpoint
	apiV1.HandleFunc("/debug/status", s.handleDebugStatus).Methods("GET")
}

// Start starts the HTTP server
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Server.Host, s.cfg.Server.Port)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
		IdleTimeout:  s.cfg.Server.IdleTimeout,
	}

	s.logger.WithField("address", addr).Info("Starting HTTP server")

	err := s.httpServer.ListenAndServe()
	if err != nil {
		if strings.Contains(err.Error(), "address already in use") {
			return fmt.Errorf("port %d is already in use. Try: 1) Kill the process using it: lsof -ti:%d | xargs -r kill -9, or 2) Use a different port: --port 8081", s.cfg.Server.Port, s.cfg.Server.Port)
		}
		return err
	}
	return nil
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping HTTP server")
	return s.httpServer.Shutdown(ctx)
}

// Router exposes the configured router, mainly for tests
func (s *Server) Router() http.Handler {
	return s.router
}

// Middleware functions

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Wrap ResponseWriter to capture status code
		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		s.logger.WithFields(logrus.Fields{
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     wrapped.statusCode,
			"duration":   time.Since(start),
			"remote":     r.RemoteAddr,
			"user_agent": r.UserAgent(),
		}).Info("HTTP request")
	})
}

func (s *Server) recoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				s.logger.WithFields(logrus.Fields{
					"error": err,
					"path":  r.URL.Path,
				}).Error("Panic recovered")

				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			}
		}()

		next.ServeHTTP(w, r)
	})
}

func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return handlers.CORS(
		handlers.AllowedOrigins(s.cfg.Security.CORSOrigins),
		handlers.AllowedMethods(s.cfg.Security.CORSMethods),
		handlers.AllowedHeaders(s.cfg.Security.CORSHeaders),
		handlers.AllowCredentials(),
	)(next)
}

// Handler functions

// handleHealth checks the health status of all system components
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	health := map[string]interface{}{
		"status": "healthy",
		"services": map[string]bool{
			"redis": s.redisCache != nil,
			"nats":  s.natsClient != nil && s.natsClient.IsConnected(),
		},
		"arc_count": len(s.arcTable.Arcs()),
		"timestamp": time.Now().Unix(),
	}

	// health polls double as service heartbeats on the system stream
	if s.natsClient != nil && s.natsClient.IsConnected() {
		if err := s.natsClient.PublishHealth(health); err != nil {
			s.logger.WithError(err).Debug("Failed to publish health heartbeat")
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(health)
}

// handleGetArcs returns the constellation arc table the charts are built on
func (s *Server) handleGetArcs(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"epoch": s.arcTable.Epoch(),
		"arcs":  s.arcTable.Arcs(),
		"count": len(s.arcTable.Arcs()),
	})
}

// handleDebugStatus returns debug information about server state
func (s *Server) handleDebugStatus(w http.ResponseWriter, r *http.Request) {
	status := map[string]interface{}{
		"redis_connected": s.redisCache != nil,
		"nats_connected":  s.natsClient != nil,
		"arc_epoch":       s.arcTable.Epoch(),
		"arc_count":       len(s.arcTable.Arcs()),
		"chart_events":    atomic.LoadUint64(&s.chartEvents),
	}

	if s.redisCache != nil {
		if err := s.redisCache.Health(context.Background()); err != nil {
			status["redis_health"] = "unhealthy: " + err.Error()
		} else {
			status["redis_health"] = "healthy"
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(status)
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
