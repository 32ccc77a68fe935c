package http

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/fredcamaral/ariel/internal/domain/entities"
	"github.com/fredcamaral/ariel/internal/domain/ports"
)

// HTTPLogger provides structured logging for the HTTP server
type HTTPLogger struct {
	component string
	level     entities.LogLevel
}

// NewHTTPLogger creates a new HTTP logger instance
func NewHTTPLogger(component string, level entities.LogLevel) *HTTPLogger {
	if level == "" {
		level = entities.LogLevelInfo
	}
	return &HTTPLogger{component: component, level: level}
}

// shouldLog checks if the message should be logged based on level
func (l *HTTPLogger) shouldLog(msgLevel entities.LogLevel) bool {
	levelMap := map[entities.LogLevel]int{
		entities.LogLevelDebug: 0,
		entities.LogLevelInfo:  1,
		entities.LogLevelWarn:  2,
		entities.LogLevelError: 3,
	}

	return levelMap[msgLevel] >= levelMap[l.level]
}

// Debug logs debug messages
func (l *HTTPLogger) Debug(msg string, args ...interface{}) {
	if l.shouldLog(entities.LogLevelDebug) {
		log.Printf("[DEBUG] [%s] "+msg, append([]interface{}{l.component}, args...)...)
	}
}

// Info logs informational messages
func (l *HTTPLogger) Info(msg string, args ...interface{}) {
	if l.shouldLog(entities.LogLevelInfo) {
		log.Printf("[INFO] [%s] "+msg, append([]interface{}{l.component}, args...)...)
	}
}

// Warn logs warning messages
func (l *HTTPLogger) Warn(msg string, args ...interface{}) {
	if l.shouldLog(entities.LogLevelWarn) {
		log.Printf("[WARN] [%s] "+msg, append([]interface{}{l.component}, args...)...)
	}
}

// Error logs error messages
func (l *HTTPLogger) Error(msg string, args ...interface{}) {
	if l.shouldLog(entities.LogLevelError) {
		log.Printf("[ERROR] [%s] "+msg, append([]interface{}{l.component}, args...)...)
	}
}

// Server serves the viewer page and the conditional diagram endpoint.
// The watched path is fixed at construction; every diagram request goes
// through the tracker for a fresh read.
type Server struct {
	server      *http.Server
	tracker     ports.SnapshotReader
	watchedPath string
	config      *entities.ServerConfig
	logger      *HTTPLogger
	instanceID  string
	startedAt   time.Time

	mu      sync.RWMutex
	running bool

	// lastSnapshot is diagnostic state only (exposed on /api/status).
	// It is never consulted to answer a diagram request.
	snapMu       sync.RWMutex
	lastSnapshot *entities.FileSnapshot
	lastSeenAt   time.Time
}

// NewServer creates a new HTTP server for the given watched file.
// config must not be nil - use config.GetDefaultConfig().Server if needed
func NewServer(tracker ports.SnapshotReader, watchedPath string, config *entities.ServerConfig, level entities.LogLevel) *Server {
	if config == nil {
		panic("server config cannot be nil - provide a valid ServerConfig")
	}
	if tracker == nil {
		panic("snapshot reader cannot be nil")
	}

	return &Server{
		tracker:     tracker,
		watchedPath: watchedPath,
		config:      config,
		logger:      NewHTTPLogger("server", level),
		instanceID:  uuid.NewString(),
	}
}

// Start starts the HTTP server
func (s *Server) Start(ctx context.Context, port int, host string) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return errors.New("server already running")
	}

	router := s.setupRoutes()

	c := cors.New(cors.Options{
		AllowedOrigins:   s.config.GetCORSOrigins(),
		AllowedMethods:   []string{"GET", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Accept", "If-None-Match"},
		ExposedHeaders:   []string{"ETag", "Last-Modified"},
		AllowCredentials: false,
		MaxAge:           300, // 5 minutes
	})
	handler := c.Handler(router)

	s.server = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", host, port),
		Handler:      handler,
		ReadTimeout:  s.config.GetReadTimeout(),
		WriteTimeout: s.config.GetWriteTimeout(),
		IdleTimeout:  60 * time.Second,
	}
	s.running = true
	s.startedAt = time.Now()
	s.mu.Unlock()

	go func() {
		s.logger.Info("HTTP server starting on %s:%d", host, port)
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error("HTTP server error: %v", err)
		}
	}()

	return nil
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return errors.New("server not running")
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, s.config.GetShutdownTimeout())
	defer cancel()

	if err := s.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	s.running = false
	return nil
}

// IsRunning returns whether the server is currently running
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// RecordSnapshot stores the most recent snapshot for observability.
// Callers must not rely on it for delivery decisions.
func (s *Server) RecordSnapshot(snapshot entities.FileSnapshot) {
	s.snapMu.Lock()
	defer s.snapMu.Unlock()
	s.lastSnapshot = &snapshot
	s.lastSeenAt = time.Now()
}

// lastKnownSnapshot returns the diagnostic snapshot, if any
func (s *Server) lastKnownSnapshot() (*entities.FileSnapshot, time.Time) {
	s.snapMu.RLock()
	defer s.snapMu.RUnlock()
	return s.lastSnapshot, s.lastSeenAt
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() http.Handler {
	router := mux.NewRouter()

	router.HandleFunc("/", s.handleViewer).Methods(http.MethodGet)
	router.HandleFunc("/mermaid", s.handleDiagram).Methods(http.MethodGet)
	router.HandleFunc("/api/status", s.handleStatus).Methods(http.MethodGet)

	// Apply middleware in order: security -> rate limiting -> logging -> recovery
	handler := securityHeadersMiddleware(router)
	handler = rateLimitMiddleware(handler)
	handler = createLoggingMiddleware(handler, s.logger)
	handler = createRecoveryMiddleware(handler, s.logger)

	return handler
}

// Ensure Server satisfies its ports
var (
	_ ports.HTTPServer   = (*Server)(nil)
	_ ports.SnapshotSink = (*Server)(nil)
)
