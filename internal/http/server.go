// Package http exposes the reporting pipeline over a JSON API:
// dataset uploads, dataset listing, and the report views.
package http

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"pizzapulse/internal/log"
	"pizzapulse/internal/metrics"
	"pizzapulse/internal/session"
)

// Options tunes per-server limits.
type Options struct {
	MaxUploadBytes  int64
	UploadRateLimit int // uploads per minute per client IP
}

// Server serves the reporting API.
type Server struct {
	http.Server

	sessions       *session.Manager
	metrics        *metrics.Metrics
	limiter        *rateLimiter
	logger         *log.Logger
	maxUploadBytes int64

	shutdownOnce sync.Once
}

// NewServer wires the routes and middleware for the reporting API.
func NewServer(addr string, sessions *session.Manager, m *metrics.Metrics, logger *log.Logger, opts Options) *Server {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = 32 << 20
	}
	if opts.UploadRateLimit <= 0 {
		opts.UploadRateLimit = 30
	}

	s := &Server{
		sessions:       sessions,
		metrics:        m,
		limiter:        newRateLimiter(opts.UploadRateLimit),
		logger:         logger.WithComponent(log.ComponentHTTP),
		maxUploadBytes: opts.MaxUploadBytes,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/datasets", s.handleUpload)
	mux.HandleFunc("GET /api/v1/datasets", s.handleListDatasets)
	mux.HandleFunc("GET /api/v1/datasets/{key}/report", s.handleReport)
	mux.HandleFunc("GET /api/v1/datasets/{key}/report/{view}", s.handleReportView)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	if m != nil {
		mux.Handle("GET /metrics", m.Handler())
	}

	s.Addr = addr
	s.Handler = log.Middleware(logger)(log.RequestIDMiddleware(requestID)(mux))
	s.ReadTimeout = 30 * time.Second
	s.WriteTimeout = 30 * time.Second
	s.IdleTimeout = 60 * time.Second
	s.MaxHeaderBytes = 1 << 16

	return s
}

// Close releases server-owned background resources.
func (s *Server) Close() error {
	s.shutdownOnce.Do(func() {
		s.limiter.stop()
	})
	return s.Server.Close()
}

// requestID honors an upstream X-Request-ID, minting one otherwise.
func requestID(r *http.Request) string {
	if id := r.Header.Get("X-Request-ID"); id != "" {
		return id
	}
	return uuid.NewString()
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
