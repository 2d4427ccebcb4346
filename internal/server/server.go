package server

import (
	"context"
	"net/http"
	"strings"
	"time"

	"feasibility_analysis/internal/config"
)

// Server wraps an *http.Server to provide start/shutdown lifecycle.
type Server struct {
	httpServer *http.Server
}

// Fallbacks for zero config values.
const (
	defaultPort         = "8080"
	maxHeaderBytes      = 1 << 20 // 1 MB
	defaultReadTimeout  = 10 * time.Second
	defaultWriteTimeout = 30 * time.Second
	idleTimeout         = 60 * time.Second
)

// newHTTPServer builds a configured *http.Server for the given address and handler.
// The write timeout also bounds synchronous /evaluate calls over a full TMY year.
func newHTTPServer(cfg config.ServerConfig, handler http.Handler) *http.Server {
	read := cfg.ReadTimeout
	if read <= 0 {
		read = defaultReadTimeout
	}
	write := cfg.WriteTimeout
	if write <= 0 {
		write = defaultWriteTimeout
	}
	return &http.Server{
		Addr:              normalizeAddr(cfg.Port),
		Handler:           handler,
		MaxHeaderBytes:    maxHeaderBytes,
		ReadHeaderTimeout: read,
		ReadTimeout:       read,
		WriteTimeout:      write,
		IdleTimeout:       idleTimeout,
	}
}

// normalizeAddr ensures the provided port is a valid address (accepts "8080" or ":8080").
func normalizeAddr(port string) string {
	port = strings.TrimSpace(port)
	if port == "" {
		port = defaultPort
	}
	if strings.HasPrefix(port, ":") {
		return port
	}
	return ":" + port
}

// Run starts the HTTP server and blocks until it stops. http.ErrServerClosed
// is returned after Shutdown.
func (s *Server) Run(cfg config.ServerConfig, handler http.Handler) error {
	s.httpServer = newHTTPServer(cfg, handler)
	return s.httpServer.ListenAndServe()
}

// Addr returns the listen address, or "" before Run.
func (s *Server) Addr() string {
	if s.httpServer == nil {
		return ""
	}
	return s.httpServer.Addr
}

// Shutdown gracefully stops the server, allowing in-flight requests to complete.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}
