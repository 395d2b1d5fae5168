// Package server bootstraps the HTTP API: gin engine, validation, OpenAPI document,
// CORS, the global error handler and the listener lifecycle.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"strconv"
	"sync"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/maxviazov/poster-api/internal/config"
	"github.com/maxviazov/poster-api/internal/openapi"
	"github.com/maxviazov/poster-api/internal/request"
	"github.com/rs/zerolog"
)

const DefaultHost = "0.0.0.0"

// Server is a configured gin engine plus the listener it is served on.
type Server struct {
	cfg  config.ServerConfig
	log  zerolog.Logger
	exit func(code int)

	engine *gin.Engine
	docs   *openapi.Generator
	http   *http.Server

	mu       sync.Mutex
	listener net.Listener
}

// Option customizes Setup.
type Option func(*Server)

// WithExitFunc replaces os.Exit, which Start calls when the port cannot be bound.
func WithExitFunc(exit func(code int)) Option {
	return func(s *Server) { s.exit = exit }
}

// Setup builds a server that is configured but not listening yet.
func Setup(cfg *config.Config, log zerolog.Logger, opts ...Option) (*Server, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}
	v := validator.New()
	if err := v.Struct(cfg.App); err != nil {
		return nil, fmt.Errorf("invalid app config: %w", err)
	}
	if err := v.Struct(cfg.Server); err != nil {
		return nil, fmt.Errorf("invalid server config: %w", err)
	}

	if gin.Mode() != gin.TestMode {
		if cfg.Server.Debug {
			gin.SetMode(gin.DebugMode)
		} else {
			gin.SetMode(gin.ReleaseMode)
		}
	}
	request.RegisterValidator()

	s := &Server{
		cfg:  cfg.Server,
		log:  log.With().Str("svc", "http").Logger(),
		exit: os.Exit,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.cfg.Host == "" {
		s.cfg.Host = DefaultHost
	}

	info := openapi.Info{
		Title:       cfg.App.Title,
		Description: cfg.App.Description,
		Version:     cfg.App.Version,
		BasePath:    cfg.Server.BasePath,
	}
	if cfg.Server.PublicURL != "" {
		info.Servers = []openapi.Server{{URL: cfg.Server.PublicURL}}
	}
	s.docs = openapi.New(info)
	s.docs.Register()

	s.engine = gin.New()
	s.engine.HandleMethodNotAllowed = true
	s.engine.Use(
		requestID(),
		requestLogger(s.log),
		errorHandler(s.log, cfg.Server.Debug),
		recovery(),
		cors.New(corsConfig()),
	)
	s.engine.NoRoute(notFound)
	s.engine.NoMethod(methodNotAllowed)

	s.http = &http.Server{
		Handler:      s.engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	return s, nil
}

// corsConfig allows any origin.
func corsConfig() cors.Config {
	c := cors.DefaultConfig()
	c.AllowAllOrigins = true
	c.AddAllowHeaders("Authorization", RequestIDHeader)
	c.AddExposeHeaders(RequestIDHeader)
	return c
}

// Engine exposes the gin engine, mostly for tests and embedding.
func (s *Server) Engine() *gin.Engine { return s.engine }

// Docs is the OpenAPI generator routes are documented in.
func (s *Server) Docs() *openapi.Generator { return s.docs }

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.engine.ServeHTTP(w, r)
}

// Start binds host:port and serves in the background. A bind failure is logged
// and terminates the process with exit code 1.
func (s *Server) Start() {
	addr := net.JoinHostPort(s.cfg.Host, strconv.Itoa(s.cfg.Port))
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		s.log.Error().Err(err).Str("addr", addr).Msg("failed to bind")
		s.exit(1)
		return
	}

	s.mu.Lock()
	s.listener = ln
	s.mu.Unlock()

	s.log.Info().
		Str("addr", ln.Addr().String()).
		Str("base_path", s.cfg.BasePath).
		Msg("server listening")

	go func() {
		if err := s.http.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error().Err(err).Msg("server stopped")
		}
	}()
}

// Addr is the bound address, or "" before Start.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Shutdown stops accepting connections and waits for in-flight requests until ctx ends.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	started := s.listener != nil
	s.mu.Unlock()
	if !started {
		return nil
	}
	if err := s.http.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	s.log.Info().Msg("server stopped")
	return nil
}
