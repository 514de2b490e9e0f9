package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"demoforge/internal/constants"
	"demoforge/internal/db"
	"demoforge/internal/logger"
	"demoforge/internal/mesh"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// Config holds the server configuration
type Config struct {
	Host            string        `toml:"host"`
	Port            int           `toml:"port"`
	ReadTimeout     time.Duration `toml:"read_timeout"`
	WriteTimeout    time.Duration `toml:"write_timeout"`
	ShutdownTimeout time.Duration `toml:"shutdown_timeout"`

	// CORS settings
	AllowOrigins []string `toml:"allow_origins"`
	AllowHeaders []string `toml:"allow_headers"`

	// Logging
	LogLevel  string `toml:"log_level"`
	LogFormat string `toml:"log_format"`
}

// DefaultConfig returns the default server configuration
func DefaultConfig() *Config {
	return &Config{
		Host:            "localhost", // Dashboard is local-only
		Port:            constants.DefaultServerPort,
		ReadTimeout:     constants.DefaultServerReadTimeout,
		WriteTimeout:    constants.DefaultServerWriteTimeout,
		ShutdownTimeout: constants.DefaultServerShutdownTimeout,
		AllowOrigins:    []string{"*"},
		AllowHeaders:    []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		LogLevel:        "info",
		LogFormat:       "json",
	}
}

// ProjectStore is the slice of state management the server needs
type ProjectStore interface {
	GetProject(ctx context.Context, name string) (*db.Project, error)
	ListProjects(ctx context.Context) ([]db.Project, error)
	SetCurrentProject(ctx context.Context, projectID string) error
}

// DemoCommands drives lifecycle operations on the current project
type DemoCommands interface {
	StartDemo(ctx context.Context) error
	StopDemo(ctx context.Context) error
	DeleteProject(ctx context.Context) error
}

// MeshChecker reports deployment status for a project's API mesh
type MeshChecker interface {
	CheckMeshStatus(ctx context.Context, workspace string) (*mesh.CheckResult, error)
}

// Server represents the dashboard HTTP server
type Server struct {
	config    *Config
	echo      *echo.Echo
	state     ProjectStore
	commands  DemoCommands
	mesh      MeshChecker
	hub       *Hub
	startTime time.Time
}

// New creates a new server instance with minimal configuration
func New(cfg *Config) *Server {
	return NewWithDependencies(cfg, nil, nil, nil)
}

// NewWithDependencies creates a new server instance with all dependencies
func NewWithDependencies(cfg *Config, state ProjectStore, commands DemoCommands, meshChecker MeshChecker) *Server {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	if cfg.LogLevel != "" {
		logger.SetLevel(cfg.LogLevel)
	}
	if cfg.LogFormat != "" {
		logger.SetFormat(cfg.LogFormat)
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = ErrorHandler

	return &Server{
		config:    cfg,
		echo:      e,
		state:     state,
		commands:  commands,
		mesh:      meshChecker,
		hub:       NewHub(),
		startTime: time.Now(),
	}
}

// Echo returns the Echo instance
func (s *Server) Echo() *echo.Echo {
	return s.echo
}

// Hub returns the websocket progress hub, for publishing events from
// outside the request path.
func (s *Server) Hub() *Hub {
	return s.hub
}

// SetDependencies sets the server dependencies
func (s *Server) SetDependencies(state ProjectStore, commands DemoCommands, meshChecker MeshChecker) {
	s.state = state
	s.commands = commands
	s.mesh = meshChecker
}

// Handler returns the HTTP handler
func (s *Server) Handler() http.Handler {
	s.setupMiddleware()
	s.setupRoutes()
	return s.echo
}

// Start starts the server and blocks until shutdown
func (s *Server) Start(ctx ...context.Context) error {
	var shutdownCtx context.Context
	if len(ctx) > 0 {
		shutdownCtx = ctx[0]
	} else {
		shutdownCtx = context.Background()
	}

	s.setupMiddleware()
	s.setupRoutes()

	go s.hub.Run(shutdownCtx)

	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	logger.WithField("addr", addr).Info("Starting dashboard server")

	srv := &http.Server{
		Addr:         addr,
		Handler:      s.echo,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	errChan := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("failed to start server: %w", err)
		}
	}()

	// Wait for interrupt signal, context cancellation, or error
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return err
	case <-quit:
		logger.Info("Shutting down server...")
	case <-shutdownCtx.Done():
		logger.Info("Context cancelled, shutting down server...")
	}

	shutdownTimeout, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownTimeout); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	logger.Info("Server stopped gracefully")
	return nil
}

// setupMiddleware configures all middleware
func (s *Server) setupMiddleware() {
	s.echo.Use(logger.RequestLogger())
	s.echo.Use(middleware.Recover())
	s.echo.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: s.config.AllowOrigins,
		AllowHeaders: s.config.AllowHeaders,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
	}))
	s.echo.Use(requestIDMiddleware())
}
