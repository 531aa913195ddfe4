// Package server provides the HTTP API for the idea board.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/DolphinWorld/demandsolution-codex/internal/config"
	"github.com/DolphinWorld/demandsolution-codex/internal/intake"
	"github.com/DolphinWorld/demandsolution-codex/internal/search"
	"github.com/DolphinWorld/demandsolution-codex/internal/storage"
)

// DirectoryLister reports watched inbox directories for the status endpoint.
type DirectoryLister interface {
	Directories() []string
}

// Server is the HTTP server for the idea API.
type Server struct {
	engine  *search.Engine
	intake  *intake.Service
	storage storage.Storage
	config  *config.ServerConfig
	dbPath  string
	inbox   DirectoryLister
	logger  *zap.Logger
	server  *http.Server
}

// Option configures a Server.
type Option func(*Server)

// WithDatabasePath lets the status endpoint report the database size.
func WithDatabasePath(path string) Option {
	return func(s *Server) { s.dbPath = path }
}

// WithInbox lets the status endpoint report the watched inbox directories.
func WithInbox(inbox DirectoryLister) Option {
	return func(s *Server) { s.inbox = inbox }
}

// NewServer creates a server with the given dependencies.
func NewServer(
	engine *search.Engine,
	svc *intake.Service,
	store storage.Storage,
	cfg *config.ServerConfig,
	logger *zap.Logger,
	opts ...Option,
) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		engine:  engine,
		intake:  svc,
		storage: store,
		config:  cfg,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Router builds the HTTP handler.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(middleware.Compress(5))

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(s.identify)

		r.Post("/ideas", s.handleSubmitIdea)
		r.Get("/ideas", s.handleListIdeas)
		r.Get("/ideas/{id}", s.handleGetIdea)
		r.Post("/ideas/{id}/upvote", s.handleUpvote)
		r.Delete("/ideas/{id}/upvote", s.handleRemoveUpvote)

		r.Get("/search", s.handleSearchGet)
		r.Post("/search", s.handleSearch)
		r.Post("/dedup/check", s.handleDedupCheck)

		r.Get("/status", s.handleStatus)
	})
	r.Get("/health", s.handleHealth)
	return r
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := s.config.Addr()
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.logger.Info("Starting server", zap.String("addr", addr))
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
