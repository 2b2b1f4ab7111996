// Package server sets up the HTTP server, router, and all route definitions.
//
// SERVER ARCHITECTURE:
// This package is the "wiring" layer — it connects handlers, middleware, and routes.
// Think of it as the control centre that decides:
// - Which URL patterns map to which handler functions
// - What middleware runs on which routes
// - How the server starts and stops gracefully
//
// WHY SEPARATE FROM main.go?
// Keeping server setup in its own package makes it:
// - Testable (we can create a test server without running main)
// - Reusable (multiple entry points could use the same server config)
// - Clean (main.go stays minimal — just "start the server")
//
// DEPENDENCY INJECTION FLOW:
// main.go loads config → passed to Server
// Server.New() creates: sqlite.DB → services → handlers → routes
//
// This is the "composition root" pattern — all dependencies are wired
// in one place (New/setupRoutes), rather than scattered across the codebase.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/sakif/resource-hub/internal/auth"
	"github.com/sakif/resource-hub/internal/config"
	"github.com/sakif/resource-hub/internal/handler"
	"github.com/sakif/resource-hub/internal/middleware"
	sqliteRepo "github.com/sakif/resource-hub/internal/repository/sqlite"
	"github.com/sakif/resource-hub/internal/service"
)

// Server represents the HTTP server and all its dependencies.
//
// RESOURCE MANAGEMENT:
// The Server owns the database connection (db). When the server shuts
// down, we must close it to flush any pending writes and release the
// file lock. That happens in Start() during graceful shutdown.
type Server struct {
	router *chi.Mux
	config config.Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New creates a new Server with the given config.
//
// DEPENDENCY INJECTION & WIRING:
// This is where the entire dependency chain is assembled:
//  1. Create the database connection (sqlite.New)
//  2. Create the services with their repository interfaces
//  3. Create the handlers with their services
//  4. Wire handlers to routes
//
// Each layer only receives what it needs: services get repository
// interfaces (not the concrete sqlite.DB), handlers get services (not
// repositories), and routes get handlers.
//
// IMPORT ALIAS:
// We import repository/sqlite as `sqliteRepo` to avoid confusion with
// the sqlite driver package.
func New(cfg config.Config, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		db:     db,
	}

	s.setupRoutes()

	return s, nil
}

// setupRoutes configures all middleware and route handlers.
//
// ROUTE STRUCTURE:
// POST   /auth/register          → create an account
// POST   /auth/login             → exchange credentials for a token
// GET    /auth/me                → caller's own profile
// DELETE /auth/me                → delete the caller's account
// GET    /auth/github/login      → start the GitHub OAuth flow (if configured)
// GET    /auth/github/callback   → finish the GitHub OAuth flow
// POST   /resources              → create a resource
// GET    /resources              → caller's own resources
// GET    /resources/feed         → public feed (no token needed)
// GET    /resources/{id}         → one resource with comments and likes
// DELETE /resources/{id}         → delete an owned resource
// POST   /comments/{resourceID}  → comment on a resource
// DELETE /comments/{commentID}   → delete an owned comment
// POST   /likes/{resourceID}     → like a resource
// DELETE /likes/{resourceID}     → remove a like
//
// MIDDLEWARE ORDER MATTERS:
// Middleware executes in the order it's added:
//  1. RequestID — assigns a unique ID to each request (for tracing)
//  2. RealIP — extracts the real client IP from proxy headers
//  3. Logger — logs each request with timing info
//  4. Recoverer — catches panics and returns 500 instead of crashing
//  5. WithIdentity — resolves the bearer token to a user, on EVERY route
//
// WithIdentity runs globally and never rejects: it attaches the user to
// the context when the token is good and passes the request through
// anonymous otherwise. Each service then decides whether an identity is
// required. This keeps "who are you" and "may you do this" in exactly
// one place each.
func (s *Server) setupRoutes() {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(middleware.Logger(s.logger))
	s.router.Use(chimiddleware.Recoverer)

	// === SERVICES ===
	passwords := auth.NewPasswordService()
	authService := service.NewAuthService(s.db.Users(), s.db.Tokens(), passwords, s.logger)
	resourceService := service.NewResourceService(s.db.Resources(), s.db.Comments(), s.db.Likes(), s.logger)
	commentService := service.NewCommentService(s.db.Comments(), s.db.Resources(), s.logger)
	likeService := service.NewLikeService(s.db.Likes(), s.db.Resources(), s.logger)

	// The AuthService doubles as the middleware's token resolver
	s.router.Use(auth.WithIdentity(authService))

	// === HANDLERS ===
	var github *auth.GitHubProvider
	if s.config.GitHubEnabled() {
		github = auth.NewGitHubProvider(s.config.GitHubClientID, s.config.GitHubClientSecret, s.config.GitHubCallbackURL)
	}
	authHandler := handler.NewAuthHandler(authService, github, s.logger)
	resourceHandler := handler.NewResourceHandler(resourceService, s.logger)
	commentHandler := handler.NewCommentHandler(commentService, s.logger)
	likeHandler := handler.NewLikeHandler(likeService, s.logger)

	s.router.Route("/auth", func(r chi.Router) {
		r.Post("/register", authHandler.HandleRegister)
		r.Post("/login", authHandler.HandleLogin)
		r.Get("/me", authHandler.HandleMe)
		r.Delete("/me", authHandler.HandleDeleteMe)

		if github != nil {
			r.Get("/github/login", authHandler.HandleGitHubLogin)
			r.Get("/github/callback", authHandler.HandleGitHubCallback)
		} else {
			s.logger.Warn("GitHub OAuth not configured — /auth/github routes disabled")
		}
	})

	s.router.Route("/resources", func(r chi.Router) {
		r.Post("/", resourceHandler.HandleCreate)
		r.Get("/", resourceHandler.HandleListMine)
		// chi matches static segments before wildcards, so /feed never
		// falls into the {id} route
		r.Get("/feed", resourceHandler.HandleFeed)
		r.Get("/{id}", resourceHandler.HandleGet)
		r.Delete("/{id}", resourceHandler.HandleDelete)
	})

	s.router.Route("/comments", func(r chi.Router) {
		r.Post("/{resourceID}", commentHandler.HandleAdd)
		r.Delete("/{commentID}", commentHandler.HandleDelete)
	})

	s.router.Route("/likes", func(r chi.Router) {
		r.Post("/{resourceID}", likeHandler.HandleLike)
		r.Delete("/{resourceID}", likeHandler.HandleUnlike)
	})
}

// Router exposes the configured router, mainly so tests can drive the
// full stack through httptest without opening a real socket.
func (s *Server) Router() http.Handler {
	return s.router
}

// Close releases the database connection. Tests that build a Server
// directly use this; Start handles it for the normal path.
func (s *Server) Close() error {
	return s.db.Close()
}

// Start starts the HTTP server and handles graceful shutdown.
//
// GRACEFUL SHUTDOWN:
//  1. Stop accepting new HTTP connections
//  2. Wait for in-flight requests to finish (30s timeout)
//  3. Close the database connection (flushes WAL, releases the file lock)
//
// The `defer s.db.Close()` ensures step 3 happens even if something panics.
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("url", fmt.Sprintf("http://localhost:%d", s.config.Port)),
			slog.String("database", s.config.DBPath),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		// Give in-flight requests 30 seconds to complete
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
