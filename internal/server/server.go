// Package server sets up the HTTP server, router, and all route definitions.
//
// This is the composition root: every dependency in the app is created and
// wired here, in one place, rather than scattered across packages.
//
// DEPENDENCY GRAPH:
//
//	store (jsonfile or sqlite) ─┬→ AuthService ─→ AuthHandler
//	shared *sync.Mutex ─────────┤
//	TokenService ───────────────┴→ TipService  ─→ TipHandler
//	                │
//	                └→ auth.RequireAuth middleware (protects /tips)
package server

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/sakif/tipboard/internal/auth"
	"github.com/sakif/tipboard/internal/handler"
	"github.com/sakif/tipboard/internal/middleware"
	"github.com/sakif/tipboard/internal/service"
	"github.com/sakif/tipboard/internal/store"
	"github.com/sakif/tipboard/internal/store/jsonfile"
	sqliteStore "github.com/sakif/tipboard/internal/store/sqlite"
)

// Config holds server configuration, assembled from the environment in
// cmd/server.
type Config struct {
	Port        int
	StaticDir   string // frontend files; served at / when non-empty
	DataPath    string // backing file: JSON document or SQLite database
	StoreDriver string // "json" (default) or "sqlite"
	JWTSecret   string // HMAC key shared by token issuance and verification
}

// Server owns the router and the store's lifecycle.
type Server struct {
	router *chi.Mux
	config Config
	logger *slog.Logger
	db     store.Store
}

// New creates a Server with all dependencies wired.
func New(cfg Config, logger *slog.Logger) (*Server, error) {
	db, err := newStore(cfg)
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		db:     db,
	}

	if err := s.setupRoutes(); err != nil {
		s.closeStore()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

// newStore selects the storage backend by driver name.
func newStore(cfg Config) (store.Store, error) {
	switch cfg.StoreDriver {
	case "", "json":
		return jsonfile.New(cfg.DataPath), nil
	case "sqlite":
		return sqliteStore.New(cfg.DataPath)
	default:
		return nil, fmt.Errorf("unknown store driver %q (want \"json\" or \"sqlite\")", cfg.StoreDriver)
	}
}

// setupRoutes configures middleware and routes.
//
// ROUTE STRUCTURE:
//
//	POST   /auth/register  → create account
//	POST   /auth/login     → issue token
//	GET    /tips           → list all tips (auth required)
//	POST   /tips           → create tip (auth required)
//	PUT    /tips           → retitle own tip (auth required)
//	DELETE /tips           → delete own tip (auth required)
//	GET    /*              → static frontend (when StaticDir is set)
func (s *Server) setupRoutes() error {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))
	s.router.Use(middleware.CORS)

	tokens, err := auth.NewTokenService(s.config.JWTSecret)
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}
	passwords := auth.NewPasswordService()

	// One document, one lock: both services serialize their read-modify-write
	// sequences on the same mutex.
	var storeMu sync.Mutex

	authService := service.NewAuthService(s.db, &storeMu, tokens, passwords, s.logger)
	tipService := service.NewTipService(s.db, &storeMu, s.logger)

	authHandler := handler.NewAuthHandler(authService, s.logger)
	tipHandler := handler.NewTipHandler(tipService, s.logger)

	s.router.Route("/auth", func(r chi.Router) {
		r.Post("/register", authHandler.HandleRegister)
		r.Post("/login", authHandler.HandleLogin)
	})

	s.router.Route("/tips", func(r chi.Router) {
		r.Use(auth.RequireAuth(tokens))
		r.Get("/", tipHandler.HandleList)
		r.Post("/", tipHandler.HandleCreate)
		r.Put("/", tipHandler.HandleUpdate)
		r.Delete("/", tipHandler.HandleDelete)
	})

	if s.config.StaticDir != "" {
		fileServer := http.FileServer(http.Dir(s.config.StaticDir))
		s.router.Handle("/*", fileServer)
	} else {
		s.router.NotFound(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"error":"page not found"}`))
		})
	}

	return nil
}

// Handler exposes the assembled router, mainly so tests can drive the full
// middleware + routing stack through httptest without opening a port.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start runs the HTTP server until SIGINT/SIGTERM, then shuts down
// gracefully: stop accepting connections, drain in-flight requests (30s
// budget), close the store.
func (s *Server) Start() error {
	defer s.closeStore()

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
			slog.String("store", s.config.DataPath),
			slog.String("driver", driverName(s.config.StoreDriver)),
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

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}

// closeStore releases store resources. The jsonfile backend holds nothing
// open between operations; the sqlite backend owns a connection pool.
func (s *Server) closeStore() {
	if closer, ok := s.db.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			s.logger.Error("closing store", slog.String("error", err.Error()))
		}
	}
}

func driverName(d string) string {
	if d == "" {
		return "json"
	}
	return d
}
