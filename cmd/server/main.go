// Package main is the entry point for the tipboard server.
//
// main stays minimal: read configuration, build the logger, hand everything
// to internal/server. All actual logic lives in the internal packages.
package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/sakif/tipboard/internal/server"
)

// devJWTSecret is used when JWT_SECRET is unset, so `go run ./cmd/server`
// works out of the box. Anything reachable from the internet must set its
// own: JWT_SECRET=$(openssl rand -hex 32)
const devJWTSecret = "dev-only-secret-change-me!"

func main() {
	// .env is optional — absence is not an error, real env vars win either way.
	_ = godotenv.Load()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))

	port := 3001
	if portStr := os.Getenv("PORT"); portStr != "" {
		var err error
		port, err = strconv.Atoi(portStr)
		if err != nil {
			logger.Error("invalid PORT value", slog.String("value", portStr))
			os.Exit(1)
		}
	}

	// DATA_PATH is the backing file: a JSON document by default, a SQLite
	// database when STORE_DRIVER=sqlite.
	dataPath := "data/tipboard.json"
	if envPath := os.Getenv("DATA_PATH"); envPath != "" {
		dataPath = envPath
	}
	if err := os.MkdirAll(filepath.Dir(dataPath), 0755); err != nil {
		logger.Error("failed to create data directory",
			slog.String("dir", filepath.Dir(dataPath)),
			slog.String("error", err.Error()),
		)
		os.Exit(1)
	}

	staticDir := "web/static"
	if envStatic := os.Getenv("STATIC_DIR"); envStatic != "" {
		staticDir = envStatic
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		logger.Warn("JWT_SECRET not set — using the built-in development secret")
		jwtSecret = devJWTSecret
	}

	cfg := server.Config{
		Port:        port,
		StaticDir:   staticDir,
		DataPath:    dataPath,
		StoreDriver: os.Getenv("STORE_DRIVER"),
		JWTSecret:   jwtSecret,
	}

	srv, err := server.New(cfg, logger)
	if err != nil {
		logger.Error("failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Start blocks until the server is shut down (Ctrl+C or SIGTERM).
	if err := srv.Start(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
