package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "golang.org/x/crypto/x509roots/fallback" // Embed CA certs for scratch container

	portalapiadapter "github.com/classportal-dev/classportal/internal/adapter/driven/portalapi"
	sqliteadapter "github.com/classportal-dev/classportal/internal/adapter/driven/sqlite"
	httphandler "github.com/classportal-dev/classportal/internal/adapter/driving/http"
	"github.com/classportal-dev/classportal/internal/application"
	"github.com/classportal-dev/classportal/internal/config"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load configuration (fail fast on missing required env vars).
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	slog.Info("config loaded",
		"api_base_url", cfg.APIBaseURL,
		"listen_addr", cfg.ListenAddr,
		"db_path", cfg.DBPath,
		"http_timeout", cfg.HTTPTimeout,
		"debug", cfg.Debug,
	)

	// 2. Setup signal-based context (SIGINT, SIGTERM).
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Open database (dual reader/writer with WAL mode).
	db, err := sqliteadapter.NewDB(cfg.DBPath)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()
	slog.Info("database opened", "path", cfg.DBPath)

	// 4. Run migrations on writer connection.
	if err := sqliteadapter.RunMigrations(db.Writer); err != nil {
		return err
	}
	slog.Info("migrations complete")

	// 5. Wire the session store and the backend transport pipeline.
	// On authorization failure the transport has already cleared the
	// persisted credential; the injected action drops the in-memory session
	// as well, so memory and storage never disagree. The session service is
	// constructed after the transport, hence the late-bound closure.
	sessionStore := sqliteadapter.NewSessionRepo(db)
	var session *application.Session
	onAuthFailure := func() {
		slog.Warn("session expired, login required")
		if session != nil {
			session.ClearAuth(context.Background())
		}
	}
	transport := portalapiadapter.NewTransport(sessionStore, onAuthFailure, slog.Default(), cfg.Debug)
	backend := portalapiadapter.NewClient(cfg.APIBaseURL, transport, cfg.HTTPTimeout)

	// 6. Create the session service and restore any persisted session.
	session = application.NewSession(backend, sessionStore, slog.Default())
	if err := session.Init(ctx); err != nil {
		slog.Warn("session restore failed, starting unauthenticated", "error", err)
	}
	if user, ok := session.User(); ok {
		slog.Info("session restored", "username", user.Username, "role", user.Role)
	}

	// 7. Create HTTP handler and register API routes.
	apiHandler := httphandler.NewHandler(session, backend, slog.Default())
	mux := http.NewServeMux()
	httphandler.RegisterAPIRoutes(mux, apiHandler)

	// Apply middleware.
	handler := httphandler.ApplyMiddleware(mux, slog.Default())

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		slog.Info("http server starting", "addr", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server error", "error", err)
		}
	}()

	// 8. Wait for shutdown signal.
	<-ctx.Done()
	slog.Info("shutting down")

	// 9. Graceful shutdown with 10s timeout for in-flight request drain.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("http server shutdown error", "error", err)
	}

	slog.Info("shutdown complete")
	return nil
}
