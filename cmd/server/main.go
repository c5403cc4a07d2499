package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"herovault/internal/app"
	"herovault/internal/config"
	"herovault/internal/logging"
	"herovault/internal/service"
	"herovault/internal/transport/rest"
	"herovault/internal/transport/ws"
)

// @title HeroVault API
// @version 1.0
// @description Gamified personal finance tracker with live multi-device sync
// @host localhost:8080
// @BasePath /v1
func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "err", err)
		os.Exit(1)
	}
	logger := logging.New(os.Stdout, cfg.Logging)
	slog.SetDefault(logger)

	ctx := context.Background()
	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("startup failed", "err", err)
		os.Exit(1)
	}
	defer a.Close(context.Background())

	wsHub := ws.NewHub(logger)
	defer wsHub.Close()

	authSvc := service.NewAuthService(cfg)
	sessions := service.NewSessionManager(a.Gateway, logger)
	defer sessions.Close()

	// Inject broadcaster (wsHub implements service.Broadcaster)
	sessions.SetBroadcaster(wsHub)
	sessions.SetPresence(wsHub)

	janitorCtx, stopJanitor := context.WithCancel(ctx)
	defer stopJanitor()
	if cfg.SessionIdleTTL > 0 {
		go sessions.RunJanitor(janitorCtx, cfg.SessionIdleTTL/2, cfg.SessionIdleTTL)
	}

	router := rest.NewRouter(&rest.Container{
		AuthService:        authSvc,
		Gateway:            a.Gateway,
		Sessions:           sessions,
		WSHub:              wsHub,
		Logger:             logger,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: router,
	}

	go func() {
		logger.Info("server starting", "port", cfg.HTTPPort, "store", cfg.Store, "redis", cfg.RedisAddr != "")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("listen failed", "err", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "err", err)
	}

	logger.Info("server exited", "sessions", sessions.Active())
}
