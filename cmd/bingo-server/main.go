package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/devfulton/footy-bingo/internal/bingobuilder"
	"github.com/devfulton/footy-bingo/internal/config"
	"github.com/devfulton/footy-bingo/internal/obslog"
	"github.com/devfulton/footy-bingo/internal/webapi"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	if err := obslog.InitFromEnv(); err != nil {
		log.Fatalf("logger init error: %v", err)
	}
	defer obslog.Sync()
	logger := obslog.L()

	deps, err := bingobuilder.New(cfg, logger)
	if err != nil {
		logger.Fatal("bingo init failed", zap.Error(err))
	}
	defer func() { _ = deps.Cache.Close() }()

	server, err := webapi.NewServer(deps.Service, deps.Fixtures, deps.Cache, deps.Events, deps.Messages,
		webapi.Config{AllowedOrigins: cfg.AllowedOrigins}, logger)
	if err != nil {
		logger.Fatal("server init failed", zap.Error(err))
	}

	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      server.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("bingo server listening", zap.String("addr", cfg.HTTPAddr))
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	case sig := <-shutdown:
		logger.Info("shutdown signal received", zap.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logger.Warn("graceful shutdown failed", zap.Error(err))
			_ = srv.Close()
		}
	}

	logger.Info("shutdown complete")
}
