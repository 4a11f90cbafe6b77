package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"spotvoice/internal/config"
	"spotvoice/internal/copywriter"
	"spotvoice/internal/httpserver"
	"spotvoice/internal/logging"
	"spotvoice/internal/store"
	"spotvoice/internal/voice"
)

func main() {
	envPath := flag.String("env", ".env", "path to .env file")
	flag.Parse()

	if err := config.LoadDotEnv(*envPath); err != nil {
		log.Fatalf("failed to load env: %v", err)
	}
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	logger := logging.NewJSON(os.Stdout, cfg.LogLevel)

	writer, err := copywriter.Setup(cfg, voice.ProfileCopywrite, logger)
	if err != nil {
		log.Fatalf("failed to init copywriter: %v", err)
	}

	results := store.NewResultStore(cfg.ResultTTL)
	go results.Start()
	defer results.Stop()

	router := httpserver.NewRouter(httpserver.RouterDeps{
		Logger: logger,
		Copy: httpserver.NewCopyHandler(httpserver.CopyDeps{
			Writer:  writer,
			Store:   results,
			Logger:  logger,
			Timeout: cfg.CopyTimeout,
		}),
	})

	// Запрос обрывается по CopyTimeout раньше, чем сервер закроет соединение,
	// поэтому клиент всегда получает ответ.
	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.CopyTimeout + 30*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("server starting",
			slog.String("addr", cfg.HTTPAddr),
			slog.String("checkpoint", cfg.Tinker.Checkpoint))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", slog.String("error", err.Error()))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown initiated")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", slog.String("error", err.Error()))
	}

	logger.Info("server stopped")
}
