package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"notesapp/internal/config"
	"notesapp/internal/db"
	"notesapp/internal/notes"
)

func main() {
	// Config
	envFile := config.LoadEnvFiles()
	cfg := config.LoadAPI()

	// Logger
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))
	if envFile != "" {
		logger.Info("loaded env file", "path", envFile)
	}

	// Context for startup
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Connect to MongoDB
	logger.Info("connecting to MongoDB", "uri", cfg.MongoURI)
	database, err := db.Connect(ctx, cfg.MongoURI, cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to MongoDB: %v", err)
	}
	logger.Info("connected to MongoDB", "database", cfg.Database)

	// Wire dependencies
	noteRepo := notes.NewRepo(database)
	if err := noteRepo.EnsureIndexes(ctx); err != nil {
		logger.Warn("failed to ensure indexes", "error", err)
	}
	noteSvc := notes.NewService(noteRepo)
	noteHandler := notes.NewHandler(noteSvc, logger)

	// HTTP router
	mux := http.NewServeMux()
	noteHandler.Routes(mux)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      notes.WithRequestID(logger, mux),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		logger.Info("shutting down note service...")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("server shutdown error", "error", err)
		}
		if err := db.Disconnect(shutdownCtx, database); err != nil {
			logger.Error("mongo disconnect error", "error", err)
		}
	}()

	logger.Info("note service starting", "port", cfg.Port)

	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("server error: %v", err)
	}

	logger.Info("note service stopped")
}
