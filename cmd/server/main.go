package main

import (
	"context"
	"embed"
	"io/fs"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"notesapp/internal/client"
	"notesapp/internal/config"
	mcpserver "notesapp/internal/mcp"
	"notesapp/internal/metrics"
	"notesapp/internal/store"
	"notesapp/internal/web"

	"github.com/mark3labs/mcp-go/server"
)

//go:embed static
var staticFS embed.FS

func main() {
	// Config
	envFile := config.LoadEnvFiles()
	cfg := config.LoadApp()

	// Logger
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))
	if envFile != "" {
		logger.Info("loaded env file", "path", envFile)
	}

	// Wire dependencies
	m := metrics.New("app")
	remote := metrics.Instrument(client.New(cfg.APIURL), m)
	noteStore := store.New(remote, logger)
	stopWatch := m.Watch(noteStore)
	defer stopWatch()
	noteStore.Subscribe(func(ev store.Event) {
		logger.Debug("store changed", "event", ev.Kind.String(), "id", ev.NoteID)
	})

	// Load the notes once; the UI still serves an empty store if this fails.
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	logger.Info("loading notes", "api", cfg.APIURL)
	if err := noteStore.Initialize(ctx); err != nil {
		logger.Error("failed to load notes", "error", err)
	} else {
		logger.Info("notes loaded", "count", noteStore.Len())
	}
	cancel()

	webHandler := web.NewHandler(noteStore, logger)

	// Create MCP server
	mcpSrv := mcpserver.NewServer(noteStore)

	// HTTP router
	mux := http.NewServeMux()

	// Static files
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		log.Fatalf("failed to get static fs: %v", err)
	}
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(sub))))

	// Web UI
	webHandler.Routes(mux)

	// MCP endpoint (HTTP transport)
	// MCP uses POST for requests and GET for SSE streams
	mcpHTTP := server.NewStreamableHTTPServer(mcpSrv)
	mux.Handle("POST /mcp", mcpHTTP)
	mux.Handle("GET /mcp", mcpHTTP)
	mux.Handle("DELETE /mcp", mcpHTTP)

	// Metrics
	mux.Handle("GET /metrics", m.Handler())

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		logger.Info("shutting down server...")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("server shutdown error", "error", err)
		}
	}()

	logger.Info("server starting", "port", cfg.Port)
	logger.Info("endpoints available",
		"web", "http://localhost:"+cfg.Port,
		"mcp", "http://localhost:"+cfg.Port+"/mcp",
		"metrics", "http://localhost:"+cfg.Port+"/metrics",
	)

	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("server error: %v", err)
	}

	logger.Info("server stopped")
}
