/*
Package main is the entry point for the rtchat server.

It loads configuration, initializes the global logging system, wires the
chat core to the WebSocket gateway and upload store, starts the HTTP server,
and handles operating system interrupt signals (SIGINT, SIGTERM) for a
graceful shutdown.
*/
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"rtchat/internal/chat"
	"rtchat/internal/configs"
	"rtchat/internal/handler"
	"rtchat/internal/pkg/logx"
	"rtchat/internal/storage"
	"rtchat/internal/transport/ws"
)

func main() {
	// Load configuration from environment variables
	cfg, err := configs.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize global logger
	logx.InitGlobalLogger(cfg.Environment == "development")
	logx.Logger().Info().
		Str("environment", cfg.Environment).
		Int("port", cfg.Port).
		Strs("allowed_origins", cfg.AllowedOrigins).
		Str("storage_backend", cfg.StorageBackend).
		Msg("Configuration loaded successfully")

	// Create a context that listens for the interrupt signal from the OS.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Upload store
	store, err := storage.NewUploadStore(cfg)
	if err != nil {
		logx.Fatal(err, "Failed to initialize upload store")
	}

	// Transport and chat core
	gateway := ws.NewGateway()
	registry := chat.NewRegistry()
	presence := chat.NewPresenceController(registry, gateway)
	router := chat.NewRouter(registry, gateway)

	// Setup HTTP server and routes
	deps := &handler.AppDeps{
		Config:   cfg,
		Gateway:  gateway,
		Presence: presence,
		Router:   router,
		Store:    store,
	}

	serverAddr := fmt.Sprintf(":%d", cfg.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      handler.Router(deps),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logx.Info(fmt.Sprintf("rtchat server starting on http://localhost%s", serverAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logx.Fatal(err, "Server failed to start")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server.
	<-ctx.Done()
	logx.Info("Received shutdown signal. Starting graceful shutdown...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logx.Fatal(err, "Server forced to shutdown")
	}

	gateway.Shutdown()

	logx.Info("Server gracefully stopped.")
}
