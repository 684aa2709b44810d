// main.go
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pageforge/internal/surface"
	"pageforge/internal/websocket"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app := NewApp()
	if err := app.Startup(ctx); err != nil {
		log.Fatalf("startup: %v", err)
	}

	server := websocket.NewServer(websocket.Options{
		Addr:    app.config.Server.Listen,
		AuthKey: app.config.Server.AuthKey,
	})
	server.Bind(app)
	app.SetEventHubBroadcaster(server)

	server.Handle("/overlay", surface.Handler())
	if app.devStore != nil {
		server.Handle("/api/", app.devStore.Handler())
	}

	errCh := make(chan error, 1)
	go func() { errCh <- server.Start() }()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Printf("received %s, shutting down", sig)
	case err := <-errCh:
		if err != nil {
			log.Printf("server: %v", err)
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	server.Shutdown(shutdownCtx)
	app.Shutdown(shutdownCtx)
}
