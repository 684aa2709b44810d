// app.go
package main

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"pageforge/internal/config"
	"pageforge/internal/eventhub"
	"pageforge/internal/generate"
	"pageforge/internal/session"
	"pageforge/internal/store"
	"pageforge/internal/surface"
	"pageforge/internal/watcher"
)

// App wires the editor core together: config, the event hub, the session
// manager and the clients for the generation and version services.
type App struct {
	ctx    context.Context
	mu     sync.RWMutex
	config *config.Config

	eventHub  *eventhub.Hub
	versions  *store.Client
	generator *generate.Client
	sessions  *session.Manager
	keymap    *surface.Keymap

	// devStore is the embedded version store, used when no external store
	// URL is configured.
	devStore     *store.Server
	devDB        *store.Store
	assetWatcher *watcher.Watcher
}

// NewApp creates a new App application struct
func NewApp() *App {
	return &App{}
}

// Startup initializes all managers. It must run before the server accepts
// clients.
func (a *App) Startup(ctx context.Context) error {
	a.ctx = ctx

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	a.config = cfg

	a.eventHub = eventhub.New(ctx)

	keymap, err := surface.NewKeymap(surface.Bindings{
		Open: cfg.Keymap.Open,
		Undo: cfg.Keymap.Undo,
		Redo: cfg.Keymap.Redo,
	})
	if err != nil {
		log.Printf("invalid keymap in config, using defaults: %v", err)
		keymap, _ = surface.NewKeymap(surface.DefaultBindings())
	}
	a.keymap = keymap

	storeURL := cfg.Services.StoreURL
	if storeURL == "" {
		db, err := store.Open(cfg.DatabasePath)
		if err != nil {
			return err
		}
		a.devDB = db
		a.devStore = store.NewServer(db)
		// The embedded store is mounted on our own mux, so the client
		// talks to our own listen address.
		storeURL = "http://" + cfg.Server.Listen
		log.Printf("using embedded version store at %s", cfg.DatabasePath)
	}

	a.versions = store.NewClient(storeURL)
	a.generator = generate.NewClient(cfg.Services.GenerateURL)
	a.sessions = session.NewManager(a.versions, a.generator, a.eventHub)

	a.startAssetWatcher()

	log.Printf("pageforge started")
	return nil
}

// startAssetWatcher watches the overlay asset directory when it exists, so
// development edits push an assets:reloaded event to connected clients.
func (a *App) startAssetWatcher() {
	assetDir := filepath.Join(a.config.PageforgeDir, "assets")
	if _, err := os.Stat(assetDir); err != nil {
		return
	}

	w, err := watcher.New(assetDir, 200*time.Millisecond, func(watcher.Event) {
		a.eventHub.EmitAssetsReloaded()
	})
	if err != nil {
		log.Printf("asset watcher: %v", err)
		return
	}
	if err := w.Start(); err != nil {
		log.Printf("asset watcher: %v", err)
		w.Close()
		return
	}
	a.assetWatcher = w
	log.Printf("watching %s for asset changes", assetDir)
}

// Shutdown releases everything Startup acquired.
func (a *App) Shutdown(ctx context.Context) {
	if a.assetWatcher != nil {
		a.assetWatcher.Close()
	}
	if a.devDB != nil {
		a.devDB.Close()
	}
	log.Printf("pageforge shutdown complete")
}

// SetEventHubBroadcaster connects the hub to the websocket fan-out.
func (a *App) SetEventHubBroadcaster(b eventhub.Broadcaster) {
	if a.eventHub != nil {
		a.eventHub.SetBroadcaster(b)
	}
}
