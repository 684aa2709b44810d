package session

import (
	"context"
	"sync"

	"pageforge/internal/eventhub"
	"pageforge/internal/generate"
	"pageforge/internal/store"
)

// Manager holds at most one edit session per page.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Controller

	versions  *store.Client
	generator *generate.Client
	hub       *eventhub.Hub
}

// NewManager creates a session manager backed by the given collaborators.
func NewManager(versions *store.Client, generator *generate.Client, hub *eventhub.Hub) *Manager {
	return &Manager{
		sessions:  make(map[string]*Controller),
		versions:  versions,
		generator: generator,
		hub:       hub,
	}
}

// Open returns the page's session, creating it on first use. A freshly
// created session starts its cursor initialization in the background.
func (m *Manager) Open(ctx context.Context, pageID, initialHTML string) *Controller {
	m.mu.Lock()
	defer m.mu.Unlock()

	if c, exists := m.sessions[pageID]; exists {
		return c
	}

	c := NewController(pageID, initialHTML, m.versions, m.generator, m.hub)
	m.sessions[pageID] = c
	go c.FetchLatest(ctx)
	return c
}

// Get returns the page's session if one is open.
func (m *Manager) Get(pageID string) (*Controller, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.sessions[pageID]
	return c, ok
}

// Close discards the page's session.
func (m *Manager) Close(pageID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, pageID)
}
