// Package eventhub fans editor state changes out to connected clients. The
// browser shim applies these events verbatim: outlines, snapshots, mode and
// loading indicators are all pushed from here, never mutated ambiently.
package eventhub

import "context"

// Broadcaster delivers an event to every connected client.
type Broadcaster interface {
	BroadcastEvent(eventType string, payload interface{})
}

// Hub is the single dispatch point for editor events.
type Hub struct {
	ctx         context.Context
	broadcaster Broadcaster
}

// New creates a Hub.
func New(ctx context.Context) *Hub {
	return &Hub{ctx: ctx}
}

// SetBroadcaster installs the transport used to reach clients. Events emitted
// before a broadcaster is installed are dropped.
func (h *Hub) SetBroadcaster(b Broadcaster) {
	h.broadcaster = b
}

func (h *Hub) emit(eventType string, payload interface{}) {
	if h.broadcaster != nil {
		h.broadcaster.BroadcastEvent(eventType, payload)
	}
}

// OutlineChangedEvent is the complete outline truth for a page. The client
// repaints to match: exactly one hover outline (possibly none) and the
// selected outline, which persists independently of hover.
type OutlineChangedEvent struct {
	PageID       string `json:"pageId"`
	HoveredPath  string `json:"hoveredPath,omitempty"`
	SelectedPath string `json:"selectedPath,omitempty"`
}

func (h *Hub) EmitOutlineChanged(event OutlineChangedEvent) {
	h.emit("outline:changed", event)
}

// SnapshotAppliedEvent replaces the rendered document. VersionID and HTML
// always travel together so the client can never render a drifted pair.
type SnapshotAppliedEvent struct {
	PageID    string `json:"pageId"`
	VersionID string `json:"versionId"`
	HTML      string `json:"html"`
}

func (h *Hub) EmitSnapshotApplied(event SnapshotAppliedEvent) {
	h.emit("snapshot:applied", event)
}

// ModeChangedEvent reports an edit session transition. Focus tells the
// command surface whether to grab or release keyboard focus.
type ModeChangedEvent struct {
	PageID string `json:"pageId"`
	Mode   string `json:"mode"`
	Focus  bool   `json:"focus"`
}

func (h *Hub) EmitModeChanged(event ModeChangedEvent) {
	h.emit("session:mode", event)
}

// LoadingChangedEvent reports the busy flag. Op names the operation class in
// flight: "commit", "undo" or "redo".
type LoadingChangedEvent struct {
	PageID  string `json:"pageId"`
	Loading bool   `json:"loading"`
	Op      string `json:"op,omitempty"`
}

func (h *Hub) EmitLoadingChanged(event LoadingChangedEvent) {
	h.emit("session:loading", event)
}

// EmitAssetsReloaded tells dev clients to refresh the overlay assets.
func (h *Hub) EmitAssetsReloaded() {
	h.emit("assets:reloaded", struct{}{})
}
