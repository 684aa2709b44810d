// Package session owns the edit session state machine for a page: the
// idle/typing mode, the selected Edit Target, the pending instruction, and
// the single busy flag that serializes commit, undo and redo.
package session

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"

	"pageforge/internal/dom"
	"pageforge/internal/eventhub"
	"pageforge/internal/generate"
	"pageforge/internal/store"
	"pageforge/internal/target"
)

// Mode is the edit session state.
type Mode string

const (
	ModeIdle   Mode = "idle"
	ModeTyping Mode = "typing"
)

// Op names the class of mutating operation in flight. Exactly one of commit,
// undo or redo may be outstanding at a time.
type Op string

const (
	opNone   Op = ""
	OpCommit Op = "commit"
	OpUndo   Op = "undo"
	OpRedo   Op = "redo"
)

// ErrBusy is returned when a mutating operation is requested while another
// one is still outstanding.
var ErrBusy = errors.New("operation already in flight")

// Controller is the edit session for a single page. All state transitions go
// through it; the displayed snapshot and the version cursor are only ever
// updated together.
type Controller struct {
	mu sync.Mutex

	pageID   string
	mode     Mode
	snapshot string
	cursor   string

	editTarget   *dom.Target
	selectedPath string
	hoveredPath  string
	pending      string
	inflight     Op

	resolver  *target.Resolver
	versions  *store.Client
	generator *generate.Client
	hub       *eventhub.Hub
}

// NewController creates the session for a page mounted with initialHTML.
func NewController(pageID, initialHTML string, versions *store.Client, generator *generate.Client, hub *eventhub.Hub) *Controller {
	return &Controller{
		pageID:    pageID,
		mode:      ModeIdle,
		snapshot:  initialHTML,
		resolver:  target.NewResolver(),
		versions:  versions,
		generator: generator,
		hub:       hub,
	}
}

// State is a consistent copy of the session for clients and tests.
type State struct {
	PageID       string      `json:"pageId"`
	Mode         Mode        `json:"mode"`
	Snapshot     string      `json:"snapshot"`
	VersionID    string      `json:"versionId"`
	Pending      string      `json:"pending"`
	Target       *dom.Target `json:"target,omitempty"`
	SelectedPath string      `json:"selectedPath,omitempty"`
	HoveredPath  string      `json:"hoveredPath,omitempty"`
	Loading      bool        `json:"loading"`
	Op           Op          `json:"op,omitempty"`
}

// State returns a snapshot of the session.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return State{
		PageID:       c.pageID,
		Mode:         c.mode,
		Snapshot:     c.snapshot,
		VersionID:    c.cursor,
		Pending:      c.pending,
		Target:       c.editTarget,
		SelectedPath: c.selectedPath,
		HoveredPath:  c.hoveredPath,
		Loading:      c.inflight != opNone,
		Op:           c.inflight,
	}
}

// SetLayout replaces the page's geometry report.
func (c *Controller) SetLayout(l target.Layout) {
	c.resolver.SetLayout(l)
}

// PointerMove resolves the hover candidate under the cursor. Targeting is
// only active while the session is idle; typing mode ignores all pointer
// activity. The selected outline persists independently of hover.
func (c *Controller) PointerMove(x, y float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.mode != ModeIdle {
		return
	}

	path := ""
	if box, ok := c.resolver.Resolve(x, y, dom.HoverEligible); ok {
		path = box.Path
	}
	if path == c.hoveredPath {
		return
	}
	c.hoveredPath = path
	c.emitOutline()
}

// Click attempts to select an Edit Target. With the session idle it resolves
// under the expanded allow-list; success captures a structural copy of the
// element (presentational attributes stripped), marks it selected, and moves
// the session to typing. Failed resolution is a no-op.
func (c *Controller) Click(x, y float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.mode != ModeIdle {
		return
	}

	box, ok := c.resolver.Resolve(x, y, dom.ClickEligible)
	if !ok {
		return
	}

	t, err := dom.TargetFromPath(c.snapshot, box.Path)
	if err != nil {
		// Geometry report and snapshot disagree; treat as a failed
		// resolution rather than corrupting the session.
		log.Printf("session %s: click target at %s: %v", c.pageID, box.Path, err)
		return
	}

	c.editTarget = t
	c.selectedPath = box.Path
	c.hoveredPath = ""
	c.setMode(ModeTyping, true)
	c.emitOutline()
}

// SelectionChanged reports the user's text selection within the surface.
// A selection becoming non-empty opens the command surface.
func (c *Controller) SelectionChanged(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.mode == ModeIdle && strings.TrimSpace(text) != "" {
		c.setMode(ModeTyping, true)
	}
}

// OpenCommand handles the designated "open command" key.
func (c *Controller) OpenCommand() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.mode == ModeIdle {
		c.setMode(ModeTyping, true)
	}
}

// Input records the pending instruction text. Free text typed into the
// command surface implies typing mode.
func (c *Controller) Input(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.pending = text
	if c.mode == ModeIdle && text != "" {
		c.setMode(ModeTyping, true)
	}
}

// Escape resets the session: defocuses the command surface, clears the
// selected target and pending text, returns to idle. Ignored while an
// operation is in flight so a navigation cannot race an in-flight commit.
func (c *Controller) Escape() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.inflight != opNone {
		return
	}
	if c.mode == ModeIdle && c.selectedPath == "" && c.pending == "" {
		return
	}

	c.reset()
}

// Commit sends the pending instruction to the generation service and applies
// the result. Empty pending text is a no-op; a second mutating operation
// while one is outstanding returns ErrBusy. On failure the session keeps its
// prior mode and the snapshot and cursor are untouched.
func (c *Controller) Commit(ctx context.Context) error {
	c.mu.Lock()
	if c.inflight != opNone {
		c.mu.Unlock()
		return ErrBusy
	}
	if strings.TrimSpace(c.pending) == "" {
		c.mu.Unlock()
		return nil
	}

	req := &generate.Request{
		Text:     c.pending,
		Element:  c.editTarget,
		FullHTML: c.snapshot,
		PageID:   c.pageID,
	}
	if c.cursor != "" {
		cursor := c.cursor
		req.VersionID = &cursor
	}

	c.beginOp(OpCommit)
	c.mu.Unlock()

	resp, err := c.generator.Rewrite(ctx, req)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.endOp()

	if err != nil {
		log.Printf("session %s: commit: %v", c.pageID, err)
		return err
	}

	c.applyVersion(resp.Version.ID, resp.HTML)
	c.reset()
	return nil
}

// setMode transitions the session mode and notifies clients. Callers hold mu.
func (c *Controller) setMode(mode Mode, focus bool) {
	if c.mode == mode {
		return
	}
	c.mode = mode
	c.hub.EmitModeChanged(eventhub.ModeChangedEvent{
		PageID: c.pageID,
		Mode:   string(mode),
		Focus:  focus,
	})
}

// reset clears target, outlines and pending text and returns to idle.
// Callers hold mu.
func (c *Controller) reset() {
	c.editTarget = nil
	c.pending = ""
	changed := c.selectedPath != "" || c.hoveredPath != ""
	c.selectedPath = ""
	c.hoveredPath = ""
	if changed {
		c.emitOutline()
	}
	c.setMode(ModeIdle, false)
}

// applyVersion replaces the snapshot and version cursor together. Callers
// hold mu.
func (c *Controller) applyVersion(versionID, markup string) {
	c.snapshot = markup
	c.cursor = versionID
	c.hub.EmitSnapshotApplied(eventhub.SnapshotAppliedEvent{
		PageID:    c.pageID,
		VersionID: versionID,
		HTML:      markup,
	})
}

// beginOp and endOp bracket a mutating operation. Callers hold mu.
func (c *Controller) beginOp(op Op) {
	c.inflight = op
	c.hub.EmitLoadingChanged(eventhub.LoadingChangedEvent{
		PageID:  c.pageID,
		Loading: true,
		Op:      string(op),
	})
}

func (c *Controller) endOp() {
	op := c.inflight
	c.inflight = opNone
	c.hub.EmitLoadingChanged(eventhub.LoadingChangedEvent{
		PageID:  c.pageID,
		Loading: false,
		Op:      string(op),
	})
}

func (c *Controller) emitOutline() {
	c.hub.EmitOutlineChanged(eventhub.OutlineChangedEvent{
		PageID:       c.pageID,
		HoveredPath:  c.hoveredPath,
		SelectedPath: c.selectedPath,
	})
}
