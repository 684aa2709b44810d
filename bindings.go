// bindings.go
//
// RPC methods exposed to the browser clients. Every exported method on App
// is callable over the websocket by name.
package main

import (
	"context"
	"fmt"

	"pageforge/internal/session"
	"pageforge/internal/surface"
	"pageforge/internal/target"
)

// OpenPage starts (or resumes) an edit session for a page and returns its
// state. initialHTML is the page markup as first rendered; the session
// reconciles against stored history in the background.
func (a *App) OpenPage(ctx context.Context, pageID, initialHTML string) (session.State, error) {
	if pageID == "" {
		return session.State{}, fmt.Errorf("pageId is required")
	}
	c := a.sessions.Open(ctx, pageID, initialHTML)
	return c.State(), nil
}

// ClosePage drops the session for a page.
func (a *App) ClosePage(pageID string) {
	a.sessions.Close(pageID)
}

// PageState returns the current session state.
func (a *App) PageState(pageID string) (session.State, error) {
	c, ok := a.sessions.Get(pageID)
	if !ok {
		return session.State{}, fmt.Errorf("no session for page %s", pageID)
	}
	return c.State(), nil
}

// UpdateLayout replaces the element geometry the client measured. Clients
// send a fresh layout after every reflow.
func (a *App) UpdateLayout(pageID string, layout target.Layout) error {
	c, ok := a.sessions.Get(pageID)
	if !ok {
		return fmt.Errorf("no session for page %s", pageID)
	}
	c.SetLayout(layout)
	return nil
}

// PointerMove reports the cursor position in page coordinates.
func (a *App) PointerMove(pageID string, x, y float64) error {
	c, ok := a.sessions.Get(pageID)
	if !ok {
		return fmt.Errorf("no session for page %s", pageID)
	}
	c.PointerMove(x, y)
	return nil
}

// Click reports a click in page coordinates.
func (a *App) Click(pageID string, x, y float64) error {
	c, ok := a.sessions.Get(pageID)
	if !ok {
		return fmt.Errorf("no session for page %s", pageID)
	}
	c.Click(x, y)
	return nil
}

// SelectionChanged reports the current text selection. A non-empty
// selection opens the command surface against it.
func (a *App) SelectionChanged(pageID, text string) error {
	c, ok := a.sessions.Get(pageID)
	if !ok {
		return fmt.Errorf("no session for page %s", pageID)
	}
	c.SelectionChanged(text)
	return nil
}

// SetInput replaces the pending instruction text. The overlay reports the
// full textarea contents on every input event.
func (a *App) SetInput(pageID, text string) error {
	c, ok := a.sessions.Get(pageID)
	if !ok {
		return fmt.Errorf("no session for page %s", pageID)
	}
	c.Input(text)
	return nil
}

// KeyEvent routes one key press through the keymap and dispatches the
// resulting action. Plain typing while the overlay is focused flows through
// SetInput instead.
func (a *App) KeyEvent(ctx context.Context, pageID, key string, mod, shift, focused bool) error {
	c, ok := a.sessions.Get(pageID)
	if !ok {
		return fmt.Errorf("no session for page %s", pageID)
	}

	action := a.keymap.Interpret(surface.KeyEvent{
		Key:     key,
		Mod:     mod,
		Shift:   shift,
		Focused: focused,
	})

	switch action {
	case surface.ActionOpen:
		c.OpenCommand()
	case surface.ActionClose:
		c.Escape()
	case surface.ActionCommit:
		return c.Commit(ctx)
	case surface.ActionUndo:
		return c.Undo(ctx)
	case surface.ActionRedo:
		return c.Redo(ctx)
	}
	return nil
}

// Commit submits the pending instruction.
func (a *App) Commit(ctx context.Context, pageID string) error {
	c, ok := a.sessions.Get(pageID)
	if !ok {
		return fmt.Errorf("no session for page %s", pageID)
	}
	return c.Commit(ctx)
}

// Undo steps the page back one version.
func (a *App) Undo(ctx context.Context, pageID string) error {
	c, ok := a.sessions.Get(pageID)
	if !ok {
		return fmt.Errorf("no session for page %s", pageID)
	}
	return c.Undo(ctx)
}

// Redo steps the page forward one version.
func (a *App) Redo(ctx context.Context, pageID string) error {
	c, ok := a.sessions.Get(pageID)
	if !ok {
		return fmt.Errorf("no session for page %s", pageID)
	}
	return c.Redo(ctx)
}

// Escape closes the command surface and discards pending input.
func (a *App) Escape(pageID string) error {
	c, ok := a.sessions.Get(pageID)
	if !ok {
		return fmt.Errorf("no session for page %s", pageID)
	}
	c.Escape()
	return nil
}
